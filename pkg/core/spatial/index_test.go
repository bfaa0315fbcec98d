package spatial

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
)

func TestInsertAndQuery(t *testing.T) {
	ix := New(Bounds(40, 30))
	points := []galaxy.MapLocation{
		galaxy.NewLocation(1, 1),
		galaxy.NewLocation(5, 5),
		galaxy.NewLocation(39, 29),
		galaxy.NewLocation(20, 15),
	}
	for _, p := range points {
		if !ix.Insert(p) {
			t.Fatalf("Insert(%v) rejected", p)
		}
	}
	if ix.Insert(galaxy.NewLocation(40, 10)) {
		t.Error("point outside bounds should be rejected")
	}
	if ix.Len() != len(points) {
		t.Errorf("Len = %d, want %d", ix.Len(), len(points))
	}

	got := ix.Query(Rect{0, 0, 10, 10})
	if len(got) != 2 {
		t.Errorf("Query top-left = %v, want 2 points", got)
	}
	if !ix.Contains(galaxy.NewLocation(20, 15)) || ix.Contains(galaxy.NewLocation(20, 16)) {
		t.Error("Contains mismatch")
	}
	if got := ix.Query(Rect{5, 5, 4, 4}); len(got) != 0 {
		t.Error("empty rect should match nothing")
	}
}

func TestQueryAfterSubdivide(t *testing.T) {
	ix := New(Bounds(64, 64))
	rng := rand.New(rand.NewPCG(7, 7))
	seen := map[galaxy.MapLocation]bool{}
	for len(seen) < 500 {
		p := galaxy.NewLocation(rng.IntN(64), rng.IntN(64))
		if seen[p] {
			continue
		}
		seen[p] = true
		ix.Insert(p)
	}
	area := Rect{10, 20, 30, 40}
	want := 0
	for p := range seen {
		if area.Contains(p) {
			want++
		}
	}
	if got := len(ix.Query(area)); got != want {
		t.Errorf("Query returned %d points, brute force found %d", got, want)
	}
}

func TestNearestNeighborDistance(t *testing.T) {
	region := Bounds(50, 50)
	ix := New(region)
	p := galaxy.NewLocation(25, 25)

	if got := ix.NearestNeighborDistance(p, region); !math.IsInf(got, 1) {
		t.Errorf("empty index = %v, want +Inf", got)
	}

	ix.Insert(galaxy.NewLocation(26, 26))
	if got := ix.NearestNeighborDistance(p, region); math.Abs(got-math.Sqrt2) > 1e-9 {
		t.Errorf("adjacent neighbor = %v, want sqrt(2)", got)
	}

	far := New(region)
	far.Insert(galaxy.NewLocation(0, 0))
	want := p.Distance(galaxy.NewLocation(0, 0))
	if got := far.NearestNeighborDistance(p, region); math.Abs(got-want) > 1e-9 {
		t.Errorf("far neighbor = %v, want %v", got, want)
	}
}

func TestNearestNeighborOutsideRegion(t *testing.T) {
	ix := New(Bounds(50, 50))
	ix.Insert(galaxy.NewLocation(45, 45))
	region := Rect{0, 0, 20, 20}
	if got := ix.NearestNeighborDistance(galaxy.NewLocation(10, 10), region); got != 0 {
		t.Errorf("exhausted search = %v, want 0", got)
	}
}

func TestNearestRingOrder(t *testing.T) {
	bounds := Bounds(20, 20)
	p := galaxy.NewLocation(10, 10)

	got, ok := Nearest(p, bounds, func(galaxy.MapLocation) bool { return true })
	if !ok || got != p {
		t.Fatalf("Nearest = %v, %v; want the start cell", got, ok)
	}

	// First cell of ring 1 is the top-left corner of the ring.
	got, _ = Nearest(p, bounds, func(c galaxy.MapLocation) bool { return c != p })
	if want := galaxy.NewLocation(9, 9); got != want {
		t.Errorf("ring 1 first cell = %v, want %v", got, want)
	}

	target := galaxy.NewLocation(13, 8)
	got, ok = Nearest(p, bounds, func(c galaxy.MapLocation) bool { return c == target })
	if !ok || got != target {
		t.Errorf("Nearest = %v, %v; want %v", got, ok, target)
	}
}

func TestNearestClipsToRegion(t *testing.T) {
	bounds := Bounds(10, 10)
	visited := 0
	_, ok := Nearest(galaxy.NewLocation(0, 0), bounds, func(c galaxy.MapLocation) bool {
		if !bounds.Contains(c) {
			t.Fatalf("visited %v outside region", c)
		}
		visited++
		return false
	})
	if ok {
		t.Fatal("predicate never accepts, want not found")
	}
	if visited != 100 {
		t.Errorf("visited %d cells, want 100", visited)
	}
}

func TestVacant(t *testing.T) {
	ix := New(Bounds(20, 20))
	ix.Insert(galaxy.NewLocation(5, 5))
	tests := []struct {
		p    galaxy.MapLocation
		want bool
	}{
		{galaxy.NewLocation(5, 5), false},
		{galaxy.NewLocation(6, 5), false},
		{galaxy.NewLocation(6, 6), true},
		{galaxy.NewLocation(15, 15), true},
	}
	for _, tt := range tests {
		if got := ix.Vacant(tt.p, galaxy.MinDistanceBetweenStars); got != tt.want {
			t.Errorf("Vacant(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}
