package wormhole

import (
	"testing"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
)

func system(name string, st galaxy.StarType, x, y int) *galaxy.StarSystem {
	return &galaxy.StarSystem{Name: name, StarType: st, Location: galaxy.NewLocation(x, y)}
}

func checkMutual(t *testing.T, a, b *galaxy.StarSystem) {
	t.Helper()
	if a.Destination == nil || b.Destination == nil {
		t.Fatalf("unlinked: %v -> %v, %v -> %v", a.Location, a.Destination, b.Location, b.Destination)
	}
	if *a.Destination != b.Location || *b.Destination != a.Location {
		t.Errorf("not mutual: %v -> %v, %v -> %v", a.Location, *a.Destination, b.Location, *b.Destination)
	}
}

func TestLink(t *testing.T) {
	systems := []*galaxy.StarSystem{
		system("Vega", galaxy.StarWhite, 30, 5),
		system("Rigel", galaxy.StarBlue, 2, 2),
		system("", galaxy.StarWormhole, 31, 6),
		system("", galaxy.StarWormhole, 3, 30),
		system("", galaxy.StarWormhole, 35, 35),
		system("Mutara", galaxy.StarNebula, 32, 6),
	}
	out, res := NewLinker(40, 40, nil).Link(systems, nil)

	if len(res.Scripted) != 2 || len(out) != len(systems)+2 {
		t.Fatalf("scripted = %d, systems = %d", len(res.Scripted), len(out))
	}
	checkMutual(t, res.Scripted[0], res.Scripted[1])
	if want := Endpoints[0].Location(40, 40); res.Scripted[0].Location != want {
		t.Errorf("first endpoint at %v, want %v", res.Scripted[0].Location, want)
	}

	// Scan order: (31,6), (3,30), (35,35).
	checkMutual(t, systems[2], systems[3])
	if res.Unpaired != systems[4] || systems[4].Destination != nil {
		t.Errorf("unpaired = %v", res.Unpaired)
	}
	if res.Pairs != 2 {
		t.Errorf("pairs = %d, want 2", res.Pairs)
	}

	if got := systems[2].Name; got != "Vega Wormhole" {
		t.Errorf("name = %q, want Vega Wormhole (nebula must be skipped)", got)
	}
	if got := systems[3].Name; got != "Rigel Wormhole" {
		t.Errorf("name = %q, want Rigel Wormhole", got)
	}
}

func TestEndpointsAvoidStars(t *testing.T) {
	at := Endpoints[1].Location(40, 40)
	systems := []*galaxy.StarSystem{system("Blocker", galaxy.StarRed, at.X, at.Y)}
	_, res := NewLinker(40, 40, nil).Link(systems, nil)
	for _, s := range res.Scripted {
		for _, other := range systems {
			if d := s.Location.Distance(other.Location); d < galaxy.MinDistanceBetweenStars {
				t.Errorf("endpoint %v is %.2f from %v", s.Location, d, other.Location)
			}
		}
	}
	if d := res.Scripted[1].Location.Chebyshev(at); d != 1 {
		t.Errorf("endpoint %v is %d cells from its anchor, want 1", res.Scripted[1].Location, d)
	}
}

func TestEndpointsAvoidHomeworlds(t *testing.T) {
	home := Endpoints[0].Location(40, 40)
	homeworlds := []galaxy.MapLocation{home, Endpoints[1].Location(40, 40).Offset(1, 1)}
	systems := []*galaxy.StarSystem{system("Bajor", galaxy.StarYellow, home.X, home.Y)}

	_, res := NewLinker(40, 40, nil).Link(systems, homeworlds)
	if len(res.Scripted) != 2 {
		t.Fatalf("scripted = %d, want 2", len(res.Scripted))
	}
	for _, s := range res.Scripted {
		for _, h := range homeworlds {
			if d := s.Location.Distance(h); d <= galaxy.MinHomeworldDistanceFromInterference {
				t.Errorf("endpoint %v is %.2f from homeworld %v", s.Location, d, h)
			}
		}
	}
}

func TestNameWithoutOrdinaryStars(t *testing.T) {
	systems := []*galaxy.StarSystem{system("", galaxy.StarBlackHole, 1, 1)}
	if got := Name(galaxy.NewLocation(0, 0), systems); got != "Wormhole" {
		t.Errorf("Name = %q", got)
	}
}

func TestScanOrder(t *testing.T) {
	a, b := galaxy.NewLocation(5, 1), galaxy.NewLocation(1, 2)
	if ScanOrder(a, b) >= 0 {
		t.Error("row 1 should sort before row 2")
	}
	if ScanOrder(galaxy.NewLocation(1, 3), galaxy.NewLocation(2, 3)) >= 0 {
		t.Error("left should sort before right")
	}
}
