package pipeline

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/stargen/pkg/cache"
	"github.com/matzehuels/stargen/pkg/core/galaxy"
	"github.com/matzehuels/stargen/pkg/core/homeworld"
	"github.com/matzehuels/stargen/pkg/core/layout"
	serrors "github.com/matzehuels/stargen/pkg/errors"
	galaxyio "github.com/matzehuels/stargen/pkg/io"
)

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options: %v", err)
	}
	d := Sizes[DefaultSize]
	if o.Width != d.Width || o.Height != d.Height {
		t.Errorf("size = %dx%d, want %dx%d", o.Width, o.Height, d.Width, d.Height)
	}
	if o.Shape != DefaultShape || o.StarDensity != DefaultStarDensity || o.Mode != DefaultMode {
		t.Errorf("defaults not applied: %+v", o)
	}
	if o.MaxAttempts != DefaultMaxAttempts {
		t.Errorf("MaxAttempts = %d, want %d", o.MaxAttempts, DefaultMaxAttempts)
	}
	if o.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent
	o.Shape = "bogus"
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op: %v", err)
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"size", Options{Size: "galactic"}},
		{"width only", Options{Width: 40}},
		{"too small", Options{Width: 4, Height: 4}},
		{"shape", Options{Shape: "torus"}},
		{"star density", Options{StarDensity: "packed"}},
		{"planet density", Options{PlanetDensity: "packed"}},
		{"minor races", Options{MinorRaces: "plenty"}},
		{"mode", Options{Mode: "coop"}},
		{"empire key", Options{Empires: []string{"NOT A KEY"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if !serrors.Is(err, serrors.ErrCodeInvalidOptions) {
				t.Errorf("code = %s, want %s", serrors.GetCode(err), serrors.ErrCodeInvalidOptions)
			}
		})
	}
}

func TestOptionsNormalize(t *testing.T) {
	o := Options{Shape: " Spiral ", Size: "TINY", Empires: []string{"federation"}, MaxAttempts: -7}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if o.Shape != "spiral" || o.shape != layout.ShapeSpiral {
		t.Errorf("shape = %q (%v)", o.Shape, o.shape)
	}
	if o.Empires[0] != "FEDERATION" {
		t.Errorf("empire = %q", o.Empires[0])
	}
	if !o.Unbounded() {
		t.Errorf("negative MaxAttempts should disable the bound, got %d", o.MaxAttempts)
	}
	if got, want := o.StarCount(), 40*30*8/100; got != want {
		t.Errorf("StarCount = %d, want %d", got, want)
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"ascii", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}

	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

// twoEmpires is a small, always feasible configuration.
func twoEmpires(seed uint64) Options {
	return Options{
		Width:       40,
		Height:      40,
		Shape:       "irregular",
		StarDensity: "sparse",
		MinorRaces:  "none",
		Empires:     []string{"FEDERATION", "KLINGONS"},
		Seed:        seed,
	}
}

func TestGenerateTwoEmpires(t *testing.T) {
	g, err := Generate(context.Background(), twoEmpires(7))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(g.Colonies) != 2 {
		t.Fatalf("colonies = %d, want 2", len(g.Colonies))
	}
	for _, key := range []string{"FEDERATION", "KLINGONS"} {
		c, ok := g.Colony(key)
		if !ok {
			t.Fatalf("no colony for %s", key)
		}
		sys, ok := g.Sectors().System(c.SystemID)
		if !ok || sys.Owner != key {
			t.Fatalf("colony of %s points at %+v", key, sys)
		}
		civ := findCiv(t, g, key)
		if got := sys.Planets[c.PlanetIndex].Type; got != civ.HomePlanetType {
			t.Errorf("%s colony planet type = %s, want %s", key, got, civ.HomePlanetType)
		}
	}

	// Minimum home spacing in single player: min(W,H) / empires.
	fed, _ := g.Colony("FEDERATION")
	kli, _ := g.Colony("KLINGONS")
	if d := fed.Location.Distance(kli.Location); d < homeworld.MinHomeDistance(40, 40, 2) {
		t.Errorf("homeworlds %.2f apart", d)
	}
	if q := galaxy.QuadrantOf(fed.Location, 40, 40); q != galaxy.QuadrantAlpha {
		t.Errorf("FEDERATION home in %s", q)
	}

	for i, a := range g.Systems {
		for _, b := range g.Systems[i+1:] {
			if d := a.Location.Distance(b.Location); d < 1.25 {
				t.Errorf("systems %s and %s only %.2f apart", a.Location, b.Location, d)
			}
		}
	}

	for _, w := range g.Wormholes() {
		if w.Destination == nil {
			continue
		}
		d, ok := g.Sectors().SystemAt(*w.Destination)
		if !ok || d.StarType != galaxy.StarWormhole || d.Destination == nil || *d.Destination != w.Location {
			t.Errorf("wormhole %s is not linked back from %v", w.Location, *w.Destination)
		}
	}

	for i, s := range g.Systems {
		if s.ID != i {
			t.Fatalf("system %d has id %d", i, s.ID)
		}
		if len(s.Planets) > s.StarType.MaxNumberOfPlanets() {
			t.Errorf("%s (%s) has %d planets", s.Name, s.StarType, len(s.Planets))
		}
	}
}

func findCiv(t *testing.T, g *galaxy.Galaxy, key string) galaxy.Civilization {
	t.Helper()
	for _, c := range g.Civilizations {
		if c.Key == key {
			return c
		}
	}
	t.Fatalf("civilization %s missing", key)
	return galaxy.Civilization{}
}

func TestGenerateDeterministic(t *testing.T) {
	for _, shape := range []string{"irregular", "ring", "cluster"} {
		t.Run(shape, func(t *testing.T) {
			opts := twoEmpires(99)
			opts.Shape = shape
			a, err := Generate(context.Background(), opts)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			opts = twoEmpires(99)
			opts.Shape = shape
			b, err := Generate(context.Background(), opts)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			da, _ := galaxyio.Marshal(a)
			db, _ := galaxyio.Marshal(b)
			if !bytes.Equal(da, db) {
				t.Error("same seed produced different galaxies")
			}
		})
	}
}

func TestWormholesAvoidHomeworlds(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		g, err := Generate(context.Background(), Options{Size: "small", Seed: seed})
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		for _, w := range g.Wormholes() {
			for _, c := range g.Colonies {
				if d := w.Location.Distance(c.Location); d <= galaxy.MinHomeworldDistanceFromInterference {
					t.Errorf("seed %d: wormhole %v is %.2f from %s homeworld %v", seed, w.Location, d, c.Owner, c.Location)
				}
			}
		}
	}
}

func TestGenerateExhausted(t *testing.T) {
	// Four unanchored empires cannot share three stars.
	opts := Options{
		Width:       8,
		Height:      8,
		StarDensity: "sparse",
		MinorRaces:  "none",
		Empires:     []string{"FEDERATION", "CARDASSIANS", "KLINGONS", "ROMULANS"},
		Seed:        1,
		MaxAttempts: 3,
	}
	_, err := Generate(context.Background(), opts)
	if !serrors.Is(err, serrors.ErrCodeGenerationExhausted) {
		t.Fatalf("err = %v, want %s", err, serrors.ErrCodeGenerationExhausted)
	}
	var failure *homeworld.Failure
	if !errors.As(err, &failure) || failure.Civilization == "" {
		t.Errorf("exhaustion should wrap the last placement failure, got %v", err)
	}
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Generate(ctx, twoEmpires(3)); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestGenerateUnknownEmpire(t *testing.T) {
	opts := twoEmpires(1)
	opts.Empires = []string{"FEDERATION", "ROMULANZ"}
	if _, err := Generate(context.Background(), opts); !serrors.Is(err, serrors.ErrCodeInvalidOptions) {
		t.Errorf("err = %v, want %s", err, serrors.ErrCodeInvalidOptions)
	}
}

func TestGenerateTimeSeed(t *testing.T) {
	g, err := Generate(context.Background(), twoEmpires(0))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if g.Seed == 0 {
		t.Error("the resolved seed should be reported on the galaxy")
	}
}

func TestCacheable(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want bool
	}{
		{"seeded", Options{Seed: 1}, true},
		{"time seed", Options{}, false},
		{"elliptical", Options{Seed: 1, Shape: "elliptical"}, false},
		{"elliptical reproducible", Options{Seed: 1, Shape: "elliptical", ReproducibleJitter: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err != nil {
				t.Fatalf("ValidateAndSetDefaults: %v", err)
			}
			if got := Cacheable(&tt.opts); got != tt.want {
				t.Errorf("Cacheable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunnerCaches(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	first, err := r.Execute(ctx, twoEmpires(11))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheHit || first.Key == "" {
		t.Fatalf("first run: hit=%v key=%q", first.CacheHit, first.Key)
	}

	second, err := r.Execute(ctx, twoEmpires(11))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheHit {
		t.Error("second run should be served from the cache")
	}
	if second.Stats.Systems != first.Stats.Systems || second.Galaxy.Attempts != first.Galaxy.Attempts {
		t.Errorf("cached galaxy differs: %+v vs %+v", second.Stats, first.Stats)
	}

	refresh := twoEmpires(11)
	refresh.Refresh = true
	third, err := r.Execute(ctx, refresh)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if third.CacheHit {
		t.Error("Refresh should bypass the cache")
	}

	unseeded, err := r.Execute(ctx, twoEmpires(0))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if unseeded.Key != "" || unseeded.CacheHit {
		t.Errorf("time seeded run should not be cached: key=%q", unseeded.Key)
	}
}

func TestRunnerRender(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)

	res, err := r.Execute(ctx, twoEmpires(5))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	opts := RenderOptions{Formats: []string{FormatASCII, FormatJSON}}
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		t.Fatalf("RenderWithCacheInfo: %v", err)
	}
	if hit {
		t.Error("first render should miss")
	}
	if len(artifacts[FormatASCII]) == 0 || len(artifacts[FormatJSON]) == 0 {
		t.Fatalf("missing artifacts: %v", artifacts)
	}

	again, hit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		t.Fatalf("RenderWithCacheInfo: %v", err)
	}
	if !hit || !bytes.Equal(again[FormatJSON], artifacts[FormatJSON]) {
		t.Error("second render should be served from the cache")
	}

	if _, _, err := r.RenderWithCacheInfo(ctx, res, RenderOptions{Formats: []string{"gif"}}); err == nil {
		t.Error("unknown format should fail")
	}
}
