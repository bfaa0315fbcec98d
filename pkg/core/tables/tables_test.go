package tables

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	serrors "github.com/matzehuels/stargen/pkg/errors"
)

func embeddedFS(t *testing.T) fstest.MapFS {
	t.Helper()
	m := fstest.MapFS{}
	for _, name := range Files {
		data, err := Raw(name)
		if err != nil {
			t.Fatalf("Raw(%s): %v", name, err)
		}
		m[name] = &fstest.MapFile{Data: data}
	}
	return m
}

func TestDefault(t *testing.T) {
	tb, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if got := tb.StarFrequency[galaxy.StarRed]; got != 20 {
		t.Errorf("Red frequency = %d, want 20", got)
	}
	if got := tb.SlotPlanetSize.Weight(0, galaxy.SizeNoWorld); got != -25 {
		t.Errorf("slot 0 NoWorld = %d, want -25", got)
	}
	if got := tb.PlanetSizeMoonSize.Weight(galaxy.SizeAsteroids, galaxy.MoonNone); got < 100 {
		t.Errorf("asteroid belts should strongly prefer no moon, got %d", got)
	}
	if got := tb.StarPlanetSize.Weight(galaxy.StarBlackHole, galaxy.SizeSmall); got != 0 {
		t.Errorf("pair outside domain = %d, want 0", got)
	}
	again, _ := Default()
	if again != tb {
		t.Error("Default should parse once")
	}
}

func TestDomains(t *testing.T) {
	if len(PlanetStars) != 5 {
		t.Errorf("PlanetStars = %v", PlanetStars)
	}
	for _, pt := range SurfaceTypes {
		if pt == galaxy.PlanetGasGiant || pt == galaxy.PlanetAsteroids {
			t.Errorf("SurfaceTypes contains %v", pt)
		}
	}
	if BodySizes[0] != galaxy.SizeSmall {
		t.Errorf("BodySizes should start at Small, got %v", BodySizes[0])
	}
}

func TestLoadRejectsBadTables(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		mutate func(string) string
		want   string
	}{
		{
			name: "missing pair",
			file: FileStarPlanetType,
			mutate: func(s string) string {
				return strings.Replace(s, "Yellow,Terran,15\n", "", 1)
			},
			want: "missing pair",
		},
		{
			name: "duplicate pair",
			file: FileSizePlanetType,
			mutate: func(s string) string {
				return s + "Small,Barren,3\n"
			},
			want: "duplicate pair",
		},
		{
			name: "unknown key",
			file: FileStarFrequency,
			mutate: func(s string) string {
				return strings.Replace(s, "Wormhole,", "Quasar,", 1)
			},
			want: "unknown star type",
		},
		{
			name: "bad weight",
			file: FilePlanetSizeMoonSize,
			mutate: func(s string) string {
				return strings.Replace(s, "Small,NoMoon,40", "Small,NoMoon,lots", 1)
			},
			want: "not an integer",
		},
		{
			name: "outside domain",
			file: FileStarPlanetSize,
			mutate: func(s string) string {
				return s + "Nebula,Small,5\n"
			},
			want: "outside the table domain",
		},
		{
			name: "missing vector key",
			file: FileStarFrequency,
			mutate: func(s string) string {
				return strings.Replace(s, "BlackHole,-40\n", "", 1)
			},
			want: "missing key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := embeddedFS(t)
			f := fsys[tt.file]
			f.Data = []byte(tt.mutate(string(f.Data)))

			_, err := Load(fsys)
			if err == nil {
				t.Fatal("Load should fail")
			}
			if !serrors.Is(err, serrors.ErrCodeInvalidTable) {
				t.Errorf("error code = %q, want INVALID_TABLE", serrors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	fsys := embeddedFS(t)
	delete(fsys, FileSlotPlanetType)
	if _, err := Load(fsys); err == nil {
		t.Error("Load without slot_planet_type.csv should fail")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadDir(dir); err == nil {
		t.Error("LoadDir on an empty directory should fail")
	}
}
