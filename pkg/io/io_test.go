package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	serrors "github.com/matzehuels/stargen/pkg/errors"
)

func sampleGalaxy(t *testing.T) *galaxy.Galaxy {
	t.Helper()
	a, b := galaxy.MapLocation{X: 30, Y: 2}, galaxy.MapLocation{X: 4, Y: 20}
	g := &galaxy.Galaxy{
		Width:  40,
		Height: 30,
		Seed:   42,
		Shape:  "irregular",
		Systems: []*galaxy.StarSystem{
			{Name: "Deneb Wormhole", Location: a, StarType: galaxy.StarWormhole, Destination: &b},
			{Name: "Vega", Location: galaxy.MapLocation{X: 3, Y: 1}, StarType: galaxy.StarYellow,
				Owner: "FED", Inhabitants: "FED", Bonuses: galaxy.BonusDilithium,
				Planets: []galaxy.Planet{
					{Index: 0, Name: "Vega I", Size: galaxy.SizeSmall, Type: galaxy.PlanetBarren},
					{Index: 1, Name: "Vega II", Size: galaxy.SizeMedium, Type: galaxy.PlanetTerran,
						Moons: []galaxy.MoonType{galaxy.MoonTypeOf(galaxy.MoonSmall, galaxy.MoonShapes[0])}},
				}},
			{Name: "Rigel Wormhole", Location: b, StarType: galaxy.StarWormhole, Destination: &a},
		},
		Colonies: []galaxy.Colony{{Owner: "FED", Name: "Vega II", PlanetIndex: 1, Location: galaxy.MapLocation{X: 3, Y: 1}}},
	}
	if err := g.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return g
}

func TestRoundTrip(t *testing.T) {
	g := sampleGalaxy(t)

	var first bytes.Buffer
	if err := WriteJSON(g, &first); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(bytes.NewReader(first.Bytes()))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	var second bytes.Buffer
	if err := WriteJSON(got, &second); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if first.String() != second.String() {
		t.Errorf("round trip changed the document:\n%s\n---\n%s", first.String(), second.String())
	}

	s, ok := got.Sectors().SystemAt(galaxy.MapLocation{X: 3, Y: 1})
	if !ok || s.Name != "Vega" {
		t.Fatalf("SystemAt(3,1) = %v, %v", s, ok)
	}
	if s.Planets[1].Type != galaxy.PlanetTerran || len(s.Planets[1].Moons) != 1 {
		t.Errorf("planet not preserved: %+v", s.Planets[1])
	}
	if c, ok := got.Colony("FED"); !ok || c.SystemID != s.ID {
		t.Errorf("colony = %+v, want system %d", c, s.ID)
	}
}

func TestWriteJSONEnumNames(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sampleGalaxy(t), &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"format": "stargen/galaxy"`, `"star_type": "Yellow"`, `"type": "Terran"`, `"wormhole_destination"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s", want)
		}
	}
}

func TestReadJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"format", `{"format":"other","version":1,"width":40,"height":30}`},
		{"version", `{"format":"stargen/galaxy","version":9,"width":40,"height":30}`},
		{"dimensions", `{"format":"stargen/galaxy","version":1,"width":2,"height":30}`},
		{"off map", `{"format":"stargen/galaxy","version":1,"width":40,"height":30,
			"systems":[{"name":"A","location":{"x":45,"y":1},"star_type":"Red"}]}`},
		{"duplicate", `{"format":"stargen/galaxy","version":1,"width":40,"height":30,
			"systems":[{"name":"A","location":{"x":1,"y":1},"star_type":"Red"},
			           {"name":"B","location":{"x":1,"y":1},"star_type":"Red"}]}`},
		{"dangling wormhole", `{"format":"stargen/galaxy","version":1,"width":40,"height":30,
			"systems":[{"name":"W","location":{"x":1,"y":1},"star_type":"Wormhole","wormhole_destination":{"x":9,"y":9}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !serrors.Is(err, serrors.ErrCodeInvalidOptions) {
				t.Errorf("code = %s, want %s", serrors.GetCode(err), serrors.ErrCodeInvalidOptions)
			}
		})
	}

	if _, err := ReadJSON(strings.NewReader("{")); err == nil {
		t.Error("malformed JSON should fail")
	}
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "galaxy.json")
	g := sampleGalaxy(t)
	if err := ExportJSON(g, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(got.Systems) != len(g.Systems) || got.Seed != 42 {
		t.Errorf("imported %d systems seed %d", len(got.Systems), got.Seed)
	}

	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); !os.IsNotExist(unwrapAll(err)) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	data, err := Marshal(sampleGalaxy(t))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	g, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if n := len(g.Wormholes()); n != 2 {
		t.Errorf("wormholes = %d, want 2", n)
	}
}

func unwrapAll(err error) error {
	for {
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		err = u.Unwrap()
	}
}
