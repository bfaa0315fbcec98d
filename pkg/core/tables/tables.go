// Package tables loads the distribution tables that steer the weighted
// attribute rolls.
//
// Each table is a weight matrix keyed by a pair of attribute values (star
// type × planet size, slot × planet type, ...) stored as long-form CSV with
// the header "key_a,key_b,weight". The star frequency vector uses
// "key,weight". A default set is embedded in the binary; [LoadDir] reads a
// replacement set with the same file names from disk.
//
// Loading is strict. An unknown key, a duplicate pair, an unparsable weight
// or a missing pair of the enumerated domains rejects the whole set with an
// INVALID_TABLE error. There is no silent default weight.
package tables

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	serrors "github.com/matzehuels/stargen/pkg/errors"
)

//go:embed data/*.csv
var embedded embed.FS

// File names of the table set.
const (
	FileStarFrequency      = "star_frequency.csv"
	FileStarPlanetSize     = "star_planet_size.csv"
	FileStarPlanetType     = "star_planet_type.csv"
	FileSlotPlanetSize     = "slot_planet_size.csv"
	FileSlotPlanetType     = "slot_planet_type.csv"
	FileSizePlanetType     = "size_planet_type.csv"
	FilePlanetSizeMoonSize = "planet_size_moon_size.csv"
	FilePlanetTypeMoonSize = "planet_type_moon_size.csv"
)

// Files lists every file of a table set.
var Files = []string{
	FileStarFrequency,
	FileStarPlanetSize,
	FileStarPlanetType,
	FileSlotPlanetSize,
	FileSlotPlanetType,
	FileSizePlanetType,
	FilePlanetSizeMoonSize,
	FilePlanetTypeMoonSize,
}

// Key domains. A table must hold a weight for every pair of its domains.
var (
	// PlanetStars are the star types that can hold planets.
	PlanetStars = slices.DeleteFunc(slices.Clone(galaxy.StarTypes), func(t galaxy.StarType) bool { return !t.SupportsPlanets() })

	// Slots are the orbital slot indices.
	Slots = func() []int {
		s := make([]int, galaxy.MaxPlanetsPerSystem)
		for i := range s {
			s[i] = i
		}
		return s
	}()

	// SolidSizes are planet sizes that still need a rolled type.
	SolidSizes = []galaxy.PlanetSize{galaxy.SizeSmall, galaxy.SizeMedium, galaxy.SizeLarge, galaxy.SizeGiant}

	// SurfaceTypes are planet types a solid planet may roll.
	SurfaceTypes = slices.DeleteFunc(slices.Clone(galaxy.PlanetTypes), func(t galaxy.PlanetType) bool {
		_, forced := t.MatchingSize()
		return forced
	})

	// BodySizes are planet sizes that occupy a slot.
	BodySizes = galaxy.PlanetSizes[1:]
)

// Matrix is an immutable weight table keyed by (A, B).
type Matrix[A, B comparable] struct {
	name    string
	weights map[A]map[B]int
}

// Weight returns the modifier for (a, b). Pairs outside the table domains
// weigh 0.
func (m Matrix[A, B]) Weight(a A, b B) int {
	return m.weights[a][b]
}

// Name returns the file the matrix was loaded from.
func (m Matrix[A, B]) Name() string { return m.name }

// Tables is a complete, validated table set.
type Tables struct {
	StarFrequency      map[galaxy.StarType]int
	StarPlanetSize     Matrix[galaxy.StarType, galaxy.PlanetSize]
	StarPlanetType     Matrix[galaxy.StarType, galaxy.PlanetType]
	SlotPlanetSize     Matrix[int, galaxy.PlanetSize]
	SlotPlanetType     Matrix[int, galaxy.PlanetType]
	SizePlanetType     Matrix[galaxy.PlanetSize, galaxy.PlanetType]
	PlanetSizeMoonSize Matrix[galaxy.PlanetSize, galaxy.MoonSize]
	PlanetTypeMoonSize Matrix[galaxy.PlanetType, galaxy.MoonSize]
}

var defaults = sync.OnceValues(func() (*Tables, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
})

// Default returns the embedded table set. It is parsed once.
func Default() (*Tables, error) {
	return defaults()
}

// MustDefault is like [Default] but panics if the embedded set is invalid.
func MustDefault() *Tables {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}

// LoadDir loads a table set from dir.
func LoadDir(dir string) (*Tables, error) {
	return Load(os.DirFS(dir))
}

// Load reads and validates a table set from fsys.
func Load(fsys fs.FS) (*Tables, error) {
	t, err := load(fsys)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidTable, err, "load distribution tables")
	}
	return t, nil
}

func load(fsys fs.FS) (*Tables, error) {
	var (
		t   Tables
		err error
	)
	if t.StarFrequency, err = loadVector(fsys, FileStarFrequency, galaxy.StarTypes, galaxy.ParseStarType); err != nil {
		return nil, err
	}
	if t.StarPlanetSize, err = loadMatrix(fsys, FileStarPlanetSize, PlanetStars, galaxy.ParseStarType, galaxy.PlanetSizes, galaxy.ParsePlanetSize); err != nil {
		return nil, err
	}
	if t.StarPlanetType, err = loadMatrix(fsys, FileStarPlanetType, PlanetStars, galaxy.ParseStarType, SurfaceTypes, galaxy.ParsePlanetType); err != nil {
		return nil, err
	}
	if t.SlotPlanetSize, err = loadMatrix(fsys, FileSlotPlanetSize, Slots, parseSlot, galaxy.PlanetSizes, galaxy.ParsePlanetSize); err != nil {
		return nil, err
	}
	if t.SlotPlanetType, err = loadMatrix(fsys, FileSlotPlanetType, Slots, parseSlot, SurfaceTypes, galaxy.ParsePlanetType); err != nil {
		return nil, err
	}
	if t.SizePlanetType, err = loadMatrix(fsys, FileSizePlanetType, SolidSizes, galaxy.ParsePlanetSize, SurfaceTypes, galaxy.ParsePlanetType); err != nil {
		return nil, err
	}
	if t.PlanetSizeMoonSize, err = loadMatrix(fsys, FilePlanetSizeMoonSize, BodySizes, galaxy.ParsePlanetSize, galaxy.MoonSizes, galaxy.ParseMoonSize); err != nil {
		return nil, err
	}
	if t.PlanetTypeMoonSize, err = loadMatrix(fsys, FilePlanetTypeMoonSize, galaxy.PlanetTypes, galaxy.ParsePlanetType, galaxy.MoonSizes, galaxy.ParseMoonSize); err != nil {
		return nil, err
	}
	return &t, nil
}

type pairRow struct {
	KeyA   string `csv:"key_a"`
	KeyB   string `csv:"key_b"`
	Weight string `csv:"weight"`
}

type vectorRow struct {
	Key    string `csv:"key"`
	Weight string `csv:"weight"`
}

func readRows[R any](fsys fs.FS, name string) ([]R, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	var rows []R
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return rows, nil
}

func loadMatrix[A, B comparable](
	fsys fs.FS, name string,
	domA []A, parseA func(string) (A, error),
	domB []B, parseB func(string) (B, error),
) (Matrix[A, B], error) {
	rows, err := readRows[pairRow](fsys, name)
	if err != nil {
		return Matrix[A, B]{}, err
	}

	weights := make(map[A]map[B]int, len(domA))
	for i, row := range rows {
		line := i + 2 // header is line 1
		a, err := parseA(row.KeyA)
		if err != nil {
			return Matrix[A, B]{}, fmt.Errorf("%s:%d: %w", name, line, err)
		}
		b, err := parseB(row.KeyB)
		if err != nil {
			return Matrix[A, B]{}, fmt.Errorf("%s:%d: %w", name, line, err)
		}
		if !slices.Contains(domA, a) || !slices.Contains(domB, b) {
			return Matrix[A, B]{}, fmt.Errorf("%s:%d: pair (%s, %s) is outside the table domain", name, line, row.KeyA, row.KeyB)
		}
		w, err := parseWeight(row.Weight)
		if err != nil {
			return Matrix[A, B]{}, fmt.Errorf("%s:%d: %w", name, line, err)
		}
		if weights[a] == nil {
			weights[a] = make(map[B]int, len(domB))
		}
		if _, dup := weights[a][b]; dup {
			return Matrix[A, B]{}, fmt.Errorf("%s:%d: duplicate pair (%s, %s)", name, line, row.KeyA, row.KeyB)
		}
		weights[a][b] = w
	}

	for _, a := range domA {
		for _, b := range domB {
			if _, ok := weights[a][b]; !ok {
				return Matrix[A, B]{}, fmt.Errorf("%s: missing pair (%v, %v)", name, a, b)
			}
		}
	}
	return Matrix[A, B]{name: name, weights: weights}, nil
}

func loadVector[K comparable](fsys fs.FS, name string, dom []K, parse func(string) (K, error)) (map[K]int, error) {
	rows, err := readRows[vectorRow](fsys, name)
	if err != nil {
		return nil, err
	}
	weights := make(map[K]int, len(dom))
	for i, row := range rows {
		line := i + 2
		k, err := parse(row.Key)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, line, err)
		}
		w, err := parseWeight(row.Weight)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, line, err)
		}
		if _, dup := weights[k]; dup {
			return nil, fmt.Errorf("%s:%d: duplicate key %s", name, line, row.Key)
		}
		weights[k] = w
	}
	for _, k := range dom {
		if _, ok := weights[k]; !ok {
			return nil, fmt.Errorf("%s: missing key %v", name, k)
		}
	}
	return weights, nil
}

func parseWeight(s string) (int, error) {
	w, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("weight %q is not an integer", s)
	}
	return w, nil
}

func parseSlot(s string) (int, error) {
	slot, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("slot %q is not an integer", s)
	}
	return slot, nil
}

// Raw returns the embedded CSV source of a table file.
func Raw(name string) ([]byte, error) {
	return embedded.ReadFile("data/" + name)
}
