// Package catalog holds the descriptor data the generator consumes: the
// civilization roster, the star and nebula name lists, and home system
// overrides.
//
// A default catalog is embedded in the binary. Each part can be replaced
// from a file:
//
//	civilizations  YAML  (empires and minor races, see data/civilizations.yaml)
//	names          YAML  (star_names, nebula_names)
//	home systems   TOML  (per-civilization system overrides)
//
// Home system overrides are lenient: a malformed planet count is logged and
// left unset rather than failing generation. Every other malformed entry is
// an INVALID_DESCRIPTOR error.
package catalog

import (
	_ "embed"
	"os"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	serrors "github.com/matzehuels/stargen/pkg/errors"
)

//go:embed data/civilizations.yaml
var civilizationsYAML []byte

//go:embed data/names.yaml
var namesYAML []byte

//go:embed data/homesystems.toml
var homeSystemsTOML []byte

// Catalog is a loaded descriptor set. It is read-only once built.
type Catalog struct {
	Civilizations []galaxy.Civilization
	StarNames     []string
	NebulaNames   []string
	HomeSystems   map[string]*galaxy.StarSystemDescriptor
}

// Paths names replacement files. Empty fields use the embedded default.
type Paths struct {
	Civilizations string
	Names         string
	HomeSystems   string
}

// Default returns the embedded catalog.
func Default(logger *log.Logger) (*Catalog, error) {
	return Load(Paths{}, logger)
}

// Load builds a catalog from paths, falling back to the embedded data for
// every empty path.
func Load(paths Paths, logger *log.Logger) (*Catalog, error) {
	civData, err := readOr(paths.Civilizations, civilizationsYAML)
	if err != nil {
		return nil, err
	}
	nameData, err := readOr(paths.Names, namesYAML)
	if err != nil {
		return nil, err
	}
	homeData, err := readOr(paths.HomeSystems, homeSystemsTOML)
	if err != nil {
		return nil, err
	}

	civs, err := ParseRoster(civData)
	if err != nil {
		return nil, err
	}
	stars, nebulae, err := ParseNames(nameData)
	if err != nil {
		return nil, err
	}
	homes, err := ParseHomeSystems(homeData, logger)
	if err != nil {
		return nil, err
	}
	return &Catalog{
		Civilizations: civs,
		StarNames:     stars,
		NebulaNames:   nebulae,
		HomeSystems:   homes,
	}, nil
}

func readOr(path string, fallback []byte) ([]byte, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidDescriptor, err, "read %s", path)
	}
	return data, nil
}

// Civilization looks up a civilization by key.
func (c *Catalog) Civilization(key string) (galaxy.Civilization, bool) {
	i := slices.IndexFunc(c.Civilizations, func(civ galaxy.Civilization) bool { return civ.Key == key })
	if i < 0 {
		return galaxy.Civilization{}, false
	}
	return c.Civilizations[i], true
}

// Empires returns the empires in roster order.
func (c *Catalog) Empires() []galaxy.Civilization {
	return c.filter(galaxy.KindEmpire)
}

// MinorRaces returns the minor races in roster order.
func (c *Catalog) MinorRaces() []galaxy.Civilization {
	return c.filter(galaxy.KindMinorRace)
}

func (c *Catalog) filter(kind galaxy.CivilizationKind) []galaxy.Civilization {
	var out []galaxy.Civilization
	for _, civ := range c.Civilizations {
		if civ.Kind == kind {
			out = append(out, civ)
		}
	}
	return out
}

// Roster returns the civilizations taking part in a game: the named empires
// in the given order followed by every minor race. An empty list selects
// every empire in roster order.
func (c *Catalog) Roster(empireKeys []string) ([]galaxy.Civilization, error) {
	var roster []galaxy.Civilization
	if len(empireKeys) == 0 {
		roster = c.Empires()
	} else {
		seen := make(map[string]bool, len(empireKeys))
		for _, key := range empireKeys {
			civ, ok := c.Civilization(key)
			if !ok || !civ.IsEmpire() {
				return nil, serrors.New(serrors.ErrCodeInvalidOptions, "unknown empire %q", key)
			}
			if seen[key] {
				return nil, serrors.New(serrors.ErrCodeInvalidOptions, "empire %q listed twice", key)
			}
			seen[key] = true
			roster = append(roster, civ)
		}
	}
	return append(roster, c.MinorRaces()...), nil
}

// Anchors returns the anchors of every anchored empire, in roster order.
func (c *Catalog) Anchors() []galaxy.Anchor {
	var out []galaxy.Anchor
	for _, civ := range c.Empires() {
		if civ.Anchor != nil {
			out = append(out, *civ.Anchor)
		}
	}
	return out
}
