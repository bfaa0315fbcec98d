package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	serrors "github.com/matzehuels/stargen/pkg/errors"
)

type homeSystemsFile struct {
	Systems []homeSystemEntry `toml:"system"`
}

type homeSystemEntry struct {
	Race        string            `toml:"race"`
	Name        string            `toml:"name"`
	StarType    string            `toml:"star_type"`
	Inhabitants string            `toml:"inhabitants"`
	Bonuses     string            `toml:"bonuses"`
	Planets     []homePlanetEntry `toml:"planet"`
}

type homePlanetEntry struct {
	Name    string `toml:"name"`
	Size    string `toml:"size"`
	Type    string `toml:"type"`
	Bonuses string `toml:"bonuses"`
	Count   string `toml:"count"`
}

// ParseHomeSystems decodes home system overrides keyed by civilization.
// Planet counts that do not parse are logged and left unset.
func ParseHomeSystems(data []byte, logger *log.Logger) (map[string]*galaxy.StarSystemDescriptor, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var f homeSystemsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidDescriptor, err, "parse home systems")
	}

	out := make(map[string]*galaxy.StarSystemDescriptor, len(f.Systems))
	for _, e := range f.Systems {
		if err := serrors.ValidateKey(e.Race); err != nil {
			return nil, err
		}
		if _, dup := out[e.Race]; dup {
			return nil, serrors.New(serrors.ErrCodeInvalidDescriptor, "home system for %q defined twice", e.Race)
		}
		d, err := e.descriptor(logger)
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrCodeInvalidDescriptor, err, "home system %s", e.Race)
		}
		out[e.Race] = d
	}
	return out, nil
}

func (e homeSystemEntry) descriptor(logger *log.Logger) (*galaxy.StarSystemDescriptor, error) {
	d := &galaxy.StarSystemDescriptor{}
	if e.Name != "" {
		d.Name = galaxy.Ptr(e.Name)
	}
	if e.Inhabitants != "" {
		d.Inhabitants = galaxy.Ptr(e.Inhabitants)
	}
	if e.StarType != "" {
		st, err := galaxy.ParseStarType(e.StarType)
		if err != nil {
			return nil, err
		}
		if !st.SupportsPlanets() {
			return nil, fmt.Errorf("star type %v cannot hold a home system", st)
		}
		d.StarType = &st
	}
	var err error
	if d.Bonuses, err = galaxy.ParseBonus(e.Bonuses); err != nil {
		return nil, err
	}

	for i, p := range e.Planets {
		pd, err := p.descriptor()
		if err != nil {
			return nil, fmt.Errorf("planet %d: %w", i+1, err)
		}
		if p.Count != "" {
			lo, hi, err := parseCount(p.Count)
			if err != nil {
				logger.Warn("ignoring planet count", "race", e.Race, "planet", i+1, "count", p.Count, "err", err)
			} else if hi == 0 {
				// Descriptors cannot carry an explicit zero: MaxCount 0
				// means "no count given", which is one planet.
				logger.Debug("dropping planet with count 0", "race", e.Race, "planet", i+1)
				continue
			} else {
				pd.MinCount, pd.MaxCount = lo, hi
			}
		}
		d.Planets = append(d.Planets, pd)
	}
	return d, nil
}

func (p homePlanetEntry) descriptor() (galaxy.PlanetDescriptor, error) {
	var pd galaxy.PlanetDescriptor
	if p.Name != "" {
		pd.Name = galaxy.Ptr(p.Name)
	}
	if p.Size != "" {
		size, err := galaxy.ParsePlanetSize(p.Size)
		if err != nil {
			return pd, err
		}
		pd.Size = &size
	}
	if p.Type != "" {
		pt, err := galaxy.ParsePlanetType(p.Type)
		if err != nil {
			return pd, err
		}
		pd.Type = &pt
	}
	if pd.Size != nil && pd.Type != nil {
		forcedType, sizeForces := pd.Size.MatchingType()
		forcedSize, typeForces := pd.Type.MatchingSize()
		if (sizeForces && forcedType != *pd.Type) || (typeForces && forcedSize != *pd.Size) {
			return pd, fmt.Errorf("size %v does not match type %v", *pd.Size, *pd.Type)
		}
	}
	var err error
	pd.Bonuses, err = galaxy.ParseBonus(p.Bonuses)
	return pd, err
}

// parseCount parses "n" or "min-max".
func parseCount(s string) (lo, hi int, err error) {
	loStr, hiStr, isRange := strings.Cut(strings.TrimSpace(s), "-")
	if lo, err = strconv.Atoi(strings.TrimSpace(loStr)); err != nil {
		return 0, 0, err
	}
	hi = lo
	if isRange {
		if hi, err = strconv.Atoi(strings.TrimSpace(hiStr)); err != nil {
			return 0, 0, err
		}
	}
	if lo < 0 || hi < lo || hi > galaxy.MaxPlanetsPerSystem {
		return 0, 0, fmt.Errorf("range %d-%d is outside 0-%d", lo, hi, galaxy.MaxPlanetsPerSystem)
	}
	return lo, hi, nil
}
