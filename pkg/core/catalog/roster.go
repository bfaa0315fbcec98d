package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	serrors "github.com/matzehuels/stargen/pkg/errors"
)

type rosterFile struct {
	Empires    []civEntry `yaml:"empires"`
	MinorRaces []civEntry `yaml:"minor_races"`
}

type civEntry struct {
	Key            string         `yaml:"key"`
	Name           string         `yaml:"name"`
	HomeQuadrant   string         `yaml:"home_quadrant"`
	HomePlanetType string         `yaml:"home_planet_type"`
	HomePlanetSize string         `yaml:"home_planet_size"`
	HomeStarType   string         `yaml:"home_star_type"`
	Anchor         *galaxy.Anchor `yaml:"anchor"`
}

// ParseRoster decodes a civilization roster. Empires come first, then minor
// races, each in file order.
func ParseRoster(data []byte) ([]galaxy.Civilization, error) {
	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidDescriptor, err, "parse civilization roster")
	}

	seen := make(map[string]bool)
	var out []galaxy.Civilization
	for _, group := range []struct {
		kind    galaxy.CivilizationKind
		entries []civEntry
	}{
		{galaxy.KindEmpire, f.Empires},
		{galaxy.KindMinorRace, f.MinorRaces},
	} {
		for _, e := range group.entries {
			civ, err := e.civilization(group.kind)
			if err != nil {
				return nil, err
			}
			if seen[civ.Key] {
				return nil, serrors.New(serrors.ErrCodeInvalidDescriptor, "civilization %q defined twice", civ.Key)
			}
			seen[civ.Key] = true
			out = append(out, civ)
		}
	}
	return out, nil
}

func (e civEntry) civilization(kind galaxy.CivilizationKind) (galaxy.Civilization, error) {
	if err := serrors.ValidateKey(e.Key); err != nil {
		return galaxy.Civilization{}, err
	}
	bad := func(err error) (galaxy.Civilization, error) {
		return galaxy.Civilization{}, serrors.Wrap(serrors.ErrCodeInvalidDescriptor, err, "civilization %s", e.Key)
	}

	civ := galaxy.Civilization{Key: e.Key, Name: e.Name, Kind: kind}
	if civ.Name == "" {
		civ.Name = e.Key
	}
	var err error
	if civ.HomeQuadrant, err = galaxy.ParseQuadrant(e.HomeQuadrant); err != nil {
		return bad(err)
	}
	if civ.HomePlanetType, err = galaxy.ParsePlanetType(e.HomePlanetType); err != nil {
		return bad(err)
	}
	if !civ.HomePlanetType.Habitable() {
		return bad(fmt.Errorf("home planet type %v is not habitable", civ.HomePlanetType))
	}
	if civ.HomePlanetSize, err = galaxy.ParsePlanetSize(e.HomePlanetSize); err != nil {
		return bad(err)
	}
	if _, forced := civ.HomePlanetSize.MatchingType(); forced || civ.HomePlanetSize == galaxy.SizeNoWorld {
		return bad(fmt.Errorf("home planet size %v cannot be settled", civ.HomePlanetSize))
	}
	if e.HomeStarType != "" {
		st, err := galaxy.ParseStarType(e.HomeStarType)
		if err != nil {
			return bad(err)
		}
		if !st.SupportsPlanets() {
			return bad(fmt.Errorf("home star type %v cannot hold planets", st))
		}
		civ.HomeStarType = &st
	}
	if e.Anchor != nil {
		if kind != galaxy.KindEmpire {
			return bad(fmt.Errorf("only empires may be anchored"))
		}
		a := *e.Anchor
		if a.X < 0 || a.X > 1 || a.Y < 0 || a.Y > 1 {
			return bad(fmt.Errorf("anchor (%g, %g) is outside [0,1]", a.X, a.Y))
		}
		civ.Anchor = &a
	}
	return civ, nil
}

type namesFile struct {
	StarNames   []string `yaml:"star_names"`
	NebulaNames []string `yaml:"nebula_names"`
}

// ParseNames decodes the star and nebula name lists.
func ParseNames(data []byte) (stars, nebulae []string, err error) {
	var f namesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, serrors.Wrap(serrors.ErrCodeInvalidDescriptor, err, "parse name lists")
	}
	if len(f.StarNames) == 0 {
		return nil, nil, serrors.New(serrors.ErrCodeInvalidDescriptor, "name lists: star_names is empty")
	}
	return f.StarNames, f.NebulaNames, nil
}
