package homeworld

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
)

// MinorRaceFrequency controls how many minor races are placed.
type MinorRaceFrequency int

const (
	MinorsNone MinorRaceFrequency = iota
	MinorsFew
	MinorsSome
	MinorsMany
)

var minorFrequencyNames = [...]string{"None", "Few", "Some", "Many"}

type minorTier struct {
	percent int
	cap     int
}

var minorTiers = [...]minorTier{
	MinorsNone: {0, 0},
	MinorsFew:  {10, 8},
	MinorsSome: {20, 16},
	MinorsMany: {35, 30},
}

func (f MinorRaceFrequency) String() string {
	if f < 0 || int(f) >= len(minorFrequencyNames) {
		return fmt.Sprintf("MinorRaceFrequency(%d)", int(f))
	}
	return minorFrequencyNames[f]
}

// ParseMinorRaceFrequency resolves a frequency tier by name
// (case-insensitive).
func ParseMinorRaceFrequency(s string) (MinorRaceFrequency, error) {
	for i, name := range minorFrequencyNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return MinorRaceFrequency(i), nil
		}
	}
	return 0, fmt.Errorf("unknown minor race frequency %q (must be one of: %s)", s, strings.Join(minorFrequencyNames[:], ", "))
}

func (f MinorRaceFrequency) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *MinorRaceFrequency) UnmarshalText(b []byte) error {
	v, err := ParseMinorRaceFrequency(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Target returns the number of minor races to place given the number of
// available positions.
func (f MinorRaceFrequency) Target(available int) int {
	if f < 0 || int(f) >= len(minorTiers) {
		return 0
	}
	t := minorTiers[f]
	return min(available*t.percent/100, t.cap)
}

// placeMinors draws minor races from the quadrant with the fewest placed
// minors. The pass stops at the first race without a free position in its
// home quadrant.
func (s *Solver) placeMinors(rng *rand.Rand, st *state, minors []galaxy.Civilization) []Assignment {
	target := min(s.opts.Minors.Target(st.len()), len(minors))
	if target == 0 {
		return nil
	}

	queues := make(map[galaxy.Quadrant][]galaxy.Civilization, len(galaxy.Quadrants))
	for _, i := range rng.Perm(len(minors)) {
		q := minors[i].HomeQuadrant
		queues[q] = append(queues[q], minors[i])
	}
	placed := make(map[galaxy.Quadrant]int, len(galaxy.Quadrants))

	var out []Assignment
	for len(out) < target {
		q, ok := leastPopulated(queues, placed)
		if !ok {
			break
		}
		civ := queues[q][0]
		queues[q] = queues[q][1:]

		loc, ok := st.first(func(p galaxy.MapLocation) bool {
			return galaxy.QuadrantOf(p, s.opts.Width, s.opts.Height) == q
		})
		if !ok {
			s.opts.Logger.Debug("minor race placement stopped", "race", civ.Key, "quadrant", q, "placed", len(out))
			break
		}
		st.claim(loc)
		placed[q]++
		out = append(out, Assignment{Civilization: civ, Location: loc})
	}
	return out
}

// leastPopulated returns the quadrant with queued races and the fewest
// placements. Ties go to the quadrant declared first.
func leastPopulated(queues map[galaxy.Quadrant][]galaxy.Civilization, placed map[galaxy.Quadrant]int) (galaxy.Quadrant, bool) {
	best, found := galaxy.Quadrant(0), false
	for _, q := range galaxy.Quadrants {
		if len(queues[q]) == 0 {
			continue
		}
		if !found || placed[q] < placed[best] {
			best, found = q, true
		}
	}
	return best, found
}
