// Package homeworld assigns home systems to civilizations.
//
// The solver is a sequential greedy pass over pre-shuffled candidate
// positions. Empires are placed first, in roster order, and must keep a
// minimum distance from every homeworld placed before them. Minor races
// follow, balanced across quadrants. Civilizations that were not placed are
// pruned from the roster returned in [Result.Roster].
//
// An empire that cannot be placed does not produce an error. The solver
// returns a [Result] with Failure set and the caller decides whether to
// retry the whole generation attempt.
package homeworld

import (
	"fmt"
	"io"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	"github.com/matzehuels/stargen/pkg/core/spatial"
)

// Assignment binds a civilization to its homeworld location.
type Assignment struct {
	Civilization galaxy.Civilization
	Location     galaxy.MapLocation

	// Claimed is true when the location was an empty cell next to an
	// anchor rather than one of the candidate positions.
	Claimed bool
}

// Failure describes an empire that found no valid homeworld.
type Failure struct {
	Civilization string
	Quadrant     galaxy.Quadrant
	MinDistance  float64
	Candidates   int
}

func (f *Failure) Error() string {
	return fmt.Sprintf("no homeworld for %s in %s quadrant (min distance %.1f, %d candidates left)",
		f.Civilization, f.Quadrant, f.MinDistance, f.Candidates)
}

// Result is the outcome of one solver run.
type Result struct {
	Empires []Assignment
	Minors  []Assignment

	// Remaining holds the candidates nobody claimed, in input order.
	Remaining []galaxy.MapLocation

	// Failure is set when an empire could not be placed. The other fields
	// are then incomplete and should be discarded.
	Failure *Failure
}

// OK reports whether every empire was placed.
func (r *Result) OK() bool { return r.Failure == nil }

// Assignments returns empires followed by minor races.
func (r *Result) Assignments() []Assignment {
	return slices.Concat(r.Empires, r.Minors)
}

// Roster returns the placed civilizations, empires first.
func (r *Result) Roster() []galaxy.Civilization {
	out := make([]galaxy.Civilization, 0, len(r.Empires)+len(r.Minors))
	for _, a := range r.Assignments() {
		out = append(out, a.Civilization)
	}
	return out
}

// Homeworlds returns the locations of all assignments.
func (r *Result) Homeworlds() []galaxy.MapLocation {
	out := make([]galaxy.MapLocation, 0, len(r.Empires)+len(r.Minors))
	for _, a := range r.Assignments() {
		out = append(out, a.Location)
	}
	return out
}

// Options configures a [Solver].
type Options struct {
	Width  int
	Height int

	// SinglePlayer restricts empires to their home quadrant.
	SinglePlayer bool

	Minors MinorRaceFrequency

	Logger *log.Logger
}

// Solver places homeworlds on one map.
type Solver struct {
	opts Options
}

// NewSolver creates a solver. It panics on a non-positive map size.
func NewSolver(opts Options) *Solver {
	if opts.Width <= 0 || opts.Height <= 0 {
		panic("homeworld: non-positive map size")
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Solver{opts: opts}
}

// MinHomeDistance is the required spacing between empire homeworlds.
func MinHomeDistance(width, height, empires int) float64 {
	return float64(min(width, height)) / float64(max(1, empires))
}

// Solve assigns homeworlds. candidates must already be shuffled; rng only
// orders the minor races.
func (s *Solver) Solve(rng *rand.Rand, candidates []galaxy.MapLocation, roster []galaxy.Civilization) *Result {
	var empires, minors []galaxy.Civilization
	for _, c := range roster {
		if c.IsEmpire() {
			empires = append(empires, c)
		} else {
			minors = append(minors, c)
		}
	}

	st := newState(s.opts.Width, s.opts.Height, candidates)
	res := &Result{}
	minDist := MinHomeDistance(s.opts.Width, s.opts.Height, len(empires))

	for _, civ := range empires {
		a, ok := s.placeEmpire(st, civ, minDist, res.Empires)
		if !ok {
			res.Failure = &Failure{
				Civilization: civ.Key,
				Quadrant:     civ.HomeQuadrant,
				MinDistance:  minDist,
				Candidates:   st.len(),
			}
			s.opts.Logger.Debug("empire placement failed", "empire", civ.Key, "quadrant", civ.HomeQuadrant)
			return res
		}
		s.opts.Logger.Debug("placed empire", "empire", civ.Key, "location", a.Location, "claimed", a.Claimed)
		res.Empires = append(res.Empires, a)
	}

	res.Minors = s.placeMinors(rng, st, minors)
	res.Remaining = st.remaining()
	return res
}

func (s *Solver) placeEmpire(st *state, civ galaxy.Civilization, minDist float64, placed []Assignment) (Assignment, bool) {
	if civ.Anchor != nil {
		loc, claimed, ok := st.nearAnchor(civ.Anchor.Location(s.opts.Width, s.opts.Height))
		return Assignment{Civilization: civ, Location: loc, Claimed: claimed}, ok
	}
	loc, ok := st.first(func(p galaxy.MapLocation) bool {
		if s.opts.SinglePlayer && galaxy.QuadrantOf(p, s.opts.Width, s.opts.Height) != civ.HomeQuadrant {
			return false
		}
		for _, a := range placed {
			if p.Distance(a.Location) < minDist {
				return false
			}
		}
		return true
	})
	if !ok {
		return Assignment{}, false
	}
	st.claim(loc)
	return Assignment{Civilization: civ, Location: loc}, true
}

// state tracks the unclaimed candidates of one run.
type state struct {
	width, height int
	order         []galaxy.MapLocation
	free          map[galaxy.MapLocation]bool
	stars         *spatial.Index
}

func newState(width, height int, candidates []galaxy.MapLocation) *state {
	st := &state{
		width:  width,
		height: height,
		order:  candidates,
		free:   make(map[galaxy.MapLocation]bool, len(candidates)),
		stars:  spatial.New(spatial.Bounds(width, height)),
	}
	for _, c := range candidates {
		st.free[c] = true
		st.stars.Insert(c)
	}
	return st
}

func (st *state) first(pred func(galaxy.MapLocation) bool) (galaxy.MapLocation, bool) {
	for _, p := range st.order {
		if st.free[p] && pred(p) {
			return p, true
		}
	}
	return galaxy.MapLocation{}, false
}

func (st *state) claim(p galaxy.MapLocation) { delete(st.free, p) }

func (st *state) len() int { return len(st.free) }

func (st *state) remaining() []galaxy.MapLocation {
	out := make([]galaxy.MapLocation, 0, len(st.free))
	for _, p := range st.order {
		if st.free[p] {
			out = append(out, p)
		}
	}
	return out
}
