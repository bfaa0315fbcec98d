package homeworld

import (
	"github.com/matzehuels/stargen/pkg/core/galaxy"
	"github.com/matzehuels/stargen/pkg/core/spatial"
)

// nearAnchor claims the cell closest to anchor that is either an unclaimed
// candidate or an empty cell at least MinDistanceBetweenStars from every
// star. claimed reports the second case; such a cell is a new star
// position the caller has to compose.
func (st *state) nearAnchor(anchor galaxy.MapLocation) (loc galaxy.MapLocation, claimed, ok bool) {
	loc, ok = spatial.Nearest(anchor, spatial.Bounds(st.width, st.height), func(c galaxy.MapLocation) bool {
		return st.free[c] || st.stars.Vacant(c, galaxy.MinDistanceBetweenStars)
	})
	if !ok {
		return loc, false, false
	}
	if st.free[loc] {
		st.claim(loc)
		return loc, false, true
	}
	st.stars.Insert(loc)
	return loc, true, true
}
