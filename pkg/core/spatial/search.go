package spatial

import "github.com/matzehuels/stargen/pkg/core/galaxy"

// Nearest scans the cells of region in rings of growing Chebyshev radius
// around p and returns the first cell accepted by ok. Cells of one ring are
// visited row by row, top to bottom and left to right.
func Nearest(p galaxy.MapLocation, region Rect, ok func(galaxy.MapLocation) bool) (galaxy.MapLocation, bool) {
	if region.Empty() {
		return galaxy.MapLocation{}, false
	}
	maxR := max(abs(p.X-region.MinX), abs(p.X-region.MaxX), abs(p.Y-region.MinY), abs(p.Y-region.MaxY))
	for r := 0; r <= maxR; r++ {
		for y := p.Y - r; y <= p.Y+r; y++ {
			step := 1
			if r > 0 && y != p.Y-r && y != p.Y+r {
				step = 2 * r
			}
			for x := p.X - r; x <= p.X+r; x += step {
				c := galaxy.MapLocation{X: x, Y: y}
				if region.Contains(c) && ok(c) {
					return c, true
				}
			}
		}
	}
	return galaxy.MapLocation{}, false
}

// Vacant reports whether p is free and at least minDist from every indexed
// point.
func (ix *Index) Vacant(p galaxy.MapLocation, minDist float64) bool {
	if ix.Contains(p) {
		return false
	}
	return ix.NearestNeighborDistance(p, ix.Bounds()) >= minDist
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
