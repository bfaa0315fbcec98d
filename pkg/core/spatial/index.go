// Package spatial provides a bounded point index over map locations with
// region queries and an expanding-box nearest neighbor search.
//
// The index is a point quadtree: each node holds up to [nodeCapacity]
// points before splitting into four children. Query cost is proportional to
// the number of nodes intersecting the query box, which keeps the
// nearest-neighbor probe sub-linear for realistic star densities.
package spatial

import (
	"math"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
)

const nodeCapacity = 8

// initialSearchRadius is the Chebyshev radius of the first probe box.
const initialSearchRadius = 2

// Unconstrained is returned by [Index.NearestNeighborDistance] when the
// index holds no points.
var Unconstrained = math.Inf(1)

// Rect is an inclusive integer rectangle.
type Rect struct {
	MinX, MinY, MaxX, MaxY int
}

// Bounds returns the rectangle covering a width × height map.
func Bounds(width, height int) Rect {
	return Rect{MinX: 0, MinY: 0, MaxX: width - 1, MaxY: height - 1}
}

// Box returns the Chebyshev box of the given radius around p.
func Box(p galaxy.MapLocation, radius int) Rect {
	return Rect{MinX: p.X - radius, MinY: p.Y - radius, MaxX: p.X + radius, MaxY: p.Y + radius}
}

// Empty reports whether r contains no cells.
func (r Rect) Empty() bool { return r.MinX > r.MaxX || r.MinY > r.MaxY }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p galaxy.MapLocation) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Covers reports whether r fully contains o.
func (r Rect) Covers(o Rect) bool {
	return r.MinX <= o.MinX && r.MinY <= o.MinY && r.MaxX >= o.MaxX && r.MaxY >= o.MaxY
}

// Intersect returns the overlap of r and o, which may be empty.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		MinX: max(r.MinX, o.MinX),
		MinY: max(r.MinY, o.MinY),
		MaxX: min(r.MaxX, o.MaxX),
		MaxY: min(r.MaxY, o.MaxY),
	}
}

func (r Rect) intersects(o Rect) bool {
	return !r.Intersect(o).Empty()
}

// Index is a quadtree of map locations. It is not safe for concurrent
// mutation.
type Index struct {
	root  *node
	count int
}

type node struct {
	bounds   Rect
	points   []galaxy.MapLocation
	children *[4]node
}

// New creates an index over bounds.
func New(bounds Rect) *Index {
	return &Index{root: &node{bounds: bounds}}
}

// Bounds returns the region the index covers.
func (ix *Index) Bounds() Rect { return ix.root.bounds }

// Len returns the number of inserted points.
func (ix *Index) Len() int { return ix.count }

// Insert adds p to the index. Points outside the index bounds are rejected.
func (ix *Index) Insert(p galaxy.MapLocation) bool {
	if !ix.root.insert(p) {
		return false
	}
	ix.count++
	return true
}

func (n *node) insert(p galaxy.MapLocation) bool {
	if !n.bounds.Contains(p) {
		return false
	}
	if n.children == nil {
		if len(n.points) < nodeCapacity || !n.splittable() {
			n.points = append(n.points, p)
			return true
		}
		n.subdivide()
	}
	for i := range n.children {
		if n.children[i].insert(p) {
			return true
		}
	}
	return false
}

func (n *node) splittable() bool {
	return n.bounds.MaxX > n.bounds.MinX || n.bounds.MaxY > n.bounds.MinY
}

func (n *node) subdivide() {
	b := n.bounds
	midX := b.MinX + (b.MaxX-b.MinX)/2
	midY := b.MinY + (b.MaxY-b.MinY)/2
	n.children = &[4]node{
		{bounds: Rect{b.MinX, b.MinY, midX, midY}},
		{bounds: Rect{midX + 1, b.MinY, b.MaxX, midY}},
		{bounds: Rect{b.MinX, midY + 1, midX, b.MaxY}},
		{bounds: Rect{midX + 1, midY + 1, b.MaxX, b.MaxY}},
	}
	points := n.points
	n.points = nil
	for _, p := range points {
		for i := range n.children {
			if n.children[i].insert(p) {
				break
			}
		}
	}
}

// Query returns every point inside area.
func (ix *Index) Query(area Rect) []galaxy.MapLocation {
	var found []galaxy.MapLocation
	if area.Empty() {
		return found
	}
	ix.root.query(area, &found)
	return found
}

func (n *node) query(area Rect, found *[]galaxy.MapLocation) {
	if n.bounds.Empty() || !n.bounds.intersects(area) {
		return
	}
	for _, p := range n.points {
		if area.Contains(p) {
			*found = append(*found, p)
		}
	}
	if n.children == nil {
		return
	}
	for i := range n.children {
		n.children[i].query(area, found)
	}
}

// Contains reports whether p has been inserted.
func (ix *Index) Contains(p galaxy.MapLocation) bool {
	return len(ix.Query(Rect{p.X, p.Y, p.X, p.Y})) > 0
}

// NearestNeighborDistance returns the Euclidean distance from p to the
// closest indexed point found by an expanding Chebyshev box search clipped
// to region.
//
// The search starts with a box of radius 2 and doubles the radius until a
// point is found. An empty index returns [Unconstrained]. If the box grows
// to cover the whole region without finding a candidate the result is 0,
// which fails the 1.25 star spacing check. Placement passes the full map
// bounds as region, so every indexed point is found first and the 0 result
// is never reached there.
func (ix *Index) NearestNeighborDistance(p galaxy.MapLocation, region Rect) float64 {
	if ix.count == 0 {
		return Unconstrained
	}
	for radius := initialSearchRadius; ; radius *= 2 {
		box := Box(p, radius).Intersect(region)
		if found := ix.Query(box); len(found) > 0 {
			best := math.Inf(1)
			for _, q := range found {
				best = min(best, p.Distance(q))
			}
			return best
		}
		if box.Covers(region) || region.Empty() {
			return 0
		}
	}
}
