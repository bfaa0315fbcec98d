// Package layout produces candidate star positions for the five galaxy
// shapes.
//
// Every layout shares one acceptance rule: a candidate is accepted only if
// its nearest accepted neighbor is at least [galaxy.MinDistanceBetweenStars]
// away. Each star gets [galaxy.MaxStarPlacementAttempts] candidates; a star
// whose attempts are all rejected is dropped, so a layout may return fewer
// positions than requested.
//
// Layouts are stateless values. [ForShape] builds one per call, and all
// randomness comes from the *rand.Rand passed to [Layout.Positions].
package layout

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	"github.com/matzehuels/stargen/pkg/core/spatial"
)

// Shape selects a layout.
type Shape int

const (
	ShapeIrregular Shape = iota
	ShapeRing
	ShapeSpiral
	ShapeElliptical
	ShapeCluster
)

// Shapes lists all shapes in declaration order.
var Shapes = []Shape{ShapeIrregular, ShapeRing, ShapeSpiral, ShapeElliptical, ShapeCluster}

var shapeNames = [...]string{"Irregular", "Ring", "Spiral", "Elliptical", "Cluster"}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// ParseShape resolves a shape by name (case-insensitive).
func ParseShape(s string) (Shape, error) {
	for i, name := range shapeNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("unknown galaxy shape %q (must be one of: %s)", s, strings.Join(shapeNames[:], ", "))
}

func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Shape) UnmarshalText(b []byte) error {
	v, err := ParseShape(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Layout generates star positions on a width × height map.
type Layout interface {
	// Positions returns up to count distinct positions in placement order.
	Positions(rng *rand.Rand, count, width, height int) []galaxy.MapLocation
}

// Config carries the inputs some layouts need beyond the RNG.
type Config struct {
	// Anchors are fractional coordinates reserved by the elliptical layout.
	Anchors []galaxy.Anchor

	// Jitter is the elliptical layout's positional jitter source. When nil
	// the layout seeds one from the wall clock.
	Jitter *rand.Rand
}

// ForShape returns the layout for shape.
func ForShape(shape Shape, cfg Config) (Layout, error) {
	switch shape {
	case ShapeIrregular:
		return Irregular{}, nil
	case ShapeRing:
		return Ring{}, nil
	case ShapeSpiral:
		return Spiral{Arms: defaultSpiralArms}, nil
	case ShapeElliptical:
		return Elliptical{Anchors: cfg.Anchors, Jitter: cfg.Jitter}, nil
	case ShapeCluster:
		return Cluster{}, nil
	}
	return nil, fmt.Errorf("unknown galaxy shape %v", shape)
}

// placer accumulates accepted positions behind a spatial index.
type placer struct {
	index  *spatial.Index
	region spatial.Rect
	width  int
	height int
	out    []galaxy.MapLocation
}

func newPlacer(count, width, height int) *placer {
	region := spatial.Bounds(width, height)
	return &placer{
		index:  spatial.New(region),
		region: region,
		width:  width,
		height: height,
		out:    make([]galaxy.MapLocation, 0, count),
	}
}

// tryXY rounds a continuous candidate onto the grid and offers it.
func (p *placer) tryXY(x, y float64) bool {
	if math.IsNaN(x) || math.IsNaN(y) {
		return false
	}
	ix, iy := int(math.Round(x)), int(math.Round(y))
	if ix < 0 || iy < 0 || ix >= p.width || iy >= p.height {
		return false
	}
	return p.try(galaxy.NewLocation(ix, iy))
}

func (p *placer) try(loc galaxy.MapLocation) bool {
	if !p.region.Contains(loc) {
		return false
	}
	if p.index.NearestNeighborDistance(loc, p.region) < galaxy.MinDistanceBetweenStars {
		return false
	}
	return p.force(loc)
}

// force accepts loc without the separation check. Occupied cells are
// still refused.
func (p *placer) force(loc galaxy.MapLocation) bool {
	if !p.region.Contains(loc) || p.index.Contains(loc) {
		return false
	}
	p.index.Insert(loc)
	p.out = append(p.out, loc)
	return true
}

// fill runs up to MaxStarPlacementAttempts candidates per star until count
// positions are placed. candidate returns continuous map coordinates.
func (p *placer) fill(count int, candidate func() (x, y float64)) []galaxy.MapLocation {
	for len(p.out) < count {
		placed := false
		for range galaxy.MaxStarPlacementAttempts {
			if p.tryXY(candidate()) {
				placed = true
				break
			}
		}
		if !placed {
			count-- // star dropped
		}
	}
	return p.out
}

// center returns the continuous map center.
func center(width, height int) (cx, cy float64) {
	return float64(width-1) / 2, float64(height-1) / 2
}

func rotate(x, y, theta float64) (float64, float64) {
	s, c := math.Sincos(theta)
	return x*c - y*s, x*s + y*c
}
