package galaxy

import (
	"fmt"
	"math"
)

// MaxCoordinate is the largest X or Y value a [MapLocation] can hold.
const MaxCoordinate = 255

// MapLocation is an integer grid coordinate. Values are clamped to
// [0, MaxCoordinate] on construction, so a MapLocation is always valid.
type MapLocation struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewLocation returns the location (x, y) clamped to the map coordinate range.
func NewLocation(x, y int) MapLocation {
	return MapLocation{X: clamp(x), Y: clamp(y)}
}

func clamp(v int) int {
	return max(0, min(v, MaxCoordinate))
}

// Chebyshev returns max(|dx|, |dy|).
func (l MapLocation) Chebyshev(o MapLocation) int {
	return max(abs(l.X-o.X), abs(l.Y-o.Y))
}

// Distance returns the Euclidean distance between two locations.
func (l MapLocation) Distance(o MapLocation) float64 {
	dx := float64(l.X - o.X)
	dy := float64(l.Y - o.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Offset returns the location shifted by (dx, dy), clamped.
func (l MapLocation) Offset(dx, dy int) MapLocation {
	return NewLocation(l.X+dx, l.Y+dy)
}

// String formats the location as "(x,y)".
func (l MapLocation) String() string {
	return fmt.Sprintf("(%d,%d)", l.X, l.Y)
}

// FractionalLocation maps fractional coordinates in [0,1] onto a
// width × height map.
func FractionalLocation(fx, fy float64, width, height int) MapLocation {
	x := int(math.Round(fx * float64(width-1)))
	y := int(math.Round(fy * float64(height-1)))
	return NewLocation(x, y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Quadrant is one of the four fixed home territories of the map.
type Quadrant int

const (
	QuadrantAlpha Quadrant = iota
	QuadrantBeta
	QuadrantGamma
	QuadrantDelta
)

// Quadrants lists all quadrants in declaration order.
var Quadrants = []Quadrant{QuadrantAlpha, QuadrantBeta, QuadrantGamma, QuadrantDelta}

var quadrantNames = [...]string{"Alpha", "Beta", "Gamma", "Delta"}

func (q Quadrant) String() string {
	if q < 0 || int(q) >= len(quadrantNames) {
		return fmt.Sprintf("Quadrant(%d)", int(q))
	}
	return quadrantNames[q]
}

// ParseQuadrant resolves a quadrant by name (case-insensitive).
func ParseQuadrant(s string) (Quadrant, error) {
	return parseEnum(s, quadrantNames[:], "quadrant", func(i int) Quadrant { return Quadrant(i) })
}

// QuadrantOf returns the quadrant containing loc on a width × height map.
// The top half (small Y) holds Gamma (left) and Delta (right); the bottom
// half holds Alpha (left) and Beta (right).
func QuadrantOf(loc MapLocation, width, height int) Quadrant {
	left := loc.X < width/2
	top := loc.Y < height/2
	switch {
	case top && left:
		return QuadrantGamma
	case top:
		return QuadrantDelta
	case left:
		return QuadrantAlpha
	default:
		return QuadrantBeta
	}
}

func (q Quadrant) MarshalText() ([]byte, error) { return []byte(q.String()), nil }

func (q *Quadrant) UnmarshalText(b []byte) error {
	v, err := ParseQuadrant(string(b))
	if err != nil {
		return err
	}
	*q = v
	return nil
}
