package galaxy

import (
	"fmt"
	"strings"
)

// MoonSize is the size class of a moon. NoMoon is a valid roll result
// meaning the attempt produced nothing.
type MoonSize int

const (
	MoonNone MoonSize = iota
	MoonSmall
	MoonMedium
	MoonLarge
)

// MoonSizes lists every moon size in declaration order.
var MoonSizes = []MoonSize{MoonNone, MoonSmall, MoonMedium, MoonLarge}

var moonSizeNames = [...]string{"NoMoon", "Small", "Medium", "Large"}

func (s MoonSize) String() string { return enumName(moonSizeNames[:], int(s), "MoonSize") }

// ParseMoonSize resolves a moon size by name (case-insensitive).
func ParseMoonSize(s string) (MoonSize, error) {
	return parseEnum(s, moonSizeNames[:], "moon size", func(i int) MoonSize { return MoonSize(i) })
}

// MoonShape is the visual variant of a moon.
type MoonShape int

const (
	ShapeRound MoonShape = iota
	ShapeCratered
	ShapeIrregular
)

// MoonShapes lists every moon shape in declaration order.
var MoonShapes = []MoonShape{ShapeRound, ShapeCratered, ShapeIrregular}

var moonShapeNames = [...]string{"Round", "Cratered", "Irregular"}

func (s MoonShape) String() string { return enumName(moonShapeNames[:], int(s), "MoonShape") }

// MoonType packs a size and a shape into a single value.
type MoonType int

// MoonTypeOf combines size and shape.
func MoonTypeOf(size MoonSize, shape MoonShape) MoonType {
	return MoonType(int(size)*len(MoonShapes) + int(shape))
}

// Size extracts the moon size.
func (t MoonType) Size() MoonSize { return MoonSize(int(t) / len(MoonShapes)) }

// Shape extracts the moon shape.
func (t MoonType) Shape() MoonShape { return MoonShape(int(t) % len(MoonShapes)) }

func (t MoonType) String() string {
	return fmt.Sprintf("%s/%s", t.Size(), t.Shape())
}

func (t MoonType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *MoonType) UnmarshalText(b []byte) error {
	sizeName, shapeName, ok := strings.Cut(string(b), "/")
	if !ok {
		return fmt.Errorf("malformed moon type %q", b)
	}
	size, err := ParseMoonSize(sizeName)
	if err != nil {
		return err
	}
	shape, err := parseEnum(shapeName, moonShapeNames[:], "moon shape", func(i int) MoonShape { return MoonShape(i) })
	if err != nil {
		return err
	}
	*t = MoonTypeOf(size, shape)
	return nil
}
