package galaxy

import (
	"fmt"
	"iter"
)

// Sector is one cell of the map grid.
type Sector struct {
	Location MapLocation
	System   *StarSystem
}

// SectorMap is the populated map grid. It is built in two phases:
// [NewSectorMap] allocates the grid, then [SectorMap.Index] attaches systems
// to their sectors. Lookups after indexing are O(1).
type SectorMap struct {
	width, height int
	sectors       []Sector
	byID          map[int]*StarSystem
}

// NewSectorMap allocates an empty width × height grid.
func NewSectorMap(width, height int) *SectorMap {
	m := &SectorMap{
		width:   width,
		height:  height,
		sectors: make([]Sector, width*height),
		byID:    make(map[int]*StarSystem),
	}
	for y := range height {
		for x := range width {
			m.sectors[y*width+x].Location = MapLocation{X: x, Y: y}
		}
	}
	return m
}

// Index places every system into its sector. A second system on an
// occupied sector is an error.
func (m *SectorMap) Index(systems []*StarSystem) error {
	for _, s := range systems {
		sec, ok := m.sector(s.Location)
		if !ok {
			return fmt.Errorf("system %q at %v is outside the %dx%d map", s.Name, s.Location, m.width, m.height)
		}
		if sec.System != nil {
			return fmt.Errorf("sector %v already holds %q", s.Location, sec.System.Name)
		}
		sec.System = s
		m.byID[s.ID] = s
	}
	return nil
}

// Width returns the grid width.
func (m *SectorMap) Width() int { return m.width }

// Height returns the grid height.
func (m *SectorMap) Height() int { return m.height }

// Contains reports whether loc is on the map.
func (m *SectorMap) Contains(loc MapLocation) bool {
	return loc.X >= 0 && loc.Y >= 0 && loc.X < m.width && loc.Y < m.height
}

func (m *SectorMap) sector(loc MapLocation) (*Sector, bool) {
	if !m.Contains(loc) {
		return nil, false
	}
	return &m.sectors[loc.Y*m.width+loc.X], true
}

// Sector returns the sector at loc.
func (m *SectorMap) Sector(loc MapLocation) (Sector, bool) {
	s, ok := m.sector(loc)
	if !ok {
		return Sector{}, false
	}
	return *s, true
}

// SystemAt returns the system at loc, if any.
func (m *SectorMap) SystemAt(loc MapLocation) (*StarSystem, bool) {
	s, ok := m.sector(loc)
	if !ok || s.System == nil {
		return nil, false
	}
	return s.System, true
}

// System returns the system with the given ID.
func (m *SectorMap) System(id int) (*StarSystem, bool) {
	s, ok := m.byID[id]
	return s, ok
}

// Systems iterates over every system in row-major sector order.
func (m *SectorMap) Systems() iter.Seq[*StarSystem] {
	return func(yield func(*StarSystem) bool) {
		for i := range m.sectors {
			if s := m.sectors[i].System; s != nil {
				if !yield(s) {
					return
				}
			}
		}
	}
}

// SystemCount returns the number of indexed systems.
func (m *SectorMap) SystemCount() int { return len(m.byID) }
