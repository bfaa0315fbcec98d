package galaxy

// StarSystemDescriptor is a partially resolved star system. Nil fields are
// resolved by the composer before the system is committed.
type StarSystemDescriptor struct {
	StarType    *StarType
	Name        *string
	Inhabitants *string
	Bonuses     Bonus
	Planets     []PlanetDescriptor
}

// PlanetDescriptor is a partially resolved planet slot. When MaxCount > 1
// the descriptor is an unresolved slot group that expands into between
// MinCount and MaxCount concrete planets. A MaxCount of 0 means no count
// was given and the descriptor is a single planet; a slot counted as zero
// is never represented.
type PlanetDescriptor struct {
	Size     *PlanetSize
	Type     *PlanetType
	Name     *string
	Bonuses  Bonus
	MinCount int
	MaxCount int
}

// IsGroup reports whether d still needs expansion.
func (d PlanetDescriptor) IsGroup() bool { return d.MaxCount > 1 }

// Single returns a copy of d describing exactly one planet.
func (d PlanetDescriptor) Single() PlanetDescriptor {
	d.MinCount, d.MaxCount = 1, 1
	return d
}

// Ptr returns a pointer to v, for filling optional descriptor fields.
func Ptr[T any](v T) *T { return &v }
