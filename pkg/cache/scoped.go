package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one cache backend.
//
// Example usage:
//
//	// Keys of the staging server
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// GalaxyKey generates a prefixed galaxy key.
func (k *ScopedKeyer) GalaxyKey(opts GalaxyKeyOpts) string {
	return k.prefix + k.inner.GalaxyKey(opts)
}

// RenderKey generates a prefixed render key. galaxyKey is passed through
// unchanged, so it may itself be scoped.
func (k *ScopedKeyer) RenderKey(galaxyKey string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(galaxyKey, opts)
}
