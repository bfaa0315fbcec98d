package catalog

import (
	"math/rand/v2"
	"slices"
	"sync"
)

// NamePool dispenses names from the front of a list. It is safe for
// concurrent use.
type NamePool struct {
	mu    sync.Mutex
	names []string
}

// NewNamePool copies names and, when rng is non-nil, shuffles the copy.
func NewNamePool(names []string, rng *rand.Rand) *NamePool {
	p := &NamePool{names: slices.Clone(names)}
	if rng != nil {
		rng.Shuffle(len(p.names), func(i, j int) { p.names[i], p.names[j] = p.names[j], p.names[i] })
	}
	return p
}

// Take removes and returns the first name. ok is false once the pool is
// empty.
func (p *NamePool) Take() (name string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.names) == 0 {
		return "", false
	}
	name = p.names[0]
	p.names = p.names[1:]
	return name, true
}

// TakeOr is like Take but calls fallback when the pool is empty.
func (p *NamePool) TakeOr(fallback func() string) string {
	if name, ok := p.Take(); ok {
		return name
	}
	return fallback()
}

// Remove drops every occurrence of name, so names claimed elsewhere are
// never dispensed twice.
func (p *NamePool) Remove(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.names = slices.DeleteFunc(p.names, func(n string) bool { return n == name })
}

// Len returns the number of names left.
func (p *NamePool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.names)
}
