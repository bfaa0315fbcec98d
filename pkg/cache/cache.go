// Package cache provides the result cache shared by the CLI and the server.
//
// Generated galaxies are deterministic for a given set of options and seed,
// so a completed generation can be stored under a key derived from those
// inputs and served again without rerunning the engine.
//
// # Backends
//
//   - [FileCache] stores entries as files, used by the CLI
//   - [RedisCache] stores entries in Redis, used by the API server
//   - [NullCache] never stores anything
//
// # Keys
//
// A [Keyer] derives keys from options. [DefaultKeyer] hashes the canonical
// JSON encoding of the options; [ScopedKeyer] prefixes another keyer's keys.
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached entries.
const (
	// GalaxyTTL is how long a generated galaxy stays cached.
	GalaxyTTL = 7 * 24 * time.Hour

	// RenderTTL is how long a rendered star map stays cached.
	RenderTTL = 7 * 24 * time.Hour
)

// Cache stores opaque byte payloads under string keys.
type Cache interface {
	// Get returns the value for key. A miss returns (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// GalaxyKey returns the key for a generated galaxy.
	GalaxyKey(opts GalaxyKeyOpts) string

	// RenderKey returns the key for a rendered star map of a galaxy.
	RenderKey(galaxyKey string, opts RenderKeyOpts) string
}

// GalaxyKeyOpts holds every option that changes the generated galaxy.
type GalaxyKeyOpts struct {
	Width              int      `json:"width"`
	Height             int      `json:"height"`
	Shape              string   `json:"shape"`
	StarDensity        string   `json:"star_density"`
	PlanetDensity      string   `json:"planet_density"`
	MinorRaces         string   `json:"minor_races"`
	Mode               string   `json:"mode"`
	Empires            []string `json:"empires,omitempty"`
	Seed               uint64   `json:"seed"`
	ReproducibleJitter bool     `json:"reproducible_jitter,omitempty"`
}

// RenderKeyOpts holds the options of a star map rendering.
type RenderKeyOpts struct {
	Format string `json:"format"`
	Labels bool   `json:"labels,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GalaxyKey returns "galaxy:v1:<sha256>" over the options.
func (DefaultKeyer) GalaxyKey(opts GalaxyKeyOpts) string {
	return digest("galaxy", opts)
}

// RenderKey returns "render:v1:<sha256>" over the galaxy key and options.
func (DefaultKeyer) RenderKey(galaxyKey string, opts RenderKeyOpts) string {
	return digest("render", galaxyKey, opts)
}

var _ Keyer = DefaultKeyer{}
