// Package store persists generated galaxies.
//
// Two backends implement [Store]:
//
//   - [SQLite] keeps galaxies in a local database file, used by the CLI's
//     --save flag and by a single-node server
//   - [Mongo] keeps galaxies in a MongoDB collection, used by the server
//
// Galaxies are stored as their JSON document next to a summary [Record].
// IDs are random UUIDs.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	serrors "github.com/matzehuels/stargen/pkg/errors"
	galaxyio "github.com/matzehuels/stargen/pkg/io"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// Record summarizes a stored galaxy.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Seed      uint64    `json:"seed"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Shape     string    `json:"shape"`
	Systems   int       `json:"systems"`
	Colonies  int       `json:"colonies"`
}

// Store saves and loads galaxies.
type Store interface {
	// Save stores g under a new ID.
	Save(ctx context.Context, g *galaxy.Galaxy) (Record, error)

	// Get loads a galaxy. An unknown ID is a NOT_FOUND error.
	Get(ctx context.Context, id string) (*galaxy.Galaxy, Record, error)

	// List returns the most recent records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)

	// Delete removes a galaxy. An unknown ID is a NOT_FOUND error.
	Delete(ctx context.Context, id string) error

	Close() error
}

// newRecord encodes g and builds its record.
func newRecord(g *galaxy.Galaxy) (Record, []byte, error) {
	doc, err := galaxyio.Marshal(g)
	if err != nil {
		return Record{}, nil, err
	}
	return Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Seed:      g.Seed,
		Width:     g.Width,
		Height:    g.Height,
		Shape:     g.Shape,
		Systems:   len(g.Systems),
		Colonies:  len(g.Colonies),
	}, doc, nil
}

func notFound(id string) error {
	return serrors.New(serrors.ErrCodeNotFound, "galaxy %s not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 || limit > DefaultListLimit {
		return DefaultListLimit
	}
	return limit
}
