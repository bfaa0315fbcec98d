package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	serrors "github.com/matzehuels/stargen/pkg/errors"
	galaxyio "github.com/matzehuels/stargen/pkg/io"
)

// Memory opens a private in-memory database with [OpenSQLite].
const Memory = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS galaxies (
	id TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL,
	seed INTEGER NOT NULL,
	width INTEGER NOT NULL,
	height INTEGER NOT NULL,
	shape TEXT NOT NULL,
	systems INTEGER NOT NULL,
	colonies INTEGER NOT NULL,
	document BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_galaxies_created ON galaxies(created_at);
`

// SQLite stores galaxies in a SQLite database.
type SQLite struct {
	db *sqlx.DB
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := path
	if path != Memory {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection: an in-memory database exists per connection, and
	// SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Save inserts g.
func (s *SQLite) Save(ctx context.Context, g *galaxy.Galaxy) (Record, error) {
	rec, doc, err := newRecord(g)
	if err != nil {
		return Record{}, err
	}
	// Seeds use the full uint64 range; SQLite integers are signed.
	_, err = s.db.ExecContext(ctx, `INSERT INTO galaxies
		(id, created_at, seed, width, height, shape, systems, colonies, document)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt, int64(rec.Seed), rec.Width, rec.Height, rec.Shape, rec.Systems, rec.Colonies, doc)
	if err != nil {
		return Record{}, fmt.Errorf("insert galaxy: %w", err)
	}
	return rec, nil
}

// Get loads a galaxy by ID.
func (s *SQLite) Get(ctx context.Context, id string) (*galaxy.Galaxy, Record, error) {
	if err := serrors.ValidateGalaxyID(id); err != nil {
		return nil, Record{}, err
	}
	var row sqliteRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM galaxies WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Record{}, notFound(id)
	}
	if err != nil {
		return nil, Record{}, fmt.Errorf("select galaxy: %w", err)
	}
	g, err := galaxyio.Unmarshal(row.Document)
	if err != nil {
		return nil, Record{}, serrors.Wrap(serrors.ErrCodeInternal, err, "decode galaxy %s", id)
	}
	return g, row.record(), nil
}

// List returns the newest records first.
func (s *SQLite) List(ctx context.Context, limit int) ([]Record, error) {
	var rows []sqliteRow
	err := s.db.SelectContext(ctx, &rows, `SELECT id, created_at, seed, width, height, shape, systems, colonies
		FROM galaxies ORDER BY created_at DESC, id LIMIT ?`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list galaxies: %w", err)
	}
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = r.record()
	}
	return out, nil
}

// Delete removes a galaxy by ID.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	if err := serrors.ValidateGalaxyID(id); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM galaxies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete galaxy: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(id)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// sqliteRow scans the signed seed column.
type sqliteRow struct {
	ID        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	Seed      int64     `db:"seed"`
	Width     int       `db:"width"`
	Height    int       `db:"height"`
	Shape     string    `db:"shape"`
	Systems   int       `db:"systems"`
	Colonies  int       `db:"colonies"`
	Document  []byte    `db:"document"`
}

func (r sqliteRow) record() Record {
	return Record{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Seed:      uint64(r.Seed),
		Width:     r.Width,
		Height:    r.Height,
		Shape:     r.Shape,
		Systems:   r.Systems,
		Colonies:  r.Colonies,
	}
}

var _ Store = (*SQLite)(nil)
