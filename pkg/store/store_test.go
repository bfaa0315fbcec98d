package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	serrors "github.com/matzehuels/stargen/pkg/errors"
)

func testGalaxy(t *testing.T, seed uint64) *galaxy.Galaxy {
	t.Helper()
	g := &galaxy.Galaxy{
		Width:  20,
		Height: 20,
		Seed:   seed,
		Shape:  "ring",
		Systems: []*galaxy.StarSystem{
			{Name: "Vega", Location: galaxy.MapLocation{X: 3, Y: 4}, StarType: galaxy.StarYellow, Owner: "FEDERATION"},
			{Name: "Deneb", Location: galaxy.MapLocation{X: 12, Y: 9}, StarType: galaxy.StarRed},
		},
		Colonies: []galaxy.Colony{{Owner: "FEDERATION", Location: galaxy.MapLocation{X: 3, Y: 4}}},
	}
	if err := g.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return g
}

func openMemory(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(Memory)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteSaveGet(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	// Seeds above MaxInt64 survive the signed column.
	const seed = ^uint64(0) - 5
	rec, err := s.Save(ctx, testGalaxy(t, seed))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := uuid.Parse(rec.ID); err != nil {
		t.Errorf("ID %q is not a UUID", rec.ID)
	}
	if rec.Systems != 2 || rec.Colonies != 1 {
		t.Errorf("record = %+v", rec)
	}

	g, got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Seed != seed || g.Seed != seed {
		t.Errorf("seed = %d / %d, want %d", got.Seed, g.Seed, seed)
	}
	if sys, ok := g.Sectors().SystemAt(galaxy.MapLocation{X: 12, Y: 9}); !ok || sys.Name != "Deneb" {
		t.Errorf("SystemAt(12,9) = %v, %v", sys, ok)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, rec.CreatedAt)
	}
}

func TestSQLiteNotFound(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	id := uuid.NewString()

	if _, _, err := s.Get(ctx, id); !serrors.Is(err, serrors.ErrCodeNotFound) {
		t.Errorf("Get unknown: %v", err)
	}
	if err := s.Delete(ctx, id); !serrors.Is(err, serrors.ErrCodeNotFound) {
		t.Errorf("Delete unknown: %v", err)
	}
	if _, _, err := s.Get(ctx, "not-a-uuid"); !serrors.Is(err, serrors.ErrCodeInvalidOptions) {
		t.Errorf("Get malformed id: %v", err)
	}
}

func TestSQLiteListDelete(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	var ids []string
	for seed := range uint64(3) {
		rec, err := s.Save(ctx, testGalaxy(t, seed+1))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		ids = append(ids, rec.ID)
	}

	recs, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("List = %d records, want 3", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].CreatedAt.After(recs[i-1].CreatedAt) {
			t.Error("List should return newest first")
		}
	}
	if recs, _ := s.List(ctx, 2); len(recs) != 2 {
		t.Errorf("List(2) = %d records", len(recs))
	}

	if err := s.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if recs, _ := s.List(ctx, 0); len(recs) != 2 {
		t.Errorf("after Delete: %d records", len(recs))
	}
}

func TestSQLiteFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stargen.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	rec, err := s.Save(ctx, testGalaxy(t, 9))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Close()

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, _, err := reopened.Get(ctx, rec.ID); err != nil {
		t.Errorf("Get after reopen: %v", err)
	}
}
