//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	serrors "github.com/matzehuels/stargen/pkg/errors"
)

func TestMongo_Integration(t *testing.T) {
	uri := os.Getenv("STARGEN_MONGO_URI")
	if uri == "" {
		t.Skip("STARGEN_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	m, err := OpenMongo(ctx, uri, "stargen_test")
	if err != nil {
		t.Fatalf("OpenMongo: %v", err)
	}
	defer m.Close()

	rec, err := m.Save(ctx, testGalaxy(t, 77))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	g, got, err := m.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if g.Seed != 77 || got.Systems != 2 {
		t.Errorf("loaded %+v", got)
	}
	if recs, err := m.List(ctx, 10); err != nil || len(recs) == 0 {
		t.Errorf("List = %v, %v", recs, err)
	}
	if err := m.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := m.Get(ctx, rec.ID); !serrors.Is(err, serrors.ErrCodeNotFound) {
		t.Errorf("Get after Delete: %v", err)
	}
}
