package compose

import (
	"context"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	"github.com/matzehuels/stargen/pkg/core/sampler"
)

// Request describes one system to compose.
type Request struct {
	Location galaxy.MapLocation

	// Civilization makes the request a home system. Nil for ordinary
	// systems.
	Civilization *galaxy.Civilization

	// Override is the home system descriptor of Civilization, if any.
	Override *galaxy.StarSystemDescriptor
}

// Result is a composed system.
type Result struct {
	System *galaxy.StarSystem

	// PrimePlanet is the colony planet index of a home system, -1 otherwise.
	PrimePlanet int
}

// Compose resolves a single request.
func (c *Composer) Compose(rng *rand.Rand, req Request, homeworlds []galaxy.MapLocation) Result {
	if req.Civilization != nil {
		sys, prime := c.HomeSystem(rng, req.Location, *req.Civilization, req.Override)
		return Result{System: sys, PrimePlanet: prime}
	}
	return Result{System: c.System(rng, req.Location, homeworlds), PrimePlanet: -1}
}

// ComposeAll resolves reqs concurrently. Child generators are forked from
// rng in request order before any work starts, so the output depends only
// on rng and reqs. Results are returned in request order.
func (c *Composer) ComposeAll(ctx context.Context, rng *rand.Rand, reqs []Request, homeworlds []galaxy.MapLocation) ([]Result, error) {
	rngs := make([]*rand.Rand, len(reqs))
	for i := range reqs {
		rngs[i] = sampler.Fork(rng)
	}

	results := make([]Result, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = c.Compose(rngs[i], req, homeworlds)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
