package layout

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	"github.com/matzehuels/stargen/pkg/core/sampler"
)

// Irregular scatters stars uniformly.
type Irregular struct{}

func (Irregular) Positions(rng *rand.Rand, count, width, height int) []galaxy.MapLocation {
	p := newPlacer(count, width, height)
	return p.fill(count, func() (float64, float64) {
		return float64(rng.IntN(width)), float64(rng.IntN(height))
	})
}

// Ring places stars on an annulus around the map center.
type Ring struct{}

const (
	ringRadiusFraction = 0.35
	ringWidthFraction  = 0.15
)

func (Ring) Positions(rng *rand.Rand, count, width, height int) []galaxy.MapLocation {
	side := float64(min(width, height))
	ringWidth := ringWidthFraction * side
	radius := distuv.Normal{Mu: ringRadiusFraction * side, Sigma: ringWidth / 3, Src: rng}
	cx, cy := center(width, height)

	p := newPlacer(count, width, height)
	return p.fill(count, func() (float64, float64) {
		angle := sampler.Uniform(rng, 0, 2*math.Pi)
		r := radius.Rand()
		return cx + r*math.Cos(angle), cy + r*math.Sin(angle)
	})
}

// Spiral places stars along logarithmic arms around a dense core.
type Spiral struct {
	Arms int
}

const (
	defaultSpiralArms     = 3
	spiralCoreThreshold   = 0.15
	spiralAngularSpread   = 0.25
	spiralWinding         = 2.5
	spiralEdgeFraction    = 0.95
	spiralCoreAngleJitter = 2 * math.Pi
)

func (s Spiral) Positions(rng *rand.Rand, count, width, height int) []galaxy.MapLocation {
	arms := s.Arms
	if arms <= 0 {
		arms = defaultSpiralArms
	}
	rotation := sampler.Uniform(rng, 0, 2*math.Pi)
	spread := distuv.Normal{Mu: 0, Sigma: spiralAngularSpread, Src: rng}
	cx, cy := center(width, height)
	rx, ry := cx*spiralEdgeFraction, cy*spiralEdgeFraction

	p := newPlacer(count, width, height)
	return p.fill(count, func() (float64, float64) {
		r := rng.Float64()
		var angle float64
		if r < spiralCoreThreshold {
			angle = sampler.Uniform(rng, 0, spiralCoreAngleJitter)
		} else {
			arm := rng.IntN(arms)
			angle = rotation + float64(arm)*2*math.Pi/float64(arms)
			angle += spread.Rand()
			angle += spiralWinding * math.Log(r/spiralCoreThreshold)
		}
		return cx + r*rx*math.Cos(angle), cy + r*ry*math.Sin(angle)
	})
}

// Elliptical places stars in a rotated elliptical band around an empty
// core. Anchor cells are reserved before any random candidate.
type Elliptical struct {
	Anchors []galaxy.Anchor
	Jitter  *rand.Rand
}

const (
	ellipseMinEccentricity = 0.7
	ellipseMaxEccentricity = 0.9
	ellipseInnerRadius     = 0.12
	ellipseGapRadius       = 0.95
)

func (e Elliptical) Positions(rng *rand.Rand, count, width, height int) []galaxy.MapLocation {
	jitter := e.Jitter
	if jitter == nil {
		jitter = sampler.NewRNG(sampler.TimeSeed())
	}
	ecc := sampler.Uniform(rng, ellipseMinEccentricity, ellipseMaxEccentricity)
	rotation := sampler.Uniform(rng, 0, math.Pi)
	cx, cy := center(width, height)
	a := min(cx, cy)
	b := a * math.Sqrt(1-ecc*ecc)

	p := newPlacer(count, width, height)
	for _, anchor := range e.Anchors {
		if len(p.out) < count {
			p.force(anchor.Location(width, height))
		}
	}
	inner, outer := ellipseInnerRadius*ellipseInnerRadius, ellipseGapRadius*ellipseGapRadius
	return p.fill(count, func() (float64, float64) {
		t := sampler.Uniform(rng, 0, 2*math.Pi)
		r := math.Sqrt(sampler.Uniform(rng, inner, outer))
		x, y := rotate(r*a*math.Cos(t), r*b*math.Sin(t), rotation)
		return cx + x + jitter.Float64() - 0.5, cy + y + jitter.Float64() - 0.5
	})
}

// Cluster groups stars around randomly placed, elongated centers with a
// share of uniform noise.
type Cluster struct{}

const (
	clusterCellsPerCenter = 20
	clusterNoise          = 0.15
	clusterMinElongation  = 1.0
	clusterMaxElongation  = 2.5
)

type clusterCenter struct {
	x, y       float64
	rotation   float64
	elongation float64
	radius     float64
}

func (Cluster) Positions(rng *rand.Rand, count, width, height int) []galaxy.MapLocation {
	side := float64(min(width, height))
	k := max(1, int(math.Round(side/clusterCellsPerCenter*sampler.Uniform(rng, 0.8, 1.2))))
	centers := placeCenters(rng, k, width, height)
	offset := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}

	p := newPlacer(count, width, height)
	return p.fill(count, func() (float64, float64) {
		if rng.Float64() < clusterNoise {
			return float64(rng.IntN(width)), float64(rng.IntN(height))
		}
		c := centers[rng.IntN(len(centers))]
		dx := offset.Rand() * c.radius * c.elongation
		dy := offset.Rand() * c.radius / c.elongation
		x, y := rotate(dx, dy, c.rotation)
		return c.x + x, c.y + y
	})
}

// placeCenters rejection-samples k cluster centers inside the inner 80% of
// the map, pairwise separated where the map allows it.
func placeCenters(rng *rand.Rand, k, width, height int) []clusterCenter {
	side := float64(min(width, height))
	minSep := side / float64(k+1)
	radius := max(2, side/float64(3*k))

	centers := make([]clusterCenter, 0, k)
	for range k {
		var c clusterCenter
		for range galaxy.MaxStarPlacementAttempts {
			c = clusterCenter{
				x:          sampler.Uniform(rng, 0.1, 0.9) * float64(width-1),
				y:          sampler.Uniform(rng, 0.1, 0.9) * float64(height-1),
				rotation:   sampler.Uniform(rng, 0, math.Pi),
				elongation: sampler.Uniform(rng, clusterMinElongation, clusterMaxElongation),
				radius:     radius * sampler.Uniform(rng, 0.8, 1.2),
			}
			if separated(c, centers, minSep) {
				break
			}
		}
		centers = append(centers, c)
	}
	return centers
}

func separated(c clusterCenter, others []clusterCenter, minSep float64) bool {
	for _, o := range others {
		if math.Hypot(c.x-o.x, c.y-o.y) < minSep {
			return false
		}
	}
	return true
}
