// Package sampler implements the weighted die roll used to pick every
// discrete attribute of a generated galaxy, plus the RNG plumbing that keeps
// generation reproducible from a single seed.
//
// # Weighted Roll
//
// [Roll] enumerates candidates in the order given. Each allowed candidate
// scores a uniform d100 plus its modifier; the running maximum is replaced
// only on a strictly greater score, so the first candidate to reach the
// maximum wins ties. Star types, planet sizes, planet types and moon sizes
// are all drawn this way, with modifiers coming from distribution tables.
//
// # Random Sources
//
// All randomness flows from *rand.Rand values built by [NewRNG]. Parallel
// work receives child generators from [Fork], which must be called
// sequentially on the parent before dispatch so that the child seeds do not
// depend on scheduling.
package sampler

import (
	"math/rand/v2"
	"time"
)

// DieFaces is the number of faces of the base roll.
const DieFaces = 100

// NewRNG returns a PCG-backed generator for seed.
func NewRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// TimeSeed returns a seed derived from the wall clock, for callers that ask
// for non-reproducible output.
func TimeSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

// Fork derives an independent child generator from parent. Each call
// advances parent by two draws.
func Fork(parent *rand.Rand) *rand.Rand {
	return rand.New(rand.NewPCG(parent.Uint64(), parent.Uint64()))
}

// Die rolls a fair die with the given number of faces, returning 1..faces.
func Die(rng *rand.Rand, faces int) int {
	return 1 + rng.IntN(faces)
}

// Percent rolls 1..100.
func Percent(rng *rand.Rand) int {
	return Die(rng, DieFaces)
}

// Chance reports whether a d100 roll lands at or below pct.
func Chance(rng *rand.Rand, pct int) bool {
	return Percent(rng) <= pct
}

// Roll performs a weighted roll over candidates. modifier may be nil (no
// modifier) and allow may be nil (every candidate allowed). Disallowed
// candidates consume no randomness. ok is false when no candidate was
// allowed.
func Roll[T any](rng *rand.Rand, candidates []T, modifier func(T) int, allow func(T) bool) (winner T, score int, ok bool) {
	for _, c := range candidates {
		if allow != nil && !allow(c) {
			continue
		}
		s := Percent(rng)
		if modifier != nil {
			s += modifier(c)
		}
		if !ok || s > score {
			winner, score, ok = c, s, true
		}
	}
	return winner, score, ok
}

// Shuffle permutes s in place.
func Shuffle[T any](rng *rand.Rand, s []T) {
	rng.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

// Uniform returns a float64 drawn uniformly from [lo, hi).
func Uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
