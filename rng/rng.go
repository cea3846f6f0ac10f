// Package rng provides each transport worker its own reproducible random
// source, so the same --seed plus the same worker count always produces
// the same photon histories (spec §5: "per-worker seeded RNG"). It wraps
// gonum's stat/distuv samplers over a math/rand source rather than
// hand-rolling the inverse-CDF sampling the original's random number
// routines implement directly in C.
package rng

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Stream is one worker's private random number stream. Stream is not
// safe for concurrent use; each transport worker owns exactly one.
type Stream struct {
	src     *rand.Rand
	uniform distuv.Uniform
	expo    distuv.Exponential
}

// New returns a Stream seeded deterministically from (runSeed, workerID),
// so re-running with the same seed and worker count reproduces identical
// photon histories regardless of how work happens to be scheduled across
// goroutines.
func New(runSeed int64, workerID int) *Stream {
	src := rand.New(rand.NewSource(runSeed*1_000_003 + int64(workerID)))
	return &Stream{
		src:     src,
		uniform: distuv.Uniform{Min: 0, Max: 1, Src: src},
		expo:    distuv.Exponential{Rate: 1, Src: src},
	}
}

// Float64 returns a uniform variate in [0, 1).
func (s *Stream) Float64() float64 {
	return s.uniform.Rand()
}

// TauSample draws a standard exponential variate (rate 1), the optical
// depth a photon travels before its next interaction (spec §4.4: "sample
// an optical depth tau from a unit-rate exponential").
func (s *Stream) TauSample() float64 {
	return s.expo.Rand()
}

// UnitSphereDirection returns a direction uniformly distributed over the
// unit sphere, via rejection inside the unit cube then normalizing —
// grounded on the same rejection-sampling idiom anisowind.c uses for
// randvec, generalized here to draw isotropic directions rather than the
// Sobolev-weighted ones that transport.Reemit layers on top.
func (s *Stream) UnitSphereDirection() (x, y, z float64) {
	for {
		x = 2*s.Float64() - 1
		y = 2*s.Float64() - 1
		z = 2*s.Float64() - 1
		r2 := x*x + y*y + z*z
		if r2 > 0 && r2 <= 1 {
			inv := 1 / math.Sqrt(r2)
			return x * inv, y * inv, z * inv
		}
	}
}
