// Package geo provides the geometry oracle: pure functions that compute
// the distance along a ray to canonical surfaces (sphere, cone, plane,
// cylinder, disk). None of them hold state and none of them panic; a
// surface the ray never reaches reports +Inf so callers can compare
// distances without special-casing misses.
package geo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// VeryBig stands in for +Inf in the handful of places the original program
// used a literal large sentinel distance instead of an actual infinity
// (so that downstream arithmetic involving it stays finite). Everywhere
// else we just use math.Inf(1) directly.
const VeryBig = 1e99

// Ray is a directed line: a point X moving along unit direction D. Dir is
// normalized by the caller; routines here trust that and do not renormalize
// it, matching the original's convention of treating p->lmn as already unit.
type Ray struct {
	X   r3.Vec
	Dir r3.Vec
}

// At returns the point reached after travelling distance s along the ray.
func (r Ray) At(s float64) r3.Vec {
	return r3.Add(r.X, r3.Scale(s, r.Dir))
}

// Rho is the cylindrical radius of a point about the z-axis.
func Rho(v r3.Vec) float64 {
	return math.Hypot(v.X, v.Y)
}
