package geo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DiskMissSentinel is returned by DSToDisk when returnVeryBigOnMiss is
// false and the ray does not cross the disk going forward: a negative
// value the caller (transport.Walls) interprets as "the previous position
// was already inside the disk" and recovers from by relaxing tolerance
// and retrying, per spec §7's invariant-violation handling.
const DiskMissSentinel = -1.0

// Disk describes either a geometrically flat disk (ZFunc nil, surface at
// z=0) or a vertically extended one whose half-thickness at cylindrical
// radius rho is ZFunc(rho) (the disk occupies |z| <= ZFunc(rho)).
type Disk struct {
	Radius float64
	ZFunc  func(rho float64) float64
}

// DSToDisk returns the distance along ray to the disk surface. For a flat
// disk this is the z=0 intersection restricted to rho <= Radius. For a
// vertically extended disk it brackets the crossing of |z(s)| and
// ZFunc(rho(s)) by marching forward geometrically and then bisects.
//
// On a miss, returns +Inf if returnVeryBigOnMiss is true; otherwise
// returns DiskMissSentinel, which photon2d.c's walls() documents as
// "should not happen" and treats as a sign the previous position was
// already inside the disk.
func DSToDisk(ray Ray, d Disk, returnVeryBigOnMiss bool) float64 {
	miss := func() float64 {
		if returnVeryBigOnMiss {
			return math.Inf(1)
		}
		return DiskMissSentinel
	}

	if d.ZFunc == nil {
		if ray.Dir.Z == 0 {
			return miss()
		}
		s := -ray.X.Z / ray.Dir.Z
		if s <= 0 {
			return miss()
		}
		if Rho(ray.At(s)) > d.Radius {
			return miss()
		}
		return s
	}

	g := func(s float64) float64 {
		p := ray.At(s)
		return math.Abs(p.Z) - d.ZFunc(Rho(p))
	}

	prevS, prev := 0.0, g(0)
	step := math.Max(d.Radius, 1.0) * 1e-6
	bracketed := false
	var loS, hiS float64

	s := 0.0
	for i := 0; i < 200; i++ {
		s += step
		cur := g(s)
		if prev == 0 {
			return prevS
		}
		if sign(cur) != sign(prev) {
			loS, hiS = prevS, s
			bracketed = true
			break
		}
		prevS, prev = s, cur
		step *= 1.6
		if Rho(ray.At(s)) > d.Radius*4 {
			break
		}
	}
	if !bracketed {
		return miss()
	}

	glo := g(loS)
	for i := 0; i < 80; i++ {
		mid := (loS + hiS) / 2
		gm := g(mid)
		if sign(gm) == sign(glo) {
			loS, glo = mid, gm
		} else {
			hiS = mid
		}
	}
	root := (loS + hiS) / 2
	if root <= 0 || Rho(ray.At(root)) > d.Radius {
		return miss()
	}
	return root
}

// NormalAt returns the outward unit surface normal of the disk at x (which
// must lie on the surface). For a flat disk this is always +-z; for a
// vertically extended disk it is derived from the local slope of ZFunc by
// central difference, matching how the original builds the reflection
// normal for non-flat disks rather than assuming a flat z=0 plane.
func (d Disk) NormalAt(x r3.Vec) r3.Vec {
	sign := 1.0
	if x.Z < 0 {
		sign = -1.0
	}
	if d.ZFunc == nil {
		return r3.Vec{X: 0, Y: 0, Z: sign}
	}
	rho := Rho(x)
	h := math.Max(rho*1e-6, 1e-6)
	slope := (d.ZFunc(rho+h) - d.ZFunc(rho-h)) / (2 * h)
	// Surface z = zfunc(rho); tangent direction in the (rho,z) plane is
	// (1, slope), so the in-plane normal is (-slope, 1), normalized and
	// then rotated into 3-D along the (x,y) radial direction.
	normRho, normZ := -slope, 1.0
	norm := math.Hypot(normRho, normZ)
	normRho, normZ = normRho/norm, sign*normZ/norm
	if rho == 0 {
		return r3.Vec{X: 0, Y: 0, Z: normZ}
	}
	return r3.Vec{X: normRho * x.X / rho, Y: normRho * x.Y / rho, Z: normZ}
}
