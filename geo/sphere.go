package geo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DSToSphere returns the distance along ray to the sphere of radius r
// centered on the origin: the nearest positive root of the quadratic
// |X + s*Dir|^2 = r^2. If the ray is already inside the sphere (the near
// root is non-positive) it returns the far root instead, so a photon
// inside always gets a positive exit distance. Returns +Inf if the sphere
// is never reached.
func DSToSphere(r float64, ray Ray) float64 {
	b := r3.Dot(ray.X, ray.Dir)
	c := r3.Dot(ray.X, ray.X) - r*r
	disc := b*b - c
	if disc < 0 {
		return math.Inf(1)
	}
	sq := math.Sqrt(disc)
	near, far := -b-sq, -b+sq
	if near > 0 {
		return near
	}
	if far > 0 {
		return far
	}
	return math.Inf(1)
}
