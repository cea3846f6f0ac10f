package grid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sirocco-rt/sirocco/geo"
)

// rthetaKind implements CoordKind for a polar (r, theta) mesh about the
// z-axis: cells indexed i*M+j, the i-th spherical shell intersected with
// the j-th conical wedge, theta measured from the +z axis.
type rthetaKind struct{}

func (rthetaKind) DSInCell(d *Domain, cells []Cell, idx int, ray geo.Ray) float64 {
	c := cells[idx]
	best := geo.VeryBig
	try := func(s float64) {
		if s > 0 && s < best {
			best = s
		}
	}
	try(geo.DSToSphere(d.REdges[c.I], ray))
	try(geo.DSToSphere(d.REdges[c.I+1], ray))
	try(geo.DSToCone(geo.NewCone(0, d.ThetaEdges[c.J]), ray))
	try(geo.DSToCone(geo.NewCone(0, d.ThetaEdges[c.J+1]), ray))
	return best
}

func polarAngle(x r3.Vec) float64 {
	r := r3.Norm(x)
	if r == 0 {
		return 0
	}
	return math.Acos(x.Z / r)
}

func (rthetaKind) WhereInGrid(d *Domain, x r3.Vec) int {
	r := r3.Norm(x)
	theta := polarAngle(x)
	i := searchEdges(d.REdges, r)
	j := searchEdges(d.ThetaEdges, theta)
	if i < 0 || j < 0 {
		return -1
	}
	return i*d.M + j
}

func (rthetaKind) CellCenter(d *Domain, idx int) r3.Vec {
	i, j := idx/d.M, idx%d.M
	rC := 0.5 * (d.REdges[i] + d.REdges[i+1])
	thetaC := 0.5 * (d.ThetaEdges[j] + d.ThetaEdges[j+1])
	return r3.Vec{X: rC * math.Sin(thetaC), Y: 0, Z: rC * math.Cos(thetaC)}
}

func (rthetaKind) Volume(d *Domain, idx int) float64 {
	i, j := idx/d.M, idx%d.M
	r0, r1 := d.REdges[i], d.REdges[i+1]
	t0, t1 := d.ThetaEdges[j], d.ThetaEdges[j+1]
	return (r1*r1*r1 - r0*r0*r0) / 3 * 2 * math.Pi * (math.Cos(t0) - math.Cos(t1))
}
