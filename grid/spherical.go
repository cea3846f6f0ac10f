package grid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sirocco-rt/sirocco/geo"
)

// sphericalKind implements CoordKind for a purely radial, 1-D mesh of
// concentric shells (M is always 1; cell index equals the shell index).
type sphericalKind struct{}

func (sphericalKind) DSInCell(d *Domain, cells []Cell, idx int, ray geo.Ray) float64 {
	c := cells[idx]
	best := geo.VeryBig
	try := func(s float64) {
		if s > 0 && s < best {
			best = s
		}
	}
	try(geo.DSToSphere(d.REdges[c.I], ray))
	try(geo.DSToSphere(d.REdges[c.I+1], ray))
	return best
}

func (sphericalKind) WhereInGrid(d *Domain, x r3.Vec) int {
	return searchEdges(d.REdges, r3.Norm(x))
}

func (sphericalKind) CellCenter(d *Domain, idx int) r3.Vec {
	rC := 0.5 * (d.REdges[idx] + d.REdges[idx+1])
	return r3.Vec{X: rC, Y: 0, Z: 0}
}

func (sphericalKind) Volume(d *Domain, idx int) float64 {
	r0, r1 := d.REdges[idx], d.REdges[idx+1]
	return 4.0 / 3.0 * math.Pi * (r1*r1*r1 - r0*r0*r0)
}
