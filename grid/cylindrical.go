package grid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sirocco-rt/sirocco/geo"
)

// cylindricalKind implements CoordKind for a (rho, z) mesh: cells are
// indexed i*M+j with i the rho bin and j the z bin, bounded by cylinders
// of constant rho and planes of constant z.
type cylindricalKind struct{}

func (cylindricalKind) DSInCell(d *Domain, cells []Cell, idx int, ray geo.Ray) float64 {
	c := cells[idx]
	best := geo.VeryBig
	try := func(s float64) {
		if s > 0 && s < best {
			best = s
		}
	}
	try(geo.DSToCylinder(d.RhoEdges[c.I], ray))
	try(geo.DSToCylinder(d.RhoEdges[c.I+1], ray))
	try(geo.DSToPlane(geo.Plane{Z: d.ZEdges[c.J]}, ray))
	try(geo.DSToPlane(geo.Plane{Z: d.ZEdges[c.J+1]}, ray))
	return best
}

func (cylindricalKind) WhereInGrid(d *Domain, x r3.Vec) int {
	rho := geo.Rho(x)
	i := searchEdges(d.RhoEdges, rho)
	j := searchEdges(d.ZEdges, x.Z)
	if i < 0 || j < 0 {
		return -1
	}
	return i*d.M + j
}

func (cylindricalKind) CellCenter(d *Domain, idx int) r3.Vec {
	i, j := idx/d.M, idx%d.M
	rhoC := 0.5 * (d.RhoEdges[i] + d.RhoEdges[i+1])
	zC := 0.5 * (d.ZEdges[j] + d.ZEdges[j+1])
	return r3.Vec{X: rhoC, Y: 0, Z: zC}
}

func (cylindricalKind) Volume(d *Domain, idx int) float64 {
	i, j := idx/d.M, idx%d.M
	r0, r1 := d.RhoEdges[i], d.RhoEdges[i+1]
	z0, z1 := d.ZEdges[j], d.ZEdges[j+1]
	return math.Pi * (r1*r1 - r0*r0) * (z1 - z0)
}
