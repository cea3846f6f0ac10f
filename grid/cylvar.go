package grid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sirocco-rt/sirocco/geo"
)

// cylVarKind implements CoordKind for an imported grid whose z mesh
// varies column by column (each rho column carries its own z edges),
// the layout IMPORT-domain wind files use. Cell faces are still treated
// as axis-aligned cylinders and planes within a column; the slanted
// transition between columns of differing z extent is approximated by
// the neighboring column's own boundary, matching the piecewise-constant
// handling the original's import_wind applies to inversion blocks.
type cylVarKind struct{}

func (cylVarKind) DSInCell(d *Domain, cells []Cell, idx int, ray geo.Ray) float64 {
	c := cells[idx]
	best := geo.VeryBig
	try := func(s float64) {
		if s > 0 && s < best {
			best = s
		}
	}
	try(geo.DSToCylinder(d.RhoEdges[c.I], ray))
	try(geo.DSToCylinder(d.RhoEdges[c.I+1], ray))
	zEdges := d.ZEdgesByColumn[c.I]
	try(geo.DSToPlane(geo.Plane{Z: zEdges[c.J]}, ray))
	try(geo.DSToPlane(geo.Plane{Z: zEdges[c.J+1]}, ray))
	return best
}

func (cylVarKind) WhereInGrid(d *Domain, x r3.Vec) int {
	rho := geo.Rho(x)
	i := searchEdges(d.RhoEdges, rho)
	if i < 0 {
		return -1
	}
	j := searchEdges(d.ZEdgesByColumn[i], x.Z)
	if j < 0 {
		return -1
	}
	return i*d.M + j
}

func (cylVarKind) CellCenter(d *Domain, idx int) r3.Vec {
	i, j := idx/d.M, idx%d.M
	rhoC := 0.5 * (d.RhoEdges[i] + d.RhoEdges[i+1])
	zEdges := d.ZEdgesByColumn[i]
	zC := 0.5 * (zEdges[j] + zEdges[j+1])
	return r3.Vec{X: rhoC, Y: 0, Z: zC}
}

func (cylVarKind) Volume(d *Domain, idx int) float64 {
	i, j := idx/d.M, idx%d.M
	r0, r1 := d.RhoEdges[i], d.RhoEdges[i+1]
	zEdges := d.ZEdgesByColumn[i]
	z0, z1 := zEdges[j], zEdges[j+1]
	return math.Pi * (r1*r1 - r0*r0) * (z1 - z0)
}
