package grid

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sirocco-rt/sirocco/geo"
	"github.com/sirocco-rt/sirocco/physics"
)

// NewGrid creates an empty Grid around a central object of radius rstar
// and an outer computational boundary rmax, with the given disk geometry
// (disk.Radius == 0 means no disk).
func NewGrid(rstar, rmax float64, disk geo.Disk, diskFlat bool) *Grid {
	return &Grid{
		RStar:    rstar,
		RStarSq:  rstar * rstar,
		RMax:     rmax,
		RMaxSq:   rmax * rmax,
		Disk:     disk,
		DiskFlat: diskFlat,
	}
}

// classifyAndVelocity fills in the wind-dependent fields of a freshly
// built cell: its Inwind status from classify, and, for wind cells, the
// bulk velocity and maximum directional velocity gradient plus a new
// plasma row.
func (g *Grid) classifyAndVelocity(c *Cell, classify func(r3.Vec) Inwind, vel physics.VelocityField) {
	c.Inwind = classify(c.Center)
	if c.Inwind != AllInwind && c.Inwind != PartInwind {
		c.Plasma = -1
		return
	}
	c.Velocity = vel.Velocity(c.Center)
	c.DVDSMax = vel.DVDSMax(c.Center)
	c.Plasma = len(g.Plasma)
	g.Plasma = append(g.Plasma, PlasmaCell{})
}

// AddCylindrical appends a (rho, z) mesh domain and returns its index.
// classify reports the Inwind status of the cell centered at the given
// point; vel supplies bulk velocity and Sobolev gradient normalization
// for cells classify marks as wind.
func (g *Grid) AddCylindrical(wt WindType, rhoEdges, zEdges []float64, classify func(r3.Vec) Inwind, vel physics.VelocityField) int {
	n, m := len(rhoEdges)-1, len(zEdges)-1
	d := Domain{
		CoordType:  Cylindrical,
		WindType:   wt,
		N:          n,
		M:          m,
		RhoMin:     rhoEdges[0],
		RhoMax:     rhoEdges[n],
		ZMin:       zEdges[0],
		ZMax:       zEdges[m],
		InnerPlane: geo.Plane{Z: zEdges[0]},
		OuterPlane: geo.Plane{Z: zEdges[m]},
		NStart:     len(g.Cells),
		RhoEdges:   rhoEdges,
		ZEdges:     zEdges,
	}
	d.NStop = d.NStart + n*m
	domainIdx := len(g.Domains)

	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			scale := scaleRect(rhoEdges[i], rhoEdges[i+1], zEdges[j], zEdges[j+1])
			c := Cell{
				I: i, J: j, Domain: domainIdx,
				LowerCorner: r3.Vec{X: rhoEdges[i], Y: 0, Z: zEdges[j]},
				Center:      cylindricalKind{}.CellCenter(&d, i*m+j),
				Scale:       scale,
				DFudge:      dfudgeFraction * scale,
			}
			g.classifyAndVelocity(&c, classify, vel)
			g.Cells = append(g.Cells, c)
		}
	}
	g.Domains = append(g.Domains, d)
	return domainIdx
}

// AddRTheta appends a polar (r, theta) mesh domain and returns its index.
func (g *Grid) AddRTheta(wt WindType, rEdges, thetaEdges []float64, classify func(r3.Vec) Inwind, vel physics.VelocityField) int {
	n, m := len(rEdges)-1, len(thetaEdges)-1
	d := Domain{
		CoordType:  RTheta,
		WindType:   wt,
		N:          n,
		M:          m,
		RMin:       rEdges[0],
		RMax:       rEdges[n],
		NStart:     len(g.Cells),
		REdges:     rEdges,
		ThetaEdges: thetaEdges,
	}
	d.NStop = d.NStart + n*m
	domainIdx := len(g.Domains)

	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			scale := scaleShell(rEdges[i], rEdges[i+1])
			c := Cell{
				I: i, J: j, Domain: domainIdx,
				Center: rthetaKind{}.CellCenter(&d, i*m+j),
				Scale:  scale,
				DFudge: dfudgeFraction * scale,
			}
			g.classifyAndVelocity(&c, classify, vel)
			g.Cells = append(g.Cells, c)
		}
	}
	g.Domains = append(g.Domains, d)
	return domainIdx
}

// AddSpherical appends a purely radial shell-mesh domain and returns its
// index.
func (g *Grid) AddSpherical(wt WindType, rEdges []float64, classify func(r3.Vec) Inwind, vel physics.VelocityField) int {
	n := len(rEdges) - 1
	d := Domain{
		CoordType: Spherical,
		WindType:  wt,
		N:         n,
		M:         1,
		RMin:      rEdges[0],
		RMax:      rEdges[n],
		NStart:    len(g.Cells),
		REdges:    rEdges,
	}
	d.NStop = d.NStart + n
	domainIdx := len(g.Domains)

	for i := 0; i < n; i++ {
		scale := scaleShell(rEdges[i], rEdges[i+1])
		c := Cell{
			I: i, Domain: domainIdx,
			Center: sphericalKind{}.CellCenter(&d, i),
			Scale:  scale,
			DFudge: dfudgeFraction * scale,
		}
		g.classifyAndVelocity(&c, classify, vel)
		g.Cells = append(g.Cells, c)
	}
	g.Domains = append(g.Domains, d)
	return domainIdx
}

// AddCylVar appends an imported-grid domain whose z mesh varies by rho
// column and returns its index. zEdgesByColumn must have len(rhoEdges)-1
// entries, each a strictly ascending slice of z edges for that column.
func (g *Grid) AddCylVar(rhoEdges []float64, zEdgesByColumn [][]float64, classify func(r3.Vec) Inwind, vel physics.VelocityField) int {
	n := len(rhoEdges) - 1
	d := Domain{
		CoordType:      CylVar,
		WindType:       Import,
		N:              n,
		RhoMin:         rhoEdges[0],
		RhoMax:         rhoEdges[n],
		NStart:         len(g.Cells),
		RhoEdges:       rhoEdges,
		ZEdgesByColumn: zEdgesByColumn,
	}
	maxM := 0
	for _, ze := range zEdgesByColumn {
		if len(ze)-1 > maxM {
			maxM = len(ze) - 1
		}
	}
	d.M = maxM
	d.NStop = d.NStart + n*maxM
	domainIdx := len(g.Domains)

	for i := 0; i < n; i++ {
		ze := zEdgesByColumn[i]
		m := len(ze) - 1
		for j := 0; j < m; j++ {
			scale := scaleRect(rhoEdges[i], rhoEdges[i+1], ze[j], ze[j+1])
			c := Cell{
				I: i, J: j, Domain: domainIdx,
				Center: cylVarKind{}.CellCenter(&d, i*maxM+j),
				Scale:  scale,
				DFudge: dfudgeFraction * scale,
			}
			g.classifyAndVelocity(&c, classify, vel)
			g.Cells = append(g.Cells, c)
		}
		// Columns shorter than maxM are padded with trailing cells marked
		// Ignore with Plasma -1: genuinely absent mesh rows, not
		// wind-free wind cells, so they must never be reachable via
		// WhereInGrid (cylVarKind.WhereInGrid bounds j by this column's
		// own ZEdgesByColumn length).
		for j := m; j < maxM; j++ {
			g.Cells = append(g.Cells, Cell{I: i, J: j, Domain: domainIdx, Plasma: -1, Inwind: Ignore})
		}
	}
	g.Domains = append(g.Domains, d)
	return domainIdx
}
