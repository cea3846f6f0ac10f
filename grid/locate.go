package grid

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sirocco-rt/sirocco/geo"
)

// WhereInGrid returns the domain and global cell index containing x,
// searching domains in order and returning the first match, regardless
// of that cell's Inwind status. Returns (-1, -1) if x lies in none of
// the domains' mesh extents.
func (g *Grid) WhereInGrid(x r3.Vec) (domainIdx, cellIdx int) {
	for di := range g.Domains {
		d := &g.Domains[di]
		local := KindOf(d).WhereInGrid(d, x)
		if local >= 0 {
			return di, d.NStart + local
		}
	}
	return -1, -1
}

// WhereInWind is WhereInGrid filtered by whether the located cell is
// actually part of the wind (spec §4.3 "where_in_wind"): a point can lie
// within a domain's mesh extent yet fall in a cell that has no wind
// material (NotInwind) or should be skipped entirely (Ignore).
func (g *Grid) WhereInWind(x r3.Vec) (domainIdx, cellIdx int, status Inwind) {
	for di := range g.Domains {
		d := &g.Domains[di]
		local := KindOf(d).WhereInGrid(d, x)
		if local < 0 {
			continue
		}
		global := d.NStart + local
		st := g.Cells[global].Inwind
		if st == NotInwind || st == Ignore {
			continue
		}
		return di, global, st
	}
	return -1, -1, NotInwind
}

// DSInCell returns the distance along ray to the nearest face of the
// cell at global index cellIdx in domainIdx, or geo.VeryBig if ray
// crosses no face before leaving the domain.
func (g *Grid) DSInCell(domainIdx, cellIdx int, ray geo.Ray) float64 {
	d := &g.Domains[domainIdx]
	local := cellIdx - d.NStart
	return KindOf(d).DSInCell(d, g.Cells[d.NStart:d.NStop], local, ray)
}

// CellCenter returns the geometric center of the cell at global index
// cellIdx in domainIdx.
func (g *Grid) CellCenter(domainIdx, cellIdx int) r3.Vec {
	d := &g.Domains[domainIdx]
	return KindOf(d).CellCenter(d, cellIdx-d.NStart)
}

// Volume returns the volume in cm^3 of the cell at global index cellIdx
// in domainIdx.
func (g *Grid) Volume(domainIdx, cellIdx int) float64 {
	d := &g.Domains[domainIdx]
	return KindOf(d).Volume(d, cellIdx-d.NStart)
}
