package grid

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sirocco-rt/sirocco/geo"
)

// CoordKind is the small vtable that replaces the if/else coordinate-type
// chains the original keeps in coord_tools.c: one set of four methods per
// coordinate system, selected once by Domain.CoordType instead of branched
// on at every call site (spec §9 design note).
type CoordKind interface {
	// DSInCell returns the distance along ray to the nearest face of the
	// cell at idx (relative to the domain's own NStart-based numbering),
	// or geo.VeryBig if no face is crossed within the domain.
	DSInCell(d *Domain, cells []Cell, idx int, ray geo.Ray) float64
	// WhereInGrid returns the domain-local index of the cell containing x,
	// or -1 if x is outside the domain's mesh extent entirely.
	WhereInGrid(d *Domain, x r3.Vec) int
	// CellCenter returns the geometric center of the cell at domain-local
	// index idx.
	CellCenter(d *Domain, idx int) r3.Vec
	// Volume returns the cell's volume in cm^3.
	Volume(d *Domain, idx int) float64
}

var coordKinds = map[CoordType]CoordKind{
	Cylindrical: cylindricalKind{},
	RTheta:      rthetaKind{},
	Spherical:   sphericalKind{},
	CylVar:      cylVarKind{},
}

// KindOf returns the CoordKind implementing d's coordinate system.
func KindOf(d *Domain) CoordKind {
	k, ok := coordKinds[d.CoordType]
	if !ok {
		panic("grid: unknown CoordType " + d.CoordType.String())
	}
	return k
}

// searchEdges returns the index i such that edges[i] <= v < edges[i+1], or
// -1 if v is outside [edges[0], edges[len-1]). Edges must be ascending.
func searchEdges(edges []float64, v float64) int {
	if len(edges) < 2 || v < edges[0] || v >= edges[len(edges)-1] {
		return -1
	}
	lo, hi := 0, len(edges)-2
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if edges[mid] <= v {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
