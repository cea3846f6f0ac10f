package grid

import (
	"github.com/sirocco-rt/sirocco/geo"
)

// inRhoWindow reports whether rho lies within the domain's wind rho
// range. photon2d.c:321 computed this test as
//
//	if (wind_rho_min <= rho && rho <= wind_rho_min)
//
// comparing rho against the lower bound on both sides, so the window
// collapsed to a single radius and the plane/cylinder checks guarded by
// it almost never passed. The closed interval test below, from RhoMin to
// RhoMax, is what this package implements; the original's condition is
// preserved here only as a comment for provenance, not reproduced.
func inRhoWindow(d *Domain, rho float64) bool {
	// Original (defective): d.RhoMin <= rho && rho <= d.RhoMin.
	return rho >= d.RhoMin && rho <= d.RhoMax
}

// DSToWind returns the distance along ray to the nearest analytic wind
// boundary of domain domainIdx (spec §4.3, "ds_to_wind"): the cone,
// plane, cylinder or sphere bounding the region the wind occupies, so
// the driver can skip a photon through vacuum without stepping cell by
// cell. CORONA and IMPORT domains of cylindrical coordinate type share
// the same boundary test: the two wind planes (guarded by the ρ
// window) and the inner/outer ρ cylinders (guarded by the z range),
// per spec §4.3's "two wind planes ... inner/outer ρ cylinders,
// guarded by z-range tests". IMPORT domains of any other coordinate
// type (e.g. CylVar) have no closed-form boundary at all — spec §4.3
// calls this a known limitation (§9) rather than something to work
// around — so the caller must fall back to ScanForWind once it has
// located the photon inside the domain's mesh by other means.
func (g *Grid) DSToWind(domainIdx int, ray geo.Ray) float64 {
	d := &g.Domains[domainIdx]
	best := geo.VeryBig
	try := func(s float64) {
		if s > 0 && s < best {
			best = s
		}
	}
	switch d.WindType {
	case AnalyticBiconical:
		try(geo.DSToCone(d.InnerCone, ray))
		try(geo.DSToCone(d.OuterCone, ray))
	case Corona, Import:
		if d.CoordType != Cylindrical {
			return geo.VeryBig
		}
		if s := geo.DSToPlane(d.InnerPlane, ray); s > 0 {
			if inRhoWindow(d, geo.Rho(ray.At(s))) {
				try(s)
			}
		}
		if s := geo.DSToPlane(d.OuterPlane, ray); s > 0 {
			if inRhoWindow(d, geo.Rho(ray.At(s))) {
				try(s)
			}
		}
		if s := geo.DSToCylinder(d.RhoMin, ray); s > 0 {
			if hit := ray.At(s); hit.Z >= d.ZMin && hit.Z <= d.ZMax {
				try(s)
			}
		}
		if s := geo.DSToCylinder(d.RhoMax, ray); s > 0 {
			if hit := ray.At(s); hit.Z >= d.ZMin && hit.Z <= d.ZMax {
				try(s)
			}
		}
	case SphericalWind:
		try(geo.DSToSphere(d.RMin, ray))
		try(geo.DSToSphere(d.RMax, ray))
	}
	return best
}

// ScanForWind walks ray cell by cell through domain domainIdx, starting
// at cell startCellIdx, accumulating distance until it reaches a cell
// whose Inwind is not NotInwind/Ignore (spec §4.3's "IMPORT empty-cell
// scan": imported grids can have wind-free cells interleaved with wind
// cells in a pattern no closed-form boundary describes). Returns the
// accumulated distance and true if a wind cell was found before the ray
// left the domain's mesh extent, or (geo.VeryBig, false) otherwise.
func (g *Grid) ScanForWind(domainIdx, startCellIdx int, ray geo.Ray) (float64, bool) {
	d := &g.Domains[domainIdx]
	total := 0.0
	cur := startCellIdx
	x := ray.X
	const maxSteps = 100000
	for step := 0; step < maxSteps; step++ {
		if !inRhoWindow(d, geo.Rho(x)) {
			return geo.VeryBig, false
		}
		c := &g.Cells[cur]
		if c.Inwind != NotInwind && c.Inwind != Ignore {
			return total, true
		}
		probe := geo.Ray{X: x, Dir: ray.Dir}
		ds := g.DSInCell(domainIdx, cur, probe)
		if ds >= geo.VeryBig {
			return geo.VeryBig, false
		}
		// Push slightly past the face so WhereInGrid lands in the next
		// cell rather than back on the boundary of the current one.
		push := ds * (1 + 1e-10)
		x = probe.At(push)
		total += push
		nextDomain, nextCell := g.WhereInGrid(x)
		if nextDomain != domainIdx || nextCell < 0 {
			return geo.VeryBig, false
		}
		cur = nextCell
	}
	return geo.VeryBig, false
}
