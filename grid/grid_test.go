package grid

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sirocco-rt/sirocco/geo"
)

type constVelocity struct{ v r3.Vec }

func (c constVelocity) Velocity(x r3.Vec) r3.Vec   { return c.v }
func (c constVelocity) DVDS(x, dir r3.Vec) float64 { return 1 }
func (c constVelocity) DVDSMax(x r3.Vec) float64   { return 1 }

func TestSphericalDomainLocateAndVolume(t *testing.T) {
	g := NewGrid(1, 100, geo.Disk{}, true)
	edges := []float64{1, 2, 5, 10, 20}
	classify := func(x r3.Vec) Inwind { return AllInwind }
	di := g.AddSpherical(SphericalWind, edges, classify, constVelocity{})

	domainIdx, cellIdx := g.WhereInGrid(r3.Vec{X: 3, Y: 0, Z: 0})
	if domainIdx != di {
		t.Fatalf("wrong domain %d", domainIdx)
	}
	if g.Cells[cellIdx].I != 1 {
		t.Errorf("expected shell index 1 for r=3 in [1,2,5,10,20], got %d", g.Cells[cellIdx].I)
	}

	want := 4.0 / 3.0 * math.Pi * (125.0 - 8.0)
	got := g.Volume(domainIdx, cellIdx)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("volume = %g, want %g", got, want)
	}
}

func TestSphericalDomainDSInCell(t *testing.T) {
	g := NewGrid(1, 100, geo.Disk{}, true)
	edges := []float64{1, 2, 5, 10, 20}
	classify := func(x r3.Vec) Inwind { return AllInwind }
	g.AddSpherical(SphericalWind, edges, classify, constVelocity{})

	ray := geo.Ray{X: r3.Vec{X: 3, Y: 0, Z: 0}, Dir: r3.Vec{X: 1, Y: 0, Z: 0}}
	_, cellIdx := g.WhereInGrid(ray.X)
	ds := g.DSInCell(0, cellIdx, ray)
	if math.Abs(ds-2) > 1e-9 {
		t.Errorf("ds to outer shell face = %g, want 2", ds)
	}
}

func TestCylindricalDomainLocate(t *testing.T) {
	g := NewGrid(1, 100, geo.Disk{}, true)
	rhoEdges := []float64{0, 1, 2, 3}
	zEdges := []float64{-5, 0, 5}
	classify := func(x r3.Vec) Inwind { return AllInwind }
	di := g.AddCylindrical(AnalyticBiconical, rhoEdges, zEdges, classify, constVelocity{})

	domainIdx, cellIdx := g.WhereInGrid(r3.Vec{X: 1.5, Y: 0, Z: 2})
	if domainIdx != di {
		t.Fatalf("wrong domain")
	}
	c := g.Cells[cellIdx]
	if c.I != 1 || c.J != 1 {
		t.Errorf("got cell (%d,%d), want (1,1)", c.I, c.J)
	}
}

func TestWhereInWindSkipsNotInwindCells(t *testing.T) {
	g := NewGrid(1, 100, geo.Disk{}, true)
	edges := []float64{1, 2, 5, 10}
	classify := func(x r3.Vec) Inwind {
		if r3.Norm(x) < 5 {
			return NotInwind
		}
		return AllInwind
	}
	g.AddSpherical(SphericalWind, edges, classify, constVelocity{})

	_, _, status := g.WhereInWind(r3.Vec{X: 1.5, Y: 0, Z: 0})
	if status != NotInwind {
		t.Errorf("expected NotInwind for r=1.5, got %v", status)
	}
	di, ci, status := g.WhereInWind(r3.Vec{X: 6, Y: 0, Z: 0})
	if status != AllInwind {
		t.Errorf("expected AllInwind for r=6, got %v", status)
	}
	if g.Plasma[g.Cells[ci].Plasma].ElectronDensity != 0 {
		t.Errorf("expected fresh zero-valued plasma row")
	}
	_ = di
}

func TestCylVarDomainRaggedColumns(t *testing.T) {
	g := NewGrid(1, 100, geo.Disk{}, true)
	rhoEdges := []float64{0, 1, 2}
	zCols := [][]float64{
		{0, 1, 2, 3}, // 3 z-bins
		{0, 1},       // 1 z-bin, shorter column
	}
	classify := func(x r3.Vec) Inwind { return AllInwind }
	di := g.AddCylVar(rhoEdges, zCols, classify, constVelocity{})
	d := g.Domains[di]
	if d.M != 3 {
		t.Fatalf("expected M=3 (max column height), got %d", d.M)
	}

	// A point in column 1 beyond its own z extent must not resolve to a
	// padding cell.
	domainIdx, cellIdx := g.WhereInGrid(r3.Vec{X: 1.5, Y: 0, Z: 2.5})
	if cellIdx >= 0 {
		t.Errorf("expected no cell for out-of-range column point, got domain=%d cell=%d", domainIdx, cellIdx)
	}
}

func TestRThetaDomainLocateDSInCellAndVolume(t *testing.T) {
	g := NewGrid(1, 100, geo.Disk{}, true)
	rEdges := []float64{1, 2, 4}
	thetaEdges := []float64{0, math.Pi / 4, 1.55}
	classify := func(x r3.Vec) Inwind { return AllInwind }
	di := g.AddRTheta(SphericalWind, rEdges, thetaEdges, classify, constVelocity{})

	// r=3, theta just shy of pi/2: shell i=1 (r in [2,4)), wedge j=1
	// (theta in [pi/4, 1.55)).
	x := r3.Vec{X: 3, Y: 0, Z: 0.1}
	domainIdx, cellIdx := g.WhereInGrid(x)
	if domainIdx != di {
		t.Fatalf("wrong domain %d", domainIdx)
	}
	c := g.Cells[cellIdx]
	if c.I != 1 || c.J != 1 {
		t.Errorf("got cell (%d,%d), want (1,1)", c.I, c.J)
	}

	ray := geo.Ray{X: x, Dir: r3.Vec{X: -1, Y: 0, Z: 0}}
	ds := g.DSInCell(di, cellIdx, ray)
	if ds <= 0 || math.IsInf(ds, 1) {
		t.Errorf("expected a finite positive ds to a cell face, got %g", ds)
	}

	if vol := g.Volume(di, cellIdx); vol <= 0 {
		t.Errorf("expected positive volume, got %g", vol)
	}
}

func TestCoronaDomainDSToWindUsesPlanesAndRhoWindow(t *testing.T) {
	g := NewGrid(1, 100, geo.Disk{}, true)
	rhoEdges := []float64{2, 4}
	zEdges := []float64{-5, 5}
	classify := func(x r3.Vec) Inwind { return AllInwind }
	di := g.AddCylindrical(Corona, rhoEdges, zEdges, classify, constVelocity{})

	// Straight down through the rho window: hits the outer plane z=5.
	inWindow := geo.Ray{X: r3.Vec{X: 3, Y: 0, Z: 10}, Dir: r3.Vec{X: 0, Y: 0, Z: -1}}
	if ds := g.DSToWind(di, inWindow); math.Abs(ds-5) > 1e-9 {
		t.Errorf("ds = %g, want 5", ds)
	}

	// Same vertical approach, but outside the rho window: the plane hit
	// must be rejected.
	outsideWindow := geo.Ray{X: r3.Vec{X: 10, Y: 0, Z: 10}, Dir: r3.Vec{X: 0, Y: 0, Z: -1}}
	if ds := g.DSToWind(di, outsideWindow); ds < geo.VeryBig {
		t.Errorf("expected no boundary hit outside the rho window, got ds=%g", ds)
	}
}

func TestImportCylindricalDSToWindUsesPlanesAndCylinders(t *testing.T) {
	g := NewGrid(1, 100, geo.Disk{}, true)
	rhoEdges := []float64{4, 10}
	zEdges := []float64{-1, 1}
	classify := func(x r3.Vec) Inwind { return AllInwind }
	di := g.AddCylindrical(Import, rhoEdges, zEdges, classify, constVelocity{})

	ray := geo.Ray{X: r3.Vec{X: 20, Y: 0, Z: 0}, Dir: r3.Vec{X: -1, Y: 0, Z: 0}}
	if ds := g.DSToWind(di, ray); math.Abs(ds-10) > 1e-9 {
		t.Errorf("ds = %g, want 10 (the outer rho cylinder)", ds)
	}
}

func TestImportNonCylindricalDSToWindIsKnownLimitation(t *testing.T) {
	g := NewGrid(1, 100, geo.Disk{}, true)
	rhoEdges := []float64{0, 2}
	zCols := [][]float64{{0, 1}}
	classify := func(x r3.Vec) Inwind { return AllInwind }
	di := g.AddCylVar(rhoEdges, zCols, classify, constVelocity{})

	ray := geo.Ray{X: r3.Vec{X: 20, Y: 0, Z: 0}, Dir: r3.Vec{X: -1, Y: 0, Z: 0}}
	if ds := g.DSToWind(di, ray); ds != geo.VeryBig {
		t.Errorf("expected VeryBig for a non-cylindrical IMPORT domain (known limitation), got %g", ds)
	}
}

func TestScanForWindCrossesEmptyInteriorCells(t *testing.T) {
	g := NewGrid(1, 100, geo.Disk{}, true)
	rhoEdges := []float64{4, 6, 8, 10}
	zEdges := []float64{-1, 1}
	classify := func(x r3.Vec) Inwind {
		if geo.Rho(x) >= 6 {
			return NotInwind
		}
		return AllInwind
	}
	di := g.AddCylindrical(Import, rhoEdges, zEdges, classify, constVelocity{})

	ray := geo.Ray{X: r3.Vec{X: 9, Y: 0, Z: 0}, Dir: r3.Vec{X: -1, Y: 0, Z: 0}}
	_, startCell := g.WhereInGrid(ray.X)
	if g.Cells[startCell].Inwind != NotInwind {
		t.Fatalf("expected starting cell to be empty, got %v", g.Cells[startCell].Inwind)
	}

	ds, found := g.ScanForWind(di, startCell, ray)
	if !found {
		t.Fatalf("expected ScanForWind to find a wind cell across the two empty columns")
	}
	if want := 3.0; math.Abs(ds-want) > 1e-6 {
		t.Errorf("ds = %g, want %g (contiguous accumulation across both empty columns)", ds, want)
	}

	_, landedCell := g.WhereInGrid(ray.At(ds))
	if g.Cells[landedCell].Inwind != AllInwind {
		t.Errorf("expected to land in a wind cell, got %v", g.Cells[landedCell].Inwind)
	}
}

func TestInRhoWindowClosedInterval(t *testing.T) {
	d := &Domain{RhoMin: 2, RhoMax: 8}
	cases := []struct {
		rho  float64
		want bool
	}{
		{1.9, false},
		{2.0, true},
		{5.0, true},
		{8.0, true},
		{8.1, false},
	}
	for _, c := range cases {
		if got := inRhoWindow(d, c.rho); got != c.want {
			t.Errorf("inRhoWindow(%g) = %v, want %v", c.rho, got, c.want)
		}
	}
}
