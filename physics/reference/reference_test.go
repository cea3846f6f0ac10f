package reference

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sirocco-rt/sirocco/physics"
)

func TestLineListLineFindsByNres(t *testing.T) {
	ll := NewLineList([]physics.LineParams{
		{Nres: 1, RestFreq: 2e15},
		{Nres: 2, RestFreq: 1e15},
	})
	line, ok := ll.Line(2)
	if !ok || line.RestFreq != 1e15 {
		t.Errorf("Line(2) = %+v, %v, want RestFreq=1e15, true", line, ok)
	}
	if _, ok := ll.Line(99); ok {
		t.Errorf("Line(99) found, want not found")
	}
}

func TestLineListInRangeSortedByFrequency(t *testing.T) {
	ll := NewLineList([]physics.LineParams{
		{Nres: 1, RestFreq: 3e15},
		{Nres: 2, RestFreq: 1e15},
		{Nres: 3, RestFreq: 2e15},
	})
	got := ll.InRange(0.5e15, 2.5e15)
	want := []int{2, 3}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("InRange = %v, want %v", got, want)
	}
}

func TestLineListInRangeHandlesReversedBounds(t *testing.T) {
	ll := NewLineList([]physics.LineParams{{Nres: 1, RestFreq: 1.5e15}})
	got := ll.InRange(2e15, 1e15)
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("InRange(hi, lo) = %v, want [1]", got)
	}
}

func TestContinuumModelElectronScatterFractionInUnitInterval(t *testing.T) {
	c := ContinuumModel{}
	p := physics.PlasmaState{ElectronDensity: 1e10, TElectron: 1e4}
	// With no free-free contribution (TElectron large enough to make it
	// negligible relative to electron scattering isn't guaranteed, so
	// instead check the fraction lies in (0,1] and KappaContinuum itself
	// is nonzero).
	frac := c.ElectronScatterFraction(p, 1e15)
	if frac <= 0 || frac > 1 {
		t.Errorf("fraction = %g, want in (0,1]", frac)
	}
}

func TestContinuumModelZeroDensityIsZeroOpacity(t *testing.T) {
	c := ContinuumModel{}
	p := physics.PlasmaState{ElectronDensity: 0, TElectron: 1e4}
	if got := c.KappaContinuum(p, 1e15); got != 0 {
		t.Errorf("KappaContinuum = %g, want 0", got)
	}
	if got := c.ElectronScatterFraction(p, 1e15); got != 0 {
		t.Errorf("ElectronScatterFraction = %g, want 0", got)
	}
}

func TestLinearWindVelocityMagnitudeAtBounds(t *testing.T) {
	w := LinearWind{Vmin: 1e6, Vmax: 1e8, RadiusScale: 1e12}
	v0 := w.Velocity(r3.Vec{X: 1e12})
	if math.Abs(r3.Norm(v0)-1e8) > 1 {
		t.Errorf("speed at RadiusScale = %g, want 1e8", r3.Norm(v0))
	}
	vOrigin := w.Velocity(r3.Vec{})
	if r3.Norm(vOrigin) != 0 {
		t.Errorf("speed at origin = %g, want 0", r3.Norm(vOrigin))
	}
}

func TestLinearWindDVDSMaxMatchesRadialDerivative(t *testing.T) {
	w := LinearWind{Vmin: 1e6, Vmax: 1e8, RadiusScale: 1e12}
	x := r3.Vec{X: 5e11}
	dir := r3.Vec{X: 1}
	got := w.DVDSMax(x)
	want := math.Abs(w.DVDS(x, dir))
	if math.Abs(got-want) > 1e-3*want {
		t.Errorf("DVDSMax = %g, want %g", got, want)
	}
}

type fixedStream struct {
	floats []float64
	i      int
	dir    [3]float64
}

func (f *fixedStream) Float64() float64 {
	v := f.floats[f.i%len(f.floats)]
	f.i++
	return v
}

func (f *fixedStream) UnitSphereDirection() (float64, float64, float64) {
	return f.dir[0], f.dir[1], f.dir[2]
}

func TestStarSourceSamplesOnSurfaceWithinFrequencyRange(t *testing.T) {
	s := StarSource{Radius: 7e10, FreqMin: 1e15, FreqMax: 2e15}
	stream := &fixedStream{floats: []float64{0.25}, dir: [3]float64{0, 0, 1}}

	x, dir, freq, weight := s.Sample(stream)

	if math.Abs(r3.Norm(x)-s.Radius) > 1e-6*s.Radius {
		t.Errorf("|x| = %g, want %g", r3.Norm(x), s.Radius)
	}
	if math.Abs(r3.Norm(dir)-1) > 1e-9 {
		t.Errorf("|dir| = %g, want 1", r3.Norm(dir))
	}
	if r3.Dot(dir, x) <= 0 {
		t.Errorf("direction %v points back into the star at %v", dir, x)
	}
	if freq < s.FreqMin || freq > s.FreqMax {
		t.Errorf("freq = %g, want in [%g, %g]", freq, s.FreqMin, s.FreqMax)
	}
	if weight != 1 {
		t.Errorf("weight = %g, want 1", weight)
	}
}
