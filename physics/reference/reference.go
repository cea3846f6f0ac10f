// Package reference is a minimal concrete implementation of the
// physics.Lines / physics.ContinuumOpacity / physics.VelocityField
// collaborators described in spec §6, sufficient to drive the transport
// engine end-to-end in tests and the demo CLI. It is not a substitute for
// the atomic-data and ionization machinery spec.md explicitly places
// outside the core's scope (§1) — it exists only so those interfaces have
// at least one caller-visible implementation.
package reference

import (
	"math"
	"sort"

	"github.com/ctessum/unit"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sirocco-rt/sirocco/physics"
)

// ElectronScatteringCrossSection is the Thomson cross section, tagged
// with its cgs dimensions the way framework.go tags Cell fields with
// units struct tags — expressed here through the teacher pack's unit.Unit
// wrapper since this is a package constant, not a struct field.
var ElectronScatteringCrossSection = unit.New(6.6524587321e-25,
	unit.Dimensions{unit.LengthDim: 2})

// LineList is a simple slice-backed physics.Lines.
type LineList struct {
	lines []physics.LineParams
}

// NewLineList builds a LineList sorted by rest frequency, so InRange can
// binary-search it (matching the original's pre-sorted lin_ptr table).
func NewLineList(lines []physics.LineParams) *LineList {
	cp := append([]physics.LineParams(nil), lines...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].RestFreq < cp[j].RestFreq })
	return &LineList{lines: cp}
}

// Line implements physics.Lines.
func (l *LineList) Line(nres int) (physics.LineParams, bool) {
	for _, ln := range l.lines {
		if ln.Nres == nres {
			return ln, true
		}
	}
	return physics.LineParams{}, false
}

// InRange implements physics.Lines. It returns the lines whose rest
// frequency lies in the closed interval between freqLo and freqHi, in
// ascending rest-frequency order whichever bound is larger; lines with
// equal rest frequency come back in no defined order. sampler.Walk does
// not rely on this order: it re-sorts the candidates by path distance.
func (l *LineList) InRange(freqLo, freqHi float64) []int {
	lo, hi := freqLo, freqHi
	if lo > hi {
		lo, hi = hi, lo
	}
	var out []int
	for _, ln := range l.lines {
		if ln.RestFreq >= lo && ln.RestFreq <= hi {
			out = append(out, ln.Nres)
		}
	}
	return out
}

// ContinuumModel is a reference physics.ContinuumOpacity: electron
// scattering plus a power-law free-free term, grounded on the
// bound-free/free-free combination continuum.c's radiation() pipeline
// feeds into before bf_estimators_increment / xplasma->j accumulation.
// Bound-free opacity itself is left at zero: per spec §1 atomic-data
// loading is out of scope, and the engine only needs *a* continuum
// opacity to exercise the sampler's accumulation logic, not a correct
// photoionization cross section.
type ContinuumModel struct {
	// FreeFreeGauntFactor scales the free-free opacity; 1.0 is the
	// classical (gaunt-factor-free) approximation.
	FreeFreeGauntFactor float64
}

// KappaContinuum implements physics.ContinuumOpacity.
func (c ContinuumModel) KappaContinuum(p physics.PlasmaState, freq float64) float64 {
	sigmaT := ElectronScatteringCrossSection.Value()
	kappaES := sigmaT * p.ElectronDensity

	gaunt := c.FreeFreeGauntFactor
	if gaunt == 0 {
		gaunt = 1
	}
	// Free-free absorption coefficient, cgs, nu^-3 Kramers scaling.
	const ffConst = 3.7e8
	kappaFF := ffConst * gaunt * p.ElectronDensity * p.ElectronDensity /
		(math.Sqrt(p.TElectron) * freq * freq * freq)

	return kappaES + kappaFF
}

// ElectronScatterFraction implements physics.ContinuumOpacity.
func (c ContinuumModel) ElectronScatterFraction(p physics.PlasmaState, freq float64) float64 {
	total := c.KappaContinuum(p, freq)
	if total == 0 {
		return 0
	}
	sigmaT := ElectronScatteringCrossSection.Value()
	return sigmaT * p.ElectronDensity / total
}

// StarSource is a reference physics.PhotonSource: a uniformly and
// isotropically radiating sphere of radius Radius centered on the origin
// (the simple "star" treatment also used as the original's default
// central-source model), with a frequency drawn uniformly from [FreqMin,
// FreqMax]. Every photon is given equal weight; callers wanting a
// particular total luminosity normalize by dividing by the number of
// photons sampled.
type StarSource struct {
	Radius           float64
	FreqMin, FreqMax float64
}

// Sample implements physics.PhotonSource.
func (s StarSource) Sample(stream physics.RandomSource) (x, dir r3.Vec, freq, weight float64) {
	// Uniform point on the sphere and an independent isotropic outward
	// direction restricted to the outward hemisphere about that point, via
	// rejection against the surface normal.
	nx, ny, nz := stream.UnitSphereDirection()
	normal := r3.Vec{X: nx, Y: ny, Z: nz}
	x = r3.Scale(s.Radius, normal)
	dir = outwardHemisphereDirection(stream, normal)

	lo, hi := s.FreqMin, s.FreqMax
	freq = lo + stream.Float64()*(hi-lo)

	weight = 1
	return x, dir, freq, weight
}

// outwardHemisphereDirection draws directions isotropically and rejects
// any that point back into the sphere, so emitted photons always leave
// the surface.
func outwardHemisphereDirection(stream physics.RandomSource, normal r3.Vec) r3.Vec {
	for {
		dx, dy, dz := stream.UnitSphereDirection()
		cand := r3.Vec{X: dx, Y: dy, Z: dz}
		if r3.Dot(cand, normal) > 0 {
			return cand
		}
	}
}

// LinearWind is a reference physics.VelocityField: a wind whose speed
// grows linearly with spherical radius from Vmin (approached as r goes
// to 0) to Vmax at RadiusScale and stays at Vmax beyond it, directed
// radially outward. At the origin itself, which has no radial direction,
// the velocity is zero. This is enough to exercise
// Doppler-shifted resonance detection and non-zero Sobolev gradients
// without importing a full hydrodynamic wind solution.
type LinearWind struct {
	Vmin, Vmax  float64 // cm/s
	RadiusScale float64 // cm
}

// Velocity implements physics.VelocityField.
func (w LinearWind) Velocity(x r3.Vec) r3.Vec {
	r := r3.Norm(x)
	if r == 0 {
		return r3.Vec{}
	}
	speed := w.Vmin + (w.Vmax-w.Vmin)*math.Min(r/w.RadiusScale, 1)
	return r3.Scale(speed/r, x)
}

// DVDS implements physics.VelocityField by finite-differencing Velocity
// along dir, the same numerical strategy dwind_ds uses in the original
// when no closed-form derivative is available for a given wind model.
func (w LinearWind) DVDS(x, dir r3.Vec) float64 {
	const h = 1e5 // cm, small step relative to stellar/wind scales
	vPlus := r3.Dot(w.Velocity(r3.Add(x, r3.Scale(h, dir))), dir)
	vMinus := r3.Dot(w.Velocity(r3.Add(x, r3.Scale(-h, dir))), dir)
	return (vPlus - vMinus) / (2 * h)
}

// DVDSMax implements physics.VelocityField. For a purely radial,
// monotonic wind the maximum directional gradient is along the radial
// direction itself.
func (w LinearWind) DVDSMax(x r3.Vec) float64 {
	r := r3.Norm(x)
	if r == 0 {
		return (w.Vmax - w.Vmin) / w.RadiusScale
	}
	return math.Abs(w.DVDS(x, r3.Scale(1/r, x)))
}
