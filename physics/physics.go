// Package physics defines the narrow interfaces the transport engine uses
// to reach the external collaborators named in spec §6: initial-photon
// sampling, line and plasma data, the Sobolev optical depth, and the
// escape-probability function. The engine depends only on these
// interfaces; physics/reference provides a minimal concrete
// implementation so the engine can be exercised end-to-end without a
// full atomic-data/ionization-solver stack.
package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// LineParams describes one resonance line, keyed by the positive Nres
// index carried on a photon.
type LineParams struct {
	Nres          int
	RestFreq      float64 // Hz, rest-frame line center
	OscillatorStr float64
	Element       string
	Ion           int
	MacroAtom     bool
}

// PlasmaState is the read-only plasma information the sampler and
// transport driver need from a cell's plasma row: densities and
// temperatures for computing continuum opacity, plus the line opacity
// inputs for Sobolev.
type PlasmaState struct {
	ElectronDensity float64 // cm^-3
	MassDensity     float64 // g/cm^3
	TRadiation      float64 // K
	TElectron       float64 // K
	W               float64 // radiation dilution factor
}

// Lines is the read-only line list: line_data[nres] in spec §6.
type Lines interface {
	Line(nres int) (LineParams, bool)
	// InRange returns the Nres of every line whose rest frequency falls
	// between freqLo and freqHi (the photon's comoving frequency at the
	// start and end of the step). The caller orders them along the path,
	// breaking ties at the same path distance by lower frequency first,
	// per spec §4.4.
	InRange(freqLo, freqHi float64) []int
}

// ContinuumOpacity is the external collaborator for per-cm continuum
// optical depth (electron scattering + bound-free + free-free),
// evaluated at a plasma state and photon frequency.
type ContinuumOpacity interface {
	// KappaContinuum returns the continuum opacity in cm^-1 at freq,
	// combining electron scattering, bound-free and free-free.
	KappaContinuum(p PlasmaState, freq float64) float64
	// ElectronScatterFraction returns the fraction of KappaContinuum
	// attributable to electron scattering at freq, used to decide
	// whether a continuum interaction is a (weight-conserving) electron
	// scatter or a true absorption/emission event.
	ElectronScatterFraction(p PlasmaState, freq float64) float64
}

// PhotonSource is the external collaborator behind sample_source() in spec
// §6: it draws a new photon's initial position on some radiating surface
// and an initial direction consistent with that surface's emissivity
// (isotropic point source, limb-darkened stellar photosphere, disk
// annulus, wind continuum, ...). The transport engine never constructs
// photons itself.
type PhotonSource interface {
	// Sample draws one photon using stream for all randomness, so that
	// per-worker RNG streams (spec §5) fully determine a worker's photon
	// history from generation through termination.
	Sample(stream RandomSource) (x, dir r3.Vec, freq, weight float64)
}

// RandomSource is the minimal slice of rng.Stream a PhotonSource needs,
// kept narrow here so physics does not import the rng package.
type RandomSource interface {
	Float64() float64
	UnitSphereDirection() (x, y, z float64)
}

// VelocityField is the external collaborator that supplies the local wind
// velocity (for Doppler shifting line frequencies) and its directional
// derivative (for Sobolev optical depths), mirroring dvwind_ds in
// photon2d.c / anisowind.c.
type VelocityField interface {
	// Velocity returns the bulk wind velocity (cm/s) at x.
	Velocity(x r3.Vec) r3.Vec
	// DVDS returns the scalar velocity gradient dv.dhat/ds along
	// direction dir at position x (dvwind_ds in the original).
	DVDS(x, dir r3.Vec) float64
	// DVDSMax returns the pre-computed maximum directional velocity
	// gradient for the cell containing x (Cell.dvds_max), used to
	// normalize the anisotropic rejection sampler.
	DVDSMax(x r3.Vec) float64
}

// classicalOscillatorConst folds pi*e^2/(m_e*c) together with a nominal
// lower-level population fraction, in cgs units, so Sobolev below stays a
// single multiply-divide — consistent with spec §1 treating level
// populations as owned by the (external) ionization solver.
const classicalOscillatorConst = 0.02654 * 1e10

// Sobolev computes the Sobolev optical depth of line at plasma state p,
// given the local velocity gradient dvds (cm/s/cm = 1/s). Returns 0 (not
// an error) when dvds is exactly 0: an infinite gradient-free region has
// no physically meaningful trapping, and callers treat tau=0 as P=1 via
// PEscapeFromTau.
func Sobolev(p PlasmaState, line LineParams, dvds float64) float64 {
	if dvds == 0 {
		return 0
	}
	// tau_S = (pi e^2 / m_e c) * f * n_lower * lambda / dvds, collapsed
	// here into a single opacity coefficient kappaLine the way
	// anisowind.c treats sobolev() as an opaque external call; the
	// constant folds oscillator strength, population and physical
	// constants together since population-level detail is outside this
	// engine's scope (spec §1, "ionization/level-population solvers").
	kappaLine := classicalOscillatorConst * line.OscillatorStr * p.MassDensity
	return kappaLine / math.Abs(dvds)
}

// PEscapeFromTau is the Sobolev escape probability P(tau) =
// (1-e^-tau)/tau, with P(0) = 1 (the physical limit, not a division by
// zero) per spec §4.5.1 and the glossary.
func PEscapeFromTau(tau float64) float64 {
	if tau <= 0 {
		return 1
	}
	if tau < 1e-6 {
		// Avoid cancellation in 1-exp(-tau) for tiny tau; the series
		// 1 - tau/2 + tau^2/6 matches (1-e^-tau)/tau to machine precision
		// here.
		return 1 - tau/2 + tau*tau/6
	}
	return -math.Expm1(-tau) / tau
}
