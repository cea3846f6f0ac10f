// Package sampler implements the optical-depth sampler: given a photon,
// the maximum distance it may travel this step (bounded by the nearest
// cell face), the plasma state of the cell it's in, and the line list and
// continuum opacity of the external atomic-data collaborators, it decides
// where along that step the photon's next interaction (if any) occurs —
// spec §4.4.
package sampler

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sirocco-rt/sirocco/photon"
	"github.com/sirocco-rt/sirocco/physics"
	"github.com/sirocco-rt/sirocco/rng"
)

// SpeedOfLight in cm/s.
const SpeedOfLight = 2.99792458e10

// Outcome is what the sampler decided happens over [0, Ds] along the
// photon's current direction.
type Outcome struct {
	Ds       float64 // distance traveled before the event (or DsMax if none)
	Nres     int     // photon.NResContinuum, photon.NResElectronScatter, a line Nres, or photon.NResNone
	Weight   float64 // photon weight after the step (always the incoming weight; absorption is reported via Absorbed)
	Absorbed bool    // true if the photon's weight was extinguished (simple mode continuum absorption)
}

// candidate is one line resonance crossed during the step, annotated with
// the path distance at which the photon's comoving-frame frequency
// matches the line's rest frequency.
type candidate struct {
	nres     int
	restFreq float64
	ds       float64
}

// Walk samples the next interaction point for p as it travels up to dsMax
// along its current direction through a cell with plasma state plasma,
// using lines and cont as the atomic-data/opacity collaborators, vel for
// Doppler shifting and Sobolev gradients, and stream as the photon's
// private random source. mode selects simple (weight-reducing) vs
// macro-atom (weight-conserving) continuum absorption semantics.
func Walk(stream *rng.Stream, lines physics.Lines, cont physics.ContinuumOpacity, vel physics.VelocityField, plasma physics.PlasmaState, p *photon.Photon, dsMax float64, macroAtom bool) Outcome {
	target := stream.TauSample()

	x0 := p.X
	dir := p.Dir
	vproj0 := r3.Dot(vel.Velocity(x0), dir)
	x1 := r3.Add(x0, r3.Scale(dsMax, dir))
	vproj1 := r3.Dot(vel.Velocity(x1), dir)

	freqAt := func(s float64) float64 {
		vproj := vproj0
		if dsMax > 0 {
			vproj = vproj0 + (vproj1-vproj0)*(s/dsMax)
		}
		return p.Freq * (1 - vproj/SpeedOfLight)
	}

	candidates := resonanceCandidates(lines, freqAt(0), freqAt(dsMax), vproj0, vproj1, dsMax, p.Freq)

	accumulated := 0.0
	sPos := 0.0
	for _, c := range candidates {
		segFreq := freqAt(0.5 * (sPos + c.ds))
		kappa := cont.KappaContinuum(plasma, segFreq)
		dTau := kappa * (c.ds - sPos)
		if accumulated+dTau >= target {
			dsEvent := sPos
			if kappa > 0 {
				dsEvent = sPos + (target-accumulated)/kappa
			}
			return continuumOutcome(stream, cont, plasma, freqAt(dsEvent), dsEvent, p.Weight, macroAtom)
		}
		accumulated += dTau
		sPos = c.ds

		line, ok := lines.Line(c.nres)
		if !ok {
			continue
		}
		dvds := vel.DVDS(r3.Add(x0, r3.Scale(c.ds, dir)), dir)
		tau := physics.Sobolev(plasma, line, dvds)
		pEsc := physics.PEscapeFromTau(tau)
		if stream.Float64() >= pEsc {
			return Outcome{Ds: c.ds, Nres: c.nres, Weight: p.Weight}
		}
	}

	segFreq := freqAt(0.5 * (sPos + dsMax))
	kappa := cont.KappaContinuum(plasma, segFreq)
	dTau := kappa * (dsMax - sPos)
	if accumulated+dTau >= target {
		dsEvent := sPos
		if kappa > 0 {
			dsEvent = sPos + (target-accumulated)/kappa
		}
		return continuumOutcome(stream, cont, plasma, freqAt(dsEvent), dsEvent, p.Weight, macroAtom)
	}

	return Outcome{Ds: dsMax, Nres: photon.NResNone, Weight: p.Weight}
}

// continuumOutcome decides, at a continuum interaction, whether it is
// electron scattering (weight-conserving) or absorption/emission
// (terminal absorption in simple mode, weight-conserving re-emission in
// macro-atom mode).
func continuumOutcome(stream *rng.Stream, cont physics.ContinuumOpacity, plasma physics.PlasmaState, freq, ds, weight float64, macroAtom bool) Outcome {
	esFrac := cont.ElectronScatterFraction(plasma, freq)
	if stream.Float64() < esFrac {
		return Outcome{Ds: ds, Nres: photon.NResElectronScatter, Weight: weight}
	}
	if macroAtom {
		// Weight-conserving: the macro-atom formalism re-emits with the
		// same weight, deferring thermalization bookkeeping to the
		// (external) ionization solver (spec §4.4 "Side effect").
		return Outcome{Ds: ds, Nres: photon.NResContinuum, Weight: weight}
	}
	return Outcome{Ds: ds, Nres: photon.NResContinuum, Weight: weight, Absorbed: true}
}

// resonanceCandidates finds every line InRange reports, computes the path
// distance at which each comes into resonance assuming the projected
// wind velocity varies linearly with path distance over the step, and
// returns them sorted by that distance with ties broken by ascending rest
// frequency (spec §4.4: "ties ... broken by lower frequency first").
func resonanceCandidates(lines physics.Lines, freqLo, freqHi, vproj0, vproj1, dsMax, photonFreq float64) []candidate {
	nresList := lines.InRange(freqLo, freqHi)
	out := make([]candidate, 0, len(nresList))
	for _, nres := range nresList {
		line, ok := lines.Line(nres)
		if !ok {
			continue
		}
		// photonFreq*(1 - vproj/c) = restFreq  =>  vproj = c*(1-restFreq/photonFreq)
		vprojTarget := SpeedOfLight * (1 - line.RestFreq/photonFreq)
		var s float64
		if vproj1 == vproj0 {
			s = 0
		} else {
			s = dsMax * (vprojTarget - vproj0) / (vproj1 - vproj0)
		}
		if s < 0 || s > dsMax || math.IsNaN(s) {
			continue
		}
		out = append(out, candidate{nres: nres, restFreq: line.RestFreq, ds: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ds != out[j].ds {
			return out[i].ds < out[j].ds
		}
		return out[i].restFreq < out[j].restFreq
	})
	return out
}
