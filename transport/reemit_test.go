package transport

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sirocco-rt/sirocco/grid"
	"github.com/sirocco-rt/sirocco/photon"
	"github.com/sirocco-rt/sirocco/physics"
	"github.com/sirocco-rt/sirocco/rng"
)

// axialGradient is a physics.VelocityField whose directional derivative
// depends only on the z-component of the probe direction, giving Reemit a
// genuinely anisotropic escape probability to resample against while
// keeping the resulting direction distribution azimuthally symmetric (so
// its marginal over mu=cos(theta) can be checked against a 1-D reference
// density).
type axialGradient struct {
	k float64 // s^-1, the gradient magnitude along z
}

func (a axialGradient) Velocity(x r3.Vec) r3.Vec   { return r3.Vec{} }
func (a axialGradient) DVDS(x, dir r3.Vec) float64 { return a.k * dir.Z }
func (a axialGradient) DVDSMax(x r3.Vec) float64   { return a.k }

func pescOfMu(plasma physics.PlasmaState, line physics.LineParams, k, mu float64) float64 {
	tau := physics.Sobolev(plasma, line, k*mu)
	return physics.PEscapeFromTau(tau)
}

// expectedMassInBin numerically integrates pesc(mu) over [muLo, muHi] by
// the midpoint rule, fine enough that its own discretization error is
// negligible next to Monte Carlo noise from nTrials draws.
func expectedMassInBin(plasma physics.PlasmaState, line physics.LineParams, k, muLo, muHi float64) float64 {
	const steps = 2000
	dmu := (muHi - muLo) / steps
	var total float64
	for i := 0; i < steps; i++ {
		mu := muLo + (float64(i)+0.5)*dmu
		total += pescOfMu(plasma, line, k, mu) * dmu
	}
	return total
}

func TestReemitDirectionDistributionMatchesEscapeProbabilityChiSquare(t *testing.T) {
	const (
		nTrials = 200000
		nBins   = 10
		k       = 1e6
	)
	plasma := physics.PlasmaState{MassDensity: 1e-12}
	line := physics.LineParams{OscillatorStr: 0.3}
	vel := axialGradient{k: k}
	cell := &grid.Cell{DVDSMax: k}
	stream := rng.New(123, 0)

	observed := make([]float64, nBins)
	binWidth := 2.0 / nBins
	for i := 0; i < nTrials; i++ {
		p := photon.New(r3.Vec{}, r3.Vec{X: 0, Y: 0, Z: 1}, 1e15, 1.0)
		Reemit(stream, vel, cell, plasma, line, 0.2, p)
		mu := p.Dir.Z
		bin := int((mu + 1) / binWidth)
		if bin < 0 {
			bin = 0
		}
		if bin >= nBins {
			bin = nBins - 1
		}
		observed[bin]++
	}

	expected := make([]float64, nBins)
	var totalMass float64
	for b := 0; b < nBins; b++ {
		muLo := -1 + float64(b)*binWidth
		muHi := muLo + binWidth
		expected[b] = expectedMassInBin(plasma, line, k, muLo, muHi)
		totalMass += expected[b]
	}
	floats.Scale(float64(nTrials)/totalMass, expected)

	chi2Terms := make([]float64, nBins)
	for b := range chi2Terms {
		d := observed[b] - expected[b]
		chi2Terms[b] = d * d / expected[b]
	}
	chi2 := floats.Sum(chi2Terms)

	// 9 degrees of freedom; a generous upper bound well above the 99.9th
	// percentile (~27.9) absorbs Monte Carlo noise from a single seed.
	const chi2Bound = 60.0
	if chi2 > chi2Bound {
		t.Errorf("chi^2 = %g exceeds bound %g; observed=%v expected=%v", chi2, chi2Bound, observed, expected)
	}
}

func TestReemitMeanNnscatMatchesInverseMeanEscapeProbability(t *testing.T) {
	const (
		nTrials = 100000
		k       = 1e6
	)
	plasma := physics.PlasmaState{MassDensity: 1e-12}
	line := physics.LineParams{OscillatorStr: 0.3}
	vel := axialGradient{k: k}
	cell := &grid.Cell{DVDSMax: k}
	stream := rng.New(99, 1)
	// Reemit accepts with probability P/Pmax, Pmax including the 0.2
	// safety factor, so the expected trip count is 1/<P/Pmax>.
	pMax := physics.PEscapeFromTau(physics.Sobolev(plasma, line, k)) * (1 + 0.2)

	nnscat := make([]float64, nTrials)
	pAtAccept := make([]float64, nTrials)
	for i := 0; i < nTrials; i++ {
		p := photon.New(r3.Vec{}, r3.Vec{X: 0, Y: 0, Z: 1}, 1e15, 1.0)
		Reemit(stream, vel, cell, plasma, line, 0.2, p)
		nnscat[i] = float64(p.Nnscat)
		pAtAccept[i] = pescOfMu(plasma, line, k, p.Dir.Z) / pMax
	}

	meanNnscat := floats.Sum(nnscat) / nTrials
	meanP := floats.Sum(pAtAccept) / nTrials
	if meanP <= 0 {
		t.Fatalf("meanP = %g, want > 0", meanP)
	}
	want := 1 / meanP

	if math.Abs(meanNnscat-want)/want > 0.1 {
		t.Errorf("mean Nnscat = %g, want within 10%% of 1/<P> = %g", meanNnscat, want)
	}
}
