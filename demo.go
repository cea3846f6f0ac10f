package sirocco

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sirocco-rt/sirocco/geo"
	"github.com/sirocco-rt/sirocco/grid"
	"github.com/sirocco-rt/sirocco/physics"
	"github.com/sirocco-rt/sirocco/physics/reference"
	"github.com/sirocco-rt/sirocco/transport"
)

// DemoSphericalWind builds the one-domain spherically symmetric wind used
// as the CLI's default scenario and in integration tests (spec §8,
// scenario 1): a central star of radius rstar surrounded by a wind
// extending to rmax, with uniform density and a linear radial velocity
// law. It returns a ready-to-run Simulation with nShells log-spaced
// radial cells.
func DemoSphericalWind(rstar, rmax float64, nShells int, vmax, electronDensity, massDensity float64) *Simulation {
	g := grid.NewGrid(rstar, rmax, geo.Disk{}, true)
	vel := reference.LinearWind{Vmin: vmax * 0.01, Vmax: vmax, RadiusScale: rmax}

	edges := make([]float64, nShells+1)
	logMin, logMax := math.Log(rstar), math.Log(rmax)
	for i := range edges {
		frac := float64(i) / float64(nShells)
		edges[i] = math.Exp(logMin + frac*(logMax-logMin))
	}
	edges[0] = rstar
	edges[nShells] = rmax

	classify := func(x r3.Vec) grid.Inwind { return grid.AllInwind }
	g.AddSpherical(grid.SphericalWind, edges, classify, vel)

	for i := range g.Plasma {
		g.Plasma[i].ElectronDensity = electronDensity
		g.Plasma[i].MassDensity = massDensity
		g.Plasma[i].TElectron = 1e4
		g.Plasma[i].TRadiation = 1e4
		g.Plasma[i].W = 1.0
	}

	lines := reference.NewLineList(defaultDemoLines())
	cont := reference.ContinuumModel{FreeFreeGauntFactor: 1.0}
	source := reference.StarSource{Radius: rstar, FreqMin: 1e15, FreqMax: 3e15}

	return &Simulation{
		Grid:      g,
		Lines:     lines,
		Continuum: cont,
		Velocity:  vel,
		Source:    source,
		Config: transport.Config{
			SMaxFrac:         0.1,
			PMaxSafetyFactor: 0.2,
			MacroAtom:        false,
		},
	}
}

// defaultDemoLines is a small illustrative set of resonance lines loosely
// patterned on common UV wind diagnostics (C IV, Si IV-like rest
// frequencies), enough to exercise the sampler's line-resonance path in
// the demo scenario without depending on real atomic-data tables (spec
// §1 places those out of scope).
func defaultDemoLines() []physics.LineParams {
	return []physics.LineParams{
		{Nres: 1, RestFreq: 1.932e15, OscillatorStr: 0.194, Element: "C", Ion: 4},
		{Nres: 2, RestFreq: 1.946e15, OscillatorStr: 0.095, Element: "C", Ion: 4},
		{Nres: 3, RestFreq: 2.139e15, OscillatorStr: 0.513, Element: "Si", Ion: 4},
	}
}
