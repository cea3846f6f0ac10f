package transport

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sirocco-rt/sirocco/grid"
	"github.com/sirocco-rt/sirocco/photon"
	"github.com/sirocco-rt/sirocco/physics"
	"github.com/sirocco-rt/sirocco/rng"
)

// maxReemitTrials bounds the anisotropic rejection loop; exceeding it
// means Pmax was a poor bound for this cell's actual escape-probability
// anisotropy, and Reemit falls back to a fresh isotropic direction rather
// than spinning forever (spec §4.5.1, anisotropic re-emission).
const maxReemitTrials = 10000

// Reemit resamples a resonantly scattered photon's direction from the
// Sobolev escape-probability anisotropy of the line it last scattered in
// (spec §4.5.1), by rejection sampling against the cell's maximum escape
// probability (computed at its maximum directional velocity gradient,
// grid.Cell.DVDSMax). Nnscat records how many trial directions were drawn,
// the accepted one included — the bookkeeping convention anisowind.c uses
// so callers can recover mean trip counts (⟨Nnscat⟩ ≈ 1/⟨P/Pmax⟩, Pmax
// including the safety factor) without re-deriving it from raw photon
// counts.
func Reemit(stream *rng.Stream, vel physics.VelocityField, cell *grid.Cell, plasma physics.PlasmaState, line physics.LineParams, pMaxSafetyFactor float64, p *photon.Photon) {
	tauMin := physics.Sobolev(plasma, line, cell.DVDSMax)
	pMax := physics.PEscapeFromTau(tauMin) * (1 + pMaxSafetyFactor)
	if pMax <= 0 {
		pMax = 1
	}

	p.Nnscat = 0
	for trial := 0; trial < maxReemitTrials; trial++ {
		p.Nnscat++
		dir := randomDirection(stream)
		dvds := vel.DVDS(p.X, dir)
		tau := physics.Sobolev(plasma, line, dvds)
		pesc := physics.PEscapeFromTau(tau)
		ratio := pesc / pMax
		if ratio > 1 {
			ratio = 1
		}
		if stream.Float64() < ratio {
			acceptReemission(p, dir)
			return
		}
	}
	// Pmax underestimated this cell's anisotropy; fall back to a fresh
	// isotropic direction so the photon always makes progress.
	acceptReemission(p, randomDirection(stream))
}

func randomDirection(stream *rng.Stream) r3.Vec {
	x, y, z := stream.UnitSphereDirection()
	return r3.Vec{X: x, Y: y, Z: z}
}

func acceptReemission(p *photon.Photon, dir r3.Vec) {
	p.Dir = dir
	p.Nscat++
	p.Nres = photon.NResNone
	p.Status = photon.InFlight
}
