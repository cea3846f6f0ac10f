package transport

import (
	"math"

	"github.com/sirocco-rt/sirocco/estimator"
	"github.com/sirocco-rt/sirocco/geo"
	"github.com/sirocco-rt/sirocco/grid"
	"github.com/sirocco-rt/sirocco/photon"
	"github.com/sirocco-rt/sirocco/physics"
	"github.com/sirocco-rt/sirocco/rng"
	"github.com/sirocco-rt/sirocco/sampler"
)

// Deps are the read-only (Grid, Lines, Continuum, Velocity) and
// worker-private (Estimators) collaborators Translate needs. Estimators
// is this worker's own slice of grid.PlasmaCell rows, one per Grid.Plasma
// row, accumulated into during transport and combined with every other
// worker's copy only at the end of a cycle (spec §5's "per-worker
// private estimator copies, associative reduction at cycle end") so that
// no locking is needed while photons are in flight.
type Deps struct {
	Grid       *grid.Grid
	Lines      physics.Lines
	Continuum  physics.ContinuumOpacity
	Velocity   physics.VelocityField
	Estimators []grid.PlasmaCell
	// Bands is an optional set of frequency band edges for per-band
	// mean-intensity estimators (spec §5 supplement); nil disables them.
	Bands estimator.Bands
}

// Config tunes the transport driver.
type Config struct {
	// SMaxFrac clamps a single sampler step to at most SMaxFrac times the
	// cell's characteristic scale, keeping the linear Doppler-shift
	// approximation in sampler.Walk valid even in cells much larger than
	// a Sobolev length (spec §9 supplement, "SMAX_FRAC step clamp").
	SMaxFrac float64
	// MacroAtom selects weight-conserving continuum absorption instead
	// of the simple weight-reducing treatment.
	MacroAtom bool
	// PMaxSafetyFactor is the margin applied over a cell's analytic
	// maximum escape probability in the anisotropic re-emission sampler,
	// used when a domain does not specify its own (spec §4 supplement).
	PMaxSafetyFactor float64
}

// ErrorKind classifies why Translate gave up on a photon (spec §7's
// error taxonomy).
type ErrorKind string

const (
	ErrKindDiskEmbedded ErrorKind = "disk_embedded_unrecovered"
	ErrKindDegenerate   ErrorKind = "degenerate_step"
	ErrKindStuck        ErrorKind = "stuck_step_budget_exceeded"
)

// Error reports a non-recoverable transport failure, tagged with a Kind
// so callers can maintain per-kind counters rather than parsing strings.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string { return string(e.Kind) + ": " + e.Detail }

const (
	maxTranslateSteps = 1_000_000
	// diskEmbedNudge is the fallback push-through distance used when a
	// photon's own cell has no Scale to derive one from (pure-vacuum
	// disk-embedding recovery).
	diskEmbedNudge = 1e-8
)

// Translate advances p from its current position until it reaches a
// terminal boundary (HitStar, HitDisk, Escaped, Absorbed), a resonant
// line scatter awaiting transport.Reemit, or an unrecoverable error
// (spec §4.5). Electron scattering and macro-atom continuum events are
// isotropic and are resolved internally without returning control to the
// caller.
func Translate(stream *rng.Stream, deps Deps, cfg Config, p *photon.Photon) error {
	for iter := 0; iter < maxTranslateSteps; iter++ {
		ray := p.Ray()
		wall, err := Walls(deps.Grid, ray)
		if err != nil {
			nudge := diskEmbedNudge
			if domainIdx, cellIdx, status := deps.Grid.WhereInWind(p.X); status != grid.NotInwind {
				if c := deps.Grid.CellAt(cellIdx); c != nil && c.DFudge > 0 {
					nudge = c.DFudge
				}
				_ = domainIdx
			}
			p.Move(nudge)
			continue
		}

		domainIdx, cellIdx, inwindStatus := deps.Grid.WhereInWind(p.X)
		if inwindStatus == grid.NotInwind {
			dsEnter := nearestWindEntry(deps.Grid, ray)
			step := wall.Ds
			if dsEnter < step {
				step = dsEnter
			}
			if step >= geo.VeryBig {
				p.Status = photon.Escaped
				return nil
			}
			if wall.Ds <= dsEnter {
				p.Move(wall.Ds)
				p.Status = wall.Status
				return nil
			}
			p.Move(step * (1 + 1e-9))
			continue
		}

		cell := deps.Grid.CellAt(cellIdx)
		p.Domain, p.Cell = domainIdx, cellIdx
		static := deps.Grid.Plasma[cell.Plasma]
		plasmaState := physics.PlasmaState{
			ElectronDensity: static.ElectronDensity,
			MassDensity:     static.MassDensity,
			TRadiation:      static.TRadiation,
			TElectron:       static.TElectron,
			W:               static.W,
		}

		dsCell := deps.Grid.DSInCell(domainIdx, cellIdx, ray)
		dsMax := math.Min(dsCell, wall.Ds)
		if cfg.SMaxFrac > 0 && cell.Scale > 0 {
			dsMax = math.Min(dsMax, cfg.SMaxFrac*cell.Scale)
		}
		if dsMax <= 0 || math.IsInf(dsMax, 1) {
			p.Status = photon.Error
			return &Error{Kind: ErrKindDegenerate, Detail: "non-positive or infinite step bound"}
		}

		macroAtom := cfg.MacroAtom || deps.Grid.Domains[domainIdx].RTMode == grid.RTModeMacro
		out := sampler.Walk(stream, deps.Lines, deps.Continuum, deps.Velocity, plasmaState, p, dsMax, macroAtom)
		accumulate(&deps.Estimators[cell.Plasma], deps.Bands, p, out)
		p.Move(out.Ds)

		switch {
		case out.Nres == photon.NResNone:
			if wall.Ds <= dsCell && out.Ds >= wall.Ds-1e-6*wall.Ds {
				p.Status = wall.Status
				return nil
			}
			continue
		case out.Nres == photon.NResElectronScatter:
			p.Nres = photon.NResElectronScatter
			p.Nscat++
			p.Dir = randomDirection(stream)
			continue
		case out.Absorbed:
			p.Weight = 0
			p.Status = photon.Absorbed
			return nil
		case out.Nres == photon.NResContinuum:
			// Macro-atom mode: weight-conserving isotropic re-emission,
			// deferring level bookkeeping to the external solver.
			p.Dir = randomDirection(stream)
			continue
		default:
			p.Nres = out.Nres
			p.Status = photon.ScatterResonant
			return nil
		}
	}
	p.Status = photon.Error
	return &Error{Kind: ErrKindStuck, Detail: "exceeded max translate iterations"}
}

// nearestWindEntry returns the nearest distance along ray at which the
// photon would enter some domain's wind region, across every domain.
// A photon already inside an IMPORT domain's mesh uses the cell-by-cell
// ScanForWind to cross any empty interior cells; one that is still
// outside the mesh entirely (true vacuum between domains, or between
// the star and an IMPORT domain that doesn't start at the inner
// boundary) has no cell to scan from, so it uses DSToWind's analytic
// boundary instead — which covers cylindrical-coordinate IMPORT domains
// and returns VeryBig for the coordinate types DSToWind documents as a
// known limitation. For a cylindrical IMPORT domain the ray then lands
// inside the mesh and the next call resolves the rest via ScanForWind; an
// IMPORT domain of another coordinate type offers no entry distance to a
// photon outside its mesh.
func nearestWindEntry(g *grid.Grid, ray geo.Ray) float64 {
	best := geo.VeryBig
	for di := range g.Domains {
		d := &g.Domains[di]
		var ds float64
		if d.WindType == grid.Import {
			if dIdx, cIdx := g.WhereInGrid(ray.X); dIdx == di && cIdx >= 0 {
				ds = geo.VeryBig
				if s, found := g.ScanForWind(di, cIdx, ray); found {
					ds = s
				}
			} else {
				ds = g.DSToWind(di, ray)
			}
		} else {
			ds = g.DSToWind(di, ray)
		}
		if ds > 0 && ds < best {
			best = ds
		}
	}
	return best
}

func accumulate(est *grid.PlasmaCell, bands estimator.Bands, p *photon.Photon, out sampler.Outcome) {
	estimator.Accumulate(est, bands, p.Freq, p.Weight, out.Ds)
	if out.Nres != photon.NResNone {
		est.Nrad++
	}
	switch out.Nres {
	case photon.NResElectronScatter:
		est.NScatES++
	default:
		if out.Nres > 0 {
			est.NScatRes++
		}
	}
}
