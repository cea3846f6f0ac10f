// Package sirocco orchestrates a full ionization cycle: it fans a batch
// of photons out across a worker pool, each worker driving its photons
// through transport.Translate/transport.Reemit with its own private
// random stream and estimator shard, then reduces every worker's shard
// back into the grid once all photons have terminated (spec §5).
package sirocco

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/sirocco-rt/sirocco/estimator"
	"github.com/sirocco-rt/sirocco/grid"
	"github.com/sirocco-rt/sirocco/photon"
	"github.com/sirocco-rt/sirocco/physics"
	"github.com/sirocco-rt/sirocco/rng"
	"github.com/sirocco-rt/sirocco/transport"
)

// Simulation bundles the grid and the external atomic-data collaborators
// needed to drive photons through it.
type Simulation struct {
	Grid      *grid.Grid
	Lines     physics.Lines
	Continuum physics.ContinuumOpacity
	Velocity  physics.VelocityField
	Source    physics.PhotonSource
	Config    transport.Config
	Bands     estimator.Bands

	// Seed is the base RNG seed; combined with each worker's index so a
	// given (Seed, NWorkers) pair always reproduces the same histories.
	Seed int64
	// NWorkers is the number of transport workers to run concurrently.
	// 0 means runtime.GOMAXPROCS(0), matching the teacher pipeline's
	// Calculations stage.
	NWorkers int
}

// CycleResult summarizes one call to RunCycle.
type CycleResult struct {
	StatusCounts map[photon.Status]int64
	ErrorCounts  map[transport.ErrorKind]int64
	Duration     time.Duration
}

// GeneratePhotons draws n new photons from s.Source using a dedicated RNG
// stream seeded from s.Seed, distinct from any transport worker's stream,
// so generation is reproducible independent of NWorkers.
func (s *Simulation) GeneratePhotons(n int) []*photon.Photon {
	stream := rng.New(s.Seed, -1)
	photons := make([]*photon.Photon, n)
	for i := range photons {
		x, dir, freq, weight := s.Source.Sample(stream)
		photons[i] = photon.New(x, dir, freq, weight)
	}
	return photons
}

// RunCycle transports every photon in photons to termination, then
// reduces all workers' estimator shards into s.Grid.Plasma. It mutates
// the Photon values in place (final Status, position, weight) and
// returns aggregate counts of how photons terminated.
func (s *Simulation) RunCycle(photons []*photon.Photon) CycleResult {
	start := time.Now()
	nWorkers := s.NWorkers
	if nWorkers <= 0 {
		nWorkers = runtime.GOMAXPROCS(0)
	}
	if nWorkers > len(photons) && len(photons) > 0 {
		nWorkers = len(photons)
	}
	if nWorkers < 1 {
		nWorkers = 1
	}

	statusCounts := make([]map[photon.Status]int64, nWorkers)
	errorCounts := make([]map[transport.ErrorKind]int64, nWorkers)
	shards := make([][]grid.PlasmaCell, nWorkers)

	var wg sync.WaitGroup
	wg.Add(nWorkers)
	for w := 0; w < nWorkers; w++ {
		go func(w int) {
			defer wg.Done()
			stream := rng.New(s.Seed, w)
			shard := estimator.NewShard(s.Grid)
			shards[w] = shard
			sc := make(map[photon.Status]int64)
			ec := make(map[transport.ErrorKind]int64)
			statusCounts[w] = sc
			errorCounts[w] = ec

			deps := transport.Deps{
				Grid:       s.Grid,
				Lines:      s.Lines,
				Continuum:  s.Continuum,
				Velocity:   s.Velocity,
				Estimators: shard,
				Bands:      s.Bands,
			}

			for i := w; i < len(photons); i += nWorkers {
				p := photons[i]
				driveOne(stream, deps, s.Config, p, ec)
				sc[p.Status]++
			}
		}(w)
	}
	wg.Wait()

	reduced := estimator.NewShard(s.Grid)
	estimator.Reduce(reduced, shards...)
	estimator.ApplyToGrid(s.Grid, reduced)

	return CycleResult{
		StatusCounts: mergeStatusCounts(statusCounts),
		ErrorCounts:  mergeErrorCounts(errorCounts),
		Duration:     time.Since(start),
	}
}

// driveOne runs the Translate/Reemit loop for a single photon until it
// reaches a terminal status or an unrecoverable transport error.
func driveOne(stream *rng.Stream, deps transport.Deps, cfg transport.Config, p *photon.Photon, errorCounts map[transport.ErrorKind]int64) {
	const maxReemits = 100000
	for i := 0; i < maxReemits; i++ {
		err := transport.Translate(stream, deps, cfg, p)
		if err != nil {
			if terr, ok := err.(*transport.Error); ok {
				errorCounts[terr.Kind]++
			} else {
				errorCounts[transport.ErrKindStuck]++
			}
			return
		}
		if p.Status != photon.ScatterResonant {
			return
		}
		cell := deps.Grid.CellAt(p.Cell)
		if cell == nil {
			p.Status = photon.Error
			errorCounts[transport.ErrKindDegenerate]++
			return
		}
		static := deps.Grid.Plasma[cell.Plasma]
		plasmaState := physics.PlasmaState{
			ElectronDensity: static.ElectronDensity,
			MassDensity:     static.MassDensity,
			TRadiation:      static.TRadiation,
			TElectron:       static.TElectron,
			W:               static.W,
		}
		line, ok := deps.Lines.Line(p.Nres)
		if !ok {
			p.Status = photon.Error
			errorCounts[transport.ErrKindDegenerate]++
			return
		}
		pMaxSafety := pMaxSafetyFactor(cfg)
		if f := deps.Grid.Domains[cell.Domain].PMaxSafetyFactor; f > 0 {
			pMaxSafety = f
		}
		transport.Reemit(stream, deps.Velocity, cell, plasmaState, line, pMaxSafety, p)
	}
	p.Status = photon.Error
	errorCounts[transport.ErrKindStuck]++
}

func pMaxSafetyFactor(cfg transport.Config) float64 {
	if cfg.PMaxSafetyFactor > 0 {
		return cfg.PMaxSafetyFactor
	}
	return 0.2
}

func mergeStatusCounts(shards []map[photon.Status]int64) map[photon.Status]int64 {
	out := make(map[photon.Status]int64)
	for _, m := range shards {
		for k, v := range m {
			out[k] += v
		}
	}
	return out
}

func mergeErrorCounts(shards []map[transport.ErrorKind]int64) map[transport.ErrorKind]int64 {
	out := make(map[transport.ErrorKind]int64)
	for _, m := range shards {
		for k, v := range m {
			out[k] += v
		}
	}
	return out
}

// LogCycle writes a one-line progress summary of a completed cycle to w,
// in the style of the teacher pipeline's per-iteration progress log.
func LogCycle(w io.Writer, cycle int, r CycleResult) {
	fmt.Fprintf(w, "cycle %-4d  walltime=%-10s  escaped=%-8d star=%-8d disk=%-8d absorbed=%-8d errors=%-6d\n",
		cycle, r.Duration.Round(time.Millisecond),
		r.StatusCounts[photon.Escaped], r.StatusCounts[photon.HitStar],
		r.StatusCounts[photon.HitDisk], r.StatusCounts[photon.Absorbed],
		sumErrors(r.ErrorCounts))
}

func sumErrors(m map[transport.ErrorKind]int64) int64 {
	var total int64
	for _, v := range m {
		total += v
	}
	return total
}
