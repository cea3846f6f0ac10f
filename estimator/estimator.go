// Package estimator owns the per-cycle radiation-field bookkeeping the
// transport driver accumulates into while photons are in flight, and the
// associative reduction that combines every worker's private copy back
// into one set of totals at the end of a cycle (spec §5). Keeping each
// worker's accumulation separate and combining it afterward means the
// driver never takes a lock while transporting a photon.
package estimator

import (
	"gonum.org/v1/gonum/floats"

	"github.com/sirocco-rt/sirocco/grid"
)

// NewShard allocates one worker's private estimator rows, one per row in
// g.Plasma, all zeroed.
func NewShard(g *grid.Grid) []grid.PlasmaCell {
	return make([]grid.PlasmaCell, len(g.Plasma))
}

// Reduce combines every shard into dst, which must have the same length
// as each shard (ordinarily len(Grid.Plasma)). dst is not zeroed first:
// callers that want a fresh total should pass a freshly allocated slice.
// The per-cell merge is associative and commutative, so shards may be
// reduced in any order or in a tree rather than strictly left to right.
func Reduce(dst []grid.PlasmaCell, shards ...[]grid.PlasmaCell) {
	jContrib := make([]float64, len(shards))
	freqContrib := make([]float64, len(shards))

	for i := range dst {
		jContrib = jContrib[:0]
		freqContrib = freqContrib[:0]
		for _, shard := range shards {
			if i >= len(shard) {
				continue
			}
			jContrib = append(jContrib, shard[i].J)
			freqContrib = append(freqContrib, shard[i].AveFreq)
			merge(&dst[i], &shard[i])
		}
		dst[i].J += floats.Sum(jContrib)
		dst[i].AveFreq += floats.Sum(freqContrib)
	}
}

// merge combines every field of src into dst except J and AveFreq, which
// Reduce accumulates separately via floats.Sum across all shards for a
// given cell (a vectorized sum rather than a running scalar total).
func merge(dst, src *grid.PlasmaCell) {
	dst.Ntot += src.Ntot
	dst.Nrad += src.Nrad
	dst.Nioniz += src.Nioniz
	dst.NScatRes += src.NScatRes
	dst.NScatES += src.NScatES

	if len(src.IonScatter) > 0 {
		if dst.IonScatter == nil {
			dst.IonScatter = make(map[string]int64, len(src.IonScatter))
		}
		for k, v := range src.IonScatter {
			dst.IonScatter[k] += v
		}
	}
	if len(src.BandJ) > 0 {
		if dst.BandJ == nil {
			dst.BandJ = make(map[int]float64, len(src.BandJ))
		}
		for k, v := range src.BandJ {
			dst.BandJ[k] += v
		}
	}
	if len(src.BandNtot) > 0 {
		if dst.BandNtot == nil {
			dst.BandNtot = make(map[int]int64, len(src.BandNtot))
		}
		for k, v := range src.BandNtot {
			dst.BandNtot[k] += v
		}
	}
}

// ApplyToGrid writes reduced estimator totals into g.Plasma's estimator
// fields, leaving the static plasma state (densities, temperatures, W)
// untouched — the handoff point to the external ionization solver, which
// reads g.Plasma afterward and owns recomputing densities/temperatures
// for the next cycle.
func ApplyToGrid(g *grid.Grid, reduced []grid.PlasmaCell) {
	for i := range g.Plasma {
		if i >= len(reduced) {
			break
		}
		r := reduced[i]
		g.Plasma[i].J = r.J
		g.Plasma[i].AveFreq = r.AveFreq
		g.Plasma[i].Ntot = r.Ntot
		g.Plasma[i].Nrad = r.Nrad
		g.Plasma[i].Nioniz = r.Nioniz
		g.Plasma[i].NScatRes = r.NScatRes
		g.Plasma[i].NScatES = r.NScatES
		g.Plasma[i].IonScatter = r.IonScatter
		g.Plasma[i].BandJ = r.BandJ
		g.Plasma[i].BandNtot = r.BandNtot
	}
}

// Bands is an ascending list of frequency band edges (Hz), len(Bands)-1
// bands in total.
type Bands []float64

// Index returns which band freq falls in, or -1 if it is outside every
// band.
func (b Bands) Index(freq float64) int {
	if len(b) < 2 {
		return -1
	}
	if freq < b[0] || freq >= b[len(b)-1] {
		return -1
	}
	lo, hi := 0, len(b)-2
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b[mid] <= freq {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// Accumulate adds one photon-step's contribution (weight*ds at freq) to
// pc's scalar estimators and, if bands is non-empty and freq falls
// within it, to the corresponding per-band estimator.
func Accumulate(pc *grid.PlasmaCell, bands Bands, freq, weight, ds float64) {
	pc.J += weight * ds
	pc.AveFreq += weight * ds * freq
	pc.Ntot++

	idx := bands.Index(freq)
	if idx < 0 {
		return
	}
	if pc.BandJ == nil {
		pc.BandJ = make(map[int]float64)
		pc.BandNtot = make(map[int]int64)
	}
	pc.BandJ[idx] += weight * ds
	pc.BandNtot[idx]++
}
