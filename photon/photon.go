// Package photon defines the photon bundle that the transport engine
// advances through the grid: its position, direction, frequency, weight
// and bookkeeping state. A Photon is exclusively owned by the transport
// driver for the duration of one Translate call; nothing else may mutate
// it concurrently (§3, §5 of the design).
package photon

import (
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sirocco-rt/sirocco/geo"
)

// Status enumerates the reasons a photon stopped moving.
type Status int

const (
	// InFlight means the photon is still being transported.
	InFlight Status = iota
	// HitStar means the photon was absorbed on contact with the central
	// source.
	HitStar
	// HitDisk means the photon struck the disk surface.
	HitDisk
	// Escaped means the photon left the outer boundary of the grid.
	Escaped
	// Absorbed means the photon's weight was extinguished by continuum
	// opacity (non-macro-atom mode only).
	Absorbed
	// Error means a geometric or numerical inconsistency stopped the
	// photon; see the error taxonomy in spec §7.
	Error
	// ScatterResonant means the optical-depth sampler stopped the photon
	// at a line resonance; Reemit must be called before the next
	// Translate.
	ScatterResonant
	// ScatterElectron means the photon scattered off a free electron
	// (nres < 0, isotropic re-emission, no Sobolev trapping).
	ScatterElectron
)

func (s Status) String() string {
	switch s {
	case InFlight:
		return "IN_FLIGHT"
	case HitStar:
		return "HIT_STAR"
	case HitDisk:
		return "HIT_DISK"
	case Escaped:
		return "ESCAPED"
	case Absorbed:
		return "ABSORBED"
	case Error:
		return "ERROR"
	case ScatterResonant:
		return "SCATTER_RESONANT"
	case ScatterElectron:
		return "SCATTER_ES"
	default:
		return "UNKNOWN"
	}
}

// NResContinuum and NResElectronScatter are the sentinel values of Nres
// that mean "pure continuum interaction" and "electron scattering",
// respectively. Any positive Nres is a line index into the external line
// list (physics.LineParams).
const (
	NResContinuum       = 0
	NResElectronScatter = -1
	NResNone            = -2 // sampler exited the cell without an event
)

// Photon is one Monte Carlo bundle.
type Photon struct {
	X   r3.Vec // position, cm
	Dir r3.Vec // unit direction

	Freq   float64 // Hz
	Weight float64 // dimensionless statistical weight

	Cell   int // index into the grid's flat cell array (shared by all domains), -1 if none
	Domain int // index of the owning domain, -1 if in vacuum

	Nres int // bookkeeping resonance id, see NRes* constants

	Nscat    int // cumulative number of scatters this photon has undergone
	Nnscat   int // rejection-loop trip count from the last anisotropic re-emission
	Serial   int64
	Status   Status
}

var serialCounter int64

// New creates a photon at x moving along dir (which must already be
// unit-length) with the given frequency and weight, assigning it the next
// monotonic serial number.
func New(x, dir r3.Vec, freq, weight float64) *Photon {
	return &Photon{
		X:      x,
		Dir:    dir,
		Freq:   freq,
		Weight: weight,
		Cell:   -1,
		Domain: -1,
		Nres:   NResNone,
		Status: InFlight,
		Serial: atomic.AddInt64(&serialCounter, 1),
	}
}

// Ray returns the photon's current position and direction as a geo.Ray,
// for use by the geometry oracle.
func (p *Photon) Ray() geo.Ray {
	return geo.Ray{X: p.X, Dir: p.Dir}
}

// Move advances the photon by distance s along its current direction.
func (p *Photon) Move(s float64) {
	p.X = r3.Add(p.X, r3.Scale(s, p.Dir))
}

// Clone returns a deep copy of the photon, so a trial photon can probe
// ahead without disturbing the bundle of record (matching stuff_phot in
// photon2d.c).
func (p *Photon) Clone() *Photon {
	cp := *p
	return &cp
}
