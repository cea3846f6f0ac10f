// Package grid is the static description of space: one or more domains,
// each with a coordinate system and a cell mesh, plus the plasma state
// attached to wind cells. It answers "where is this point?" queries
// (where_in_wind, where_in_grid) and "how far to the nearest cell face or
// wind boundary?" queries (ds_in_cell, ds_to_wind) — spec §4.2 and §4.3.
package grid

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sirocco-rt/sirocco/geo"
)

// CoordType is the coordinate system a Domain's mesh is built in.
type CoordType int

const (
	Cylindrical CoordType = iota // (rho, z)
	RTheta                       // (r, theta), polar about the z-axis
	Spherical                    // (r) only, 1-D radial shells
	CylVar                       // cylindrical with a per-column z mesh (imported grids)
)

func (c CoordType) String() string {
	switch c {
	case Cylindrical:
		return "CYLIND"
	case RTheta:
		return "RTHETA"
	case Spherical:
		return "SPHERICAL"
	case CylVar:
		return "CYLVAR"
	default:
		return "UNKNOWN_COORD"
	}
}

// WindType describes how a domain's wind region was produced.
type WindType int

const (
	AnalyticBiconical WindType = iota
	Corona
	Import
	SphericalWind
)

// Inwind classifies how much of a cell is occupied by the wind.
type Inwind int

const (
	NotInwind Inwind = iota
	AllInwind
	PartInwind
	Ignore
)

func (i Inwind) String() string {
	switch i {
	case AllInwind:
		return "ALL_INWIND"
	case PartInwind:
		return "PART_INWIND"
	case NotInwind:
		return "NOT_INWIND"
	case Ignore:
		return "IGNORE"
	default:
		return "UNKNOWN_INWIND"
	}
}

// RTMode selects between the non-macro-atom (simple, weight-reducing) and
// macro-atom (weight-conserving) continuum treatment, per spec §4.4's
// "Side effect" paragraph.
type RTMode int

const (
	RTModeSimple RTMode = iota
	RTModeMacro
)

// Cell is one wind element (spec §3 "Cell (wind element)").
type Cell struct {
	LowerCorner r3.Vec
	Center      r3.Vec
	Velocity    r3.Vec // cm/s

	// DVDSMax is the maximum directional velocity gradient over the
	// cell, used to normalize the anisotropic rejection sampler.
	DVDSMax float64

	Inwind Inwind
	// Plasma is the index into Grid.Plasma, or -1 if the cell has no
	// plasma row (e.g. a cell outside the wind entirely).
	Plasma int
	Domain int

	// DFudge is the per-cell push-through distance (spec §9), derived
	// from cell size at grid construction rather than a single global.
	DFudge float64
	// Scale is the cell's characteristic linear size (the smaller of its
	// two mesh extents for Cylindrical/CylVar cells, the radial shell
	// thickness for RTheta/Spherical cells), used both to derive DFudge and to clamp step
	// length in the transport driver's SMAX_FRAC rule.
	Scale float64

	// I, J are the mesh indices of this cell within its domain (J is
	// unused/zero for Spherical domains).
	I, J int
}

// PlasmaCell is the plasma state and accumulated estimators for one wind
// cell (spec §3 "Plasma cell"). It is shared across the driver and the
// (external) ionization solver; only the driver writes to it, and only
// the estimator fields, during transport.
type PlasmaCell struct {
	ElectronDensity float64 // cm^-3
	MassDensity     float64 // g/cm^3
	TRadiation      float64 // K
	TElectron       float64 // K
	W               float64 // radiation dilution factor

	// Estimators accumulated this cycle.
	J        float64 // mean intensity integrand, sum(weight*ds)
	AveFreq  float64 // sum(weight*ds*freq)
	Ntot     int64
	Nrad     int64
	Nioniz   int64
	NScatRes int64 // resonant-line scatter count
	NScatES  int64 // electron-scatter count

	// IonScatter counts scatters per ion species, keyed by "Element/Ion".
	IonScatter map[string]int64

	// BandJ and BandNtot are frequency-band-resolved mean-intensity
	// estimators, keyed by band index (spec §5 supplement, "per-band
	// estimators"): finer-grained than the single scalar J above, used by
	// a macro-atom treatment that needs the radiation field's spectral
	// shape within a cell rather than just its integral.
	BandJ    map[int]float64
	BandNtot map[int]int64
}

// Reset zeroes the per-cycle estimators, leaving the static plasma state
// (densities, temperatures) untouched — called between ionization cycles.
func (p *PlasmaCell) Reset() {
	p.J, p.AveFreq = 0, 0
	p.Ntot, p.Nrad, p.Nioniz = 0, 0, 0
	p.NScatRes, p.NScatES = 0, 0
	p.IonScatter = nil
	p.BandJ = nil
	p.BandNtot = nil
}

// Domain is one independent subregion of space (spec §3 "Domain").
type Domain struct {
	CoordType CoordType
	WindType  WindType
	RTMode    RTMode

	N, M      int // mesh dimensions; M is 1 for Spherical
	LogSpaced bool

	RMin, RMax float64
	RhoMin     float64
	RhoMax     float64
	ZMin, ZMax float64

	InnerCone geo.Cone
	OuterCone geo.Cone
	// InnerPlane/OuterPlane bound the z extent of CORONA/IMPORT domains
	// in ds_to_wind (spec §4.3).
	InnerPlane geo.Plane
	OuterPlane geo.Plane

	// PMaxSafetyFactor scales P_max in the anisotropic sampler, exposed
	// as a tunable rather than the hardcoded 20% margin in anisowind.c
	// (SPEC_FULL supplement 4).
	PMaxSafetyFactor float64

	// NStart, NStop index the half-open range [NStart, NStop) this
	// domain occupies in the owning Grid's flat Cells array.
	NStart, NStop int

	// Mesh edges, populated by the coordinate-specific builders.
	RhoEdges       []float64   // len N+1, Cylindrical/CylVar
	ZEdges         []float64   // len M+1, Cylindrical
	ZEdgesByColumn [][]float64 // len N, each len M+1, CylVar
	REdges         []float64   // len N+1, RTheta/Spherical
	ThetaEdges     []float64   // len M+1, RTheta (radians from +z axis)
}

// Grid owns the flat arenas of cells and plasma rows shared by every
// domain, plus the global outer boundary and central-object geometry.
// Cross-references between Photon, Cell and PlasmaCell are all indices
// into these arenas (spec §9).
type Grid struct {
	Domains []Domain
	Cells   []Cell
	Plasma  []PlasmaCell

	RStar   float64
	RStarSq float64
	RMax    float64
	RMaxSq  float64

	Disk     geo.Disk
	DiskFlat bool
}

// CellAt returns a pointer to the cell at idx, or nil if idx is out of
// range (a negative index is always a caller error, never a valid cell).
func (g *Grid) CellAt(idx int) *Cell {
	if idx < 0 || idx >= len(g.Cells) {
		return nil
	}
	return &g.Cells[idx]
}

// PlasmaOf returns the plasma row owning cell c, or nil if c has none.
func (g *Grid) PlasmaOf(c *Cell) *PlasmaCell {
	if c == nil || c.Plasma < 0 || c.Plasma >= len(g.Plasma) {
		return nil
	}
	return &g.Plasma[c.Plasma]
}
