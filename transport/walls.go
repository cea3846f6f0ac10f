// Package transport drives a photon across the whole grid: one call
// advances it, cell by cell and domain by domain, until it terminates at
// a boundary or an interaction (spec §4.5, "Translate").
package transport

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sirocco-rt/sirocco/geo"
	"github.com/sirocco-rt/sirocco/grid"
	"github.com/sirocco-rt/sirocco/photon"
)

// WallHit is the nearest of the three terminal boundaries a photon can
// strike before its next cell face or wind boundary: the central object,
// the disk, and the outer edge of the computational domain.
type WallHit struct {
	Ds     float64
	Status photon.Status
	Normal r3.Vec // outward surface normal at the hit point, HitDisk only
}

// ErrDiskEmbedded is the recoverable condition photon2d.c's walls()
// calls "should not happen": floating point roundoff has left the
// photon's current position marginally inside the disk surface at the
// start of this step, so DSToDisk with returnVeryBigOnMiss=false reports
// geo.DiskMissSentinel instead of a forward crossing. The driver recovers
// by nudging the photon along its direction by its cell's DFudge and
// retrying, rather than treating it as a fatal error.
var ErrDiskEmbedded = diskEmbeddedError{}

type diskEmbeddedError struct{}

func (diskEmbeddedError) Error() string { return "transport: photon embedded in disk surface" }

// Walls returns the nearest of the star, disk and outer-radius boundary
// crossings along ray. Priority when two coincide within floating point
// tolerance goes to the star, then the disk, then the outer radius,
// matching the check order in the original's walls() (closest object to
// the radiation source is tested first since most photons originate
// there). Returns an error equal to ErrDiskEmbedded, never a terminal
// WallHit, when the disk check reports embedding.
func Walls(g *grid.Grid, ray geo.Ray) (WallHit, error) {
	dsStar := geo.DSToSphere(g.RStar, ray)

	var dsDisk float64 = geo.VeryBig
	if g.Disk.Radius > 0 {
		dsDisk = geo.DSToDisk(ray, g.Disk, false)
		if dsDisk == geo.DiskMissSentinel {
			return WallHit{}, ErrDiskEmbedded
		}
		if dsDisk < 0 {
			dsDisk = geo.VeryBig
		}
	}

	dsOuter := geo.DSToSphere(g.RMax, ray)

	switch {
	case dsStar <= dsDisk && dsStar <= dsOuter && dsStar < geo.VeryBig:
		return WallHit{Ds: dsStar, Status: photon.HitStar}, nil
	case dsDisk <= dsOuter && dsDisk < geo.VeryBig:
		hitX := ray.At(dsDisk)
		return WallHit{Ds: dsDisk, Status: photon.HitDisk, Normal: g.Disk.NormalAt(hitX)}, nil
	case dsOuter < geo.VeryBig:
		return WallHit{Ds: dsOuter, Status: photon.Escaped}, nil
	default:
		return WallHit{Ds: geo.VeryBig, Status: photon.InFlight}, nil
	}
}
