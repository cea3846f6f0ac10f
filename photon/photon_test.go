package photon

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewSetsInitialState(t *testing.T) {
	x := r3.Vec{X: 1, Y: 2, Z: 3}
	dir := r3.Vec{X: 1, Y: 0, Z: 0}
	p := New(x, dir, 1e15, 0.5)

	if p.X != x || p.Dir != dir {
		t.Errorf("X/Dir = %v/%v, want %v/%v", p.X, p.Dir, x, dir)
	}
	if p.Freq != 1e15 || p.Weight != 0.5 {
		t.Errorf("Freq/Weight = %g/%g, want 1e15/0.5", p.Freq, p.Weight)
	}
	if p.Cell != -1 || p.Domain != -1 {
		t.Errorf("Cell/Domain = %d/%d, want -1/-1", p.Cell, p.Domain)
	}
	if p.Nres != NResNone {
		t.Errorf("Nres = %d, want NResNone", p.Nres)
	}
	if p.Status != InFlight {
		t.Errorf("Status = %v, want InFlight", p.Status)
	}
}

func TestNewAssignsDistinctMonotonicSerials(t *testing.T) {
	p1 := New(r3.Vec{}, r3.Vec{X: 1}, 1, 1)
	p2 := New(r3.Vec{}, r3.Vec{X: 1}, 1, 1)
	if p2.Serial <= p1.Serial {
		t.Errorf("serials not monotonic: %d then %d", p1.Serial, p2.Serial)
	}
}

func TestMoveAdvancesAlongDirection(t *testing.T) {
	p := New(r3.Vec{X: 0, Y: 0, Z: 0}, r3.Vec{X: 0, Y: 1, Z: 0}, 1, 1)
	p.Move(5)
	want := r3.Vec{X: 0, Y: 5, Z: 0}
	if p.X != want {
		t.Errorf("X after Move(5) = %v, want %v", p.X, want)
	}
}

func TestRayReflectsCurrentPositionAndDirection(t *testing.T) {
	p := New(r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{X: 0, Y: 0, Z: 1}, 1, 1)
	ray := p.Ray()
	if ray.X != p.X || ray.Dir != p.Dir {
		t.Errorf("Ray() = %+v, want X=%v Dir=%v", ray, p.X, p.Dir)
	}
}

func TestCloneIsIndependentCopy(t *testing.T) {
	p := New(r3.Vec{X: 1}, r3.Vec{X: 1}, 1, 1)
	cp := p.Clone()
	cp.Move(10)
	cp.Weight = 0

	if p.X == cp.X {
		t.Errorf("original photon mutated by clone: X = %v", p.X)
	}
	if p.Weight == cp.Weight {
		t.Errorf("original photon weight mutated by clone")
	}
	if cp.Serial != p.Serial {
		t.Errorf("clone serial = %d, want %d (same as original)", cp.Serial, p.Serial)
	}
}

func TestStatusStringCoversKnownValues(t *testing.T) {
	cases := map[Status]string{
		InFlight:            "IN_FLIGHT",
		HitStar:             "HIT_STAR",
		HitDisk:             "HIT_DISK",
		Escaped:             "ESCAPED",
		Absorbed:            "ABSORBED",
		Error:               "ERROR",
		ScatterResonant:     "SCATTER_RESONANT",
		ScatterElectron:     "SCATTER_ES",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", status, got, want)
		}
	}
}
