package collision

import (
	"errors"
	"math"
	"testing"

	"collision-sim/internal/common"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

func arena(t *testing.T) *Circle {
	t.Helper()
	c, err := NewCircle(common.Vector{}, 20)
	if err != nil {
		t.Fatalf("NewCircle() error = %v", err)
	}
	return c
}

func TestNewCircle_Invalid(t *testing.T) {
	if _, err := NewCircle(common.Vector{}, 0); err == nil {
		t.Error("NewCircle() accepted zero radius")
	}
	if _, err := NewCircle(common.Vector{X: math.NaN()}, 1); err == nil {
		t.Error("NewCircle() accepted NaN center")
	}
}

func TestCircle_TimeOfImpact(t *testing.T) {
	tests := []struct {
		name      string
		k         Kinematics
		tMax      float64
		wantHit   bool
		wantTime  float64
		wantDelta common.Vector
	}{
		{
			// radial outward: t = (R_f - r - d) / s
			name:      "radial outward",
			k:         body(10, 0, 18, 0, 1),
			tMax:      1,
			wantHit:   true,
			wantTime:  (20.0 - 1 - 10) / 18,
			wantDelta: common.Vector{X: -36, Y: 0},
		},
		{
			// through the center to the far wall: t = (d + R_f - r) / s
			name:      "radial inward",
			k:         body(10, 0, -58, 0, 1),
			tMax:      1,
			wantHit:   true,
			wantTime:  (10.0 + 20 - 1) / 58,
			wantDelta: common.Vector{X: 116, Y: 0},
		},
		{
			name:    "too slow for this step",
			k:       body(10, 0, 1, 0, 1),
			tMax:    1,
			wantHit: false,
		},
		{
			name:    "at rest",
			k:       body(0, 0, 0, 0, 1),
			tMax:    1,
			wantHit: false,
		},
		{
			name:      "touching and moving outward",
			k:         body(19, 0, 2, 0, 1),
			tMax:      1,
			wantHit:   true,
			wantTime:  0,
			wantDelta: common.Vector{X: -4, Y: 0},
		},
		{
			name:      "touching and moving inward",
			k:         body(19, 0, -76, 0, 1),
			tMax:      1,
			wantHit:   true,
			wantTime:  0.5,
			wantDelta: common.Vector{X: 152, Y: 0},
		},
		{
			name:      "outside and moving outward",
			k:         body(25, 0, 1, 0, 1),
			tMax:      1,
			wantHit:   true,
			wantTime:  0,
			wantDelta: common.Vector{X: -2, Y: 0},
		},
		{
			name:    "outside and heading back",
			k:       body(25, 0, -1, 0, 1),
			tMax:    1,
			wantHit: false,
		},
	}

	c := arena(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contact, hit, err := c.TimeOfImpact(tt.k, tt.tMax, testTol)
			if err != nil {
				t.Fatalf("TimeOfImpact() error = %v", err)
			}
			if hit != tt.wantHit {
				t.Fatalf("TimeOfImpact() hit = %v, want %v", hit, tt.wantHit)
			}
			if !hit {
				return
			}
			if !scalar.EqualWithinAbs(contact.Time, tt.wantTime, 1e-12) {
				t.Errorf("time = %v, want %v", contact.Time, tt.wantTime)
			}
			if !scalar.EqualWithinAbs(contact.VelocityDelta.X, tt.wantDelta.X, 1e-9) ||
				!scalar.EqualWithinAbs(contact.VelocityDelta.Y, tt.wantDelta.Y, 1e-9) {
				t.Errorf("velocity delta = %v, want %v", contact.VelocityDelta, tt.wantDelta)
			}
		})
	}
}

func TestCircle_TimeOfImpact_PreservesSpeed(t *testing.T) {
	c := arena(t)
	for _, k := range []Kinematics{
		body(3, -4, 17, 25, 1),
		body(-10, 2, -30, 11, 2),
		body(0, 0, 12, -40, 0.5),
	} {
		contact, hit, err := c.TimeOfImpact(k, 1, testTol)
		if err != nil || !hit {
			t.Fatalf("TimeOfImpact(%v) = %v, %v, want hit", k, hit, err)
		}
		after := r2.Add(k.Velocity, contact.VelocityDelta)
		if !scalar.EqualWithinAbs(r2.Norm(after), r2.Norm(k.Velocity), 1e-9) {
			t.Errorf("speed %v -> %v", r2.Norm(k.Velocity), r2.Norm(after))
		}
		// tangential component unchanged, normal component flipped
		n := contact.Normal
		if !scalar.EqualWithinAbs(r2.Dot(after, n), -r2.Dot(k.Velocity, n), 1e-9) {
			t.Errorf("normal component %v -> %v", r2.Dot(k.Velocity, n), r2.Dot(after, n))
		}
		at := k.At(contact.Time)
		if d := common.Distance(at.Position, c.Center); !scalar.EqualWithinAbs(d, c.Radius-k.Radius, 1e-9) {
			t.Errorf("impact distance from center = %v, want %v", d, c.Radius-k.Radius)
		}
	}
}

func TestCircle_TimeOfImpact_Grazing(t *testing.T) {
	c := arena(t)
	// on the wall, moving along the tangent
	_, hit, err := c.TimeOfImpact(body(19, 0, 0, 5, 1), 1, testTol)
	if err != nil {
		t.Fatalf("TimeOfImpact() error = %v", err)
	}
	if hit {
		t.Error("tangential motion on the wall reported as contact")
	}
}

func TestCircle_TimeOfImpact_NonFinite(t *testing.T) {
	c := arena(t)
	_, _, err := c.TimeOfImpact(body(math.Inf(1), 0, 1, 0, 1), 1, testTol)
	if !errors.Is(err, ErrCollisionCheckFailed) {
		t.Errorf("error = %v, want ErrCollisionCheckFailed", err)
	}
}

func TestCircle_Contain(t *testing.T) {
	c := arena(t)

	pos, moved := c.Contain(common.Vector{X: 0, Y: 21}, 1, testTol)
	if !moved {
		t.Fatal("Contain() left an escaped body outside")
	}
	if !scalar.EqualWithinAbs(pos.X, 0, 1e-12) || !scalar.EqualWithinAbs(pos.Y, 19, 1e-12) {
		t.Errorf("Contain() = %v, want (0, 19)", pos)
	}

	inside := common.Vector{X: 5, Y: 5}
	if pos, moved := c.Contain(inside, 1, testTol); moved || pos != inside {
		t.Errorf("Contain() moved an inside body to %v", pos)
	}
}

func TestCircle_Bounds(t *testing.T) {
	c, err := NewCircle(common.Vector{X: 500, Y: 500}, 400)
	if err != nil {
		t.Fatalf("NewCircle() error = %v", err)
	}
	want := []float64{100, 900, 100, 900}
	got := c.Bounds()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Bounds() = %v, want %v", got, want)
		}
	}
}
