package collision

import (
	"errors"
	"fmt"
	"math"

	"collision-sim/internal/common"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrCollisionCheckFailed is returned when a time-of-impact solve is
// numerically degenerate (non-finite input, NaN roots, impossible signs).
var ErrCollisionCheckFailed = errors.New("collision check failed")

// DefaultTolerance absorbs floating-point error near tangency.
const DefaultTolerance = 1e-9

// CorrectionPercent is the share of residual penetration removed after a
// pair impulse.
const CorrectionPercent = 0.8

// DefaultElasticThreshold is the closing speed below which pair contacts
// bounce elastically whatever the restitution.
const DefaultElasticThreshold = 0.05

// Kinematics is the state of one body at a given reference instant.
type Kinematics struct {
	Position common.Vector
	Velocity common.Vector
	Radius   float64
	Mass     float64
}

// At returns the state advanced by dt along a straight line.
func (k Kinematics) At(dt float64) Kinematics {
	k.Position = r2.Add(k.Position, r2.Scale(dt, k.Velocity))
	return k
}

func (k Kinematics) finite() bool {
	return common.IsFinite(k.Position) && common.IsFinite(k.Velocity) &&
		!math.IsNaN(k.Radius) && !math.IsInf(k.Radius, 0)
}

// Contact is a predicted contact, Time being relative to the reference
// instant of the kinematics it was computed from.
type Contact struct {
	Time float64
	// Normal points from the second body (or the arena center) towards the
	// first body at the impact instant.
	Normal common.Vector
	// VelocityDelta is only set for boundary contacts.
	VelocityDelta common.Vector
}

// PairTimeOfImpact finds the earliest time in [0, tMax] at which i and j touch.
// Both states must be expressed at the same reference instant.
func PairTimeOfImpact(i, j Kinematics, tMax, tol float64) (Contact, bool, error) {
	if !i.finite() || !j.finite() {
		return Contact{}, false, fmt.Errorf("pair state is not finite: %w", ErrCollisionCheckFailed)
	}

	dp := r2.Sub(i.Position, j.Position)
	dv := r2.Sub(i.Velocity, j.Velocity)
	reach := i.Radius + j.Radius

	a := r2.Dot(dv, dv)
	b := 2 * r2.Dot(dp, dv)
	c := r2.Dot(dp, dp) - reach*reach

	if c <= 0 {
		// Already touching. Only an approaching pair needs a response,
		// otherwise resolved pairs would be reported again at t = 0.
		if b < -tol {
			return pairContact(i, j, 0), true, nil
		}
		return Contact{}, false, nil
	}
	// separating or sliding past: the gap never closes
	if b >= -tol || a < tol {
		return Contact{}, false, nil
	}

	t1, _, ok, err := solveQuadratic(a, b, c)
	if err != nil {
		return Contact{}, false, err
	}
	if !ok {
		return Contact{}, false, nil
	}
	if t1 < -tol {
		return Contact{}, false, fmt.Errorf("approaching pair has negative root %g: %w", t1, ErrCollisionCheckFailed)
	}
	t := math.Max(t1, 0)
	if t > tMax {
		return Contact{}, false, nil
	}
	return pairContact(i, j, t), true, nil
}

func pairContact(i, j Kinematics, t float64) Contact {
	n, _ := pairNormal(i.At(t), j.At(t))
	return Contact{Time: t, Normal: n}
}

// pairNormal points from j to i. Coincident centers fall back to the
// direction opposing the relative velocity.
func pairNormal(i, j Kinematics) (common.Vector, bool) {
	if n, ok := common.Unit(r2.Sub(i.Position, j.Position), DefaultTolerance); ok {
		return n, true
	}
	if n, ok := common.Unit(r2.Sub(j.Velocity, i.Velocity), DefaultTolerance); ok {
		return n, true
	}
	return common.Vector{}, false
}

// PairResponse is the velocity and position change for both bodies of a
// resolved pair contact.
type PairResponse struct {
	Normal         common.Vector
	Impulse        float64
	VelocityDeltaI common.Vector
	VelocityDeltaJ common.Vector
	CorrectionI    common.Vector
	CorrectionJ    common.Vector
	// Applied is false when the bodies were already separating.
	Applied bool
}

// ResolvePair computes the impulse response for i and j, both expressed at
// the impact instant. restitution 1.0 is perfectly elastic; contacts closing
// slower than elasticBelow always use 1.0.
func ResolvePair(i, j Kinematics, restitution, elasticBelow, tol float64) PairResponse {
	n, ok := pairNormal(i, j)
	if !ok {
		return PairResponse{}
	}
	resp := PairResponse{Normal: n}

	invI, invJ := inverseMass(i.Mass), inverseMass(j.Mass)
	invSum := invI + invJ
	if invSum == 0 {
		return resp
	}

	dv := r2.Sub(i.Velocity, j.Velocity)
	closing := r2.Dot(dv, n)
	if closing >= 0 {
		return resp
	}

	if -closing < elasticBelow {
		restitution = 1
	}
	impulse := -(1 + restitution) * closing / invSum
	resp.Impulse = impulse
	resp.VelocityDeltaI = r2.Scale(impulse*invI, n)
	resp.VelocityDeltaJ = r2.Scale(-impulse*invJ, n)
	resp.Applied = true

	penetration := i.Radius + j.Radius - common.Distance(i.Position, j.Position)
	if penetration > tol {
		push := CorrectionPercent * penetration / invSum
		resp.CorrectionI = r2.Scale(push*invI, n)
		resp.CorrectionJ = r2.Scale(-push*invJ, n)
	}
	return resp
}

func inverseMass(m float64) float64 {
	if m <= 0 || math.IsInf(m, 1) {
		return 0
	}
	return 1 / m
}

// solveQuadratic returns the real roots of a*t^2 + b*t + c, t1 <= t2.
// ok is false when the discriminant is negative.
func solveQuadratic(a, b, c float64) (t1, t2 float64, ok bool, err error) {
	d := b*b - 4*a*c
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, 0, false, fmt.Errorf("discriminant %g: %w", d, ErrCollisionCheckFailed)
	}
	if d < 0 {
		return 0, 0, false, nil
	}

	// q avoids cancellation between b and sqrt(d)
	sq := math.Sqrt(d)
	q := -0.5 * (b + math.Copysign(sq, b))
	if q == 0 {
		t1, t2 = 0, 0
	} else {
		t1, t2 = q/a, c/q
	}
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if math.IsNaN(t1) || math.IsNaN(t2) {
		return 0, 0, false, fmt.Errorf("roots (%g, %g): %w", t1, t2, ErrCollisionCheckFailed)
	}
	return t1, t2, true, nil
}
