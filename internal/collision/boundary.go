package collision

import (
	"fmt"
	"math"

	"collision-sim/internal/common"

	"gonum.org/v1/gonum/spatial/r2"
)

// Boundary is the arena wall a body can hit.
type Boundary interface {
	// TimeOfImpact finds the earliest time in [0, tMax] at which the body
	// reaches the wall while moving outward. Contact.VelocityDelta is the
	// reflection to apply at that instant.
	TimeOfImpact(k Kinematics, tMax, tol float64) (Contact, bool, error)
	// Contain clamps a body center back inside the wall.
	Contain(pos common.Vector, radius, tol float64) (common.Vector, bool)
	// Bounds returns the axis-aligned box enclosing the arena: [minX, maxX, minY, maxY].
	Bounds() []float64
}

// Circle is a circular arena wall.
type Circle struct {
	Center common.Vector
	Radius float64
}

// NewCircle creates a circular wall.
func NewCircle(center common.Vector, radius float64) (*Circle, error) {
	if !common.IsFinite(center) {
		return nil, fmt.Errorf("circle center %s is not finite", common.Format(center))
	}
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("circle radius must be positive, got %g", radius)
	}
	return &Circle{Center: center, Radius: radius}, nil
}

// TimeOfImpact implements Boundary.
func (c *Circle) TimeOfImpact(k Kinematics, tMax, tol float64) (Contact, bool, error) {
	if !k.finite() {
		return Contact{}, false, fmt.Errorf("body state is not finite: %w", ErrCollisionCheckFailed)
	}

	reach := c.Radius - k.Radius
	dp := r2.Sub(k.Position, c.Center)
	v := k.Velocity
	outward := func(t float64) bool {
		radial := r2.Dot(r2.Add(dp, r2.Scale(t, v)), v)
		if t <= tol {
			// grazing at the wall is not a contact
			return radial > tol
		}
		return radial >= -tol
	}

	if reach <= 0 {
		// body does not fit: any outward motion is an immediate contact
		if r2.Dot(dp, v) > 0 {
			return c.contact(k, 0), true, nil
		}
		return Contact{}, false, nil
	}

	a := r2.Dot(v, v)
	if a < tol {
		return Contact{}, false, nil
	}
	b := 2 * r2.Dot(dp, v)
	cc := r2.Dot(dp, dp) - reach*reach

	if cc > tol {
		// already past the wall
		if r2.Dot(dp, v) > 0 {
			return c.contact(k, 0), true, nil
		}
		return Contact{}, false, nil
	}

	t1, t2, ok, err := solveQuadratic(a, b, cc)
	if err != nil {
		return Contact{}, false, err
	}
	if !ok {
		if cc < -tol {
			return Contact{}, false, fmt.Errorf("body inside arena has no exit (disc < 0): %w", ErrCollisionCheckFailed)
		}
		return Contact{}, false, nil
	}

	for _, t := range [2]float64{t1, t2} {
		if t < -tol || !outward(t) {
			continue
		}
		t = math.Max(t, 0)
		if t > tMax {
			return Contact{}, false, nil
		}
		return c.contact(k, t), true, nil
	}

	if cc < -tol {
		return Contact{}, false, fmt.Errorf("body inside arena has no outward root (t1=%g, t2=%g): %w", t1, t2, ErrCollisionCheckFailed)
	}
	return Contact{}, false, nil
}

// contact builds the response from the state extrapolated to the impact
// instant.
func (c *Circle) contact(k Kinematics, t float64) Contact {
	at := k.At(t)
	n, ok := common.Unit(r2.Sub(at.Position, c.Center), DefaultTolerance)
	if !ok {
		// centered body: reflect straight back
		n, _ = common.Unit(at.Velocity, DefaultTolerance)
	}
	return Contact{
		Time:          t,
		Normal:        n,
		VelocityDelta: Reflect(at.Velocity, n),
	}
}

// Reflect returns the velocity change that mirrors v about the plane with
// normal n: -2(v.n)n.
func Reflect(v, n common.Vector) common.Vector {
	return r2.Scale(-2*r2.Dot(v, n), n)
}

// Contain implements Boundary. It reports whether the position was moved.
func (c *Circle) Contain(pos common.Vector, radius, tol float64) (common.Vector, bool) {
	reach := math.Max(c.Radius-radius, 0)
	dp := r2.Sub(pos, c.Center)
	dist := r2.Norm(dp)
	if dist <= reach+tol || dist == 0 {
		return pos, false
	}
	return r2.Add(c.Center, r2.Scale(reach/dist, dp)), true
}

// Bounds implements Boundary.
func (c *Circle) Bounds() []float64 {
	return []float64{
		c.Center.X - c.Radius, c.Center.X + c.Radius,
		c.Center.Y - c.Radius, c.Center.Y + c.Radius,
	}
}
