package simulation

import (
	"fmt"

	"collision-sim/internal/collision"
	"collision-sim/internal/common"

	"gonum.org/v1/gonum/spatial/r2"
)

// Body is one rigid circular particle. Position and velocity are valid as of
// localTime within the current step.
type Body struct {
	id       int
	position common.Vector
	velocity common.Vector
	radius   float64
	mass     float64

	version   int     // accepted collisions this step
	localTime float64 // in [0, 1]
	active    bool
}

// NewBody creates an active body. Mass is derived from the radius.
func NewBody(id int, pos, vel common.Vector, radius float64) *Body {
	return &Body{
		id:       id,
		position: pos,
		velocity: vel,
		radius:   radius,
		mass:     radius * radius,
		active:   true,
	}
}

// GetID returns the unique identifier of the body.
func (b *Body) GetID() int {
	return b.id
}

// GetPosition returns the position as of the body's local time.
func (b *Body) GetPosition() common.Vector {
	return b.position
}

// GetVelocity returns the current velocity.
func (b *Body) GetVelocity() common.Vector {
	return b.velocity
}

func (b *Body) GetRadius() float64 {
	return b.radius
}

func (b *Body) GetMass() float64 {
	return b.mass
}

// GetSpeed returns the velocity magnitude.
func (b *Body) GetSpeed() float64 {
	return r2.Norm(b.velocity)
}

// GetMomentum returns mass * velocity.
func (b *Body) GetMomentum() common.Vector {
	return r2.Scale(b.mass, b.velocity)
}

func (b *Body) IsActive() bool {
	return b.active
}

// Version returns the number of collisions applied to the body this step.
func (b *Body) Version() int {
	return b.version
}

// LocalTime returns the time within the step the body's state is valid at.
func (b *Body) LocalTime() float64 {
	return b.localTime
}

// kinematicsAt extrapolates the body to time t without mutating it.
func (b *Body) kinematicsAt(t float64) collision.Kinematics {
	k := collision.Kinematics{
		Position: b.position,
		Velocity: b.velocity,
		Radius:   b.radius,
		Mass:     b.mass,
	}
	if !b.active {
		return k
	}
	return k.At(t - b.localTime)
}

// advanceTo moves the body in a straight line from its local time to t.
// Inactive bodies stay where they are.
func (b *Body) advanceTo(t float64) {
	if b.active && t > b.localTime {
		b.position = r2.Add(b.position, r2.Scale(t-b.localTime, b.velocity))
	}
	b.localTime = t
}

func (b *Body) resetStep() {
	b.version = 0
	b.localTime = 0
}

func (b *Body) addVelocity(dv common.Vector) {
	b.velocity = r2.Add(b.velocity, dv)
}

func (b *Body) translate(d common.Vector) {
	b.position = r2.Add(b.position, d)
}

func (b *Body) bump() {
	b.version++
}

func (b *Body) deactivate() {
	b.active = false
}

func (b *Body) finite() bool {
	return common.IsFinite(b.position) && common.IsFinite(b.velocity)
}

// String representation for logging
func (b *Body) String() string {
	state := "active"
	if !b.active {
		state = "inactive"
	}
	return fmt.Sprintf("Body[%d] Pos: %s Vel: %s Radius: %.2f (%s)",
		b.id, common.Format(b.position), common.Format(b.velocity), b.radius, state)
}
