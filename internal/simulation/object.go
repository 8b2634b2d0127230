package simulation

import "collision-sim/internal/common"

// SimulationObject is the read-only view of a body handed to observers.
// It is only consistent between completed AdvanceTimestep calls.
type SimulationObject interface {
	// GetID returns the unique identifier of the object.
	GetID() int
	// GetPosition returns the current position of the object.
	GetPosition() common.Vector
	// GetVelocity returns the current velocity of the object.
	GetVelocity() common.Vector
	GetRadius() float64
	GetMass() float64
	// IsActive is false once the object has been excluded after a numerical failure.
	IsActive() bool
	String() string
}
