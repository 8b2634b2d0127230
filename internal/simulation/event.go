package simulation

import (
	"fmt"

	"collision-sim/internal/common"
)

// EventKind tags the two contact variants.
type EventKind uint8

const (
	KindBoundary EventKind = iota
	KindPair
)

func (k EventKind) String() string {
	switch k {
	case KindBoundary:
		return "boundary"
	case KindPair:
		return "pair"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Event is a predicted contact captured at detection time. It refers to
// bodies by index and never observes their live state; the captured versions
// decide whether it is still valid when popped.
type Event interface {
	// Time is the absolute time within the step, in [0, 1].
	Time() float64
	Kind() EventKind
	// Primary is the body index used for ordering ties.
	Primary() int
	// Stale reports whether any referenced body has moved on since capture.
	Stale(bodies []*Body) bool
	isEvent()
}

// PairEvent is a predicted body-body contact. Primary always holds the
// larger id.
type PairEvent struct {
	time             float64
	primary          int
	secondary        int
	primaryVersion   int
	secondaryVersion int
}

// NewPairEvent captures a contact between a and b at time t.
func NewPairEvent(t float64, a, b *Body) *PairEvent {
	if a.id < b.id {
		a, b = b, a
	}
	return &PairEvent{
		time:             t,
		primary:          a.id,
		secondary:        b.id,
		primaryVersion:   a.version,
		secondaryVersion: b.version,
	}
}

func (e *PairEvent) Time() float64   { return e.time }
func (e *PairEvent) Kind() EventKind { return KindPair }
func (e *PairEvent) Primary() int    { return e.primary }
func (e *PairEvent) Secondary() int  { return e.secondary }

// Versions returns the captured versions of primary and secondary.
func (e *PairEvent) Versions() (int, int) {
	return e.primaryVersion, e.secondaryVersion
}

func (e *PairEvent) Stale(bodies []*Body) bool {
	return e.primaryVersion < bodies[e.primary].version ||
		e.secondaryVersion < bodies[e.secondary].version
}

func (e *PairEvent) String() string {
	return fmt.Sprintf("pair(%d,%d)@%.6f v%d/%d", e.primary, e.secondary, e.time, e.primaryVersion, e.secondaryVersion)
}

func (*PairEvent) isEvent() {}

// BoundaryEvent is a predicted body-wall contact with the reflection to
// apply at that instant.
type BoundaryEvent struct {
	time          float64
	body          int
	version       int
	velocityDelta common.Vector
}

// NewBoundaryEvent captures a wall contact of b at time t.
func NewBoundaryEvent(t float64, b *Body, delta common.Vector) *BoundaryEvent {
	return &BoundaryEvent{
		time:          t,
		body:          b.id,
		version:       b.version,
		velocityDelta: delta,
	}
}

func (e *BoundaryEvent) Time() float64   { return e.time }
func (e *BoundaryEvent) Kind() EventKind { return KindBoundary }
func (e *BoundaryEvent) Primary() int    { return e.body }
func (e *BoundaryEvent) Version() int    { return e.version }

// VelocityDelta is the instantaneous velocity change of the contact.
func (e *BoundaryEvent) VelocityDelta() common.Vector { return e.velocityDelta }

func (e *BoundaryEvent) Stale(bodies []*Body) bool {
	return e.version < bodies[e.body].version
}

func (e *BoundaryEvent) String() string {
	return fmt.Sprintf("boundary(%d)@%.6f v%d", e.body, e.time, e.version)
}

func (*BoundaryEvent) isEvent() {}

// secondaryOf returns the pair partner, or -1 for boundary events.
func secondaryOf(e Event) int {
	if p, ok := e.(*PairEvent); ok {
		return p.secondary
	}
	return -1
}

// eventLess orders by time, then by primary id descending. Remaining ties
// put boundary contacts first, then larger secondary ids.
func eventLess(a, b Event) bool {
	if a.Time() != b.Time() {
		return a.Time() < b.Time()
	}
	if a.Primary() != b.Primary() {
		return a.Primary() > b.Primary()
	}
	if a.Kind() != b.Kind() {
		return a.Kind() < b.Kind()
	}
	return secondaryOf(a) > secondaryOf(b)
}
