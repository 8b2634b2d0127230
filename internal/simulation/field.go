package simulation

import (
	"fmt"
	"math/rand"

	"collision-sim/internal/collision"
	"collision-sim/internal/common"
)

// Field is the arena collaborator: it places the initial bodies and owns the
// boundary shape.
type Field interface {
	// Init creates count bodies with ids 0..count-1 at legal positions.
	Init(count int) ([]*Body, error)
	// DetectBoundaryContact predicts the next wall contact of b, using its
	// state extrapolated to ref and the time left in the step. It returns nil
	// when there is no contact before the end of the step.
	DetectBoundaryContact(b *Body, ref float64) (*BoundaryEvent, error)
	// ResolveBoundaryContact applies a validated wall contact to b, which has
	// already been advanced to the event time. It reports whether the body
	// had to be pulled back inside.
	ResolveBoundaryContact(b *Body, ev *BoundaryEvent) bool
	// Boundary returns the wall shape.
	Boundary() collision.Boundary
	// FlushTransientState drops per-step state. Called once per step after
	// all bodies reached the end of the step.
	FlushTransientState()
}

// PlacementConfig controls how a field populates bodies.
type PlacementConfig struct {
	MinRadius       float64
	MaxRadius       float64
	MaxInitialSpeed float64
	MaxAttempts     int
}

// PlacementFromConfig extracts the placement settings of a Config.
func PlacementFromConfig(cfg Config) PlacementConfig {
	return PlacementConfig{
		MinRadius:       cfg.MinRadius,
		MaxRadius:       cfg.MaxRadius,
		MaxInitialSpeed: cfg.MaxInitialSpeed,
		MaxAttempts:     cfg.MaxPlacementAttempts,
	}
}

// CircularField is a circular arena.
type CircularField struct {
	circle    *collision.Circle
	placement PlacementConfig
	rng       *rand.Rand
	tolerance float64
}

// NewCircularField creates a circular arena. rng drives initial placement.
func NewCircularField(center common.Vector, radius float64, placement PlacementConfig, rng *rand.Rand, tolerance float64) (*CircularField, error) {
	circle, err := collision.NewCircle(center, radius)
	if err != nil {
		return nil, fmt.Errorf("failed to create arena boundary: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("random source: %w", ErrNullReference)
	}
	if tolerance <= 0 {
		tolerance = collision.DefaultTolerance
	}
	return &CircularField{
		circle:    circle,
		placement: placement,
		rng:       rng,
		tolerance: tolerance,
	}, nil
}

// NewCircularFieldFromConfig creates the arena described by cfg, seeded with cfg.Seed.
func NewCircularFieldFromConfig(cfg Config) (*CircularField, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	return NewCircularField(cfg.ArenaCenter, cfg.ArenaRadius, PlacementFromConfig(cfg), rng, cfg.Tolerance)
}

// Init implements Field. Bodies are placed uniformly in the disk without
// overlapping each other or the wall.
func (f *CircularField) Init(count int) ([]*Body, error) {
	if count <= 0 {
		return nil, fmt.Errorf("cannot place %d bodies: %w", count, ErrFieldInit)
	}
	p := f.placement
	if p.MinRadius <= 0 || p.MaxRadius < p.MinRadius {
		return nil, fmt.Errorf("radius range [%g, %g]: %w", p.MinRadius, p.MaxRadius, ErrFieldInit)
	}
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	speed := []float64{-p.MaxInitialSpeed, p.MaxInitialSpeed, -p.MaxInitialSpeed, p.MaxInitialSpeed}

	bodies := make([]*Body, 0, count)
	for id := 0; id < count; id++ {
		radius := p.MinRadius + f.rng.Float64()*(p.MaxRadius-p.MinRadius)
		reach := f.circle.Radius - radius
		if reach <= 0 {
			return nil, fmt.Errorf("body radius %.2f does not fit arena radius %.2f: %w", radius, f.circle.Radius, ErrFieldInit)
		}

		placed := false
		for try := 0; try < attempts && !placed; try++ {
			pos := common.NewRandomInDisk(f.rng, f.circle.Center, reach)
			if overlapsAny(pos, radius, bodies) {
				continue
			}
			vel, err := common.NewRandomVector(f.rng, speed)
			if err != nil {
				return nil, fmt.Errorf("failed to generate velocity for body %d: %w", id, err)
			}
			bodies = append(bodies, NewBody(id, pos, vel, radius))
			placed = true
		}
		if !placed {
			return nil, fmt.Errorf("no free spot for body %d after %d attempts: %w", id, attempts, ErrFieldInit)
		}
	}
	return bodies, nil
}

func overlapsAny(pos common.Vector, radius float64, bodies []*Body) bool {
	for _, other := range bodies {
		if common.Distance(pos, other.position) < radius+other.radius {
			return true
		}
	}
	return false
}

// DetectBoundaryContact implements Field.
func (f *CircularField) DetectBoundaryContact(b *Body, ref float64) (*BoundaryEvent, error) {
	if !b.active {
		return nil, nil
	}
	contact, ok, err := f.circle.TimeOfImpact(b.kinematicsAt(ref), 1-ref, f.tolerance)
	if err != nil {
		return nil, fmt.Errorf("boundary check for body %d: %w", b.id, err)
	}
	if !ok {
		return nil, nil
	}
	return NewBoundaryEvent(ref+contact.Time, b, contact.VelocityDelta), nil
}

// ResolveBoundaryContact implements Field.
func (f *CircularField) ResolveBoundaryContact(b *Body, ev *BoundaryEvent) bool {
	b.addVelocity(ev.VelocityDelta())
	return f.contain(b)
}

func (f *CircularField) contain(b *Body) bool {
	pos, moved := f.circle.Contain(b.position, b.radius, f.tolerance)
	if moved {
		b.position = pos
	}
	return moved
}

// Boundary implements Field.
func (f *CircularField) Boundary() collision.Boundary {
	return f.circle
}

// Circle returns the arena wall.
func (f *CircularField) Circle() *collision.Circle {
	return f.circle
}

// FlushTransientState implements Field. The analytic wall needs no helper
// geometry, so there is nothing to drop.
func (f *CircularField) FlushTransientState() {}
