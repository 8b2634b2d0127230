package simulation

import (
	"fmt"
	"math"
	"time"

	"collision-sim/internal/collision"
	"collision-sim/internal/common"
)

// Config bundles every tunable of a simulation run.
type Config struct {
	ArenaCenter common.Vector
	ArenaRadius float64

	BodyCount       int
	MinRadius       float64
	MaxRadius       float64
	MaxInitialSpeed float64 // per velocity component, arena units per step
	// MaxPlacementAttempts bounds rejection sampling per body.
	MaxPlacementAttempts int

	Restitution float64
	// ElasticThreshold is the closing speed below which pair contacts are
	// elastic regardless of Restitution.
	ElasticThreshold float64
	Tolerance        float64

	// TickDuration is the wall-clock length of one normalized step. The
	// engine itself never reads it.
	TickDuration time.Duration

	// MaxQueuedEvents caps the queue size; 0 means unbounded.
	MaxQueuedEvents int
	// MaxEventsPerStep caps the number of popped events in one step; 0 means
	// unbounded.
	MaxEventsPerStep int

	Seed int64
}

// DefaultConfig returns the stock arena: 2000 bodies of radius 5 in a
// 400-radius arena centered at (500, 500), stepped 30 times per second.
func DefaultConfig() Config {
	return Config{
		ArenaCenter:          common.Vector{X: 500, Y: 500},
		ArenaRadius:          400,
		BodyCount:            2000,
		MinRadius:            5,
		MaxRadius:            5,
		MaxInitialSpeed:      5,
		MaxPlacementAttempts: 1000,
		Restitution:          1.0,
		ElasticThreshold:     collision.DefaultElasticThreshold,
		Tolerance:            collision.DefaultTolerance,
		TickDuration:         time.Second / 30,
		MaxQueuedEvents:      0,
		MaxEventsPerStep:     1_000_000,
		Seed:                 1,
	}
}

// DefaultInteractiveBodyCount keeps exhaustive pair detection fast enough
// for a windowed run at 30 steps per second.
const DefaultInteractiveBodyCount = 400

// InteractiveConfig returns DefaultConfig with a body count a live window can
// step in real time.
func InteractiveConfig() Config {
	cfg := DefaultConfig()
	cfg.BodyCount = DefaultInteractiveBodyCount
	return cfg
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Validate checks that the configuration describes a runnable arena.
func (c Config) Validate() error {
	if !common.IsFinite(c.ArenaCenter) {
		return fmt.Errorf("arena center %s is not finite", common.Format(c.ArenaCenter))
	}
	if !(c.ArenaRadius > 0) || math.IsInf(c.ArenaRadius, 0) {
		return fmt.Errorf("arena radius must be positive, got %g", c.ArenaRadius)
	}
	if c.BodyCount <= 0 {
		return fmt.Errorf("body count must be positive, got %d", c.BodyCount)
	}
	if !(c.MinRadius > 0) || !(c.MaxRadius >= c.MinRadius) || !finite(c.MaxRadius) {
		return fmt.Errorf("body radius range [%g, %g] is invalid", c.MinRadius, c.MaxRadius)
	}
	if c.MaxRadius >= c.ArenaRadius {
		return fmt.Errorf("body radius %g does not fit arena radius %g", c.MaxRadius, c.ArenaRadius)
	}
	if !(c.MaxInitialSpeed >= 0) || !finite(c.MaxInitialSpeed) {
		return fmt.Errorf("max initial speed must be non-negative, got %g", c.MaxInitialSpeed)
	}
	if c.MaxPlacementAttempts <= 0 {
		return fmt.Errorf("max placement attempts must be positive, got %d", c.MaxPlacementAttempts)
	}
	if c.Restitution < 0 || c.Restitution > 1 || math.IsNaN(c.Restitution) {
		return fmt.Errorf("restitution must be within [0, 1], got %g", c.Restitution)
	}
	if !(c.ElasticThreshold >= 0) || !finite(c.ElasticThreshold) {
		return fmt.Errorf("elastic threshold must be non-negative, got %g", c.ElasticThreshold)
	}
	if !(c.Tolerance > 0) || !finite(c.Tolerance) {
		return fmt.Errorf("tolerance must be positive, got %g", c.Tolerance)
	}
	if c.MaxQueuedEvents < 0 || c.MaxEventsPerStep < 0 {
		return fmt.Errorf("event limits must be non-negative, got queue=%d step=%d", c.MaxQueuedEvents, c.MaxEventsPerStep)
	}
	return nil
}
