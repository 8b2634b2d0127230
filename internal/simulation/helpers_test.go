package simulation

import (
	"math/rand"
	"testing"

	"collision-sim/internal/common"
)

// presetField serves fixed bodies on a circular arena.
type presetField struct {
	*CircularField
	bodies  []*Body
	initErr error
	flushes int
}

func (f *presetField) Init(int) ([]*Body, error) {
	if f.initErr != nil {
		return nil, f.initErr
	}
	return f.bodies, nil
}

func (f *presetField) FlushTransientState() {
	f.flushes++
}

func testConfig(arenaRadius float64, count int) Config {
	cfg := DefaultConfig()
	cfg.ArenaCenter = common.Vector{}
	cfg.ArenaRadius = arenaRadius
	cfg.BodyCount = count
	cfg.MinRadius = 1
	cfg.MaxRadius = 1
	return cfg
}

func newPresetField(t *testing.T, arenaRadius float64, bodies ...*Body) *presetField {
	t.Helper()
	cf, err := NewCircularField(common.Vector{}, arenaRadius, PlacementConfig{}, rand.New(rand.NewSource(1)), 0)
	if err != nil {
		t.Fatalf("NewCircularField() error = %v", err)
	}
	return &presetField{CircularField: cf, bodies: bodies}
}

// runningSimulator returns a simulator already begun on the given bodies.
func runningSimulator(t *testing.T, arenaRadius float64, bodies ...*Body) (*Simulator, *presetField) {
	t.Helper()
	sim, err := NewSimulator(testConfig(arenaRadius, len(bodies)), nil)
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}
	field := newPresetField(t, arenaRadius, bodies...)
	if err := sim.AssignField(field); err != nil {
		t.Fatalf("AssignField() error = %v", err)
	}
	if err := sim.Begin(); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	return sim, field
}

func vec(x, y float64) common.Vector {
	return common.Vector{X: x, Y: y}
}

func assertVector(t *testing.T, name string, got, want common.Vector, tol float64) {
	t.Helper()
	if common.Distance(got, want) > tol {
		t.Errorf("%s = %s, want %s", name, common.Format(got), common.Format(want))
	}
}
