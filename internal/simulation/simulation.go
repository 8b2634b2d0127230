package simulation

import (
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"time"

	"collision-sim/internal/collision"
	"collision-sim/internal/common"

	"github.com/google/uuid"
)

// State is the lifecycle state of a Simulator.
type State uint8

const (
	StateUninitialized State = iota
	StateReady
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// StepStats summarizes the event traffic of one timestep.
type StepStats struct {
	Step             uint64
	Detected         int // events pushed
	Popped           int
	PairContacts     int
	BoundaryContacts int
	Separating       int // pair contacts whose bodies were already moving apart
	Stale            int
	OutOfRange       int
	Clamped          int // bodies pulled back inside the arena
	Deactivated      int
}

// Simulator advances bodies one normalized timestep at a time, resolving every
// contact at its time of impact. It is not safe for concurrent use; hosts
// must serialize calls around whole timesteps.
type Simulator struct {
	cfg    Config
	runID  string
	logger *log.Logger

	state  State
	field  Field
	bodies []*Body
	queue  *EventQueue

	tNow      float64 // time of the last applied event within the step
	step      uint64
	lastStats StepStats
}

// NewSimulator creates a simulator waiting for a field.
// A nil logger discards engine logs.
func NewSimulator(cfg Config, logger *log.Logger) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Simulator{
		cfg:    cfg,
		runID:  fmt.Sprintf("run-%s", uuid.NewString()[:8]),
		logger: logger,
		state:  StateUninitialized,
		queue:  NewEventQueue(cfg.MaxQueuedEvents),
	}, nil
}

// Start creates a simulator on the circular arena described by cfg and
// begins it.
func Start(cfg Config, logger *log.Logger) (*Simulator, error) {
	sim, err := NewSimulator(cfg, logger)
	if err != nil {
		return nil, err
	}
	field, err := NewCircularFieldFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create field: %w", err)
	}
	if err := sim.AssignField(field); err != nil {
		return nil, err
	}
	if err := sim.Begin(); err != nil {
		return nil, err
	}
	return sim, nil
}

// AssignField attaches the arena. Uninitialized -> Ready.
func (s *Simulator) AssignField(f Field) error {
	if f == nil {
		return fmt.Errorf("assign field: %w", ErrNullReference)
	}
	if s.state != StateUninitialized || s.field != nil {
		return fmt.Errorf("assign field in state %s: %w", s.state, ErrInvalidState)
	}
	s.field = f
	s.state = StateReady
	return nil
}

// Begin populates the bodies through the field. Ready -> Running.
func (s *Simulator) Begin() error {
	if s.field == nil {
		return fmt.Errorf("begin without field: %w", ErrNullReference)
	}
	if s.state != StateReady {
		return fmt.Errorf("begin in state %s: %w", s.state, ErrInvalidState)
	}
	bodies, err := s.field.Init(s.cfg.BodyCount)
	if err != nil {
		if errors.Is(err, ErrFieldInit) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrFieldInit, err)
	}
	if len(bodies) != s.cfg.BodyCount {
		return fmt.Errorf("field returned %d bodies, want %d: %w", len(bodies), s.cfg.BodyCount, ErrFieldInit)
	}
	for i, b := range bodies {
		if b == nil || b.id != i {
			return fmt.Errorf("field returned body %d out of order: %w", i, ErrFieldInit)
		}
	}
	s.bodies = bodies
	s.state = StateRunning
	s.logger.Printf("%s: running with %d bodies", s.runID, len(bodies))
	return nil
}

// Finish marks the simulation as shut down. Further steps fail.
func (s *Simulator) Finish() {
	s.state = StateFinished
}

// AdvanceTimestep moves every body through one normalized unit of time,
// applying all contacts in time order.
func (s *Simulator) AdvanceTimestep() error {
	if s.state != StateRunning {
		return fmt.Errorf("advance timestep in state %s: %w", s.state, ErrInvalidState)
	}

	stats := StepStats{Step: s.step + 1}
	s.queue.Reset()
	s.tNow = 0
	for _, b := range s.bodies {
		b.resetStep()
	}

	err := s.detectAll(&stats)
	if err == nil {
		err = s.drain(&stats)
	}
	s.finalize(&stats)
	s.field.FlushTransientState()
	s.step++
	s.lastStats = stats
	if err != nil {
		s.queue.Reset()
		return fmt.Errorf("step %d: %w", stats.Step, err)
	}
	return nil
}

func (s *Simulator) detectAll(stats *StepStats) error {
	for i := range s.bodies {
		for j := i + 1; j < len(s.bodies); j++ {
			if err := s.detectPair(i, j, 0, stats); err != nil {
				return err
			}
		}
	}
	for i := range s.bodies {
		if err := s.detectBoundary(i, 0, stats); err != nil {
			return err
		}
	}
	return nil
}

// redetect checks the given bodies against every other body and the wall,
// from ref to the end of the step.
func (s *Simulator) redetect(ref float64, stats *StepStats, ids ...int) error {
	for n, id := range ids {
		for k := range s.bodies {
			if k == id || slices.Contains(ids[:n], k) {
				continue
			}
			if err := s.detectPair(id, k, ref, stats); err != nil {
				return err
			}
		}
		if err := s.detectBoundary(id, ref, stats); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) detectPair(i, j int, ref float64, stats *StepStats) error {
	bi, bj := s.bodies[i], s.bodies[j]
	if !bi.active || !bj.active {
		return nil
	}
	contact, ok, err := collision.PairTimeOfImpact(bi.kinematicsAt(ref), bj.kinematicsAt(ref), 1-ref, s.cfg.Tolerance)
	if err != nil {
		s.deactivate(offender(bi, bj), err, stats)
		return nil
	}
	if !ok {
		return nil
	}
	return s.push(NewPairEvent(ref+contact.Time, bi, bj), stats)
}

func (s *Simulator) detectBoundary(i int, ref float64, stats *StepStats) error {
	b := s.bodies[i]
	if !b.active {
		return nil
	}
	ev, err := s.field.DetectBoundaryContact(b, ref)
	if err != nil {
		if errors.Is(err, ErrCollisionCheckFailed) {
			s.deactivate(b, err, stats)
			return nil
		}
		return err
	}
	if ev == nil {
		return nil
	}
	return s.push(ev, stats)
}

// offender picks the body to exclude after a failed pair check: the one with
// non-finite state, else the larger id.
func offender(a, b *Body) *Body {
	if !b.finite() {
		return b
	}
	if !a.finite() || a.id > b.id {
		return a
	}
	return b
}

func (s *Simulator) push(ev Event, stats *StepStats) error {
	if err := s.queue.Push(ev); err != nil {
		return fmt.Errorf("queue %d events: %w", s.queue.Len(), err)
	}
	stats.Detected++
	return nil
}

func (s *Simulator) deactivate(b *Body, cause error, stats *StepStats) {
	if !b.active {
		return
	}
	b.deactivate()
	stats.Deactivated++
	s.logger.Printf("%s: WARN step %d: deactivated body %d: %v", s.runID, stats.Step, b.id, cause)
}

func (s *Simulator) drain(stats *StepStats) error {
	for !s.queue.IsEmpty() {
		if s.cfg.MaxEventsPerStep > 0 && stats.Popped >= s.cfg.MaxEventsPerStep {
			return fmt.Errorf("more than %d events in one step: %w", s.cfg.MaxEventsPerStep, ErrResourceExhausted)
		}
		ev, err := s.queue.Pop()
		if err != nil {
			return err
		}
		stats.Popped++

		if !s.current(ev) {
			stats.Stale++
			continue
		}
		if ev.Time() < s.tNow || ev.Time() > 1 {
			stats.OutOfRange++
			continue
		}
		s.tNow = ev.Time()

		switch e := ev.(type) {
		case *PairEvent:
			s.applyPair(e, stats)
			err = s.redetect(e.time, stats, e.primary, e.secondary)
		case *BoundaryEvent:
			s.applyBoundary(e, stats)
			err = s.redetect(e.time, stats, e.body)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// current reports whether ev may still be applied.
func (s *Simulator) current(ev Event) bool {
	if ev.Stale(s.bodies) {
		return false
	}
	if !s.bodies[ev.Primary()].active {
		return false
	}
	if p, ok := ev.(*PairEvent); ok && !s.bodies[p.secondary].active {
		return false
	}
	return true
}

func (s *Simulator) applyPair(e *PairEvent, stats *StepStats) {
	bi, bj := s.bodies[e.primary], s.bodies[e.secondary]
	bi.advanceTo(e.time)
	bj.advanceTo(e.time)

	resp := collision.ResolvePair(bi.kinematicsAt(e.time), bj.kinematicsAt(e.time), s.cfg.Restitution, s.cfg.ElasticThreshold, s.cfg.Tolerance)
	if resp.Applied {
		bi.addVelocity(resp.VelocityDeltaI)
		bj.addVelocity(resp.VelocityDeltaJ)
		bi.translate(resp.CorrectionI)
		bj.translate(resp.CorrectionJ)
	} else {
		stats.Separating++
	}
	bi.bump()
	bj.bump()
	stats.PairContacts++
}

func (s *Simulator) applyBoundary(e *BoundaryEvent, stats *StepStats) {
	b := s.bodies[e.body]
	b.advanceTo(e.time)
	if s.field.ResolveBoundaryContact(b, e) {
		stats.Clamped++
	}
	b.bump()
	stats.BoundaryContacts++
}

// finalize carries every body to the end of the step.
func (s *Simulator) finalize(stats *StepStats) {
	boundary := s.field.Boundary()
	for _, b := range s.bodies {
		b.advanceTo(1)
		if !b.active {
			continue
		}
		if pos, moved := boundary.Contain(b.position, b.radius, s.cfg.Tolerance); moved {
			b.position = pos
			stats.Clamped++
		}
	}
	s.tNow = 1
}

// Run advances the simulation numSteps times, printing the state every
// reportEvery steps (0 disables reports).
func (s *Simulator) Run(numSteps, reportEvery int, out io.Writer) error {
	fmt.Fprintf(out, "Starting simulation %s: Bodies=%d, Arena=%.1f@%s, TickDuration=%s\n",
		s.runID, len(s.bodies), s.cfg.ArenaRadius, common.Format(s.cfg.ArenaCenter), s.cfg.TickDuration)
	s.PrintState(out)

	for i := 0; i < numSteps; i++ {
		if err := s.AdvanceTimestep(); err != nil {
			return err
		}
		if reportEvery > 0 && (i+1)%reportEvery == 0 {
			st := s.lastStats
			fmt.Fprintf(out, "--- Step %d (Time: %s) --- events=%d pair=%d boundary=%d stale=%d clamped=%d deactivated=%d\n",
				st.Step, s.GetSimulationTime(), st.Popped, st.PairContacts, st.BoundaryContacts, st.Stale, st.Clamped, st.Deactivated)
			fmt.Fprintf(out, "  %s\n", s.Metrics())
		}
	}

	fmt.Fprintln(out, "--- Simulation Finished ---")
	s.PrintState(out)
	return nil
}

// PrintState prints a summary of the current state.
func (s *Simulator) PrintState(out io.Writer) {
	fmt.Fprintln(out, "--- Current Simulation State ---")
	fmt.Fprintf(out, "Run: %s State: %s Step: %d Time: %s\n", s.runID, s.state, s.step, s.GetSimulationTime())
	fmt.Fprintf(out, "%s\n", s.Metrics())
	fmt.Fprintln(out, "-----------------------------")
}

// GetBodies returns read-only views of all bodies, ordered by id.
func (s *Simulator) GetBodies() []SimulationObject {
	objects := make([]SimulationObject, len(s.bodies))
	for i, b := range s.bodies {
		objects[i] = b
	}
	return objects
}

func (s *Simulator) GetState() State {
	return s.state
}

// GetStep returns the number of completed timesteps.
func (s *Simulator) GetStep() uint64 {
	return s.step
}

// GetSimulationTime returns the wall-clock equivalent of the completed steps.
func (s *Simulator) GetSimulationTime() time.Duration {
	return time.Duration(s.step) * s.cfg.TickDuration
}

func (s *Simulator) RunID() string {
	return s.runID
}

func (s *Simulator) Config() Config {
	return s.cfg
}

// Field returns the assigned arena, nil before AssignField.
func (s *Simulator) Field() Field {
	return s.field
}

// LastStepStats returns the event summary of the latest step.
func (s *Simulator) LastStepStats() StepStats {
	return s.lastStats
}

// Metrics measures the bodies as of the latest completed step.
func (s *Simulator) Metrics() Metrics {
	return Measure(s.GetBodies())
}
