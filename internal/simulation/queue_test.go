package simulation

import (
	"errors"
	"testing"
)

func testBodies(n int) []*Body {
	bodies := make([]*Body, n)
	for i := range bodies {
		bodies[i] = NewBody(i, vec(float64(i)*10, 0), vec(0, 0), 1)
	}
	return bodies
}

func TestEventQueue_OrdersByTime(t *testing.T) {
	bodies := testBodies(4)
	times := []float64{0.7, 0.1, 0.9, 0.3, 0.5}

	q := NewEventQueue(0)
	for i, tm := range times {
		if err := q.Push(NewBoundaryEvent(tm, bodies[i%len(bodies)], vec(0, 0))); err != nil {
			t.Fatalf("Push() error = %v", err)
		}
	}
	if q.Len() != len(times) {
		t.Fatalf("Len() = %d, want %d", q.Len(), len(times))
	}

	prev := -1.0
	for !q.IsEmpty() {
		ev, err := q.Pop()
		if err != nil {
			t.Fatalf("Pop() error = %v", err)
		}
		if ev.Time() < prev {
			t.Fatalf("popped %v after %v", ev.Time(), prev)
		}
		prev = ev.Time()
	}
}

func TestEventQueue_TieBreak(t *testing.T) {
	bodies := testBodies(4)

	q := NewEventQueue(0)
	// same time, pushed in ascending primary order
	for _, ev := range []Event{
		NewBoundaryEvent(0.5, bodies[0], vec(0, 0)),
		NewPairEvent(0.5, bodies[0], bodies[1]),
		NewPairEvent(0.5, bodies[3], bodies[0]),
		NewBoundaryEvent(0.5, bodies[3], vec(0, 0)),
		NewPairEvent(0.5, bodies[3], bodies[2]),
		NewBoundaryEvent(0.4, bodies[0], vec(0, 0)),
	} {
		if err := q.Push(ev); err != nil {
			t.Fatalf("Push() error = %v", err)
		}
	}

	want := []struct {
		time      float64
		kind      EventKind
		primary   int
		secondary int
	}{
		{0.4, KindBoundary, 0, -1},
		{0.5, KindBoundary, 3, -1},
		{0.5, KindPair, 3, 2},
		{0.5, KindPair, 3, 0},
		{0.5, KindPair, 1, 0},
		{0.5, KindBoundary, 0, -1},
	}
	for i, w := range want {
		ev, err := q.Pop()
		if err != nil {
			t.Fatalf("Pop() #%d error = %v", i, err)
		}
		if ev.Time() != w.time || ev.Kind() != w.kind || ev.Primary() != w.primary || secondaryOf(ev) != w.secondary {
			t.Errorf("Pop() #%d = %v, want %v %s primary %d secondary %d", i, ev, w.time, w.kind, w.primary, w.secondary)
		}
	}
}

func TestEventQueue_Empty(t *testing.T) {
	q := NewEventQueue(0)
	if !q.IsEmpty() {
		t.Error("new queue is not empty")
	}
	if _, err := q.Pop(); !errors.Is(err, ErrEmpty) {
		t.Errorf("Pop() error = %v, want ErrEmpty", err)
	}
}

func TestEventQueue_Capacity(t *testing.T) {
	bodies := testBodies(3)
	q := NewEventQueue(2)
	for i := 0; i < 2; i++ {
		if err := q.Push(NewBoundaryEvent(0.1, bodies[i], vec(0, 0))); err != nil {
			t.Fatalf("Push() #%d error = %v", i, err)
		}
	}
	if err := q.Push(NewBoundaryEvent(0.1, bodies[2], vec(0, 0))); !errors.Is(err, ErrResourceExhausted) {
		t.Errorf("Push() over capacity error = %v, want ErrResourceExhausted", err)
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d after rejected push, want 2", q.Len())
	}
}

func TestEventQueue_Reset(t *testing.T) {
	bodies := testBodies(2)
	q := NewEventQueue(0)
	_ = q.Push(NewPairEvent(0.2, bodies[0], bodies[1]))
	_ = q.Push(NewBoundaryEvent(0.3, bodies[1], vec(0, 0)))
	q.Reset()
	if !q.IsEmpty() || q.Len() != 0 {
		t.Errorf("after Reset() Len() = %d, want 0", q.Len())
	}
	if err := q.Push(NewBoundaryEvent(0.3, bodies[1], vec(0, 0))); err != nil {
		t.Errorf("Push() after Reset() error = %v", err)
	}
}
