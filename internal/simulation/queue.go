package simulation

import "container/heap"

type eventHeap []Event

func (h eventHeap) Len() int           { return len(h) }
func (h eventHeap) Less(i, j int) bool { return eventLess(h[i], h[j]) }
func (h eventHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return ev
}

// EventQueue is a min-priority queue of pending events. It does not
// deduplicate; staleness is decided by the consumer at pop time.
type EventQueue struct {
	events   eventHeap
	capacity int
}

// NewEventQueue creates a queue holding at most capacity events
// (capacity <= 0 means unbounded).
func NewEventQueue(capacity int) *EventQueue {
	q := &EventQueue{capacity: capacity}
	heap.Init(&q.events)
	return q
}

// Push inserts an event in O(log n).
func (q *EventQueue) Push(ev Event) error {
	if q.capacity > 0 && len(q.events) >= q.capacity {
		return ErrResourceExhausted
	}
	heap.Push(&q.events, ev)
	return nil
}

// Pop removes and returns the earliest event.
func (q *EventQueue) Pop() (Event, error) {
	if len(q.events) == 0 {
		return nil, ErrEmpty
	}
	return heap.Pop(&q.events).(Event), nil
}

func (q *EventQueue) Len() int {
	return len(q.events)
}

func (q *EventQueue) IsEmpty() bool {
	return len(q.events) == 0
}

// Reset drops all pending events, keeping the allocated storage.
func (q *EventQueue) Reset() {
	clear(q.events)
	q.events = q.events[:0]
}
