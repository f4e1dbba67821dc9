package queue

import "errors"

var ErrFull = errors.New("queue: ring is full")

// Ring is a bounded FIFO over a fixed circular buffer.
//
// Ring is not safe for concurrent use.
type Ring[T any] struct {
	head int // next slot to dequeue
	tail int // next slot to enqueue
	size int
	buf  []T
}

// NewRing allocates a ring holding up to capacity items. Capacities below one
// are raised to one.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

// Enqueue appends v at the rear. A full ring is left untouched and ErrFull is
// returned.
func (r *Ring[T]) Enqueue(v T) error {
	if r.size == len(r.buf) {
		return ErrFull
	}
	r.buf[r.tail] = v
	r.tail = r.advance(r.tail)
	r.size++
	return nil
}

// Dequeue removes and returns the front item, or reports false when the ring is
// empty.
func (r *Ring[T]) Dequeue() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	v := r.buf[r.head]
	r.buf[r.head] = zero
	r.head = r.advance(r.head)
	r.size--
	return v, true
}

// Front returns the front item without removing it.
func (r *Ring[T]) Front() (T, bool) {
	if r.size == 0 {
		var zero T
		return zero, false
	}
	return r.buf[r.head], true
}

func (r *Ring[T]) IsEmpty() bool { return r.size == 0 }
func (r *Ring[T]) IsFull() bool  { return r.size == len(r.buf) }
func (r *Ring[T]) Len() int      { return r.size }
func (r *Ring[T]) Cap() int      { return len(r.buf) }

func (r *Ring[T]) advance(i int) int {
	if i == len(r.buf)-1 {
		return 0
	}
	return i + 1
}
