// Package cache provides a fixed-capacity, insertion-ordered ring buffer.
//
// It mirrors the tail of a store table for O(1) recent access: a cache, not a
// source of truth. Eviction is strict FIFO — recency of insertion is the only
// access pattern, so there is no LRU promotion. The ring itself is not
// synchronized; callers serialize access under their own lock.
package cache

// Ring is a bounded FIFO buffer of T.
type Ring[T any] struct {
	buf  []T
	head int // index of the oldest entry
	size int
}

// New returns a Ring holding at most capacity entries. Capacity must be
// positive.
func New[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

// Append adds v, evicting the oldest entry when the ring is full.
func (r *Ring[T]) Append(v T) {
	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = v
		r.size++
		return
	}
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
}

// Items returns the buffered entries, oldest first.
func (r *Ring[T]) Items() []T {
	out := make([]T, 0, r.size)
	for i := 0; i < r.size; i++ {
		out = append(out, r.buf[(r.head+i)%len(r.buf)])
	}
	return out
}

// Tail returns the newest n entries, oldest first. n larger than Len returns
// everything.
func (r *Ring[T]) Tail(n int) []T {
	if n <= 0 {
		return nil
	}
	if n > r.size {
		n = r.size
	}
	out := make([]T, 0, n)
	for i := r.size - n; i < r.size; i++ {
		out = append(out, r.buf[(r.head+i)%len(r.buf)])
	}
	return out
}

// Len is the number of buffered entries.
func (r *Ring[T]) Len() int { return r.size }

// Cap is the fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.buf) }
