// Package deque implements a double-ended queue on top of a growable ring buffer.
//
// Push and pop are amortized O(1) at both ends. The zero value is an empty,
// ready to use queue.
package deque

const minCapacity = 8

// Deque is a ring-buffer backed double-ended queue.
type Deque[T any] struct {
	buf  []T
	head int // index of the front element
	n    int // number of stored elements
}

// New returns an empty deque with room for at least capacity elements.
func New[T any](capacity int) *Deque[T] {
	d := &Deque[T]{}
	if capacity > 0 {
		d.buf = make([]T, roundCapacity(capacity))
	}
	return d
}

// Len returns the number of elements.
func (d *Deque[T]) Len() int {
	if d == nil {
		return 0
	}
	return d.n
}

// Empty reports whether the deque holds no elements.
func (d *Deque[T]) Empty() bool {
	return d.Len() == 0
}

// PushBack appends v after the last element.
func (d *Deque[T]) PushBack(v T) {
	d.grow()
	d.buf[d.index(d.n)] = v
	d.n++
}

// PushFront inserts v before the first element.
func (d *Deque[T]) PushFront(v T) {
	d.grow()
	d.head = (d.head - 1 + len(d.buf)) & (len(d.buf) - 1)
	d.buf[d.head] = v
	d.n++
}

// PopFront removes and returns the first element.
func (d *Deque[T]) PopFront() (T, bool) {
	var zero T
	if d.Len() == 0 {
		return zero, false
	}
	v := d.buf[d.head]
	d.buf[d.head] = zero
	d.head = (d.head + 1) & (len(d.buf) - 1)
	d.n--
	return v, true
}

// PopBack removes and returns the last element.
func (d *Deque[T]) PopBack() (T, bool) {
	var zero T
	if d.Len() == 0 {
		return zero, false
	}
	i := d.index(d.n - 1)
	v := d.buf[i]
	d.buf[i] = zero
	d.n--
	return v, true
}

// Front returns the first element without removing it.
func (d *Deque[T]) Front() (T, bool) {
	if d.Len() == 0 {
		var zero T
		return zero, false
	}
	return d.buf[d.head], true
}

// Back returns the last element without removing it.
func (d *Deque[T]) Back() (T, bool) {
	if d.Len() == 0 {
		var zero T
		return zero, false
	}
	return d.buf[d.index(d.n-1)], true
}

// At returns the i-th element counting from the front. It panics when i is
// out of range, like a slice index would.
func (d *Deque[T]) At(i int) T {
	if i < 0 || i >= d.Len() {
		panic("deque: index out of range")
	}
	return d.buf[d.index(i)]
}

// Clear drops every element but keeps the allocated storage.
func (d *Deque[T]) Clear() {
	if d == nil {
		return
	}
	var zero T
	for i := 0; i < d.n; i++ {
		d.buf[d.index(i)] = zero
	}
	d.head = 0
	d.n = 0
}

func (d *Deque[T]) index(i int) int {
	return (d.head + i) & (len(d.buf) - 1)
}

// grow doubles the ring when it is full, unwrapping the elements so that the
// front lands at index 0.
func (d *Deque[T]) grow() {
	if d.n < len(d.buf) {
		return
	}
	next := make([]T, roundCapacity(len(d.buf)*2))
	if d.n > 0 {
		tail := copy(next, d.buf[d.head:])
		copy(next[tail:], d.buf[:d.head])
	}
	d.buf = next
	d.head = 0
}

// roundCapacity returns the smallest power of two >= n (and >= minCapacity);
// index masking relies on it.
func roundCapacity(n int) int {
	c := minCapacity
	for c < n {
		c <<= 1
	}
	return c
}
