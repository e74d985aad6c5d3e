package kinematics

// Ring is a fixed-capacity sequence: pushing onto a full ring evicts the oldest value.
type Ring[T any] struct {
	buf   []T
	start int
	size  int
}

func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{
		buf: make([]T, capacity),
	}
}

func (r *Ring[T]) Push(v T) {
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = v
		r.size++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

func (r *Ring[T]) Len() int {
	return r.size
}

func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

// At returns the i-th value, 0 being the oldest one kept.
func (r *Ring[T]) At(i int) T {
	if i < 0 || i >= r.size {
		panic("kinematics: ring index out of range")
	}
	return r.buf[(r.start+i)%len(r.buf)]
}

func (r *Ring[T]) Last() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.At(r.size - 1), true
}

// Values copies the kept values, oldest first.
func (r *Ring[T]) Values() []T {
	out := make([]T, r.size)
	for i := range out {
		out[i] = r.At(i)
	}
	return out
}

func (r *Ring[T]) Clear() {
	r.start = 0
	r.size = 0
}
