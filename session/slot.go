package session

import "context"

// Slot is a value seeded from storage on first use.
type Slot[T any] struct {
	val    T
	seeded bool
}

// Get returns the value, calling load the first time. A failed load leaves
// the slot unseeded so the next call tries again.
func (s *Slot[T]) Get(ctx context.Context, load func(context.Context) (T, error)) (T, error) {
	if s.seeded {
		return s.val, nil
	}
	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	s.val, s.seeded = v, true
	return v, nil
}

func (s *Slot[T]) Set(v T) {
	s.val, s.seeded = v, true
}

// Peek returns the value without loading.
func (s *Slot[T]) Peek() (T, bool) {
	return s.val, s.seeded
}

func (s *Slot[T]) Reset() {
	var zero T
	s.val, s.seeded = zero, false
}
