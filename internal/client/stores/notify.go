package stores

import "sync"

// subscribers fans a state snapshot out to registered callbacks.
type subscribers[T any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(T)

	// deliver orders fan-outs; see commit.
	deliver sync.Mutex
}

// add registers fn and returns a function that removes it.
func (s *subscribers[T]) add(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func(T))
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.fns, id)
		s.mu.Unlock()
	}
}

func (s *subscribers[T]) publish(v T, clone func(T) T) {
	s.mu.Lock()
	fns := make([]func(T), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(clone(v))
	}
}

// commit runs update, which mutates the owning store under its own lock and
// returns a snapshot, then delivers that snapshot. The delivery lock is held
// across both, so subscribers see states in commit order while the store
// lock stays free for readers. A subscriber must not mutate the store it
// listens to.
func (s *subscribers[T]) commit(update func() T, clone func(T) T) {
	s.deliver.Lock()
	defer s.deliver.Unlock()
	s.publish(update(), clone)
}
