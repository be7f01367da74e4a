// Package navigation owns the current page index. Every change goes through
// SetIndex, which clamps and notifies listeners synchronously.
package navigation

import "fmt"

type subscription struct {
	id       int
	listener Listener
}

// State is the single source of truth for the page cursor
type State struct {
	current int
	count   int

	nextID    int
	listeners []subscription
}

// NewState creates a state positioned on the first page
func NewState(count int) (*State, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	return &State{count: count}, nil
}

// Current returns the current page index
func (s *State) Current() int {
	return s.current
}

// Count returns the number of pages
func (s *State) Count() int {
	return s.count
}

// Snapshot returns a copy of the state
func (s *State) Snapshot() Snapshot {
	return Snapshot{Current: s.current, Count: s.count}
}

// SetIndex moves the cursor to target, clamped to [0, count-1]. Out-of-range
// targets are not errors: arrow navigation passes unclamped deltas on purpose.
// Returns true when the index changed.
func (s *State) SetIndex(target int) bool {
	next := s.clampIndex(target)
	if next == s.current {
		return false
	}
	old := s.current
	s.current = next
	s.notify(old, next)
	return true
}

// Move shifts the cursor by delta
func (s *State) Move(delta int) bool {
	return s.SetIndex(s.current + delta)
}

// Navigate handles movement in a direction
func (s *State) Navigate(direction Direction) bool {
	switch direction {
	case DirectionPrev:
		return s.Move(-1)
	case DirectionNext:
		return s.Move(1)
	case DirectionFirst:
		return s.SetIndex(0)
	case DirectionLast:
		return s.SetIndex(s.count - 1)
	}
	return false
}

// Subscribe registers a listener. The returned function removes it and is
// safe to call more than once.
func (s *State) Subscribe(listener Listener) func() {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, listener: listener})

	return func() {
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *State) notify(old, next int) {
	// Copy so listeners may (un)subscribe while being notified
	subs := make([]subscription, len(s.listeners))
	copy(subs, s.listeners)
	for _, sub := range subs {
		sub.listener(old, next)
	}
}

func (s *State) clampIndex(index int) int {
	if index < 0 {
		return 0
	}
	if index > s.count-1 {
		return s.count - 1
	}
	return index
}
