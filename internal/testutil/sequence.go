package testutil

import "sync"

// Sequence is a resettable monotonic counter for deterministic test runs.
// The harness numbers scenario steps and assigns cell IDs from it.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Sequence struct {
	mu sync.Mutex
	n  int64
}

// NewSequence creates a sequence whose first Next returns start+1.
func NewSequence(start int64) *Sequence {
	return &Sequence{n: start}
}

// Next increments and returns the next number.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.n
}

// Current returns the last number handed out without incrementing.
func (s *Sequence) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

// Reset rewinds the sequence to start.
func (s *Sequence) Reset(start int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n = start
}
