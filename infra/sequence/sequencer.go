package sequence

import "sync/atomic"

// Sequencer hands out strictly increasing journal sequence numbers.
type Sequencer struct {
	last atomic.Uint64
}

// New returns a sequencer whose first Next is start+1. A fresh dictionary
// starts at 0; after replay pass the last replayed seq.
func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.last.Store(start)
	return s
}

func (s *Sequencer) Next() uint64 {
	return s.last.Add(1)
}

// Current returns the last issued sequence number.
func (s *Sequencer) Current() uint64 {
	return s.last.Load()
}

// Reset moves the sequencer to v. Only bootstrap calls it, after replay.
func (s *Sequencer) Reset(v uint64) {
	s.last.Store(v)
}
