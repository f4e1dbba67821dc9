package memory

import "sync"

// Pool is a typed object pool over sync.Pool. Objects handed back through Put
// must have been reset by the caller or by the pool's reset func.
type Pool[T any] struct {
	p     *sync.Pool
	reset func(*T)
}

// NewPool creates a pool that builds objects with ctor and clears them with
// reset (may be nil) when they are returned.
func NewPool[T any](ctor func() *T, reset func(*T)) *Pool[T] {
	return &Pool[T]{
		p: &sync.Pool{
			New: func() any { return ctor() },
		},
		reset: reset,
	}
}

func (p *Pool[T]) Get() *T {
	return p.p.Get().(*T)
}

func (p *Pool[T]) Put(v *T) {
	if v == nil {
		return
	}
	if p.reset != nil {
		p.reset(v)
	}
	p.p.Put(v)
}
