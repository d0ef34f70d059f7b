package generic

import "fmt"

// Poolable values get lifecycle callbacks from a Pool.
// OnCreate runs every time the value leaves the pool, OnRelease every time it
// comes back. After OnRelease the value must be indistinguishable from a fresh one.
type Poolable interface {
	OnCreate()
	OnRelease()
}

// PoolStats is a snapshot of pool counters.
type PoolStats struct {
	Created  int
	Acquired int
	Released int
	Idle     int
}

// Pool is a free-list of reusable values. It is not safe for concurrent use;
// every pool belongs to a single ticking goroutine.
type Pool[T comparable] struct {
	generate  func() T
	onAcquire func(T)
	onRelease func(T)
	free      []T
	idle      map[T]struct{}
	stats     PoolStats
}

// NewPool creates a pool. Values implementing Poolable get their hooks called.
func NewPool[T comparable](generate func() T) *Pool[T] {
	return NewPoolWithHooks(generate, acquireHook[T], releaseHook[T])
}

// NewPoolWithHooks creates a pool with explicit acquire and release hooks.
func NewPoolWithHooks[T comparable](generate func() T, onAcquire, onRelease func(T)) *Pool[T] {
	if generate == nil {
		panic("generic: pool requires a generator")
	}
	return &Pool[T]{
		generate:  generate,
		onAcquire: onAcquire,
		onRelease: onRelease,
		idle:      make(map[T]struct{}),
	}
}

func NewHotPool[T comparable](generate func() T, hotSize int) *Pool[T] {
	p := NewPool[T](generate)
	p.Warm(hotSize)
	return p
}

// Warm makes sure at least n values are idle.
func (p *Pool[T]) Warm(n int) {
	for len(p.free) < n {
		v := p.generate()
		p.stats.Created++
		p.free = append(p.free, v)
		p.idle[v] = struct{}{}
	}
}

func (p *Pool[T]) Get() T {
	var v T
	if n := len(p.free); n > 0 {
		var zero T
		v = p.free[n-1]
		p.free[n-1] = zero
		p.free = p.free[:n-1]
		delete(p.idle, v)
	} else {
		v = p.generate()
		p.stats.Created++
	}
	p.stats.Acquired++
	if p.onAcquire != nil {
		p.onAcquire(v)
	}
	return v
}

// Put returns value to the pool. Releasing a value that is already idle panics.
func (p *Pool[T]) Put(value T) {
	if _, ok := p.idle[value]; ok {
		panic(fmt.Sprintf("generic: double release of %T", value))
	}
	if p.onRelease != nil {
		p.onRelease(value)
	}
	p.idle[value] = struct{}{}
	p.free = append(p.free, value)
	p.stats.Released++
}

func (p *Pool[T]) Stats() PoolStats {
	s := p.stats
	s.Idle = len(p.free)
	return s
}

func acquireHook[T comparable](v T) {
	if h, ok := any(v).(Poolable); ok {
		h.OnCreate()
	}
}

func releaseHook[T comparable](v T) {
	if h, ok := any(v).(Poolable); ok {
		h.OnRelease()
	}
}
