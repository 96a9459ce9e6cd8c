// Package pool provides a typed wrapper over sync.Pool used to recycle
// per-parse state.
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool is a generic, type-safe object pool.
type Pool[T any] struct {
	pool    sync.Pool
	reset   func(*T) // called on every Get
	maxSize int64    // 0 = unlimited
	count   atomic.Int64
}

// NewPool creates a pool that builds new objects with factory.
func NewPool[T any](factory func() *T) *Pool[T] {
	return &Pool[T]{pool: sync.Pool{New: func() any { return factory() }}}
}

// NewPoolWithReset creates a pool whose objects are passed to reset before
// they are handed out.
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get returns a pooled or freshly built object.
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.maxSize > 0 && p.count.Load() > 0 {
		p.count.Add(-1)
	}
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put returns obj for reuse. Objects beyond the size limit are dropped.
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	if p.maxSize > 0 {
		if p.count.Load() >= p.maxSize {
			return
		}
		p.count.Add(1)
	}
	p.pool.Put(obj)
}

// SetMaxSize caps the approximate number of idle objects kept.
func (p *Pool[T]) SetMaxSize(size int) {
	p.maxSize = int64(size)
}
