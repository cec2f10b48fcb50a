package pool

import "sync"

// Pool типизированная обертка над sync.Pool.
// Сброс состояния объекта остается за вызывающей стороной:
// например, gzip.Writer сбрасывается через Reset(w) на новый writer.
type Pool[T any] struct {
	pool sync.Pool
}

// New создает новый Pool для объектов типа T
func New[T any](fn func() T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return fn()
			},
		},
	}
}

// Get возвращает объект из пула
func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

// Put возвращает объект в пул
func (p *Pool[T]) Put(x T) {
	p.pool.Put(x)
}
