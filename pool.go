package specdoc

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome and filter child processes.
	cpuDivisor = 2
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("builder pool is closed")

// BuilderFactory creates one Builder for a pool slot.
type BuilderFactory func() (*Builder, error)

// BuilderPool hands out Builders for parallel builds. Each Builder owns its
// own browser. Builders are created lazily on first acquire.
type BuilderPool struct {
	size     int
	factory  BuilderFactory
	builders []*Builder
	sem      chan *Builder
	mu       sync.Mutex
	created  int
	closed   bool
}

// NewBuilderPool creates a pool with capacity for n Builders made by factory.
func NewBuilderPool(n int, factory BuilderFactory) *BuilderPool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	if factory == nil {
		factory = func() (*Builder, error) { return NewBuilder() }
	}

	return &BuilderPool{
		size:     n,
		factory:  factory,
		builders: make([]*Builder, 0, n),
		sem:      make(chan *Builder, n),
	}
}

// Acquire gets a Builder from the pool, creating one if needed.
// Blocks if all Builders are in use.
func (p *BuilderPool) Acquire() (*Builder, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, ErrPoolClosed
	}

	select {
	case b, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return b, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		b, err := p.factory()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.builders = append(p.builders, b)
		p.mu.Unlock()
		return b, nil
	}
	p.mu.Unlock()

	b, ok := <-p.sem
	if !ok {
		return nil, ErrPoolClosed
	}
	return b, nil
}

// Release returns a Builder to the pool.
// The channel holds every Builder the pool created, so the send never blocks.
func (p *BuilderPool) Release(b *Builder) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || b == nil {
		return
	}
	p.sem <- b
}

// Close releases all browser resources.
// Returns an aggregated error if several Builders fail to close.
func (p *BuilderPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	builders := p.builders
	p.mu.Unlock()

	var errs []error
	for _, b := range builders {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *BuilderPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware once automaxprocs has run.
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
