// Package alloc provides buffer-allocation strategies for large backing
// arrays; in this core, the MBC1 mapper's ROM bank and external RAM
// buffers come from it. Two flavors are offered so a host can trade startup cost
// against steady-state allocation: eager (resident from construction,
// cheapest to touch) and pooled (handed out lazily from a shared arena,
// cheapest to keep idle).
package alloc

import "sync"

// Allocator supplies byte buffers of a requested size. Implementations
// need not zero buffers beyond what Go's runtime already guarantees for
// fresh slices.
type Allocator interface {
	// NewBuffer returns a buffer of exactly size bytes.
	NewBuffer(size int) []byte
}

// EagerAllocator allocates every buffer immediately via make, with no
// sharing or reuse. This mirrors an "always resident" allocation style:
// simplest, and the right choice when memory pressure isn't a concern.
type EagerAllocator struct{}

// NewBuffer allocates a fresh, zeroed buffer of the requested size.
func (EagerAllocator) NewBuffer(size int) []byte {
	return make([]byte, size)
}

// PooledAllocator hands out buffers from a sync.Pool keyed by size class,
// reusing backing arrays across callers that release them back via Put.
// This mirrors a "heap, only as needed, reused when possible" allocation
// style for memory-constrained hosts running many emulator instances.
type PooledAllocator struct {
	mu    sync.Mutex
	pools map[int]*sync.Pool
}

// NewPooledAllocator constructs a ready-to-use PooledAllocator.
func NewPooledAllocator() *PooledAllocator {
	return &PooledAllocator{pools: make(map[int]*sync.Pool)}
}

// NewBuffer returns a buffer of exactly size bytes, reused from the pool
// for that size class when available.
func (p *PooledAllocator) NewBuffer(size int) []byte {
	pool := p.poolFor(size)
	buf := pool.Get().([]byte)
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

// Put returns a buffer previously obtained from NewBuffer to the pool so
// a future NewBuffer call of the same size can reuse its backing array.
func (p *PooledAllocator) Put(buf []byte) {
	pool := p.poolFor(len(buf))
	pool.Put(buf) //nolint:staticcheck // size-keyed pool, not a pointer-to-slice
}

func (p *PooledAllocator) poolFor(size int) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	pool, ok := p.pools[size]
	if !ok {
		pool = &sync.Pool{New: func() any { return make([]byte, size) }}
		p.pools[size] = pool
	}
	return pool
}
