// Package bufpool implements a content-addressed, reference-counted
// buffer pool: immutable byte blobs keyed by the SHA-256 digest of
// their contents, deduplicated so two callers asking for the same
// bytes share one buffer. Hashing uses minio/sha256-simd, the teacher's
// one domain-adjacent dependency carried forward from mleku-p256k1's
// go.mod.
package bufpool

import (
	"bytes"
	"sync"
	"sync/atomic"

	"github.com/minio/sha256-simd"

	"corecrypto.dev/errs"
)

// Key is a buffer's content address: the SHA-256 digest of its bytes.
type Key [32]byte

func sum(data []byte) Key {
	return Key(sha256.Sum256(data))
}

// Buffer is an immutable byte blob under reference counting. A pooled
// buffer holds a weak back-pointer to its pool, consulted only by
// Free; the pool's index entry is the pool's own reference, so a
// pooled buffer's count never drops below one while indexed.
type Buffer struct {
	data []byte
	refs atomic.Int64
	pool *Pool
	key  Key
}

// Data returns the buffer's bytes. Callers must not modify them;
// pooled buffers are shared.
func (b *Buffer) Data() []byte { return b.data }

// Len returns the buffer's length in bytes.
func (b *Buffer) Len() int { return len(b.data) }

// UpRef adds a reference, for a caller about to hand out another alias
// to the same buffer.
func (b *Buffer) UpRef() {
	b.refs.Add(1)
}

// Free drops one reference. For an unpooled buffer this is a bare
// atomic decrement-and-test, no lock. For a pooled buffer the count
// hitting one means the pool's own index reference is the only one
// left; the entry stays in the pool (ready to be shared again) until
// Pool.Free tears the index down. The pooled path holds the pool's
// write lock so the decrement cannot race a concurrent lookup's
// increment of the same entry.
func (b *Buffer) Free() {
	if b.pool == nil {
		if b.refs.Add(-1) == 0 {
			b.data = nil
		}
		return
	}
	p := b.pool
	p.mu.Lock()
	defer p.mu.Unlock()
	b.refs.Add(-1)
}

// RefCount returns the buffer's current reference count.
func (b *Buffer) RefCount() int64 { return b.refs.Load() }

// Pool is a content-addressed buffer index guarded by one
// reader/writer lock: lookups take the read lock, insertion and
// decrement-to-one the write lock.
type Pool struct {
	mu      sync.RWMutex
	entries map[Key]*Buffer
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{entries: make(map[Key]*Buffer)}
}

// NewBuffer returns a buffer holding a copy of data. With a nil pool
// the buffer is private, refcount 1. With a pool, an existing buffer
// with the same contents is shared (its count incremented); otherwise
// a new buffer enters the pool with refcount 2, one reference for the
// pool's index and one for the caller. A lookup miss is re-checked
// under the write lock, since another goroutine may insert the same
// contents between the two lock acquisitions; the loser of that race
// discards its allocation and shares the winner.
func NewBuffer(data []byte, p *Pool) *Buffer {
	if p == nil {
		b := &Buffer{data: append([]byte(nil), data...)}
		b.refs.Store(1)
		return b
	}
	key := sum(data)

	p.mu.RLock()
	if e, ok := p.entries[key]; ok && bytes.Equal(e.data, data) {
		e.refs.Add(1)
		p.mu.RUnlock()
		return e
	}
	p.mu.RUnlock()

	b := &Buffer{data: append([]byte(nil), data...), pool: p, key: key}
	b.refs.Store(2)

	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.entries[key]; ok && bytes.Equal(e.data, data) {
		e.refs.Add(1)
		return e
	}
	p.entries[key] = b
	return b
}

// Len returns the number of distinct buffers currently pooled.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

// Free tears the pool down. It must only be called when no external
// references to pooled buffers remain; a buffer still externally held
// (count above the pool's own single reference) is reported as an
// invariant violation and the pool is left intact.
func (p *Pool) Free() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.entries {
		if e.refs.Load() > 1 {
			return errs.New(errs.InternalInvariant, "bufpool: pool freed with live external references")
		}
	}
	for _, e := range p.entries {
		e.data = nil
		e.pool = nil
	}
	p.entries = make(map[Key]*Buffer)
	return nil
}
