package bufpool

import (
	"bytes"
	"sync"
	"testing"
)

func TestUnpooledLifecycle(t *testing.T) {
	b := NewBuffer([]byte("private"), nil)
	if b.RefCount() != 1 {
		t.Fatalf("unpooled buffer should start at refcount 1, got %d", b.RefCount())
	}
	if !bytes.Equal(b.Data(), []byte("private")) || b.Len() != 7 {
		t.Fatalf("buffer contents wrong")
	}
	b.UpRef()
	if b.RefCount() != 2 {
		t.Fatalf("UpRef did not increment")
	}
	b.Free()
	if b.RefCount() != 1 {
		t.Fatalf("Free did not decrement")
	}
	b.Free()
	if b.Data() != nil {
		t.Fatalf("storage should be released at refcount zero")
	}
}

// TestPoolDedup walks the full shared-buffer scenario: two requests for
// the same bytes share one object at refcount 3 (pool + two callers),
// two frees leave the pool's own reference, and pool teardown empties
// the index.
func TestPoolDedup(t *testing.T) {
	p := NewPool()
	b1 := NewBuffer([]byte("hello"), p)
	b2 := NewBuffer([]byte("hello"), p)
	if b1 != b2 {
		t.Fatalf("identical content should share one buffer object")
	}
	if b1.RefCount() != 3 {
		t.Fatalf("expected refcount 3 (pool + 2 callers), got %d", b1.RefCount())
	}
	b1.Free()
	b2.Free()
	if b1.RefCount() != 1 {
		t.Fatalf("expected only the pool's reference to remain, got %d", b1.RefCount())
	}
	if p.Len() != 1 {
		t.Fatalf("pool should still hold the entry")
	}
	if err := p.Free(); err != nil {
		t.Fatalf("pool Free: %v", err)
	}
	if p.Len() != 0 {
		t.Fatalf("pool should be empty after Free")
	}
}

func TestPooledBufferSurvivesLastExternalFree(t *testing.T) {
	p := NewPool()
	b := NewBuffer([]byte("transient"), p)
	if b.RefCount() != 2 {
		t.Fatalf("expected refcount 2 on fresh pooled buffer, got %d", b.RefCount())
	}
	b.Free()
	if b.RefCount() != 1 || p.Len() != 1 {
		t.Fatalf("pool's own reference should keep the entry: refs %d, len %d", b.RefCount(), p.Len())
	}
	if err := p.Free(); err != nil {
		t.Fatalf("pool Free: %v", err)
	}
	if p.Len() != 0 {
		t.Fatalf("pool should be empty after Free")
	}
}

func TestDifferentContentDistinctBuffers(t *testing.T) {
	p := NewPool()
	a := NewBuffer([]byte("alpha"), p)
	b := NewBuffer([]byte("beta"), p)
	if a == b {
		t.Fatalf("different content must not share a buffer")
	}
	if p.Len() != 2 {
		t.Fatalf("expected 2 pooled buffers, got %d", p.Len())
	}
}

func TestPoolFreeRefusesLiveReferences(t *testing.T) {
	p := NewPool()
	b := NewBuffer([]byte("held"), p)
	if err := p.Free(); err == nil {
		t.Fatalf("pool Free should refuse while external references remain")
	}
	b.Free()
	if err := p.Free(); err != nil {
		t.Fatalf("pool Free after releasing: %v", err)
	}
}

// TestConcurrentNewBuffer exercises the lost-insert race: many
// goroutines inserting the same bytes must converge on exactly one
// pool entry whose refcount accounts for every caller.
func TestConcurrentNewBuffer(t *testing.T) {
	p := NewPool()
	const goroutines = 32
	bufs := make([]*Buffer, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bufs[i] = NewBuffer([]byte("contended"), p)
		}(i)
	}
	wg.Wait()

	if p.Len() != 1 {
		t.Fatalf("expected exactly one pooled entry, got %d", p.Len())
	}
	for i := 1; i < goroutines; i++ {
		if bufs[i] != bufs[0] {
			t.Fatalf("goroutine %d got a different buffer object", i)
		}
	}
	if bufs[0].RefCount() != goroutines+1 {
		t.Fatalf("expected refcount %d, got %d", goroutines+1, bufs[0].RefCount())
	}
	for i := 0; i < goroutines; i++ {
		bufs[i].Free()
	}
	if bufs[0].RefCount() != 1 || p.Len() != 1 {
		t.Fatalf("pool's own reference should remain after all external frees")
	}
	if err := p.Free(); err != nil {
		t.Fatalf("pool Free: %v", err)
	}
	if p.Len() != 0 {
		t.Fatalf("pool should be empty after teardown")
	}
}
