package edwards25519

import "sync"

// The two process-wide base-point tables, each computed exactly once
// behind a sync.Once guard and immutable afterward.
//
// basepointTable covers the fixed-base constant-time path: row i holds
// {1..8} * 256^i * B in affine cached form, so a signed radix-16
// scalar digit at nibble position 2i (or 2i+1, after the mid-loop
// multiply by 16) selects its summand directly.
//
// basepointNafTable covers the variable-time verification path: the
// odd multiples {1, 3, 5, ..., 15} * B consumed by the sliding-window
// double-scalar multiplication.

var (
	basepointOnce     sync.Once
	basepointTable    *[32][8]affCached
	basepointNafTable *[8]affCached
)

func basepointTables() (*[32][8]affCached, *[8]affCached) {
	basepointOnce.Do(func() {
		table := new([32][8]affCached)
		bi := Generator()
		for i := 0; i < 32; i++ {
			p := bi
			for j := 0; j < 8; j++ {
				table[i][j].fromP3(&p)
				p = Add(&p, &bi)
			}
			for k := 0; k < 8; k++ {
				bi = Double(&bi)
			}
		}
		basepointTable = table

		naf := new([8]affCached)
		b := Generator()
		b2 := Double(&b)
		q := b
		for j := 0; j < 8; j++ {
			naf[j].fromP3(&q)
			q = Add(&q, &b2)
		}
		basepointNafTable = naf
	})
	return basepointTable, basepointNafTable
}
