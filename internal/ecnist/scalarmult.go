package ecnist

import "corecrypto.dev/internal/ctchoice"

// Scalar multiplication for the NIST curves. Three distinct engines,
// per the constant-time/variable-time split the rest of the module
// relies on:
//
//   - ScalarMult: Booth-recoded signed 5-bit windows against a
//     16-entry per-point table, every gather a full-table masked scan.
//   - ScalarBaseMult: Booth-recoded signed 7-bit windows against a
//     per-curve precomputed generator table (one row of 64 multiples
//     per window position), built once behind the curve's table guard.
//   - ScalarMultPublic / DoubleScalarMultPublic: sliding-window signed
//     NAF, variable time, public inputs only.

// bitAt reads bit pos (little-endian position) of a big-endian scalar;
// positions below zero and at or above the scalar's width read as zero.
func bitAt(k []byte, pos int) uint64 {
	if pos < 0 || pos >= len(k)*8 {
		return 0
	}
	return uint64(k[len(k)-1-pos/8]>>(uint(pos)%8)) & 1
}

// windowValue assembles the (w+1)-bit Booth window whose low boundary
// bit sits at position lowBit (one below the window's least digit bit).
func windowValue(k []byte, lowBit, w int) uint64 {
	var v uint64
	for i := 0; i <= w; i++ {
		v |= bitAt(k, lowBit+i) << uint(i)
	}
	return v
}

// boothRecode converts a (w+1)-bit window value into a signed digit:
// magnitude in [0, 2^(w-1)] and a sign bit, such that summing
// (-1)^sign * digit * 2^(w*j) over all windows reconstructs the
// scalar. Mask arithmetic only; the window value may be secret.
func boothRecode(wvalue uint64, w uint) (digit, sign uint64) {
	s := ^((wvalue >> w) - 1)
	d := (uint64(1) << (w + 1)) - wvalue - 1
	d = (d & s) | (wvalue & ^s)
	d = (d >> 1) + (d & 1)
	return d, s & 1
}

// buildTable returns [1*P, 2*P, ..., 16*P] in Jacobian coordinates,
// built with AddCT so the table itself carries no secret-dependent
// timing (the base point p may be secret, e.g. the issuer's key*T).
func (c *Curve) buildTable(p Jacobian) [16]Jacobian {
	var table [16]Jacobian
	table[0] = p
	for i := 1; i < 16; i++ {
		table[i] = c.AddCT(table[i-1], p)
	}
	return table
}

// gather selects table[digit-1] for a secret digit in [0, 16], with
// digit 0 yielding the identity; every entry is touched and selection
// is by mask.
func (c *Curve) gather(table *[16]Jacobian, digit uint64) Jacobian {
	result := c.Identity()
	for i := 0; i < 16; i++ {
		choice := ctchoice.Eq(uint64(i+1), digit)
		result = selectPoint(choice, c.Field, result, table[i])
	}
	return result
}

// condNegY negates the point's Y coordinate when sign is 1, by masked
// selection.
func (c *Curve) condNegY(p Jacobian, sign uint64) Jacobian {
	negY := c.Field.New()
	c.Field.Neg(negY, p.Y)
	y := c.Field.New()
	c.Field.CondSelect(y, ctchoice.Bit(sign), p.Y, negY)
	return Jacobian{X: clone(p.X), Y: y, Z: clone(p.Z)}
}

// ScalarMult computes k*p in constant time: signed 5-bit Booth windows
// over a 16-entry table of multiples, five doublings between windows,
// full-table masked gathers, and masked Y-negation for negative
// digits. Neither branch structure nor memory access depends on k or p.
func (c *Curve) ScalarMult(k []byte, p Jacobian) Jacobian {
	const w = 5
	table := c.buildTable(p)
	bits := len(k) * 8
	windows := (bits + w) / w

	acc := c.Identity()
	for j := windows - 1; j >= 0; j-- {
		if j != windows-1 {
			for i := 0; i < w; i++ {
				acc = c.Double(acc)
			}
		}
		wvalue := windowValue(k, w*j-1, w)
		digit, sign := boothRecode(wvalue, w)
		summand := c.condNegY(c.gather(&table, digit), sign)
		acc = c.AddCT(acc, summand)
	}
	return acc
}

// baseTable returns the curve's fixed-base table: row j holds
// [1..64] * 2^(7j) * G in Jacobian form, one row per signed 7-bit
// window position. Computed exactly once per curve.
func (c *Curve) baseTable() [][64]Jacobian {
	c.baseOnce.Do(func() {
		const w = 7
		bits := c.Order.BitLen()
		windows := (bits + w) / w
		table := make([][64]Jacobian, windows)
		rowBase := c.Generator()
		for j := 0; j < windows; j++ {
			table[j][0] = rowBase
			for i := 1; i < 64; i++ {
				table[j][i] = c.AddCT(table[j][i-1], rowBase)
			}
			for i := 0; i < w; i++ {
				rowBase = c.Double(rowBase)
			}
		}
		c.base = table
	})
	return c.base
}

// gather64 is gather for the 64-entry fixed-base rows.
func (c *Curve) gather64(row *[64]Jacobian, digit uint64) Jacobian {
	result := c.Identity()
	for i := 0; i < 64; i++ {
		choice := ctchoice.Eq(uint64(i+1), digit)
		result = selectPoint(choice, c.Field, result, row[i])
	}
	return result
}

// ScalarBaseMult computes k*G in constant time using the per-curve
// precomputed generator table: one masked gather and add per 7-bit
// window, no doublings.
func (c *Curve) ScalarBaseMult(k []byte) Jacobian {
	const w = 7
	table := c.baseTable()

	acc := c.Identity()
	for j := 0; j < len(table); j++ {
		wvalue := windowValue(k, w*j-1, w)
		digit, sign := boothRecode(wvalue, w)
		summand := c.condNegY(c.gather64(&table[j], digit), sign)
		acc = c.AddCT(acc, summand)
	}
	return acc
}

// slideBytes converts a big-endian scalar into little-endian
// sliding-window signed NAF form: nonzero digits are odd, in
// [-15, 15]. Variable time; public scalars only. The result has one
// digit more than k has bits, so a carry out of the top bit is kept.
func slideBytes(k []byte) []int8 {
	bits := len(k)*8 + 1
	r := make([]int8, bits)
	for i := 0; i < bits-1; i++ {
		r[i] = int8(bitAt(k, i))
	}
	for i := 0; i < bits; i++ {
		if r[i] == 0 {
			continue
		}
		for b := 1; b <= 6 && i+b < bits; b++ {
			if r[i+b] == 0 {
				continue
			}
			if r[i]+(r[i+b]<<b) <= 15 {
				r[i] += r[i+b] << b
				r[i+b] = 0
			} else if r[i]-(r[i+b]<<b) >= -15 {
				r[i] -= r[i+b] << b
				for t := i + b; t < bits; t++ {
					if r[t] == 0 {
						r[t] = 1
						break
					}
					r[t] = 0
				}
			} else {
				break
			}
		}
	}
	return r
}

// negate returns -p.
func (c *Curve) negate(p Jacobian) Jacobian {
	negY := c.Field.New()
	c.Field.Neg(negY, p.Y)
	return Jacobian{X: clone(p.X), Y: negY, Z: clone(p.Z)}
}

// oddMultiples returns [1*P, 3*P, ..., 15*P] using variable-time
// additions.
func (c *Curve) oddMultiples(p Jacobian) [8]Jacobian {
	var table [8]Jacobian
	table[0] = p
	p2 := c.Double(p)
	for i := 1; i < 8; i++ {
		table[i] = c.AddVartime(table[i-1], p2)
	}
	return table
}

// ScalarMultPublic computes k*p in variable time, for use only when
// both k and p are public (signature verification, token redemption,
// batched proof checks).
func (c *Curve) ScalarMultPublic(k []byte, p Jacobian) Jacobian {
	naf := slideBytes(k)
	table := c.oddMultiples(p)

	acc := c.Identity()
	for i := len(naf) - 1; i >= 0; i-- {
		acc = c.Double(acc)
		if naf[i] > 0 {
			acc = c.AddVartime(acc, table[naf[i]/2])
		} else if naf[i] < 0 {
			acc = c.AddVartime(acc, c.negate(table[(-naf[i])/2]))
		}
	}
	return acc
}

// DoubleScalarMultPublic computes k1*p1 + k2*p2 in variable time with
// one interleaved double-and-add pass over both NAF expansions, the
// two-term shape verification routines need (DLEQ recomputation,
// combined base/public-key checks).
func (c *Curve) DoubleScalarMultPublic(k1 []byte, p1 Jacobian, k2 []byte, p2 Jacobian) Jacobian {
	naf1 := slideBytes(k1)
	naf2 := slideBytes(k2)
	t1 := c.oddMultiples(p1)
	t2 := c.oddMultiples(p2)

	n := len(naf1)
	if len(naf2) > n {
		n = len(naf2)
	}
	acc := c.Identity()
	for i := n - 1; i >= 0; i-- {
		acc = c.Double(acc)
		if i < len(naf1) {
			if naf1[i] > 0 {
				acc = c.AddVartime(acc, t1[naf1[i]/2])
			} else if naf1[i] < 0 {
				acc = c.AddVartime(acc, c.negate(t1[(-naf1[i])/2]))
			}
		}
		if i < len(naf2) {
			if naf2[i] > 0 {
				acc = c.AddVartime(acc, t2[naf2[i]/2])
			} else if naf2[i] < 0 {
				acc = c.AddVartime(acc, c.negate(t2[(-naf2[i])/2]))
			}
		}
	}
	return acc
}
