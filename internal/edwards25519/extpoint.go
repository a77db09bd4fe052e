package edwards25519

import "corecrypto.dev/internal/field25519"

// The reduced point forms surrounding the extended (X:Y:Z:T)
// representation. Additions and doublings land in the completed P1P1
// form; converting onward to P2 costs three multiplications, to P3
// four. The cached forms hold the (Y+X, Y-X, 2dT) combination the
// addition law consumes directly, with projCached keeping a projective
// Z and affCached fixing Z = 1 for precomputed table entries.

type projP2 struct {
	X, Y, Z field25519.Element
}

type projP1P1 struct {
	X, Y, Z, T field25519.Element
}

type projCached struct {
	YplusX, YminusX, Z, T2d field25519.Element
}

type affCached struct {
	YplusX, YminusX, T2d field25519.Element
}

func (v *projP2) zero() {
	v.X = field25519.Zero()
	v.Y = field25519.One()
	v.Z = field25519.One()
}

func (v *projCached) zero() {
	v.YplusX = field25519.One()
	v.YminusX = field25519.One()
	v.Z = field25519.One()
	v.T2d = field25519.Zero()
}

func (v *affCached) zero() {
	v.YplusX = field25519.One()
	v.YminusX = field25519.One()
	v.T2d = field25519.Zero()
}

func (v *projP2) fromP3(p *Point) {
	v.X = p.X
	v.Y = p.Y
	v.Z = p.Z
}

func (v *projP2) fromP1P1(p *projP1P1) {
	field25519.Mul(&v.X, &p.X, &p.T)
	field25519.Mul(&v.Y, &p.Y, &p.Z)
	field25519.Mul(&v.Z, &p.Z, &p.T)
}

func (v *Point) fromP1P1(p *projP1P1) {
	field25519.Mul(&v.X, &p.X, &p.T)
	field25519.Mul(&v.Y, &p.Y, &p.Z)
	field25519.Mul(&v.Z, &p.Z, &p.T)
	field25519.Mul(&v.T, &p.X, &p.Y)
}

func (v *projCached) fromP3(p *Point) {
	field25519.Add(&v.YplusX, &p.Y, &p.X)
	field25519.Sub(&v.YminusX, &p.Y, &p.X)
	v.Z = p.Z
	field25519.Mul(&v.T2d, &p.T, &d2)
}

// fromP3 affine-izes p: one inversion per table entry, paid only
// during one-shot table construction.
func (v *affCached) fromP3(p *Point) {
	var zInv, x, y field25519.Element
	field25519.Invert(&zInv, &p.Z)
	field25519.Mul(&x, &p.X, &zInv)
	field25519.Mul(&y, &p.Y, &zInv)
	field25519.Add(&v.YplusX, &y, &x)
	field25519.Sub(&v.YminusX, &y, &x)
	var xy field25519.Element
	field25519.Mul(&xy, &x, &y)
	field25519.Mul(&v.T2d, &xy, &d2)
}

// double computes 2*p into the completed form.
func (v *projP1P1) double(p *projP2) {
	var xx, yy, zz2, xPlusY, xPlusYsq field25519.Element
	field25519.Sqr(&xx, &p.X)
	field25519.Sqr(&yy, &p.Y)
	field25519.Sqr(&zz2, &p.Z)
	field25519.Add(&zz2, &zz2, &zz2)
	field25519.Add(&xPlusY, &p.X, &p.Y)
	field25519.Sqr(&xPlusYsq, &xPlusY)

	field25519.Add(&v.Y, &yy, &xx)
	field25519.Sub(&v.Z, &yy, &xx)
	field25519.Sub(&v.X, &xPlusYsq, &v.Y)
	field25519.Sub(&v.T, &zz2, &v.Z)
}

// addCached computes p + q into the completed form.
func (v *projP1P1) addCached(p *Point, q *projCached) {
	var yPlusX, yMinusX, pp, mm, tt2d, zz, zz2 field25519.Element
	field25519.Add(&yPlusX, &p.Y, &p.X)
	field25519.Sub(&yMinusX, &p.Y, &p.X)
	field25519.Mul(&pp, &yPlusX, &q.YplusX)
	field25519.Mul(&mm, &yMinusX, &q.YminusX)
	field25519.Mul(&tt2d, &p.T, &q.T2d)
	field25519.Mul(&zz, &p.Z, &q.Z)
	field25519.Add(&zz2, &zz, &zz)

	field25519.Sub(&v.X, &pp, &mm)
	field25519.Add(&v.Y, &pp, &mm)
	field25519.Add(&v.Z, &zz2, &tt2d)
	field25519.Sub(&v.T, &zz2, &tt2d)
}

// subCached computes p - q: the cached form makes negation free by
// swapping the Y±X components and flipping the sign of the 2dT term.
func (v *projP1P1) subCached(p *Point, q *projCached) {
	var yPlusX, yMinusX, pp, mm, tt2d, zz, zz2 field25519.Element
	field25519.Add(&yPlusX, &p.Y, &p.X)
	field25519.Sub(&yMinusX, &p.Y, &p.X)
	field25519.Mul(&pp, &yPlusX, &q.YminusX)
	field25519.Mul(&mm, &yMinusX, &q.YplusX)
	field25519.Mul(&tt2d, &p.T, &q.T2d)
	field25519.Mul(&zz, &p.Z, &q.Z)
	field25519.Add(&zz2, &zz, &zz)

	field25519.Sub(&v.X, &pp, &mm)
	field25519.Add(&v.Y, &pp, &mm)
	field25519.Sub(&v.Z, &zz2, &tt2d)
	field25519.Add(&v.T, &zz2, &tt2d)
}

// addAffine is addCached for a table entry with Z = 1.
func (v *projP1P1) addAffine(p *Point, q *affCached) {
	var yPlusX, yMinusX, pp, mm, tt2d, z2 field25519.Element
	field25519.Add(&yPlusX, &p.Y, &p.X)
	field25519.Sub(&yMinusX, &p.Y, &p.X)
	field25519.Mul(&pp, &yPlusX, &q.YplusX)
	field25519.Mul(&mm, &yMinusX, &q.YminusX)
	field25519.Mul(&tt2d, &p.T, &q.T2d)
	field25519.Add(&z2, &p.Z, &p.Z)

	field25519.Sub(&v.X, &pp, &mm)
	field25519.Add(&v.Y, &pp, &mm)
	field25519.Add(&v.Z, &z2, &tt2d)
	field25519.Sub(&v.T, &z2, &tt2d)
}

// subAffine is subCached for a table entry with Z = 1.
func (v *projP1P1) subAffine(p *Point, q *affCached) {
	var yPlusX, yMinusX, pp, mm, tt2d, z2 field25519.Element
	field25519.Add(&yPlusX, &p.Y, &p.X)
	field25519.Sub(&yMinusX, &p.Y, &p.X)
	field25519.Mul(&pp, &yPlusX, &q.YminusX)
	field25519.Mul(&mm, &yMinusX, &q.YplusX)
	field25519.Mul(&tt2d, &p.T, &q.T2d)
	field25519.Add(&z2, &p.Z, &p.Z)

	field25519.Sub(&v.X, &pp, &mm)
	field25519.Add(&v.Y, &pp, &mm)
	field25519.Sub(&v.Z, &z2, &tt2d)
	field25519.Add(&v.T, &z2, &tt2d)
}

// eqMask returns an all-ones int64 when a == b, all-zeros otherwise,
// without branching; a and b may be secret.
func eqMask(a, b uint64) int64 {
	x := a ^ b
	nz := (x | -x) >> 63
	return int64(nz) - 1
}

// feSelect sets out's limbs to a's when mask is all-ones, b's when
// all-zeros.
func feSelect(out, a, b *field25519.Element, mask int64) {
	for i := 0; i < 10; i++ {
		out[i] = b[i] ^ (mask & (a[i] ^ b[i]))
	}
}

// condNeg negates v in place when mask is all-ones: swaps the Y±X
// components and negates the 2dT term, by masked selection only.
func (v *affCached) condNeg(mask int64) {
	var swappedPlus, swappedMinus field25519.Element
	feSelect(&swappedPlus, &v.YminusX, &v.YplusX, mask)
	feSelect(&swappedMinus, &v.YplusX, &v.YminusX, mask)
	v.YplusX = swappedPlus
	v.YminusX = swappedMinus
	var negT field25519.Element
	field25519.Neg(&negT, &v.T2d)
	feSelect(&v.T2d, &negT, &v.T2d, mask)
}

// selectRow gathers the digit-th entry from a precomputed table row
// holding 1..8 times a base multiple, per the signed-digit convention:
// digit in [-8, 8], 0 selecting the cached identity. Every entry is
// touched regardless of digit, and the negation is applied by mask.
func (v *affCached) selectRow(row *[8]affCached, digit int8) {
	negMask := int64(digit) >> 7
	babs := (int64(digit) ^ negMask) - negMask
	v.zero()
	for j := 0; j < 8; j++ {
		sel := eqMask(uint64(babs), uint64(j+1))
		feSelect(&v.YplusX, &row[j].YplusX, &v.YplusX, sel)
		feSelect(&v.YminusX, &row[j].YminusX, &v.YminusX, sel)
		feSelect(&v.T2d, &row[j].T2d, &v.T2d, sel)
	}
	v.condNeg(negMask)
}

// selectCached gathers table[index] for a secret index in [0, 16),
// scanning the full table.
func (v *projCached) selectCached(table *[16]projCached, index uint64) {
	v.zero()
	for j := 0; j < 16; j++ {
		sel := eqMask(index, uint64(j))
		feSelect(&v.YplusX, &table[j].YplusX, &v.YplusX, sel)
		feSelect(&v.YminusX, &table[j].YminusX, &v.YminusX, sel)
		feSelect(&v.Z, &table[j].Z, &v.Z, sel)
		feSelect(&v.T2d, &table[j].T2d, &v.T2d, sel)
	}
}

// signedRadix16 splits a little-endian scalar into 64 signed 4-bit
// digits in [-8, 8], carrying excess above 8 into the next digit. The
// caller guarantees s[31] <= 127 (true of clamped secrets and of
// anything reduced mod the group order), so the final digit absorbs
// the last carry without overflow.
func signedRadix16(s *[32]byte) [64]int8 {
	var e [64]int8
	for i := 0; i < 32; i++ {
		e[2*i] = int8(s[i] & 0xf)
		e[2*i+1] = int8((s[i] >> 4) & 0xf)
	}
	carry := int8(0)
	for i := 0; i < 63; i++ {
		e[i] += carry
		carry = (e[i] + 8) >> 4
		e[i] -= carry << 4
	}
	e[63] += carry
	return e
}

// slide converts a little-endian scalar to sliding-window signed NAF
// form: each nonzero output digit is odd, in [-15, 15], and any two
// nonzero digits are at least four positions apart. Variable-time;
// used only on public scalars (verification).
func slide(a *[32]byte) [256]int8 {
	var r [256]int8
	for i := 0; i < 256; i++ {
		r[i] = int8((a[i>>3] >> (i & 7)) & 1)
	}
	for i := 0; i < 256; i++ {
		if r[i] == 0 {
			continue
		}
		for b := 1; b <= 6 && i+b < 256; b++ {
			if r[i+b] == 0 {
				continue
			}
			if r[i]+(r[i+b]<<b) <= 15 {
				r[i] += r[i+b] << b
				r[i+b] = 0
			} else if r[i]-(r[i+b]<<b) >= -15 {
				r[i] -= r[i+b] << b
				for k := i + b; k < 256; k++ {
					if r[k] == 0 {
						r[k] = 1
						break
					}
					r[k] = 0
				}
			} else {
				break
			}
		}
	}
	return r
}
