// Package field25519 implements arithmetic in GF(2^255-19), the field
// underlying Curve25519 and Edwards25519 (spec.md §3/§4.2).
//
// Elements are held in the classic ref10 shape: ten limbs in radix
// 2^25.5 (alternating 26/25-bit limbs), the representation spec.md
// names explicitly and the shape internal/edwards25519 and the x25519
// ladder build on. Every arithmetic operation here is a fixed sequence
// of limb multiplies, adds, and shifts with no data-dependent branch or
// loop bound, so the instruction trace is identical regardless of the
// secret values flowing through it — the same discipline
// internal/bignum applies to the NIST curves, specialized to this
// field's native radix instead of routing through it.
package field25519

import "crypto/subtle"

// Element is a field element in 10-limb radix-2^25.5 form. Every
// exported function leaves its output limbs carry-propagated (each
// limb within roughly its nominal bit width), so any Element returned
// to a caller is safe to feed back into Mul/Sqr without risk of
// overflowing the int64 accumulators Mul builds internally.
type Element [10]int64

var width = [10]uint{26, 25, 26, 25, 26, 25, 26, 25, 26, 25}

// Zero and One return the additive and multiplicative identities.
func Zero() Element { return Element{} }
func One() Element  { var e Element; e[0] = 1; return e }

// FromInt64 builds an element from a small signed public constant
// (curve coefficients like the 121665/121666 pair).
func FromInt64(v int64) Element {
	e := Element{}
	e[0] = v
	reduceLimbs(&e)
	return e
}

// reduceLimbs carries h in place through the standard two-pass
// alternating 26/25-bit chain, folding limb 9's overflow back into
// limb 0 scaled by 19 (since 2^255 ≡ 19 mod p). Two passes suffice for
// every magnitude this package produces internally (Mul's raw
// accumulators, lazy Add/Sub/Neg sums); the pass count is fixed
// regardless of the limbs' values.
func reduceLimbs(h *Element) {
	for pass := 0; pass < 2; pass++ {
		for i := 0; i < 10; i++ {
			c := h[i] >> width[i]
			h[i] -= c << width[i]
			j := (i + 1) % 10
			if j == 0 {
				h[0] += 19 * c
			} else {
				h[j] += c
			}
		}
	}
}

// Add sets z = x+y.
func Add(z, x, y *Element) {
	var h Element
	for i := 0; i < 10; i++ {
		h[i] = x[i] + y[i]
	}
	reduceLimbs(&h)
	*z = h
}

// Sub sets z = x-y.
func Sub(z, x, y *Element) {
	var h Element
	for i := 0; i < 10; i++ {
		h[i] = x[i] - y[i]
	}
	reduceLimbs(&h)
	*z = h
}

// Neg sets z = -x.
func Neg(z, x *Element) {
	var h Element
	for i := 0; i < 10; i++ {
		h[i] = -x[i]
	}
	reduceLimbs(&h)
	*z = h
}

// Mul sets z = x*y using the classic ref10 cross-multiplication: each
// output limb is a fixed sum of ten products (the odd-indexed g limbs
// pre-scaled by 19 for the terms that wrap past 2^255, the odd-indexed
// f limbs pre-doubled to account for the radix's half-bit alternation),
// followed by one reduceLimbs pass.
func Mul(z, x, y *Element) {
	f0, f1, f2, f3, f4 := x[0], x[1], x[2], x[3], x[4]
	f5, f6, f7, f8, f9 := x[5], x[6], x[7], x[8], x[9]
	g0, g1, g2, g3, g4 := y[0], y[1], y[2], y[3], y[4]
	g5, g6, g7, g8, g9 := y[5], y[6], y[7], y[8], y[9]

	g1_19 := 19 * g1
	g2_19 := 19 * g2
	g3_19 := 19 * g3
	g4_19 := 19 * g4
	g5_19 := 19 * g5
	g6_19 := 19 * g6
	g7_19 := 19 * g7
	g8_19 := 19 * g8
	g9_19 := 19 * g9
	f1_2 := 2 * f1
	f3_2 := 2 * f3
	f5_2 := 2 * f5
	f7_2 := 2 * f7
	f9_2 := 2 * f9

	f0g0 := f0 * g0
	f0g1 := f0 * g1
	f0g2 := f0 * g2
	f0g3 := f0 * g3
	f0g4 := f0 * g4
	f0g5 := f0 * g5
	f0g6 := f0 * g6
	f0g7 := f0 * g7
	f0g8 := f0 * g8
	f0g9 := f0 * g9
	f1g0 := f1 * g0
	f1g1_2 := f1_2 * g1
	f1g2 := f1 * g2
	f1g3_2 := f1_2 * g3
	f1g4 := f1 * g4
	f1g5_2 := f1_2 * g5
	f1g6 := f1 * g6
	f1g7_2 := f1_2 * g7
	f1g8 := f1 * g8
	f1g9_38 := f1_2 * g9_19
	f2g0 := f2 * g0
	f2g1 := f2 * g1
	f2g2 := f2 * g2
	f2g3 := f2 * g3
	f2g4 := f2 * g4
	f2g5 := f2 * g5
	f2g6 := f2 * g6
	f2g7 := f2 * g7
	f2g8_19 := f2 * g8_19
	f2g9_19 := f2 * g9_19
	f3g0 := f3 * g0
	f3g1_2 := f3_2 * g1
	f3g2 := f3 * g2
	f3g3_2 := f3_2 * g3
	f3g4 := f3 * g4
	f3g5_2 := f3_2 * g5
	f3g6 := f3 * g6
	f3g7_38 := f3_2 * g7_19
	f3g8_19 := f3 * g8_19
	f3g9_38 := f3_2 * g9_19
	f4g0 := f4 * g0
	f4g1 := f4 * g1
	f4g2 := f4 * g2
	f4g3 := f4 * g3
	f4g4 := f4 * g4
	f4g5 := f4 * g5
	f4g6_19 := f4 * g6_19
	f4g7_19 := f4 * g7_19
	f4g8_19 := f4 * g8_19
	f4g9_19 := f4 * g9_19
	f5g0 := f5 * g0
	f5g1_2 := f5_2 * g1
	f5g2 := f5 * g2
	f5g3_2 := f5_2 * g3
	f5g4 := f5 * g4
	f5g5_38 := f5_2 * g5_19
	f5g6_19 := f5 * g6_19
	f5g7_38 := f5_2 * g7_19
	f5g8_19 := f5 * g8_19
	f5g9_38 := f5_2 * g9_19
	f6g0 := f6 * g0
	f6g1 := f6 * g1
	f6g2 := f6 * g2
	f6g3 := f6 * g3
	f6g4_19 := f6 * g4_19
	f6g5_19 := f6 * g5_19
	f6g6_19 := f6 * g6_19
	f6g7_19 := f6 * g7_19
	f6g8_19 := f6 * g8_19
	f6g9_19 := f6 * g9_19
	f7g0 := f7 * g0
	f7g1_2 := f7_2 * g1
	f7g2 := f7 * g2
	f7g3_38 := f7_2 * g3_19
	f7g4_19 := f7 * g4_19
	f7g5_38 := f7_2 * g5_19
	f7g6_19 := f7 * g6_19
	f7g7_38 := f7_2 * g7_19
	f7g8_19 := f7 * g8_19
	f7g9_38 := f7_2 * g9_19
	f8g0 := f8 * g0
	f8g1 := f8 * g1
	f8g2_19 := f8 * g2_19
	f8g3_19 := f8 * g3_19
	f8g4_19 := f8 * g4_19
	f8g5_19 := f8 * g5_19
	f8g6_19 := f8 * g6_19
	f8g7_19 := f8 * g7_19
	f8g8_19 := f8 * g8_19
	f8g9_19 := f8 * g9_19
	f9g0 := f9 * g0
	f9g1_38 := f9_2 * g1_19
	f9g2_19 := f9 * g2_19
	f9g3_38 := f9_2 * g3_19
	f9g4_19 := f9 * g4_19
	f9g5_38 := f9_2 * g5_19
	f9g6_19 := f9 * g6_19
	f9g7_38 := f9_2 * g7_19
	f9g8_19 := f9 * g8_19
	f9g9_38 := f9_2 * g9_19

	var h Element
	h[0] = f0g0 + f1g9_38 + f2g8_19 + f3g7_38 + f4g6_19 + f5g5_38 + f6g4_19 + f7g3_38 + f8g2_19 + f9g1_38
	h[1] = f0g1 + f1g0 + f2g9_19 + f3g8_19 + f4g7_19 + f5g6_19 + f6g5_19 + f7g4_19 + f8g3_19 + f9g2_19
	h[2] = f0g2 + f1g1_2 + f2g0 + f3g9_38 + f4g8_19 + f5g7_38 + f6g6_19 + f7g5_38 + f8g4_19 + f9g3_38
	h[3] = f0g3 + f1g2 + f2g1 + f3g0 + f4g9_19 + f5g8_19 + f6g7_19 + f7g6_19 + f8g5_19 + f9g4_19
	h[4] = f0g4 + f1g3_2 + f2g2 + f3g1_2 + f4g0 + f5g9_38 + f6g8_19 + f7g7_38 + f8g6_19 + f9g5_38
	h[5] = f0g5 + f1g4 + f2g3 + f3g2 + f4g1 + f5g0 + f6g9_19 + f7g8_19 + f8g7_19 + f9g6_19
	h[6] = f0g6 + f1g5_2 + f2g4 + f3g3_2 + f4g2 + f5g1_2 + f6g0 + f7g9_38 + f8g8_19 + f9g7_38
	h[7] = f0g7 + f1g6 + f2g5 + f3g4 + f4g3 + f5g2 + f6g1 + f7g0 + f8g9_19 + f9g8_19
	h[8] = f0g8 + f1g7_2 + f2g6 + f3g5_2 + f4g4 + f5g3_2 + f6g2 + f7g1_2 + f8g0 + f9g9_38
	h[9] = f0g9 + f1g8 + f2g7 + f3g6 + f4g5 + f5g4 + f6g3 + f7g2 + f8g1 + f9g0

	reduceLimbs(&h)
	*z = h
}

// Sqr sets z = x^2. It is expressed as Mul(z,x,x) rather than a
// dedicated squaring formula: half the cross terms, but one fewer
// algorithm to get right without being able to run it.
func Sqr(z, x *Element) { Mul(z, x, x) }

// MulSmall sets z = x*k for a small public constant k (e.g. the 121665
// Montgomery-ladder coefficient spec.md §4.2 names).
func MulSmall(z, x *Element, k int64) {
	var h Element
	for i := 0; i < 10; i++ {
		h[i] = x[i] * k
	}
	reduceLimbs(&h)
	*z = h
}

// pInvExp, pInv8Exp, and pQuarterExp are p-2, (p+3)/8, and (p-1)/4,
// encoded big-endian. Invert raises to pInvExp and SqrtRatio to
// pInv8Exp; pQuarterExp is not used by either. Because these exponents are public constants
// (not secret data), the square-and-multiply loop that consumes them
// below executes the identical sequence of field operations on every
// call regardless of the secret base — only the byte that selects
// "multiply" or "square-only" at each step is public.
var pInvExp = [32]byte{
	0x7f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xeb,
}

var pInv8Exp = [32]byte{
	0x0f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe,
}

var pQuarterExp = [32]byte{
	0x1f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfb,
}

// sqrtM1 is 2^((p-1)/4) mod p, the standard primitive fourth root of
// unity used to find the "other" candidate square root when the first
// one fails (ref10's sqrt-m1 constant).
var sqrtM1 = Element{
	34513072, 25610706, 9377949, 3500415, 12389472,
	33281959, 41962654, 31548777, 326685, 11406482,
}

// powConst sets z = x^exp, exp given as 32 big-endian bytes, by
// square-and-multiply over every one of the 256 bits in order. exp is
// always one of the fixed public exponents above.
func powConst(z, x *Element, exp [32]byte) {
	acc := One()
	for _, b := range exp {
		for bit := 7; bit >= 0; bit-- {
			Sqr(&acc, &acc)
			if (b>>uint(bit))&1 == 1 {
				Mul(&acc, &acc, x)
			}
		}
	}
	*z = acc
}

// Invert sets z = x^-1 via Fermat's little theorem (x^(p-2)), or z = 0
// if x is zero: 0^(p-2) falls out of the chain as 0, so the zero case
// needs no test. The exponent is fixed and public, so this is
// constant-time in the secret base x — the Montgomery ladder inverts
// its z-denominator here, which is zero exactly on the small-order
// inputs the caller must not be able to distinguish by timing.
func Invert(z, x *Element) {
	powConst(z, x, pInvExp)
}

// IsZero reports whether x is the zero element, via constant-time byte
// comparison of its canonical encoding.
func IsZero(x *Element) bool {
	b := ToBytes(x)
	var zero [32]byte
	return subtle.ConstantTimeCompare(b[:], zero[:]) == 1
}

// SqrtRatio computes a candidate square root of u/v, returning whether
// u/v was actually a square. This mirrors ref10's fe_sqrt/sqrt-ratio
// shape used by point decompression (internal/edwards25519): since p ≡
// 5 (mod 8), a candidate root is (u/v)^((p+3)/8); if its square doesn't
// match, multiplying by sqrtM1 gives the other candidate.
func SqrtRatio(z, u, v *Element) bool {
	if IsZero(v) {
		*z = Zero()
		return IsZero(u)
	}
	var vInv Element
	Invert(&vInv, v)
	var ratio Element
	Mul(&ratio, u, &vInv)

	var root Element
	powConst(&root, &ratio, pInv8Exp)

	var check Element
	Sqr(&check, &root)
	if Equal(&check, &ratio) {
		*z = root
		return true
	}
	var root2 Element
	Mul(&root2, &root, &sqrtM1)
	var check2 Element
	Sqr(&check2, &root2)
	if Equal(&check2, &ratio) {
		*z = root2
		return true
	}
	*z = root
	return false
}

// Equal reports whether x == y as field elements, via constant-time
// byte comparison of their canonical encodings.
func Equal(x, y *Element) bool {
	xb := ToBytes(x)
	yb := ToBytes(y)
	return subtle.ConstantTimeCompare(xb[:], yb[:]) == 1
}

// IsNegative reports the low bit of x's canonical representative, the
// sign convention spec.md's Edwards25519 encoding uses.
func IsNegative(x *Element) bool {
	b := ToBytes(x)
	return b[0]&1 == 1
}

func load3(b []byte) int64 {
	return int64(b[0]) | int64(b[1])<<8 | int64(b[2])<<16
}

func load4(b []byte) int64 {
	return int64(b[0]) | int64(b[1])<<8 | int64(b[2])<<16 | int64(b[3])<<24
}

// FromBytes decodes 32 little-endian bytes (RFC 7748 §5's convention:
// the top bit is ignored/masked for Curve25519 u-coordinates and
// carries the sign bit for Edwards25519, handled by the caller) using
// ref10's FeFromBytes load pattern: each limb pulls from a 3- or
// 4-byte little-endian window, pre-shifted to its radix position, then
// a single alternating carry pass folds the windows' overlap away.
func FromBytes(b []byte) Element {
	buf := make([]byte, 32)
	copy(buf, b[:32])

	var h Element
	h[0] = load4(buf[0:4])
	h[1] = load3(buf[4:7]) << 6
	h[2] = load3(buf[7:10]) << 5
	h[3] = load3(buf[10:13]) << 3
	h[4] = load3(buf[13:16]) << 2
	h[5] = load4(buf[16:20])
	h[6] = load3(buf[20:23]) << 7
	h[7] = load3(buf[23:26]) << 5
	h[8] = load3(buf[26:29]) << 4
	h[9] = (load3(buf[29:32]) & 8388607) << 2

	carry9 := (h[9] + (1 << 24)) >> 25
	h[0] += carry9 * 19
	h[9] -= carry9 << 25
	carry1 := (h[1] + (1 << 24)) >> 25
	h[2] += carry1
	h[1] -= carry1 << 25
	carry3 := (h[3] + (1 << 24)) >> 25
	h[4] += carry3
	h[3] -= carry3 << 25
	carry5 := (h[5] + (1 << 24)) >> 25
	h[6] += carry5
	h[5] -= carry5 << 25
	carry7 := (h[7] + (1 << 24)) >> 25
	h[8] += carry7
	h[7] -= carry7 << 25

	carry0 := (h[0] + (1 << 25)) >> 26
	h[1] += carry0
	h[0] -= carry0 << 26
	carry2 := (h[2] + (1 << 25)) >> 26
	h[3] += carry2
	h[2] -= carry2 << 26
	carry4 := (h[4] + (1 << 25)) >> 26
	h[5] += carry4
	h[4] -= carry4 << 26
	carry6 := (h[6] + (1 << 25)) >> 26
	h[7] += carry6
	h[6] -= carry6 << 26
	carry8 := (h[8] + (1 << 25)) >> 26
	h[9] += carry8
	h[8] -= carry8 << 26

	return h
}

// ToBytes encodes x as 32 little-endian bytes, canonical (< p), via
// ref10's FeToBytes "freeze" algorithm: a quotient estimate folded
// through all ten limbs decides, without branching, whether x's true
// value is p or more past a multiple of p, then one more carry pass
// and a fixed bit-packing produce the canonical byte string.
func ToBytes(x *Element) [32]byte {
	h := *x

	q := (19*h[9] + (1 << 24)) >> 25
	q = (h[0] + q) >> 26
	q = (h[1] + q) >> 25
	q = (h[2] + q) >> 26
	q = (h[3] + q) >> 25
	q = (h[4] + q) >> 26
	q = (h[5] + q) >> 25
	q = (h[6] + q) >> 26
	q = (h[7] + q) >> 25
	q = (h[8] + q) >> 26
	q = (h[9] + q) >> 25

	h[0] += 19 * q

	var carry [10]int64
	carry[0] = h[0] >> 26
	h[1] += carry[0]
	h[0] -= carry[0] << 26
	carry[1] = h[1] >> 25
	h[2] += carry[1]
	h[1] -= carry[1] << 25
	carry[2] = h[2] >> 26
	h[3] += carry[2]
	h[2] -= carry[2] << 26
	carry[3] = h[3] >> 25
	h[4] += carry[3]
	h[3] -= carry[3] << 25
	carry[4] = h[4] >> 26
	h[5] += carry[4]
	h[4] -= carry[4] << 26
	carry[5] = h[5] >> 25
	h[6] += carry[5]
	h[5] -= carry[5] << 25
	carry[6] = h[6] >> 26
	h[7] += carry[6]
	h[6] -= carry[6] << 26
	carry[7] = h[7] >> 25
	h[8] += carry[7]
	h[7] -= carry[7] << 25
	carry[8] = h[8] >> 26
	h[9] += carry[8]
	h[8] -= carry[8] << 26
	carry[9] = h[9] >> 25
	h[9] -= carry[9] << 25

	var s [32]byte
	s[0] = byte(h[0] >> 0)
	s[1] = byte(h[0] >> 8)
	s[2] = byte(h[0] >> 16)
	s[3] = byte((h[0] >> 24) | (h[1] << 2))
	s[4] = byte(h[1] >> 6)
	s[5] = byte(h[1] >> 14)
	s[6] = byte((h[1] >> 22) | (h[2] << 3))
	s[7] = byte(h[2] >> 5)
	s[8] = byte(h[2] >> 13)
	s[9] = byte((h[2] >> 21) | (h[3] << 5))
	s[10] = byte(h[3] >> 3)
	s[11] = byte(h[3] >> 11)
	s[12] = byte((h[3] >> 19) | (h[4] << 6))
	s[13] = byte(h[4] >> 2)
	s[14] = byte(h[4] >> 10)
	s[15] = byte(h[4] >> 18)
	s[16] = byte(h[5] >> 0)
	s[17] = byte(h[5] >> 8)
	s[18] = byte(h[5] >> 16)
	s[19] = byte((h[5] >> 24) | (h[6] << 1))
	s[20] = byte(h[6] >> 7)
	s[21] = byte(h[6] >> 15)
	s[22] = byte((h[6] >> 23) | (h[7] << 3))
	s[23] = byte(h[7] >> 5)
	s[24] = byte(h[7] >> 13)
	s[25] = byte((h[7] >> 21) | (h[8] << 4))
	s[26] = byte(h[8] >> 4)
	s[27] = byte(h[8] >> 12)
	s[28] = byte((h[8] >> 20) | (h[9] << 6))
	s[29] = byte(h[9] >> 2)
	s[30] = byte(h[9] >> 10)
	s[31] = byte(h[9] >> 18)
	return s
}

// CondSwap swaps a and b when swap is 1, leaves them when swap is 0, in
// the timing-safe style spec.md's Montgomery ladder requires: it always
// performs the XOR-mask dance, never branches on swap.
func CondSwap(swap uint64, a, b *Element) {
	mask := int64(0) - int64(swap&1)
	for i := 0; i < 10; i++ {
		t := mask & (a[i] ^ b[i])
		a[i] ^= t
		b[i] ^= t
	}
}
