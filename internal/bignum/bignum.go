// Package bignum is the generic constant-time Montgomery arithmetic
// engine shared by the P-256, P-384, and P-521 field and scalar layers
// (see SPEC_FULL.md §3's "Data Model — deliberate unification"). It
// plays the role spec.md §6.2 calls "the big-integer library: arbitrary-
// precision nonneg integers with modular arithmetic, Montgomery contexts,
// and constant-time modular exponentiation", extended from the P-521-only
// scope the distilled spec names to the whole NIST family.
//
// Every element is a little-endian slice of 64-bit limbs held in
// Montgomery form (value*R mod m, R = 2^(64*n)). Callers never see raw
// limbs cross a package boundary in non-Montgomery form except through
// FromBytes/ToBytes.
package bignum

import (
	"math/bits"

	"corecrypto.dev/internal/ctchoice"
)

// Modulus is an immutable odd modulus and its derived Montgomery
// constants. Build one with NewModulus and never mutate it after; every
// Modulus in this module is a process-wide constant (spec.md §9:
// "Precomputed tables are naturally constants").
type Modulus struct {
	limbs []uint64 // m, little-endian, len n
	n     int
	mInv  uint64   // -m[0]^-1 mod 2^64
	rr    []uint64 // R^2 mod m
	one   []uint64 // Montgomery encoding of 1
}

// NewModulus builds a Modulus from big-endian bytes. The limb width is
// len(beBytes) rounded up to a 64-bit boundary; every element under this
// Modulus has exactly that width.
func NewModulus(beBytes []byte) *Modulus {
	n := (len(beBytes) + 7) / 8
	limbs := bytesToLimbs(beBytes, n)
	mo := &Modulus{limbs: limbs, n: n}
	mo.mInv = invWord(limbs[0])

	// R = 2^(64n) mod m, via repeated doubling from 1.
	r := make([]uint64, n)
	r[0] = 1
	for i := 0; i < 64*n; i++ {
		r = mo.addRaw(r, r)
	}
	rr := append([]uint64(nil), r...)
	for i := 0; i < 64*n; i++ {
		rr = mo.addRaw(rr, rr)
	}
	mo.rr = rr
	mo.one = r
	return mo
}

// Size returns the limb width of elements under this modulus.
func (mo *Modulus) Size() int { return mo.n }

// BitLen returns the bit length of the modulus itself (a public,
// process-wide constant).
func (mo *Modulus) BitLen() int {
	for i := mo.n - 1; i >= 0; i-- {
		if mo.limbs[i] != 0 {
			return i*64 + bits.Len64(mo.limbs[i])
		}
	}
	return 0
}

// New returns a freshly allocated zero element.
func (mo *Modulus) New() []uint64 { return make([]uint64, mo.n) }

func bytesToLimbs(b []byte, n int) []uint64 {
	limbs := make([]uint64, n)
	for i, by := range b {
		limbIdx := (len(b) - 1 - i) / 8
		shift := uint(((len(b) - 1 - i) % 8) * 8)
		if limbIdx < n {
			limbs[limbIdx] |= uint64(by) << shift
		}
	}
	return limbs
}

func limbsToBytes(limbs []uint64, n int) []byte {
	out := make([]byte, n*8)
	for i := 0; i < n; i++ {
		for j := 0; j < 8; j++ {
			out[len(out)-1-(i*8+j)] = byte(limbs[i] >> (8 * uint(j)))
		}
	}
	return out
}

// addRaw adds two limb arrays modulo m. Used only while deriving rr/one
// in NewModulus, before mInv-based reduction is needed; not
// constant-time, and never called on secret data.
func (mo *Modulus) addRaw(a, b []uint64) []uint64 {
	n := mo.n
	out := make([]uint64, n)
	var carry uint64
	for i := 0; i < n; i++ {
		s, c := bits.Add64(a[i], b[i], carry)
		out[i] = s
		carry = c
	}
	for {
		borrow := uint64(0)
		tmp := make([]uint64, n)
		for i := 0; i < n; i++ {
			d, bo := bits.Sub64(out[i], mo.limbs[i], borrow)
			tmp[i] = d
			borrow = bo
		}
		if carry == 0 && borrow == 1 {
			break
		}
		out = tmp
		carry = 0
	}
	return out
}

// invWord computes -m0^-1 mod 2^64 via Hensel lifting, the standard
// technique behind every CIOS Montgomery implementation.
func invWord(m0 uint64) uint64 {
	y := m0
	for i := 0; i < 6; i++ {
		y = y * (2 - m0*y)
	}
	return -y
}

// mac computes t + a*b + carry as a 128-bit sum, returning (lo, hi). The
// sum never overflows 128 bits: (2^64-1) + (2^64-1)*(2^64-1) + (2^64-1)
// = 2^128 - 1 exactly.
func mac(t, carry, a, b uint64) (lo, hi uint64) {
	hi1, lo1 := bits.Mul64(a, b)
	lo2, c1 := bits.Add64(lo1, t, 0)
	hi2, _ := bits.Add64(hi1, 0, c1)
	lo3, c2 := bits.Add64(lo2, carry, 0)
	hi3, _ := bits.Add64(hi2, 0, c2)
	return lo3, hi3
}

// montMul computes z = x*y*R^-1 mod m (CIOS algorithm). The loop
// structure and memory access pattern never depend on the values of x
// or y, only on mo.n, which is a public, process-wide constant.
func (mo *Modulus) montMul(z, x, y []uint64) {
	n := mo.n
	t := make([]uint64, n+2)
	for i := 0; i < n; i++ {
		var carry uint64
		for j := 0; j < n; j++ {
			lo, hi := mac(t[j], carry, x[i], y[j])
			t[j] = lo
			carry = hi
		}
		s, c := bits.Add64(t[n], carry, 0)
		t[n] = s
		t[n+1] += c

		m := t[0] * mo.mInv
		var carry2 uint64
		for j := 0; j < n; j++ {
			lo, hi := mac(t[j], carry2, m, mo.limbs[j])
			t[j] = lo
			carry2 = hi
		}
		s2, c2 := bits.Add64(t[n], carry2, 0)
		t[n] = s2
		t[n+1] += c2

		copy(t[0:n+1], t[1:n+2])
		t[n+1] = 0
	}
	// The result is below 2m but may carry into t[n]; subtract m when
	// that carry is set or when t[:n] >= m.
	tmp := make([]uint64, n)
	var borrow uint64
	for i := 0; i < n; i++ {
		tmp[i], borrow = bits.Sub64(t[i], mo.limbs[i], borrow)
	}
	useTmp := uint64(0) - (t[n] | (borrow ^ 1))
	for i := 0; i < n; i++ {
		z[i] = t[i] ^ (useTmp & (t[i] ^ tmp[i]))
	}
}

// condSub subtracts m from z if z >= m, in constant time.
func (mo *Modulus) condSub(z []uint64) {
	n := mo.n
	tmp := make([]uint64, n)
	var borrow uint64
	for i := 0; i < n; i++ {
		d, b := bits.Sub64(z[i], mo.limbs[i], borrow)
		tmp[i] = d
		borrow = b
	}
	// borrow == 1 means z < m: keep z. Else use tmp = z-m.
	keep := uint64(0) - (borrow ^ 1)
	for i := 0; i < n; i++ {
		z[i] = z[i] ^ (keep & (z[i] ^ tmp[i]))
	}
}

// Mul sets z = x*y mod m (operands and result in Montgomery form).
func (mo *Modulus) Mul(z, x, y []uint64) { mo.montMul(z, x, y) }

// Sqr sets z = x^2 mod m.
func (mo *Modulus) Sqr(z, x []uint64) { mo.montMul(z, x, x) }

// Add sets z = x+y mod m.
func (mo *Modulus) Add(z, x, y []uint64) {
	n := mo.n
	var carry uint64
	tmp := make([]uint64, n)
	for i := 0; i < n; i++ {
		s, c := bits.Add64(x[i], y[i], carry)
		tmp[i] = s
		carry = c
	}
	// Subtract m when the sum carried out of the top limb or is >= m.
	red := make([]uint64, n)
	var borrow uint64
	for i := 0; i < n; i++ {
		red[i], borrow = bits.Sub64(tmp[i], mo.limbs[i], borrow)
	}
	useRed := uint64(0) - (carry | (borrow ^ 1))
	for i := 0; i < n; i++ {
		z[i] = tmp[i] ^ (useRed & (tmp[i] ^ red[i]))
	}
}

// Sub sets z = x-y mod m.
func (mo *Modulus) Sub(z, x, y []uint64) {
	n := mo.n
	tmp := make([]uint64, n)
	var borrow uint64
	for i := 0; i < n; i++ {
		d, b := bits.Sub64(x[i], y[i], borrow)
		tmp[i] = d
		borrow = b
	}
	addM := uint64(0) - borrow
	var carry uint64
	for i := 0; i < n; i++ {
		s, c := bits.Add64(tmp[i], addM&mo.limbs[i], carry)
		tmp[i] = s
		carry = c
	}
	copy(z, tmp)
}

// Neg sets z = -x mod m.
func (mo *Modulus) Neg(z, x []uint64) {
	zero := mo.New()
	mo.Sub(z, zero, x)
}

// IsZero reports, as a Choice, whether x is the zero element, folding
// the limbs to a single bit without branching (x may be secret).
func (mo *Modulus) IsZero(x []uint64) ctchoice.Choice {
	var acc uint64
	for _, w := range x {
		acc |= w
	}
	nonzero := (acc | -acc) >> 63
	return ctchoice.Bit(nonzero ^ 1)
}

// CondSwap conditionally swaps a and b in constant time.
func (mo *Modulus) CondSwap(choice ctchoice.Choice, a, b []uint64) {
	m := uint64(choice)
	for i := range a {
		t := m & (a[i] ^ b[i])
		a[i] ^= t
		b[i] ^= t
	}
}

// CondSelect sets z = b if choice else a, in constant time.
func (mo *Modulus) CondSelect(z []uint64, choice ctchoice.Choice, a, b []uint64) {
	m := uint64(choice)
	for i := range z {
		z[i] = a[i] ^ (m & (a[i] ^ b[i]))
	}
}

// ToMontgomery sets z = x*R mod m.
func (mo *Modulus) ToMontgomery(z, x []uint64) {
	mo.montMul(z, x, mo.rr)
}

// FromMontgomery sets z = x*R^-1 mod m. Per the bn_correct_top
// resolution in SPEC_FULL.md §3, z always has exactly mo.n limbs; there
// is no post-hoc trimming step.
func (mo *Modulus) FromMontgomery(z, x []uint64) {
	one := mo.New()
	one[0] = 1
	mo.montMul(z, x, one)
}

// FromBytes decodes big-endian bytes into a Montgomery-form element,
// reducing modulo m if the input is not already canonical.
func (mo *Modulus) FromBytes(b []byte) []uint64 {
	plain := bytesToLimbs(b, mo.n)
	mo.condSub(plain)
	out := mo.New()
	mo.ToMontgomery(out, plain)
	return out
}

// ToBytes encodes a Montgomery-form element as fixed-width big-endian
// canonical bytes.
func (mo *Modulus) ToBytes(x []uint64) []byte {
	plain := mo.New()
	mo.FromMontgomery(plain, x)
	return limbsToBytes(plain, mo.n)
}

// One returns the Montgomery encoding of 1.
func (mo *Modulus) One() []uint64 { return append([]uint64(nil), mo.one...) }

// Exp sets z = x^e mod m, where e is big-endian bytes of a plain
// (non-Montgomery) exponent, via constant-time square-and-multiply:
// every bit position performs a square and a masked conditional
// multiply, so the instruction sequence and memory access pattern do
// not depend on e's value.
func (mo *Modulus) Exp(z, x []uint64, e []byte) {
	acc := mo.One()
	base := append([]uint64(nil), x...)
	tmp := mo.New()
	for _, by := range e {
		for bit := 7; bit >= 0; bit-- {
			mo.Sqr(acc, acc)
			mo.Mul(tmp, acc, base)
			choice := ctchoice.Bit(uint64((by >> uint(bit)) & 1))
			mo.CondSelect(acc, choice, acc, tmp)
		}
	}
	copy(z, acc)
}

// modulusMinusSmall returns the big-endian bytes of (m - k) for a small
// public k (k < 2^64), used to build fixed exponents like m-2.
func (mo *Modulus) modulusMinusSmall(k uint64) []byte {
	n := mo.n
	tmp := make([]uint64, n)
	d0, borrow := bits.Sub64(mo.limbs[0], k, 0)
	tmp[0] = d0
	for i := 1; i < n; i++ {
		d, b := bits.Sub64(mo.limbs[i], 0, borrow)
		tmp[i] = d
		borrow = b
	}
	return limbsToBytes(tmp, n)
}

// Invert sets z = x^-1 mod m via Fermat (m must be prime), and reports
// whether x was nonzero (z is set to zero when x is zero).
func (mo *Modulus) Invert(z, x []uint64) bool {
	e := mo.modulusMinusSmall(2)
	mo.Exp(z, x, e)
	return mo.IsZero(x) == ctchoice.ChoiceFalse
}

// halfPlusOneQuarterExponent returns the big-endian bytes of (m+1)/4.
func (mo *Modulus) halfPlusOneQuarterExponent() []byte {
	n := mo.n
	m1 := make([]uint64, n)
	carry := uint64(1)
	for i := 0; i < n; i++ {
		s, c := bits.Add64(mo.limbs[i], 0, carry)
		m1[i] = s
		carry = c
	}
	var rem uint64
	for i := n - 1; i >= 0; i-- {
		cur := m1[i]
		m1[i] = (cur >> 2) | (rem << 62)
		rem = cur & 0x3
	}
	return limbsToBytes(m1, n)
}

// SqrtP3Mod4 sets z = sqrt(x) mod m via z = x^((m+1)/4), valid when m is
// prime and m ≡ 3 (mod 4) — true of the P-256, P-384, and P-521 primes
// (SPEC_FULL.md §3). Reports whether z*z == x; the equality check is not
// constant-time, which is acceptable since this is only ever called on
// public values (point decompression, hash-to-curve).
func (mo *Modulus) SqrtP3Mod4(z, x []uint64) bool {
	exp := mo.halfPlusOneQuarterExponent()
	mo.Exp(z, x, exp)
	check := mo.New()
	mo.Sqr(check, z)
	return mo.Equal(check, x)
}

// Equal reports whether x == y. Not constant-time; used only on public
// values (curve-membership and decompression checks).
func (mo *Modulus) Equal(x, y []uint64) bool {
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// EqualCT reports, as a Choice, whether x == y, accumulating the limb
// differences into one word so no comparison short-circuits.
func (mo *Modulus) EqualCT(x, y []uint64) ctchoice.Choice {
	var acc uint64
	for i := range x {
		acc |= x[i] ^ y[i]
	}
	// Fold acc to a single 0/1 bit without branching: acc|-acc has its
	// top bit set exactly when acc != 0.
	nonzero := (acc | -acc) >> 63
	return ctchoice.Bit(nonzero ^ 1)
}

// FromBytesWide decodes big-endian bytes of any length into a
// Montgomery-form element, reducing the full value modulo m (the
// hash-to-field path feeds L-byte strings wider than the modulus here).
// Each input byte is folded in as acc = acc*256 + b via eight modular
// doublings, so the work depends only on len(b), never on the bytes.
func (mo *Modulus) FromBytesWide(b []byte) []uint64 {
	acc := mo.New()
	byteElt := mo.New()
	tmp := mo.New()
	for _, by := range b {
		for i := 0; i < 8; i++ {
			mo.Add(acc, acc, acc)
		}
		for i := range byteElt {
			byteElt[i] = 0
		}
		byteElt[0] = uint64(by)
		mo.ToMontgomery(tmp, byteElt)
		mo.Add(acc, acc, tmp)
	}
	// Every byte entered in Montgomery form and doubling preserves it,
	// so acc is already the Montgomery encoding of the reduced value.
	return acc
}
