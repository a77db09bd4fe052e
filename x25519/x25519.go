// Package x25519 implements the Curve25519 Diffie-Hellman function
// (RFC 7748 §5), the X25519 layer spec.md §4.2 names alongside
// Edwards25519.
package x25519

import (
	"crypto/rand"

	"corecrypto.dev/errs"
	"corecrypto.dev/internal/field25519"
)

const Size = 32

// a24 is (486662-2)/4, the Montgomery curve coefficient RFC 7748's
// ladder uses.
const a24 = 121665

// Basepoint is the Curve25519 u-coordinate 9.
var Basepoint = func() [Size]byte {
	var b [Size]byte
	b[0] = 9
	return b
}()

// clamp applies RFC 7748 §5's scalar clamping.
func clamp(k *[Size]byte) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}

// ScalarMult computes the Montgomery ladder of scalar k against
// u-coordinate point, per RFC 7748 §5. It returns errs.SmallSubgroup
// if the output is the all-zero shared secret, the small-subgroup
// signal spec.md §8 requires callers to check.
func ScalarMult(scalar, point [Size]byte) ([Size]byte, error) {
	clamp(&scalar)
	u := field25519.FromBytes(point[:])

	x1 := u
	x2 := field25519.One()
	z2 := field25519.Zero()
	x3 := u
	z3 := field25519.One()
	swap := uint64(0)

	for pos := 254; pos >= 0; pos-- {
		bit := uint64((scalar[pos/8] >> uint(pos%8)) & 1)
		swap ^= bit
		field25519.CondSwap(swap, &x2, &x3)
		field25519.CondSwap(swap, &z2, &z3)
		swap = bit

		var a, aa, b, bb, e, c, d, da, cb field25519.Element
		field25519.Add(&a, &x2, &z2)
		field25519.Sqr(&aa, &a)
		field25519.Sub(&b, &x2, &z2)
		field25519.Sqr(&bb, &b)
		field25519.Sub(&e, &aa, &bb)
		field25519.Add(&c, &x3, &z3)
		field25519.Sub(&d, &x3, &z3)
		field25519.Mul(&da, &d, &a)
		field25519.Mul(&cb, &c, &b)

		var x3New, z3New field25519.Element
		var sum field25519.Element
		field25519.Add(&sum, &da, &cb)
		field25519.Sqr(&x3New, &sum)

		var diff field25519.Element
		field25519.Sub(&diff, &da, &cb)
		var diffSq field25519.Element
		field25519.Sqr(&diffSq, &diff)
		field25519.Mul(&z3New, &diffSq, &x1)

		var x2New, z2New field25519.Element
		field25519.Mul(&x2New, &aa, &bb)
		var aTimes121665 field25519.Element
		field25519.MulSmall(&aTimes121665, &e, a24)
		var inner field25519.Element
		field25519.Add(&inner, &aa, &aTimes121665)
		field25519.Mul(&z2New, &e, &inner)

		x2, z2, x3, z3 = x2New, z2New, x3New, z3New
	}
	field25519.CondSwap(swap, &x2, &x3)
	field25519.CondSwap(swap, &z2, &z3)

	var zInv, result field25519.Element
	field25519.Invert(&zInv, &z2)
	field25519.Mul(&result, &x2, &zInv)
	out := field25519.ToBytes(&result)

	var zero [Size]byte
	if out == zero {
		return out, errs.New(errs.SmallSubgroup, "x25519: shared secret is all-zero")
	}
	return out, nil
}

// ScalarBaseMult computes scalar*Basepoint.
func ScalarBaseMult(scalar [Size]byte) ([Size]byte, error) {
	return ScalarMult(scalar, Basepoint)
}

// GenerateKey returns a random clamped private scalar and its public
// point.
func GenerateKey() (priv, pub [Size]byte, err error) {
	if _, err = rand.Read(priv[:]); err != nil {
		return priv, pub, err
	}
	clamp(&priv)
	pub, err = ScalarBaseMult(priv)
	return priv, pub, err
}
