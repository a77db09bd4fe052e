// Package hash2curve implements RFC 9380's hash-to-curve machinery
// (expand_message_xmd, hash_to_field, the simplified SWU map) for the
// NIST prime curves, parameterized so the same code serves both P-521
// and, as a documented extension, P-384 (SPEC_FULL.md §4's
// "hash-to-curve reuse for P-384"), the curve packages pmbtoken and
// voprf hash onto.
package hash2curve

import (
	"crypto/sha512"
	"encoding/binary"

	"corecrypto.dev/errs"
	"corecrypto.dev/internal/bignum"
	"corecrypto.dev/internal/ecnist"
)

// expandMessageXMD implements RFC 9380 §5.3.1 using SHA-512.
func expandMessageXMD(msg, dst []byte, lenInBytes int) ([]byte, error) {
	const bInBytes = 64 // SHA-512 output size
	const sInBytes = 128 // SHA-512 block size
	ell := (lenInBytes + bInBytes - 1) / bInBytes
	if ell > 255 {
		return nil, errs.New(errs.AllocationFailed, "hash2curve: requested output too long")
	}
	if len(dst) >= 256 {
		// RFC 9380 §5.3.3: oversize DSTs are replaced by their hash.
		h := sha512.New()
		h.Write([]byte("H2C-OVERSIZE-DST-"))
		h.Write(dst)
		dst = h.Sum(nil)
	}
	dstPrime := append(append([]byte(nil), dst...), byte(len(dst)))

	zPad := make([]byte, sInBytes)
	lIBStr := make([]byte, 2)
	binary.BigEndian.PutUint16(lIBStr, uint16(lenInBytes))

	h := sha512.New()
	h.Write(zPad)
	h.Write(msg)
	h.Write(lIBStr)
	h.Write([]byte{0})
	h.Write(dstPrime)
	b0 := h.Sum(nil)

	h1 := sha512.New()
	h1.Write(b0)
	h1.Write([]byte{1})
	h1.Write(dstPrime)
	bi := h1.Sum(nil)

	out := append([]byte(nil), bi...)
	for i := 2; i <= ell; i++ {
		xored := make([]byte, bInBytes)
		for j := range xored {
			xored[j] = b0[j] ^ bi[j]
		}
		hi := sha512.New()
		hi.Write(xored)
		hi.Write([]byte{byte(i)})
		hi.Write(dstPrime)
		bi = hi.Sum(nil)
		out = append(out, bi...)
	}
	return out[:lenInBytes], nil
}

// hashToField implements RFC 9380 §5.2 with count=2, producing the two
// field elements map_to_curve_simple_swu and the SWU-to-curve
// construction combine via the simplified SWU sum-of-maps method.
func hashToField(field *bignum.Modulus, msg, dst []byte, l int) ([2][]uint64, error) {
	uniform, err := expandMessageXMD(msg, dst, 2*l)
	if err != nil {
		return [2][]uint64{}, err
	}
	var out [2][]uint64
	for i := 0; i < 2; i++ {
		chunk := uniform[i*l : (i+1)*l]
		// Each chunk is L bytes, wider than the modulus; interpret
		// big-endian and reduce the full value mod p (RFC 9380 §5.2).
		out[i] = field.FromBytesWide(chunk)
	}
	return out, nil
}

// sswuMap implements the simplified SWU map for a=-3 curves (RFC 9380
// §6.6.2's companion for Weierstrass curves with nonzero a, b), mapping
// a field element u to an affine curve point.
func sswuMap(c *ecnist.Curve, z, u []uint64) ecnist.Affine {
	f := c.Field
	a := f.New()
	f.Neg(a, f.FromBytes([]byte{3})) // a = -3, common to every curve in scope

	u2 := f.New()
	f.Sqr(u2, u)
	zu2 := f.New()
	f.Mul(zu2, z, u2)
	zu2sq := f.New()
	f.Sqr(zu2sq, zu2)
	tv1 := f.New()
	f.Add(tv1, zu2sq, zu2)

	tv1Inv := f.New()
	hasInverse := f.Invert(tv1Inv, tv1)

	one := f.One()
	bOverA := f.New()
	aInv := f.New()
	f.Invert(aInv, a)
	f.Mul(bOverA, c.B, aInv)
	f.Neg(bOverA, bOverA)

	x1 := f.New()
	if hasInverse {
		f.Add(x1, tv1Inv, one)
		f.Mul(x1, x1, bOverA)
	} else {
		// Exceptional case tv1 == 0: x1 = B / (Z*A) (RFC 9380 §6.6.2).
		za := f.New()
		f.Mul(za, z, a)
		zaInv := f.New()
		f.Invert(zaInv, za)
		f.Mul(x1, c.B, zaInv)
	}

	gx1 := curveRHS(f, c.B, a, x1)
	x2 := f.New()
	f.Mul(x2, zu2, x1)
	gx2 := curveRHS(f, c.B, a, x2)

	var x, y []uint64
	y1 := f.New()
	isSquareGx1 := f.SqrtP3Mod4(y1, gx1)
	if isSquareGx1 {
		x, y = x1, y1
	} else {
		y2 := f.New()
		f.SqrtP3Mod4(y2, gx2)
		x, y = x2, y2
	}

	uBytes := f.ToBytes(u)
	yBytes := f.ToBytes(y)
	if (uBytes[len(uBytes)-1]&1) != (yBytes[len(yBytes)-1]&1) {
		f.Neg(y, y)
	}
	return ecnist.Affine{X: x, Y: y}
}

func curveRHS(f *bignum.Modulus, b, a, x []uint64) []uint64 {
	x3 := f.New()
	f.Sqr(x3, x)
	f.Mul(x3, x3, x)
	ax := f.New()
	f.Mul(ax, a, x)
	out := f.New()
	f.Add(out, x3, ax)
	f.Add(out, out, b)
	return out
}

// HashToCurve implements RFC 9380 §3's hash_to_curve: hash to two field
// elements, map each to the curve, and add. This always returns a point
// in the curve's prime-order group since every curve in scope here has
// cofactor 1.
func HashToCurve(c *ecnist.Curve, z []uint64, msg, dst []byte) (ecnist.Affine, error) {
	// RFC 9380's L = ceil((ceil(log2 p) + k) / 8) with k half the field
	// size: 48 for P-256, 72 for P-384, 98 for P-521.
	bitLen := c.Field.BitLen()
	l := (bitLen + bitLen/2 + 7) / 8
	us, err := hashToField(c.Field, msg, dst, l)
	if err != nil {
		return ecnist.Affine{}, err
	}
	q0 := sswuMap(c, z, us[0])
	q1 := sswuMap(c, z, us[1])
	sum := c.AddVartime(c.FromAffine(q0), c.FromAffine(q1))
	return c.ToAffine(sum), nil
}
