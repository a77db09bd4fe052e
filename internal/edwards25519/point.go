// Package edwards25519 implements the twisted Edwards curve
// -x^2+y^2 = 1 + d*x^2*y^2 underlying Ed25519, in extended projective
// coordinates (X:Y:Z:T) with x=X/Z, y=Y/Z, xy=T/Z
// (Hisil-Wong-Carter-Dawson). The extended Point form is the caller
// surface; the reduced P2, completed P1P1, and cached (Y+X, Y-X, 2dT)
// forms in extpoint.go carry the scalar-multiplication inner loops,
// with explicit conversions between them. The addition law is complete
// for this curve, so none of the conversions has exceptional cases.
package edwards25519

import (
	"corecrypto.dev/errs"
	"corecrypto.dev/internal/field25519"
)

// Point is a group element in extended coordinates.
type Point struct {
	X, Y, Z, T field25519.Element
}

var (
	d  = computeD()
	d2 = computeD2()
)

func computeD() field25519.Element {
	num := field25519.FromInt64(-121665)
	den := field25519.FromInt64(121666)
	var inv, out field25519.Element
	field25519.Invert(&inv, &den)
	field25519.Mul(&out, &num, &inv)
	return out
}

func computeD2() field25519.Element {
	var out field25519.Element
	field25519.Add(&out, &d, &d)
	return out
}

// Identity returns the neutral element (0, 1).
func Identity() Point {
	return Point{X: field25519.Zero(), Y: field25519.One(), Z: field25519.One(), T: field25519.Zero()}
}

// Generator returns the standard Ed25519 base point.
func Generator() Point {
	// y = 4/5 mod p; x is the positive square root of (y^2-1)/(d*y^2+1).
	y := field25519.FromInt64(4)
	five := field25519.FromInt64(5)
	var fiveInv field25519.Element
	field25519.Invert(&fiveInv, &five)
	field25519.Mul(&y, &y, &fiveInv)

	var y2, num, dy2, den field25519.Element
	field25519.Sqr(&y2, &y)
	one := field25519.One()
	field25519.Sub(&num, &y2, &one)
	field25519.Mul(&dy2, &d, &y2)
	field25519.Add(&den, &dy2, &one)

	var x field25519.Element
	field25519.SqrtRatio(&x, &num, &den)
	if field25519.IsNegative(&x) {
		field25519.Neg(&x, &x)
	}
	var t field25519.Element
	field25519.Mul(&t, &x, &y)
	return Point{X: x, Y: y, Z: field25519.One(), T: t}
}

// Add computes p+q using the complete HWCD extended-coordinate
// addition law.
func Add(p, q *Point) Point {
	var ymx1, ymx2, ypx1, ypx2 field25519.Element
	field25519.Sub(&ymx1, &p.Y, &p.X)
	field25519.Sub(&ymx2, &q.Y, &q.X)
	field25519.Add(&ypx1, &p.Y, &p.X)
	field25519.Add(&ypx2, &q.Y, &q.X)

	var aElt, bElt, cElt, dElt field25519.Element
	field25519.Mul(&aElt, &ymx1, &ymx2)
	field25519.Mul(&bElt, &ypx1, &ypx2)
	var tt field25519.Element
	field25519.Mul(&tt, &p.T, &q.T)
	field25519.Mul(&cElt, &tt, &d2)
	var zz field25519.Element
	field25519.Mul(&zz, &p.Z, &q.Z)
	field25519.Add(&dElt, &zz, &zz)

	var eElt, fElt, gElt, hElt field25519.Element
	field25519.Sub(&eElt, &bElt, &aElt)
	field25519.Sub(&fElt, &dElt, &cElt)
	field25519.Add(&gElt, &dElt, &cElt)
	field25519.Add(&hElt, &bElt, &aElt)

	var out Point
	field25519.Mul(&out.X, &eElt, &fElt)
	field25519.Mul(&out.Y, &gElt, &hElt)
	field25519.Mul(&out.T, &eElt, &hElt)
	field25519.Mul(&out.Z, &fElt, &gElt)
	return out
}

// Double computes 2p using the HWCD extended-coordinate doubling law.
func Double(p *Point) Point {
	var a, b, c, h, e, g, f, hh field25519.Element
	field25519.Sqr(&a, &p.X)
	field25519.Sqr(&b, &p.Y)
	var z2 field25519.Element
	field25519.Sqr(&z2, &p.Z)
	field25519.Add(&c, &z2, &z2)
	field25519.Add(&h, &a, &b)

	var xy, xy2 field25519.Element
	field25519.Add(&xy, &p.X, &p.Y)
	field25519.Sqr(&xy2, &xy)
	field25519.Sub(&e, &xy2, &h)

	field25519.Sub(&g, &b, &a) // D+B where D=-A
	field25519.Sub(&f, &g, &c)
	var negA field25519.Element
	field25519.Neg(&negA, &a)
	field25519.Sub(&hh, &negA, &b) // D-B = -A-B

	var out Point
	field25519.Mul(&out.X, &e, &f)
	field25519.Mul(&out.Y, &g, &hh)
	field25519.Mul(&out.T, &e, &hh)
	field25519.Mul(&out.Z, &f, &g)
	return out
}

// Negate computes -p.
func Negate(p *Point) Point {
	var negX, negT field25519.Element
	field25519.Neg(&negX, &p.X)
	field25519.Neg(&negT, &p.T)
	return Point{X: negX, Y: p.Y, Z: p.Z, T: negT}
}

// Equal reports whether p and q represent the same affine point.
func Equal(p, q *Point) bool {
	var x1, x2, y1, y2 field25519.Element
	var z1Inv, z2Inv field25519.Element
	field25519.Invert(&z1Inv, &p.Z)
	field25519.Invert(&z2Inv, &q.Z)
	field25519.Mul(&x1, &p.X, &z1Inv)
	field25519.Mul(&x2, &q.X, &z2Inv)
	field25519.Mul(&y1, &p.Y, &z1Inv)
	field25519.Mul(&y2, &q.Y, &z2Inv)
	return field25519.Equal(&x1, &x2) && field25519.Equal(&y1, &y2)
}

// Encode produces the 32-byte little-endian compressed form: y with
// the sign of x folded into the top bit (RFC 8032 §5.1.2).
func Encode(p *Point) [32]byte {
	var zInv field25519.Element
	field25519.Invert(&zInv, &p.Z)
	var x, y field25519.Element
	field25519.Mul(&x, &p.X, &zInv)
	field25519.Mul(&y, &p.Y, &zInv)
	out := field25519.ToBytes(&y)
	if field25519.IsNegative(&x) {
		out[31] |= 0x80
	}
	return out
}

// Decode parses a 32-byte compressed point, checking it lies on the
// curve (RFC 8032 §5.1.3).
func Decode(b [32]byte) (Point, error) {
	signBit := b[31] >> 7
	yBytes := b
	yBytes[31] &= 0x7f
	y := field25519.FromBytes(yBytes[:])

	var y2, num, dy2, den field25519.Element
	field25519.Sqr(&y2, &y)
	one := field25519.One()
	field25519.Sub(&num, &y2, &one)
	field25519.Mul(&dy2, &d, &y2)
	field25519.Add(&den, &dy2, &one)

	var x field25519.Element
	if !field25519.SqrtRatio(&x, &num, &den) {
		return Point{}, errs.New(errs.NotOnCurve, "edwards25519: no square root, point not on curve")
	}
	if field25519.IsNegative(&x) != (signBit == 1) {
		field25519.Neg(&x, &x)
	}
	var t field25519.Element
	field25519.Mul(&t, &x, &y)
	return Point{X: x, Y: y, Z: field25519.One(), T: t}, nil
}
