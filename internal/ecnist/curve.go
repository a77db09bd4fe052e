// Package ecnist implements the generic short-Weierstrass (a=-3) group
// layer shared by P-256, P-384, and P-521 (spec.md §4.3's Jacobian
// doubling/addition, generalized across the three curves per
// SPEC_FULL.md §3). It plays the role of spec.md §9's suggested sum-type
// dispatch: one implementation, parameterized by a *Curve, rather than a
// method-table per curve.
package ecnist

import (
	"sync"

	"corecrypto.dev/internal/bignum"
	"corecrypto.dev/internal/ctchoice"
)

// Curve is an immutable short-Weierstrass curve with a=-3, the form
// every NIST prime curve in scope uses. Build one with NewCurve; every
// *Curve in this module is a process-wide constant. The fixed-base
// generator table is the one lazily-derived member, computed exactly
// once behind baseOnce.
type Curve struct {
	Field   *bignum.Modulus
	Order   *bignum.Modulus
	B       []uint64 // Montgomery-form curve constant b
	Gx, Gy  []uint64 // Montgomery-form generator affine coordinates
	ByteLen int      // coordinate width in bytes

	baseOnce sync.Once
	base     [][64]Jacobian
}

// NewCurve builds a Curve from big-endian parameter bytes.
func NewCurve(p, n, b, gx, gy []byte) *Curve {
	field := bignum.NewModulus(p)
	order := bignum.NewModulus(n)
	return &Curve{
		Field:   field,
		Order:   order,
		B:       field.FromBytes(b),
		Gx:      field.FromBytes(gx),
		Gy:      field.FromBytes(gy),
		ByteLen: len(p),
	}
}

// Jacobian is a point in Jacobian projective coordinates; x = X/Z^2,
// y = Y/Z^3. Z == 0 encodes the point at infinity (spec.md §3).
type Jacobian struct {
	X, Y, Z []uint64
}

// Affine is a point in affine coordinates; infinity is encoded
// separately since (0,0) is off-curve for every curve in scope and so
// would otherwise be ambiguous only if not flagged explicitly.
type Affine struct {
	X, Y     []uint64
	Infinity bool
}

// Generator returns the curve's base point in Jacobian coordinates.
func (c *Curve) Generator() Jacobian {
	z := c.Field.One()
	return Jacobian{X: clone(c.Gx), Y: clone(c.Gy), Z: z}
}

// Identity returns the point at infinity.
func (c *Curve) Identity() Jacobian {
	n := c.Field.Size()
	return Jacobian{X: make([]uint64, n), Y: make([]uint64, n), Z: make([]uint64, n)}
}

func clone(x []uint64) []uint64 { return append([]uint64(nil), x...) }

func (c *Curve) isInfinity(p Jacobian) ctchoice.Choice {
	return c.Field.IsZero(p.Z)
}

// Double computes 2*p using the standard a=-3 Jacobian doubling formula
// (Gueron-Krasnov), correct for any input including the identity.
func (c *Curve) Double(p Jacobian) Jacobian {
	f := c.Field
	delta := f.New()
	f.Sqr(delta, p.Z)
	gamma := f.New()
	f.Sqr(gamma, p.Y)
	beta := f.New()
	f.Mul(beta, p.X, gamma)

	xMinusDelta := f.New()
	f.Sub(xMinusDelta, p.X, delta)
	xPlusDelta := f.New()
	f.Add(xPlusDelta, p.X, delta)
	alpha := f.New()
	f.Mul(alpha, xMinusDelta, xPlusDelta)
	alpha3 := f.New()
	f.Add(alpha3, alpha, alpha)
	f.Add(alpha3, alpha3, alpha)

	x3 := f.New()
	f.Sqr(x3, alpha3)
	eightBeta := f.New()
	f.Add(eightBeta, beta, beta)
	f.Add(eightBeta, eightBeta, eightBeta)
	f.Add(eightBeta, eightBeta, eightBeta)
	f.Sub(x3, x3, eightBeta)

	yPlusZ := f.New()
	f.Add(yPlusZ, p.Y, p.Z)
	z3 := f.New()
	f.Sqr(z3, yPlusZ)
	f.Sub(z3, z3, gamma)
	f.Sub(z3, z3, delta)

	fourBeta := f.New()
	f.Add(fourBeta, beta, beta)
	f.Add(fourBeta, fourBeta, fourBeta)
	fourBetaMinusX3 := f.New()
	f.Sub(fourBetaMinusX3, fourBeta, x3)
	y3 := f.New()
	f.Mul(y3, alpha3, fourBetaMinusX3)
	gammaSq := f.New()
	f.Sqr(gammaSq, gamma)
	eightGammaSq := f.New()
	f.Add(eightGammaSq, gammaSq, gammaSq)
	f.Add(eightGammaSq, eightGammaSq, eightGammaSq)
	f.Add(eightGammaSq, eightGammaSq, eightGammaSq)
	f.Sub(y3, y3, eightGammaSq)

	return Jacobian{X: x3, Y: y3, Z: z3}
}

// addGeneral computes the Bernstein-Lange "add-2007-bl" Jacobian
// addition formula. It is valid for any a and gives a mathematically
// meaningless (but well-defined, non-crashing) result when p == ±q;
// AddCT and AddVartime both correct for that case afterward.
func (c *Curve) addGeneral(p, q Jacobian) (result Jacobian, sameX, sameY ctchoice.Choice) {
	f := c.Field
	z1z1 := f.New()
	f.Sqr(z1z1, p.Z)
	z2z2 := f.New()
	f.Sqr(z2z2, q.Z)
	u1 := f.New()
	f.Mul(u1, p.X, z2z2)
	u2 := f.New()
	f.Mul(u2, q.X, z1z1)
	z2cubed := f.New()
	f.Mul(z2cubed, q.Z, z2z2)
	s1 := f.New()
	f.Mul(s1, p.Y, z2cubed)
	z1cubed := f.New()
	f.Mul(z1cubed, p.Z, z1z1)
	s2 := f.New()
	f.Mul(s2, q.Y, z1cubed)

	h := f.New()
	f.Sub(h, u2, u1)
	twoH := f.New()
	f.Add(twoH, h, h)
	i := f.New()
	f.Sqr(i, twoH)
	j := f.New()
	f.Mul(j, h, i)
	r := f.New()
	f.Sub(r, s2, s1)
	f.Add(r, r, r)
	v := f.New()
	f.Mul(v, u1, i)

	x3 := f.New()
	f.Sqr(x3, r)
	f.Sub(x3, x3, j)
	twoV := f.New()
	f.Add(twoV, v, v)
	f.Sub(x3, x3, twoV)

	vMinusX3 := f.New()
	f.Sub(vMinusX3, v, x3)
	y3 := f.New()
	f.Mul(y3, r, vMinusX3)
	twoS1J := f.New()
	f.Mul(twoS1J, s1, j)
	f.Add(twoS1J, twoS1J, twoS1J)
	f.Sub(y3, y3, twoS1J)

	zSum := f.New()
	f.Add(zSum, p.Z, q.Z)
	zSumSq := f.New()
	f.Sqr(zSumSq, zSum)
	f.Sub(zSumSq, zSumSq, z1z1)
	f.Sub(zSumSq, zSumSq, z2z2)
	z3 := f.New()
	f.Mul(z3, zSumSq, h)

	sameX = f.EqualCT(u1, u2)
	sameY = f.EqualCT(s1, s2)
	return Jacobian{X: x3, Y: y3, Z: z3}, sameX, sameY
}

func selectPoint(choice ctchoice.Choice, f *bignum.Modulus, a, b Jacobian) Jacobian {
	x := f.New()
	y := f.New()
	z := f.New()
	f.CondSelect(x, choice, a.X, b.X)
	f.CondSelect(y, choice, a.Y, b.Y)
	f.CondSelect(z, choice, a.Z, b.Z)
	return Jacobian{X: x, Y: y, Z: z}
}

// AddCT adds p and q in constant time: the exceptional cases from
// spec.md §4.3 (P1==P2, P1==-P2, either input infinite) are resolved by
// computing every candidate result and selecting via Choice masks,
// never by branching, so the instruction sequence is identical
// regardless of which case applies.
func (c *Curve) AddCT(p, q Jacobian) Jacobian {
	general, sameX, sameY := c.addGeneral(p, q)
	doubled := c.Double(p)
	isInfResult := sameX.And(sameY.Not())
	isDouble := sameX.And(sameY)

	result := selectPoint(isDouble, c.Field, general, doubled)
	result = selectPoint(isInfResult, c.Field, result, c.Identity())
	result = selectPoint(c.isInfinity(p), c.Field, result, q)
	result = selectPoint(c.isInfinity(q), c.Field, result, p)
	return result
}

// AddVartime adds p and q using ordinary branches on the exceptional
// cases. Only ever called on public inputs (verification, batch proof
// checking, redemption), per spec.md §4.3's "public-input only" carve-out.
func (c *Curve) AddVartime(p, q Jacobian) Jacobian {
	if c.isInfinity(p).Bool() {
		return q
	}
	if c.isInfinity(q).Bool() {
		return p
	}
	general, sameX, sameY := c.addGeneral(p, q)
	if sameX.Bool() {
		if sameY.Bool() {
			return c.Double(p)
		}
		return c.Identity()
	}
	return general
}

// ToAffine converts a Jacobian point to affine coordinates.
func (c *Curve) ToAffine(p Jacobian) Affine {
	f := c.Field
	if c.isInfinity(p).Bool() {
		return Affine{X: f.New(), Y: f.New(), Infinity: true}
	}
	zInv := f.New()
	f.Invert(zInv, p.Z)
	zInv2 := f.New()
	f.Sqr(zInv2, zInv)
	zInv3 := f.New()
	f.Mul(zInv3, zInv2, zInv)
	x := f.New()
	f.Mul(x, p.X, zInv2)
	y := f.New()
	f.Mul(y, p.Y, zInv3)
	return Affine{X: x, Y: y}
}

// FromAffine lifts an affine point to Jacobian coordinates (Z=1).
func (c *Curve) FromAffine(a Affine) Jacobian {
	if a.Infinity {
		return c.Identity()
	}
	return Jacobian{X: clone(a.X), Y: clone(a.Y), Z: c.Field.One()}
}

// NegateAffine returns -a.
func (c *Curve) NegateAffine(a Affine) Affine {
	if a.Infinity {
		return a
	}
	negY := c.Field.New()
	c.Field.Neg(negY, a.Y)
	return Affine{X: clone(a.X), Y: negY}
}

// IsOnCurve reports whether the affine point satisfies y^2 = x^3-3x+b.
func (c *Curve) IsOnCurve(a Affine) bool {
	if a.Infinity {
		return false
	}
	f := c.Field
	y2 := f.New()
	f.Sqr(y2, a.Y)
	x3 := f.New()
	f.Sqr(x3, a.X)
	f.Mul(x3, x3, a.X)
	threeX := f.New()
	f.Add(threeX, a.X, a.X)
	f.Add(threeX, threeX, a.X)
	rhs := f.New()
	f.Sub(rhs, x3, threeX)
	f.Add(rhs, rhs, c.B)
	return f.Equal(y2, rhs)
}

// fieldBytes encodes a field element as exactly ByteLen big-endian
// bytes. The limb width rounds up to 64-bit boundaries (P-521's nine
// limbs serialize to 72 bytes), so the canonical encoding is the tail
// of the limb serialization; the leading bytes are always zero for a
// reduced element.
func (c *Curve) fieldBytes(x []uint64) []byte {
	full := c.Field.ToBytes(x)
	return full[len(full)-c.ByteLen:]
}

// Marshal encodes an affine point as 0x04 || X || Y with fixed-width
// big-endian coordinates.
func (c *Curve) Marshal(a Affine) []byte {
	out := make([]byte, 1+2*c.ByteLen)
	out[0] = 0x04
	copy(out[1:1+c.ByteLen], c.fieldBytes(a.X))
	copy(out[1+c.ByteLen:], c.fieldBytes(a.Y))
	return out
}

// Unmarshal decodes an uncompressed point, rejecting non-canonical
// coordinate encodings (values at or above the field prime) and
// points that fail the curve equation.
func (c *Curve) Unmarshal(b []byte) (Affine, bool) {
	if len(b) != 1+2*c.ByteLen || b[0] != 0x04 {
		return Affine{}, false
	}
	xBytes := b[1 : 1+c.ByteLen]
	yBytes := b[1+c.ByteLen:]
	x := c.Field.FromBytes(xBytes)
	y := c.Field.FromBytes(yBytes)
	if !bytesEqual(c.fieldBytes(x), xBytes) || !bytesEqual(c.fieldBytes(y), yBytes) {
		return Affine{}, false
	}
	a := Affine{X: x, Y: y}
	if !c.IsOnCurve(a) {
		return Affine{}, false
	}
	return a, true
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
