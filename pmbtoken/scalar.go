package pmbtoken

import (
	"crypto/rand"

	"corecrypto.dev/internal/ctchoice"
	"corecrypto.dev/internal/ecnist"
)

// scalar is a plain (non-Montgomery) fixed-width big-endian scalar,
// the wire and storage form; arithmetic converts through curve.Order
// as needed.
type scalar []byte

func randomScalar(c *ecnist.Curve) (scalar, error) {
	buf := make([]byte, c.ByteLen+8)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	// Oversample and reduce widely, so the result is uniform mod n.
	return scalar(c.Order.ToBytes(c.Order.FromBytesWide(buf))), nil
}

func scalarAdd(c *ecnist.Curve, a, b scalar) scalar {
	sum := c.Order.New()
	c.Order.Add(sum, c.Order.FromBytes(a), c.Order.FromBytes(b))
	return scalar(c.Order.ToBytes(sum))
}

func scalarSub(c *ecnist.Curve, a, b scalar) scalar {
	diff := c.Order.New()
	c.Order.Sub(diff, c.Order.FromBytes(a), c.Order.FromBytes(b))
	return scalar(c.Order.ToBytes(diff))
}

func scalarMul(c *ecnist.Curve, a, b scalar) scalar {
	prod := c.Order.New()
	c.Order.Mul(prod, c.Order.FromBytes(a), c.Order.FromBytes(b))
	return scalar(c.Order.ToBytes(prod))
}

func scalarInvert(c *ecnist.Curve, a scalar) (scalar, bool) {
	inv := c.Order.New()
	ok := c.Order.Invert(inv, c.Order.FromBytes(a))
	return scalar(c.Order.ToBytes(inv)), ok
}

func scalarEqual(c *ecnist.Curve, a, b scalar) bool {
	return c.Order.Equal(c.Order.FromBytes(a), c.Order.FromBytes(b))
}

// scalarSelect returns b when choice is set, a otherwise, by masked
// byte selection; all three values have the curve's scalar width.
func scalarSelect(choice ctchoice.Choice, a, b scalar) scalar {
	out := append(scalar(nil), a...)
	ctchoice.SelectBytes(choice, out, b)
	return out
}

// selectAffine returns b when choice is set, a otherwise, without
// branching on choice.
func selectAffine(c *ecnist.Curve, choice ctchoice.Choice, a, b ecnist.Affine) ecnist.Affine {
	x := c.Field.New()
	y := c.Field.New()
	c.Field.CondSelect(x, choice, a.X, b.X)
	c.Field.CondSelect(y, choice, a.Y, b.Y)
	return ecnist.Affine{X: x, Y: y}
}
