// Package p256 is the public-facing NIST P-256 surface: the thin
// wrapper spec.md §6.1 describes over the internal Jacobian engine,
// exposing only byte-oriented operations and never raw limbs.
package p256

import (
	"crypto/rand"

	"corecrypto.dev/errs"
	"corecrypto.dev/internal/ecnist"
)

const ByteLen = 32

func curve() *ecnist.Curve { return ecnist.P256() }

// ScalarBaseMult computes k*G and returns the uncompressed point
// encoding (0x04 || X || Y). k must be ByteLen big-endian bytes.
func ScalarBaseMult(k []byte) ([]byte, error) {
	if len(k) != ByteLen {
		return nil, errs.New(errs.InvalidEncoding, "p256: scalar must be 32 bytes")
	}
	c := curve()
	p := c.ScalarBaseMult(k)
	a := c.ToAffine(p)
	if a.Infinity {
		return nil, errs.New(errs.PointAtInfinity, "p256: scalar base mult hit infinity")
	}
	return c.Marshal(a), nil
}

// ScalarMult computes k*P for an uncompressed point encoding P.
func ScalarMult(k, point []byte) ([]byte, error) {
	if len(k) != ByteLen {
		return nil, errs.New(errs.InvalidEncoding, "p256: scalar must be 32 bytes")
	}
	c := curve()
	a, ok := c.Unmarshal(point)
	if !ok {
		return nil, errs.New(errs.NotOnCurve, "p256: point not on curve")
	}
	result := c.ScalarMult(k, c.FromAffine(a))
	ra := c.ToAffine(result)
	if ra.Infinity {
		return nil, errs.New(errs.PointAtInfinity, "p256: scalar mult hit infinity")
	}
	return c.Marshal(ra), nil
}

// GenerateKey returns a random scalar in [1, n-1] and its public point.
func GenerateKey() (priv, pub []byte, err error) {
	c := curve()
	for {
		priv = make([]byte, ByteLen)
		if _, err := rand.Read(priv); err != nil {
			return nil, nil, err
		}
		if c.Order.IsZero(c.Order.FromBytes(priv)).Bool() {
			continue
		}
		if string(c.Order.ToBytes(c.Order.FromBytes(priv))) != string(priv) {
			continue // priv >= n
		}
		pub, err = ScalarBaseMult(priv)
		if err != nil {
			continue
		}
		return priv, pub, nil
	}
}

// IsOnCurve reports whether an uncompressed point encoding is valid.
func IsOnCurve(point []byte) bool {
	_, ok := curve().Unmarshal(point)
	return ok
}
