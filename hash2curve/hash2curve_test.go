package hash2curve

import (
	"bytes"
	"testing"

	"corecrypto.dev/internal/ecnist"
)

// z521 is a non-square, non-(-1) constant for P-521's simplified SWU
// map; RFC 9380 §8.5 names Z=-4 for curves of this shape, small enough
// to be a usable, easily re-derivable test constant.
func z521(c *ecnist.Curve) []uint64 {
	four := c.Field.FromBytes([]byte{4})
	z := c.Field.New()
	c.Field.Neg(z, four)
	return z
}

func TestHashToCurveIsOnCurve(t *testing.T) {
	c := ecnist.P521()
	z := z521(c)
	pt, err := HashToCurve(c, z, []byte("test message"), []byte("corecrypto-P521-test"))
	if err != nil {
		t.Fatalf("HashToCurve: %v", err)
	}
	if !c.IsOnCurve(pt) {
		t.Fatalf("hash-to-curve output is not on the curve")
	}
}

func TestHashToCurveIsDeterministic(t *testing.T) {
	c := ecnist.P521()
	z := z521(c)
	a, err := HashToCurve(c, z, []byte("same input"), []byte("dst"))
	if err != nil {
		t.Fatalf("HashToCurve: %v", err)
	}
	b, err := HashToCurve(c, z, []byte("same input"), []byte("dst"))
	if err != nil {
		t.Fatalf("HashToCurve: %v", err)
	}
	if !c.Field.Equal(a.X, b.X) || !c.Field.Equal(a.Y, b.Y) {
		t.Fatalf("HashToCurve is not deterministic for identical inputs")
	}
}

func TestHashToCurveDiffersByMessage(t *testing.T) {
	c := ecnist.P521()
	z := z521(c)
	a, err := HashToCurve(c, z, []byte("message one"), []byte("dst"))
	if err != nil {
		t.Fatalf("HashToCurve: %v", err)
	}
	b, err := HashToCurve(c, z, []byte("message two"), []byte("dst"))
	if err != nil {
		t.Fatalf("HashToCurve: %v", err)
	}
	if c.Field.Equal(a.X, b.X) && c.Field.Equal(a.Y, b.Y) {
		t.Fatalf("different messages produced the same curve point")
	}
}

func TestHashToCurveWorksForP384Too(t *testing.T) {
	c := ecnist.P384()
	z := z521(c) // same small constant; curve-specific, not P-521-specific
	pt, err := HashToCurve(c, z, []byte("p384 message"), []byte("corecrypto-P384-test"))
	if err != nil {
		t.Fatalf("HashToCurve: %v", err)
	}
	if !c.IsOnCurve(pt) {
		t.Fatalf("P-384 hash-to-curve output is not on the curve")
	}
}

func TestExpandMessageXMDLength(t *testing.T) {
	out, err := expandMessageXMD([]byte("abc"), []byte("dst"), 96)
	if err != nil {
		t.Fatalf("expandMessageXMD: %v", err)
	}
	if len(out) != 96 {
		t.Fatalf("expected 96 bytes, got %d", len(out))
	}
}

func TestExpandMessageXMDDeterministic(t *testing.T) {
	a, err := expandMessageXMD([]byte("abc"), []byte("dst"), 48)
	if err != nil {
		t.Fatal(err)
	}
	b, err := expandMessageXMD([]byte("abc"), []byte("dst"), 48)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("expand_message_xmd is not deterministic")
	}
}
