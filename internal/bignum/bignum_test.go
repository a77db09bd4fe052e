package bignum

import (
	"bytes"
	"math/big"
	"testing"
)

// p256Prime is 2^256 - 2^224 + 2^192 + 2^96 - 1, used here purely as a
// concrete test modulus; the curve-specific wiring lives in package
// ecnist.
var p256Prime = mustHex("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff")

func mustHex(s string) []byte {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("bad hex")
	}
	b := n.Bytes()
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

func TestRoundTrip(t *testing.T) {
	mo := NewModulus(p256Prime)
	cases := []string{
		"0000000000000000000000000000000000000000000000000000000000000000",
		"01",
		"ffffffff00000001000000000000000000000000fffffffffffffffffffffffe", // p-1
	}
	for _, c := range cases {
		b := mustHex(c)
		x := mo.FromBytes(b)
		got := mo.ToBytes(x)
		if !bytes.Equal(got, b) {
			t.Errorf("round trip mismatch: in %x out %x", b, got)
		}
	}
}

func TestAddSubConsistency(t *testing.T) {
	mo := NewModulus(p256Prime)
	a := mo.FromBytes(mustHex("03"))
	b := mo.FromBytes(mustHex("05"))
	sum := mo.New()
	mo.Add(sum, a, b)
	back := mo.New()
	mo.Sub(back, sum, b)
	if !mo.Equal(back, a) {
		t.Errorf("(a+b)-b != a")
	}
}

func TestMulCommutes(t *testing.T) {
	mo := NewModulus(p256Prime)
	a := mo.FromBytes(mustHex("07"))
	b := mo.FromBytes(mustHex("0b"))
	ab := mo.New()
	ba := mo.New()
	mo.Mul(ab, a, b)
	mo.Mul(ba, b, a)
	if !mo.Equal(ab, ba) {
		t.Errorf("mul(a,b) != mul(b,a)")
	}
}

func TestInvert(t *testing.T) {
	mo := NewModulus(p256Prime)
	a := mo.FromBytes(mustHex("09"))
	inv := mo.New()
	if !mo.Invert(inv, a) {
		t.Fatalf("invert reported zero for a nonzero input")
	}
	one := mo.New()
	mo.Mul(one, a, inv)
	if !mo.Equal(one, mo.One()) {
		t.Errorf("a * a^-1 != 1")
	}
}

func TestInvertZero(t *testing.T) {
	mo := NewModulus(p256Prime)
	zero := mo.New()
	out := mo.New()
	if mo.Invert(out, zero) {
		t.Errorf("invert should report false for zero")
	}
}

func TestSqrt(t *testing.T) {
	mo := NewModulus(p256Prime)
	x := mo.FromBytes(mustHex("04"))
	square := mo.New()
	mo.Sqr(square, x)
	root := mo.New()
	if !mo.SqrtP3Mod4(root, square) {
		t.Fatalf("sqrt of a perfect square should succeed")
	}
	check := mo.New()
	mo.Sqr(check, root)
	if !mo.Equal(check, square) {
		t.Errorf("sqrt(x)^2 != x")
	}
}

func TestExpMatchesRepeatedMul(t *testing.T) {
	mo := NewModulus(p256Prime)
	x := mo.FromBytes(mustHex("06"))
	cubedByExp := mo.New()
	mo.Exp(cubedByExp, x, []byte{3})

	cubedByMul := mo.New()
	mo.Sqr(cubedByMul, x)
	mo.Mul(cubedByMul, cubedByMul, x)

	if !mo.Equal(cubedByExp, cubedByMul) {
		t.Errorf("x^3 via Exp != x*x*x via Mul/Sqr")
	}
}
