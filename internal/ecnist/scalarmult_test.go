package ecnist

import "testing"

func TestBoothRecodeReconstructs(t *testing.T) {
	// Recode a handful of scalars at w=5 and reconstruct them from the
	// signed digits.
	k := []byte{0x01, 0xe2, 0x40, 0x7f, 0x99, 0x00, 0x35, 0xaa}
	const w = 5

	var acc int64
	// Reconstruct modulo 2^63 from the bottom windows only, enough to
	// cover the low bytes exactly.
	for j := 0; j < 12; j++ {
		digit, sign := boothRecode(windowValue(k, w*j-1, w), w)
		d := int64(digit)
		if sign == 1 {
			d = -d
		}
		acc += d << uint(w*j)
	}
	for i := 0; i < 7; i++ {
		want := k[len(k)-1-i]
		if byte(acc>>uint(8*i)) != want {
			t.Fatalf("booth reconstruction differs at byte %d", i)
		}
	}
}

func TestBoothDigitRange(t *testing.T) {
	for wvalue := uint64(0); wvalue < 64; wvalue++ {
		digit, sign := boothRecode(wvalue, 5)
		if digit > 16 {
			t.Fatalf("digit %d out of range for window value %d", digit, wvalue)
		}
		if sign > 1 {
			t.Fatalf("sign %d out of range", sign)
		}
	}
}

func TestSlideBytesReconstructs(t *testing.T) {
	k := []byte{0x05, 0xf3, 0x12, 0x88, 0x4c}
	naf := slideBytes(k)
	var acc int64
	for i, d := range naf {
		if d != 0 && d%2 == 0 {
			t.Fatalf("even NAF digit at %d", i)
		}
		acc += int64(d) << uint(i)
	}
	var want int64
	for _, b := range k {
		want = want<<8 | int64(b)
	}
	if acc != want {
		t.Fatalf("NAF reconstruction got %d want %d", acc, want)
	}
}

func TestScalarBaseMultMatchesVariableBase(t *testing.T) {
	c := P256()
	k := make([]byte, c.ByteLen)
	k[0] = 0x7a
	k[13] = 0xc1
	k[len(k)-1] = 0x33
	fixed := c.ToAffine(c.ScalarBaseMult(k))
	variable := c.ToAffine(c.ScalarMult(k, c.Generator()))
	if !c.Field.Equal(fixed.X, variable.X) || !c.Field.Equal(fixed.Y, variable.Y) {
		t.Fatalf("fixed-base and variable-base k*G disagree")
	}
}

func TestScalarMultMatchesPublicLargeScalar(t *testing.T) {
	c := P384()
	k := make([]byte, c.ByteLen)
	for i := range k {
		k[i] = byte(i*29 + 3)
	}
	ct := c.ToAffine(c.ScalarMult(k, c.Generator()))
	vt := c.ToAffine(c.ScalarMultPublic(k, c.Generator()))
	if !c.Field.Equal(ct.X, vt.X) || !c.Field.Equal(ct.Y, vt.Y) {
		t.Fatalf("constant-time and NAF scalar mult disagree")
	}
}

func TestOrderTimesGeneratorIsInfinity(t *testing.T) {
	c := P256()
	// The group order, big-endian.
	n := hexBytes("ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551")
	got := c.ScalarBaseMult(n)
	if !c.Field.IsZero(got.Z).Bool() {
		t.Fatalf("n*G is not the point at infinity")
	}
}
