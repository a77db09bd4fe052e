package ecnist

import "testing"

func TestGeneratorOnCurve(t *testing.T) {
	c := P256()
	g := c.ToAffine(c.Generator())
	if !c.IsOnCurve(g) {
		t.Fatalf("generator fails curve equation")
	}
}

func TestIdentityIsNeutral(t *testing.T) {
	c := P256()
	g := c.Generator()
	sum := c.AddCT(g, c.Identity())
	if !c.Field.Equal(sum.X, g.X) || !c.Field.Equal(sum.Y, g.Y) {
		t.Fatalf("G + O != G")
	}
}

func TestDoubleMatchesAdd(t *testing.T) {
	c := P256()
	g := c.Generator()
	doubled := c.Double(g)
	added := c.AddCT(g, g)
	da := c.ToAffine(doubled)
	aa := c.ToAffine(added)
	if !c.Field.Equal(da.X, aa.X) || !c.Field.Equal(da.Y, aa.Y) {
		t.Fatalf("Double(G) != AddCT(G, G)")
	}
}

func TestScalarMultOneIsGenerator(t *testing.T) {
	c := P256()
	one := make([]byte, c.ByteLen)
	one[len(one)-1] = 1
	got := c.ToAffine(c.ScalarBaseMult(one))
	want := c.ToAffine(c.Generator())
	if !c.Field.Equal(got.X, want.X) || !c.Field.Equal(got.Y, want.Y) {
		t.Fatalf("1*G != G")
	}
}

func TestScalarMultMatchesPublic(t *testing.T) {
	c := P256()
	k := make([]byte, c.ByteLen)
	k[len(k)-1] = 7
	k[len(k)-2] = 0x12
	ct := c.ToAffine(c.ScalarBaseMult(k))
	pub := c.ToAffine(c.ScalarMultPublic(k, c.Generator()))
	if !c.Field.Equal(ct.X, pub.X) || !c.Field.Equal(ct.Y, pub.Y) {
		t.Fatalf("constant-time and public scalar mult disagree")
	}
}

func TestDoubleScalarMultPublic(t *testing.T) {
	c := P256()
	k1 := make([]byte, c.ByteLen)
	k1[len(k1)-1] = 3
	k2 := make([]byte, c.ByteLen)
	k2[len(k2)-1] = 5

	g := c.Generator()
	lhs := c.ToAffine(c.DoubleScalarMultPublic(k1, g, k2, g))

	sum := make([]byte, c.ByteLen)
	sum[len(sum)-1] = 8
	rhs := c.ToAffine(c.ScalarBaseMult(sum))

	if !c.Field.Equal(lhs.X, rhs.X) || !c.Field.Equal(lhs.Y, rhs.Y) {
		t.Fatalf("3*G + 5*G != 8*G")
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	c := P256()
	a := c.ToAffine(c.Generator())
	enc := c.Marshal(a)
	dec, ok := c.Unmarshal(enc)
	if !ok {
		t.Fatalf("unmarshal of a valid point failed")
	}
	if !c.Field.Equal(dec.X, a.X) || !c.Field.Equal(dec.Y, a.Y) {
		t.Fatalf("marshal/unmarshal round trip mismatch")
	}
}

func TestUnmarshalRejectsOffCurve(t *testing.T) {
	c := P256()
	a := c.ToAffine(c.Generator())
	enc := c.Marshal(a)
	enc[len(enc)-1] ^= 1
	if _, ok := c.Unmarshal(enc); ok {
		t.Fatalf("unmarshal accepted a tampered, off-curve point")
	}
}

func TestAllThreeCurvesHaveOnCurveGenerators(t *testing.T) {
	for _, c := range []*Curve{P256(), P384(), P521()} {
		g := c.ToAffine(c.Generator())
		if !c.IsOnCurve(g) {
			t.Fatalf("generator off curve for a byte-length-%d curve", c.ByteLen)
		}
	}
}
