package edwards25519

import "testing"

func TestGeneratorEncodeDecode(t *testing.T) {
	g := Generator()
	enc := Encode(&g)
	dec, err := Decode(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !Equal(&g, &dec) {
		t.Fatalf("decode(encode(G)) != G")
	}
}

func TestIdentityIsNeutral(t *testing.T) {
	g := Generator()
	id := Identity()
	sum := Add(&g, &id)
	if !Equal(&sum, &g) {
		t.Fatalf("G + O != G")
	}
}

func TestDoubleMatchesAdd(t *testing.T) {
	g := Generator()
	doubled := Double(&g)
	added := Add(&g, &g)
	if !Equal(&doubled, &added) {
		t.Fatalf("Double(G) != Add(G, G)")
	}
}

func TestNegateCancels(t *testing.T) {
	g := Generator()
	neg := Negate(&g)
	sum := Add(&g, &neg)
	id := Identity()
	if !Equal(&sum, &id) {
		t.Fatalf("G + (-G) != O")
	}
}

func TestScalarMultOneIsGenerator(t *testing.T) {
	var one [32]byte
	one[0] = 1
	g := Generator()
	got := ScalarMult(one, g)
	if !Equal(&got, &g) {
		t.Fatalf("1*G != G")
	}
}

func TestScalarMultMatchesVartime(t *testing.T) {
	var k [32]byte
	k[0] = 13
	k[1] = 7
	g := Generator()
	ct := ScalarMult(k, g)
	vt := ScalarMultPublicVartime(k, g)
	if !Equal(&ct, &vt) {
		t.Fatalf("constant-time and variable-time scalar mult disagree")
	}
}

func TestScalarMultTwoMatchesDouble(t *testing.T) {
	var two [32]byte
	two[0] = 2
	g := Generator()
	byScalar := ScalarMult(two, g)
	byDouble := Double(&g)
	if !Equal(&byScalar, &byDouble) {
		t.Fatalf("2*G != Double(G)")
	}
}
