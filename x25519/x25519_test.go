package x25519

import (
	"encoding/hex"
	"testing"
)

func decode(t *testing.T, s string) [Size]byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != Size {
		t.Fatalf("bad test vector %q", s)
	}
	var out [Size]byte
	copy(out[:], b)
	return out
}

// TestRFC7748Vector1 is RFC 7748 §5.2's first scalar/u-coordinate
// vector.
func TestRFC7748Vector1(t *testing.T) {
	scalar := decode(t, "a546e36bf0527c9d3b16154b82465edd62144c0ac1fc5a18506a2244ba449ac4")
	u := decode(t, "e6db6867583030db3594c1a424b15f7c726624ec26b3353b10a903a6d0ab1c4c")
	want := decode(t, "c3da55379de9c6908e94ea4df28d084f32eccf03491c71f754b4075577a28552")

	got, err := ScalarMult(scalar, u)
	if err != nil {
		t.Fatalf("ScalarMult: %v", err)
	}
	if got != want {
		t.Fatalf("vector 1 mismatch: got %x want %x", got, want)
	}
}

func TestBasepointMultiplicationIsDeterministic(t *testing.T) {
	var scalar [Size]byte
	scalar[0] = 9
	a, err := ScalarBaseMult(scalar)
	if err != nil {
		t.Fatalf("ScalarBaseMult: %v", err)
	}
	b, err := ScalarBaseMult(scalar)
	if err != nil {
		t.Fatalf("ScalarBaseMult: %v", err)
	}
	if a != b {
		t.Fatalf("ScalarBaseMult is not deterministic")
	}
}

func TestDiffieHellmanAgreement(t *testing.T) {
	aPriv, aPub, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	bPriv, bPub, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	s1, err := ScalarMult(aPriv, bPub)
	if err != nil {
		t.Fatalf("ScalarMult: %v", err)
	}
	s2, err := ScalarMult(bPriv, aPub)
	if err != nil {
		t.Fatalf("ScalarMult: %v", err)
	}
	if s1 != s2 {
		t.Fatalf("shared secrets disagree: %x vs %x", s1, s2)
	}
}

// TestSmallOrderPointRejected is spec.md §8's small-subgroup property:
// multiplying by the small-order u-coordinates 0 and 1 must yield an
// all-zero shared secret and be rejected.
func TestSmallOrderPointRejected(t *testing.T) {
	var scalar [Size]byte
	scalar[0] = 42
	for _, u := range []byte{0, 1} {
		var point [Size]byte
		point[0] = u
		_, err := ScalarMult(scalar, point)
		if err == nil {
			t.Fatalf("expected SmallSubgroup error for the small-order u-coordinate %d", u)
		}
	}
}
