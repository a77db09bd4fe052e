package ed25519

import (
	"encoding/hex"
	"testing"
)

func hexBytes(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	return b
}

// TestRFC8032Vector1 is RFC 8032 §7.1's first test vector: an empty
// message signed under a known seed.
func TestRFC8032Vector1(t *testing.T) {
	seed := hexBytes(t, "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60")
	wantPub := hexBytes(t, "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a")
	wantSig := hexBytes(t, "e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e065224901555fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b")

	priv := NewKeyFromSeed(seed)
	pub := priv.Public()
	if hex.EncodeToString(pub) != hex.EncodeToString(wantPub) {
		t.Fatalf("public key mismatch: got %x want %x", pub, wantPub)
	}

	sig := Sign(priv, nil)
	if hex.EncodeToString(sig) != hex.EncodeToString(wantSig) {
		t.Fatalf("signature mismatch: got %x want %x", sig, wantSig)
	}

	if err := Verify(pub, nil, sig); err != nil {
		t.Fatalf("Verify of the known-good vector failed: %v", err)
	}
}

// TestZeroSeedPublicKey pins the public key derived from the all-zero
// seed.
func TestZeroSeedPublicKey(t *testing.T) {
	seed := make([]byte, SeedSize)
	priv := NewKeyFromSeed(seed)
	want := "3b6a27bcceb6a42d62a3a8d02a6f0d73653215771de243a63ac048a18b59da29"
	if hex.EncodeToString(priv.Public()) != want {
		t.Fatalf("zero-seed public key mismatch: got %x", priv.Public())
	}
}

func TestGenerateSignVerifyRoundTrip(t *testing.T) {
	pub, priv, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	msg := []byte("corecrypto end to end")
	sig := Sign(priv, msg)
	if err := Verify(pub, msg, sig); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	pub, priv, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	sig := Sign(priv, []byte("original"))
	if err := Verify(pub, []byte("tampered"), sig); err == nil {
		t.Fatalf("expected verification failure for a tampered message")
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	pub, priv, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	msg := []byte("hello")
	sig := Sign(priv, msg)
	sig[0] ^= 1
	if err := Verify(pub, msg, sig); err == nil {
		t.Fatalf("expected verification failure for a tampered signature")
	}
}

func TestVerifyRejectsNonCanonicalS(t *testing.T) {
	pub, priv, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	msg := []byte("hello")
	sig := Sign(priv, msg)
	for i := 32; i < 64; i++ {
		sig[i] = 0xff
	}
	if err := Verify(pub, msg, sig); err == nil {
		t.Fatalf("expected rejection of a non-canonical S")
	}
}
