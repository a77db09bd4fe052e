package pmbtoken

import (
	"testing"

	"corecrypto.dev/errs"
	"corecrypto.dev/internal/ecnist"
)

func setup(t *testing.T) (*Params, *IssuerKey, *PublicKey) {
	t.Helper()
	p, err := Instance()
	if err != nil {
		t.Fatalf("Instance: %v", err)
	}
	key, pub, err := GenerateKey(p, 7)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return p, key, pub
}

func issueBatch(t *testing.T, p *Params, key *IssuerKey, pub *PublicKey, n, bit int) []*Token {
	t.Helper()
	pretokens := make([]*Pretoken, n)
	tps := make([]ecnist.Affine, n)
	for i := range pretokens {
		pre, err := Blind(p)
		if err != nil {
			t.Fatalf("Blind: %v", err)
		}
		pretokens[i] = pre
		tps[i] = pre.Tp
	}
	resp, err := Sign(p, key, pub, tps, bit)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	tokens, err := Unblind(p, pub, pretokens, resp)
	if err != nil {
		t.Fatalf("Unblind: %v", err)
	}
	return tokens
}

// TestIssuanceRoundTrip is the full eight-token scenario: issue with
// private bit 1, redeem each token, and recover bit 1 every time.
func TestIssuanceRoundTrip(t *testing.T) {
	p, key, pub := setup(t)
	tokens := issueBatch(t, p, key, pub, 8, 1)
	for i, tok := range tokens {
		bit, err := Redeem(p, key, tok)
		if err != nil {
			t.Fatalf("Redeem token %d: %v", i, err)
		}
		if bit != 1 {
			t.Fatalf("token %d recovered bit %d, want 1", i, bit)
		}
	}
}

func TestIssuanceRecoversBitZero(t *testing.T) {
	p, key, pub := setup(t)
	tokens := issueBatch(t, p, key, pub, 3, 0)
	for i, tok := range tokens {
		bit, err := Redeem(p, key, tok)
		if err != nil {
			t.Fatalf("Redeem token %d: %v", i, err)
		}
		if bit != 0 {
			t.Fatalf("token %d recovered bit %d, want 0", i, bit)
		}
	}
}

func TestRedeemRejectsForeignKey(t *testing.T) {
	p, key, pub := setup(t)
	otherKey, _, err := GenerateKey(p, 8)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	tokens := issueBatch(t, p, key, pub, 1, 1)
	if _, err := Redeem(p, otherKey, tokens[0]); err == nil {
		t.Fatalf("redeeming under a different issuer key should fail")
	}
}

func TestUnblindRejectsTamperedResponse(t *testing.T) {
	p, key, pub := setup(t)
	pre, err := Blind(p)
	if err != nil {
		t.Fatalf("Blind: %v", err)
	}
	resp, err := Sign(p, key, pub, []ecnist.Affine{pre.Tp}, 1)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	// Tamper with the proof.
	resp.Validity.C[0] ^= 1
	if _, err := Unblind(p, pub, []*Pretoken{pre}, resp); !errs.Is(err, errs.ProofInvalid) {
		t.Fatalf("tampered proof should fail with ProofInvalid, got %v", err)
	}
}

func TestUnblindRejectsWrongBranchKey(t *testing.T) {
	p, key, pub := setup(t)
	pre, err := Blind(p)
	if err != nil {
		t.Fatalf("Blind: %v", err)
	}
	_, otherPub, err := GenerateKey(p, 9)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	resp, err := Sign(p, key, pub, []ecnist.Affine{pre.Tp}, 0)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := Unblind(p, otherPub, []*Pretoken{pre}, resp); err == nil {
		t.Fatalf("proof must not verify under a different public key")
	}
}

func TestWireRoundTrip(t *testing.T) {
	p, key, pub := setup(t)
	pretokens := make([]*Pretoken, 2)
	tps := make([]ecnist.Affine, 2)
	for i := range pretokens {
		pre, err := Blind(p)
		if err != nil {
			t.Fatalf("Blind: %v", err)
		}
		pretokens[i] = pre
		tps[i] = pre.Tp
	}

	reqWire := MarshalRequest(p, tps)
	gotTps, err := UnmarshalRequest(p, reqWire)
	if err != nil {
		t.Fatalf("UnmarshalRequest: %v", err)
	}
	if len(gotTps) != 2 {
		t.Fatalf("request round trip lost points")
	}

	resp, err := Sign(p, key, pub, gotTps, 1)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	respWire := MarshalResponse(p, resp)
	gotResp, err := UnmarshalResponse(p, respWire)
	if err != nil {
		t.Fatalf("UnmarshalResponse: %v", err)
	}

	tokens, err := Unblind(p, pub, pretokens, gotResp)
	if err != nil {
		t.Fatalf("Unblind after wire round trip: %v", err)
	}
	tokWire := MarshalToken(p, tokens[0])
	gotTok, err := UnmarshalToken(p, tokWire)
	if err != nil {
		t.Fatalf("UnmarshalToken: %v", err)
	}
	bit, err := Redeem(p, key, gotTok)
	if err != nil || bit != 1 {
		t.Fatalf("redeem after wire round trip: bit %d err %v", bit, err)
	}
}

// TestWireTamperDetected flips a byte in the nonce, in W', and near the
// end of the proof in the response wire and checks that unblinding (or
// decoding) rejects the result.
func TestWireTamperDetected(t *testing.T) {
	p, key, pub := setup(t)
	pre, err := Blind(p)
	if err != nil {
		t.Fatalf("Blind: %v", err)
	}
	resp, err := Sign(p, key, pub, []ecnist.Affine{pre.Tp}, 1)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	wire := MarshalResponse(p, resp)

	for _, offset := range []int{2, 2 + NonceSize + 5, len(wire) - 3} {
		tampered := append([]byte(nil), wire...)
		tampered[offset] ^= 0x40
		got, err := UnmarshalResponse(p, tampered)
		if err != nil {
			continue // rejected at decode: also a pass
		}
		if _, err := Unblind(p, pub, []*Pretoken{pre}, got); err == nil {
			t.Fatalf("tampering at offset %d went undetected", offset)
		}
	}
}

func TestUnmarshalRejectsTruncation(t *testing.T) {
	p, _, _ := setup(t)
	pre, err := Blind(p)
	if err != nil {
		t.Fatalf("Blind: %v", err)
	}
	wire := MarshalRequest(p, []ecnist.Affine{pre.Tp})
	if _, err := UnmarshalRequest(p, wire[:len(wire)-1]); !errs.Is(err, errs.InvalidEncoding) {
		t.Fatalf("truncated request should fail with InvalidEncoding, got %v", err)
	}
}

func TestSignRejectsBadBit(t *testing.T) {
	p, key, pub := setup(t)
	pre, err := Blind(p)
	if err != nil {
		t.Fatalf("Blind: %v", err)
	}
	if _, err := Sign(p, key, pub, []ecnist.Affine{pre.Tp}, 2); !errs.Is(err, errs.BadPrivateBit) {
		t.Fatalf("bit 2 should fail with BadPrivateBit, got %v", err)
	}
}
