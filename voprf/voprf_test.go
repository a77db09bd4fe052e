package voprf

import (
	"testing"

	"corecrypto.dev/errs"
	"corecrypto.dev/internal/ecnist"
)

func setup(t *testing.T) (*Params, SecretKey, *PublicKey) {
	t.Helper()
	p := Instance()
	sk, pub, err := GenerateKey(p, 3)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return p, sk, pub
}

func TestIssuanceRoundTrip(t *testing.T) {
	p, sk, pub := setup(t)
	pretokens := make([]*Pretoken, 4)
	tps := make([]ecnist.Affine, 4)
	for i := range pretokens {
		pre, err := Blind(p)
		if err != nil {
			t.Fatalf("Blind: %v", err)
		}
		pretokens[i] = pre
		tps[i] = pre.Tp
	}
	resp, err := Sign(p, sk, pub, tps)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	tokens, err := Unblind(p, pub, pretokens, resp)
	if err != nil {
		t.Fatalf("Unblind: %v", err)
	}
	for i, tok := range tokens {
		if err := Redeem(p, sk, tok); err != nil {
			t.Fatalf("Redeem token %d: %v", i, err)
		}
	}
}

func TestRedeemRejectsForeignKey(t *testing.T) {
	p, sk, pub := setup(t)
	otherSk, _, err := GenerateKey(p, 4)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	pre, err := Blind(p)
	if err != nil {
		t.Fatalf("Blind: %v", err)
	}
	resp, err := Sign(p, sk, pub, []ecnist.Affine{pre.Tp})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	tokens, err := Unblind(p, pub, []*Pretoken{pre}, resp)
	if err != nil {
		t.Fatalf("Unblind: %v", err)
	}
	if err := Redeem(p, otherSk, tokens[0]); !errs.Is(err, errs.ValidityCheckFailed) {
		t.Fatalf("foreign-key redemption should fail validity, got %v", err)
	}
}

func TestUnblindRejectsTamperedProof(t *testing.T) {
	p, sk, pub := setup(t)
	pre, err := Blind(p)
	if err != nil {
		t.Fatalf("Blind: %v", err)
	}
	resp, err := Sign(p, sk, pub, []ecnist.Affine{pre.Tp})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	resp.Proof.U[len(resp.Proof.U)-1] ^= 1
	if _, err := Unblind(p, pub, []*Pretoken{pre}, resp); !errs.Is(err, errs.ProofInvalid) {
		t.Fatalf("tampered proof should fail with ProofInvalid, got %v", err)
	}
}

func TestUnblindRejectsSwappedEvaluation(t *testing.T) {
	p, sk, pub := setup(t)
	pre1, err := Blind(p)
	if err != nil {
		t.Fatalf("Blind: %v", err)
	}
	pre2, err := Blind(p)
	if err != nil {
		t.Fatalf("Blind: %v", err)
	}
	resp, err := Sign(p, sk, pub, []ecnist.Affine{pre1.Tp, pre2.Tp})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	resp.Wps[0], resp.Wps[1] = resp.Wps[1], resp.Wps[0]
	if _, err := Unblind(p, pub, []*Pretoken{pre1, pre2}, resp); err == nil {
		t.Fatalf("swapped evaluations should not verify")
	}
}

func TestWireRoundTrip(t *testing.T) {
	p, sk, pub := setup(t)
	pre, err := Blind(p)
	if err != nil {
		t.Fatalf("Blind: %v", err)
	}
	tps, err := UnmarshalRequest(p, MarshalRequest(p, []ecnist.Affine{pre.Tp}))
	if err != nil {
		t.Fatalf("UnmarshalRequest: %v", err)
	}
	resp, err := Sign(p, sk, pub, tps)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	gotResp, err := UnmarshalResponse(p, MarshalResponse(p, resp))
	if err != nil {
		t.Fatalf("UnmarshalResponse: %v", err)
	}
	tokens, err := Unblind(p, pub, []*Pretoken{pre}, gotResp)
	if err != nil {
		t.Fatalf("Unblind: %v", err)
	}
	gotTok, err := UnmarshalToken(p, MarshalToken(p, tokens[0]))
	if err != nil {
		t.Fatalf("UnmarshalToken: %v", err)
	}
	if err := Redeem(p, sk, gotTok); err != nil {
		t.Fatalf("Redeem after wire round trip: %v", err)
	}
}

func TestUnmarshalRejectsTruncation(t *testing.T) {
	p, _, _ := setup(t)
	pre, err := Blind(p)
	if err != nil {
		t.Fatalf("Blind: %v", err)
	}
	wire := MarshalRequest(p, []ecnist.Affine{pre.Tp})
	if _, err := UnmarshalRequest(p, wire[:len(wire)-2]); !errs.Is(err, errs.InvalidEncoding) {
		t.Fatalf("truncated request should fail with InvalidEncoding, got %v", err)
	}
}
