package pmbtoken

import (
	"crypto/rand"

	"corecrypto.dev/errs"
	"corecrypto.dev/internal/ctchoice"
	"corecrypto.dev/internal/ecnist"
)

// Pretoken is the client's state between blinding and unblinding: the
// token nonce t, the blinding scalar r, and the blinded point
// T' = r^-1 * H_t(t) sent to the issuer.
type Pretoken struct {
	T  []byte
	r  scalar
	Tp ecnist.Affine
}

// SignedToken is the issuer's per-token output: its nonce s and the
// two blinded evaluation points.
type SignedToken struct {
	S   []byte
	Wp  ecnist.Affine
	Wsp ecnist.Affine
}

// IssuanceResponse is the issuer's reply to a batch of blinded
// requests: the per-token outputs plus one batched proof of each kind.
type IssuanceResponse struct {
	Tokens   []SignedToken
	OR       dleqORProof
	Validity dleqProof
}

// Token is the redeemable credential: the key identifier, the nonce,
// and the three unblinded points.
type Token struct {
	KeyID    uint32
	Nonce    []byte
	S, W, Ws ecnist.Affine
}

// Blind draws a fresh token nonce and blinding scalar and derives the
// blinded point to send to the issuer. r is secret, so the blinding
// multiplication is constant-time.
func Blind(p *Params) (*Pretoken, error) {
	t := make([]byte, NonceSize)
	if _, err := rand.Read(t); err != nil {
		return nil, err
	}
	bigT, err := p.hashT(t)
	if err != nil {
		return nil, err
	}
	r, err := randomScalar(p.Curve)
	if err != nil {
		return nil, err
	}
	rInv, ok := scalarInvert(p.Curve, r)
	if !ok {
		return nil, errs.New(errs.InternalInvariant, "pmbtoken: blinding scalar was zero")
	}
	c := p.Curve
	tp := c.ToAffine(c.ScalarMult(rInv, c.FromAffine(bigT)))
	return &Pretoken{T: t, r: r, Tp: tp}, nil
}

// batchTranscript collects the public transcript the batching
// coefficients commit to: the three public keys and every per-token
// point in request order.
func batchTranscript(pub *PublicKey, tps, sps, wps, wsps []ecnist.Affine) []ecnist.Affine {
	transcript := make([]ecnist.Affine, 0, 3+4*len(tps))
	transcript = append(transcript, pub.Pub0, pub.Pub1, pub.Pubs)
	for i := range tps {
		transcript = append(transcript, tps[i], sps[i], wps[i], wsps[i])
	}
	return transcript
}

// batchPoints folds the per-token points into the four aggregates the
// batched proofs operate on: sum(e_i * P_i) for each of T', S', W',
// W's. All inputs are wire-public, so the folding multiplies in
// variable time.
func (p *Params) batchPoints(transcript []ecnist.Affine, tps, sps, wps, wsps []ecnist.Affine) (tB, sB, wB, wsB ecnist.Affine) {
	c := p.Curve
	tAcc := c.Identity()
	sAcc := c.Identity()
	wAcc := c.Identity()
	wsAcc := c.Identity()
	for i := range tps {
		e := p.batchChallenge(transcript, i)
		tAcc = c.AddVartime(tAcc, c.ScalarMultPublic(e, c.FromAffine(tps[i])))
		sAcc = c.AddVartime(sAcc, c.ScalarMultPublic(e, c.FromAffine(sps[i])))
		wAcc = c.AddVartime(wAcc, c.ScalarMultPublic(e, c.FromAffine(wps[i])))
		wsAcc = c.AddVartime(wsAcc, c.ScalarMultPublic(e, c.FromAffine(wsps[i])))
	}
	return c.ToAffine(tAcc), c.ToAffine(sAcc), c.ToAffine(wAcc), c.ToAffine(wsAcc)
}

// Sign answers a batch of blinded requests under the metadata pair
// selected by bit. The pair selection, every per-token evaluation, and
// the proof construction are constant-time in the secret scalars and
// in bit; only the batching folds over wire-public values run in
// variable time.
func Sign(p *Params, key *IssuerKey, pub *PublicKey, tps []ecnist.Affine, bit int) (*IssuanceResponse, error) {
	if bit != 0 && bit != 1 {
		return nil, errs.New(errs.BadPrivateBit, "pmbtoken: private bit must be 0 or 1")
	}
	bitChoice := ctchoice.Bit(uint64(bit))
	xb := scalarSelect(bitChoice, key.X0, key.X1)
	yb := scalarSelect(bitChoice, key.Y0, key.Y1)

	tokens := make([]SignedToken, len(tps))
	sps := make([]ecnist.Affine, len(tps))
	wps := make([]ecnist.Affine, len(tps))
	wsps := make([]ecnist.Affine, len(tps))
	for i, tp := range tps {
		s := make([]byte, NonceSize)
		if _, err := rand.Read(s); err != nil {
			return nil, err
		}
		sp, err := p.hashS(tp, s)
		if err != nil {
			return nil, err
		}
		wp := commitTS(p, xb, yb, tp, sp)
		wsp := commitTS(p, key.Xs, key.Ys, tp, sp)
		tokens[i] = SignedToken{S: s, Wp: wp, Wsp: wsp}
		sps[i], wps[i], wsps[i] = sp, wp, wsp
	}

	transcript := batchTranscript(pub, tps, sps, wps, wsps)
	tB, sB, wB, wsB := p.batchPoints(transcript, tps, sps, wps, wsps)

	orProof, err := proveDLEQOR(p, tB, sB, [2]ecnist.Affine{pub.Pub0, pub.Pub1}, wB, xb, yb, bit)
	if err != nil {
		return nil, err
	}
	validity, err := proveDLEQ(p, tB, sB, pub.Pubs, wsB, key.Xs, key.Ys)
	if err != nil {
		return nil, err
	}
	return &IssuanceResponse{Tokens: tokens, OR: *orProof, Validity: *validity}, nil
}

// Unblind verifies the issuer's batched proofs and unblinds each
// token. The blinding scalars are secret, so the unblinding
// multiplications are constant-time; proof verification handles only
// wire-public values and runs in variable time.
func Unblind(p *Params, pub *PublicKey, pretokens []*Pretoken, resp *IssuanceResponse) ([]*Token, error) {
	if len(resp.Tokens) != len(pretokens) {
		return nil, errs.New(errs.InvalidEncoding, "pmbtoken: response count mismatch")
	}
	c := p.Curve

	tps := make([]ecnist.Affine, len(pretokens))
	sps := make([]ecnist.Affine, len(pretokens))
	wps := make([]ecnist.Affine, len(pretokens))
	wsps := make([]ecnist.Affine, len(pretokens))
	for i, pre := range pretokens {
		sp, err := p.hashS(pre.Tp, resp.Tokens[i].S)
		if err != nil {
			return nil, err
		}
		tps[i] = pre.Tp
		sps[i] = sp
		wps[i] = resp.Tokens[i].Wp
		wsps[i] = resp.Tokens[i].Wsp
	}

	transcript := batchTranscript(pub, tps, sps, wps, wsps)
	tB, sB, wB, wsB := p.batchPoints(transcript, tps, sps, wps, wsps)

	if !verifyDLEQOR(p, tB, sB, [2]ecnist.Affine{pub.Pub0, pub.Pub1}, wB, &resp.OR) {
		return nil, errs.New(errs.ProofInvalid, "pmbtoken: metadata proof did not verify")
	}
	if !verifyDLEQ(p, tB, sB, pub.Pubs, wsB, &resp.Validity) {
		return nil, errs.New(errs.ProofInvalid, "pmbtoken: validity proof did not verify")
	}

	out := make([]*Token, len(pretokens))
	for i, pre := range pretokens {
		s := c.ToAffine(c.ScalarMult(pre.r, c.FromAffine(sps[i])))
		w := c.ToAffine(c.ScalarMult(pre.r, c.FromAffine(wps[i])))
		ws := c.ToAffine(c.ScalarMult(pre.r, c.FromAffine(wsps[i])))
		out[i] = &Token{KeyID: pub.KeyID, Nonce: pre.T, S: s, W: w, Ws: ws}
	}
	return out, nil
}

func pointsEqual(c *ecnist.Curve, a, b ecnist.Affine) bool {
	if a.Infinity || b.Infinity {
		return a.Infinity == b.Infinity
	}
	return c.Field.Equal(a.X, b.X) && c.Field.Equal(a.Y, b.Y)
}

// Redeem checks a token's validity and recovers the private bit. The
// issuer's scalars stay secret at redemption time, so the three
// evaluations are constant-time even though the token itself is
// public.
func Redeem(p *Params, key *IssuerKey, tok *Token) (int, error) {
	if len(tok.Nonce) != NonceSize {
		return -1, errs.New(errs.InvalidEncoding, "pmbtoken: bad nonce length")
	}
	c := p.Curve
	bigT, err := p.hashT(tok.Nonce)
	if err != nil {
		return -1, err
	}
	ws := commitTS(p, key.Xs, key.Ys, bigT, tok.S)
	if !pointsEqual(c, ws, tok.Ws) {
		return -1, errs.New(errs.ValidityCheckFailed, "pmbtoken: validity point mismatch")
	}
	w0 := commitTS(p, key.X0, key.Y0, bigT, tok.S)
	w1 := commitTS(p, key.X1, key.Y1, bigT, tok.S)
	match0 := pointsEqual(c, w0, tok.W)
	match1 := pointsEqual(c, w1, tok.W)
	if match0 == match1 {
		return -1, errs.New(errs.BadPrivateBit, "pmbtoken: redemption matched neither or both metadata pairs")
	}
	if match1 {
		return 1, nil
	}
	return 0, nil
}
