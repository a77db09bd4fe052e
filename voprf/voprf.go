// Package voprf implements the verifiable-OPRF anonymous token
// variant over P-384: the same blind-issue/redeem shape as package
// pmbtoken but with a single issuer scalar and no private metadata.
// Evaluation correctness is proven with a batched single-statement
// DLEQ (Chaum-Pedersen) proof.
package voprf

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/binary"
	"sync"

	"corecrypto.dev/errs"
	"corecrypto.dev/hash2curve"
	"corecrypto.dev/internal/ecnist"
)

// NonceSize is the token nonce width, matching the PMBToken layout.
const NonceSize = 64

// Params are the protocol's public parameters.
type Params struct {
	Curve *ecnist.Curve
	Z     []uint64
}

func swuZ(c *ecnist.Curve) []uint64 {
	four := c.Field.FromBytes([]byte{4})
	z := c.Field.New()
	c.Field.Neg(z, four)
	return z
}

var (
	paramsOnce sync.Once
	params     *Params
)

// Instance returns the process-wide P-384 parameter set.
func Instance() *Params {
	paramsOnce.Do(func() {
		c := ecnist.P384()
		params = &Params{Curve: c, Z: swuZ(c)}
	})
	return params
}

// hashT maps a token nonce to its curve point T = H_t(t).
func (p *Params) hashT(t []byte) (ecnist.Affine, error) {
	return hash2curve.HashToCurve(p.Curve, p.Z, t, []byte("VOPRF-P384-Ht"))
}

// hashC derives a Fiat-Shamir challenge scalar from a labeled point
// transcript plus trailing bytes.
func (p *Params) hashC(label string, points []ecnist.Affine, extra []byte) scalar {
	h := sha512.New()
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(label)))
	h.Write(lenBuf[:])
	h.Write([]byte(label))
	for _, pt := range points {
		h.Write(p.Curve.Marshal(pt))
	}
	h.Write(extra)
	digest := h.Sum(nil)
	return scalar(p.Curve.Order.ToBytes(p.Curve.Order.FromBytesWide(digest)))
}

func (p *Params) batchChallenge(transcript []ecnist.Affine, i int) scalar {
	var idx [2]byte
	binary.BigEndian.PutUint16(idx[:], uint16(i))
	return p.hashC("DLEQ BATCH", transcript, idx[:])
}

func (p *Params) generator() ecnist.Affine {
	return p.Curve.ToAffine(p.Curve.Generator())
}

type scalar []byte

func randomScalar(c *ecnist.Curve) (scalar, error) {
	buf := make([]byte, c.ByteLen+8)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return scalar(c.Order.ToBytes(c.Order.FromBytesWide(buf))), nil
}

func scalarAdd(c *ecnist.Curve, a, b scalar) scalar {
	sum := c.Order.New()
	c.Order.Add(sum, c.Order.FromBytes(a), c.Order.FromBytes(b))
	return scalar(c.Order.ToBytes(sum))
}

func scalarMul(c *ecnist.Curve, a, b scalar) scalar {
	prod := c.Order.New()
	c.Order.Mul(prod, c.Order.FromBytes(a), c.Order.FromBytes(b))
	return scalar(c.Order.ToBytes(prod))
}

func scalarInvert(c *ecnist.Curve, a scalar) (scalar, bool) {
	inv := c.Order.New()
	ok := c.Order.Invert(inv, c.Order.FromBytes(a))
	return scalar(c.Order.ToBytes(inv)), ok
}

func scalarEqual(c *ecnist.Curve, a, b scalar) bool {
	return c.Order.Equal(c.Order.FromBytes(a), c.Order.FromBytes(b))
}

// SecretKey is the issuer's single secret scalar.
type SecretKey scalar

// PublicKey is the issuer's commitment pub = priv*G plus the key
// identifier clients store with their tokens.
type PublicKey struct {
	KeyID uint32
	Pub   ecnist.Affine
}

// GenerateKey creates a fresh issuer key pair.
func GenerateKey(p *Params, keyID uint32) (SecretKey, *PublicKey, error) {
	sk, err := randomScalar(p.Curve)
	if err != nil {
		return nil, nil, err
	}
	c := p.Curve
	pub := c.ToAffine(c.ScalarBaseMult(sk))
	return SecretKey(sk), &PublicKey{KeyID: keyID, Pub: pub}, nil
}

// Pretoken is the client's state between blind and unblind: the token
// nonce, the blinding scalar, and the blinded point T' = r^-1 * H_t(t).
type Pretoken struct {
	T  []byte
	r  scalar
	Tp ecnist.Affine
}

// Token is the redeemable credential: key identifier, nonce, and the
// unblinded evaluation N = priv * H_t(t).
type Token struct {
	KeyID uint32
	Nonce []byte
	N     ecnist.Affine
}

// IssuanceResponse carries the per-token evaluations and one batched
// DLEQ proof.
type IssuanceResponse struct {
	Wps   []ecnist.Affine
	Proof dleqProof
}

// Blind draws a token nonce and blinding scalar, producing the blinded
// point for the issuer. r is secret, so the multiplication is
// constant-time.
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
		return nil, errs.New(errs.InternalInvariant, "voprf: blinding scalar was zero")
	}
	c := p.Curve
	tp := c.ToAffine(c.ScalarMult(rInv, c.FromAffine(bigT)))
	return &Pretoken{T: t, r: r, Tp: tp}, nil
}

func batchTranscript(pub *PublicKey, tps, wps []ecnist.Affine) []ecnist.Affine {
	transcript := make([]ecnist.Affine, 0, 1+2*len(tps))
	transcript = append(transcript, pub.Pub)
	for i := range tps {
		transcript = append(transcript, tps[i], wps[i])
	}
	return transcript
}

// batchPoints folds the request/response pairs into the two aggregates
// the batched proof binds: sum(e_i * T'_i) and sum(e_i * W'_i). All
// inputs are wire-public, so the folding multiplies in variable time.
func (p *Params) batchPoints(transcript, tps, wps []ecnist.Affine) (tB, wB ecnist.Affine) {
	c := p.Curve
	tAcc := c.Identity()
	wAcc := c.Identity()
	for i := range tps {
		e := p.batchChallenge(transcript, i)
		tAcc = c.AddVartime(tAcc, c.ScalarMultPublic(e, c.FromAffine(tps[i])))
		wAcc = c.AddVartime(wAcc, c.ScalarMultPublic(e, c.FromAffine(wps[i])))
	}
	return c.ToAffine(tAcc), c.ToAffine(wAcc)
}

// Sign evaluates a batch of blinded points under the issuer's secret
// scalar: W'_i = priv * T'_i, with a batched DLEQ proof that the same
// scalar backs pub and every evaluation. The evaluations and the proof
// commitments are constant-time in the secret.
func Sign(p *Params, sk SecretKey, pub *PublicKey, tps []ecnist.Affine) (*IssuanceResponse, error) {
	c := p.Curve
	wps := make([]ecnist.Affine, len(tps))
	for i, tp := range tps {
		wps[i] = c.ToAffine(c.ScalarMult(scalar(sk), c.FromAffine(tp)))
	}
	transcript := batchTranscript(pub, tps, wps)
	tB, wB := p.batchPoints(transcript, tps, wps)
	proof, err := proveDLEQ(p, tB, pub.Pub, wB, scalar(sk))
	if err != nil {
		return nil, err
	}
	return &IssuanceResponse{Wps: wps, Proof: *proof}, nil
}

// Unblind verifies the batched proof and unblinds each evaluation into
// a redeemable token.
func Unblind(p *Params, pub *PublicKey, pretokens []*Pretoken, resp *IssuanceResponse) ([]*Token, error) {
	if len(resp.Wps) != len(pretokens) {
		return nil, errs.New(errs.InvalidEncoding, "voprf: response count mismatch")
	}
	c := p.Curve
	tps := make([]ecnist.Affine, len(pretokens))
	for i, pre := range pretokens {
		tps[i] = pre.Tp
	}
	transcript := batchTranscript(pub, tps, resp.Wps)
	tB, wB := p.batchPoints(transcript, tps, resp.Wps)
	if !verifyDLEQ(p, tB, pub.Pub, wB, &resp.Proof) {
		return nil, errs.New(errs.ProofInvalid, "voprf: evaluation proof did not verify")
	}
	out := make([]*Token, len(pretokens))
	for i, pre := range pretokens {
		n := c.ToAffine(c.ScalarMult(pre.r, c.FromAffine(resp.Wps[i])))
		out[i] = &Token{KeyID: pub.KeyID, Nonce: pre.T, N: n}
	}
	return out, nil
}

func pointsEqual(c *ecnist.Curve, a, b ecnist.Affine) bool {
	if a.Infinity || b.Infinity {
		return a.Infinity == b.Infinity
	}
	return c.Field.Equal(a.X, b.X) && c.Field.Equal(a.Y, b.Y)
}

// Redeem recomputes priv * H_t(t) and accepts the token only when it
// matches the stored point. The secret scalar's multiplication is
// constant-time.
func Redeem(p *Params, sk SecretKey, tok *Token) error {
	if len(tok.Nonce) != NonceSize {
		return errs.New(errs.InvalidEncoding, "voprf: bad nonce length")
	}
	c := p.Curve
	bigT, err := p.hashT(tok.Nonce)
	if err != nil {
		return err
	}
	n := c.ToAffine(c.ScalarMult(scalar(sk), c.FromAffine(bigT)))
	if !pointsEqual(c, n, tok.N) {
		return errs.New(errs.ValidityCheckFailed, "voprf: evaluation point mismatch")
	}
	return nil
}
