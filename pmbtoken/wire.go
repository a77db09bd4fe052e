package pmbtoken

import (
	"encoding/binary"

	"corecrypto.dev/errs"
	"corecrypto.dev/internal/ecnist"
)

// Wire formats. Request and response messages are a concatenation of
// fixed-width fields behind a 2-byte big-endian count (a token is the
// key ID, nonce and points with no count): points travel uncompressed
// (0x04 || X || Y), scalars as fixed-width big-endian, and the batched
// proof rides at the end of the issuance response behind its own
// 2-byte big-endian length prefix.

type wireReader struct {
	buf []byte
}

func (r *wireReader) take(n int) ([]byte, error) {
	if len(r.buf) < n {
		return nil, errs.New(errs.InvalidEncoding, "pmbtoken: truncated message")
	}
	out := r.buf[:n]
	r.buf = r.buf[n:]
	return out, nil
}

func (r *wireReader) uint16() (int, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint16(b)), nil
}

func (r *wireReader) point(c *ecnist.Curve) (ecnist.Affine, error) {
	b, err := r.take(1 + 2*c.ByteLen)
	if err != nil {
		return ecnist.Affine{}, err
	}
	pt, ok := c.Unmarshal(b)
	if !ok {
		return ecnist.Affine{}, errs.New(errs.NotOnCurve, "pmbtoken: point is malformed or off the curve")
	}
	return pt, nil
}

func (r *wireReader) scalar(c *ecnist.Curve) (scalar, error) {
	b, err := r.take(c.ByteLen)
	if err != nil {
		return nil, err
	}
	s := append(scalar(nil), b...)
	// Reject non-canonical scalars: the round trip through the order
	// must reproduce the wire bytes exactly.
	canon := c.Order.ToBytes(c.Order.FromBytes(s))
	for i := range canon {
		if canon[i] != s[i] {
			return nil, errs.New(errs.InvalidEncoding, "pmbtoken: scalar out of range")
		}
	}
	return s, nil
}

func (r *wireReader) empty() bool { return len(r.buf) == 0 }

// MarshalRequest encodes a batch of blinded points.
func MarshalRequest(p *Params, tps []ecnist.Affine) []byte {
	out := make([]byte, 2, 2+len(tps)*(1+2*p.Curve.ByteLen))
	binary.BigEndian.PutUint16(out, uint16(len(tps)))
	for _, tp := range tps {
		out = append(out, p.Curve.Marshal(tp)...)
	}
	return out
}

// UnmarshalRequest decodes a batch of blinded points, rejecting
// malformed frames and off-curve points.
func UnmarshalRequest(p *Params, b []byte) ([]ecnist.Affine, error) {
	r := &wireReader{buf: b}
	count, err := r.uint16()
	if err != nil {
		return nil, err
	}
	tps := make([]ecnist.Affine, count)
	for i := range tps {
		if tps[i], err = r.point(p.Curve); err != nil {
			return nil, err
		}
	}
	if !r.empty() {
		return nil, errs.New(errs.InvalidEncoding, "pmbtoken: trailing bytes in request")
	}
	return tps, nil
}

func appendScalar(out []byte, s scalar) []byte {
	return append(out, s...)
}

// MarshalResponse encodes an issuance response: the per-token
// (s, W', W's) triples, then the length-prefixed proof blob holding
// the DLEQOR branches followed by the validity DLEQ.
func MarshalResponse(p *Params, resp *IssuanceResponse) []byte {
	c := p.Curve
	out := make([]byte, 2)
	binary.BigEndian.PutUint16(out, uint16(len(resp.Tokens)))
	for _, tok := range resp.Tokens {
		out = append(out, tok.S...)
		out = append(out, c.Marshal(tok.Wp)...)
		out = append(out, c.Marshal(tok.Wsp)...)
	}

	var proof []byte
	for _, s := range []scalar{
		resp.OR.C0, resp.OR.U0, resp.OR.V0,
		resp.OR.C1, resp.OR.U1, resp.OR.V1,
		resp.Validity.C, resp.Validity.U, resp.Validity.V,
	} {
		proof = appendScalar(proof, s)
	}
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(proof)))
	out = append(out, lenBuf[:]...)
	out = append(out, proof...)
	return out
}

// UnmarshalResponse decodes an issuance response.
func UnmarshalResponse(p *Params, b []byte) (*IssuanceResponse, error) {
	c := p.Curve
	r := &wireReader{buf: b}
	count, err := r.uint16()
	if err != nil {
		return nil, err
	}
	resp := &IssuanceResponse{Tokens: make([]SignedToken, count)}
	for i := range resp.Tokens {
		s, err := r.take(NonceSize)
		if err != nil {
			return nil, err
		}
		resp.Tokens[i].S = append([]byte(nil), s...)
		if resp.Tokens[i].Wp, err = r.point(c); err != nil {
			return nil, err
		}
		if resp.Tokens[i].Wsp, err = r.point(c); err != nil {
			return nil, err
		}
	}

	proofLen, err := r.uint16()
	if err != nil {
		return nil, err
	}
	if proofLen != 9*c.ByteLen || len(r.buf) != proofLen {
		return nil, errs.New(errs.InvalidEncoding, "pmbtoken: bad proof framing")
	}
	dst := []*scalar{
		&resp.OR.C0, &resp.OR.U0, &resp.OR.V0,
		&resp.OR.C1, &resp.OR.U1, &resp.OR.V1,
		&resp.Validity.C, &resp.Validity.U, &resp.Validity.V,
	}
	for _, d := range dst {
		if *d, err = r.scalar(c); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// MarshalToken encodes a redeemable token.
func MarshalToken(p *Params, tok *Token) []byte {
	c := p.Curve
	out := make([]byte, 4)
	binary.BigEndian.PutUint32(out, tok.KeyID)
	out = append(out, tok.Nonce...)
	out = append(out, c.Marshal(tok.S)...)
	out = append(out, c.Marshal(tok.W)...)
	out = append(out, c.Marshal(tok.Ws)...)
	return out
}

// UnmarshalToken decodes a redeemable token.
func UnmarshalToken(p *Params, b []byte) (*Token, error) {
	c := p.Curve
	r := &wireReader{buf: b}
	idBytes, err := r.take(4)
	if err != nil {
		return nil, err
	}
	tok := &Token{KeyID: binary.BigEndian.Uint32(idBytes)}
	nonce, err := r.take(NonceSize)
	if err != nil {
		return nil, err
	}
	tok.Nonce = append([]byte(nil), nonce...)
	if tok.S, err = r.point(c); err != nil {
		return nil, err
	}
	if tok.W, err = r.point(c); err != nil {
		return nil, err
	}
	if tok.Ws, err = r.point(c); err != nil {
		return nil, err
	}
	if !r.empty() {
		return nil, errs.New(errs.InvalidEncoding, "pmbtoken: trailing bytes in token")
	}
	return tok, nil
}
