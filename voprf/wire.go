package voprf

import (
	"encoding/binary"

	"corecrypto.dev/errs"
	"corecrypto.dev/internal/ecnist"
)

// Wire formats mirror package pmbtoken's: 2-byte big-endian counts,
// uncompressed points, fixed-width big-endian scalars, and the DLEQ
// proof at the tail of the issuance response behind a 2-byte length
// prefix.

type wireReader struct {
	buf []byte
}

func (r *wireReader) take(n int) ([]byte, error) {
	if len(r.buf) < n {
		return nil, errs.New(errs.InvalidEncoding, "voprf: truncated message")
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
		return ecnist.Affine{}, errs.New(errs.NotOnCurve, "voprf: point is malformed or off the curve")
	}
	return pt, nil
}

func (r *wireReader) scalar(c *ecnist.Curve) (scalar, error) {
	b, err := r.take(c.ByteLen)
	if err != nil {
		return nil, err
	}
	s := append(scalar(nil), b...)
	canon := c.Order.ToBytes(c.Order.FromBytes(s))
	for i := range canon {
		if canon[i] != s[i] {
			return nil, errs.New(errs.InvalidEncoding, "voprf: scalar out of range")
		}
	}
	return s, nil
}

// MarshalRequest encodes a batch of blinded points.
func MarshalRequest(p *Params, tps []ecnist.Affine) []byte {
	out := make([]byte, 2, 2+len(tps)*(1+2*p.Curve.ByteLen))
	binary.BigEndian.PutUint16(out, uint16(len(tps)))
	for _, tp := range tps {
		out = append(out, p.Curve.Marshal(tp)...)
	}
	return out
}

// UnmarshalRequest decodes a batch of blinded points.
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
	if len(r.buf) != 0 {
		return nil, errs.New(errs.InvalidEncoding, "voprf: trailing bytes in request")
	}
	return tps, nil
}

// MarshalResponse encodes an issuance response.
func MarshalResponse(p *Params, resp *IssuanceResponse) []byte {
	c := p.Curve
	out := make([]byte, 2)
	binary.BigEndian.PutUint16(out, uint16(len(resp.Wps)))
	for _, wp := range resp.Wps {
		out = append(out, c.Marshal(wp)...)
	}
	proof := append(append([]byte(nil), resp.Proof.C...), resp.Proof.U...)
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
	resp := &IssuanceResponse{Wps: make([]ecnist.Affine, count)}
	for i := range resp.Wps {
		if resp.Wps[i], err = r.point(c); err != nil {
			return nil, err
		}
	}
	proofLen, err := r.uint16()
	if err != nil {
		return nil, err
	}
	if proofLen != 2*c.ByteLen || len(r.buf) != proofLen {
		return nil, errs.New(errs.InvalidEncoding, "voprf: bad proof framing")
	}
	if resp.Proof.C, err = r.scalar(c); err != nil {
		return nil, err
	}
	if resp.Proof.U, err = r.scalar(c); err != nil {
		return nil, err
	}
	return resp, nil
}

// MarshalToken encodes a redeemable token.
func MarshalToken(p *Params, tok *Token) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint32(out, tok.KeyID)
	out = append(out, tok.Nonce...)
	out = append(out, p.Curve.Marshal(tok.N)...)
	return out
}

// UnmarshalToken decodes a redeemable token.
func UnmarshalToken(p *Params, b []byte) (*Token, error) {
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
	if tok.N, err = r.point(p.Curve); err != nil {
		return nil, err
	}
	if len(r.buf) != 0 {
		return nil, errs.New(errs.InvalidEncoding, "voprf: trailing bytes in token")
	}
	return tok, nil
}
