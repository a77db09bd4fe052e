// Package pmbtoken implements the private-metadata-bit anonymous
// token protocol over P-384: the issuer holds six secret scalars in
// two metadata key pairs plus a validity pair, signs blinded token
// requests under the pair selected by a private bit, and proves
// honesty with a batched DLEQ proof for the validity pair and a
// batched DLEQOR proof that hides which metadata pair was used. The
// bit is recoverable only by the issuer, at redemption.
package pmbtoken

import (
	"crypto/sha512"
	"encoding/binary"
	"sync"

	"corecrypto.dev/hash2curve"
	"corecrypto.dev/internal/ecnist"
)

// NonceSize is the token nonce width: 64 bytes, hashed to the curve to
// form the token point.
const NonceSize = 64

// Params are the protocol's public parameters: the curve and the
// auxiliary generator H, a curve constant derived by hash-to-curve of
// a fixed label so no trusted setup is needed.
type Params struct {
	Curve *ecnist.Curve
	Z     []uint64
	H     ecnist.Affine
}

// swuZ is the simplified-SWU non-square constant Z = -4 shared by the
// a=-3 curves in scope (RFC 9380 §8).
func swuZ(c *ecnist.Curve) []uint64 {
	four := c.Field.FromBytes([]byte{4})
	z := c.Field.New()
	c.Field.Neg(z, four)
	return z
}

var (
	paramsOnce sync.Once
	params     *Params
	paramsErr  error
)

// Instance returns the process-wide P-384 parameter set, derived
// exactly once.
func Instance() (*Params, error) {
	paramsOnce.Do(func() {
		c := ecnist.P384()
		z := swuZ(c)
		h, err := hash2curve.HashToCurve(c, z, []byte("generator"), []byte("PMBTokens-P384-H"))
		if err != nil {
			paramsErr = err
			return
		}
		params = &Params{Curve: c, Z: z, H: h}
	})
	return params, paramsErr
}

// hashT maps a token nonce to its curve point T = H_t(t).
func (p *Params) hashT(t []byte) (ecnist.Affine, error) {
	return hash2curve.HashToCurve(p.Curve, p.Z, t, []byte("PMBTokens-P384-Ht"))
}

// hashS maps (T', s) to the per-token nonce point S' = H_s(T', s).
func (p *Params) hashS(tp ecnist.Affine, s []byte) (ecnist.Affine, error) {
	msg := append(p.Curve.Marshal(tp), s...)
	return hash2curve.HashToCurve(p.Curve, p.Z, msg, []byte("PMBTokens-P384-Hs"))
}

// hashC derives a Fiat-Shamir challenge scalar from a labeled
// transcript: SHA-512 over the length-prefixed label, each point's
// uncompressed encoding, and any trailing bytes, reduced widely mod
// the group order.
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

// batchChallenge derives the i-th batching coefficient
// e_i = H_c("DLEQ BATCH" || transcript || i).
func (p *Params) batchChallenge(transcript []ecnist.Affine, i int) scalar {
	var idx [2]byte
	binary.BigEndian.PutUint16(idx[:], uint16(i))
	return p.hashC("DLEQ BATCH", transcript, idx[:])
}

// generator returns G in affine form.
func (p *Params) generator() ecnist.Affine {
	return p.Curve.ToAffine(p.Curve.Generator())
}
