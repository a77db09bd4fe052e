// Package corecrypto is the root of a self-contained cryptographic
// primitives core: constant-time big-integer and elliptic-curve
// arithmetic for the NIST P-256/P-384/P-521 curves and the
// Curve25519/Edwards25519 pair, a ChaCha20 stream cipher, a
// content-addressed buffer pool, and the PMBToken and VOPRF anonymous-
// token protocols built on top of them.
//
// Curve is the sum-type dispatch spec.md's DESIGN NOTES recommend in
// place of a C-style method-table-per-curve: callers that need to name
// a curve generically (logging, protocol negotiation) use this enum
// rather than a *ecnist.Curve pointer, which is reserved for the NIST
// family and doesn't cover Curve25519/Edwards25519.
package corecrypto

// Curve identifies one of the five curves this module implements.
type Curve int

const (
	_ Curve = iota
	P256
	P384
	P521
	Curve25519
	Edwards25519
)

func (c Curve) String() string {
	switch c {
	case P256:
		return "P-256"
	case P384:
		return "P-384"
	case P521:
		return "P-521"
	case Curve25519:
		return "Curve25519"
	case Edwards25519:
		return "Edwards25519"
	default:
		return "unknown curve"
	}
}
