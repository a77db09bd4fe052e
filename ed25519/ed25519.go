// Package ed25519 implements the Ed25519 signature scheme (RFC 8032
// §5.1), composing internal/edwards25519 and internal/scalar25519 with
// SHA-512 (spec.md §4.2/§6.2).
package ed25519

import (
	"crypto/rand"
	"crypto/sha512"

	"corecrypto.dev/errs"
	"corecrypto.dev/internal/edwards25519"
	"corecrypto.dev/internal/scalar25519"
)

const (
	PublicKeySize  = 32
	PrivateKeySize = 64 // seed (32) || public key (32), matching RFC 8032's expanded form
	SignatureSize  = 64
	SeedSize       = 32
)

// PublicKey is a 32-byte Ed25519 public key.
type PublicKey []byte

// PrivateKey is the 64-byte seed||public-key expanded private key.
type PrivateKey []byte

// Public returns the public key half of priv.
func (priv PrivateKey) Public() PublicKey {
	pub := make([]byte, PublicKeySize)
	copy(pub, priv[SeedSize:])
	return pub
}

// Seed returns the 32-byte seed priv was derived from.
func (priv PrivateKey) Seed() []byte {
	seed := make([]byte, SeedSize)
	copy(seed, priv[:SeedSize])
	return seed
}

// expandSeed computes (scalar, prefix, publicKey) from a 32-byte seed
// per RFC 8032 §5.1.5.
func expandSeed(seed []byte) (scalar [32]byte, prefix [32]byte, pub [32]byte) {
	h := sha512.Sum512(seed)
	var s [32]byte
	copy(s[:], h[:32])
	s[0] &= 248
	s[31] &= 127
	s[31] |= 64
	scalar = s
	copy(prefix[:], h[32:])

	p := edwards25519.ScalarBaseMult(scalar)
	pub = edwards25519.Encode(&p)
	return scalar, prefix, pub
}

// NewKeyFromSeed derives an expanded private key from a 32-byte seed.
func NewKeyFromSeed(seed []byte) PrivateKey {
	if len(seed) != SeedSize {
		panic("ed25519: bad seed length")
	}
	_, _, pub := expandSeed(seed)
	priv := make([]byte, PrivateKeySize)
	copy(priv[:SeedSize], seed)
	copy(priv[SeedSize:], pub[:])
	return priv
}

// GenerateKey creates a new random key pair.
func GenerateKey() (PublicKey, PrivateKey, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, nil, err
	}
	priv := NewKeyFromSeed(seed)
	return priv.Public(), priv, nil
}

// Sign computes an RFC 8032 §5.1.6 signature over message.
func Sign(priv PrivateKey, message []byte) []byte {
	seed := priv.Seed()
	scalar, prefix, pub := expandSeed(seed)

	rh := sha512.New()
	rh.Write(prefix[:])
	rh.Write(message)
	rDigest := rh.Sum(nil)
	var rScalarWide [64]byte
	copy(rScalarWide[:], rDigest)
	rScalar := scalar25519.Reduce(&rScalarWide)

	R := edwards25519.ScalarBaseMult(rScalar)
	REnc := edwards25519.Encode(&R)

	kh := sha512.New()
	kh.Write(REnc[:])
	kh.Write(pub[:])
	kh.Write(message)
	kDigest := kh.Sum(nil)
	var kWide [64]byte
	copy(kWide[:], kDigest)
	k := scalar25519.Reduce(&kWide)

	S := scalar25519.MulAdd(&k, &scalar, &rScalar)

	out := make([]byte, SignatureSize)
	copy(out[:32], REnc[:])
	copy(out[32:], S[:])
	return out
}

// Verify checks an RFC 8032 §5.1.7 signature, returning an error
// describing why verification failed rather than a bare bool, per
// spec.md §7's error model.
func Verify(pub PublicKey, message, sig []byte) error {
	if len(pub) != PublicKeySize {
		return errs.New(errs.InvalidEncoding, "ed25519: bad public key length")
	}
	if len(sig) != SignatureSize {
		return errs.New(errs.InvalidEncoding, "ed25519: bad signature length")
	}
	var sBytes [32]byte
	copy(sBytes[:], sig[32:])
	if !scalar25519.IsCanonical(&sBytes) {
		return errs.New(errs.InvalidEncoding, "ed25519: S is not canonical")
	}

	var pubArr [32]byte
	copy(pubArr[:], pub)
	A, err := edwards25519.Decode(pubArr)
	if err != nil {
		return errs.New(errs.NotOnCurve, "ed25519: public key not on curve")
	}

	var rArr [32]byte
	copy(rArr[:], sig[:32])
	R, err := edwards25519.Decode(rArr)
	if err != nil {
		return errs.New(errs.NotOnCurve, "ed25519: R not on curve")
	}

	kh := sha512.New()
	kh.Write(sig[:32])
	kh.Write(pub)
	kh.Write(message)
	kDigest := kh.Sum(nil)
	var kWide [64]byte
	copy(kWide[:], kDigest)
	k := scalar25519.Reduce(&kWide)

	negA := edwards25519.Negate(&A)
	checkR := edwards25519.DoubleScalarMultBaseVartime(k, negA, sBytes)

	if !edwards25519.Equal(&checkR, &R) {
		return errs.New(errs.ProofInvalid, "ed25519: signature verification failed")
	}
	return nil
}
