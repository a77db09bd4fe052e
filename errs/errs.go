// Package errs defines the error kinds surfaced by the primitives core.
//
// Every failure path in this module returns one of these kinds, wrapped
// with a short message, so callers can dispatch on errors.Is rather than
// string matching.
package errs

import "errors"

// Kind tags an error with the category of failure spec.md's error table
// describes. Kind values are comparable with errors.Is against the
// sentinel errors below.
type Kind int

const (
	_ Kind = iota
	// InvalidEncoding: point or scalar bytes are not in canonical form,
	// a signature's S value is out of range, or a wire frame is truncated.
	InvalidEncoding
	// NotOnCurve: decoded affine coordinates fail the curve equation.
	NotOnCurve
	// PointAtInfinity: caller requested affine coordinates of the identity.
	PointAtInfinity
	// SmallSubgroup: an X25519 shared secret came out all-zero.
	SmallSubgroup
	// ProofInvalid: a DLEQ/DLEQOR challenge did not match on recomputation.
	ProofInvalid
	// ValidityCheckFailed: redemption's xs*T+ys*S != Ws (or VOPRF analogue).
	ValidityCheckFailed
	// BadPrivateBit: redemption matched neither or both of W0/W1.
	BadPrivateBit
	// AllocationFailed: memory exhaustion building a temporary table.
	AllocationFailed
	// InternalInvariant: unreachable in correct use.
	InternalInvariant
)

func (k Kind) String() string {
	switch k {
	case InvalidEncoding:
		return "invalid encoding"
	case NotOnCurve:
		return "not on curve"
	case PointAtInfinity:
		return "point at infinity"
	case SmallSubgroup:
		return "small subgroup"
	case ProofInvalid:
		return "proof invalid"
	case ValidityCheckFailed:
		return "validity check failed"
	case BadPrivateBit:
		return "bad private bit"
	case AllocationFailed:
		return "allocation failed"
	case InternalInvariant:
		return "internal invariant violated"
	default:
		return "unknown error kind"
	}
}

// Error pairs a Kind with a message. It implements error and unwraps to
// the Kind's sentinel so errors.Is(err, errs.NotOnCurve) works.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Unwrap() error { return sentinels[e.Kind] }

var sentinels = map[Kind]error{
	InvalidEncoding:     errors.New("invalid encoding"),
	NotOnCurve:          errors.New("not on curve"),
	PointAtInfinity:     errors.New("point at infinity"),
	SmallSubgroup:       errors.New("small subgroup"),
	ProofInvalid:        errors.New("proof invalid"),
	ValidityCheckFailed: errors.New("validity check failed"),
	BadPrivateBit:       errors.New("bad private bit"),
	AllocationFailed:    errors.New("allocation failed"),
	InternalInvariant:   errors.New("internal invariant violated"),
}

// New builds an *Error of the given kind with a message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Is lets errors.Is(err, errs.NotOnCurve) style checks work against the
// Kind sentinels directly, without requiring callers to construct an
// *Error to compare against.
func Is(err error, kind Kind) bool {
	return errors.Is(err, sentinels[kind])
}
