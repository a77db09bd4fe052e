package ecnist

import "sync"

func hexBytes(s string) []byte {
	out := make([]byte, len(s)/2)
	for i := range out {
		var hi, lo byte
		hi = fromHexDigit(s[i*2])
		lo = fromHexDigit(s[i*2+1])
		out[i] = hi<<4 | lo
	}
	return out
}

func fromHexDigit(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}

var (
	p256Once sync.Once
	p256Curve *Curve

	p384Once sync.Once
	p384Curve *Curve

	p521Once sync.Once
	p521Curve *Curve
)

// P256 returns the process-wide NIST P-256 curve instance.
func P256() *Curve {
	p256Once.Do(func() {
		p256Curve = NewCurve(
			hexBytes("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff"),
			hexBytes("ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551"),
			hexBytes("5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b"),
			hexBytes("6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296"),
			hexBytes("4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5"),
		)
	})
	return p256Curve
}

// P384 returns the process-wide NIST P-384 curve instance.
func P384() *Curve {
	p384Once.Do(func() {
		p384Curve = NewCurve(
			hexBytes("fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffeffffffff0000000000000000ffffffff"),
			hexBytes("ffffffffffffffffffffffffffffffffffffffffffffffffc7634d81f4372ddf581a0db248b0a77aecec196accc52973"),
			hexBytes("b3312fa7e23ee7e4988e056be3f82d19181d9c6efe8141120314088f5013875ac656398d8a2ed19d2a85c8edd3ec2aef"),
			hexBytes("aa87ca22be8b05378eb1c71ef320ad746e1d3b628ba79b9859f741e082542a385502f25dbf55296c3a545e3872760ab7"),
			hexBytes("3617de4a96262c6f5d9e98bf9292dc29f8f41dbd289a147ce9da3113b5f0b8c00a60b1ce1d7e819d7a431d7c90ea0e5f"),
		)
	})
	return p384Curve
}

// P521 returns the process-wide NIST P-521 curve instance.
func P521() *Curve {
	p521Once.Do(func() {
		p521Curve = NewCurve(
			hexBytes("01ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"),
			hexBytes("01fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffa51868783bf2f966b7fcc0148f709a5d03bb5c9b8899c47aebb6fb71e91386409"),
			hexBytes("0051953eb9618e1c9a1f929a21a0b68540eea2da725b99b315f3b8b489918ef109e156193951ec7e937b1652c0bd3bb1bf073573df883d2c34f1ef451fd46b503f00"),
			hexBytes("00c6858e06b70404e9cd9e3ecb662395b4429c648139053fb521f828af606b4d3dbaa14b5e77efe75928fe1dc127a2ffa8de3348b3c1856a429bf97e7e31c2e5bd66"),
			hexBytes("011839296a789a3bc0045c8a5fb42c7d1bd998f54449579b446817afbd17273e662c97ee72995ef42640c550b9013fad0761353c7086a272c24088be94769fd16650"),
		)
	})
	return p521Curve
}
