package pmbtoken

import "corecrypto.dev/internal/ecnist"

// IssuerKey holds the issuer's six secret scalars: the two
// metadata-bit pairs (x0,y0)/(x1,y1) and the validity pair (xs,ys).
type IssuerKey struct {
	X0, Y0 scalar
	X1, Y1 scalar
	Xs, Ys scalar
}

// PublicKey holds the three public commitments pub_b = x_b*G + y_b*H
// and the key identifier clients store alongside issued tokens.
type PublicKey struct {
	KeyID            uint32
	Pub0, Pub1, Pubs ecnist.Affine
}

// commit computes x*G + y*H in constant time.
func commit(p *Params, x, y scalar) ecnist.Affine {
	c := p.Curve
	return c.ToAffine(c.AddCT(
		c.ScalarBaseMult(x),
		c.ScalarMult(y, c.FromAffine(p.H)),
	))
}

// GenerateKey creates a fresh issuer key: six uniform scalars and
// their three public commitments.
func GenerateKey(p *Params, keyID uint32) (*IssuerKey, *PublicKey, error) {
	var scalars [6]scalar
	for i := range scalars {
		s, err := randomScalar(p.Curve)
		if err != nil {
			return nil, nil, err
		}
		scalars[i] = s
	}
	key := &IssuerKey{
		X0: scalars[0], Y0: scalars[1],
		X1: scalars[2], Y1: scalars[3],
		Xs: scalars[4], Ys: scalars[5],
	}
	pub := &PublicKey{
		KeyID: keyID,
		Pub0:  commit(p, key.X0, key.Y0),
		Pub1:  commit(p, key.X1, key.Y1),
		Pubs:  commit(p, key.Xs, key.Ys),
	}
	return key, pub, nil
}
