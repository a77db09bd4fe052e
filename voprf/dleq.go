package voprf

import "corecrypto.dev/internal/ecnist"

// dleqProof proves knowledge of x such that pub = x*G and W = x*T,
// transmitted as (c, u): the verifier reconstructs both commitments
// from the response and re-derives the challenge.
type dleqProof struct {
	C, U scalar
}

// proveDLEQ builds the evaluation proof. Issuer-side; the nonce and
// secret scalar flow only through constant-time group operations.
func proveDLEQ(p *Params, t, pub, w ecnist.Affine, x scalar) (*dleqProof, error) {
	c := p.Curve
	k, err := randomScalar(c)
	if err != nil {
		return nil, err
	}
	a := c.ToAffine(c.ScalarBaseMult(k))
	b := c.ToAffine(c.ScalarMult(k, c.FromAffine(t)))
	ch := p.hashC("DLEQ", []ecnist.Affine{t, pub, w, a, b}, nil)
	u := scalarAdd(c, k, scalarMul(c, ch, x))
	return &dleqProof{C: ch, U: u}, nil
}

// verifyDLEQ checks an evaluation proof: reconstruct
// A = u*G - c*pub and B = u*T - c*W, then compare the re-derived
// challenge. Public inputs only, so everything runs variable time.
func verifyDLEQ(p *Params, t, pub, w ecnist.Affine, proof *dleqProof) bool {
	c := p.Curve
	g := p.generator()

	uG := c.ScalarMultPublic(proof.U, c.FromAffine(g))
	cPub := c.ToAffine(c.ScalarMultPublic(proof.C, c.FromAffine(pub)))
	a := c.ToAffine(c.AddVartime(uG, c.FromAffine(c.NegateAffine(cPub))))

	uT := c.ScalarMultPublic(proof.U, c.FromAffine(t))
	cW := c.ToAffine(c.ScalarMultPublic(proof.C, c.FromAffine(w)))
	b := c.ToAffine(c.AddVartime(uT, c.FromAffine(c.NegateAffine(cW))))

	ch := p.hashC("DLEQ", []ecnist.Affine{t, pub, w, a, b}, nil)
	return scalarEqual(c, ch, proof.C)
}
