package pmbtoken

import (
	"corecrypto.dev/internal/ctchoice"
	"corecrypto.dev/internal/ecnist"
)

// dleqProof proves knowledge of (x, y) such that P = x*G + y*H and
// W = x*T + y*S for the same pair, transmitted as (c, u, v): the
// verifier reconstructs both commitments from the responses and
// re-derives the challenge.
type dleqProof struct {
	C, U, V scalar
}

// dleqORProof proves that one of two such statements holds, without
// revealing which branch: per-branch (c, u, v) with c0 + c1 bound to
// the joint transcript hash.
type dleqORProof struct {
	C0, U0, V0 scalar
	C1, U1, V1 scalar
}

// commitGH computes k0*G + k1*H in constant time.
func commitGH(p *Params, k0, k1 scalar) ecnist.Affine {
	c := p.Curve
	return c.ToAffine(c.AddCT(
		c.ScalarBaseMult(k0),
		c.ScalarMult(k1, c.FromAffine(p.H)),
	))
}

// commitTS computes k0*T + k1*S in constant time.
func commitTS(p *Params, k0, k1 scalar, t, s ecnist.Affine) ecnist.Affine {
	c := p.Curve
	return c.ToAffine(c.AddCT(
		c.ScalarMult(k0, c.FromAffine(t)),
		c.ScalarMult(k1, c.FromAffine(s)),
	))
}

// simCommit reconstructs the commitment a simulated (or verifying)
// branch implies: u*P1 + v*P2 - ch*P3, in constant time, since the
// prover calls it with a secret-selected P3.
func simCommit(p *Params, u, v, ch scalar, p1, p2, p3 ecnist.Affine) ecnist.Affine {
	c := p.Curve
	negCh := scalarSub(c, scalar(c.Order.ToBytes(c.Order.New())), ch)
	sum := c.AddCT(
		c.ScalarMult(u, c.FromAffine(p1)),
		c.ScalarMult(v, c.FromAffine(p2)),
	)
	sum = c.AddCT(sum, c.ScalarMult(negCh, c.FromAffine(p3)))
	return c.ToAffine(sum)
}

// simCommitVartime is simCommit for verification, where every operand
// is public.
func simCommitVartime(p *Params, u, v, ch scalar, p1, p2, p3 ecnist.Affine) ecnist.Affine {
	c := p.Curve
	sum := c.DoubleScalarMultPublic(u, c.FromAffine(p1), v, c.FromAffine(p2))
	chP := c.ToAffine(c.ScalarMultPublic(ch, c.FromAffine(p3)))
	sum = c.AddVartime(sum, c.FromAffine(c.NegateAffine(chP)))
	return c.ToAffine(sum)
}

// proveDLEQ builds the validity-pair proof: the issuer shows the same
// (xs, ys) behind pubs also produced W_s from (T, S). Issuer-side;
// every group operation is constant-time.
func proveDLEQ(p *Params, t, s, pub, w ecnist.Affine, x, y scalar) (*dleqProof, error) {
	c := p.Curve
	k0, err := randomScalar(c)
	if err != nil {
		return nil, err
	}
	k1, err := randomScalar(c)
	if err != nil {
		return nil, err
	}
	a := commitGH(p, k0, k1)
	b := commitTS(p, k0, k1, t, s)
	ch := p.hashC("DLEQ", []ecnist.Affine{p.H, t, s, pub, w, a, b}, nil)
	u := scalarAdd(c, k0, scalarMul(c, ch, x))
	v := scalarAdd(c, k1, scalarMul(c, ch, y))
	return &dleqProof{C: ch, U: u, V: v}, nil
}

// verifyDLEQ checks a validity-pair proof. Public inputs only.
func verifyDLEQ(p *Params, t, s, pub, w ecnist.Affine, proof *dleqProof) bool {
	g := p.generator()
	a := simCommitVartime(p, proof.U, proof.V, proof.C, g, p.H, pub)
	b := simCommitVartime(p, proof.U, proof.V, proof.C, t, s, w)
	ch := p.hashC("DLEQ", []ecnist.Affine{p.H, t, s, pub, w, a, b}, nil)
	return scalarEqual(p.Curve, ch, proof.C)
}

// proveDLEQOR builds the metadata proof: one of pub0/pub1 is backed by
// the (x, y) that produced W from (T, S). The real branch is selected
// by the private bit; the other branch is simulated, and every
// selection between the two happens by mask so the bit never reaches a
// branch or a memory index.
func proveDLEQOR(p *Params, t, s ecnist.Affine, pub [2]ecnist.Affine, w ecnist.Affine, x, y scalar, bit int) (*dleqORProof, error) {
	c := p.Curve
	bitChoice := ctchoice.Bit(uint64(bit))
	pubFake := selectAffine(c, bitChoice, pub[1], pub[0])

	cFake, err := randomScalar(c)
	if err != nil {
		return nil, err
	}
	uFake, err := randomScalar(c)
	if err != nil {
		return nil, err
	}
	vFake, err := randomScalar(c)
	if err != nil {
		return nil, err
	}
	g := p.generator()
	aFake := simCommit(p, uFake, vFake, cFake, g, p.H, pubFake)
	bFake := simCommit(p, uFake, vFake, cFake, t, s, w)

	k0, err := randomScalar(c)
	if err != nil {
		return nil, err
	}
	k1, err := randomScalar(c)
	if err != nil {
		return nil, err
	}
	aReal := commitGH(p, k0, k1)
	bReal := commitTS(p, k0, k1, t, s)

	a0 := selectAffine(c, bitChoice, aReal, aFake)
	b0 := selectAffine(c, bitChoice, bReal, bFake)
	a1 := selectAffine(c, bitChoice, aFake, aReal)
	b1 := selectAffine(c, bitChoice, bFake, bReal)

	cTotal := p.hashC("DLEQOR", []ecnist.Affine{p.H, t, s, pub[0], pub[1], w, a0, b0, a1, b1}, nil)
	cReal := scalarSub(c, cTotal, cFake)
	uReal := scalarAdd(c, k0, scalarMul(c, cReal, x))
	vReal := scalarAdd(c, k1, scalarMul(c, cReal, y))

	return &dleqORProof{
		C0: scalarSelect(bitChoice, cReal, cFake),
		U0: scalarSelect(bitChoice, uReal, uFake),
		V0: scalarSelect(bitChoice, vReal, vFake),
		C1: scalarSelect(bitChoice, cFake, cReal),
		U1: scalarSelect(bitChoice, uFake, uReal),
		V1: scalarSelect(bitChoice, vFake, vReal),
	}, nil
}

// verifyDLEQOR checks a metadata proof. Public inputs only.
func verifyDLEQOR(p *Params, t, s ecnist.Affine, pub [2]ecnist.Affine, w ecnist.Affine, proof *dleqORProof) bool {
	c := p.Curve
	g := p.generator()
	a0 := simCommitVartime(p, proof.U0, proof.V0, proof.C0, g, p.H, pub[0])
	b0 := simCommitVartime(p, proof.U0, proof.V0, proof.C0, t, s, w)
	a1 := simCommitVartime(p, proof.U1, proof.V1, proof.C1, g, p.H, pub[1])
	b1 := simCommitVartime(p, proof.U1, proof.V1, proof.C1, t, s, w)
	cTotal := p.hashC("DLEQOR", []ecnist.Affine{p.H, t, s, pub[0], pub[1], w, a0, b0, a1, b1}, nil)
	return scalarEqual(c, cTotal, scalarAdd(c, proof.C0, proof.C1))
}
