package plonk

import (
	"fmt"
	"math/big"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
	"github.com/consensys/gnark/logger"

	eon "github.com/eon-protocol/eoncompose"
)

// Verify checks proof against vk and the public inputs. Every failure wraps
// eoncompose.ErrInvalidProof.
func Verify(vk *eon.VerificationKey, vck *eon.VerifierCommitmentKey, proof *Proof, publicInputs []fr.Element) error {
	log := logger.Logger().With().Str("verifier", "plonk").Uint64("domain", vk.DomainSize).Logger()
	start := time.Now()

	keyDigests := vk.Commitments()
	if len(proof.BatchedProof.ClaimedValues) != NB_PROOF_OPENINGS+len(keyDigests) {
		return fmt.Errorf("%w: %d claimed values, expected %d", eon.ErrInvalidProof, len(proof.BatchedProof.ClaimedValues), NB_PROOF_OPENINGS+len(keyDigests))
	}
	if uint64(len(publicInputs)) != vk.NbPublicInputs {
		return fmt.Errorf("%w: %d public inputs, expected %d", eon.ErrInvalidProof, len(publicInputs), vk.NbPublicInputs)
	}

	fs := NewTranscript(CID_GAMMA, CID_BETA, CID_ALPHA, CID_ZETA)
	if err := bindPublicData(fs, CID_GAMMA, vk.DomainSize, keyDigests, vk.RecursiveProofPublicInputIndices, publicInputs); err != nil {
		return err
	}
	gamma, err := deriveRandomness(fs, CID_GAMMA, &proof.LRO[0], &proof.LRO[1], &proof.LRO[2])
	if err != nil {
		return err
	}
	beta, err := fs.ComputeChallenge(CID_BETA)
	if err != nil {
		return err
	}
	alpha, err := deriveRandomness(fs, CID_ALPHA, &proof.Z)
	if err != nil {
		return err
	}
	zeta, err := deriveRandomness(fs, CID_ZETA, &proof.H[0], &proof.H[1], &proof.H[2])
	if err != nil {
		return err
	}

	generator, err := vk.Generator()
	if err != nil {
		return err
	}
	digests := make([]kzg.Digest, 0, NB_PROOF_OPENINGS+len(keyDigests))
	digests = append(digests, proof.LRO[0], proof.LRO[1], proof.LRO[2], proof.Z, proof.H[0], proof.H[1], proof.H[2])
	digests = append(digests, keyDigests...)
	if err := vck.BatchVerify(digests, proof.BatchedProof, zeta); err != nil {
		return fmt.Errorf("%w: batch opening: %v", eon.ErrInvalidProof, err)
	}
	var zetaShifted fr.Element
	zetaShifted.Mul(&zeta, &generator)
	if err := vck.Verify(proof.Z, proof.ZShiftedOpening, zetaShifted); err != nil {
		return fmt.Errorf("%w: shifted opening: %v", eon.ErrInvalidProof, err)
	}

	n := vk.DomainSize
	one := fr.One()
	var zh, nInv fr.Element
	zh.Exp(zeta, new(big.Int).SetUint64(n)).Sub(&zh, &one)
	if zh.IsZero() {
		return fmt.Errorf("%w: ζ is in the domain", eon.ErrInvalidProof)
	}
	nInv.SetUint64(n).Inverse(&nInv)

	// L₁(ζ) = (ζⁿ-1)/(n(ζ-1)), PI(ζ) = Σ -xᵢ·ωⁱ(ζⁿ-1)/(n(ζ-ωⁱ))
	dens := make([]fr.Element, len(publicInputs)+1)
	dens[0].Sub(&zeta, &one)
	omega := one
	for i := range publicInputs {
		dens[i+1].Sub(&zeta, &omega)
		omega.Mul(&omega, &generator)
	}
	dens = fr.BatchInvert(dens)
	var zhOverN, l1, pi, t fr.Element
	zhOverN.Mul(&zh, &nInv)
	l1.Mul(&zhOverN, &dens[0])
	omega = one
	for i := range publicInputs {
		t.Mul(&omega, &zhOverN).Mul(&t, &dens[i+1]).Mul(&t, &publicInputs[i])
		pi.Sub(&pi, &t)
		omega.Mul(&omega, &generator)
	}

	v := proof.BatchedProof.ClaimedValues
	a, b, c, z, h1, h2, h3 := v[0], v[1], v[2], v[3], v[4], v[5], v[6]
	ql, qr, qo, qm, qc := v[7], v[8], v[9], v[10], v[11]
	s1, s2, s3 := v[12], v[13], v[14]
	zs := proof.ZShiftedOpening.ClaimedValue

	var gate fr.Element
	gate.Mul(&ql, &a)
	t.Mul(&qr, &b)
	gate.Add(&gate, &t)
	t.Mul(&qo, &c)
	gate.Add(&gate, &t)
	t.Mul(&a, &b).Mul(&t, &qm)
	gate.Add(&gate, &t)
	gate.Add(&gate, &qc).Add(&gate, &pi)

	shifts := eon.CosetShifts()
	w := [3]fr.Element{a, b, c}
	sig := [3]fr.Element{s1, s2, s3}
	id, sg := z, zs
	for j := range w {
		t.Mul(&shifts[j], &zeta).Mul(&t, &beta).Add(&t, &w[j]).Add(&t, &gamma)
		id.Mul(&id, &t)
		t.Mul(&sig[j], &beta).Add(&t, &w[j]).Add(&t, &gamma)
		sg.Mul(&sg, &t)
	}
	var perm, st, lhs fr.Element
	perm.Sub(&id, &sg).Mul(&perm, &alpha)
	st.Sub(&z, &one).Mul(&st, &l1).Mul(&st, &alpha).Mul(&st, &alpha)
	lhs.Add(&gate, &perm).Add(&lhs, &st)

	// Z_H(ζ)·(h1 + ζⁿ⁺²·h2 + ζ²⁽ⁿ⁺²⁾·h3)
	var zetaPiece, rhs fr.Element
	zetaPiece.Exp(zeta, new(big.Int).SetUint64(n+HPIECE_EXTRA))
	rhs.Mul(&h3, &zetaPiece).Add(&rhs, &h2).Mul(&rhs, &zetaPiece).Add(&rhs, &h1).Mul(&rhs, &zh)

	if !lhs.Equal(&rhs) {
		return fmt.Errorf("%w: algebraic relation does not hold", eon.ErrInvalidProof)
	}
	log.Debug().Dur("took", time.Since(start)).Msg("verifier done")
	return nil
}
