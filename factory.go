package eoncompose

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Prover shares the proving key of the composer that created it.
type Prover struct {
	pk     *ProvingKey
	system ProvingSystem
}

func (me *Prover) ProvingKey() *ProvingKey {
	return me.pk
}

func (me *Prover) CommitmentKey() *CommitmentKey {
	return me.pk.CommitmentKey
}

func (me *Prover) PublicInputs() []fr.Element {
	return me.pk.Witness.PublicInputs
}

func (me *Prover) Prove() (Proof, error) {
	return me.system.Prove(me.pk)
}

// Verifier shares the verification key of the composer that created it.
type Verifier struct {
	vk     *VerificationKey
	vck    *VerifierCommitmentKey
	system ProvingSystem
}

func (me *Verifier) VerificationKey() *VerificationKey {
	return me.vk
}

func (me *Verifier) VerifierCommitmentKey() *VerifierCommitmentKey {
	return me.vck
}

// NewProof returns an empty proof to deserialize into.
func (me *Verifier) NewProof() Proof {
	return me.system.NewProof()
}

func (me *Verifier) Verify(proof Proof, publicInputs []fr.Element) error {
	if uint64(len(publicInputs)) != me.vk.NbPublicInputs {
		return fmt.Errorf("%w: %d public inputs, expected %d", ErrInvalidProof, len(publicInputs), me.vk.NbPublicInputs)
	}
	return me.system.Verify(me.vk, me.vck, proof, publicInputs)
}
