package eoncompose

import (
	"io"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Proof is produced by a ProvingSystem and only interpreted by the same system.
type Proof interface {
	io.WriterTo
	io.ReaderFrom
}

// ProvingSystem runs the argument over composed keys.
type ProvingSystem interface {
	NewProof() Proof
	Prove(pk *ProvingKey) (Proof, error)
	Verify(vk *VerificationKey, vck *VerifierCommitmentKey, proof Proof, publicInputs []fr.Element) error
}

// Flavor binds the parameters a circuit family is composed with.
type Flavor struct {
	Name             string
	Curve            ecc.ID
	NumReservedGates int
	BlindingMargin   int
	System           ProvingSystem
}
