package plonk

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	eon "github.com/eon-protocol/eoncompose"
)

// System binds this package to a composer flavor.
type System struct{}

func (System) NewProof() eon.Proof {
	return new(Proof)
}

func (System) Prove(pk *eon.ProvingKey) (eon.Proof, error) {
	proof, err := Prove(pk)
	if err != nil {
		return nil, err
	}
	return proof, nil
}

func (System) Verify(vk *eon.VerificationKey, vck *eon.VerifierCommitmentKey, proof eon.Proof, publicInputs []fr.Element) error {
	p, ok := proof.(*Proof)
	if !ok {
		return fmt.Errorf("%w: unexpected proof type %T", eon.ErrInvalidProof, proof)
	}
	return Verify(vk, vck, p, publicInputs)
}

// StandardFlavor keeps one row free at the end of every domain.
func StandardFlavor() eon.Flavor {
	return eon.Flavor{
		Name:             "standard",
		Curve:            ecc.BLS12_381,
		NumReservedGates: 1,
		BlindingMargin:   eon.BLINDING_MARGIN,
		System:           System{},
	}
}

// FibFlavor is the flavor of the circuits/fib trace circuits.
func FibFlavor() eon.Flavor {
	return eon.Flavor{
		Name:             "fib",
		Curve:            ecc.BLS12_381,
		NumReservedGates: 0,
		BlindingMargin:   eon.BLINDING_MARGIN,
		System:           System{},
	}
}
