package eoncompose

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
	"golang.org/x/sync/errgroup"

	"github.com/eon-protocol/eoncompose/circuit"
)

// CheckKeyConsistency recommits every polynomial of pk with its commitment key
// and compares the result, and every shared field, against vk.
func CheckKeyConsistency(pk *ProvingKey, vk *VerificationKey) error {
	switch {
	case pk.CircuitSize != vk.CircuitSize:
		return WrapCommitmentMismatchError("circuit_size")
	case pk.DomainSize() != vk.DomainSize:
		return WrapCommitmentMismatchError("domain_size")
	case pk.NbPublicInputs != vk.NbPublicInputs:
		return WrapCommitmentMismatchError("nb_public_inputs")
	case !pk.RecursiveProofLinkage.Equal(vk.RecursiveProofLinkage):
		return WrapCommitmentMismatchError("recursive_proof_linkage")
	case len(pk.Tables) != len(vk.Tables):
		return WrapCommitmentMismatchError("tables")
	case pk.CommitmentKey == nil:
		return fmt.Errorf("%w: proving key has no commitment key", ErrCommitmentMismatch)
	}
	for i := range pk.Tables {
		if pk.Tables[i].Tag != vk.Tables[i].Tag {
			return WrapCommitmentMismatchError("tables[" + pk.Tables[i].Tag + "]")
		}
	}

	polys := pk.Polynomials()
	want := vk.Commitments()
	got := make([]kzg.Digest, len(polys))
	var g errgroup.Group
	for i := range polys {
		g.Go(func() error {
			var err error
			got[i], err = pk.CommitmentKey.Commit(polys[i])
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i := range got {
		if !got[i].Equal(&want[i]) {
			return WrapCommitmentMismatchError(commitmentName(pk, i))
		}
	}
	return nil
}

func commitmentName(pk *ProvingKey, i int) string {
	switch {
	case i < NUM_SELECTORS:
		return circuit.SelectorNames[i]
	case i < NUM_SELECTORS+NUM_WIRES:
		return SigmaNames[i-NUM_SELECTORS]
	default:
		return pk.Tables[i-NUM_SELECTORS-NUM_WIRES].Tag
	}
}
