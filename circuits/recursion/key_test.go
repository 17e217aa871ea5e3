package recursion

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"

	eon "github.com/eon-protocol/eoncompose"
	"github.com/eon-protocol/eoncompose/circuits/fib"
	"github.com/eon-protocol/eoncompose/plonk"
	"github.com/eon-protocol/eoncompose/srs"
)

func composeKey(t *testing.T) *eon.VerificationKey {
	factory := srs.NewUnsafeFactory(16+eon.BLINDING_MARGIN, 42)

	inner, err := eon.NewComposer(plonk.FibFlavor(), factory)
	require.NoError(t, err)
	innerCircuit, err := fib.Circuit(10)
	require.NoError(t, err)
	innerVk, err := inner.ComputeVerificationKey(innerCircuit.Shape())
	require.NoError(t, err)

	c, err := fib.RecursiveCircuit(3, innerVk.RecursionInputs())
	require.NoError(t, err)
	composer, err := eon.NewComposer(plonk.FibFlavor(), factory)
	require.NoError(t, err)
	_, err = composer.ComputeProvingKey(c.Shape())
	require.NoError(t, err)

	xor := make([]fr.Element, 8)
	for i := range xor {
		xor[i].SetUint64(uint64(i ^ 3))
	}
	require.NoError(t, composer.AddTableColumnSelectorPolyToProvingKey(xor, "xor"))
	vk, err := composer.ComputeVerificationKey(c.Shape())
	require.NoError(t, err)
	require.True(t, vk.ContainsRecursiveProof)
	require.Len(t, vk.Tables, 1)
	return vk
}

func TestKeyHashMatchesNative(t *testing.T) {
	vk := composeKey(t)
	field := ecc.BLS12_381.ScalarField()

	assignment := AssignKeyHashCircuit(vk)
	require.NoError(t, test.IsSolved(NewKeyHashCircuit(vk), assignment, field))

	wrongHash := AssignKeyHashCircuit(vk)
	wrongHash.Hash = 1
	require.Error(t, test.IsSolved(NewKeyHashCircuit(vk), wrongHash, field))

	wrongSize := AssignKeyHashCircuit(vk)
	wrongSize.DomainSize = vk.DomainSize * 2
	require.Error(t, test.IsSolved(NewKeyHashCircuit(vk), wrongSize, field))
}

func TestKeyHashBindsCommitments(t *testing.T) {
	vk := composeKey(t)
	field := ecc.BLS12_381.ScalarField()

	// the sigma of another key hashes differently
	swapped := AssignKeyHashCircuit(vk)
	swapped.Key.Sigmas[0] = swapped.Key.Sigmas[1]
	require.Error(t, test.IsSolved(NewKeyHashCircuit(vk), swapped, field))

	retagged := AssignKeyHashCircuit(vk)
	tag := eon.TagElement("and")
	retagged.Key.TableTags[0] = tag.String()
	require.Error(t, test.IsSolved(NewKeyHashCircuit(vk), retagged, field))

	flag := AssignKeyHashCircuit(vk)
	flag.Key.Recursive = 2
	require.Error(t, test.IsSolved(NewKeyHashCircuit(vk), flag, field))
}
