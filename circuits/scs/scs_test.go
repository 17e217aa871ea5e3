package scs

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark/frontend"
	"github.com/stretchr/testify/require"

	eon "github.com/eon-protocol/eoncompose"
	"github.com/eon-protocol/eoncompose/circuit"
	"github.com/eon-protocol/eoncompose/accounts/permissionless"
	"github.com/eon-protocol/eoncompose/circuits/hasher"
	"github.com/eon-protocol/eoncompose/plonk"
	"github.com/eon-protocol/eoncompose/srs"
)

type committedCircuit struct {
	X frontend.Variable `gnark:",public"`
}

func (c *committedCircuit) Define(api frontend.API) error {
	_, err := api.(frontend.Committer).Commit(c.X)
	return err
}

type compressCircuit struct {
	X, Y   frontend.Variable
	Digest frontend.Variable `gnark:",public"`
}

func (c *compressCircuit) Define(api frontend.API) error {
	g, err := hasher.NewGadget(api)
	if err != nil {
		return err
	}
	api.AssertIsEqual(g.Compress(c.X, c.Y), c.Digest)
	return nil
}

func TestCompileAccount(t *testing.T) {
	compiled, err := Compile(permissionless.NAME, &permissionless.Account{})
	require.NoError(t, err)
	shape := compiled.Circuit()
	require.Equal(t, 4, shape.NbPublicInputs())
	require.Equal(t, 4+compiled.NbConstraints(), shape.NbGates())
	require.False(t, shape.HasAssignment())

	assigned, err := compiled.Assign(&permissionless.Account{X: 2, Y: 3, Z: 5, W: 30})
	require.NoError(t, err)
	require.NoError(t, eon.CheckAssignment(assigned))
	require.Equal(t, []fr.Element{fr.NewElement(2), fr.NewElement(3), fr.NewElement(5), fr.NewElement(30)}, assigned.PublicInputValues())

	_, err = compiled.Assign(&permissionless.Account{X: 2, Y: 3, Z: 5, W: 31})
	require.Error(t, err)
}

func TestCompileRejectsCommitments(t *testing.T) {
	_, err := Compile("committed", &committedCircuit{})
	require.ErrorIs(t, err, ErrCommitmentsUnsupported)
}

func TestAssignFollowsSolverRows(t *testing.T) {
	compiled, err := Compile(permissionless.NAME, &permissionless.Account{})
	require.NoError(t, err)
	shape := compiled.Circuit()

	assigned, err := compiled.Assign(&permissionless.Account{X: 2, Y: 3, Z: 5, W: 30})
	require.NoError(t, err)
	// public variables keep their witness values
	require.Equal(t, []fr.Element{fr.NewElement(2), fr.NewElement(3), fr.NewElement(5), fr.NewElement(30)}, assigned.Assignment[:4])
	for i := 0; i < shape.NbPublicInputs(); i++ {
		require.Equal(t, circuit.Variable(i), shape.Wires[circuit.L][i])
	}
	require.NoError(t, eon.CheckAssignment(assigned))

	// the intermediate product X·Y or X·Z lands on some wire
	seen := map[uint64]bool{}
	for _, v := range assigned.Assignment {
		if v.IsUint64() {
			seen[v.Uint64()] = true
		}
	}
	require.True(t, seen[6] || seen[10] || seen[15])
}

func TestHasherGadgetThroughComposer(t *testing.T) {
	compiled, err := Compile("compress", &compressCircuit{})
	require.NoError(t, err)

	x, y := fr.NewElement(3), fr.NewElement(4)
	digest := hasher.Compress(x, y)
	assigned, err := compiled.Assign(&compressCircuit{X: x.String(), Y: y.String(), Digest: digest.String()})
	require.NoError(t, err)
	require.NoError(t, eon.CheckAssignment(assigned))

	n := eon.DomainSizeOf(assigned.NbGates(), plonk.StandardFlavor().NumReservedGates)
	composer, err := eon.NewComposer(plonk.StandardFlavor(), srs.NewUnsafeFactory(n+eon.BLINDING_MARGIN, 42))
	require.NoError(t, err)
	_, err = composer.ComputeProvingKey(compiled.Circuit())
	require.NoError(t, err)
	require.NoError(t, composer.ComputeWitness(assigned))

	prover, err := composer.CreateProver(assigned)
	require.NoError(t, err)
	proof, err := prover.Prove()
	require.NoError(t, err)

	verifier, err := composer.CreateVerifier(compiled.Circuit())
	require.NoError(t, err)
	require.NoError(t, verifier.Verify(proof, []fr.Element{digest}))

	var wrong fr.Element
	wrong.Add(&digest, &x)
	require.ErrorIs(t, verifier.Verify(proof, []fr.Element{wrong}), eon.ErrInvalidProof)
}
