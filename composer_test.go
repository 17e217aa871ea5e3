package eoncompose_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/require"

	eon "github.com/eon-protocol/eoncompose"
	"github.com/eon-protocol/eoncompose/circuit"
	"github.com/eon-protocol/eoncompose/circuits/fib"
	"github.com/eon-protocol/eoncompose/plonk"
	"github.com/eon-protocol/eoncompose/srs"
)

// fib(10) has 13 gates, its domain holds 16 rows
const nbSteps = 10
const domainSize = 16

func newComposer(t *testing.T, size uint64) *eon.Composer {
	c, err := eon.NewComposer(plonk.FibFlavor(), srs.NewUnsafeFactory(size, 42))
	require.NoError(t, err)
	return c
}

func fibCircuit(t *testing.T, steps int) *circuit.Circuit {
	c, err := fib.Circuit(steps)
	require.NoError(t, err)
	return c
}

func TestProveAndVerify(t *testing.T) {
	assert := require.New(t)
	c := fibCircuit(t, nbSteps)
	composer := newComposer(t, domainSize+eon.BLINDING_MARGIN)

	pk, err := composer.ComputeProvingKey(c.Shape())
	assert.NoError(err)
	assert.Equal(uint64(domainSize), pk.DomainSize())
	assert.Equal(uint64(13), pk.CircuitSize)
	assert.Equal(uint64(1), pk.NbPublicInputs)

	vk, err := composer.ComputeVerificationKey(c.Shape())
	assert.NoError(err)
	assert.NoError(eon.CheckKeyConsistency(pk, vk))

	assert.NoError(composer.ComputeWitness(c))
	assert.True(composer.ComputedWitness())

	prover, err := composer.CreateProver(c)
	assert.NoError(err)
	assert.Equal([]fr.Element{fib.Value(nbSteps)}, prover.PublicInputs())
	proof, err := prover.Prove()
	assert.NoError(err)

	verifier, err := composer.CreateVerifier(c.Shape())
	assert.NoError(err)
	assert.Same(vk, verifier.VerificationKey())
	assert.NoError(verifier.Verify(proof, prover.PublicInputs()))

	// through bytes
	var buf bytes.Buffer
	_, err = proof.WriteTo(&buf)
	assert.NoError(err)
	decoded := verifier.NewProof()
	_, err = decoded.ReadFrom(&buf)
	assert.NoError(err)
	assert.NoError(verifier.Verify(decoded, prover.PublicInputs()))

	// wrong public input
	assert.ErrorIs(verifier.Verify(proof, []fr.Element{fr.NewElement(1)}), eon.ErrInvalidProof)
	assert.ErrorIs(verifier.Verify(proof, nil), eon.ErrInvalidProof)

	// tampered opening
	tampered := *proof.(*plonk.Proof)
	tampered.BatchedProof.ClaimedValues = append([]fr.Element(nil), tampered.BatchedProof.ClaimedValues...)
	tampered.BatchedProof.ClaimedValues[0].SetUint64(7)
	assert.ErrorIs(verifier.Verify(&tampered, prover.PublicInputs()), eon.ErrInvalidProof)
}

func TestKeysAreDeterministic(t *testing.T) {
	c := fibCircuit(t, nbSteps)
	encode := func() ([]byte, []byte) {
		composer := newComposer(t, domainSize+eon.BLINDING_MARGIN)
		pk, err := composer.ComputeProvingKey(c)
		require.NoError(t, err)
		vk, err := composer.ComputeVerificationKey(c)
		require.NoError(t, err)
		var pkBuf, vkBuf bytes.Buffer
		_, err = pk.WriteTo(&pkBuf)
		require.NoError(t, err)
		_, err = vk.WriteTo(&vkBuf)
		require.NoError(t, err)
		return pkBuf.Bytes(), vkBuf.Bytes()
	}
	pk1, vk1 := encode()
	pk2, vk2 := encode()
	require.Equal(t, pk1, pk2)
	require.Equal(t, vk1, vk2)
}

func TestComputeVerificationKeyIsCached(t *testing.T) {
	c := fibCircuit(t, nbSteps)
	composer := newComposer(t, domainSize+eon.BLINDING_MARGIN)
	vk, err := composer.ComputeVerificationKey(c)
	require.NoError(t, err)
	again, err := composer.ComputeVerificationKey(c)
	require.NoError(t, err)
	require.Same(t, vk, again)
}

func TestSrsSizeBoundary(t *testing.T) {
	c := fibCircuit(t, nbSteps)

	short := newComposer(t, domainSize+eon.BLINDING_MARGIN-1)
	_, err := short.ComputeProvingKey(c)
	require.ErrorIs(t, err, eon.ErrInsufficientSrs)
	require.Nil(t, short.ProvingKey())
	require.ErrorIs(t, short.ComputeCommitmentKey(c.NbGates()), eon.ErrInsufficientSrs)
	require.Nil(t, short.CommitmentKey())

	exact := newComposer(t, domainSize+eon.BLINDING_MARGIN)
	require.NoError(t, exact.ComputeCommitmentKey(c.NbGates()))
	require.Equal(t, domainSize+eon.BLINDING_MARGIN, exact.CommitmentKey().Size())
	require.Equal(t, uint64(domainSize), exact.CommitmentKey().DomainSize())
	require.True(t, eon.SameSRS(exact.CommitmentKey(), exact.VerifierCommitmentKey()))
	_, err = exact.ComputeProvingKey(c)
	require.NoError(t, err)
}

func TestLifecycleErrors(t *testing.T) {
	c := fibCircuit(t, nbSteps)
	composer := newComposer(t, domainSize+eon.BLINDING_MARGIN)

	require.ErrorIs(t, composer.ComputeWitness(c), eon.ErrNotYetKeyed)
	require.ErrorIs(t, composer.AddTableColumnSelectorPolyToProvingKey(nil, "t"), eon.ErrNotYetKeyed)
	_, err := composer.CreateProver(c)
	require.ErrorIs(t, err, eon.ErrWitnessNotComputed)

	_, err = composer.ComputeProvingKey(c)
	require.NoError(t, err)
	_, err = composer.CreateProver(c)
	require.ErrorIs(t, err, eon.ErrWitnessNotComputed)

	require.ErrorIs(t, composer.ComputeWitness(fibCircuit(t, nbSteps+5)), eon.ErrInvalidCircuitSize)
	require.NoError(t, composer.ComputeWitness(c))
	require.ErrorIs(t, composer.ComputeWitness(c), eon.ErrAlreadyComputed)

	_, err = composer.ComputeProvingKey(c)
	require.ErrorIs(t, err, eon.ErrKeyAlreadyFinalized)
	require.ErrorIs(t, composer.AddTableColumnSelectorPolyToProvingKey(nil, "t"), eon.ErrKeyAlreadyFinalized)
}

func TestConstraintViolationKeepsComposerUsable(t *testing.T) {
	c := fibCircuit(t, nbSteps)
	composer := newComposer(t, domainSize+eon.BLINDING_MARGIN)
	_, err := composer.ComputeProvingKey(c)
	require.NoError(t, err)

	values := append([]fr.Element(nil), c.Assignment...)
	values[c.Wires[circuit.O][c.NbGates()-1]] = fr.NewElement(0)
	require.ErrorIs(t, composer.ComputeWitness(c.WithAssignment(values)), eon.ErrConstraintViolation)
	require.False(t, composer.ComputedWitness())
	require.Nil(t, composer.ProvingKey().Witness)

	require.NoError(t, composer.ComputeWitness(c))
}

func TestTableColumns(t *testing.T) {
	c := fibCircuit(t, nbSteps)
	composer := newComposer(t, domainSize+eon.BLINDING_MARGIN)
	pk, err := composer.ComputeProvingKey(c)
	require.NoError(t, err)

	xor := make([]fr.Element, 8)
	for i := range xor {
		xor[i].SetUint64(uint64(i ^ 3))
	}
	require.NoError(t, composer.AddTableColumnSelectorPolyToProvingKey(xor, "xor"))
	require.ErrorIs(t, composer.AddTableColumnSelectorPolyToProvingKey(xor, "xor"), eon.ErrDuplicateTag)
	require.ErrorIs(t, composer.AddTableColumnSelectorPolyToProvingKey(make([]fr.Element, domainSize+1), "big"), eon.ErrInvalidCircuitSize)
	require.Len(t, pk.Tables, 1)
	require.Equal(t, []string{"xor"}, composer.TableTags())

	// a recomputed proving key keeps the registered tables
	pk, err = composer.ComputeProvingKey(c)
	require.NoError(t, err)
	require.Len(t, pk.Tables, 1)
	_, ok := pk.Table("xor")
	require.True(t, ok)

	vk, err := composer.ComputeVerificationKey(c)
	require.NoError(t, err)
	require.Len(t, vk.Tables, 1)
	require.Equal(t, "xor", vk.Tables[0].Tag)
	require.NoError(t, eon.CheckKeyConsistency(pk, vk))
	require.ErrorIs(t, composer.AddTableColumnSelectorPolyToProvingKey(xor, "and"), eon.ErrKeyAlreadyFinalized)

	require.NoError(t, composer.ComputeWitness(c))
	prover, err := composer.CreateProver(c)
	require.NoError(t, err)
	proof, err := prover.Prove()
	require.NoError(t, err)
	verifier, err := composer.CreateVerifier(c)
	require.NoError(t, err)
	require.NoError(t, verifier.Verify(proof, prover.PublicInputs()))
}

func TestCommitmentMismatch(t *testing.T) {
	c := fibCircuit(t, nbSteps)
	composer := newComposer(t, domainSize+eon.BLINDING_MARGIN)
	pk, err := composer.ComputeProvingKey(c)
	require.NoError(t, err)

	// same shape, the second constant gate pins y to 2
	other := *c
	other.Selectors[circuit.QC] = append([]fr.Element(nil), c.Selectors[circuit.QC]...)
	other.Selectors[circuit.QC][2].SetInt64(-2)
	vk, err := newComposer(t, domainSize+eon.BLINDING_MARGIN).ComputeVerificationKey(&other)
	require.NoError(t, err)
	err = eon.CheckKeyConsistency(pk, vk)
	require.ErrorIs(t, err, eon.ErrCommitmentMismatch)
	require.Contains(t, err.Error(), "q_c")

	// a verification key for another circuit is not stored
	_, err = composer.ComputeVerificationKey(fibCircuit(t, nbSteps+1))
	require.ErrorIs(t, err, eon.ErrCommitmentMismatch)
	require.Nil(t, composer.VerificationKey())
}

func TestRecursiveProofLinkage(t *testing.T) {
	inner := newComposer(t, domainSize+eon.BLINDING_MARGIN)
	innerVk, err := inner.ComputeVerificationKey(fibCircuit(t, nbSteps))
	require.NoError(t, err)

	c, err := fib.RecursiveCircuit(3, innerVk.RecursionInputs())
	require.NoError(t, err)
	composer := newComposer(t, domainSize+eon.BLINDING_MARGIN)
	pk, err := composer.ComputeProvingKey(c)
	require.NoError(t, err)
	vk, err := composer.ComputeVerificationKey(c)
	require.NoError(t, err)

	want := eon.RecursiveProofLinkage{ContainsRecursiveProof: true, RecursiveProofPublicInputIndices: []uint32{0, 1, 2, 3}}
	require.Equal(t, want, pk.RecursiveProofLinkage)
	require.Equal(t, want, vk.RecursiveProofLinkage)
	require.Equal(t, want, composer.RecursiveProofLinkage())

	// both keys start with the same header
	var pkBuf, vkBuf bytes.Buffer
	_, err = pk.WriteTo(&pkBuf)
	require.NoError(t, err)
	_, err = vk.WriteTo(&vkBuf)
	require.NoError(t, err)
	header := 3*8 + 1 + 4 + 4*4
	require.Equal(t, pkBuf.Bytes()[:header], vkBuf.Bytes()[:header])

	require.NoError(t, composer.ComputeWitness(c))
	prover, err := composer.CreateProver(c)
	require.NoError(t, err)
	proof, err := prover.Prove()
	require.NoError(t, err)
	verifier, err := composer.CreateVerifier(c)
	require.NoError(t, err)
	require.NoError(t, verifier.Verify(proof, c.PublicInputValues()))

	bad := *c
	bad.RecursiveProofPublicInputIndices = []uint32{0, 9}
	_, err = newComposer(t, domainSize+eon.BLINDING_MARGIN).ComputeProvingKey(&bad)
	require.ErrorIs(t, err, eon.ErrInvalidRecursiveLinkage)
	bad.RecursiveProofPublicInputIndices = []uint32{1, 1}
	_, err = newComposer(t, domainSize+eon.BLINDING_MARGIN).ComputeVerificationKey(&bad)
	require.ErrorIs(t, err, eon.ErrInvalidRecursiveLinkage)
}

func TestComposerWithLoadedKeys(t *testing.T) {
	c := fibCircuit(t, nbSteps)
	factory := srs.NewUnsafeFactory(domainSize+eon.BLINDING_MARGIN, 42)
	composer, err := eon.NewComposer(plonk.FibFlavor(), factory)
	require.NoError(t, err)
	pk, err := composer.ComputeProvingKey(c)
	require.NoError(t, err)
	vk, err := composer.ComputeVerificationKey(c)
	require.NoError(t, err)

	var pkBuf, vkBuf bytes.Buffer
	_, err = pk.WriteTo(&pkBuf)
	require.NoError(t, err)
	_, err = vk.WriteTo(&vkBuf)
	require.NoError(t, err)
	var loadedPk eon.ProvingKey
	_, err = loadedPk.ReadFrom(&pkBuf)
	require.NoError(t, err)
	var loadedVk eon.VerificationKey
	_, err = loadedVk.ReadFrom(&vkBuf)
	require.NoError(t, err)
	require.Equal(t, vk.Hash(), loadedVk.Hash())

	proverSide, err := eon.NewComposerWithKeys(plonk.FibFlavor(), factory, &loadedPk, nil)
	require.NoError(t, err)
	require.NoError(t, proverSide.ComputeWitness(c))
	prover, err := proverSide.CreateProver(c)
	require.NoError(t, err)
	proof, err := prover.Prove()
	require.NoError(t, err)

	verifierSide, err := eon.NewComposerWithKeys(plonk.FibFlavor(), factory, nil, &loadedVk)
	require.NoError(t, err)
	verifier, err := verifierSide.CreateVerifier(c.Shape())
	require.NoError(t, err)
	require.NoError(t, verifier.Verify(proof, prover.PublicInputs()))
}

func TestLoadedKeysAreCrossChecked(t *testing.T) {
	c := fibCircuit(t, nbSteps)
	factory := srs.NewUnsafeFactory(domainSize+eon.BLINDING_MARGIN, 42)
	composer, err := eon.NewComposer(plonk.FibFlavor(), factory)
	require.NoError(t, err)
	pk, err := composer.ComputeProvingKey(c)
	require.NoError(t, err)
	vk, err := composer.ComputeVerificationKey(c)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = pk.WriteTo(&buf)
	require.NoError(t, err)
	var loadedPk eon.ProvingKey
	_, err = loadedPk.ReadFrom(&buf)
	require.NoError(t, err)
	require.Nil(t, loadedPk.CommitmentKey)

	both, err := eon.NewComposerWithKeys(plonk.FibFlavor(), factory, &loadedPk, vk)
	require.NoError(t, err)
	require.NotNil(t, both.ProvingKey().CommitmentKey)
	require.Equal(t, uint64(domainSize), both.CommitmentKey().DomainSize())

	longer, err := eon.NewComposer(plonk.FibFlavor(), factory)
	require.NoError(t, err)
	vkLonger, err := longer.ComputeVerificationKey(fibCircuit(t, nbSteps+1))
	require.NoError(t, err)
	_, err = eon.NewComposerWithKeys(plonk.FibFlavor(), factory, pk, vkLonger)
	require.ErrorIs(t, err, eon.ErrCommitmentMismatch)
	require.Contains(t, err.Error(), "circuit_size")

	// same sizes, different constant selector
	other := *c
	other.Selectors[circuit.QC] = append([]fr.Element(nil), c.Selectors[circuit.QC]...)
	other.Selectors[circuit.QC][2].SetInt64(-2)
	pinned, err := eon.NewComposer(plonk.FibFlavor(), factory)
	require.NoError(t, err)
	vkOther, err := pinned.ComputeVerificationKey(&other)
	require.NoError(t, err)
	_, err = eon.NewComposerWithKeys(plonk.FibFlavor(), factory, pk, vkOther)
	require.ErrorIs(t, err, eon.ErrCommitmentMismatch)
	require.Contains(t, err.Error(), "q_c")
}

func TestLoadedKeyKeepsItsDomain(t *testing.T) {
	// fib(13) fills 16 rows; the standard flavor would need 32
	c := fibCircuit(t, 13)
	factory := srs.NewUnsafeFactory(32+eon.BLINDING_MARGIN, 42)
	composer, err := eon.NewComposer(plonk.FibFlavor(), factory)
	require.NoError(t, err)
	pk, err := composer.ComputeProvingKey(c)
	require.NoError(t, err)
	require.Equal(t, uint64(16), pk.DomainSize())
	vk, err := composer.ComputeVerificationKey(c)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = pk.WriteTo(&buf)
	require.NoError(t, err)
	var loadedPk eon.ProvingKey
	_, err = loadedPk.ReadFrom(&buf)
	require.NoError(t, err)

	standard, err := eon.NewComposerWithKeys(plonk.StandardFlavor(), factory, &loadedPk, nil)
	require.NoError(t, err)
	require.NoError(t, standard.ComputeWitness(c))
	prover, err := standard.CreateProver(c)
	require.NoError(t, err)
	require.Equal(t, uint64(16), prover.CommitmentKey().DomainSize())
	proof, err := prover.Prove()
	require.NoError(t, err)

	verifier, err := composer.CreateVerifier(c)
	require.NoError(t, err)
	require.Same(t, vk, verifier.VerificationKey())
	require.NoError(t, verifier.Verify(proof, prover.PublicInputs()))
}

func TestReadFromRejectsCraftedHeaders(t *testing.T) {
	c := fibCircuit(t, nbSteps)
	composer := newComposer(t, domainSize+eon.BLINDING_MARGIN)
	pk, err := composer.ComputeProvingKey(c)
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = pk.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.Bytes()

	// circuit size, domain size, public count (u64 each), flag (u8), no indices (u32), table count (u32)
	tamper := func(at int, put func([]byte)) error {
		b := append([]byte(nil), raw...)
		put(b[at:])
		var decoded eon.ProvingKey
		_, err := decoded.ReadFrom(bytes.NewReader(b))
		return err
	}
	err = tamper(29, func(b []byte) { binary.BigEndian.PutUint32(b, 0xffffffff) })
	require.Error(t, err)
	err = tamper(8, func(b []byte) { binary.BigEndian.PutUint64(b, 1<<40) })
	require.ErrorIs(t, err, eon.ErrInvalidCircuitSize)
	err = tamper(8, func(b []byte) { binary.BigEndian.PutUint64(b, 24) })
	require.ErrorIs(t, err, eon.ErrInvalidCircuitSize)
	err = tamper(0, func(b []byte) { binary.BigEndian.PutUint64(b, domainSize+1) })
	require.ErrorIs(t, err, eon.ErrInvalidCircuitSize)
}

func TestStandardFlavorReservesGates(t *testing.T) {
	// 16 gates need a domain of 32 once a row is reserved
	b := circuit.NewBuilder("sixteen")
	x := b.PublicInput(fr.NewElement(1))
	for i := 0; i < 15; i++ {
		x = b.Add(x, x)
	}
	c, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, 16, c.NbGates())

	composer, err := eon.NewComposer(plonk.StandardFlavor(), srs.NewUnsafeFactory(32+eon.BLINDING_MARGIN, 7))
	require.NoError(t, err)
	pk, err := composer.ComputeProvingKey(c)
	require.NoError(t, err)
	require.Equal(t, uint64(32), pk.DomainSize())
}
