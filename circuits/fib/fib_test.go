package fib

import (
	"errors"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/require"

	eon "github.com/eon-protocol/eoncompose"
)

func TestValue(t *testing.T) {
	require.Equal(t, fr.NewElement(1), Value(1))
	require.Equal(t, fr.NewElement(8), Value(5))
	require.Equal(t, fr.NewElement(89), Value(10))
}

func TestCircuitIsSatisfied(t *testing.T) {
	c, err := Circuit(10)
	require.NoError(t, err)
	require.Equal(t, 1, c.NbPublicInputs())
	require.False(t, c.ContainsRecursiveProof())
	// one public row, two constants, ten additions
	require.Equal(t, 13, c.NbGates())
	require.NoError(t, eon.CheckAssignment(c))
	require.Equal(t, []fr.Element{Value(10)}, c.PublicInputValues())
}

func TestWrongOutputIsRejected(t *testing.T) {
	c, err := Circuit(4)
	require.NoError(t, err)
	values := append([]fr.Element(nil), c.Assignment...)
	values[c.PublicInputs[0]] = fr.NewElement(4)
	err = eon.CheckAssignment(c.WithAssignment(values))
	require.ErrorIs(t, err, eon.ErrConstraintViolation)

	var cv *eon.ConstraintViolationError
	require.True(t, errors.As(err, &cv))
	require.Equal(t, "copy", cv.Gate)
}

func TestRecursiveCircuit(t *testing.T) {
	inner := []fr.Element{fr.NewElement(11), fr.NewElement(22)}
	c, err := RecursiveCircuit(3, inner)
	require.NoError(t, err)
	require.True(t, c.ContainsRecursiveProof())
	require.Equal(t, []uint32{0, 1}, c.RecursiveProofPublicInputIndices)
	require.Equal(t, []fr.Element{inner[0], inner[1], Value(3)}, c.PublicInputValues())
	require.NoError(t, eon.CheckAssignment(c))

	_, err = RecursiveCircuit(3, nil)
	require.Error(t, err)
}
