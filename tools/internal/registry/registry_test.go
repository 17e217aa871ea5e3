package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	eon "github.com/eon-protocol/eoncompose"
	"github.com/eon-protocol/eoncompose/srs"
)

func TestEntries(t *testing.T) {
	all := All()
	require.Len(t, all, 2)
	require.Equal(t, "fib", all[0].Name)

	_, err := Lookup("missing")
	require.Error(t, err)

	for _, e := range all {
		c, err := e.Build(nil)
		require.NoError(t, err, e.Name)
		require.Positive(t, c.NbGates())
	}

	account, err := Lookup("permissionless-account")
	require.NoError(t, err)
	c, err := account.Build([]string{"2", "3", "5", "30"})
	require.NoError(t, err)
	require.NoError(t, eon.CheckAssignment(c))
	_, err = account.Build([]string{"2", "3"})
	require.Error(t, err)

	fib, err := Lookup("fib")
	require.NoError(t, err)
	c, err = fib.Build([]string{"4"})
	require.NoError(t, err)
	require.NoError(t, eon.CheckAssignment(c))
	_, err = fib.Build([]string{"four"})
	require.Error(t, err)
}

func TestCompose(t *testing.T) {
	fib, err := Lookup("fib")
	require.NoError(t, err)
	c, err := fib.Build([]string{"3"})
	require.NoError(t, err)
	n := eon.DomainSizeOf(c.NbGates(), fib.Flavor.NumReservedGates)
	composer, err := fib.Compose(srs.NewUnsafeFactory(n+eon.BLINDING_MARGIN, 1), c)
	require.NoError(t, err)
	require.NotNil(t, composer.ProvingKey())
	require.NotNil(t, composer.VerificationKey())
	require.False(t, composer.ComputedWitness())
}
