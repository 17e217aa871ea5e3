package permissionless

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/test"
)

func TestAccount(t *testing.T) {
	assert := test.NewAssert(t)
	assert.CheckCircuit(&Account{},
		test.WithValidAssignment(&Account{X: 2, Y: 3, Z: 5, W: 30}),
		test.WithInvalidAssignment(&Account{X: 2, Y: 3, Z: 5, W: 31}),
		test.WithCurves(ecc.BLS12_381),
	)
}
