package eoncompose

import (
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/eon-protocol/eoncompose/circuit"
)

const NUM_WIRES = circuit.NbWires
const NUM_SELECTORS = circuit.NbSelectors

// BLINDING_MARGIN covers the degree-2 blinder of the grand product.
const BLINDING_MARGIN = 3

// Bounds enforced when decoding keys.
const MAX_DOMAIN_SIZE = 1 << 27
const MAX_TABLES = 1 << 16

var FIELD = ecc.BLS12_381.ScalarField()

// COSET_SHIFT is u in the wire identities (X, u·X, u²·X).
var COSET_SHIFT = fr.NewElement(7)

func CosetShifts() [NUM_WIRES]fr.Element {
	var res [NUM_WIRES]fr.Element
	res[0].SetOne()
	res[1] = COSET_SHIFT
	res[2].Square(&COSET_SHIFT)
	return res
}
