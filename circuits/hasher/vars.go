// Package hasher holds the Poseidon2 (t=2) hash shared by the native side
// (verification key hashes, Fiat-Shamir transcript) and by gnark circuits.
package hasher

import (
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/poseidon2"
)

const WIDTH = 2
const ROUND_FULL = 8
const ROUND_PARTIAL = 56
const SEED = "EON_POSEIDON2_HASH_SEED"

var GetParameters = sync.OnceValue(func() *poseidon2.Parameters {
	return poseidon2.NewParametersWithSeed(WIDTH, ROUND_FULL, ROUND_PARTIAL, SEED)
})

var GetPermutation = sync.OnceValue(func() *poseidon2.Permutation {
	return poseidon2.NewPermutationWithSeed(WIDTH, ROUND_FULL, ROUND_PARTIAL, SEED)
})

// DOMAIN_VK separates verification key hashes from transcript challenges.
var DOMAIN_VK = func() (val fr.Element) {
	val.SetString("25462560578134928990029001067183171577145376707459712415971543462128145703592")
	return
}()
