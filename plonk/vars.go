// Package plonk is the proving system composed keys are handed to: a
// non-linearized PLONK argument over KZG with a Poseidon2 transcript.
package plonk

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

var CID_GAMMA = func() (val fr.Element) {
	val.SetString("12136437972164249638515815863518169381248623050802518443499856540155713785793")
	return
}()
var CID_BETA = func() (val fr.Element) {
	val.SetString("18573803297957083279407999548582433273399322018814582391185078724486099338357")
	return
}()
var CID_ALPHA = func() (val fr.Element) {
	val.SetString("49747578351961873600101888628702675272467029400415710410441263855875020310598")
	return
}()
var CID_ZETA = func() (val fr.Element) {
	val.SetString("39057712567180736910604556313519348712189848041390074835666431785905701131882")
	return
}()

// number of proof openings preceding the key polynomials in the batch:
// a, b, c, z, h1, h2, h3
const NB_PROOF_OPENINGS = 7

// the quotient is split in three pieces of n + HPIECE_EXTRA coefficients
const HPIECE_EXTRA = 2
