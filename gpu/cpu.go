//go:build !icicle

// Package gpu routes multi-scalar multiplications of the commitment key either
// to gnark-crypto or, with the icicle build tag, to a CUDA device.
package gpu

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
)

const HasIcicle = false

// Commit returns Σ pᵢ·basesᵢ.
func Commit(p []fr.Element, bases []bls12381.G1Affine, nbTasks int) (kzg.Digest, error) {
	if nbTasks > 0 {
		return kzg.Commit(p, kzg.ProvingKey{G1: bases}, nbTasks)
	}
	return kzg.Commit(p, kzg.ProvingKey{G1: bases})
}
