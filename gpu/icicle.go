//go:build icicle

// Package gpu routes multi-scalar multiplications of the commitment key either
// to gnark-crypto or, with the icicle build tag, to a CUDA device.
package gpu

import (
	"errors"
	"fmt"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"

	icicle_core "github.com/ingonyama-zk/icicle-gnark/v3/wrappers/golang/core"
	icicle_bls12_381 "github.com/ingonyama-zk/icicle-gnark/v3/wrappers/golang/curves/bls12381"
	icicle_msm "github.com/ingonyama-zk/icicle-gnark/v3/wrappers/golang/curves/bls12381/msm"
	icicle_runtime "github.com/ingonyama-zk/icicle-gnark/v3/wrappers/golang/runtime"
)

const HasIcicle = true

var device = sync.OnceValues(func() (*icicle_runtime.Device, error) {
	if st := icicle_runtime.LoadBackendFromEnvOrDefault(); st != icicle_runtime.Success {
		return nil, fmt.Errorf("gpu: load backend: %s", st.AsString())
	}
	dev := icicle_runtime.CreateDevice("CUDA", 0)
	return &dev, nil
})

func projectiveToAffine(p icicle_bls12_381.Projective) bls12381.G1Affine {
	bx := p.X.ToBytesLittleEndian()
	by := p.Y.ToBytesLittleEndian()
	bz := p.Z.ToBytesLittleEndian()
	ax, _ := fp.LittleEndian.Element((*[fp.Bytes]byte)(bx))
	ay, _ := fp.LittleEndian.Element((*[fp.Bytes]byte)(by))
	az, _ := fp.LittleEndian.Element((*[fp.Bytes]byte)(bz))
	if az.IsZero() {
		return bls12381.G1Affine{}
	}
	var zInv fp.Element
	zInv.Inverse(&az)
	ax.Mul(&ax, &zInv)
	ay.Mul(&ay, &zInv)
	return bls12381.G1Affine{X: ax, Y: ay}
}

// Commit returns Σ pᵢ·basesᵢ computed on the device.
func Commit(p []fr.Element, bases []bls12381.G1Affine, _ int) (kzg.Digest, error) {
	if len(p) > len(bases) {
		return kzg.Digest{}, kzg.ErrInvalidPolynomialSize
	}
	dev, err := device()
	if err != nil {
		return kzg.Digest{}, err
	}
	var res kzg.Digest
	var msmErr error
	done := make(chan struct{})
	icicle_runtime.RunOnDevice(dev, func(args ...any) {
		defer close(done)

		host := (icicle_core.HostSlice[bls12381.G1Affine])(bases[:len(p)])
		var basesDev icicle_core.DeviceSlice
		host.CopyToDevice(&basesDev, true)
		defer basesDev.Free()
		if st := icicle_bls12_381.AffineFromMontgomery(basesDev); st != icicle_runtime.Success {
			msmErr = fmt.Errorf("gpu: bases from montgomery: %s", st.AsString())
			return
		}

		scalars := icicle_core.HostSliceFromElements(p)
		var scalarsDev icicle_core.DeviceSlice
		scalars.CopyToDevice(&scalarsDev, true)
		defer scalarsDev.Free()

		cfg := icicle_msm.GetDefaultMSMConfig()
		cfg.AreScalarsMontgomeryForm = true
		cfg.AreBasesMontgomeryForm = false
		out := make(icicle_core.HostSlice[icicle_bls12_381.Projective], 1)
		if st := icicle_msm.Msm(scalarsDev, basesDev, &cfg, out); st != icicle_runtime.Success {
			msmErr = errors.New("gpu: msm: " + st.AsString())
			return
		}
		res = kzg.Digest(projectiveToAffine(out[0]))
	})
	<-done
	return res, msmErr
}
