package eoncompose

import (
	"math/big"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
)

// EvaluationDomain is the multiplicative subgroup H the circuit rows live on.
type EvaluationDomain struct {
	*fft.Domain
	// NbRows is the number of rows actually used, padding excluded.
	NbRows uint64
}

// NewEvaluationDomain sizes H to the next power of two holding nbRows + reserved.
func NewEvaluationDomain(nbRows, reserved int) (*EvaluationDomain, error) {
	if nbRows <= 0 {
		return nil, WrapInvalidCircuitSizeError("circuit has %d gates", nbRows)
	}
	if reserved < 0 {
		return nil, WrapInvalidCircuitSizeError("negative reserved gates %d", reserved)
	}
	size := ecc.NextPowerOfTwo(uint64(nbRows + reserved))
	return &EvaluationDomain{Domain: fft.NewDomain(size), NbRows: uint64(nbRows)}, nil
}

// DomainSizeOf returns the domain size nbRows would be encoded on.
func DomainSizeOf(nbRows, reserved int) uint64 {
	return ecc.NextPowerOfTwo(uint64(nbRows + reserved))
}

func (me *EvaluationDomain) Size() uint64 {
	return me.Cardinality
}

func (me *EvaluationDomain) LogSize() int {
	return bits.TrailingZeros64(me.Cardinality)
}

// Pad copies evals into a zero-filled vector of domain size.
func (me *EvaluationDomain) Pad(evals []fr.Element) []fr.Element {
	res := make([]fr.Element, me.Cardinality)
	copy(res, evals)
	return res
}

// Interpolate turns evaluations on H, in natural order, into canonical
// coefficients. evals is consumed.
func (me *EvaluationDomain) Interpolate(evals []fr.Element) []fr.Element {
	me.FFTInverse(evals, fft.DIF)
	fft.BitReverse(evals)
	return evals
}

// Evaluate turns canonical coefficients into evaluations on H in natural order.
// coeffs is consumed.
func (me *EvaluationDomain) Evaluate(coeffs []fr.Element) []fr.Element {
	me.FFT(coeffs, fft.DIF)
	fft.BitReverse(coeffs)
	return coeffs
}

// Elements returns 1, ω, …, ωⁿ⁻¹.
func (me *EvaluationDomain) Elements() []fr.Element {
	res := make([]fr.Element, me.Cardinality)
	res[0].SetOne()
	for i := 1; i < len(res); i++ {
		res[i].Mul(&res[i-1], &me.Generator)
	}
	return res
}

// VanishingAt returns Z_H(x) = xⁿ - 1.
func (me *EvaluationDomain) VanishingAt(x fr.Element) fr.Element {
	var res fr.Element
	one := fr.One()
	res.Exp(x, new(big.Int).SetUint64(me.Cardinality))
	res.Sub(&res, &one)
	return res
}
