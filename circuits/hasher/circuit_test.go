package hasher

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
)

type permutationCircuit struct {
	In  [WIDTH]frontend.Variable
	Out [WIDTH]frontend.Variable `gnark:",public"`
}

func (c *permutationCircuit) Define(api frontend.API) error {
	g, err := NewGadget(api)
	if err != nil {
		return err
	}
	s := c.In[:]
	if err := g.Permutation(s); err != nil {
		return err
	}
	api.AssertIsEqual(s[0], c.Out[0])
	api.AssertIsEqual(s[1], c.Out[1])
	return nil
}

func TestPermutationMatchesNative(t *testing.T) {
	assert := test.NewAssert(t)
	for it := 0; it < 4; it++ {
		var in, out [WIDTH]fr.Element
		in[0].SetRandom()
		in[1].SetRandom()
		out = in
		assert.NoError(GetPermutation().Permutation(out[:]))
		assignment := permutationCircuit{
			In:  [WIDTH]frontend.Variable{in[0].String(), in[1].String()},
			Out: [WIDTH]frontend.Variable{out[0].String(), out[1].String()},
		}
		assert.CheckCircuit(&permutationCircuit{}, test.WithValidAssignment(&assignment), test.WithCurves(ecc.BLS12_381))
	}
}

type g1HashCircuit struct {
	Point  G1Limbs
	Digest frontend.Variable `gnark:",public"`
}

func (c *g1HashCircuit) Define(api frontend.API) error {
	g, err := NewGadget(api)
	if err != nil {
		return err
	}
	api.AssertIsEqual(g.G1(c.Point), c.Digest)
	return nil
}

func TestG1HashMatchesNative(t *testing.T) {
	assert := test.NewAssert(t)
	_, _, p, _ := bls12381.Generators()
	var s fr.Element
	s.SetUint64(12345)
	var sb = s.BigInt(new(big.Int))
	p.ScalarMultiplication(&p, sb)
	d := DecomposeG1(p)
	digest := G1(p)
	assignment := g1HashCircuit{
		Point:  G1Limbs{XQ: d[0][0].String(), XM: d[0][1].String(), YQ: d[1][0].String(), YM: d[1][1].String()},
		Digest: digest.String(),
	}
	assert.CheckCircuit(&g1HashCircuit{}, test.WithValidAssignment(&assignment), test.WithCurves(ecc.BLS12_381))
}

func TestSumIsOrderSensitive(t *testing.T) {
	a, b := fr.NewElement(1), fr.NewElement(2)
	x, y := Sum(a, b), Sum(b, a)
	if x.Equal(&y) {
		t.Fatal("Sum(a, b) == Sum(b, a)")
	}
}
