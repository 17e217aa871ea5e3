package hasher

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/poseidon2"
	"github.com/consensys/gnark/frontend"
)

var ErrInvalidWidth = errors.New("poseidon2: state must hold exactly two lanes")

// Gadget is the in-circuit Poseidon2 permutation for t=2, matching GetPermutation.
type Gadget struct {
	api        frontend.API
	degree     int
	fullRounds int
	partial    int
	roundKeys  [][]big.Int
}

func NewGadget(api frontend.API) (*Gadget, error) {
	params := GetParameters()
	degree := poseidon2.DegreeSBox()
	switch degree {
	case 3, 5, 7:
	default:
		return nil, fmt.Errorf("poseidon2: unsupported s-box degree %d", degree)
	}
	g := &Gadget{
		api:        api,
		degree:     degree,
		fullRounds: params.NbFullRounds,
		partial:    params.NbPartialRounds,
		roundKeys:  make([][]big.Int, len(params.RoundKeys)),
	}
	for i, rk := range params.RoundKeys {
		g.roundKeys[i] = make([]big.Int, len(rk))
		for j := range rk {
			rk[j].BigInt(&g.roundKeys[i][j])
		}
	}
	return g, nil
}

func (me *Gadget) sbox(x frontend.Variable) frontend.Variable {
	x2 := me.api.Mul(x, x)
	switch me.degree {
	case 3:
		return me.api.Mul(x2, x)
	case 5:
		x4 := me.api.Mul(x2, x2)
		return me.api.Mul(x4, x)
	default:
		x3 := me.api.Mul(x2, x)
		x6 := me.api.Mul(x3, x3)
		return me.api.Mul(x6, x)
	}
}

// external matrix [[2,1],[1,2]]
func (me *Gadget) external(s *[2]frontend.Variable) {
	t := me.api.Add(s[0], s[1])
	s[0] = me.api.Add(t, s[0])
	s[1] = me.api.Add(t, s[1])
}

// internal matrix [[2,1],[1,3]]
func (me *Gadget) internal(s *[2]frontend.Variable) {
	t := me.api.Add(s[0], s[1])
	s[0] = me.api.Add(s[0], t)
	s[1] = me.api.Add(me.api.Mul(s[1], 2), t)
}

func (me *Gadget) Permutation(input []frontend.Variable) error {
	if len(input) != WIDTH {
		return ErrInvalidWidth
	}
	s := [2]frontend.Variable{input[0], input[1]}
	me.external(&s)
	half := me.fullRounds / 2
	round := 0
	for ; round < half; round++ {
		s[0] = me.sbox(me.api.Add(s[0], me.roundKeys[round][0]))
		s[1] = me.sbox(me.api.Add(s[1], me.roundKeys[round][1]))
		me.external(&s)
	}
	for ; round < half+me.partial; round++ {
		for j := range me.roundKeys[round] {
			s[j] = me.api.Add(s[j], me.roundKeys[round][j])
		}
		s[0] = me.sbox(s[0])
		me.internal(&s)
	}
	for ; round < me.fullRounds+me.partial; round++ {
		s[0] = me.sbox(me.api.Add(s[0], me.roundKeys[round][0]))
		s[1] = me.sbox(me.api.Add(s[1], me.roundKeys[round][1]))
		me.external(&s)
	}
	input[0], input[1] = s[0], s[1]
	return nil
}

func (me *Gadget) Compress(x, y frontend.Variable) frontend.Variable {
	s := []frontend.Variable{x, y}
	if err := me.Permutation(s); err != nil {
		panic(err)
	}
	return me.api.Add(s[1], y)
}

func (me *Gadget) Sum(vals ...frontend.Variable) frontend.Variable {
	var acc frontend.Variable = 0
	for _, v := range vals {
		acc = me.Compress(acc, v)
	}
	return acc
}

// G1Limbs is a point decomposed off-circuit by DecomposeG1 and fed as witness.
type G1Limbs struct {
	XQ, XM, YQ, YM frontend.Variable
}

func (me *Gadget) G1(p G1Limbs) frontend.Variable {
	x := me.Compress(p.XQ, p.XM)
	y := me.Compress(p.YQ, p.YM)
	return me.Compress(x, y)
}
