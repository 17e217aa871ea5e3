package circuit

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

var ErrUnknownVariable = errors.New("unknown variable")

type gate struct {
	wires     [NbWires]Variable
	selectors [NbSelectors]fr.Element
}

// Builder records gates in insertion order. Variables carry their value so the
// built circuit is assigned; use Circuit.Shape to drop it.
type Builder struct {
	name      string
	values    []fr.Element
	gates     []gate
	copies    []CopyConstraint
	publics   []Variable
	recursive []uint32
	err       error
}

func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

func (me *Builder) newVariable(v fr.Element) Variable {
	me.values = append(me.values, v)
	return Variable(len(me.values) - 1)
}

func (me *Builder) check(vs ...Variable) bool {
	for _, v := range vs {
		if int(v) >= len(me.values) {
			if me.err == nil {
				me.err = fmt.Errorf("%w: %d", ErrUnknownVariable, v)
			}
			return false
		}
	}
	return true
}

func (me *Builder) Value(v Variable) fr.Element {
	if !me.check(v) {
		return fr.Element{}
	}
	return me.values[v]
}

func (me *Builder) PublicInput(v fr.Element) Variable {
	x := me.newVariable(v)
	me.publics = append(me.publics, x)
	return x
}

func (me *Builder) Secret(v fr.Element) Variable {
	return me.newVariable(v)
}

// Gate appends qL·l + qR·r + qO·o + qM·l·r + qC = 0.
func (me *Builder) Gate(l, r, o Variable, ql, qr, qo, qm, qc fr.Element) {
	if !me.check(l, r, o) {
		return
	}
	me.gates = append(me.gates, gate{
		wires:     [NbWires]Variable{l, r, o},
		selectors: [NbSelectors]fr.Element{ql, qr, qo, qm, qc},
	})
}

func (me *Builder) Add(x, y Variable) Variable {
	vx, vy := me.Value(x), me.Value(y)
	var s fr.Element
	s.Add(&vx, &vy)
	z := me.newVariable(s)
	one, mone := fr.One(), minusOne()
	me.Gate(x, y, z, one, one, mone, fr.Element{}, fr.Element{})
	return z
}

func (me *Builder) Mul(x, y Variable) Variable {
	vx, vy := me.Value(x), me.Value(y)
	var p fr.Element
	p.Mul(&vx, &vy)
	z := me.newVariable(p)
	one, mone := fr.One(), minusOne()
	me.Gate(x, y, z, fr.Element{}, fr.Element{}, mone, one, fr.Element{})
	return z
}

// Constant returns a fresh variable pinned to k by a gate.
func (me *Builder) Constant(k fr.Element) Variable {
	x := me.newVariable(k)
	me.AssertConstant(x, k)
	return x
}

func (me *Builder) AssertConstant(x Variable, k fr.Element) {
	var qc fr.Element
	qc.Neg(&k)
	me.Gate(x, x, x, fr.One(), fr.Element{}, fr.Element{}, fr.Element{}, qc)
}

func (me *Builder) AssertEqual(x, y Variable) {
	if !me.check(x, y) {
		return
	}
	me.copies = append(me.copies, CopyConstraint{A: x, B: y})
}

// RecursiveProofInputs exposes vals as public inputs designated as carrying a
// nested proof's verification key data.
func (me *Builder) RecursiveProofInputs(vals ...fr.Element) []Variable {
	res := make([]Variable, len(vals))
	for i := range vals {
		me.recursive = append(me.recursive, uint32(len(me.publics)))
		res[i] = me.PublicInput(vals[i])
	}
	return res
}

func (me *Builder) Build() (*Circuit, error) {
	if me.err != nil {
		return nil, me.err
	}
	n := len(me.publics) + len(me.gates)
	c := &Circuit{
		Name:                             me.name,
		CopyConstraints:                  append([]CopyConstraint(nil), me.copies...),
		PublicInputs:                     append([]Variable(nil), me.publics...),
		RecursiveProofPublicInputIndices: append([]uint32(nil), me.recursive...),
		NbVariables:                      len(me.values),
		Assignment:                       append([]fr.Element(nil), me.values...),
	}
	for i := range c.Selectors {
		c.Selectors[i] = make([]fr.Element, 0, n)
	}
	for i := range c.Wires {
		c.Wires[i] = make([]Variable, 0, n)
	}
	for _, p := range me.publics {
		c.appendRow(gate{wires: [NbWires]Variable{p, p, p}, selectors: [NbSelectors]fr.Element{QL: fr.One()}})
	}
	for _, g := range me.gates {
		c.appendRow(g)
	}
	return c, nil
}

func (me *Circuit) appendRow(g gate) {
	for i := range me.Selectors {
		me.Selectors[i] = append(me.Selectors[i], g.selectors[i])
	}
	for i := range me.Wires {
		me.Wires[i] = append(me.Wires[i], g.wires[i])
	}
}

func minusOne() fr.Element {
	var m fr.Element
	m.SetOne().Neg(&m)
	return m
}
