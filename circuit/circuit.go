// Package circuit describes width-3 arithmetized circuits: five selector columns,
// three wire columns of variable ids, copy constraints and public inputs.
//
// Every row enforces
//
//	qL·l + qR·r + qO·o + qM·l·r + qC + PI = 0
//
// where PI is -xᵢ on the i-th public row and zero elsewhere. Public rows always
// come first and carry qL = 1.
package circuit

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

type Variable uint32

const (
	L = iota
	R
	O
	NbWires
)

const (
	QL = iota
	QR
	QO
	QM
	QC
	NbSelectors
)

var SelectorNames = [NbSelectors]string{"q_l", "q_r", "q_o", "q_m", "q_c"}

// CopyConstraint forces two variables to carry the same value.
type CopyConstraint struct {
	A, B Variable
}

type Circuit struct {
	Name            string
	Selectors       [NbSelectors][]fr.Element
	Wires           [NbWires][]Variable
	CopyConstraints []CopyConstraint
	// PublicInputs[i] is the variable exposed on row i.
	PublicInputs []Variable
	// RecursiveProofPublicInputIndices index into PublicInputs.
	RecursiveProofPublicInputIndices []uint32
	NbVariables                      int
	// Assignment holds one value per variable, nil when only the shape is known.
	Assignment []fr.Element
}

func (me *Circuit) NbGates() int {
	return len(me.Wires[L])
}

func (me *Circuit) NbPublicInputs() int {
	return len(me.PublicInputs)
}

func (me *Circuit) HasAssignment() bool {
	return me.Assignment != nil
}

func (me *Circuit) ContainsRecursiveProof() bool {
	return len(me.RecursiveProofPublicInputIndices) > 0
}

// PublicInputValues returns the assigned public inputs in row order.
func (me *Circuit) PublicInputValues() []fr.Element {
	if me.Assignment == nil {
		return nil
	}
	res := make([]fr.Element, len(me.PublicInputs))
	for i, v := range me.PublicInputs {
		res[i] = me.Assignment[v]
	}
	return res
}

// Shape returns a copy of c without its assignment, as seen by a verifier.
func (me *Circuit) Shape() *Circuit {
	res := *me
	res.Assignment = nil
	return &res
}

// WithAssignment returns a copy of c using values as assignment.
func (me *Circuit) WithAssignment(values []fr.Element) *Circuit {
	res := *me
	res.Assignment = values
	return &res
}

// GateKind names the relation enforced at row, used in error reports.
func (me *Circuit) GateKind(row int) string {
	if row < len(me.PublicInputs) {
		return "public_input"
	}
	s := func(i int) *fr.Element { return &me.Selectors[i][row] }
	switch {
	case !s(QM).IsZero():
		return "multiplication"
	case s(QR).IsZero() && s(QO).IsZero() && !s(QC).IsZero():
		return "constant"
	case s(QL).IsZero() && s(QR).IsZero() && s(QO).IsZero() && s(QC).IsZero():
		return "empty"
	default:
		return "addition"
	}
}
