// Package scs turns gnark circuits compiled with the sparse constraint system
// builder into circuit.Circuit, so that their keys can be composed.
package scs

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	cs "github.com/consensys/gnark/constraint/bls12-381"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/scs"

	"github.com/eon-protocol/eoncompose/circuit"
)

var ErrCommitmentsUnsupported = errors.New("scs: circuits using frontend.Committer are not supported")

// Compiled keeps the gnark system next to its translation.
type Compiled struct {
	spr   *cs.SparseR1CS
	shape *circuit.Circuit
	rows  int
}

func Compile(name string, c frontend.Circuit) (*Compiled, error) {
	ccs, err := frontend.Compile(ecc.BLS12_381.ScalarField(), scs.NewBuilder, c)
	if err != nil {
		return nil, err
	}
	spr, ok := ccs.(*cs.SparseR1CS)
	if !ok {
		return nil, fmt.Errorf("scs: unexpected constraint system %T", ccs)
	}
	if len(spr.GetCommitments().CommitmentIndexes()) > 0 {
		return nil, ErrCommitmentsUnsupported
	}

	nbInternal, nbSecret, nbPublic := spr.GetNbVariables()
	res := &circuit.Circuit{
		Name:        name,
		NbVariables: nbInternal + nbSecret + nbPublic,
	}
	zero, one := fr.Element{}, fr.One()
	appendRow := func(l, r, o uint32, q [circuit.NbSelectors]fr.Element) {
		res.Wires[circuit.L] = append(res.Wires[circuit.L], circuit.Variable(l))
		res.Wires[circuit.R] = append(res.Wires[circuit.R], circuit.Variable(r))
		res.Wires[circuit.O] = append(res.Wires[circuit.O], circuit.Variable(o))
		for i := range q {
			res.Selectors[i] = append(res.Selectors[i], q[i])
		}
	}
	// public wires come first in gnark's numbering
	for i := 0; i < nbPublic; i++ {
		res.PublicInputs = append(res.PublicInputs, circuit.Variable(i))
		appendRow(uint32(i), uint32(i), uint32(i), [circuit.NbSelectors]fr.Element{one, zero, zero, zero, zero})
	}
	rows := 0
	it := spr.GetSparseR1CIterator()
	for c := it.Next(); c != nil; c = it.Next() {
		appendRow(c.XA, c.XB, c.XC, [circuit.NbSelectors]fr.Element{
			spr.Coefficients[c.QL],
			spr.Coefficients[c.QR],
			spr.Coefficients[c.QO],
			spr.Coefficients[c.QM],
			spr.Coefficients[c.QC],
		})
		rows++
	}
	if res.NbGates() == 0 {
		return nil, fmt.Errorf("scs: %s has no constraint", name)
	}
	return &Compiled{spr: spr, shape: res, rows: rows}, nil
}

// Circuit is the unassigned translation.
func (me *Compiled) Circuit() *circuit.Circuit {
	return me.shape
}

func (me *Compiled) NbConstraints() int {
	return me.rows
}

// Assign solves the gnark system on assignment and returns the assigned
// translation.
func (me *Compiled) Assign(assignment frontend.Circuit) (*circuit.Circuit, error) {
	w, err := frontend.NewWitness(assignment, ecc.BLS12_381.ScalarField())
	if err != nil {
		return nil, err
	}
	sol, err := me.spr.Solve(w)
	if err != nil {
		return nil, err
	}
	solution, ok := sol.(*cs.SparseR1CSSolution)
	if !ok {
		return nil, fmt.Errorf("scs: unexpected solution %T", sol)
	}
	vec, ok := w.Vector().(fr.Vector)
	if !ok {
		return nil, fmt.Errorf("scs: unexpected witness vector %T", w.Vector())
	}

	values := make([]fr.Element, me.shape.NbVariables)
	_, _, nbPublic := me.spr.GetNbVariables()
	copy(values, vec)
	// gnark lays out the public rows, then the constraints, then padding
	if len(solution.L) < nbPublic+me.rows {
		return nil, fmt.Errorf("scs: solution of %d rows for %d public inputs and %d constraints", len(solution.L), nbPublic, me.rows)
	}
	for row := nbPublic; row < nbPublic+me.rows; row++ {
		values[me.shape.Wires[circuit.L][row]] = solution.L[row]
		values[me.shape.Wires[circuit.R][row]] = solution.R[row]
		values[me.shape.Wires[circuit.O][row]] = solution.O[row]
	}
	return me.shape.WithAssignment(values), nil
}
