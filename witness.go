package eoncompose

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"golang.org/x/sync/errgroup"

	"github.com/eon-protocol/eoncompose/circuit"
)

var ErrMissingAssignment = errors.New("circuit has no assignment")

// Witness holds the wire polynomials of an assigned circuit. Padding rows are
// zero.
type Witness struct {
	Lagrange     [NUM_WIRES][]fr.Element
	Canonical    [NUM_WIRES][]fr.Element
	PublicInputs []fr.Element
}

// CheckAssignment returns the violation on the smallest row. A copy
// constraint sits on the first row wiring either of its variables; on a tie
// the gate is reported.
func CheckAssignment(c *circuit.Circuit) error {
	if c.Assignment == nil {
		return ErrMissingAssignment
	}
	if err := validateShape(c); err != nil {
		return err
	}
	values := c.Assignment
	firstRow := make([]int, len(values))
	for v := range firstRow {
		firstRow[v] = -1
	}
	for i := 0; i < c.NbGates(); i++ {
		for j := range c.Wires {
			v := c.Wires[j][i]
			if int(v) >= len(values) {
				return WrapInvalidCircuitSizeError("row %d references an unknown variable", i)
			}
			if firstRow[v] < 0 {
				firstRow[v] = i
			}
		}
	}

	var violation *ConstraintViolationError
	pub := c.PublicInputValues()
	var acc, t fr.Element
	for i := 0; i < c.NbGates() && violation == nil; i++ {
		l, r, o := c.Wires[circuit.L][i], c.Wires[circuit.R][i], c.Wires[circuit.O][i]
		a, b, d := &values[l], &values[r], &values[o]
		acc.Mul(&c.Selectors[circuit.QL][i], a)
		t.Mul(&c.Selectors[circuit.QR][i], b)
		acc.Add(&acc, &t)
		t.Mul(&c.Selectors[circuit.QO][i], d)
		acc.Add(&acc, &t)
		t.Mul(a, b).Mul(&t, &c.Selectors[circuit.QM][i])
		acc.Add(&acc, &t)
		acc.Add(&acc, &c.Selectors[circuit.QC][i])
		if i < len(pub) {
			acc.Sub(&acc, &pub[i])
		}
		if !acc.IsZero() {
			violation = &ConstraintViolationError{Row: i, Gate: c.GateKind(i)}
		}
	}

	for _, cc := range c.CopyConstraints {
		if int(cc.A) >= len(values) || int(cc.B) >= len(values) {
			return WrapInvalidCircuitSizeError("copy constraint on unknown variable")
		}
		ra, rb := firstRow[cc.A], firstRow[cc.B]
		if ra < 0 || rb < 0 {
			return WrapInvalidCircuitSizeError("copy constraint on unwired variable %d or %d", cc.A, cc.B)
		}
		if values[cc.A].Equal(&values[cc.B]) {
			continue
		}
		row := min(ra, rb)
		if violation == nil || row < violation.Row {
			violation = &ConstraintViolationError{Row: row, Gate: "copy"}
		}
	}
	if violation != nil {
		return violation
	}
	return nil
}

// MaterializeWitness checks c against its assignment and returns the wire
// polynomials over domain.
func MaterializeWitness(c *circuit.Circuit, domain *EvaluationDomain, nbTasks int) (*Witness, error) {
	if err := CheckAssignment(c); err != nil {
		return nil, err
	}
	if uint64(c.NbGates()) > domain.Cardinality {
		return nil, WrapInvalidCircuitSizeError("%d gates on a domain of %d", c.NbGates(), domain.Cardinality)
	}
	w := &Witness{PublicInputs: c.PublicInputValues()}
	var g errgroup.Group
	if nbTasks > 0 {
		g.SetLimit(nbTasks)
	}
	for j := range w.Lagrange {
		g.Go(func() error {
			evals := make([]fr.Element, domain.Cardinality)
			for i, v := range c.Wires[j] {
				evals[i] = c.Assignment[v]
			}
			w.Lagrange[j] = evals
			w.Canonical[j] = domain.Interpolate(append([]fr.Element(nil), evals...))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("materialize witness: %w", err)
	}
	return w, nil
}
