package eoncompose

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"golang.org/x/sync/errgroup"

	"github.com/eon-protocol/eoncompose/circuit"
)

var SigmaNames = [NUM_WIRES]string{"sigma_1", "sigma_2", "sigma_3"}

// Column is one encoded polynomial in both forms.
type Column struct {
	Tag       string
	Lagrange  []fr.Element
	Canonical []fr.Element
}

type EncodedCircuit struct {
	Domain         *EvaluationDomain
	NbPublicInputs int
	Selectors      [NUM_SELECTORS]Column
	Sigmas         [NUM_WIRES]Column
}

func validateShape(c *circuit.Circuit) error {
	rows := c.NbGates()
	for i := range c.Selectors {
		if len(c.Selectors[i]) != rows {
			return WrapInvalidCircuitSizeError("selector %s has %d rows, expected %d", circuit.SelectorNames[i], len(c.Selectors[i]), rows)
		}
	}
	for j := range c.Wires {
		if len(c.Wires[j]) != rows {
			return WrapInvalidCircuitSizeError("wire column %d has %d rows, expected %d", j, len(c.Wires[j]), rows)
		}
	}
	if len(c.PublicInputs) > rows {
		return WrapInvalidCircuitSizeError("%d public inputs for %d rows", len(c.PublicInputs), rows)
	}
	if c.Assignment != nil && len(c.Assignment) != c.NbVariables {
		return WrapInvalidCircuitSizeError("assignment has %d values for %d variables", len(c.Assignment), c.NbVariables)
	}
	return nil
}

// Encode interpolates the selector and permutation columns of c over its domain.
// The result only depends on c and flavor.
func Encode(c *circuit.Circuit, flavor Flavor, nbTasks int) (*EncodedCircuit, error) {
	if err := validateShape(c); err != nil {
		return nil, err
	}
	domain, err := NewEvaluationDomain(c.NbGates(), flavor.NumReservedGates)
	if err != nil {
		return nil, err
	}
	next, err := Permutation(c, int(domain.Cardinality))
	if err != nil {
		return nil, err
	}
	sigmas := SigmaEvaluations(next, domain)

	enc := &EncodedCircuit{Domain: domain, NbPublicInputs: c.NbPublicInputs()}
	for i := range enc.Selectors {
		enc.Selectors[i] = Column{Tag: circuit.SelectorNames[i], Lagrange: domain.Pad(c.Selectors[i])}
	}
	for j := range enc.Sigmas {
		enc.Sigmas[j] = Column{Tag: SigmaNames[j], Lagrange: sigmas[j]}
	}

	var g errgroup.Group
	if nbTasks > 0 {
		g.SetLimit(nbTasks)
	}
	for _, col := range enc.columns() {
		g.Go(func() error {
			col.Canonical = domain.Interpolate(append([]fr.Element(nil), col.Lagrange...))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.Name, err)
	}
	return enc, nil
}

func (me *EncodedCircuit) columns() []*Column {
	res := make([]*Column, 0, NUM_SELECTORS+NUM_WIRES)
	for i := range me.Selectors {
		res = append(res, &me.Selectors[i])
	}
	for j := range me.Sigmas {
		res = append(res, &me.Sigmas[j])
	}
	return res
}
