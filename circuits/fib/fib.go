// Package fib builds Fibonacci trace circuits: starting from (x, y) = (0, 1)
// every step moves to (y, x + y), the final y being the public output.
package fib

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/eon-protocol/eoncompose/circuit"
)

// Value is the y reached after nbSteps transitions.
func Value(nbSteps int) fr.Element {
	x, y := fr.NewElement(0), fr.One()
	for i := 0; i < nbSteps; i++ {
		x, y = y, *new(fr.Element).Add(&x, &y)
	}
	return y
}

// Circuit returns the assigned trace of nbSteps transitions.
func Circuit(nbSteps int) (*circuit.Circuit, error) {
	return build(fmt.Sprintf("fib-%d", nbSteps), nbSteps, nil)
}

// RecursiveCircuit additionally exposes inner, the recursion inputs of the
// verification key of a proof this trace continues.
func RecursiveCircuit(nbSteps int, inner []fr.Element) (*circuit.Circuit, error) {
	if len(inner) == 0 {
		return nil, fmt.Errorf("fib: recursive circuit without inner key data")
	}
	return build(fmt.Sprintf("fib-%d-recursive", nbSteps), nbSteps, inner)
}

func build(name string, nbSteps int, inner []fr.Element) (*circuit.Circuit, error) {
	if nbSteps < 1 {
		return nil, fmt.Errorf("fib: %d steps", nbSteps)
	}
	b := circuit.NewBuilder(name)
	b.RecursiveProofInputs(inner...)
	out := b.PublicInput(Value(nbSteps))

	x := b.Constant(fr.NewElement(0))
	y := b.Constant(fr.One())
	for i := 0; i < nbSteps; i++ {
		x, y = y, b.Add(x, y)
	}
	b.AssertEqual(y, out)
	return b.Build()
}
