package eoncompose

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/eon-protocol/eoncompose/circuit"
)

// variable classes under copy constraints
type unionFind []uint32

func newUnionFind(n int) unionFind {
	uf := make(unionFind, n)
	for i := range uf {
		uf[i] = uint32(i)
	}
	return uf
}

func (me unionFind) find(x uint32) uint32 {
	root := x
	for me[root] != root {
		root = me[root]
	}
	for me[x] != root {
		me[x], x = root, me[x]
	}
	return root
}

// union keeps the smaller root so classes do not depend on constraint order.
func (me unionFind) union(a, b uint32) {
	ra, rb := me.find(a), me.find(b)
	switch {
	case ra < rb:
		me[rb] = ra
	case rb < ra:
		me[ra] = rb
	}
}

// Permutation returns, for every slot j·n+i of the wire columns, the slot
// following it in its copy class. Slots of a class are chained in (column, row)
// order and the chain is closed. Padding slots map to themselves.
func Permutation(c *circuit.Circuit, n int) ([]int, error) {
	rows := c.NbGates()
	if rows > n {
		return nil, WrapInvalidCircuitSizeError("%d gates on a domain of %d", rows, n)
	}
	uf := newUnionFind(c.NbVariables)
	for _, cc := range c.CopyConstraints {
		if int(cc.A) >= c.NbVariables || int(cc.B) >= c.NbVariables {
			return nil, WrapInvalidCircuitSizeError("copy constraint on unknown variable")
		}
		uf.union(uint32(cc.A), uint32(cc.B))
	}

	next := make([]int, NUM_WIRES*n)
	for s := range next {
		next[s] = s
	}
	first := make([]int, c.NbVariables)
	last := make([]int, c.NbVariables)
	seen := bitset.New(uint(c.NbVariables))
	for j := 0; j < NUM_WIRES; j++ {
		for i := 0; i < rows; i++ {
			v := c.Wires[j][i]
			if int(v) >= c.NbVariables {
				return nil, WrapInvalidCircuitSizeError("row %d wire %d references unknown variable %d", i, j, v)
			}
			root := uf.find(uint32(v))
			s := j*n + i
			if !seen.Test(uint(root)) {
				seen.Set(uint(root))
				first[root] = s
			} else {
				next[last[root]] = s
			}
			last[root] = s
		}
	}
	for root, ok := seen.NextSet(0); ok; root, ok = seen.NextSet(root + 1) {
		next[last[root]] = first[root]
	}
	return next, nil
}

// SigmaEvaluations maps each slot to the identity value of the slot it is
// permuted to: σⱼ(ωⁱ) = k_{j'}·ω^{i'} for next(j, i) = (j', i').
func SigmaEvaluations(next []int, d *EvaluationDomain) [NUM_WIRES][]fr.Element {
	n := int(d.Cardinality)
	shifts := CosetShifts()
	omegas := d.Elements()
	var res [NUM_WIRES][]fr.Element
	for j := range res {
		res[j] = make([]fr.Element, n)
		for i := 0; i < n; i++ {
			t := next[j*n+i]
			res[j][i].Mul(&shifts[t/n], &omegas[t%n])
		}
	}
	return res
}

// IdentityEvaluations returns kⱼ·ωⁱ, the value of slot (j, i) itself.
func IdentityEvaluations(d *EvaluationDomain) [NUM_WIRES][]fr.Element {
	n := int(d.Cardinality)
	next := make([]int, NUM_WIRES*n)
	for s := range next {
		next[s] = s
	}
	return SigmaEvaluations(next, d)
}
