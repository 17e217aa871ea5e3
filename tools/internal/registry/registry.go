// Package registry lists the circuits the tools know how to compose.
package registry

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	eon "github.com/eon-protocol/eoncompose"
	"github.com/eon-protocol/eoncompose/accounts/permissionless"
	"github.com/eon-protocol/eoncompose/circuit"
	"github.com/eon-protocol/eoncompose/circuits/fib"
	"github.com/eon-protocol/eoncompose/circuits/scs"
	"github.com/eon-protocol/eoncompose/plonk"
	"github.com/eon-protocol/eoncompose/srs"
)

type Entry struct {
	Name   string
	Flavor eon.Flavor
	// Build returns the circuit for args, assigned when args carry the
	// private data.
	Build func(args []string) (*circuit.Circuit, error)
}

var compileAccount = sync.OnceValues(func() (*scs.Compiled, error) {
	return scs.Compile(permissionless.NAME, &permissionless.Account{})
})

func parseElement(s string) (fr.Element, error) {
	var e fr.Element
	if _, err := e.SetString(s); err != nil {
		return fr.Element{}, fmt.Errorf("invalid field element %q: %w", s, err)
	}
	return e, nil
}

func buildAccount(args []string) (*circuit.Circuit, error) {
	compiled, err := compileAccount()
	if err != nil {
		return nil, err
	}
	switch len(args) {
	case 0:
		return compiled.Circuit(), nil
	case 4:
	default:
		return nil, fmt.Errorf("%s: expected <x> <y> <z> <w>", permissionless.NAME)
	}
	var vals [4]fr.Element
	for i := range vals {
		if vals[i], err = parseElement(args[i]); err != nil {
			return nil, err
		}
	}
	return compiled.Assign(&permissionless.Account{X: vals[0].String(), Y: vals[1].String(), Z: vals[2].String(), W: vals[3].String()})
}

const DEFAULT_FIB_STEPS = 10

func buildFib(args []string) (*circuit.Circuit, error) {
	steps := DEFAULT_FIB_STEPS
	if len(args) > 0 {
		var err error
		if steps, err = strconv.Atoi(args[0]); err != nil {
			return nil, fmt.Errorf("fib: invalid step count %q", args[0])
		}
	}
	return fib.Circuit(steps)
}

var entries = map[string]Entry{
	permissionless.NAME: {Name: permissionless.NAME, Flavor: plonk.StandardFlavor(), Build: buildAccount},
	"fib":               {Name: "fib", Flavor: plonk.FibFlavor(), Build: buildFib},
}

func Lookup(name string) (Entry, error) {
	e, ok := entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("unknown circuit %q", name)
	}
	return e, nil
}

// All returns every entry sorted by name.
func All() []Entry {
	res := make([]Entry, 0, len(entries))
	for _, e := range entries {
		res = append(res, e)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

// Compose builds both keys of c with the flavor of e.
func (me Entry) Compose(factory srs.Factory, c *circuit.Circuit, opts ...eon.Option) (*eon.Composer, error) {
	composer, err := eon.NewComposer(me.Flavor, factory, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := composer.ComputeProvingKey(c.Shape()); err != nil {
		return nil, err
	}
	if _, err := composer.ComputeVerificationKey(c.Shape()); err != nil {
		return nil, err
	}
	return composer, nil
}
