// Package recursion binds the verification key a recursive circuit names in
// its public inputs to the key's commitments: the key hash is recomputed in
// circuit from the decomposed commitments, with the Poseidon2 gadget.
package recursion

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
	"github.com/consensys/gnark/frontend"

	eon "github.com/eon-protocol/eoncompose"
	"github.com/eon-protocol/eoncompose/circuits/hasher"
)

// Key is the in-circuit image of a verification key.
type Key struct {
	CircuitSize, DomainSize, NbPublicInputs frontend.Variable
	Recursive                               frontend.Variable
	Indices                                 []frontend.Variable

	Selectors [eon.NUM_SELECTORS]hasher.G1Limbs
	Sigmas    [eon.NUM_WIRES]hasher.G1Limbs
	TableTags []frontend.Variable
	Tables    []hasher.G1Limbs
}

func limbsOf(d kzg.Digest) hasher.G1Limbs {
	l := hasher.DecomposeG1(d)
	return hasher.G1Limbs{XQ: l[0][0].String(), XM: l[0][1].String(), YQ: l[1][0].String(), YM: l[1][1].String()}
}

// ValueOfKey assigns vk.
func ValueOfKey(vk *eon.VerificationKey) Key {
	k := PlaceholderKey(len(vk.RecursiveProofPublicInputIndices), len(vk.Tables))
	k.CircuitSize = vk.CircuitSize
	k.DomainSize = vk.DomainSize
	k.NbPublicInputs = vk.NbPublicInputs
	k.Recursive = 0
	if vk.ContainsRecursiveProof {
		k.Recursive = 1
	}
	for i, idx := range vk.RecursiveProofPublicInputIndices {
		k.Indices[i] = idx
	}
	for i := range vk.Selectors {
		k.Selectors[i] = limbsOf(vk.Selectors[i])
	}
	for j := range vk.Sigmas {
		k.Sigmas[j] = limbsOf(vk.Sigmas[j])
	}
	for i := range vk.Tables {
		tag := eon.TagElement(vk.Tables[i].Tag)
		k.TableTags[i] = tag.String()
		k.Tables[i] = limbsOf(vk.Tables[i].Commitment)
	}
	return k
}

// PlaceholderKey sizes a Key for compilation.
func PlaceholderKey(nbIndices, nbTables int) Key {
	return Key{
		Indices:   make([]frontend.Variable, nbIndices),
		TableTags: make([]frontend.Variable, nbTables),
		Tables:    make([]hasher.G1Limbs, nbTables),
	}
}

// Hash absorbs the key in the order of VerificationKey.Hash.
func (me *Key) Hash(g *hasher.Gadget) frontend.Variable {
	vals := []frontend.Variable{
		hasher.DOMAIN_VK.String(),
		me.CircuitSize,
		me.DomainSize,
		me.NbPublicInputs,
		me.Recursive,
	}
	vals = append(vals, me.Indices...)
	for i := range me.Selectors {
		vals = append(vals, g.G1(me.Selectors[i]))
	}
	for j := range me.Sigmas {
		vals = append(vals, g.G1(me.Sigmas[j]))
	}
	for i := range me.Tables {
		vals = append(vals, me.TableTags[i], g.G1(me.Tables[i]))
	}
	return g.Sum(vals...)
}

// KeyHashCircuit proves knowledge of a key with the public hash and sizes,
// the values VerificationKey.RecursionInputs exposes.
type KeyHashCircuit struct {
	Key            Key
	Hash           frontend.Variable `gnark:",public"`
	CircuitSize    frontend.Variable `gnark:",public"`
	DomainSize     frontend.Variable `gnark:",public"`
	NbPublicInputs frontend.Variable `gnark:",public"`
}

func (me *KeyHashCircuit) Define(api frontend.API) error {
	g, err := hasher.NewGadget(api)
	if err != nil {
		return err
	}
	api.AssertIsBoolean(me.Key.Recursive)
	api.AssertIsEqual(me.Key.Hash(g), me.Hash)
	api.AssertIsEqual(me.Key.CircuitSize, me.CircuitSize)
	api.AssertIsEqual(me.Key.DomainSize, me.DomainSize)
	api.AssertIsEqual(me.Key.NbPublicInputs, me.NbPublicInputs)
	return nil
}

// NewKeyHashCircuit returns the placeholder for keys shaped like vk.
func NewKeyHashCircuit(vk *eon.VerificationKey) *KeyHashCircuit {
	return &KeyHashCircuit{Key: PlaceholderKey(len(vk.RecursiveProofPublicInputIndices), len(vk.Tables))}
}

// AssignKeyHashCircuit returns the assignment for vk.
func AssignKeyHashCircuit(vk *eon.VerificationKey) *KeyHashCircuit {
	in := vk.RecursionInputs()
	return &KeyHashCircuit{
		Key:            ValueOfKey(vk),
		Hash:           in[0].String(),
		CircuitSize:    in[1].String(),
		DomainSize:     in[2].String(),
		NbPublicInputs: in[3].String(),
	}
}
