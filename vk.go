package eoncompose

import (
	"fmt"
	"io"
	"math/bits"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"

	"github.com/eon-protocol/eoncompose/circuits/hasher"
)

type TaggedCommitment struct {
	Tag        string
	Commitment kzg.Digest
}

// VerificationKey only keeps commitments. Immutable once composed.
type VerificationKey struct {
	CircuitSize    uint64
	DomainSize     uint64
	NbPublicInputs uint64
	Selectors      [NUM_SELECTORS]kzg.Digest
	Sigmas         [NUM_WIRES]kzg.Digest
	Tables         []TaggedCommitment
	RecursiveProofLinkage
}

func (me *VerificationKey) Generator() (fr.Element, error) {
	return fr.Generator(me.DomainSize)
}

// Commitments lists selectors, sigmas and tables in the order of
// ProvingKey.Polynomials.
func (me *VerificationKey) Commitments() []kzg.Digest {
	res := make([]kzg.Digest, 0, NUM_SELECTORS+NUM_WIRES+len(me.Tables))
	res = append(res, me.Selectors[:]...)
	res = append(res, me.Sigmas[:]...)
	for i := range me.Tables {
		res = append(res, me.Tables[i].Commitment)
	}
	return res
}

func (me *VerificationKey) header() keyHeader {
	return keyHeader{
		CircuitSize:           me.CircuitSize,
		DomainSize:            me.DomainSize,
		NbPublicInputs:        me.NbPublicInputs,
		RecursiveProofLinkage: me.RecursiveProofLinkage,
	}
}

// TagElement maps a table tag to the field element its key hash absorbs.
func TagElement(tag string) fr.Element {
	var e fr.Element
	e.SetBytes([]byte(tag))
	return e
}

// Hash is the Poseidon2 digest a recursive circuit uses to name this key.
func (me *VerificationKey) Hash() fr.Element {
	var flag fr.Element
	if me.ContainsRecursiveProof {
		flag.SetOne()
	}
	vals := []fr.Element{
		hasher.DOMAIN_VK,
		fr.NewElement(me.CircuitSize),
		fr.NewElement(me.DomainSize),
		fr.NewElement(me.NbPublicInputs),
		flag,
	}
	for _, idx := range me.RecursiveProofPublicInputIndices {
		vals = append(vals, fr.NewElement(uint64(idx)))
	}
	for _, c := range me.Selectors {
		vals = append(vals, hasher.G1(c))
	}
	for _, c := range me.Sigmas {
		vals = append(vals, hasher.G1(c))
	}
	for _, t := range me.Tables {
		vals = append(vals, TagElement(t.Tag), hasher.G1(t.Commitment))
	}
	return hasher.Sum(vals...)
}

// RecursionInputs are the public inputs an outer circuit exposes to carry
// this key: its hash, its circuit size, domain size and public input count.
func (me *VerificationKey) RecursionInputs() []fr.Element {
	return []fr.Element{me.Hash(), fr.NewElement(me.CircuitSize), fr.NewElement(me.DomainSize), fr.NewElement(me.NbPublicInputs)}
}

func (me *VerificationKey) WriteTo(w io.Writer) (int64, error) {
	enc := bls12381.NewEncoder(w)
	h := me.header()
	if err := h.encode(enc); err != nil {
		return enc.BytesWritten(), err
	}
	for i := range me.Selectors {
		if err := enc.Encode(&me.Selectors[i]); err != nil {
			return enc.BytesWritten(), err
		}
	}
	for j := range me.Sigmas {
		if err := enc.Encode(&me.Sigmas[j]); err != nil {
			return enc.BytesWritten(), err
		}
	}
	if err := enc.Encode(uint32(len(me.Tables))); err != nil {
		return enc.BytesWritten(), err
	}
	for i := range me.Tables {
		if err := encodeTag(enc, me.Tables[i].Tag); err != nil {
			return enc.BytesWritten(), err
		}
		if err := enc.Encode(&me.Tables[i].Commitment); err != nil {
			return enc.BytesWritten(), err
		}
	}
	return enc.BytesWritten(), nil
}

func (me *VerificationKey) ReadFrom(r io.Reader) (int64, error) {
	dec := bls12381.NewDecoder(r)
	var h keyHeader
	if err := h.decode(dec); err != nil {
		return dec.BytesRead(), err
	}
	if bits.OnesCount64(h.DomainSize) != 1 || h.DomainSize < h.CircuitSize {
		return dec.BytesRead(), WrapInvalidCircuitSizeError("domain size %d for %d gates", h.DomainSize, h.CircuitSize)
	}
	res := VerificationKey{
		CircuitSize:           h.CircuitSize,
		DomainSize:            h.DomainSize,
		NbPublicInputs:        h.NbPublicInputs,
		RecursiveProofLinkage: h.RecursiveProofLinkage,
	}
	for i := range res.Selectors {
		if err := dec.Decode(&res.Selectors[i]); err != nil {
			return dec.BytesRead(), err
		}
	}
	for j := range res.Sigmas {
		if err := dec.Decode(&res.Sigmas[j]); err != nil {
			return dec.BytesRead(), err
		}
	}
	var nbTables uint32
	if err := dec.Decode(&nbTables); err != nil {
		return dec.BytesRead(), err
	}
	if nbTables > MAX_TABLES {
		return dec.BytesRead(), fmt.Errorf("%d table columns", nbTables)
	}
	res.Tables = make([]TaggedCommitment, nbTables)
	for i := range res.Tables {
		tag, err := decodeTag(dec)
		if err != nil {
			return dec.BytesRead(), err
		}
		res.Tables[i].Tag = tag
		if err := dec.Decode(&res.Tables[i].Commitment); err != nil {
			return dec.BytesRead(), err
		}
	}
	*me = res
	return dec.BytesRead(), nil
}
