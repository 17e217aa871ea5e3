package eoncompose

import (
	"errors"
	"fmt"
	"io"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// TaggedPolynomial is an auxiliary selector in canonical form.
type TaggedPolynomial struct {
	Tag          string
	Coefficients []fr.Element
}

// ProvingKey carries every polynomial in canonical form. It is written to by
// the composer only, before a prover is created from it.
type ProvingKey struct {
	CircuitSize    uint64
	NbPublicInputs uint64
	Domain         *EvaluationDomain
	Selectors      [NUM_SELECTORS][]fr.Element
	Sigmas         [NUM_WIRES][]fr.Element
	Tables         []TaggedPolynomial
	RecursiveProofLinkage

	CommitmentKey *CommitmentKey
	Witness       *Witness
}

func (me *ProvingKey) DomainSize() uint64 {
	return me.Domain.Cardinality
}

func (me *ProvingKey) Table(tag string) ([]fr.Element, bool) {
	for i := range me.Tables {
		if me.Tables[i].Tag == tag {
			return me.Tables[i].Coefficients, true
		}
	}
	return nil, false
}

func (me *ProvingKey) header() keyHeader {
	return keyHeader{
		CircuitSize:           me.CircuitSize,
		DomainSize:            me.DomainSize(),
		NbPublicInputs:        me.NbPublicInputs,
		RecursiveProofLinkage: me.RecursiveProofLinkage,
	}
}

// Polynomials lists selectors, sigmas and tables in commitment order.
func (me *ProvingKey) Polynomials() [][]fr.Element {
	res := make([][]fr.Element, 0, NUM_SELECTORS+NUM_WIRES+len(me.Tables))
	res = append(res, me.Selectors[:]...)
	res = append(res, me.Sigmas[:]...)
	for i := range me.Tables {
		res = append(res, me.Tables[i].Coefficients)
	}
	return res
}

// WriteTo writes the key without its commitment key and witness.
func (me *ProvingKey) WriteTo(w io.Writer) (int64, error) {
	enc := bls12381.NewEncoder(w)
	h := me.header()
	if err := h.encode(enc); err != nil {
		return enc.BytesWritten(), err
	}
	if err := enc.Encode(uint32(len(me.Tables))); err != nil {
		return enc.BytesWritten(), err
	}
	for i := range me.Tables {
		if err := encodeTag(enc, me.Tables[i].Tag); err != nil {
			return enc.BytesWritten(), err
		}
	}
	n := enc.BytesWritten()
	for _, p := range me.Polynomials() {
		v := fr.Vector(p)
		m, err := v.WriteTo(w)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func (me *ProvingKey) ReadFrom(r io.Reader) (int64, error) {
	dec := bls12381.NewDecoder(r)
	var h keyHeader
	if err := h.decode(dec); err != nil {
		return dec.BytesRead(), err
	}
	var nbTables uint32
	if err := dec.Decode(&nbTables); err != nil {
		return dec.BytesRead(), err
	}
	if nbTables > MAX_TABLES {
		return dec.BytesRead(), fmt.Errorf("%d table columns", nbTables)
	}
	tables := make([]TaggedPolynomial, nbTables)
	for i := range tables {
		tag, err := decodeTag(dec)
		if err != nil {
			return dec.BytesRead(), err
		}
		tables[i].Tag = tag
	}
	domain, err := NewEvaluationDomain(int(h.CircuitSize), int(h.DomainSize-h.CircuitSize))
	if err != nil {
		return dec.BytesRead(), err
	}
	if domain.Cardinality != h.DomainSize {
		return dec.BytesRead(), WrapInvalidCircuitSizeError("domain size %d is not a power of two", h.DomainSize)
	}

	n := dec.BytesRead()
	read := func() ([]fr.Element, error) {
		var v fr.Vector
		m, err := v.ReadFrom(r)
		n += m
		if err != nil {
			return nil, err
		}
		if uint64(len(v)) != h.DomainSize {
			return nil, fmt.Errorf("polynomial of size %d on a domain of %d", len(v), h.DomainSize)
		}
		return v, nil
	}
	res := ProvingKey{
		CircuitSize:           h.CircuitSize,
		NbPublicInputs:        h.NbPublicInputs,
		Domain:                domain,
		RecursiveProofLinkage: h.RecursiveProofLinkage,
		Tables:                tables,
	}
	for i := range res.Selectors {
		if res.Selectors[i], err = read(); err != nil {
			return n, err
		}
	}
	for j := range res.Sigmas {
		if res.Sigmas[j], err = read(); err != nil {
			return n, err
		}
	}
	for i := range res.Tables {
		if res.Tables[i].Coefficients, err = read(); err != nil {
			return n, err
		}
	}
	*me = res
	return n, nil
}

var errNoDomain = errors.New("proving key has no domain")

func (me *ProvingKey) validate() error {
	if me.Domain == nil {
		return errNoDomain
	}
	return nil
}
