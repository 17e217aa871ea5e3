package eoncompose

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/eon-protocol/eoncompose/circuit"
)

// RecursiveProofLinkage designates the public inputs carrying a nested
// proof's verification key.
type RecursiveProofLinkage struct {
	ContainsRecursiveProof           bool
	RecursiveProofPublicInputIndices []uint32
}

func linkageOf(c *circuit.Circuit) (RecursiveProofLinkage, error) {
	seen := make(map[uint32]struct{}, len(c.RecursiveProofPublicInputIndices))
	for _, idx := range c.RecursiveProofPublicInputIndices {
		if int(idx) >= c.NbPublicInputs() {
			return RecursiveProofLinkage{}, fmt.Errorf("%w: index %d with %d public inputs", ErrInvalidRecursiveLinkage, idx, c.NbPublicInputs())
		}
		if _, ok := seen[idx]; ok {
			return RecursiveProofLinkage{}, fmt.Errorf("%w: index %d repeated", ErrInvalidRecursiveLinkage, idx)
		}
		seen[idx] = struct{}{}
	}
	return RecursiveProofLinkage{
		ContainsRecursiveProof:           c.ContainsRecursiveProof(),
		RecursiveProofPublicInputIndices: append([]uint32(nil), c.RecursiveProofPublicInputIndices...),
	}, nil
}

func (me RecursiveProofLinkage) Equal(o RecursiveProofLinkage) bool {
	if me.ContainsRecursiveProof != o.ContainsRecursiveProof || len(me.RecursiveProofPublicInputIndices) != len(o.RecursiveProofPublicInputIndices) {
		return false
	}
	for i := range me.RecursiveProofPublicInputIndices {
		if me.RecursiveProofPublicInputIndices[i] != o.RecursiveProofPublicInputIndices[i] {
			return false
		}
	}
	return true
}

// keyHeader is the block both keys serialize identically.
type keyHeader struct {
	CircuitSize    uint64
	DomainSize     uint64
	NbPublicInputs uint64
	RecursiveProofLinkage
}

func (me *keyHeader) encode(enc *bls12381.Encoder) error {
	var flag uint8
	if me.ContainsRecursiveProof {
		flag = 1
	}
	toEncode := []any{me.CircuitSize, me.DomainSize, me.NbPublicInputs, flag, uint32(len(me.RecursiveProofPublicInputIndices))}
	for _, idx := range me.RecursiveProofPublicInputIndices {
		toEncode = append(toEncode, idx)
	}
	for _, v := range toEncode {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

func (me *keyHeader) decode(dec *bls12381.Decoder) error {
	var flag uint8
	var n uint32
	for _, v := range []any{&me.CircuitSize, &me.DomainSize, &me.NbPublicInputs, &flag, &n} {
		if err := dec.Decode(v); err != nil {
			return err
		}
	}
	switch {
	case me.DomainSize == 0 || me.DomainSize > MAX_DOMAIN_SIZE || me.DomainSize&(me.DomainSize-1) != 0:
		return WrapInvalidCircuitSizeError("domain size %d", me.DomainSize)
	case me.CircuitSize == 0 || me.CircuitSize > me.DomainSize:
		return WrapInvalidCircuitSizeError("%d gates on a domain of %d", me.CircuitSize, me.DomainSize)
	case me.NbPublicInputs > me.CircuitSize:
		return WrapInvalidCircuitSizeError("%d public inputs for %d gates", me.NbPublicInputs, me.CircuitSize)
	}
	if flag > 1 {
		return fmt.Errorf("invalid recursive flag %d", flag)
	}
	if uint64(n) > me.NbPublicInputs {
		return fmt.Errorf("%w: %d indices for %d public inputs", ErrInvalidRecursiveLinkage, n, me.NbPublicInputs)
	}
	me.ContainsRecursiveProof = flag == 1
	me.RecursiveProofPublicInputIndices = make([]uint32, n)
	for i := range me.RecursiveProofPublicInputIndices {
		if err := dec.Decode(&me.RecursiveProofPublicInputIndices[i]); err != nil {
			return err
		}
	}
	if me.ContainsRecursiveProof != (n > 0) {
		return fmt.Errorf("%w: flag does not match index list", ErrInvalidRecursiveLinkage)
	}
	return nil
}

func encodeTag(enc *bls12381.Encoder, tag string) error {
	if len(tag) > 0xffff {
		return fmt.Errorf("tag of %d bytes", len(tag))
	}
	if err := enc.Encode(uint16(len(tag))); err != nil {
		return err
	}
	for i := 0; i < len(tag); i++ {
		if err := enc.Encode(tag[i]); err != nil {
			return err
		}
	}
	return nil
}

func decodeTag(dec *bls12381.Decoder) (string, error) {
	var n uint16
	if err := dec.Decode(&n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	for i := range buf {
		if err := dec.Decode(&buf[i]); err != nil {
			return "", err
		}
	}
	return string(buf), nil
}
