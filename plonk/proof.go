package plonk

import (
	"io"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
)

type Proof struct {
	// commitments to the blinded wire polynomials
	LRO [3]kzg.Digest
	// commitment to the blinded grand product
	Z kzg.Digest
	// commitments to the three quotient pieces
	H [3]kzg.Digest
	// openings at ζ of a, b, c, z, h1, h2, h3 then every key polynomial
	BatchedProof kzg.BatchOpeningProof
	// opening of z at ωζ
	ZShiftedOpening kzg.OpeningProof
}

func (me *Proof) WriteTo(w io.Writer) (int64, error) {
	enc := bls12381.NewEncoder(w)
	toEncode := []any{
		&me.LRO[0], &me.LRO[1], &me.LRO[2],
		&me.Z,
		&me.H[0], &me.H[1], &me.H[2],
		&me.BatchedProof.H,
		me.BatchedProof.ClaimedValues,
		&me.ZShiftedOpening.H,
		&me.ZShiftedOpening.ClaimedValue,
	}
	for _, v := range toEncode {
		if err := enc.Encode(v); err != nil {
			return enc.BytesWritten(), err
		}
	}
	return enc.BytesWritten(), nil
}

func (me *Proof) ReadFrom(r io.Reader) (int64, error) {
	dec := bls12381.NewDecoder(r)
	var claimed []fr.Element
	var res Proof
	toDecode := []any{
		&res.LRO[0], &res.LRO[1], &res.LRO[2],
		&res.Z,
		&res.H[0], &res.H[1], &res.H[2],
		&res.BatchedProof.H,
		&claimed,
		&res.ZShiftedOpening.H,
		&res.ZShiftedOpening.ClaimedValue,
	}
	for _, v := range toDecode {
		if err := dec.Decode(v); err != nil {
			return dec.BytesRead(), err
		}
	}
	res.BatchedProof.ClaimedValues = claimed
	*me = res
	return dec.BytesRead(), nil
}
