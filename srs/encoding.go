package srs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
)

func readLimbs(r io.Reader, buf []byte, e *fp.Element) error {
	for i := range e {
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		e[i] = binary.BigEndian.Uint64(buf)
	}
	return nil
}

func writeLimbs(w io.Writer, e *fp.Element) error {
	for _, v := range e {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return err
		}
	}
	return nil
}

// ParseG1 reads size points stored as the raw limbs of X then Y.
func ParseG1(raw []byte, size int) ([]bls12381.G1Affine, error) {
	if len(raw) < size*G1_BYTES {
		return nil, fmt.Errorf("srs: %d bytes hold %d points, %d requested", len(raw), len(raw)/G1_BYTES, size)
	}
	buf := make([]byte, 8)
	reader := bytes.NewReader(raw)
	val := make([]bls12381.G1Affine, size)
	for n := range val {
		if err := readLimbs(reader, buf, &val[n].X); err != nil {
			return nil, err
		}
		if err := readLimbs(reader, buf, &val[n].Y); err != nil {
			return nil, err
		}
	}
	return val, nil
}

func WriteG1(w io.Writer, points []bls12381.G1Affine) error {
	for i := range points {
		if err := writeLimbs(w, &points[i].X); err != nil {
			return err
		}
		if err := writeLimbs(w, &points[i].Y); err != nil {
			return err
		}
	}
	return nil
}

func ParseG2(raw []byte) ([2]bls12381.G2Affine, error) {
	var val [2]bls12381.G2Affine
	if len(raw) < 2*G2_BYTES {
		return val, fmt.Errorf("srs: g2 file has %d bytes, expected %d", len(raw), 2*G2_BYTES)
	}
	buf := make([]byte, 8)
	reader := bytes.NewReader(raw)
	for n := range val {
		for _, e := range []*fp.Element{&val[n].X.A0, &val[n].X.A1, &val[n].Y.A0, &val[n].Y.A1} {
			if err := readLimbs(reader, buf, e); err != nil {
				return val, err
			}
		}
	}
	return val, nil
}

func WriteG2(w io.Writer, points [2]bls12381.G2Affine) error {
	for n := range points {
		for _, e := range []*fp.Element{&points[n].X.A0, &points[n].X.A1, &points[n].Y.A0, &points[n].Y.A1} {
			if err := writeLimbs(w, e); err != nil {
				return err
			}
		}
	}
	return nil
}
