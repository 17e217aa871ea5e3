// Package srs loads the KZG structured reference string once and hands out
// read-only views of it.
package srs

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"math/bits"
	"os"
	"path/filepath"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
	"github.com/consensys/gnark/logger"
)

var ErrNotPowerOfTwo = errors.New("srs: lagrange basis size must be a power of two")

// SRS is shared by every composer of a process and never mutated after
// construction, apart from the memoized Lagrange bases.
type SRS struct {
	g1     []bls12381.G1Affine
	vk     kzg.VerifyingKey
	digest [32]byte
	dir    string

	mu       sync.Mutex
	lagrange map[uint64][]bls12381.G1Affine
}

// New wraps an in-memory SRS.
func New(s *kzg.SRS) (*SRS, error) {
	h := sha256.New()
	if err := WriteG1(h, s.Pk.G1); err != nil {
		return nil, err
	}
	res := &SRS{g1: s.Pk.G1, vk: s.Vk, lagrange: make(map[uint64][]bls12381.G1Affine)}
	copy(res.digest[:], h.Sum(nil))
	return res, nil
}

// Size is the number of G1 powers available.
func (me *SRS) Size() int {
	return len(me.g1)
}

// G1 returns the first n powers; the slice must not be written to.
func (me *SRS) G1(n int) []bls12381.G1Affine {
	return me.g1[:n:n]
}

func (me *SRS) VerifyingKey() kzg.VerifyingKey {
	return me.vk
}

// Digest is the sha256 of the raw G1 powers.
func (me *SRS) Digest() [32]byte {
	return me.digest
}

func (me *SRS) DigestHex() string {
	return hex.EncodeToString(me.digest[:])
}

// Lagrange returns the Lagrange basis of the first n powers, n a power of two.
// Bases are cached in memory and, for file-backed SRS, on disk.
func (me *SRS) Lagrange(n uint64) ([]bls12381.G1Affine, error) {
	if bits.OnesCount64(n) != 1 {
		return nil, ErrNotPowerOfTwo
	}
	if n > uint64(len(me.g1)) {
		return nil, fmt.Errorf("srs: lagrange basis of size %d from %d powers", n, len(me.g1))
	}
	me.mu.Lock()
	defer me.mu.Unlock()
	if lk, ok := me.lagrange[n]; ok {
		return lk, nil
	}
	log := logger.Logger().With().Str("component", "srs").Uint64("size", n).Logger()
	path := ""
	if me.dir != "" {
		path = filepath.Join(me.dir, fmt.Sprintf(LK_FILE, bits.TrailingZeros64(n)))
		if raw, err := os.ReadFile(path); err == nil && len(raw) == int(n)*G1_BYTES {
			if lk, err := ParseG1(raw, int(n)); err == nil {
				me.lagrange[n] = lk
				return lk, nil
			}
		}
		log.Debug().Msg("local lagrange cache not found; generating")
	}
	lk, err := kzg.ToLagrangeG1(me.g1[:n])
	if err != nil {
		return nil, err
	}
	if path != "" {
		var buf bytes.Buffer
		if err := WriteG1(&buf, lk); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			log.Warn().Err(err).Msg("could not cache lagrange basis")
		}
	}
	me.lagrange[n] = lk
	return lk, nil
}

// Factory hands out the process SRS; Get loads it on first use only.
type Factory interface {
	Get() (*SRS, error)
}

type onceFactory struct {
	get func() (*SRS, error)
}

func (me *onceFactory) Get() (*SRS, error) {
	return me.get()
}

func newOnceFactory(load func() (*SRS, error)) Factory {
	return &onceFactory{get: sync.OnceValues(load)}
}

// Static serves an already loaded SRS.
func Static(s *SRS) Factory {
	return &onceFactory{get: func() (*SRS, error) { return s, nil }}
}

// NewUnsafeFactory generates size powers of a known τ = seed. Never use the
// result outside tests and tooling.
func NewUnsafeFactory(size uint64, seed int64) Factory {
	return newOnceFactory(func() (*SRS, error) {
		s, err := kzg.NewSRS(size, big.NewInt(seed))
		if err != nil {
			return nil, err
		}
		return New(s)
	})
}

// NewFileFactory loads the SRS from cfg.Dir, downloading the G1 powers when
// they are missing or do not match cfg.ExpectedDigest.
func NewFileFactory(cfg Config) Factory {
	return newOnceFactory(func() (*SRS, error) {
		return load(cfg)
	})
}
