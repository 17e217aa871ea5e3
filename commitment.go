package eoncompose

import (
	"crypto/sha256"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"

	"github.com/eon-protocol/eoncompose/gpu"
	"github.com/eon-protocol/eoncompose/srs"
)

// CommitmentKey holds the G1 powers a prover commits with. Views into the
// shared SRS are never written to.
type CommitmentKey struct {
	srs        *srs.SRS
	domainSize uint64
	pk         kzg.ProvingKey
	nbTasks    int

	lagrangeOnce sync.Once
	lagrange     kzg.ProvingKey
	lagrangeErr  error
}

// VerifierCommitmentKey is the part of the SRS needed to check openings.
type VerifierCommitmentKey struct {
	srs *srs.SRS
	vk  kzg.VerifyingKey
}

// BuildProverKey takes the first domainSize + margin powers of s.
func BuildProverKey(s *srs.SRS, domainSize uint64, margin int) (*CommitmentKey, error) {
	need := int(domainSize) + margin
	if s.Size() < need {
		return nil, WrapInsufficientSrsError(s.Size(), need)
	}
	return &CommitmentKey{
		srs:        s,
		domainSize: domainSize,
		pk:         kzg.ProvingKey{G1: s.G1(need)},
	}, nil
}

func BuildVerifierKey(s *srs.SRS) *VerifierCommitmentKey {
	return &VerifierCommitmentKey{srs: s, vk: s.VerifyingKey()}
}

func (me *CommitmentKey) DomainSize() uint64 {
	return me.domainSize
}

// Size is the number of usable G1 powers.
func (me *CommitmentKey) Size() int {
	return len(me.pk.G1)
}

func (me *CommitmentKey) SRS() *srs.SRS {
	return me.srs
}

func (me *CommitmentKey) ProvingKey() kzg.ProvingKey {
	return me.pk
}

// VerifyingKey is the verifier view of the same SRS.
func (me *CommitmentKey) VerifyingKey() *VerifierCommitmentKey {
	return BuildVerifierKey(me.srs)
}

// Commit commits canonical coefficients.
func (me *CommitmentKey) Commit(coeffs []fr.Element) (kzg.Digest, error) {
	return gpu.Commit(coeffs, me.pk.G1, me.nbTasks)
}

// CommitLagrange commits evaluations on the domain using the Lagrange basis.
func (me *CommitmentKey) CommitLagrange(evals []fr.Element) (kzg.Digest, error) {
	me.lagrangeOnce.Do(func() {
		var lk []bls12381.G1Affine
		lk, me.lagrangeErr = me.srs.Lagrange(me.domainSize)
		me.lagrange = kzg.ProvingKey{G1: lk}
	})
	if me.lagrangeErr != nil {
		return kzg.Digest{}, me.lagrangeErr
	}
	return gpu.Commit(evals, me.lagrange.G1, me.nbTasks)
}

func (me *CommitmentKey) Open(coeffs []fr.Element, point fr.Element) (kzg.OpeningProof, error) {
	return kzg.Open(coeffs, point, me.pk)
}

func (me *CommitmentKey) BatchOpen(polys [][]fr.Element, digests []kzg.Digest, point fr.Element) (kzg.BatchOpeningProof, error) {
	return kzg.BatchOpenSinglePoint(polys, digests, point, sha256.New(), me.pk)
}

func (me *VerifierCommitmentKey) SRS() *srs.SRS {
	return me.srs
}

func (me *VerifierCommitmentKey) Kzg() kzg.VerifyingKey {
	return me.vk
}

func (me *VerifierCommitmentKey) Verify(digest kzg.Digest, proof kzg.OpeningProof, point fr.Element) error {
	return kzg.Verify(&digest, &proof, point, me.vk)
}

func (me *VerifierCommitmentKey) BatchVerify(digests []kzg.Digest, proof kzg.BatchOpeningProof, point fr.Element) error {
	return kzg.BatchVerifySinglePoint(digests, &proof, point, sha256.New(), me.vk)
}

// SameSRS reports whether both keys were derived from one SRS instance.
func SameSRS(ck *CommitmentKey, vck *VerifierCommitmentKey) bool {
	if ck.srs == vck.srs {
		return true
	}
	return ck.srs.Digest() == vck.srs.Digest() && ck.srs.VerifyingKey() == vck.vk
}
