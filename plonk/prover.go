package plonk

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
	"github.com/consensys/gnark/logger"
	"golang.org/x/sync/errgroup"

	eon "github.com/eon-protocol/eoncompose"
)

var errNoWitness = errors.New("proving key has no witness")
var errNoCommitmentKey = errors.New("proving key has no commitment key")

type instance struct {
	pk     *eon.ProvingKey
	ck     *eon.CommitmentKey
	domain *eon.EvaluationDomain
	fs     *Transcript

	// the quotient is evaluated on a coset of bigDomain
	bigDomain *fft.Domain

	keyDigests []kzg.Digest
	// blinded a, b, c and z in canonical form
	lro [3][]fr.Element
	z   []fr.Element
	h   [3][]fr.Element

	gamma, beta, alpha, zeta fr.Element

	proof Proof
}

// Prove runs the argument for the witness attached to pk.
func Prove(pk *eon.ProvingKey) (*Proof, error) {
	log := logger.Logger().With().Str("prover", "plonk").Uint64("domain", pk.DomainSize()).Logger()
	start := time.Now()

	if pk.Witness == nil {
		return nil, errNoWitness
	}
	if pk.CommitmentKey == nil {
		return nil, errNoCommitmentKey
	}
	n := pk.DomainSize()
	s := &instance{
		pk:        pk,
		ck:        pk.CommitmentKey,
		domain:    pk.Domain,
		fs:        NewTranscript(CID_GAMMA, CID_BETA, CID_ALPHA, CID_ZETA),
		bigDomain: fft.NewDomain(ecc.NextPowerOfTwo(4 * (n + HPIECE_EXTRA))),
	}

	steps := []func() error{
		s.commitToKey,
		s.commitToLRO,
		s.deriveGammaAndBeta,
		s.buildRatioCopyConstraint,
		s.deriveAlpha,
		s.computeQuotient,
		s.deriveZeta,
		s.batchOpening,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	log.Debug().Dur("took", time.Since(start)).Msg("prover done")
	return &s.proof, nil
}

// commitToKey recomputes the commitments of the key polynomials, they are
// the ones a verification key of the same circuit carries.
func (s *instance) commitToKey() error {
	polys := s.pk.Polynomials()
	s.keyDigests = make([]kzg.Digest, len(polys))
	var g errgroup.Group
	for i := range polys {
		g.Go(func() error {
			var err error
			s.keyDigests[i], err = s.ck.Commit(polys[i])
			return err
		})
	}
	return g.Wait()
}

func (s *instance) commitToLRO() error {
	var g errgroup.Group
	for j := range s.lro {
		g.Go(func() error {
			var err error
			if s.lro[j], err = blind(s.pk.Witness.Canonical[j], 1); err != nil {
				return err
			}
			s.proof.LRO[j], err = s.ck.Commit(s.lro[j])
			return err
		})
	}
	return g.Wait()
}

func (s *instance) deriveGammaAndBeta() error {
	if err := bindPublicData(s.fs, CID_GAMMA, s.pk.DomainSize(), s.keyDigests, s.pk.RecursiveProofPublicInputIndices, s.pk.Witness.PublicInputs); err != nil {
		return err
	}
	var err error
	if s.gamma, err = deriveRandomness(s.fs, CID_GAMMA, &s.proof.LRO[0], &s.proof.LRO[1], &s.proof.LRO[2]); err != nil {
		return err
	}
	s.beta, err = s.fs.ComputeChallenge(CID_BETA)
	return err
}

// buildRatioCopyConstraint computes z(ωⁱ⁺¹) = z(ωⁱ)·Π(w + β·id + γ)/Π(w + β·σ + γ).
func (s *instance) buildRatioCopyConstraint() error {
	n := int(s.domain.Cardinality)
	shifts := eon.CosetShifts()
	omegas := s.domain.Elements()
	var sigmas [eon.NUM_WIRES][]fr.Element
	for j := range sigmas {
		sigmas[j] = s.domain.Evaluate(append([]fr.Element(nil), s.pk.Sigmas[j]...))
	}
	w := s.pk.Witness.Lagrange

	num := make([]fr.Element, n)
	den := make([]fr.Element, n)
	var t, u fr.Element
	for i := 0; i < n; i++ {
		num[i].SetOne()
		den[i].SetOne()
		for j := 0; j < eon.NUM_WIRES; j++ {
			t.Mul(&shifts[j], &omegas[i]).Mul(&t, &s.beta).Add(&t, &w[j][i]).Add(&t, &s.gamma)
			num[i].Mul(&num[i], &t)
			u.Mul(&sigmas[j][i], &s.beta).Add(&u, &w[j][i]).Add(&u, &s.gamma)
			den[i].Mul(&den[i], &u)
		}
	}
	den = fr.BatchInvert(den)

	z := make([]fr.Element, n)
	z[0].SetOne()
	for i := 0; i < n-1; i++ {
		z[i+1].Mul(&z[i], &num[i]).Mul(&z[i+1], &den[i])
	}
	var err error
	if s.z, err = blind(s.domain.Interpolate(z), 2); err != nil {
		return err
	}
	s.proof.Z, err = s.ck.Commit(s.z)
	return err
}

func (s *instance) deriveAlpha() (err error) {
	s.alpha, err = deriveRandomness(s.fs, CID_ALPHA, &s.proof.Z)
	return
}

func (s *instance) deriveZeta() (err error) {
	s.zeta, err = deriveRandomness(s.fs, CID_ZETA, &s.proof.H[0], &s.proof.H[1], &s.proof.H[2])
	return
}

// onCoset evaluates canonical coefficients on g·⟨ω_m⟩, natural order.
func (s *instance) onCoset(p []fr.Element) []fr.Element {
	res := make([]fr.Element, s.bigDomain.Cardinality)
	copy(res, p)
	scalePowers(res, s.bigDomain.FrMultiplicativeGen)
	s.bigDomain.FFT(res, fft.DIF)
	fft.BitReverse(res)
	return res
}

// computeQuotient divides gate + α·perm + α²·(z-1)·L₁ by Z_H on the big coset.
func (s *instance) computeQuotient() error {
	n := s.domain.Cardinality
	m := s.bigDomain.Cardinality

	// z(ωX)
	zShifted := append([]fr.Element(nil), s.z...)
	scalePowers(zShifted, s.domain.Generator)

	// PI(ωⁱ) = -xᵢ
	pi := make([]fr.Element, n)
	for i := range s.pk.Witness.PublicInputs {
		pi[i].Neg(&s.pk.Witness.PublicInputs[i])
	}
	pi = s.domain.Interpolate(pi)

	// L₁ is 1/n·(1 + X + … + Xⁿ⁻¹)
	l1 := make([]fr.Element, n)
	for i := range l1 {
		l1[i] = s.domain.CardinalityInv
	}

	inputs := [][]fr.Element{
		s.lro[0], s.lro[1], s.lro[2], s.z, zShifted, pi, l1,
		s.pk.Selectors[0], s.pk.Selectors[1], s.pk.Selectors[2], s.pk.Selectors[3], s.pk.Selectors[4],
		s.pk.Sigmas[0], s.pk.Sigmas[1], s.pk.Sigmas[2],
	}
	evals := make([][]fr.Element, len(inputs))
	var g errgroup.Group
	for i := range inputs {
		g.Go(func() error {
			evals[i] = s.onCoset(inputs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	a, b, c, z, zs, piE, l1E := evals[0], evals[1], evals[2], evals[3], evals[4], evals[5], evals[6]
	ql, qr, qo, qm, qc := evals[7], evals[8], evals[9], evals[10], evals[11]
	s1, s2, s3 := evals[12], evals[13], evals[14]

	zhInv := s.vanishingInverseOnCoset()
	ratio := m / n

	shifts := eon.CosetShifts()
	one := fr.One()
	var alpha2 fr.Element
	alpha2.Square(&s.alpha)

	h := make([]fr.Element, m)
	parallelize(int(m), func(startIdx, end int) {
		var x, gate, t, id, sg, perm, st fr.Element
		var bigW = s.bigDomain.Generator
		x.Exp(bigW, big.NewInt(int64(startIdx))).Mul(&x, &s.bigDomain.FrMultiplicativeGen)
		for i := startIdx; i < end; i++ {
			gate.Mul(&ql[i], &a[i])
			t.Mul(&qr[i], &b[i])
			gate.Add(&gate, &t)
			t.Mul(&qo[i], &c[i])
			gate.Add(&gate, &t)
			t.Mul(&a[i], &b[i]).Mul(&t, &qm[i])
			gate.Add(&gate, &t)
			gate.Add(&gate, &qc[i]).Add(&gate, &piE[i])

			// z·Π(w + β·kⱼ·x + γ) - z(ωx)·Π(w + β·σⱼ + γ)
			id.Set(&z[i])
			sg.Set(&zs[i])
			w := [3]*fr.Element{&a[i], &b[i], &c[i]}
			sig := [3]*fr.Element{&s1[i], &s2[i], &s3[i]}
			for j := range w {
				t.Mul(&shifts[j], &x).Mul(&t, &s.beta).Add(&t, w[j]).Add(&t, &s.gamma)
				id.Mul(&id, &t)
				t.Mul(sig[j], &s.beta).Add(&t, w[j]).Add(&t, &s.gamma)
				sg.Mul(&sg, &t)
			}
			perm.Sub(&id, &sg)

			st.Sub(&z[i], &one).Mul(&st, &l1E[i])

			perm.Mul(&perm, &s.alpha)
			st.Mul(&st, &alpha2)
			h[i].Add(&gate, &perm).Add(&h[i], &st).Mul(&h[i], &zhInv[uint64(i)%ratio])

			x.Mul(&x, &bigW)
		}
	})

	s.bigDomain.FFTInverse(h, fft.DIF)
	fft.BitReverse(h)
	var gInv fr.Element
	gInv.Inverse(&s.bigDomain.FrMultiplicativeGen)
	scalePowers(h, gInv)

	piece := int(n) + HPIECE_EXTRA
	for k := 3 * piece; k < len(h); k++ {
		if !h[k].IsZero() {
			return fmt.Errorf("quotient has degree above %d: constraints are not satisfied", 3*piece-1)
		}
	}
	var g2 errgroup.Group
	for k := range s.h {
		s.h[k] = h[k*piece : (k+1)*piece]
		g2.Go(func() error {
			var err error
			s.proof.H[k], err = s.ck.Commit(s.h[k])
			return err
		})
	}
	return g2.Wait()
}

// vanishingInverseOnCoset returns 1/Z_H on the first m/n points of the coset,
// Z_H being periodic with that period.
func (s *instance) vanishingInverseOnCoset() []fr.Element {
	n := s.domain.Cardinality
	ratio := s.bigDomain.Cardinality / n
	expo := new(big.Int).SetUint64(n)
	var gn, wn fr.Element
	gn.Exp(s.bigDomain.FrMultiplicativeGen, expo)
	wn.Exp(s.bigDomain.Generator, expo)
	one := fr.One()
	res := make([]fr.Element, ratio)
	acc := gn
	for i := range res {
		res[i].Sub(&acc, &one)
		acc.Mul(&acc, &wn)
	}
	return fr.BatchInvert(res)
}

func (s *instance) batchOpening() error {
	polys := make([][]fr.Element, 0, NB_PROOF_OPENINGS+len(s.keyDigests))
	polys = append(polys, s.lro[0], s.lro[1], s.lro[2], s.z, s.h[0], s.h[1], s.h[2])
	polys = append(polys, s.pk.Polynomials()...)
	digests := make([]kzg.Digest, 0, len(polys))
	digests = append(digests, s.proof.LRO[0], s.proof.LRO[1], s.proof.LRO[2], s.proof.Z, s.proof.H[0], s.proof.H[1], s.proof.H[2])
	digests = append(digests, s.keyDigests...)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		s.proof.BatchedProof, err = s.ck.BatchOpen(polys, digests, s.zeta)
		return err
	})
	g.Go(func() error {
		var zetaShifted fr.Element
		zetaShifted.Mul(&s.zeta, &s.domain.Generator)
		var err error
		s.proof.ZShiftedOpening, err = s.ck.Open(s.z, zetaShifted)
		return err
	})
	return g.Wait()
}

// blind returns p + b·(Xⁿ - 1) for a random b of the given degree.
func blind(p []fr.Element, degree int) ([]fr.Element, error) {
	n := len(p)
	res := make([]fr.Element, n+degree+1)
	copy(res, p)
	for i := 0; i <= degree; i++ {
		var b fr.Element
		if _, err := b.SetRandom(); err != nil {
			return nil, err
		}
		res[n+i].Add(&res[n+i], &b)
		res[i].Sub(&res[i], &b)
	}
	return res, nil
}

// p <- <p, (1, w, .., wⁿ) >
func scalePowers(p []fr.Element, w fr.Element) {
	var acc fr.Element
	acc.SetOne()
	for i := range p {
		p[i].Mul(&p[i], &acc)
		acc.Mul(&acc, &w)
	}
}
