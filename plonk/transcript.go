package plonk

import (
	"errors"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"

	"github.com/eon-protocol/eoncompose/circuits/hasher"
)

var (
	errChallengeNotFound            = errors.New("challenge not recorded in the transcript")
	errChallengeAlreadyComputed     = errors.New("challenge already computed, cannot be binded to other values")
	errPreviousChallengeNotComputed = errors.New("the previous challenge is needed and has not been computed")
)

// Transcript derives Fiat-Shamir challenges with the Poseidon2 sum of
// hasher. Challenges are computed in the order their ids were given.
type Transcript struct {
	challenges map[fr.Element]challenge
	previous   *challenge
}

type challenge struct {
	position   int
	bindings   [][]fr.Element
	value      fr.Element
	isComputed bool
}

func NewTranscript(challengesID ...fr.Element) *Transcript {
	challenges := make(map[fr.Element]challenge)
	for i := range challengesID {
		challenges[challengesID[i]] = challenge{position: i}
	}
	return &Transcript{challenges: challenges}
}

// Bind appends values to a challenge that is not computed yet.
func (t *Transcript) Bind(challengeID fr.Element, bValue ...fr.Element) error {
	current, ok := t.challenges[challengeID]
	if !ok {
		return errChallengeNotFound
	}
	if current.isComputed {
		return errChallengeAlreadyComputed
	}
	bCopy := make([]fr.Element, len(bValue))
	copy(bCopy, bValue)
	current.bindings = append(current.bindings, bCopy)
	t.challenges[challengeID] = current
	return nil
}

// ComputeChallenge returns H(id || previous || bindings...), previous being
// omitted for the first challenge.
func (t *Transcript) ComputeChallenge(challengeID fr.Element) (fr.Element, error) {
	current, ok := t.challenges[challengeID]
	if !ok {
		return fr.Element{}, errChallengeNotFound
	}
	if current.isComputed {
		return current.value, nil
	}

	resfrom := []fr.Element{challengeID}
	if current.position != 0 {
		if t.previous == nil || t.previous.position != current.position-1 {
			return fr.Element{}, errPreviousChallengeNotComputed
		}
		resfrom = append(resfrom, t.previous.value)
	}
	for _, b := range current.bindings {
		resfrom = append(resfrom, b...)
	}

	current.value = hasher.Sum(resfrom...)
	current.isComputed = true
	t.challenges[challengeID] = current
	t.previous = &current
	return current.value, nil
}

// bindPublicData binds the key commitments, the domain, the recursive
// linkage and the public inputs to challenge.
func bindPublicData(fs *Transcript, challenge fr.Element, domainSize uint64, commitments []kzg.Digest, recursiveIndices []uint32, publicInputs []fr.Element) error {
	for i := range commitments {
		if err := fs.Bind(challenge, hasher.G1(commitments[i])); err != nil {
			return err
		}
	}
	if err := fs.Bind(challenge, fr.NewElement(domainSize), fr.NewElement(uint64(len(recursiveIndices)))); err != nil {
		return err
	}
	for _, idx := range recursiveIndices {
		if err := fs.Bind(challenge, fr.NewElement(uint64(idx))); err != nil {
			return err
		}
	}
	return fs.Bind(challenge, publicInputs...)
}

func deriveRandomness(fs *Transcript, challenge fr.Element, points ...*bls12381.G1Affine) (fr.Element, error) {
	for _, p := range points {
		if err := fs.Bind(challenge, hasher.G1(*p)); err != nil {
			return fr.Element{}, err
		}
	}
	return fs.ComputeChallenge(challenge)
}
