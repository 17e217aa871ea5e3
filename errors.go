package eoncompose

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCircuitSize      = errors.New("invalid circuit size")
	ErrInsufficientSrs         = errors.New("insufficient srs")
	ErrConstraintViolation     = errors.New("constraint violation")
	ErrKeyAlreadyFinalized     = errors.New("key already finalized")
	ErrNotYetKeyed             = errors.New("proving key not computed")
	ErrAlreadyComputed         = errors.New("witness already computed")
	ErrWitnessNotComputed      = errors.New("witness not computed")
	ErrDuplicateTag            = errors.New("duplicate selector tag")
	ErrCommitmentMismatch      = errors.New("proving and verification key disagree")
	ErrInvalidRecursiveLinkage = errors.New("invalid recursive proof linkage")
	ErrInvalidProof            = errors.New("invalid proof")
)

// ConstraintViolationError reports the first unsatisfied row.
type ConstraintViolationError struct {
	Row  int
	Gate string
}

func (me *ConstraintViolationError) Error() string {
	return fmt.Sprintf("%v: row=%d, gate=%s", ErrConstraintViolation, me.Row, me.Gate)
}

func (me *ConstraintViolationError) Unwrap() error {
	return ErrConstraintViolation
}

func WrapInsufficientSrsError(have, need int) error {
	return fmt.Errorf("%w: have=%d, need=%d", ErrInsufficientSrs, have, need)
}

func WrapCommitmentMismatchError(field string) error {
	return fmt.Errorf("%w: field=%s", ErrCommitmentMismatch, field)
}

func WrapInvalidCircuitSizeError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCircuitSize, fmt.Sprintf(format, args...))
}
