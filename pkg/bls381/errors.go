package bls381

import "errors"

var (
	// ErrInvalidScalar indicates a secret key that is zero or not below the group order.
	ErrInvalidScalar = errors.New("invalid scalar: must be nonzero and below the group order")

	// ErrEmptyInputSet indicates an aggregation was attempted over zero inputs.
	ErrEmptyInputSet = errors.New("empty input set: aggregation requires at least one element")

	// ErrHashToCurve indicates the hash-to-curve derivation could not produce a point.
	ErrHashToCurve = errors.New("hash-to-curve failure")

	// ErrInvalidLength indicates a byte input of the wrong size.
	ErrInvalidLength = errors.New("invalid input length")

	// ErrPointNotOnCurve indicates bytes that do not decode to a curve point.
	ErrPointNotOnCurve = errors.New("point is not on the curve")

	// ErrPointNotInSubgroup indicates a curve point outside the prime-order subgroup.
	ErrPointNotInSubgroup = errors.New("point is not in the correct subgroup")

	// ErrInputMismatch indicates public key and message sets of different sizes.
	ErrInputMismatch = errors.New("public key count does not match message count")
)
