// Package codec converts BLS12-381 points between their native compressed
// encodings and the padded EIP-2537 wire format consumed by the on-chain
// precompiles. An Fp element is 48 big-endian bytes natively and 64 bytes on
// the wire (16 zero bytes of left padding); an Fp2 element is its c0 limb
// followed by its c1 limb. G1 points encode as X||Y (128 bytes), G2 points as
// X||Y with Fp2 coordinates (256 bytes).
package codec

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
)

const (
	// FpSize is the native size of a base field element in bytes.
	FpSize = 48
	// PaddedFpSize is the EIP-2537 size of a base field element in bytes.
	PaddedFpSize = 64
	// Fp2Size is the native size of an Fp2 element in bytes.
	Fp2Size = 2 * FpSize
	// PaddedFp2Size is the EIP-2537 size of an Fp2 element in bytes.
	PaddedFp2Size = 2 * PaddedFpSize

	// CompressedG1Size is the size of a compressed G1 point in bytes.
	CompressedG1Size = 48
	// CompressedG2Size is the size of a compressed G2 point in bytes.
	CompressedG2Size = 96
	// EncodedG1Size is the EIP-2537 size of a G1 point in bytes.
	EncodedG1Size = 2 * PaddedFpSize
	// EncodedG2Size is the EIP-2537 size of a G2 point in bytes.
	EncodedG2Size = 2 * PaddedFp2Size
)

// PadFp left-pads a 48-byte big-endian field element to the 64-byte EIP-2537
// representation.
func PadFp(element []byte) ([]byte, error) {
	if len(element) != FpSize {
		return nil, fmt.Errorf("%w: expected %d-byte field element, got %d", ErrInvalidLength, FpSize, len(element))
	}
	padded := make([]byte, PaddedFpSize)
	copy(padded[PaddedFpSize-FpSize:], element)
	return padded, nil
}

// PadFp2 pads the c0 and c1 limbs of a 96-byte Fp2 element independently and
// concatenates them, c0 first.
func PadFp2(element []byte) ([]byte, error) {
	if len(element) != Fp2Size {
		return nil, fmt.Errorf("%w: expected %d-byte Fp2 element, got %d", ErrInvalidLength, Fp2Size, len(element))
	}
	c0, err := PadFp(element[:FpSize])
	if err != nil {
		return nil, err
	}
	c1, err := PadFp(element[FpSize:])
	if err != nil {
		return nil, err
	}
	return append(c0, c1...), nil
}

// unpadFp strips the 16-byte zero prefix from a padded field element,
// rejecting nonzero padding and non-canonical values.
func unpadFp(padded []byte) (fp.Element, error) {
	var element fp.Element
	if len(padded) != PaddedFpSize {
		return element, fmt.Errorf("%w: expected %d-byte padded element, got %d", ErrInvalidLength, PaddedFpSize, len(padded))
	}
	for i := 0; i < PaddedFpSize-FpSize; i++ {
		if padded[i] != 0 {
			return element, fmt.Errorf("%w: nonzero byte at offset %d", ErrInvalidPadding, i)
		}
	}
	if err := element.SetBytesCanonical(padded[PaddedFpSize-FpSize:]); err != nil {
		return element, fmt.Errorf("%w: field element not below the modulus", ErrInvalidPadding)
	}
	return element, nil
}

// EncodeG1 serializes a G1 point into the 128-byte EIP-2537 layout.
func EncodeG1(point *bls12381.G1Affine) []byte {
	out := make([]byte, EncodedG1Size)
	x := point.X.Bytes()
	y := point.Y.Bytes()
	copy(out[PaddedFpSize-FpSize:PaddedFpSize], x[:])
	copy(out[EncodedG1Size-FpSize:], y[:])
	return out
}

// EncodeG2 serializes a G2 point into the 256-byte EIP-2537 layout:
// X.c0 || X.c1 || Y.c0 || Y.c1, each limb padded to 64 bytes.
func EncodeG2(point *bls12381.G2Affine) []byte {
	out := make([]byte, EncodedG2Size)
	limbs := [4][48]byte{
		point.X.A0.Bytes(),
		point.X.A1.Bytes(),
		point.Y.A0.Bytes(),
		point.Y.A1.Bytes(),
	}
	for i, limb := range limbs {
		copy(out[i*PaddedFpSize+PaddedFpSize-FpSize:(i+1)*PaddedFpSize], limb[:])
	}
	return out
}

// DecodeG1 parses a 128-byte EIP-2537 buffer into a G1 point, validating
// padding, field canonicity, the curve equation and subgroup membership.
func DecodeG1(data []byte) (*bls12381.G1Affine, error) {
	if len(data) != EncodedG1Size {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidLength, EncodedG1Size, len(data))
	}

	var point bls12381.G1Affine
	if allZero(data) {
		// EIP-2537 encodes the point at infinity as all zero bytes.
		return &point, nil
	}
	var err error
	if point.X, err = unpadFp(data[:PaddedFpSize]); err != nil {
		return nil, fmt.Errorf("invalid X coordinate: %w", err)
	}
	if point.Y, err = unpadFp(data[PaddedFpSize:]); err != nil {
		return nil, fmt.Errorf("invalid Y coordinate: %w", err)
	}

	if !point.IsOnCurve() {
		return nil, fmt.Errorf("%w: decoded G1 point fails the curve equation", ErrPointNotOnCurve)
	}
	if !point.IsInSubGroup() {
		return nil, fmt.Errorf("%w: decoded G1 point is outside the r-order subgroup", ErrPointNotInSubgroup)
	}
	return &point, nil
}

// DecodeG2 parses a 256-byte EIP-2537 buffer into a G2 point, validating
// padding, field canonicity, the twist equation and subgroup membership.
func DecodeG2(data []byte) (*bls12381.G2Affine, error) {
	if len(data) != EncodedG2Size {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidLength, EncodedG2Size, len(data))
	}

	var point bls12381.G2Affine
	if allZero(data) {
		return &point, nil
	}
	limbs := make([]fp.Element, 4)
	for i := range limbs {
		limb, err := unpadFp(data[i*PaddedFpSize : (i+1)*PaddedFpSize])
		if err != nil {
			return nil, fmt.Errorf("invalid limb %d: %w", i, err)
		}
		limbs[i] = limb
	}
	point.X.A0, point.X.A1 = limbs[0], limbs[1]
	point.Y.A0, point.Y.A1 = limbs[2], limbs[3]

	if !point.IsOnCurve() {
		return nil, fmt.Errorf("%w: decoded G2 point fails the twist equation", ErrPointNotOnCurve)
	}
	if !point.IsInSubGroup() {
		return nil, fmt.Errorf("%w: decoded G2 point is outside the r-order subgroup", ErrPointNotInSubgroup)
	}
	return &point, nil
}

// DecompressG1 expands a 48-byte compressed G1 point into the 128-byte
// EIP-2537 layout by solving the curve equation y^2 = x^3 + 4 for Y, with the
// compression flag selecting the root.
func DecompressG1(compressed []byte) ([]byte, error) {
	point, err := uncompressG1(compressed)
	if err != nil {
		return nil, err
	}
	return EncodeG1(point), nil
}

// DecompressG2 expands a 96-byte compressed G2 point into the 256-byte
// EIP-2537 layout via square-root extraction over the twist equation.
func DecompressG2(compressed []byte) ([]byte, error) {
	point, err := uncompressG2(compressed)
	if err != nil {
		return nil, err
	}
	return EncodeG2(point), nil
}

// CompressG1 is the inverse of DecompressG1: it re-validates a 128-byte
// EIP-2537 buffer and returns the 48-byte compressed form.
func CompressG1(encoded []byte) ([]byte, error) {
	point, err := DecodeG1(encoded)
	if err != nil {
		return nil, err
	}
	b := point.Bytes()
	return b[:], nil
}

// CompressG2 is the inverse of DecompressG2: it re-validates a 256-byte
// EIP-2537 buffer and returns the 96-byte compressed form.
func CompressG2(encoded []byte) ([]byte, error) {
	point, err := DecodeG2(encoded)
	if err != nil {
		return nil, err
	}
	b := point.Bytes()
	return b[:], nil
}

func allZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

// uncompressG1 deserializes a compressed G1 point. gnark-crypto performs the
// square-root decompression and the on-curve and subgroup checks.
func uncompressG1(compressed []byte) (*bls12381.G1Affine, error) {
	if len(compressed) != CompressedG1Size {
		return nil, fmt.Errorf("%w: expected %d-byte compressed G1 point, got %d", ErrInvalidLength, CompressedG1Size, len(compressed))
	}
	var point bls12381.G1Affine
	if err := point.Unmarshal(compressed); err != nil {
		return nil, classifyPointError(err)
	}
	return &point, nil
}

// uncompressG2 deserializes a compressed G2 point.
func uncompressG2(compressed []byte) (*bls12381.G2Affine, error) {
	if len(compressed) != CompressedG2Size {
		return nil, fmt.Errorf("%w: expected %d-byte compressed G2 point, got %d", ErrInvalidLength, CompressedG2Size, len(compressed))
	}
	var point bls12381.G2Affine
	if err := point.Unmarshal(compressed); err != nil {
		return nil, classifyPointError(err)
	}
	return &point, nil
}
