// Package bls381 implements BLS signatures over the BLS12-381 curve with the
// key-on-G1 / signature-on-G2 convention used by EIP-2537 verifier contracts.
// Public keys are G1 points, signatures and hashed messages are G2 points, and
// signing computes scalar * H(message) with H the RFC 9380 hash-to-curve map.
package bls381

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

const (
	// ScalarSize is the size of a serialized secret scalar in bytes.
	ScalarSize = 32
	// PublicKeySize is the size of a compressed G1 public key in bytes.
	PublicKeySize = 48
	// SignatureSize is the size of a compressed G2 signature in bytes.
	SignatureSize = 96
)

// DefaultDST is the domain separation tag applied when hashing messages to G2.
// It must match the tag the on-chain verifier uses for its own hash-to-curve.
var DefaultDST = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_")

// keygenSalt domain-separates seed-to-scalar derivation from message hashing.
var keygenSalt = []byte("BLS-SIG-BLS12381-KEYGEN-SALT-")

var (
	g1GenAff bls12381.G1Affine
	negG1Gen bls12381.G1Affine
)

func init() {
	_, _, g1GenAff, _ = bls12381.Generators()
	negG1Gen.Neg(&g1GenAff)
}

// PrivateKey holds a secret scalar. It lives for one signing session; call
// Zeroize once the key material is no longer needed.
type PrivateKey struct {
	scalar fr.Element
}

// PublicKey is a point in G1.
type PublicKey struct {
	point bls12381.G1Affine
}

// Signature is a point in G2.
type Signature struct {
	point bls12381.G2Affine
}

// NewPrivateKeyFromBytes constructs a private key from a 32-byte big-endian
// scalar. The scalar must be nonzero and strictly below the group order.
func NewPrivateKeyFromBytes(data []byte) (*PrivateKey, error) {
	if len(data) != ScalarSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidLength, ScalarSize, len(data))
	}

	var scalar fr.Element
	if err := scalar.SetBytesCanonical(data); err != nil {
		return nil, fmt.Errorf("%w: scalar not below group order", ErrInvalidScalar)
	}
	if scalar.IsZero() {
		return nil, fmt.Errorf("%w: scalar is zero", ErrInvalidScalar)
	}

	return &PrivateKey{scalar: scalar}, nil
}

// NewPrivateKeyFromHexString constructs a private key from a hex-encoded
// 32-byte scalar, with or without a 0x prefix.
func NewPrivateKeyFromHexString(s string) (*PrivateKey, error) {
	s = strings.TrimPrefix(s, "0x")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hex private key: %w", err)
	}
	return NewPrivateKeyFromBytes(data)
}

// NewPrivateKeyFromSeed derives a private key from an arbitrary 32-byte seed
// using hash-to-field under a keygen salt. Unlike NewPrivateKeyFromBytes the
// seed is not interpreted as a scalar, so any seed value is acceptable and the
// derivation is deterministic.
func NewPrivateKeyFromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ScalarSize {
		return nil, fmt.Errorf("%w: expected %d-byte seed, got %d", ErrInvalidLength, ScalarSize, len(seed))
	}

	elems, err := fr.Hash(seed, keygenSalt, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to derive scalar from seed: %w", err)
	}
	if elems[0].IsZero() {
		// Unreachable in practice for a 381-bit field; reject rather than sign with zero.
		return nil, fmt.Errorf("%w: seed derived a zero scalar", ErrInvalidScalar)
	}

	return &PrivateKey{scalar: elems[0]}, nil
}

// GeneratePrivateKey creates a private key from a cryptographically random scalar.
func GeneratePrivateKey() (*PrivateKey, error) {
	var scalar fr.Element
	for {
		if _, err := scalar.SetRandom(); err != nil {
			return nil, fmt.Errorf("failed to generate random scalar: %w", err)
		}
		if !scalar.IsZero() {
			return &PrivateKey{scalar: scalar}, nil
		}
	}
}

// Public derives the G1 public key scalar * G1_generator.
func (sk *PrivateKey) Public() *PublicKey {
	var s big.Int
	sk.scalar.BigInt(&s)
	defer s.SetInt64(0)

	var pk bls12381.G1Affine
	pk.ScalarMultiplication(&g1GenAff, &s)
	return &PublicKey{point: pk}
}

// Sign computes scalar * H(message) in G2 under the given domain separation
// tag. Pass nil to use DefaultDST. The same (scalar, message, dst) always
// yields the same signature.
func (sk *PrivateKey) Sign(message []byte, dst []byte) (*Signature, error) {
	hm, err := HashToG2(message, dst)
	if err != nil {
		return nil, err
	}

	var s big.Int
	sk.scalar.BigInt(&s)
	defer s.SetInt64(0)

	var sig bls12381.G2Affine
	sig.ScalarMultiplication(&hm, &s)
	return &Signature{point: sig}, nil
}

// Bytes returns the 32-byte big-endian scalar.
func (sk *PrivateKey) Bytes() []byte {
	b := sk.scalar.Bytes()
	return b[:]
}

// Zeroize overwrites the secret scalar. The key must not be used afterwards.
func (sk *PrivateKey) Zeroize() {
	sk.scalar.SetZero()
}

// HashToG2 maps a message to a G2 point per RFC 9380 (SSWU map, SHA-256
// expand-message-XMD) under the given domain separation tag. Pass nil to use
// DefaultDST. Identical (message, dst) inputs always produce the identical
// point, and the output is always in the prime-order subgroup.
func HashToG2(message []byte, dst []byte) (bls12381.G2Affine, error) {
	if dst == nil {
		dst = DefaultDST
	}
	hm, err := bls12381.HashToG2(message, dst)
	if err != nil {
		return bls12381.G2Affine{}, fmt.Errorf("%w: %v", ErrHashToCurve, err)
	}
	return hm, nil
}

// NewPublicKeyFromBytes deserializes a compressed 48-byte G1 public key,
// rejecting points off the curve or outside the prime-order subgroup.
func NewPublicKeyFromBytes(data []byte) (*PublicKey, error) {
	if len(data) != PublicKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidLength, PublicKeySize, len(data))
	}
	var point bls12381.G1Affine
	if err := point.Unmarshal(data); err != nil {
		return nil, classifyPointError(err)
	}
	return &PublicKey{point: point}, nil
}

// NewSignatureFromBytes deserializes a compressed 96-byte G2 signature,
// rejecting points off the curve or outside the prime-order subgroup.
func NewSignatureFromBytes(data []byte) (*Signature, error) {
	if len(data) != SignatureSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidLength, SignatureSize, len(data))
	}
	var point bls12381.G2Affine
	if err := point.Unmarshal(data); err != nil {
		return nil, classifyPointError(err)
	}
	return &Signature{point: point}, nil
}

// NewPublicKeyFromPoint wraps an already validated G1 point.
func NewPublicKeyFromPoint(point *bls12381.G1Affine) *PublicKey {
	return &PublicKey{point: *point}
}

// NewSignatureFromPoint wraps an already validated G2 point.
func NewSignatureFromPoint(point *bls12381.G2Affine) *Signature {
	return &Signature{point: *point}
}

// classifyPointError maps gnark-crypto deserialization failures onto the
// package error taxonomy.
func classifyPointError(err error) error {
	if strings.Contains(err.Error(), "subgroup") {
		return fmt.Errorf("%w: %v", ErrPointNotInSubgroup, err)
	}
	return fmt.Errorf("%w: %v", ErrPointNotOnCurve, err)
}

// Bytes returns the compressed 48-byte G1 representation.
func (pk *PublicKey) Bytes() []byte {
	b := pk.point.Bytes()
	return b[:]
}

// G1Affine returns the underlying curve point.
func (pk *PublicKey) G1Affine() *bls12381.G1Affine {
	return &pk.point
}

// Equal reports whether two public keys are the same point.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	return pk.point.Equal(&other.point)
}

// Bytes returns the compressed 96-byte G2 representation.
func (sig *Signature) Bytes() []byte {
	b := sig.point.Bytes()
	return b[:]
}

// G2Affine returns the underlying curve point.
func (sig *Signature) G2Affine() *bls12381.G2Affine {
	return &sig.point
}

// Equal reports whether two signatures are the same point.
func (sig *Signature) Equal(other *Signature) bool {
	return sig.point.Equal(&other.point)
}

// AggregatePublicKeys sums the given public keys in G1. Aggregation is
// commutative and associative, so input order does not affect the result.
func AggregatePublicKeys(publicKeys []*PublicKey) (*PublicKey, error) {
	if len(publicKeys) == 0 {
		return nil, fmt.Errorf("%w: no public keys", ErrEmptyInputSet)
	}

	var agg bls12381.G1Jac
	agg.FromAffine(&publicKeys[0].point)
	for i := 1; i < len(publicKeys); i++ {
		agg.AddMixed(&publicKeys[i].point)
	}

	var result bls12381.G1Affine
	result.FromJacobian(&agg)
	return &PublicKey{point: result}, nil
}

// AggregateSignatures sums the given signatures in G2. The caller must ensure
// every signature was produced over the identical message when the aggregate
// will be checked in fast-aggregate mode; this function performs pure point
// addition and cannot detect a message mismatch.
func AggregateSignatures(signatures []*Signature) (*Signature, error) {
	if len(signatures) == 0 {
		return nil, fmt.Errorf("%w: no signatures", ErrEmptyInputSet)
	}

	var agg bls12381.G2Jac
	agg.FromAffine(&signatures[0].point)
	for i := 1; i < len(signatures); i++ {
		agg.AddMixed(&signatures[i].point)
	}

	var result bls12381.G2Affine
	result.FromJacobian(&agg)
	return &Signature{point: result}, nil
}

// Verify checks e(pk, H(message)) == e(G1_generator, sig).
func Verify(pk *PublicKey, message []byte, sig *Signature, dst []byte) (bool, error) {
	hm, err := HashToG2(message, dst)
	if err != nil {
		return false, err
	}
	return pairingCheck(
		[]bls12381.G1Affine{pk.point, negG1Gen},
		[]bls12381.G2Affine{hm, sig.point},
	)
}

// FastAggregateVerify checks an aggregate signature over a single common
// message against the full set of signer public keys. Valid only when every
// signer signed the identical message.
func FastAggregateVerify(publicKeys []*PublicKey, message []byte, aggSig *Signature, dst []byte) (bool, error) {
	aggPk, err := AggregatePublicKeys(publicKeys)
	if err != nil {
		return false, err
	}
	return Verify(aggPk, message, aggSig, dst)
}

// AggregateVerify checks an aggregate signature where each signer signed its
// own message: e(pk_1, H(m_1)) * ... * e(pk_n, H(m_n)) == e(G1_generator, aggSig).
func AggregateVerify(publicKeys []*PublicKey, messages [][]byte, aggSig *Signature, dst []byte) (bool, error) {
	if len(publicKeys) == 0 {
		return false, fmt.Errorf("%w: no public keys", ErrEmptyInputSet)
	}
	if len(publicKeys) != len(messages) {
		return false, fmt.Errorf("%w: %d public keys, %d messages", ErrInputMismatch, len(publicKeys), len(messages))
	}

	// Identical messages under the same key would allow signature splitting;
	// the distinct-message mode requires distinct (pk, message) pairs.
	for i := 0; i < len(messages); i++ {
		for j := i + 1; j < len(messages); j++ {
			if bytes.Equal(messages[i], messages[j]) && publicKeys[i].Equal(publicKeys[j]) {
				return false, fmt.Errorf("%w: duplicate (public key, message) pair at %d and %d", ErrInputMismatch, i, j)
			}
		}
	}

	g1Points := make([]bls12381.G1Affine, 0, len(publicKeys)+1)
	g2Points := make([]bls12381.G2Affine, 0, len(publicKeys)+1)
	for i, pk := range publicKeys {
		hm, err := HashToG2(messages[i], dst)
		if err != nil {
			return false, err
		}
		g1Points = append(g1Points, pk.point)
		g2Points = append(g2Points, hm)
	}
	g1Points = append(g1Points, negG1Gen)
	g2Points = append(g2Points, aggSig.point)

	return pairingCheck(g1Points, g2Points)
}

func pairingCheck(g1Points []bls12381.G1Affine, g2Points []bls12381.G2Affine) (bool, error) {
	ok, err := bls12381.PairingCheck(g1Points, g2Points)
	if err != nil {
		return false, fmt.Errorf("pairing check failed: %w", err)
	}
	return ok, nil
}
