// Package aggregator orchestrates the multi-signer BLS aggregation pipeline:
// sign, aggregate, hash the message to G2, run the local pairing gate, and
// encode the results into EIP-2537 buffers. The pipeline is strictly linear
// and fail-fast; no partial result escapes a failed stage.
package aggregator

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Layr-Labs/bls-aggregation-go/pkg/bls381"
	"github.com/Layr-Labs/bls-aggregation-go/pkg/blsSigner"
	"github.com/Layr-Labs/bls-aggregation-go/pkg/codec"
	"github.com/Layr-Labs/bls-aggregation-go/pkg/util"
	"github.com/Layr-Labs/bls-aggregation-go/pkg/verifier"
	"go.uber.org/zap"
)

// ErrInputValidation indicates empty or mismatched secret key and message sets.
var ErrInputValidation = errors.New("input validation failed")

// AggregateSignatureResult is the terminal artifact of a common-message
// aggregation, ready for argument encoding. It is produced once and never
// mutated: AggregatePublicKey is 128 bytes, HashedMessage and
// AggregateSignature 256 bytes each, all in EIP-2537 layout.
type AggregateSignatureResult struct {
	AggregatePublicKey []byte
	HashedMessage      []byte
	AggregateSignature []byte
}

// DistinctAggregateResult is the terminal artifact of a distinct-message
// aggregation. Public keys cannot be meaningfully summed when messages differ,
// so each signer's 128-byte key and each message's 256-byte hash point are
// carried individually alongside the single 256-byte aggregate signature.
type DistinctAggregateResult struct {
	PublicKeys         [][]byte
	HashedMessages     [][]byte
	AggregateSignature []byte
}

// AggregatorConfig configures the aggregation pipeline.
type AggregatorConfig struct {
	// DomainSeparationTag is applied to every hash-to-curve call; nil selects
	// bls381.DefaultDST. It must match the tag the on-chain verifier uses.
	DomainSeparationTag []byte
}

// Aggregator runs the signing pipeline for a set of independent signers.
type Aggregator struct {
	config   *AggregatorConfig
	logger   *zap.Logger
	verifier *verifier.LocalVerifier
}

// NewAggregator creates an Aggregator. A nil logger disables logging.
func NewAggregator(cfg *AggregatorConfig, logger *zap.Logger) *Aggregator {
	if cfg == nil {
		cfg = &AggregatorConfig{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		config:   cfg,
		logger:   logger,
		verifier: verifier.NewLocalVerifier(cfg.DomainSeparationTag, logger),
	}
}

// GenerateAggregateSignature produces an aggregate signature in fast-aggregate
// mode: every signer must present a byte-identical message. The secretKeys and
// messages slices are parallel; a length mismatch or a message disagreement is
// rejected rather than silently picking one message as canonical. For callers
// that hold a single common message up front, GenerateAggregateSignatureForMessage
// skips the redundant per-signer message copies.
func (a *Aggregator) GenerateAggregateSignature(secretKeys [][]byte, messages [][]byte) (*AggregateSignatureResult, error) {
	if len(secretKeys) == 0 {
		return nil, fmt.Errorf("%w: no secret keys provided", ErrInputValidation)
	}
	if len(secretKeys) != len(messages) {
		return nil, fmt.Errorf("%w: %d secret keys but %d messages", ErrInputValidation, len(secretKeys), len(messages))
	}
	for i := 1; i < len(messages); i++ {
		if !bytes.Equal(messages[0], messages[i]) {
			return nil, fmt.Errorf("%w: message %d differs from message 0; fast aggregation requires an identical message from every signer", ErrInputValidation, i)
		}
	}
	return a.GenerateAggregateSignatureForMessage(secretKeys, messages[0])
}

// GenerateAggregateSignatureForMessage is the common-message entry point: all
// secret keys sign the one message. Keys are strict 32-byte scalars; the
// in-process copies are zeroized once the signatures exist.
func (a *Aggregator) GenerateAggregateSignatureForMessage(secretKeys [][]byte, message []byte) (*AggregateSignatureResult, error) {
	signers, cleanup, err := a.signersFromScalars(secretKeys)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return a.GenerateAggregateSignatureFromSigners(signers, message)
}

// GenerateAggregateSignatureFromSeeds derives strict scalars from arbitrary
// 32-byte seeds before signing. Useful for deterministic key sets in tests and
// tooling; any seed value, including all-zero, is acceptable.
func (a *Aggregator) GenerateAggregateSignatureFromSeeds(seeds [][]byte, message []byte) (*AggregateSignatureResult, error) {
	if len(seeds) == 0 {
		return nil, fmt.Errorf("%w: no seeds provided", ErrInputValidation)
	}

	privateKeys := make([]*bls381.PrivateKey, 0, len(seeds))
	defer func() {
		for _, sk := range privateKeys {
			sk.Zeroize()
		}
	}()

	signers := make([]blsSigner.IBLSSigner, 0, len(seeds))
	for i, seed := range seeds {
		sk, err := bls381.NewPrivateKeyFromSeed(seed)
		if err != nil {
			return nil, fmt.Errorf("failed to derive key from seed %d: %w", i, err)
		}
		privateKeys = append(privateKeys, sk)

		signer, err := blsSigner.NewInMemoryBLSSigner(sk)
		if err != nil {
			return nil, fmt.Errorf("failed to create signer %d: %w", i, err)
		}
		signers = append(signers, signer)
	}

	return a.GenerateAggregateSignatureFromSigners(signers, message)
}

// GenerateAggregateSignatureFromSigners runs the pipeline over caller-provided
// signers, which may hold their keys remotely. Each signer signs the common
// message independently; the aggregate is gated by a local pairing check over
// the unaggregated key list before any buffer is returned.
func (a *Aggregator) GenerateAggregateSignatureFromSigners(signers []blsSigner.IBLSSigner, message []byte) (*AggregateSignatureResult, error) {
	if len(signers) == 0 {
		return nil, fmt.Errorf("%w: no signers provided", ErrInputValidation)
	}

	a.logger.Info("generating aggregate signature",
		zap.Int("signers", len(signers)),
		zap.Int("messageBytes", len(message)),
	)

	dst := a.config.DomainSeparationTag

	publicKeys := make([]*bls381.PublicKey, len(signers))
	signatures := make([]*bls381.Signature, len(signers))
	for i, signer := range signers {
		pk, err := signer.GetPublicKey()
		if err != nil {
			return nil, fmt.Errorf("failed to get public key from signer %d: %w", i, err)
		}
		sig, err := signer.SignMessage(message, dst)
		if err != nil {
			return nil, fmt.Errorf("signer %d failed to sign: %w", i, err)
		}
		publicKeys[i] = pk
		signatures[i] = sig
	}

	aggPk, err := bls381.AggregatePublicKeys(publicKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate public keys: %w", err)
	}
	aggSig, err := bls381.AggregateSignatures(signatures)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate signatures: %w", err)
	}

	hashedMsg, err := bls381.HashToG2(message, dst)
	if err != nil {
		return nil, fmt.Errorf("failed to hash message to curve: %w", err)
	}

	encodedSig := codec.EncodeG2(aggSig.G2Affine())

	// Gate on the stronger check over the original key list, not the sum.
	ok, err := a.verifier.VerifyAggregateWithKeys(publicKeys, message, encodedSig)
	if err != nil {
		return nil, fmt.Errorf("local verification errored: %w", err)
	}
	if !ok {
		return nil, verifier.ErrLocalVerificationFailed
	}

	a.logger.Debug("aggregate signature passed local verification",
		zap.Int("signers", len(signers)),
	)

	return &AggregateSignatureResult{
		AggregatePublicKey: codec.EncodeG1(aggPk.G1Affine()),
		HashedMessage:      codec.EncodeG2(&hashedMsg),
		AggregateSignature: encodedSig,
	}, nil
}

// GenerateAggregateSignatureDistinct runs the general aggregation mode where
// each signer signs its own message. The aggregate is checked with the
// n-pairing aggregate verification; per-signer keys and per-message hash
// points are returned individually since a summed key proves nothing here.
func (a *Aggregator) GenerateAggregateSignatureDistinct(secretKeys [][]byte, messages [][]byte) (*DistinctAggregateResult, error) {
	if len(secretKeys) == 0 {
		return nil, fmt.Errorf("%w: no secret keys provided", ErrInputValidation)
	}
	if len(secretKeys) != len(messages) {
		return nil, fmt.Errorf("%w: %d secret keys but %d messages", ErrInputValidation, len(secretKeys), len(messages))
	}

	signers, cleanup, err := a.signersFromScalars(secretKeys)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	a.logger.Info("generating distinct-message aggregate signature",
		zap.Int("signers", len(signers)),
	)

	dst := a.config.DomainSeparationTag

	publicKeys := make([]*bls381.PublicKey, len(signers))
	signatures := make([]*bls381.Signature, len(signers))
	hashedMsgs := make([][]byte, len(signers))
	for i, signer := range signers {
		pk, err := signer.GetPublicKey()
		if err != nil {
			return nil, fmt.Errorf("failed to get public key from signer %d: %w", i, err)
		}
		sig, err := signer.SignMessage(messages[i], dst)
		if err != nil {
			return nil, fmt.Errorf("signer %d failed to sign: %w", i, err)
		}
		hm, err := bls381.HashToG2(messages[i], dst)
		if err != nil {
			return nil, fmt.Errorf("failed to hash message %d to curve: %w", i, err)
		}
		publicKeys[i] = pk
		signatures[i] = sig
		hashedMsgs[i] = codec.EncodeG2(&hm)
	}

	aggSig, err := bls381.AggregateSignatures(signatures)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate signatures: %w", err)
	}

	ok, err := bls381.AggregateVerify(publicKeys, messages, aggSig, dst)
	if err != nil {
		return nil, fmt.Errorf("local verification errored: %w", err)
	}
	if !ok {
		return nil, verifier.ErrLocalVerificationFailed
	}

	return &DistinctAggregateResult{
		PublicKeys: util.Map(publicKeys, func(pk *bls381.PublicKey, i uint64) []byte {
			return codec.EncodeG1(pk.G1Affine())
		}),
		HashedMessages:     hashedMsgs,
		AggregateSignature: codec.EncodeG2(aggSig.G2Affine()),
	}, nil
}

// signersFromScalars builds in-memory signers from strict 32-byte scalars.
// The returned cleanup zeroizes every in-process key copy.
func (a *Aggregator) signersFromScalars(secretKeys [][]byte) ([]blsSigner.IBLSSigner, func(), error) {
	privateKeys := make([]*bls381.PrivateKey, 0, len(secretKeys))
	cleanup := func() {
		for _, sk := range privateKeys {
			sk.Zeroize()
		}
	}

	signers := make([]blsSigner.IBLSSigner, 0, len(secretKeys))
	for i, keyBytes := range secretKeys {
		sk, err := bls381.NewPrivateKeyFromBytes(keyBytes)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("invalid secret key %d: %w", i, err)
		}
		privateKeys = append(privateKeys, sk)

		signer, err := blsSigner.NewInMemoryBLSSigner(sk)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to create signer %d: %w", i, err)
		}
		signers = append(signers, signer)
	}
	return signers, cleanup, nil
}
