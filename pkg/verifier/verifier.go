// Package verifier runs the off-chain pairing check over EIP-2537 encoded
// aggregates. It is the last gate before the buffers are reshaped into
// contract arguments and submitted on-chain; a false result must abort the
// pipeline.
package verifier

import (
	"errors"
	"fmt"

	"github.com/Layr-Labs/bls-aggregation-go/pkg/bls381"
	"github.com/Layr-Labs/bls-aggregation-go/pkg/codec"
	"go.uber.org/zap"
)

// ErrLocalVerificationFailed indicates the off-chain pairing check rejected an
// aggregate. Results failing this check must never reach argument encoding.
var ErrLocalVerificationFailed = errors.New("local aggregate verification failed")

// LocalVerifier checks BLS aggregates before on-chain submission.
type LocalVerifier struct {
	logger *zap.Logger
	dst    []byte
}

// NewLocalVerifier creates a LocalVerifier using the given domain separation
// tag; nil selects bls381.DefaultDST.
func NewLocalVerifier(dst []byte, logger *zap.Logger) *LocalVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalVerifier{
		logger: logger,
		dst:    dst,
	}
}

// VerifyAggregate confirms e(aggPk, H(message)) == e(G1_generator, aggSig) for
// EIP-2537 encoded inputs: a 128-byte aggregate public key and a 256-byte
// aggregate signature. Decoding re-runs curve and subgroup validation, so a
// corrupted buffer fails here rather than producing a bogus pairing result.
func (v *LocalVerifier) VerifyAggregate(aggPk []byte, message []byte, aggSig []byte) (bool, error) {
	pkPoint, err := codec.DecodeG1(aggPk)
	if err != nil {
		return false, fmt.Errorf("failed to decode aggregate public key: %w", err)
	}
	sigPoint, err := codec.DecodeG2(aggSig)
	if err != nil {
		return false, fmt.Errorf("failed to decode aggregate signature: %w", err)
	}

	pk := bls381.NewPublicKeyFromPoint(pkPoint)
	sig := bls381.NewSignatureFromPoint(sigPoint)

	ok, err := bls381.Verify(pk, message, sig, v.dst)
	if err != nil {
		return false, err
	}
	if !ok {
		v.logger.Warn("aggregate signature failed local pairing check",
			zap.Int("aggPkBytes", len(aggPk)),
			zap.Int("aggSigBytes", len(aggSig)),
		)
	}
	return ok, nil
}

// VerifyAggregateWithKeys performs the stronger local check against the
// original unaggregated key list: the keys are re-aggregated here and the
// pairing check run against that sum, so a caller-supplied aggPk cannot mask a
// bad contribution.
func (v *LocalVerifier) VerifyAggregateWithKeys(publicKeys []*bls381.PublicKey, message []byte, aggSig []byte) (bool, error) {
	sigPoint, err := codec.DecodeG2(aggSig)
	if err != nil {
		return false, fmt.Errorf("failed to decode aggregate signature: %w", err)
	}
	return bls381.FastAggregateVerify(publicKeys, message, bls381.NewSignatureFromPoint(sigPoint), v.dst)
}
