package aggregator

import (
	"testing"

	"github.com/Layr-Labs/bls-aggregation-go/pkg/verifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Helper to create a test aggregator with the default DST.
func setupTestAggregator(t *testing.T) *Aggregator {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	return NewAggregator(&AggregatorConfig{}, logger)
}

// Helper to build a strict 32-byte scalar with the given low byte.
func testScalar(low byte) []byte {
	b := make([]byte, 32)
	b[31] = low
	return b
}

func testScalars(lows ...byte) [][]byte {
	out := make([][]byte, len(lows))
	for i, low := range lows {
		out[i] = testScalar(low)
	}
	return out
}

func repeatMessage(message []byte, n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = message
	}
	return out
}

func TestGenerateAggregateSignature_EmptyInputs(t *testing.T) {
	agg := setupTestAggregator(t)

	_, err := agg.GenerateAggregateSignature(nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputValidation)

	_, err = agg.GenerateAggregateSignature([][]byte{}, [][]byte{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputValidation)
}

func TestGenerateAggregateSignature_MismatchedLengths(t *testing.T) {
	agg := setupTestAggregator(t)

	_, err := agg.GenerateAggregateSignature(testScalars(1, 2), repeatMessage([]byte("m"), 3))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputValidation)
}

func TestGenerateAggregateSignature_MessageDisagreement(t *testing.T) {
	agg := setupTestAggregator(t)

	messages := [][]byte{[]byte("message A"), []byte("message B")}
	_, err := agg.GenerateAggregateSignature(testScalars(1, 2), messages)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputValidation)
}

func TestGenerateAggregateSignature_InvalidScalar(t *testing.T) {
	agg := setupTestAggregator(t)

	keys := [][]byte{testScalar(1), make([]byte, 32)} // second key is zero
	_, err := agg.GenerateAggregateSignature(keys, repeatMessage([]byte("m"), 2))
	require.Error(t, err)
}

func TestGenerateAggregateSignature_CommonMessage(t *testing.T) {
	agg := setupTestAggregator(t)
	message := []byte("hello world")

	result, err := agg.GenerateAggregateSignature(testScalars(1, 2), repeatMessage(message, 2))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Len(t, result.AggregatePublicKey, 128)
	assert.Len(t, result.HashedMessage, 256)
	assert.Len(t, result.AggregateSignature, 256)
}

func TestGenerateAggregateSignatureFromSeeds_DeterministicScenario(t *testing.T) {
	agg := setupTestAggregator(t)

	zeroSeed := make([]byte, 32)
	oneSeed := make([]byte, 32)
	for i := range oneSeed {
		oneSeed[i] = 0x01
	}
	message := []byte("hello world")

	first, err := agg.GenerateAggregateSignatureFromSeeds([][]byte{zeroSeed, oneSeed}, message)
	require.NoError(t, err)
	second, err := agg.GenerateAggregateSignatureFromSeeds([][]byte{zeroSeed, oneSeed}, message)
	require.NoError(t, err)

	assert.Equal(t, first.AggregatePublicKey, second.AggregatePublicKey)
	assert.Equal(t, first.HashedMessage, second.HashedMessage)
	assert.Equal(t, first.AggregateSignature, second.AggregateSignature)

	v := verifier.NewLocalVerifier(nil, zap.NewNop())
	ok, err := v.VerifyAggregate(first.AggregatePublicKey, message, first.AggregateSignature)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerateAggregateSignature_PermutationInvariant(t *testing.T) {
	agg := setupTestAggregator(t)
	message := []byte("ordering must not matter")

	result1, err := agg.GenerateAggregateSignatureForMessage(testScalars(3, 5, 7), message)
	require.NoError(t, err)
	result2, err := agg.GenerateAggregateSignatureForMessage(testScalars(7, 3, 5), message)
	require.NoError(t, err)

	assert.Equal(t, result1.AggregatePublicKey, result2.AggregatePublicKey)
	assert.Equal(t, result1.AggregateSignature, result2.AggregateSignature)
}

func TestGenerateAggregateSignature_SignerCounts(t *testing.T) {
	agg := setupTestAggregator(t)
	message := []byte("scaling signer counts")

	for _, n := range []int{3, 5, 10} {
		keys := make([][]byte, n)
		for i := range keys {
			keys[i] = testScalar(byte(i + 1))
		}

		result, err := agg.GenerateAggregateSignatureForMessage(keys, message)
		require.NoError(t, err, "n=%d", n)
		assert.Len(t, result.AggregatePublicKey, 128, "n=%d", n)
		assert.Len(t, result.HashedMessage, 256, "n=%d", n)
		assert.Len(t, result.AggregateSignature, 256, "n=%d", n)
	}
}

func TestGenerateAggregateSignature_BitFlipFailsVerification(t *testing.T) {
	agg := setupTestAggregator(t)
	message := []byte("tamper detection")

	result, err := agg.GenerateAggregateSignatureForMessage(testScalars(1, 2), message)
	require.NoError(t, err)

	corrupted := make([]byte, len(result.AggregateSignature))
	copy(corrupted, result.AggregateSignature)
	corrupted[255] ^= 0x01

	v := verifier.NewLocalVerifier(nil, zap.NewNop())
	ok, err := v.VerifyAggregate(result.AggregatePublicKey, message, corrupted)
	// A flipped bit either knocks the point off the curve (decode error) or
	// yields a point that fails the pairing check.
	if err == nil {
		assert.False(t, ok)
	}
}

func TestGenerateAggregateSignature_WrongMessageFailsVerification(t *testing.T) {
	agg := setupTestAggregator(t)

	result, err := agg.GenerateAggregateSignatureForMessage(testScalars(1, 2), []byte("signed message"))
	require.NoError(t, err)

	v := verifier.NewLocalVerifier(nil, zap.NewNop())
	ok, err := v.VerifyAggregate(result.AggregatePublicKey, []byte("some other message"), result.AggregateSignature)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenerateAggregateSignatureDistinct(t *testing.T) {
	agg := setupTestAggregator(t)

	messages := [][]byte{
		[]byte("signer zero's message"),
		[]byte("signer one's message"),
		[]byte("signer two's message"),
	}

	result, err := agg.GenerateAggregateSignatureDistinct(testScalars(11, 12, 13), messages)
	require.NoError(t, err)
	require.NotNil(t, result)

	require.Len(t, result.PublicKeys, 3)
	for _, pk := range result.PublicKeys {
		assert.Len(t, pk, 128)
	}
	require.Len(t, result.HashedMessages, 3)
	for _, hm := range result.HashedMessages {
		assert.Len(t, hm, 256)
	}
	assert.Len(t, result.AggregateSignature, 256)
}

func TestGenerateAggregateSignatureDistinct_MismatchedLengths(t *testing.T) {
	agg := setupTestAggregator(t)

	_, err := agg.GenerateAggregateSignatureDistinct(testScalars(1), [][]byte{[]byte("a"), []byte("b")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputValidation)
}

func TestGenerateAggregateSignatureFromSigners_Empty(t *testing.T) {
	agg := setupTestAggregator(t)

	_, err := agg.GenerateAggregateSignatureFromSigners(nil, []byte("m"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputValidation)
}

func TestGenerateAggregateSignature_CustomDST(t *testing.T) {
	logger := zap.NewNop()
	custom := NewAggregator(&AggregatorConfig{
		DomainSeparationTag: []byte("CUSTOM_APP_BLS_SIG_V1_"),
	}, logger)
	standard := NewAggregator(&AggregatorConfig{}, logger)

	message := []byte("domain separated")

	customResult, err := custom.GenerateAggregateSignatureForMessage(testScalars(1), message)
	require.NoError(t, err)
	standardResult, err := standard.GenerateAggregateSignatureForMessage(testScalars(1), message)
	require.NoError(t, err)

	assert.NotEqual(t, customResult.HashedMessage, standardResult.HashedMessage)
	assert.NotEqual(t, customResult.AggregateSignature, standardResult.AggregateSignature)
	// Public keys do not depend on the DST.
	assert.Equal(t, customResult.AggregatePublicKey, standardResult.AggregatePublicKey)
}
