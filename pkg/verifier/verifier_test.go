package verifier

import (
	"testing"

	"github.com/Layr-Labs/bls-aggregation-go/pkg/bls381"
	"github.com/Layr-Labs/bls-aggregation-go/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testKey(t *testing.T, low byte) *bls381.PrivateKey {
	t.Helper()
	b := make([]byte, 32)
	b[31] = low
	sk, err := bls381.NewPrivateKeyFromBytes(b)
	require.NoError(t, err)
	return sk
}

func TestVerifyAggregate_SingleSigner(t *testing.T) {
	sk := testKey(t, 5)
	message := []byte("verify me locally")

	sig, err := sk.Sign(message, nil)
	require.NoError(t, err)

	v := NewLocalVerifier(nil, zap.NewNop())
	ok, err := v.VerifyAggregate(
		codec.EncodeG1(sk.Public().G1Affine()),
		message,
		codec.EncodeG2(sig.G2Affine()),
	)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyAggregate_WrongMessage(t *testing.T) {
	sk := testKey(t, 5)

	sig, err := sk.Sign([]byte("the signed message"), nil)
	require.NoError(t, err)

	v := NewLocalVerifier(nil, zap.NewNop())
	ok, err := v.VerifyAggregate(
		codec.EncodeG1(sk.Public().G1Affine()),
		[]byte("a different message"),
		codec.EncodeG2(sig.G2Affine()),
	)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyAggregate_MultiSigner(t *testing.T) {
	message := []byte("shared attestation")

	publicKeys := make([]*bls381.PublicKey, 0, 3)
	signatures := make([]*bls381.Signature, 0, 3)
	for _, low := range []byte{2, 4, 8} {
		sk := testKey(t, low)
		sig, err := sk.Sign(message, nil)
		require.NoError(t, err)
		publicKeys = append(publicKeys, sk.Public())
		signatures = append(signatures, sig)
	}

	aggPk, err := bls381.AggregatePublicKeys(publicKeys)
	require.NoError(t, err)
	aggSig, err := bls381.AggregateSignatures(signatures)
	require.NoError(t, err)

	v := NewLocalVerifier(nil, zap.NewNop())
	ok, err := v.VerifyAggregate(
		codec.EncodeG1(aggPk.G1Affine()),
		message,
		codec.EncodeG2(aggSig.G2Affine()),
	)
	require.NoError(t, err)
	assert.True(t, ok)

	// The stronger check against the unaggregated key list agrees.
	ok, err = v.VerifyAggregateWithKeys(publicKeys, message, codec.EncodeG2(aggSig.G2Affine()))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyAggregate_MalformedBuffers(t *testing.T) {
	v := NewLocalVerifier(nil, zap.NewNop())

	_, err := v.VerifyAggregate(make([]byte, 64), []byte("m"), make([]byte, 256))
	require.Error(t, err)
	assert.ErrorIs(t, err, codec.ErrInvalidLength)

	sk := testKey(t, 3)
	_, err = v.VerifyAggregate(codec.EncodeG1(sk.Public().G1Affine()), []byte("m"), make([]byte, 255))
	require.Error(t, err)
	assert.ErrorIs(t, err, codec.ErrInvalidLength)
}

func TestVerifyAggregate_DSTMismatch(t *testing.T) {
	sk := testKey(t, 9)
	message := []byte("tag sensitivity")

	sig, err := sk.Sign(message, nil) // default DST
	require.NoError(t, err)

	v := NewLocalVerifier([]byte("ANOTHER_DST_"), zap.NewNop())
	ok, err := v.VerifyAggregate(
		codec.EncodeG1(sk.Public().G1Affine()),
		message,
		codec.EncodeG2(sig.G2Affine()),
	)
	require.NoError(t, err)
	assert.False(t, ok)
}
