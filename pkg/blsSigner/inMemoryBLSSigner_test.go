package blsSigner

import (
	"testing"

	"github.com/Layr-Labs/bls-aggregation-go/pkg/bls381"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInMemoryBLSSigner_NilKey(t *testing.T) {
	_, err := NewInMemoryBLSSigner(nil)
	require.Error(t, err)
}

func TestInMemoryBLSSigner_SignAndVerify(t *testing.T) {
	sk, err := bls381.GeneratePrivateKey()
	require.NoError(t, err)

	signer, err := NewInMemoryBLSSigner(sk)
	require.NoError(t, err)

	message := []byte("signer interface contract")
	sig, err := signer.SignMessage(message, nil)
	require.NoError(t, err)

	pk, err := signer.GetPublicKey()
	require.NoError(t, err)
	assert.True(t, pk.Equal(sk.Public()))

	ok, err := bls381.Verify(pk, message, sig, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInMemoryBLSSigner_DeterministicSignatures(t *testing.T) {
	keyBytes := make([]byte, bls381.ScalarSize)
	keyBytes[bls381.ScalarSize-1] = 3
	sk, err := bls381.NewPrivateKeyFromBytes(keyBytes)
	require.NoError(t, err)

	signer, err := NewInMemoryBLSSigner(sk)
	require.NoError(t, err)

	sig1, err := signer.SignMessage([]byte("stable"), nil)
	require.NoError(t, err)
	sig2, err := signer.SignMessage([]byte("stable"), nil)
	require.NoError(t, err)

	assert.Equal(t, sig1.Bytes(), sig2.Bytes())
}
