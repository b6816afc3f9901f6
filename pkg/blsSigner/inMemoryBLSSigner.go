package blsSigner

import (
	"fmt"

	"github.com/Layr-Labs/bls-aggregation-go/pkg/bls381"
)

// InMemoryBLSSigner implements IBLSSigner using a BLS private key held in
// memory. Suitable for development, testing, and short-lived signing sessions;
// callers owning the key remain responsible for zeroizing it afterwards.
type InMemoryBLSSigner struct {
	privateKey *bls381.PrivateKey
	publicKey  *bls381.PublicKey
}

// NewInMemoryBLSSigner creates an InMemoryBLSSigner from a BLS12-381 private
// key. The corresponding public key is derived and cached.
func NewInMemoryBLSSigner(privateKey *bls381.PrivateKey) (*InMemoryBLSSigner, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("private key cannot be nil")
	}

	return &InMemoryBLSSigner{
		privateKey: privateKey,
		publicKey:  privateKey.Public(),
	}, nil
}

// SignMessage signs the message under the given domain separation tag.
func (s *InMemoryBLSSigner) SignMessage(message []byte, dst []byte) (*bls381.Signature, error) {
	if s.privateKey == nil {
		return nil, fmt.Errorf("private key is nil")
	}
	return s.privateKey.Sign(message, dst)
}

// GetPublicKey returns the public key associated with this signer.
func (s *InMemoryBLSSigner) GetPublicKey() (*bls381.PublicKey, error) {
	return s.publicKey, nil
}
