// Package blsSigner provides BLS signing over BLS12-381 behind a narrow
// interface, so aggregation flows can mix local keys with remotely held ones
// without caring where the scalar lives.
package blsSigner

import "github.com/Layr-Labs/bls-aggregation-go/pkg/bls381"

// IBLSSigner defines the signing operations the aggregation pipeline needs.
// Implementations sign arbitrary messages (hashed to G2 internally) and expose
// the G1 public key used to verify their contributions.
type IBLSSigner interface {
	// SignMessage signs the message under the given domain separation tag.
	// A nil dst selects bls381.DefaultDST.
	SignMessage(message []byte, dst []byte) (*bls381.Signature, error)

	// GetPublicKey returns the G1 public key corresponding to the signing scalar.
	GetPublicKey() (*bls381.PublicKey, error)
}
