// Package solidityArgs reshapes EIP-2537 byte buffers into the ABI tuple
// structs a verifier contract expects and packs full calldata for its
// verifyAggregateSignature function. The package is pure: no I/O, no chain
// access; it only decodes integers out of already validated buffers.
//
// A BLS12-381 base field element is 381 bits and does not fit a single
// uint256, so each coordinate carries its padded 64-byte EIP-2537 limb as two
// 32-byte big-endian words, high word first. Concatenating the words of a
// tuple in order reproduces the EIP-2537 buffer bit for bit.
package solidityArgs

import (
	"fmt"
	"math/big"

	"github.com/Layr-Labs/bls-aggregation-go/pkg/codec"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

// G1Point mirrors the Solidity struct { uint256[2] X; uint256[2] Y; }.
// Each coordinate is the two words of its 64-byte EIP-2537 limb.
type G1Point struct {
	X [2]*big.Int
	Y [2]*big.Int
}

// G2Point mirrors the Solidity struct { uint256[4] X; uint256[4] Y; }.
// Each Fp2 coordinate holds its c0 limb's words at indices 0-1 and its c1
// limb's words at indices 2-3, matching the EIP-2537 limb order.
type G2Point struct {
	X [4]*big.Int
	Y [4]*big.Int
}

// SolidityArguments is the argument tuple for
// verifyAggregateSignature(G1Point aggPk, G2Point hashedMsg, G2Point aggSig).
type SolidityArguments struct {
	AggregatePublicKey G1Point
	HashedMessage      G2Point
	AggregateSignature G2Point
}

// ToSolidityArguments converts the three EIP-2537 buffers (128-byte aggregate
// public key, 256-byte hashed message, 256-byte aggregate signature) into ABI
// tuple shape. Inputs are fully re-validated: wrong sizes, nonzero padding,
// non-canonical field elements, and off-curve or out-of-subgroup points are
// all rejected, so every word pair recombines to a value within the base field.
func ToSolidityArguments(aggPk []byte, hashedMsg []byte, aggSig []byte) (*SolidityArguments, error) {
	if _, err := codec.DecodeG1(aggPk); err != nil {
		return nil, fmt.Errorf("invalid aggregate public key: %w", err)
	}
	if _, err := codec.DecodeG2(hashedMsg); err != nil {
		return nil, fmt.Errorf("invalid hashed message: %w", err)
	}
	if _, err := codec.DecodeG2(aggSig); err != nil {
		return nil, fmt.Errorf("invalid aggregate signature: %w", err)
	}

	return &SolidityArguments{
		AggregatePublicKey: g1PointFromBuffer(aggPk),
		HashedMessage:      g2PointFromBuffer(hashedMsg),
		AggregateSignature: g2PointFromBuffer(aggSig),
	}, nil
}

// fpWords splits a padded 64-byte field element into its two 32-byte words.
func fpWords(limb []byte) [2]*big.Int {
	return [2]*big.Int{
		new(big.Int).SetBytes(limb[:32]),
		new(big.Int).SetBytes(limb[32:64]),
	}
}

// fp2Words splits a padded 128-byte Fp2 element into four words, c0 first.
func fp2Words(limbs []byte) [4]*big.Int {
	c0 := fpWords(limbs[:codec.PaddedFpSize])
	c1 := fpWords(limbs[codec.PaddedFpSize:])
	return [4]*big.Int{c0[0], c0[1], c1[0], c1[1]}
}

func g1PointFromBuffer(buf []byte) G1Point {
	return G1Point{
		X: fpWords(buf[:codec.PaddedFpSize]),
		Y: fpWords(buf[codec.PaddedFpSize:]),
	}
}

func g2PointFromBuffer(buf []byte) G2Point {
	return G2Point{
		X: fp2Words(buf[:codec.PaddedFp2Size]),
		Y: fp2Words(buf[codec.PaddedFp2Size:]),
	}
}

// verifyMethodSignature is the canonical Solidity signature used to derive the
// 4-byte function selector.
const verifyMethodSignature = "verifyAggregateSignature((uint256[2],uint256[2]),(uint256[4],uint256[4]),(uint256[4],uint256[4]))"

func verifyArguments() (abi.Arguments, error) {
	g1Type, err := abi.NewType("tuple", "", []abi.ArgumentMarshaling{
		{Name: "X", Type: "uint256[2]"},
		{Name: "Y", Type: "uint256[2]"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build G1 tuple type: %w", err)
	}
	g2Type, err := abi.NewType("tuple", "", []abi.ArgumentMarshaling{
		{Name: "X", Type: "uint256[4]"},
		{Name: "Y", Type: "uint256[4]"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build G2 tuple type: %w", err)
	}
	return abi.Arguments{
		{Name: "aggPk", Type: g1Type},
		{Name: "hashedMsg", Type: g2Type},
		{Name: "aggSig", Type: g2Type},
	}, nil
}

// PackVerifyCalldata ABI-encodes the arguments and prepends the Keccak-derived
// selector for verifyAggregateSignature, yielding calldata an external caller
// can submit as-is. The encoding is static, so the words after the selector
// are exactly the three EIP-2537 buffers concatenated.
func PackVerifyCalldata(args *SolidityArguments) ([]byte, error) {
	abiArgs, err := verifyArguments()
	if err != nil {
		return nil, err
	}

	packed, err := abiArgs.Pack(args.AggregatePublicKey, args.HashedMessage, args.AggregateSignature)
	if err != nil {
		return nil, fmt.Errorf("failed to pack verifier arguments: %w", err)
	}

	selector := crypto.Keccak256([]byte(verifyMethodSignature))[:4]
	return append(selector, packed...), nil
}
