package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Layr-Labs/bls-aggregation-go/pkg/aggregator"
	"github.com/Layr-Labs/bls-aggregation-go/pkg/bls381"
	"github.com/Layr-Labs/bls-aggregation-go/pkg/logger"
	"github.com/Layr-Labs/bls-aggregation-go/pkg/solidityArgs"
	"github.com/Layr-Labs/bls-aggregation-go/pkg/util"
	"github.com/ethereum/go-ethereum/common/hexutil"
	cli "github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "aggregator",
		Usage: "BLS12-381 aggregate signature generator for EIP-2537 verifier contracts",
		Description: `The aggregator CLI signs a common message with a set of BLS12-381 keys,
aggregates the results, runs the local pairing check, and prints the EIP-2537
buffers and verifyAggregateSignature calldata the on-chain verifier expects.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Enable debug logging",
				EnvVars: []string{"DEBUG"},
			},
			&cli.StringFlag{
				Name:     "message",
				Aliases:  []string{"m"},
				Usage:    "Message to sign (UTF-8)",
				Required: true,
				EnvVars:  []string{"MESSAGE"},
			},
			&cli.StringSliceFlag{
				Name:    "private-keys",
				Usage:   "BLS private keys for signing (hex format, with or without 0x prefix)",
				EnvVars: []string{"BLS_PRIVATE_KEYS"},
			},
			&cli.IntFlag{
				Name:    "num-signers",
				Aliases: []string{"n"},
				Usage:   "Number of freshly generated signers (ignored when --private-keys is set)",
				Value:   3,
				EnvVars: []string{"NUM_SIGNERS"},
			},
			&cli.StringFlag{
				Name:    "dst",
				Usage:   "Hash-to-curve domain separation tag (defaults to the library's DST)",
				EnvVars: []string{"BLS_DST"},
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("debug")})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	secretKeys, err := collectSecretKeys(c)
	if err != nil {
		return err
	}

	var dst []byte
	if s := c.String("dst"); s != "" {
		dst = []byte(s)
	}

	agg := aggregator.NewAggregator(&aggregator.AggregatorConfig{
		DomainSeparationTag: dst,
	}, l)

	message := []byte(c.String("message"))
	result, err := agg.GenerateAggregateSignatureForMessage(secretKeys, message)
	if err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}

	args, err := solidityArgs.ToSolidityArguments(
		result.AggregatePublicKey,
		result.HashedMessage,
		result.AggregateSignature,
	)
	if err != nil {
		return fmt.Errorf("failed to build solidity arguments: %w", err)
	}
	calldata, err := solidityArgs.PackVerifyCalldata(args)
	if err != nil {
		return fmt.Errorf("failed to pack calldata: %w", err)
	}

	l.Sugar().Infow("aggregate signature generated",
		zap.Int("signers", len(secretKeys)),
		zap.String("aggPk", hexutil.Encode(result.AggregatePublicKey)),
		zap.String("hashedMsg", hexutil.Encode(result.HashedMessage)),
		zap.String("aggSig", hexutil.Encode(result.AggregateSignature)),
	)

	fmt.Printf("aggPk:     %s\n", hexutil.Encode(result.AggregatePublicKey))
	fmt.Printf("hashedMsg: %s\n", hexutil.Encode(result.HashedMessage))
	fmt.Printf("aggSig:    %s\n", hexutil.Encode(result.AggregateSignature))
	fmt.Printf("calldata:  %s\n", hexutil.Encode(calldata))
	return nil
}

// collectSecretKeys parses --private-keys, or generates fresh random keys when
// none were provided. Generated keys are printed so runs can be reproduced.
func collectSecretKeys(c *cli.Context) ([][]byte, error) {
	if hexKeys := c.StringSlice("private-keys"); len(hexKeys) > 0 {
		keys := make([][]byte, 0, len(hexKeys))
		for i, h := range hexKeys {
			sk, err := bls381.NewPrivateKeyFromHexString(strings.TrimSpace(h))
			if err != nil {
				return nil, fmt.Errorf("invalid private key %d: %w", i, err)
			}
			keys = append(keys, sk.Bytes())
		}
		return keys, nil
	}

	n := c.Int("num-signers")
	if n < 1 {
		return nil, fmt.Errorf("--num-signers must be at least 1, got %d", n)
	}
	generated := make([]*bls381.PrivateKey, n)
	for i := range generated {
		sk, err := bls381.GeneratePrivateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate key %d: %w", i, err)
		}
		generated[i] = sk
	}
	return util.Map(generated, func(sk *bls381.PrivateKey, i uint64) []byte {
		return sk.Bytes()
	}), nil
}
