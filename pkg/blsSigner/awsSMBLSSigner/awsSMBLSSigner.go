// Package awsSMBLSSigner provides AWS Secrets Manager-based BLS signing.
// The BLS12-381 private scalar is stored as a hex string in Secrets Manager
// and fetched per operation, so the key never sits in process memory longer
// than a single signing call.
package awsSMBLSSigner

import (
	"fmt"

	"github.com/Layr-Labs/bls-aggregation-go/pkg/bls381"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"go.uber.org/zap"
)

// AWSSMBLSSignerConfig specifies where the signing scalar lives.
type AWSSMBLSSignerConfig struct {
	// Region is the AWS region holding the secret
	Region string
	// SecretName is the Secrets Manager secret containing the hex-encoded 32-byte scalar
	SecretName string
}

// AWSSMBLSSigner implements blsSigner.IBLSSigner using AWS Secrets Manager.
type AWSSMBLSSigner struct {
	logger *zap.Logger
	config *AWSSMBLSSignerConfig
}

// NewAWSSMBLSSigner creates a signer that retrieves its BLS private key from
// AWS Secrets Manager on each operation.
func NewAWSSMBLSSigner(cfg *AWSSMBLSSignerConfig, logger *zap.Logger) *AWSSMBLSSigner {
	return &AWSSMBLSSigner{
		logger: logger,
		config: cfg,
	}
}

// getSecret retrieves and parses the BLS private key from AWS Secrets Manager.
func (a *AWSSMBLSSigner) getSecret() (*bls381.PrivateKey, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(a.config.Region),
	})
	if err != nil {
		return nil, err
	}

	svc := secretsmanager.New(sess)

	input := &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(a.config.SecretName),
		VersionStage: aws.String("AWSCURRENT"),
	}

	result, err := svc.GetSecretValue(input)
	if err != nil {
		return nil, err
	}

	if result.SecretString == nil {
		return nil, fmt.Errorf("secret string is nil")
	}
	return bls381.NewPrivateKeyFromHexString(*result.SecretString)
}

// SignMessage signs the message with the private key from AWS Secrets Manager.
// The fetched scalar is zeroized before returning.
func (a *AWSSMBLSSigner) SignMessage(message []byte, dst []byte) (*bls381.Signature, error) {
	sk, err := a.getSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret: %w", err)
	}
	defer sk.Zeroize()

	return sk.Sign(message, dst)
}

// GetPublicKey derives the public key from the private key in AWS Secrets Manager.
func (a *AWSSMBLSSigner) GetPublicKey() (*bls381.PublicKey, error) {
	sk, err := a.getSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret: %w", err)
	}
	defer sk.Zeroize()

	return sk.Public(), nil
}
