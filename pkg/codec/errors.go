package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Layr-Labs/bls-aggregation-go/pkg/bls381"
)

// Length, curve and subgroup failures share sentinels with pkg/bls381 so
// callers can errors.Is against a single taxonomy across the pipeline.
var (
	ErrInvalidLength      = bls381.ErrInvalidLength
	ErrPointNotOnCurve    = bls381.ErrPointNotOnCurve
	ErrPointNotInSubgroup = bls381.ErrPointNotInSubgroup

	// ErrInvalidPadding indicates a correctly sized buffer whose 16-byte zero
	// prefix is violated or whose field element is not canonical.
	ErrInvalidPadding = errors.New("invalid padding: expected 16 zero bytes before each field element")
)

func classifyPointError(err error) error {
	if strings.Contains(err.Error(), "subgroup") {
		return fmt.Errorf("%w: %v", ErrPointNotInSubgroup, err)
	}
	return fmt.Errorf("%w: %v", ErrPointNotOnCurve, err)
}
