package tickets404

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ParseEther converts a decimal ether string to wei.
func ParseEther(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("parse ether %q: %w", s, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("parse ether %q: %w", s, ErrNegativeAmount)
	}
	wei := d.Shift(18)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, fmt.Errorf("parse ether %q: more than 18 decimals: %w", s, ErrInvalidAmount)
	}
	return wei.BigInt(), nil
}

func MustParseEther(s string) *big.Int {
	wei, err := ParseEther(s)
	if err != nil {
		panic(err)
	}
	return wei
}

// FormatEther renders wei as ether without rounding.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -18).String()
}

// MinAmount applies a slippage tolerance given in basis points.
func MinAmount(amount *big.Int, bps int64) (*big.Int, error) {
	if bps < 0 || bps > BPS_DENOMINATOR {
		return nil, fmt.Errorf("slippage %d bps: %w", bps, ErrInvalidBps)
	}
	return MulDiv(amount, big.NewInt(BPS_DENOMINATOR-bps), big.NewInt(BPS_DENOMINATOR))
}

// MaxAmount is the ceiling counterpart of MinAmount.
func MaxAmount(amount *big.Int, bps int64) (*big.Int, error) {
	if bps < 0 || bps > BPS_DENOMINATOR {
		return nil, fmt.Errorf("slippage %d bps: %w", bps, ErrInvalidBps)
	}
	return MulDivRoundingUp(amount, big.NewInt(BPS_DENOMINATOR+bps), big.NewInt(BPS_DENOMINATOR))
}
