package id

import (
	"math/big"

	"github.com/shopspring/decimal"

	clierr "github.com/Adi9876/LP-pancakeswap/internal/errors"
)

// ParseAmount converts a human decimal string ("10000", "0.5") into token base
// units for the given decimal precision. Precision beyond the token's decimals
// is rejected rather than silently truncated.
func ParseAmount(value string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUsage, "amount must be a decimal number", err)
	}
	if d.Sign() <= 0 {
		return nil, clierr.New(clierr.CodeUsage, "amount must be positive")
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return nil, clierr.New(clierr.CodeUsage, "amount has more precision than the token supports")
	}
	return scaled.BigInt(), nil
}

// FormatAmount renders base units as a trimmed decimal string.
func FormatAmount(baseUnits *big.Int, decimals uint8) string {
	if baseUnits == nil {
		return "0"
	}
	return decimal.NewFromBigInt(baseUnits, -int32(decimals)).String()
}
