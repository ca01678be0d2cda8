package dex

import "math/big"

// FeeTier is a PancakeSwap V3 pool fee in hundredths of a basis point.
type FeeTier uint32

const (
	FeeTierLowest FeeTier = 100   // 0.01%
	FeeTierLow    FeeTier = 500   // 0.05%
	FeeTierMedium FeeTier = 2500  // 0.25%
	FeeTierHigh   FeeTier = 10000 // 1%
)

// Theoretical tick bounds of the concentrated-liquidity design.
const (
	MinTick = -887272
	MaxTick = 887272
)

var tickSpacingByTier = map[FeeTier]int{
	FeeTierLowest: 1,
	FeeTierLow:    10,
	FeeTierMedium: 50,
	FeeTierHigh:   200,
}

// TickSpacing returns the tick granularity for the tier.
func (f FeeTier) TickSpacing() (int, bool) {
	spacing, ok := tickSpacingByTier[f]
	return spacing, ok
}

// Big returns the tier as a big.Int for uint24 ABI arguments.
func (f FeeTier) Big() *big.Int {
	return new(big.Int).SetUint64(uint64(f))
}

// ProbeOrder returns the fee tiers to try when resolving a pool: the preferred
// tier first (when non-zero), then low, medium, high, duplicates removed.
func ProbeOrder(preferred FeeTier) []FeeTier {
	candidates := []FeeTier{FeeTierLow, FeeTierMedium, FeeTierHigh}
	if preferred != 0 {
		candidates = append([]FeeTier{preferred}, candidates...)
	}
	seen := make(map[FeeTier]struct{}, len(candidates))
	order := make([]FeeTier, 0, len(candidates))
	for _, tier := range candidates {
		if _, ok := seen[tier]; ok {
			continue
		}
		seen[tier] = struct{}{}
		order = append(order, tier)
	}
	return order
}

// NearestUsableTick rounds tick to the nearest multiple of spacing, nudged
// back inside [MinTick, MaxTick] when rounding would leave the range.
func NearestUsableTick(tick, spacing int) int {
	half := spacing / 2
	var quotient int
	if tick >= 0 {
		quotient = (tick + half) / spacing
	} else {
		quotient = (tick - half) / spacing
	}
	rounded := quotient * spacing
	if rounded < MinTick {
		rounded += spacing
	} else if rounded > MaxTick {
		rounded -= spacing
	}
	return rounded
}

// FullRangeTicks returns the widest usable tick range for the tier.
func FullRangeTicks(fee FeeTier) (lower, upper int, ok bool) {
	spacing, ok := fee.TickSpacing()
	if !ok {
		return 0, 0, false
	}
	return NearestUsableTick(MinTick, spacing), NearestUsableTick(MaxTick, spacing), true
}
