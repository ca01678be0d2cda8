package invest

import "math/big"

// Result is the outcome of one orchestration run. The step log is append-only
// and owned by the single in-flight run; on failure it holds every label up to
// and including the step that failed.
type Result struct {
	Success            bool     `json:"success"`
	Steps              []string `json:"steps"`
	Error              string   `json:"error,omitempty"`
	SwapTxHash         string   `json:"swap_tx_hash,omitempty"`
	LiquidityTxHash    string   `json:"liquidity_tx_hash,omitempty"`
	NFTTokenID         *string  `json:"nft_token_id"`
	TargetTokenAmount  string   `json:"target_token_amount,omitempty"`
	FundingTokenAmount string   `json:"funding_token_amount,omitempty"`
	ChainID            int64    `json:"chain_id"`
}

// SplitInvestment halves the investment with integer division: the swap leg
// gets floor(n/2) and the reserved leg gets the remainder, so the two always
// sum back to n even for odd smallest-unit amounts.
func SplitInvestment(total *big.Int) (swapAmount, reservedAmount *big.Int) {
	swapAmount = new(big.Int).Div(total, big.NewInt(2))
	reservedAmount = new(big.Int).Sub(total, swapAmount)
	return swapAmount, reservedAmount
}
