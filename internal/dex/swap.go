package dex

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	clierr "github.com/Adi9876/LP-pancakeswap/internal/errors"
)

// DefaultDeadline is the on-chain execution window embedded in swap and mint
// transactions. The router rejects inclusion after it, this tool does not.
const DefaultDeadline = 1200 * time.Second

type exactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	Deadline          *big.Int
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}

// SwapExecutor submits exact-input-single swaps against the V3 router.
type SwapExecutor struct {
	sender   TxSender
	router   common.Address
	deadline time.Duration
	now      func() time.Time
}

func NewSwapExecutor(sender TxSender, router common.Address, deadline time.Duration) *SwapExecutor {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	return &SwapExecutor{sender: sender, router: router, deadline: deadline, now: time.Now}
}

// Swap submits an exact-input-single swap with the signer as recipient and no
// price limit beyond the minimum-output guard. It returns the submitted
// transaction hash; awaiting confirmation is the caller's responsibility.
func (s *SwapExecutor) Swap(ctx context.Context, tokenIn, tokenOut common.Address, amountIn, amountOutMin *big.Int, fee FeeTier) (common.Hash, error) {
	deadline := big.NewInt(s.now().Add(s.deadline).Unix())
	data, err := routerABI.Pack("exactInputSingle", exactInputSingleParams{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		Fee:               fee.Big(),
		Recipient:         s.sender.From(),
		Deadline:          deadline,
		AmountIn:          amountIn,
		AmountOutMinimum:  amountOutMin,
		SqrtPriceLimitX96: big.NewInt(0),
	})
	if err != nil {
		return common.Hash{}, clierr.Wrap(clierr.CodeInternal, "pack swap calldata", err)
	}
	return s.sender.Submit(ctx, s.router, data)
}
