package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	clierr "github.com/Adi9876/LP-pancakeswap/internal/errors"
)

// quoteExactInputSingle is declared nonpayable on QuoterV2 but is only ever
// invoked as a simulated eth_call; it never changes state.

// Quoter asks QuoterV2 for the expected output of a hypothetical exact-input
// swap. A quote is valid only against the pool state at query time and must
// be consumed immediately.
type Quoter struct {
	caller Caller
	quoter common.Address
	logger *zap.Logger
}

func NewQuoter(caller Caller, quoter common.Address, logger *zap.Logger) *Quoter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Quoter{caller: caller, quoter: quoter, logger: logger}
}

type quoteExactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	AmountIn          *big.Int
	Fee               *big.Int
	SqrtPriceLimitX96 *big.Int
}

// QuoteExactInputSingle returns the expected amountOut. Reverts are rewritten
// into a generic remediation message; the raw reason is logged, not shown.
func (q *Quoter) QuoteExactInputSingle(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int, fee FeeTier) (*big.Int, error) {
	data, err := quoterV2ABI.Pack("quoteExactInputSingle", quoteExactInputSingleParams{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		AmountIn:          amountIn,
		Fee:               fee.Big(),
		SqrtPriceLimitX96: big.NewInt(0),
	})
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "pack quote calldata", err)
	}
	out, err := q.caller.CallContract(ctx, ethereum.CallMsg{To: &q.quoter, Data: data}, nil)
	if err != nil {
		q.logger.Debug("quote call reverted", zap.String("tokenIn", tokenIn.Hex()), zap.String("tokenOut", tokenOut.Hex()), zap.Error(err))
		return nil, clierr.New(clierr.CodeQuote, "quote failed, try a smaller amount or a different pair")
	}
	values, err := quoterV2ABI.Unpack("quoteExactInputSingle", out)
	if err != nil || len(values) == 0 {
		return nil, clierr.Wrap(clierr.CodeQuote, "decode quote result", err)
	}
	amountOut, ok := values[0].(*big.Int)
	if !ok {
		return nil, clierr.New(clierr.CodeQuote, "decode quote result: unexpected type")
	}
	return amountOut, nil
}

// PoolLiquidity reads the pool's in-range liquidity.
func (q *Quoter) PoolLiquidity(ctx context.Context, pool common.Address) (*big.Int, error) {
	data, err := poolABI.Pack("liquidity")
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "pack liquidity calldata", err)
	}
	out, err := q.caller.CallContract(ctx, ethereum.CallMsg{To: &pool, Data: data}, nil)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUnavailable, "read pool liquidity", err)
	}
	values, err := poolABI.Unpack("liquidity", out)
	if err != nil || len(values) != 1 {
		return nil, clierr.Wrap(clierr.CodeUnavailable, "decode pool liquidity", err)
	}
	liquidity, ok := values[0].(*big.Int)
	if !ok {
		return nil, clierr.New(clierr.CodeUnavailable, "decode pool liquidity: unexpected type")
	}
	return liquidity, nil
}

// Quote verifies the resolved pool holds liquidity, then quotes amountIn.
// A zero-liquidity pool is reported verbatim with the pool address so the
// user can inspect it, distinct from a generic quote failure.
func (q *Quoter) Quote(ctx context.Context, pool Pool, tokenIn, tokenOut common.Address, amountIn *big.Int) (*big.Int, error) {
	if pool.Address == (common.Address{}) {
		return nil, clierr.New(clierr.CodeInternal, "quote requested against an unresolved pool")
	}
	liquidity, err := q.PoolLiquidity(ctx, pool.Address)
	if err != nil {
		return nil, err
	}
	if liquidity.Sign() == 0 {
		return nil, clierr.New(clierr.CodeIlliquidPool, fmt.Sprintf("pool %s has zero liquidity, deposits into it cannot be swapped against", pool.Address.Hex()))
	}
	return q.QuoteExactInputSingle(ctx, tokenIn, tokenOut, amountIn, pool.Fee)
}

// AmountOutMin applies a slippage tolerance in basis points:
// floor(amountOut * (10000 - slippageBps) / 10000).
func AmountOutMin(amountOut *big.Int, slippageBps int64) *big.Int {
	min := new(big.Int).Mul(amountOut, big.NewInt(10000-slippageBps))
	return min.Div(min, big.NewInt(10000))
}
