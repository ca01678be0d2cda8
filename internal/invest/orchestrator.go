package invest

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Adi9876/LP-pancakeswap/internal/dex"
	clierr "github.com/Adi9876/LP-pancakeswap/internal/errors"
	"github.com/Adi9876/LP-pancakeswap/internal/id"
	"github.com/Adi9876/LP-pancakeswap/internal/registry"
)

// Step labels, appended to the log before each step is attempted.
const (
	StepReadDecimals    = "Reading token decimals..."
	StepSplit           = "Splitting investment..."
	StepResolvePool     = "Resolving pool..."
	StepApproveRouter   = "Approving swap router..."
	StepQuote           = "Fetching quote..."
	StepSwap            = "Swapping..."
	StepReadBalance     = "Reading swapped balance..."
	StepApproveManager  = "Approving position manager..."
	StepAddLiquidity    = "Adding liquidity..."
	StepExtractPosition = "Extracting position NFT..."
)

// DefaultSlippageBps is the fixed tolerance applied to the swap quote: 0.5%.
const DefaultSlippageBps int64 = 50

// Request is one immutable invest invocation: a funding-token amount as a
// decimal string and the token to pair it with.
type Request struct {
	Amount      string
	TargetToken common.Address
}

type Config struct {
	SlippageBps  int64
	Deadline     time.Duration
	PreferredFee dex.FeeTier
}

// Orchestrator sequences the end-to-end invest flow: swap half the funding
// amount into the target token and deposit both sides as a full-range V3
// position. It is not resumable; a failure mid-sequence leaves prior on-chain
// effects (approvals, a completed swap) in place and the only recovery is to
// re-invoke from scratch.
type Orchestrator struct {
	caller dex.Caller
	sender dex.TxSender
	bundle registry.Bundle
	cfg    Config
	logger *zap.Logger
}

func NewOrchestrator(caller dex.Caller, sender dex.TxSender, bundle registry.Bundle, cfg Config, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlippageBps <= 0 {
		cfg.SlippageBps = DefaultSlippageBps
	}
	if cfg.Deadline <= 0 {
		cfg.Deadline = dex.DefaultDeadline
	}
	if cfg.PreferredFee == 0 {
		cfg.PreferredFee = dex.FeeTierMedium
	}
	return &Orchestrator{caller: caller, sender: sender, bundle: bundle, cfg: cfg, logger: logger}
}

// Invest runs the full flow. The returned Result is always populated with the
// step log accumulated so far; on failure the error carries the typed code
// and Result.Error the user-facing message.
func (o *Orchestrator) Invest(ctx context.Context, req Request) (Result, error) {
	result := Result{ChainID: o.bundle.ChainID, Steps: []string{}}

	funding := o.bundle.Tokens.USDT
	erc20 := dex.NewERC20(o.caller, o.bundle.ChainID)
	approvals := dex.NewApprovals(erc20, o.sender, o.logger)
	resolver := dex.NewPoolResolver(o.caller, o.bundle.Contracts.Factory)
	quoter := dex.NewQuoter(o.caller, o.bundle.Contracts.QuoterV2, o.logger)
	swapper := dex.NewSwapExecutor(o.sender, o.bundle.Contracts.SwapRouter, o.cfg.Deadline)
	minter := dex.NewLiquidityMinter(o.sender, o.bundle.Contracts.PositionManager, o.cfg.Deadline)

	// Step 1: token decimals, two independent reads.
	result.Steps = append(result.Steps, StepReadDecimals)
	var fundingDecimals, targetDecimals uint8
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		fundingDecimals, err = erc20.Decimals(groupCtx, funding)
		return err
	})
	group.Go(func() error {
		var err error
		targetDecimals, err = erc20.Decimals(groupCtx, req.TargetToken)
		return err
	})
	if err := group.Wait(); err != nil {
		return o.fail(result, err)
	}

	investment, err := id.ParseAmount(req.Amount, fundingDecimals)
	if err != nil {
		return o.fail(result, err)
	}

	// Step 2: integer split, remainder stays on the funding side.
	result.Steps = append(result.Steps, StepSplit)
	swapAmount, reservedAmount := SplitInvestment(investment)

	// Step 3: pool discovery, preferring the medium tier.
	result.Steps = append(result.Steps, StepResolvePool)
	pool, err := resolver.Resolve(ctx, funding, req.TargetToken, o.cfg.PreferredFee)
	if err != nil {
		return o.fail(result, err)
	}
	o.logger.Debug("pool resolved",
		zap.String("pool", pool.Address.Hex()),
		zap.Uint32("fee", uint32(pool.Fee)),
	)

	// Step 4: router allowance for exactly the swap leg.
	result.Steps = append(result.Steps, StepApproveRouter)
	if _, err := approvals.EnsureAllowance(ctx, funding, o.bundle.Contracts.SwapRouter, swapAmount); err != nil {
		return o.fail(result, err)
	}

	// Step 5: quote and slippage-bounded minimum.
	result.Steps = append(result.Steps, StepQuote)
	amountOut, err := quoter.Quote(ctx, pool, funding, req.TargetToken, swapAmount)
	if err != nil {
		return o.fail(result, err)
	}
	amountOutMin := dex.AmountOutMin(amountOut, o.cfg.SlippageBps)

	// Step 6: swap and await inclusion.
	result.Steps = append(result.Steps, StepSwap)
	swapHash, err := swapper.Swap(ctx, funding, req.TargetToken, swapAmount, amountOutMin, pool.Fee)
	if err != nil {
		return o.fail(result, err)
	}
	result.SwapTxHash = swapHash.Hex()
	if _, err := o.sender.Wait(ctx, swapHash); err != nil {
		return o.fail(result, err)
	}

	// Step 7: measure what actually arrived, not what was quoted. Rounding
	// and pool movement make actual != quoted.
	result.Steps = append(result.Steps, StepReadBalance)
	targetBalance, err := erc20.BalanceOf(ctx, req.TargetToken, o.sender.From())
	if err != nil {
		return o.fail(result, err)
	}

	// Step 8: two independent position-manager allowances.
	result.Steps = append(result.Steps, StepApproveManager)
	manager := o.bundle.Contracts.PositionManager
	group, groupCtx = errgroup.WithContext(ctx)
	group.Go(func() error {
		_, err := approvals.EnsureAllowance(groupCtx, req.TargetToken, manager, targetBalance)
		return err
	})
	group.Go(func() error {
		_, err := approvals.EnsureAllowance(groupCtx, funding, manager, reservedAmount)
		return err
	})
	if err := group.Wait(); err != nil {
		return o.fail(result, err)
	}

	// Step 9: full-range deposit of the measured balance plus the reserve.
	result.Steps = append(result.Steps, StepAddLiquidity)
	mintHash, err := minter.Mint(ctx, funding, req.TargetToken, reservedAmount, targetBalance, pool.Fee)
	if err != nil {
		return o.fail(result, err)
	}
	result.LiquidityTxHash = mintHash.Hex()
	receipt, err := o.sender.Wait(ctx, mintHash)
	if err != nil {
		return o.fail(result, err)
	}

	// Step 10: minted NFT id from the zero-address transfer; a deposit with
	// an unresolved id is still a success.
	result.Steps = append(result.Steps, StepExtractPosition)
	if tokenID := dex.ExtractMintedTokenID(receipt, manager); tokenID != nil {
		idStr := tokenID.String()
		result.NFTTokenID = &idStr
	} else {
		o.logger.Debug("no mint transfer event found in receipt", zap.String("hash", mintHash.Hex()))
	}

	result.Success = true
	result.TargetTokenAmount = id.FormatAmount(targetBalance, targetDecimals)
	result.FundingTokenAmount = id.FormatAmount(reservedAmount, fundingDecimals)
	return result, nil
}

// fail finalizes a result for an aborted run. Typed errors surface their
// message verbatim; anything else is reduced to a generic retry prompt with
// the detail logged, not shown.
func (o *Orchestrator) fail(result Result, err error) (Result, error) {
	typed, ok := clierr.As(err)
	if !ok {
		o.logger.Error("invest failed", zap.Error(err))
		typed = clierr.Wrap(clierr.CodeInternal, "investment failed, please try again", err)
		err = typed
	} else {
		o.logger.Error("invest failed", zap.Int("code", int(typed.Code)), zap.Error(err))
	}
	result.Success = false
	result.Error = typed.Message
	return result, err
}
