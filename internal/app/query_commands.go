package app

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/Adi9876/LP-pancakeswap/internal/dex"
	clierr "github.com/Adi9876/LP-pancakeswap/internal/errors"
	"github.com/Adi9876/LP-pancakeswap/internal/id"
	"github.com/Adi9876/LP-pancakeswap/internal/store"
)

func (s *runtimeState) newPoolsCommand() *cobra.Command {
	var (
		tokenA  string
		tokenB  string
		feeTier uint32
	)
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "Resolve the deployed pool for a token pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !common.IsHexAddress(strings.TrimSpace(tokenB)) {
				return clierr.New(clierr.CodeUsage, "--token-b must be a valid EVM address")
			}

			ctx := cmd.Context()
			client, bundle, err := s.dial(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			a := bundle.Tokens.USDT
			if strings.TrimSpace(tokenA) != "" {
				if !common.IsHexAddress(strings.TrimSpace(tokenA)) {
					return clierr.New(clierr.CodeUsage, "--token-a must be a valid EVM address")
				}
				a = common.HexToAddress(strings.TrimSpace(tokenA))
			}

			resolver := dex.NewPoolResolver(client, bundle.Contracts.Factory)
			pool, err := resolver.Resolve(ctx, a, common.HexToAddress(strings.TrimSpace(tokenB)), dex.FeeTier(feeTier))
			if err != nil {
				return err
			}
			return s.render(map[string]any{
				"pool":     pool.Address.Hex(),
				"fee_tier": uint32(pool.Fee),
				"chain_id": bundle.ChainID,
			})
		},
	}
	cmd.Flags().StringVar(&tokenA, "token-a", "", "first token address (defaults to USDT)")
	cmd.Flags().StringVar(&tokenB, "token-b", "", "second token address")
	cmd.Flags().Uint32Var(&feeTier, "fee-tier", 0, "preferred fee tier to probe first")
	return cmd
}

func (s *runtimeState) newQuoteCommand() *cobra.Command {
	var (
		amount   string
		tokenIn  string
		tokenOut string
		feeTier  uint32
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote an exact-input swap without executing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(amount) == "" {
				return clierr.New(clierr.CodeUsage, "--amount is required")
			}
			if !common.IsHexAddress(strings.TrimSpace(tokenOut)) {
				return clierr.New(clierr.CodeUsage, "--token-out must be a valid EVM address")
			}

			ctx := cmd.Context()
			client, bundle, err := s.dial(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			in := bundle.Tokens.USDT
			if strings.TrimSpace(tokenIn) != "" {
				if !common.IsHexAddress(strings.TrimSpace(tokenIn)) {
					return clierr.New(clierr.CodeUsage, "--token-in must be a valid EVM address")
				}
				in = common.HexToAddress(strings.TrimSpace(tokenIn))
			}
			outToken := common.HexToAddress(strings.TrimSpace(tokenOut))

			erc20 := dex.NewERC20(client, bundle.ChainID)
			inDecimals, err := erc20.Decimals(ctx, in)
			if err != nil {
				return err
			}
			outDecimals, err := erc20.Decimals(ctx, outToken)
			if err != nil {
				return err
			}
			amountIn, err := id.ParseAmount(strings.TrimSpace(amount), inDecimals)
			if err != nil {
				return err
			}

			resolver := dex.NewPoolResolver(client, bundle.Contracts.Factory)
			pool, err := resolver.Resolve(ctx, in, outToken, dex.FeeTier(feeTier))
			if err != nil {
				return err
			}
			quoter := dex.NewQuoter(client, bundle.Contracts.QuoterV2, s.logger)
			amountOut, err := quoter.Quote(ctx, pool, in, outToken, amountIn)
			if err != nil {
				return err
			}
			amountOutMin := dex.AmountOutMin(amountOut, s.settings.SlippageBps)

			return s.render(map[string]any{
				"pool":           pool.Address.Hex(),
				"fee_tier":       uint32(pool.Fee),
				"amount_in":      amountIn.String(),
				"amount_out":     amountOut.String(),
				"amount_out_min": amountOutMin.String(),
				"amount_out_fmt": id.FormatAmount(amountOut, outDecimals),
				"slippage_bps":   s.settings.SlippageBps,
				"chain_id":       bundle.ChainID,
			})
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "input amount (decimal)")
	cmd.Flags().StringVar(&tokenIn, "token-in", "", "input token address (defaults to USDT)")
	cmd.Flags().StringVar(&tokenOut, "token-out", "", "output token address")
	cmd.Flags().Uint32Var(&feeTier, "fee-tier", 0, "preferred fee tier to probe first")
	return cmd
}

func (s *runtimeState) newHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past invest runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			historyStore, err := store.Open(s.settings.HistoryPath, s.settings.HistoryLockPath)
			if err != nil {
				return clierr.Wrap(clierr.CodeInternal, "open history store", err)
			}
			defer func() { _ = historyStore.Close() }()

			runs, err := historyStore.List(limit)
			if err != nil {
				return clierr.Wrap(clierr.CodeInternal, "list history", err)
			}
			return s.render(runs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	return cmd
}
