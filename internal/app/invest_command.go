package app

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Adi9876/LP-pancakeswap/internal/dex"
	clierr "github.com/Adi9876/LP-pancakeswap/internal/errors"
	"github.com/Adi9876/LP-pancakeswap/internal/execution"
	"github.com/Adi9876/LP-pancakeswap/internal/execution/signer"
	"github.com/Adi9876/LP-pancakeswap/internal/invest"
	"github.com/Adi9876/LP-pancakeswap/internal/out"
	"github.com/Adi9876/LP-pancakeswap/internal/store"
)

func (s *runtimeState) newInvestCommand() *cobra.Command {
	var (
		amount  string
		token   string
		feeTier uint32
	)
	cmd := &cobra.Command{
		Use:   "invest",
		Short: "Swap half a USDT amount for a token and deposit both as a full-range V3 position",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(amount) == "" {
				return clierr.New(clierr.CodeUsage, "--amount is required")
			}
			if !common.IsHexAddress(strings.TrimSpace(token)) {
				return clierr.New(clierr.CodeUsage, "--token must be a valid EVM address")
			}

			txSigner, err := signer.NewLocalSignerFromEnv()
			if err != nil {
				return clierr.Wrap(clierr.CodeSigner, "load signing key", err)
			}

			ctx := cmd.Context()
			client, bundle, err := s.dial(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			submitter := execution.NewSubmitter(client, txSigner, execution.Options{
				PollInterval:   s.settings.PollInterval,
				ConfirmTimeout: s.settings.ConfirmTimeout,
			}, s.logger)
			orchestrator := invest.NewOrchestrator(client, submitter, bundle, invest.Config{
				SlippageBps:  s.settings.SlippageBps,
				Deadline:     s.settings.Deadline,
				PreferredFee: dex.FeeTier(feeTier),
			}, s.logger)

			result, investErr := orchestrator.Invest(ctx, invest.Request{
				Amount:      strings.TrimSpace(amount),
				TargetToken: common.HexToAddress(strings.TrimSpace(token)),
			})
			s.saveRun(result)

			env := out.Envelope{Success: result.Success, Data: result}
			if investErr != nil {
				info := &out.ErrorInfo{Code: int(clierr.CodeInternal), Message: investErr.Error()}
				if typed, ok := clierr.As(investErr); ok {
					info.Code = int(typed.Code)
					info.Message = typed.Message
				}
				env.Error = info
			}
			if err := out.Render(s.runner.stdout, env, s.settings.OutputMode); err != nil {
				return err
			}
			if investErr != nil {
				return &renderedError{err: investErr}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "investment amount in USDT (decimal, e.g. 10000)")
	cmd.Flags().StringVar(&token, "token", "", "target token address")
	cmd.Flags().Uint32Var(&feeTier, "fee-tier", 0, "preferred fee tier to probe first (e.g. 500, 2500, 10000)")
	return cmd
}

// saveRun records the outcome in the local history store. History is
// best-effort: a storage failure must not mask the investment result.
func (s *runtimeState) saveRun(result invest.Result) {
	historyStore, err := store.Open(s.settings.HistoryPath, s.settings.HistoryLockPath)
	if err != nil {
		s.logger.Warn("open history store", zap.Error(err))
		return
	}
	defer func() { _ = historyStore.Close() }()
	if err := historyStore.Save(store.NewRun(result)); err != nil {
		s.logger.Warn("save run history", zap.Error(err))
	}
}
