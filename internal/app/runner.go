package app

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Adi9876/LP-pancakeswap/internal/chain"
	"github.com/Adi9876/LP-pancakeswap/internal/config"
	clierr "github.com/Adi9876/LP-pancakeswap/internal/errors"
	"github.com/Adi9876/LP-pancakeswap/internal/out"
	"github.com/Adi9876/LP-pancakeswap/internal/registry"
	"github.com/Adi9876/LP-pancakeswap/internal/version"
)

type Runner struct {
	stdout io.Writer
	stderr io.Writer
}

func NewRunner() *Runner {
	return NewRunnerWithWriters(os.Stdout, os.Stderr)
}

func NewRunnerWithWriters(stdout, stderr io.Writer) *Runner {
	return &Runner{stdout: stdout, stderr: stderr}
}

type runtimeState struct {
	runner   *Runner
	flags    config.GlobalFlags
	settings config.Settings
	logger   *zap.Logger
}

func (r *Runner) Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state := &runtimeState{runner: r, logger: zap.NewNop()}
	root := state.newRootCommand()
	root.SetArgs(args)
	root.SetOut(r.stdout)
	root.SetErr(r.stderr)
	root.SilenceUsage = true
	root.SilenceErrors = true

	err := root.ExecuteContext(ctx)
	state.syncLogger()
	if err == nil {
		return 0
	}
	if rendered, ok := err.(*renderedError); ok {
		// The command already wrote its envelope; only the exit code is left.
		return clierr.ExitCode(rendered.err)
	}
	state.renderError(err)
	return clierr.ExitCode(err)
}

func (s *runtimeState) newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   version.CLIName,
		Short: "PancakeSwap V3 liquidity provisioning CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			settings, err := config.Load(s.flags)
			if err != nil {
				return clierr.Wrap(clierr.CodeUsage, "load configuration", err)
			}
			s.settings = settings

			logger, err := newLogger(settings.LogLevel)
			if err != nil {
				return clierr.Wrap(clierr.CodeUsage, "configure logging", err)
			}
			s.logger = logger
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&s.flags.ConfigPath, "config", "", "config file path")
	flags.BoolVar(&s.flags.JSON, "json", false, "render output as JSON (default)")
	flags.BoolVar(&s.flags.Plain, "plain", false, "render output as key=value lines")
	flags.StringVar(&s.flags.RPCURL, "rpc-url", "", "node RPC URL")
	flags.Int64Var(&s.flags.ChainID, "chain-id", 0, "chain id (default 56, BNB Smart Chain)")
	flags.Int64Var(&s.flags.SlippageBps, "slippage-bps", 0, "swap slippage tolerance in basis points (default 50)")
	flags.Int64Var(&s.flags.DeadlineSeconds, "deadline-seconds", 0, "on-chain transaction deadline (default 1200)")
	flags.StringVar(&s.flags.ConfirmTimeout, "confirm-timeout", "", "how long to wait for transaction confirmation (default 3m)")
	flags.StringVar(&s.flags.LogLevel, "log-level", "", "zap log level (default info)")

	cmd.AddCommand(s.newInvestCommand())
	cmd.AddCommand(s.newQuoteCommand())
	cmd.AddCommand(s.newPoolsCommand())
	cmd.AddCommand(s.newHistoryCommand())
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(version.Long())
			return nil
		},
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func (s *runtimeState) syncLogger() {
	if s.logger != nil {
		_ = s.logger.Sync()
	}
}

// dial connects to the configured node and selects the contract bundle by the
// chain id the node actually reports, not the configured one; an unknown
// chain degrades to the default bundle.
func (s *runtimeState) dial(ctx context.Context) (*chain.Client, registry.Bundle, error) {
	client, err := chain.Dial(ctx, s.settings.RPCURL)
	if err != nil {
		return nil, registry.Bundle{}, clierr.Wrap(clierr.CodeUnavailable, "connect rpc", err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, registry.Bundle{}, clierr.Wrap(clierr.CodeUnavailable, "read chain id", err)
	}
	bundle := registry.ForChain(chainID.Int64())
	if !registry.Known(chainID.Int64()) {
		s.logger.Warn("no contract bundle for reported chain, using default",
			zap.Int64("reported", chainID.Int64()),
			zap.Int64("default", registry.DefaultChainID),
		)
	}
	return client, bundle, nil
}

func (s *runtimeState) render(data any) error {
	return out.Render(s.runner.stdout, out.Envelope{Success: true, Data: data}, s.settings.OutputMode)
}

func (s *runtimeState) renderError(err error) {
	info := &out.ErrorInfo{Code: int(clierr.CodeInternal), Message: err.Error()}
	if typed, ok := clierr.As(err); ok {
		info.Code = int(typed.Code)
		info.Message = typed.Message
	}
	mode := s.settings.OutputMode
	if mode == "" {
		mode = "json"
	}
	_ = out.Render(s.runner.stderr, out.Envelope{Success: false, Error: info}, mode)
}

// renderedError marks an error whose envelope was already written by the
// command so Run does not render it twice.
type renderedError struct {
	err error
}

func (e *renderedError) Error() string { return e.err.Error() }

func (e *renderedError) Unwrap() error { return e.err }
