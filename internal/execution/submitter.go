package execution

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	clierr "github.com/Adi9876/LP-pancakeswap/internal/errors"
	"github.com/Adi9876/LP-pancakeswap/internal/execution/signer"
)

// NodeClient is the slice of node capability the submitter needs. chain.Client
// satisfies it; tests use in-memory fakes.
type NodeClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

type Options struct {
	PollInterval   time.Duration
	ConfirmTimeout time.Duration
	GasMultiplier  float64
}

func DefaultOptions() Options {
	return Options{
		PollInterval:   2 * time.Second,
		ConfirmTimeout: 3 * time.Minute,
		GasMultiplier:  1.2,
	}
}

// Submitter signs and broadcasts state-changing contract calls as EIP-1559
// transactions and waits for their inclusion. It never retries: a failed or
// rejected submission is returned to the caller as-is.
type Submitter struct {
	client NodeClient
	signer signer.Signer
	opts   Options
	logger *zap.Logger
}

func NewSubmitter(client NodeClient, txSigner signer.Signer, opts Options, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = 3 * time.Minute
	}
	if opts.GasMultiplier <= 1 {
		opts.GasMultiplier = 1.2
	}
	return &Submitter{client: client, signer: txSigner, opts: opts, logger: logger}
}

// From returns the controlling address of the signer.
func (s *Submitter) From() common.Address {
	return s.signer.Address()
}

// Submit builds, signs and broadcasts a zero-value contract call. It returns
// as soon as the transaction is accepted by the node; use Wait for inclusion.
func (s *Submitter) Submit(ctx context.Context, to common.Address, data []byte) (common.Hash, error) {
	chainID, err := s.client.ChainID(ctx)
	if err != nil {
		return common.Hash{}, clierr.Wrap(clierr.CodeUnavailable, "read chain id", err)
	}
	msg := ethereum.CallMsg{From: s.signer.Address(), To: &to, Data: data}

	gasLimit, err := s.client.EstimateGas(ctx, msg)
	if err != nil {
		if clierr.IsInsufficientFunds(err) {
			return common.Hash{}, clierr.Wrap(clierr.CodeInsufficientFunds, "insufficient funds, check your balances", err)
		}
		return common.Hash{}, clierr.Wrap(clierr.CodeUnavailable, "estimate gas", err)
	}
	gasLimit = uint64(float64(gasLimit) * s.opts.GasMultiplier)

	tipCap, err := s.client.SuggestGasTipCap(ctx)
	if err != nil {
		tipCap = big.NewInt(2_000_000_000) // 2 gwei fallback
	}
	header, err := s.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return common.Hash{}, clierr.Wrap(clierr.CodeUnavailable, "fetch latest header", err)
	}
	baseFee := header.BaseFee
	if baseFee == nil {
		baseFee = big.NewInt(1_000_000_000)
	}
	feeCap := new(big.Int).Mul(baseFee, big.NewInt(2))
	feeCap.Add(feeCap, tipCap)

	nonce, err := s.client.PendingNonceAt(ctx, s.signer.Address())
	if err != nil {
		return common.Hash{}, clierr.Wrap(clierr.CodeUnavailable, "fetch nonce", err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       gasLimit,
		To:        &to,
		Value:     big.NewInt(0),
		Data:      data,
	})
	signed, err := s.signer.SignTx(chainID, tx)
	if err != nil {
		if clierr.IsUserRejected(err) {
			return common.Hash{}, clierr.Wrap(clierr.CodeRejected, "transaction cancelled, please try again", err)
		}
		return common.Hash{}, clierr.Wrap(clierr.CodeSigner, "sign transaction", err)
	}
	if err := s.client.SendTransaction(ctx, signed); err != nil {
		if clierr.IsInsufficientFunds(err) {
			return common.Hash{}, clierr.Wrap(clierr.CodeInsufficientFunds, "insufficient funds, check your balances", err)
		}
		return common.Hash{}, clierr.Wrap(clierr.CodeUnavailable, "broadcast transaction", err)
	}
	s.logger.Debug("transaction broadcast",
		zap.String("to", to.Hex()),
		zap.String("hash", signed.Hash().Hex()),
		zap.Uint64("nonce", nonce),
	)
	return signed.Hash(), nil
}

// Wait polls until the transaction is mined or the confirm timeout elapses.
func (s *Submitter) Wait(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, s.opts.ConfirmTimeout)
	defer cancel()
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()
	for {
		receipt, err := s.client.TransactionReceipt(waitCtx, hash)
		if err == nil && receipt != nil {
			if receipt.Status == types.ReceiptStatusSuccessful {
				return receipt, nil
			}
			return nil, clierr.New(clierr.CodeUnavailable, "transaction reverted on-chain")
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			s.logger.Debug("receipt poll failed", zap.String("hash", hash.Hex()), zap.Error(err))
		}
		select {
		case <-waitCtx.Done():
			return nil, clierr.Wrap(clierr.CodeTimeout, "timed out waiting for confirmation", waitCtx.Err())
		case <-ticker.C:
		}
	}
}

// SubmitAndWait submits the call and blocks until it is confirmed.
func (s *Submitter) SubmitAndWait(ctx context.Context, to common.Address, data []byte) (*types.Receipt, error) {
	hash, err := s.Submit(ctx, to, data)
	if err != nil {
		return nil, err
	}
	return s.Wait(ctx, hash)
}
