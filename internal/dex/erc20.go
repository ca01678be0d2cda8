package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	clierr "github.com/Adi9876/LP-pancakeswap/internal/errors"
)

// TxSender is the submission capability the dex bindings depend on.
// execution.Submitter satisfies it.
type TxSender interface {
	From() common.Address
	Submit(ctx context.Context, to common.Address, data []byte) (common.Hash, error)
	Wait(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// ERC20 reads token state. Decimals failures are treated as "not a token
// contract on this chain" since decimals() is the first call made against any
// user-supplied address.
type ERC20 struct {
	caller  Caller
	chainID int64
}

func NewERC20(caller Caller, chainID int64) *ERC20 {
	return &ERC20{caller: caller, chainID: chainID}
}

func (e *ERC20) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	data, err := erc20ABI.Pack("decimals")
	if err != nil {
		return 0, clierr.Wrap(clierr.CodeInternal, "pack decimals calldata", err)
	}
	out, err := e.caller.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil || len(out) == 0 {
		return 0, clierr.Wrap(clierr.CodeUnknownToken,
			fmt.Sprintf("address %s is not a valid token contract on chain %d", token.Hex(), e.chainID), err)
	}
	values, err := erc20ABI.Unpack("decimals", out)
	if err != nil || len(values) != 1 {
		return 0, clierr.Wrap(clierr.CodeUnknownToken,
			fmt.Sprintf("address %s is not a valid token contract on chain %d", token.Hex(), e.chainID), err)
	}
	decimals, ok := values[0].(uint8)
	if !ok {
		return 0, clierr.New(clierr.CodeUnknownToken,
			fmt.Sprintf("address %s is not a valid token contract on chain %d", token.Hex(), e.chainID))
	}
	return decimals, nil
}

func (e *ERC20) BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	data, err := erc20ABI.Pack("balanceOf", owner)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "pack balanceOf calldata", err)
	}
	out, err := e.caller.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUnavailable, "read token balance", err)
	}
	return unpackBig(erc20ABI, "balanceOf", out)
}

func (e *ERC20) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	data, err := erc20ABI.Pack("allowance", owner, spender)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "pack allowance calldata", err)
	}
	out, err := e.caller.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUnavailable, "read token allowance", err)
	}
	return unpackBig(erc20ABI, "allowance", out)
}

func unpackBig(parsed abi.ABI, name string, out []byte) (*big.Int, error) {
	values, err := parsed.Unpack(name, out)
	if err != nil || len(values) != 1 {
		return nil, clierr.Wrap(clierr.CodeUnavailable, fmt.Sprintf("decode %s result", name), err)
	}
	value, ok := values[0].(*big.Int)
	if !ok {
		return nil, clierr.New(clierr.CodeUnavailable, fmt.Sprintf("decode %s result: unexpected type", name))
	}
	return value, nil
}

// Approvals grants ERC-20 allowances before transfer-consuming operations.
type Approvals struct {
	erc20  *ERC20
	sender TxSender
	logger *zap.Logger
}

func NewApprovals(erc20 *ERC20, sender TxSender, logger *zap.Logger) *Approvals {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Approvals{erc20: erc20, sender: sender, logger: logger}
}

// EnsureAllowance approves spender for exactly amount when the current
// allowance is short, blocking until the approval confirms. When the
// allowance already covers the amount nothing is submitted, which avoids a
// redundant signature prompt and its gas cost. The returned flag reports
// whether a transaction was submitted.
func (a *Approvals) EnsureAllowance(ctx context.Context, token, spender common.Address, amount *big.Int) (bool, error) {
	current, err := a.erc20.Allowance(ctx, token, a.sender.From(), spender)
	if err != nil {
		return false, err
	}
	if current.Cmp(amount) >= 0 {
		a.logger.Debug("allowance sufficient",
			zap.String("token", token.Hex()),
			zap.String("spender", spender.Hex()),
		)
		return false, nil
	}
	data, err := erc20ABI.Pack("approve", spender, amount)
	if err != nil {
		return false, clierr.Wrap(clierr.CodeInternal, "pack approve calldata", err)
	}
	hash, err := a.sender.Submit(ctx, token, data)
	if err != nil {
		return false, err
	}
	if _, err := a.sender.Wait(ctx, hash); err != nil {
		return false, err
	}
	a.logger.Debug("approval confirmed",
		zap.String("token", token.Hex()),
		zap.String("spender", spender.Hex()),
		zap.String("hash", hash.Hex()),
	)
	return true, nil
}
