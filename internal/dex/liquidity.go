package dex

import (
	"bytes"
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	clierr "github.com/Adi9876/LP-pancakeswap/internal/errors"
)

// MintParams are position-manager mint arguments after canonicalization:
// Token0 < Token1 by address, amounts aligned with the reordered tokens.
type MintParams struct {
	Token0    common.Address
	Token1    common.Address
	Amount0   *big.Int
	Amount1   *big.Int
	Fee       FeeTier
	TickLower int
	TickUpper int
}

// CanonicalMintParams orders (tokenA, tokenB) ascending by address, remaps the
// desired amounts accordingly, and selects the full usable tick range for the
// tier. The remapping makes mint(A, B, amtA, amtB) and mint(B, A, amtB, amtA)
// produce identical arguments.
func CanonicalMintParams(tokenA, tokenB common.Address, amountA, amountB *big.Int, fee FeeTier) (MintParams, error) {
	lower, upper, ok := FullRangeTicks(fee)
	if !ok {
		return MintParams{}, clierr.New(clierr.CodeUsage, "unsupported fee tier for liquidity deposit")
	}
	params := MintParams{
		Token0:    tokenA,
		Token1:    tokenB,
		Amount0:   amountA,
		Amount1:   amountB,
		Fee:       fee,
		TickLower: lower,
		TickUpper: upper,
	}
	if bytes.Compare(tokenA.Bytes(), tokenB.Bytes()) > 0 {
		params.Token0, params.Token1 = tokenB, tokenA
		params.Amount0, params.Amount1 = amountB, amountA
	}
	return params, nil
}

type mintCallParams struct {
	Token0         common.Address
	Token1         common.Address
	Fee            *big.Int
	TickLower      *big.Int
	TickUpper      *big.Int
	Amount0Desired *big.Int
	Amount1Desired *big.Int
	Amount0Min     *big.Int
	Amount1Min     *big.Int
	Recipient      common.Address
	Deadline       *big.Int
}

// LiquidityMinter submits full-range deposits that mint new position NFTs.
type LiquidityMinter struct {
	sender   TxSender
	manager  common.Address
	deadline time.Duration
	now      func() time.Time
}

func NewLiquidityMinter(sender TxSender, manager common.Address, deadline time.Duration) *LiquidityMinter {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	return &LiquidityMinter{sender: sender, manager: manager, deadline: deadline, now: time.Now}
}

// Mint deposits both tokens across the full usable tick range and returns the
// submitted transaction hash. Minimum accepted amounts are zero: the deposit
// step itself carries no slippage protection, an accepted risk of this flow.
func (m *LiquidityMinter) Mint(ctx context.Context, tokenA, tokenB common.Address, amountA, amountB *big.Int, fee FeeTier) (common.Hash, error) {
	params, err := CanonicalMintParams(tokenA, tokenB, amountA, amountB, fee)
	if err != nil {
		return common.Hash{}, err
	}
	deadline := big.NewInt(m.now().Add(m.deadline).Unix())
	data, err := managerABI.Pack("mint", mintCallParams{
		Token0:         params.Token0,
		Token1:         params.Token1,
		Fee:            params.Fee.Big(),
		TickLower:      big.NewInt(int64(params.TickLower)),
		TickUpper:      big.NewInt(int64(params.TickUpper)),
		Amount0Desired: params.Amount0,
		Amount1Desired: params.Amount1,
		Amount0Min:     big.NewInt(0),
		Amount1Min:     big.NewInt(0),
		Recipient:      m.sender.From(),
		Deadline:       deadline,
	})
	if err != nil {
		return common.Hash{}, clierr.Wrap(clierr.CodeInternal, "pack mint calldata", err)
	}
	return m.sender.Submit(ctx, m.manager, data)
}

var transferEventTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// ExtractMintedTokenID scans a mint receipt for the position manager's ERC-721
// Transfer from the zero address and returns the minted token id, or nil when
// no such event is present. Absence is not a failure: the deposit succeeded
// even if the id could not be resolved.
func ExtractMintedTokenID(receipt *types.Receipt, manager common.Address) *big.Int {
	if receipt == nil {
		return nil
	}
	for _, log := range receipt.Logs {
		if log == nil || log.Address != manager {
			continue
		}
		if len(log.Topics) != 4 || log.Topics[0] != transferEventTopic {
			continue
		}
		if log.Topics[1] != (common.Hash{}) {
			continue
		}
		return new(big.Int).SetBytes(log.Topics[3].Bytes())
	}
	return nil
}
