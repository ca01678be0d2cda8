package dex

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	clierr "github.com/Adi9876/LP-pancakeswap/internal/errors"
)

type fakeERC20Chain struct {
	decimals  map[common.Address]uint8
	balances  map[common.Address]*big.Int
	allowance *big.Int
}

func (f *fakeERC20Chain) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	method, err := erc20ABI.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	switch method.Name {
	case "decimals":
		d, ok := f.decimals[*msg.To]
		if !ok {
			return nil, errors.New("execution reverted")
		}
		return method.Outputs.Pack(d)
	case "balanceOf":
		bal := f.balances[*msg.To]
		if bal == nil {
			bal = big.NewInt(0)
		}
		return method.Outputs.Pack(bal)
	case "allowance":
		al := f.allowance
		if al == nil {
			al = big.NewInt(0)
		}
		return method.Outputs.Pack(al)
	}
	return nil, errors.New("unexpected method " + method.Name)
}

type submission struct {
	to   common.Address
	data []byte
}

type fakeSender struct {
	mu          sync.Mutex
	from        common.Address
	seq         int64
	submissions []submission
}

func (f *fakeSender) From() common.Address { return f.from }

func (f *fakeSender) Submit(_ context.Context, to common.Address, data []byte) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.submissions = append(f.submissions, submission{to: to, data: data})
	return common.BigToHash(big.NewInt(f.seq)), nil
}

func (f *fakeSender) Wait(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: hash}, nil
}

func TestDecimalsRejectsNonToken(t *testing.T) {
	chain := &fakeERC20Chain{decimals: map[common.Address]uint8{}}
	erc20 := NewERC20(chain, 56)

	_, err := erc20.Decimals(context.Background(), tokenA)
	typed, ok := clierr.As(err)
	if !ok || typed.Code != clierr.CodeUnknownToken {
		t.Fatalf("expected unknown-token code, got %v", err)
	}
	if !strings.Contains(typed.Message, tokenA.Hex()) || !strings.Contains(typed.Message, "56") {
		t.Fatalf("expected message to name address and chain, got %q", typed.Message)
	}
}

func TestEnsureAllowanceSkipsWhenSufficient(t *testing.T) {
	chain := &fakeERC20Chain{allowance: big.NewInt(1000)}
	sender := &fakeSender{from: common.HexToAddress("0xaa")}
	approvals := NewApprovals(NewERC20(chain, 56), sender, nil)

	submitted, err := approvals.EnsureAllowance(context.Background(), tokenA, tokenB, big.NewInt(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if submitted {
		t.Fatal("expected no approval submission")
	}
	if len(sender.submissions) != 0 {
		t.Fatalf("expected zero submissions, got %d", len(sender.submissions))
	}
}

func TestEnsureAllowanceApprovesExactAmount(t *testing.T) {
	chain := &fakeERC20Chain{allowance: big.NewInt(999)}
	sender := &fakeSender{from: common.HexToAddress("0xaa")}
	approvals := NewApprovals(NewERC20(chain, 56), sender, nil)

	submitted, err := approvals.EnsureAllowance(context.Background(), tokenA, tokenB, big.NewInt(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !submitted {
		t.Fatal("expected an approval submission")
	}
	if len(sender.submissions) != 1 {
		t.Fatalf("expected one submission, got %d", len(sender.submissions))
	}
	sub := sender.submissions[0]
	if sub.to != tokenA {
		t.Fatalf("approval sent to %s, want token %s", sub.to.Hex(), tokenA.Hex())
	}
	inputs, err := erc20ABI.Methods["approve"].Inputs.Unpack(sub.data[4:])
	if err != nil {
		t.Fatalf("decode approve calldata: %v", err)
	}
	if spender := inputs[0].(common.Address); spender != tokenB {
		t.Fatalf("approved spender %s, want %s", spender.Hex(), tokenB.Hex())
	}
	if amount := inputs[1].(*big.Int); amount.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("approved amount %s, want 1000", amount)
	}
}
