package execution

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	clierr "github.com/Adi9876/LP-pancakeswap/internal/errors"
	"github.com/Adi9876/LP-pancakeswap/internal/execution/signer"
)

type fakeNode struct {
	chainID     *big.Int
	nonce       uint64
	estimate    uint64
	estimateErr error
	tipCap      *big.Int
	tipCapErr   error
	sendErr     error
	sent        []*types.Transaction
	receipts    map[common.Hash]*types.Receipt
}

func (f *fakeNode) ChainID(context.Context) (*big.Int, error) { return f.chainID, nil }

func (f *fakeNode) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeNode) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return f.tipCap, f.tipCapErr
}

func (f *fakeNode) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: big.NewInt(1_000_000_000)}, nil
}

func (f *fakeNode) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return f.estimate, f.estimateErr
}

func (f *fakeNode) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeNode) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	if receipt, ok := f.receipts[hash]; ok {
		return receipt, nil
	}
	return nil, ethereum.NotFound
}

// first hardhat dev account, publicly known
const testKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func newTestSigner(t *testing.T) *signer.LocalSigner {
	t.Helper()
	s, err := signer.NewLocalSigner(signer.LocalSignerConfig{PrivateKeyHex: testKeyHex})
	if err != nil {
		t.Fatalf("build signer: %v", err)
	}
	return s
}

func newTestNode() *fakeNode {
	return &fakeNode{
		chainID:  big.NewInt(56),
		nonce:    7,
		estimate: 100_000,
		tipCap:   big.NewInt(1_000_000_000),
		receipts: map[common.Hash]*types.Receipt{},
	}
}

var contractAddr = common.HexToAddress("0x13f4EA83D0bd40E75C8222255bc855a974568Dd4")

func TestSubmitBuildsEIP1559Transaction(t *testing.T) {
	node := newTestNode()
	s := NewSubmitter(node, newTestSigner(t), DefaultOptions(), nil)

	hash, err := s.Submit(context.Background(), contractAddr, []byte{0x01, 0x02})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(node.sent) != 1 {
		t.Fatalf("expected one broadcast transaction, got %d", len(node.sent))
	}
	tx := node.sent[0]
	if tx.Hash() != hash {
		t.Fatal("returned hash does not match the broadcast transaction")
	}
	if tx.Type() != types.DynamicFeeTxType {
		t.Fatalf("expected dynamic-fee transaction, got type %d", tx.Type())
	}
	if tx.Gas() != 120_000 {
		t.Fatalf("gas limit = %d, want estimate with headroom 120000", tx.Gas())
	}
	// feeCap = 2*baseFee + tip = 2 gwei + 1 gwei
	if tx.GasFeeCap().Cmp(big.NewInt(3_000_000_000)) != 0 {
		t.Fatalf("fee cap = %s", tx.GasFeeCap())
	}
	if tx.Nonce() != 7 || *tx.To() != contractAddr || tx.Value().Sign() != 0 {
		t.Fatalf("unexpected transaction fields: nonce %d to %s value %s", tx.Nonce(), tx.To().Hex(), tx.Value())
	}
	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(56)), tx)
	if err != nil || sender != s.From() {
		t.Fatalf("transaction not signed by the submitter: %s, %v", sender.Hex(), err)
	}
}

func TestSubmitFallsBackToDefaultTip(t *testing.T) {
	node := newTestNode()
	node.tipCapErr = errors.New("method not supported")
	s := NewSubmitter(node, newTestSigner(t), DefaultOptions(), nil)

	if _, err := s.Submit(context.Background(), contractAddr, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tip := node.sent[0].GasTipCap(); tip.Cmp(big.NewInt(2_000_000_000)) != 0 {
		t.Fatalf("tip cap = %s, want 2 gwei fallback", tip)
	}
}

func TestSubmitClassifiesInsufficientFunds(t *testing.T) {
	node := newTestNode()
	node.estimateErr = errors.New("insufficient funds for gas * price + value")
	s := NewSubmitter(node, newTestSigner(t), DefaultOptions(), nil)

	_, err := s.Submit(context.Background(), contractAddr, nil)
	typed, ok := clierr.As(err)
	if !ok || typed.Code != clierr.CodeInsufficientFunds {
		t.Fatalf("expected insufficient-funds code, got %v", err)
	}
	if typed.Message != "insufficient funds, check your balances" {
		t.Fatalf("unexpected message: %q", typed.Message)
	}
}

type rejectingSigner struct{ addr common.Address }

func (r rejectingSigner) Address() common.Address { return r.addr }

func (r rejectingSigner) SignTx(*big.Int, *types.Transaction) (*types.Transaction, error) {
	return nil, errors.New("user rejected the request")
}

func TestSubmitClassifiesRejection(t *testing.T) {
	node := newTestNode()
	s := NewSubmitter(node, rejectingSigner{addr: common.HexToAddress("0xaa")}, DefaultOptions(), nil)

	_, err := s.Submit(context.Background(), contractAddr, nil)
	typed, ok := clierr.As(err)
	if !ok || typed.Code != clierr.CodeRejected {
		t.Fatalf("expected rejected code, got %v", err)
	}
	if typed.Message != "transaction cancelled, please try again" {
		t.Fatalf("unexpected message: %q", typed.Message)
	}
}

func TestSubmitBroadcastFailure(t *testing.T) {
	node := newTestNode()
	node.sendErr = errors.New("txpool is full")
	s := NewSubmitter(node, newTestSigner(t), DefaultOptions(), nil)

	_, err := s.Submit(context.Background(), contractAddr, nil)
	typed, ok := clierr.As(err)
	if !ok || typed.Code != clierr.CodeUnavailable {
		t.Fatalf("expected unavailable code, got %v", err)
	}
}

func fastOptions() Options {
	return Options{PollInterval: 2 * time.Millisecond, ConfirmTimeout: 50 * time.Millisecond}
}

func TestWaitReturnsMinedReceipt(t *testing.T) {
	node := newTestNode()
	hash := common.HexToHash("0x01")
	node.receipts[hash] = &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: hash}
	s := NewSubmitter(node, newTestSigner(t), fastOptions(), nil)

	receipt, err := s.Wait(context.Background(), hash)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.TxHash != hash {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
}

func TestWaitRevertedTransaction(t *testing.T) {
	node := newTestNode()
	hash := common.HexToHash("0x02")
	node.receipts[hash] = &types.Receipt{Status: types.ReceiptStatusFailed, TxHash: hash}
	s := NewSubmitter(node, newTestSigner(t), fastOptions(), nil)

	_, err := s.Wait(context.Background(), hash)
	typed, ok := clierr.As(err)
	if !ok || typed.Code != clierr.CodeUnavailable {
		t.Fatalf("expected unavailable code for revert, got %v", err)
	}
}

func TestWaitTimesOut(t *testing.T) {
	node := newTestNode()
	s := NewSubmitter(node, newTestSigner(t), fastOptions(), nil)

	_, err := s.Wait(context.Background(), common.HexToHash("0x03"))
	typed, ok := clierr.As(err)
	if !ok || typed.Code != clierr.CodeTimeout {
		t.Fatalf("expected timeout code, got %v", err)
	}
}
