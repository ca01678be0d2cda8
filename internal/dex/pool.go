package dex

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	clierr "github.com/Adi9876/LP-pancakeswap/internal/errors"
)

// Caller is the read capability the dex bindings depend on: a simulated,
// non-state-changing contract call. chain.Client satisfies it.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// ErrPoolNotFound is returned when no probed fee tier has a deployed pool.
// It is a recoverable, user-facing condition, not a crash.
var ErrPoolNotFound = clierr.New(clierr.CodePairUnavailable, "pair unavailable: no PancakeSwap V3 pool exists for this token pair")

// Pool is a resolved pool reference. It is never cached across operations;
// pool existence is a live chain fact.
type Pool struct {
	Address common.Address
	Fee     FeeTier
}

// PoolResolver finds a deployed pool for a token pair by probing fee tiers
// against the factory in a fixed priority order.
type PoolResolver struct {
	caller  Caller
	factory common.Address
}

func NewPoolResolver(caller Caller, factory common.Address) *PoolResolver {
	return &PoolResolver{caller: caller, factory: factory}
}

// Resolve probes [preferred, low, medium, high] (duplicates removed) and
// returns the first tier whose factory lookup yields a non-zero pool address.
func (r *PoolResolver) Resolve(ctx context.Context, tokenA, tokenB common.Address, preferred FeeTier) (Pool, error) {
	for _, tier := range ProbeOrder(preferred) {
		data, err := factoryABI.Pack("getPool", tokenA, tokenB, tier.Big())
		if err != nil {
			return Pool{}, clierr.Wrap(clierr.CodeInternal, "pack getPool calldata", err)
		}
		out, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &r.factory, Data: data}, nil)
		if err != nil {
			return Pool{}, clierr.Wrap(clierr.CodeUnavailable, "query pool factory", err)
		}
		values, err := factoryABI.Unpack("getPool", out)
		if err != nil || len(values) != 1 {
			return Pool{}, clierr.Wrap(clierr.CodeUnavailable, "decode getPool result", err)
		}
		addr, ok := values[0].(common.Address)
		if !ok {
			return Pool{}, clierr.New(clierr.CodeUnavailable, "decode getPool result: unexpected type")
		}
		if addr != (common.Address{}) {
			return Pool{Address: addr, Fee: tier}, nil
		}
	}
	return Pool{}, ErrPoolNotFound
}
