package registry

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestForChainKnownChains(t *testing.T) {
	for _, chainID := range []int64{56, 97} {
		bundle := ForChain(chainID)
		if bundle.ChainID != chainID {
			t.Errorf("chain %d: bundle carries chain id %d", chainID, bundle.ChainID)
		}
		if !Known(chainID) {
			t.Errorf("chain %d should be known", chainID)
		}
		for name, addr := range map[string]common.Address{
			"factory":          bundle.Contracts.Factory,
			"quoter":           bundle.Contracts.QuoterV2,
			"router":           bundle.Contracts.SwapRouter,
			"position manager": bundle.Contracts.PositionManager,
			"usdt":             bundle.Tokens.USDT,
			"wbnb":             bundle.Tokens.WBNB,
		} {
			if addr == (common.Address{}) {
				t.Errorf("chain %d: zero %s address", chainID, name)
			}
		}
	}
}

func TestForChainFallsBackToDefault(t *testing.T) {
	bundle := ForChain(1)
	if bundle.ChainID != DefaultChainID {
		t.Fatalf("expected fallback to chain %d, got %d", DefaultChainID, bundle.ChainID)
	}
	if Known(1) {
		t.Fatal("chain 1 should not be known")
	}
}

func TestMainnetAndTestnetDiffer(t *testing.T) {
	if ForChain(56).Tokens.USDT == ForChain(97).Tokens.USDT {
		t.Fatal("mainnet and testnet must not share a USDT address")
	}
}
