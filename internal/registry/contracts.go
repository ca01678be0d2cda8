package registry

import "github.com/ethereum/go-ethereum/common"

// DefaultChainID is BNB Smart Chain mainnet. Lookups for unknown chains fall
// back to it instead of failing; pool resolution against the wrong chain
// surfaces naturally as "pair unavailable".
const DefaultChainID int64 = 56

// Contracts is the PancakeSwap V3 deployment bundle for one chain.
type Contracts struct {
	Factory         common.Address
	QuoterV2        common.Address
	SwapRouter      common.Address
	PositionManager common.Address
}

// Tokens is the default token list for one chain.
type Tokens struct {
	USDT common.Address
	WBNB common.Address
	CAKE common.Address
}

// Bundle pairs a chain's contracts with its default token list.
type Bundle struct {
	ChainID   int64
	Contracts Contracts
	Tokens    Tokens
}

var bundlesByChainID = map[int64]Bundle{
	56: {
		ChainID: 56,
		Contracts: Contracts{
			Factory:         common.HexToAddress("0x0BFbCF9fa4f9C56B0F40a671Ad40E0805A091865"),
			QuoterV2:        common.HexToAddress("0xB048Bbc1Ee6b733FFfCFb9e9CeF7375518e25997"),
			SwapRouter:      common.HexToAddress("0x13f4EA83D0bd40E75C8222255bc855a974568Dd4"),
			PositionManager: common.HexToAddress("0x46A15B0b27311cedF172AB29E4f4766fbE7F4364"),
		},
		Tokens: Tokens{
			USDT: common.HexToAddress("0x55d398326f99059fF775485246999027B3197955"),
			WBNB: common.HexToAddress("0xbb4CdB9CBd36B01bD1cBaEF60aF814a3f6F0EE75"),
			CAKE: common.HexToAddress("0x0E09FaBB73Bd3Ade0a17ECC321fD13a19e81cE82"),
		},
	},
	97: {
		ChainID: 97,
		Contracts: Contracts{
			Factory:         common.HexToAddress("0x0BFbCF9fa4f9C56B0F40a671Ad40E0805A091865"),
			QuoterV2:        common.HexToAddress("0xbC203d7f83677c7ed3F7acEc959963E7F4ECC5C2"),
			SwapRouter:      common.HexToAddress("0x1b81D678ffb9C0263b24A97847620C99d213eB14"),
			PositionManager: common.HexToAddress("0x427bF5b37357632377eCbEC9de3626C71A5396c1"),
		},
		Tokens: Tokens{
			USDT: common.HexToAddress("0x337610d27c682E347C9cD60BD4b3b107C9d34dDd"),
			WBNB: common.HexToAddress("0xae13d989daC2f0dEbFf460aC112a837C89BAa7cd"),
			CAKE: common.HexToAddress("0xFa60D973F7642B748046464e165A65B7323b0DEE"),
		},
	},
}

// ForChain returns the deployment bundle for the chain, falling back to the
// default chain when the id is unknown.
func ForChain(chainID int64) Bundle {
	if bundle, ok := bundlesByChainID[chainID]; ok {
		return bundle
	}
	return bundlesByChainID[DefaultChainID]
}

// Known reports whether the chain has its own bundle (no fallback involved).
func Known(chainID int64) bool {
	_, ok := bundlesByChainID[chainID]
	return ok
}
