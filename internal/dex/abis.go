package dex

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/Adi9876/LP-pancakeswap/internal/registry"
)

var (
	erc20ABI    = mustABI(registry.ERC20MinimalABI)
	factoryABI  = mustABI(registry.PancakeV3FactoryABI)
	poolABI     = mustABI(registry.PancakeV3PoolABI)
	quoterV2ABI = mustABI(registry.PancakeV3QuoterV2ABI)
	routerABI   = mustABI(registry.PancakeV3RouterABI)
	managerABI  = mustABI(registry.PositionManagerABI)
)

func mustABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
