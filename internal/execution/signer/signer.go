package signer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Signer is the narrow signing capability the execution layer depends on. A
// remote signing agent may return a rejection error from SignTx; callers
// classify that distinctly from transport failures.
type Signer interface {
	Address() common.Address
	SignTx(chainID *big.Int, tx *types.Transaction) (*types.Transaction, error)
}
