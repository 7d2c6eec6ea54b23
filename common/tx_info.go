package common

import (
	"github.com/ethereum/go-ethereum/core/types"
)

const (
	TxStatusError    = "error"
	TxStatusNotfound = "notfound"
	TxStatusPending  = "pending"
	TxStatusDone     = "done"
	TxStatusReverted = "reverted"
	TxStatusLost     = "lost"
)

type TxInfo struct {
	Status  string
	Tx      *types.Transaction
	Receipt *types.Receipt
}
