package common

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	TxTypeLegacy     = "legacy"
	TxTypeDynamicFee = "dynamicfee"
)

// RawTxToHash returns the transaction hash of hex encoded signed tx data
func RawTxToHash(data string) string {
	return crypto.Keccak256Hash(hexutil.MustDecode(data)).Hex()
}

func BuildExactTx(
	nonce uint64, to string, amount *big.Int, gasLimit uint64,
	priceGwei, tipGwei float64,
	data []byte, txType string, chainID uint64,
) *types.Transaction {
	toAddress := common.HexToAddress(to)
	gasPrice := GweiToWei(priceGwei)
	tip := GweiToWei(tipGwei)
	if txType == TxTypeDynamicFee {
		return types.NewTx(&types.DynamicFeeTx{
			ChainID:   new(big.Int).SetUint64(chainID),
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: gasPrice,
			Gas:       gasLimit,
			To:        &toAddress,
			Value:     amount,
			Data:      data,
		})
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &toAddress,
		Value:    amount,
		Data:     data,
	})
}
