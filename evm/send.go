package evm

import (
	"fmt"
	"math/big"

	"github.com/aldernet/warden/common"
)

// SendETH transfers native tokens. The amount is in wei and the
// recipient must be a whitelisted wallet.
func (e *EVM) SendETH(recipient string, amountWei *big.Int) (common.TxInfo, error) {
	args, err := e.preflight([]gatedArg{
		{identifier: recipient, kind: argRecipient},
	})
	if err != nil {
		return common.TxInfo{}, err
	}
	return e.submitAndWait(txRequest{
		to:    args[0].addr,
		value: amountWei,
	})
}

// SendERC20 transfers tokens in base units. Both the token (on the
// active chain) and the recipient must be whitelisted.
func (e *EVM) SendERC20(token, recipient string, amountBase *big.Int) (common.TxInfo, error) {
	args, err := e.preflight([]gatedArg{
		{identifier: token, kind: argToken},
		{identifier: recipient, kind: argRecipient},
	})
	if err != nil {
		return common.TxInfo{}, err
	}
	tokenAddr, to := args[0].addr, args[1].addr
	data, err := common.PackERC20Data("transfer", to, amountBase)
	if err != nil {
		return common.TxInfo{}, fmt.Errorf("couldn't pack transfer data: %w", err)
	}
	return e.submitAndWait(txRequest{
		to:    tokenAddr,
		value: big.NewInt(0),
		data:  data,
	})
}

// WrapETH deposits wei into the chain's canonical WETH contract. WETH
// has to be token-whitelisted on the active chain, it is a token
// operation like any other.
func (e *EVM) WrapETH(amountWei *big.Int) (common.TxInfo, error) {
	args, err := e.preflight([]gatedArg{
		{identifier: "weth", kind: argToken, contract: true},
	})
	if err != nil {
		return common.TxInfo{}, err
	}
	data, err := common.GetWETHABI().Pack("deposit")
	if err != nil {
		return common.TxInfo{}, fmt.Errorf("couldn't pack deposit data: %w", err)
	}
	return e.submitAndWait(txRequest{
		to:    args[0].addr,
		value: amountWei,
		data:  data,
	})
}

// UnwrapETH withdraws wei worth of WETH back to native tokens.
func (e *EVM) UnwrapETH(amountWei *big.Int) (common.TxInfo, error) {
	args, err := e.preflight([]gatedArg{
		{identifier: "weth", kind: argToken, contract: true},
	})
	if err != nil {
		return common.TxInfo{}, err
	}
	data, err := common.GetWETHABI().Pack("withdraw", amountWei)
	if err != nil {
		return common.TxInfo{}, fmt.Errorf("couldn't pack withdraw data: %w", err)
	}
	return e.submitAndWait(txRequest{
		to:    args[0].addr,
		value: big.NewInt(0),
		data:  data,
	})
}
