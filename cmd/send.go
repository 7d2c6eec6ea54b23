package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aldernet/warden/common"
)

var (
	sendTo     string
	sendAmount string
	sendToken  string
)

func reportTxOutcome(info common.TxInfo) {
	if info.Tx == nil {
		return
	}
	hash := info.Tx.Hash().Hex()
	switch info.Status {
	case common.TxStatusDone:
		fmt.Printf("%s\n", common.InfoColor(fmt.Sprintf("Mined: %s", hash)))
	default:
		fmt.Printf("%s\n", common.WarnColor(fmt.Sprintf("Tx %s finished with status %s", hash, info.Status)))
	}
}

var sendETHCmd = &cobra.Command{
	Use:   "send-eth",
	Short: "Send native tokens (amount in wei) to a whitelisted wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := common.StringToBigInt(sendAmount)
		if err != nil {
			return err
		}
		e, _, err := setup()
		if err != nil {
			return err
		}
		info, err := e.SendETH(sendTo, amount)
		if err != nil {
			return err
		}
		reportTxOutcome(info)
		return nil
	},
}

var sendERC20Cmd = &cobra.Command{
	Use:   "send-erc20",
	Short: "Send tokens (amount in base units) to a whitelisted wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := common.StringToBigInt(sendAmount)
		if err != nil {
			return err
		}
		e, _, err := setup()
		if err != nil {
			return err
		}
		info, err := e.SendERC20(sendToken, sendTo, amount)
		if err != nil {
			return err
		}
		reportTxOutcome(info)
		return nil
	},
}

var wrapETHCmd = &cobra.Command{
	Use:   "wrap-eth",
	Short: "Wrap native tokens (amount in wei) into WETH",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := common.StringToBigInt(sendAmount)
		if err != nil {
			return err
		}
		e, _, err := setup()
		if err != nil {
			return err
		}
		info, err := e.WrapETH(amount)
		if err != nil {
			return err
		}
		reportTxOutcome(info)
		return nil
	},
}

var unwrapETHCmd = &cobra.Command{
	Use:   "unwrap-eth",
	Short: "Unwrap WETH (amount in wei) back to native tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := common.StringToBigInt(sendAmount)
		if err != nil {
			return err
		}
		e, _, err := setup()
		if err != nil {
			return err
		}
		info, err := e.UnwrapETH(amount)
		if err != nil {
			return err
		}
		reportTxOutcome(info)
		return nil
	},
}

func init() {
	sendETHCmd.Flags().StringVar(&sendTo, "to", "", "recipient address or whitelisted wallet name")
	sendETHCmd.Flags().StringVar(&sendAmount, "amount", "", "amount in wei")
	sendETHCmd.MarkFlagRequired("to")
	sendETHCmd.MarkFlagRequired("amount")

	sendERC20Cmd.Flags().StringVar(&sendToken, "token", "", "token address or name")
	sendERC20Cmd.Flags().StringVar(&sendTo, "to", "", "recipient address or whitelisted wallet name")
	sendERC20Cmd.Flags().StringVar(&sendAmount, "amount", "", "amount in the token's base units")
	sendERC20Cmd.MarkFlagRequired("token")
	sendERC20Cmd.MarkFlagRequired("to")
	sendERC20Cmd.MarkFlagRequired("amount")

	wrapETHCmd.Flags().StringVar(&sendAmount, "amount", "", "amount in wei")
	wrapETHCmd.MarkFlagRequired("amount")

	unwrapETHCmd.Flags().StringVar(&sendAmount, "amount", "", "amount in wei")
	unwrapETHCmd.MarkFlagRequired("amount")

	rootCmd.AddCommand(sendETHCmd)
	rootCmd.AddCommand(sendERC20Cmd)
	rootCmd.AddCommand(wrapETHCmd)
	rootCmd.AddCommand(unwrapETHCmd)
}
