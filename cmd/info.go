package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/aldernet/warden/common"
)

// printer renders big numbers with digit grouping, wei amounts are
// unreadable without it.
var printer = message.NewPrinter(language.English)

var blockNumberCmd = &cobra.Command{
	Use:   "block-number",
	Short: "Show the current block number",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, _, err := setup()
		if err != nil {
			return err
		}
		block, err := e.CurrentBlock()
		if err != nil {
			return err
		}
		fmt.Printf("Current block number on %s: %d\n", e.Network().GetName(), block)
		return nil
	},
}

var gasPriceCmd = &cobra.Command{
	Use:   "gas-price",
	Short: "Show the recommended gas price",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, _, err := setup()
		if err != nil {
			return err
		}
		price, err := e.RecommendedGasPrice()
		if err != nil {
			return err
		}
		fmt.Printf("Current gas price on %s: %f gwei\n", e.Network().GetName(), price)
		return nil
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance <address or name>",
	Short: "Show the native token balance of an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, _, err := setup()
		if err != nil {
			return err
		}
		balance, err := e.Balance(args[0])
		if err != nil {
			return err
		}
		network := e.Network()
		fmt.Printf("Balance of %s on %s: %s wei\n", args[0], network.GetName(), balance)
		fmt.Printf(
			"Balance in %s: %s %s\n",
			network.GetNativeTokenSymbol(),
			common.FormatBase(balance, int64(network.GetNativeTokenDecimal())),
			network.GetNativeTokenSymbol(),
		)
		return nil
	},
}

var nonceCmd = &cobra.Command{
	Use:   "nonce <address or name>",
	Short: "Show the next pending nonce of an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, _, err := setup()
		if err != nil {
			return err
		}
		nonce, err := e.Nonce(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Nonce for %s on %s: %d\n", args[0], e.Network().GetName(), nonce)
		return nil
	},
}

var blockCmd = &cobra.Command{
	Use:   "block <number>",
	Short: "Show the details of a block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("block number must be an integer: %w", err)
		}
		e, _, err := setup()
		if err != nil {
			return err
		}
		block, err := e.BlockByNumber(number)
		if err != nil {
			return err
		}
		fmt.Printf("Block %d on %s:\n", block.NumberU64(), e.Network().GetName())
		fmt.Printf("  Hash:       %s\n", block.Hash().Hex())
		fmt.Printf("  Parent:     %s\n", block.ParentHash().Hex())
		fmt.Printf("  Time:       %d\n", block.Time())
		printer.Printf("  Gas used:   %d / %d\n", block.GasUsed(), block.GasLimit())
		fmt.Printf("  Tx count:   %d\n", len(block.Transactions()))
		return nil
	},
}

var txInfoCmd = &cobra.Command{
	Use:   "tx <hash>",
	Short: "Show the status and details of a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, _, err := setup()
		if err != nil {
			return err
		}
		info := e.TxInfo(args[0])
		fmt.Printf("Transaction %s on %s: %s\n", args[0], e.Network().GetName(), statusColor(info))
		if info.Tx != nil {
			if to := info.Tx.To(); to != nil {
				fmt.Printf("  To:        %s\n", to.Hex())
			}
			fmt.Printf("  Value:     %s wei\n", info.Tx.Value())
			fmt.Printf("  Nonce:     %d\n", info.Tx.Nonce())
			printer.Printf("  Gas limit: %d\n", info.Tx.Gas())
		}
		if info.Receipt != nil {
			fmt.Printf("  Block:     %s\n", info.Receipt.BlockNumber)
			fmt.Printf("  Gas used:  %d\n", info.Receipt.GasUsed)
		}
		return nil
	},
}

func statusColor(info common.TxInfo) string {
	switch info.Status {
	case common.TxStatusDone:
		return common.InfoColor(info.Status)
	case common.TxStatusPending:
		return common.WarnColor(info.Status)
	default:
		return common.AlertColor(info.Status)
	}
}

var erc20BalanceCmd = &cobra.Command{
	Use:   "erc20-balance",
	Short: "Show the token balance of a wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, _, err := setup()
		if err != nil {
			return err
		}
		balance, err := e.ERC20Balance(tokenFlag, walletFlag)
		if err != nil {
			return err
		}
		fmt.Printf("Balance of %s on %s: %s\n", walletFlag, e.Network().GetName(), balance)
		return nil
	},
}

var (
	tokenFlag  string
	walletFlag string
)

func init() {
	erc20BalanceCmd.Flags().StringVar(&tokenFlag, "token", "", "token address or name")
	erc20BalanceCmd.Flags().StringVar(&walletFlag, "wallet", "", "wallet address or name")
	erc20BalanceCmd.MarkFlagRequired("token")
	erc20BalanceCmd.MarkFlagRequired("wallet")

	rootCmd.AddCommand(blockNumberCmd)
	rootCmd.AddCommand(gasPriceCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(nonceCmd)
	rootCmd.AddCommand(blockCmd)
	rootCmd.AddCommand(txInfoCmd)
	rootCmd.AddCommand(erc20BalanceCmd)
}
