package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/aldernet/warden/common"
	"github.com/aldernet/warden/config"
	"github.com/aldernet/warden/networks"
	"github.com/aldernet/warden/util"
	"github.com/aldernet/warden/whitelist"
)

var (
	wlAddress string
	wlName    string
	wlChain   string
)

// loadWhitelist loads the store for the mutating whitelist commands,
// which don't need a full orchestrator.
func loadWhitelist() (*whitelist.Store, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", err
	}
	wl, err := whitelist.LoadOrNew(cfg.WhitelistPath)
	if err != nil {
		return nil, "", err
	}
	return wl, cfg.WhitelistPath, nil
}

var addWalletCmd = &cobra.Command{
	Use:   "add-wallet-to-whitelist",
	Short: "Allow a wallet address as a transfer recipient",
	RunE: func(cmd *cobra.Command, args []string) error {
		wl, path, err := loadWhitelist()
		if err != nil {
			return err
		}
		if err = wl.AddWallet(wlAddress, wlName); err != nil {
			return err
		}
		if err = wl.Save(path); err != nil {
			return err
		}
		fmt.Printf("%s\n", common.InfoColor(fmt.Sprintf("Wallet %s added to the whitelist", wlAddress)))
		return nil
	},
}

var removeWalletCmd = &cobra.Command{
	Use:   "remove-wallet-from-whitelist",
	Short: "Remove a wallet address from the whitelist",
	RunE: func(cmd *cobra.Command, args []string) error {
		wl, path, err := loadWhitelist()
		if err != nil {
			return err
		}
		wl.RemoveWallet(wlAddress)
		if err = wl.Save(path); err != nil {
			return err
		}
		fmt.Printf("%s\n", common.InfoColor(fmt.Sprintf("Wallet %s removed from the whitelist", wlAddress)))
		return nil
	},
}

var addTokenCmd = &cobra.Command{
	Use:   "add-token-to-whitelist",
	Short: "Allow a token contract on one chain",
	Long: `Allow a token contract on one chain. The token's symbol is read from
the contract at add time, so a live node connection is required and a
non-ERC20 address is rejected.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		network, err := networks.GetNetwork(wlChain)
		if err != nil {
			return err
		}
		wl, path, err := loadWhitelist()
		if err != nil {
			return err
		}
		reader := util.EthReader(network)
		if err = wl.AddToken(wlAddress, network.GetChainID(), wlName, reader); err != nil {
			return err
		}
		if err = wl.Save(path); err != nil {
			return err
		}
		fmt.Printf("%s\n", common.InfoColor(
			fmt.Sprintf("Token %s added to the whitelist for %s", wlAddress, network.GetName()),
		))
		return nil
	},
}

var removeTokenCmd = &cobra.Command{
	Use:   "remove-token-from-whitelist",
	Short: "Remove a token contract from the whitelist",
	RunE: func(cmd *cobra.Command, args []string) error {
		network, err := networks.GetNetwork(wlChain)
		if err != nil {
			return err
		}
		wl, path, err := loadWhitelist()
		if err != nil {
			return err
		}
		wl.RemoveToken(wlAddress, network.GetChainID())
		if err = wl.Save(path); err != nil {
			return err
		}
		fmt.Printf("%s\n", common.InfoColor(
			fmt.Sprintf("Token %s removed from the whitelist for %s", wlAddress, network.GetName()),
		))
		return nil
	},
}

var showWhitelistCmd = &cobra.Command{
	Use:   "show-whitelist",
	Short: "Show all whitelisted wallets and tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		wl, _, err := loadWhitelist()
		if err != nil {
			return err
		}

		wallets := table.NewWriter()
		wallets.SetOutputMirror(os.Stdout)
		wallets.SetTitle("Whitelisted wallets")
		wallets.AppendHeader(table.Row{"#", "Address", "Name"})
		for i, w := range wl.Wallets() {
			wallets.AppendRow(table.Row{i + 1, w.Address, w.Name})
		}
		wallets.Render()

		tokens := table.NewWriter()
		tokens.SetOutputMirror(os.Stdout)
		tokens.SetTitle("Whitelisted tokens")
		tokens.AppendHeader(table.Row{"#", "Address", "Chain ID", "Symbol", "Name"})
		for i, t := range wl.Tokens() {
			tokens.AppendRow(table.Row{i + 1, t.Address, t.ChainID, t.Symbol, t.Name})
		}
		tokens.Render()
		return nil
	},
}

func init() {
	addWalletCmd.Flags().StringVar(&wlAddress, "address", "", "wallet address in hex")
	addWalletCmd.Flags().StringVar(&wlName, "name", "", "human friendly name for the wallet")
	addWalletCmd.MarkFlagRequired("address")

	removeWalletCmd.Flags().StringVar(&wlAddress, "address", "", "wallet address in hex")
	removeWalletCmd.MarkFlagRequired("address")

	addTokenCmd.Flags().StringVar(&wlAddress, "address", "", "token contract address in hex")
	addTokenCmd.Flags().StringVar(&wlChain, "chain", "mainnet", "network the token lives on")
	addTokenCmd.Flags().StringVar(&wlName, "name", "", "human friendly name for the token")
	addTokenCmd.MarkFlagRequired("address")

	removeTokenCmd.Flags().StringVar(&wlAddress, "address", "", "token contract address in hex")
	removeTokenCmd.Flags().StringVar(&wlChain, "chain", "mainnet", "network the token lives on")
	removeTokenCmd.MarkFlagRequired("address")

	rootCmd.AddCommand(addWalletCmd)
	rootCmd.AddCommand(removeWalletCmd)
	rootCmd.AddCommand(addTokenCmd)
	rootCmd.AddCommand(removeTokenCmd)
	rootCmd.AddCommand(showWhitelistCmd)
}
