package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aldernet/warden/common"
	"github.com/aldernet/warden/config"
	"github.com/aldernet/warden/evm"
	"github.com/aldernet/warden/networks"
	"github.com/aldernet/warden/whitelist"
)

// Network is the network name from the persistent --network flag.
var Network string

var rootCmd = &cobra.Command{
	Use:   "warden",
	Short: "Construct and submit EVM transactions gated by a local whitelist",
	Long: `Warden is a command line tool for doing EVM operational transactions
safely. Every value-moving operation resolves human friendly identifiers
(wallet names, token names, raw addresses) to on-chain addresses and
refuses to move funds to anything outside your local whitelist.

It supports plain native and ERC-20 transfers, wrapping, Uniswap V3
swaps and Uniswap V2 liquidity provision, plus read-only chain queries,
websocket subscriptions and cross-chain route discovery via LI.FI.

Chain access uses built-in public nodes by default. Set the env var
named after a network (e.g. ETHEREUM_MAINNET_NODE) to a comma separated
list of urls to use your own nodes instead. Block explorer lookups need
an API key in the matching env var (e.g. ETHERSCAN_API_KEY).`,
	SilenceUsage: true,
}

// activeNetwork maps the --network flag to a supported network.
func activeNetwork() (networks.Network, error) {
	return networks.GetNetwork(Network)
}

// setup builds the orchestrator every mutating and chain-reading
// command runs against.
func setup() (*evm.EVM, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	network, err := activeNetwork()
	if err != nil {
		return nil, nil, err
	}
	wl, err := whitelist.LoadOrNew(cfg.WhitelistPath)
	if err != nil {
		return nil, nil, err
	}
	return evm.New(network, cfg, wl), cfg, nil
}

// Execute runs the root command. Errors print to stderr and exit
// non-zero.
func Execute() {
	rootCmd.PersistentFlags().StringVarP(
		&Network, "network", "k", "mainnet",
		fmt.Sprintf("network to operate on. Valid values: %v", networks.SupportedNetworkNames()),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", common.AlertColor(err.Error()))
		os.Exit(1)
	}
}
