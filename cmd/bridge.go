package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/aldernet/warden/bridge"
)

var (
	bridgeChain      string
	bridgeFromChain  string
	bridgeToChain    string
	bridgeFromToken  string
	bridgeToToken    string
	bridgeFromAmount string
	bridgeFromAddr   string
	bridgeToAddr     string
	bridgeTxHash     string
	bridgeName       string
)

var bridgeChainsCmd = &cobra.Command{
	Use:   "bridge-chains",
	Short: "List the chains the bridge aggregator supports",
	RunE: func(cmd *cobra.Command, args []string) error {
		chains, err := bridge.NewLiFiBridge().GetSupportedChains()
		if err != nil {
			return err
		}
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Key", "Name", "Coin", "Mainnet"})
		for _, c := range chains {
			t.AppendRow(table.Row{c.ID, c.Key, c.Name, c.Coin, c.Mainnet})
		}
		t.Render()
		return nil
	},
}

var bridgeTokensCmd = &cobra.Command{
	Use:   "bridge-tokens",
	Short: "List the tokens the bridge aggregator knows on a chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		tokens, err := bridge.NewLiFiBridge().GetKnownTokens(bridgeChain)
		if err != nil {
			return err
		}
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Symbol", "Name", "Address", "Decimals", "Price USD"})
		for _, token := range tokens {
			t.AppendRow(table.Row{token.Symbol, token.Name, token.Address, token.Decimals, token.PriceUSD})
		}
		t.Render()
		return nil
	},
}

var bridgeRoutesCmd = &cobra.Command{
	Use:   "bridge-routes",
	Short: "List viable routes for a cross-chain transfer",
	RunE: func(cmd *cobra.Command, args []string) error {
		fromChainID, err := strconv.ParseUint(bridgeFromChain, 10, 64)
		if err != nil {
			return fmt.Errorf("--from-chain must be a numeric chain id: %w", err)
		}
		toChainID, err := strconv.ParseUint(bridgeToChain, 10, 64)
		if err != nil {
			return fmt.Errorf("--to-chain must be a numeric chain id: %w", err)
		}
		routes, err := bridge.NewLiFiBridge().RequestRoutes(bridge.RouteRequest{
			FromChainID:      fromChainID,
			ToChainID:        toChainID,
			FromTokenAddress: bridgeFromToken,
			ToTokenAddress:   bridgeToToken,
			FromAmount:       bridgeFromAmount,
			FromAddress:      bridgeFromAddr,
			ToAddress:        bridgeToAddr,
		})
		if err != nil {
			return err
		}
		if len(routes) == 0 {
			fmt.Println("No routes found")
			return nil
		}
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Route", "From", "To (min)", "Gas USD", "Steps"})
		for _, r := range routes {
			t.AppendRow(table.Row{
				r.ID,
				fmt.Sprintf("%s %s", r.FromAmount, r.FromToken.Symbol),
				fmt.Sprintf("%s (%s) %s", r.ToAmount, r.ToAmountMin, r.ToToken.Symbol),
				r.GasCostUSD,
				len(r.Steps),
			})
		}
		t.Render()
		return nil
	},
}

var bridgeQuoteCmd = &cobra.Command{
	Use:   "bridge-quote",
	Short: "Get an executable quote for a cross-chain transfer",
	RunE: func(cmd *cobra.Command, args []string) error {
		quote, err := bridge.NewLiFiBridge().RequestQuote(bridge.QuoteRequest{
			FromChain:   bridgeFromChain,
			ToChain:     bridgeToChain,
			FromToken:   bridgeFromToken,
			ToToken:     bridgeToToken,
			FromAmount:  bridgeFromAmount,
			FromAddress: bridgeFromAddr,
			ToAddress:   bridgeToAddr,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Quote %s via %s:\n", quote.ID, quote.Tool)
		fmt.Printf("  From:   %s %s on chain %d\n", quote.Action.FromAmount, quote.Action.FromToken.Symbol, quote.Action.FromChainID)
		fmt.Printf("  To:     %s (min %s) %s on chain %d\n", quote.Estimate.ToAmount, quote.Estimate.ToAmountMin, quote.Action.ToToken.Symbol, quote.Action.ToChainID)
		fmt.Printf("  Approve: %s\n", quote.Estimate.ApprovalAddress)
		if quote.TransactionRequest != nil {
			fmt.Printf("  Tx to:  %s (value %s)\n", quote.TransactionRequest.To, quote.TransactionRequest.Value)
		}
		return nil
	},
}

var bridgeStatusCmd = &cobra.Command{
	Use:   "bridge-status",
	Short: "Check the progress of a bridged transfer",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := bridge.NewLiFiBridge().GetTransferStatus(bridge.StatusRequest{
			Bridge:    bridgeName,
			FromChain: bridgeFromChain,
			ToChain:   bridgeToChain,
			TxHash:    bridgeTxHash,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Transfer %s: %s", bridgeTxHash, status.Status)
		if status.Substatus != "" {
			fmt.Printf(" (%s)", status.Substatus)
		}
		fmt.Println()
		return nil
	},
}

var bridgeConnectionsCmd = &cobra.Command{
	Use:   "bridge-connections",
	Short: "List bridgeable token pairs matching a filter",
	RunE: func(cmd *cobra.Command, args []string) error {
		connections, err := bridge.NewLiFiBridge().GetConnections(bridge.ConnectionsRequest{
			FromChain:  bridgeFromChain,
			ToChain:    bridgeToChain,
			FromToken:  bridgeFromToken,
			ToToken:    bridgeToToken,
			FromAmount: bridgeFromAmount,
		})
		if err != nil {
			return err
		}
		for _, c := range connections {
			fmt.Printf(
				"Chain %d -> chain %d: %d sellable tokens, %d buyable tokens\n",
				c.FromChainID, c.ToChainID, len(c.FromTokens), len(c.ToTokens),
			)
		}
		return nil
	},
}

func init() {
	bridgeTokensCmd.Flags().StringVar(&bridgeChain, "chain", "", "chain key or id")
	bridgeTokensCmd.MarkFlagRequired("chain")

	bridgeRoutesCmd.Flags().StringVar(&bridgeFromChain, "from-chain", "", "source chain id")
	bridgeRoutesCmd.Flags().StringVar(&bridgeToChain, "to-chain", "", "destination chain id")
	bridgeRoutesCmd.Flags().StringVar(&bridgeFromToken, "from-token", "", "source token address")
	bridgeRoutesCmd.Flags().StringVar(&bridgeToToken, "to-token", "", "destination token address")
	bridgeRoutesCmd.Flags().StringVar(&bridgeFromAmount, "from-amount", "", "amount in source token base units")
	bridgeRoutesCmd.Flags().StringVar(&bridgeFromAddr, "from-address", "", "sender address")
	bridgeRoutesCmd.Flags().StringVar(&bridgeToAddr, "to-address", "", "recipient address")
	for _, f := range []string{"from-chain", "to-chain", "from-token", "to-token", "from-amount", "from-address", "to-address"} {
		bridgeRoutesCmd.MarkFlagRequired(f)
	}

	bridgeQuoteCmd.Flags().StringVar(&bridgeFromChain, "from-chain", "", "source chain key or id")
	bridgeQuoteCmd.Flags().StringVar(&bridgeToChain, "to-chain", "", "destination chain key or id")
	bridgeQuoteCmd.Flags().StringVar(&bridgeFromToken, "from-token", "", "source token symbol or address")
	bridgeQuoteCmd.Flags().StringVar(&bridgeToToken, "to-token", "", "destination token symbol or address")
	bridgeQuoteCmd.Flags().StringVar(&bridgeFromAmount, "from-amount", "", "amount in source token base units")
	bridgeQuoteCmd.Flags().StringVar(&bridgeFromAddr, "from-address", "", "sender address")
	bridgeQuoteCmd.Flags().StringVar(&bridgeToAddr, "to-address", "", "recipient address, sender when empty")
	for _, f := range []string{"from-chain", "to-chain", "from-token", "to-token", "from-amount", "from-address"} {
		bridgeQuoteCmd.MarkFlagRequired(f)
	}

	bridgeStatusCmd.Flags().StringVar(&bridgeTxHash, "tx-hash", "", "source chain tx hash")
	bridgeStatusCmd.Flags().StringVar(&bridgeFromChain, "from-chain", "", "source chain key or id")
	bridgeStatusCmd.Flags().StringVar(&bridgeToChain, "to-chain", "", "destination chain key or id")
	bridgeStatusCmd.Flags().StringVar(&bridgeName, "bridge", "", "bridge tool that was used")
	bridgeStatusCmd.MarkFlagRequired("tx-hash")

	bridgeConnectionsCmd.Flags().StringVar(&bridgeFromChain, "from-chain", "", "source chain key or id")
	bridgeConnectionsCmd.Flags().StringVar(&bridgeToChain, "to-chain", "", "destination chain key or id")
	bridgeConnectionsCmd.Flags().StringVar(&bridgeFromToken, "from-token", "", "source token symbol or address")
	bridgeConnectionsCmd.Flags().StringVar(&bridgeToToken, "to-token", "", "destination token symbol or address")
	bridgeConnectionsCmd.Flags().StringVar(&bridgeFromAmount, "from-amount", "", "amount in source token base units")

	rootCmd.AddCommand(bridgeChainsCmd)
	rootCmd.AddCommand(bridgeTokensCmd)
	rootCmd.AddCommand(bridgeRoutesCmd)
	rootCmd.AddCommand(bridgeQuoteCmd)
	rootCmd.AddCommand(bridgeStatusCmd)
	rootCmd.AddCommand(bridgeConnectionsCmd)
}
