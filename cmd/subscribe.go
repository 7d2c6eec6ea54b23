package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	ethereum "github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/spf13/cobra"
)

// interruptibleContext cancels on ctrl-c so subscriptions shut down
// cleanly.
func interruptibleContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

var subscribeBlocksCmd = &cobra.Command{
	Use:   "subscribe-blocks",
	Short: "Stream new blocks as they are mined",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, _, err := setup()
		if err != nil {
			return err
		}
		ctx, cancel := interruptibleContext()
		defer cancel()
		fmt.Printf("Subscribing to new blocks on %s...\n", e.Network().GetName())
		err = e.SubscribeBlocks(ctx, func(head *types.Header) {
			fmt.Printf("New block: %d (%s)\n", head.Number.Uint64(), head.Hash().Hex())
		})
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}

var subscribePendingTxsCmd = &cobra.Command{
	Use:   "subscribe-pending-txs",
	Short: "Stream pending transaction hashes",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, _, err := setup()
		if err != nil {
			return err
		}
		ctx, cancel := interruptibleContext()
		defer cancel()
		fmt.Printf("Subscribing to pending transactions on %s...\n", e.Network().GetName())
		err = e.SubscribePendingTransactions(ctx, func(hash ethcommon.Hash) {
			fmt.Printf("Pending transaction: %s\n", hash.Hex())
		})
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}

var subscribeLogsCmd = &cobra.Command{
	Use:   "subscribe-logs",
	Short: "Stream new event logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, _, err := setup()
		if err != nil {
			return err
		}
		query := ethereum.FilterQuery{}
		if logAddressFlag != "" {
			addr, err := e.Resolve(logAddressFlag)
			if err != nil {
				return err
			}
			query.Addresses = []ethcommon.Address{addr}
		}
		ctx, cancel := interruptibleContext()
		defer cancel()
		fmt.Printf("Subscribing to logs on %s...\n", e.Network().GetName())
		err = e.SubscribeLogs(ctx, query, func(log types.Log) {
			fmt.Printf("New log: block %d, address %s, topics %v\n", log.BlockNumber, log.Address.Hex(), log.Topics)
		})
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}

var logAddressFlag string

func init() {
	subscribeLogsCmd.Flags().StringVar(&logAddressFlag, "address", "", "only stream logs from this address or name")

	rootCmd.AddCommand(subscribeBlocksCmd)
	rootCmd.AddCommand(subscribePendingTxsCmd)
	rootCmd.AddCommand(subscribeLogsCmd)
}
