package evm

import (
	"context"
	"fmt"

	ethereum "github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/ethclient/gethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/aldernet/warden/util"
)

// wsClients dials the network's websocket endpoint. Subscriptions need a
// real push transport, polling over http won't do.
func (e *EVM) wsClients(ctx context.Context) (*ethclient.Client, *gethclient.Client, error) {
	url := util.WSNodeURL(e.network)
	if url == "" {
		return nil, nil, fmt.Errorf("no websocket node configured for %s", e.network.GetName())
	}
	rpcClient, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't dial websocket node %s: %w", url, err)
	}
	return ethclient.NewClient(rpcClient), gethclient.New(rpcClient), nil
}

// SubscribeBlocks streams new chain heads to the handler until the
// context is cancelled or the subscription drops.
func (e *EVM) SubscribeBlocks(ctx context.Context, handler func(*types.Header)) error {
	client, _, err := e.wsClients(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	heads := make(chan *types.Header)
	sub, err := client.SubscribeNewHead(ctx, heads)
	if err != nil {
		return fmt.Errorf("couldn't subscribe to new heads: %w", err)
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("head subscription dropped: %w", err)
		case head := <-heads:
			handler(head)
		}
	}
}

// SubscribePendingTransactions streams pending tx hashes to the handler.
func (e *EVM) SubscribePendingTransactions(ctx context.Context, handler func(ethcommon.Hash)) error {
	_, geth, err := e.wsClients(ctx)
	if err != nil {
		return err
	}

	hashes := make(chan ethcommon.Hash)
	sub, err := geth.SubscribePendingTransactions(ctx, hashes)
	if err != nil {
		return fmt.Errorf("couldn't subscribe to pending txs: %w", err)
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("pending tx subscription dropped: %w", err)
		case hash := <-hashes:
			handler(hash)
		}
	}
}

// SubscribeLogs streams every new log to the handler. Callers that want
// a narrower stream pass a filter query.
func (e *EVM) SubscribeLogs(ctx context.Context, query ethereum.FilterQuery, handler func(types.Log)) error {
	client, _, err := e.wsClients(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	logs := make(chan types.Log)
	sub, err := client.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return fmt.Errorf("couldn't subscribe to logs: %w", err)
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("log subscription dropped: %w", err)
		case log := <-logs:
			handler(log)
		}
	}
}
