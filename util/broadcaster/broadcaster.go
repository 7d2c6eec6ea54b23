package broadcaster

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// EthBroadcaster pushes a signed tx to all of its nodes at once. One
// accepting node is enough for the broadcast to count as successful.
type EthBroadcaster struct {
	mu      sync.Mutex
	clients map[string]*ethclient.Client
	nodes   map[string]string
}

func NewEthBroadcaster(nodes map[string]string) *EthBroadcaster {
	return &EthBroadcaster{
		clients: map[string]*ethclient.Client{},
		nodes:   nodes,
	}
}

func (eb *EthBroadcaster) client(name string) (*ethclient.Client, error) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if client, found := eb.clients[name]; found {
		return client, nil
	}
	rpcClient, err := rpc.Dial(eb.nodes[name])
	if err != nil {
		return nil, fmt.Errorf("couldn't dial node %s: %w", name, err)
	}
	client := ethclient.NewClient(rpcClient)
	eb.clients[name] = client
	return client, nil
}

func (eb *EthBroadcaster) broadcastToNode(name string, tx *types.Transaction) error {
	client, err := eb.client(name)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()
	return client.SendTransaction(ctx, tx)
}

// BroadcastTx returns the tx hash, whether at least one node accepted the
// tx, and the aggregated node errors when some nodes rejected it.
func (eb *EthBroadcaster) BroadcastTx(tx *types.Transaction) (string, bool, error) {
	hash := tx.Hash().Hex()

	type result struct {
		node string
		err  error
	}
	resCh := make(chan result, len(eb.nodes))
	for name := range eb.nodes {
		go func(name string) {
			resCh <- result{node: name, err: eb.broadcastToNode(name, tx)}
		}(name)
	}

	failures := []string{}
	broadcasted := false
	for range eb.nodes {
		res := <-resCh
		if res.err == nil {
			broadcasted = true
			continue
		}
		// a node that already has the tx in its pool still counts
		if strings.Contains(res.err.Error(), "already known") {
			broadcasted = true
			continue
		}
		failures = append(failures, fmt.Sprintf("%s: %s", res.node, res.err))
	}
	if len(failures) == 0 {
		return hash, broadcasted, nil
	}
	return hash, broadcasted, fmt.Errorf("some nodes rejected the tx: %s", strings.Join(failures, ", "))
}
