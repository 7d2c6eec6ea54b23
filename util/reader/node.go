package reader

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/ethclient/gethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

type NodeClient struct {
	name string
	url  string

	mu         sync.Mutex
	rpcClient  *rpc.Client
	ethClient  *ethclient.Client
	gethClient *gethclient.Client
}

func NewNodeClient(name, url string) *NodeClient {
	return &NodeClient{
		name: name,
		url:  url,
	}
}

func (n *NodeClient) Name() string { return n.name }

// clients dials lazily so constructing a reader over many nodes doesn't
// pay for nodes that never get used.
func (n *NodeClient) clients() (*ethclient.Client, *gethclient.Client, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.ethClient == nil {
		rpcClient, err := rpc.Dial(n.url)
		if err != nil {
			return nil, nil, fmt.Errorf("couldn't dial node %s: %w", n.name, err)
		}
		n.rpcClient = rpcClient
		n.ethClient = ethclient.NewClient(rpcClient)
		n.gethClient = gethclient.New(rpcClient)
	}
	return n.ethClient, n.gethClient, nil
}

func (n *NodeClient) timeoutContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 4*time.Second)
}

func (n *NodeClient) GetBalance(address string) (*big.Int, error) {
	client, _, err := n.clients()
	if err != nil {
		return nil, err
	}
	ctx, cancel := n.timeoutContext()
	defer cancel()
	return client.BalanceAt(ctx, ethcommon.HexToAddress(address), nil)
}

func (n *NodeClient) GetMinedNonce(address string) (uint64, error) {
	client, _, err := n.clients()
	if err != nil {
		return 0, err
	}
	ctx, cancel := n.timeoutContext()
	defer cancel()
	return client.NonceAt(ctx, ethcommon.HexToAddress(address), nil)
}

func (n *NodeClient) GetPendingNonce(address string) (uint64, error) {
	client, _, err := n.clients()
	if err != nil {
		return 0, err
	}
	ctx, cancel := n.timeoutContext()
	defer cancel()
	return client.PendingNonceAt(ctx, ethcommon.HexToAddress(address))
}

func (n *NodeClient) GetGasPriceSuggestion() (*big.Int, error) {
	client, _, err := n.clients()
	if err != nil {
		return nil, err
	}
	ctx, cancel := n.timeoutContext()
	defer cancel()
	return client.SuggestGasPrice(ctx)
}

func (n *NodeClient) GetGasTipSuggestion() (*big.Int, error) {
	client, _, err := n.clients()
	if err != nil {
		return nil, err
	}
	ctx, cancel := n.timeoutContext()
	defer cancel()
	return client.SuggestGasTipCap(ctx)
}

func (n *NodeClient) HeaderByNumber(number *big.Int) (*types.Header, error) {
	client, _, err := n.clients()
	if err != nil {
		return nil, err
	}
	ctx, cancel := n.timeoutContext()
	defer cancel()
	return client.HeaderByNumber(ctx, number)
}

func (n *NodeClient) BlockByNumber(number *big.Int) (*types.Block, error) {
	client, _, err := n.clients()
	if err != nil {
		return nil, err
	}
	ctx, cancel := n.timeoutContext()
	defer cancel()
	return client.BlockByNumber(ctx, number)
}

func (n *NodeClient) TransactionByHash(hash string) (*types.Transaction, bool, error) {
	client, _, err := n.clients()
	if err != nil {
		return nil, false, err
	}
	ctx, cancel := n.timeoutContext()
	defer cancel()
	return client.TransactionByHash(ctx, ethcommon.HexToHash(hash))
}

func (n *NodeClient) TransactionReceipt(hash string) (*types.Receipt, error) {
	client, _, err := n.clients()
	if err != nil {
		return nil, err
	}
	ctx, cancel := n.timeoutContext()
	defer cancel()
	return client.TransactionReceipt(ctx, ethcommon.HexToHash(hash))
}

func (n *NodeClient) EstimateGas(from, to string, priceGwei float64, value *big.Int, data []byte) (uint64, error) {
	client, _, err := n.clients()
	if err != nil {
		return 0, err
	}
	fromAddr := ethcommon.HexToAddress(from)
	var toAddrPtr *ethcommon.Address
	if to != "" {
		toAddr := ethcommon.HexToAddress(to)
		toAddrPtr = &toAddr
	}
	price := big.NewInt(int64(priceGwei * 1000000000))
	ctx, cancel := n.timeoutContext()
	defer cancel()
	return client.EstimateGas(ctx, ethereum.CallMsg{
		From:     fromAddr,
		To:       toAddrPtr,
		GasPrice: price,
		Value:    value,
		Data:     data,
	})
}

func (n *NodeClient) ReadContractToBytes(atBlock int64, from, caddr string, a *abi.ABI, method string, args ...interface{}) ([]byte, error) {
	client, _, err := n.clients()
	if err != nil {
		return nil, err
	}
	contract := ethcommon.HexToAddress(caddr)
	data, err := a.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("couldn't pack %s: %w", method, err)
	}
	var blockBig *big.Int
	if atBlock > 0 {
		blockBig = big.NewInt(atBlock)
	}
	ctx, cancel := n.timeoutContext()
	defer cancel()
	return client.CallContract(ctx, ethereum.CallMsg{
		From: ethcommon.HexToAddress(from),
		To:   &contract,
		Data: data,
	}, blockBig)
}
