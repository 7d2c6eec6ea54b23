package reader

import (
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/aldernet/warden/common"
	"github.com/aldernet/warden/util/explorers"
)

// EthReader fans every query out to all of its nodes at once and takes
// the first success. It only fails when every node fails.
type EthReader struct {
	nodes map[string]*NodeClient

	bem      sync.Mutex
	explorer explorers.BlockExplorer
}

func NewEthReader(nodes map[string]string) *EthReader {
	ns := map[string]*NodeClient{}
	for name, url := range nodes {
		ns[name] = NewNodeClient(name, url)
	}
	return &EthReader{
		nodes: ns,
	}
}

func (er *EthReader) SetBlockExplorer(be explorers.BlockExplorer) {
	er.bem.Lock()
	defer er.bem.Unlock()
	er.explorer = be
}

func (er *EthReader) blockExplorer() explorers.BlockExplorer {
	er.bem.Lock()
	defer er.bem.Unlock()
	return er.explorer
}

type nodeResult[T any] struct {
	node string
	val  T
	err  error
}

// fanout queries all nodes concurrently and returns the first successful
// result. When every node errors, the errors are aggregated so the caller
// can see which node said what.
func fanout[T any](er *EthReader, query func(n *NodeClient) (T, error)) (T, error) {
	resCh := make(chan nodeResult[T], len(er.nodes))
	for _, n := range er.nodes {
		go func(n *NodeClient) {
			val, err := query(n)
			resCh <- nodeResult[T]{node: n.Name(), val: val, err: err}
		}(n)
	}
	failures := []string{}
	var zero T
	for range er.nodes {
		res := <-resCh
		if res.err == nil {
			return res.val, nil
		}
		failures = append(failures, fmt.Sprintf("%s: %s", res.node, res.err))
	}
	return zero, fmt.Errorf("all nodes failed: %s", strings.Join(failures, ", "))
}

func (er *EthReader) GetBalance(address string) (*big.Int, error) {
	return fanout(er, func(n *NodeClient) (*big.Int, error) {
		return n.GetBalance(address)
	})
}

func (er *EthReader) GetMinedNonce(address string) (uint64, error) {
	return fanout(er, func(n *NodeClient) (uint64, error) {
		return n.GetMinedNonce(address)
	})
}

func (er *EthReader) GetPendingNonce(address string) (uint64, error) {
	return fanout(er, func(n *NodeClient) (uint64, error) {
		return n.GetPendingNonce(address)
	})
}

// RecommendedGasPrice prefers the block explorer's oracle and falls back
// to the nodes' eth_gasPrice when the explorer is absent or failing.
func (er *EthReader) RecommendedGasPrice() (float64, error) {
	if be := er.blockExplorer(); be != nil {
		price, err := be.RecommendedGasPrice()
		if err == nil && price > 0 {
			return price, nil
		}
	}
	wei, err := fanout(er, func(n *NodeClient) (*big.Int, error) {
		return n.GetGasPriceSuggestion()
	})
	if err != nil {
		return 0, err
	}
	return common.BigToFloat(wei, 9), nil
}

func (er *EthReader) GetSuggestedGasTip() (float64, error) {
	wei, err := fanout(er, func(n *NodeClient) (*big.Int, error) {
		return n.GetGasTipSuggestion()
	})
	if err != nil {
		return 0, err
	}
	return common.BigToFloat(wei, 9), nil
}

func (er *EthReader) CurrentBlock() (uint64, error) {
	header, err := fanout(er, func(n *NodeClient) (*types.Header, error) {
		return n.HeaderByNumber(nil)
	})
	if err != nil {
		return 0, err
	}
	return header.Number.Uint64(), nil
}

func (er *EthReader) HeaderByNumber(number int64) (*types.Header, error) {
	var numberBig *big.Int
	if number >= 0 {
		numberBig = big.NewInt(number)
	}
	return fanout(er, func(n *NodeClient) (*types.Header, error) {
		return n.HeaderByNumber(numberBig)
	})
}

func (er *EthReader) BlockByNumber(number int64) (*types.Block, error) {
	var numberBig *big.Int
	if number >= 0 {
		numberBig = big.NewInt(number)
	}
	return fanout(er, func(n *NodeClient) (*types.Block, error) {
		return n.BlockByNumber(numberBig)
	})
}

func (er *EthReader) EstimateExactGas(from, to string, priceGwei float64, value *big.Int, data []byte) (uint64, error) {
	return fanout(er, func(n *NodeClient) (uint64, error) {
		return n.EstimateGas(from, to, priceGwei, value, data)
	})
}

type txByHash struct {
	tx        *types.Transaction
	isPending bool
}

func (er *EthReader) TransactionByHash(hash string) (*types.Transaction, bool, error) {
	res, err := fanout(er, func(n *NodeClient) (txByHash, error) {
		tx, isPending, err := n.TransactionByHash(hash)
		return txByHash{tx, isPending}, err
	})
	return res.tx, res.isPending, err
}

func (er *EthReader) TransactionReceipt(hash string) (*types.Receipt, error) {
	return fanout(er, func(n *NodeClient) (*types.Receipt, error) {
		return n.TransactionReceipt(hash)
	})
}

// TxInfoFromHash never returns an error, it encodes the lookup outcome in
// the returned status so pollers can treat "not found yet" as a state.
func (er *EthReader) TxInfoFromHash(hash string) common.TxInfo {
	tx, isPending, err := er.TransactionByHash(hash)
	if err != nil {
		return common.TxInfo{Status: common.TxStatusNotfound, Tx: tx}
	}
	if isPending {
		return common.TxInfo{Status: common.TxStatusPending, Tx: tx}
	}
	receipt, err := er.TransactionReceipt(hash)
	if err != nil || receipt == nil {
		return common.TxInfo{Status: common.TxStatusPending, Tx: tx}
	}
	if receipt.Status == types.ReceiptStatusSuccessful {
		return common.TxInfo{Status: common.TxStatusDone, Tx: tx, Receipt: receipt}
	}
	return common.TxInfo{Status: common.TxStatusReverted, Tx: tx, Receipt: receipt}
}

func (er *EthReader) ReadContractToBytes(atBlock int64, from, caddr string, a *abi.ABI, method string, args ...interface{}) ([]byte, error) {
	return fanout(er, func(n *NodeClient) ([]byte, error) {
		return n.ReadContractToBytes(atBlock, from, caddr, a, method, args...)
	})
}

func (er *EthReader) ReadContractWithABI(result interface{}, caddr string, a *abi.ABI, method string, args ...interface{}) error {
	responseBytes, err := er.ReadContractToBytes(-1, "0x0000000000000000000000000000000000000000", caddr, a, method, args...)
	if err != nil {
		return err
	}
	if len(responseBytes) == 0 {
		return fmt.Errorf("contract %s returned no data for %s, check that it is deployed on this chain", caddr, method)
	}
	return a.UnpackIntoInterface(result, method, responseBytes)
}

func (er *EthReader) ERC20Decimal(token string) (uint64, error) {
	a := common.GetERC20ABI()
	var result uint8
	if err := er.ReadContractWithABI(&result, token, a, "decimals"); err != nil {
		return 0, err
	}
	return uint64(result), nil
}

func (er *EthReader) ERC20Symbol(token string) (string, error) {
	a := common.GetERC20ABI()
	var result string
	if err := er.ReadContractWithABI(&result, token, a, "symbol"); err != nil {
		return "", err
	}
	return result, nil
}

func (er *EthReader) ERC20Balance(token, wallet string) (*big.Int, error) {
	a := common.GetERC20ABI()
	result := big.NewInt(0)
	err := er.ReadContractWithABI(&result, token, a, "balanceOf", ethcommon.HexToAddress(wallet))
	return result, err
}

func (er *EthReader) ERC20Allowance(token, owner, spender string) (*big.Int, error) {
	a := common.GetERC20ABI()
	result := big.NewInt(0)
	err := er.ReadContractWithABI(
		&result, token, a, "allowance",
		ethcommon.HexToAddress(owner),
		ethcommon.HexToAddress(spender),
	)
	return result, err
}

// GetGasSettings returns current legacy gas price and tip suggestions in
// gwei, padded slightly so txs don't sit at the price floor.
func (er *EthReader) GetGasSettings() (priceGwei, tipGwei float64, err error) {
	priceGwei, err = er.RecommendedGasPrice()
	if err != nil {
		return 0, 0, err
	}
	tipGwei, err = er.GetSuggestedGasTip()
	if err != nil {
		// legacy-only chains don't serve eth_maxPriorityFeePerGas
		tipGwei = 0
	}
	return priceGwei * 1.05, tipGwei, nil
}

// WaitForNextBlock blocks until the chain head advances past the given
// block number or the timeout elapses.
func (er *EthReader) WaitForNextBlock(after uint64, timeout time.Duration) (uint64, error) {
	deadline := time.Now().Add(timeout)
	for {
		current, err := er.CurrentBlock()
		if err == nil && current > after {
			return current, nil
		}
		if time.Now().After(deadline) {
			return 0, fmt.Errorf("chain head didn't advance past block %d within %s", after, timeout)
		}
		time.Sleep(2 * time.Second)
	}
}
