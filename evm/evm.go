// Package evm orchestrates address resolution, whitelist enforcement and
// transaction construction for every value-moving operation.
package evm

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/aldernet/warden/account"
	"github.com/aldernet/warden/addrbook"
	"github.com/aldernet/warden/common"
	"github.com/aldernet/warden/config"
	"github.com/aldernet/warden/networks"
	"github.com/aldernet/warden/resolver"
	"github.com/aldernet/warden/util"
	"github.com/aldernet/warden/whitelist"
)

// ChainReader is the read-side chain access the orchestrator needs.
// *reader.EthReader satisfies it in production, tests inject doubles.
type ChainReader interface {
	GetBalance(address string) (*big.Int, error)
	GetPendingNonce(address string) (uint64, error)
	GetGasSettings() (priceGwei, tipGwei float64, err error)
	EstimateExactGas(from, to string, priceGwei float64, value *big.Int, data []byte) (uint64, error)
	ERC20Decimal(token string) (uint64, error)
	ERC20Symbol(token string) (string, error)
	ERC20Balance(token, wallet string) (*big.Int, error)
	ERC20Allowance(token, owner, spender string) (*big.Int, error)
	ReadContractWithABI(result interface{}, caddr string, a *abi.ABI, method string, args ...interface{}) error
	CurrentBlock() (uint64, error)
	BlockByNumber(number int64) (*types.Block, error)
	TxInfoFromHash(hash string) common.TxInfo
	RecommendedGasPrice() (float64, error)
}

// Broadcaster pushes signed txs to the network.
type Broadcaster interface {
	BroadcastTx(tx *types.Transaction) (string, bool, error)
}

// Monitor waits for a broadcast tx to settle.
type Monitor interface {
	BlockingWait(hash string) common.TxInfo
}

// EVM ties resolution, whitelist checks and tx plumbing together for one
// network. Every mutating operation goes through the same pipeline:
// resolve identifiers, enforce the whitelist, build, sign, broadcast,
// wait.
type EVM struct {
	network networks.Network
	cfg     *config.Config
	wl      *whitelist.Store
	res     *resolver.Resolver

	reader      ChainReader
	broadcaster Broadcaster
	monitor     Monitor

	signer account.Signer
}

// New wires an EVM against real nodes for the given network. The signer
// is only unlocked when a mutating operation needs it.
func New(network networks.Network, cfg *config.Config, wl *whitelist.Store) *EVM {
	r := util.EthReader(network)
	return &EVM{
		network:     network,
		cfg:         cfg,
		wl:          wl,
		res:         resolver.New(wl),
		reader:      r,
		broadcaster: util.EthBroadcaster(network),
		monitor:     util.EthTxMonitor(network),
	}
}

// NewWithBackend wires an EVM against injected chain access. Used by
// tests and anything embedding the orchestrator with its own transport.
func NewWithBackend(
	network networks.Network, cfg *config.Config, wl *whitelist.Store,
	reader ChainReader, broadcaster Broadcaster, monitor Monitor,
	signer account.Signer,
) *EVM {
	return &EVM{
		network:     network,
		cfg:         cfg,
		wl:          wl,
		res:         resolver.New(wl),
		reader:      reader,
		broadcaster: broadcaster,
		monitor:     monitor,
		signer:      signer,
	}
}

func (e *EVM) Network() networks.Network { return e.network }

func (e *EVM) Whitelist() *whitelist.Store { return e.wl }

func (e *EVM) Reader() ChainReader { return e.reader }

// Resolve maps an identifier (hex address, wallet name, contract name)
// to an address on the active network.
func (e *EVM) Resolve(input string) (ethcommon.Address, error) {
	return e.res.Resolve(input, e.network)
}

func (e *EVM) ensureSigner() (account.Signer, error) {
	if e.signer != nil {
		return e.signer, nil
	}
	signer, err := account.NewKeySignerFromEnv(e.cfg.KeystorePath)
	if err != nil {
		return nil, fmt.Errorf("couldn't load signing key: %w", err)
	}
	e.signer = signer
	return e.signer, nil
}

// contractAddress looks up a named infrastructure contract in the
// addressbook for the active chain. It deliberately bypasses the
// resolver: a whitelisted wallet that happens to be named "weth" or
// "uniswap_v3_router" must never shadow the canonical contract.
func (e *EVM) contractAddress(name string) (ethcommon.Address, error) {
	addr, found := addrbook.Lookup(name, e.network.GetChainID())
	if !found {
		return ethcommon.Address{}, fmt.Errorf("%s on %s: %w", name, e.network.GetName(), ErrContractNotDeployed)
	}
	return addr, nil
}

// checkRecipient enforces the wallet whitelist for a resolved recipient.
func (e *EVM) checkRecipient(addr ethcommon.Address) error {
	if !e.wl.IsWalletWhitelisted(addr.Hex()) {
		return fmt.Errorf("%s: %w", addr.Hex(), ErrRecipientNotWhitelisted)
	}
	return nil
}

// checkToken enforces the token whitelist for a resolved token on the
// active chain.
func (e *EVM) checkToken(addr ethcommon.Address) error {
	if !e.wl.IsTokenWhitelisted(addr.Hex(), e.network.GetChainID()) {
		return fmt.Errorf("%s: %w", addr.Hex(), ErrTokenNotWhitelisted)
	}
	return nil
}

// argKind says which whitelist gate applies to one operation argument.
type argKind int

const (
	argNone      argKind = iota // resolved only, infrastructure contracts
	argToken                    // token-whitelisted on the active chain
	argRecipient                // whitelisted wallet
)

// gatedArg describes one argument of a guarded operation: how to resolve
// it, which gate it must pass, and which whole-unit amounts are scaled
// by its decimals.
type gatedArg struct {
	identifier string
	kind       argKind
	contract   bool // fixed addressbook name, absence means not deployed here
	amounts    []string
}

type resolvedArg struct {
	addr    ethcommon.Address
	amounts []*big.Int
}

// preflight is the shared head of every guarded operation. It resolves
// all identifiers, applies the whitelist gates in declaration order and
// scales the whole-unit amounts by each token's live decimals. Nothing
// chain-mutating happens here, a failed preflight is always safe to
// retry after fixing the input.
func (e *EVM) preflight(args []gatedArg) ([]resolvedArg, error) {
	resolved := make([]resolvedArg, len(args))
	for i, a := range args {
		var addr ethcommon.Address
		var err error
		if a.contract {
			addr, err = e.contractAddress(a.identifier)
		} else {
			addr, err = e.Resolve(a.identifier)
		}
		if err != nil {
			return nil, err
		}
		resolved[i].addr = addr
	}
	for i, a := range args {
		var err error
		switch a.kind {
		case argToken:
			err = e.checkToken(resolved[i].addr)
		case argRecipient:
			err = e.checkRecipient(resolved[i].addr)
		}
		if err != nil {
			return nil, err
		}
	}
	for i, a := range args {
		for _, amount := range a.amounts {
			scaled, err := e.scaledAmount(resolved[i].addr, amount)
			if err != nil {
				return nil, err
			}
			resolved[i].amounts = append(resolved[i].amounts, scaled)
		}
	}
	return resolved, nil
}

// isRevertError tells an execution revert apart from a transport
// failure. Nodes report estimation reverts in the error message, a
// down node errors at the connection level.
func isRevertError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "execution reverted") ||
		strings.Contains(msg, "always failing transaction")
}

// txRequest is a fully resolved, whitelist-cleared transaction waiting
// for gas, nonce and signature.
type txRequest struct {
	to    ethcommon.Address
	value *big.Int
	data  []byte
}

// submitAndWait runs the shared tail of every mutating operation: fetch
// nonce and gas, estimate the limit, build, sign, broadcast and block
// until the tx settles.
func (e *EVM) submitAndWait(req txRequest) (common.TxInfo, error) {
	signer, err := e.ensureSigner()
	if err != nil {
		return common.TxInfo{}, err
	}
	from := signer.Address()

	nonce, err := e.reader.GetPendingNonce(from.Hex())
	if err != nil {
		return common.TxInfo{}, &common.ChainCallError{Op: "get nonce", Err: err}
	}
	priceGwei, tipGwei, err := e.reader.GetGasSettings()
	if err != nil {
		return common.TxInfo{}, &common.ChainCallError{Op: "get gas settings", Err: err}
	}
	if e.cfg.GasTipGwei > 0 {
		tipGwei = e.cfg.GasTipGwei
	}
	gasLimit, err := e.reader.EstimateExactGas(from.Hex(), req.to.Hex(), priceGwei, req.value, req.data)
	if err != nil {
		return common.TxInfo{}, &common.ChainCallError{Op: "estimate gas", Reverted: isRevertError(err), Err: err}
	}
	// headroom over the estimate so state drift between estimation and
	// inclusion doesn't run the tx out of gas
	gasLimit = gasLimit * 120 / 100

	tx := common.BuildExactTx(
		nonce, req.to.Hex(), req.value, gasLimit,
		priceGwei, tipGwei,
		req.data, e.cfg.TxType, e.network.GetChainID(),
	)
	signedTx, err := signer.SignTx(tx, new(big.Int).SetUint64(e.network.GetChainID()))
	if err != nil {
		return common.TxInfo{}, fmt.Errorf("couldn't sign tx: %w", err)
	}
	hash, broadcasted, err := e.broadcaster.BroadcastTx(signedTx)
	if !broadcasted {
		return common.TxInfo{}, &common.ChainCallError{Op: "broadcast", Err: err}
	}
	info := e.monitor.BlockingWait(hash)
	if info.Status == common.TxStatusReverted {
		return info, &common.ChainCallError{Op: "execute", Reverted: true, Err: fmt.Errorf("tx %s reverted", hash)}
	}
	if info.Status == common.TxStatusLost {
		return info, &common.ChainCallError{Op: "execute", Err: fmt.Errorf("tx %s was dropped from the mempool", hash)}
	}
	return info, nil
}

// CurrentBlock returns the chain head number.
func (e *EVM) CurrentBlock() (uint64, error) {
	return e.reader.CurrentBlock()
}

// RecommendedGasPrice returns the current gas price suggestion in gwei.
func (e *EVM) RecommendedGasPrice() (float64, error) {
	return e.reader.RecommendedGasPrice()
}

// Balance returns the native token balance of an identifier in wei.
func (e *EVM) Balance(identifier string) (*big.Int, error) {
	addr, err := e.Resolve(identifier)
	if err != nil {
		return nil, err
	}
	return e.reader.GetBalance(addr.Hex())
}

// Nonce returns the next pending nonce of an identifier.
func (e *EVM) Nonce(identifier string) (uint64, error) {
	addr, err := e.Resolve(identifier)
	if err != nil {
		return 0, err
	}
	return e.reader.GetPendingNonce(addr.Hex())
}

// BlockByNumber returns a full block.
func (e *EVM) BlockByNumber(number int64) (*types.Block, error) {
	return e.reader.BlockByNumber(number)
}

// TxInfo returns the current status of a tx hash.
func (e *EVM) TxInfo(hash string) common.TxInfo {
	return e.reader.TxInfoFromHash(hash)
}

// ERC20Balance returns the token balance of a wallet, both given as
// identifiers.
func (e *EVM) ERC20Balance(token, wallet string) (*big.Int, error) {
	tokenAddr, err := e.Resolve(token)
	if err != nil {
		return nil, err
	}
	walletAddr, err := e.Resolve(wallet)
	if err != nil {
		return nil, err
	}
	return e.reader.ERC20Balance(tokenAddr.Hex(), walletAddr.Hex())
}
