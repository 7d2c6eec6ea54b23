package evm

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldernet/warden/account"
	"github.com/aldernet/warden/common"
	"github.com/aldernet/warden/config"
	"github.com/aldernet/warden/networks"
	"github.com/aldernet/warden/resolver"
	"github.com/aldernet/warden/whitelist"
)

const (
	addrAlice   = "0x1111111111111111111111111111111111111111"
	addrTokenA  = "0x3333333333333333333333333333333333333333"
	addrTokenB  = "0x4444444444444444444444444444444444444444"
	addrPair    = "0x5555555555555555555555555555555555555555"
	wethMainnet = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
)

// fakeReader scripts the read side of the chain. Mutating calls never
// reach it, those go through the broadcaster.
type fakeReader struct {
	decimals    map[string]uint64
	pair        ethcommon.Address
	token0      ethcommon.Address
	reserves    pairReserves
	estimateErr error
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		decimals: map[string]uint64{},
		reserves: pairReserves{Reserve0: big.NewInt(0), Reserve1: big.NewInt(0)},
	}
}

func (f *fakeReader) GetBalance(address string) (*big.Int, error)    { return big.NewInt(0), nil }
func (f *fakeReader) GetPendingNonce(address string) (uint64, error) { return 0, nil }
func (f *fakeReader) GetGasSettings() (float64, float64, error)      { return 10, 1, nil }
func (f *fakeReader) EstimateExactGas(from, to string, priceGwei float64, value *big.Int, data []byte) (uint64, error) {
	if f.estimateErr != nil {
		return 0, f.estimateErr
	}
	return 100000, nil
}
func (f *fakeReader) ERC20Decimal(token string) (uint64, error) {
	if d, found := f.decimals[ethcommon.HexToAddress(token).Hex()]; found {
		return d, nil
	}
	return 18, nil
}
func (f *fakeReader) ERC20Symbol(token string) (string, error) { return "TEST", nil }
func (f *fakeReader) ERC20Balance(token, wallet string) (*big.Int, error) {
	return big.NewInt(0), nil
}
func (f *fakeReader) ERC20Allowance(token, owner, spender string) (*big.Int, error) {
	return big.NewInt(0), nil
}
func (f *fakeReader) ReadContractWithABI(result interface{}, caddr string, a *abi.ABI, method string, args ...interface{}) error {
	switch method {
	case "getPair":
		*(result.(*ethcommon.Address)) = f.pair
	case "token0":
		*(result.(*ethcommon.Address)) = f.token0
	case "getReserves":
		*(result.(*pairReserves)) = f.reserves
	default:
		return fmt.Errorf("unexpected contract read %s", method)
	}
	return nil
}
func (f *fakeReader) CurrentBlock() (uint64, error)                    { return 1, nil }
func (f *fakeReader) BlockByNumber(number int64) (*types.Block, error) { return nil, nil }
func (f *fakeReader) TxInfoFromHash(hash string) common.TxInfo {
	return common.TxInfo{Status: common.TxStatusDone}
}
func (f *fakeReader) RecommendedGasPrice() (float64, error) { return 10, nil }

// fakeBroadcaster records every signed tx instead of sending it.
type fakeBroadcaster struct {
	txs []*types.Transaction
}

func (f *fakeBroadcaster) BroadcastTx(tx *types.Transaction) (string, bool, error) {
	f.txs = append(f.txs, tx)
	return tx.Hash().Hex(), true, nil
}

type fakeMonitor struct{}

func (f fakeMonitor) BlockingWait(hash string) common.TxInfo {
	return common.TxInfo{Status: common.TxStatusDone}
}

func testConfig() *config.Config {
	return &config.Config{
		Network:              "mainnet",
		TxType:               common.TxTypeLegacy,
		V3FeeTier:            3000,
		LiquiditySlippageBps: 500,
		DeadlineSeconds:      3600,
	}
}

func newTestEVM(t *testing.T, wl *whitelist.Store, reader *fakeReader) (*EVM, *fakeBroadcaster) {
	t.Helper()
	network, err := networks.GetNetwork("mainnet")
	require.NoError(t, err)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	bc := &fakeBroadcaster{}
	e := NewWithBackend(network, testConfig(), wl, reader, bc, fakeMonitor{}, account.NewKeySigner(key))
	return e, bc
}

func TestSendETHToWhitelistedWallet(t *testing.T) {
	wl := whitelist.NewStore()
	require.NoError(t, wl.AddWallet(addrAlice, "alice"))
	e, bc := newTestEVM(t, wl, newFakeReader())

	info, err := e.SendETH("alice", big.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, common.TxStatusDone, info.Status)

	require.Len(t, bc.txs, 1)
	tx := bc.txs[0]
	assert.Equal(t, ethcommon.HexToAddress(addrAlice), *tx.To())
	assert.Equal(t, big.NewInt(1000), tx.Value())
}

func TestSendETHRefusedWhenRecipientNotWhitelisted(t *testing.T) {
	wl := whitelist.NewStore()
	require.NoError(t, wl.AddWallet(addrAlice, "alice"))
	wl.RemoveWallet(addrAlice)
	e, bc := newTestEVM(t, wl, newFakeReader())

	_, err := e.SendETH(addrAlice, big.NewInt(1000))
	assert.ErrorIs(t, err, ErrRecipientNotWhitelisted)
	assert.Empty(t, bc.txs, "no tx may be built once a whitelist check fails")
}

func TestSendERC20ChecksTokenBeforeRecipient(t *testing.T) {
	reader := newFakeReader()

	// nothing whitelisted: token check fires first
	e, bc := newTestEVM(t, whitelist.NewStore(), reader)
	_, err := e.SendERC20(addrTokenA, addrAlice, big.NewInt(10))
	assert.ErrorIs(t, err, ErrTokenNotWhitelisted)
	assert.Empty(t, bc.txs)

	// token whitelisted, recipient still missing
	wl := whitelist.NewStore()
	require.NoError(t, wl.AddToken(addrTokenA, 1, "", reader))
	e, bc = newTestEVM(t, wl, reader)
	_, err = e.SendERC20(addrTokenA, addrAlice, big.NewInt(10))
	assert.ErrorIs(t, err, ErrRecipientNotWhitelisted)
	assert.Empty(t, bc.txs)
}

func TestSendERC20TakesRawBaseUnits(t *testing.T) {
	reader := newFakeReader()
	reader.decimals[ethcommon.HexToAddress(addrTokenA).Hex()] = 6

	wl := whitelist.NewStore()
	require.NoError(t, wl.AddToken(addrTokenA, 1, "", reader))
	require.NoError(t, wl.AddWallet(addrAlice, "alice"))
	e, bc := newTestEVM(t, wl, reader)

	_, err := e.SendERC20(addrTokenA, "alice", big.NewInt(1000))
	require.NoError(t, err)

	require.Len(t, bc.txs, 1)
	tx := bc.txs[0]
	assert.Equal(t, ethcommon.HexToAddress(addrTokenA), *tx.To())

	method := common.GetERC20ABI().Methods["transfer"]
	require.Equal(t, method.ID, tx.Data()[:4])
	args, err := method.Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, ethcommon.HexToAddress(addrAlice), args[0].(ethcommon.Address))
	// 1000 stays 1000, the amount was already in base units
	assert.Equal(t, big.NewInt(1000), args[1].(*big.Int))
}

func TestWrapETHRequiresWhitelistedWETH(t *testing.T) {
	reader := newFakeReader()
	e, bc := newTestEVM(t, whitelist.NewStore(), reader)

	_, err := e.WrapETH(big.NewInt(5000))
	assert.ErrorIs(t, err, ErrTokenNotWhitelisted)
	assert.Empty(t, bc.txs)

	wl := whitelist.NewStore()
	require.NoError(t, wl.AddToken(wethMainnet, 1, "wrapped ether", reader))
	e, bc = newTestEVM(t, wl, reader)

	_, err = e.WrapETH(big.NewInt(5000))
	require.NoError(t, err)
	require.Len(t, bc.txs, 1)
	tx := bc.txs[0]
	assert.Equal(t, ethcommon.HexToAddress(wethMainnet), *tx.To())
	assert.Equal(t, big.NewInt(5000), tx.Value())
	assert.Equal(t, common.GetWETHABI().Methods["deposit"].ID, tx.Data()[:4])
}

// A wallet named after the canonical contract must not redirect the
// deposit, infrastructure contracts come from the addressbook only.
func TestWrapETHIgnoresWalletNamedWeth(t *testing.T) {
	reader := newFakeReader()
	wl := whitelist.NewStore()
	require.NoError(t, wl.AddWallet(addrAlice, "weth"))
	require.NoError(t, wl.AddToken(wethMainnet, 1, "", reader))
	e, bc := newTestEVM(t, wl, reader)

	_, err := e.WrapETH(big.NewInt(5000))
	require.NoError(t, err)
	require.Len(t, bc.txs, 1)
	assert.Equal(t, ethcommon.HexToAddress(wethMainnet), *bc.txs[0].To())
}

func TestSwapV3RouterIgnoresWalletNamedAfterIt(t *testing.T) {
	reader := newFakeReader()
	wl := whitelist.NewStore()
	require.NoError(t, wl.AddWallet(addrAlice, "uniswap_v3_router"))
	require.NoError(t, wl.AddToken(addrTokenA, 1, "", reader))
	require.NoError(t, wl.AddToken(addrTokenB, 1, "", reader))
	e, bc := newTestEVM(t, wl, reader)

	_, err := e.SwapTokensV3(addrTokenA, addrTokenB, addrAlice, "5", "0")
	require.NoError(t, err)
	require.Len(t, bc.txs, 2)

	router := ethcommon.HexToAddress("0xE592427A0AEce92De3Edee1F18E0157C05861564")
	args, err := common.GetERC20ABI().Methods["approve"].Inputs.Unpack(bc.txs[0].Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, router, args[0].(ethcommon.Address), "approval spender is the canonical router")
	assert.Equal(t, router, *bc.txs[1].To(), "swap goes to the canonical router")
}

// A nameless whitelisted wallet must not make a blank recipient valid.
func TestSendETHRejectsBlankRecipient(t *testing.T) {
	wl := whitelist.NewStore()
	require.NoError(t, wl.AddWallet(addrAlice, ""))
	e, bc := newTestEVM(t, wl, newFakeReader())

	_, err := e.SendETH("", big.NewInt(1000))
	unresolved := &resolver.UnresolvedIdentifierError{}
	assert.ErrorAs(t, err, &unresolved)
	assert.Empty(t, bc.txs)
}

func TestEstimateGasErrorClassification(t *testing.T) {
	wl := whitelist.NewStore()
	require.NoError(t, wl.AddWallet(addrAlice, "alice"))
	callErr := &common.ChainCallError{}

	reader := newFakeReader()
	reader.estimateErr = errors.New("connection refused")
	e, bc := newTestEVM(t, wl, reader)
	_, err := e.SendETH("alice", big.NewInt(1000))
	require.ErrorAs(t, err, &callErr)
	assert.False(t, callErr.Reverted, "a transport failure is not a revert")
	assert.Empty(t, bc.txs)

	reader = newFakeReader()
	reader.estimateErr = errors.New("execution reverted: transfer amount exceeds balance")
	e, bc = newTestEVM(t, wl, reader)
	_, err = e.SendETH("alice", big.NewInt(1000))
	require.ErrorAs(t, err, &callErr)
	assert.True(t, callErr.Reverted)
	assert.Empty(t, bc.txs)
}

func TestSwapV3ChecksTokensThenRecipient(t *testing.T) {
	reader := newFakeReader()

	// token_in missing
	e, bc := newTestEVM(t, whitelist.NewStore(), reader)
	_, err := e.SwapTokensV3(addrTokenA, addrTokenB, addrAlice, "5", "1")
	assert.ErrorIs(t, err, ErrTokenNotWhitelisted)
	assert.Contains(t, err.Error(), ethcommon.HexToAddress(addrTokenA).Hex())
	assert.Empty(t, bc.txs)

	// token_in whitelisted, token_out missing
	wl := whitelist.NewStore()
	require.NoError(t, wl.AddToken(addrTokenA, 1, "", reader))
	e, bc = newTestEVM(t, wl, reader)
	_, err = e.SwapTokensV3(addrTokenA, addrTokenB, addrAlice, "5", "1")
	assert.ErrorIs(t, err, ErrTokenNotWhitelisted)
	assert.Contains(t, err.Error(), ethcommon.HexToAddress(addrTokenB).Hex())
	assert.Empty(t, bc.txs)

	// both tokens whitelisted, recipient missing
	require.NoError(t, wl.AddToken(addrTokenB, 1, "", reader))
	e, bc = newTestEVM(t, wl, reader)
	_, err = e.SwapTokensV3(addrTokenA, addrTokenB, addrAlice, "5", "1")
	assert.ErrorIs(t, err, ErrRecipientNotWhitelisted)
	assert.Empty(t, bc.txs)
}

func TestSwapV3ApprovesThenSwaps(t *testing.T) {
	reader := newFakeReader()
	tokenIn := ethcommon.HexToAddress(addrTokenA)
	tokenOut := ethcommon.HexToAddress(addrTokenB)
	reader.decimals[tokenIn.Hex()] = 6
	reader.decimals[tokenOut.Hex()] = 18

	wl := whitelist.NewStore()
	require.NoError(t, wl.AddToken(addrTokenA, 1, "", reader))
	require.NoError(t, wl.AddToken(addrTokenB, 1, "", reader))
	require.NoError(t, wl.AddWallet(addrAlice, "alice"))
	e, bc := newTestEVM(t, wl, reader)

	_, err := e.SwapTokensV3(addrTokenA, addrTokenB, "alice", "5", "1")
	require.NoError(t, err)
	require.Len(t, bc.txs, 2, "one approval, then the swap")

	router := ethcommon.HexToAddress("0xE592427A0AEce92De3Edee1F18E0157C05861564")

	// approval first, to the input token, granting the router 5 * 10^6
	approval := bc.txs[0]
	assert.Equal(t, tokenIn, *approval.To())
	approveMethod := common.GetERC20ABI().Methods["approve"]
	require.Equal(t, approveMethod.ID, approval.Data()[:4])
	args, err := approveMethod.Inputs.Unpack(approval.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, router, args[0].(ethcommon.Address))
	assert.Equal(t, big.NewInt(5000000), args[1].(*big.Int))

	// then the swap, with amounts scaled per token decimals
	swap := bc.txs[1]
	assert.Equal(t, router, *swap.To())
	expected, err := common.GetUniswapV3RouterABI().Pack("exactInput", exactInputParams{
		Path:             v3Path(tokenIn, tokenOut, 3000),
		Recipient:        ethcommon.HexToAddress(addrAlice),
		Deadline:         maxDeadline,
		AmountIn:         big.NewInt(5000000),
		AmountOutMinimum: new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil),
	})
	require.NoError(t, err)
	assert.Equal(t, expected, swap.Data())
}

func TestV3PathEncoding(t *testing.T) {
	tokenIn := ethcommon.HexToAddress(addrTokenA)
	tokenOut := ethcommon.HexToAddress(addrTokenB)

	path := v3Path(tokenIn, tokenOut, 3000)
	require.Len(t, path, 43)
	assert.Equal(t, tokenIn.Bytes(), path[:20])
	assert.Equal(t, []byte{0x00, 0x0b, 0xb8}, path[20:23], "3000 as 3-byte big endian")
	assert.Equal(t, tokenOut.Bytes(), path[23:])

	path = v3Path(tokenIn, tokenOut, 500)
	assert.Equal(t, []byte{0x00, 0x01, 0xf4}, path[20:23])
}

func TestQuoteV2(t *testing.T) {
	// empty pool takes any ratio
	assert.Equal(t, big.NewInt(10), quoteV2(big.NewInt(10), big.NewInt(0), big.NewInt(0)))

	assert.Equal(t, big.NewInt(30), quoteV2(big.NewInt(10), big.NewInt(100), big.NewInt(300)))

	// integer division truncates, 5*22/7 = 15.71... -> 15
	assert.Equal(t, big.NewInt(15), quoteV2(big.NewInt(5), big.NewInt(7), big.NewInt(22)))
}

func TestApplySlippageFloor(t *testing.T) {
	// 30 * 9500 / 10000 = 28.5 -> 28
	assert.Equal(t, big.NewInt(28), applySlippageFloor(big.NewInt(30), 500))
	assert.Equal(t, big.NewInt(100), applySlippageFloor(big.NewInt(100), 0))
	assert.Equal(t, big.NewInt(0), applySlippageFloor(big.NewInt(100), 10000))
}

func liquidityWhitelist(t *testing.T, reader *fakeReader) *whitelist.Store {
	t.Helper()
	wl := whitelist.NewStore()
	require.NoError(t, wl.AddToken(addrTokenA, 1, "", reader))
	require.NoError(t, wl.AddToken(addrTokenB, 1, "", reader))
	require.NoError(t, wl.AddWallet(addrAlice, "alice"))
	return wl
}

func TestAddLiquidityPoolNotFound(t *testing.T) {
	reader := newFakeReader()
	// pair stays the zero address
	e, bc := newTestEVM(t, liquidityWhitelist(t, reader), reader)

	_, err := e.AddLiquidityV2(addrTokenA, addrTokenB, "10", "9", "alice", 0)
	assert.ErrorIs(t, err, ErrPoolNotFound)
	assert.Empty(t, bc.txs)
}

func TestAddLiquidityApprovalsAndAmounts(t *testing.T) {
	reader := newFakeReader()
	tokenA := ethcommon.HexToAddress(addrTokenA)
	tokenB := ethcommon.HexToAddress(addrTokenB)
	reader.decimals[tokenA.Hex()] = 0
	reader.pair = ethcommon.HexToAddress(addrPair)
	reader.token0 = tokenA
	reader.reserves = pairReserves{Reserve0: big.NewInt(100), Reserve1: big.NewInt(300)}

	e, bc := newTestEVM(t, liquidityWhitelist(t, reader), reader)
	_, err := e.AddLiquidityV2(addrTokenA, addrTokenB, "10", "9", "alice", 7777)
	require.NoError(t, err)
	require.Len(t, bc.txs, 3, "approve A, approve B, addLiquidity")

	router := ethcommon.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	approveMethod := common.GetERC20ABI().Methods["approve"]

	assert.Equal(t, tokenA, *bc.txs[0].To())
	args, err := approveMethod.Inputs.Unpack(bc.txs[0].Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, router, args[0].(ethcommon.Address))
	assert.Equal(t, big.NewInt(10), args[1].(*big.Int))

	assert.Equal(t, tokenB, *bc.txs[1].To())
	args, err = approveMethod.Inputs.Unpack(bc.txs[1].Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(30), args[1].(*big.Int), "derived from the 100:300 reserve ratio")

	liq := bc.txs[2]
	assert.Equal(t, router, *liq.To())
	liqMethod := common.GetUniswapV2RouterABI().Methods["addLiquidity"]
	require.Equal(t, liqMethod.ID, liq.Data()[:4])
	args, err = liqMethod.Inputs.Unpack(liq.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, tokenA, args[0].(ethcommon.Address))
	assert.Equal(t, tokenB, args[1].(ethcommon.Address))
	assert.Equal(t, big.NewInt(10), args[2].(*big.Int), "amountADesired")
	assert.Equal(t, big.NewInt(30), args[3].(*big.Int), "amountBDesired")
	assert.Equal(t, big.NewInt(9), args[4].(*big.Int), "amountAMin from the caller")
	assert.Equal(t, big.NewInt(28), args[5].(*big.Int), "amountBMin = floor(30*9500/10000)")
	assert.Equal(t, ethcommon.HexToAddress(addrAlice), args[6].(ethcommon.Address))
	assert.Equal(t, big.NewInt(7777), args[7].(*big.Int), "caller deadline honored")
}

func TestAddLiquidityOrientsReservesByToken0(t *testing.T) {
	reader := newFakeReader()
	tokenA := ethcommon.HexToAddress(addrTokenA)
	tokenB := ethcommon.HexToAddress(addrTokenB)
	reader.decimals[tokenA.Hex()] = 0
	reader.pair = ethcommon.HexToAddress(addrPair)
	// token0 is tokenB, so reserve0 belongs to B
	reader.token0 = tokenB
	reader.reserves = pairReserves{Reserve0: big.NewInt(300), Reserve1: big.NewInt(100)}

	e, bc := newTestEVM(t, liquidityWhitelist(t, reader), reader)
	_, err := e.AddLiquidityV2(addrTokenA, addrTokenB, "10", "9", "alice", 7777)
	require.NoError(t, err)
	require.Len(t, bc.txs, 3)

	liqMethod := common.GetUniswapV2RouterABI().Methods["addLiquidity"]
	args, err := liqMethod.Inputs.Unpack(bc.txs[2].Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(30), args[3].(*big.Int), "same ratio after reorienting reserves")
}

func TestAddLiquidityEmptyPoolMirrorsAmount(t *testing.T) {
	reader := newFakeReader()
	tokenA := ethcommon.HexToAddress(addrTokenA)
	reader.decimals[tokenA.Hex()] = 0
	reader.pair = ethcommon.HexToAddress(addrPair)
	reader.token0 = tokenA

	e, bc := newTestEVM(t, liquidityWhitelist(t, reader), reader)
	_, err := e.AddLiquidityV2(addrTokenA, addrTokenB, "10", "9", "alice", 7777)
	require.NoError(t, err)
	require.Len(t, bc.txs, 3)

	liqMethod := common.GetUniswapV2RouterABI().Methods["addLiquidity"]
	args, err := liqMethod.Inputs.Unpack(bc.txs[2].Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), args[3].(*big.Int), "empty pool mirrors amountADesired")
}

func TestAddLiquidityUnsupportedChain(t *testing.T) {
	reader := newFakeReader()
	network, err := networks.GetNetwork("sepolia")
	require.NoError(t, err)

	wl := whitelist.NewStore()
	require.NoError(t, wl.AddToken(addrTokenA, network.GetChainID(), "", reader))
	require.NoError(t, wl.AddToken(addrTokenB, network.GetChainID(), "", reader))
	require.NoError(t, wl.AddWallet(addrAlice, "alice"))

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	bc := &fakeBroadcaster{}
	e := NewWithBackend(network, testConfig(), wl, reader, bc, fakeMonitor{}, account.NewKeySigner(key))

	// no V2 factory in the addressbook for sepolia
	_, err = e.AddLiquidityV2(addrTokenA, addrTokenB, "10", "9", "alice", 0)
	assert.ErrorIs(t, err, ErrContractNotDeployed)
	assert.Empty(t, bc.txs)
}

func TestResolveGoesThroughWholeChain(t *testing.T) {
	wl := whitelist.NewStore()
	require.NoError(t, wl.AddWallet(addrAlice, "alice"))
	e, _ := newTestEVM(t, wl, newFakeReader())

	addr, err := e.Resolve("alice")
	require.NoError(t, err)
	assert.Equal(t, ethcommon.HexToAddress(addrAlice), addr)

	addr, err = e.Resolve("weth")
	require.NoError(t, err)
	assert.Equal(t, ethcommon.HexToAddress(wethMainnet), addr)
}
