package evm

import (
	"fmt"
	"math/big"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/aldernet/warden/common"
)

// approve grants the spender an allowance and waits for the approval to
// be mined before the follow-up tx is built. Skipped when the current
// allowance already covers the amount.
func (e *EVM) approve(token, spender ethcommon.Address, amount *big.Int) error {
	signer, err := e.ensureSigner()
	if err != nil {
		return err
	}
	allowance, err := e.reader.ERC20Allowance(token.Hex(), signer.Address().Hex(), spender.Hex())
	if err != nil {
		return &common.ChainCallError{Op: "read allowance", Err: err}
	}
	if allowance.Cmp(amount) >= 0 {
		return nil
	}
	data, err := common.PackERC20Data("approve", spender, amount)
	if err != nil {
		return fmt.Errorf("couldn't pack approve data: %w", err)
	}
	_, err = e.submitAndWait(txRequest{
		to:    token,
		value: big.NewInt(0),
		data:  data,
	})
	return err
}

// scaledAmount reads a token's live decimals and scales a whole-unit
// amount string to base units.
func (e *EVM) scaledAmount(token ethcommon.Address, amount string) (*big.Int, error) {
	decimals, err := e.reader.ERC20Decimal(token.Hex())
	if err != nil {
		return nil, &common.ChainCallError{Op: "read decimals", Err: err}
	}
	return common.ScaleToBase(amount, decimals)
}

// maxDeadline disables the router's deadline check. Swaps are submitted
// and awaited in one invocation, so a tight deadline buys nothing.
var maxDeadline = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// exactInputParams mirrors the V3 router's ExactInputParams tuple.
type exactInputParams struct {
	Path             []byte
	Recipient        ethcommon.Address
	Deadline         *big.Int
	AmountIn         *big.Int
	AmountOutMinimum *big.Int
}

// v3Path encodes a single-hop V3 swap path: tokenIn, the fee tier as a
// 3-byte big-endian integer, tokenOut.
func v3Path(tokenIn, tokenOut ethcommon.Address, feeTier uint64) []byte {
	path := make([]byte, 0, 43)
	path = append(path, tokenIn.Bytes()...)
	path = append(path, byte(feeTier>>16), byte(feeTier>>8), byte(feeTier))
	path = append(path, tokenOut.Bytes()...)
	return path
}

// SwapTokensV3 swaps an exact whole-unit amount of tokenIn for at least
// amountOutMin of tokenOut through the V3 router. Both tokens and the
// recipient must be whitelisted. Amounts are scaled by each token's
// live on-chain decimals, so "5" with a 6-decimal token means 5000000
// base units.
func (e *EVM) SwapTokensV3(tokenIn, tokenOut, recipient, amountIn, amountOutMin string) (common.TxInfo, error) {
	args, err := e.preflight([]gatedArg{
		{identifier: tokenIn, kind: argToken, amounts: []string{amountIn}},
		{identifier: tokenOut, kind: argToken, amounts: []string{amountOutMin}},
		{identifier: recipient, kind: argRecipient},
		{identifier: "uniswap_v3_router", contract: true},
	})
	if err != nil {
		return common.TxInfo{}, err
	}
	inAddr, outAddr, toAddr, router := args[0].addr, args[1].addr, args[2].addr, args[3].addr
	amountInBase, amountOutMinBase := args[0].amounts[0], args[1].amounts[0]

	if err = e.approve(inAddr, router, amountInBase); err != nil {
		return common.TxInfo{}, err
	}

	data, err := common.GetUniswapV3RouterABI().Pack("exactInput", exactInputParams{
		Path:             v3Path(inAddr, outAddr, e.cfg.V3FeeTier),
		Recipient:        toAddr,
		Deadline:         maxDeadline,
		AmountIn:         amountInBase,
		AmountOutMinimum: amountOutMinBase,
	})
	if err != nil {
		return common.TxInfo{}, fmt.Errorf("couldn't pack exactInput data: %w", err)
	}
	return e.submitAndWait(txRequest{
		to:    router,
		value: big.NewInt(0),
		data:  data,
	})
}

type pairReserves struct {
	Reserve0           *big.Int
	Reserve1           *big.Int
	BlockTimestampLast uint32
}

// quoteV2 computes the tokenB amount matching an exact tokenA amount at
// the pool's current reserve ratio. An empty pool takes any ratio, so
// the tokenA amount is mirrored. Division truncates, matching the
// pool's own quote math.
func quoteV2(amountA, reserveA, reserveB *big.Int) *big.Int {
	if reserveA.Sign() == 0 || reserveB.Sign() == 0 {
		return new(big.Int).Set(amountA)
	}
	return new(big.Int).Div(new(big.Int).Mul(amountA, reserveB), reserveA)
}

// applySlippageFloor reduces an amount by the configured tolerance in
// basis points, truncating.
func applySlippageFloor(amount *big.Int, bps uint64) *big.Int {
	keep := new(big.Int).SetUint64(10000 - bps)
	return new(big.Int).Div(new(big.Int).Mul(amount, keep), big.NewInt(10000))
}

// AddLiquidityV2 supplies liquidity to the V2 pair of two whitelisted
// tokens. The caller picks the whole-unit tokenA amounts, the matching
// tokenB amount comes from the pool's reserve ratio with the configured
// slippage tolerance as its floor. A zero deadline means the configured
// default counted from now.
func (e *EVM) AddLiquidityV2(tokenA, tokenB, amountADesired, amountAMin, to string, deadline uint64) (common.TxInfo, error) {
	args, err := e.preflight([]gatedArg{
		{identifier: tokenA, kind: argToken, amounts: []string{amountADesired, amountAMin}},
		{identifier: tokenB, kind: argToken},
		{identifier: to, kind: argRecipient},
		{identifier: "uniswap_v2_factory", contract: true},
		{identifier: "uniswap_v2_router", contract: true},
	})
	if err != nil {
		return common.TxInfo{}, err
	}
	aAddr, bAddr, toAddr := args[0].addr, args[1].addr, args[2].addr
	factory, router := args[3].addr, args[4].addr
	amountABase, amountAMinBase := args[0].amounts[0], args[0].amounts[1]

	var pair ethcommon.Address
	err = e.reader.ReadContractWithABI(&pair, factory.Hex(), common.GetUniswapV2FactoryABI(), "getPair", aAddr, bAddr)
	if err != nil {
		return common.TxInfo{}, &common.ChainCallError{Op: "get pair", Err: err}
	}
	if pair == (ethcommon.Address{}) {
		return common.TxInfo{}, fmt.Errorf("%s/%s: %w", tokenA, tokenB, ErrPoolNotFound)
	}

	// getReserves orders by token0/token1, not by our argument order
	var token0 ethcommon.Address
	err = e.reader.ReadContractWithABI(&token0, pair.Hex(), common.GetUniswapV2PairABI(), "token0")
	if err != nil {
		return common.TxInfo{}, &common.ChainCallError{Op: "read token0", Err: err}
	}
	reserves := pairReserves{}
	err = e.reader.ReadContractWithABI(&reserves, pair.Hex(), common.GetUniswapV2PairABI(), "getReserves")
	if err != nil {
		return common.TxInfo{}, &common.ChainCallError{Op: "read reserves", Err: err}
	}
	reserveA, reserveB := reserves.Reserve0, reserves.Reserve1
	if token0 != aAddr {
		reserveA, reserveB = reserves.Reserve1, reserves.Reserve0
	}

	amountBBase := quoteV2(amountABase, reserveA, reserveB)
	amountBMinBase := applySlippageFloor(amountBBase, e.cfg.LiquiditySlippageBps)

	if err = e.approve(aAddr, router, amountABase); err != nil {
		return common.TxInfo{}, err
	}
	if err = e.approve(bAddr, router, amountBBase); err != nil {
		return common.TxInfo{}, err
	}

	if deadline == 0 {
		deadline = uint64(time.Now().Unix()) + e.cfg.DeadlineSeconds
	}
	data, err := common.GetUniswapV2RouterABI().Pack(
		"addLiquidity",
		aAddr, bAddr,
		amountABase, amountBBase,
		amountAMinBase, amountBMinBase,
		toAddr,
		new(big.Int).SetUint64(deadline),
	)
	if err != nil {
		return common.TxInfo{}, fmt.Errorf("couldn't pack addLiquidity data: %w", err)
	}
	return e.submitAndWait(txRequest{
		to:    router,
		value: big.NewInt(0),
		data:  data,
	})
}
