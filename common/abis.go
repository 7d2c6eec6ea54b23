package common

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ABI fragments for the contracts the guarded operations drive. Kept to
// the methods we actually call.
const erc20abi = `[
	{"name":"name","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"name":"symbol","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"name":"decimals","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"name":"totalSupply","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"balanceOf","type":"function","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"allowance","type":"function","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"transfer","type":"function","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"name":"transferFrom","type":"function","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"name":"approve","type":"function","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

const wethabi = `[
	{"name":"deposit","type":"function","stateMutability":"payable","inputs":[],"outputs":[]},
	{"name":"withdraw","type":"function","stateMutability":"nonpayable","inputs":[{"name":"wad","type":"uint256"}],"outputs":[]}
]`

const uniswapV2FactoryABI = `[
	{"name":"getPair","type":"function","stateMutability":"view","inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"}],"outputs":[{"name":"pair","type":"address"}]}
]`

const uniswapV2PairABI = `[
	{"name":"token0","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"name":"token1","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"name":"getReserves","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"reserve0","type":"uint112"},{"name":"reserve1","type":"uint112"},{"name":"blockTimestampLast","type":"uint32"}]}
]`

const uniswapV2RouterABI = `[
	{"name":"addLiquidity","type":"function","stateMutability":"nonpayable","inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"},{"name":"amountADesired","type":"uint256"},{"name":"amountBDesired","type":"uint256"},{"name":"amountAMin","type":"uint256"},{"name":"amountBMin","type":"uint256"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"outputs":[{"name":"amountA","type":"uint256"},{"name":"amountB","type":"uint256"},{"name":"liquidity","type":"uint256"}]}
]`

const uniswapV3RouterABI = `[
	{"name":"exactInput","type":"function","stateMutability":"payable","inputs":[{"name":"params","type":"tuple","components":[{"name":"path","type":"bytes"},{"name":"recipient","type":"address"},{"name":"deadline","type":"uint256"},{"name":"amountIn","type":"uint256"},{"name":"amountOutMinimum","type":"uint256"}]}],"outputs":[{"name":"amountOut","type":"uint256"}]}
]`

func GetERC20ABI() *abi.ABI {
	result, _ := abi.JSON(strings.NewReader(erc20abi))
	return &result
}

func GetWETHABI() *abi.ABI {
	result, _ := abi.JSON(strings.NewReader(wethabi))
	return &result
}

func GetUniswapV2FactoryABI() *abi.ABI {
	result, _ := abi.JSON(strings.NewReader(uniswapV2FactoryABI))
	return &result
}

func GetUniswapV2PairABI() *abi.ABI {
	result, _ := abi.JSON(strings.NewReader(uniswapV2PairABI))
	return &result
}

func GetUniswapV2RouterABI() *abi.ABI {
	result, _ := abi.JSON(strings.NewReader(uniswapV2RouterABI))
	return &result
}

func GetUniswapV3RouterABI() *abi.ABI {
	result, _ := abi.JSON(strings.NewReader(uniswapV3RouterABI))
	return &result
}

func PackERC20Data(function string, params ...interface{}) ([]byte, error) {
	return GetERC20ABI().Pack(function, params...)
}
