package networks

import (
	"time"
)

var EthereumMainnet Network = ethereumMainnet{}

type ethereumMainnet struct{}

func (self ethereumMainnet) GetName() string {
	return "mainnet"
}

func (self ethereumMainnet) GetChainID() uint64 {
	return 1
}

func (self ethereumMainnet) GetAlternativeNames() []string {
	return []string{"ethereum", "eth"}
}

func (self ethereumMainnet) GetNativeTokenSymbol() string {
	return "ETH"
}

func (self ethereumMainnet) GetNativeTokenDecimal() int64 {
	return 18
}

func (self ethereumMainnet) GetBlockTime() time.Duration {
	return 12 * time.Second
}

func (self ethereumMainnet) GetNodeVariableName() string {
	return "ETHEREUM_MAINNET_NODE"
}

func (self ethereumMainnet) GetDefaultNodes() map[string]string {
	return map[string]string{
		"mainnet-cloudflare": "https://cloudflare-eth.com",
		"mainnet-ankr":       "https://rpc.ankr.com/eth",
	}
}

func (self ethereumMainnet) GetWSNodeVariableName() string {
	return "ETHEREUM_MAINNET_WS_NODE"
}

func (self ethereumMainnet) GetDefaultWSNode() string {
	return "wss://ethereum-rpc.publicnode.com"
}

func (self ethereumMainnet) GetBlockExplorerAPIKeyVariableName() string {
	return "ETHERSCAN_API_KEY"
}

func (self ethereumMainnet) GetBlockExplorerAPIURL() string {
	return "https://api.etherscan.io"
}
