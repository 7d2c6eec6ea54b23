package networks

import (
	"time"
)

var OptimismMainnet Network = optimismMainnet{}

type optimismMainnet struct{}

func (self optimismMainnet) GetName() string {
	return "optimism"
}

func (self optimismMainnet) GetChainID() uint64 {
	return 10
}

func (self optimismMainnet) GetAlternativeNames() []string {
	return []string{"op"}
}

func (self optimismMainnet) GetNativeTokenSymbol() string {
	return "ETH"
}

func (self optimismMainnet) GetNativeTokenDecimal() int64 {
	return 18
}

func (self optimismMainnet) GetBlockTime() time.Duration {
	return 2 * time.Second
}

func (self optimismMainnet) GetNodeVariableName() string {
	return "OPTIMISM_MAINNET_NODE"
}

func (self optimismMainnet) GetDefaultNodes() map[string]string {
	return map[string]string{
		"optimism-official": "https://mainnet.optimism.io",
		"optimism-ankr":     "https://rpc.ankr.com/optimism",
	}
}

func (self optimismMainnet) GetWSNodeVariableName() string {
	return "OPTIMISM_MAINNET_WS_NODE"
}

func (self optimismMainnet) GetDefaultWSNode() string {
	return "wss://optimism-rpc.publicnode.com"
}

func (self optimismMainnet) GetBlockExplorerAPIKeyVariableName() string {
	return "OPTIMISTIC_ETHERSCAN_API_KEY"
}

func (self optimismMainnet) GetBlockExplorerAPIURL() string {
	return "https://api-optimistic.etherscan.io"
}
