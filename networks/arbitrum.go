package networks

import (
	"time"
)

var ArbitrumMainnet Network = arbitrumMainnet{}

type arbitrumMainnet struct{}

func (self arbitrumMainnet) GetName() string {
	return "arbitrum"
}

func (self arbitrumMainnet) GetChainID() uint64 {
	return 42161
}

func (self arbitrumMainnet) GetAlternativeNames() []string {
	return []string{"arbitrum-one"}
}

func (self arbitrumMainnet) GetNativeTokenSymbol() string {
	return "ETH"
}

func (self arbitrumMainnet) GetNativeTokenDecimal() int64 {
	return 18
}

func (self arbitrumMainnet) GetBlockTime() time.Duration {
	return 1 * time.Second
}

func (self arbitrumMainnet) GetNodeVariableName() string {
	return "ARBITRUM_MAINNET_NODE"
}

func (self arbitrumMainnet) GetDefaultNodes() map[string]string {
	return map[string]string{
		"arbitrum-official": "https://arb1.arbitrum.io/rpc",
		"arbitrum-ankr":     "https://rpc.ankr.com/arbitrum",
	}
}

func (self arbitrumMainnet) GetWSNodeVariableName() string {
	return "ARBITRUM_MAINNET_WS_NODE"
}

func (self arbitrumMainnet) GetDefaultWSNode() string {
	return "wss://arbitrum-one-rpc.publicnode.com"
}

func (self arbitrumMainnet) GetBlockExplorerAPIKeyVariableName() string {
	return "ARBISCAN_API_KEY"
}

func (self arbitrumMainnet) GetBlockExplorerAPIURL() string {
	return "https://api.arbiscan.io"
}
