package networks

import (
	"time"
)

var BSCMainnet Network = bscMainnet{}

type bscMainnet struct{}

func (self bscMainnet) GetName() string {
	return "bsc"
}

func (self bscMainnet) GetChainID() uint64 {
	return 56
}

func (self bscMainnet) GetAlternativeNames() []string {
	return []string{"bnb"}
}

func (self bscMainnet) GetNativeTokenSymbol() string {
	return "BNB"
}

func (self bscMainnet) GetNativeTokenDecimal() int64 {
	return 18
}

func (self bscMainnet) GetBlockTime() time.Duration {
	return 3 * time.Second
}

func (self bscMainnet) GetNodeVariableName() string {
	return "BSC_MAINNET_NODE"
}

func (self bscMainnet) GetDefaultNodes() map[string]string {
	return map[string]string{
		"bsc-binance":  "https://bsc-dataseed.binance.org",
		"bsc-defibit":  "https://bsc-dataseed1.defibit.io",
		"bsc-ninicoin": "https://bsc-dataseed1.ninicoin.io",
	}
}

func (self bscMainnet) GetWSNodeVariableName() string {
	return "BSC_MAINNET_WS_NODE"
}

func (self bscMainnet) GetDefaultWSNode() string {
	return "wss://bsc-rpc.publicnode.com"
}

func (self bscMainnet) GetBlockExplorerAPIKeyVariableName() string {
	return "BSCSCAN_API_KEY"
}

func (self bscMainnet) GetBlockExplorerAPIURL() string {
	return "https://api.bscscan.com"
}
