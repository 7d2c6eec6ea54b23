package networks

import (
	"time"
)

var PolygonMainnet Network = polygonMainnet{}

type polygonMainnet struct{}

func (self polygonMainnet) GetName() string {
	return "polygon"
}

func (self polygonMainnet) GetChainID() uint64 {
	return 137
}

func (self polygonMainnet) GetAlternativeNames() []string {
	return []string{"matic"}
}

func (self polygonMainnet) GetNativeTokenSymbol() string {
	return "POL"
}

func (self polygonMainnet) GetNativeTokenDecimal() int64 {
	return 18
}

func (self polygonMainnet) GetBlockTime() time.Duration {
	return 2 * time.Second
}

func (self polygonMainnet) GetNodeVariableName() string {
	return "POLYGON_MAINNET_NODE"
}

func (self polygonMainnet) GetDefaultNodes() map[string]string {
	return map[string]string{
		"polygon-official": "https://polygon-rpc.com",
		"polygon-ankr":     "https://rpc.ankr.com/polygon",
	}
}

func (self polygonMainnet) GetWSNodeVariableName() string {
	return "POLYGON_MAINNET_WS_NODE"
}

func (self polygonMainnet) GetDefaultWSNode() string {
	return "wss://polygon-bor-rpc.publicnode.com"
}

func (self polygonMainnet) GetBlockExplorerAPIKeyVariableName() string {
	return "POLYGONSCAN_API_KEY"
}

func (self polygonMainnet) GetBlockExplorerAPIURL() string {
	return "https://api.polygonscan.com"
}
