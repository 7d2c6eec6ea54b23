package networks

import (
	"time"
)

type Network interface {
	GetName() string
	GetChainID() uint64
	GetAlternativeNames() []string
	GetNativeTokenSymbol() string
	GetNativeTokenDecimal() int64
	GetBlockTime() time.Duration

	GetNodeVariableName() string
	GetDefaultNodes() map[string]string

	GetWSNodeVariableName() string
	GetDefaultWSNode() string

	GetBlockExplorerAPIKeyVariableName() string
	GetBlockExplorerAPIURL() string
}
