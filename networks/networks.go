package networks

import (
	"fmt"
	"strings"
)

// Insert more Network implementations here to support more chains
var supportedNetworks = []Network{
	EthereumMainnet,
	Sepolia,
	ArbitrumMainnet,
	OptimismMainnet,
	PolygonMainnet,
	BSCMainnet,
}

var ErrNetworkNotFound = fmt.Errorf("network not found")

func GetSupportedNetworks() []Network {
	return supportedNetworks
}

func GetNetwork(name string) (Network, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range supportedNetworks {
		if n.GetName() == name {
			return n, nil
		}
		for _, alt := range n.GetAlternativeNames() {
			if alt == name {
				return n, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNetworkNotFound, name)
}

func GetNetworkByChainID(chainID uint64) (Network, error) {
	for _, n := range supportedNetworks {
		if n.GetChainID() == chainID {
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: chain id %d", ErrNetworkNotFound, chainID)
}

func SupportedNetworkNames() []string {
	names := []string{}
	for _, n := range supportedNetworks {
		names = append(names, n.GetName())
	}
	return names
}
