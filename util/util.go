package util

import (
	"fmt"
	"os"
	"strings"

	"github.com/aldernet/warden/networks"
	"github.com/aldernet/warden/util/broadcaster"
	"github.com/aldernet/warden/util/explorers"
	"github.com/aldernet/warden/util/monitor"
	"github.com/aldernet/warden/util/reader"
)

// GetNodes returns the RPC endpoints for a network. The env var named by
// the network overrides the built-in defaults, taking a comma separated
// list of urls.
func GetNodes(network networks.Network) map[string]string {
	if fromEnv := os.Getenv(network.GetNodeVariableName()); fromEnv != "" {
		nodes := map[string]string{}
		for i, url := range strings.Split(fromEnv, ",") {
			nodes[fmt.Sprintf("%s-custom-%d", network.GetName(), i)] = strings.TrimSpace(url)
		}
		return nodes
	}
	return network.GetDefaultNodes()
}

// WSNodeURL returns the websocket endpoint for a network, env var first.
func WSNodeURL(network networks.Network) string {
	if fromEnv := os.Getenv(network.GetWSNodeVariableName()); fromEnv != "" {
		return fromEnv
	}
	return network.GetDefaultWSNode()
}

func EthReader(network networks.Network) *reader.EthReader {
	r := reader.NewEthReader(GetNodes(network))
	if be := BlockExplorer(network); be != nil {
		r.SetBlockExplorer(be)
	}
	return r
}

func EthBroadcaster(network networks.Network) *broadcaster.EthBroadcaster {
	return broadcaster.NewEthBroadcaster(GetNodes(network))
}

func EthTxMonitor(network networks.Network) *monitor.TxMonitor {
	return monitor.NewTxMonitor(EthReader(network))
}

// BlockExplorer returns the etherscan-family client for a network, or nil
// when no API key is configured. Everything the explorer serves has a
// node fallback so a nil explorer is fine.
func BlockExplorer(network networks.Network) explorers.BlockExplorer {
	apiKey := os.Getenv(network.GetBlockExplorerAPIKeyVariableName())
	if apiKey == "" {
		return nil
	}
	return explorers.NewEtherscanLikeExplorer(
		network.GetChainID(),
		network.GetBlockExplorerAPIURL(),
		apiKey,
	)
}
