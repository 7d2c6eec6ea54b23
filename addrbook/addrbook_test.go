package addrbook_test

import (
	"sort"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldernet/warden/addrbook"
)

func TestLookupKnownContract(t *testing.T) {
	addr, found := addrbook.Lookup("weth", 1)
	require.True(t, found)
	assert.Equal(t, ethcommon.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), addr)

	addr, found = addrbook.Lookup("uniswap_v2_factory", 1)
	require.True(t, found)
	assert.Equal(t, ethcommon.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"), addr)
}

func TestLookupIsChainScoped(t *testing.T) {
	// the V2 factory is only recorded on mainnet
	_, found := addrbook.Lookup("uniswap_v2_factory", 42161)
	assert.False(t, found)

	_, found = addrbook.Lookup("weth", 424242)
	assert.False(t, found)
}

func TestLookupUnknownName(t *testing.T) {
	_, found := addrbook.Lookup("no_such_contract", 1)
	assert.False(t, found)
}

func TestNamesAreSorted(t *testing.T) {
	names := addrbook.Names()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "weth")
	assert.Contains(t, names, "uniswap_v3_router")
}
