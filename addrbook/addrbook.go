// Package addrbook maps well-known contract names to their deployed
// addresses per chain. The dataset is bundled into the binary and is
// immutable at runtime; after the first lookup it is safe for unlimited
// concurrent reads.
package addrbook

import (
	_ "embed"
	"encoding/json"
	"sort"
	"strconv"
	"sync"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

//go:embed addressbook.json
var addressbookJSON []byte

type contract struct {
	// chain id (decimal string) -> checksummed hex address
	Addresses map[string]string `json:"addresses"`
}

var (
	book     map[string]contract
	loadOnce sync.Once
)

func load() {
	book = map[string]contract{}
	if err := json.Unmarshal(addressbookJSON, &book); err != nil {
		// the dataset is compiled in, a parse failure is a build defect
		panic(err)
	}
}

// Lookup returns the deployed address of a well-known contract on the
// given chain. The only failure mode is "not found".
func Lookup(name string, chainID uint64) (ethcommon.Address, bool) {
	loadOnce.Do(load)
	c, found := book[name]
	if !found {
		return ethcommon.Address{}, false
	}
	hex, found := c.Addresses[strconv.FormatUint(chainID, 10)]
	if !found {
		return ethcommon.Address{}, false
	}
	return ethcommon.HexToAddress(hex), true
}

// Names returns all known contract names, sorted.
func Names() []string {
	loadOnce.Do(load)
	names := make([]string, 0, len(book))
	for name := range book {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
