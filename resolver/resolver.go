// Package resolver turns user-supplied identifiers (raw hex addresses,
// whitelisted wallet names, addressbook contract names) into on-chain
// addresses.
package resolver

import (
	"fmt"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/sahilm/fuzzy"

	"github.com/aldernet/warden/addrbook"
	"github.com/aldernet/warden/networks"
	"github.com/aldernet/warden/whitelist"
)

// UnresolvedIdentifierError means none of the resolution stages matched
// the input. It is always a user-input error, never retried.
type UnresolvedIdentifierError struct {
	Input       string
	Suggestions []string
}

func (e *UnresolvedIdentifierError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("couldn't resolve address for \"%s\"", e.Input)
	}
	return fmt.Sprintf(
		"couldn't resolve address for \"%s\", did you mean: %s",
		e.Input, strings.Join(e.Suggestions, ", "),
	)
}

type Resolver struct {
	wl *whitelist.Store
}

func New(wl *whitelist.Store) *Resolver {
	return &Resolver{wl: wl}
}

// Resolve maps an identifier to an address by trying, in order:
//  1. literal 0x-prefixed 40-hex-digit address
//  2. whitelisted wallet name (chain independent)
//  3. addressbook contract name on the given network
//
// The order matters: a wallet name that happens to collide with an
// addressbook name must resolve to the wallet, and a literal address
// always wins over both. No I/O happens here, both lookups are
// in-memory reads.
func (r *Resolver) Resolve(input string, network networks.Network) (ethcommon.Address, error) {
	input = strings.TrimSpace(input)

	if isLiteralAddress(input) {
		return ethcommon.HexToAddress(input), nil
	}

	if info, found := r.wl.FindWalletByName(input); found {
		return ethcommon.HexToAddress(info.Address), nil
	}

	if addr, found := addrbook.Lookup(input, network.GetChainID()); found {
		return addr, nil
	}

	return ethcommon.Address{}, &UnresolvedIdentifierError{
		Input:       input,
		Suggestions: r.suggestions(input),
	}
}

func isLiteralAddress(input string) bool {
	return strings.HasPrefix(input, "0x") && len(input) == 42 && ethcommon.IsHexAddress(input)
}

// suggestions fuzzy-matches the input against every name that could
// have resolved, capped to the best few.
func (r *Resolver) suggestions(input string) []string {
	candidates := append(r.wl.WalletNames(), addrbook.Names()...)
	matches := fuzzy.Find(input, candidates)
	result := []string{}
	for i, m := range matches {
		if i >= 3 {
			break
		}
		result = append(result, candidates[m.Index])
	}
	return result
}
