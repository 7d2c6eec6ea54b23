// Package whitelist keeps the persisted allow-list consulted before any
// value-moving operation. It holds two tables: wallet addresses that may
// receive funds, and token contracts (scoped by chain id) that may be
// moved. The whole document lives in one JSON file; every mutating CLI
// command saves it back after the change.
//
// There is no file locking. Two processes racing on the same document
// will lose one of the writes, the tool assumes a single invocation at
// a time.
package whitelist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

var ErrInvalidAddress = fmt.Errorf("not a valid 0x-prefixed ethereum address")

// PersistenceError wraps whitelist document read/write/parse failures.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("whitelist file %s: %s", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ContractCallError wraps a failed symbol() call during token add. The
// store is unchanged when this is returned.
type ContractCallError struct {
	Address string
	Err     error
}

func (e *ContractCallError) Error() string {
	return fmt.Sprintf("couldn't call symbol() on %s, is it an ERC20 token? %s", e.Address, e.Err)
}

func (e *ContractCallError) Unwrap() error {
	return e.Err
}

type WalletInfo struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type TokenInfo struct {
	Address string `json:"address"`
	ChainID uint64 `json:"chain_id"`
	Symbol  string `json:"symbol"`
	Name    string `json:"name,omitempty"`
}

// SymbolReader is the single chain capability the store needs: reading
// symbol() from a token contract when it is added.
type SymbolReader interface {
	ERC20Symbol(addr string) (string, error)
}

// Store is the in-memory whitelist. Entries keep their insertion order
// so FindWalletByName is deterministic (first match wins). Addresses
// are normalized to checksummed form on every way in, membership checks
// can't produce case-mismatch false negatives.
//
// The store is shared by reference between the resolver and the
// orchestrator within one invocation; the CLI drives one command at a
// time so no internal locking is needed.
type Store struct {
	wallets     map[string]WalletInfo
	walletOrder []string
	tokens      map[string]TokenInfo
	tokenOrder  []string
}

func NewStore() *Store {
	return &Store{
		wallets: map[string]WalletInfo{},
		tokens:  map[string]TokenInfo{},
	}
}

// NormalizeAddress parses and checksums a hex address. This is the only
// address format the store accepts.
func NormalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if !strings.HasPrefix(address, "0x") || len(address) != 42 || !ethcommon.IsHexAddress(address) {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}
	return ethcommon.HexToAddress(address).Hex(), nil
}

func tokenKey(address string, chainID uint64) string {
	return fmt.Sprintf("%s:%d", address, chainID)
}

// AddWallet inserts or overwrites a wallet entry.
func (s *Store) AddWallet(address string, name string) error {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return err
	}
	if _, exists := s.wallets[addr]; !exists {
		s.walletOrder = append(s.walletOrder, addr)
	}
	s.wallets[addr] = WalletInfo{Address: addr, Name: name}
	return nil
}

// RemoveWallet is idempotent, removing an absent entry is a no-op.
func (s *Store) RemoveWallet(address string) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return
	}
	if _, exists := s.wallets[addr]; !exists {
		return
	}
	delete(s.wallets, addr)
	for i, a := range s.walletOrder {
		if a == addr {
			s.walletOrder = append(s.walletOrder[:i], s.walletOrder[i+1:]...)
			break
		}
	}
}

// AddToken validates the address, fetches symbol() through the supplied
// chain reader and inserts the entry. On any failure the store is left
// unchanged.
func (s *Store) AddToken(address string, chainID uint64, name string, reader SymbolReader) error {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return err
	}
	symbol, err := reader.ERC20Symbol(addr)
	if err != nil {
		return &ContractCallError{Address: addr, Err: err}
	}
	key := tokenKey(addr, chainID)
	if _, exists := s.tokens[key]; !exists {
		s.tokenOrder = append(s.tokenOrder, key)
	}
	s.tokens[key] = TokenInfo{Address: addr, ChainID: chainID, Symbol: symbol, Name: name}
	return nil
}

// RemoveToken is idempotent.
func (s *Store) RemoveToken(address string, chainID uint64) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return
	}
	key := tokenKey(addr, chainID)
	if _, exists := s.tokens[key]; !exists {
		return
	}
	delete(s.tokens, key)
	for i, k := range s.tokenOrder {
		if k == key {
			s.tokenOrder = append(s.tokenOrder[:i], s.tokenOrder[i+1:]...)
			break
		}
	}
}

func (s *Store) IsWalletWhitelisted(address string) bool {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return false
	}
	_, found := s.wallets[addr]
	return found
}

func (s *Store) IsTokenWhitelisted(address string, chainID uint64) bool {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return false
	}
	_, found := s.tokens[tokenKey(addr, chainID)]
	return found
}

// FindWalletByName scans wallets in insertion order and returns the
// first one carrying the given name. An empty name never matches,
// nameless entries are reachable by address only.
func (s *Store) FindWalletByName(name string) (WalletInfo, bool) {
	if name == "" {
		return WalletInfo{}, false
	}
	for _, addr := range s.walletOrder {
		if info := s.wallets[addr]; info.Name == name {
			return info, true
		}
	}
	return WalletInfo{}, false
}

// Wallets returns all wallet entries in insertion order.
func (s *Store) Wallets() []WalletInfo {
	result := make([]WalletInfo, 0, len(s.walletOrder))
	for _, addr := range s.walletOrder {
		result = append(result, s.wallets[addr])
	}
	return result
}

// Tokens returns all token entries in insertion order.
func (s *Store) Tokens() []TokenInfo {
	result := make([]TokenInfo, 0, len(s.tokenOrder))
	for _, key := range s.tokenOrder {
		result = append(result, s.tokens[key])
	}
	return result
}

// WalletNames returns the display names currently in use, in insertion
// order, for suggestion lists.
func (s *Store) WalletNames() []string {
	names := []string{}
	for _, addr := range s.walletOrder {
		if name := s.wallets[addr].Name; name != "" {
			names = append(names, name)
		}
	}
	return names
}

// document is the on-disk schema. Every key in token_addresses is
// "<address>:<chain_id>" of its own entry.
type document struct {
	WalletAddresses map[string]WalletInfo `json:"wallet_addresses"`
	TokenAddresses  map[string]TokenInfo  `json:"token_addresses"`
}

// Save serializes the whole document, pretty printed, to path.
func (s *Store) Save(path string) error {
	doc := document{
		WalletAddresses: s.wallets,
		TokenAddresses:  s.tokens,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	return nil
}

// Load reads a whitelist document. Missing file, invalid JSON and
// unknown fields are all errors; use LoadOrNew if a missing file should
// mean an empty store. JSON maps carry no order, so entries are indexed
// by sorted key after a load, which keeps name lookups deterministic
// across runs.
func Load(path string) (*Store, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &PersistenceError{Path: path, Err: err}
	}
	doc := document{}
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, &PersistenceError{Path: path, Err: err}
	}

	s := NewStore()
	for _, key := range sortedKeys(doc.WalletAddresses) {
		info := doc.WalletAddresses[key]
		addr, err := NormalizeAddress(info.Address)
		if err != nil || key != addr {
			return nil, &PersistenceError{
				Path: path,
				Err:  fmt.Errorf("wallet key %s doesn't match a checksummed entry address (%s)", key, info.Address),
			}
		}
		s.wallets[key] = info
		s.walletOrder = append(s.walletOrder, key)
	}
	for _, key := range sortedKeys(doc.TokenAddresses) {
		info := doc.TokenAddresses[key]
		addr, err := NormalizeAddress(info.Address)
		if err != nil || key != tokenKey(addr, info.ChainID) {
			return nil, &PersistenceError{
				Path: path,
				Err:  fmt.Errorf("token key %s doesn't match its entry (%s:%d)", key, info.Address, info.ChainID),
			}
		}
		s.tokens[key] = info
		s.tokenOrder = append(s.tokenOrder, key)
	}
	return s, nil
}

// LoadOrNew treats a missing file as an empty store. Any other load
// failure is still an error.
func LoadOrNew(path string) (*Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewStore(), nil
	}
	return Load(path)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
