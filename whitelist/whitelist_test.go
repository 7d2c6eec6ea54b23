package whitelist_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldernet/warden/whitelist"
)

const (
	addrAlice = "0x1111111111111111111111111111111111111111"
	addrBob   = "0x2222222222222222222222222222222222222222"
	addrUSDC  = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
)

type fakeSymbolReader struct {
	symbol string
	err    error
}

func (f fakeSymbolReader) ERC20Symbol(addr string) (string, error) {
	return f.symbol, f.err
}

func TestAddWalletNormalizesAddress(t *testing.T) {
	s := whitelist.NewStore()
	require.NoError(t, s.AddWallet("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", "usdc treasury"))

	// membership is checked in any case form
	assert.True(t, s.IsWalletWhitelisted(addrUSDC))
	assert.True(t, s.IsWalletWhitelisted("0xA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48"))

	wallets := s.Wallets()
	require.Len(t, wallets, 1)
	assert.Equal(t, addrUSDC, wallets[0].Address)
}

func TestAddWalletRejectsMalformedAddresses(t *testing.T) {
	s := whitelist.NewStore()
	for _, input := range []string{
		"",
		"alice",
		"0x123",
		"1111111111111111111111111111111111111111",
		"0xzz11111111111111111111111111111111111111",
	} {
		err := s.AddWallet(input, "")
		assert.ErrorIs(t, err, whitelist.ErrInvalidAddress, "input %q", input)
	}
	assert.Empty(t, s.Wallets())
}

func TestRemoveWalletIsIdempotent(t *testing.T) {
	s := whitelist.NewStore()
	require.NoError(t, s.AddWallet(addrAlice, "alice"))

	s.RemoveWallet(addrAlice)
	assert.False(t, s.IsWalletWhitelisted(addrAlice))

	// removing again, or removing garbage, must not blow up
	s.RemoveWallet(addrAlice)
	s.RemoveWallet("not-an-address")
	assert.Empty(t, s.Wallets())
}

func TestAddTokenFetchesSymbol(t *testing.T) {
	s := whitelist.NewStore()
	err := s.AddToken(addrUSDC, 1, "usd coin", fakeSymbolReader{symbol: "USDC"})
	require.NoError(t, err)

	assert.True(t, s.IsTokenWhitelisted(addrUSDC, 1))
	tokens := s.Tokens()
	require.Len(t, tokens, 1)
	assert.Equal(t, "USDC", tokens[0].Symbol)
	assert.Equal(t, uint64(1), tokens[0].ChainID)
}

func TestAddTokenFailureLeavesStoreUnchanged(t *testing.T) {
	s := whitelist.NewStore()
	err := s.AddToken(addrUSDC, 1, "", fakeSymbolReader{err: fmt.Errorf("execution reverted")})

	callErr := &whitelist.ContractCallError{}
	require.ErrorAs(t, err, &callErr)
	assert.False(t, s.IsTokenWhitelisted(addrUSDC, 1))
	assert.Empty(t, s.Tokens())
}

func TestTokenIdentityIsScopedByChain(t *testing.T) {
	s := whitelist.NewStore()
	require.NoError(t, s.AddToken(addrUSDC, 1, "", fakeSymbolReader{symbol: "USDC"}))

	assert.True(t, s.IsTokenWhitelisted(addrUSDC, 1))
	assert.False(t, s.IsTokenWhitelisted(addrUSDC, 137))

	s.RemoveToken(addrUSDC, 137)
	assert.True(t, s.IsTokenWhitelisted(addrUSDC, 1), "removing the wrong chain's entry must not touch this one")
	s.RemoveToken(addrUSDC, 1)
	assert.False(t, s.IsTokenWhitelisted(addrUSDC, 1))
}

func TestFindWalletByNameFirstMatchWins(t *testing.T) {
	s := whitelist.NewStore()
	require.NoError(t, s.AddWallet(addrAlice, "treasury"))
	require.NoError(t, s.AddWallet(addrBob, "treasury"))

	info, found := s.FindWalletByName("treasury")
	require.True(t, found)
	assert.Equal(t, addrAlice, info.Address, "insertion order decides between duplicate names")

	_, found = s.FindWalletByName("nobody")
	assert.False(t, found)
}

func TestEmptyNameNeverMatchesAWallet(t *testing.T) {
	s := whitelist.NewStore()
	require.NoError(t, s.AddWallet(addrAlice, ""))

	_, found := s.FindWalletByName("")
	assert.False(t, found, "nameless wallets are reachable by address only")
	assert.True(t, s.IsWalletWhitelisted(addrAlice))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whitelist.json")

	s := whitelist.NewStore()
	require.NoError(t, s.AddWallet(addrAlice, "alice 🦊"))
	require.NoError(t, s.AddWallet(addrBob, ""))
	require.NoError(t, s.AddToken(addrUSDC, 1, "usd coin", fakeSymbolReader{symbol: "USDC"}))
	require.NoError(t, s.Save(path))

	loaded, err := whitelist.Load(path)
	require.NoError(t, err)

	assert.True(t, loaded.IsWalletWhitelisted(addrAlice))
	assert.True(t, loaded.IsWalletWhitelisted(addrBob))
	assert.True(t, loaded.IsTokenWhitelisted(addrUSDC, 1))

	info, found := loaded.FindWalletByName("alice 🦊")
	require.True(t, found)
	assert.Equal(t, addrAlice, info.Address)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whitelist.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"wallet_addresses":{},"token_addresses":{},"extra":1}`), 0644))

	_, err := whitelist.Load(path)
	persistErr := &whitelist.PersistenceError{}
	assert.ErrorAs(t, err, &persistErr)
}

func TestLoadRejectsMismatchedTokenKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whitelist.json")
	doc := fmt.Sprintf(
		`{"wallet_addresses":{},"token_addresses":{"%s:137":{"address":"%s","chain_id":1,"symbol":"USDC"}}}`,
		addrUSDC, addrUSDC,
	)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	_, err := whitelist.Load(path)
	persistErr := &whitelist.PersistenceError{}
	assert.ErrorAs(t, err, &persistErr)
}

func TestLoadRejectsMismatchedWalletKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whitelist.json")
	persistErr := &whitelist.PersistenceError{}

	// a non-checksummed key would defeat the checksummed membership
	// lookups later
	doc := fmt.Sprintf(
		`{"wallet_addresses":{"%s":{"address":"%s"}},"token_addresses":{}}`,
		strings.ToLower(addrUSDC), addrUSDC,
	)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	_, err := whitelist.Load(path)
	assert.ErrorAs(t, err, &persistErr)

	// key pointing at a different entry address
	doc = fmt.Sprintf(
		`{"wallet_addresses":{"%s":{"address":"%s"}},"token_addresses":{}}`,
		addrAlice, addrBob,
	)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	_, err = whitelist.Load(path)
	assert.ErrorAs(t, err, &persistErr)
}

func TestLoadOrNew(t *testing.T) {
	dir := t.TempDir()

	s, err := whitelist.LoadOrNew(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, s.Wallets())

	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err = whitelist.LoadOrNew(path)
	assert.Error(t, err, "a present but broken file is still an error")
}
