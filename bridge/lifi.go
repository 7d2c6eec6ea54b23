// Package bridge talks to the LI.FI aggregator for cross-chain routing.
// Read-only: route discovery and status checks, execution stays with the
// evm package.
package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const lifiAPIURL = "https://li.quest/v1"

type LiFiBridge struct {
	baseURL string
	client  *http.Client
}

func NewLiFiBridge() *LiFiBridge {
	return &LiFiBridge{
		baseURL: lifiAPIURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewLiFiBridgeWithURL points the client at a different API host, used
// by tests.
func NewLiFiBridgeWithURL(baseURL string) *LiFiBridge {
	b := NewLiFiBridge()
	b.baseURL = baseURL
	return b
}

func (b *LiFiBridge) getJSON(path string, query url.Values, result interface{}) error {
	u := b.baseURL + path
	if len(query) > 0 {
		u = u + "?" + query.Encode()
	}
	resp, err := b.client.Get(u)
	if err != nil {
		return fmt.Errorf("bridge api request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bridge api returned %d for %s: %s", resp.StatusCode, path, string(body))
	}
	if err = json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("couldn't decode bridge api response from %s: %w", path, err)
	}
	return nil
}

func (b *LiFiBridge) postJSON(path string, payload, result interface{}) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := b.client.Post(b.baseURL+path, "application/json", bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("bridge api request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bridge api returned %d for %s: %s", resp.StatusCode, path, string(body))
	}
	if err = json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("couldn't decode bridge api response from %s: %w", path, err)
	}
	return nil
}

// GetSupportedChains lists every chain the aggregator can bridge
// between.
func (b *LiFiBridge) GetSupportedChains() ([]Chain, error) {
	var envelope struct {
		Chains []Chain `json:"chains"`
	}
	if err := b.getJSON("/chains", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Chains, nil
}

// GetKnownTokens lists the tokens the aggregator knows on one chain.
func (b *LiFiBridge) GetKnownTokens(chain string) ([]BridgeToken, error) {
	var envelope struct {
		Tokens map[string][]BridgeToken `json:"tokens"`
	}
	query := url.Values{}
	query.Set("chains", chain)
	if err := b.getJSON("/tokens", query, &envelope); err != nil {
		return nil, err
	}
	tokens := []BridgeToken{}
	for _, chainTokens := range envelope.Tokens {
		tokens = append(tokens, chainTokens...)
	}
	return tokens, nil
}

// RequestRoutes asks for every viable route for a transfer.
func (b *LiFiBridge) RequestRoutes(request RouteRequest) ([]Route, error) {
	var envelope struct {
		Routes []Route `json:"routes"`
	}
	if err := b.postJSON("/advanced/routes", request, &envelope); err != nil {
		return nil, err
	}
	return envelope.Routes, nil
}

// RequestQuote asks for a single executable quote.
func (b *LiFiBridge) RequestQuote(request QuoteRequest) (*Quote, error) {
	query := url.Values{}
	query.Set("fromChain", request.FromChain)
	query.Set("toChain", request.ToChain)
	query.Set("fromToken", request.FromToken)
	query.Set("toToken", request.ToToken)
	query.Set("fromAmount", request.FromAmount)
	query.Set("fromAddress", request.FromAddress)
	if request.ToAddress != "" {
		query.Set("toAddress", request.ToAddress)
	}
	quote := &Quote{}
	if err := b.getJSON("/quote", query, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// GetTransferStatus reports how far along a bridged transfer is.
func (b *LiFiBridge) GetTransferStatus(request StatusRequest) (*StatusResponse, error) {
	query := url.Values{}
	query.Set("txHash", request.TxHash)
	if request.Bridge != "" {
		query.Set("bridge", request.Bridge)
	}
	if request.FromChain != "" {
		query.Set("fromChain", request.FromChain)
	}
	if request.ToChain != "" {
		query.Set("toChain", request.ToChain)
	}
	status := &StatusResponse{}
	if err := b.getJSON("/status", query, status); err != nil {
		return nil, err
	}
	return status, nil
}

// GetConnections lists the bridgeable token pairs matching a filter.
func (b *LiFiBridge) GetConnections(request ConnectionsRequest) ([]Connection, error) {
	var envelope struct {
		Connections []Connection `json:"connections"`
	}
	query := url.Values{}
	if request.FromChain != "" {
		query.Set("fromChain", request.FromChain)
	}
	if request.ToChain != "" {
		query.Set("toChain", request.ToChain)
	}
	if request.FromToken != "" {
		query.Set("fromToken", request.FromToken)
	}
	if request.ToToken != "" {
		query.Set("toToken", request.ToToken)
	}
	if request.FromAmount != "" {
		query.Set("fromAmount", request.FromAmount)
	}
	if request.AllowExchanges != nil {
		query.Set("allowExchanges", fmt.Sprintf("%t", *request.AllowExchanges))
	}
	if err := b.getJSON("/connections", query, &envelope); err != nil {
		return nil, err
	}
	return envelope.Connections, nil
}
