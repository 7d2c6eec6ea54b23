package bridge_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldernet/warden/bridge"
)

func TestGetSupportedChains(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chains", r.URL.Path)
		w.Write([]byte(`{"chains":[
			{"id":1,"key":"eth","name":"Ethereum","chainType":"EVM","coin":"ETH","mainnet":true},
			{"id":137,"key":"pol","name":"Polygon","chainType":"EVM","coin":"POL","mainnet":true}
		]}`))
	}))
	defer server.Close()

	chains, err := bridge.NewLiFiBridgeWithURL(server.URL).GetSupportedChains()
	require.NoError(t, err)
	require.Len(t, chains, 2)
	assert.Equal(t, uint64(1), chains[0].ID)
	assert.Equal(t, "Ethereum", chains[0].Name)
	assert.Equal(t, "pol", chains[1].Key)
}

func TestGetKnownTokensFlattensPerChainMap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tokens", r.URL.Path)
		assert.Equal(t, "POL", r.URL.Query().Get("chains"))
		w.Write([]byte(`{"tokens":{"137":[
			{"address":"0x0000000000000000000000000000000000000000","symbol":"POL","decimals":18,"chainId":137,"name":"POL","priceUSD":"0.4"}
		]}}`))
	}))
	defer server.Close()

	tokens, err := bridge.NewLiFiBridgeWithURL(server.URL).GetKnownTokens("POL")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "POL", tokens[0].Symbol)
	assert.Equal(t, uint64(137), tokens[0].ChainID)
}

func TestRequestRoutesPostsTheRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/advanced/routes", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req bridge.RouteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, uint64(1), req.FromChainID)
		assert.Equal(t, "1000000", req.FromAmount)

		w.Write([]byte(`{"routes":[{"id":"r-1","fromChainId":1,"toChainId":137,"fromAmount":"1000000","toAmount":"998000"}]}`))
	}))
	defer server.Close()

	routes, err := bridge.NewLiFiBridgeWithURL(server.URL).RequestRoutes(bridge.RouteRequest{
		FromChainID: 1,
		ToChainID:   137,
		FromAmount:  "1000000",
	})
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "r-1", routes[0].ID)
	assert.Equal(t, "998000", routes[0].ToAmount)
}

func TestRequestQuoteEncodesQueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/quote", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("fromChain"))
		assert.Equal(t, "137", q.Get("toChain"))
		assert.Equal(t, "USDC", q.Get("fromToken"))
		assert.False(t, q.Has("toAddress"), "empty optional params stay out of the query")
		w.Write([]byte(`{"id":"q-1","type":"lifi","tool":"stargate","transactionRequest":{"to":"0xdead","value":"0x0","chainId":1}}`))
	}))
	defer server.Close()

	quote, err := bridge.NewLiFiBridgeWithURL(server.URL).RequestQuote(bridge.QuoteRequest{
		FromChain:   "1",
		ToChain:     "137",
		FromToken:   "USDC",
		ToToken:     "USDC",
		FromAmount:  "1000000",
		FromAddress: "0x1111111111111111111111111111111111111111",
	})
	require.NoError(t, err)
	assert.Equal(t, "stargate", quote.Tool)
	require.NotNil(t, quote.TransactionRequest)
	assert.Equal(t, "0xdead", quote.TransactionRequest.To)
}

func TestGetTransferStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/status", r.URL.Path)
		assert.Equal(t, "0xabc", r.URL.Query().Get("txHash"))
		w.Write([]byte(`{"status":"DONE","substatus":"COMPLETED"}`))
	}))
	defer server.Close()

	status, err := bridge.NewLiFiBridgeWithURL(server.URL).GetTransferStatus(bridge.StatusRequest{TxHash: "0xabc"})
	require.NoError(t, err)
	assert.Equal(t, "DONE", status.Status)
	assert.Equal(t, "COMPLETED", status.Substatus)
}

func TestNon200ResponseSurfacesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not a valid txHash"}`))
	}))
	defer server.Close()

	_, err := bridge.NewLiFiBridgeWithURL(server.URL).GetTransferStatus(bridge.StatusRequest{TxHash: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "Not a valid txHash")
}
