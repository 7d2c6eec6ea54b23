package bridge

import "encoding/json"

// Chain describes a network supported by the bridge aggregator.
type Chain struct {
	Key              string      `json:"key"`
	Name             string      `json:"name"`
	ChainType        string      `json:"chainType"`
	Coin             string      `json:"coin"`
	ID               uint64      `json:"id"`
	Mainnet          bool        `json:"mainnet"`
	LogoURI          string      `json:"logoURI"`
	TokenlistURL     string      `json:"tokenlistUrl"`
	MulticallAddress string      `json:"multicallAddress"`
	FaucetURLs       []string    `json:"faucetUrls,omitempty"`
	Metamask         Metamask    `json:"metamask"`
	NativeToken      BridgeToken `json:"nativeToken"`
}

type Metamask struct {
	ChainID           string         `json:"chainId"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls"`
	ChainName         string         `json:"chainName"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string       `json:"rpcUrls"`
}

type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// BridgeToken is the aggregator's token representation, distinct from
// the whitelist's TokenInfo.
type BridgeToken struct {
	ChainID  uint64 `json:"chainId"`
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
	PriceUSD string `json:"priceUSD"`
	CoinKey  string `json:"coinKey"`
	LogoURI  string `json:"logoURI,omitempty"`
}

// RouteRequest asks for cross-chain routes moving an exact base-unit
// amount between two tokens.
type RouteRequest struct {
	FromChainID      uint64 `json:"fromChainId"`
	ToChainID        uint64 `json:"toChainId"`
	FromTokenAddress string `json:"fromTokenAddress"`
	ToTokenAddress   string `json:"toTokenAddress"`
	FromAmount       string `json:"fromAmount"`
	FromAddress      string `json:"fromAddress"`
	ToAddress        string `json:"toAddress"`
}

type Route struct {
	ID            string      `json:"id"`
	FromChainID   uint64      `json:"fromChainId"`
	FromAmountUSD string      `json:"fromAmountUSD"`
	FromAmount    string      `json:"fromAmount"`
	FromToken     BridgeToken `json:"fromToken"`
	ToChainID     uint64      `json:"toChainId"`
	ToAmountUSD   string      `json:"toAmountUSD"`
	ToAmount      string      `json:"toAmount"`
	ToAmountMin   string      `json:"toAmountMin"`
	ToToken       BridgeToken `json:"toToken"`
	GasCostUSD    string      `json:"gasCostUSD"`
	Steps         []Step      `json:"steps"`
}

type Step struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	Tool       string   `json:"tool"`
	Action     Action   `json:"action"`
	Estimate   Estimate `json:"estimate"`
	Integrator string   `json:"integrator"`
}

type Action struct {
	FromChainID uint64      `json:"fromChainId"`
	ToChainID   uint64      `json:"toChainId"`
	FromToken   BridgeToken `json:"fromToken"`
	ToToken     BridgeToken `json:"toToken"`
	FromAmount  string      `json:"fromAmount"`
	Slippage    float64     `json:"slippage"`
}

type Estimate struct {
	FromAmount      string          `json:"fromAmount"`
	ToAmount        string          `json:"toAmount"`
	ToAmountMin     string          `json:"toAmountMin"`
	ApprovalAddress string          `json:"approvalAddress"`
	FeeCosts        []FeeCost       `json:"feeCosts"`
	GasCosts        []GasCost       `json:"gasCosts"`
	Data            json.RawMessage `json:"data"`
}

type FeeCost struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Percentage  string      `json:"percentage"`
	Token       BridgeToken `json:"token"`
	Amount      string      `json:"amount"`
	AmountUSD   string      `json:"amountUSD"`
	Included    bool        `json:"included"`
}

type GasCost struct {
	Type      string      `json:"type"`
	Price     string      `json:"price"`
	Estimate  string      `json:"estimate"`
	Limit     string      `json:"limit"`
	Amount    string      `json:"amount"`
	AmountUSD string      `json:"amountUSD"`
	Token     BridgeToken `json:"token"`
}

// QuoteRequest asks for a single executable quote. Chains and tokens
// take the aggregator's symbolic keys as well as raw addresses and ids.
type QuoteRequest struct {
	FromChain   string
	ToChain     string
	FromToken   string
	ToToken     string
	FromAmount  string
	FromAddress string
	ToAddress   string
}

// Quote carries the executable transaction for a single-step transfer.
type Quote struct {
	ID                 string              `json:"id"`
	Type               string              `json:"type"`
	Tool               string              `json:"tool"`
	Action             Action              `json:"action"`
	Estimate           Estimate            `json:"estimate"`
	TransactionRequest *TransactionRequest `json:"transactionRequest,omitempty"`
}

type TransactionRequest struct {
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"`
	ChainID  uint64 `json:"chainId"`
	GasLimit string `json:"gasLimit"`
	GasPrice string `json:"gasPrice"`
}

// StatusRequest queries the progress of a transfer by its source chain
// tx hash.
type StatusRequest struct {
	Bridge    string
	FromChain string
	ToChain   string
	TxHash    string
}

type StatusResponse struct {
	Status      string `json:"status"`
	Substatus   string `json:"substatus,omitempty"`
	SendingTx   string `json:"sendingTxHash,omitempty"`
	ReceivingTx string `json:"receivingTxHash,omitempty"`
}

// ConnectionsRequest filters the pairs the aggregator can bridge.
type ConnectionsRequest struct {
	FromChain      string
	ToChain        string
	FromToken      string
	ToToken        string
	FromAmount     string
	AllowExchanges *bool
}

type Connection struct {
	FromChainID uint64        `json:"fromChainId"`
	ToChainID   uint64        `json:"toChainId"`
	FromTokens  []BridgeToken `json:"fromTokens"`
	ToTokens    []BridgeToken `json:"toTokens"`
}
