package explorers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const CACHE_TIME_OUT int64 = 30 // seconds

type EtherscanLikeExplorer struct {
	gpmu              sync.Mutex
	latestGasPrice    float64
	gasPriceTimestamp int64

	ChainID uint64
	Domain  string
	APIKey  string
}

func NewEtherscanLikeExplorer(chainID uint64, domain, apiKey string) *EtherscanLikeExplorer {
	return &EtherscanLikeExplorer{
		ChainID: chainID,
		Domain:  domain,
		APIKey:  apiKey,
	}
}

type gasOracleResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  struct {
		SafeGasPrice    string `json:"SafeGasPrice"`
		ProposeGasPrice string `json:"ProposeGasPrice"`
		FastGasPrice    string `json:"FastGasPrice"`
	} `json:"result"`
}

func (ee *EtherscanLikeExplorer) getGasPrice() (low, average, fast float64, err error) {
	url := fmt.Sprintf(
		"%s/api?chainid=%d&module=gastracker&action=gasoracle&apikey=%s",
		ee.Domain, ee.ChainID, ee.APIKey,
	)
	body, err := ee.get(url)
	if err != nil {
		return 0, 0, 0, err
	}
	prices := gasOracleResponse{}
	if err = json.Unmarshal(body, &prices); err != nil {
		return 0, 0, 0, fmt.Errorf("couldn't unmarshal %s to gas price struct: %w", string(body), err)
	}
	low, err = strconv.ParseFloat(prices.Result.SafeGasPrice, 64)
	if err != nil {
		return 0, 0, 0, err
	}
	average, err = strconv.ParseFloat(prices.Result.ProposeGasPrice, 64)
	if err != nil {
		return 0, 0, 0, err
	}
	fast, err = strconv.ParseFloat(prices.Result.FastGasPrice, 64)
	if err != nil {
		return 0, 0, 0, err
	}
	return low, average, fast, nil
}

func (ee *EtherscanLikeExplorer) RecommendedGasPrice() (float64, error) {
	ee.gpmu.Lock()
	defer ee.gpmu.Unlock()

	if ee.latestGasPrice == 0 || time.Now().Unix()-ee.gasPriceTimestamp > CACHE_TIME_OUT {
		_, _, fast, err := ee.getGasPrice()
		if err != nil {
			return 0, fmt.Errorf("explorer gas price lookup failed: %w", err)
		}
		ee.latestGasPrice = fast
		ee.gasPriceTimestamp = time.Now().Unix()
	}
	return ee.latestGasPrice, nil
}

type abiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

func (ee *EtherscanLikeExplorer) GetABIString(address string) (string, error) {
	url := fmt.Sprintf(
		"%s/api?chainid=%d&module=contract&action=getabi&address=%s&apikey=%s",
		ee.Domain, ee.ChainID, address, ee.APIKey,
	)
	body, err := ee.get(url)
	if err != nil {
		return "", err
	}
	resp := abiResponse{}
	if err = json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("couldn't unmarshal %s to abi response: %w", string(body), err)
	}
	if resp.Status != "1" {
		return "", fmt.Errorf("explorer refused abi request for %s: %s", address, resp.Result)
	}
	return resp.Result, nil
}

type ContractSource struct {
	SourceCode   string `json:"SourceCode"`
	ABI          string `json:"ABI"`
	ContractName string `json:"ContractName"`
}

type sourceCodeResponse struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Result  []ContractSource `json:"result"`
}

func (ee *EtherscanLikeExplorer) GetSourceCode(address string) ([]ContractSource, error) {
	url := fmt.Sprintf(
		"%s/api?chainid=%d&module=contract&action=getsourcecode&address=%s&apikey=%s",
		ee.Domain, ee.ChainID, address, ee.APIKey,
	)
	body, err := ee.get(url)
	if err != nil {
		return nil, err
	}
	resp := sourceCodeResponse{}
	if err = json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("couldn't unmarshal %s to source code response: %w", string(body), err)
	}
	if resp.Status != "1" {
		return nil, fmt.Errorf("explorer refused source request for %s: %s", address, resp.Message)
	}
	return resp.Result, nil
}

func (ee *EtherscanLikeExplorer) get(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
