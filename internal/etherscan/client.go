package etherscan

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"hcrypto-price-bot/internal/httpx"
)

const DefaultBaseURL = "https://api.etherscan.io/api"

// gasLimitTransfer is the gas used by a plain ETH transfer, the baseline
// for the per-tier USD cost estimate.
const gasLimitTransfer = 21000

// Client talks to the Etherscan API for gas and ETH price data.
type Client struct {
	HTTP    *httpx.Client
	BaseURL string
	apiKey  string
}

func NewClient(client *httpx.Client, apiKey string) *Client {
	return &Client{HTTP: client, BaseURL: DefaultBaseURL, apiKey: apiKey}
}

func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// GasOracle is the gas tracker response. Prices are gwei, shipped as
// strings by the API.
type GasOracle struct {
	SafeGasPrice    string `json:"SafeGasPrice"`
	FastGasPrice    string `json:"FastGasPrice"`
	SuggestBaseFee  string `json:"suggestBaseFee"`
	ProposeGasPrice string `json:"ProposeGasPrice"`
}

func (c *Client) GasOracle(ctx context.Context) (*GasOracle, error) {
	var result struct {
		Status string    `json:"status"`
		Result GasOracle `json:"result"`
	}
	u := fmt.Sprintf("%s?module=gastracker&action=gasoracle&apikey=%s", c.BaseURL, url.QueryEscape(c.apiKey))
	if err := c.HTTP.GetJSON(ctx, u, nil, &result); err != nil {
		return nil, err
	}
	if result.Status != "1" {
		return nil, errors.Errorf("gas oracle request rejected, status %q", result.Status)
	}
	return &result.Result, nil
}

// EthPrice returns the current ETH/USD price.
func (c *Client) EthPrice(ctx context.Context) (float64, error) {
	var result struct {
		Status string `json:"status"`
		Result struct {
			EthUSD string `json:"ethusd"`
		} `json:"result"`
	}
	u := fmt.Sprintf("%s?module=stats&action=ethprice&apikey=%s", c.BaseURL, url.QueryEscape(c.apiKey))
	if err := c.HTTP.GetJSON(ctx, u, nil, &result); err != nil {
		return 0, err
	}
	if result.Status != "1" {
		return 0, errors.Errorf("eth price request rejected, status %q", result.Status)
	}

	price, err := strconv.ParseFloat(result.Result.EthUSD, 64)
	if err != nil {
		return 0, errors.Wrap(err, "parse eth price")
	}
	return price, nil
}

// TransferCostUSD estimates the USD cost of a plain transfer at the given
// gas price in gwei.
func TransferCostUSD(gasPriceGwei, ethPriceUSD float64) float64 {
	costInEth := gasLimitTransfer * gasPriceGwei * 1e-9
	return costInEth * ethPriceUSD
}
