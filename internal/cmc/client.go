package cmc

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"hcrypto-price-bot/internal/coinindex"
	"hcrypto-price-bot/internal/httpx"
)

const DefaultBaseURL = "https://pro-api.coinmarketcap.com"

// Client talks to the CoinMarketCap Pro API. All endpoints require an
// API key; without one the CMC commands are disabled at wiring time.
type Client struct {
	HTTP    *httpx.Client
	BaseURL string
	apiKey  string
}

func NewClient(client *httpx.Client, apiKey string) *Client {
	return &Client{HTTP: client, BaseURL: DefaultBaseURL, apiKey: apiKey}
}

func (c *Client) headers() map[string]string {
	return map[string]string{"X-CMC_PRO_API_KEY": c.apiKey}
}

type mappedCoin struct {
	ID     int    `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Map downloads the id map catalog. CMC ids are integers; the coin index
// stores them as strings.
func (c *Client) Map(ctx context.Context) ([]coinindex.Entry, error) {
	var result struct {
		Data []mappedCoin `json:"data"`
	}
	if err := c.HTTP.GetJSON(ctx, c.BaseURL+"/v1/cryptocurrency/map", c.headers(), &result); err != nil {
		return nil, err
	}

	entries := make([]coinindex.Entry, 0, len(result.Data))
	for _, coin := range result.Data {
		if coin.ID == 0 {
			continue
		}
		entries = append(entries, coinindex.Entry{
			ID:     strconv.Itoa(coin.ID),
			Symbol: coin.Symbol,
			Name:   coin.Name,
		})
	}
	return entries, nil
}

// Quote is the market data for one coin from quotes/latest.
type Quote struct {
	ID                int      `json:"id"`
	Name              string   `json:"name"`
	Symbol            string   `json:"symbol"`
	CMCRank           *int     `json:"cmc_rank"`
	CirculatingSupply *float64 `json:"circulating_supply"`
	TotalSupply       *float64 `json:"total_supply"`
	MaxSupply         *float64 `json:"max_supply"`
	Quote             struct {
		USD QuoteUSD `json:"USD"`
	} `json:"quote"`
}

type QuoteUSD struct {
	Price            float64  `json:"price"`
	MarketCap        *float64 `json:"market_cap"`
	PercentChange24h *float64 `json:"percent_change_24h"`
	PercentChange7d  *float64 `json:"percent_change_7d"`
	PercentChange30d *float64 `json:"percent_change_30d"`
	PercentChange60d *float64 `json:"percent_change_60d"`
	PercentChange90d *float64 `json:"percent_change_90d"`
}

func (c *Client) Quote(ctx context.Context, id string) (*Quote, error) {
	u := fmt.Sprintf("%s/v2/cryptocurrency/quotes/latest?id=%s", c.BaseURL, url.QueryEscape(id))

	var result struct {
		Data map[string]Quote `json:"data"`
	}
	if err := c.HTTP.GetJSON(ctx, u, c.headers(), &result); err != nil {
		return nil, err
	}

	quote, ok := result.Data[id]
	if !ok {
		return nil, errors.Errorf("no quote data for coin id %s", id)
	}
	return &quote, nil
}

// KeyInfo is the API key usage summary from /v1/key/info.
type KeyInfo struct {
	Plan struct {
		CreditLimitMonthly      int    `json:"credit_limit_monthly"`
		CreditLimitMonthlyReset string `json:"credit_limit_monthly_reset"`
	} `json:"plan"`
	Usage struct {
		CurrentMinute struct {
			RequestsMade int `json:"requests_made"`
			RequestsLeft int `json:"requests_left"`
		} `json:"current_minute"`
		CurrentDay struct {
			CreditsUsed int `json:"credits_used"`
			CreditsLeft int `json:"credits_left"`
		} `json:"current_day"`
		CurrentMonth struct {
			CreditsUsed int `json:"credits_used"`
			CreditsLeft int `json:"credits_left"`
		} `json:"current_month"`
	} `json:"usage"`
}

func (c *Client) KeyInfo(ctx context.Context) (*KeyInfo, error) {
	var result struct {
		Data KeyInfo `json:"data"`
	}
	if err := c.HTTP.GetJSON(ctx, c.BaseURL+"/v1/key/info", c.headers(), &result); err != nil {
		return nil, err
	}
	return &result.Data, nil
}

// NormalizeSymbol is the CoinMarketCap symbol convention for catalog
// lookups.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(symbol)
}
