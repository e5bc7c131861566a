package coingecko

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"hcrypto-price-bot/internal/coinindex"
	"hcrypto-price-bot/internal/httpx"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Client talks to the public CoinGecko API.
type Client struct {
	HTTP    *httpx.Client
	BaseURL string
}

func NewClient(client *httpx.Client) *Client {
	return &Client{HTTP: client, BaseURL: DefaultBaseURL}
}

type listedCoin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// CoinList downloads the full catalog as coin index entries.
func (c *Client) CoinList(ctx context.Context) ([]coinindex.Entry, error) {
	var coins []listedCoin
	u := c.BaseURL + "/coins/list?include_platform=false"
	if err := c.HTTP.GetJSON(ctx, u, nil, &coins); err != nil {
		return nil, err
	}

	entries := make([]coinindex.Entry, 0, len(coins))
	for _, coin := range coins {
		if coin.ID == "" {
			continue
		}
		entries = append(entries, coinindex.Entry{ID: coin.ID, Symbol: coin.Symbol, Name: coin.Name})
	}
	return entries, nil
}

// CoinDetail is the subset of /coins/{id} the bot renders.
type CoinDetail struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	MarketCapRank *int   `json:"market_cap_rank"`
	Links         struct {
		Homepage          []string `json:"homepage"`
		TwitterScreenName string   `json:"twitter_screen_name"`
	} `json:"links"`
	MarketData MarketData `json:"market_data"`
}

type MarketData struct {
	CurrentPrice      map[string]float64 `json:"current_price"`
	MarketCap         map[string]float64 `json:"market_cap"`
	CirculatingSupply *float64           `json:"circulating_supply"`
	TotalSupply       *float64           `json:"total_supply"`

	PriceChange24h  *float64 `json:"price_change_percentage_24h"`
	PriceChange7d   *float64 `json:"price_change_percentage_7d"`
	PriceChange14d  *float64 `json:"price_change_percentage_14d"`
	PriceChange30d  *float64 `json:"price_change_percentage_30d"`
	PriceChange60d  *float64 `json:"price_change_percentage_60d"`
	PriceChange200d *float64 `json:"price_change_percentage_200d"`
	PriceChange1y   *float64 `json:"price_change_percentage_1y"`

	ATH                 map[string]float64 `json:"ath"`
	ATHChangePercentage map[string]float64 `json:"ath_change_percentage"`
	ATHDate             map[string]string  `json:"ath_date"`
	ATL                 map[string]float64 `json:"atl"`
	ATLChangePercentage map[string]float64 `json:"atl_change_percentage"`
	ATLDate             map[string]string  `json:"atl_date"`
}

func (c *Client) CoinDetail(ctx context.Context, id string) (*CoinDetail, error) {
	u := fmt.Sprintf(
		"%s/coins/%s?localization=false&tickers=false&market_data=true&community_data=false&developer_data=false&sparkline=false",
		c.BaseURL, url.PathEscape(id),
	)

	var detail CoinDetail
	if err := c.HTTP.GetJSON(ctx, u, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// MarketChart holds a historical price series as [timestamp ms, price]
// pairs, the way the API ships them.
type MarketChart struct {
	Prices [][2]float64 `json:"prices"`
}

// PricePoints converts the raw pairs into plottable points.
func (m *MarketChart) PricePoints() ([]time.Time, []float64) {
	times := make([]time.Time, 0, len(m.Prices))
	prices := make([]float64, 0, len(m.Prices))
	for _, p := range m.Prices {
		times = append(times, time.UnixMilli(int64(p[0])))
		prices = append(prices, p[1])
	}
	return times, prices
}

// MarketChart fetches the price series for a period expressed in days
// ("1", "7", "30", "90", "365" or "max").
func (c *Client) MarketChart(ctx context.Context, id, period string) (*MarketChart, error) {
	u := fmt.Sprintf(
		"%s/coins/%s/market_chart?vs_currency=usd&days=%s",
		c.BaseURL, url.PathEscape(id), url.QueryEscape(period),
	)

	var chart MarketChart
	if err := c.HTTP.GetJSON(ctx, u, nil, &chart); err != nil {
		return nil, err
	}
	return &chart, nil
}

// GlobalData is the market-cap dominance breakdown from /global.
type GlobalData struct {
	Data struct {
		MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
	} `json:"data"`
}

func (c *Client) Global(ctx context.Context) (*GlobalData, error) {
	var global GlobalData
	if err := c.HTTP.GetJSON(ctx, c.BaseURL+"/global/", nil, &global); err != nil {
		return nil, err
	}
	return &global, nil
}

// NormalizeSymbol is the CoinGecko symbol convention for catalog lookups.
func NormalizeSymbol(symbol string) string {
	return strings.ToLower(symbol)
}
