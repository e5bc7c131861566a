package defillama

import (
	"context"
	"fmt"
	"net/url"

	"hcrypto-price-bot/internal/httpx"
)

const DefaultBaseURL = "https://coins.llama.fi"

// Client fetches current token prices by contract address from DefiLlama.
type Client struct {
	HTTP    *httpx.Client
	BaseURL string
}

func NewClient(client *httpx.Client) *Client {
	return &Client{HTTP: client, BaseURL: DefaultBaseURL}
}

// CoinPrice is one priced contract from /prices/current.
type CoinPrice struct {
	Symbol     string  `json:"symbol"`
	Price      float64 `json:"price"`
	Decimals   int     `json:"decimals"`
	Confidence float64 `json:"confidence"`
}

// CurrentPrice looks up a contract on a chain ("ethereum", "bsc", ...).
// The found flag is false when the provider knows nothing about the
// contract; that is a user error, not a transport failure.
func (c *Client) CurrentPrice(ctx context.Context, chain, contract string) (CoinPrice, bool, error) {
	u := fmt.Sprintf(
		"%s/prices/current/%s:%s?searchWidth=1h",
		c.BaseURL, url.PathEscape(chain), url.PathEscape(contract),
	)

	var result struct {
		Coins map[string]CoinPrice `json:"coins"`
	}
	if err := c.HTTP.GetJSON(ctx, u, nil, &result); err != nil {
		return CoinPrice{}, false, err
	}

	for _, coin := range result.Coins {
		return coin, true, nil
	}
	return CoinPrice{}, false, nil
}
