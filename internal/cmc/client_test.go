package cmc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hcrypto-price-bot/internal/httpx"
)

func testServerClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.Header.Get("X-CMC_PRO_API_KEY"))
		handler(w, r)
	}))
	client := NewClient(httpx.New(2*time.Second), "test-key")
	client.BaseURL = ts.URL
	return client, ts.Close
}

func TestMap(t *testing.T) {
	client, done := testServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/cryptocurrency/map", r.URL.Path)
		w.Write([]byte(`{"data":[
			{"id":1,"symbol":"BTC","name":"Bitcoin"},
			{"id":0,"symbol":"BAD","name":"No ID"},
			{"id":1027,"symbol":"ETH","name":"Ethereum"}
		]}`))
	})
	defer done()

	entries, err := client.Map(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "1", entries[0].ID)
	require.Equal(t, "BTC", entries[0].Symbol)
	require.Equal(t, "1027", entries[1].ID)
}

func TestQuote(t *testing.T) {
	client, done := testServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/cryptocurrency/quotes/latest", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("id"))
		w.Write([]byte(`{"data":{"1":{
			"id":1,"name":"Bitcoin","symbol":"BTC","cmc_rank":1,
			"circulating_supply":19700000,"max_supply":21000000,
			"quote":{"USD":{"price":64230.12,"market_cap":1260000000000,"percent_change_24h":-1.2}}
		}}}`))
	})
	defer done()

	quote, err := client.Quote(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "Bitcoin", quote.Name)
	require.Equal(t, 64230.12, quote.Quote.USD.Price)
	require.NotNil(t, quote.MaxSupply)
	require.Equal(t, float64(21000000), *quote.MaxSupply)
	require.Nil(t, quote.Quote.USD.PercentChange90d)
}

func TestQuoteMissingID(t *testing.T) {
	client, done := testServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	})
	defer done()

	_, err := client.Quote(context.Background(), "99999")
	require.Error(t, err)
}

func TestKeyInfo(t *testing.T) {
	client, done := testServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/key/info", r.URL.Path)
		w.Write([]byte(`{"data":{
			"plan":{"credit_limit_monthly":10000,"credit_limit_monthly_reset":"In 16 days"},
			"usage":{
				"current_minute":{"requests_made":2,"requests_left":28},
				"current_day":{"credits_used":25,"credits_left":308},
				"current_month":{"credits_used":1475,"credits_left":8525}
			}
		}}`))
	})
	defer done()

	info, err := client.KeyInfo(context.Background())
	require.NoError(t, err)
	require.Equal(t, 10000, info.Plan.CreditLimitMonthly)
	require.Equal(t, 28, info.Usage.CurrentMinute.RequestsLeft)
	require.Equal(t, 1475, info.Usage.CurrentMonth.CreditsUsed)
}

func TestNormalizeSymbol(t *testing.T) {
	require.Equal(t, "BTC", NormalizeSymbol("btc"))
}
