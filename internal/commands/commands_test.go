package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hcrypto-price-bot/internal/coingecko"
	"hcrypto-price-bot/internal/coinindex"
	"hcrypto-price-bot/internal/defillama"
	"hcrypto-price-bot/internal/etherscan"
	"hcrypto-price-bot/internal/httpx"
	"hcrypto-price-bot/internal/quota"
)

func TestGasUnconfigured(t *testing.T) {
	app := NewApp()
	app.Etherscan = etherscan.NewClient(httpx.New(time.Second), "")

	text, err := app.Gas(context.Background())
	require.NoError(t, err)
	require.Contains(t, text, "without an Etherscan API KEY")
}

func TestGas(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "gasoracle":
			w.Write([]byte(`{"status":"1","result":{
				"SafeGasPrice":"18.2","ProposeGasPrice":"19.5","FastGasPrice":"60.0","suggestBaseFee":"17.9"
			}}`))
		case "ethprice":
			w.Write([]byte(`{"status":"1","result":{"ethusd":"3000"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	app := NewApp()
	app.Etherscan = etherscan.NewClient(httpx.New(2*time.Second), "key")
	app.Etherscan.BaseURL = ts.URL

	text, err := app.Gas(context.Background())
	require.NoError(t, err)
	require.Contains(t, text, "⛽ Ethereum Gas Fee")
	require.Contains(t, text, "😎 Safe")
	require.Contains(t, text, "🤨 Fast")
	require.Contains(t, text, "18.2")
	// 21000 gas at 18.2 gwei and 3000 USD/ETH.
	require.Contains(t, text, "1.15$")
}

func TestDominance(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"market_cap_percentage":{
			"btc":54.1,"eth":17.3,"usdt":3.8,"bnb":3.1,"sol":2.9,
			"xrp":1.8,"usdc":1.5,"steth":1.2,"ada":0.8,"doge":0.7,"trx":0.6
		}}}`))
	}))
	defer ts.Close()

	app := NewApp()
	app.CoinGecko = coingecko.NewClient(httpx.New(2 * time.Second))
	app.CoinGecko.BaseURL = ts.URL

	text, err := app.Dominance(context.Background())
	require.NoError(t, err)
	require.Contains(t, text, "🏆 TOP 10 MARKETCAP 🏆")
	require.Contains(t, text, "🥇  BTC")
	require.Contains(t, text, "54.1%")
	// Eleven shares in the payload, only ten rows make the table.
	require.NotContains(t, text, "TRX")
}

func TestPrice(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/bitcoin", r.URL.Path)
		w.Write([]byte(`{
			"id":"bitcoin","symbol":"btc","name":"Bitcoin","market_cap_rank":1,
			"links":{"homepage":["https://bitcoin.org?utm_source=x"],"twitter_screen_name":"bitcoin"},
			"market_data":{
				"current_price":{"usd":64230.12},
				"market_cap":{"usd":1260000000000},
				"circulating_supply":19700000,
				"total_supply":21000000,
				"price_change_percentage_24h":-1.2,
				"ath":{"usd":73737},
				"ath_change_percentage":{"usd":-12.9},
				"ath_date":{"usd":"2024-03-14T07:10:36.635Z"},
				"atl":{"usd":67.81},
				"atl_change_percentage":{"usd":94600.5},
				"atl_date":{"usd":"2013-07-06T00:00:00.000Z"}
			}
		}`))
	}))
	defer ts.Close()

	app := NewApp()
	app.CoinGecko = coingecko.NewClient(httpx.New(2 * time.Second))
	app.CoinGecko.BaseURL = ts.URL

	text, err := app.Price(context.Background(), "bitcoin", "42")
	require.NoError(t, err)
	require.Contains(t, text, `[Bitcoin](https://bitcoin.org)`)
	require.Contains(t, text, `[BTC](https://twitter.com/bitcoin)`)
	require.Contains(t, text, "Price: 64.2K$")
	require.Contains(t, text, "-1.2%")
	require.Contains(t, text, "N/A")
	require.Contains(t, text, "1.26T")
	require.Contains(t, text, "19,700,000")
	require.Contains(t, text, "ATH")
	require.Contains(t, text, "03/24")
}

func TestPriceQuotaDenied(t *testing.T) {
	gateServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer gateServer.Close()

	app := NewApp()
	app.Gate = quota.New(gateServer.URL, "", httpx.New(2*time.Second))

	text, err := app.Price(context.Background(), "bitcoin", "42")
	require.NoError(t, err)
	require.Contains(t, text, "maximum number of requests")
}

func TestContractPrice(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"coins":{"ethereum:0xdac17f958d2ee523a2206206994597c13d831ec7":{
			"decimals":6,"symbol":"usdt","price":1.001,"confidence":0.99
		}}}`))
	}))
	defer ts.Close()

	app := NewApp()
	app.DefiLlama = defillama.NewClient(httpx.New(2 * time.Second))
	app.DefiLlama.BaseURL = ts.URL

	text, err := app.ContractPrice(context.Background(), "ethereum", "0xdac17f958d2ee523a2206206994597c13d831ec7")
	require.NoError(t, err)
	require.Contains(t, text, "USDT on ETHEREUM")
	require.Contains(t, text, "price = 1$")
}

func TestContractPriceNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"coins":{}}`))
	}))
	defer ts.Close()

	app := NewApp()
	app.DefiLlama = defillama.NewClient(httpx.New(2 * time.Second))
	app.DefiLlama.BaseURL = ts.URL

	text, err := app.ContractPrice(context.Background(), "ethereum", "0xdead")
	require.NoError(t, err)
	require.Contains(t, text, "no coin found with this contract")
}

func TestChartQuotaDenied(t *testing.T) {
	gateServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer gateServer.Close()

	app := NewApp()
	app.Gate = quota.New(gateServer.URL, "", httpx.New(2*time.Second))

	data, caption, err := app.Chart(context.Background(), "bitcoin", "30", "42")
	require.NoError(t, err)
	require.Nil(t, data)
	require.Contains(t, caption, "maximum number of requests")
}

func TestChartServedFromCache(t *testing.T) {
	app := NewApp()
	app.CGIndex = coinindex.New(coinindex.Config{
		Name:  "test",
		Fetch: func(ctx context.Context) ([]coinindex.Entry, error) { return nil, nil },
	})

	app.cacheSet("bitcoin|30|dark", []byte{0x89, 0x50}, "Bitcoin", time.Minute)

	data, caption, err := app.Chart(context.Background(), "bitcoin", "30", "42")
	require.NoError(t, err)
	require.Equal(t, []byte{0x89, 0x50}, data)
	require.Equal(t, "Bitcoin", caption)
}
