package commands

import (
	"hcrypto-price-bot/internal/cmc"
	"hcrypto-price-bot/internal/coingecko"
	"hcrypto-price-bot/internal/coinindex"
	"hcrypto-price-bot/internal/defillama"
	"hcrypto-price-bot/internal/etherscan"
	"hcrypto-price-bot/internal/news"
	"hcrypto-price-bot/internal/quota"
	"sync"
)

// ChartThemeDark and ChartThemeWhite are the selectable chart styles.
const (
	ChartThemeDark  = "dark"
	ChartThemeWhite = "white"
)

// App holds every collaborator the command handlers need. One instance is
// built at startup and shared by all handlers; the contained caches do
// their own locking.
type App struct {
	CoinGecko *coingecko.Client
	CMC       *cmc.Client
	Etherscan *etherscan.Client
	DefiLlama *defillama.Client
	News      *news.Client

	CGIndex  *coinindex.Cache
	CMCIndex *coinindex.Cache
	Gate     *quota.Service

	mu         sync.Mutex
	chartTheme string
	chartCache map[string]*cacheItem
}

func NewApp() *App {
	return &App{
		chartTheme: ChartThemeDark,
		chartCache: make(map[string]*cacheItem),
	}
}

func (a *App) ChartTheme() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chartTheme
}

func (a *App) SetChartTheme(theme string) {
	if theme != ChartThemeDark && theme != ChartThemeWhite {
		return
	}
	a.mu.Lock()
	a.chartTheme = theme
	a.mu.Unlock()
}
