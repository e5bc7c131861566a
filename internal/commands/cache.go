package commands

import (
	"time"
)

type cacheItem struct {
	ChartData  []byte
	Caption    string
	Expiration time.Time
}

func (a *App) cacheGet(key string) (*cacheItem, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if item, found := a.chartCache[key]; found && time.Now().Before(item.Expiration) {
		return item, true
	}
	return nil, false
}

func (a *App) cacheSet(key string, chartData []byte, caption string, duration time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.chartCache[key] = &cacheItem{
		ChartData:  chartData,
		Caption:    caption,
		Expiration: time.Now().Add(duration),
	}
}
