package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"hcrypto-price-bot/lib/helpers"
)

var positionalEmoji = []string{"🥇", "🥈", "🥉", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

// Dominance renders the top-10 market-cap share table from the global
// market data.
func (a *App) Dominance(ctx context.Context) (string, error) {
	log.Debug("processing command /dom")

	global, err := a.CoinGecko.Global(ctx)
	if err != nil {
		return "", err
	}

	type share struct {
		symbol  string
		percent float64
	}
	shares := make([]share, 0, len(global.Data.MarketCapPercentage))
	for symbol, percent := range global.Data.MarketCapPercentage {
		shares = append(shares, share{symbol: strings.ToUpper(symbol), percent: percent})
	}
	sort.Slice(shares, func(i, j int) bool { return shares[i].percent > shares[j].percent })
	if len(shares) > len(positionalEmoji) {
		shares = shares[:len(positionalEmoji)]
	}

	symbols := make([]string, len(shares))
	percents := make([]string, len(shares))
	for i, s := range shares {
		symbols[i] = s.symbol
		percents[i] = fmt.Sprintf("%.1f%%", s.percent)
	}

	symbolWidth := helpers.MaxColumnSize(symbols)
	percentWidth := helpers.MaxColumnSize(percents)
	divider := strings.Repeat("-", symbolWidth+percentWidth+5)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🏆 TOP %d MARKETCAP 🏆\n", len(shares)))
	b.WriteString("```\n")
	b.WriteString(divider + "\n")
	for i := range shares {
		b.WriteString(fmt.Sprintf("%s  %-*s %*s\n", positionalEmoji[i], symbolWidth, symbols[i], percentWidth, percents[i]))
	}
	b.WriteString(divider + "\n")
	b.WriteString("```")

	return b.String(), nil
}
