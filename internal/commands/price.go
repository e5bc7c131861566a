package commands

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"hcrypto-price-bot/internal/quota"
	"hcrypto-price-bot/lib/helpers"
	"hcrypto-price-bot/lib/translation"
)

// ErrQuotaExceeded is returned as message text, not an error: the user
// gets a dedicated reply and the command is considered handled.
func quotaExceededMessage() string {
	return helpers.EscapeMarkdownV2(translation.Translate(
		"You have reached the maximum number of requests for this period. It will be reset in the end of the month.",
	))
}

// Price renders the CoinGecko price grid for an already resolved coin id.
func (a *App) Price(ctx context.Context, coinID, chatID string) (string, error) {
	log.Debugf("processing command /p for coin %s", coinID)

	if !a.Gate.CheckAndRecord(ctx, quota.ServiceCoinGecko, quota.ActionPrice, chatID, coinID) {
		return quotaExceededMessage(), nil
	}

	detail, err := a.CoinGecko.CoinDetail(ctx, coinID)
	if err != nil {
		return "", err
	}

	rank := ""
	if detail.MarketCapRank != nil {
		rank = fmt.Sprintf("%d° ", *detail.MarketCapRank)
	}

	price := "N/A"
	if usd, ok := detail.MarketData.CurrentPrice["usd"]; ok {
		price = helpers.HumanFormat(usd)
	}

	changes := []changeEntry{
		newChangeEntry("24h", detail.MarketData.PriceChange24h),
		newChangeEntry("7d", detail.MarketData.PriceChange7d),
		newChangeEntry("14d", detail.MarketData.PriceChange14d),
		newChangeEntry("30d", detail.MarketData.PriceChange30d),
		newChangeEntry("60d", detail.MarketData.PriceChange60d),
		newChangeEntry("200d", detail.MarketData.PriceChange200d),
		newChangeEntry("1y", detail.MarketData.PriceChange1y),
	}
	changeGrid, header := formatChangeGrid(changes)

	marketCap := detail.MarketData.MarketCap["usd"]
	generalGrid := formatGeneralGrid([]generalEntry{
		newGeneralEntry("💰", "M. Cap", &marketCap),
		newSupplyEntry("💵", "Circ. S", detail.MarketData.CirculatingSupply),
		newSupplyEntry("🖨", "Total S", detail.MarketData.TotalSupply),
	})

	extremeGrid := formatExtremeGrid([]extremeEntry{
		newExtremeEntry("📈", "ATH", detail.MarketData.ATH, detail.MarketData.ATHChangePercentage, detail.MarketData.ATHDate),
		newExtremeEntry("📉", "ATL", detail.MarketData.ATL, detail.MarketData.ATLChangePercentage, detail.MarketData.ATLDate),
	})

	var b strings.Builder
	b.WriteString(fmt.Sprintf(
		"%s[%s](%s) [%s](%s)\n",
		helpers.EscapeMarkdownV2(rank),
		helpers.EscapeMarkdownV2(detail.Name),
		homepage(detail.Links.Homepage),
		helpers.EscapeMarkdownV2(strings.ToUpper(detail.Symbol)),
		"https://twitter.com/"+detail.Links.TwitterScreenName,
	))
	b.WriteString(fmt.Sprintf("`Price: %s$`\n", price))
	b.WriteString("`" + header + "`")
	b.WriteString("`" + changeGrid + "`\n")
	b.WriteString("`" + header + "`")
	b.WriteString("`" + generalGrid + "`\n")
	b.WriteString("`" + extremeGrid + "`")

	return b.String(), nil
}

// homepage strips tracking query strings from the provider's first
// homepage link.
func homepage(links []string) string {
	if len(links) == 0 {
		return ""
	}
	link := links[0]
	if i := strings.IndexByte(link, '?'); i >= 0 {
		link = link[:i]
	}
	return link
}
