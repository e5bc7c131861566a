package commands

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"hcrypto-price-bot/internal/quota"
	"hcrypto-price-bot/lib/helpers"
)

// CMCPrice renders the CoinMarketCap price grid for a resolved coin id.
func (a *App) CMCPrice(ctx context.Context, coinID, chatID string) (string, error) {
	log.Debugf("processing command /cmc for coin %s", coinID)

	if !a.Gate.CheckAndRecord(ctx, quota.ServiceCoinMarketCap, quota.ActionPrice, chatID, coinID) {
		return quotaExceededMessage(), nil
	}

	q, err := a.CMC.Quote(ctx, coinID)
	if err != nil {
		return "", err
	}

	rank := ""
	if q.CMCRank != nil {
		rank = fmt.Sprintf("%d° ", *q.CMCRank)
	}

	changes := []changeEntry{
		newChangeEntry("24h", q.Quote.USD.PercentChange24h),
		newChangeEntry("7d", q.Quote.USD.PercentChange7d),
		newChangeEntry("30d", q.Quote.USD.PercentChange30d),
		newChangeEntry("60d", q.Quote.USD.PercentChange60d),
		newChangeEntry("90d", q.Quote.USD.PercentChange90d),
	}
	changeGrid, header := formatChangeGrid(changes)

	generalGrid := formatGeneralGrid([]generalEntry{
		newGeneralEntry("💰", "M. Cap", q.Quote.USD.MarketCap),
		newSupplyEntry("💵", "Circ. S", q.CirculatingSupply),
		newSupplyEntry("🖨", "Total S", q.TotalSupply),
		newSupplyEntry("🏦", "Max S", q.MaxSupply),
	})

	var b strings.Builder
	b.WriteString(helpers.EscapeMarkdownV2(fmt.Sprintf("%s%s %s\n", rank, q.Name, q.Symbol)))
	b.WriteString(fmt.Sprintf("`Price: %s$`\n", helpers.HumanFormat(q.Quote.USD.Price)))
	b.WriteString("`" + header + "`")
	b.WriteString("`" + changeGrid + "`\n")
	b.WriteString("`" + header + "`")
	b.WriteString("`" + generalGrid + "`")

	return b.String(), nil
}

// CMCKeyInfo summarizes the configured CoinMarketCap API key usage.
func (a *App) CMCKeyInfo(ctx context.Context) (string, error) {
	log.Debug("processing command /cmckey")

	info, err := a.CMC.KeyInfo(ctx)
	if err != nil {
		return "", err
	}

	message := fmt.Sprintf(
		"CoinMarketCap Key Info\n\n"+
			"`Your monthly credit limit is %d`\n"+
			"`Minute requests count is %d of %d`\n"+
			"`Daily credits used are %d of %d`\n"+
			"`Monthly credits used are %d of %d`\n"+
			"`Monthly credits limit will be reset %s`",
		info.Plan.CreditLimitMonthly,
		info.Usage.CurrentMinute.RequestsMade, info.Usage.CurrentMinute.RequestsLeft,
		info.Usage.CurrentDay.CreditsUsed, info.Usage.CurrentDay.CreditsLeft,
		info.Usage.CurrentMonth.CreditsUsed, info.Usage.CurrentMonth.CreditsLeft,
		strings.ToLower(info.Plan.CreditLimitMonthlyReset),
	)
	return message, nil
}
