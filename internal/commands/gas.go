package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"hcrypto-price-bot/internal/etherscan"
	"hcrypto-price-bot/lib/helpers"
	"hcrypto-price-bot/lib/translation"
)

func gasMoodEmoji(gwei float64) string {
	switch {
	case gwei < 20:
		return "😎"
	case gwei < 50:
		return "😄"
	case gwei < 75:
		return "🤨"
	case gwei < 100:
		return "😰"
	default:
		return "💀"
	}
}

// Gas renders the Ethereum gas fee table with a USD transfer-cost
// estimate per tier.
func (a *App) Gas(ctx context.Context) (string, error) {
	log.Debug("processing command /gas")

	if !a.Etherscan.Configured() {
		return helpers.EscapeMarkdownV2(translation.Translate(
			"The bot has been launched without an Etherscan API KEY.",
		)), nil
	}

	oracle, err := a.Etherscan.GasOracle(ctx)
	if err != nil {
		return "", err
	}
	ethPrice, err := a.Etherscan.EthPrice(ctx)
	if err != nil {
		return "", err
	}

	tiers := []struct {
		label string
		gwei  string
	}{
		{"Safe", oracle.SafeGasPrice},
		{"Fast", oracle.FastGasPrice},
		{"Suggested", oracle.SuggestBaseFee},
	}

	type gasRow struct {
		emoji string
		label string
		gwei  string
		usd   string
	}
	rows := make([]gasRow, 0, len(tiers))
	for _, tier := range tiers {
		gwei, err := strconv.ParseFloat(tier.gwei, 64)
		if err != nil {
			log.Errorf("unparseable gas price %q for tier %s: %v", tier.gwei, tier.label, err)
			continue
		}
		rows = append(rows, gasRow{
			emoji: gasMoodEmoji(gwei),
			label: tier.label,
			gwei:  fmt.Sprintf("%.1f", gwei),
			usd:   fmt.Sprintf("%.2f$", etherscan.TransferCostUSD(gwei, ethPrice)),
		})
	}

	labels := make([]string, len(rows))
	gweis := make([]string, len(rows))
	usds := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = r.label
		gweis[i] = r.gwei
		usds[i] = r.usd
	}

	labelWidth := helpers.MaxColumnSize(labels)
	gweiWidth := helpers.MaxColumnSize(gweis)
	usdWidth := helpers.MaxColumnSize(usds)
	divider := strings.Repeat("-", labelWidth+gweiWidth+usdWidth+9)

	var b strings.Builder
	b.WriteString("⛽ Ethereum Gas Fee\n")
	b.WriteString("```\n")
	b.WriteString(divider + "\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%s %-*s  %*s  %*s\n", r.emoji, labelWidth, r.label, gweiWidth, r.gwei, usdWidth, r.usd))
	}
	b.WriteString(divider + "\n")
	b.WriteString("```")

	return b.String(), nil
}
