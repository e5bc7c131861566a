package commands

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"hcrypto-price-bot/lib/helpers"
	"hcrypto-price-bot/lib/translation"
)

// ContractPrice renders the DefiLlama price for a chain:contract pair.
func (a *App) ContractPrice(ctx context.Context, chain, contract string) (string, error) {
	log.Debugf("processing command /ll for %s:%s", chain, contract)

	coin, found, err := a.DefiLlama.CurrentPrice(ctx, chain, contract)
	if err != nil {
		return "", err
	}
	if !found {
		return helpers.EscapeMarkdownV2(translation.Translate("⚠ no coin found with this contract")), nil
	}

	return fmt.Sprintf(
		"`%s on %s`\n`price = %s$`",
		strings.ToUpper(coin.Symbol),
		strings.ToUpper(chain),
		helpers.HumanFormat(coin.Price),
	), nil
}
