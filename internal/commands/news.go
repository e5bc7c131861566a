package commands

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"hcrypto-price-bot/lib/helpers"
)

const newsDigestSize = 7

// NewsDigest renders the latest headlines from the configured feed.
func (a *App) NewsDigest(ctx context.Context) (string, error) {
	log.Debug("processing command /news")

	items, err := a.News.Latest(ctx, newsDigestSize)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("    📰 News feed from CoinDesk 📰\n\n")
	for _, item := range items {
		b.WriteString(fmt.Sprintf("🗞️ [%s](%s)\n\n", helpers.EscapeMarkdownV2(item.Title), item.Link))
	}
	return b.String(), nil
}
