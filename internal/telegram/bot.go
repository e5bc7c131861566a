package telegram

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"hcrypto-price-bot/internal/coinindex"
	"hcrypto-price-bot/internal/commands"
	"hcrypto-price-bot/internal/resolver"
	"hcrypto-price-bot/lib/helpers"
	"hcrypto-price-bot/lib/translation"
)

// commandTimeout bounds every outbound provider call chain for a single
// chat command.
const commandTimeout = 30 * time.Second

// NewBot creates new telegram bot
func NewBot(c BotConfig, app *commands.App) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug

	return &Bot{
		Bot:    bot,
		Config: c,
		App:    app,
	}, nil
}

// GetUpdatesChannel gets new updates
func (b *Bot) GetUpdatesChannel() (tgbotapi.UpdatesChannel, error) {
	updatesConfig := tgbotapi.NewUpdate(0)
	if b.Config.UpdatesTimeout > 0 {
		updatesConfig.Timeout = b.Config.UpdatesTimeout
	}
	return b.Bot.GetUpdatesChan(updatesConfig), nil
}

// SendMessage sends a telegram message
func (b *Bot) SendMessage(m Message) error {
	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	msg.ReplyToMessageID = m.MessageID
	msg.DisableWebPagePreview = true
	msg.ParseMode = "MarkdownV2"
	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send message: %v", m)
}

// ParseArguments splits a command argument string into its first token
// and the remainder.
func ParseArguments(args string) (string, string) {
	re := regexp.MustCompile(`^(\S+)\s*(.+)?$`)
	matches := re.FindStringSubmatch(strings.TrimSpace(args))

	if len(matches) >= 2 {
		first := matches[1]
		rest := ""
		if len(matches) == 3 {
			rest = strings.TrimSpace(matches[2])
		}
		return first, rest
	}
	return "", ""
}

// HandleUpdate processes one Telegram command and returns the reply
// text. An empty return means the handler already answered (photo or
// inline keyboard).
func (b *Bot) HandleUpdate(u tgbotapi.Update) string {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	chatID := u.Message.Chat.ID
	log.Debugf("received command: %s", u.Message.Command())

	switch u.Message.Command() {
	case "start":
		return b.App.Start()
	case "help":
		return b.App.Help()
	case "p":
		return b.resolveAndRun(ctx, u, b.App.CGIndex, resolver.PurposePrice, CallbackCGPrice)
	case "c":
		return b.resolveAndRun(ctx, u, b.App.CGIndex, resolver.PurposeChart, CallbackCGChart)
	case "cmc":
		return b.resolveAndRun(ctx, u, b.App.CMCIndex, resolver.PurposePrice, CallbackCMCPrice)
	case "cmckey":
		text, err := b.App.CMCKeyInfo(ctx)
		return b.textOrError(text, err)
	case "gas":
		text, err := b.App.Gas(ctx)
		return b.textOrError(text, err)
	case "dom":
		text, err := b.App.Dominance(ctx)
		return b.textOrError(text, err)
	case "news":
		text, err := b.App.NewsDigest(ctx)
		return b.textOrError(text, err)
	case "ll":
		chain, contract := ParseArguments(u.Message.CommandArguments())
		if chain == "" || contract == "" {
			return helpers.EscapeMarkdownV2(translation.Translate("Usage: /ll <chain> <contract>"))
		}
		text, err := b.App.ContractPrice(ctx, chain, contract)
		return b.textOrError(text, err)
	case "chart_color":
		b.sendThemeKeyboard(chatID)
		return ""
	}

	return translation.Translate("Unknown command, type /help for the command list.")
}

// resolveAndRun maps the typed symbol to a coin id and runs the action,
// or sends a disambiguation keyboard when several coins share the symbol.
func (b *Bot) resolveAndRun(ctx context.Context, u tgbotapi.Update, index *coinindex.Cache, purpose resolver.Purpose, callbackPrefix string) string {
	chatID := u.Message.Chat.ID
	symbol, _ := ParseArguments(u.Message.CommandArguments())

	result, err := resolver.Resolve(ctx, index, symbol)
	if err != nil {
		log.Errorf("resolution failed for %q: %v", symbol, err)
		return helpers.EscapeMarkdownV2(translation.Translate("An error occurred. Please try again later."))
	}

	switch result.State {
	case resolver.NotFound:
		return helpers.EscapeMarkdownV2(translation.Translate("Please enter a valid crypto symbol."))
	case resolver.Ambiguous:
		b.sendDisambiguation(chatID, result.Candidates, callbackPrefix)
		return ""
	default:
		return b.runResolved(ctx, chatID, result.ID, purpose, callbackPrefix)
	}
}

// runResolved executes the action for a coin id that is already known to
// be valid, either from a unique match or from a disambiguation pick.
func (b *Bot) runResolved(ctx context.Context, chatID int64, coinID string, purpose resolver.Purpose, callbackPrefix string) string {
	chatRef := fmt.Sprintf("%d", chatID)

	if purpose == resolver.PurposeChart {
		b.sendChart(ctx, chatID, coinID, commands.DefaultChartPeriod)
		return ""
	}

	var text string
	var err error
	if callbackPrefix == CallbackCMCPrice {
		text, err = b.App.CMCPrice(ctx, coinID, chatRef)
	} else {
		text, err = b.App.Price(ctx, coinID, chatRef)
	}
	return b.textOrError(text, err)
}

func (b *Bot) textOrError(text string, err error) string {
	if err != nil {
		log.Error(err)
		return helpers.EscapeMarkdownV2(translation.Translate("An error occurred. Please try again later."))
	}
	return text
}

// sendDisambiguation offers one button per candidate id. The selection
// re-enters the command path with a known id, skipping the lookup.
func (b *Bot) sendDisambiguation(chatID int64, candidates []coinindex.Entry, callbackPrefix string) {
	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, candidate := range candidates {
		label := candidate.ID
		if candidate.Name != "" {
			label = fmt.Sprintf("%s (%s)", candidate.Name, strings.ToUpper(candidate.Symbol))
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, EncodeCallback(callbackPrefix, candidate.ID)),
		))
	}

	msg := tgbotapi.NewMessage(chatID, helpers.EscapeMarkdownV2(translation.Translate(
		"🟠 There are multiple coins with the same symbol, please select the desired one:",
	)))
	msg.ParseMode = "MarkdownV2"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)

	if _, err := b.Bot.Send(msg); err != nil {
		log.Error("failed to send disambiguation keyboard: ", err)
	}
}

func (b *Bot) sendThemeKeyboard(chatID int64) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌑 dark", EncodeCallback(CallbackTheme, commands.ChartThemeDark)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌕 white", EncodeCallback(CallbackTheme, commands.ChartThemeWhite)),
		),
	)

	msg := tgbotapi.NewMessage(chatID, helpers.EscapeMarkdownV2(translation.Translate("🟠 select desired chart theme")))
	msg.ParseMode = "MarkdownV2"
	msg.ReplyMarkup = keyboard

	if _, err := b.Bot.Send(msg); err != nil {
		log.Error("failed to send theme keyboard: ", err)
	}
}

// sendChart sends the chart photo with the period keyboard attached.
func (b *Bot) sendChart(ctx context.Context, chatID int64, coinID, period string) {
	chartData, caption, err := b.App.Chart(ctx, coinID, period, fmt.Sprintf("%d", chatID))
	if err != nil {
		log.Error(err)
		b.SendMessage(Message{
			ChatID: chatID,
			Text:   helpers.EscapeMarkdownV2(translation.Translate("An error occurred. Please try again later.")),
		})
		return
	}

	if chartData == nil {
		// Quota denied: caption carries the quota message.
		b.SendMessage(Message{ChatID: chatID, Text: caption})
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
		Name:  "chart.png",
		Bytes: chartData,
	})
	photo.Caption = caption
	photo.ParseMode = "MarkdownV2"
	photo.ReplyMarkup = periodKeyboard(coinID, period)

	if _, err := b.Bot.Send(photo); err != nil {
		log.Error("error sending chart:", err)
	}
}

func periodKeyboard(coinID, current string) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, period := range commands.ChartPeriods {
		label := period.Label
		if period.Key == current {
			label = "✅" + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			label, EncodeCallback(CallbackPeriod, period.Key, coinID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// HandleCallbackQuery answers inline keyboard selections: disambiguation
// picks, chart period switches and theme changes.
func (b *Bot) HandleCallbackQuery(callbackQuery *tgbotapi.CallbackQuery) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	chatID := callbackQuery.Message.Chat.ID
	messageID := callbackQuery.Message.MessageID
	prefix, args := DecodeCallback(callbackQuery.Data)

	b.Bot.Send(tgbotapi.NewCallback(callbackQuery.ID, ""))

	switch prefix {
	case CallbackCGPrice:
		if len(args) < 1 {
			return
		}
		b.deleteMessage(chatID, messageID)
		text := b.runResolved(ctx, chatID, args[0], resolver.PurposePrice, CallbackCGPrice)
		b.replyText(chatID, text)

	case CallbackCMCPrice:
		if len(args) < 1 {
			return
		}
		b.deleteMessage(chatID, messageID)
		text := b.runResolved(ctx, chatID, args[0], resolver.PurposePrice, CallbackCMCPrice)
		b.replyText(chatID, text)

	case CallbackCGChart:
		if len(args) < 1 {
			return
		}
		b.deleteMessage(chatID, messageID)
		b.sendChart(ctx, chatID, args[0], commands.DefaultChartPeriod)

	case CallbackPeriod:
		if len(args) < 2 {
			return
		}
		b.deleteMessage(chatID, messageID)
		b.sendChart(ctx, chatID, args[1], args[0])

	case CallbackTheme:
		if len(args) < 1 {
			return
		}
		b.App.SetChartTheme(args[0])
		b.deleteMessage(chatID, messageID)
		b.replyText(chatID, helpers.EscapeMarkdownV2(
			translation.Translate("%s theme selected", args[0]),
		))

	default:
		log.Debugf("unknown callback data: %s", callbackQuery.Data)
	}
}

func (b *Bot) replyText(chatID int64, text string) {
	if text == "" {
		return
	}
	if err := b.SendMessage(Message{ChatID: chatID, Text: text}); err != nil {
		log.Error(err)
	}
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	deleteMsg := tgbotapi.NewDeleteMessage(chatID, messageID)
	if _, err := b.Bot.Request(deleteMsg); err != nil {
		log.Error("failed to delete options message: ", err)
	}
}
