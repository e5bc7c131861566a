package commands

import (
	"fmt"
	"strings"

	"hcrypto-price-bot/lib/helpers"
)

// changeEntry is one row of the percentage-change grid.
type changeEntry struct {
	label   string
	percent string
}

func newChangeEntry(label string, value *float64) changeEntry {
	if value == nil {
		return changeEntry{label: label, percent: "N/A"}
	}
	return changeEntry{label: label, percent: fmt.Sprintf("%.1f%%", *value)}
}

// generalEntry is one row of the market-data grid (market cap, supplies).
type generalEntry struct {
	emoji string
	label string
	value string
}

func newGeneralEntry(emoji, label string, value *float64) generalEntry {
	if value == nil {
		return generalEntry{emoji: emoji, label: label, value: "N/A"}
	}
	return generalEntry{emoji: emoji, label: label, value: helpers.HumanFormat(*value)}
}

// newSupplyEntry is a supply row, rendered with comma grouping instead
// of a metric suffix.
func newSupplyEntry(emoji, label string, value *float64) generalEntry {
	if value == nil {
		return generalEntry{emoji: emoji, label: label, value: "N/A"}
	}
	return generalEntry{emoji: emoji, label: label, value: helpers.FormatSupplyUS(*value)}
}

// extremeEntry is an all-time-high or all-time-low row.
type extremeEntry struct {
	emoji   string
	label   string
	price   string
	percent string
	date    string
}

func newExtremeEntry(emoji, label string, prices, percentages map[string]float64, dates map[string]string) extremeEntry {
	entry := extremeEntry{emoji: emoji, label: label, price: "N/A", percent: "N/A", date: "N/A"}

	if price, ok := prices["usd"]; ok {
		entry.price = helpers.HumanFormat(price) + "$"
	}
	if percentage, ok := percentages["usd"]; ok {
		entry.percent = helpers.HumanFormat(percentage) + "%"
	}
	if date, ok := dates["usd"]; ok {
		entry.date = helpers.FormatDate(date)
	}
	return entry
}

func formatChangeGrid(entries []changeEntry) (body string, header string) {
	labels := make([]string, len(entries))
	percents := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.label
		percents[i] = e.percent
	}

	labelWidth := helpers.MaxColumnSize(labels)
	percentWidth := helpers.MaxColumnSize(percents)

	rows := make([]string, len(entries))
	for i, e := range entries {
		rows[i] = fmt.Sprintf("%-*s    %*s", labelWidth, e.label, percentWidth, e.percent)
	}

	header = strings.Repeat("-", labelWidth+percentWidth+4) + "\n"
	return strings.Join(rows, "\n"), header
}

func formatGeneralGrid(entries []generalEntry) string {
	labels := make([]string, len(entries))
	values := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.label
		values[i] = e.value
	}

	labelWidth := helpers.MaxColumnSize(labels)
	valueWidth := helpers.MaxColumnSize(values)

	rows := make([]string, len(entries))
	for i, e := range entries {
		rows[i] = fmt.Sprintf("%s %-*s   %*s", e.emoji, labelWidth, e.label, valueWidth, e.value)
	}
	return strings.Join(rows, "\n")
}

func formatExtremeGrid(entries []extremeEntry) string {
	labels := make([]string, len(entries))
	prices := make([]string, len(entries))
	percents := make([]string, len(entries))
	dates := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.label
		prices[i] = e.price
		percents[i] = e.percent
		dates[i] = e.date
	}

	labelWidth := helpers.MaxColumnSize(labels)
	priceWidth := helpers.MaxColumnSize(prices)
	percentWidth := helpers.MaxColumnSize(percents)
	dateWidth := helpers.MaxColumnSize(dates)

	rows := make([]string, len(entries))
	for i, e := range entries {
		rows[i] = fmt.Sprintf(
			"%s%-*s %*s (%*s) %*s",
			e.emoji, labelWidth, e.label, priceWidth, e.price, percentWidth, e.percent, dateWidth, e.date,
		)
	}
	return strings.Join(rows, "\n")
}
