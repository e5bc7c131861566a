package helpers

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func EscapeMarkdownV2(text string) string {
	charactersToEscape := []string{".", "-", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "=", "|", "{", "}", "!"}

	for _, char := range charactersToEscape {
		text = strings.ReplaceAll(text, char, "\\"+char)
	}
	return text
}

// HumanFormat renders a value with a metric suffix (12.3K, 1.05B, ...)
// keeping three significant digits.
func HumanFormat(num float64) string {
	suffixes := []string{"", "K", "M", "B", "T"}

	magnitude := 0
	for math.Abs(num) >= 1000 && magnitude < len(suffixes)-1 {
		magnitude++
		num /= 1000.0
	}

	rounded, err := strconv.ParseFloat(strconv.FormatFloat(num, 'g', 3, 64), 64)
	if err != nil {
		rounded = num
	}

	return strconv.FormatFloat(rounded, 'f', -1, 64) + suffixes[magnitude]
}

// MaxColumnSize returns the widest string length, 0 for an empty list.
func MaxColumnSize(arr []string) int {
	max := 0
	for _, s := range arr {
		if len(s) > max {
			max = len(s)
		}
	}
	return max
}

// FormatDate turns an RFC3339 provider timestamp into MM/YY.
func FormatDate(dateStr string) string {
	t, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return "N/A"
	}
	return t.Format("01/06")
}

func FormatPriceUS(price float64, escapeMarkdown bool) string {
	decimals := 6

	if price >= 1000 {
		decimals = 0
	} else if price > 1.2 {
		decimals = 2
	} else if price < 0.00001 {
		decimals = 8
	}

	p := message.NewPrinter(language.English)
	formatted := p.Sprintf("%.*f", decimals, price)

	if escapeMarkdown {
		return EscapeMarkdownV2(formatted)
	}
	return formatted
}

func FormatSupplyUS(supply float64) string {
	return humanize.Commaf(math.Round(supply))
}
