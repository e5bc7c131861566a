package telegram

import (
	"strings"
)

// Callback data prefixes. The payload after the prefix is a provider coin
// id (or a theme / period token); ids never contain '|'.
const (
	CallbackCGPrice  = "cg"
	CallbackCGChart  = "cgchart"
	CallbackCMCPrice = "cmc"
	CallbackPeriod   = "period"
	CallbackTheme    = "theme"
)

// EncodeCallback joins a prefix and its arguments into callback data.
func EncodeCallback(prefix string, args ...string) string {
	return strings.Join(append([]string{prefix}, args...), "|")
}

// DecodeCallback splits callback data into its prefix and arguments.
func DecodeCallback(data string) (prefix string, args []string) {
	parts := strings.Split(data, "|")
	return parts[0], parts[1:]
}
