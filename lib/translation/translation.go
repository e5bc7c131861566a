// Package translation resolves the bot's user-facing reply strings
// through gotext catalogs under locales/. A string without a catalog
// entry falls back to its msgid, so an untranslated language still
// answers in English.
package translation

import (
	"strings"

	"github.com/leonelquinteros/gotext"
)

// Configure selects the reply language for all subsequent Translate
// calls. lang is a locale code like "en" or "it"; empty means English.
func Configure(lang string) {
	if lang == "" {
		lang = "en"
	}
	gotext.Configure("locales", strings.ToLower(lang), "default")
}

func Translate(msgID string, vars ...interface{}) string {
	return gotext.Get(msgID, vars...)
}
