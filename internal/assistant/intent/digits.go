// Package intent holds the pure bilingual parsers that classify a chat
// message. Nothing here touches I/O.
package intent

import (
	"regexp"
	"strings"
)

var (
	arabicScriptRe = regexp.MustCompile(`\p{Arabic}`)
	numberRe       = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)
)

var digitReplacer = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// NormalizeDigits rewrites Arabic-Indic digits as ASCII digits.
func NormalizeDigits(s string) string {
	return digitReplacer.Replace(s)
}

// DetectLocale prefers the requested locale, then falls back to the script of
// the message text.
func DetectLocale(requested, text string) string {
	switch requested {
	case "ar", "en":
		return requested
	}
	if arabicScriptRe.MatchString(text) {
		return "ar"
	}
	return "en"
}
