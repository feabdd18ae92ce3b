package service

import (
	"encoding/base64"
	"regexp"
	"strings"
	"unicode"

	"github.com/gosimple/slug"
)

// arabicToASCII transliterates Arabic letters and Arabic-Indic digits.
// Keys are matched two runes first so the lam-alef ligature wins over its
// single letters.
var arabicToASCII = map[string]string{
	"أ": "a", "إ": "i", "آ": "a", "ا": "a", "ب": "b", "ت": "t", "ث": "th",
	"ج": "j", "ح": "h", "خ": "kh", "د": "d", "ذ": "dh", "ر": "r", "ز": "z",
	"س": "s", "ش": "sh", "ص": "s", "ض": "d", "ط": "t", "ظ": "z", "ع": "a",
	"غ": "gh", "ف": "f", "ق": "q", "ك": "k", "ل": "l", "م": "m", "ن": "n",
	"ه": "h", "و": "w", "ي": "y", "ء": "a", "ئ": "y", "ؤ": "w", "ة": "h",
	"ى": "a",
	"لا": "la", "ﻻ": "la",
	"٠": "0", "١": "1", "٢": "2", "٣": "3", "٤": "4",
	"٥": "5", "٦": "6", "٧": "7", "٨": "8", "٩": "9",
}

var (
	diacriticsRe  = regexp.MustCompile(`[\x{064B}-\x{065F}]`)
	whitespaceRe  = regexp.MustCompile(`[\s\x{200F}\x{200E}]+`)
	separatorRuns = regexp.MustCompile(`[_~` + "`" + `^،؟!?,.;:\-]+`)
)

// NormalizeWhitespace strips Arabic diacritics and collapses whitespace,
// including bidi marks, to single spaces.
func NormalizeWhitespace(input string) string {
	out := diacriticsRe.ReplaceAllString(input, "")
	out = whitespaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// Slugify derives the stable registry id for a title.
//
// The same title always yields the same slug. Titles that transliterate to
// nothing fall back to a base64url-derived id.
func Slugify(rawTitle string) string {
	title := NormalizeWhitespace(rawTitle)
	title = strings.ToLower(separatorRuns.ReplaceAllString(title, " "))
	if title == "" {
		return slugFallback(rawTitle)
	}

	runes := []rune(title)
	var b strings.Builder
	for i := 0; i < len(runes); i++ {
		if i+1 < len(runes) {
			if mapped, ok := arabicToASCII[string(runes[i:i+2])]; ok {
				b.WriteString(mapped)
				i++
				continue
			}
		}
		r := runes[i]
		if mapped, ok := arabicToASCII[string(r)]; ok {
			b.WriteString(mapped)
			continue
		}
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte('-')
		}
	}

	joined := slug.Make(b.String())
	if joined == "" {
		return slugFallback(rawTitle)
	}
	return joined
}

func slugFallback(title string) string {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(title))
	if len(encoded) > 8 {
		encoded = encoded[:8]
	}
	return "doc-" + encoded
}

// SlugTokens splits a slug into its hyphen-separated tokens.
func SlugTokens(s string) []string {
	parts := strings.Split(s, "-")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
