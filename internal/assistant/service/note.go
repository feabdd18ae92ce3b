package service

import (
	"fmt"
	"strings"

	assistantdomain "github.com/smallbiznis/tariffdesk/internal/assistant/domain"
	docsdomain "github.com/smallbiznis/tariffdesk/internal/docs/domain"
)

// BuildDocsNote summarizes a registry capture in both languages, reply locale
// first, or returns "" when nothing changed.
func BuildDocsNote(result docsdomain.UpsertResult, locale string) string {
	added, updated := len(result.Added), len(result.Updated)
	if added+updated == 0 {
		return ""
	}

	var ar, en []string
	if added > 0 {
		ar = append(ar, fmt.Sprintf("إضافة %d عنصر جديد", added))
		en = append(en, fmt.Sprintf("added %d new title%s", added, plural(added)))
	}
	if updated > 0 {
		ar = append(ar, fmt.Sprintf("تحديث %d عنصر", updated))
		en = append(en, fmt.Sprintf("updated %d title%s", updated, plural(updated)))
	}

	return bilingual(locale,
		fmt.Sprintf("تم تحديث قائمة المستندات (%s).", strings.Join(ar, " و ")),
		fmt.Sprintf("Docs list refreshed (%s).", strings.Join(en, " & ")),
	)
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// bilingual puts the reply locale first.
func bilingual(locale, ar, en string) string {
	if locale == assistantdomain.LocaleAR {
		return ar + "\n" + en
	}
	return en + "\n" + ar
}

func combineText(locale, note, ar, en string) string {
	primary := bilingual(locale, ar, en)
	if note == "" {
		return primary
	}
	return note + "\n" + primary
}

// docsListLine renders the registry for the completion prompt.
func docsListLine(docs []docsdomain.DocEntry) string {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		url := doc.URL
		if url == "" {
			url = "pending"
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", doc.Title, url))
	}
	return "Docs available: " + strings.Join(parts, " | ")
}

// countLines counts non-blank lines.
func countLines(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
