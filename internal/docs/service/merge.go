package service

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	docsdomain "github.com/smallbiznis/tariffdesk/internal/docs/domain"
)

var (
	lineSplitRe    = regexp.MustCompile(`\n+|•+`)
	arabicPrefixRe = regexp.MustCompile(`^\p{Arabic}+`)
)

// Merge folds incoming entries into existing by slug id.
//
// New ids are appended and reported as added. An existing id whose title,
// url or tags differ is replaced in place and reported as updated; prior tags
// are kept when the incoming entry has none.
func Merge(existing, incoming []docsdomain.DocEntry) ([]docsdomain.DocEntry, docsdomain.UpsertResult) {
	list := slices.Clone(existing)
	index := make(map[string]int, len(list))
	for i, doc := range list {
		index[doc.ID] = i
	}

	result := docsdomain.UpsertResult{
		Added:   []docsdomain.DocEntry{},
		Updated: []docsdomain.DocEntry{},
	}
	for _, doc := range incoming {
		pos, ok := index[doc.ID]
		if !ok {
			index[doc.ID] = len(list)
			list = append(list, doc)
			result.Added = append(result.Added, doc)
			continue
		}

		prev := list[pos]
		if prev.Equal(doc) {
			continue
		}
		merged := doc
		if len(merged.Tags) == 0 {
			merged.Tags = prev.Tags
		}
		list[pos] = merged
		result.Updated = append(result.Updated, merged)
	}
	return list, result
}

// ExtractLineCandidates splits a message into plausible document titles:
// one per line or bullet, at least two characters, containing a letter or
// a digit.
func ExtractLineCandidates(message string) []string {
	if strings.TrimSpace(message) == "" {
		return nil
	}

	var out []string
	for _, raw := range lineSplitRe.Split(message, -1) {
		line := NormalizeWhitespace(raw)
		if len([]rune(line)) < 2 || !hasLetterOrDigit(line) {
			continue
		}
		out = append(out, line)
	}
	return out
}

// TitleTags tags a title by its leading script.
func TitleTags(title string) []string {
	if arabicPrefixRe.MatchString(title) {
		return []string{"ar"}
	}
	return []string{"en"}
}

func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
