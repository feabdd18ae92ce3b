package intent

import (
	"regexp"
	"strings"

	docsdomain "github.com/smallbiznis/tariffdesk/internal/docs/domain"
	docsservice "github.com/smallbiznis/tariffdesk/internal/docs/service"
)

// MatchThreshold is the score a document must exceed to be opened.
const MatchThreshold = 0.45

// DefaultNavTriggers are the verbs that mark an "open document" request.
var DefaultNavTriggers = []string{
	"افتح", "فتح", "افتحي", "open", "show", "اذهب", "navigate", "شغل", "عرض", "روح",
}

var navPunctuationRe = regexp.MustCompile(`["'،,؛:!?]`)

// DocMatch is the best scoring document and its score in (0.45, 1].
type DocMatch struct {
	Doc   docsdomain.DocEntry
	Score float64
}

// Navigator detects navigation requests for a fixed trigger vocabulary.
type Navigator struct {
	trigger *regexp.Regexp
}

// NewNavigator builds a navigator for the default triggers plus extra.
// Triggers match as whole words in any script.
func NewNavigator(extra ...string) *Navigator {
	words := make([]string, 0, len(DefaultNavTriggers)+len(extra))
	for _, w := range append(append([]string{}, DefaultNavTriggers...), extra...) {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, regexp.QuoteMeta(w))
		}
	}
	pattern := `(?i)(^|[^\p{L}\p{N}_])(` + strings.Join(words, "|") + `)([^\p{L}\p{N}_]|$)`
	return &Navigator{trigger: regexp.MustCompile(pattern)}
}

var defaultNavigator = NewNavigator()

// DetectDocNavigation uses the default trigger vocabulary.
func DetectDocNavigation(message string, docs []docsdomain.DocEntry) (DocMatch, bool) {
	return defaultNavigator.Detect(message, docs)
}

// Detect strips the first trigger word and punctuation, slugifies the rest
// and scores it against every document slug. Ties keep the first document.
func (n *Navigator) Detect(message string, docs []docsdomain.DocEntry) (DocMatch, bool) {
	normalized := NormalizeDigits(message)
	loc := n.trigger.FindStringSubmatchIndex(normalized)
	if loc == nil {
		return DocMatch{}, false
	}

	cleaned := normalized[:loc[4]] + " " + normalized[loc[5]:]
	cleaned = strings.TrimSpace(navPunctuationRe.ReplaceAllString(cleaned, " "))
	if cleaned == "" {
		cleaned = message
	}
	tokens := docsservice.SlugTokens(docsservice.Slugify(cleaned))

	var best DocMatch
	found := false
	for _, doc := range docs {
		docSlug := doc.ID
		if docSlug == "" {
			docSlug = docsservice.Slugify(doc.Title)
		}
		score := TokenScore(tokens, docsservice.SlugTokens(docSlug))
		if score > MatchThreshold && (!found || score > best.Score) {
			best = DocMatch{Doc: doc, Score: score}
			found = true
		}
	}
	return best, found
}

// TokenScore counts query tokens that prefix-match any document token, in
// either direction, over the larger of the two token counts.
func TokenScore(query, doc []string) float64 {
	if len(doc) == 0 {
		return 0
	}
	hits := 0
	for _, q := range query {
		for _, d := range doc {
			if strings.HasPrefix(d, q) || strings.HasPrefix(q, d) {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(max(len(query), len(doc)))
}
