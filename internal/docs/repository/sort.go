package repository

import (
	"slices"

	docsdomain "github.com/smallbiznis/tariffdesk/internal/docs/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// sortByTitle orders entries by title using Arabic collation rules.
func sortByTitle(docs []docsdomain.DocEntry) []docsdomain.DocEntry {
	sorted := slices.Clone(docs)
	c := collate.New(language.Arabic)
	slices.SortStableFunc(sorted, func(a, b docsdomain.DocEntry) int {
		return c.CompareString(a.Title, b.Title)
	})
	return sorted
}
