package service

import (
	"testing"

	docsdomain "github.com/smallbiznis/tariffdesk/internal/docs/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	existing := []docsdomain.DocEntry{
		{ID: "max-it", Title: "Max It", URL: "https://example.com/max", Tags: []string{"en"}},
		{ID: "karti", Title: "KARTI", Tags: []string{"en"}},
	}
	incoming := []docsdomain.DocEntry{
		{ID: "max-it", Title: "Max It", URL: "https://example.com/max", Tags: []string{"en"}},
		{ID: "karti", Title: "KARTI", URL: "https://example.com/karti"},
		{ID: "e-shop", Title: "E-shop", Tags: []string{"en"}},
	}

	merged, result := Merge(existing, incoming)

	require.Len(t, merged, 3)
	require.Len(t, result.Added, 1)
	require.Len(t, result.Updated, 1)
	assert.Equal(t, "e-shop", result.Added[0].ID)
	assert.Equal(t, "karti", result.Updated[0].ID)
	assert.Equal(t, []string{"en"}, merged[1].Tags, "prior tags kept when incoming has none")
	assert.Equal(t, "https://example.com/karti", merged[1].URL)
	assert.Equal(t, "max-it", merged[0].ID, "existing order preserved")
}

func TestMergeIdempotent(t *testing.T) {
	seed := SeedEntries()
	merged, result := Merge(seed, seed)

	assert.False(t, result.Changed())
	assert.Equal(t, seed, merged)
}

func TestExtractLineCandidates(t *testing.T) {
	msg := "عروض حماية الوطن\n\nMax It • tod + OSN\n-\n !\nا"
	got := ExtractLineCandidates(msg)
	assert.Equal(t, []string{"عروض حماية الوطن", "Max It", "tod + OSN"}, got)

	assert.Empty(t, ExtractLineCandidates("   "))
}

func TestTitleTags(t *testing.T) {
	assert.Equal(t, []string{"ar"}, TitleTags("تقسيط"))
	assert.Equal(t, []string{"en"}, TitleTags("KARTI"))
	assert.Equal(t, []string{"en"}, TitleTags(" تقسيط"))
}

func TestSeedEntriesHaveUniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, doc := range SeedEntries() {
		assert.False(t, seen[doc.ID], "duplicate id %s", doc.ID)
		seen[doc.ID] = true
		assert.Empty(t, doc.URL)
	}
	assert.Len(t, seen, len(seedTitles))
}
