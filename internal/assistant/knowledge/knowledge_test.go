package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linkIDs(links []SmartLink) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.ID)
	}
	return out
}

func TestMatchSmartLinks(t *testing.T) {
	assert.Equal(t, []string{"recharge-options"}, linkIDs(MatchSmartLinks("How do I TOP UP?")))
	assert.Equal(t, []string{"upgrade-card", "pro-rata-faq"}, linkIDs(MatchSmartLinks("card invoice")))
	assert.Empty(t, MatchSmartLinks("مرحبا"))
}

func TestLabelAndDescription(t *testing.T) {
	assert.Equal(t, "تحديث البطاقة", Label("upgrade-card", "ar"))
	assert.Equal(t, "Upgrade my card", Label("upgrade-card", "fr"))
	assert.Equal(t, "", Label("missing", "en"))
	assert.Contains(t, Description("pro-rata-faq", "en"), "prorated")
}

func TestCatalogLinksResolve(t *testing.T) {
	assert.Len(t, SmartLinks(), 5)
	for _, entry := range entries {
		if entry.LinkID == "" {
			continue
		}
		_, ok := LinkByID(entry.LinkID)
		assert.True(t, ok, entry.ID)
	}
}

func TestRetrieve(t *testing.T) {
	got := Retrieve("what is the card price", 0)
	require.Len(t, got, 2)
	assert.Equal(t, "pricing-basics", got[0].ID)
	assert.Equal(t, "pricing-card-definition", got[1].ID)

	assert.Len(t, Retrieve("what is the card price", 1), 1)
	assert.Empty(t, Retrieve("مرحبا", 0))
}

func TestBuildPrompt(t *testing.T) {
	assert.Empty(t, BuildPrompt(nil))

	prompt := BuildPrompt(Retrieve("recharge", 0))
	assert.True(t, strings.HasPrefix(prompt, "Reference knowledge to ground your answer:\n• Support and payments: "))
}

func TestBuildLinkHints(t *testing.T) {
	assert.Empty(t, BuildLinkHints(nil))
	assert.Equal(t,
		"Relevant links (emit the token to show it): [[link:support-contact]] Contact support",
		BuildLinkHints(MatchSmartLinks("agent")),
	)
}
