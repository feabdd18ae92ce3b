package intent

import (
	"testing"
	"time"

	docsdomain "github.com/smallbiznis/tariffdesk/internal/docs/domain"
	docsservice "github.com/smallbiznis/tariffdesk/internal/docs/service"
	proratadomain "github.com/smallbiznis/tariffdesk/internal/prorata/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "2024-03-10 50", NormalizeDigits("٢٠٢٤-٠٣-١٠ ٥٠"))
	assert.Equal(t, "abc", NormalizeDigits("abc"))
}

func TestDetectLocale(t *testing.T) {
	assert.Equal(t, "en", DetectLocale("en", "مرحبا"))
	assert.Equal(t, "ar", DetectLocale("", "كم السعر"))
	assert.Equal(t, "en", DetectLocale("", "price please"))
	assert.Equal(t, "en", DetectLocale("fr", "hello"))
}

func TestParseProrataIntent(t *testing.T) {
	activation := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		msg  string
		want proratadomain.Request
	}{
		{
			name: "monthly english",
			msg:  "activation 2024-03-10 monthly 50",
			want: proratadomain.MonthlyRequest{ActivationDate: activation, MonthlyNet: 50},
		},
		{
			name: "monthly arabic digits",
			msg:  "تفعيل ٢٠٢٤-٠٣-١٠ اشتراك ٥٠",
			want: proratadomain.MonthlyRequest{ActivationDate: activation, MonthlyNet: 50},
		},
		{
			name: "gross keyword",
			msg:  "2024-03-10 فاتورة كاملة 58.000",
			want: proratadomain.GrossRequest{ActivationDate: activation, FullInvoiceGross: 58},
		},
		{
			name: "gross after monthly wins",
			msg:  "2024-03-10, monthly 50, gross 58",
			want: proratadomain.GrossRequest{ActivationDate: activation, FullInvoiceGross: 58},
		},
		{
			name: "monthly after gross wins",
			msg:  "2024-03-10 gross 58 net 50",
			want: proratadomain.MonthlyRequest{ActivationDate: activation, MonthlyNet: 50},
		},
		{
			name: "arabic comma is a separator",
			msg:  "2024-03-10،صافي،50",
			want: proratadomain.MonthlyRequest{ActivationDate: activation, MonthlyNet: 50},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseProrataIntent(tc.msg)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseProrataIntentRejects(t *testing.T) {
	for _, msg := range []string{
		"monthly 50",
		"2024-03-10 with no amount keyword 50",
		"2024-13-45 monthly 50",
		"",
	} {
		_, ok := ParseProrataIntent(msg)
		assert.False(t, ok, msg)
	}
}

func TestParseVATIntent(t *testing.T) {
	got, ok := ParseVATIntent("السعر 100 مع الضريبة عدد 3")
	require.True(t, ok)
	assert.Equal(t, VATIntent{Amount: 100, Quantity: 3}, got)

	got, ok = ParseVATIntent("price 12.5 with VAT")
	require.True(t, ok)
	assert.Equal(t, VATIntent{Amount: 12.5, Quantity: 1}, got)

	got, ok = ParseVATIntent("tax on ٢٠ × ٤")
	require.True(t, ok)
	assert.Equal(t, VATIntent{Amount: 20, Quantity: 4}, got)

	got, ok = ParseVATIntent("vat 10 qty 0")
	require.True(t, ok)
	assert.Equal(t, 1.0, got.Quantity, "non-positive quantity falls back to 1")
}

func TestParseVATIntentRejects(t *testing.T) {
	for _, msg := range []string{
		"السعر 100 عدد 3",
		"what is vat",
		"vat 0",
	} {
		_, ok := ParseVATIntent(msg)
		assert.False(t, ok, msg)
	}
}

func seedDocs() []docsdomain.DocEntry {
	return docsservice.SeedEntries()
}

func TestDetectDocNavigationExactTitle(t *testing.T) {
	docs := []docsdomain.DocEntry{
		{ID: docsservice.Slugify("Max It"), Title: "Max It"},
		{ID: docsservice.Slugify("عروض حماية الوطن"), Title: "عروض حماية الوطن"},
	}

	match, ok := DetectDocNavigation("افتح عروض حماية الوطن", docs)
	require.True(t, ok)
	assert.Equal(t, "عروض حماية الوطن", match.Doc.Title)
	assert.Equal(t, 1.0, match.Score)
}

func TestDetectDocNavigationEnglish(t *testing.T) {
	match, ok := DetectDocNavigation("please open KARTI!", seedDocs())
	require.True(t, ok)
	assert.Equal(t, "KARTI", match.Doc.Title)
}

func TestDetectDocNavigationPrefixTokens(t *testing.T) {
	match, ok := DetectDocNavigation("show zte", seedDocs())
	require.True(t, ok)
	assert.Equal(t, "zte 6600", match.Doc.Title)
	assert.Equal(t, 0.5, match.Score)
}

func TestDetectDocNavigationRequiresWholeWordTrigger(t *testing.T) {
	_, ok := DetectDocNavigation("opener KARTI", seedDocs())
	assert.False(t, ok)

	_, ok = DetectDocNavigation("KARTI", seedDocs())
	assert.False(t, ok, "no trigger, no navigation")
}

func TestDetectDocNavigationBelowThreshold(t *testing.T) {
	_, ok := DetectDocNavigation("open something unrelated entirely", seedDocs())
	assert.False(t, ok)
}

func TestDetectDocNavigationFirstWinsTies(t *testing.T) {
	docs := []docsdomain.DocEntry{
		{ID: "alpha-one", Title: "Alpha One"},
		{ID: "alpha-two", Title: "Alpha Two"},
	}
	match, ok := DetectDocNavigation("open alpha", docs)
	require.True(t, ok)
	assert.Equal(t, "alpha-one", match.Doc.ID)
}

func TestDetectDocNavigationSlugifiesMissingID(t *testing.T) {
	docs := []docsdomain.DocEntry{{Title: "tod + OSN"}}
	match, ok := DetectDocNavigation("open tod osn", docs)
	require.True(t, ok)
	assert.Equal(t, 1.0, match.Score)
}

func TestNavigatorExtraTriggers(t *testing.T) {
	nav := NewNavigator("دور", " ")
	match, ok := nav.Detect("دور KARTI", seedDocs())
	require.True(t, ok)
	assert.Equal(t, "KARTI", match.Doc.Title)
}

func TestTokenScore(t *testing.T) {
	assert.Equal(t, 0.0, TokenScore([]string{"a"}, nil))
	assert.Equal(t, 1.0, TokenScore([]string{"max", "it"}, []string{"max", "it"}))
	assert.InDelta(t, 1.0/3, TokenScore([]string{"ma"}, []string{"max", "it", "now"}), 1e-9)
}
