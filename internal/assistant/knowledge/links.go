// Package knowledge holds the static smart-link catalog and the reference
// snippets used to ground completion answers.
package knowledge

import "strings"

type Category string

const (
	CategoryPlans    Category = "plans"
	CategorySupport  Category = "support"
	CategoryBilling  Category = "billing"
	CategoryUpgrades Category = "upgrades"
)

// Localized is a string in both UI languages.
type Localized struct {
	EN string `json:"en"`
	AR string `json:"ar"`
}

func (l Localized) In(locale string) string {
	if locale == "ar" && l.AR != "" {
		return l.AR
	}
	return l.EN
}

type SmartLink struct {
	ID          string    `json:"id"`
	Label       Localized `json:"label"`
	Description Localized `json:"description"`
	Href        string    `json:"href"`
	Keywords    []string  `json:"keywords"`
	Category    Category  `json:"category"`
}

// Hrefs with a __REPLACE_ marker are placeholders until the official pages
// are published.
var smartLinks = []SmartLink{
	{
		ID:          "plans-overview",
		Label:       Localized{EN: "Explore mobile plans", AR: "استكشف الباقات"},
		Description: Localized{EN: "Compare Orange mobile plans, allowances, and pricing tiers.", AR: "قارن باقات أورنج، السعات، وفئات الأسعار."},
		Href:        "https://www.orange.jo/__REPLACE_PLANS__",
		Keywords:    []string{"plan", "plans", "packages", "bundle", "offer", "offers"},
		Category:    CategoryPlans,
	},
	{
		ID:          "recharge-options",
		Label:       Localized{EN: "Recharge & top up", AR: "شحن الرصيد والدفع"},
		Description: Localized{EN: "Find recharge channels, e-vouchers, and payment partners.", AR: "تعرف على طرق الشحن، القسائم الإلكترونية، وشركاء الدفع."},
		Href:        "https://orange.jo/en/offers/quick-pay",
		Keywords:    []string{"recharge", "top up", "payment", "pay", "voucher", "top-up"},
		Category:    CategoryBilling,
	},
	{
		ID:          "support-contact",
		Label:       Localized{EN: "Contact support", AR: "تواصل مع الدعم"},
		Description: Localized{EN: "Get help from Orange support channels and service points.", AR: "تواصل مع قنوات دعم أورنج ونقاط الخدمة."},
		Href:        "https://www.orange.jo/__REPLACE_SUPPORT__",
		Keywords:    []string{"support", "help", "contact", "call center", "service", "agent"},
		Category:    CategorySupport,
	},
	{
		ID:          "upgrade-card",
		Label:       Localized{EN: "Upgrade my card", AR: "تحديث البطاقة"},
		Description: Localized{EN: "Review device and SIM upgrade eligibility for your card.", AR: "اعرف أهلية تحديث الجهاز أو الشريحة للبطاقة الخاصة بك."},
		Href:        "https://www.orange.jo/__REPLACE_UPGRADE__",
		Keywords:    []string{"upgrade", "card", "sim", "device", "replace"},
		Category:    CategoryUpgrades,
	},
	{
		ID:          "pro-rata-faq",
		Label:       Localized{EN: "Learn about pro-rata", AR: "تعرف على البروراتا"},
		Description: Localized{EN: "Understand how Orange calculates 15-day prorated charges.", AR: "تعرف على كيفية احتساب أورنج للبروراتا لدورة ١٥ يومًا."},
		Href:        "https://www.orange.jo/__REPLACE_PRORATA__",
		Keywords:    []string{"pro-rata", "billing", "invoice", "cycle", "prorate"},
		Category:    CategoryBilling,
	},
}

var linksByID = func() map[string]SmartLink {
	out := make(map[string]SmartLink, len(smartLinks))
	for _, link := range smartLinks {
		out[link.ID] = link
	}
	return out
}()

// SmartLinks returns the catalog in display order.
func SmartLinks() []SmartLink {
	out := make([]SmartLink, len(smartLinks))
	copy(out, smartLinks)
	return out
}

func LinkByID(id string) (SmartLink, bool) {
	link, ok := linksByID[id]
	return link, ok
}

// MatchSmartLinks returns links with any keyword contained in query,
// compared case-insensitively.
func MatchSmartLinks(query string) []SmartLink {
	normalized := strings.ToLower(query)
	var out []SmartLink
	for _, link := range smartLinks {
		if containsAny(normalized, link.Keywords) {
			out = append(out, link)
		}
	}
	return out
}

// Label falls back to English for unknown locales and "" for unknown ids.
func Label(id, locale string) string {
	link, ok := linksByID[id]
	if !ok {
		return ""
	}
	return link.Label.In(locale)
}

func Description(id, locale string) string {
	link, ok := linksByID[id]
	if !ok {
		return ""
	}
	return link.Description.In(locale)
}

func containsAny(haystack string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(haystack, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
