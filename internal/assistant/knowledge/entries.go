package knowledge

import (
	"fmt"
	"strings"
)

type Entry struct {
	ID       string
	Title    string
	Body     string
	Keywords []string
	LinkID   string
}

var entries = []Entry{
	{
		ID:       "pricing-basics",
		Title:    "Orange Price Calculator formulas",
		Body:     "Base price is A. Nos_b_Nos = A × 1.3108 (legacy breakdown: A + (A/2 × 0.4616) + (A/2 × 0.16)). Voice Calls Only = A × 1.4616. Data Only = A × 1.16. Present all monetary values in Jordanian Dinars (JD) with two decimals unless the user needs more precision.",
		Keywords: []string{"nos", "price", "calculator", "card", "base"},
		LinkID:   "plans-overview",
	},
	{
		ID:       "pricing-card-definition",
		Title:    "What is the Orange card value",
		Body:     "When a user asks for the card price, return the base price (A) as entered in the calculator. Highlight how Nos_b_Nos, Voice Calls Only, and Data Only differ from the base. Offer to compute them if the base value is known.",
		Keywords: []string{"card", "card price", "how much", "cost"},
		LinkID:   "upgrade-card",
	},
	{
		ID:       "pro-rata-formula",
		Title:    "Day-15 pro-rata calculation",
		Body:     "Orange bills on a monthly cycle anchored on the 15th. The cycle runs from the 15th before activation to the next 15th. Pro-rata days = days from activation to the cycle end. Pro-rata (net) = Monthly Subscription Value × pro-rata days ÷ cycle days. Present the percentage as pro-rata days ÷ cycle days × 100. Always mention the cycle coverage dates and the invoice issue date (15th).",
		Keywords: []string{"pro", "prorata", "pro-rata", "billing", "cycle", "15"},
		LinkID:   "pro-rata-faq",
	},
	{
		ID:       "pro-rata-guidance",
		Title:    "Explaining prorated invoices",
		Body:     "Explain that the first invoice covers service until the next 15th. Clarify that VAT is already baked into the full invoice amount if provided, but the pro-rata formula works on the net monthly value. Offer to guide the user to enter activation date and monthly value correctly.",
		Keywords: []string{"invoice", "prorated", "vat", "tax", "explain"},
	},
	{
		ID:       "assistant-capabilities",
		Title:    "Assistant behaviour",
		Body:     "You are bilingual (Arabic and English). Answer in the user language. Provide concise, friendly explanations. Offer contextual quick tips, remind users about the hash tabs (#calculator, #pro-rata, #assistant), and suggest official resources when relevant by emitting link tokens like [[link:plans-overview]] or [[link:pro-rata-faq]].",
		Keywords: []string{"assistant", "help", "what can you do", "chat"},
	},
	{
		ID:       "support-channels",
		Title:    "Support and payments",
		Body:     "For questions about paying invoices, recharging, or contacting Orange support, provide the relevant guidance and include the link token [[link:recharge-options]] or [[link:support-contact]] so the UI can open the official site.",
		Keywords: []string{"support", "payment", "recharge", "top", "help"},
		LinkID:   "support-contact",
	},
}

// Retrieve returns entries whose keywords appear in query, in catalog order.
// limit <= 0 returns every match.
func Retrieve(query string, limit int) []Entry {
	normalized := strings.ToLower(query)
	var out []Entry
	for _, entry := range entries {
		if !containsAny(normalized, entry.Keywords) {
			continue
		}
		out = append(out, entry)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// BuildPrompt renders snippets as a system message body, or "" when empty.
func BuildPrompt(snippets []Entry) string {
	if len(snippets) == 0 {
		return ""
	}
	lines := make([]string, 0, len(snippets))
	for _, entry := range snippets {
		lines = append(lines, fmt.Sprintf("• %s: %s", entry.Title, entry.Body))
	}
	return "Reference knowledge to ground your answer:\n" + strings.Join(lines, "\n")
}

// BuildLinkHints lists the link tokens the model may emit for the matched
// links, or "" when none matched.
func BuildLinkHints(links []SmartLink) string {
	if len(links) == 0 {
		return ""
	}
	parts := make([]string, 0, len(links))
	for _, link := range links {
		parts = append(parts, fmt.Sprintf("[[link:%s]] %s", link.ID, link.Label.EN))
	}
	return "Relevant links (emit the token to show it): " + strings.Join(parts, " | ")
}
