package intent

import (
	"regexp"
	"strconv"
)

var (
	vatKeywordRe  = regexp.MustCompile(`(?i)(?:ضريبة|شامل|vat|ضريبه|tax|مع الضريبة|includes vat|include vat|with vat)`)
	vatQuantityRe = regexp.MustCompile(`(?i)(?:عدد|qty|quantity|pieces|بطاقات|كروت|شرائح|lines|x|×)\s*([0-9]+(?:\.[0-9]+)?)`)
)

// VATIntent is a unit amount before VAT and how many units to price.
type VATIntent struct {
	Amount   float64
	Quantity float64
}

// ParseVATIntent needs a VAT keyword and at least one number. The first
// number is the unit amount and must be positive; the quantity defaults to 1.
func ParseVATIntent(message string) (VATIntent, bool) {
	normalized := NormalizeDigits(message)
	if !vatKeywordRe.MatchString(normalized) {
		return VATIntent{}, false
	}

	first := numberRe.FindString(normalized)
	if first == "" {
		return VATIntent{}, false
	}
	amount, err := strconv.ParseFloat(first, 64)
	if err != nil || amount <= 0 {
		return VATIntent{}, false
	}

	intent := VATIntent{Amount: amount, Quantity: 1}
	if m := vatQuantityRe.FindStringSubmatch(normalized); m != nil {
		if qty, err := strconv.ParseFloat(m[1], 64); err == nil && qty > 0 {
			intent.Quantity = qty
		}
	}
	return intent, true
}
