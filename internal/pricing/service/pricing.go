package service

import (
	"math"

	pricingdomain "github.com/smallbiznis/tariffdesk/internal/pricing/domain"
)

// ComputePricing derives every tariff from basePrice.
//
// Non-finite input is treated as 0. Negative prices are passed through
// unchanged so credit scenarios keep their sign.
func ComputePricing(basePrice float64) pricingdomain.Result {
	a := basePrice
	if math.IsNaN(a) || math.IsInf(a, 0) {
		a = 0
	}
	return pricingdomain.Result{
		Base:           a,
		NosBNos:        a * pricingdomain.MultiplierNosBNos,
		VoiceCallsOnly: a * pricingdomain.MultiplierVoiceCalls,
		DataOnly:       a * pricingdomain.MultiplierDataOnly,
	}
}

// Formulas returns the textual formulas shown next to the calculator.
// They are reference text only and never evaluated.
func Formulas() []pricingdomain.Formula {
	return []pricingdomain.Formula{
		{Key: "base", Expression: "A"},
		{Key: "nosBNos", Expression: "A × 1.3108 (Nos_b_Nos)"},
		{Key: "voiceCallsOnly", Expression: "A × 1.4616 (Voice Calls Only)"},
		{Key: "dataOnly", Expression: "A × 1.16 (Data Only)"},
		{Key: "nosVerbose", Expression: "A + (A/2 × 0.4616) + (A/2 × 0.16)"},
	}
}
