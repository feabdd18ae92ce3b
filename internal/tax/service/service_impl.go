package service

import (
	"math"

	taxdomain "github.com/smallbiznis/tariffdesk/internal/tax/domain"
)

// ComputeVAT calculates unit and total VAT for amount × quantity.
// Quantity falls back to 1 when it is non-finite or not positive.
// No rounding happens here; formatting is left to the caller.
func ComputeVAT(amount, quantity, rate float64) taxdomain.VATBreakdown {
	qty := NormalizeQuantity(quantity)
	unitVAT := amount * rate
	unitTotal := amount + unitVAT
	return taxdomain.VATBreakdown{
		Amount:    amount,
		Quantity:  qty,
		Rate:      rate,
		UnitVAT:   unitVAT,
		UnitTotal: unitTotal,
		Subtotal:  amount * qty,
		TotalVAT:  unitVAT * qty,
		TotalDue:  unitTotal * qty,
	}
}

// ValidAmount reports whether amount can be taxed: finite and positive.
func ValidAmount(amount float64) bool {
	return isFinite(amount) && amount > 0
}

// NormalizeQuantity returns quantity, or 1 when it is unusable.
func NormalizeQuantity(quantity float64) float64 {
	if !isFinite(quantity) || quantity <= 0 {
		return 1
	}
	return quantity
}

// NetFromGross removes tax from a tax-inclusive amount.
func NetFromGross(gross, rate float64) float64 {
	return gross / (1 + rate)
}

// TaxExclusive calculates tax added on top of net.
func TaxExclusive(net, rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	return net * rate
}

// TaxInclusive calculates the tax portion already included in gross.
func TaxInclusive(gross, rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	return gross * (rate / (1 + rate))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
