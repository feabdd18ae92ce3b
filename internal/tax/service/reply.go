package service

import (
	"fmt"

	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/tariffdesk/internal/tax/domain"
)

// Reply is the bilingual explanation of a VAT breakdown.
type Reply struct {
	AR string
	EN string
}

// FormatVATReply renders the breakdown in both languages with JD amounts to
// three decimals.
func FormatVATReply(b taxdomain.VATBreakdown) Reply {
	pct := decimal.NewFromFloat(b.Rate * 100).Round(2).String()
	qty := decimal.NewFromFloat(b.Quantity).String()

	ar := fmt.Sprintf(
		"القيمة مع ضريبة %s%% هي JD %s لكل وحدة (الضريبة: JD %s).\nالإجمالي لعدد %s: صافي JD %s + ضريبة JD %s = JD %s.",
		pct, JD(b.UnitTotal), JD(b.UnitVAT),
		qty, JD(b.Subtotal), JD(b.TotalVAT), JD(b.TotalDue),
	)
	en := fmt.Sprintf(
		"With %s%% VAT, each unit is JD %s (VAT: JD %s).\nTotal for %s: net JD %s + VAT JD %s = JD %s.",
		pct, JD(b.UnitTotal), JD(b.UnitVAT),
		qty, JD(b.Subtotal), JD(b.TotalVAT), JD(b.TotalDue),
	)
	return Reply{AR: ar, EN: en}
}

// JD formats a Jordanian Dinar amount with three decimals. Rounding is half
// away from zero on the shortest decimal form of v, so 1.0005 renders as
// "1.001". Non-finite values render as zero.
func JD(v float64) string {
	if !isFinite(v) {
		return "0.000"
	}
	return decimal.NewFromFloat(v).StringFixed(3)
}
