package domain

// DefaultVATRate is the Jordanian general sales tax applied to every
// invoice line. ENGINE-CONSTANT: pro-rata gross back-out depends on it.
const DefaultVATRate = 0.16

// TaxMode represents how tax relates to an amount.
type TaxMode string

const (
	TaxModeExclusive TaxMode = "exclusive" // amount + tax
	TaxModeInclusive TaxMode = "inclusive" // amount already includes tax
)

// VATBreakdown is the tax-inclusive total of amount × quantity.
type VATBreakdown struct {
	Amount   float64 `json:"amount"`
	Quantity float64 `json:"quantity"`
	Rate     float64 `json:"rate"`

	UnitVAT   float64 `json:"unitVat"`
	UnitTotal float64 `json:"unitTotal"`
	Subtotal  float64 `json:"subtotal"`
	TotalVAT  float64 `json:"totalVat"`
	TotalDue  float64 `json:"totalDue"`
}
