// Package domain defines the pro-rata request variants and the calculated
// result for the day-15 invoicing cycle.
package domain

import "time"

const (
	// DefaultAnchorDay is the day of month on which every cycle starts and
	// every invoice is issued.
	DefaultAnchorDay = 15
)

// Mode names the request variant.
type Mode string

const (
	ModeMonthly Mode = "monthly"
	ModeGross   Mode = "gross"
)

// Request is either a MonthlyRequest or a GrossRequest.
type Request interface {
	Mode() Mode
	Activation() time.Time
}

// MonthlyRequest prorates a net monthly subscription value.
type MonthlyRequest struct {
	ActivationDate time.Time
	MonthlyNet     float64
}

func (r MonthlyRequest) Mode() Mode            { return ModeMonthly }
func (r MonthlyRequest) Activation() time.Time { return r.ActivationDate }

// GrossRequest prorates a full invoice amount that already includes VAT.
type GrossRequest struct {
	ActivationDate   time.Time
	FullInvoiceGross float64
}

func (r GrossRequest) Mode() Mode            { return ModeGross }
func (r GrossRequest) Activation() time.Time { return r.ActivationDate }

// Cycle is the [Start, End) billing window around a date.
type Cycle struct {
	Start time.Time
	End   time.Time
	Days  int
}

// Result is the calculated pro-rata charge plus its pre-formatted text.
// Text fields are consumed as-is by the chat assistant and the UI.
type Result struct {
	Mode Mode `json:"mode"`

	CycleStartUTC   time.Time `json:"cycleStartUTC"`
	CycleEndUTC     time.Time `json:"cycleEndUTC"`
	NextCycleEndUTC time.Time `json:"nextCycleEndUTC"`

	CycleDays int     `json:"cycleDays"`
	ProDays   int     `json:"proDays"`
	Ratio     float64 `json:"ratio"`

	MonthlyNet       float64  `json:"monthlyNet"`
	ProrataNet       float64  `json:"prorataNet"`
	FullInvoiceGross *float64 `json:"fullInvoiceGross,omitempty"`
	VATRate          float64  `json:"vatRate"`

	PctText        string `json:"pctText"`
	MonthlyNetText string `json:"monthlyNetText"`
	ProrataNetText string `json:"prorataNetText"`
	CycleRangeText string `json:"cycleRangeText"`
	ProDaysText    string `json:"proDaysText"`
}

// OutputView selects the copy-ready text block.
type OutputView string

const (
	ViewScript OutputView = "script"
	ViewTotals OutputView = "totals"
	ViewVAT    OutputView = "vat"
)
