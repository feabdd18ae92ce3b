package service

import (
	"fmt"
	"time"

	proratadomain "github.com/smallbiznis/tariffdesk/internal/prorata/domain"
	taxdomain "github.com/smallbiznis/tariffdesk/internal/tax/domain"
	taxservice "github.com/smallbiznis/tariffdesk/internal/tax/service"
)

const day = 24 * time.Hour

// Engine computes pro-rata charges for a fixed anchor day and VAT rate.
type Engine struct {
	anchorDay int
	vatRate   float64
}

// Option customizes an Engine.
type Option func(*Engine)

// WithAnchorDay overrides the cycle anchor. Values outside 1..28 are ignored
// so every month has the anchor day.
func WithAnchorDay(d int) Option {
	return func(e *Engine) {
		if d >= 1 && d <= 28 {
			e.anchorDay = d
		}
	}
}

// WithVATRate overrides the rate used to back VAT out of gross amounts.
func WithVATRate(rate float64) Option {
	return func(e *Engine) {
		if rate >= 0 {
			e.vatRate = rate
		}
	}
}

// NewEngine returns an engine anchored on day 15 with 16% VAT unless
// overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		anchorDay: proratadomain.DefaultAnchorDay,
		vatRate:   taxdomain.DefaultVATRate,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Compute runs the default day-15 / 16% engine.
func Compute(req proratadomain.Request) proratadomain.Result {
	return defaultEngine.Compute(req)
}

// AnchorDay returns the configured anchor day.
func (e *Engine) AnchorDay() int { return e.anchorDay }

// VATRate returns the configured VAT rate.
func (e *Engine) VATRate() float64 { return e.vatRate }

// Cycle returns the billing window enclosing date.
func (e *Engine) Cycle(date time.Time) proratadomain.Cycle {
	d := dateUTC(date)
	y, m, dd := d.Date()

	var start, end time.Time
	if dd < e.anchorDay {
		start = time.Date(y, m-1, e.anchorDay, 0, 0, 0, 0, time.UTC)
		end = time.Date(y, m, e.anchorDay, 0, 0, 0, 0, time.UTC)
	} else {
		start = time.Date(y, m, e.anchorDay, 0, 0, 0, 0, time.UTC)
		end = time.Date(y, m+1, e.anchorDay, 0, 0, 0, 0, time.UTC)
	}
	return proratadomain.Cycle{Start: start, End: end, Days: DaysBetween(start, end)}
}

// Compute calculates the remaining-days charge for req.
func (e *Engine) Compute(req proratadomain.Request) proratadomain.Result {
	activation := dateUTC(req.Activation())
	cycle := e.Cycle(activation)
	proDays := DaysBetween(activation, cycle.End)
	if proDays > cycle.Days {
		proDays = cycle.Days
	}

	ratio := 0.0
	if cycle.Days != 0 {
		ratio = float64(proDays) / float64(cycle.Days)
	}

	var (
		monthlyNet float64
		gross      *float64
	)
	switch r := req.(type) {
	case proratadomain.GrossRequest:
		monthlyNet = taxservice.NetFromGross(r.FullInvoiceGross, e.vatRate)
		g := r.FullInvoiceGross
		gross = &g
	case *proratadomain.GrossRequest:
		monthlyNet = taxservice.NetFromGross(r.FullInvoiceGross, e.vatRate)
		g := r.FullInvoiceGross
		gross = &g
	case proratadomain.MonthlyRequest:
		monthlyNet = r.MonthlyNet
	case *proratadomain.MonthlyRequest:
		monthlyNet = r.MonthlyNet
	}

	prorataNet := monthlyNet * ratio
	next := e.AddMonths(cycle.End, 1)

	return proratadomain.Result{
		Mode:             req.Mode(),
		CycleStartUTC:    cycle.Start,
		CycleEndUTC:      cycle.End,
		NextCycleEndUTC:  next,
		CycleDays:        cycle.Days,
		ProDays:          proDays,
		Ratio:            ratio,
		MonthlyNet:       monthlyNet,
		ProrataNet:       prorataNet,
		FullInvoiceGross: gross,
		VATRate:          e.vatRate,
		PctText:          Percent(ratio),
		MonthlyNetText:   "JD " + taxservice.JD(monthlyNet),
		ProrataNetText:   "JD " + taxservice.JD(prorataNet),
		CycleRangeText:   fmt.Sprintf("%s → %s", YMD(cycle.Start), YMD(cycle.End)),
		ProDaysText:      fmt.Sprintf("%d / %d", proDays, cycle.Days),
	}
}

// ElapsedDays is the complement of the remaining days: whole days from the
// cycle start up to date.
func (e *Engine) ElapsedDays(date time.Time) int {
	cycle := e.Cycle(date)
	return DaysBetween(cycle.Start, dateUTC(date))
}

// AddMonths moves t forward n months, landing on the anchor day.
func (e *Engine) AddMonths(t time.Time, n int) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m+time.Month(n), e.anchorDay, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar days from a to b, midnight to midnight.
// Negative spans count as zero.
func DaysBetween(a, b time.Time) int {
	diff := dateUTC(b).Sub(dateUTC(a))
	if diff <= 0 {
		return 0
	}
	return int(diff / day)
}

func dateUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
