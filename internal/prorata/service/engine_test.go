package service

import (
	"testing"
	"time"

	proratadomain "github.com/smallbiznis/tariffdesk/internal/prorata/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCompute_LeapFebruaryScenario(t *testing.T) {
	res := Compute(proratadomain.MonthlyRequest{
		ActivationDate: date(2024, time.March, 10),
		MonthlyNet:     50,
	})

	assert.Equal(t, date(2024, time.February, 15), res.CycleStartUTC)
	assert.Equal(t, date(2024, time.March, 15), res.CycleEndUTC)
	assert.Equal(t, date(2024, time.April, 15), res.NextCycleEndUTC)
	assert.Equal(t, 29, res.CycleDays)
	assert.Equal(t, 5, res.ProDays)
	assert.InDelta(t, 0.1724, res.Ratio, 0.0001)
	assert.InDelta(t, 8.621, res.ProrataNet, 0.0005)
	assert.Nil(t, res.FullInvoiceGross)

	assert.Equal(t, "17.24%", res.PctText)
	assert.Equal(t, "JD 50.000", res.MonthlyNetText)
	assert.Equal(t, "JD 8.621", res.ProrataNetText)
	assert.Equal(t, "2024-02-15 → 2024-03-15", res.CycleRangeText)
	assert.Equal(t, "5 / 29", res.ProDaysText)
}

func TestCycle_AnchorBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		activation time.Time
		start      time.Time
		end        time.Time
		days       int
	}{
		{"before anchor", date(2024, time.May, 14), date(2024, time.April, 15), date(2024, time.May, 15), 30},
		{"on anchor", date(2024, time.May, 15), date(2024, time.May, 15), date(2024, time.June, 15), 31},
		{"after anchor", date(2024, time.May, 31), date(2024, time.May, 15), date(2024, time.June, 15), 31},
		{"january wraps year", date(2025, time.January, 3), date(2024, time.December, 15), date(2025, time.January, 15), 31},
		{"december wraps year", date(2024, time.December, 20), date(2024, time.December, 15), date(2025, time.January, 15), 31},
		{"non leap february", date(2023, time.March, 1), date(2023, time.February, 15), date(2023, time.March, 15), 28},
	}

	e := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.Cycle(tt.activation)
			assert.Equal(t, tt.start, c.Start)
			assert.Equal(t, tt.end, c.End)
			assert.Equal(t, tt.days, c.Days)
		})
	}
}

func TestCompute_InvariantsAcrossTwoYears(t *testing.T) {
	e := NewEngine()
	for d := date(2023, time.January, 1); d.Before(date(2025, time.January, 1)); d = d.AddDate(0, 0, 1) {
		res := e.Compute(proratadomain.MonthlyRequest{ActivationDate: d, MonthlyNet: 30})

		require.Equal(t, 15, res.CycleStartUTC.Day(), d)
		require.Equal(t, 15, res.CycleEndUTC.Day(), d)
		require.Equal(t, res.CycleStartUTC.AddDate(0, 1, 0), res.CycleEndUTC, d)
		require.False(t, d.Before(res.CycleStartUTC), d)
		require.True(t, d.Before(res.CycleEndUTC), d)

		require.GreaterOrEqual(t, res.ProDays, 0)
		require.LessOrEqual(t, res.ProDays, res.CycleDays)
		require.Equal(t, res.CycleDays, res.ProDays+e.ElapsedDays(d), d)
		require.Equal(t, float64(res.ProDays)/float64(res.CycleDays), res.Ratio)
		require.GreaterOrEqual(t, res.Ratio, 0.0)
		require.LessOrEqual(t, res.Ratio, 1.0)
		require.Equal(t, 30*res.Ratio, res.ProrataNet)
	}
}

func TestCompute_GrossAgreesWithMonthly(t *testing.T) {
	for _, net := range []float64{10, 25.5, 50, 99.999} {
		activation := date(2024, time.August, 2)
		monthly := Compute(proratadomain.MonthlyRequest{ActivationDate: activation, MonthlyNet: net})
		gross := Compute(proratadomain.GrossRequest{ActivationDate: activation, FullInvoiceGross: net * 1.16})

		assert.InDelta(t, monthly.ProrataNet, gross.ProrataNet, 1e-9)
		assert.InDelta(t, net, gross.MonthlyNet, 1e-9)
		require.NotNil(t, gross.FullInvoiceGross)
		assert.Equal(t, net*1.16, *gross.FullInvoiceGross)
		assert.Equal(t, proratadomain.ModeGross, gross.Mode)
	}
}

func TestCompute_IgnoresTimeOfDay(t *testing.T) {
	withTime := time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC)
	res := Compute(proratadomain.MonthlyRequest{ActivationDate: withTime, MonthlyNet: 50})
	assert.Equal(t, 5, res.ProDays)
}

func TestEngineOptions(t *testing.T) {
	e := NewEngine(WithAnchorDay(1), WithVATRate(0.1))
	assert.Equal(t, 1, e.AnchorDay())
	assert.Equal(t, 0.1, e.VATRate())

	c := e.Cycle(date(2024, time.March, 10))
	assert.Equal(t, date(2024, time.March, 1), c.Start)
	assert.Equal(t, date(2024, time.April, 1), c.End)

	ignored := NewEngine(WithAnchorDay(31), WithVATRate(-1))
	assert.Equal(t, proratadomain.DefaultAnchorDay, ignored.AnchorDay())
	assert.Equal(t, 0.16, ignored.VATRate())
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(date(2024, time.March, 10), date(2024, time.March, 1)))
	assert.Equal(t, 366, DaysBetween(date(2024, time.January, 1), date(2025, time.January, 1)))
}
