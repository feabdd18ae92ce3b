package service

import (
	"math"
	"testing"

	pricingdomain "github.com/smallbiznis/tariffdesk/internal/pricing/domain"
	"github.com/stretchr/testify/assert"
)

func TestComputePricing_Multipliers(t *testing.T) {
	for _, base := range []float64{0, 1, 7.5, 10, 123.456, 1e6} {
		got := ComputePricing(base)
		assert.Equal(t, base, got.Base)
		assert.Equal(t, base*1.3108, got.NosBNos)
		assert.Equal(t, base*1.4616, got.VoiceCallsOnly)
		assert.Equal(t, base*1.16, got.DataOnly)
	}
}

func TestComputePricing_NonFiniteBecomesZero(t *testing.T) {
	for _, base := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.Equal(t, pricingdomain.Result{}, ComputePricing(base))
	}
}

// Negative prices are not clamped; this pins the permissive behavior until a
// product decision says otherwise.
func TestComputePricing_NegativePassesThrough(t *testing.T) {
	got := ComputePricing(-10)
	assert.Equal(t, -10.0, got.Base)
	assert.InDelta(t, -13.108, got.NosBNos, 1e-9)
	assert.InDelta(t, -11.6, got.DataOnly, 1e-9)
}

func TestComputePricing_VerboseFormulaAgrees(t *testing.T) {
	a := 20.0
	verbose := a + (a/2)*0.4616 + (a/2)*0.16
	assert.InDelta(t, verbose, ComputePricing(a).NosBNos, 1e-9)
}

func TestFormulas(t *testing.T) {
	formulas := Formulas()
	assert.Len(t, formulas, 5)
	assert.Equal(t, "base", formulas[0].Key)
}
