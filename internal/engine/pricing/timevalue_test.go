package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureValueKnownValues(t *testing.T) {
	cases := []struct {
		name      string
		principal float64
		rate      float64
		years     float64
		freq      CompoundingFrequency
		want      float64
	}{
		{"annual compounding", 1000, 0.05, 10, CompoundAnnually, 1628.89},
		{"monthly compounding", 1000, 0.05, 10, CompoundMonthly, 1647.01},
		{"continuous compounding", 1000, 0.05, 10, CompoundContinuous, 1000 * math.E * math.Exp(-0.5)},
		{"zero rate", 1000, 0, 10, CompoundAnnually, 1000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, explanation := FutureValue(tc.principal, tc.rate, tc.years, tc.freq)
			assert.InDelta(t, tc.want, got, 0.01)
			assert.NotEmpty(t, explanation)
		})
	}
}

func TestPresentValueInvertsFutureValue(t *testing.T) {
	freqs := []CompoundingFrequency{
		CompoundAnnually, CompoundSemiAnnually, CompoundQuarterly,
		CompoundMonthly, CompoundDaily, CompoundContinuous,
	}
	for _, freq := range freqs {
		fv, _ := FutureValue(2500, 0.04, 7, freq)
		pv, _ := PresentValue(fv, 0.04, 7, freq)
		assert.InDelta(t, 2500, pv, 1e-6, "round trip failed for %s", freq)
	}
}

func TestImpliedRateRecoversRate(t *testing.T) {
	fv, _ := FutureValue(1000, 0.065, 12, CompoundQuarterly)
	rate, explanation, err := ImpliedRate(1000, fv, 12, CompoundQuarterly)
	require.NoError(t, err)
	assert.InDelta(t, 0.065, rate, 1e-9)
	assert.NotEmpty(t, explanation)
}

func TestImpliedPeriodRecoversYears(t *testing.T) {
	fv, _ := FutureValue(1000, 0.05, 9, CompoundContinuous)
	years, _, err := ImpliedPeriod(1000, fv, 0.05, CompoundContinuous)
	require.NoError(t, err)
	assert.InDelta(t, 9, years, 1e-9)
}

func TestImpliedRateValidation(t *testing.T) {
	_, _, err := ImpliedRate(-1, 1000, 5, CompoundAnnually)
	assert.Error(t, err)

	_, _, err = ImpliedRate(1000, 2000, 0, CompoundAnnually)
	assert.Error(t, err)
}

func TestImpliedPeriodValidation(t *testing.T) {
	_, _, err := ImpliedPeriod(1000, 2000, 0, CompoundAnnually)
	assert.Error(t, err)

	_, _, err = ImpliedPeriod(0, 2000, 0.05, CompoundAnnually)
	assert.Error(t, err)
}
