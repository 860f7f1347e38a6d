package varcalc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"risk-engine/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func position(id string, value, volatility float64) models.Position {
	return models.Position{
		ID:         id,
		AssetClass: models.AssetClassEquity,
		Ticker:     id,
		Quantity:   1,
		Price:      value,
		Volatility: floatPtr(volatility),
	}
}

func TestZScoresIncreaseWithConfidence(t *testing.T) {
	levels := []ConfidenceLevel{Confidence90, Confidence95, Confidence975, Confidence99}
	for i := 1; i < len(levels); i++ {
		assert.Greater(t, ZScores[levels[i]], ZScores[levels[i-1]])
		assert.Greater(t, Percentiles[levels[i]], Percentiles[levels[i-1]])
	}
}

func TestParametricSinglePosition(t *testing.T) {
	input := Input{
		Portfolio:       models.Portfolio{ID: "p1", Positions: []models.Position{position("AAA", 10_000, 0.20)}},
		Method:          MethodParametric,
		TimeHorizon:     Horizon1D,
		ConfidenceLevel: Confidence95,
	}

	result, err := Compute(input, DefaultSeed)
	require.NoError(t, err)

	want := 10_000 * 0.20 * 1.645 / math.Sqrt(252)
	assert.InDelta(t, want, result.VaR, 1e-9)
	assert.InDelta(t, 10_000.0, result.PortfolioValue, 1e-9)
	assert.InDelta(t, 0.0, result.DiversificationBenefit, 1e-9,
		"a single position cannot diversify")

	require.Len(t, result.AssetContributions, 1)
	assert.InDelta(t, result.VaR, result.AssetContributions[0].VaRContribution, 1e-9)
	assert.InDelta(t, 100.0, result.AssetContributions[0].VaRContributionPercentage, 1e-9)
}

func TestParametricUncorrelatedPairDiversifies(t *testing.T) {
	positions := []models.Position{position("AAA", 10_000, 0.20), position("BBB", 10_000, 0.20)}
	positions[0].Correlation = map[string]float64{"BBB": 0}

	input := Input{
		Portfolio:       models.Portfolio{ID: "p1", Positions: positions},
		Method:          MethodParametric,
		TimeHorizon:     Horizon1D,
		ConfidenceLevel: Confidence95,
	}

	result, err := Compute(input, DefaultSeed)
	require.NoError(t, err)

	single := 10_000 * 0.20 * 1.645 / math.Sqrt(252)
	// Two equal uncorrelated positions: diversified VaR is sqrt(2) times
	// one position's VaR, against 2x undiversified.
	assert.InDelta(t, single*math.Sqrt2, result.VaR, 1e-9)
	assert.InDelta(t, 2*single-single*math.Sqrt2, result.DiversificationBenefit, 1e-9)
}

func TestContributionsSumToVaR(t *testing.T) {
	positions := []models.Position{
		position("AAA", 10_000, 0.25),
		position("BBB", 25_000, 0.15),
		position("CCC", 5_000, 0.40),
	}
	positions[0].Correlation = map[string]float64{"BBB": 0.3}
	positions[2].Correlation = map[string]float64{"AAA": 0.7}

	for _, method := range []Method{MethodParametric, MethodHistorical, MethodMonteCarlo} {
		t.Run(string(method), func(t *testing.T) {
			input := Input{
				Portfolio:       models.Portfolio{ID: "p1", Positions: positions},
				Method:          method,
				TimeHorizon:     Horizon10D,
				ConfidenceLevel: Confidence99,
				NumSimulations:  10_000,
			}

			result, err := Compute(input, DefaultSeed)
			require.NoError(t, err)
			require.Greater(t, result.VaR, 0.0)

			sum := 0.0
			for _, c := range result.AssetContributions {
				sum += c.VaRContribution
			}
			assert.InDelta(t, result.VaR, sum, result.VaR*1e-6)
		})
	}
}

func TestHorizonScaling(t *testing.T) {
	portfolio := models.Portfolio{ID: "p1", Positions: []models.Position{position("AAA", 10_000, 0.20)}}

	oneDay, err := Compute(Input{Portfolio: portfolio, Method: MethodParametric,
		TimeHorizon: Horizon1D, ConfidenceLevel: Confidence95}, DefaultSeed)
	require.NoError(t, err)
	tenDay, err := Compute(Input{Portfolio: portfolio, Method: MethodParametric,
		TimeHorizon: Horizon10D, ConfidenceLevel: Confidence95}, DefaultSeed)
	require.NoError(t, err)

	assert.InDelta(t, math.Sqrt(10), tenDay.VaR/oneDay.VaR, 1e-9)
}

func TestDefaultVolatilityApplied(t *testing.T) {
	bare := position("AAA", 10_000, 0)
	bare.Volatility = nil
	explicit := position("BBB", 10_000, DefaultVolatility)

	bareResult, err := Compute(Input{
		Portfolio: models.Portfolio{ID: "p1", Positions: []models.Position{bare}},
		Method:    MethodParametric, TimeHorizon: Horizon1D, ConfidenceLevel: Confidence95,
	}, DefaultSeed)
	require.NoError(t, err)

	explicitResult, err := Compute(Input{
		Portfolio: models.Portfolio{ID: "p2", Positions: []models.Position{explicit}},
		Method:    MethodParametric, TimeHorizon: Horizon1D, ConfidenceLevel: Confidence95,
	}, DefaultSeed)
	require.NoError(t, err)

	assert.InDelta(t, explicitResult.VaR, bareResult.VaR, 1e-9)
}

func TestSimulationsAreDeterministic(t *testing.T) {
	input := Input{
		Portfolio: models.Portfolio{ID: "p1", Positions: []models.Position{
			position("AAA", 10_000, 0.20), position("BBB", 5_000, 0.30),
		}},
		Method:          MethodMonteCarlo,
		TimeHorizon:     Horizon1D,
		ConfidenceLevel: Confidence95,
		NumSimulations:  5_000,
	}

	first, err := Compute(input, DefaultSeed)
	require.NoError(t, err)
	second, err := Compute(input, DefaultSeed)
	require.NoError(t, err)
	assert.Equal(t, first.VaR, second.VaR)
	assert.Equal(t, first.DistributionStatistics, second.DistributionStatistics)

	reseeded, err := Compute(input, DefaultSeed+1)
	require.NoError(t, err)
	assert.NotEqual(t, first.VaR, reseeded.VaR)
}

func TestMonteCarloApproximatesParametricForSinglePosition(t *testing.T) {
	portfolio := models.Portfolio{ID: "p1", Positions: []models.Position{position("AAA", 10_000, 0.20)}}

	parametric, err := Compute(Input{Portfolio: portfolio, Method: MethodParametric,
		TimeHorizon: Horizon1D, ConfidenceLevel: Confidence95}, DefaultSeed)
	require.NoError(t, err)

	monteCarlo, err := Compute(Input{Portfolio: portfolio, Method: MethodMonteCarlo,
		TimeHorizon: Horizon1D, ConfidenceLevel: Confidence95, NumSimulations: 50_000}, DefaultSeed)
	require.NoError(t, err)

	relErr := math.Abs(monteCarlo.VaR-parametric.VaR) / parametric.VaR
	assert.Less(t, relErr, 0.05, "MC VaR %f vs parametric %f", monteCarlo.VaR, parametric.VaR)
}

func TestHistoricalProducesDistributionStatistics(t *testing.T) {
	result, err := Compute(Input{
		Portfolio: models.Portfolio{ID: "p1", Positions: []models.Position{position("AAA", 10_000, 0.20)}},
		Method:    MethodHistorical, TimeHorizon: Horizon1D, ConfidenceLevel: Confidence95,
	}, DefaultSeed)
	require.NoError(t, err)

	stats := result.DistributionStatistics
	assert.Greater(t, stats.StandardDeviation, 0.0)
	assert.Less(t, stats.Min, stats.Max)
	assert.GreaterOrEqual(t, stats.Median, stats.Min)
	assert.LessOrEqual(t, stats.Median, stats.Max)
}

func TestStressScenarios(t *testing.T) {
	input := Input{
		Portfolio: models.Portfolio{ID: "p1", Positions: []models.Position{
			position("AAA", 10_000, 0.20), position("BBB", 5_000, 0.30),
		}},
		Method:                 MethodMonteCarlo,
		TimeHorizon:            Horizon1D,
		ConfidenceLevel:        Confidence95,
		NumSimulations:         5_000,
		IncludeStressScenarios: true,
	}

	result, err := Compute(input, DefaultSeed)
	require.NoError(t, err)
	require.Len(t, result.StressScenarios, 3)

	names := map[string]bool{}
	for _, s := range result.StressScenarios {
		names[s.Name] = true
		assert.Greater(t, s.VaR, result.VaR,
			"scenario %q must raise VaR when volatilities are explicit", s.Name)
		assert.InDelta(t, s.VaR-result.VaR, s.VaRIncrease, 1e-9)
	}
	assert.True(t, names["Market Crash"])
	assert.True(t, names["Interest Rate Spike"])
	assert.True(t, names["Liquidity Crisis"])
}

func TestValidation(t *testing.T) {
	valid := models.Portfolio{ID: "p1", Positions: []models.Position{position("AAA", 10_000, 0.20)}}

	cases := []struct {
		name  string
		input Input
	}{
		{"empty portfolio", Input{Portfolio: models.Portfolio{ID: "p1"}}},
		{"unknown method", Input{Portfolio: valid, Method: Method("bootstrap")}},
		{"unknown horizon", Input{Portfolio: valid, Method: MethodParametric, TimeHorizon: TimeHorizon("1y")}},
		{"unknown confidence", Input{Portfolio: valid, Method: MethodParametric,
			TimeHorizon: Horizon1D, ConfidenceLevel: ConfidenceLevel("42%")}},
		{"too few simulations", Input{Portfolio: valid, Method: MethodMonteCarlo,
			TimeHorizon: Horizon1D, ConfidenceLevel: Confidence95, NumSimulations: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(tc.input, DefaultSeed)
			assert.Error(t, err)
		})
	}
}

func TestDefaultsApplied(t *testing.T) {
	result, err := Compute(Input{
		Portfolio: models.Portfolio{ID: "p1", Positions: []models.Position{position("AAA", 10_000, 0.20)}},
	}, DefaultSeed)
	require.NoError(t, err)
	assert.Equal(t, MethodHistorical, result.Method)
	assert.Equal(t, Horizon1D, result.TimeHorizon)
	assert.Equal(t, Confidence95, result.ConfidenceLevel)
}
