package varcalc

import (
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"risk-engine/internal/models"
)

// Property: for any portfolio whose pairwise correlations are at most
// one, the diversified parametric VaR never exceeds the sum of
// stand-alone VaRs, so the diversification benefit is non-negative.
func TestProperty_DiversificationBenefitNonNegative(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("diversification benefit is non-negative", prop.ForAll(
		func(values []float64, vols []float64, rho float64) bool {
			n := len(values)
			if len(vols) < n {
				n = len(vols)
			}
			if n < 2 {
				return true
			}

			positions := make([]models.Position, n)
			for i := 0; i < n; i++ {
				vol := vols[i]
				positions[i] = models.Position{
					ID:         fmt.Sprintf("pos-%d", i),
					AssetClass: models.AssetClassEquity,
					Ticker:     fmt.Sprintf("T%d", i),
					Quantity:   1,
					Price:      values[i],
					Volatility: &vol,
				}
			}
			// Override one pair; the rest keep the 0.5 default.
			positions[0].Correlation = map[string]float64{"pos-1": rho}

			result, err := Compute(Input{
				Portfolio:       models.Portfolio{ID: "p", Positions: positions},
				Method:          MethodParametric,
				TimeHorizon:     Horizon1D,
				ConfidenceLevel: Confidence95,
			}, DefaultSeed)
			if err != nil {
				return false
			}
			return result.DiversificationBenefit >= -1e-9
		},
		gen.SliceOfN(4, gen.Float64Range(1_000, 100_000)),
		gen.SliceOfN(4, gen.Float64Range(0.05, 0.80)),
		gen.Float64Range(-1, 1),
	))

	properties.TestingRun(t)
}

// Property: parametric component VaRs always recombine into the
// diversified VaR regardless of portfolio composition.
func TestProperty_ComponentVaRsSumToDiversifiedVaR(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("component VaRs sum to the diversified VaR", prop.ForAll(
		func(values []float64, vols []float64) bool {
			n := len(values)
			if len(vols) < n {
				n = len(vols)
			}
			if n == 0 {
				return true
			}

			positions := make([]models.Position, n)
			for i := 0; i < n; i++ {
				vol := vols[i]
				positions[i] = models.Position{
					ID:         fmt.Sprintf("pos-%d", i),
					AssetClass: models.AssetClassFX,
					Ticker:     fmt.Sprintf("T%d", i),
					Quantity:   1,
					Price:      values[i],
					Volatility: &vol,
				}
			}

			result, err := Compute(Input{
				Portfolio:       models.Portfolio{ID: "p", Positions: positions},
				Method:          MethodParametric,
				TimeHorizon:     Horizon10D,
				ConfidenceLevel: Confidence99,
			}, DefaultSeed)
			if err != nil {
				return false
			}

			sum := 0.0
			for _, c := range result.AssetContributions {
				sum += c.VaRContribution
			}
			return math.Abs(sum-result.VaR) <= math.Max(result.VaR*1e-9, 1e-9)
		},
		gen.SliceOfN(5, gen.Float64Range(1_000, 100_000)),
		gen.SliceOfN(5, gen.Float64Range(0.05, 0.80)),
	))

	properties.TestingRun(t)
}
