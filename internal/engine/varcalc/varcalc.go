// Package varcalc implements portfolio Value-at-Risk: parametric,
// simulated-historical and Monte Carlo methods, diversification
// decomposition, per-position contributions and stress scenarios.
//
// Every entry point is a pure function of its inputs plus an explicit
// seed. Each simulation run constructs its own generator from the seed,
// and the draw order is fixed (see historicalVaR and monteCarloVaR), so
// identical inputs always reproduce identical results.
package varcalc

import (
	"math"

	"risk-engine/internal/errors"
	"risk-engine/internal/models"
)

// Method selects the VaR calculation method.
type Method string

const (
	MethodHistorical Method = "historical"
	MethodParametric Method = "parametric"
	MethodMonteCarlo Method = "monte_carlo"
)

// TimeHorizon enumerates the supported VaR horizons.
type TimeHorizon string

const (
	Horizon1D  TimeHorizon = "1d"
	Horizon10D TimeHorizon = "10d"
	Horizon1M  TimeHorizon = "1m"
	Horizon3M  TimeHorizon = "3m"
)

// HorizonFactors maps horizons to square-root-of-time scaling factors.
var HorizonFactors = map[TimeHorizon]float64{
	Horizon1D:  1.0,
	Horizon10D: math.Sqrt(10),
	Horizon1M:  math.Sqrt(22),
	Horizon3M:  math.Sqrt(66),
}

// ConfidenceLevel enumerates the supported confidence levels.
type ConfidenceLevel string

const (
	Confidence90  ConfidenceLevel = "90%"
	Confidence95  ConfidenceLevel = "95%"
	Confidence975 ConfidenceLevel = "97.5%"
	Confidence99  ConfidenceLevel = "99%"
)

// ZScores maps confidence levels to one-sided normal quantiles.
var ZScores = map[ConfidenceLevel]float64{
	Confidence90:  1.282,
	Confidence95:  1.645,
	Confidence975: 1.96,
	Confidence99:  2.326,
}

// Percentiles maps confidence levels to their probability mass.
var Percentiles = map[ConfidenceLevel]float64{
	Confidence90:  0.90,
	Confidence95:  0.95,
	Confidence975: 0.975,
	Confidence99:  0.99,
}

const (
	// DefaultSeed drives simulation when the caller supplies none.
	DefaultSeed int64 = 42

	// DefaultVolatility is the annualized volatility assumed for
	// positions that do not supply one.
	DefaultVolatility = 0.20

	// tradingDaysPerYear converts annualized volatility to daily.
	tradingDaysPerYear = 252

	// historicalDays is the length of the synthesized return series used
	// by the historical method.
	historicalDays = 500

	// minMonteCarloSimulations is the floor on Monte Carlo runs.
	minMonteCarloSimulations = 1000

	// defaultSimulations is used when the request leaves the count unset.
	defaultSimulations = 10000

	// stressSimulations is the reduced count used by stress re-runs.
	stressSimulations = 5000
)

// Input is the VaR request aggregate.
type Input struct {
	Portfolio              models.Portfolio `json:"portfolio"`
	Method                 Method           `json:"method"`
	TimeHorizon            TimeHorizon      `json:"time_horizon"`
	ConfidenceLevel        ConfidenceLevel  `json:"confidence_level"`
	NumSimulations         int              `json:"num_simulations,omitempty"`
	IncludeStressScenarios bool             `json:"include_stress_scenarios,omitempty"`
}

func (in *Input) applyDefaults() {
	if in.Method == "" {
		in.Method = MethodHistorical
	}
	if in.TimeHorizon == "" {
		in.TimeHorizon = Horizon1D
	}
	if in.ConfidenceLevel == "" {
		in.ConfidenceLevel = Confidence95
	}
	if in.NumSimulations == 0 {
		in.NumSimulations = defaultSimulations
	}
}

// Validate checks request knobs and the portfolio.
func (in Input) Validate() error {
	switch in.Method {
	case MethodHistorical, MethodParametric, MethodMonteCarlo:
	default:
		return errors.NewValidationError("method", in.Method, errors.ErrUnsupportedMethod.Error())
	}
	if _, ok := HorizonFactors[in.TimeHorizon]; !ok {
		return errors.NewValidationError("time_horizon", in.TimeHorizon, "unknown time horizon")
	}
	if _, ok := ZScores[in.ConfidenceLevel]; !ok {
		return errors.NewValidationError("confidence_level", in.ConfidenceLevel, "unknown confidence level")
	}
	if in.Method == MethodMonteCarlo && in.NumSimulations < minMonteCarloSimulations {
		return errors.NewValidationError("num_simulations", in.NumSimulations,
			"at least 1000 simulations are required for the Monte Carlo method")
	}
	return in.Portfolio.Validate()
}

// AssetContribution is one position's share of the diversified VaR.
type AssetContribution struct {
	AssetID                   string            `json:"asset_id"`
	Ticker                    string            `json:"ticker"`
	AssetClass                models.AssetClass `json:"asset_class"`
	VaRContribution           float64           `json:"var_contribution"`
	VaRContributionPercentage float64           `json:"var_contribution_percentage"`
}

// DistributionStatistics summarizes a simulated return series.
type DistributionStatistics struct {
	Mean              float64 `json:"mean"`
	Median            float64 `json:"median"`
	StandardDeviation float64 `json:"standard_deviation"`
	Skewness          float64 `json:"skewness"`
	Kurtosis          float64 `json:"kurtosis"`
	Min               float64 `json:"min"`
	Max               float64 `json:"max"`
}

// StressResult is the outcome of one stress-scenario re-run.
type StressResult struct {
	Name                  string  `json:"name"`
	Description           string  `json:"description"`
	VaR                   float64 `json:"var"`
	VaRIncrease           float64 `json:"var_increase"`
	VaRIncreasePercentage float64 `json:"var_increase_percentage"`
}

// Result is the VaR response aggregate.
type Result struct {
	VaR                              float64                `json:"var"`
	VaRPercentage                    float64                `json:"var_percentage"`
	PortfolioValue                   float64                `json:"portfolio_value"`
	Method                           Method                 `json:"method"`
	TimeHorizon                      TimeHorizon            `json:"time_horizon"`
	ConfidenceLevel                  ConfidenceLevel        `json:"confidence_level"`
	AssetContributions               []AssetContribution    `json:"asset_contributions"`
	DiversificationBenefit           float64                `json:"diversification_benefit"`
	DiversificationBenefitPercentage float64                `json:"diversification_benefit_percentage"`
	DistributionStatistics           DistributionStatistics `json:"distribution_statistics"`
	StressScenarios                  []StressResult         `json:"stress_scenarios,omitempty"`
}

// volatilityOf returns the position's annualized volatility or the
// engine default.
func volatilityOf(p models.Position) float64 {
	if p.Volatility != nil {
		return *p.Volatility
	}
	return DefaultVolatility
}

// Compute runs the requested VaR calculation. The seed drives the
// historical and Monte Carlo simulations; pass DefaultSeed unless the
// caller owns reproducibility.
func Compute(input Input, seed int64) (*Result, error) {
	input.applyDefaults()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	portfolio := input.Portfolio
	portfolioValue := portfolio.Value()

	var (
		valueAtRisk   float64
		contributions []AssetContribution
		benefit       float64
		stats         DistributionStatistics
		err           error
	)

	switch input.Method {
	case MethodParametric:
		valueAtRisk, contributions, benefit, err = parametricVaR(portfolio, input.ConfidenceLevel, input.TimeHorizon)
		// The parametric model assumes normal returns; there is no
		// simulated series to describe, so the statistics stay zero.
	case MethodHistorical:
		valueAtRisk, contributions, benefit, stats, err = historicalVaR(portfolio, input.ConfidenceLevel, input.TimeHorizon, seed)
	case MethodMonteCarlo:
		valueAtRisk, contributions, benefit, stats, err = monteCarloVaR(portfolio, input.ConfidenceLevel, input.TimeHorizon, input.NumSimulations, seed)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		VaR:                    valueAtRisk,
		VaRPercentage:          percentage(valueAtRisk, portfolioValue),
		PortfolioValue:         portfolioValue,
		Method:                 input.Method,
		TimeHorizon:            input.TimeHorizon,
		ConfidenceLevel:        input.ConfidenceLevel,
		AssetContributions:     contributions,
		DiversificationBenefit: benefit,
		DistributionStatistics: stats,
	}
	// Undiversified VaR is the diversified figure plus the benefit; the
	// percentage is guarded against a zero base.
	result.DiversificationBenefitPercentage = percentage(benefit, valueAtRisk+benefit)

	if input.IncludeStressScenarios {
		result.StressScenarios, err = stressScenarios(portfolio, input.ConfidenceLevel, input.TimeHorizon, valueAtRisk, seed)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// percentage returns 100*part/total, or 0 when total is zero.
func percentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
