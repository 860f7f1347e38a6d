package varcalc

import (
	"math"

	"risk-engine/internal/models"
)

// Scenario defines a stress re-run: volatilities multiply by the
// scenario factor (optionally refined per asset class) and pairwise
// correlations rise by the increment, capped at 1.
type Scenario struct {
	Name                string
	Description         string
	VolMultiplier       float64
	CorrelationIncrease float64
	AssetClassImpacts   map[models.AssetClass]float64
}

// Scenarios is the fixed set of stress scenarios.
var Scenarios = []Scenario{
	{
		Name:                "Market Crash",
		Description:         "Simulates a severe market crash similar to 2008 financial crisis",
		VolMultiplier:       3.0,
		CorrelationIncrease: 0.2,
	},
	{
		Name:                "Interest Rate Spike",
		Description:         "Simulates a sudden increase in interest rates",
		VolMultiplier:       2.0,
		CorrelationIncrease: 0.1,
		AssetClassImpacts: map[models.AssetClass]float64{
			models.AssetClassInterestRate: 2.5,
			models.AssetClassEquity:       1.5,
			models.AssetClassFX:           1.2,
			models.AssetClassCommodity:    1.0,
			models.AssetClassCrypto:       1.3,
		},
	},
	{
		Name:                "Liquidity Crisis",
		Description:         "Simulates a market-wide liquidity crisis",
		VolMultiplier:       2.5,
		CorrelationIncrease: 0.3,
		AssetClassImpacts: map[models.AssetClass]float64{
			models.AssetClassInterestRate: 1.5,
			models.AssetClassEquity:       2.0,
			models.AssetClassFX:           1.8,
			models.AssetClassCommodity:    1.5,
			models.AssetClassCrypto:       3.0,
		},
	},
}

// stressedPortfolio returns a copy of the portfolio with the scenario's
// volatility multipliers and correlation increments applied. Positions
// without an explicit volatility keep the engine default unstressed.
func stressedPortfolio(portfolio models.Portfolio, scenario Scenario) models.Portfolio {
	positions := make([]models.Position, len(portfolio.Positions))
	for i, p := range portfolio.Positions {
		stressed := p

		if p.Volatility != nil {
			multiplier := scenario.VolMultiplier
			if impact, ok := scenario.AssetClassImpacts[p.AssetClass]; ok {
				multiplier *= impact
			}
			vol := *p.Volatility * multiplier
			stressed.Volatility = &vol
		}

		if len(p.Correlation) > 0 {
			corr := make(map[string]float64, len(p.Correlation))
			for otherID, rho := range p.Correlation {
				corr[otherID] = math.Min(1.0, rho+scenario.CorrelationIncrease)
			}
			stressed.Correlation = corr
		}

		positions[i] = stressed
	}
	return models.Portfolio{ID: portfolio.ID, Positions: positions}
}

// stressScenarios reruns Monte Carlo VaR under each scenario at a
// reduced simulation count and reports the increase over the base VaR.
func stressScenarios(portfolio models.Portfolio, confidence ConfidenceLevel, horizon TimeHorizon, baseVaR float64, seed int64) ([]StressResult, error) {
	results := make([]StressResult, 0, len(Scenarios))
	for _, scenario := range Scenarios {
		stressed := stressedPortfolio(portfolio, scenario)

		stressedVaR, _, _, _, err := monteCarloVaR(stressed, confidence, horizon, stressSimulations, seed)
		if err != nil {
			return nil, err
		}

		increase := stressedVaR - baseVaR
		results = append(results, StressResult{
			Name:                  scenario.Name,
			Description:           scenario.Description,
			VaR:                   stressedVaR,
			VaRIncrease:           increase,
			VaRIncreasePercentage: percentage(increase, baseVaR),
		})
	}
	return results, nil
}
