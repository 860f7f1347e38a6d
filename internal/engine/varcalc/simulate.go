package varcalc

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"risk-engine/internal/errors"
	"risk-engine/internal/models"
)

// describeSeries computes distribution statistics over a return series.
func describeSeries(returns []float64) DistributionStatistics {
	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)

	return DistributionStatistics{
		Mean:              stat.Mean(returns, nil),
		Median:            stat.Quantile(0.5, stat.Empirical, sorted, nil),
		StandardDeviation: stat.StdDev(returns, nil),
		Skewness:          stat.Skew(returns, nil),
		Kurtosis:          stat.ExKurtosis(returns, nil),
		Min:               sorted[0],
		Max:               sorted[len(sorted)-1],
	}
}

// quantileIndex is the rank of the loss quantile in an ascending return
// series at the given confidence level.
func quantileIndex(n int, confidence ConfidenceLevel) int {
	return int(float64(n) * (1 - Percentiles[confidence]))
}

// lossQuantile extracts the VaR return from a series: the negated value
// at the confidence quantile of the ascending sort.
func lossQuantile(returns []float64, confidence ConfidenceLevel) float64 {
	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)
	return -sorted[quantileIndex(len(sorted), confidence)]
}

// betaContributions allocates the diversified VaR across positions by
// beta against the portfolio series: beta_i = corr(r_i, r_p)·σ_i/σ_p.
// Weighted betas sum to one, so the components sum to the VaR.
func betaContributions(positions []models.Position, positionReturns [][]float64, portfolioReturns []float64, portfolioValue, valueAtRisk float64) []AssetContribution {
	portfolioStd := stat.StdDev(portfolioReturns, nil)

	contributions := make([]AssetContribution, len(positions))
	for i, p := range positions {
		beta := 0.0
		if portfolioStd > 0 {
			beta = stat.Correlation(positionReturns[i], portfolioReturns, nil) *
				stat.StdDev(positionReturns[i], nil) / portfolioStd
		}
		component := p.Value() / portfolioValue * beta * valueAtRisk
		contributions[i] = AssetContribution{
			AssetID:                   p.ID,
			Ticker:                    p.Ticker,
			AssetClass:                p.AssetClass,
			VaRContribution:           component,
			VaRContributionPercentage: percentage(component, valueAtRisk),
		}
	}
	return contributions
}

// seriesVaR turns per-position and portfolio return series into the
// diversified VaR, beta contributions, diversification benefit and
// distribution statistics shared by the historical and Monte Carlo
// methods.
func seriesVaR(positions []models.Position, positionReturns [][]float64, portfolioReturns []float64, portfolioValue float64, confidence ConfidenceLevel, timeFactor float64) (float64, []AssetContribution, float64, DistributionStatistics) {
	valueAtRisk := portfolioValue * lossQuantile(portfolioReturns, confidence) * timeFactor
	stats := describeSeries(portfolioReturns)

	undiversified := 0.0
	for i, p := range positions {
		undiversified += p.Value() * lossQuantile(positionReturns[i], confidence) * timeFactor
	}
	benefit := undiversified - valueAtRisk

	contributions := betaContributions(positions, positionReturns, portfolioReturns, portfolioValue, valueAtRisk)
	return valueAtRisk, contributions, benefit, stats
}

// historicalVaR synthesizes a fixed-length daily return series per
// position and reads the loss quantile off the weighted portfolio
// series. No real historical feed is wired in: the series is simulated
// from each position's own volatility with a deterministic seed, which
// keeps the method reproducible but means "historical" describes the
// quantile procedure, not the data.
//
// Draw order is fixed: for each position in portfolio order, the full
// 500-day series is drawn before moving to the next position.
func historicalVaR(portfolio models.Portfolio, confidence ConfidenceLevel, horizon TimeHorizon, seed int64) (float64, []AssetContribution, float64, DistributionStatistics, error) {
	rng := rand.New(rand.NewSource(seed))
	timeFactor := HorizonFactors[horizon]
	portfolioValue := portfolio.Value()
	positions := portfolio.Positions
	n := len(positions)

	positionReturns := make([][]float64, n)
	for i, p := range positions {
		dailyVol := volatilityOf(p) / math.Sqrt(tradingDaysPerYear)
		series := make([]float64, historicalDays)
		for d := range series {
			series[d] = rng.NormFloat64() * dailyVol
		}
		positionReturns[i] = series
	}

	portfolioReturns := make([]float64, historicalDays)
	for i, p := range positions {
		weight := p.Value() / portfolioValue
		for d := range portfolioReturns {
			portfolioReturns[d] += weight * positionReturns[i][d]
		}
	}

	valueAtRisk, contributions, benefit, stats := seriesVaR(positions, positionReturns, portfolioReturns, portfolioValue, confidence, timeFactor)
	return valueAtRisk, contributions, benefit, stats, nil
}

// monteCarloVaR draws correlated normal returns via the Cholesky factor
// of the correlation matrix and reads the loss quantile off the weighted
// portfolio series.
//
// Draw order is fixed: for each simulation, one standard normal per
// position in portfolio order. The Cholesky factor is computed once and
// applied per simulation with a reused scratch vector.
func monteCarloVaR(portfolio models.Portfolio, confidence ConfidenceLevel, horizon TimeHorizon, numSimulations int, seed int64) (float64, []AssetContribution, float64, DistributionStatistics, error) {
	rng := rand.New(rand.NewSource(seed))
	timeFactor := HorizonFactors[horizon]
	portfolioValue := portfolio.Value()
	positions := portfolio.Positions
	n := len(positions)

	corr := correlationMatrix(positions)
	var chol mat.Cholesky
	if ok := chol.Factorize(corr); !ok {
		return 0, nil, 0, DistributionStatistics{}, errors.NewComputationError(
			"monte_carlo", "cholesky factorization failed", errors.ErrNonPositiveDefinite)
	}
	var lower mat.TriDense
	chol.LTo(&lower)

	dailyVol := make([]float64, n)
	weight := make([]float64, n)
	for i, p := range positions {
		dailyVol[i] = volatilityOf(p) / math.Sqrt(tradingDaysPerYear)
		weight[i] = p.Value() / portfolioValue
	}

	positionReturns := make([][]float64, n)
	for i := range positionReturns {
		positionReturns[i] = make([]float64, numSimulations)
	}
	portfolioReturns := make([]float64, numSimulations)

	z := mat.NewVecDense(n, nil)
	correlated := mat.NewVecDense(n, nil)
	for s := 0; s < numSimulations; s++ {
		for i := 0; i < n; i++ {
			z.SetVec(i, rng.NormFloat64())
		}
		correlated.MulVec(&lower, z)

		portfolioReturn := 0.0
		for i := 0; i < n; i++ {
			scaled := correlated.AtVec(i) * dailyVol[i]
			positionReturns[i][s] = scaled
			portfolioReturn += weight[i] * scaled
		}
		portfolioReturns[s] = portfolioReturn
	}

	valueAtRisk, contributions, benefit, stats := seriesVaR(positions, positionReturns, portfolioReturns, portfolioValue, confidence, timeFactor)
	return valueAtRisk, contributions, benefit, stats, nil
}
