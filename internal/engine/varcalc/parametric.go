package varcalc

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"risk-engine/internal/models"
)

// defaultPairCorrelation is assumed for every pair without an explicit
// caller-supplied correlation.
const defaultPairCorrelation = 0.5

// correlationMatrix builds the n×n correlation matrix of the portfolio:
// 1.0 on the diagonal, 0.5 off-diagonal, overridden symmetrically
// wherever a position supplies a pairwise correlation (either side of
// the pair may carry it).
func correlationMatrix(positions []models.Position) *mat.SymDense {
	n := len(positions)
	corr := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		corr.SetSym(i, i, 1.0)
		for j := i + 1; j < n; j++ {
			corr.SetSym(i, j, defaultPairCorrelation)
		}
	}

	index := make(map[string]int, n)
	for i, p := range positions {
		index[p.ID] = i
	}
	for i, p := range positions {
		for otherID, rho := range p.Correlation {
			j, ok := index[otherID]
			if !ok || i == j {
				continue
			}
			corr.SetSym(i, j, rho)
		}
	}
	return corr
}

// covarianceMatrix scales the correlation matrix by the outer product of
// annualized volatilities.
func covarianceMatrix(positions []models.Position, corr *mat.SymDense) *mat.SymDense {
	n := len(positions)
	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			cov.SetSym(i, j, volatilityOf(positions[i])*volatilityOf(positions[j])*corr.At(i, j))
		}
	}
	return cov
}

// weights returns each position's share of portfolio value.
func weights(positions []models.Position, portfolioValue float64) *mat.VecDense {
	w := mat.NewVecDense(len(positions), nil)
	for i, p := range positions {
		w.SetVec(i, p.Value()/portfolioValue)
	}
	return w
}

// parametricVaR computes variance-covariance VaR, per-position component
// VaR via marginal contribution to risk, and the diversification benefit
// against the sum of stand-alone VaRs.
func parametricVaR(portfolio models.Portfolio, confidence ConfidenceLevel, horizon TimeHorizon) (float64, []AssetContribution, float64, error) {
	zScore := ZScores[confidence]
	timeFactor := HorizonFactors[horizon]
	portfolioValue := portfolio.Value()
	positions := portfolio.Positions
	n := len(positions)

	dailyScale := zScore * timeFactor / math.Sqrt(tradingDaysPerYear)

	// Stand-alone VaR per position.
	undiversified := 0.0
	standalone := make([]float64, n)
	for i, p := range positions {
		standalone[i] = p.Value() * volatilityOf(p) * dailyScale
		undiversified += standalone[i]
	}

	corr := correlationMatrix(positions)
	cov := covarianceMatrix(positions, corr)
	w := weights(positions, portfolioValue)

	portfolioVariance := mat.Inner(w, cov, w)
	portfolioVol := math.Sqrt(portfolioVariance)

	diversified := portfolioValue * portfolioVol * dailyScale
	benefit := undiversified - diversified

	// Component VaR: weight times the normalized marginal contribution
	// to risk, the i-th entry of Cov·w over the portfolio variance.
	// Since w'·Cov·w is the variance itself, the components sum back to
	// the diversified VaR exactly.
	var covW mat.VecDense
	covW.MulVec(cov, w)

	contributions := make([]AssetContribution, n)
	for i, p := range positions {
		mcr := 0.0
		if portfolioVariance > 0 {
			mcr = covW.AtVec(i) / portfolioVariance
		}
		component := w.AtVec(i) * mcr * diversified
		contributions[i] = AssetContribution{
			AssetID:                   p.ID,
			Ticker:                    p.Ticker,
			AssetClass:                p.AssetClass,
			VaRContribution:           component,
			VaRContributionPercentage: percentage(component, diversified),
		}
	}

	return diversified, contributions, benefit, nil
}
