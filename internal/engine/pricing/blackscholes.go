// Package pricing provides closed-form option valuation and
// time-value-of-money calculations. All functions are pure; the exposure
// and margin engines call them to derive supervisory deltas and
// mark-to-model values.
package pricing

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"risk-engine/internal/errors"
	"risk-engine/internal/models"
)

var stdNormal = distuv.UnitNormal

// OptionQuote is the closed-form valuation of a European option.
type OptionQuote struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
}

// BlackScholes prices a European option and returns its price, delta and
// gamma.
//
//	d1 = (ln(S/K) + (r + sigma^2/2)*T) / (sigma*sqrt(T))
//	d2 = d1 - sigma*sqrt(T)
//
// The rate may carry any sign; every other argument must be positive.
func BlackScholes(optionType models.OptionType, underlying, strike, maturity, volatility, rate float64) (OptionQuote, error) {
	if underlying <= 0 {
		return OptionQuote{}, errors.NewValidationError("underlying_price", underlying, "must be positive")
	}
	if strike <= 0 {
		return OptionQuote{}, errors.NewValidationError("strike_price", strike, "must be positive")
	}
	if maturity <= 0 {
		return OptionQuote{}, errors.NewValidationError("maturity", maturity, "must be positive")
	}
	if volatility <= 0 {
		return OptionQuote{}, errors.NewValidationError("volatility", volatility, "must be positive")
	}

	sqrtT := math.Sqrt(maturity)
	d1 := (math.Log(underlying/strike) + (rate+0.5*volatility*volatility)*maturity) / (volatility * sqrtT)
	d2 := d1 - volatility*sqrtT

	discount := math.Exp(-rate * maturity)

	var price, delta float64
	switch optionType {
	case models.OptionCall:
		price = underlying*stdNormal.CDF(d1) - strike*discount*stdNormal.CDF(d2)
		delta = stdNormal.CDF(d1)
	case models.OptionPut:
		price = strike*discount*stdNormal.CDF(-d2) - underlying*stdNormal.CDF(-d1)
		delta = stdNormal.CDF(d1) - 1
	default:
		return OptionQuote{}, errors.NewValidationError("option_type", optionType, "must be call or put")
	}

	gamma := stdNormal.Prob(d1) / (underlying * volatility * sqrtT)

	return OptionQuote{Price: price, Delta: delta, Gamma: gamma}, nil
}
