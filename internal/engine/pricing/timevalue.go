package pricing

import (
	"fmt"
	"math"

	"risk-engine/internal/errors"
)

// CompoundingFrequency enumerates the supported compounding conventions.
type CompoundingFrequency string

const (
	CompoundAnnually     CompoundingFrequency = "annually"
	CompoundSemiAnnually CompoundingFrequency = "semi_annually"
	CompoundQuarterly    CompoundingFrequency = "quarterly"
	CompoundMonthly      CompoundingFrequency = "monthly"
	CompoundDaily        CompoundingFrequency = "daily"
	CompoundContinuous   CompoundingFrequency = "continuous"
)

// periodsPerYear maps discrete compounding frequencies to their factor.
// Continuous compounding is handled separately.
var periodsPerYear = map[CompoundingFrequency]float64{
	CompoundAnnually:     1,
	CompoundSemiAnnually: 2,
	CompoundQuarterly:    4,
	CompoundMonthly:      12,
	CompoundDaily:        365,
}

func compoundingFactor(freq CompoundingFrequency) float64 {
	if n, ok := periodsPerYear[freq]; ok {
		return n
	}
	return 1
}

// FutureValue grows principal at an annual rate over years under the
// given compounding convention, returning the value and an explanation.
func FutureValue(principal, rate, years float64, freq CompoundingFrequency) (float64, string) {
	if freq == CompoundContinuous {
		fv := principal * math.Exp(rate*years)
		return fv, fmt.Sprintf(
			"Future Value = %.2f × e^(%.4f × %.2f) = %.2f", principal, rate, years, fv)
	}
	n := compoundingFactor(freq)
	fv := principal * math.Pow(1+rate/n, n*years)
	return fv, fmt.Sprintf(
		"Future Value = %.2f × (1 + %.4f/%g)^(%g × %.2f) = %.2f", principal, rate, n, n, years, fv)
}

// PresentValue discounts a future value back over years.
func PresentValue(futureValue, rate, years float64, freq CompoundingFrequency) (float64, string) {
	if freq == CompoundContinuous {
		pv := futureValue / math.Exp(rate*years)
		return pv, fmt.Sprintf(
			"Present Value = %.2f / e^(%.4f × %.2f) = %.2f", futureValue, rate, years, pv)
	}
	n := compoundingFactor(freq)
	pv := futureValue / math.Pow(1+rate/n, n*years)
	return pv, fmt.Sprintf(
		"Present Value = %.2f / (1 + %.4f/%g)^(%g × %.2f) = %.2f", futureValue, rate, n, n, years, pv)
}

// ImpliedRate solves for the annual rate that grows presentValue to
// futureValue over years.
func ImpliedRate(presentValue, futureValue, years float64, freq CompoundingFrequency) (float64, string, error) {
	if presentValue <= 0 || futureValue <= 0 {
		return 0, "", errors.NewValidationError("present_value", presentValue, "values must be positive")
	}
	if years <= 0 {
		return 0, "", errors.NewValidationError("time_period", years, "time period must be positive")
	}
	if freq == CompoundContinuous {
		rate := math.Log(futureValue/presentValue) / years
		return rate, fmt.Sprintf(
			"Interest Rate = ln(%.2f / %.2f) / %.2f = %.4f", futureValue, presentValue, years, rate), nil
	}
	n := compoundingFactor(freq)
	rate := n * (math.Pow(futureValue/presentValue, 1/(n*years)) - 1)
	return rate, fmt.Sprintf(
		"Interest Rate = %g × ((%.2f / %.2f)^(1 / (%g × %.2f)) - 1) = %.4f",
		n, futureValue, presentValue, n, years, rate), nil
}

// ImpliedPeriod solves for the years needed to grow presentValue to
// futureValue at the given annual rate.
func ImpliedPeriod(presentValue, futureValue, rate float64, freq CompoundingFrequency) (float64, string, error) {
	if presentValue <= 0 || futureValue <= 0 {
		return 0, "", errors.NewValidationError("present_value", presentValue, "values must be positive")
	}
	if rate == 0 {
		return 0, "", errors.NewValidationError("interest_rate", rate, "interest rate must be non-zero")
	}
	if freq == CompoundContinuous {
		years := math.Log(futureValue/presentValue) / rate
		return years, fmt.Sprintf(
			"Time Period = ln(%.2f / %.2f) / %.4f = %.2f", futureValue, presentValue, rate, years), nil
	}
	n := compoundingFactor(freq)
	years := math.Log(futureValue/presentValue) / (n * math.Log(1+rate/n))
	return years, fmt.Sprintf(
		"Time Period = ln(%.2f / %.2f) / (%g × ln(1 + %.4f/%g)) = %.2f",
		futureValue, presentValue, n, rate, n, years), nil
}
