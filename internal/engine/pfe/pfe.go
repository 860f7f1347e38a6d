// Package pfe implements stand-alone potential future exposure on top of
// the SA-CCR core: alternate calculation methods, time-horizon and
// confidence scaling, and time-bucketed exposure profiles.
package pfe

import (
	"math"

	"risk-engine/internal/engine/aggregate"
	"risk-engine/internal/engine/saccr"
	"risk-engine/internal/errors"
	"risk-engine/internal/models"
)

// Method selects how PFE is derived from the SA-CCR core.
type Method string

const (
	MethodSACCR         Method = "sa_ccr"
	MethodInternalModel Method = "internal_model"
	MethodHistorical    Method = "historical"
)

// Fixed adjustments applied on top of the SA-CCR figure. Internal models
// typically come in below SA-CCR, historical calibrations above it.
const (
	internalModelAdjustment = 0.8
	historicalAdjustment    = 1.1
)

// TimeHorizon enumerates the supported PFE horizons.
type TimeHorizon string

const (
	Horizon1W TimeHorizon = "1w"
	Horizon1M TimeHorizon = "1m"
	Horizon3M TimeHorizon = "3m"
	Horizon6M TimeHorizon = "6m"
	Horizon1Y TimeHorizon = "1y"
	Horizon2Y TimeHorizon = "2y"
	Horizon5Y TimeHorizon = "5y"
)

// HorizonYears maps each horizon to its length in years.
var HorizonYears = map[TimeHorizon]float64{
	Horizon1W: 1.0 / 52,
	Horizon1M: 1.0 / 12,
	Horizon3M: 3.0 / 12,
	Horizon6M: 6.0 / 12,
	Horizon1Y: 1.0,
	Horizon2Y: 2.0,
	Horizon5Y: 5.0,
}

// ConfidenceLevel enumerates the supported confidence levels.
type ConfidenceLevel string

const (
	Confidence95  ConfidenceLevel = "95%"
	Confidence975 ConfidenceLevel = "97.5%"
	Confidence99  ConfidenceLevel = "99%"
)

// ZScores maps confidence levels to one-sided normal quantiles. Scaling
// is relative to the 97.5% score of 1.96.
var ZScores = map[ConfidenceLevel]float64{
	Confidence95:  1.645,
	Confidence975: 1.96,
	Confidence99:  2.326,
}

const baseZScore = 1.96

// Trade is a derivative trade in the PFE variant: it carries a market
// value instead of option pricing fields. SupervisoryFactor is accepted
// on the wire but the regulatory table always applies.
type Trade struct {
	ID                string            `json:"id"`
	AssetClass        models.AssetClass `json:"asset_class"`
	TradeType         models.TradeType  `json:"transaction_type"`
	Notional          float64           `json:"notional"`
	Maturity          float64           `json:"maturity"`
	MarketValue       float64           `json:"market_value"`
	SupervisoryDelta  *float64          `json:"supervisory_delta,omitempty"`
	SupervisoryFactor *float64          `json:"supervisory_factor,omitempty"`
	MaturityFactor    *float64          `json:"maturity_factor,omitempty"`
}

// Validate checks trade bounds.
func (t Trade) Validate() error {
	if !t.AssetClass.IsDerivativeClass() {
		return errors.NewValidationError("asset_class", t.AssetClass, errors.ErrUnknownAssetClass.Error())
	}
	if t.Notional <= 0 {
		return errors.NewValidationError("notional", t.Notional, "notional must be positive")
	}
	if t.Maturity <= 0 {
		return errors.NewValidationError("maturity", t.Maturity, "maturity must be positive")
	}
	return nil
}

// NettingSet groups trades with their collateral entries.
type NettingSet struct {
	ID         string              `json:"id"`
	Trades     []Trade             `json:"trades"`
	Collateral []models.Collateral `json:"collateral,omitempty"`
}

// Validate checks trades and collateral.
func (ns NettingSet) Validate() error {
	for _, t := range ns.Trades {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	for _, c := range ns.Collateral {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Input is the PFE request aggregate.
type Input struct {
	NettingSets     []NettingSet    `json:"netting_sets"`
	Method          Method          `json:"calculation_method"`
	TimeHorizon     TimeHorizon     `json:"time_horizon"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
}

// applyDefaults fills zero-valued request knobs with the standard
// SA-CCR / 1y / 97.5% combination.
func (in *Input) applyDefaults() {
	if in.Method == "" {
		in.Method = MethodSACCR
	}
	if in.TimeHorizon == "" {
		in.TimeHorizon = Horizon1Y
	}
	if in.ConfidenceLevel == "" {
		in.ConfidenceLevel = Confidence975
	}
}

// Validate checks request knobs and every netting set.
func (in Input) Validate() error {
	switch in.Method {
	case MethodSACCR, MethodInternalModel, MethodHistorical:
	default:
		return errors.NewValidationError("calculation_method", in.Method, errors.ErrUnsupportedMethod.Error())
	}
	if _, ok := HorizonYears[in.TimeHorizon]; !ok {
		return errors.NewValidationError("time_horizon", in.TimeHorizon, "unknown time horizon")
	}
	if _, ok := ZScores[in.ConfidenceLevel]; !ok {
		return errors.NewValidationError("confidence_level", in.ConfidenceLevel, "unknown confidence level")
	}
	for _, ns := range in.NettingSets {
		if err := ns.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ProfilePoint is one bucket of the exposure profile.
type ProfilePoint struct {
	TimePoint               string  `json:"time_point"`
	ExpectedExposure        float64 `json:"expected_exposure"`
	PotentialFutureExposure float64 `json:"potential_future_exposure"`
}

// NettingSetResult holds one netting set's PFE figures.
type NettingSetResult struct {
	PFE              float64                       `json:"pfe"`
	ExpectedExposure float64                       `json:"expected_exposure"`
	AddOns           map[models.AssetClass]float64 `json:"add_ons"`
}

// Result is the PFE response aggregate.
type Result struct {
	TotalPFE              float64                      `json:"total_pfe"`
	TotalExpectedExposure float64                      `json:"total_expected_exposure"`
	Method                Method                       `json:"calculation_method"`
	TimeHorizon           TimeHorizon                  `json:"time_horizon"`
	ConfidenceLevel       ConfidenceLevel              `json:"confidence_level"`
	ExposureProfile       []ProfilePoint               `json:"exposure_profile"`
	AssetClassBreakdown   []models.AssetClassBreakdown `json:"asset_class_breakdown"`
	NettingSetResults     map[string]NettingSetResult  `json:"netting_set_results"`
}

// supervisoryDelta resolves the delta for the PFE trade variant: explicit
// override, 1.0 for linear products, and a flat 0.5 for options since
// this variant carries no pricing fields to derive a model delta from.
func supervisoryDelta(t Trade) float64 {
	if t.SupervisoryDelta != nil {
		return *t.SupervisoryDelta
	}
	if !t.TradeType.IsOption() {
		return 1.0
	}
	return 0.5
}

// CollateralValue sums haircut-adjusted collateral amounts.
func CollateralValue(collateral []models.Collateral) float64 {
	total := 0.0
	for _, c := range collateral {
		total += c.EffectiveValue()
	}
	return total
}

// ReplacementCost computes max(sum of trade market values - collateral, 0).
func ReplacementCost(ns NettingSet) float64 {
	total := 0.0
	for _, t := range ns.Trades {
		total += t.MarketValue
	}
	return math.Max(total-CollateralValue(ns.Collateral), 0)
}

// AddOns computes per-asset-class add-ons using the SA-CCR supervisory
// factor table and maturity-factor rule.
func AddOns(ns NettingSet) map[models.AssetClass]float64 {
	effective := make(map[models.AssetClass]float64)
	for _, t := range ns.Trades {
		delta := supervisoryDelta(t)
		mf := saccr.MaturityFactor(t.Maturity, t.MaturityFactor)
		effective[t.AssetClass] += delta * t.Notional * mf
	}

	addOns := make(map[models.AssetClass]float64, len(effective))
	for class, notional := range effective {
		addOns[class] = saccr.SupervisoryFactors[class] * notional
	}
	return addOns
}

// computeSACCR computes the scaled SA-CCR PFE of a netting set: the
// multiplier-adjusted total add-on scaled by sqrt(horizon years) and by
// the confidence z-score relative to 1.96.
func computeSACCR(ns NettingSet, horizon TimeHorizon, confidence ConfidenceLevel) (float64, map[models.AssetClass]float64) {
	addOns := AddOns(ns)
	totalAddOn := 0.0
	for _, v := range addOns {
		totalAddOn += v
	}

	multiplier := saccr.Multiplier(ReplacementCost(ns), totalAddOn)
	pfe := multiplier * totalAddOn

	pfe *= math.Sqrt(HorizonYears[horizon])
	pfe *= ZScores[confidence] / baseZScore

	return pfe, addOns
}

// Compute runs the PFE calculation over the request, producing totals,
// the combined exposure profile and the asset-class breakdown.
func Compute(input Input) (*Result, error) {
	input.applyDefaults()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Method:            input.Method,
		TimeHorizon:       input.TimeHorizon,
		ConfidenceLevel:   input.ConfidenceLevel,
		NettingSetResults: make(map[string]NettingSetResult, len(input.NettingSets)),
	}

	var allAddOns map[models.AssetClass]float64
	for _, ns := range input.NettingSets {
		pfe, addOns := computeSACCR(ns, input.TimeHorizon, input.ConfidenceLevel)
		switch input.Method {
		case MethodInternalModel:
			pfe *= internalModelAdjustment
		case MethodHistorical:
			pfe *= historicalAdjustment
		}

		expectedExposure := ReplacementCost(ns)
		result.TotalPFE += pfe
		result.TotalExpectedExposure += expectedExposure
		allAddOns = aggregate.Merge(allAddOns, addOns)

		result.NettingSetResults[ns.ID] = NettingSetResult{
			PFE:              pfe,
			ExpectedExposure: expectedExposure,
			AddOns:           addOns,
		}

		// All netting sets share the request horizon, so their profiles
		// land on the same bucket schedule and sum point-by-point.
		profile := GenerateProfile(ns, input.TimeHorizon, pfe)
		if result.ExposureProfile == nil {
			result.ExposureProfile = profile
		} else {
			for i, point := range profile {
				result.ExposureProfile[i].ExpectedExposure += point.ExpectedExposure
				result.ExposureProfile[i].PotentialFutureExposure += point.PotentialFutureExposure
			}
		}
	}

	result.AssetClassBreakdown = aggregate.Breakdown(allAddOns)
	return result, nil
}
