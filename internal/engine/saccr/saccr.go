// Package saccr implements the SA-CCR counterparty credit exposure
// calculation: replacement cost, per-asset-class add-ons, the PFE
// multiplier and exposure at default for netting sets of derivative
// trades.
package saccr

import (
	"math"

	"risk-engine/internal/engine/pricing"
	"risk-engine/internal/errors"
	"risk-engine/internal/models"
)

// SupervisoryFactors holds the regulatory supervisory factor per asset
// class. Keyed by the closed derivative asset-class enumeration; new
// classes are additive here, never branching logic.
var SupervisoryFactors = map[models.AssetClass]float64{
	models.AssetClassInterestRate: 0.005,
	models.AssetClassCredit:       0.05,
	models.AssetClassEquity:       0.32,
	models.AssetClassCommodity:    0.18,
	models.AssetClassFX:           0.04,
}

// CorrelationParameters holds the regulatory correlation parameter per
// asset class, reported alongside asset-class results.
var CorrelationParameters = map[models.AssetClass]float64{
	models.AssetClassInterestRate: 0.5,
	models.AssetClassCredit:       0.5,
	models.AssetClassEquity:       0.5,
	models.AssetClassCommodity:    0.4,
	models.AssetClassFX:           0.5,
}

// multiplierFloor is the regulatory floor of the PFE multiplier.
const multiplierFloor = 0.05

// Transaction is a single derivative trade inside a netting set. Option
// pricing fields are required whenever TradeType is option or swaption.
// SupervisoryDelta and MaturityFactor are optional overrides resolved
// ahead of the add-on formulas. SupervisoryFactor is accepted on the
// wire but the regulatory table always applies.
type Transaction struct {
	ID                string              `json:"id"`
	AssetClass        models.AssetClass   `json:"asset_class"`
	TradeType         models.TradeType    `json:"transaction_type"`
	Notional          float64             `json:"notional"`
	Maturity          float64             `json:"maturity"`
	UnderlyingPrice   *float64            `json:"underlying_price,omitempty"`
	StrikePrice       *float64            `json:"strike_price,omitempty"`
	OptionType        *models.OptionType  `json:"option_type,omitempty"`
	OptionStyle       *models.OptionStyle `json:"option_style,omitempty"`
	Volatility        *float64            `json:"volatility,omitempty"`
	InterestRate      *float64            `json:"interest_rate,omitempty"`
	SupervisoryDelta  *float64            `json:"supervisory_delta,omitempty"`
	SupervisoryFactor *float64            `json:"supervisory_factor,omitempty"`
	MaturityFactor    *float64            `json:"maturity_factor,omitempty"`
}

// Validate checks transaction bounds and option-field completeness.
func (t Transaction) Validate() error {
	if !t.AssetClass.IsDerivativeClass() {
		return errors.NewValidationError("asset_class", t.AssetClass, errors.ErrUnknownAssetClass.Error())
	}
	if t.Notional <= 0 {
		return errors.NewValidationError("notional", t.Notional, "notional must be positive")
	}
	if t.Maturity <= 0 {
		return errors.NewValidationError("maturity", t.Maturity, "maturity must be positive")
	}
	if t.TradeType.IsOption() && !t.hasOptionParams() {
		return errors.NewValidationError("option_parameters", t.ID, errors.ErrMissingOptionParameter.Error())
	}
	return nil
}

func (t Transaction) hasOptionParams() bool {
	return t.UnderlyingPrice != nil &&
		t.StrikePrice != nil &&
		t.OptionType != nil &&
		t.OptionStyle != nil &&
		t.Volatility != nil &&
		t.InterestRate != nil
}

func (t Transaction) optionQuote() (pricing.OptionQuote, error) {
	if !t.hasOptionParams() {
		return pricing.OptionQuote{}, errors.ErrMissingOptionParameter
	}
	return pricing.BlackScholes(*t.OptionType, *t.UnderlyingPrice, *t.StrikePrice,
		t.Maturity, *t.Volatility, *t.InterestRate)
}

// NettingSet groups trades that offset under one netting agreement. The
// SA-CCR variant carries a flat, already haircut-adjusted collateral
// amount.
type NettingSet struct {
	ID           string        `json:"id"`
	Transactions []Transaction `json:"transactions"`
	Collateral   float64       `json:"collateral"`
}

// Validate checks the netting set and all of its transactions.
func (ns NettingSet) Validate() error {
	if ns.Collateral < 0 {
		return errors.NewValidationError("collateral", ns.Collateral, "collateral must be non-negative")
	}
	for _, tx := range ns.Transactions {
		if err := tx.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Input is the SA-CCR request aggregate.
type Input struct {
	NettingSets []NettingSet `json:"netting_sets"`
}

// Validate checks every netting set.
func (in Input) Validate() error {
	for _, ns := range in.NettingSets {
		if err := ns.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TransactionDetail is the per-trade calculation trace retained in
// asset-class results.
type TransactionDetail struct {
	ID                string  `json:"id"`
	Notional          float64 `json:"notional"`
	AdjustedNotional  float64 `json:"adjusted_notional"`
	SupervisoryDelta  float64 `json:"supervisory_delta"`
	MaturityFactor    float64 `json:"maturity_factor"`
	EffectiveNotional float64 `json:"effective_notional"`
}

// AssetClassResult accumulates one asset class's exposure share across
// all netting sets.
type AssetClassResult struct {
	ReplacementCost         float64             `json:"replacement_cost"`
	PotentialFutureExposure float64             `json:"potential_future_exposure"`
	EAD                     float64             `json:"ead"`
	SupervisoryFactor       float64             `json:"supervisory_factor"`
	CorrelationParameter    float64             `json:"correlation_parameter"`
	Transactions            []TransactionDetail `json:"transactions"`
}

// NettingSetResult holds the exposure figures of a single netting set.
type NettingSetResult struct {
	ReplacementCost         float64                       `json:"replacement_cost"`
	PotentialFutureExposure float64                       `json:"potential_future_exposure"`
	ExposureAtDefault       float64                       `json:"exposure_at_default"`
	AddOns                  map[models.AssetClass]float64 `json:"add_ons"`
}

// Result is the SA-CCR response aggregate.
type Result struct {
	TotalEAD                     float64                                 `json:"total_ead"`
	TotalReplacementCost         float64                                 `json:"total_replacement_cost"`
	TotalPotentialFutureExposure float64                                 `json:"total_potential_future_exposure"`
	AssetClassResults            map[models.AssetClass]*AssetClassResult `json:"asset_class_results"`
	NettingSetResults            map[string]NettingSetResult             `json:"netting_set_results"`
}

// SupervisoryDelta resolves the supervisory delta of a transaction: the
// explicit override when present, 1.0 for non-option products, otherwise
// the Black-Scholes delta with the sign flipped positive for puts.
func SupervisoryDelta(tx Transaction) (float64, error) {
	if tx.SupervisoryDelta != nil {
		return *tx.SupervisoryDelta, nil
	}
	if !tx.TradeType.IsOption() {
		return 1.0, nil
	}
	quote, err := tx.optionQuote()
	if err != nil {
		return 0, errors.NewValidationError("option_parameters", tx.ID, err.Error())
	}
	delta := quote.Delta
	if *tx.OptionType == models.OptionPut {
		delta = -delta
	}
	return delta, nil
}

// MaturityFactor resolves the maturity factor: the explicit override when
// present, otherwise sqrt(min(maturity, 1)/1).
func MaturityFactor(maturity float64, override *float64) float64 {
	if override != nil {
		return *override
	}
	capped := math.Min(maturity, 1.0)
	return math.Sqrt(capped / 1.0)
}

// AdjustedNotional returns the trade's adjusted notional. The current
// framework applies no duration adjustment, so this is the notional.
func AdjustedNotional(tx Transaction) float64 {
	return tx.Notional
}

// TradeValue marks a trade to model for replacement-cost purposes.
// Options with complete pricing fields value at Black-Scholes price times
// notional; option trades missing pricing fields fall back to a flat 0.1
// of notional and every other product to a flat 0.05 of notional.
func TradeValue(tx Transaction) float64 {
	if tx.TradeType.IsOption() {
		quote, err := tx.optionQuote()
		if err != nil {
			return 0.1 * tx.Notional
		}
		return quote.Price * tx.Notional
	}
	return 0.05 * tx.Notional
}

// ReplacementCost computes max(sum of trade values - collateral, 0) for
// a netting set.
func ReplacementCost(ns NettingSet) float64 {
	total := 0.0
	for _, tx := range ns.Transactions {
		total += TradeValue(tx)
	}
	return math.Max(total-ns.Collateral, 0)
}

// AddOns computes the per-asset-class add-on of a netting set:
// supervisory factor times the sum of delta-and-maturity-weighted
// notionals over the class's trades.
func AddOns(ns NettingSet) (map[models.AssetClass]float64, error) {
	effective := make(map[models.AssetClass]float64)
	for _, tx := range ns.Transactions {
		delta, err := SupervisoryDelta(tx)
		if err != nil {
			return nil, err
		}
		mf := MaturityFactor(tx.Maturity, tx.MaturityFactor)
		effective[tx.AssetClass] += delta * AdjustedNotional(tx) * mf
	}

	addOns := make(map[models.AssetClass]float64, len(effective))
	for class, notional := range effective {
		addOns[class] = SupervisoryFactors[class] * notional
	}
	return addOns, nil
}

// Multiplier computes the PFE multiplier. A zero total add-on yields 1.0
// so downstream PFE collapses to zero instead of NaN.
func Multiplier(replacementCost, totalAddOn float64) float64 {
	if totalAddOn == 0 {
		return 1.0
	}
	expTerm := math.Min(1.0, replacementCost/(2.0*totalAddOn))
	return multiplierFloor + (1.0-multiplierFloor)*math.Exp(-expTerm)
}

// PotentialFutureExposure computes the netting set's PFE and the add-ons
// behind it.
func PotentialFutureExposure(ns NettingSet) (float64, map[models.AssetClass]float64, error) {
	addOns, err := AddOns(ns)
	if err != nil {
		return 0, nil, err
	}
	totalAddOn := 0.0
	for _, v := range addOns {
		totalAddOn += v
	}
	multiplier := Multiplier(ReplacementCost(ns), totalAddOn)
	return multiplier * totalAddOn, addOns, nil
}

// Compute runs the full SA-CCR calculation over the request: per netting
// set RC, PFE and EAD, per-asset-class accumulation with transaction
// detail, and portfolio totals.
func Compute(input Input) (*Result, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		AssetClassResults: make(map[models.AssetClass]*AssetClassResult),
		NettingSetResults: make(map[string]NettingSetResult, len(input.NettingSets)),
	}

	for _, ns := range input.NettingSets {
		rc := ReplacementCost(ns)
		pfe, addOns, err := PotentialFutureExposure(ns)
		if err != nil {
			return nil, err
		}
		ead := rc + pfe

		result.TotalReplacementCost += rc
		result.TotalPotentialFutureExposure += pfe
		result.NettingSetResults[ns.ID] = NettingSetResult{
			ReplacementCost:         rc,
			PotentialFutureExposure: pfe,
			ExposureAtDefault:       ead,
			AddOns:                  addOns,
		}

		for class, addOn := range addOns {
			acr, ok := result.AssetClassResults[class]
			if !ok {
				acr = &AssetClassResult{
					SupervisoryFactor:    SupervisoryFactors[class],
					CorrelationParameter: CorrelationParameters[class],
				}
				result.AssetClassResults[class] = acr
			}
			acr.PotentialFutureExposure += addOn
			acr.EAD += addOn

			for _, tx := range ns.Transactions {
				if tx.AssetClass != class {
					continue
				}
				delta, err := SupervisoryDelta(tx)
				if err != nil {
					return nil, err
				}
				mf := MaturityFactor(tx.Maturity, tx.MaturityFactor)
				adjusted := AdjustedNotional(tx)
				acr.Transactions = append(acr.Transactions, TransactionDetail{
					ID:                tx.ID,
					Notional:          tx.Notional,
					AdjustedNotional:  adjusted,
					SupervisoryDelta:  delta,
					MaturityFactor:    mf,
					EffectiveNotional: delta * adjusted * mf,
				})
			}
		}
	}

	result.TotalEAD = result.TotalReplacementCost + result.TotalPotentialFutureExposure
	return result, nil
}
