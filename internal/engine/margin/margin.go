// Package margin implements initial margin for netting sets of
// derivative trades: the BCBS-IOSCO Grid/Schedule approach and a
// simplified sensitivity-based (SIMM-like) approach.
package margin

import (
	"math"

	"risk-engine/internal/engine/aggregate"
	"risk-engine/internal/errors"
	"risk-engine/internal/models"
)

// Method selects the margin methodology.
type Method string

const (
	MethodGrid Method = "grid"
	MethodSIMM Method = "simm"
)

// MaturityBucket labels the Grid schedule's maturity buckets.
type MaturityBucket string

const (
	BucketShort MaturityBucket = "0-2"
	BucketMid   MaturityBucket = "2-5"
	BucketLong  MaturityBucket = "5+"
)

// GridThresholds holds the Grid/Schedule notional percentages per asset
// class and maturity bucket.
var GridThresholds = map[models.AssetClass]map[MaturityBucket]float64{
	models.AssetClassInterestRate: {BucketShort: 0.01, BucketMid: 0.02, BucketLong: 0.04},
	models.AssetClassCredit:       {BucketShort: 0.02, BucketMid: 0.05, BucketLong: 0.10},
	models.AssetClassEquity:       {BucketShort: 0.06, BucketMid: 0.08, BucketLong: 0.10},
	models.AssetClassCommodity:    {BucketShort: 0.10, BucketMid: 0.12, BucketLong: 0.15},
	models.AssetClassFX:           {BucketShort: 0.04, BucketMid: 0.05, BucketLong: 0.06},
}

// RiskComponent labels the SIMM sensitivity components.
type RiskComponent string

const (
	ComponentDelta     RiskComponent = "delta"
	ComponentVega      RiskComponent = "vega"
	ComponentCurvature RiskComponent = "curvature"
)

// SIMMRiskWeights holds the simplified SIMM risk weights per asset class
// and sensitivity component.
var SIMMRiskWeights = map[models.AssetClass]map[RiskComponent]float64{
	models.AssetClassInterestRate: {ComponentDelta: 0.005, ComponentVega: 0.01, ComponentCurvature: 0.01},
	models.AssetClassCredit:       {ComponentDelta: 0.05, ComponentVega: 0.10, ComponentCurvature: 0.10},
	models.AssetClassEquity:       {ComponentDelta: 0.15, ComponentVega: 0.20, ComponentCurvature: 0.20},
	models.AssetClassCommodity:    {ComponentDelta: 0.18, ComponentVega: 0.30, ComponentCurvature: 0.30},
	models.AssetClassFX:           {ComponentDelta: 0.04, ComponentVega: 0.05, ComponentCurvature: 0.05},
}

// Sensitivity defaults applied to option products without explicit
// sensitivities.
const (
	defaultVega      = 0.1
	defaultCurvature = 0.01
)

// Trade is a derivative trade in the margin variant, carrying optional
// explicit sensitivities.
type Trade struct {
	ID          string            `json:"id"`
	AssetClass  models.AssetClass `json:"asset_class"`
	Product     models.TradeType  `json:"product"`
	Notional    float64           `json:"notional"`
	Maturity    float64           `json:"maturity"`
	MarketValue float64           `json:"market_value"`
	Delta       *float64          `json:"delta,omitempty"`
	Vega        *float64          `json:"vega,omitempty"`
	Curvature   *float64          `json:"curvature,omitempty"`
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

// NettingSet groups trades margined together.
type NettingSet struct {
	ID     string  `json:"id"`
	Trades []Trade `json:"trades"`
}

// Validate checks every trade.
func (ns NettingSet) Validate() error {
	for _, t := range ns.Trades {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Input is the initial-margin request aggregate.
type Input struct {
	NettingSets []NettingSet `json:"netting_sets"`
	Method      Method       `json:"calculation_method"`
}

func (in *Input) applyDefaults() {
	if in.Method == "" {
		in.Method = MethodGrid
	}
}

// Validate checks the method and every netting set.
func (in Input) Validate() error {
	switch in.Method {
	case MethodGrid, MethodSIMM:
	default:
		return errors.NewValidationError("calculation_method", in.Method, errors.ErrUnsupportedMethod.Error())
	}
	for _, ns := range in.NettingSets {
		if err := ns.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SensitivityBreakdown totals the margin attributed to each sensitivity
// component across all asset classes and netting sets (SIMM only).
type SensitivityBreakdown struct {
	Delta     float64 `json:"delta"`
	Vega      float64 `json:"vega"`
	Curvature float64 `json:"curvature"`
}

// NettingSetResult holds one netting set's margin figures.
type NettingSetResult struct {
	Margin              float64                       `json:"margin"`
	MarginsByAssetClass map[models.AssetClass]float64 `json:"margins_by_asset_class"`
}

// Result is the initial-margin response aggregate.
type Result struct {
	TotalMargin          float64                      `json:"total_margin"`
	Method               Method                       `json:"calculation_method"`
	AssetClassBreakdown  []models.AssetClassBreakdown `json:"asset_class_breakdown"`
	SensitivityBreakdown *SensitivityBreakdown        `json:"sensitivity_breakdown,omitempty"`
	NettingSetResults    map[string]NettingSetResult  `json:"netting_set_results"`
}

// BucketFor returns the Grid maturity bucket of a maturity in years.
func BucketFor(maturity float64) MaturityBucket {
	switch {
	case maturity < 2:
		return BucketShort
	case maturity < 5:
		return BucketMid
	default:
		return BucketLong
	}
}

// GridMargin computes Grid/Schedule margin for a netting set: per asset
// class, gross notional times the class's mid ("2-5") bucket rate. The
// schedule rate does not vary with trade maturity; a 1y equity trade
// still margins at the 2-5y rate. BucketFor classifies maturities for
// reporting only.
func GridMargin(ns NettingSet) (float64, map[models.AssetClass]float64) {
	gross := make(map[models.AssetClass]float64)
	for _, t := range ns.Trades {
		gross[t.AssetClass] += math.Abs(t.Notional)
	}

	margins := make(map[models.AssetClass]float64, len(gross))
	total := 0.0
	for class, notional := range gross {
		m := notional * GridThresholds[class][BucketMid]
		margins[class] = m
		total += m
	}
	return total, margins
}

// SIMMMargin computes sensitivity-based margin for a netting set. Delta
// accumulates for every trade (explicit delta or 1.0, times notional);
// vega and curvature accumulate only for option products, with defaults
// when not supplied. Component margins weight the absolute sums by the
// asset class's risk weights.
func SIMMMargin(ns NettingSet) (float64, map[models.AssetClass]float64, SensitivityBreakdown) {
	type sums struct{ delta, vega, curvature float64 }
	byClass := make(map[models.AssetClass]*sums)

	for _, t := range ns.Trades {
		s, ok := byClass[t.AssetClass]
		if !ok {
			s = &sums{}
			byClass[t.AssetClass] = s
		}

		delta := 1.0
		if t.Delta != nil {
			delta = *t.Delta
		}
		s.delta += delta * t.Notional

		if t.Product.IsOption() {
			vega := defaultVega
			if t.Vega != nil {
				vega = *t.Vega
			}
			s.vega += vega * t.Notional

			curvature := defaultCurvature
			if t.Curvature != nil {
				curvature = *t.Curvature
			}
			s.curvature += curvature * t.Notional
		}
	}

	margins := make(map[models.AssetClass]float64, len(byClass))
	var breakdown SensitivityBreakdown
	total := 0.0
	for class, s := range byClass {
		weights := SIMMRiskWeights[class]
		deltaMargin := math.Abs(s.delta) * weights[ComponentDelta]
		vegaMargin := math.Abs(s.vega) * weights[ComponentVega]
		curvatureMargin := math.Abs(s.curvature) * weights[ComponentCurvature]

		margins[class] = deltaMargin + vegaMargin + curvatureMargin
		total += margins[class]

		breakdown.Delta += deltaMargin
		breakdown.Vega += vegaMargin
		breakdown.Curvature += curvatureMargin
	}
	return total, margins, breakdown
}

// Compute runs the initial-margin calculation over the request.
func Compute(input Input) (*Result, error) {
	input.applyDefaults()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Method:            input.Method,
		NettingSetResults: make(map[string]NettingSetResult, len(input.NettingSets)),
	}

	var allMargins map[models.AssetClass]float64
	for _, ns := range input.NettingSets {
		var (
			total   float64
			margins map[models.AssetClass]float64
		)
		switch input.Method {
		case MethodGrid:
			total, margins = GridMargin(ns)
		case MethodSIMM:
			var breakdown SensitivityBreakdown
			total, margins, breakdown = SIMMMargin(ns)
			if result.SensitivityBreakdown == nil {
				result.SensitivityBreakdown = &SensitivityBreakdown{}
			}
			result.SensitivityBreakdown.Delta += breakdown.Delta
			result.SensitivityBreakdown.Vega += breakdown.Vega
			result.SensitivityBreakdown.Curvature += breakdown.Curvature
		}

		result.TotalMargin += total
		allMargins = aggregate.Merge(allMargins, margins)
		result.NettingSetResults[ns.ID] = NettingSetResult{
			Margin:              total,
			MarginsByAssetClass: margins,
		}
	}

	result.AssetClassBreakdown = aggregate.Breakdown(allMargins)
	return result, nil
}
