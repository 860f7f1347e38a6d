// Package models provides shared domain models for the risk engines.
package models

import (
	"risk-engine/internal/errors"
)

// AssetClass identifies the regulatory asset class of a trade or position.
type AssetClass string

const (
	AssetClassInterestRate AssetClass = "interest_rate"
	AssetClassCredit       AssetClass = "credit"
	AssetClassEquity       AssetClass = "equity"
	AssetClassCommodity    AssetClass = "commodity"
	AssetClassFX           AssetClass = "fx"
	AssetClassCrypto       AssetClass = "crypto"
)

// DerivativeAssetClasses is the closed set of asset classes recognized by
// the SA-CCR, PFE and initial-margin engines. Crypto is accepted only by
// the VaR engine.
var DerivativeAssetClasses = []AssetClass{
	AssetClassInterestRate,
	AssetClassCredit,
	AssetClassEquity,
	AssetClassCommodity,
	AssetClassFX,
}

// IsDerivativeClass reports whether c is valid for the derivative engines.
func (c AssetClass) IsDerivativeClass() bool {
	switch c {
	case AssetClassInterestRate, AssetClassCredit, AssetClassEquity,
		AssetClassCommodity, AssetClassFX:
		return true
	}
	return false
}

// IsPortfolioClass reports whether c is valid for VaR positions.
func (c AssetClass) IsPortfolioClass() bool {
	switch c {
	case AssetClassEquity, AssetClassFX, AssetClassInterestRate,
		AssetClassCommodity, AssetClassCrypto:
		return true
	}
	return false
}

// TradeType identifies the product type of a derivative trade.
type TradeType string

const (
	TradeTypeSwap     TradeType = "swap"
	TradeTypeForward  TradeType = "forward"
	TradeTypeOption   TradeType = "option"
	TradeTypeSwaption TradeType = "swaption"
	TradeTypeFutures  TradeType = "futures"
	TradeTypeOther    TradeType = "other"
)

// IsOption reports whether the trade type carries optionality.
func (t TradeType) IsOption() bool {
	return t == TradeTypeOption || t == TradeTypeSwaption
}

// OptionType distinguishes calls from puts.
type OptionType string

const (
	OptionCall OptionType = "call"
	OptionPut  OptionType = "put"
)

// OptionStyle distinguishes exercise styles.
type OptionStyle string

const (
	OptionStyleEuropean OptionStyle = "european"
	OptionStyleAmerican OptionStyle = "american"
)

// Collateral is a single collateral entry with a haircut in [0, 1].
type Collateral struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Haircut  float64 `json:"haircut"`
}

// Validate checks collateral bounds.
func (c Collateral) Validate() error {
	if c.Amount < 0 {
		return errors.NewValidationError("amount", c.Amount, "collateral amount must be non-negative")
	}
	if c.Haircut < 0 || c.Haircut > 1 {
		return errors.NewValidationError("haircut", c.Haircut, "haircut must be within [0, 1]")
	}
	return nil
}

// EffectiveValue returns the haircut-adjusted collateral value.
func (c Collateral) EffectiveValue() float64 {
	return (1 - c.Haircut) * c.Amount
}

// Position is a single market position in a VaR portfolio. Volatility is
// optional and defaults to 20% annualized when absent. Correlation holds
// pairwise correlations keyed by other position IDs; the caller supplies
// one side and the engine symmetrizes.
type Position struct {
	ID          string             `json:"id"`
	AssetClass  AssetClass         `json:"asset_class"`
	Ticker      string             `json:"ticker"`
	Quantity    float64            `json:"quantity"`
	Price       float64            `json:"price"`
	Volatility  *float64           `json:"volatility,omitempty"`
	Correlation map[string]float64 `json:"correlation,omitempty"`
}

// Validate checks position bounds.
func (p Position) Validate() error {
	if !p.AssetClass.IsPortfolioClass() {
		return errors.NewValidationError("asset_class", p.AssetClass, "not a portfolio asset class")
	}
	if p.Quantity <= 0 {
		return errors.NewValidationError("quantity", p.Quantity, "quantity must be positive")
	}
	if p.Price <= 0 {
		return errors.NewValidationError("price", p.Price, "price must be positive")
	}
	if p.Volatility != nil && *p.Volatility <= 0 {
		return errors.NewValidationError("volatility", *p.Volatility, "volatility must be positive")
	}
	for other, corr := range p.Correlation {
		if corr < -1 || corr > 1 {
			return errors.NewValidationError("correlation", corr,
				"correlation with "+other+" must be within [-1, 1]")
		}
	}
	return nil
}

// Value returns the position market value.
func (p Position) Value() float64 {
	return p.Quantity * p.Price
}

// Portfolio is an ordered collection of positions.
type Portfolio struct {
	ID        string     `json:"id"`
	Positions []Position `json:"positions"`
}

// Validate checks every position in the portfolio.
func (pf Portfolio) Validate() error {
	if len(pf.Positions) == 0 {
		return errors.NewValidationError("positions", 0, errors.ErrEmptyPortfolio.Error())
	}
	for _, p := range pf.Positions {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Value returns the total portfolio market value.
func (pf Portfolio) Value() float64 {
	total := 0.0
	for _, p := range pf.Positions {
		total += p.Value()
	}
	return total
}

// AssetClassBreakdown expresses one asset class's share of an aggregate
// figure (exposure, margin or add-on) as a magnitude and a percentage of
// the total.
type AssetClassBreakdown struct {
	AssetClass AssetClass `json:"asset_class"`
	Amount     float64    `json:"amount"`
	Percentage float64    `json:"percentage"`
}
