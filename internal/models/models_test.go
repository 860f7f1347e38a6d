package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestAssetClassMembership(t *testing.T) {
	assert.True(t, AssetClassInterestRate.IsDerivativeClass())
	assert.True(t, AssetClassCommodity.IsDerivativeClass())
	assert.False(t, AssetClassCrypto.IsDerivativeClass(), "crypto trades only in portfolios")
	assert.False(t, AssetClass("weather").IsDerivativeClass())

	assert.True(t, AssetClassCrypto.IsPortfolioClass())
	assert.True(t, AssetClassEquity.IsPortfolioClass())
	assert.False(t, AssetClassCredit.IsPortfolioClass())
}

func TestTradeTypeIsOption(t *testing.T) {
	assert.True(t, TradeTypeOption.IsOption())
	assert.True(t, TradeTypeSwaption.IsOption())
	assert.False(t, TradeTypeSwap.IsOption())
	assert.False(t, TradeTypeForward.IsOption())
}

func TestCollateralValidation(t *testing.T) {
	valid := Collateral{ID: "c1", Amount: 1000, Currency: "USD", Haircut: 0.15}
	assert.NoError(t, valid.Validate())
	assert.InDelta(t, 850.0, valid.EffectiveValue(), 1e-9)

	assert.Error(t, Collateral{Amount: -1, Haircut: 0}.Validate())
	assert.Error(t, Collateral{Amount: 1, Haircut: 1.5}.Validate())
	assert.Error(t, Collateral{Amount: 1, Haircut: -0.1}.Validate())
}

func TestPositionValidation(t *testing.T) {
	valid := Position{ID: "p1", AssetClass: AssetClassEquity, Ticker: "AAA", Quantity: 10, Price: 50}
	assert.NoError(t, valid.Validate())
	assert.Equal(t, 500.0, valid.Value())

	cases := []struct {
		name     string
		position Position
	}{
		{"credit is not a portfolio class", Position{AssetClass: AssetClassCredit, Quantity: 1, Price: 1}},
		{"zero quantity", Position{AssetClass: AssetClassEquity, Quantity: 0, Price: 1}},
		{"negative price", Position{AssetClass: AssetClassEquity, Quantity: 1, Price: -1}},
		{"zero volatility", Position{AssetClass: AssetClassEquity, Quantity: 1, Price: 1, Volatility: floatPtr(0)}},
		{"correlation out of range", Position{AssetClass: AssetClassEquity, Quantity: 1, Price: 1,
			Correlation: map[string]float64{"other": 1.5}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.position.Validate())
		})
	}
}

func TestPortfolioValidation(t *testing.T) {
	assert.Error(t, Portfolio{ID: "p"}.Validate(), "empty portfolios are rejected")

	pf := Portfolio{ID: "p", Positions: []Position{
		{ID: "a", AssetClass: AssetClassEquity, Quantity: 2, Price: 100},
		{ID: "b", AssetClass: AssetClassFX, Quantity: 1, Price: 300},
	}}
	assert.NoError(t, pf.Validate())
	assert.Equal(t, 500.0, pf.Value())
}
