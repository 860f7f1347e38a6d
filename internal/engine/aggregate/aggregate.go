// Package aggregate provides the cross-engine result aggregation helpers:
// percentage breakdowns over asset-class magnitudes and simple totals.
package aggregate

import (
	"sort"

	"risk-engine/internal/models"
)

// Breakdown converts per-asset-class magnitudes into breakdown entries
// with percentage-of-total shares. When the total is zero every entry
// carries 0% rather than propagating a division by zero. Entries are
// ordered by asset class for deterministic output.
func Breakdown(amounts map[models.AssetClass]float64) []models.AssetClassBreakdown {
	total := Total(amounts)

	entries := make([]models.AssetClassBreakdown, 0, len(amounts))
	for class, amount := range amounts {
		pct := 0.0
		if total > 0 {
			pct = amount / total * 100
		}
		entries = append(entries, models.AssetClassBreakdown{
			AssetClass: class,
			Amount:     amount,
			Percentage: pct,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].AssetClass < entries[j].AssetClass
	})
	return entries
}

// Total sums per-asset-class magnitudes.
func Total(amounts map[models.AssetClass]float64) float64 {
	total := 0.0
	for _, v := range amounts {
		total += v
	}
	return total
}

// Merge accumulates src into dst in place and returns dst. A nil dst is
// allocated first, so Merge(nil, m) copies m.
func Merge(dst, src map[models.AssetClass]float64) map[models.AssetClass]float64 {
	if dst == nil {
		dst = make(map[models.AssetClass]float64, len(src))
	}
	for class, v := range src {
		dst[class] += v
	}
	return dst
}

// Percentage returns 100*part/total, or 0 when total is zero.
func Percentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
