package aggregate

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"risk-engine/internal/models"
)

func TestBreakdownOrderingAndShares(t *testing.T) {
	amounts := map[models.AssetClass]float64{
		models.AssetClassFX:           1000,
		models.AssetClassEquity:       3000,
		models.AssetClassInterestRate: 1000,
	}

	entries := Breakdown(amounts)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// Sorted by asset class name.
	if entries[0].AssetClass != models.AssetClassEquity {
		t.Errorf("expected equity first, got %s", entries[0].AssetClass)
	}
	if entries[0].Percentage != 60.0 {
		t.Errorf("expected equity at 60%%, got %f", entries[0].Percentage)
	}
}

func TestBreakdownZeroTotal(t *testing.T) {
	entries := Breakdown(map[models.AssetClass]float64{
		models.AssetClassFX:     0,
		models.AssetClassEquity: 0,
	})
	for _, e := range entries {
		if e.Percentage != 0 {
			t.Errorf("zero total must give 0%% shares, got %f", e.Percentage)
		}
	}
}

func TestMergeNilDestination(t *testing.T) {
	src := map[models.AssetClass]float64{models.AssetClassFX: 5}
	dst := Merge(nil, src)
	if dst[models.AssetClassFX] != 5 {
		t.Fatalf("expected copied value 5, got %f", dst[models.AssetClassFX])
	}

	dst = Merge(dst, map[models.AssetClass]float64{models.AssetClassFX: 3})
	if dst[models.AssetClassFX] != 8 {
		t.Fatalf("expected accumulated value 8, got %f", dst[models.AssetClassFX])
	}
}

func TestPercentageGuardsZeroTotal(t *testing.T) {
	if Percentage(5, 0) != 0 {
		t.Error("zero total must yield 0")
	}
	if Percentage(1, 4) != 25 {
		t.Error("expected 25")
	}
}

// Property: for any positive magnitudes, the breakdown percentages sum
// to 100 and each entry keeps its amount.
func TestProperty_BreakdownPercentagesSumToHundred(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	classes := []models.AssetClass{
		models.AssetClassInterestRate, models.AssetClassCredit,
		models.AssetClassEquity, models.AssetClassCommodity, models.AssetClassFX,
	}

	properties.Property("percentages sum to 100 for positive magnitudes", prop.ForAll(
		func(amounts []float64) bool {
			m := make(map[models.AssetClass]float64)
			for i, v := range amounts {
				m[classes[i%len(classes)]] += v
			}
			if len(m) == 0 {
				return true
			}

			total := 0.0
			for _, entry := range Breakdown(m) {
				total += entry.Percentage
			}
			return math.Abs(total-100) < 1e-9
		},
		gen.SliceOfN(5, gen.Float64Range(0.01, 1e9)),
	))

	properties.TestingRun(t)
}
