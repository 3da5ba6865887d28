package menu

import "math"

// QuotaPlan holds the exact integer targets for one generated week.
type QuotaPlan struct {
	TotalDishes        int
	HistoricalDishes   int
	OriginalDishes     int
	SuggestedDailyHist int
}

// ComputeQuotaPlan derives the weekly quota from the profile's per-day dish
// counts and the requested historical-dish percentage.
//
// Rounding is half-away-from-zero (math.Round), so (8,3,30) yields
// 55 total and round(16.5) = 17 historical dishes. The historical and
// original counts always reconcile to the weekly total.
func ComputeQuotaPlan(hotCount, coldCount, historicalPct int) QuotaPlan {
	total := (hotCount + coldCount) * 5
	historical := int(math.Round(float64(total) * float64(historicalPct) / 100))
	return QuotaPlan{
		TotalDishes:        total,
		HistoricalDishes:   historical,
		OriginalDishes:     total - historical,
		SuggestedDailyHist: int(math.Round(float64(historical) / 5)),
	}
}
