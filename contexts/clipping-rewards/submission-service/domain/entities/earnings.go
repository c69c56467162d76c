package entities

import "math"

// DeltaViews is view growth since the baseline, clamped at zero when the
// platform reports fewer views than the stored baseline.
func DeltaViews(baseViews, currentViews int64) int64 {
	if currentViews <= baseViews {
		return 0
	}
	return currentViews - baseViews
}

// EarningsUSD converts view growth into money at the campaign CPM rate.
// Recomputed from stored fields on every pass, never accumulated.
func EarningsUSD(deltaViews int64, cpmRateUSD float64) float64 {
	return RoundUSD((float64(deltaViews) / 1000.0) * cpmRateUSD)
}

func RoundUSD(value float64) float64 {
	return math.Round(value*10000) / 10000
}
