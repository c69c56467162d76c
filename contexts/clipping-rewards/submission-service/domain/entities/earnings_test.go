package entities

import "testing"

func TestDeltaViewsClampsNegative(t *testing.T) {
	cases := []struct {
		name    string
		base    int64
		current int64
		want    int64
	}{
		{"growth", 1000, 4500, 3500},
		{"no change", 1000, 1000, 0},
		{"drop below baseline", 1000, 800, 0},
		{"zero baseline", 0, 250, 250},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeltaViews(tc.base, tc.current); got != tc.want {
				t.Fatalf("DeltaViews(%d, %d) = %d, want %d", tc.base, tc.current, got, tc.want)
			}
		})
	}
}

func TestEarningsUSDRoundsToFourDecimals(t *testing.T) {
	cases := []struct {
		name  string
		delta int64
		cpm   float64
		want  float64
	}{
		{"whole thousands", 9000, 5.0, 45.0},
		{"partial thousand", 1234, 5.0, 6.17},
		{"sub-cent rate", 333, 0.01, 0.0033},
		{"zero delta", 0, 5.0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EarningsUSD(tc.delta, tc.cpm); got != tc.want {
				t.Fatalf("EarningsUSD(%d, %v) = %v, want %v", tc.delta, tc.cpm, got, tc.want)
			}
		})
	}
}

func TestEarningsRecomputeIsIdempotent(t *testing.T) {
	first := EarningsUSD(DeltaViews(1000, 5000), 2.5)
	second := EarningsUSD(DeltaViews(1000, 5000), 2.5)
	if first != second || first != 10.0 {
		t.Fatalf("recompute = %v then %v, want stable 10.0", first, second)
	}
}
