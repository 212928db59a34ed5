package core

import "testing"

func TestPriceTierOf(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  PriceTier
	}{
		{"zero price is budget", 0, TierBudget},
		{"below first breakpoint", 4999, TierBudget},
		{"budget boundary inclusive", 5000, TierBudget},
		{"just above budget", 5000.01, TierStandard},
		{"standard boundary inclusive", 10000, TierStandard},
		{"premium range", 15000, TierPremium},
		{"premium boundary inclusive", 20000, TierPremium},
		{"above all breakpoints", 20001, TierLuxury},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PriceTierOf(tt.price); got != tt.want {
				t.Errorf("PriceTierOf(%v) = %v, want %v", tt.price, got, tt.want)
			}
		})
	}
}

func TestInTier(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		tier  PriceTier
		want  bool
	}{
		{"budget lower edge", 0, TierBudget, true},
		{"budget upper edge", 5000, TierBudget, true},
		{"standard excludes budget edge", 5000, TierStandard, false},
		{"standard mid", 7500, TierStandard, true},
		{"luxury is open-ended", 99999, TierLuxury, true},
		{"luxury excludes premium edge", 20000, TierLuxury, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InTier(tt.price, tt.tier); got != tt.want {
				t.Errorf("InTier(%v, %v) = %v, want %v", tt.price, tt.tier, got, tt.want)
			}
		})
	}
}
