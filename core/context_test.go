package core

import (
	"testing"
	"time"
)

func TestFingerprintDistinguishesContexts(t *testing.T) {
	base := func() *RecommendContext {
		return &RecommendContext{
			Count:     10,
			Occasion:  "Romantic",
			TimeSlot:  "Prime Dinner",
			PartySize: 2,
		}
	}

	variants := map[string]*RecommendContext{
		"different count":     {Count: 5, Occasion: "Romantic", TimeSlot: "Prime Dinner", PartySize: 2},
		"different occasion":  {Count: 10, Occasion: "Business", TimeSlot: "Prime Dinner", PartySize: 2},
		"different time slot": {Count: 10, Occasion: "Romantic", TimeSlot: "Lunch", PartySize: 2},
		"different party":     {Count: 10, Occasion: "Romantic", TimeSlot: "Prime Dinner", PartySize: 4},
		"with date range": {
			Count: 10, Occasion: "Romantic", TimeSlot: "Prime Dinner", PartySize: 2,
			CheckIn:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			CheckOut: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		},
		"with params": {
			Count: 10, Occasion: "Romantic", TimeSlot: "Prime Dinner", PartySize: 2,
			Params: map[string]string{"dietary": "vegan"},
		},
	}

	ref := base().Fingerprint()
	if got := base().Fingerprint(); got != ref {
		t.Fatalf("fingerprint not stable: %s vs %s", got, ref)
	}
	for name, rctx := range variants {
		if rctx.Fingerprint() == ref {
			t.Errorf("%s: fingerprint collides with base context", name)
		}
	}
}

func TestFingerprintIgnoresParamOrder(t *testing.T) {
	a := &RecommendContext{Params: map[string]string{"a": "1", "b": "2", "c": "3"}}
	b := &RecommendContext{Params: map[string]string{"c": "3", "a": "1", "b": "2"}}
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("fingerprint must be independent of param map iteration order")
	}
}

func TestNormalizeOccasion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "Casual"},
		{"romantic", "Romantic"},
		{"ROMANTIC", "Romantic"},
		{"Business", "Business"},
		{"séance", "Casual"},
		{"unknown", "Casual"},
	}
	for _, tt := range tests {
		if got := NormalizeOccasion(tt.in); got != tt.want {
			t.Errorf("NormalizeOccasion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePartySize(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 2}, {-3, 2}, {1, 1}, {8, 8}, {20, 20}, {50, 20},
	}
	for _, tt := range tests {
		if got := NormalizePartySize(tt.in); got != tt.want {
			t.Errorf("NormalizePartySize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTimeSlot(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "Prime Dinner"},
		{"lunch", "Lunch"},
		{"evening", "Prime Dinner"},
		{"late", "Late Dinner"},
		{"Early Dinner", "Early Dinner"},
		{"midnight snack", "Prime Dinner"},
	}
	for _, tt := range tests {
		if got := NormalizeTimeSlot(tt.in); got != tt.want {
			t.Errorf("NormalizeTimeSlot(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
