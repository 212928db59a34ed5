package profile

import (
	"testing"

	"github.com/rushteam/staykit/core"
)

func item(id string, attrs map[string]string) *core.Item {
	it := core.NewItem(core.DomainMenu, id)
	for k, v := range attrs {
		it.Attrs[k] = v
	}
	return it
}

func TestAnalyzeEmptyWindow(t *testing.T) {
	a := NewAnalyzer([]string{"category"})
	p := a.Analyze(nil, nil)
	if p.TotalInteractions != 0 {
		t.Errorf("TotalInteractions = %d, want 0", p.TotalInteractions)
	}
	if !p.IsNewUser() {
		t.Error("empty window must yield a new-user profile")
	}
	if p.Histograms["category"] == nil {
		t.Error("tracked dimensions must be initialized even for empty windows")
	}
}

func TestAnalyze(t *testing.T) {
	a := NewAnalyzer([]string{"category", "cuisine"})
	items := map[string]*core.Item{
		"i1": item("i1", map[string]string{"category": "main", "cuisine": "Italian"}),
		"i2": item("i2", map[string]string{"category": "main", "cuisine": "Thai"}),
		"i3": item("i3", map[string]string{"category": "dessert"}),
	}
	interactions := []*core.Interaction{
		{UserID: "u1", ItemID: "i1", Type: core.InteractionRating, Rating: 5},
		{UserID: "u1", ItemID: "i2", Type: core.InteractionRating, Rating: 4, GroupSize: 2},
		{UserID: "u1", ItemID: "i1", Type: core.InteractionOrder, GroupSize: 4},
		{UserID: "u1", ItemID: "i3", Type: core.InteractionView},
		{UserID: "u1", ItemID: "missing", Type: core.InteractionView},
	}

	p := a.Analyze(interactions, items)

	if p.TotalInteractions != 5 {
		t.Errorf("TotalInteractions = %d, want 5", p.TotalInteractions)
	}
	if p.AverageRating != 4.5 {
		t.Errorf("AverageRating = %v, want 4.5", p.AverageRating)
	}
	if p.RatingDistribution[5] != 1 || p.RatingDistribution[4] != 1 {
		t.Errorf("RatingDistribution = %v, want one 5 and one 4", p.RatingDistribution)
	}
	if p.AverageGroupSize != 3 {
		t.Errorf("AverageGroupSize = %v, want 3", p.AverageGroupSize)
	}

	if top, _ := p.TopValue("category"); top != "main" {
		t.Errorf("top category = %q, want main", top)
	}
	// Interactions referencing unknown items contribute to counters
	// but not to histograms.
	if p.Histograms["category"].Counts["main"] != 3 {
		t.Errorf("main count = %d, want 3", p.Histograms["category"].Counts["main"])
	}
	// Tie between Italian (2x via i1) and Thai (1x): Italian wins on count.
	if top, _ := p.TopValue("cuisine"); top != "Italian" {
		t.Errorf("top cuisine = %q, want Italian", top)
	}
}

func TestAnalyzeDeterministicTieBreak(t *testing.T) {
	a := NewAnalyzer([]string{"cuisine"})
	items := map[string]*core.Item{
		"t": item("t", map[string]string{"cuisine": "Thai"}),
		"i": item("i", map[string]string{"cuisine": "Italian"}),
	}
	// Equal counts: first-seen value in the input sequence wins.
	interactions := []*core.Interaction{
		{UserID: "u", ItemID: "t", Type: core.InteractionView},
		{UserID: "u", ItemID: "i", Type: core.InteractionView},
	}
	p := a.Analyze(interactions, items)
	if top, _ := p.TopValue("cuisine"); top != "Thai" {
		t.Errorf("tie must break to first-seen value, got %q", top)
	}
}
