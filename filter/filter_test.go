package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/staykit/core"
	"github.com/rushteam/staykit/store"
)

func seedItem(t *testing.T, it *core.Item) *store.MemoryItemRepository {
	t.Helper()
	repo := store.NewMemoryItemRepository()
	repo.Put(it)
	return repo
}

func tableItem(id string, capacity int) *core.Item {
	it := core.NewItem(core.DomainTable, id)
	it.Capacity = capacity
	return it
}

func TestCapacityFilter(t *testing.T) {
	tests := []struct {
		name       string
		capacity   int
		partySize  int
		groupSize  int
		wantFilter bool
	}{
		{"fits exactly", 4, 4, 0, false},
		{"too small", 2, 4, 0, true},
		{"roomy", 8, 4, 0, false},
		{"no capacity declared", 0, 4, 0, false},
		{"no party size", 2, 0, 0, false},
		{"group size used when party absent", 2, 0, 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Capacity{Items: seedItem(t, tableItem("t1", tt.capacity))}
			rctx := &core.RecommendContext{
				Domain: core.DomainTable, PartySize: tt.partySize, GroupSize: tt.groupSize,
			}
			rec := core.NewRecommendation("t1", 4, core.ReasonPopularity, core.ConfidenceMedium)
			got, err := f.ShouldFilter(context.Background(), rctx, rec)
			if err != nil {
				t.Fatalf("ShouldFilter() error = %v", err)
			}
			if got != tt.wantFilter {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.wantFilter)
			}
		})
	}
}

func TestCapacityFilterRemovesVanishedItems(t *testing.T) {
	f := &Capacity{Items: store.NewMemoryItemRepository()}
	rctx := &core.RecommendContext{Domain: core.DomainTable, PartySize: 2}
	rec := core.NewRecommendation("ghost", 4, core.ReasonPopularity, core.ConfidenceMedium)
	got, err := f.ShouldFilter(context.Background(), rctx, rec)
	if err != nil {
		t.Fatalf("ShouldFilter() error = %v", err)
	}
	if !got {
		t.Error("recommendations for vanished items should be filtered")
	}
}

type stubFilter struct {
	name string
	hit  bool
	err  error
}

func (s *stubFilter) Name() string { return s.name }
func (s *stubFilter) ShouldFilter(context.Context, *core.RecommendContext, *core.Recommendation) (bool, error) {
	return s.hit, s.err
}

func TestFilterNode(t *testing.T) {
	node := &Node{Filters: []Filter{
		&stubFilter{name: "broken", err: errors.New("boom")}, // errors are skipped
		&stubFilter{name: "hit", hit: true},
	}}

	recs := []*core.Recommendation{
		core.NewRecommendation("a", 4, core.ReasonPopularity, core.ConfidenceMedium),
	}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, recs)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected all recs filtered, got %d", len(out))
	}
	if lbl, ok := recs[0].GetLabel("filtered"); !ok || lbl.Source != "hit" {
		t.Errorf("filtered rec must carry the filter name, got %v", lbl)
	}
}

func TestRuleFilterExpression(t *testing.T) {
	it := tableItem("t1", 2)
	it.Attrs["ambiance"] = "Lively"
	repo := seedItem(t, it)

	tests := []struct {
		name       string
		expr       string
		wantFilter bool
	}{
		{"keep expression true", `item.ambiance == "Lively"`, false},
		{"keep expression false", `item.ambiance == "Quiet"`, true},
		{"context variables", `rctx.party_size <= 4`, false},
		{"empty expression keeps", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Rule{Expr: tt.expr, Items: repo}
			rctx := &core.RecommendContext{Domain: core.DomainTable, PartySize: 2}
			rec := core.NewRecommendation("t1", 4, core.ReasonPopularity, core.ConfidenceMedium)
			got, err := f.ShouldFilter(context.Background(), rctx, rec)
			if err != nil {
				t.Fatalf("ShouldFilter() error = %v", err)
			}
			if got != tt.wantFilter {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.wantFilter)
			}
		})
	}
}
