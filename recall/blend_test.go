package recall

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rushteam/staykit/core"
)

// stubSource records the limit it was asked for and returns canned results.
type stubSource struct {
	name   string
	reason core.Reason
	recs   []*core.Recommendation
	err    error

	mu        sync.Mutex
	gotLimits []int
}

func (s *stubSource) Name() string        { return s.name }
func (s *stubSource) Reason() core.Reason { return s.reason }

func (s *stubSource) Recall(_ context.Context, _ *core.RecommendContext, limit int) ([]*core.Recommendation, error) {
	s.mu.Lock()
	s.gotLimits = append(s.gotLimits, limit)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if len(s.recs) > limit {
		return s.recs[:limit], nil
	}
	return s.recs, nil
}

func recs(reason core.Reason, ids ...string) []*core.Recommendation {
	out := make([]*core.Recommendation, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.NewRecommendation(id, 4, reason, core.ConfidenceMedium))
	}
	return out
}

func returningUser() *core.RecommendContext {
	p := core.NewPreferenceProfile(nil)
	p.TotalInteractions = 3
	return &core.RecommendContext{Domain: core.DomainMenu, UserID: "u1", Count: 10, Profile: p}
}

func TestBlenderQuotaSplit(t *testing.T) {
	collab := &stubSource{name: "collab", reason: core.ReasonCollaborative}
	content := &stubSource{name: "content", reason: core.ReasonContentBased}
	popular := &stubSource{name: "popular", reason: core.ReasonPopularity}

	b := &Blender{
		Sources: []QuotaSource{
			{Source: collab, Ratio: 0.6},
			{Source: content, Ratio: 0.3},
			{Source: popular, Ratio: 0.1},
		},
		Fallback: popular,
	}

	if _, err := b.Process(context.Background(), returningUser(), nil); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	// count=10: ceil splits are 6 / 3 / 1
	for _, tt := range []struct {
		src  *stubSource
		want int
	}{
		{collab, 6}, {content, 3}, {popular, 1},
	} {
		if len(tt.src.gotLimits) != 1 || tt.src.gotLimits[0] != tt.want {
			t.Errorf("%s requested with limits %v, want [%d]", tt.src.name, tt.src.gotLimits, tt.want)
		}
	}
}

func TestBlenderDedupFirstWins(t *testing.T) {
	collab := &stubSource{name: "collab", reason: core.ReasonCollaborative,
		recs: recs(core.ReasonCollaborative, "a", "b")}
	content := &stubSource{name: "content", reason: core.ReasonContentBased,
		recs: recs(core.ReasonContentBased, "b", "c")}
	popular := &stubSource{name: "popular", reason: core.ReasonPopularity,
		recs: recs(core.ReasonPopularity, "a", "d")}

	b := &Blender{
		Sources: []QuotaSource{
			{Source: collab, Ratio: 0.6},
			{Source: content, Ratio: 0.3},
			{Source: popular, Ratio: 0.1},
		},
		Fallback: popular,
	}

	out, err := b.Process(context.Background(), returningUser(), nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	seen := map[string]core.Reason{}
	for _, rec := range out {
		if _, dup := seen[rec.ItemID]; dup {
			t.Errorf("duplicate item %q in blended result", rec.ItemID)
		}
		seen[rec.ItemID] = rec.Reason
	}
	// Earlier sources take priority for shared items.
	if seen["a"] != core.ReasonCollaborative {
		t.Errorf("item a reason = %v, want collaborative", seen["a"])
	}
	if seen["b"] != core.ReasonCollaborative {
		t.Errorf("item b reason = %v, want collaborative", seen["b"])
	}
}

func TestBlenderNewUserGoesStraightToFallback(t *testing.T) {
	collab := &stubSource{name: "collab", reason: core.ReasonCollaborative}
	popular := &stubSource{name: "popular", reason: core.ReasonPopularity,
		recs: recs(core.ReasonPopularity, "a", "b", "c")}

	b := &Blender{
		Sources:  []QuotaSource{{Source: collab, Ratio: 0.6}, {Source: popular, Ratio: 0.1}},
		Fallback: popular,
	}

	rctx := &core.RecommendContext{
		Domain: core.DomainMenu, UserID: "new", Count: 10,
		Profile: core.NewPreferenceProfile(nil),
	}
	out, err := b.Process(context.Background(), rctx, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(collab.gotLimits) != 0 {
		t.Error("collaborative source must not run for new users")
	}
	for _, rec := range out {
		if rec.Reason != core.ReasonPopularity {
			t.Errorf("new user got reason %v, want popularity", rec.Reason)
		}
	}
	if rctx.Profile.Fallback {
		t.Error("new-user path is not a fallback, no fallback flag expected")
	}
}

func TestBlenderFallbackOnGeneratorError(t *testing.T) {
	collab := &stubSource{name: "collab", reason: core.ReasonCollaborative,
		err: errors.New("cf backend down")}
	content := &stubSource{name: "content", reason: core.ReasonContentBased,
		recs: recs(core.ReasonContentBased, "x")}
	popular := &stubSource{name: "popular", reason: core.ReasonPopularity,
		recs: recs(core.ReasonPopularity, "a", "b", "c")}

	b := &Blender{
		Sources: []QuotaSource{
			{Source: collab, Ratio: 0.6},
			{Source: content, Ratio: 0.3},
			{Source: popular, Ratio: 0.1},
		},
		Fallback: popular,
	}

	rctx := returningUser()
	out, err := b.Process(context.Background(), rctx, nil)
	if err != nil {
		t.Fatalf("generator failure must not fail the request, got %v", err)
	}
	if len(out) == 0 {
		t.Fatal("fallback must still produce recommendations")
	}
	for _, rec := range out {
		if rec.Reason != core.ReasonPopularity {
			t.Errorf("fallback result has reason %v, want popularity", rec.Reason)
		}
		if lbl, ok := rec.GetLabel("fallback"); !ok || lbl.Value != "true" {
			t.Error("fallback results must carry the fallback label")
		}
	}
	if !rctx.Profile.Fallback {
		t.Error("profile must be flagged as fallback")
	}
	if rctx.Profile.FallbackError == "" {
		t.Error("fallback cause must be captured for diagnostics")
	}
}

func TestBlenderFallbackFailureIsTerminal(t *testing.T) {
	broken := &stubSource{name: "popular", reason: core.ReasonPopularity,
		err: errors.New("storage down")}

	b := &Blender{
		Sources:  []QuotaSource{{Source: broken, Ratio: 1}},
		Fallback: broken,
	}
	_, err := b.Process(context.Background(), returningUser(), nil)
	if err == nil {
		t.Fatal("expected an error when the fallback source itself fails")
	}
	de := core.GetDomainError(err)
	if de == nil || de.Code != core.ErrorCodeInternal {
		t.Errorf("expected internal domain error, got %v", err)
	}
}

func TestBlenderDeterministicConcatOrder(t *testing.T) {
	collab := &stubSource{name: "collab", reason: core.ReasonCollaborative,
		recs: recs(core.ReasonCollaborative, "c1", "c2")}
	content := &stubSource{name: "content", reason: core.ReasonContentBased,
		recs: recs(core.ReasonContentBased, "t1")}
	popular := &stubSource{name: "popular", reason: core.ReasonPopularity,
		recs: recs(core.ReasonPopularity, "p1")}

	b := &Blender{
		Sources: []QuotaSource{
			{Source: collab, Ratio: 0.6},
			{Source: content, Ratio: 0.3},
			{Source: popular, Ratio: 0.1},
		},
		Fallback: popular,
	}

	// Concurrent fan-out must not affect concat order across runs.
	for i := 0; i < 20; i++ {
		out, err := b.Process(context.Background(), returningUser(), nil)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		want := []string{"c1", "c2", "t1", "p1"}
		if len(out) != len(want) {
			t.Fatalf("got %d recs, want %d", len(out), len(want))
		}
		for j, id := range want {
			if out[j].ItemID != id {
				t.Fatalf("run %d: out[%d] = %q, want %q", i, j, out[j].ItemID, id)
			}
		}
	}
}
