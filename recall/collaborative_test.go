package recall

import (
	"context"
	"testing"

	"github.com/rushteam/staykit/core"
	"github.com/rushteam/staykit/store"
)

func seedRatings(t *testing.T, ratings ...*core.Interaction) *store.MemoryInteractionRepository {
	t.Helper()
	repo := store.NewMemoryInteractionRepository()
	for _, in := range ratings {
		if err := repo.Append(context.Background(), in); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	return repo
}

func ratingOf(user, item string, rating int) *core.Interaction {
	return &core.Interaction{
		Domain: core.DomainMenu, UserID: user, ItemID: item,
		Type: core.InteractionRating, Rating: rating,
	}
}

func TestCollaborativeExcludesTargetUserAndLowRatings(t *testing.T) {
	items := seedItems(t,
		menuItem("loved", 100, 4.5, 0),
		menuItem("mine", 100, 5, 0),
		menuItem("meh", 100, 2, 0),
	)
	inters := seedRatings(t,
		ratingOf("other1", "loved", 5),
		ratingOf("me", "mine", 5),     // target user's own rating
		ratingOf("other2", "meh", 2),  // below threshold
		ratingOf("other3", "loved", 4),
	)

	r := &Collaborative{Interactions: inters, Items: items}
	rctx := &core.RecommendContext{Domain: core.DomainMenu, UserID: "me"}

	out, err := r.Recall(context.Background(), rctx, 10)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d recs, want 1 (dedup + exclusions)", len(out))
	}
	rec := out[0]
	if rec.ItemID != "loved" {
		t.Errorf("ItemID = %q, want loved", rec.ItemID)
	}
	if rec.Reason != core.ReasonCollaborative {
		t.Errorf("Reason = %v, want collaborative", rec.Reason)
	}
	if rec.Confidence != core.ConfidenceHigh {
		t.Errorf("Confidence = %v, want high", rec.Confidence)
	}
	// First occurrence wins: the 5-star rating arrived first.
	if rec.Score != 5 {
		t.Errorf("Score = %v, want 5", rec.Score)
	}
}

func TestCollaborativeScoresWeightedInteractions(t *testing.T) {
	items := seedItems(t,
		menuItem("booked", 100, 4.2, 0),
		menuItem("glanced", 100, 4.0, 0),
	)
	inters := seedRatings(t,
		&core.Interaction{
			Domain: core.DomainMenu, UserID: "o1", ItemID: "booked",
			Type: core.InteractionBooking, Weight: 5,
		},
		&core.Interaction{
			Domain: core.DomainMenu, UserID: "o2", ItemID: "glanced",
			Type: core.InteractionView, Weight: 1,
		},
	)

	r := &Collaborative{Interactions: inters, Items: items}
	out, err := r.Recall(context.Background(), &core.RecommendContext{Domain: core.DomainMenu, UserID: "me"}, 10)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(out) != 1 || out[0].ItemID != "booked" {
		t.Fatalf("expected only the high-weight booking, got %v", out)
	}
	// Without an explicit rating the interaction weight becomes the score.
	if out[0].Score != 5 {
		t.Errorf("Score = %v, want the booking weight 5", out[0].Score)
	}
}

func TestCollaborativeSkipsUnavailableAndMissingItems(t *testing.T) {
	offline := menuItem("offline", 100, 5, 0)
	offline.Available = false
	items := seedItems(t, offline, menuItem("ok", 100, 4, 0))
	inters := seedRatings(t,
		ratingOf("o1", "offline", 5),
		ratingOf("o2", "ghost", 5), // item no longer exists
		ratingOf("o3", "ok", 4),
	)

	r := &Collaborative{Interactions: inters, Items: items}
	out, err := r.Recall(context.Background(), &core.RecommendContext{Domain: core.DomainMenu, UserID: "me"}, 10)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(out) != 1 || out[0].ItemID != "ok" {
		t.Errorf("expected only the live available item, got %v", out)
	}
}

func TestCollaborativeHonorsLimit(t *testing.T) {
	items := seedItems(t,
		menuItem("a", 100, 5, 0), menuItem("b", 100, 5, 0), menuItem("c", 100, 5, 0),
	)
	inters := seedRatings(t,
		ratingOf("o1", "a", 5), ratingOf("o2", "b", 5), ratingOf("o3", "c", 5),
	)

	r := &Collaborative{Interactions: inters, Items: items}
	out, err := r.Recall(context.Background(), &core.RecommendContext{Domain: core.DomainMenu, UserID: "me"}, 2)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(out) != 2 {
		t.Errorf("got %d recs, want limit 2", len(out))
	}
}
