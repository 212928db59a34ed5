package store

import (
	"context"
	"sync"
	"time"

	"github.com/rushteam/staykit/core"
)

// MemoryInteractionRepository 是内存实现的行为流水仓储。
// 追加写、按写入顺序读，流水不可变。
type MemoryInteractionRepository struct {
	mu   sync.RWMutex
	logs map[core.Domain][]*core.Interaction
}

func NewMemoryInteractionRepository() *MemoryInteractionRepository {
	return &MemoryInteractionRepository{
		logs: make(map[core.Domain][]*core.Interaction),
	}
}

var _ core.InteractionRepository = (*MemoryInteractionRepository)(nil)

func (r *MemoryInteractionRepository) Append(ctx context.Context, in *core.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *in
	r.logs[in.Domain] = append(r.logs[in.Domain], &cp)
	return nil
}

func (r *MemoryInteractionRepository) ListByUser(ctx context.Context, domain core.Domain, userID string, since time.Time) ([]*core.Interaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*core.Interaction
	for _, in := range r.logs[domain] {
		if in.UserID != userID {
			continue
		}
		if !since.IsZero() && in.Timestamp.Before(since) {
			continue
		}
		cp := *in
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemoryInteractionRepository) ListHighlyRated(ctx context.Context, domain core.Domain, excludeUser string, minRating int) ([]*core.Interaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*core.Interaction
	for _, in := range r.logs[domain] {
		if in.UserID == excludeUser {
			continue
		}
		if in.Type == core.InteractionRating {
			if in.Rating < minRating {
				continue
			}
		} else if in.Weight < float64(minRating) {
			continue
		}
		cp := *in
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemoryInteractionRepository) CountByUser(ctx context.Context, domain core.Domain) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	for _, in := range r.logs[domain] {
		counts[in.UserID]++
	}
	return counts, nil
}
