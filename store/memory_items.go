package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/rushteam/staykit/core"
)

// MemoryItemRepository 是内存实现的物品仓储。
// 按域分桶，保持写入顺序，保证 ListAvailable 的稳定返回序。
type MemoryItemRepository struct {
	mu    sync.RWMutex
	items map[core.Domain][]*core.Item
	index map[core.Domain]map[string]*core.Item
}

func NewMemoryItemRepository() *MemoryItemRepository {
	return &MemoryItemRepository{
		items: make(map[core.Domain][]*core.Item),
		index: make(map[core.Domain]map[string]*core.Item),
	}
}

var _ core.ItemRepository = (*MemoryItemRepository)(nil)

// Put 写入或覆盖一个物品（初始化/运营工具用）。
func (r *MemoryItemRepository) Put(item *core.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index[item.Domain] == nil {
		r.index[item.Domain] = make(map[string]*core.Item)
	}
	if old, ok := r.index[item.Domain][item.ID]; ok {
		*old = *item
		return
	}
	stored := item.Clone()
	r.items[item.Domain] = append(r.items[item.Domain], stored)
	r.index[item.Domain][item.ID] = stored
}

func (r *MemoryItemRepository) GetItem(ctx context.Context, domain core.Domain, id string) (*core.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.index[domain][id]
	if !ok {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeNotFound,
			fmt.Sprintf("item %q not found in domain %q", id, domain))
	}
	return item.Clone(), nil
}

func (r *MemoryItemRepository) ListAvailable(ctx context.Context, domain core.Domain, limit int) ([]*core.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*core.Item, 0, len(r.items[domain]))
	for _, item := range r.items[domain] {
		if !item.Available {
			continue
		}
		out = append(out, item.Clone())
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryItemRepository) UpdateRatingStats(ctx context.Context, domain core.Domain, id string, avg float64, total int, popularity float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.index[domain][id]
	if !ok {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeNotFound,
			fmt.Sprintf("item %q not found in domain %q", id, domain))
	}
	item.AverageRating = avg
	item.TotalRatings = total
	item.PopularityScore = popularity
	return nil
}

func (r *MemoryItemRepository) IncrEngagement(ctx context.Context, domain core.Domain, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.index[domain][id]
	if !ok {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeNotFound,
			fmt.Sprintf("item %q not found in domain %q", id, domain))
	}
	item.Engagement++
	return nil
}
