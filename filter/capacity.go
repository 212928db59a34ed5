package filter

import (
	"context"

	"github.com/rushteam/staykit/core"
)

// Capacity 过滤容量装不下本次人数的物品（餐桌的 party size、房间的 group size）。
// 物品未声明容量（Capacity == 0）时不过滤。
type Capacity struct {
	Items core.ItemRepository
}

func (f *Capacity) Name() string { return "filter.capacity" }

func (f *Capacity) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	rec *core.Recommendation,
) (bool, error) {
	need := rctx.PartySize
	if need <= 0 {
		need = rctx.GroupSize
	}
	if need <= 0 {
		return false, nil
	}
	item, err := f.Items.GetItem(ctx, rctx.Domain, rec.ItemID)
	if err != nil {
		if core.IsNotFound(err) {
			// 物品已下架：直接移除
			return true, nil
		}
		return false, err
	}
	if item.Capacity <= 0 {
		return false, nil
	}
	return item.Capacity < need, nil
}
