package recall

import (
	"context"
	"sort"

	"github.com/rushteam/staykit/core"
	"github.com/rushteam/staykit/pkg/utils"
)

// ContentBased 是基于内容的候选源：按用户画像里每个维度计数最高的那个取值
// 构造过滤条件（只取 #1，不做多值加权），过滤后按 (平均评分 desc, 价格 asc)
// 排序取 TopN。
//
// price_tier 维度特殊：画像里的 top 档位换算成价格区间过滤。
type ContentBased struct {
	Items core.ItemRepository

	// Dimensions 参与过滤的维度，通常与画像分析器追踪的维度一致
	Dimensions []string

	// Availability 可选：日期区间可用性检查。过滤遵循与热门源相同的纪律：
	// 候选排好序后按序检查，凑满 limit 或耗尽候选才停
	Availability core.AvailabilityChecker
}

func (r *ContentBased) Name() string        { return "recall.content" }
func (r *ContentBased) Reason() core.Reason { return core.ReasonContentBased }

func (r *ContentBased) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Recommendation, error) {
	if limit <= 0 || rctx.Profile == nil {
		return nil, nil
	}

	// 每个维度只取计数最高的取值；画像里没有的维度不设条件
	wanted := make(map[string]string, len(r.Dimensions))
	for _, dim := range r.Dimensions {
		if top, ok := rctx.Profile.TopValue(dim); ok {
			wanted[dim] = top
		}
	}
	if len(wanted) == 0 {
		return nil, nil
	}

	items, err := r.Items.ListAvailable(ctx, rctx.Domain, 0)
	if err != nil {
		return nil, err
	}

	matched := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if matchesWanted(it, wanted) {
			matched = append(matched, it)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].AverageRating != matched[j].AverageRating {
			return matched[i].AverageRating > matched[j].AverageRating
		}
		return matched[i].Price < matched[j].Price
	})

	survivors, err := filterByDateRange(ctx, r.Availability, rctx, matched, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Recommendation, 0, len(survivors))
	for _, it := range survivors {
		rec := core.NewRecommendation(it.ID, scoreOf(it), core.ReasonContentBased, core.ConfidenceMedium)
		rec.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, rec)
	}
	return out, nil
}

// matchesWanted 物品必须命中每个有条件的维度；price_tier 走档位区间判断。
func matchesWanted(it *core.Item, wanted map[string]string) bool {
	for dim, value := range wanted {
		if dim == core.DimPriceTier {
			if !core.InTier(it.Price, core.PriceTier(value)) {
				return false
			}
			continue
		}
		if it.Attr(dim) != value {
			return false
		}
	}
	return true
}
