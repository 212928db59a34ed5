package recall

import (
	"context"
	"sort"

	"github.com/rushteam/staykit/core"
	"github.com/rushteam/staykit/pkg/utils"
)

// Popularity 是热门候选源：全域按 (平均评分 desc, 参与度 desc, 价格 asc) 排序取 TopN。
// - 如果配置了 KeyValueStore，优先从热门榜 zset（rating.Aggregator 维护）取候选
// - zset 缺失或候选不足时回退到 ItemRepository 全量扫描
// - 带日期区间时按"先多取再过滤"的纪律执行，绝不在凑满 limit 前放弃候选
type Popularity struct {
	Items core.ItemRepository

	// Store 可选：热门榜快路径，key 为 popular:{domain}
	Store core.KeyValueStore

	// Availability 可选：日期区间可用性检查（订房/订座域提供）
	Availability core.AvailabilityChecker

	// Overfetch 过取倍数，默认 2。只是调优参数，不是硬契约
	Overfetch int
}

func (r *Popularity) Name() string        { return "recall.popularity" }
func (r *Popularity) Reason() core.Reason { return core.ReasonPopularity }

// LeaderboardKey 返回某个域的热门榜 zset key。
func LeaderboardKey(domain core.Domain) string {
	return "popular:" + string(domain)
}

func (r *Popularity) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Recommendation, error) {
	if limit <= 0 {
		return nil, nil
	}

	overfetch := r.Overfetch
	if overfetch <= 0 {
		overfetch = 2
	}

	items, err := r.candidates(ctx, rctx, limit*overfetch)
	if err != nil {
		return nil, err
	}

	// 排序键：平均评分 desc -> 参与度 desc -> 价格 asc
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].AverageRating != items[j].AverageRating {
			return items[i].AverageRating > items[j].AverageRating
		}
		if items[i].Engagement != items[j].Engagement {
			return items[i].Engagement > items[j].Engagement
		}
		return items[i].Price < items[j].Price
	})

	survivors, err := filterByDateRange(ctx, r.Availability, rctx, items, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Recommendation, 0, len(survivors))
	for _, it := range survivors {
		rec := core.NewRecommendation(it.ID, scoreOf(it), core.ReasonPopularity, core.ConfidenceMedium)
		rec.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, rec)
	}
	return out, nil
}

// candidates 取候选物品：zset 快路径 + 仓储兜底。
// want 只约束 zset 路径的取数规模；仓储路径返回全量可用物品，
// 以保证日期过滤淘汰候选后仍有料可补。
func (r *Popularity) candidates(ctx context.Context, rctx *core.RecommendContext, want int) ([]*core.Item, error) {
	if r.Store != nil {
		members, err := r.Store.ZRange(ctx, LeaderboardKey(rctx.Domain), 0, int64(want)-1)
		if err == nil && len(members) >= want {
			items := make([]*core.Item, 0, len(members))
			for _, id := range members {
				it, err := r.Items.GetItem(ctx, rctx.Domain, id)
				if err != nil {
					if core.IsNotFound(err) {
						continue
					}
					return nil, err
				}
				if it.Available {
					items = append(items, it)
				}
			}
			if len(items) >= want {
				return items, nil
			}
		}
	}
	items, err := r.Items.ListAvailable(ctx, rctx.Domain, 0)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// filterByDateRange 先排序后过滤：从已排序候选里按序做可用性检查，
// 凑满 limit 即停，候选耗尽为止。无日期条件时直接截断。
func filterByDateRange(
	ctx context.Context,
	checker core.AvailabilityChecker,
	rctx *core.RecommendContext,
	sorted []*core.Item,
	limit int,
) ([]*core.Item, error) {
	if !rctx.HasDateRange() || checker == nil {
		if len(sorted) > limit {
			sorted = sorted[:limit]
		}
		return sorted, nil
	}

	out := make([]*core.Item, 0, limit)
	for _, it := range sorted {
		if len(out) >= limit {
			break
		}
		free, err := checker.IsFree(ctx, rctx.Domain, it.ID, rctx.CheckIn, rctx.CheckOut)
		if err != nil {
			return nil, err
		}
		if free {
			out = append(out, it)
		}
	}
	return out, nil
}

// scoreOf 物品有评分用评分，否则取中性默认分。
func scoreOf(it *core.Item) float64 {
	if it.AverageRating > 0 {
		return it.AverageRating
	}
	return core.DefaultScore
}
