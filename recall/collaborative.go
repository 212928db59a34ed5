package recall

import (
	"context"

	"github.com/rushteam/staykit/core"
	"github.com/rushteam/staykit/pkg/utils"
)

// Collaborative 是简化的协同候选源："其他用户高分认可的物品"。
//
// 相似用户的定义：除目标用户外、评分 >= MinRating 的 rating 行为，
// 或权重 >= MinRating 的非评分行为（预订/收藏等隐式认可，按权重计分）。
// 这不要求与目标用户自身的物品有交集，只取人群的高分信号——
// 更接近"全局口碑好且不是我打的分"，是对观测行为的忠实保留，
// 不做真正的 user-user 相似度计算。
//
// 单源内通过 seen-set 隐式去重，首次出现者胜；产出顺序由行为检索顺序
// 决定，调用方不应假设除"人群高分物品更易浮出"之外的稳定全序。
type Collaborative struct {
	Interactions core.InteractionRepository
	Items        core.ItemRepository

	// MinRating 高分阈值，默认 4
	MinRating int
}

func (r *Collaborative) Name() string        { return "recall.collaborative" }
func (r *Collaborative) Reason() core.Reason { return core.ReasonCollaborative }

func (r *Collaborative) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Recommendation, error) {
	if limit <= 0 {
		return nil, nil
	}

	minRating := r.MinRating
	if minRating <= 0 {
		minRating = 4
	}

	inters, err := r.Interactions.ListHighlyRated(ctx, rctx.Domain, rctx.UserID, minRating)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(inters))
	out := make([]*core.Recommendation, 0, limit)

	for _, in := range inters {
		if len(out) >= limit {
			break
		}
		if _, ok := seen[in.ItemID]; ok {
			continue
		}
		item, err := r.Items.GetItem(ctx, rctx.Domain, in.ItemID)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if !item.Available {
			continue
		}
		seen[in.ItemID] = struct{}{}

		score := float64(in.Rating)
		if in.Rating == 0 && in.Weight > 0 {
			score = in.Weight
		}
		rec := core.NewRecommendation(in.ItemID, score, core.ReasonCollaborative, core.ConfidenceHigh)
		rec.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, rec)
	}
	return out, nil
}
