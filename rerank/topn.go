package rerank

import (
	"context"

	"github.com/rushteam/staykit/core"
	"github.com/rushteam/staykit/pipeline"
)

// TopN 是截断赋序节点：把上游（混合、过滤后）的候选截断到请求条数，
// 并按最终存活顺序赋 rank 1..N。
//
// rank 必须是严格递增的 1 起始序列，与列表顺序一致——这是对外契约，
// 所以赋 rank 放在所有会增删元素的节点之后。
type TopN struct {
	// N 要保留的条数；<= 0 时取 rctx.Count（再缺省到 recall.DefaultCount 由上游保证）
	N int
}

func (n *TopN) Name() string        { return "rerank.topn" }
func (n *TopN) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopN) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	recs []*core.Recommendation,
) ([]*core.Recommendation, error) {
	limit := n.N
	if limit <= 0 {
		limit = rctx.Count
	}
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	for i, rec := range recs {
		rec.Rank = i + 1
	}
	return recs, nil
}
