package pipeline

import (
	"context"

	"github.com/rushteam/staykit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall      Kind = "recall"      // 召回/混合阶段：生成候选推荐
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不符合业务约束的候选
	KindReRank      Kind = "rerank"      // 重排阶段：截断并赋 rank
	KindPostProcess Kind = "postprocess" // 后处理阶段：最终结果修饰
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"输入 recommendations -> 输出 recommendations"的形态，
// 混合生成、过滤、截断赋 rank 都以同一形态插拔。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		recs []*core.Recommendation,
	) ([]*core.Recommendation, error)
}
