package recall

import (
	"context"

	"github.com/rushteam/staykit/core"
)

// Source 表示一个候选生成器（热门/协同/内容）。
// 可以把它理解为"可并发 fan-out 的策略单元"：Blender 按配额并发调用，
// 每个源返回至多 limit 条带 reason 标记的推荐，不足不补。
type Source interface {
	Name() string
	Reason() core.Reason
	Recall(ctx context.Context, rctx *core.RecommendContext, limit int) ([]*core.Recommendation, error)
}
