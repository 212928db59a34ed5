package filter

import (
	"context"

	"github.com/rushteam/staykit/core"
	"github.com/rushteam/staykit/pkg/dsl"
)

// Rule 是 CEL 表达式驱动的规则过滤器：表达式求值为 false 的候选被移除。
// 规则写在配置里，运营可按域调整而不改代码，例如：
//
//	rules:
//	  - 'item.capacity == 0 || item.capacity >= rctx.party_size'
//	  - '!(rctx.occasion == "Business" && item.ambiance == "Lively")'
type Rule struct {
	// Expr CEL 表达式，对"保留"求值：false -> 过滤
	Expr string

	// Items 可选：提供后表达式可引用 item 字段
	Items core.ItemRepository
}

func (f *Rule) Name() string { return "filter.rule" }

func (f *Rule) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	rec *core.Recommendation,
) (bool, error) {
	if f.Expr == "" {
		return false, nil
	}
	var item *core.Item
	if f.Items != nil {
		it, err := f.Items.GetItem(ctx, rctx.Domain, rec.ItemID)
		if err == nil {
			item = it
		} else if !core.IsNotFound(err) {
			return false, err
		}
	}
	keep, err := dsl.NewEval(rec, item, rctx).Evaluate(f.Expr)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
