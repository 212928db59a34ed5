// Package dsl 提供基于 CEL (Common Expression Language) 的规则解释器，
// 用于配置驱动的候选过滤规则。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/staykit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("rec", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
}

func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 对一条候选求值规则表达式。
//
// 表达式语法（CEL 标准语法）示例：
//   - `item.capacity >= rctx.party_size`
//   - `item.price_tier == "Luxury" && rctx.occasion != "Celebration"`
//   - `rec.reason == "popularity" && rec.score < 3.0`
//   - `label.fallback != "true"`
type Eval struct {
	item *core.Item
	rec  *core.Recommendation
	rctx *core.RecommendContext
	env  *cel.Env
}

// NewEval 创建解释器。item 允许为 nil（表达式里 item 字段取零值）。
func NewEval(rec *core.Recommendation, item *core.Item, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{item: item, rec: rec, rctx: rctx, env: env}
}

// Evaluate 编译并执行表达式，返回布尔结果。空表达式恒为 true。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env not initialized")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据。
func (e *Eval) buildInput() map[string]interface{} {
	itemMap := map[string]interface{}{}
	if e.item != nil {
		itemMap = map[string]interface{}{
			"id":             e.item.ID,
			"price":          e.item.Price,
			"capacity":       e.item.Capacity,
			"available":      e.item.Available,
			"average_rating": e.item.AverageRating,
			"total_ratings":  e.item.TotalRatings,
			"price_tier":     string(core.PriceTierOf(e.item.Price)),
		}
		for k, v := range e.item.Attrs {
			itemMap[k] = v
		}
	}

	recMap := map[string]interface{}{}
	labelMap := map[string]interface{}{}
	if e.rec != nil {
		recMap = map[string]interface{}{
			"item_id":    e.rec.ItemID,
			"score":      e.rec.Score,
			"reason":     string(e.rec.Reason),
			"confidence": string(e.rec.Confidence),
			"rank":       e.rec.Rank,
		}
		for k, lbl := range e.rec.Labels {
			labelMap[k] = lbl.Value
		}
	}

	rctxMap := map[string]interface{}{}
	if e.rctx != nil {
		rctxMap = map[string]interface{}{
			"user_id":    e.rctx.UserID,
			"domain":     string(e.rctx.Domain),
			"occasion":   e.rctx.Occasion,
			"time_slot":  e.rctx.TimeSlot,
			"party_size": e.rctx.PartySize,
			"group_size": e.rctx.GroupSize,
		}
	}

	return map[string]interface{}{
		"item":  itemMap,
		"rec":   recMap,
		"label": labelMap,
		"rctx":  rctxMap,
	}
}
