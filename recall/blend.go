package recall

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/staykit/core"
	"github.com/rushteam/staykit/pipeline"
	"github.com/rushteam/staykit/pkg/utils"
)

// QuotaSource 给候选源附加配额比例。Blender 按 ceil(Ratio × count) 向源请求，
// 源各自独立返回，允许不足额。
type QuotaSource struct {
	Source Source
	Ratio  float64
}

// Blender 是混合 Node：并发执行多个候选源并按固定优先级合并。
//
//   - Sources 的顺序即去重优先级：拼接按该顺序进行，按 item_id 去重时
//     首次出现者胜，所以协同/内容候选天然压过同物品的热门候选。
//     优先级是显式参数，不靠调用方拼数组的隐式顺序。
//   - 新用户（画像零行为）直接整量走 Fallback 源，不触发其他源。
//   - 任一源失败或超时，整个请求降级为整量热门兜底并打 fallback 标记，
//     错误只进画像诊断字段，不上抛；只有兜底源自身也失败才返回错误。
//   - 每个源有独立超时（默认 2s），慢源不拖垮其他源。
//
// 产出未截断、未赋 rank：截断与 rank 由下游 rerank.TopN 完成。
type Blender struct {
	Sources  []QuotaSource
	Fallback Source

	// Timeout 每个候选源的超时时间，默认 2s
	Timeout time.Duration
}

func (n *Blender) Name() string        { return "recall.blend" }
func (n *Blender) Kind() pipeline.Kind { return pipeline.KindRecall }

// DefaultCount 未指定期望条数时的默认值。
const DefaultCount = 10

func (n *Blender) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Recommendation,
) ([]*core.Recommendation, error) {
	count := rctx.Count
	if count <= 0 {
		count = DefaultCount
	}

	// 新用户：整量热门，不做协同/内容调用
	if rctx.Profile.IsNewUser() {
		return n.fallback(ctx, rctx, count, nil)
	}

	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	// fan-out：结果按源的槽位落位，拼接顺序与 Sources 顺序一致，
	// 并发不影响最终序
	results := make([][]*core.Recommendation, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, qs := range n.Sources {
		slot, src, ratio := i, qs.Source, qs.Ratio
		eg.Go(func() error {
			quota := int(math.Ceil(ratio * float64(count)))
			if quota <= 0 {
				return nil
			}
			callCtx, cancel := context.WithTimeout(egCtx, timeout)
			defer cancel()

			recs, err := src.Recall(callCtx, rctx, quota)
			if err != nil {
				return err
			}
			results[slot] = recs
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		// 生成失败不是请求失败：整量热门兜底
		return n.fallback(ctx, rctx, count, err)
	}

	all := make([]*core.Recommendation, 0, count)
	for _, recs := range results {
		all = append(all, recs...)
	}
	return dedupFirst(all), nil
}

// fallback 整量走兜底源；err 非空时在画像与标签里留下诊断痕迹。
func (n *Blender) fallback(
	ctx context.Context,
	rctx *core.RecommendContext,
	count int,
	cause error,
) ([]*core.Recommendation, error) {
	recs, err := n.Fallback.Recall(ctx, rctx, count)
	if err != nil {
		// 兜底也失败才是真正的管线失败
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInternal,
			"recommendation pipeline failed: "+err.Error())
	}
	if cause != nil {
		if rctx.Profile != nil {
			rctx.Profile.Fallback = true
			rctx.Profile.FallbackError = cause.Error()
		}
		for _, rec := range recs {
			rec.PutLabel("fallback", utils.Label{Value: "true", Source: "blend"})
		}
	}
	return dedupFirst(recs), nil
}

// dedupFirst 按 item_id 去重，保留第一个出现的；后出现者的标签并入前者。
func dedupFirst(all []*core.Recommendation) []*core.Recommendation {
	seen := make(map[string]*core.Recommendation, len(all))
	out := make([]*core.Recommendation, 0, len(all))
	for _, rec := range all {
		if rec == nil {
			continue
		}
		if old, ok := seen[rec.ItemID]; ok {
			for k, v := range rec.Labels {
				old.PutLabel(k, v)
			}
			continue
		}
		seen[rec.ItemID] = rec
		out = append(out, rec)
	}
	return out
}
