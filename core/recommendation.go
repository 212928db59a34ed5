package core

import "github.com/rushteam/staykit/pkg/utils"

// Reason 标记一条推荐来自哪个候选源。
type Reason string

const (
	ReasonPopularity    Reason = "popularity"
	ReasonCollaborative Reason = "collaborative_filtering"
	ReasonContentBased  Reason = "content_based"
)

// Confidence 是粗粒度的置信标签，不是标定过的概率。
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// DefaultScore 是物品尚无评分时的中性默认分。
const DefaultScore = 3.5

// Recommendation 是一次 blend 的输出单元。
// 只持有 ItemID 引用，物品明细在展示边界再行 join，
// 不把物品字段平铺进推荐对象。
type Recommendation struct {
	ItemID     string     `json:"item_id"`
	Score      float64    `json:"score"`
	Reason     Reason     `json:"reason"`
	Confidence Confidence `json:"confidence"`
	Rank       int        `json:"rank"`

	// Labels 可解释性标签：候选源、兜底标记、过滤诊断等
	Labels map[string]utils.Label `json:"labels,omitempty"`
}

// NewRecommendation 创建一条推荐。
func NewRecommendation(itemID string, score float64, reason Reason, conf Confidence) *Recommendation {
	return &Recommendation{
		ItemID:     itemID,
		Score:      score,
		Reason:     reason,
		Confidence: conf,
		Labels:     make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (r *Recommendation) PutLabel(key string, lbl utils.Label) {
	if r.Labels == nil {
		r.Labels = make(map[string]utils.Label)
	}
	if old, ok := r.Labels[key]; ok {
		r.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	r.Labels[key] = lbl
}

// GetLabel 获取 Label。
func (r *Recommendation) GetLabel(key string) (utils.Label, bool) {
	if r.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := r.Labels[key]
	return lbl, ok
}
