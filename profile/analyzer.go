// Package profile 把用户近期行为窗口归纳为偏好画像。
// 纯函数式：相同输入序列产出相同画像，累加可交换、并列打破可复现。
package profile

import (
	"github.com/rushteam/staykit/core"
)

// Analyzer 是偏好分析器。Dimensions 指定追踪的属性维度
// （菜品域：category/cuisine/spice_level，房间域：room_type/price_tier 等）。
type Analyzer struct {
	Dimensions []string
}

// NewAnalyzer 创建分析器。
func NewAnalyzer(dims []string) *Analyzer {
	return &Analyzer{Dimensions: dims}
}

// Analyze 对一个行为窗口做整体归纳。空窗口返回全零画像
// （TotalInteractions == 0，调用方据此识别新用户直接走热门）。
//
// items 是 itemID -> 物品 的查表，引用了物品的行为才会给对应维度的
// 直方图计一次数；查不到物品的行为只参与评分/均值统计。
func (a *Analyzer) Analyze(interactions []*core.Interaction, items map[string]*core.Item) *core.PreferenceProfile {
	p := core.NewPreferenceProfile(a.Dimensions)
	p.TotalInteractions = len(interactions)
	if len(interactions) == 0 {
		return p
	}

	var (
		totalRating, ratingCount       int
		totalGroupSize, groupSizeCount int
		totalDuration, durationCount   int
	)

	for _, in := range interactions {
		if in == nil {
			continue
		}
		if in.Rating >= 1 && in.Rating <= 5 {
			totalRating += in.Rating
			ratingCount++
			p.RatingDistribution[in.Rating]++
		}
		if in.GroupSize > 0 {
			totalGroupSize += in.GroupSize
			groupSizeCount++
		}
		if in.Duration > 0 {
			totalDuration += in.Duration
			durationCount++
		}

		item := items[in.ItemID]
		if item == nil {
			continue
		}
		for _, dim := range a.Dimensions {
			p.Histograms[dim].Incr(item.Attr(dim))
		}
	}

	// 均值统一走除零保护
	if ratingCount > 0 {
		p.AverageRating = float64(totalRating) / float64(ratingCount)
	}
	if groupSizeCount > 0 {
		p.AverageGroupSize = float64(totalGroupSize) / float64(groupSizeCount)
	}
	if durationCount > 0 {
		p.AverageDuration = float64(totalDuration) / float64(durationCount)
	}
	return p
}
