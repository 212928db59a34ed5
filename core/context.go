package core

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"github.com/rushteam/staykit/pkg/utils"
)

// RecommendContext 承载一次推荐请求的用户/场景信息，贯穿整条链路透传。
// 影响生成结果的上下文维度全部参与缓存键指纹。
type RecommendContext struct {
	Domain Domain
	UserID string

	// Count 期望返回的推荐条数，<= 0 时取默认值
	Count int

	// 场景上下文（餐桌/房间域使用，菜品域留空）
	Occasion  string
	TimeSlot  string
	PartySize int
	GroupSize int
	CheckIn   time.Time
	CheckOut  time.Time

	// Params 其余请求级参数，对引擎核心不透明但参与指纹
	Params map[string]string

	// Profile 本次请求归纳出的偏好画像（缓存未命中时由引擎填入）
	Profile *PreferenceProfile

	// Labels 请求级标签，可驱动过滤规则
	Labels map[string]utils.Label
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// HasDateRange 判断是否携带了日期区间过滤条件。
func (rctx *RecommendContext) HasDateRange() bool {
	return !rctx.CheckIn.IsZero() && !rctx.CheckOut.IsZero()
}

// Fingerprint 计算上下文指纹：两个只差一个上下文字段的请求必须得到不同指纹。
func (rctx *RecommendContext) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "count=%d|occ=%s|slot=%s|party=%d|group=%d",
		rctx.Count, rctx.Occasion, rctx.TimeSlot, rctx.PartySize, rctx.GroupSize)
	if rctx.HasDateRange() {
		fmt.Fprintf(&b, "|in=%d|out=%d", rctx.CheckIn.Unix(), rctx.CheckOut.Unix())
	}
	if len(rctx.Params) > 0 {
		keys := make([]string, 0, len(rctx.Params))
		for k := range rctx.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "|%s=%s", k, rctx.Params[k])
		}
	}
	h := fnv.New64a()
	h.Write([]byte(b.String()))
	return fmt.Sprintf("%016x", h.Sum64())
}

// 餐桌域的场合与时段取值来自运营约定，未识别的输入归一到默认值。
var validOccasions = map[string]struct{}{
	"Romantic": {}, "Business": {}, "Family": {},
	"Friends": {}, "Celebration": {}, "Casual": {},
}

var validTimeSlots = map[string]struct{}{
	"Lunch": {}, "Early Dinner": {}, "Prime Dinner": {}, "Late Dinner": {},
}

var timeSlotAliases = map[string]string{
	"lunch":   "Lunch",
	"early":   "Early Dinner",
	"evening": "Prime Dinner",
	"prime":   "Prime Dinner",
	"late":    "Late Dinner",
	"dinner":  "Prime Dinner",
}

// NormalizeOccasion 把任意大小写的场合输入归一到白名单取值，未识别返回 Casual。
func NormalizeOccasion(occasion string) string {
	if occasion == "" {
		return "Casual"
	}
	normalized := strings.ToUpper(occasion[:1]) + strings.ToLower(occasion[1:])
	if _, ok := validOccasions[normalized]; ok {
		return normalized
	}
	return "Casual"
}

// NormalizePartySize 把就餐/入住人数约束到 1–20，未给出时取 2。
func NormalizePartySize(n int) int {
	if n <= 0 {
		return 2
	}
	if n > 20 {
		return 20
	}
	return n
}

// NormalizeTimeSlot 把时段别名归一到命名时段，未识别返回 Prime Dinner。
func NormalizeTimeSlot(slot string) string {
	if slot == "" {
		return "Prime Dinner"
	}
	if mapped, ok := timeSlotAliases[strings.ToLower(slot)]; ok {
		return mapped
	}
	if _, ok := validTimeSlots[slot]; ok {
		return slot
	}
	return "Prime Dinner"
}
