package core

// Histogram 是属性取值的计数直方图，同时记录每个取值的首次出现顺序。
// Top 的并列按首次出现顺序打破，保证同一输入序列下结果可复现。
type Histogram struct {
	Counts map[string]int `json:"counts"`
	Order  []string       `json:"order"` // 取值首次出现的顺序
}

// NewHistogram 创建空直方图。
func NewHistogram() *Histogram {
	return &Histogram{Counts: make(map[string]int)}
}

// Incr 累加一次取值出现。
func (h *Histogram) Incr(value string) {
	if value == "" {
		return
	}
	if h.Counts == nil {
		h.Counts = make(map[string]int)
	}
	if _, ok := h.Counts[value]; !ok {
		h.Order = append(h.Order, value)
	}
	h.Counts[value]++
}

// Top 返回计数最高的取值；并列时取首次出现更早的。空直方图返回 ("", false)。
func (h *Histogram) Top() (string, bool) {
	if h == nil || len(h.Counts) == 0 {
		return "", false
	}
	best := ""
	bestCount := 0
	for _, v := range h.Order {
		if c := h.Counts[v]; c > bestCount {
			best = v
			bestCount = c
		}
	}
	return best, bestCount > 0
}

// Len 返回不同取值的个数。
func (h *Histogram) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Counts)
}

// PreferenceProfile 是用户近期行为窗口的归纳结果。
// 派生数据：每次缓存未命中时整体重算替换，从不原地修改。
type PreferenceProfile struct {
	TotalInteractions  int                   `json:"total_interactions"`
	AverageRating      float64               `json:"average_rating"`
	RatingDistribution map[int]int           `json:"rating_distribution"`
	Histograms         map[string]*Histogram `json:"histograms"` // 维度名 -> 直方图
	AverageGroupSize   float64               `json:"average_group_size"`
	AverageDuration    float64               `json:"average_duration"`

	// Fallback 表示本次结果是生成失败后的热门兜底，错误仅供诊断，不上抛
	Fallback      bool   `json:"fallback,omitempty"`
	FallbackError string `json:"fallback_error,omitempty"`
}

// NewPreferenceProfile 创建一个所有计数归零的画像，并为每个追踪维度建好直方图。
func NewPreferenceProfile(dims []string) *PreferenceProfile {
	p := &PreferenceProfile{
		RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		Histograms:         make(map[string]*Histogram, len(dims)),
	}
	for _, d := range dims {
		p.Histograms[d] = NewHistogram()
	}
	return p
}

// IsNewUser 窗口内无任何行为即视为新用户，直接走热门推荐。
func (p *PreferenceProfile) IsNewUser() bool {
	return p == nil || p.TotalInteractions == 0
}

// TopValue 返回某维度计数最高的取值。
func (p *PreferenceProfile) TopValue(dim string) (string, bool) {
	if p == nil || p.Histograms == nil {
		return "", false
	}
	return p.Histograms[dim].Top()
}
