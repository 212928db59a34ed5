package core

// Domain 标识推荐引擎服务的物品域。三个域共享同一套引擎核心。
type Domain string

const (
	DomainMenu  Domain = "menu"  // 菜品
	DomainRoom  Domain = "room"  // 房间
	DomainTable Domain = "table" // 餐桌
)

// Item 是三个物品域的统一承载结构。
// 领域差异全部放进 Attrs（category / cuisine / room_type / ambiance 等），
// 引擎核心只认识价格、容量、可用性与评分统计。
type Item struct {
	ID        string  `json:"id"`
	Domain    Domain  `json:"domain"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Capacity  int     `json:"capacity,omitempty"`
	Available bool    `json:"available"`

	// Attrs 维度 -> 取值，由各域自行定义，引擎按配置的维度名读取
	Attrs map[string]string `json:"attrs,omitempty"`

	// 评分统计：仅由 rating.Aggregator 写入
	AverageRating   float64 `json:"average_rating"`
	TotalRatings    int     `json:"total_ratings"`
	PopularityScore float64 `json:"popularity_score"`

	// Engagement 订单/预订等参与度计数，热门排序的次级键
	Engagement int `json:"engagement"`
}

// NewItem 创建一个空物品。
func NewItem(domain Domain, id string) *Item {
	return &Item{
		ID:        id,
		Domain:    domain,
		Available: true,
		Attrs:     make(map[string]string),
	}
}

// Attr 读取领域属性；维度为 DimPriceTier 时由价格推导，未设置返回 ""。
func (it *Item) Attr(dim string) string {
	if dim == DimPriceTier {
		return string(PriceTierOf(it.Price))
	}
	if it.Attrs == nil {
		return ""
	}
	return it.Attrs[dim]
}

// Clone 返回物品的深拷贝，仓储实现用它避免并发读写共享同一实例。
func (it *Item) Clone() *Item {
	cp := *it
	if it.Attrs != nil {
		cp.Attrs = make(map[string]string, len(it.Attrs))
		for k, v := range it.Attrs {
			cp.Attrs[k] = v
		}
	}
	return &cp
}
