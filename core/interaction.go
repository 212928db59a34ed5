package core

import "time"

// InteractionType 是用户行为的类型枚举。
type InteractionType string

const (
	InteractionView     InteractionType = "view"
	InteractionOrder    InteractionType = "order"
	InteractionBooking  InteractionType = "booking"
	InteractionRating   InteractionType = "rating"
	InteractionFavorite InteractionType = "favorite"
	InteractionInquiry  InteractionType = "inquiry"
)

// Valid 检查类型是否为已识别的枚举值。
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionView, InteractionOrder, InteractionBooking,
		InteractionRating, InteractionFavorite, InteractionInquiry:
		return true
	}
	return false
}

// Interaction 是一次用户对物品的行为记录，写入后不可变。
// 偏好计算只消费最近窗口（默认 30 天）内的记录，更旧的记录是否删除是外部保留策略。
type Interaction struct {
	ID     string          `json:"id"`
	Domain Domain          `json:"domain"`
	UserID string          `json:"user_id"`
	ItemID string          `json:"item_id"`
	Type   InteractionType `json:"interaction_type"`

	// Rating 仅 rating 类型使用，1–5
	Rating int `json:"rating,omitempty"`

	// Weight 无显式评分时协同打分的权重（点击次数、时长等）
	Weight float64 `json:"weight,omitempty"`

	// 领域上下文：就餐人数/入住人数、时长（天或分钟）、场合等。
	// GroupSize 与 Duration 参与偏好画像的均值统计，其余对引擎核心不透明。
	GroupSize int               `json:"group_size,omitempty"`
	Duration  int               `json:"duration,omitempty"`
	Context   map[string]string `json:"context,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// Validate 校验一条待写入的行为记录。
func (in *Interaction) Validate() error {
	if in.UserID == "" {
		return NewValidationError(ModuleEngine, "user_id is required")
	}
	if in.ItemID == "" {
		return NewValidationError(ModuleEngine, "item_id is required")
	}
	if !in.Type.Valid() {
		return NewValidationError(ModuleEngine, "unrecognized interaction type: "+string(in.Type))
	}
	if in.Type == InteractionRating && (in.Rating < 1 || in.Rating > 5) {
		return NewValidationError(ModuleEngine, "rating must be an integer between 1 and 5")
	}
	return nil
}
