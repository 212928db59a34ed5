package core

import (
	"context"
	"time"
)

// ItemRepository 是物品仓储的领域接口。
// 读物品属性/可用性，写评分统计；底层存储由基础设施层决定。
type ItemRepository interface {
	// GetItem 按 ID 读取物品，不存在返回 NOT_FOUND 领域错误
	GetItem(ctx context.Context, domain Domain, id string) (*Item, error)

	// ListAvailable 返回当前可用的物品，limit <= 0 表示全部。
	// 返回顺序对同一数据集稳定（候选排序由调用方负责）。
	ListAvailable(ctx context.Context, domain Domain, limit int) ([]*Item, error)

	// UpdateRatingStats 写入评分统计，仅 rating.Aggregator 调用
	UpdateRatingStats(ctx context.Context, domain Domain, id string, avg float64, total int, popularity float64) error

	// IncrEngagement 订单/预订成功后累加参与度计数
	IncrEngagement(ctx context.Context, domain Domain, id string) error
}

// InteractionRepository 是行为流水的仓储接口，追加写、按用户与时间窗查询。
type InteractionRepository interface {
	// Append 追加一条不可变的行为记录
	Append(ctx context.Context, in *Interaction) error

	// ListByUser 返回某用户自 since 以来的行为，按写入顺序（时间正序）
	ListByUser(ctx context.Context, domain Domain, userID string, since time.Time) ([]*Interaction, error)

	// ListHighlyRated 返回除 excludeUser 外的人群高信号行为，按写入顺序：
	// 评分 >= minRating 的 rating 行为，或权重 >= minRating 的非评分行为
	// （预订/收藏等隐式认可）。协同召回的数据面。
	ListHighlyRated(ctx context.Context, domain Domain, excludeUser string, minRating int) ([]*Interaction, error)

	// CountByUser 返回 用户ID -> 行为数，用于只读聚合分析
	CountByUser(ctx context.Context, domain Domain) (map[string]int, error)
}

// AvailabilityChecker 是日期区间可用性检查的外部协作接口。
// 预订重叠判定属于订房/订座域，引擎核心只在边界消费结果。
type AvailabilityChecker interface {
	IsFree(ctx context.Context, domain Domain, itemID string, checkIn, checkOut time.Time) (bool, error)
}

// Clock 抽象时钟，TTL 与时间窗计算都经由它，测试可注入假时钟。
type Clock interface {
	Now() time.Time
}

// SystemClock 使用系统时间。
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
