// Package engine 把画像、召回、过滤、缓存与评分聚合装配成一个可注入的
// 推荐引擎实例。每个域（菜品/房间/餐桌）一个 Engine，显式构造、显式装载，
// 不依赖包级单例。
package engine

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/rushteam/staykit/cache"
	"github.com/rushteam/staykit/core"
	"github.com/rushteam/staykit/feast"
	"github.com/rushteam/staykit/pipeline"
	"github.com/rushteam/staykit/profile"
	"github.com/rushteam/staykit/rating"
	"github.com/rushteam/staykit/recall"
)

// DefaultWindowDays 偏好画像的行为时间窗。
const DefaultWindowDays = 30

// Engine 是单个域的推荐引擎。所有依赖显式注入，Load 之后只读。
type Engine struct {
	Domain core.Domain

	Items        core.ItemRepository
	Interactions core.InteractionRepository

	// Pipeline 生成链路：混合召回 -> 过滤 -> TopN
	Pipeline *pipeline.Pipeline

	// Popularity 独立的热门源，服务 Popular 接口与测试场景
	Popularity recall.Source

	Analyzer   *profile.Analyzer
	Cache      *cache.Cache
	Aggregator *rating.Aggregator

	// Profiles 可选：Feast 离线画像温启动，行为窗口为空时先查它
	Profiles *feast.ProfileProvider

	// WindowDays 行为时间窗（天），零值取 DefaultWindowDays
	WindowDays int

	Clock  core.Clock
	Logger *zap.Logger

	// group 把同一缓存键的并发未命中合并为一次生成
	group singleflight.Group

	ready bool
}

// Result 是一次推荐调用的完整产出。
type Result struct {
	Recommendations []*core.Recommendation  `json:"recommendations"`
	Preferences     *core.PreferenceProfile `json:"preferences,omitempty"`
	Cached          bool                    `json:"cached"`
	Fallback        bool                    `json:"fallback,omitempty"`
	GeneratedAt     time.Time               `json:"generated_at"`
}

// Load 校验装配完整性并把引擎标记为就绪。幂等。
func (e *Engine) Load(ctx context.Context) error {
	if e.Items == nil || e.Interactions == nil {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInternal, "engine: repositories not wired")
	}
	if e.Pipeline == nil || len(e.Pipeline.Nodes) == 0 {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInternal, "engine: pipeline not wired")
	}
	if e.Analyzer == nil {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInternal, "engine: analyzer not wired")
	}
	if e.Clock == nil {
		e.Clock = core.SystemClock{}
	}
	if e.Logger == nil {
		e.Logger = zap.NewNop()
	}
	e.ready = true
	e.Logger.Info("engine loaded",
		zap.String("domain", string(e.Domain)),
		zap.Int("window_days", e.windowDays()))
	return nil
}

// IsReady 报告引擎是否完成装载。
func (e *Engine) IsReady() bool { return e.ready }

func (e *Engine) windowDays() int {
	if e.WindowDays > 0 {
		return e.WindowDays
	}
	return DefaultWindowDays
}

// RecordInteraction 写入一条用户行为并触发联动统计。
// 返回落库后的记录（补全了 ID 与时间戳）。
//
// 联动都是尽力而为：评分聚合或参与度计数失败只记日志，
// 行为流水本身已写入即视为成功。
func (e *Engine) RecordInteraction(ctx context.Context, in *core.Interaction) (*core.Interaction, error) {
	if !e.ready {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInternal, "engine not loaded")
	}
	in.Domain = e.Domain
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = e.Clock.Now()
	}

	if err := e.Interactions.Append(ctx, in); err != nil {
		return nil, core.NewStorageError(core.ModuleEngine, err)
	}

	switch in.Type {
	case core.InteractionRating:
		if e.Aggregator != nil {
			if err := e.Aggregator.UpdateRating(ctx, e.Domain, in.ItemID, in.Rating); err != nil {
				e.Logger.Warn("rating aggregation failed",
					zap.String("item_id", in.ItemID), zap.Error(err))
			}
		}
	case core.InteractionOrder, core.InteractionBooking:
		if err := e.Items.IncrEngagement(ctx, e.Domain, in.ItemID); err != nil && !core.IsNotFound(err) {
			e.Logger.Warn("engagement bump failed",
				zap.String("item_id", in.ItemID), zap.Error(err))
		}
	}
	return in, nil
}

// Recommend 执行一次推荐：缓存命中直接返回，未命中走完整生成链路。
// 同一（域, 用户, 上下文）的并发未命中被合并为一次生成。
func (e *Engine) Recommend(ctx context.Context, rctx *core.RecommendContext) (*Result, error) {
	if !e.ready {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInternal, "engine not loaded")
	}
	if rctx.UserID == "" {
		return nil, core.NewValidationError(core.ModuleEngine, "user_id is required")
	}
	rctx.Domain = e.Domain
	if rctx.Count <= 0 {
		rctx.Count = recall.DefaultCount
	}

	key := cache.Key(e.Domain, rctx.UserID, rctx)
	v, err, _ := e.group.Do(key, func() (interface{}, error) {
		return e.recommendOnce(ctx, rctx, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func (e *Engine) recommendOnce(ctx context.Context, rctx *core.RecommendContext, key string) (*Result, error) {
	if e.Cache != nil {
		if entry, ok := e.Cache.Get(ctx, key); ok {
			return &Result{
				Recommendations: entry.Recommendations,
				Preferences:     entry.Preferences,
				Cached:          true,
				Fallback:        entry.Preferences != nil && entry.Preferences.Fallback,
				GeneratedAt:     entry.GeneratedAt,
			}, nil
		}
	}

	prof, err := e.buildProfile(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	rctx.Profile = prof

	recs, err := e.Pipeline.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	now := e.Clock.Now()
	if e.Cache != nil {
		entry := &cache.Entry{Recommendations: recs, Preferences: prof, GeneratedAt: now}
		if err := e.Cache.Put(ctx, key, entry); err != nil {
			e.Logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return &Result{
		Recommendations: recs,
		Preferences:     prof,
		Fallback:        prof.Fallback,
		GeneratedAt:     now,
	}, nil
}

// buildProfile 拉取行为窗口并归纳画像；窗口为空且配置了 Feast 时
// 用离线画像温启动。
func (e *Engine) buildProfile(ctx context.Context, userID string) (*core.PreferenceProfile, error) {
	since := e.Clock.Now().AddDate(0, 0, -e.windowDays())
	interactions, err := e.Interactions.ListByUser(ctx, e.Domain, userID, since)
	if err != nil {
		return nil, core.NewStorageError(core.ModuleEngine, err)
	}

	if len(interactions) == 0 && e.Profiles != nil {
		if warm, err := e.Profiles.FetchProfile(ctx, userID); err == nil && !warm.IsNewUser() {
			return warm, nil
		} else if err != nil {
			e.Logger.Debug("offline profile unavailable",
				zap.String("user_id", userID), zap.Error(err))
		}
	}

	items := make(map[string]*core.Item)
	for _, in := range interactions {
		if _, ok := items[in.ItemID]; ok {
			continue
		}
		item, err := e.Items.GetItem(ctx, e.Domain, in.ItemID)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, core.NewStorageError(core.ModuleEngine, err)
		}
		items[in.ItemID] = item
	}
	return e.Analyzer.Analyze(interactions, items), nil
}

// Popular 返回全域热门榜（不看用户画像，匿名场景用）。
func (e *Engine) Popular(ctx context.Context, rctx *core.RecommendContext) ([]*core.Recommendation, error) {
	if !e.ready {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInternal, "engine not loaded")
	}
	rctx.Domain = e.Domain
	count := rctx.Count
	if count <= 0 {
		count = recall.DefaultCount
	}
	recs, err := e.Popularity.Recall(ctx, rctx, count)
	if err != nil {
		return nil, err
	}
	for i, rec := range recs {
		rec.Rank = i + 1
	}
	return recs, nil
}

// History 是一次用户行为回放：时间窗内的行为（新在前）加当前画像。
type History struct {
	Interactions []*core.Interaction     `json:"interactions"`
	Preferences  *core.PreferenceProfile `json:"preferences"`
	WindowDays   int                     `json:"window_days"`
}

// UserHistory 返回某用户最近 days 天内的行为与画像；days <= 0 时
// 退回引擎配置的时间窗。
func (e *Engine) UserHistory(ctx context.Context, userID string, days int) (*History, error) {
	if !e.ready {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInternal, "engine not loaded")
	}
	if userID == "" {
		return nil, core.NewValidationError(core.ModuleEngine, "user_id is required")
	}
	if days <= 0 {
		days = e.windowDays()
	}
	prof, err := e.buildProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	since := e.Clock.Now().AddDate(0, 0, -days)
	interactions, err := e.Interactions.ListByUser(ctx, e.Domain, userID, since)
	if err != nil {
		return nil, core.NewStorageError(core.ModuleEngine, err)
	}
	// 新在前
	for i, j := 0, len(interactions)-1; i < j; i, j = i+1, j-1 {
		interactions[i], interactions[j] = interactions[j], interactions[i]
	}
	return &History{
		Interactions: interactions,
		Preferences:  prof,
		WindowDays:   days,
	}, nil
}

// Analytics 是全域行为的只读聚合。
type Analytics struct {
	TotalInteractions  int            `json:"total_interactions"`
	UniqueUsers        int            `json:"unique_users"`
	AvgPerUser         float64        `json:"avg_interactions_per_user"`
	InteractionsByUser map[string]int `json:"interactions_by_user"`
}

// Stats 统计当前域的行为总量与人均行为数（保留两位小数）。
func (e *Engine) Stats(ctx context.Context) (*Analytics, error) {
	if !e.ready {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInternal, "engine not loaded")
	}
	counts, err := e.Interactions.CountByUser(ctx, e.Domain)
	if err != nil {
		return nil, core.NewStorageError(core.ModuleEngine, err)
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	a := &Analytics{
		TotalInteractions:  total,
		UniqueUsers:        len(counts),
		InteractionsByUser: counts,
	}
	if a.UniqueUsers > 0 {
		a.AvgPerUser = math.Round(float64(total)/float64(a.UniqueUsers)*100) / 100
	}
	return a, nil
}
