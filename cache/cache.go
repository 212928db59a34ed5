// Package cache 实现推荐结果缓存：同一（域, 用户, 上下文）的重复请求
// 在 TTL 内直接命中，不再重跑生成链路。
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rushteam/staykit/core"
)

// DefaultTTL 缓存有效期。
const DefaultTTL = time.Hour

// Entry 是缓存的值：一次完整的生成结果及其生成时刻。
type Entry struct {
	Recommendations []*core.Recommendation  `json:"recommendations"`
	Preferences     *core.PreferenceProfile `json:"preferences,omitempty"`
	GeneratedAt     time.Time               `json:"generated_at"`
}

// Cache 基于 core.Store 的推荐结果缓存。
//
// 失效策略：只看生成时刻 + TTL，读时判断；不做写入失效，
// 新行为在下一次过期前不影响已缓存的结果。
type Cache struct {
	Store core.Store

	// TTL 有效期，零值取 DefaultTTL
	TTL time.Duration

	// Clock 为空时用系统时钟
	Clock core.Clock
}

func New(store core.Store) *Cache {
	return &Cache{Store: store, TTL: DefaultTTL, Clock: core.SystemClock{}}
}

// Key 构造缓存键：域、用户加上下文指纹，任一上下文维度不同即不同键。
func Key(domain core.Domain, userID string, rctx *core.RecommendContext) string {
	return fmt.Sprintf("rec:%s:%s:%s", domain, userID, rctx.Fingerprint())
}

// Get 读取缓存。未命中（含过期、存储故障、解码失败）返回 (nil, false)，
// 缓存层的任何异常都退化为 miss，不向上传播。
func (c *Cache) Get(ctx context.Context, key string) (*Entry, bool) {
	if c.Store == nil {
		return nil, false
	}
	raw, err := c.Store.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	if c.expired(&entry) {
		return nil, false
	}
	return &entry, true
}

// Put 写入缓存，尽力而为：写失败不影响本次请求的结果。
func (c *Cache) Put(ctx context.Context, key string, entry *Entry) error {
	if c.Store == nil || entry == nil {
		return nil
	}
	if entry.GeneratedAt.IsZero() {
		entry.GeneratedAt = c.now()
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.Store.Set(ctx, key, raw)
}

// Invalidate 删除一个缓存键（运营工具用，正常链路不调用）。
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Delete(ctx, key)
}

func (c *Cache) expired(entry *Entry) bool {
	ttl := c.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return c.now().Sub(entry.GeneratedAt) > ttl
}

func (c *Cache) now() time.Time {
	if c.Clock != nil {
		return c.Clock.Now()
	}
	return time.Now()
}
