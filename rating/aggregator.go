// Package rating 维护物品的评分聚合统计与热度分数。
package rating

import (
	"context"
	"hash/fnv"
	"math"
	"sync"

	"github.com/rushteam/staykit/core"
	"github.com/rushteam/staykit/recall"
)

const shardCount = 64

// Aggregator 在每次评分行为后更新物品的平均分、评分次数与热度。
//
// 热度公式：popularity = avgRating * ln(totalRatings + 1)，
// 评分数的对数增益让"被很多人打 4 分"胜过"被一个人打 5 分"。
//
// 并发安全：同一物品的读-改-写序列经过分片锁串行化，
// 并发提交的评分不会互相覆盖。
type Aggregator struct {
	Items core.ItemRepository

	// Store 可选：提供后把热度同步写入热门榜 zset
	Store core.KeyValueStore

	locks [shardCount]sync.Mutex
}

func NewAggregator(items core.ItemRepository) *Aggregator {
	return &Aggregator{Items: items}
}

// UpdateRating 把一次评分并入物品统计。物品不存在时静默忽略
// （评分行为本身已落库，统计只对在架物品有意义）。
func (a *Aggregator) UpdateRating(ctx context.Context, domain core.Domain, itemID string, rating int) error {
	mu := a.lockFor(domain, itemID)
	mu.Lock()
	defer mu.Unlock()

	item, err := a.Items.GetItem(ctx, domain, itemID)
	if err != nil {
		if core.IsNotFound(err) {
			return nil
		}
		return err
	}

	total := item.TotalRatings + 1
	avg := round2((item.AverageRating*float64(item.TotalRatings) + float64(rating)) / float64(total))
	popularity := avg * math.Log(float64(total)+1)

	if err := a.Items.UpdateRatingStats(ctx, domain, itemID, avg, total, popularity); err != nil {
		return err
	}

	if a.Store != nil {
		// 热门榜写入尽力而为，失败不影响统计本身
		_ = a.Store.ZAdd(ctx, recall.LeaderboardKey(domain), popularity, itemID)
	}
	return nil
}

func (a *Aggregator) lockFor(domain core.Domain, itemID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(domain))
	h.Write([]byte{':'})
	h.Write([]byte(itemID))
	return &a.locks[h.Sum32()%shardCount]
}

// round2 四舍五入到两位小数，评分均值对外展示用这个精度。
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
