package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/thilan/bookshop/internal/infrastructure/config"
	"github.com/thilan/bookshop/pkg/circuitbreaker"
	"github.com/thilan/bookshop/pkg/metrics"
)

// CacheStore Redis旁路缓存(Cache-Aside)
// 设计说明:
// 1. 缓存永远不是权威数据源:未命中或出错时调用方直查数据库
// 2. 写路径按key前缀失效缓存,不更新缓存(避免并发不一致)
// 3. 熔断器保护:Redis故障时快速降级为缓存未命中,
//    不让每次读请求都等连接超时
// 4. 命中/未命中计数同时进Prometheus和本地计数器(/performance接口读取)
type CacheStore struct {
	client    *redis.Client
	breaker   *circuitbreaker.CircuitBreaker
	keyPrefix string
	detailTTL time.Duration
	listTTL   time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCacheStore 创建缓存存储
func NewCacheStore(client *redis.Client, cfg config.CacheConfig) *CacheStore {
	cb := circuitbreaker.NewCircuitBreaker("redis-cache", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		zap.L().Warn("缓存熔断器状态变化",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()))
		metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
	})

	return &CacheStore{
		client:    client,
		breaker:   cb,
		keyPrefix: cfg.KeyPrefix,
		detailTTL: cfg.DetailTTL,
		listTTL:   cfg.ListTTL,
	}
}

// DetailTTL 详情缓存过期时间
func (c *CacheStore) DetailTTL() time.Duration { return c.detailTTL }

// ListTTL 列表缓存过期时间
func (c *CacheStore) ListTTL() time.Duration { return c.listTTL }

// Key 生成带业务前缀的缓存key
// 格式:{prefix}:{parts[0]}:{parts[1]}...
func (c *CacheStore) Key(parts ...interface{}) string {
	key := c.keyPrefix
	for _, p := range parts {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}

// Get 读取缓存并反序列化到dest
// 返回是否命中。Redis故障或熔断器打开时按未命中处理,不返回错误。
func (c *CacheStore) Get(ctx context.Context, key string, dest interface{}) bool {
	var val string
	err := c.breaker.Execute(func() error {
		v, err := c.client.Get(ctx, key).Result()
		if err != nil {
			return err
		}
		val = v
		return nil
	})

	if err != nil {
		c.miss()
		if err != redis.Nil && err != circuitbreaker.ErrOpenState {
			zap.L().Warn("读取缓存失败", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		c.miss()
		zap.L().Warn("缓存反序列化失败", zap.String("key", key), zap.Error(err))
		return false
	}

	c.hit()
	return true
}

// Set 序列化并写入缓存
// 写入失败只记日志,不影响调用方。
func (c *CacheStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	val, err := json.Marshal(value)
	if err != nil {
		zap.L().Warn("缓存序列化失败", zap.String("key", key), zap.Error(err))
		return
	}

	err = c.breaker.Execute(func() error {
		return c.client.Set(ctx, key, val, ttl).Err()
	})
	if err != nil && err != circuitbreaker.ErrOpenState {
		zap.L().Warn("写入缓存失败", zap.String("key", key), zap.Error(err))
	}
}

// Delete 删除指定缓存key
func (c *CacheStore) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	err := c.breaker.Execute(func() error {
		return c.client.Del(ctx, keys...).Err()
	})
	if err != nil && err != circuitbreaker.ErrOpenState {
		zap.L().Warn("删除缓存失败", zap.Strings("keys", keys), zap.Error(err))
	}
}

// DeletePattern 按模式批量失效缓存
// 使用SCAN遍历匹配的key,UNLINK异步删除(不阻塞Redis)。
// 写路径(图书更新、借阅单创建等)调用,失效对应的列表缓存。
func (c *CacheStore) DeletePattern(ctx context.Context, pattern string) {
	err := c.breaker.Execute(func() error {
		iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()

		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}

		if len(keys) > 0 {
			return c.client.Unlink(ctx, keys...).Err()
		}
		return nil
	})
	if err != nil && err != circuitbreaker.ErrOpenState {
		zap.L().Warn("按模式删除缓存失败", zap.String("pattern", pattern), zap.Error(err))
	}
}

// Clear 清空本业务前缀下的全部缓存(/performance清理操作)
func (c *CacheStore) Clear(ctx context.Context) {
	c.DeletePattern(ctx, c.keyPrefix+":*")
	c.hits.Store(0)
	c.misses.Store(0)
}

// CacheStats 缓存命中统计快照
type CacheStats struct {
	Hits         int64   `json:"hits"`
	Misses       int64   `json:"misses"`
	HitRate      float64 `json:"hit_rate"`
	BreakerState string  `json:"breaker_state"`
}

// Stats 返回命中统计与熔断器状态
func (c *CacheStore) Stats() CacheStats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	stats := CacheStats{
		Hits:         hits,
		Misses:       misses,
		BreakerState: c.breaker.State().String(),
	}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats
}

func (c *CacheStore) hit() {
	c.hits.Add(1)
	metrics.CacheHitsTotal.Inc()
}

func (c *CacheStore) miss() {
	c.misses.Add(1)
	metrics.CacheMissesTotal.Inc()
}
