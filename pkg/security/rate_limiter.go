package security

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	WindowSize  time.Duration `json:"window_size"`
	MaxRequests int64         `json:"max_requests"`
}

// RateLimitResult 限流结果
type RateLimitResult struct {
	Allowed    bool          `json:"allowed"`
	Remaining  int64         `json:"remaining"`
	ResetTime  time.Time     `json:"reset_time"`
	RetryAfter time.Duration `json:"retry_after"`
}

type Limiter interface {
	Allow(ctx context.Context, key string) (*RateLimitResult, error)
}

func result(cfg RateLimitConfig, now time.Time, count int64) *RateLimitResult {
	r := &RateLimitResult{
		Allowed:   count <= cfg.MaxRequests,
		Remaining: max(cfg.MaxRequests-count, 0),
		ResetTime: now.Add(cfg.WindowSize),
	}
	if !r.Allowed {
		r.RetryAfter = cfg.WindowSize
	}
	return r
}

// SlidingWindowLimiter 滑动窗口限流, shared by every instance through Redis.
type SlidingWindowLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

func NewSlidingWindowLimiter(client *redis.Client, config RateLimitConfig) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{redis: client, config: config}
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (*RateLimitResult, error) {
	now := time.Now()
	windowStart := now.Add(-l.config.WindowSize)
	key = "ratelimit:" + key

	pipe := l.redis.TxPipeline()
	// 清理过期记录
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	// 添加当前请求
	pipe.ZAdd(ctx, key, &redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})
	// 计算当前窗口内的请求数
	countCmd := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, l.config.WindowSize+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limit pipeline")
	}
	return result(l.config, now, countCmd.Val()), nil
}

// LocalLimiter is the in-process sliding window used without Redis.
type LocalLimiter struct {
	mu     sync.Mutex
	config RateLimitConfig
	hits   map[string][]time.Time
	now    func() time.Time
}

func NewLocalLimiter(config RateLimitConfig) *LocalLimiter {
	return &LocalLimiter{config: config, hits: make(map[string][]time.Time), now: time.Now}
}

func (l *LocalLimiter) Allow(ctx context.Context, key string) (*RateLimitResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	windowStart := now.Add(-l.config.WindowSize)

	hits := l.hits[key]
	i := 0
	for i < len(hits) && !hits[i].After(windowStart) {
		i++
	}
	hits = append(hits[i:], now)
	l.hits[key] = hits
	return result(l.config, now, int64(len(hits))), nil
}
