package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quizarena/internal/config"
	"quizarena/internal/models"
	"quizarena/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Cache key prefixes. Keys are namespaced so a shared redis instance can be
// flushed per concern.
const (
	cacheKeyUserState   = "quiz:user_state:%s"
	cacheKeyUserMetrics = "quiz:metrics:%s"
	cacheKeyPool        = "quiz:pool:%d"
	cacheKeyLeaderboard = "quiz:leaderboard:%s:%d"

	leaderboardKeyPattern = "quiz:leaderboard:*"
)

// QuizCacheInterface is the read-through cache in front of the durable stores.
// The cache is strictly best-effort: a miss and a cache failure look the same
// to callers, and writes never fail the request.
type QuizCacheInterface interface {
	GetUserState(ctx context.Context, userID string) (*models.UserState, bool)
	SetUserState(ctx context.Context, state *models.UserState)
	InvalidateUserState(ctx context.Context, userID string)

	GetUserMetrics(ctx context.Context, userID string) (*models.UserMetrics, bool)
	SetUserMetrics(ctx context.Context, userID string, metrics *models.UserMetrics)
	InvalidateUserMetrics(ctx context.Context, userID string)

	GetQuestionPool(ctx context.Context, difficulty int) ([]models.Question, bool)
	SetQuestionPool(ctx context.Context, difficulty int, questions []models.Question)

	GetLeaderboard(ctx context.Context, kind models.LeaderboardKind, limit int) (*models.Leaderboard, bool)
	SetLeaderboard(ctx context.Context, kind models.LeaderboardKind, limit int, board *models.Leaderboard)
	InvalidateLeaderboards(ctx context.Context)

	Close() error
}

// RedisQuizCache implements QuizCacheInterface on redis.
type RedisQuizCache struct {
	client *redis.Client
	logger *observability.Logger
}

// NewRedisQuizCache connects to redis using the given config. The connection
// is not probed here; individual operations degrade to misses on failure.
func NewRedisQuizCache(cfg *config.RedisConfig, logger *observability.Logger) *RedisQuizCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisQuizCache{client: client, logger: logger}
}

// NewQuizCache returns the redis cache when enabled, otherwise a no-op cache.
func NewQuizCache(cfg *config.RedisConfig, logger *observability.Logger) QuizCacheInterface {
	if cfg == nil || !cfg.Enabled {
		return &NoopQuizCache{}
	}
	return NewRedisQuizCache(cfg, logger)
}

func (c *RedisQuizCache) getJSON(ctx context.Context, key string, dest interface{}) bool {
	ctx, span := observability.TraceCacheFunction(ctx, "get")
	defer observability.FinishSpan(span, nil)

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn(ctx, "Cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn(ctx, "Cache entry corrupt, dropping", map[string]interface{}{"key": key, "error": err.Error()})
		c.client.Del(ctx, key)
		return false
	}
	return true
}

func (c *RedisQuizCache) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	ctx, span := observability.TraceCacheFunction(ctx, "set")
	defer observability.FinishSpan(span, nil)

	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn(ctx, "Cache marshal failed", map[string]interface{}{"key": key, "error": err.Error()})
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.logger.Warn(ctx, "Cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (c *RedisQuizCache) del(ctx context.Context, keys ...string) {
	ctx, span := observability.TraceCacheFunction(ctx, "del")
	defer observability.FinishSpan(span, nil)

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn(ctx, "Cache invalidation failed", map[string]interface{}{"keys": keys, "error": err.Error()})
	}
}

// GetUserState returns the cached state for the user, if present.
func (c *RedisQuizCache) GetUserState(ctx context.Context, userID string) (*models.UserState, bool) {
	var state models.UserState
	if !c.getJSON(ctx, fmt.Sprintf(cacheKeyUserState, userID), &state) {
		return nil, false
	}
	return &state, true
}

// SetUserState caches the user's state.
func (c *RedisQuizCache) SetUserState(ctx context.Context, state *models.UserState) {
	c.setJSON(ctx, fmt.Sprintf(cacheKeyUserState, state.UserID), state, config.CacheTTLUserState)
}

// InvalidateUserState drops the cached state for the user.
func (c *RedisQuizCache) InvalidateUserState(ctx context.Context, userID string) {
	c.del(ctx, fmt.Sprintf(cacheKeyUserState, userID))
}

// GetUserMetrics returns the cached metrics view for the user, if present.
func (c *RedisQuizCache) GetUserMetrics(ctx context.Context, userID string) (*models.UserMetrics, bool) {
	var metrics models.UserMetrics
	if !c.getJSON(ctx, fmt.Sprintf(cacheKeyUserMetrics, userID), &metrics) {
		return nil, false
	}
	return &metrics, true
}

// SetUserMetrics caches the metrics view for the user.
func (c *RedisQuizCache) SetUserMetrics(ctx context.Context, userID string, metrics *models.UserMetrics) {
	c.setJSON(ctx, fmt.Sprintf(cacheKeyUserMetrics, userID), metrics, config.CacheTTLUserMetrics)
}

// InvalidateUserMetrics drops the cached metrics view for the user.
func (c *RedisQuizCache) InvalidateUserMetrics(ctx context.Context, userID string) {
	c.del(ctx, fmt.Sprintf(cacheKeyUserMetrics, userID))
}

// GetQuestionPool returns the cached question pool for a difficulty level.
func (c *RedisQuizCache) GetQuestionPool(ctx context.Context, difficulty int) ([]models.Question, bool) {
	var questions []models.Question
	if !c.getJSON(ctx, fmt.Sprintf(cacheKeyPool, difficulty), &questions) {
		return nil, false
	}
	return questions, true
}

// SetQuestionPool caches the question pool for a difficulty level.
func (c *RedisQuizCache) SetQuestionPool(ctx context.Context, difficulty int, questions []models.Question) {
	c.setJSON(ctx, fmt.Sprintf(cacheKeyPool, difficulty), questions, config.CacheTTLQuestionPool)
}

// GetLeaderboard returns a cached leaderboard page, if present.
func (c *RedisQuizCache) GetLeaderboard(ctx context.Context, kind models.LeaderboardKind, limit int) (*models.Leaderboard, bool) {
	var board models.Leaderboard
	if !c.getJSON(ctx, fmt.Sprintf(cacheKeyLeaderboard, kind, limit), &board) {
		return nil, false
	}
	return &board, true
}

// SetLeaderboard caches a leaderboard page.
func (c *RedisQuizCache) SetLeaderboard(ctx context.Context, kind models.LeaderboardKind, limit int, board *models.Leaderboard) {
	c.setJSON(ctx, fmt.Sprintf(cacheKeyLeaderboard, kind, limit), board, config.CacheTTLLeaderboard)
}

// InvalidateLeaderboards drops every cached leaderboard page (both kinds, all
// page sizes).
func (c *RedisQuizCache) InvalidateLeaderboards(ctx context.Context) {
	ctx, span := observability.TraceCacheFunction(ctx, "invalidate_leaderboards")
	defer observability.FinishSpan(span, nil)

	iter := c.client.Scan(ctx, 0, leaderboardKeyPattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn(ctx, "Cache scan failed", map[string]interface{}{"pattern": leaderboardKeyPattern, "error": err.Error()})
		return
	}
	if len(keys) > 0 {
		c.del(ctx, keys...)
	}
}

// Close closes the underlying redis client.
func (c *RedisQuizCache) Close() error {
	return c.client.Close()
}

// NoopQuizCache is used when redis is disabled. Every read is a miss and every
// write is dropped.
type NoopQuizCache struct{}

// GetUserState always misses.
func (NoopQuizCache) GetUserState(context.Context, string) (*models.UserState, bool) {
	return nil, false
}

// SetUserState is a no-op.
func (NoopQuizCache) SetUserState(context.Context, *models.UserState) {}

// InvalidateUserState is a no-op.
func (NoopQuizCache) InvalidateUserState(context.Context, string) {}

// GetUserMetrics always misses.
func (NoopQuizCache) GetUserMetrics(context.Context, string) (*models.UserMetrics, bool) {
	return nil, false
}

// SetUserMetrics is a no-op.
func (NoopQuizCache) SetUserMetrics(context.Context, string, *models.UserMetrics) {}

// InvalidateUserMetrics is a no-op.
func (NoopQuizCache) InvalidateUserMetrics(context.Context, string) {}

// GetQuestionPool always misses.
func (NoopQuizCache) GetQuestionPool(context.Context, int) ([]models.Question, bool) {
	return nil, false
}

// SetQuestionPool is a no-op.
func (NoopQuizCache) SetQuestionPool(context.Context, int, []models.Question) {}

// GetLeaderboard always misses.
func (NoopQuizCache) GetLeaderboard(context.Context, models.LeaderboardKind, int) (*models.Leaderboard, bool) {
	return nil, false
}

// SetLeaderboard is a no-op.
func (NoopQuizCache) SetLeaderboard(context.Context, models.LeaderboardKind, int, *models.Leaderboard) {
}

// InvalidateLeaderboards is a no-op.
func (NoopQuizCache) InvalidateLeaderboards(context.Context) {}

// Close is a no-op.
func (NoopQuizCache) Close() error { return nil }
