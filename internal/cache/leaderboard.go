// Package cache provides the optional Redis layer for precomputed
// leaderboard rows and per-game statistics. Results are serialized as
// JSON under per-game keys with a TTL; any miss, decode failure or Redis
// error degrades to recomputing from the ledger.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/arcadehub/leaderboard-api/internal/models"
)

const (
	rowsKeyPrefix = "leaderboard:"
	gameStatsKey  = "gamestats"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arcade_leaderboard_cache_hits_total",
		Help: "Leaderboard cache lookups served from Redis",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arcade_leaderboard_cache_misses_total",
		Help: "Leaderboard cache lookups that fell through to the ledger",
	})
)

type Leaderboard struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, url string, ttl time.Duration, logger *zap.Logger) (*Leaderboard, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &Leaderboard{client: client, ttl: ttl, logger: logger.Sugar()}, nil
}

func (l *Leaderboard) GetRows(ctx context.Context, gameName string) ([]models.LeaderboardRow, bool) {
	var rows []models.LeaderboardRow
	if !l.get(ctx, rowsKeyPrefix+gameName, &rows) {
		return nil, false
	}
	return rows, true
}

func (l *Leaderboard) SetRows(ctx context.Context, gameName string, rows []models.LeaderboardRow) {
	l.set(ctx, rowsKeyPrefix+gameName, rows)
}

func (l *Leaderboard) GetGameStats(ctx context.Context) ([]models.GameStats, bool) {
	var stats []models.GameStats
	if !l.get(ctx, gameStatsKey, &stats) {
		return nil, false
	}
	return stats, true
}

func (l *Leaderboard) SetGameStats(ctx context.Context, stats []models.GameStats) {
	l.set(ctx, gameStatsKey, stats)
}

func (l *Leaderboard) InvalidateGame(ctx context.Context, gameName string) {
	if err := l.client.Del(ctx, rowsKeyPrefix+gameName, gameStatsKey).Err(); err != nil {
		l.logger.Warnw("cache invalidation failed", "game", gameName, "error", err)
	}
}

func (l *Leaderboard) get(ctx context.Context, key string, out any) bool {
	data, err := l.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		cacheMisses.Inc()
		return false
	}
	if err != nil {
		l.logger.Warnw("cache read failed", "key", key, "error", err)
		cacheMisses.Inc()
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		l.logger.Warnw("cache entry corrupt, treating as miss", "key", key, "error", err)
		cacheMisses.Inc()
		return false
	}
	cacheHits.Inc()
	return true
}

func (l *Leaderboard) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		l.logger.Warnw("cache encode failed", "key", key, "error", err)
		return
	}
	if err := l.client.Set(ctx, key, data, l.ttl).Err(); err != nil {
		l.logger.Warnw("cache write failed", "key", key, "error", err)
	}
}

func (l *Leaderboard) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

func (l *Leaderboard) Close() error {
	return l.client.Close()
}
