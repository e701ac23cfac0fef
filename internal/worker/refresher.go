// Package worker implements the background cache refresher: on a fixed
// interval it recomputes every game's leaderboard rows and the per-game
// statistics from the ledger and writes them into the cache, so display
// surfaces polling those views hit warm entries.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arcadehub/leaderboard-api/internal/logic"
	"github.com/arcadehub/leaderboard-api/internal/models"
	"github.com/arcadehub/leaderboard-api/internal/store"
)

var (
	refreshCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arcade_cache_refresh_cycles_total",
		Help: "Total number of completed cache refresh cycles",
	})
	refreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arcade_cache_refresh_failures_total",
		Help: "Total number of cache refresh cycles that hit an error",
	})
	refreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arcade_cache_refresh_duration_seconds",
		Help:    "Duration of a full cache refresh cycle",
		Buckets: prometheus.DefBuckets,
	})
)

// Config configures the refresher.
type Config struct {
	Interval time.Duration
	Store    store.Store
	Cache    logic.LeaderboardCache
	Logger   *zap.Logger
}

type Refresher struct {
	cfg    Config
	logger *zap.SugaredLogger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewRefresher(cfg Config) *Refresher {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	return &Refresher{cfg: cfg, logger: cfg.Logger.Sugar()}
}

// Start launches the refresh loop. Calling Start on a running refresher
// is a no-op.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true

	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	go r.run(ctx)

	r.logger.Infow("cache refresher started", "interval", r.cfg.Interval)
}

// Stop cancels the loop and waits for the in-flight cycle to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	cancel()
	<-done
	r.logger.Info("cache refresher stopped")
}

func (r *Refresher) run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	// Warm the cache immediately rather than waiting a full interval.
	r.refresh(ctx)

	for {
		select {
		case <-ticker.C:
			r.refresh(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// refresh recomputes every view in one cycle.
func (r *Refresher) refresh(ctx context.Context) {
	start := time.Now()

	var (
		events []models.ScoreEvent
		idents []models.Identity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = r.cfg.Store.AllScores(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		idents, err = r.cfg.Store.Identities(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		refreshFailures.Inc()
		r.logger.Errorw("cache refresh failed", "error", err)
		return
	}

	names := make(map[int64]string, len(idents))
	for _, ident := range idents {
		names[ident.ID] = ident.Username
	}

	byGame := make(map[string][]models.ScoreEvent)
	for _, ev := range events {
		byGame[ev.GameName] = append(byGame[ev.GameName], ev)
	}
	for game, gameEvents := range byGame {
		r.cfg.Cache.SetRows(ctx, game, logic.BestPerUserForGame(gameEvents, names))
	}
	r.cfg.Cache.SetGameStats(ctx, logic.PerGameStats(events))

	refreshCycles.Inc()
	refreshDuration.Observe(time.Since(start).Seconds())
	r.logger.Infow("cache refresh completed",
		"games", len(byGame),
		"events", len(events),
		"duration", time.Since(start),
	)
}
