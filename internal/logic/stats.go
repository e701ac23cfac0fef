package logic

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arcadehub/leaderboard-api/internal/models"
	"github.com/arcadehub/leaderboard-api/internal/store"
)

// Leaderboard size bounds.
const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

type statsService struct {
	store  store.Store
	cache  LeaderboardCache
	logger *zap.SugaredLogger
}

// NewStatsService builds the derived-view read path. cache may be nil,
// in which case every query recomputes from the ledger.
func NewStatsService(st store.Store, cache LeaderboardCache, logger *zap.Logger) StatsService {
	return &statsService{store: st, cache: cache, logger: logger.Sugar()}
}

func (s *statsService) PerGameStats(ctx context.Context) ([]models.GameStats, error) {
	if s.cache != nil {
		if stats, ok := s.cache.GetGameStats(ctx); ok {
			return stats, nil
		}
	}

	events, err := s.store.AllScores(ctx)
	if err != nil {
		return nil, err
	}
	stats := PerGameStats(events)

	if s.cache != nil {
		s.cache.SetGameStats(ctx, stats)
	}
	return stats, nil
}

func (s *statsService) TopN(ctx context.Context, gameName string, limit int) ([]models.LeaderboardRow, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	if s.cache != nil {
		if rows, ok := s.cache.GetRows(ctx, gameName); ok {
			return RankRows(rows, limit), nil
		}
	}

	rows, err := s.computeRows(ctx, gameName)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetRows(ctx, gameName, rows)
	}
	return RankRows(rows, limit), nil
}

// computeRows joins the game's events with current identities into
// unranked best-score rows.
func (s *statsService) computeRows(ctx context.Context, gameName string) ([]models.LeaderboardRow, error) {
	var (
		events []models.ScoreEvent
		idents []models.Identity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.store.ScoresByGame(gctx, gameName)
		return err
	})
	g.Go(func() error {
		var err error
		idents, err = s.store.Identities(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BestPerUserForGame(events, usernameIndex(idents)), nil
}

func (s *statsService) UserRankings(ctx context.Context) ([]models.UserRanking, error) {
	var (
		events []models.ScoreEvent
		idents []models.Identity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.store.AllScores(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		idents, err = s.store.Identities(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totals := PerUserTotals(events)

	// Every identity appears, zero-filled when it has no plays.
	out := make([]models.UserRanking, 0, len(idents))
	for _, ident := range idents {
		t := totals[ident.ID]
		r := models.UserRanking{
			ID:         ident.ID,
			Username:   ident.Username,
			IsAdmin:    ident.IsAdmin,
			CreatedAt:  ident.CreatedAt,
			TotalGames: t.TotalGames,
			TotalScore: t.TotalScore,
		}
		if t.TotalGames > 0 {
			r.AverageScore = float64(t.TotalScore) / float64(t.TotalGames)
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		if out[i].TotalGames != out[j].TotalGames {
			return out[i].TotalGames > out[j].TotalGames
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func usernameIndex(idents []models.Identity) map[int64]string {
	names := make(map[int64]string, len(idents))
	for _, ident := range idents {
		names[ident.ID] = ident.Username
	}
	return names
}
