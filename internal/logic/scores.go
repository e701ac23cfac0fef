package logic

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/arcadehub/leaderboard-api/internal/models"
	"github.com/arcadehub/leaderboard-api/internal/store"
)

// DefaultHistoryLimit bounds a play-history query when the caller does
// not specify one.
const DefaultHistoryLimit = 50

var scoresSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "arcade_scores_submitted_total",
	Help: "Total number of score events appended, per game",
}, []string{"game"})

type scoreService struct {
	store  store.Store
	cache  LeaderboardCache
	logger *zap.SugaredLogger
}

// NewScoreService builds the ledger write path. cache may be nil.
func NewScoreService(st store.Store, cache LeaderboardCache, logger *zap.Logger) ScoreService {
	return &scoreService{store: st, cache: cache, logger: logger.Sugar()}
}

func (s *scoreService) Submit(ctx context.Context, req *models.SubmitScoreRequest) (int64, error) {
	if req.UserID <= 0 {
		return 0, fmt.Errorf("userId is required: %w", models.ErrValidation)
	}
	gameName := strings.TrimSpace(req.GameName)
	if gameName == "" {
		return 0, fmt.Errorf("gameName is required: %w", models.ErrValidation)
	}
	if req.Score == nil {
		return 0, fmt.Errorf("score is required: %w", models.ErrValidation)
	}
	if req.SubmissionID != "" {
		if _, err := uuid.Parse(req.SubmissionID); err != nil {
			return 0, fmt.Errorf("submissionId must be a UUID: %w", models.ErrValidation)
		}
	}

	id, err := s.store.AppendScore(ctx, req.UserID, gameName, *req.Score, req.SubmissionID)
	if err != nil {
		return 0, err
	}

	scoresSubmitted.WithLabelValues(gameName).Inc()
	if s.cache != nil {
		s.cache.InvalidateGame(ctx, gameName)
	}
	s.logger.Infow("score recorded", "user", req.UserID, "game", gameName, "score", *req.Score, "id", id)
	return id, nil
}

func (s *scoreService) History(ctx context.Context, userID int64, limit int) ([]models.HistoryEntry, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("userId is required: %w", models.ErrValidation)
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	events, err := s.store.ScoresByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].CreatedAt.After(events[j].CreatedAt)
		}
		return events[i].ID > events[j].ID
	})
	if len(events) > limit {
		events = events[:limit]
	}

	out := make([]models.HistoryEntry, 0, len(events))
	for _, ev := range events {
		out = append(out, models.HistoryEntry{
			GameName:  ev.GameName,
			Score:     ev.Score,
			CreatedAt: ev.CreatedAt,
		})
	}
	return out, nil
}
