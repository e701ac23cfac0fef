package logic

import (
	"context"

	"github.com/arcadehub/leaderboard-api/internal/models"
)

// IdentityService is the identity registry: account creation under both
// policies, authentication, listing and the cascading delete.
type IdentityService interface {
	// CreateOrGet implements the lazy no-password flow: idempotent by
	// username, creating a non-admin identity on first sight.
	CreateOrGet(ctx context.Context, username string) (*models.Identity, error)
	// Register implements the credentialed flow. isAdmin is false for
	// self-registration; only the admin surface sets it.
	Register(ctx context.Context, username, password string, isAdmin bool) (*models.Identity, error)
	Authenticate(ctx context.Context, username, password string) (*models.Identity, error)
	ListAll(ctx context.Context) ([]models.UserInfo, error)
	// Delete removes the identity and cascades deletion of its score
	// events. A second delete of the same id reports ErrNotFound.
	Delete(ctx context.Context, id int64) error
	// EnsureAdmin seeds the default administrator account once. It never
	// touches an existing admin identity.
	EnsureAdmin(ctx context.Context) error
}

// ScoreService is the write path into the ledger plus per-user history.
type ScoreService interface {
	Submit(ctx context.Context, req *models.SubmitScoreRequest) (int64, error)
	History(ctx context.Context, userID int64, limit int) ([]models.HistoryEntry, error)
}

// StatsService serves the derived read-only views.
type StatsService interface {
	PerGameStats(ctx context.Context) ([]models.GameStats, error)
	TopN(ctx context.Context, gameName string, limit int) ([]models.LeaderboardRow, error)
	UserRankings(ctx context.Context) ([]models.UserRanking, error)
}

// LeaderboardCache holds precomputed leaderboard rows and game stats.
// Implementations must treat every failure as a miss; the source of
// truth is always the ledger.
type LeaderboardCache interface {
	GetRows(ctx context.Context, gameName string) ([]models.LeaderboardRow, bool)
	SetRows(ctx context.Context, gameName string, rows []models.LeaderboardRow)
	GetGameStats(ctx context.Context) ([]models.GameStats, bool)
	SetGameStats(ctx context.Context, stats []models.GameStats)
	InvalidateGame(ctx context.Context, gameName string)
	Ping(ctx context.Context) error
}
