package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/arcadehub/leaderboard-api/internal/models"
)

// MockIdentityService
type MockIdentityService struct {
	CreateOrGetFunc  func(ctx context.Context, username string) (*models.Identity, error)
	RegisterFunc     func(ctx context.Context, username, password string, isAdmin bool) (*models.Identity, error)
	AuthenticateFunc func(ctx context.Context, username, password string) (*models.Identity, error)
	ListAllFunc      func(ctx context.Context) ([]models.UserInfo, error)
	DeleteFunc       func(ctx context.Context, id int64) error
	EnsureAdminFunc  func(ctx context.Context) error
}

func (m *MockIdentityService) CreateOrGet(ctx context.Context, username string) (*models.Identity, error) {
	if m.CreateOrGetFunc != nil {
		return m.CreateOrGetFunc(ctx, username)
	}
	return &models.Identity{ID: 1, Username: username}, nil
}

func (m *MockIdentityService) Register(ctx context.Context, username, password string, isAdmin bool) (*models.Identity, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, username, password, isAdmin)
	}
	return &models.Identity{ID: 1, Username: username, IsAdmin: isAdmin}, nil
}

func (m *MockIdentityService) Authenticate(ctx context.Context, username, password string) (*models.Identity, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, username, password)
	}
	return &models.Identity{ID: 1, Username: username}, nil
}

func (m *MockIdentityService) ListAll(ctx context.Context) ([]models.UserInfo, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockIdentityService) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockIdentityService) EnsureAdmin(ctx context.Context) error {
	if m.EnsureAdminFunc != nil {
		return m.EnsureAdminFunc(ctx)
	}
	return nil
}

// MockScoreService
type MockScoreService struct {
	SubmitFunc  func(ctx context.Context, req *models.SubmitScoreRequest) (int64, error)
	HistoryFunc func(ctx context.Context, userID int64, limit int) ([]models.HistoryEntry, error)
}

func (m *MockScoreService) Submit(ctx context.Context, req *models.SubmitScoreRequest) (int64, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, req)
	}
	return 1, nil
}

func (m *MockScoreService) History(ctx context.Context, userID int64, limit int) ([]models.HistoryEntry, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, userID, limit)
	}
	return nil, nil
}

// MockStatsService
type MockStatsService struct {
	PerGameStatsFunc func(ctx context.Context) ([]models.GameStats, error)
	TopNFunc         func(ctx context.Context, gameName string, limit int) ([]models.LeaderboardRow, error)
	UserRankingsFunc func(ctx context.Context) ([]models.UserRanking, error)
}

func (m *MockStatsService) PerGameStats(ctx context.Context) ([]models.GameStats, error) {
	if m.PerGameStatsFunc != nil {
		return m.PerGameStatsFunc(ctx)
	}
	return nil, nil
}

func (m *MockStatsService) TopN(ctx context.Context, gameName string, limit int) ([]models.LeaderboardRow, error) {
	if m.TopNFunc != nil {
		return m.TopNFunc(ctx, gameName, limit)
	}
	return nil, nil
}

func (m *MockStatsService) UserRankings(ctx context.Context) ([]models.UserRanking, error) {
	if m.UserRankingsFunc != nil {
		return m.UserRankingsFunc(ctx)
	}
	return nil, nil
}

// MockStore covers the Ping used by the readiness probe.
type MockStore struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockStore) CreateIdentity(ctx context.Context, username, password string, isAdmin bool) (*models.Identity, error) {
	return nil, nil
}
func (m *MockStore) IdentityByID(ctx context.Context, id int64) (*models.Identity, error) {
	return nil, nil
}
func (m *MockStore) IdentityByUsername(ctx context.Context, username string) (*models.Identity, error) {
	return nil, nil
}
func (m *MockStore) Identities(ctx context.Context) ([]models.Identity, error) { return nil, nil }
func (m *MockStore) DeleteIdentity(ctx context.Context, id int64) error        { return nil }
func (m *MockStore) AppendScore(ctx context.Context, userID int64, gameName string, score int64, submissionID string) (int64, error) {
	return 0, nil
}
func (m *MockStore) AllScores(ctx context.Context) ([]models.ScoreEvent, error) { return nil, nil }
func (m *MockStore) ScoresByGame(ctx context.Context, gameName string) ([]models.ScoreEvent, error) {
	return nil, nil
}
func (m *MockStore) ScoresByUser(ctx context.Context, userID int64) ([]models.ScoreEvent, error) {
	return nil, nil
}
func (m *MockStore) ScoresByUserAndGame(ctx context.Context, userID int64, gameName string) ([]models.ScoreEvent, error) {
	return nil, nil
}
func (m *MockStore) DeleteScoresByUser(ctx context.Context, userID int64) (int64, error) {
	return 0, nil
}
func (m *MockStore) GameNames(ctx context.Context) ([]string, error) { return nil, nil }
func (m *MockStore) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}
func (m *MockStore) Close() {}

// newTestHandler wires a Handler with mocks; nil mocks get defaults.
func newTestHandler(identity *MockIdentityService, scores *MockScoreService, stats *MockStatsService) *Handler {
	if identity == nil {
		identity = &MockIdentityService{}
	}
	if scores == nil {
		scores = &MockScoreService{}
	}
	if stats == nil {
		stats = &MockStatsService{}
	}
	return New(Config{
		Store:          &MockStore{},
		Logger:         zap.NewNop(),
		AllowedOrigins: []string{"*"},
		Identity:       identity,
		Scores:         scores,
		Stats:          stats,
	})
}
