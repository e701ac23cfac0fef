package logic

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/arcadehub/leaderboard-api/internal/models"
)

// memStore is an in-memory store.Store used by the service tests. Error
// injection fields let individual tests simulate storage failures.
type memStore struct {
	mu         sync.Mutex
	identities []models.Identity
	scores     []models.ScoreEvent
	nextUser   int64
	nextScore  int64

	FailDeleteScores error
	FailAppend       error
}

func newMemStore() *memStore {
	return &memStore{nextUser: 1, nextScore: 1}
}

func (m *memStore) CreateIdentity(ctx context.Context, username, password string, isAdmin bool) (*models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.identities {
		if id.Username == username {
			return nil, fmt.Errorf("username %q taken: %w", username, models.ErrConflict)
		}
	}
	ident := models.Identity{
		ID:        m.nextUser,
		Username:  username,
		Password:  password,
		IsAdmin:   isAdmin,
		CreatedAt: time.Now(),
	}
	m.nextUser++
	m.identities = append(m.identities, ident)
	return &ident, nil
}

func (m *memStore) IdentityByID(ctx context.Context, id int64) (*models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.identities {
		if m.identities[i].ID == id {
			ident := m.identities[i]
			return &ident, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memStore) IdentityByUsername(ctx context.Context, username string) (*models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.identities {
		if m.identities[i].Username == username {
			ident := m.identities[i]
			return &ident, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memStore) Identities(ctx context.Context) ([]models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Identity, len(m.identities))
	copy(out, m.identities)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) DeleteIdentity(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.identities {
		if m.identities[i].ID == id {
			m.identities = append(m.identities[:i], m.identities[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *memStore) AppendScore(ctx context.Context, userID int64, gameName string, score int64, submissionID string) (int64, error) {
	if m.FailAppend != nil {
		return 0, m.FailAppend
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	found := false
	for _, id := range m.identities {
		if id.ID == userID {
			found = true
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("user %d: %w", userID, models.ErrNotFound)
	}
	if submissionID != "" {
		for _, ev := range m.scores {
			if ev.SubmissionID == submissionID {
				return ev.ID, nil
			}
		}
	}
	ev := models.ScoreEvent{
		ID:           m.nextScore,
		UserID:       userID,
		GameName:     gameName,
		Score:        score,
		SubmissionID: submissionID,
		CreatedAt:    time.Now(),
	}
	m.nextScore++
	m.scores = append(m.scores, ev)
	return ev.ID, nil
}

func (m *memStore) AllScores(ctx context.Context) ([]models.ScoreEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ScoreEvent, len(m.scores))
	copy(out, m.scores)
	return out, nil
}

func (m *memStore) ScoresByGame(ctx context.Context, gameName string) ([]models.ScoreEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ScoreEvent
	for _, ev := range m.scores {
		if ev.GameName == gameName {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memStore) ScoresByUser(ctx context.Context, userID int64) ([]models.ScoreEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ScoreEvent
	for _, ev := range m.scores {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memStore) ScoresByUserAndGame(ctx context.Context, userID int64, gameName string) ([]models.ScoreEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ScoreEvent
	for _, ev := range m.scores {
		if ev.UserID == userID && ev.GameName == gameName {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memStore) DeleteScoresByUser(ctx context.Context, userID int64) (int64, error) {
	if m.FailDeleteScores != nil {
		return 0, m.FailDeleteScores
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := make([]models.ScoreEvent, 0, len(m.scores))
	var removed int64
	for _, ev := range m.scores {
		if ev.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, ev)
	}
	m.scores = kept
	return removed, nil
}

func (m *memStore) GameNames(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]struct{})
	var out []string
	for _, ev := range m.scores {
		if _, ok := seen[ev.GameName]; !ok {
			seen[ev.GameName] = struct{}{}
			out = append(out, ev.GameName)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memStore) Ping(ctx context.Context) error { return nil }
func (m *memStore) Close()                         {}

// mockCache is a map-backed LeaderboardCache recording invalidations.
type mockCache struct {
	mu          sync.Mutex
	rows        map[string][]models.LeaderboardRow
	stats       []models.GameStats
	hasStats    bool
	Invalidated []string
	RowHits     int
	RowMisses   int
}

func newMockCache() *mockCache {
	return &mockCache{rows: make(map[string][]models.LeaderboardRow)}
}

func (c *mockCache) GetRows(ctx context.Context, gameName string) ([]models.LeaderboardRow, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows, ok := c.rows[gameName]
	if ok {
		c.RowHits++
	} else {
		c.RowMisses++
	}
	return rows, ok
}

func (c *mockCache) SetRows(ctx context.Context, gameName string, rows []models.LeaderboardRow) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows[gameName] = rows
}

func (c *mockCache) GetGameStats(ctx context.Context) ([]models.GameStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats, c.hasStats
}

func (c *mockCache) SetGameStats(ctx context.Context, stats []models.GameStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = stats
	c.hasStats = true
}

func (c *mockCache) InvalidateGame(ctx context.Context, gameName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rows, gameName)
	c.stats = nil
	c.hasStats = false
	c.Invalidated = append(c.Invalidated, gameName)
}

func (c *mockCache) Ping(ctx context.Context) error { return nil }
