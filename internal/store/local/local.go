// Package local implements the client-variant store: a single embedded
// SQLite file holding exactly two named key-value entries ("users" and
// "scores"), each storing the entire serialized collection, while keeping
// the same two-entity shape as the Postgres backend.
package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/arcadehub/leaderboard-api/internal/models"
)

const (
	usersKey  = "users"
	scoresKey = "scores"
)

// identityRecord duplicates models.Identity with the credential included,
// since the public model never serializes it.
type identityRecord struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type scoreRecord struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	GameName     string    `json:"game_name"`
	Score        int64     `json:"score"`
	SubmissionID string    `json:"submission_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store keeps both collections in memory and persists each one as a whole
// under its key on every mutation. SQLite supports one writer at a time,
// which matches the single-writer-per-request model.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	logger *zap.SugaredLogger

	users  []identityRecord
	scores []scoreRecord

	nextUserID  int64
	nextScoreID int64
}

// Open opens (or creates) the backing file and loads both collections.
func Open(path string, logger *zap.Logger) (*Store, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY,
			data TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing local store schema: %w", err)
	}

	s := &Store{db: db, logger: logger.Sugar(), nextUserID: 1, nextScoreID: 1}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	if err := s.loadCollection(usersKey, &s.users); err != nil {
		return err
	}
	if err := s.loadCollection(scoresKey, &s.scores); err != nil {
		return err
	}
	for _, u := range s.users {
		if u.ID >= s.nextUserID {
			s.nextUserID = u.ID + 1
		}
	}
	for _, sc := range s.scores {
		if sc.ID >= s.nextScoreID {
			s.nextScoreID = sc.ID + 1
		}
	}
	s.logger.Infow("local store loaded", "users", len(s.users), "scores", len(s.scores))
	return nil
}

func (s *Store) loadCollection(key string, out any) error {
	var data string
	err := s.db.QueryRow(`SELECT data FROM collections WHERE name = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading collection %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return fmt.Errorf("decoding collection %q: %w", key, err)
	}
	return nil
}

// persist writes one whole collection under its key. Caller holds the lock.
func (s *Store) persist(key string, collection any) error {
	data, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("encoding collection %q: %w", key, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO collections (name, data) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data
	`, key, string(data))
	if err != nil {
		return fmt.Errorf("persisting collection %q: %w", key, err)
	}
	return nil
}

func (s *Store) CreateIdentity(ctx context.Context, username, password string, isAdmin bool) (*models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return nil, fmt.Errorf("username %q: %w", username, models.ErrConflict)
		}
	}

	rec := identityRecord{
		ID:        s.nextUserID,
		Username:  username,
		Password:  password,
		IsAdmin:   isAdmin,
		CreatedAt: time.Now().UTC(),
	}
	s.users = append(s.users, rec)
	s.nextUserID++

	if err := s.persist(usersKey, s.users); err != nil {
		s.users = s.users[:len(s.users)-1]
		s.nextUserID--
		return nil, err
	}
	return rec.identity(), nil
}

func (r identityRecord) identity() *models.Identity {
	return &models.Identity{
		ID:        r.ID,
		Username:  r.Username,
		Password:  r.Password,
		IsAdmin:   r.IsAdmin,
		CreatedAt: r.CreatedAt,
	}
}

func (s *Store) IdentityByID(ctx context.Context, id int64) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u.identity(), nil
		}
	}
	return nil, fmt.Errorf("identity %d: %w", id, models.ErrNotFound)
}

func (s *Store) IdentityByUsername(ctx context.Context, username string) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u.identity(), nil
		}
	}
	return nil, fmt.Errorf("identity %q: %w", username, models.ErrNotFound)
}

func (s *Store) Identities(ctx context.Context) ([]models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Identity, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u.identity())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) DeleteIdentity(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, u := range s.users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("identity %d: %w", id, models.ErrNotFound)
	}

	removed := s.users[idx]
	s.users = append(s.users[:idx], s.users[idx+1:]...)
	if err := s.persist(usersKey, s.users); err != nil {
		s.users = append(s.users, removed)
		return err
	}
	return nil
}

func (s *Store) AppendScore(ctx context.Context, userID int64, gameName string, score int64, submissionID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if submissionID != "" {
		for _, sc := range s.scores {
			if sc.SubmissionID == submissionID {
				return sc.ID, nil
			}
		}
	}

	found := false
	for _, u := range s.users {
		if u.ID == userID {
			found = true
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("user %d: %w", userID, models.ErrNotFound)
	}

	rec := scoreRecord{
		ID:           s.nextScoreID,
		UserID:       userID,
		GameName:     gameName,
		Score:        score,
		SubmissionID: submissionID,
		CreatedAt:    time.Now().UTC(),
	}
	s.scores = append(s.scores, rec)
	s.nextScoreID++

	if err := s.persist(scoresKey, s.scores); err != nil {
		s.scores = s.scores[:len(s.scores)-1]
		s.nextScoreID--
		return 0, err
	}
	return rec.ID, nil
}

func (s *Store) AllScores(ctx context.Context) ([]models.ScoreEvent, error) {
	return s.filterScores(func(scoreRecord) bool { return true }), nil
}

func (s *Store) ScoresByGame(ctx context.Context, gameName string) ([]models.ScoreEvent, error) {
	return s.filterScores(func(r scoreRecord) bool { return r.GameName == gameName }), nil
}

func (s *Store) ScoresByUser(ctx context.Context, userID int64) ([]models.ScoreEvent, error) {
	return s.filterScores(func(r scoreRecord) bool { return r.UserID == userID }), nil
}

func (s *Store) ScoresByUserAndGame(ctx context.Context, userID int64, gameName string) ([]models.ScoreEvent, error) {
	return s.filterScores(func(r scoreRecord) bool {
		return r.UserID == userID && r.GameName == gameName
	}), nil
}

func (s *Store) filterScores(keep func(scoreRecord) bool) []models.ScoreEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ScoreEvent, 0)
	for _, r := range s.scores {
		if keep(r) {
			out = append(out, models.ScoreEvent{
				ID:           r.ID,
				UserID:       r.UserID,
				GameName:     r.GameName,
				Score:        r.Score,
				SubmissionID: r.SubmissionID,
				CreatedAt:    r.CreatedAt,
			})
		}
	}
	return out
}

func (s *Store) DeleteScoresByUser(ctx context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]scoreRecord, 0, len(s.scores))
	var removed int64
	for _, r := range s.scores {
		if r.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	if removed == 0 {
		return 0, nil
	}
	if err := s.persist(scoresKey, kept); err != nil {
		return 0, err
	}
	s.scores = kept
	return removed, nil
}

func (s *Store) GameNames(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, r := range s.scores {
		if _, ok := seen[r.GameName]; ok {
			continue
		}
		seen[r.GameName] = struct{}{}
		names = append(names, r.GameName)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Warnw("failed to close local store", "error", err)
	}
}
