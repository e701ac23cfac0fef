// Package postgres implements the server-variant store on PostgreSQL,
// using the two-table layout: users and scores with a foreign key from
// scores.user_id to users.id.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/arcadehub/leaderboard-api/internal/models"
)

// Postgres error codes we translate into domain kinds.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

type Store struct {
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

// New connects to Postgres and verifies the connection.
func New(ctx context.Context, url string, logger *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return &Store{pool: pool, logger: logger.Sugar()}, nil
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL DEFAULT '',
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS scores (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			game_name TEXT NOT NULL,
			score BIGINT NOT NULL,
			submission_id UUID UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_game ON scores(game_name)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_user ON scores(user_id, created_at DESC)`,
	}
	for _, m := range migrations {
		if _, err := s.pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}
	s.logger.Info("database migrations completed")
	return nil
}

func (s *Store) CreateIdentity(ctx context.Context, username, password string, isAdmin bool) (*models.Identity, error) {
	ident := &models.Identity{Username: username, Password: password, IsAdmin: isAdmin}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, password, is_admin)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, username, password, isAdmin).Scan(&ident.ID, &ident.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
			return nil, fmt.Errorf("username %q: %w", username, models.ErrConflict)
		}
		return nil, fmt.Errorf("creating identity: %w", err)
	}
	return ident, nil
}

func (s *Store) IdentityByID(ctx context.Context, id int64) (*models.Identity, error) {
	return s.identity(ctx, `SELECT id, username, password, is_admin, created_at FROM users WHERE id = $1`, id)
}

func (s *Store) IdentityByUsername(ctx context.Context, username string) (*models.Identity, error) {
	return s.identity(ctx, `SELECT id, username, password, is_admin, created_at FROM users WHERE username = $1`, username)
}

func (s *Store) identity(ctx context.Context, query string, arg any) (*models.Identity, error) {
	var ident models.Identity
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&ident.ID, &ident.Username, &ident.Password, &ident.IsAdmin, &ident.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("identity: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying identity: %w", err)
	}
	return &ident, nil
}

func (s *Store) Identities(ctx context.Context) ([]models.Identity, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, username, password, is_admin, created_at
		FROM users
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying identities: %w", err)
	}
	defer rows.Close()

	idents := make([]models.Identity, 0)
	for rows.Next() {
		var ident models.Identity
		if err := rows.Scan(&ident.ID, &ident.Username, &ident.Password, &ident.IsAdmin, &ident.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning identity: %w", err)
		}
		idents = append(idents, ident)
	}
	return idents, rows.Err()
}

func (s *Store) DeleteIdentity(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("identity %d: %w", id, models.ErrNotFound)
	}
	return nil
}

func (s *Store) AppendScore(ctx context.Context, userID int64, gameName string, score int64, submissionID string) (int64, error) {
	var sub any
	if submissionID != "" {
		sub = submissionID
	}

	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO scores (user_id, game_name, score, submission_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (submission_id) DO NOTHING
		RETURNING id
	`, userID, gameName, score, sub).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict on submission_id: the retry already landed, hand back
		// the original event id.
		err = s.pool.QueryRow(ctx,
			`SELECT id FROM scores WHERE submission_id = $1`, submissionID).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("resolving duplicate submission: %w", err)
		}
		return id, nil
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
			return 0, fmt.Errorf("user %d: %w", userID, models.ErrNotFound)
		}
		return 0, fmt.Errorf("appending score: %w", err)
	}
	return id, nil
}

const scoreColumns = `id, user_id, game_name, score, COALESCE(submission_id::text, ''), created_at`

func (s *Store) AllScores(ctx context.Context) ([]models.ScoreEvent, error) {
	return s.scores(ctx, `SELECT `+scoreColumns+` FROM scores ORDER BY id`)
}

func (s *Store) ScoresByGame(ctx context.Context, gameName string) ([]models.ScoreEvent, error) {
	return s.scores(ctx, `SELECT `+scoreColumns+` FROM scores WHERE game_name = $1 ORDER BY id`, gameName)
}

func (s *Store) ScoresByUser(ctx context.Context, userID int64) ([]models.ScoreEvent, error) {
	return s.scores(ctx, `SELECT `+scoreColumns+` FROM scores WHERE user_id = $1 ORDER BY id`, userID)
}

func (s *Store) ScoresByUserAndGame(ctx context.Context, userID int64, gameName string) ([]models.ScoreEvent, error) {
	return s.scores(ctx, `SELECT `+scoreColumns+` FROM scores WHERE user_id = $1 AND game_name = $2 ORDER BY id`, userID, gameName)
}

func (s *Store) scores(ctx context.Context, query string, args ...any) ([]models.ScoreEvent, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying scores: %w", err)
	}
	defer rows.Close()

	events := make([]models.ScoreEvent, 0)
	for rows.Next() {
		var ev models.ScoreEvent
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.GameName, &ev.Score, &ev.SubmissionID, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning score: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *Store) DeleteScoresByUser(ctx context.Context, userID int64) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM scores WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("deleting scores: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) GameNames(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT game_name FROM scores ORDER BY game_name`)
	if err != nil {
		return nil, fmt.Errorf("querying game names: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning game name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}
