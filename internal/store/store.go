// Package store defines the persistence contract shared by the two
// storage backends: the server-side Postgres store and the local
// single-file store. Both persist the same two-entity shape (identities
// and score events) whatever the medium.
package store

import (
	"context"

	"github.com/arcadehub/leaderboard-api/internal/models"
)

// Store is the persistence boundary for identities and the score ledger.
//
// Error contract: lookups and deletes return models.ErrNotFound when the
// target is missing, CreateIdentity returns models.ErrConflict on a
// duplicate username, and AppendScore returns models.ErrNotFound when the
// user id does not reference an existing identity. Anything else is an
// infrastructure failure and is returned wrapped.
type Store interface {
	// Identities
	CreateIdentity(ctx context.Context, username, password string, isAdmin bool) (*models.Identity, error)
	IdentityByID(ctx context.Context, id int64) (*models.Identity, error)
	IdentityByUsername(ctx context.Context, username string) (*models.Identity, error)
	// Identities returns every identity ordered by creation time descending.
	Identities(ctx context.Context) ([]models.Identity, error)
	DeleteIdentity(ctx context.Context, id int64) error

	// Score ledger. Events are append-only; AppendScore is the only
	// mutation and DeleteScoresByUser exists solely for the registry's
	// cascade delete.
	//
	// submissionID may be empty. When set and already present in the
	// ledger, AppendScore returns the previously assigned event id
	// instead of appending a second event.
	AppendScore(ctx context.Context, userID int64, gameName string, score int64, submissionID string) (int64, error)
	AllScores(ctx context.Context) ([]models.ScoreEvent, error)
	ScoresByGame(ctx context.Context, gameName string) ([]models.ScoreEvent, error)
	ScoresByUser(ctx context.Context, userID int64) ([]models.ScoreEvent, error)
	ScoresByUserAndGame(ctx context.Context, userID int64, gameName string) ([]models.ScoreEvent, error)
	DeleteScoresByUser(ctx context.Context, userID int64) (int64, error)

	// GameNames lists the distinct game identifiers present in the ledger.
	GameNames(ctx context.Context) ([]string, error)

	Ping(ctx context.Context) error
	Close()
}
