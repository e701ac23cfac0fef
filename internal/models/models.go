package models

import "time"

// Identity is a registered or auto-created player account.
// Password is carried as an opaque credential and never serialized;
// the source system stores it in plaintext, which we inherit as-is.
type Identity struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"created_at"`
}

// UserInfo is the display shape of an Identity for admin surfaces.
// It deliberately has no credential field.
type UserInfo struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the credential-free view of an identity.
func (i *Identity) Public() UserInfo {
	return UserInfo{
		ID:        i.ID,
		Username:  i.Username,
		IsAdmin:   i.IsAdmin,
		CreatedAt: i.CreatedAt,
	}
}

// ScoreEvent is one immutable record of a single game session's result.
// Events are append-only; the only way one is ever removed is the
// admin cascade delete of its owning identity.
type ScoreEvent struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	GameName     string    `json:"game_name"`
	Score        int64     `json:"score"`
	SubmissionID string    `json:"submission_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// LeaderboardRow is a rank-annotated best-score entry for one player
// in one game.
type LeaderboardRow struct {
	Rank       int       `json:"rank"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	BestScore  int64     `json:"best_score"`
	PlayCount  int64     `json:"play_count"`
	LastPlayed time.Time `json:"last_played"`
}

// GameStats is the derived per-game view over the whole ledger.
// Never persisted; recomputed so it always reflects ledger state.
type GameStats struct {
	GameName      string  `json:"game_name"`
	UniquePlayers int64   `json:"unique_players"`
	TotalPlays    int64   `json:"total_plays"`
	HighestScore  int64   `json:"highest_score"`
	AverageScore  float64 `json:"average_score"`
}

// UserTotals are the per-identity aggregates across all games.
type UserTotals struct {
	TotalGames int64 `json:"total_games"`
	TotalScore int64 `json:"total_score"`
}

// UserRanking joins an identity with its totals for the admin view.
// Identities with no plays appear zero-filled.
type UserRanking struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"created_at"`
	TotalGames   int64     `json:"total_games"`
	TotalScore   int64     `json:"total_score"`
	AverageScore float64   `json:"average_score"`
}

// HistoryEntry is one row of a player's recent play history.
type HistoryEntry struct {
	GameName  string    `json:"game_name"`
	Score     int64     `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}
