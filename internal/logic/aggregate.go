package logic

import (
	"sort"

	"github.com/arcadehub/leaderboard-api/internal/models"
)

// Pure aggregation over ledger snapshots. These functions hold no state
// and never touch storage; callers pass a consistent snapshot of events
// (and usernames where a join is needed) and get derived views back.

// PerGameStats groups events by game and computes the per-game view.
// Only games with at least one event appear, so the mean never divides
// by zero. Results are sorted by game name for stable output.
func PerGameStats(events []models.ScoreEvent) []models.GameStats {
	type acc struct {
		players map[int64]struct{}
		plays   int64
		highest int64
		sum     int64
	}
	groups := make(map[string]*acc)
	for _, ev := range events {
		g, ok := groups[ev.GameName]
		if !ok {
			g = &acc{players: make(map[int64]struct{})}
			groups[ev.GameName] = g
		}
		g.players[ev.UserID] = struct{}{}
		g.plays++
		g.sum += ev.Score
		if ev.Score > g.highest || g.plays == 1 {
			g.highest = ev.Score
		}
	}

	out := make([]models.GameStats, 0, len(groups))
	for name, g := range groups {
		out = append(out, models.GameStats{
			GameName:      name,
			UniquePlayers: int64(len(g.players)),
			TotalPlays:    g.plays,
			HighestScore:  g.highest,
			AverageScore:  float64(g.sum) / float64(g.plays),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameName < out[j].GameName })
	return out
}

// PerUserTotals groups events by owning identity and sums play counts and
// scores. Only identities with at least one event appear here; the admin
// join zero-fills the rest.
func PerUserTotals(events []models.ScoreEvent) map[int64]models.UserTotals {
	totals := make(map[int64]models.UserTotals)
	for _, ev := range events {
		t := totals[ev.UserID]
		t.TotalGames++
		t.TotalScore += ev.Score
		totals[ev.UserID] = t
	}
	return totals
}

// BestPerUserForGame reduces a single game's events to one row per
// identity. usernames maps identity id to display name; events owned by
// an identity missing from the map (orphans from a failed cascade) are
// skipped rather than shown without a name.
func BestPerUserForGame(events []models.ScoreEvent, usernames map[int64]string) []models.LeaderboardRow {
	byUser := make(map[int64]*models.LeaderboardRow)
	order := make([]int64, 0)
	for _, ev := range events {
		name, ok := usernames[ev.UserID]
		if !ok {
			continue
		}
		row, ok := byUser[ev.UserID]
		if !ok {
			row = &models.LeaderboardRow{UserID: ev.UserID, Username: name, BestScore: ev.Score}
			byUser[ev.UserID] = row
			order = append(order, ev.UserID)
		}
		if ev.Score > row.BestScore {
			row.BestScore = ev.Score
		}
		row.PlayCount++
		if ev.CreatedAt.After(row.LastPlayed) {
			row.LastPlayed = ev.CreatedAt
		}
	}

	out := make([]models.LeaderboardRow, 0, len(order))
	for _, id := range order {
		out = append(out, *byUser[id])
	}
	return out
}

// RankRows orders leaderboard rows descending by best score, truncates to
// limit and assigns 1-based ranks. Ties break deterministically: the
// earlier lastPlayed wins, then the lower identity id.
func RankRows(rows []models.LeaderboardRow, limit int) []models.LeaderboardRow {
	ranked := make([]models.LeaderboardRow, len(rows))
	copy(ranked, rows)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].BestScore != ranked[j].BestScore {
			return ranked[i].BestScore > ranked[j].BestScore
		}
		if !ranked[i].LastPlayed.Equal(ranked[j].LastPlayed) {
			return ranked[i].LastPlayed.Before(ranked[j].LastPlayed)
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
