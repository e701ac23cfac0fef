package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arcadehub/leaderboard-api/internal/logic"
)

// GetLeaderboard handles GET /api/leaderboard/{gameName}
// @Summary Game Leaderboard
// @Description Ranked best scores for one game, descending
// @Tags Leaderboard
// @Produce json
// @Param gameName path string true "Game identifier"
// @Param limit query int false "Limit" default(10)
// @Success 200 {array} models.LeaderboardRow
// @Router /leaderboard/{gameName} [get]
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	gameName := chi.URLParam(r, "gameName")
	if gameName == "" {
		h.errorResponse(w, http.StatusBadRequest, "Game name required")
		return
	}
	limit := queryLimit(r, logic.DefaultLeaderboardLimit)

	rows, err := h.stats.TopN(r.Context(), gameName, limit)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, rows)
}

// GetGameStats handles GET /api/admin/stats
func (h *Handler) GetGameStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.PerGameStats(r.Context())
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, stats)
}

// GetUserRankings handles GET /api/admin/users
func (h *Handler) GetUserRankings(w http.ResponseWriter, r *http.Request) {
	rankings, err := h.stats.UserRankings(r.Context())
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, rankings)
}
