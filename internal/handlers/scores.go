package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arcadehub/leaderboard-api/internal/logic"
	"github.com/arcadehub/leaderboard-api/internal/models"
)

// SubmitScore handles POST /api/scores
// @Summary Submit Score
// @Description Appends one play result to the ledger. Resubmitting the same submissionId returns the original event id.
// @Tags Scores
// @Accept json
// @Produce json
// @Param body body models.SubmitScoreRequest true "Play result"
// @Success 200 {object} models.SubmitScoreResponse
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Unknown user"
// @Router /scores [post]
func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitScoreRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	id, err := h.scores.Submit(r.Context(), &req)
	if err != nil {
		h.domainError(w, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, models.SubmitScoreResponse{
		ScoreID: id,
		Message: "score recorded",
	})
}

// GetUserHistory handles GET /api/users/{userID}/history
func (h *Handler) GetUserHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "userID"))
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	limit := queryLimit(r, logic.DefaultHistoryLimit)

	history, err := h.scores.History(r.Context(), id, limit)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, history)
}
