package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arcadehub/leaderboard-api/internal/models"
)

// CreateOrGetUser handles POST /api/users
// @Summary Create Or Fetch Player
// @Description Lazy login: returns the existing identity for a username or creates one
// @Tags Identity
// @Accept json
// @Produce json
// @Param body body models.CreateOrGetUserRequest true "Username"
// @Success 200 {object} models.UserInfo
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /users [post]
func (h *Handler) CreateOrGetUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrGetUserRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	ident, err := h.identity.CreateOrGet(r.Context(), req.Username)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, ident.Public())
}

// Login handles POST /api/login
// @Summary Login
// @Description Authenticates a username/password pair
// @Tags Identity
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	ident, err := h.identity.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.domainError(w, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, models.LoginResponse{
		ID:        ident.ID,
		Username:  ident.Username,
		IsAdmin:   ident.IsAdmin,
		CreatedAt: ident.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// CreateUser handles POST /api/admin/create-user
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	ident, err := h.identity.Register(r.Context(), req.Username, req.Password, req.IsAdmin)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, ident.Public())
}

// ListUsers handles GET /api/admin/all-users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.identity.ListAll(r.Context())
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, users)
}

// DeleteUser handles DELETE /api/admin/users/{userID}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "userID"))
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.identity.Delete(r.Context(), id); err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
