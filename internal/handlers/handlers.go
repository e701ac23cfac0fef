package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arcadehub/leaderboard-api/internal/logic"
	"github.com/arcadehub/leaderboard-api/internal/store"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

type Config struct {
	Store          store.Store
	Cache          logic.LeaderboardCache
	Logger         *zap.Logger
	AllowedOrigins []string
	// Services
	Identity logic.IdentityService
	Scores   logic.ScoreService
	Stats    logic.StatsService
}

type Handler struct {
	store          store.Store
	cache          logic.LeaderboardCache
	logger         *zap.SugaredLogger
	validator      *validator.Validate
	allowedOrigins []string
	identity       logic.IdentityService
	scores         logic.ScoreService
	stats          logic.StatsService
}

func New(cfg Config) *Handler {
	return &Handler{
		store:          cfg.Store,
		cache:          cfg.Cache,
		logger:         cfg.Logger.Sugar(),
		validator:      validator.New(),
		allowedOrigins: cfg.AllowedOrigins,
		identity:       cfg.Identity,
		scores:         cfg.Scores,
		stats:          cfg.Stats,
	}
}

// Router builds the full HTTP surface.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", h.CreateOrGetUser)
		r.Post("/login", h.Login)
		r.Post("/scores", h.SubmitScore)
		r.Get("/leaderboard/{gameName}", h.GetLeaderboard)
		r.Get("/users/{userID}/history", h.GetUserHistory)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/create-user", h.CreateUser)
			r.Get("/all-users", h.ListUsers)
			r.Delete("/users/{userID}", h.DeleteUser)
			r.Get("/stats", h.GetGameStats)
			r.Get("/users", h.GetUserRankings)
		})
	})

	return r
}
