package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/arcadehub/leaderboard-api/internal/models"
	"github.com/arcadehub/leaderboard-api/internal/store"
)

// Default administrator credentials, seeded once on first initialization.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

type identityService struct {
	store  store.Store
	logger *zap.SugaredLogger
}

func NewIdentityService(st store.Store, logger *zap.Logger) IdentityService {
	return &identityService{store: st, logger: logger.Sugar()}
}

func (s *identityService) CreateOrGet(ctx context.Context, username string) (*models.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username must not be empty: %w", models.ErrValidation)
	}

	ident, err := s.store.IdentityByUsername(ctx, username)
	if err == nil {
		return ident, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	ident, err = s.store.CreateIdentity(ctx, username, "", false)
	if errors.Is(err, models.ErrConflict) {
		// Lost a create race; the identity exists now.
		return s.store.IdentityByUsername(ctx, username)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Infow("identity created", "username", username, "id", ident.ID)
	return ident, nil
}

func (s *identityService) Register(ctx context.Context, username, password string, isAdmin bool) (*models.Identity, error) {
	if len(username) < minUsernameLen {
		return nil, fmt.Errorf("username must be at least %d characters: %w", minUsernameLen, models.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, models.ErrValidation)
	}

	ident, err := s.store.CreateIdentity(ctx, username, password, isAdmin)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("identity registered", "username", username, "id", ident.ID, "isAdmin", isAdmin)
	return ident, nil
}

func (s *identityService) Authenticate(ctx context.Context, username, password string) (*models.Identity, error) {
	ident, err := s.store.IdentityByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("unknown username or wrong password: %w", models.ErrAuth)
	}
	if err != nil {
		return nil, err
	}
	// Plaintext comparison matches the stored credential format; see the
	// known-weakness note in DESIGN.md.
	if ident.Password != password {
		return nil, fmt.Errorf("unknown username or wrong password: %w", models.ErrAuth)
	}
	return ident, nil
}

func (s *identityService) ListAll(ctx context.Context) ([]models.UserInfo, error) {
	idents, err := s.store.Identities(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserInfo, 0, len(idents))
	for i := range idents {
		out = append(out, idents[i].Public())
	}
	return out, nil
}

func (s *identityService) Delete(ctx context.Context, id int64) error {
	// Two-phase cascade: the identity first, then its score events. If the
	// second phase fails we are left with orphaned events referencing a
	// missing identity; reads skip those rather than crash, so the failure
	// is logged and not surfaced.
	if err := s.store.DeleteIdentity(ctx, id); err != nil {
		return err
	}

	removed, err := s.store.DeleteScoresByUser(ctx, id)
	if err != nil {
		s.logger.Warnw("cascade delete of score events failed, ledger may hold orphans",
			"id", id, "error", err)
		return nil
	}

	s.logger.Infow("identity deleted", "id", id, "scoresRemoved", removed)
	return nil
}

func (s *identityService) EnsureAdmin(ctx context.Context) error {
	_, err := s.store.IdentityByUsername(ctx, DefaultAdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	_, err = s.store.CreateIdentity(ctx, DefaultAdminUsername, DefaultAdminPassword, true)
	if errors.Is(err, models.ErrConflict) {
		return nil
	}
	if err != nil {
		return err
	}
	s.logger.Infow("default admin account created", "username", DefaultAdminUsername)
	return nil
}
