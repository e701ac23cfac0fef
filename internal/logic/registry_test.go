package logic

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/arcadehub/leaderboard-api/internal/models"
)

func TestCreateOrGet(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	svc := NewIdentityService(st, zap.NewNop())

	first, err := svc.CreateOrGet(ctx, "alice")
	if err != nil {
		t.Fatalf("CreateOrGet() error = %v", err)
	}
	if first.Username != "alice" || first.IsAdmin {
		t.Errorf("CreateOrGet() = %+v, want non-admin alice", first)
	}

	// Same username resolves to the same identity, not a new one.
	second, err := svc.CreateOrGet(ctx, "alice")
	if err != nil {
		t.Fatalf("CreateOrGet() second call error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("CreateOrGet() second call id = %d, want %d", second.ID, first.ID)
	}

	// Whitespace is trimmed before the lookup.
	third, err := svc.CreateOrGet(ctx, "  alice  ")
	if err != nil {
		t.Fatalf("CreateOrGet() trimmed call error = %v", err)
	}
	if third.ID != first.ID {
		t.Errorf("CreateOrGet() trimmed call id = %d, want %d", third.ID, first.ID)
	}
}

func TestCreateOrGetEmptyUsername(t *testing.T) {
	svc := NewIdentityService(newMemStore(), zap.NewNop())

	for _, username := range []string{"", "   "} {
		if _, err := svc.CreateOrGet(context.Background(), username); !errors.Is(err, models.ErrValidation) {
			t.Errorf("CreateOrGet(%q) error = %v, want ErrValidation", username, err)
		}
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "Valid", username: "carol", password: "secret1"},
		{name: "Short username", username: "ab", password: "secret1", wantErr: models.ErrValidation},
		{name: "Short password", username: "carol", password: "12345", wantErr: models.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewIdentityService(newMemStore(), zap.NewNop())
			ident, err := svc.Register(context.Background(), tt.username, tt.password, false)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if ident.Username != tt.username {
				t.Errorf("Register() username = %q, want %q", ident.Username, tt.username)
			}
		})
	}
}

func TestRegisterDuplicatePreservesOriginal(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	svc := NewIdentityService(st, zap.NewNop())

	if _, err := svc.Register(ctx, "carol", "original1", false); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := svc.Register(ctx, "carol", "different1", false); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("Register() duplicate error = %v, want ErrConflict", err)
	}

	// The first credential still authenticates; the rejected one does not.
	if _, err := svc.Authenticate(ctx, "carol", "original1"); err != nil {
		t.Errorf("Authenticate() with original password error = %v", err)
	}
	if _, err := svc.Authenticate(ctx, "carol", "different1"); !errors.Is(err, models.ErrAuth) {
		t.Errorf("Authenticate() with rejected password error = %v, want ErrAuth", err)
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	svc := NewIdentityService(st, zap.NewNop())

	if _, err := svc.Register(ctx, "dave", "hunter2x", false); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "Valid credentials", username: "dave", password: "hunter2x"},
		{name: "Wrong password", username: "dave", password: "wrong", wantErr: models.ErrAuth},
		{name: "Unknown username", username: "nobody", password: "hunter2x", wantErr: models.ErrAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ident, err := svc.Authenticate(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Authenticate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if ident.Username != tt.username {
				t.Errorf("Authenticate() username = %q, want %q", ident.Username, tt.username)
			}
		})
	}
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	svc := NewIdentityService(st, zap.NewNop())

	alice, _ := svc.CreateOrGet(ctx, "alice")
	bob, _ := svc.CreateOrGet(ctx, "bob")
	st.AppendScore(ctx, alice.ID, "puzzle", 500, "")
	st.AppendScore(ctx, alice.ID, "memory-cards", 200, "")
	st.AppendScore(ctx, bob.ID, "puzzle", 700, "")

	if err := svc.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := st.IdentityByID(ctx, alice.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("IdentityByID after delete error = %v, want ErrNotFound", err)
	}
	scores, _ := st.ScoresByUser(ctx, alice.ID)
	if len(scores) != 0 {
		t.Errorf("alice still has %d score events after delete", len(scores))
	}
	remaining, _ := st.ScoresByUser(ctx, bob.ID)
	if len(remaining) != 1 {
		t.Errorf("bob's events affected by cascade: got %d, want 1", len(remaining))
	}

	// Second delete of the same id reports not found.
	if err := svc.Delete(ctx, alice.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Delete() second call error = %v, want ErrNotFound", err)
	}
}

func TestDeleteToleratesScorePhaseFailure(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	svc := NewIdentityService(st, zap.NewNop())

	alice, _ := svc.CreateOrGet(ctx, "alice")
	st.AppendScore(ctx, alice.ID, "puzzle", 500, "")
	st.FailDeleteScores = errors.New("disk gone")

	// The identity is gone and the failure of the second phase is not
	// surfaced to the caller.
	if err := svc.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("Delete() error = %v, want nil", err)
	}
	if _, err := st.IdentityByID(ctx, alice.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("identity survived delete: %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	svc := NewIdentityService(st, zap.NewNop())

	if err := svc.EnsureAdmin(ctx); err != nil {
		t.Fatalf("EnsureAdmin() error = %v", err)
	}

	admin, err := st.IdentityByUsername(ctx, DefaultAdminUsername)
	if err != nil {
		t.Fatalf("admin missing after EnsureAdmin: %v", err)
	}
	if !admin.IsAdmin || admin.Password != DefaultAdminPassword {
		t.Errorf("admin = %+v, want isAdmin with default password", admin)
	}

	// Idempotent: a second call leaves the existing account alone.
	if err := svc.EnsureAdmin(ctx); err != nil {
		t.Fatalf("EnsureAdmin() second call error = %v", err)
	}
	idents, _ := st.Identities(ctx)
	if len(idents) != 1 {
		t.Errorf("EnsureAdmin() created duplicate admin: %d identities", len(idents))
	}
}
