package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
	pkgAuth "github.com/polkiloo/procurement/internal/pkg/auth"
	testhelpers "github.com/polkiloo/procurement/internal/test"
)

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(id int64) (string, error) { return fmt.Sprintf("token-%d", id), nil },
		ParseFn: func(token string) (int64, error) {
			var id int64
			if _, err := fmt.Sscanf(token, "token-%d", &id); err != nil {
				return 0, pkgAuth.ErrInvalidToken
			}
			return id, nil
		},
	}
}

func newAuthStore() *testhelpers.MemoryStore {
	store := testhelpers.NewMemoryStore()
	area := int64(4)
	store.AddUser(&model.User{ID: 1, Login: "ana", PasswordHash: "hash:secret", Role: "requester", AreaID: &area})
	return store
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	store := newAuthStore()
	uc := NewAuthUseCase(store, testhelpers.HasherStub{}, newStrategyStub())

	usr, token, err := uc.Authenticate(context.Background(), "  ana ", "secret")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if usr.ID != 1 || token != "token-1" {
		t.Fatalf("unexpected result %+v %q", usr, token)
	}

	cases := []struct {
		name     string
		login    string
		password string
	}{
		{"empty login", " ", "secret"},
		{"empty password", "ana", ""},
		{"unknown login", "bob", "secret"},
		{"wrong password", "ana", "guess"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := uc.Authenticate(context.Background(), tc.login, tc.password); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
				t.Fatalf("expected invalid credentials, got %v", err)
			}
		})
	}
}

func TestAuthUseCaseAuthenticateErrors(t *testing.T) {
	store := newAuthStore()
	repoErr := errors.New("db down")
	store.UserErr = repoErr
	uc := NewAuthUseCase(store, testhelpers.HasherStub{}, newStrategyStub())
	if _, _, err := uc.Authenticate(context.Background(), "ana", "secret"); !errors.Is(err, repoErr) {
		t.Fatalf("expected repository error, got %v", err)
	}

	issueErr := errors.New("sign failed")
	uc = NewAuthUseCase(newAuthStore(), testhelpers.HasherStub{}, testhelpers.StrategyStub{
		IssueFn: func(int64) (string, error) { return "", issueErr },
	})
	if _, _, err := uc.Authenticate(context.Background(), "ana", "secret"); !errors.Is(err, issueErr) {
		t.Fatalf("expected issue error, got %v", err)
	}
}

func TestAuthUseCaseResolveIdentity(t *testing.T) {
	store := newAuthStore()
	uc := NewAuthUseCase(store, testhelpers.HasherStub{}, newStrategyStub())

	identity, err := uc.ResolveIdentity(context.Background(), "token-1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if identity.UserID != 1 || identity.Role != "requester" || identity.AreaID == nil || *identity.AreaID != 4 {
		t.Fatalf("unexpected identity %+v", identity)
	}

	if _, err := uc.ResolveIdentity(context.Background(), ""); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Fatalf("expected invalid token for empty value, got %v", err)
	}
	if _, err := uc.ResolveIdentity(context.Background(), "garbage"); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Fatalf("expected parse failure, got %v", err)
	}
	if _, err := uc.ResolveIdentity(context.Background(), "token-9"); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Fatalf("expected unknown user to be rejected, got %v", err)
	}

	repoErr := errors.New("db down")
	store.UserErr = repoErr
	if _, err := uc.ResolveIdentity(context.Background(), "token-1"); !errors.Is(err, repoErr) {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestAuthUseCaseResolveIdentityReflectsRoleChange(t *testing.T) {
	store := newAuthStore()
	uc := NewAuthUseCase(store, testhelpers.HasherStub{}, newStrategyStub())

	store.AddUser(&model.User{ID: 1, Login: "ana", PasswordHash: "hash:secret", Role: "approver"})
	identity, err := uc.ResolveIdentity(context.Background(), "token-1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if identity.Role != "approver" || identity.AreaID != nil {
		t.Fatalf("expected reloaded role and area, got %+v", identity)
	}
}
