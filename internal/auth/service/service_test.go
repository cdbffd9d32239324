package service

import (
	"context"
	"testing"
	"time"

	"academy_crm_backend/internal/auth/password"
	"academy_crm_backend/internal/auth/repository"
	"academy_crm_backend/internal/auth/transport"
	"academy_crm_backend/platform/apperr"
	"academy_crm_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type fakeUserStore struct {
	users map[string]repository.User
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	user, ok := f.users[email]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration { return time.Hour }

func newAuthService(t *testing.T, status string) (*Service, repository.User) {
	t.Helper()

	hash, err := password.Hash("correct-horse-battery")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	user := repository.User{
		ID:           uuid.New(),
		Email:        "sales@example.com",
		PasswordHash: hash,
		FullName:     "Sales Person",
		Role:         "sales_person",
		Status:       status,
	}

	store := &fakeUserStore{users: map[string]repository.User{user.Email: user}}
	return New(store, testConfig{}, logger.New("test")), user
}

func TestLogin_IssuesAccessToken(t *testing.T) {
	svc, user := newAuthService(t, "active")

	resp, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "sales@example.com",
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.User.ID != user.ID {
		t.Fatalf("unexpected user in response: %s", resp.User.ID)
	}
	if resp.ExpiresIn != 3600 {
		t.Fatalf("expected expiresIn 3600, got %d", resp.ExpiresIn)
	}

	parsed, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}

	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != user.ID.String() {
		t.Fatalf("wrong sub claim: %v", claims["sub"])
	}
	if claims["role"] != "sales_person" {
		t.Fatalf("wrong role claim: %v", claims["role"])
	}
	if claims["type"] != "access" {
		t.Fatalf("wrong type claim: %v", claims["type"])
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthService(t, "active")

	_, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "sales@example.com",
		Password: "wrong",
	})
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogin_DeactivatedUserRejected(t *testing.T) {
	svc, _ := newAuthService(t, "deactivated")

	_, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "sales@example.com",
		Password: "correct-horse-battery",
	})
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized for deactivated account, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newAuthService(t, "active")

	_, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-horse-battery",
	})
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
