package service

import (
	"context"
	"testing"
	"time"

	"academy_crm_backend/internal/auth/password"
	"academy_crm_backend/internal/events"
	"academy_crm_backend/internal/users/repository"
	"academy_crm_backend/internal/users/transport"
	"academy_crm_backend/platform/apperr"
	"academy_crm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	users map[uuid.UUID]repository.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[uuid.UUID]repository.User{}}
}

func (f *fakeStore) Create(_ context.Context, params repository.CreateUserParams) (repository.User, error) {
	for _, user := range f.users {
		if user.Email == params.Email {
			return repository.User{}, repository.ErrEmailTaken
		}
	}
	user := repository.User{
		ID:            uuid.New(),
		Email:         params.Email,
		PasswordHash:  params.PasswordHash,
		FullName:      params.FullName,
		Role:          params.Role,
		Status:        "active",
		MonthlyTarget: params.MonthlyTarget,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	user, ok := f.users[id]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (repository.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (f *fakeStore) List(_ context.Context) ([]repository.User, error) {
	var out []repository.User
	for _, user := range f.users {
		out = append(out, user)
	}
	return out, nil
}

func (f *fakeStore) ListActiveByRole(_ context.Context, role string) ([]repository.User, error) {
	var out []repository.User
	for _, user := range f.users {
		if user.Status == "active" && user.Role == role {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, id uuid.UUID, params repository.UpdateUserParams) (repository.User, error) {
	user, ok := f.users[id]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	if params.FullName != nil {
		user.FullName = *params.FullName
	}
	if params.Role != nil {
		user.Role = *params.Role
	}
	if params.MonthlyTarget != nil {
		user.MonthlyTarget = *params.MonthlyTarget
	}
	if params.PasswordHash != nil {
		user.PasswordHash = *params.PasswordHash
	}
	f.users[id] = user
	return user, nil
}

func (f *fakeStore) Deactivate(_ context.Context, id uuid.UUID) (repository.User, error) {
	user, ok := f.users[id]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	user.Status = "deactivated"
	f.users[id] = user
	return user, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

type bootstrapConfig struct {
	email, pass, name string
}

func (c bootstrapConfig) GetAdminEmail() string    { return c.email }
func (c bootstrapConfig) GetAdminPassword() string { return c.pass }
func (c bootstrapConfig) GetAdminFullName() string { return c.name }

func newTestService() (*Service, *fakeStore, *recordingBus) {
	store := newFakeStore()
	bus := &recordingBus{}
	return New(store, bus, logger.New("test")), store, bus
}

func TestCreate_HashesPasswordAndRejectsDuplicates(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, transport.CreateUserRequest{
		Email:    "Sales@Example.com",
		Password: "super-secret-1",
		FullName: "Sales Person",
		Role:     RoleSalesPerson,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Email != "sales@example.com" {
		t.Fatalf("email not normalized: %s", created.Email)
	}
	if created.Status != "active" {
		t.Fatalf("expected active status, got %s", created.Status)
	}

	stored := store.users[created.ID]
	if stored.PasswordHash == "super-secret-1" {
		t.Fatal("password stored in plain text")
	}
	if err := password.Compare(stored.PasswordHash, "super-secret-1"); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}

	_, err = svc.Create(ctx, transport.CreateUserRequest{
		Email:    "sales@example.com",
		Password: "another-secret",
		FullName: "Duplicate",
		Role:     RoleSalesPerson,
	})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestDeactivate_PublishesEventAndKeepsRecord(t *testing.T) {
	svc, store, bus := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, transport.CreateUserRequest{
		Email:    "sales@example.com",
		Password: "super-secret-1",
		FullName: "Sales Person",
		Role:     RoleSalesPerson,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	admin := uuid.New()
	deactivated, err := svc.Deactivate(ctx, admin, created.ID)
	if err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if deactivated.Status != "deactivated" {
		t.Fatalf("expected deactivated, got %s", deactivated.Status)
	}

	if _, ok := store.users[created.ID]; !ok {
		t.Fatal("user record was removed instead of deactivated")
	}

	if len(bus.published) != 1 || bus.published[0].EventName() != "users.user.deactivated" {
		t.Fatalf("expected a deactivation event, got %v", bus.published)
	}
}

func TestDeactivate_SelfIsRejected(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(context.Background(), transport.CreateUserRequest{
		Email:    "admin@example.com",
		Password: "super-secret-1",
		FullName: "Admin",
		Role:     RoleAdmin,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.Deactivate(context.Background(), created.ID, created.ID)
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEnsureAdmin_IdempotentBootstrap(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	cfg := bootstrapConfig{email: "root@example.com", pass: "bootstrap-pass", name: "Root"}

	if err := svc.EnsureAdmin(ctx, cfg); err != nil {
		t.Fatalf("first bootstrap failed: %v", err)
	}
	if len(store.users) != 1 {
		t.Fatalf("expected 1 user after bootstrap, got %d", len(store.users))
	}

	if err := svc.EnsureAdmin(ctx, cfg); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
	if len(store.users) != 1 {
		t.Fatalf("bootstrap is not idempotent: %d users", len(store.users))
	}

	for _, user := range store.users {
		if user.Role != RoleAdmin {
			t.Fatalf("bootstrap user should be admin, got %s", user.Role)
		}
	}
}

func TestEnsureAdmin_NoopWithoutCredentials(t *testing.T) {
	svc, store, _ := newTestService()

	if err := svc.EnsureAdmin(context.Background(), bootstrapConfig{}); err != nil {
		t.Fatalf("expected noop, got %v", err)
	}
	if len(store.users) != 0 {
		t.Fatalf("expected no users, got %d", len(store.users))
	}
}
