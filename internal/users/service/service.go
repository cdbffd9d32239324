// Package service implements admin-side user account management.
package service

import (
	"context"
	"errors"
	"strings"

	"academy_crm_backend/internal/auth/password"
	"academy_crm_backend/internal/events"
	"academy_crm_backend/internal/users/repository"
	"academy_crm_backend/internal/users/transport"
	"academy_crm_backend/platform/apperr"
	"academy_crm_backend/platform/config"
	"academy_crm_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	RoleAdmin       = "admin"
	RoleSalesPerson = "sales_person"
)

// Store is the persistence interface of the user service.
type Store interface {
	Create(ctx context.Context, params repository.CreateUserParams) (repository.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.User, error)
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	List(ctx context.Context) ([]repository.User, error)
	ListActiveByRole(ctx context.Context, role string) ([]repository.User, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateUserParams) (repository.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) (repository.User, error)
}

type Service struct {
	store Store
	bus   events.Bus
	log   *logger.Logger
}

func New(store Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, bus: bus, log: log}
}

func (s *Service) Create(ctx context.Context, req transport.CreateUserRequest) (transport.UserResponse, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.UserResponse{}, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	user, err := s.store.Create(ctx, repository.CreateUserParams{
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:  hash,
		FullName:      strings.TrimSpace(req.FullName),
		Role:          req.Role,
		MonthlyTarget: req.MonthlyTarget,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return transport.UserResponse{}, apperr.Conflict("email already in use")
		}
		return transport.UserResponse{}, apperr.Store("users.create", err)
	}

	return toUserResponse(user), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.UserResponse, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.UserResponse{}, apperr.NotFound("user not found")
		}
		return transport.UserResponse{}, apperr.Store("users.get", err)
	}
	return toUserResponse(user), nil
}

func (s *Service) List(ctx context.Context) (transport.UserListResponse, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return transport.UserListResponse{}, apperr.Store("users.list", err)
	}

	items := make([]transport.UserResponse, len(users))
	for i, user := range users {
		items[i] = toUserResponse(user)
	}
	return transport.UserListResponse{Items: items, Total: len(items)}, nil
}

// ActiveSalesPeople returns active accounts with the sales role. Used by the
// notification fan-out when a public lead arrives.
func (s *Service) ActiveSalesPeople(ctx context.Context) ([]transport.UserResponse, error) {
	users, err := s.store.ListActiveByRole(ctx, RoleSalesPerson)
	if err != nil {
		return nil, apperr.Store("users.active_sales", err)
	}

	items := make([]transport.UserResponse, len(users))
	for i, user := range users {
		items[i] = toUserResponse(user)
	}
	return items, nil
}

// ActiveAdmins returns active accounts with the admin role.
func (s *Service) ActiveAdmins(ctx context.Context) ([]transport.UserResponse, error) {
	users, err := s.store.ListActiveByRole(ctx, RoleAdmin)
	if err != nil {
		return nil, apperr.Store("users.active_admins", err)
	}

	items := make([]transport.UserResponse, len(users))
	for i, user := range users {
		items[i] = toUserResponse(user)
	}
	return items, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateUserRequest) (transport.UserResponse, error) {
	params := repository.UpdateUserParams{
		FullName:      req.FullName,
		Role:          req.Role,
		MonthlyTarget: req.MonthlyTarget,
	}

	if req.Password != nil {
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return transport.UserResponse{}, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
		}
		params.PasswordHash = &hash
	}

	user, err := s.store.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.UserResponse{}, apperr.NotFound("user not found")
		}
		return transport.UserResponse{}, apperr.Store("users.update", err)
	}
	return toUserResponse(user), nil
}

// Deactivate disables an account. Deactivated users cannot log in or claim
// leads; their existing lead assignments stay untouched. The acting admin
// cannot deactivate their own account.
func (s *Service) Deactivate(ctx context.Context, actorID, id uuid.UUID) (transport.UserResponse, error) {
	if actorID == id {
		return transport.UserResponse{}, apperr.Validation("you cannot deactivate your own account")
	}

	user, err := s.store.Deactivate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.UserResponse{}, apperr.NotFound("user not found")
		}
		return transport.UserResponse{}, apperr.Store("users.deactivate", err)
	}

	s.bus.Publish(ctx, events.UserDeactivated{
		BaseEvent: events.NewBaseEvent(),
		UserID:    user.ID,
		Email:     user.Email,
	})

	return toUserResponse(user), nil
}

// EnsureAdmin creates the bootstrap admin account on first startup. It is a
// no-op when the configured email already exists or no credentials are set.
func (s *Service) EnsureAdmin(ctx context.Context, cfg config.BootstrapConfig) error {
	email := strings.ToLower(strings.TrimSpace(cfg.GetAdminEmail()))
	if email == "" || cfg.GetAdminPassword() == "" {
		return nil
	}

	_, err := s.store.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return apperr.Store("users.ensure_admin", err)
	}

	fullName := cfg.GetAdminFullName()
	if fullName == "" {
		fullName = "Administrator"
	}

	_, err = s.Create(ctx, transport.CreateUserRequest{
		Email:    email,
		Password: cfg.GetAdminPassword(),
		FullName: fullName,
		Role:     RoleAdmin,
	})
	if err != nil {
		return err
	}

	s.log.Info("bootstrap admin created", "email", email)
	return nil
}

func toUserResponse(user repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		FullName:      user.FullName,
		Role:          user.Role,
		Status:        user.Status,
		MonthlyTarget: user.MonthlyTarget,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}
