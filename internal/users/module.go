// Package users provides the user management bounded context.
package users

import (
	"academy_crm_backend/internal/events"
	apphttp "academy_crm_backend/internal/http"
	"academy_crm_backend/internal/users/handler"
	"academy_crm_backend/internal/users/repository"
	"academy_crm_backend/internal/users/service"
	"academy_crm_backend/platform/logger"
	"academy_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string { return "users" }

// Service exposes user management for the composition root (EnsureAdmin)
// and the notification fan-out.
func (m *Module) Service() *service.Service { return m.service }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin.Group("/users"))
}
