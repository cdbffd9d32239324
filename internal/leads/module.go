// Package leads provides the lead lifecycle and assignment bounded context.
package leads

import (
	"academy_crm_backend/internal/events"
	apphttp "academy_crm_backend/internal/http"
	"academy_crm_backend/internal/leads/handler"
	"academy_crm_backend/internal/leads/repository"
	"academy_crm_backend/internal/leads/service"
	"academy_crm_backend/platform/config"
	"academy_crm_backend/platform/logger"
	"academy_crm_backend/platform/phone"
	"academy_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the leads repository, service and handler together and
// implements http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.LeadsConfig, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, phone.NewNormalizer(cfg.GetPhoneRegion()), log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

func (m *Module) Name() string { return "leads" }

// Service exposes the engine for other modules (targets, notifications).
func (m *Module) Service() *service.Service { return m.service }

// Repository exposes the data layer for cross-module aggregation queries.
func (m *Module) Repository() *repository.Repository { return m.repo }

// RegisterRoutes mounts lead routes: authenticated CRUD under
// /api/v1/leads, import under /api/v1/admin and the public intake form
// under /api/v1/public with the stricter limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
	m.handler.RegisterAdminRoutes(ctx.Admin)

	public := ctx.Public.Group("")
	public.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterPublicRoutes(public)
}
