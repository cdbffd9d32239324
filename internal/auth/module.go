// Package auth provides the authentication bounded context.
package auth

import (
	"academy_crm_backend/internal/auth/handler"
	"academy_crm_backend/internal/auth/repository"
	"academy_crm_backend/internal/auth/service"
	apphttp "academy_crm_backend/internal/http"
	"academy_crm_backend/platform/config"
	"academy_crm_backend/platform/logger"
	"academy_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string { return "auth" }

// RegisterRoutes mounts login under the public group with the stricter
// limiter and /auth/me under the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.Public.Group("/auth")
	public.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterPublicRoutes(public)

	m.handler.RegisterRoutes(ctx.Protected.Group("/auth"))
}
