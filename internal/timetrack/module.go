// Package timetrack provides work session tracking.
package timetrack

import (
	apphttp "academy_crm_backend/internal/http"
	"academy_crm_backend/internal/timetrack/handler"
	"academy_crm_backend/internal/timetrack/repository"
	"academy_crm_backend/internal/timetrack/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool) *Module {
	svc := service.New(repository.New(pool))
	return &Module{handler: handler.New(svc)}
}

func (m *Module) Name() string { return "timetrack" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/time-sessions"))
	m.handler.RegisterAdminRoutes(ctx.Admin)
}
