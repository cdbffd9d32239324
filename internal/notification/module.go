// Package notification provides in-app notifications with email fan-out.
package notification

import (
	"academy_crm_backend/internal/events"
	apphttp "academy_crm_backend/internal/http"
	"academy_crm_backend/internal/notification/handler"
	"academy_crm_backend/internal/notification/repository"
	"academy_crm_backend/internal/notification/service"
	"academy_crm_backend/internal/scheduler"
	"academy_crm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

// NewModule wires the notification store, event subscriptions and routes.
// enqueuer may be nil when no Redis queue is configured.
func NewModule(pool *pgxpool.Pool, bus events.Bus, enqueuer scheduler.EmailEnqueuer, users UserDirectory, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), enqueuer, log)
	Subscribe(bus, svc, users, log)

	return &Module{handler: handler.New(svc)}
}

func (m *Module) Name() string { return "notifications" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/notifications"))
}
