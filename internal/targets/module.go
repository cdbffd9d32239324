// Package targets provides monthly sales target dashboards.
package targets

import (
	apphttp "academy_crm_backend/internal/http"
	"academy_crm_backend/internal/targets/handler"
	"academy_crm_backend/internal/targets/service"
)

type Module struct {
	handler *handler.Handler
}

// NewModule wires the target service against the leads aggregation queries
// and the user directory.
func NewModule(leads service.LeadAggregator, users service.UserDirectory) *Module {
	svc := service.New(leads, users)
	return &Module{handler: handler.New(svc)}
}

func (m *Module) Name() string { return "targets" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/targets"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/targets"))
}
