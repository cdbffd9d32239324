package handler

import (
	"academy_crm_backend/internal/targets/service"
	"academy_crm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the personal target view.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/progress", h.MyProgress)
}

// RegisterAdminRoutes mounts the team dashboard.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.TeamProgress)
}

func (h *Handler) MyProgress(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	progress, err := h.svc.MyProgress(c.Request.Context(), id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, progress)
}

func (h *Handler) TeamProgress(c *gin.Context) {
	progress, err := h.svc.TeamProgress(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, progress)
}
