package handler

import (
	"net/http"

	"backoffice/internal/access"
	"backoffice/internal/middleware"
	"backoffice/internal/service"
	"backoffice/pkg/pagination"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	gate    *access.Gate
	service *service.AuditService
}

func NewAuditHandler(gate *access.Gate, svc *service.AuditService) *AuditHandler {
	return &AuditHandler{gate: gate, service: svc}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit", middleware.RequireAuth(),
		middleware.RequirePermission(h.gate, access.ResourceAccess, access.ActionView), h.List)
}

func (h *AuditHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	entries, total, err := h.service.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	})
}
