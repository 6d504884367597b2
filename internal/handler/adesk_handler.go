package handler

import (
	"net/http"

	"backoffice/internal/access"
	"backoffice/internal/middleware"
	"backoffice/internal/service"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdeskHandler exposes the synced finance transactions. The page lives in the
// settings area, so the settings permission row gates it.
type AdeskHandler struct {
	gate    *access.Gate
	service *service.AdeskService
}

func NewAdeskHandler(gate *access.Gate, svc *service.AdeskService) *AdeskHandler {
	return &AdeskHandler{gate: gate, service: svc}
}

func (h *AdeskHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/adesk/transactions", middleware.RequireAuth())
	{
		group.GET("", middleware.RequirePermission(h.gate, access.ResourceSettings, access.ActionView), h.List)
		group.POST("", middleware.RequirePermission(h.gate, access.ResourceSettings, access.ActionCreate), h.Create)
		group.PUT("", middleware.RequirePermission(h.gate, access.ResourceSettings, access.ActionEdit), h.Update)
		group.DELETE("", middleware.RequirePermission(h.gate, access.ResourceSettings, access.ActionDelete), h.Delete)
	}
}

func (h *AdeskHandler) List(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context())
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List(rows))
}

func (h *AdeskHandler) Create(c *gin.Context) {
	fields, ok := bindPayload(c)
	if !ok {
		return
	}
	id, err := h.service.Create(c.Request.Context(), fields)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Created("transaction created", id))
}

func (h *AdeskHandler) Update(c *gin.Context) {
	fields, ok := bindPayload(c)
	if !ok {
		return
	}
	id, ok := extractID(c, fields)
	if !ok {
		return
	}
	if err := h.service.Update(c.Request.Context(), id, fields); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("transaction updated"))
}

func (h *AdeskHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("transaction deleted"))
}
