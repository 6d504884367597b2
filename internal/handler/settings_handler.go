package handler

import (
	"net/http"

	"backoffice/internal/access"
	"backoffice/internal/middleware"
	"backoffice/internal/service"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

// SettingsHandler serves the dictionary admin page: every lookup table the
// dropdowns are built from, editable in one place.
type SettingsHandler struct {
	gate    *access.Gate
	service *service.SettingsService
}

func NewSettingsHandler(gate *access.Gate, svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{gate: gate, service: svc}
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/settings", middleware.RequireAuth())
	{
		group.GET("", middleware.RequirePermission(h.gate, access.ResourceSettings, access.ActionView), h.List)
		group.POST("/:dict", middleware.RequirePermission(h.gate, access.ResourceSettings, access.ActionCreate), h.Create)
		group.PUT("/:dict", middleware.RequirePermission(h.gate, access.ResourceSettings, access.ActionEdit), h.Update)
		group.DELETE("/:dict", middleware.RequirePermission(h.gate, access.ResourceSettings, access.ActionDelete), h.Delete)
	}
}

func (h *SettingsHandler) List(c *gin.Context) {
	dictionaries, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List(dictionaries))
}

func (h *SettingsHandler) Create(c *gin.Context) {
	fields, ok := bindPayload(c)
	if !ok {
		return
	}
	id, err := h.service.Create(c.Request.Context(), c.Param("dict"), fields)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Created("record created", id))
}

func (h *SettingsHandler) Update(c *gin.Context) {
	fields, ok := bindPayload(c)
	if !ok {
		return
	}
	id, ok := extractID(c, fields)
	if !ok {
		return
	}
	if err := h.service.Update(c.Request.Context(), c.Param("dict"), id, fields); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("record updated"))
}

func (h *SettingsHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("dict"), id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("record deleted"))
}
