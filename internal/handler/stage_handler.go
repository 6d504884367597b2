package handler

import (
	"net/http"

	"backoffice/internal/access"
	"backoffice/internal/middleware"
	"backoffice/internal/service"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

type StageHandler struct {
	gate    *access.Gate
	service *service.StageService
}

func NewStageHandler(gate *access.Gate, svc *service.StageService) *StageHandler {
	return &StageHandler{gate: gate, service: svc}
}

func (h *StageHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/stages", middleware.RequireAuth())
	{
		group.GET("", middleware.RequirePermission(h.gate, access.ResourceStages, access.ActionView), h.List)
		group.POST("", middleware.RequirePermission(h.gate, access.ResourceStages, access.ActionCreate), h.Create)
		group.PUT("", middleware.RequirePermission(h.gate, access.ResourceStages, access.ActionEdit), h.Update)
		group.DELETE("", middleware.RequirePermission(h.gate, access.ResourceStages, access.ActionDelete), h.Delete)
	}
}

func (h *StageHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	listing, err := h.service.List(ctx)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	if identity, ok := access.FromContext(ctx); ok {
		h.gate.RedactForRole(ctx, identity.RoleID, access.ResourceStages, listing.Rows)
	}
	c.JSON(http.StatusOK, response.ListWithOptions(listing.Rows, listing.Options, listing.ActiveOptions))
}

func (h *StageHandler) Create(c *gin.Context) {
	fields, ok := bindPayload(c)
	if !ok {
		return
	}
	id, err := h.service.Create(c.Request.Context(), fields)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Created("stage created", id))
}

// Update may transparently write to the parent contract when the edited
// field is contract-owned; the service decides.
func (h *StageHandler) Update(c *gin.Context) {
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
	c.JSON(http.StatusOK, response.OK("stage updated"))
}

func (h *StageHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("stage deleted"))
}
