package handler

import (
	"net/http"

	"backoffice/internal/access"
	"backoffice/internal/middleware"
	"backoffice/internal/service"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

type BrigadeHandler struct {
	gate    *access.Gate
	service *service.BrigadeService
}

func NewBrigadeHandler(gate *access.Gate, svc *service.BrigadeService) *BrigadeHandler {
	return &BrigadeHandler{gate: gate, service: svc}
}

func (h *BrigadeHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/brigades", middleware.RequireAuth())
	{
		group.GET("", middleware.RequirePermission(h.gate, access.ResourceBrigades, access.ActionView), h.List)
		group.POST("", middleware.RequirePermission(h.gate, access.ResourceBrigades, access.ActionCreate), h.Create)
		group.PUT("", middleware.RequirePermission(h.gate, access.ResourceBrigades, access.ActionEdit), h.Update)
		group.DELETE("", middleware.RequirePermission(h.gate, access.ResourceBrigades, access.ActionDelete), h.Delete)
	}
}

func (h *BrigadeHandler) List(c *gin.Context) {
	listing, err := h.service.List(c.Request.Context())
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.ListWithOptions(listing.Rows, listing.Options, listing.ActiveOptions))
}

func (h *BrigadeHandler) Create(c *gin.Context) {
	fields, ok := bindPayload(c)
	if !ok {
		return
	}
	id, err := h.service.Create(c.Request.Context(), fields)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Created("brigade created", id))
}

func (h *BrigadeHandler) Update(c *gin.Context) {
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
	c.JSON(http.StatusOK, response.OK("brigade updated"))
}

// Delete deactivates the brigade; historic stages keep their reference.
func (h *BrigadeHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("brigade deactivated"))
}
