package handler

import (
	"net/http"

	"backoffice/internal/access"
	"backoffice/internal/middleware"
	"backoffice/internal/service"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

type ContractHandler struct {
	gate    *access.Gate
	service *service.ContractService
}

func NewContractHandler(gate *access.Gate, svc *service.ContractService) *ContractHandler {
	return &ContractHandler{gate: gate, service: svc}
}

func (h *ContractHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/contracts", middleware.RequireAuth())
	{
		group.GET("", middleware.RequirePermission(h.gate, access.ResourceContracts, access.ActionView), h.List)
		group.POST("", middleware.RequirePermission(h.gate, access.ResourceContracts, access.ActionCreate), h.Create)
		group.PUT("", middleware.RequirePermission(h.gate, access.ResourceContracts, access.ActionEdit), h.Update)
		group.DELETE("", middleware.RequirePermission(h.gate, access.ResourceContracts, access.ActionDelete), h.Delete)
	}
}

func (h *ContractHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	listing, err := h.service.List(ctx)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	if identity, ok := access.FromContext(ctx); ok {
		h.gate.RedactForRole(ctx, identity.RoleID, access.ResourceContracts, listing.Rows)
	}
	c.JSON(http.StatusOK, response.ListWithOptions(listing.Rows, listing.Options, listing.ActiveOptions))
}

func (h *ContractHandler) Create(c *gin.Context) {
	fields, ok := bindPayload(c)
	if !ok {
		return
	}
	id, err := h.service.Create(c.Request.Context(), fields)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Created("contract created", id))
}

func (h *ContractHandler) Update(c *gin.Context) {
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
	c.JSON(http.StatusOK, response.OK("contract updated"))
}

func (h *ContractHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("contract deleted"))
}
