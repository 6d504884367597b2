package handler

import (
	"net/http"
	"strconv"
	"time"

	"backoffice/internal/access"
	"backoffice/internal/middleware"
	"backoffice/internal/service"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

// SalesHandler serves two views over the same data: the editable per-manager
// monthly rows (sales_data resource) and the aggregated yearly report
// (sales_report resource), each with its own permission row.
type SalesHandler struct {
	gate    *access.Gate
	service *service.SalesService
}

func NewSalesHandler(gate *access.Gate, svc *service.SalesService) *SalesHandler {
	return &SalesHandler{gate: gate, service: svc}
}

func (h *SalesHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/sales-report", middleware.RequireAuth())
	{
		group.GET("", middleware.RequirePermission(h.gate, access.ResourceSalesData, access.ActionView), h.List)
		group.POST("", middleware.RequirePermission(h.gate, access.ResourceSalesData, access.ActionCreate), h.Create)
		group.PUT("", middleware.RequirePermission(h.gate, access.ResourceSalesData, access.ActionEdit), h.Update)
		group.DELETE("", middleware.RequirePermission(h.gate, access.ResourceSalesData, access.ActionDelete), h.Delete)

		group.GET("/summary", middleware.RequirePermission(h.gate, access.ResourceSalesReport, access.ActionView), h.Summary)
		group.POST("/recalculate", middleware.RequirePermission(h.gate, access.ResourceSalesData, access.ActionEdit), h.Recalculate)
	}
}

func (h *SalesHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	listing, err := h.service.List(ctx)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	if identity, ok := access.FromContext(ctx); ok {
		h.gate.RedactForRole(ctx, identity.RoleID, access.ResourceSalesData, listing.Rows)
	}
	c.JSON(http.StatusOK, response.ListWithOptions(listing.Rows, listing.Options, listing.ActiveOptions))
}

func (h *SalesHandler) Create(c *gin.Context) {
	fields, ok := bindPayload(c)
	if !ok {
		return
	}
	id, err := h.service.Create(c.Request.Context(), fields)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Created("sales row created", id))
}

func (h *SalesHandler) Update(c *gin.Context) {
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
	c.JSON(http.StatusOK, response.OK("sales row updated"))
}

func (h *SalesHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("sales row deleted"))
}

// Summary serves the aggregated per-manager report for one year.
func (h *SalesHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()
	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 2000 || v > 2100 {
			c.JSON(http.StatusBadRequest, response.Error("invalid year"))
			return
		}
		year = v
	}

	rows, err := h.service.Report(ctx, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(err.Error()))
		return
	}

	if identity, ok := access.FromContext(ctx); ok {
		h.gate.RedactForRole(ctx, identity.RoleID, access.ResourceSalesReport, rows)
	}
	c.JSON(http.StatusOK, response.List(rows))
}

// Recalculate refreshes one month of sales rows from the contracts table and
// the CRM. Per-manager failures are returned, not swallowed.
func (h *SalesHandler) Recalculate(c *gin.Context) {
	year, month, ok := yearMonthQuery(c)
	if !ok {
		return
	}

	result, err := h.service.Recalculate(c.Request.Context(), year, month)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "sales report recalculated",
		"processed": result.Processed,
		"errors":    result.Errors,
	})
}
