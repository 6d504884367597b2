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

type PlanFactHandler struct {
	gate    *access.Gate
	service *service.PlanFactService
}

func NewPlanFactHandler(gate *access.Gate, svc *service.PlanFactService) *PlanFactHandler {
	return &PlanFactHandler{gate: gate, service: svc}
}

func (h *PlanFactHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/planfact", middleware.RequireAuth())
	{
		group.GET("", middleware.RequirePermission(h.gate, access.ResourcePlanfact, access.ActionView), h.List)
		group.POST("", middleware.RequirePermission(h.gate, access.ResourcePlanfact, access.ActionCreate), h.Create)
		group.PUT("", middleware.RequirePermission(h.gate, access.ResourcePlanfact, access.ActionEdit), h.Update)
		group.DELETE("", middleware.RequirePermission(h.gate, access.ResourcePlanfact, access.ActionDelete), h.Delete)
		group.POST("/recalculate", middleware.RequirePermission(h.gate, access.ResourcePlanfact, access.ActionEdit), h.Recalculate)
	}
}

func (h *PlanFactHandler) List(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context())
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List(rows))
}

func (h *PlanFactHandler) Create(c *gin.Context) {
	fields, ok := bindPayload(c)
	if !ok {
		return
	}
	id, err := h.service.Create(c.Request.Context(), fields)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Created("planfact row created", id))
}

func (h *PlanFactHandler) Update(c *gin.Context) {
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
	c.JSON(http.StatusOK, response.OK("planfact row updated"))
}

func (h *PlanFactHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("planfact row deleted"))
}

// Recalculate re-derives one month's fact amount from the contracts table.
func (h *PlanFactHandler) Recalculate(c *gin.Context) {
	year, month, ok := yearMonthQuery(c)
	if !ok {
		return
	}

	value, err := h.service.Recalculate(c.Request.Context(), year, month)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "planfact recalculated",
		"fact_amount": value,
	})
}

// yearMonthQuery parses ?year= and ?month=, defaulting to the current month.
func yearMonthQuery(c *gin.Context) (int, int, bool) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 2000 || v > 2100 {
			c.JSON(http.StatusBadRequest, response.Error("invalid year"))
			return 0, 0, false
		}
		year = v
	}
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			c.JSON(http.StatusBadRequest, response.Error("invalid month"))
			return 0, 0, false
		}
		month = v
	}
	return year, month, true
}
