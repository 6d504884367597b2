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

type DashboardHandler struct {
	gate    *access.Gate
	service *service.DashboardService
}

func NewDashboardHandler(gate *access.Gate, svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{gate: gate, service: svc}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", middleware.RequireAuth(),
		middleware.RequirePermission(h.gate, access.ResourceDashboard, access.ActionView), h.Get)
}

func (h *DashboardHandler) Get(c *gin.Context) {
	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 2000 || v > 2100 {
			c.JSON(http.StatusBadRequest, response.Error("invalid year"))
			return
		}
		year = v
	}

	data, err := h.service.Get(c.Request.Context(), year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.List(data))
}
