package handler

import (
	"net/http"

	"backoffice/internal/access"
	"backoffice/internal/middleware"
	"backoffice/internal/sync"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

// SyncHandler triggers the external sync jobs over HTTP. The same jobs run
// from the CLI and the cron schedule.
type SyncHandler struct {
	gate    *access.Gate
	service *sync.Service
}

func NewSyncHandler(gate *access.Gate, svc *sync.Service) *SyncHandler {
	return &SyncHandler{gate: gate, service: svc}
}

func (h *SyncHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/sync", middleware.RequireAuth(),
		middleware.RequirePermission(h.gate, access.ResourceAccess, access.ActionEdit))
	{
		group.POST("/bitrix", h.Bitrix)
		group.POST("/adesk", h.Adesk)
	}
}

func (h *SyncHandler) Bitrix(c *gin.Context) {
	year, month, ok := yearMonthQuery(c)
	if !ok {
		return
	}

	result, err := h.service.RunBitrix(c.Request.Context(), year, month)
	if err != nil {
		c.JSON(http.StatusBadGateway, response.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "bitrix sync finished",
		"processed": result.Processed,
		"errors":    result.Errors,
	})
}

func (h *SyncHandler) Adesk(c *gin.Context) {
	result, err := h.service.RunAdesk(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, response.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "adesk sync finished",
		"processed": result.Processed,
		"errors":    result.Errors,
	})
}
