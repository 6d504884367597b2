package handler

import (
	"errors"
	"net/http"

	"backoffice/internal/access"
	"backoffice/internal/middleware"
	"backoffice/internal/service"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/login", h.Login)
	router.POST("/refresh", h.Refresh)
	router.POST("/logout", h.Logout)
	router.GET("/me", middleware.RequireAuth(), h.Me)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("invalid request payload"))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, response.Error(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(err.Error()))
		return
	}

	middleware.SetTokenCookies(c, result.AccessToken, result.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"user":        result.Payload.User,
		"permissions": result.Payload.Permissions,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusUnauthorized, response.Error("session expired"))
		return
	}

	accessToken, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		middleware.ClearTokenCookies(c)
		c.JSON(http.StatusUnauthorized, response.Error(err.Error()))
		return
	}

	middleware.SetTokenCookies(c, accessToken, refreshToken)
	c.JSON(http.StatusOK, response.OK("token refreshed"))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie("refresh_token")
	_ = h.authService.Logout(c.Request.Context(), refreshToken)
	middleware.ClearTokenCookies(c)
	c.JSON(http.StatusOK, response.OK("logged out"))
}

// Me serves the permission payload the frontend fetches once per page load.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := access.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error("authorization is missing"))
		return
	}

	payload, err := h.authService.Me(c.Request.Context(), identity.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error("user not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"user":        payload.User,
		"permissions": payload.Permissions,
	})
}
