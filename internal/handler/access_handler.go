package handler

import (
	"errors"
	"net/http"
	"strconv"

	"backoffice/internal/access"
	"backoffice/internal/middleware"
	"backoffice/internal/service"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccessHandler administers roles, the permission matrix and user accounts.
type AccessHandler struct {
	gate        *access.Gate
	roleService service.RoleService
	userService service.UserService
}

func NewAccessHandler(gate *access.Gate, roleService service.RoleService, userService service.UserService) *AccessHandler {
	return &AccessHandler{gate: gate, roleService: roleService, userService: userService}
}

func (h *AccessHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/access", middleware.RequireAuth())
	{
		group.GET("", middleware.RequirePermission(h.gate, access.ResourceAccess, access.ActionView), h.List)
		group.POST("/roles", middleware.RequirePermission(h.gate, access.ResourceAccess, access.ActionCreate), h.CreateRole)
		group.DELETE("/roles/:id", middleware.RequirePermission(h.gate, access.ResourceAccess, access.ActionDelete), h.DeleteRole)
		group.PUT("/permissions/:id", middleware.RequirePermission(h.gate, access.ResourceAccess, access.ActionEdit), h.UpdatePermission)

		group.GET("/users", middleware.RequirePermission(h.gate, access.ResourceAccess, access.ActionView), h.ListUsers)
		group.POST("/users", middleware.RequirePermission(h.gate, access.ResourceAccess, access.ActionCreate), h.CreateUser)
		group.PUT("/users/:id", middleware.RequirePermission(h.gate, access.ResourceAccess, access.ActionEdit), h.UpdateUser)
		group.DELETE("/users/:id", middleware.RequirePermission(h.gate, access.ResourceAccess, access.ActionDelete), h.DeleteUser)
	}
}

// List returns roles, the full permission matrix and users in one payload
// for the access administration page.
func (h *AccessHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	roles, err := h.roleService.ListRoles(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(err.Error()))
		return
	}
	permissions, err := h.roleService.ListPermissions(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(err.Error()))
		return
	}
	users, err := h.userService.ListUsers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"roles":       roles,
			"permissions": permissions,
			"users":       users,
			"resources":   access.Resources,
			"hideable":    access.HideableFields,
		},
	})
}

func (h *AccessHandler) CreateRole(c *gin.Context) {
	var req service.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("name and code are required"))
		return
	}

	id, err := h.roleService.CreateRole(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Created("role created", id))
}

func (h *AccessHandler) DeleteRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.roleService.DeleteRole(c.Request.Context(), uint(id)); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrProtectedRole) {
			status = http.StatusForbidden
		}
		c.JSON(status, response.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.OK("role deleted"))
}

func (h *AccessHandler) UpdatePermission(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	patch, ok := bindPayload(c)
	if !ok {
		return
	}

	if err := h.roleService.UpdatePermission(c.Request.Context(), uint(id), patch); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.OK("permission updated"))
}

func (h *AccessHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.List(users))
}

func (h *AccessHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("username, password and role_id are required"))
		return
	}

	id, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Created("user created", id))
}

func (h *AccessHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("invalid request payload"))
		return
	}

	if err := h.userService.UpdateUser(c.Request.Context(), uint(id), req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.OK("user updated"))
}

func (h *AccessHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.OK("user deleted"))
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, response.Error("invalid id"))
		return 0, false
	}
	return id, true
}
