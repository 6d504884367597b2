package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"backoffice/internal/access"
	"backoffice/internal/model"

	"gorm.io/gorm"
)

var ErrProtectedRole = errors.New("cannot delete protected system role")

type CreateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Description string `json:"description"`
}

// PermissionRow is one row of the access matrix, joined with its role.
type PermissionRow struct {
	ID           uint     `json:"id"`
	RoleID       uint     `json:"role_id"`
	RoleName     string   `json:"role_name"`
	Resource     string   `json:"resource"`
	CanView      bool     `json:"can_view"`
	CanCreate    bool     `json:"can_create"`
	CanEdit      bool     `json:"can_edit"`
	CanDelete    bool     `json:"can_delete"`
	HiddenFields []string `json:"hidden_fields"`
}

type RoleService interface {
	ListRoles(ctx context.Context) ([]model.Role, error)
	ListPermissions(ctx context.Context) ([]PermissionRow, error)
	CreateRole(ctx context.Context, req CreateRoleRequest) (int64, error)
	DeleteRole(ctx context.Context, id uint) error
	UpdatePermission(ctx context.Context, id uint, patch map[string]interface{}) error
}

type roleService struct {
	db   *gorm.DB
	gate *access.Gate
}

func NewRoleService(db *gorm.DB, gate *access.Gate) RoleService {
	return &roleService{db: db, gate: gate}
}

func (s *roleService) ListRoles(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	if err := s.db.WithContext(ctx).Order("id asc").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}
	return roles, nil
}

func (s *roleService) ListPermissions(ctx context.Context) ([]PermissionRow, error) {
	var perms []model.Permission
	err := s.db.WithContext(ctx).Preload("Role").Order("role_id asc, resource asc").Find(&perms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}

	rows := make([]PermissionRow, 0, len(perms))
	for _, p := range perms {
		row := PermissionRow{
			ID:           p.ID,
			RoleID:       p.RoleID,
			Resource:     p.Resource,
			CanView:      p.CanView,
			CanCreate:    p.CanCreate,
			CanEdit:      p.CanEdit,
			CanDelete:    p.CanDelete,
			HiddenFields: []string{},
		}
		if p.Role != nil {
			row.RoleName = p.Role.Name
		}
		var hidden []string
		if json.Unmarshal([]byte(p.HiddenFields), &hidden) == nil && hidden != nil {
			row.HiddenFields = hidden
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CreateRole inserts the role and one all-false permission row per resource
// in a single transaction. A role without its full permission set would
// violate the one-row-per-resource invariant, so a partial insert rolls back.
func (s *roleService) CreateRole(ctx context.Context, req CreateRoleRequest) (int64, error) {
	role := model.Role{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		IsActive:    true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&role).Error; err != nil {
			return fmt.Errorf("failed to create role: %w", err)
		}
		perms := make([]model.Permission, 0, len(access.Resources))
		for _, resource := range access.Resources {
			perms = append(perms, model.Permission{
				RoleID:       role.ID,
				Resource:     resource,
				HiddenFields: "[]",
			})
		}
		if err := tx.Create(&perms).Error; err != nil {
			return fmt.Errorf("failed to create permission rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int64(role.ID), nil
}

func (s *roleService) DeleteRole(ctx context.Context, id uint) error {
	var role model.Role
	if err := s.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return fmt.Errorf("role not found")
	}
	if role.ID == model.AdminRoleID || role.Code == "admin" {
		return ErrProtectedRole
	}

	var userCount int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("role_id = ?", id).Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to check role usage: %w", err)
	}
	if userCount > 0 {
		return fmt.Errorf("role is assigned to %d user(s) and cannot be deleted", userCount)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&model.Permission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&role).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	s.gate.Invalidate(id)
	return nil
}

// permissionPatchKeys are the only fields a sparse permission patch may touch.
var permissionPatchKeys = map[string]bool{
	"can_view":      true,
	"can_create":    true,
	"can_edit":      true,
	"can_delete":    true,
	"hidden_fields": true,
}

// UpdatePermission applies a sparse patch to one permission row. An empty
// patch is an error, not a silent success.
func (s *roleService) UpdatePermission(ctx context.Context, id uint, patch map[string]interface{}) error {
	var perm model.Permission
	if err := s.db.WithContext(ctx).First(&perm, id).Error; err != nil {
		return fmt.Errorf("permission not found")
	}

	updates := make(map[string]interface{}, len(patch))
	for key, value := range patch {
		if !permissionPatchKeys[key] {
			continue
		}
		if key == "hidden_fields" {
			encoded, err := encodeHiddenFields(perm.Resource, value)
			if err != nil {
				return err
			}
			updates[key] = encoded
			continue
		}
		updates[key] = coerceBool(value)
	}
	if len(updates) == 0 {
		return errors.New("no permission fields to update")
	}

	if err := s.db.WithContext(ctx).Model(&perm).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update permission: %w", err)
	}

	s.gate.Invalidate(perm.RoleID)
	return nil
}

// coerceBool accepts the bool/number/string variants grid cells send.
func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v == "1" || v == "true"
	}
	return false
}

// encodeHiddenFields validates the requested hidden fields against the
// resource's hideable set and serializes them for storage.
func encodeHiddenFields(resource string, value interface{}) (string, error) {
	raw, ok := value.([]interface{})
	if !ok {
		if value == nil {
			return "[]", nil
		}
		return "", errors.New("hidden_fields must be an array of field names")
	}

	allowed := access.HideableFields[resource]
	fields := make([]string, 0, len(raw))
	for _, item := range raw {
		name, ok := item.(string)
		if !ok {
			return "", errors.New("hidden_fields must be an array of field names")
		}
		for _, a := range allowed {
			if name == a {
				fields = append(fields, name)
				break
			}
		}
	}

	encoded, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
