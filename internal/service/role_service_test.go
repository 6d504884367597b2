package service

import (
	"context"
	"testing"

	"backoffice/internal/access"
	"backoffice/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateRoleCreatesFullPermissionSet(t *testing.T) {
	db := newServiceDBForTest(t)
	gate := access.NewGate(db, zap.NewNop())
	svc := NewRoleService(db, gate)
	ctx := context.Background()

	id, err := svc.CreateRole(ctx, CreateRoleRequest{Name: "Прораб", Code: "prorab"})
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	var perms []model.Permission
	require.NoError(t, db.Where("role_id = ?", id).Find(&perms).Error)
	require.Len(t, perms, len(access.Resources))

	seen := make(map[string]bool)
	for _, p := range perms {
		seen[p.Resource] = true
		assert.False(t, p.CanView, "new role must start with no rights on %s", p.Resource)
		assert.False(t, p.CanCreate)
		assert.False(t, p.CanEdit)
		assert.False(t, p.CanDelete)
		assert.Equal(t, "[]", p.HiddenFields)
	}
	for _, resource := range access.Resources {
		assert.True(t, seen[resource], "missing permission row for %s", resource)
	}
}

func TestDeleteAdminRoleProtected(t *testing.T) {
	db := newServiceDBForTest(t)
	gate := access.NewGate(db, zap.NewNop())
	svc := NewRoleService(db, gate)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Role{ID: model.AdminRoleID, Name: "Администратор", Code: "admin"}).Error)

	err := svc.DeleteRole(ctx, model.AdminRoleID)
	assert.ErrorIs(t, err, ErrProtectedRole)
}

func TestDeleteRoleAssignedToUsers(t *testing.T) {
	db := newServiceDBForTest(t)
	gate := access.NewGate(db, zap.NewNop())
	svc := NewRoleService(db, gate)
	ctx := context.Background()

	role := model.Role{Name: "Менеджер", Code: "manager"}
	require.NoError(t, db.Create(&role).Error)
	require.NoError(t, db.Create(&model.User{Username: "ivanov", Password: "x", RoleID: role.ID, IsActive: true}).Error)

	err := svc.DeleteRole(ctx, role.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assigned to 1 user(s)")

	var count int64
	db.Model(&model.Role{}).Where("id = ?", role.ID).Count(&count)
	assert.Equal(t, int64(1), count, "role must survive the refused delete")
}

func TestDeleteRoleRemovesPermissions(t *testing.T) {
	db := newServiceDBForTest(t)
	gate := access.NewGate(db, zap.NewNop())
	svc := NewRoleService(db, gate)
	ctx := context.Background()

	id, err := svc.CreateRole(ctx, CreateRoleRequest{Name: "Temp", Code: "temp"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRole(ctx, uint(id)))

	var count int64
	db.Model(&model.Permission{}).Where("role_id = ?", id).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUpdatePermissionSparsePatch(t *testing.T) {
	db := newServiceDBForTest(t)
	gate := access.NewGate(db, zap.NewNop())
	svc := NewRoleService(db, gate)
	ctx := context.Background()

	perm := model.Permission{RoleID: 7, Resource: access.ResourceContracts, CanView: true, HiddenFields: "[]"}
	require.NoError(t, db.Create(&perm).Error)

	// patch one flag; the others must stay as they were
	require.NoError(t, svc.UpdatePermission(ctx, perm.ID, map[string]interface{}{"can_edit": true}))

	var updated model.Permission
	require.NoError(t, db.First(&updated, perm.ID).Error)
	assert.True(t, updated.CanView)
	assert.True(t, updated.CanEdit)
	assert.False(t, updated.CanDelete)
}

func TestUpdatePermissionEmptyPatch(t *testing.T) {
	db := newServiceDBForTest(t)
	gate := access.NewGate(db, zap.NewNop())
	svc := NewRoleService(db, gate)
	ctx := context.Background()

	perm := model.Permission{RoleID: 8, Resource: access.ResourceStages, HiddenFields: "[]"}
	require.NoError(t, db.Create(&perm).Error)

	err := svc.UpdatePermission(ctx, perm.ID, map[string]interface{}{"unrelated": true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no permission fields")
}

func TestUpdatePermissionHiddenFieldsValidated(t *testing.T) {
	db := newServiceDBForTest(t)
	gate := access.NewGate(db, zap.NewNop())
	svc := NewRoleService(db, gate)
	ctx := context.Background()

	perm := model.Permission{RoleID: 9, Resource: access.ResourceContracts, HiddenFields: "[]"}
	require.NoError(t, db.Create(&perm).Error)

	err := svc.UpdatePermission(ctx, perm.ID, map[string]interface{}{
		"hidden_fields": []interface{}{"profit", "contract_name"},
	})
	require.NoError(t, err)

	var updated model.Permission
	require.NoError(t, db.First(&updated, perm.ID).Error)
	// contract_name is not hideable for contracts and must be dropped
	assert.Equal(t, `["profit"]`, updated.HiddenFields)
}
