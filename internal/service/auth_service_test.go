package service

import (
	"context"
	"testing"

	"backoffice/internal/access"
	"backoffice/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestLogin(t *testing.T) {
	db := newServiceDBForTest(t)
	gate := access.NewGate(db, zap.NewNop())
	audit := NewAuditService(db, zap.NewNop())
	svc := NewAuthService(db, gate, audit)
	ctx := context.Background()

	role := model.Role{Name: "Администратор", Code: "admin"}
	require.NoError(t, db.Create(&role).Error)
	require.NoError(t, db.Create(&model.Permission{
		RoleID: role.ID, Resource: access.ResourceContracts, CanView: true, HiddenFields: "[]",
	}).Error)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := model.User{Username: "admin", Password: string(hash), FullName: "Admin", RoleID: role.ID, IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	result, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "admin", result.Payload.User.Role)
	assert.True(t, result.Payload.Permissions[access.ResourceContracts].CanView)

	// last_login was stamped
	var reloaded model.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.NotNil(t, reloaded.LastLogin)

	// a login audit row was written
	var auditCount int64
	db.Model(&model.AuditLog{}).Where("action = ?", "login").Count(&auditCount)
	assert.Equal(t, int64(1), auditCount)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newServiceDBForTest(t)
	gate := access.NewGate(db, zap.NewNop())
	svc := NewAuthService(db, gate, NewAuditService(db, zap.NewNop()))
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.DefaultCost)
	require.NoError(t, db.Create(&model.User{
		Username: "user1", Password: string(hash), RoleID: 1, IsActive: true,
	}).Error)

	_, err := svc.Login(ctx, LoginRequest{Username: "user1", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	db := newServiceDBForTest(t)
	gate := access.NewGate(db, zap.NewNop())
	svc := NewAuthService(db, gate, NewAuditService(db, zap.NewNop()))
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, db.Create(&model.User{
		Username: "gone", Password: string(hash), RoleID: 1, IsActive: false,
	}).Error)

	// correct password still refused: the account is disabled
	_, err := svc.Login(ctx, LoginRequest{Username: "gone", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshAndLogout(t *testing.T) {
	db := newServiceDBForTest(t)
	gate := access.NewGate(db, zap.NewNop())
	svc := NewAuthService(db, gate, NewAuditService(db, zap.NewNop()))
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, db.Create(&model.User{
		Username: "worker", Password: string(hash), RoleID: 1, IsActive: true,
	}).Error)

	result, err := svc.Login(ctx, LoginRequest{Username: "worker", Password: "secret123"})
	require.NoError(t, err)

	accessToken, err := svc.Refresh(ctx, result.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)

	require.NoError(t, svc.Logout(ctx, result.RefreshToken))

	// the token is gone after logout
	_, err = svc.Refresh(ctx, result.RefreshToken)
	assert.Error(t, err)
}

func TestRefreshUnknownToken(t *testing.T) {
	db := newServiceDBForTest(t)
	gate := access.NewGate(db, zap.NewNop())
	svc := NewAuthService(db, gate, NewAuditService(db, zap.NewNop()))

	_, err := svc.Refresh(context.Background(), "no-such-token")
	assert.Error(t, err)
}
