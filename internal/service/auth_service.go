package service

import (
	"context"
	"errors"
	"time"

	"backoffice/internal/access"
	"backoffice/internal/middleware"
	"backoffice/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials deliberately does not reveal whether the login, the
// password or the account's active flag was wrong.
var ErrInvalidCredentials = errors.New("invalid login or password")

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserInfo is the "user" part of the frontend permission payload.
type UserInfo struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	RoleName string `json:"role_name"`
}

// MePayload is fetched once per page load and drives which buttons and
// columns the grid shows. Enforcement stays server-side.
type MePayload struct {
	User        UserInfo                     `json:"user"`
	Permissions map[string]access.Capability `json:"permissions"`
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	Payload      *MePayload
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID uint) (*MePayload, error)
}

type authService struct {
	db    *gorm.DB
	gate  *access.Gate
	audit *AuditService
}

func NewAuthService(db *gorm.DB, gate *access.Gate, audit *AuditService) AuthService {
	return &authService{db: db, gate: gate, audit: audit}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	var user model.User
	err := s.db.WithContext(ctx).Preload("Role").Where("username = ?", req.Username).First(&user).Error
	if err != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	s.db.WithContext(ctx).Model(&user).Update("last_login", now)

	accessToken, err := middleware.NewAccessToken(user.ID, user.RoleID, user.FullName)
	if err != nil {
		return nil, err
	}

	refresh := model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(middleware.RefreshTokenTTL),
	}
	if err := s.db.WithContext(ctx).Create(&refresh).Error; err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &user.ID, "login", "users", int64(user.ID), user.Username)

	payload := s.buildPayload(ctx, &user)
	return &LoginResult{AccessToken: accessToken, RefreshToken: refresh.Token, Payload: payload}, nil
}

// Refresh rotates the access token. The refresh token itself keeps its
// original expiry, which caps the session at seven days.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var stored model.RefreshToken
	err := s.db.WithContext(ctx).Where("token = ?", refreshToken).First(&stored).Error
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if time.Now().After(stored.ExpiresAt) {
		s.db.WithContext(ctx).Delete(&stored)
		return "", errors.New("session expired")
	}

	var user model.User
	if err := s.db.WithContext(ctx).First(&user, stored.UserID).Error; err != nil || !user.IsActive {
		return "", ErrInvalidCredentials
	}

	return middleware.NewAccessToken(user.ID, user.RoleID, user.FullName)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.db.WithContext(ctx).Where("token = ?", refreshToken).Delete(&model.RefreshToken{}).Error
}

func (s *authService) Me(ctx context.Context, userID uint) (*MePayload, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Preload("Role").First(&user, userID).Error; err != nil {
		return nil, err
	}
	return s.buildPayload(ctx, &user), nil
}

func (s *authService) buildPayload(ctx context.Context, user *model.User) *MePayload {
	info := UserInfo{ID: user.ID, Name: user.FullName}
	if user.Role != nil {
		info.Role = user.Role.Code
		info.RoleName = user.Role.Name
	}
	return &MePayload{
		User:        info,
		Permissions: s.gate.Payload(ctx, user.RoleID),
	}
}
