package service

import (
	"context"
	"errors"
	"fmt"

	"backoffice/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Username   string  `json:"username" binding:"required"`
	Password   string  `json:"password" binding:"required,min=6"`
	FullName   string  `json:"full_name"`
	RoleID     uint    `json:"role_id" binding:"required"`
	TelegramID *string `json:"telegram_id"`
	IsActive   *bool   `json:"is_active"`
}

// UpdateUserRequest is a sparse patch; only supplied fields are written.
type UpdateUserRequest struct {
	Username   *string `json:"username"`
	Password   *string `json:"password"`
	FullName   *string `json:"full_name"`
	RoleID     *uint   `json:"role_id"`
	TelegramID *string `json:"telegram_id"`
	IsActive   *bool   `json:"is_active"`
}

// UserRow is the users listing shape; the password hash never leaves the
// service.
type UserRow struct {
	ID         uint    `json:"id"`
	Username   string  `json:"username"`
	FullName   string  `json:"full_name"`
	RoleID     uint    `json:"role_id"`
	RoleName   string  `json:"role_name"`
	TelegramID *string `json:"telegram_id"`
	IsActive   bool    `json:"is_active"`
	LastLogin  *string `json:"last_login"`
}

type UserService interface {
	ListUsers(ctx context.Context) ([]UserRow, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (int64, error)
	UpdateUser(ctx context.Context, id uint, req UpdateUserRequest) error
	DeleteUser(ctx context.Context, id uint) error
}

type userService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

func (s *userService) ListUsers(ctx context.Context) ([]UserRow, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Preload("Role").Order("id asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	rows := make([]UserRow, 0, len(users))
	for _, u := range users {
		row := UserRow{
			ID:         u.ID,
			Username:   u.Username,
			FullName:   u.FullName,
			RoleID:     u.RoleID,
			TelegramID: u.TelegramID,
			IsActive:   u.IsActive,
		}
		if u.Role != nil {
			row.RoleName = u.Role.Name
		}
		if u.LastLogin != nil {
			formatted := u.LastLogin.Format("2006-01-02 15:04:05")
			row.LastLogin = &formatted
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (int64, error) {
	var existing model.User
	if err := s.db.WithContext(ctx).Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return 0, errors.New("username already exists")
	}

	var role model.Role
	if err := s.db.WithContext(ctx).First(&role, req.RoleID).Error; err != nil {
		return 0, errors.New("role not found")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, errors.New("failed to hash password")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	user := model.User{
		Username:   req.Username,
		Password:   string(hashed),
		FullName:   req.FullName,
		RoleID:     req.RoleID,
		TelegramID: req.TelegramID,
		IsActive:   isActive,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return int64(user.ID), nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, req UpdateUserRequest) error {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return errors.New("user not found")
	}

	updates := map[string]interface{}{}
	if req.Username != nil {
		updates["username"] = *req.Username
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return errors.New("failed to hash password")
		}
		updates["password"] = string(hashed)
	}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.RoleID != nil {
		updates["role_id"] = *req.RoleID
	}
	if req.TelegramID != nil {
		if *req.TelegramID == "" {
			updates["telegram_id"] = nil
		} else {
			updates["telegram_id"] = *req.TelegramID
		}
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return errors.New("no user fields to update")
	}

	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}
