package database

import (
	"fmt"
	"os"

	"backoffice/internal/access"
	"backoffice/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed creates the protected admin role, its all-true permission rows and the
// initial admin account if they do not exist yet.
func Seed(db *gorm.DB) error {
	var admin model.Role
	err := db.Where("code = ?", "admin").First(&admin).Error
	if err != nil {
		admin = model.Role{
			ID:          model.AdminRoleID,
			Name:        "Администратор",
			Code:        "admin",
			Description: "Полный доступ ко всем разделам",
			IsActive:    true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("seed admin role: %w", err)
		}
	}

	for _, resource := range access.Resources {
		var existing model.Permission
		err := db.Where("role_id = ? AND resource = ?", admin.ID, resource).First(&existing).Error
		if err == nil {
			continue
		}
		perm := model.Permission{
			RoleID:       admin.ID,
			Resource:     resource,
			CanView:      true,
			CanCreate:    true,
			CanEdit:      true,
			CanDelete:    true,
			HiddenFields: "[]",
		}
		if err := db.Create(&perm).Error; err != nil {
			return fmt.Errorf("seed admin permission %s: %w", resource, err)
		}
	}

	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count == 0 {
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		user := model.User{
			Username: "admin",
			Password: string(hashed),
			FullName: "Администратор",
			RoleID:   admin.ID,
			IsActive: true,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
	}

	return nil
}
