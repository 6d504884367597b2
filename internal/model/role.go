package model

import (
	"time"
)

// AdminRoleID is the seeded system role that can never be deleted.
const AdminRoleID uint = 1

// Role groups users for permission purposes.
type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Code        string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Permission holds the four capabilities and the hidden-field list for one
// (role, resource) pair. Exactly one row exists per pair; rows are created in
// bulk, all false, together with the role.
type Permission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RoleID       uint      `gorm:"not null;uniqueIndex:idx_role_resource" json:"role_id"`
	Role         *Role     `gorm:"foreignKey:RoleID" json:"-"`
	Resource     string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_role_resource" json:"resource"`
	CanView      bool      `gorm:"default:false" json:"can_view"`
	CanCreate    bool      `gorm:"default:false" json:"can_create"`
	CanEdit      bool      `gorm:"default:false" json:"can_edit"`
	CanDelete    bool      `gorm:"default:false" json:"can_delete"`
	HiddenFields string    `gorm:"type:text;not null;default:'[]'" json:"hidden_fields"` // JSON array of field names
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
