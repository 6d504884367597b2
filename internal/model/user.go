package model

import (
	"time"
)

// User is an office account. Inactive users cannot authenticate regardless of
// credential correctness.
type User struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Username   string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Password   string     `gorm:"type:varchar(255);not null" json:"-"`
	FullName   string     `gorm:"type:varchar(255)" json:"full_name"`
	RoleID     uint       `gorm:"not null;index" json:"role_id"`
	Role       *Role      `gorm:"foreignKey:RoleID" json:"-"`
	TelegramID *string    `gorm:"type:varchar(64);uniqueIndex" json:"telegram_id"`
	IsActive   bool       `gorm:"default:true" json:"is_active"`
	LastLogin  *time.Time `json:"last_login"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// RefreshToken stores long-lived tokens allowing users to request new access
// tokens. Expiry doubles as the 7 day session cap.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Token     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
