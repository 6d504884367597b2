package model

import "time"

// AuditLog records logins and record mutations.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	Action    string    `gorm:"type:varchar(50);not null" json:"action"` // login, create, update, delete
	Entity    string    `gorm:"type:varchar(100)" json:"entity"`
	EntityID  int64     `json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
