package model

import "time"

// Brigade is a work crew. Brigades are deactivated, never hard-deleted, so
// historic stages keep their references.
type Brigade struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	BrigadeTypeID *uint     `json:"brigade_type_id"`
	Phone         string    `gorm:"type:varchar(50)" json:"phone"`
	Comment       string    `gorm:"type:text" json:"comment"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
