package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdeskTransaction mirrors one transaction pulled from the Adesk finance
// service. ExternalID deduplicates repeated syncs.
type AdeskTransaction struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	ExternalID  string           `gorm:"type:varchar(64);uniqueIndex;not null" json:"external_id"`
	Date        *time.Time       `gorm:"type:date" json:"date"`
	Amount      *decimal.Decimal `gorm:"type:decimal(14,2)" json:"amount"`
	Description string           `gorm:"type:text" json:"description"`
	Category    string           `gorm:"type:varchar(255)" json:"category"`
	Contractor  string           `gorm:"type:varchar(255)" json:"contractor"`
	Account     string           `gorm:"type:varchar(255)" json:"account"`
	Type        string           `gorm:"type:varchar(50)" json:"type"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// AdeskSetting is a key/value row configuring the Adesk sync (category maps,
// account filters).
type AdeskSetting struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SettingKey   string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"setting_key"`
	SettingValue string    `gorm:"type:text" json:"setting_value"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
