package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReport is one manager-month row of the sales pipeline. Leads and
// meetings come from the CRM sync; contract metrics are aggregated from the
// contracts table on recalculation.
type SalesReport struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	ManagerID      uint             `gorm:"not null;uniqueIndex:idx_sales_period" json:"manager_id"`
	Year           int              `gorm:"not null;uniqueIndex:idx_sales_period" json:"year"`
	Month          int              `gorm:"not null;uniqueIndex:idx_sales_period" json:"month"`
	Leads          int              `gorm:"default:0" json:"leads"`
	Meetings       int              `gorm:"default:0" json:"meetings"`
	ContractsCount int              `gorm:"default:0" json:"contracts_count"`
	Revenue        *decimal.Decimal `gorm:"type:decimal(14,2)" json:"revenue"`
	Profit         *decimal.Decimal `gorm:"type:decimal(14,2)" json:"profit"`
	Margin         *decimal.Decimal `gorm:"type:decimal(8,2)" json:"margin"`
	AverageRevenue *decimal.Decimal `gorm:"type:decimal(14,2)" json:"average_revenue"`
	LeadsInWork    int              `gorm:"default:0" json:"leads_in_work"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (SalesReport) TableName() string { return "sales_report" }

// LeadsCache is the single-row-per-key TTL cache for the CRM "leads in work"
// figure. Concurrent refreshes are not deduplicated; write volume is low and
// staleness is tolerated.
type LeadsCache struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CacheKey  string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"cache_key"`
	Value     int       `gorm:"default:0" json:"value"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LeadsCache) TableName() string { return "leads_cache" }
