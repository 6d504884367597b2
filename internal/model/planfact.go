package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanFact is a monthly plan vs fact row. FactAmount is re-derived from the
// contracts table on explicit recalculation, never pushed.
type PlanFact struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	Year       int              `gorm:"not null;uniqueIndex:idx_planfact_period" json:"year"`
	Month      int              `gorm:"not null;uniqueIndex:idx_planfact_period" json:"month"`
	PlanAmount *decimal.Decimal `gorm:"type:decimal(14,2)" json:"plan_amount"`
	FactAmount *decimal.Decimal `gorm:"type:decimal(14,2)" json:"fact_amount"`
	Comment    string           `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (PlanFact) TableName() string { return "planfact" }
