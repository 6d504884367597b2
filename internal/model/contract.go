package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contract is the central business row. Money columns are nullable: a cleared
// grid cell is stored as NULL, not zero.
type Contract struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ContractName   string     `gorm:"type:varchar(255)" json:"contract_name"`
	ContractNumber *string    `gorm:"type:varchar(100)" json:"contract_number"`
	ContractDate   *time.Time `gorm:"type:date" json:"contract_date"`

	ManagerID       *uint `json:"manager_id"`
	ProjectID       *uint `json:"project_id"`
	PaymentTypeID   *uint `json:"payment_type_id"`
	ComplectationID *uint `json:"complectation_id"`
	EscrowAgentID   *uint `json:"escrow_agent_id"`
	SourceID        *uint `json:"source_id"`
	ContractorID    *uint `json:"contractor_id"`
	ProrabID        *uint `json:"prorab_id"`
	IpotekaStatusID *uint `json:"ipoteka_status_id"`

	ContractAmount *decimal.Decimal `gorm:"type:decimal(14,2)" json:"contract_amount"`
	FinalAmount    *decimal.Decimal `gorm:"type:decimal(14,2)" json:"final_amount"`
	Profit         *decimal.Decimal `gorm:"type:decimal(14,2)" json:"profit"`
	MarginPercent  *decimal.Decimal `gorm:"type:decimal(8,2)" json:"margin_percent"`
	ManagerPercent *decimal.Decimal `gorm:"type:decimal(8,2)" json:"manager_percent"`
	ManagerZp      *decimal.Decimal `gorm:"column:manager_zp;type:decimal(14,2)" json:"manager_zp"`
	ManagerPaid    *decimal.Decimal `gorm:"type:decimal(14,2)" json:"manager_paid"`
	ManagerBalance *decimal.Decimal `gorm:"type:decimal(14,2)" json:"manager_balance"`
	SopPercent     *decimal.Decimal `gorm:"type:decimal(8,2)" json:"sop_percent"`
	SopZp          *decimal.Decimal `gorm:"column:sop_zp;type:decimal(14,2)" json:"sop_zp"`
	SopPaid        *decimal.Decimal `gorm:"type:decimal(14,2)" json:"sop_paid"`
	SopBalance     *decimal.Decimal `gorm:"type:decimal(14,2)" json:"sop_balance"`

	// Readiness flags surfaced on the stages grid but owned by the contract.
	ArReady       bool `gorm:"column:ar_ready;default:false" json:"ar_ready"`
	KrReady       bool `gorm:"column:kr_ready;default:false" json:"kr_ready"`
	EstimateReady bool `gorm:"default:false" json:"estimate_ready"`
	Foundation    bool `gorm:"default:false" json:"foundation"`

	Comment   string    `gorm:"type:text" json:"comment"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stage is one work stage of a contract, executed by a brigade.
type Stage struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	ContractID  *uint            `gorm:"index" json:"contract_id"`
	Contract    *Contract        `gorm:"foreignKey:ContractID" json:"-"`
	StageTypeID *uint            `json:"stage_type_id"`
	BrigadeID   *uint            `json:"brigade_id"`
	Name        string           `gorm:"type:varchar(255)" json:"name"`
	Amount      *decimal.Decimal `gorm:"type:decimal(14,2)" json:"amount"`
	StartDate   *time.Time       `gorm:"type:date" json:"start_date"`
	EndDate     *time.Time       `gorm:"type:date" json:"end_date"`
	Status      string           `gorm:"type:varchar(50)" json:"status"`
	Comment     string           `gorm:"type:text" json:"comment"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
