package database

import (
	"backoffice/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a connection pool using GORM and migrates the
// schema.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate auto-migrates every model. Shared with the sqlite-backed tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.Permission{},
		&model.User{},
		&model.RefreshToken{},
		&model.Manager{},
		&model.BrigadeType{},
		&model.PaymentType{},
		&model.EscrowAgent{},
		&model.Source{},
		&model.Project{},
		&model.Complectation{},
		&model.StageType{},
		&model.Contractor{},
		&model.Prorab{},
		&model.IpotekaStatus{},
		&model.Contract{},
		&model.Stage{},
		&model.Brigade{},
		&model.PlanFact{},
		&model.SalesReport{},
		&model.LeadsCache{},
		&model.AdeskTransaction{},
		&model.AdeskSetting{},
		&model.AuditLog{},
	)
}
