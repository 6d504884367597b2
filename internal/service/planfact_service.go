package service

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/model"
	"backoffice/internal/records"

	"gorm.io/gorm"
)

type PlanFactService struct {
	db    *gorm.DB
	store *records.Store
}

func NewPlanFactService(db *gorm.DB, store *records.Store) *PlanFactService {
	return &PlanFactService{db: db, store: store}
}

func (s *PlanFactService) List(ctx context.Context) ([]map[string]interface{}, error) {
	return s.store.List(ctx, "planfact", "year desc")
}

func (s *PlanFactService) Create(ctx context.Context, fields map[string]interface{}) (int64, error) {
	return s.store.Create(ctx, "planfact", fields)
}

func (s *PlanFactService) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return s.store.Update(ctx, "planfact", id, fields)
}

func (s *PlanFactService) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, "planfact", id)
}

// Recalculate re-derives the fact amount for one month from the contracts
// table and writes it back. This is a pull-based refresh: the stored value is
// stale until someone asks for it to be recomputed.
func (s *PlanFactService) Recalculate(ctx context.Context, year, month int) (float64, error) {
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("invalid month %d", month)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var result struct{ Value float64 }
	err := s.db.WithContext(ctx).Table("contracts").
		Select("COALESCE(SUM(COALESCE(final_amount, contract_amount)), 0) as value").
		Where("contract_date >= ? AND contract_date < ?", start, end).
		Scan(&result).Error
	if err != nil {
		return 0, fmt.Errorf("aggregate contracts: %w", err)
	}

	var row model.PlanFact
	err = s.db.WithContext(ctx).Where("year = ? AND month = ?", year, month).First(&row).Error
	if err != nil {
		_, err = s.store.Create(ctx, "planfact", map[string]interface{}{
			"year":        year,
			"month":       month,
			"fact_amount": result.Value,
		})
		return result.Value, err
	}

	err = s.store.Update(ctx, "planfact", int64(row.ID), map[string]interface{}{
		"fact_amount": result.Value,
	})
	return result.Value, err
}
