package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type MonthStats struct {
	Month     int     `json:"month"`
	Contracts int     `json:"contracts"`
	Amount    float64 `json:"amount"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type DashboardData struct {
	Year           int           `json:"year"`
	ContractsTotal int           `json:"contracts_total"`
	AmountTotal    float64       `json:"amount_total"`
	ByMonth        []MonthStats  `json:"by_month"`
	StageStatuses  []StatusCount `json:"stage_statuses"`
	ActiveBrigades int           `json:"active_brigades"`
}

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Get aggregates the year's rollups shown on the dashboard page.
func (s *DashboardService) Get(ctx context.Context, year int) (*DashboardData, error) {
	data := &DashboardData{Year: year, ByMonth: []MonthStats{}, StageStatuses: []StatusCount{}}

	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	for month := 1; month <= 12; month++ {
		mStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		mEnd := mStart.AddDate(0, 1, 0)

		var agg struct {
			Count  int
			Amount float64
		}
		err := s.db.WithContext(ctx).Table("contracts").
			Select("COUNT(id) as count, COALESCE(SUM(COALESCE(final_amount, contract_amount)), 0) as amount").
			Where("contract_date >= ? AND contract_date < ?", mStart, mEnd).
			Scan(&agg).Error
		if err != nil {
			return nil, fmt.Errorf("aggregate month %d: %w", month, err)
		}
		data.ByMonth = append(data.ByMonth, MonthStats{Month: month, Contracts: agg.Count, Amount: agg.Amount})
		data.ContractsTotal += agg.Count
		data.AmountTotal += agg.Amount
	}

	var statuses []StatusCount
	err := s.db.WithContext(ctx).Table("stages").
		Select("status, COUNT(id) as count").
		Joins("JOIN contracts ON contracts.id = stages.contract_id").
		Where("contracts.contract_date >= ? AND contracts.contract_date < ?", start, end).
		Group("status").
		Scan(&statuses).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate stage statuses: %w", err)
	}
	data.StageStatuses = statuses

	var brigades int64
	if err := s.db.WithContext(ctx).Table("brigades").Where("is_active = ?", true).Count(&brigades).Error; err != nil {
		return nil, fmt.Errorf("count brigades: %w", err)
	}
	data.ActiveBrigades = int(brigades)

	return data, nil
}
