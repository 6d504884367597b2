package service

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/bitrix"
	"backoffice/internal/model"
	"backoffice/internal/records"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const leadsCacheTTL = 15 * time.Minute

// SalesResult reports a recalculation run: how many managers were processed
// and which ones failed. One failing manager never aborts the rest.
type SalesResult struct {
	Processed int      `json:"processed"`
	Errors    []string `json:"errors"`
}

type SalesListing struct {
	Rows          []map[string]interface{}
	Options       map[string][]map[string]interface{}
	ActiveOptions map[string][]map[string]interface{}
}

// salesReportRow is the aggregated per-manager view behind the report
// endpoint.
type salesReportRow struct {
	ManagerID      uint
	ManagerName    string
	Leads          int
	Meetings       int
	ContractsCount int
	Revenue        float64
	Profit         float64
	LeadsInWork    int
}

type SalesService struct {
	db       *gorm.DB
	store    *records.Store
	settings *SettingsService
	crm      bitrix.Client // nil when no CRM is configured
	log      *zap.Logger
}

func NewSalesService(db *gorm.DB, store *records.Store, settings *SettingsService, crm bitrix.Client, log *zap.Logger) *SalesService {
	return &SalesService{db: db, store: store, settings: settings, crm: crm, log: log}
}

// List serves the editable per-manager monthly rows (the sales_data
// resource).
func (s *SalesService) List(ctx context.Context) (*SalesListing, error) {
	rows, err := s.store.List(ctx, "sales_report", "id asc")
	if err != nil {
		return nil, err
	}
	options, activeOptions, err := s.settings.Options(ctx)
	if err != nil {
		return nil, err
	}
	return &SalesListing{Rows: rows, Options: options, ActiveOptions: activeOptions}, nil
}

func (s *SalesService) Create(ctx context.Context, fields map[string]interface{}) (int64, error) {
	return s.store.Create(ctx, "sales_report", fields)
}

func (s *SalesService) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return s.store.Update(ctx, "sales_report", id, fields)
}

func (s *SalesService) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, "sales_report", id)
}

// Report aggregates the stored monthly rows into one row per manager for a
// year. Rows are returned as maps so field-level redaction can apply before
// serialization.
func (s *SalesService) Report(ctx context.Context, year int) ([]map[string]interface{}, error) {
	var rows []salesReportRow
	err := s.db.WithContext(ctx).Table("sales_report").
		Select(`sales_report.manager_id,
			managers.name as manager_name,
			SUM(sales_report.leads) as leads,
			SUM(sales_report.meetings) as meetings,
			SUM(sales_report.contracts_count) as contracts_count,
			COALESCE(SUM(sales_report.revenue), 0) as revenue,
			COALESCE(SUM(sales_report.profit), 0) as profit,
			MAX(sales_report.leads_in_work) as leads_in_work`).
		Joins("JOIN managers ON managers.id = sales_report.manager_id").
		Where("sales_report.year = ?", year).
		Group("sales_report.manager_id, managers.name").
		Order("managers.name asc").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate sales report: %w", err)
	}

	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		margin := 0.0
		if row.Revenue != 0 {
			margin = row.Profit / row.Revenue * 100
		}
		out = append(out, map[string]interface{}{
			"manager_id":      row.ManagerID,
			"manager_name":    row.ManagerName,
			"leads":           row.Leads,
			"meetings":        row.Meetings,
			"contracts_count": row.ContractsCount,
			"revenue":         row.Revenue,
			"profit":          row.Profit,
			"margin":          margin,
			"leads_in_work":   row.LeadsInWork,
		})
	}
	return out, nil
}

// Recalculate refreshes one month of sales data. Contract metrics come from
// the contracts table; lead and meeting counts from the CRM. Errors are
// collected per manager so a single CRM failure does not abort the batch.
func (s *SalesService) Recalculate(ctx context.Context, year, month int) (*SalesResult, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var managers []model.Manager
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("id asc").Find(&managers).Error; err != nil {
		return nil, fmt.Errorf("fetch managers: %w", err)
	}

	result := &SalesResult{Errors: []string{}}
	for _, manager := range managers {
		if err := s.recalcManager(ctx, manager, year, month, start, end); err != nil {
			s.log.Warn("sales recalc failed for manager",
				zap.Uint("manager_id", manager.ID), zap.Error(err))
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", manager.Name, err))
			continue
		}
		result.Processed++
	}
	return result, nil
}

func (s *SalesService) recalcManager(ctx context.Context, manager model.Manager, year, month int, start, end time.Time) error {
	var agg struct {
		Count   int
		Revenue float64
		Profit  float64
	}
	err := s.db.WithContext(ctx).Table("contracts").
		Select(`COUNT(id) as count,
			COALESCE(SUM(COALESCE(final_amount, contract_amount)), 0) as revenue,
			COALESCE(SUM(profit), 0) as profit`).
		Where("manager_id = ? AND contract_date >= ? AND contract_date < ?", manager.ID, start, end).
		Scan(&agg).Error
	if err != nil {
		return fmt.Errorf("aggregate contracts: %w", err)
	}

	fields := map[string]interface{}{
		"manager_id":      manager.ID,
		"year":            year,
		"month":           month,
		"contracts_count": agg.Count,
		"revenue":         agg.Revenue,
		"profit":          agg.Profit,
	}
	if agg.Revenue != 0 {
		fields["margin"] = agg.Profit / agg.Revenue * 100
	}
	if agg.Count != 0 {
		fields["average_revenue"] = agg.Revenue / float64(agg.Count)
	}

	if s.crm != nil && manager.BitrixID != nil {
		stats, err := s.crm.LeadStats(ctx, *manager.BitrixID, start, end)
		if err != nil {
			return fmt.Errorf("crm lead stats: %w", err)
		}
		fields["leads"] = stats.Leads
		fields["meetings"] = stats.Meetings

		inWork, err := s.LeadsInWork(ctx, manager.ID, *manager.BitrixID)
		if err != nil {
			return fmt.Errorf("crm leads in work: %w", err)
		}
		fields["leads_in_work"] = inWork
	}

	var existing model.SalesReport
	err = s.db.WithContext(ctx).
		Where("manager_id = ? AND year = ? AND month = ?", manager.ID, year, month).
		First(&existing).Error
	if err != nil {
		_, err = s.store.Create(ctx, "sales_report", fields)
		return err
	}
	delete(fields, "manager_id")
	delete(fields, "year")
	delete(fields, "month")
	return s.store.Update(ctx, "sales_report", int64(existing.ID), fields)
}

// LeadsInWork returns the CRM "leads in work" count through the single-row
// TTL cache. On a CRM failure the last cached value is served stale rather
// than invented.
func (s *SalesService) LeadsInWork(ctx context.Context, managerID uint, managerBitrixID string) (int, error) {
	key := fmt.Sprintf("leads_in_work:%d", managerID)

	var cached model.LeadsCache
	err := s.db.WithContext(ctx).Where("cache_key = ?", key).First(&cached).Error
	haveCached := err == nil
	if haveCached && time.Now().Before(cached.ExpiresAt) {
		return cached.Value, nil
	}

	if s.crm == nil {
		if haveCached {
			return cached.Value, nil
		}
		return 0, fmt.Errorf("crm is not configured")
	}

	value, err := s.crm.LeadsInWork(ctx, managerBitrixID)
	if err != nil {
		if haveCached {
			s.log.Warn("serving stale leads_in_work", zap.Uint("manager_id", managerID), zap.Error(err))
			return cached.Value, nil
		}
		return 0, err
	}

	expires := time.Now().Add(leadsCacheTTL)
	if haveCached {
		s.db.WithContext(ctx).Model(&cached).
			Updates(map[string]interface{}{"value": value, "expires_at": expires})
	} else {
		s.db.WithContext(ctx).Create(&model.LeadsCache{CacheKey: key, Value: value, ExpiresAt: expires})
	}
	return value, nil
}
