// Package sync pulls external data into the database: sales numbers from the
// Bitrix24 CRM and transactions from Adesk. HTTP handlers, the CLI and the
// cron schedule are all thin adapters over the same Run entry points.
package sync

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/adesk"
	"backoffice/internal/model"
	"backoffice/internal/records"
	"backoffice/internal/service"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Result reports one sync run. Errors are accumulated per item; a failing
// item never aborts the remaining work.
type Result struct {
	Processed int      `json:"processed"`
	Errors    []string `json:"errors"`
}

type Service struct {
	db    *gorm.DB
	store *records.Store
	sales *service.SalesService
	adesk adesk.Client // nil when Adesk is not configured
	log   *zap.Logger
}

func NewService(db *gorm.DB, store *records.Store, sales *service.SalesService, adeskClient adesk.Client, log *zap.Logger) *Service {
	return &Service{db: db, store: store, sales: sales, adesk: adeskClient, log: log}
}

// RunBitrix refreshes the sales pipeline numbers for one month.
func (s *Service) RunBitrix(ctx context.Context, year, month int) (*Result, error) {
	s.log.Info("bitrix sync started", zap.Int("year", year), zap.Int("month", month))

	salesResult, err := s.sales.Recalculate(ctx, year, month)
	if err != nil {
		return nil, err
	}

	result := &Result{Processed: salesResult.Processed, Errors: salesResult.Errors}
	s.log.Info("bitrix sync finished",
		zap.Int("processed", result.Processed), zap.Int("errors", len(result.Errors)))
	return result, nil
}

// RunAdesk pulls the last 30 days of transactions and upserts them by
// external id.
func (s *Service) RunAdesk(ctx context.Context) (*Result, error) {
	if s.adesk == nil {
		return nil, fmt.Errorf("adesk is not configured")
	}

	to := time.Now()
	from := to.AddDate(0, 0, -30)
	transactions, err := s.adesk.Transactions(ctx, from, to)
	if err != nil {
		return nil, err
	}

	result := &Result{Errors: []string{}}
	for _, tx := range transactions {
		if err := s.upsertTransaction(ctx, tx); err != nil {
			s.log.Warn("adesk transaction sync failed", zap.String("external_id", tx.ID), zap.Error(err))
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", tx.ID, err))
			continue
		}
		result.Processed++
	}

	s.log.Info("adesk sync finished",
		zap.Int("processed", result.Processed), zap.Int("errors", len(result.Errors)))
	return result, nil
}

func (s *Service) upsertTransaction(ctx context.Context, tx adesk.Transaction) error {
	fields := map[string]interface{}{
		"external_id": tx.ID,
		"date":        tx.Date,
		"amount":      tx.Amount,
		"description": tx.Description,
		"category":    tx.Category,
		"contractor":  tx.Contractor,
		"account":     tx.Account,
		"type":        tx.Type,
	}

	var existing model.AdeskTransaction
	err := s.db.WithContext(ctx).Where("external_id = ?", tx.ID).First(&existing).Error
	if err != nil {
		_, err = s.store.Create(ctx, "adesk_transactions", fields)
		return err
	}
	delete(fields, "external_id")
	return s.store.Update(ctx, "adesk_transactions", int64(existing.ID), fields)
}
