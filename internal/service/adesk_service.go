package service

import (
	"context"

	"backoffice/internal/records"
)

// AdeskService exposes the synced finance transactions for manual review and
// correction. Rows normally arrive through the sync job; manual creates exist
// for back-filling.
type AdeskService struct {
	store *records.Store
}

func NewAdeskService(store *records.Store) *AdeskService {
	return &AdeskService{store: store}
}

func (s *AdeskService) List(ctx context.Context) ([]map[string]interface{}, error) {
	return s.store.List(ctx, "adesk_transactions", "date desc")
}

func (s *AdeskService) Create(ctx context.Context, fields map[string]interface{}) (int64, error) {
	return s.store.Create(ctx, "adesk_transactions", fields)
}

func (s *AdeskService) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return s.store.Update(ctx, "adesk_transactions", id, fields)
}

func (s *AdeskService) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, "adesk_transactions", id)
}
