package service

import (
	"context"

	"backoffice/internal/records"
)

type BrigadeListing struct {
	Rows          []map[string]interface{}
	Options       map[string][]map[string]interface{}
	ActiveOptions map[string][]map[string]interface{}
}

type BrigadeService struct {
	store    *records.Store
	settings *SettingsService
}

func NewBrigadeService(store *records.Store, settings *SettingsService) *BrigadeService {
	return &BrigadeService{store: store, settings: settings}
}

func (s *BrigadeService) List(ctx context.Context) (*BrigadeListing, error) {
	rows, err := s.store.List(ctx, "brigades", "name asc")
	if err != nil {
		return nil, err
	}
	options, activeOptions, err := s.settings.Options(ctx)
	if err != nil {
		return nil, err
	}
	return &BrigadeListing{Rows: rows, Options: options, ActiveOptions: activeOptions}, nil
}

func (s *BrigadeService) Create(ctx context.Context, fields map[string]interface{}) (int64, error) {
	return s.store.Create(ctx, "brigades", fields)
}

func (s *BrigadeService) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return s.store.Update(ctx, "brigades", id, fields)
}

// Delete deactivates instead of removing: stages keep their brigade
// references for historic display.
func (s *BrigadeService) Delete(ctx context.Context, id int64) error {
	return s.store.Update(ctx, "brigades", id, map[string]interface{}{"is_active": false})
}
