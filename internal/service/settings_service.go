package service

import (
	"context"
	"fmt"

	"backoffice/internal/records"

	"gorm.io/gorm"
)

// dictionaryTables are the settings-managed lookup tables, keyed by the name
// the frontend uses in /api/settings/:dict. All are in the record store's
// whitelist; this second set just keeps business tables (contracts, users...)
// out of the settings endpoint.
var dictionaryTables = []string{
	"managers",
	"brigade_types",
	"payment_types",
	"escrow_agents",
	"sources",
	"projects",
	"complectation",
	"stage_types",
	"contractors",
	"prorabs",
	"ipoteka_status",
}

type SettingsService struct {
	db    *gorm.DB
	store *records.Store
}

func NewSettingsService(db *gorm.DB, store *records.Store) *SettingsService {
	return &SettingsService{db: db, store: store}
}

func IsDictionary(name string) bool {
	for _, d := range dictionaryTables {
		if d == name {
			return true
		}
	}
	return false
}

// ListAll returns every dictionary with all of its rows, for the settings
// page grids.
func (s *SettingsService) ListAll(ctx context.Context) (map[string][]map[string]interface{}, error) {
	out := make(map[string][]map[string]interface{}, len(dictionaryTables))
	for _, dict := range dictionaryTables {
		rows, err := s.store.List(ctx, dict, "name asc")
		if err != nil {
			return nil, fmt.Errorf("list dictionary %s: %w", dict, err)
		}
		out[dict] = rows
	}
	return out, nil
}

// Options returns, per dictionary, the full row set and the active-only
// subset. Dropdowns bind to the active set; display of historic references
// uses the full one.
func (s *SettingsService) Options(ctx context.Context) (map[string][]map[string]interface{}, map[string][]map[string]interface{}, error) {
	options := make(map[string][]map[string]interface{}, len(dictionaryTables))
	activeOptions := make(map[string][]map[string]interface{}, len(dictionaryTables))
	for _, dict := range dictionaryTables {
		rows, err := s.store.List(ctx, dict, "name asc")
		if err != nil {
			return nil, nil, fmt.Errorf("list dictionary %s: %w", dict, err)
		}
		options[dict] = rows

		active := make([]map[string]interface{}, 0, len(rows))
		for _, row := range rows {
			if truthy(row["is_active"]) {
				active = append(active, row)
			}
		}
		activeOptions[dict] = active
	}
	return options, activeOptions, nil
}

func (s *SettingsService) Create(ctx context.Context, dict string, fields map[string]interface{}) (int64, error) {
	if !IsDictionary(dict) {
		return 0, records.ErrTableNotAllowed
	}
	return s.store.Create(ctx, dict, fields)
}

func (s *SettingsService) Update(ctx context.Context, dict string, id int64, fields map[string]interface{}) error {
	if !IsDictionary(dict) {
		return records.ErrTableNotAllowed
	}
	return s.store.Update(ctx, dict, id, fields)
}

// Delete hard-deletes a dictionary row. A row still referenced by a contract
// or stage comes back as records.ErrRowInUse; the UI then offers
// deactivation instead.
func (s *SettingsService) Delete(ctx context.Context, dict string, id int64) error {
	if !IsDictionary(dict) {
		return records.ErrTableNotAllowed
	}
	return s.store.Delete(ctx, dict, id)
}

// truthy normalizes the is_active column across drivers: postgres returns
// bool, sqlite int64.
func truthy(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case float64:
		return v != 0
	}
	return false
}
