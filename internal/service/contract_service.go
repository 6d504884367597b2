package service

import (
	"context"

	"backoffice/internal/records"
)

// ContractListing bundles the contract rows with the dictionary options the
// grid needs for id→name display and dropdown population.
type ContractListing struct {
	Rows          []map[string]interface{}
	Options       map[string][]map[string]interface{}
	ActiveOptions map[string][]map[string]interface{}
}

type ContractService struct {
	store    *records.Store
	settings *SettingsService
}

func NewContractService(store *records.Store, settings *SettingsService) *ContractService {
	return &ContractService{store: store, settings: settings}
}

func (s *ContractService) List(ctx context.Context) (*ContractListing, error) {
	rows, err := s.store.List(ctx, "contracts", "id desc")
	if err != nil {
		return nil, err
	}
	options, activeOptions, err := s.settings.Options(ctx)
	if err != nil {
		return nil, err
	}
	return &ContractListing{Rows: rows, Options: options, ActiveOptions: activeOptions}, nil
}

func (s *ContractService) Create(ctx context.Context, fields map[string]interface{}) (int64, error) {
	return s.store.Create(ctx, "contracts", fields)
}

func (s *ContractService) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return s.store.Update(ctx, "contracts", id, fields)
}

func (s *ContractService) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, "contracts", id)
}
