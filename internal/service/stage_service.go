package service

import (
	"context"
	"errors"

	"backoffice/internal/records"
)

// contractOwnedFields are exposed on the stages grid but actually live on the
// parent contract row. An update touching one of them is redirected to the
// contract; a single call never writes to both tables.
var contractOwnedFields = map[string]bool{
	"complectation_id": true,
	"payment_type_id":  true,
	"manager_id":       true,
	"project_id":       true,
	"ar_ready":         true,
	"kr_ready":         true,
	"estimate_ready":   true,
	"foundation":       true,
}

var (
	ErrStageWithoutContract = errors.New("stage has no linked contract")
	ErrMixedStageUpdate     = errors.New("cannot update stage and contract fields in one request")
)

type StageListing struct {
	Rows          []map[string]interface{}
	Options       map[string][]map[string]interface{}
	ActiveOptions map[string][]map[string]interface{}
}

type StageService struct {
	store    *records.Store
	settings *SettingsService
}

func NewStageService(store *records.Store, settings *SettingsService) *StageService {
	return &StageService{store: store, settings: settings}
}

// List merges the contract-owned fields into each stage row so the grid can
// render them alongside native stage columns.
func (s *StageService) List(ctx context.Context) (*StageListing, error) {
	stages, err := s.store.List(ctx, "stages", "id asc")
	if err != nil {
		return nil, err
	}
	contracts, err := s.store.List(ctx, "contracts", "id asc")
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]map[string]interface{}, len(contracts))
	for _, c := range contracts {
		if id, ok := asInt64(c["id"]); ok {
			byID[id] = c
		}
	}

	for _, stage := range stages {
		contractID, ok := asInt64(stage["contract_id"])
		if !ok {
			continue
		}
		contract, ok := byID[contractID]
		if !ok {
			continue
		}
		for field := range contractOwnedFields {
			stage[field] = contract[field]
		}
		stage["contract_name"] = contract["contract_name"]
	}

	options, activeOptions, err := s.settings.Options(ctx)
	if err != nil {
		return nil, err
	}
	return &StageListing{Rows: stages, Options: options, ActiveOptions: activeOptions}, nil
}

func (s *StageService) Create(ctx context.Context, fields map[string]interface{}) (int64, error) {
	native := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		if contractOwnedFields[key] {
			continue
		}
		native[key] = value
	}
	return s.store.Create(ctx, "stages", native)
}

// Update routes contract-owned fields to the stage's parent contract and
// native fields to the stage row itself.
func (s *StageService) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	routed := make(map[string]interface{})
	native := make(map[string]interface{})
	for key, value := range fields {
		if contractOwnedFields[key] {
			routed[key] = value
		} else {
			native[key] = value
		}
	}
	if len(routed) > 0 && len(native) > 0 {
		return ErrMixedStageUpdate
	}

	if len(routed) > 0 {
		stage, err := s.store.Get(ctx, "stages", id)
		if err != nil {
			return err
		}
		contractID, ok := asInt64(stage["contract_id"])
		if !ok || contractID == 0 {
			return ErrStageWithoutContract
		}
		return s.store.Update(ctx, "contracts", contractID, routed)
	}

	return s.store.Update(ctx, "stages", id, native)
}

func (s *StageService) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, "stages", id)
}

// asInt64 normalizes the id representations the drivers return.
func asInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), true
	}
	return 0, false
}
