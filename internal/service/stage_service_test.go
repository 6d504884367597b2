package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageUpdateRoutesContractFields(t *testing.T) {
	db := newServiceDBForTest(t)
	store := newStoreForTest(t, db)
	settings := NewSettingsService(db, store)
	svc := NewStageService(store, settings)
	ctx := context.Background()

	contractID, err := store.Create(ctx, "contracts", map[string]interface{}{
		"contract_name": "House 7",
		"ar_ready":      false,
	})
	require.NoError(t, err)

	stageID, err := svc.Create(ctx, map[string]interface{}{
		"contract_id": contractID,
		"name":        "Walls",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, stageID, map[string]interface{}{"ar_ready": true}))

	contract, err := store.Get(ctx, "contracts", contractID)
	require.NoError(t, err)
	assert.EqualValues(t, true, truthy(contract["ar_ready"]))

	// the stage row itself was not touched
	stage, err := store.Get(ctx, "stages", stageID)
	require.NoError(t, err)
	assert.Equal(t, "Walls", stage["name"])
	assert.NotContains(t, stage, "ar_ready")
}

func TestStageUpdateNativeFields(t *testing.T) {
	db := newServiceDBForTest(t)
	store := newStoreForTest(t, db)
	settings := NewSettingsService(db, store)
	svc := NewStageService(store, settings)
	ctx := context.Background()

	stageID, err := svc.Create(ctx, map[string]interface{}{"name": "Roof"})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, stageID, map[string]interface{}{"status": "in_progress"}))

	stage, err := store.Get(ctx, "stages", stageID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", stage["status"])
}

func TestStageUpdateMixedFieldsRejected(t *testing.T) {
	db := newServiceDBForTest(t)
	store := newStoreForTest(t, db)
	settings := NewSettingsService(db, store)
	svc := NewStageService(store, settings)
	ctx := context.Background()

	stageID, err := svc.Create(ctx, map[string]interface{}{"name": "Windows"})
	require.NoError(t, err)

	err = svc.Update(ctx, stageID, map[string]interface{}{
		"status":   "done",
		"ar_ready": true,
	})
	assert.ErrorIs(t, err, ErrMixedStageUpdate)
}

func TestStageUpdateContractFieldWithoutContract(t *testing.T) {
	db := newServiceDBForTest(t)
	store := newStoreForTest(t, db)
	settings := NewSettingsService(db, store)
	svc := NewStageService(store, settings)
	ctx := context.Background()

	stageID, err := svc.Create(ctx, map[string]interface{}{"name": "Orphan"})
	require.NoError(t, err)

	err = svc.Update(ctx, stageID, map[string]interface{}{"manager_id": 1})
	assert.ErrorIs(t, err, ErrStageWithoutContract)
}

func TestStageCreateStripsContractFields(t *testing.T) {
	db := newServiceDBForTest(t)
	store := newStoreForTest(t, db)
	settings := NewSettingsService(db, store)
	svc := NewStageService(store, settings)
	ctx := context.Background()

	// contract-owned keys in a create payload are dropped, not an error
	stageID, err := svc.Create(ctx, map[string]interface{}{
		"name":     "Fence",
		"ar_ready": true,
	})
	require.NoError(t, err)

	stage, err := store.Get(ctx, "stages", stageID)
	require.NoError(t, err)
	assert.Equal(t, "Fence", stage["name"])
}

func TestStageListMergesContractFields(t *testing.T) {
	db := newServiceDBForTest(t)
	store := newStoreForTest(t, db)
	settings := NewSettingsService(db, store)
	svc := NewStageService(store, settings)
	ctx := context.Background()

	contractID, err := store.Create(ctx, "contracts", map[string]interface{}{
		"contract_name": "House 9",
		"kr_ready":      true,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, map[string]interface{}{
		"contract_id": contractID,
		"name":        "Basement",
	})
	require.NoError(t, err)

	listing, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listing.Rows, 1)

	row := listing.Rows[0]
	assert.Equal(t, "House 9", row["contract_name"])
	assert.EqualValues(t, true, truthy(row["kr_ready"]))
}
