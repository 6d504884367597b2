package records

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"backoffice/internal/database"
	"backoffice/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newStoreForTest(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	return NewStore(db, schema.Default(), zap.NewNop())
}

func TestCreateAndGet(t *testing.T) {
	store := newStoreForTest(t)
	ctx := context.Background()

	id, err := store.Create(ctx, "brigades", map[string]interface{}{
		"name":      "Brigade A",
		"is_active": true,
	})
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	row, err := store.Get(ctx, "brigades", id)
	require.NoError(t, err)
	assert.Equal(t, "Brigade A", row["name"])
	assert.NotNil(t, row["created_at"])
	assert.NotNil(t, row["updated_at"])
}

func TestCreateEmptyStringBecomesNull(t *testing.T) {
	store := newStoreForTest(t)
	ctx := context.Background()

	id, err := store.Create(ctx, "brigades", map[string]interface{}{
		"name":  "Brigade B",
		"phone": "",
	})
	require.NoError(t, err)

	row, err := store.Get(ctx, "brigades", id)
	require.NoError(t, err)
	assert.Nil(t, row["phone"])
}

func TestProtectedFieldsIgnored(t *testing.T) {
	store := newStoreForTest(t)
	ctx := context.Background()

	bogus := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	id, err := store.Create(ctx, "brigades", map[string]interface{}{
		"name":       "Brigade C",
		"id":         int64(9999),
		"created_at": bogus,
		"updated_at": bogus,
	})
	require.NoError(t, err)
	assert.NotEqual(t, int64(9999), id)

	row, err := store.Get(ctx, "brigades", id)
	require.NoError(t, err)
	created, ok := row["created_at"].(time.Time)
	require.True(t, ok)
	assert.True(t, created.After(bogus))
}

func TestUnknownTableRejected(t *testing.T) {
	store := newStoreForTest(t)
	ctx := context.Background()

	_, err := store.List(ctx, "sessions", "")
	assert.ErrorIs(t, err, ErrTableNotAllowed)

	_, err = store.Create(ctx, "pg_catalog", map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, ErrTableNotAllowed)
}

func TestUnknownColumnRejected(t *testing.T) {
	store := newStoreForTest(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "brigades", map[string]interface{}{
		"name":        "Brigade D",
		"no_such_col": 1,
	})
	assert.ErrorIs(t, err, ErrColumnNotAllowed)
}

func TestUpdate(t *testing.T) {
	store := newStoreForTest(t)
	ctx := context.Background()

	id, err := store.Create(ctx, "brigades", map[string]interface{}{"name": "Before"})
	require.NoError(t, err)

	before, err := store.Get(ctx, "brigades", id)
	require.NoError(t, err)

	require.NoError(t, store.Update(ctx, "brigades", id, map[string]interface{}{"name": "After"}))

	after, err := store.Get(ctx, "brigades", id)
	require.NoError(t, err)
	assert.Equal(t, "After", after["name"])

	// updated_at is server-set on every write
	beforeTS, _ := before["updated_at"].(time.Time)
	afterTS, _ := after["updated_at"].(time.Time)
	assert.False(t, afterTS.Before(beforeTS))
}

func TestUpdateNotFound(t *testing.T) {
	store := newStoreForTest(t)
	err := store.Update(context.Background(), "brigades", 12345, map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateEmptyPayload(t *testing.T) {
	store := newStoreForTest(t)
	ctx := context.Background()

	id, err := store.Create(ctx, "brigades", map[string]interface{}{"name": "Brigade E"})
	require.NoError(t, err)

	// only protected fields in the payload leaves nothing to write
	err = store.Update(ctx, "brigades", id, map[string]interface{}{"id": id, "created_at": time.Now()})
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestDeleteReferencedRowReportsInUse(t *testing.T) {
	store := newStoreForTest(t)
	ctx := context.Background()

	contractID, err := store.Create(ctx, "contracts", map[string]interface{}{
		"contract_name": "House 1",
	})
	require.NoError(t, err)

	_, err = store.Create(ctx, "stages", map[string]interface{}{
		"contract_id": contractID,
		"name":        "Foundation",
	})
	require.NoError(t, err)

	err = store.Delete(ctx, "contracts", contractID)
	assert.ErrorIs(t, err, ErrRowInUse)

	// the referenced row must survive the failed delete
	_, err = store.Get(ctx, "contracts", contractID)
	assert.NoError(t, err)
}

func TestDeleteNotFound(t *testing.T) {
	store := newStoreForTest(t)
	err := store.Delete(context.Background(), "brigades", 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChangeHookFires(t *testing.T) {
	store := newStoreForTest(t)
	ctx := context.Background()

	var changes []Change
	store.SetChangeHook(func(_ context.Context, ch Change) {
		changes = append(changes, ch)
	})

	id, err := store.Create(ctx, "brigades", map[string]interface{}{"name": "Brigade F"})
	require.NoError(t, err)
	require.NoError(t, store.Update(ctx, "brigades", id, map[string]interface{}{"name": "Brigade F2"}))
	require.NoError(t, store.Delete(ctx, "brigades", id))

	require.Len(t, changes, 3)
	assert.Equal(t, Change{Table: "brigades", Action: "create", ID: id}, changes[0])
	assert.Equal(t, Change{Table: "brigades", Action: "update", ID: id}, changes[1])
	assert.Equal(t, Change{Table: "brigades", Action: "delete", ID: id}, changes[2])
}

func TestListOrderValidation(t *testing.T) {
	store := newStoreForTest(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "brigades", map[string]interface{}{"name": "Zulu"})
	require.NoError(t, err)
	_, err = store.Create(ctx, "brigades", map[string]interface{}{"name": "Alpha"})
	require.NoError(t, err)

	rows, err := store.List(ctx, "brigades", "name asc")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alpha", rows[0]["name"])

	_, err = store.List(ctx, "brigades", "name; drop table brigades")
	assert.Error(t, err)
}
