package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"backoffice/internal/adesk"
	"backoffice/internal/database"
	"backoffice/internal/model"
	"backoffice/internal/records"
	"backoffice/internal/schema"
	"backoffice/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeAdesk struct {
	transactions []adesk.Transaction
	err          error
}

func (f *fakeAdesk) Transactions(_ context.Context, _, _ time.Time) ([]adesk.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.transactions, nil
}

func newSyncServiceForTest(t *testing.T, client adesk.Client) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
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

	store := records.NewStore(db, schema.Default(), zap.NewNop())
	settings := service.NewSettingsService(db, store)
	sales := service.NewSalesService(db, store, settings, nil, zap.NewNop())
	return NewService(db, store, sales, client, zap.NewNop()), db
}

func TestRunAdeskUpsertsByExternalID(t *testing.T) {
	client := &fakeAdesk{transactions: []adesk.Transaction{
		{ID: "tx-1", Date: "2025-06-01", Amount: decimal.NewFromInt(1500), Description: "advance", Type: "income"},
		{ID: "tx-2", Date: "2025-06-02", Amount: decimal.NewFromInt(-300), Description: "materials", Type: "expense"},
	}}
	svc, db := newSyncServiceForTest(t, client)
	ctx := context.Background()

	result, err := svc.RunAdesk(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Empty(t, result.Errors)

	// same ids again: rows are updated, not duplicated
	client.transactions[0].Description = "advance corrected"
	result, err = svc.RunAdesk(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)

	var rows []model.AdeskTransaction
	require.NoError(t, db.Order("external_id asc").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "advance corrected", rows[0].Description)
}

func TestRunAdeskNotConfigured(t *testing.T) {
	svc, _ := newSyncServiceForTest(t, nil)

	_, err := svc.RunAdesk(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestRunAdeskUpstreamFailure(t *testing.T) {
	svc, _ := newSyncServiceForTest(t, &fakeAdesk{err: errors.New("api down")})

	_, err := svc.RunAdesk(context.Background())
	assert.Error(t, err)
}

func TestRunBitrixWithoutCRMStillAggregatesContracts(t *testing.T) {
	svc, db := newSyncServiceForTest(t, nil)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Manager{Name: "Смирнов", IsActive: true}).Error)

	result, err := svc.RunBitrix(ctx, 2025, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Empty(t, result.Errors)
}
