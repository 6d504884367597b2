package access_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	. "backoffice/internal/access"

	"backoffice/internal/database"
	"backoffice/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGateForTest(t *testing.T) (*Gate, *gorm.DB) {
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
	return NewGate(db, zap.NewNop()), db
}

func TestMissingPermissionRowDeniesEverything(t *testing.T) {
	gate, _ := newGateForTest(t)
	ctx := context.Background()

	assert.False(t, gate.CanView(ctx, 42, ResourceContracts))
	assert.False(t, gate.CanCreate(ctx, 42, ResourceContracts))
	assert.False(t, gate.CanEdit(ctx, 42, ResourceContracts))
	assert.False(t, gate.CanDelete(ctx, 42, ResourceContracts))
}

func TestCapabilityFollowsPermissionRow(t *testing.T) {
	gate, db := newGateForTest(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Permission{
		RoleID:   2,
		Resource: ResourceContracts,
		CanView:  true,
		CanEdit:  true,
	}).Error)

	assert.True(t, gate.CanView(ctx, 2, ResourceContracts))
	assert.True(t, gate.CanEdit(ctx, 2, ResourceContracts))
	assert.False(t, gate.CanCreate(ctx, 2, ResourceContracts))
	assert.False(t, gate.CanDelete(ctx, 2, ResourceContracts))

	// other resources of the same role stay denied
	assert.False(t, gate.CanView(ctx, 2, ResourceStages))
}

func TestHiddenFieldsFilteredAgainstHideable(t *testing.T) {
	gate, db := newGateForTest(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Permission{
		RoleID:       3,
		Resource:     ResourceContracts,
		CanView:      true,
		HiddenFields: `["profit", "contract_name", "no_such_field"]`,
	}).Error)

	hidden := gate.HiddenFields(ctx, 3, ResourceContracts)
	assert.Equal(t, []string{"profit"}, hidden)
}

func TestInvalidateDropsCachedPermissions(t *testing.T) {
	gate, db := newGateForTest(t)
	ctx := context.Background()

	perm := model.Permission{RoleID: 4, Resource: ResourceBrigades}
	require.NoError(t, db.Create(&perm).Error)
	assert.False(t, gate.CanView(ctx, 4, ResourceBrigades))

	require.NoError(t, db.Model(&perm).Update("can_view", true).Error)

	// still served from cache until invalidated
	assert.False(t, gate.CanView(ctx, 4, ResourceBrigades))

	gate.Invalidate(4)
	assert.True(t, gate.CanView(ctx, 4, ResourceBrigades))
}

func TestPayloadCoversAllResources(t *testing.T) {
	gate, db := newGateForTest(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Permission{
		RoleID:   5,
		Resource: ResourceDashboard,
		CanView:  true,
	}).Error)

	payload := gate.Payload(ctx, 5)
	require.Len(t, payload, len(Resources))
	assert.True(t, payload[ResourceDashboard].CanView)
	for resource, c := range payload {
		assert.NotNil(t, c.HiddenFields, "hidden_fields must never be null for %s", resource)
		if resource != ResourceDashboard {
			assert.False(t, c.CanView)
		}
	}
}

func TestRedact(t *testing.T) {
	rows := []map[string]interface{}{
		{"id": 1, "contract_name": "A", "profit": 100},
		{"id": 2, "contract_name": "B", "profit": 200},
	}
	Redact(rows, []string{"profit"})

	for _, row := range rows {
		assert.NotContains(t, row, "profit")
		assert.Contains(t, row, "contract_name")
	}
}
