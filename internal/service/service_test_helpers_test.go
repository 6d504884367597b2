package service

import (
	"fmt"
	"strings"
	"testing"

	"backoffice/internal/database"
	"backoffice/internal/records"
	"backoffice/internal/schema"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newServiceDBForTest(t *testing.T) *gorm.DB {
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
	return db
}

func newStoreForTest(t *testing.T, db *gorm.DB) *records.Store {
	t.Helper()
	return records.NewStore(db, schema.Default(), zap.NewNop())
}
