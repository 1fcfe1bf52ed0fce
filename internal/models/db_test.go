package models

import (
	"context"
	"testing"

	"github.com/shm-admin/backend/internal/constants"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewDatabase(db)
}

func TestProbeMigratesAndSeedsBranding(t *testing.T) {
	database := openTestDatabase(t)
	if database.Connected() {
		t.Fatalf("database should not be connected before probe")
	}
	if err := database.Probe(context.Background()); err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if !database.Connected() {
		t.Fatalf("database should be connected after probe")
	}

	var setting AdminSetting
	if err := database.Gorm().Where("setting_key = ?", constants.SettingKeyBranding).First(&setting).Error; err != nil {
		t.Fatalf("branding row should be seeded: %v", err)
	}
	if !setting.Value.Equal(DefaultBrandingDocument()) {
		t.Fatalf("seeded branding want defaults got %s", setting.Value)
	}
}

func TestSeedBrandingKeepsExistingRow(t *testing.T) {
	database := openTestDatabase(t)
	ctx := context.Background()
	if err := AutoMigrate(database.Gorm()); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	custom, _ := ParseDocument([]byte(`{"appName":"Custom"}`))
	if err := database.Gorm().Create(&AdminSetting{Key: constants.SettingKeyBranding, Value: custom}).Error; err != nil {
		t.Fatalf("create branding failed: %v", err)
	}

	if err := SeedBranding(ctx, database.Gorm()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := SeedBranding(ctx, database.Gorm()); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	var rows []AdminSetting
	if err := database.Gorm().Where("setting_key = ?", constants.SettingKeyBranding).Find(&rows).Error; err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("branding rows want 1 got %d", len(rows))
	}
	if !rows[0].Value.Equal(custom) {
		t.Fatalf("existing branding should be kept, got %s", rows[0].Value)
	}
}

func TestProbeFailureMarksDisconnected(t *testing.T) {
	database := openTestDatabase(t)
	sqlDB, _ := database.Gorm().DB()
	_ = sqlDB.Close()

	if err := database.Probe(context.Background()); err == nil {
		t.Fatalf("probe on closed pool should fail")
	}
	if database.Connected() {
		t.Fatalf("database should stay disconnected after failed probe")
	}
}

func TestNilDatabaseIsDisconnected(t *testing.T) {
	var database *Database
	if database.Connected() {
		t.Fatalf("nil database should be disconnected")
	}
	if err := database.Probe(context.Background()); err != ErrDatabaseNotInitialized {
		t.Fatalf("expected ErrDatabaseNotInitialized got %v", err)
	}
	if err := database.Close(); err != nil {
		t.Fatalf("closing nil database should be a no-op: %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(DBOptions{Driver: "oracle"}); err == nil {
		t.Fatalf("unknown driver should fail")
	}
}
