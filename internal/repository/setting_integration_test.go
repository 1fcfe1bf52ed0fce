//go:build integration
// +build integration

package repository

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/shm-admin/backend/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupIntegrationDB 按环境变量连接真实数据库，未配置时跳过
func setupIntegrationDB(t *testing.T, envName string, open func(string) gorm.Dialector) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv(envName))
	if dsn == "" {
		t.Skipf("skip integration test: %s is empty", envName)
	}

	db, err := gorm.Open(open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open database failed: %v", err)
	}
	_ = db.Migrator().DropTable(&models.AdminSetting{})
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate settings failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(&models.AdminSetting{})
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func runUpsertIntegration(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()
	repo := NewSettingRepository(db)

	doc, err := models.ParseDocument([]byte(`{"appName":"X","nested":{"a":[1,2,3]}}`))
	if err != nil {
		t.Fatalf("parse document failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := repo.Upsert(ctx, "branding", doc); err != nil {
			t.Fatalf("upsert #%d failed: %v", i, err)
		}
	}

	var count int64
	if err := db.Model(&models.AdminSetting{}).Where("setting_key = ?", "branding").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("rows want 1 got %d", count)
	}

	got, err := repo.GetByKey(ctx, "branding")
	if err != nil || got == nil {
		t.Fatalf("get failed: %v", err)
	}
	fields, err := got.Value.Object()
	if err != nil {
		t.Fatalf("stored value should be an object: %v", err)
	}
	if string(fields["appName"]) != `"X"` {
		t.Fatalf("appName want \"X\" got %s", fields["appName"])
	}
}

func TestMySQLSettingUpsert(t *testing.T) {
	db := setupIntegrationDB(t, "TEST_MYSQL_DSN", mysql.Open)
	runUpsertIntegration(t, db)
}

func TestPostgresSettingUpsert(t *testing.T) {
	db := setupIntegrationDB(t, "TEST_POSTGRES_DSN", postgres.Open)
	runUpsertIntegration(t, db)
}
