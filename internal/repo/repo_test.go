package repo

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/vkhromov/retail_orders/internal/models"
)

func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	return &GormRepo{DB: InitTestDB(t)}
}
