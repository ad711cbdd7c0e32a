package db_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/recipebook-backend/internal/data/db"
	"github.com/yungbote/recipebook-backend/internal/data/repos/testutil"
	"github.com/yungbote/recipebook-backend/internal/domain"
)

func TestAutoMigrateBackfillsFoldedColumns(t *testing.T) {
	conn := testutil.SQLite(t)
	now := time.Now().UTC()
	in := &domain.Ingredient{StorageID: uuid.New(), DomainID: 1, Name: "Żurek", Quantity: 1, Unit: domain.UnitCups, Nutrition: 1, CreatedAt: now, UpdatedAt: now}
	if err := conn.Create(in).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := conn.Exec("UPDATE ingredients SET name_folded = NULL").Error; err != nil {
		t.Fatalf("reset folded column: %v", err)
	}

	if err := db.AutoMigrateAll(conn); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	var got domain.Ingredient
	if err := conn.First(&got, "storage_id = ?", in.StorageID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.NameFolded != "żurek" || got.Name != "Żurek" {
		t.Fatalf("unexpected row after backfill: name=%q folded=%q", got.Name, got.NameFolded)
	}
}
