package db

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/recipebook-backend/internal/domain"
)

const backfillBatchSize = 200

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.AllModels()...); err != nil {
		return fmt.Errorf("automigrate catalog: %w", err)
	}
	if err := backfillFolded[domain.Recipe](db, "name_folded", "description_folded", "cooking_time_folded"); err != nil {
		return fmt.Errorf("backfill recipes: %w", err)
	}
	if err := backfillFolded[domain.Ingredient](db, "name_folded"); err != nil {
		return fmt.Errorf("backfill ingredients: %w", err)
	}
	return nil
}

// backfillFolded fills the case-folded search columns of rows written before
// those columns existed. The first column marks a row as pending.
func backfillFolded[T any, PT interface {
	*T
	Prepare()
}](db *gorm.DB, columns ...string) error {
	var rows []PT
	return db.Model(PT(new(T))).
		Where(clause.Eq{Column: clause.Column{Name: columns[0]}, Value: nil}).
		FindInBatches(&rows, backfillBatchSize, func(_ *gorm.DB, _ int) error {
			for _, row := range rows {
				row.Prepare()
				if err := db.Model(row).Select(columns).Updates(row).Error; err != nil {
					return err
				}
			}
			return nil
		}).Error
}
