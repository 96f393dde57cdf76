package postgres

import (
	"storefront/internal/errors"
	"storefront/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// catalogNameIndex enforces case-insensitive uniqueness of catalog names.
// The expression index is understood by both PostgreSQL and SQLite.
const catalogNameIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_servicios_nombre_lower ON servicios (LOWER(nombre))`

// Migrate creates or updates the storefront tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.AccountModel{}, &model.CatalogItemModel{}); err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}

	if err := db.Exec(catalogNameIndex).Error; err != nil {
		return errors.Wrap(err, "failed to create catalog name index")
	}

	return nil
}
