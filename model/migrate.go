package model

import "gorm.io/gorm"

// allModels lists every model to be auto-migrated.
var allModels = []interface{}{
	&Save{},
	&Player{},
	&Item{},
	&GameProgress{},
	&Setting{},
	&AuditLog{},
}

// AutoMigrate creates or updates all tables in the given database.
// It is idempotent: existing tables are left in place.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(allModels...)
}
