package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table of the store.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&LoginToken{},
		&Genre{},
		&Artist{},
		&Album{},
		&CartItem{},
		&Order{},
		&OrderDetail{},
	)
}
