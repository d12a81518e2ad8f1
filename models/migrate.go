package models

import "gorm.io/gorm"

// Migrate creates or updates every table the API owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Session{},
		&Category{},
		&Product{},
		&Order{},
		&Favorite{},
		&CartEntry{},
	)
}
