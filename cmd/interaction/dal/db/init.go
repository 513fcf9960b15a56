package db

import "gorm.io/gorm"

var DB *gorm.DB

// Init binds the package to an opened connection.
func Init(db *gorm.DB) {
	DB = db
}
