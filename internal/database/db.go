package database

import (
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL dialect
	_ "github.com/mattn/go-sqlite3"              // SQLite driver
)

var DB *gorm.DB

// InitDB initializes the database connection. Dialect is "sqlite3" or
// "postgres"; dsn is a file path or a connection string respectively.
func InitDB(dialect, dsn string) error {
	var err error
	DB, err = gorm.Open(dialect, dsn)
	if err != nil {
		return err
	}
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
