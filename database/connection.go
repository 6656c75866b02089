// database/connection.go
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL/MariaDB driver
	"github.com/time2cinema/scrape/config"
)

var DB *sql.DB

// ErrNotInitialized is returned by every store function called before
// InitDB.
var ErrNotInitialized = errors.New("database connection is not initialized")

// DSN builds the go-sql-driver DSN for cfg. parseTime maps DATE/DATETIME
// columns to time.Time; utf8mb4 keeps every CJK title intact.
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
	)
}

// InitDB initializes the database connection pool.
func InitDB(cfg config.DatabaseConfig) error {
	var err error
	DB, err = sql.Open("mysql", DSN(cfg))
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	if err = DB.Ping(); err != nil {
		DB.Close()
		DB = nil
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database!")
	return nil
}

// Ping reports whether the pool can still reach the server.
func Ping() error {
	if DB == nil {
		return ErrNotInitialized
	}
	return DB.Ping()
}

// CloseDB closes the database connection pool.
func CloseDB() {
	if DB != nil {
		DB.Close()
		DB = nil
		log.Println("Database connection closed.")
	}
}
