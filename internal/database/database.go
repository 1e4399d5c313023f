package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tastebook/backend/config"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// Connect opens the application database. Postgres may still be coming up
// when we are (compose, CI), so the initial connection retries briefly.
// TranslateError turns driver-specific unique violations into
// gorm.ErrDuplicatedKey, which the services rely on.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	log.Printf("Connecting to database at %s:%s as user %s", cfg.DBHost, cfg.DBPort, cfg.DBUser)

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err = gorm.Open(postgres.Open(cfg.DatabaseDSN()), &gorm.Config{
			TranslateError: true,
		})
		if err == nil {
			break
		}
		log.Printf("Database not ready (attempt %d/%d): %v", attempt, connectAttempts, err)
		time.Sleep(connectBackoff)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	log.Printf("Successfully connected to database")
	return db, nil
}
