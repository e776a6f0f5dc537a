package database

import (
	"fmt"
	"time"

	"github.com/nneonya/Travel-app/internal/config"
	"github.com/nneonya/Travel-app/internal/models"
	"github.com/nneonya/Travel-app/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the PostgreSQL pool. The returned handle is shared by every
// handler; callers own its lifetime.
func Connect(cfg config.Config) (*gorm.DB, error) {
	level := gormlogger.Silent
	if !cfg.IsProduction() {
		level = gormlogger.Warn
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	logger.Info().Int("max_open", 25).Int("max_idle", 10).Msg("Connected to PostgreSQL")
	return db, nil
}

// AllModels lists every table in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&models.City{},
		&models.User{},
		&models.Trip{},
		&models.TripRequest{},
		&models.TripParticipant{},
		&models.Chat{},
		&models.Message{},
		&models.Review{},
		&models.ReviewPhoto{},
		&models.Notification{},
	}
}

// AutoMigrate creates tables, foreign keys and the unique indexes the
// request workflow relies on.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range AllModels() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}
	return nil
}

// Ping reports whether the pool can reach the database.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close releases the pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
