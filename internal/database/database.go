package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/movielog/movielog/internal/config"
	"github.com/movielog/movielog/internal/logger"
)

var db *gorm.DB

// Initialize sets up the database connection from the loaded configuration.
func Initialize() error {
	cfg := config.Get()

	var err error
	switch cfg.Database.Type {
	case "postgres":
		db, err = connectPostgres(&cfg.Database)
	case "sqlite":
		db, err = connectSQLite(&cfg.Database)
	default:
		return fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	logger.Info("database initialized", "type", cfg.Database.Type)
	return nil
}

func connectPostgres(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.Username, cfg.Password, cfg.Database, cfg.Port)

	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogMode(cfg),
	})
}

func connectSQLite(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: gormLogMode(cfg),
	})
}

func gormLogMode(cfg *config.DatabaseConfig) gormlogger.Interface {
	if cfg.LogQueries {
		return gormlogger.Default.LogMode(gormlogger.Info)
	}
	return gormlogger.Default.LogMode(gormlogger.Warn)
}

// GetDB returns the database instance.
func GetDB() *gorm.DB {
	return db
}

// SetDB overrides the database instance. Intended for tests.
func SetDB(d *gorm.DB) {
	db = d
}

// Close closes the underlying connection pool.
func Close() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
