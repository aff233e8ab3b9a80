// Package database opens the gorm connection that backs notes and progress.
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/bjpl/algolearn/internal/config"
	"github.com/bjpl/algolearn/internal/logging"
	"github.com/bjpl/algolearn/internal/models"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to the configured database. SQL statements are routed to
// log at debug level; slow queries are reported as warnings.
func Open(cfg config.DatabaseConfig, log *logging.Logger) (*gorm.DB, error) {
	if log == nil {
		log = logging.Nop()
	}

	var dialector gorm.Dialector
	switch cfg.Type {
	case "", TypeSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite database path is empty")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dialector = sqlite.Open(cfg.Path)
	case TypePostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres dsn is empty")
		}
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown database type %q", cfg.Type)
	}

	gormLog := gormLogger.New(
		log.With("component", "gorm"),
		gormLogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", typeName(cfg.Type), err)
	}

	log.Debug("database_opened", "type", typeName(cfg.Type))
	return db, nil
}

// Migrate creates or updates the notes and progress tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Note{}, &models.LessonProgress{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func typeName(t string) string {
	if t == "" {
		return TypeSQLite
	}
	return t
}
