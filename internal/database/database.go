package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/models"
	"github.com/musicjoeyoung/MCP-ElevenLabs/pkg/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
}

// Options tunes the sqlite connection beyond its path
type Options struct {
	Verbose   bool
	EnableWAL bool
}

// Initialize creates a new database connection with the provided configuration.
// An empty path or ":memory:" opens a private in-memory database.
func Initialize(dbPath string, verbose bool) (*DB, error) {
	return Open(dbPath, Options{Verbose: verbose, EnableWAL: true})
}

// Open creates a new database connection with foreign keys enforced
func Open(dbPath string, opts Options) (*DB, error) {
	inMemory := dbPath == "" || dbPath == ":memory:"

	dsn := ":memory:"
	if !inMemory {
		// Ensure the database directory exists
		dir := filepath.Dir(dbPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = dbPath + "?_foreign_keys=on&_busy_timeout=5000"
		if opts.EnableWAL {
			dsn += "&_journal_mode=WAL"
		}
	}

	// Configure GORM logger
	logLevel := logger.Error
	if opts.Verbose {
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	if inMemory {
		// Every new connection would get its own empty database
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &DB{DB: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	return sqlDB.Close()
}

// HealthCheck verifies the database connection is working
func (db *DB) HealthCheck() error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// AutoMigrate runs GORM auto migration for the provided models
func (db *DB) AutoMigrate(models ...any) error {
	if err := db.DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	log.Printf("[INFO] Successfully migrated %d model(s)", len(models))
	return nil
}

// ForeignKeysEnabled reports whether sqlite is enforcing foreign keys on this connection
func (db *DB) ForeignKeysEnabled() (bool, error) {
	var enabled int
	if err := db.DB.Raw("PRAGMA foreign_keys").Scan(&enabled).Error; err != nil {
		return false, fmt.Errorf("failed to read foreign keys pragma: %w", err)
	}
	return enabled == 1, nil
}

// InitializeWithMigrations opens the configured database and migrates every model
func InitializeWithMigrations(cfg config.DatabaseConfig) (*DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is not configured")
	}

	db, err := Open(cfg.Path, Options{Verbose: cfg.Verbose, EnableWAL: cfg.EnableWAL})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// TableStatus reports whether a model's table exists
type TableStatus struct {
	Table  string
	Exists bool
}

// MigrationStatus reports table presence for every migrated model
func (db *DB) MigrationStatus() ([]TableStatus, error) {
	migrator := db.DB.Migrator()
	var statuses []TableStatus
	for _, model := range models.AllModels() {
		stmt := &gorm.Statement{DB: db.DB}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse model: %w", err)
		}
		statuses = append(statuses, TableStatus{
			Table:  stmt.Schema.Table,
			Exists: migrator.HasTable(model),
		})
	}
	return statuses, nil
}

// DropAll drops every migrated table, children first
func (db *DB) DropAll() error {
	all := models.AllModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.DB.Migrator().DropTable(all[i]); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	log.Printf("[INFO] Dropped %d table(s)", len(all))
	return nil
}
