// Package params provides the vehicle parameter store: a SQLite-backed
// key-value table read once at start-up, with environment-variable
// overrides for individual keys.
package params

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite" // Pure Go SQLite driver (no CGO required)
	"github.com/lucsky/cuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Setting is one parameter row.
// Table: settings
type Setting struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Key       string    `gorm:"column:key;uniqueIndex"`
	Value     string    `gorm:"column:value"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName sets the settings table name.
func (Setting) TableName() string { return "settings" }

// Config holds store configuration.
type Config struct {
	// URL is the database location ("file:./teleop.db" or a plain path).
	// Empty disables persistence: lookups fall through to the environment
	// and compiled-in defaults.
	URL string
	// Namespace is prepended to every key ("mavros" -> "mavros/rc_map/roll").
	Namespace string
	Debug     bool
}

// Store reads parameters with per-key defaults. Lookup order: environment
// override, settings table, default. Built once at start-up; the single
// load pass is the only reader.
type Store struct {
	db        *gorm.DB
	namespace string
}

// Open connects to the parameter database and migrates the settings table.
func Open(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return &Store{namespace: cfg.Namespace}, nil
	}

	dbPath := strings.TrimPrefix(cfg.URL, "file:")
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create parameter database directory: %w", err)
		}
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		},
	)

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open parameter database: %w", err)
	}
	if err := db.AutoMigrate(&Setting{}); err != nil {
		return nil, fmt.Errorf("failed to migrate settings table: %w", err)
	}

	log.Printf("Parameter store opened: %s", dbPath)
	return &Store{db: db, namespace: cfg.Namespace}, nil
}

// Close closes the underlying database, if any.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) fullKey(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + "/" + key
}

// envKey derives the override variable for a parameter key:
// "axes_map/roll" -> "TELEOP_AXES_MAP_ROLL".
func envKey(key string) string {
	return "TELEOP_" + strings.ToUpper(strings.ReplaceAll(key, "/", "_"))
}

// lookup returns the raw value for key, or ok=false when absent.
func (s *Store) lookup(key string) (string, bool, error) {
	if v, exists := os.LookupEnv(envKey(key)); exists {
		return v, true, nil
	}
	if s.db == nil {
		return "", false, nil
	}
	var setting Setting
	result := s.db.First(&setting, "key = ?", s.fullKey(key))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("parameter %s: %w", key, result.Error)
	}
	return setting.Value, true, nil
}

// String returns the string parameter for key, or def when absent.
func (s *Store) String(key, def string) (string, error) {
	v, ok, err := s.lookup(key)
	if err != nil || !ok {
		return def, err
	}
	return v, nil
}

// Int returns the integer parameter for key, or def when absent.
func (s *Store) Int(key string, def int) (int, error) {
	v, ok, err := s.lookup(key)
	if err != nil || !ok {
		return def, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("parameter %s: invalid integer %q", key, v)
	}
	return n, nil
}

// Float returns the float parameter for key, or def when absent.
func (s *Store) Float(key string, def float64) (float64, error) {
	v, ok, err := s.lookup(key)
	if err != nil || !ok {
		return def, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("parameter %s: invalid float %q", key, v)
	}
	return f, nil
}

// Bool returns the boolean parameter for key, or def when absent.
func (s *Store) Bool(key string, def bool) (bool, error) {
	v, ok, err := s.lookup(key)
	if err != nil || !ok {
		return def, err
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("parameter %s: invalid boolean %q", key, v)
	}
	return b, nil
}

// Set creates or updates a parameter row. Used by provisioning tooling and
// tests; the bridge itself only reads.
func (s *Store) Set(key, value string) error {
	if s.db == nil {
		return errors.New("parameter store has no database")
	}
	full := s.fullKey(key)

	var setting Setting
	result := s.db.First(&setting, "key = ?", full)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		setting = Setting{ID: cuid.New(), Key: full, Value: value}
		return s.db.Create(&setting).Error
	} else if result.Error != nil {
		return result.Error
	}

	setting.Value = value
	return s.db.Save(&setting).Error
}
