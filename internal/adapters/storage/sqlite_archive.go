package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/renato0307/vigia/internal/domain"
	"github.com/renato0307/vigia/internal/logging"
	"github.com/renato0307/vigia/internal/ports"
)

// SQLiteArchive implements ports.EventArchive using GORM
type SQLiteArchive struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var _ ports.EventArchive = (*SQLiteArchive)(nil)

// gormLogger wraps the vigia logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("gorm query error",
			"error", err,
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else if elapsed > 200*time.Millisecond {
		logging.Logger.Warn("slow query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else {
		logging.Logger.Debug("gorm query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	}
}

func newGormLogger() logger.Interface {
	if os.Getenv("VIGIA_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// NewSQLiteArchive opens (creating if needed) the history archive database
func NewSQLiteArchive(dbPath string) (*SQLiteArchive, error) {
	// Expand home directory if present
	if len(dbPath) > 0 && dbPath[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		PrepareStmt: false,
		NowFunc:     func() time.Time { return time.Now().UTC() },
		Logger:      newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for concurrent access
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")

	if err := db.AutoMigrate(&ArchivedEventModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate archive schema: %w", err)
	}

	return &SQLiteArchive{db: db}, nil
}

// Archive stores swept events. Events already archived (same event ID)
// are skipped so retention sweeps stay idempotent.
func (a *SQLiteArchive) Archive(events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := make([]ArchivedEventModel, 0, len(events))
	for _, event := range events {
		models = append(models, toModel(event, now))
	}

	result := a.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models)
	if result.Error != nil {
		var sqliteErr sqlite3.Error
		if errors.As(result.Error, &sqliteErr) && sqliteErr.Code == sqlite3.ErrBusy {
			return fmt.Errorf("archive database busy: %w", result.Error)
		}
		return fmt.Errorf("failed to archive events: %w", result.Error)
	}

	logging.Logger.Debug("Archived events", "count", len(models))
	return nil
}

// List returns archived events, newest first
func (a *SQLiteArchive) List(limit int) ([]domain.Event, error) {
	return a.query(a.db, limit)
}

// ListForProject returns archived events for one project, newest first
func (a *SQLiteArchive) ListForProject(project string, limit int) ([]domain.Event, error) {
	return a.query(a.db.Where("project = ?", project), limit)
}

func (a *SQLiteArchive) query(tx *gorm.DB, limit int) ([]domain.Event, error) {
	var models []ArchivedEventModel
	tx = tx.Order("timestamp DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}

	events := make([]domain.Event, 0, len(models))
	for _, model := range models {
		events = append(events, toDomain(model))
	}
	return events, nil
}

// Close closes the underlying database connection
func (a *SQLiteArchive) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}
