// Package ledger records a local run history for the scheduler CLI in a
// single embedded sqlite file: every invocation of `regwindow run` given
// --ledger (or run with ledger.enabled set) appends one Run row.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Run is one recorded `regwindow run` invocation.
type Run struct {
	ID             string `gorm:"column:id;primaryKey;type:varchar(36)"`
	InputPath      string `gorm:"column:input_path;type:varchar(512)"`
	NodeCount      int    `gorm:"column:node_count"`
	CopiesInserted int    `gorm:"column:copies_inserted"`
	IterationsUsed int    `gorm:"column:iterations_used"`
	Strict         bool   `gorm:"column:strict"`
	DurationMs     int64  `gorm:"column:duration_ms"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for Run.
func (Run) TableName() string {
	return "runs"
}

// NewGormDB opens (creating if necessary) the sqlite file at path and
// auto-migrates the Run model.
func NewGormDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("failed to migrate ledger schema: %w", err)
	}

	return db, nil
}

// Ledger appends and queries run history backed by a gorm.DB.
type Ledger struct {
	db *gorm.DB
}

// New wraps an already-opened *gorm.DB as a Ledger.
func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Open opens the sqlite file at path and returns a ready-to-use Ledger.
func Open(path string) (*Ledger, error) {
	db, err := NewGormDB(path)
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// RecordRun stamps run with a fresh UUID and inserts it.
func (l *Ledger) RecordRun(ctx context.Context, run *Run) error {
	run.ID = uuid.NewString()
	return l.db.WithContext(ctx).Create(run).Error
}

// Recent returns the most recent limit runs, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	err := l.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&runs).Error
	return runs, err
}

// Close releases the underlying database connection.
func (l *Ledger) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
