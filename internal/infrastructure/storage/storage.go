package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Guard-failure sentinels returned by transactional reconciliation and
// posting operations. Services translate these into client-facing conflicts.
var (
	// ErrEntryAlreadyLinked means the ledger entry is already linked to a
	// reconciliation line.
	ErrEntryAlreadyLinked = errors.New("ledger entry already linked to a reconciliation line")

	// ErrLineStateChanged means the line was not in the expected status when
	// the update ran.
	ErrLineStateChanged = errors.New("reconciliation line not in expected status")

	// ErrAlreadyFinalized means the reconciliation is no longer IN_PROGRESS.
	ErrAlreadyFinalized = errors.New("reconciliation already finalized")
)

// Storage provides database access backed by SQLite.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository.
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	// Run all pending migrations
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// inTx runs fn inside a transaction, rolling back on error.
func (s *Storage) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
