package storage

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database schema migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// allMigrations defines all migrations in order
var allMigrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Up:      migration001InitialSchema,
	},
	{
		Version: 2,
		Name:    "add_ledger_entries",
		Up:      migration002AddLedgerEntries,
	},
	{
		Version: 3,
		Name:    "add_reconciliation_tables",
		Up:      migration003AddReconciliationTables,
	},
	{
		Version: 4,
		Name:    "add_scheduled_charges",
		Up:      migration004AddScheduledCharges,
	},
}

// runMigrations executes all pending migrations
func (s *Storage) runMigrations() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, migration := range allMigrations {
		if applied[migration.Version] {
			continue // Already applied
		}

		log.Printf("Running migration %d: %s", migration.Version, migration.Name)

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		_, err = tx.Exec(`
			INSERT INTO schema_migrations (version, name) VALUES (?, ?)
		`, migration.Version, migration.Name)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// ensureMigrationsTable creates the schema_migrations table
func (s *Storage) ensureMigrationsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	_, err := s.db.Exec(query)
	return err
}

// getAppliedMigrations returns a set of applied migration versions
func (s *Storage) getAppliedMigrations() (map[int]bool, error) {
	applied := make(map[int]bool)

	rows, err := s.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

func migration001InitialSchema(tx *sql.Tx) error {
	queries := []string{
		`CREATE TABLE properties (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			street TEXT NOT NULL,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			zip TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE units (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			property_id INTEGER NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			label TEXT NOT NULL,
			bedrooms INTEGER NOT NULL DEFAULT 0,
			bathrooms REAL NOT NULL DEFAULT 0,
			market_rent REAL NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX idx_units_property ON units(property_id)`,
		`CREATE TABLE leases (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			unit_id INTEGER NOT NULL REFERENCES units(id),
			tenant_name TEXT NOT NULL,
			tenant_email TEXT NOT NULL DEFAULT '',
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			monthly_rent REAL NOT NULL,
			deposit_amount REAL NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX idx_leases_unit ON leases(unit_id)`,
		`CREATE TABLE bank_accounts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			last_four TEXT NOT NULL,
			account_code TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

func migration002AddLedgerEntries(tx *sql.Tx) error {
	queries := []string{
		`CREATE TABLE ledger_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_date DATE NOT NULL,
			account_code TEXT NOT NULL,
			amount REAL NOT NULL,
			side TEXT NOT NULL CHECK (side IN ('DR', 'CR')),
			description TEXT NOT NULL,
			lease_id INTEGER REFERENCES leases(id),
			status TEXT NOT NULL DEFAULT 'posted',
			reference TEXT NOT NULL,
			source_type TEXT NOT NULL DEFAULT 'manual',
			source_id INTEGER,
			period TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX idx_ledger_account ON ledger_entries(account_code)`,
		`CREATE INDEX idx_ledger_lease ON ledger_entries(lease_id)`,
		`CREATE INDEX idx_ledger_amount ON ledger_entries(amount)`,
	}

	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

func migration003AddReconciliationTables(tx *sql.Tx) error {
	queries := []string{
		`CREATE TABLE reconciliations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			bank_account_id INTEGER NOT NULL REFERENCES bank_accounts(id),
			status TEXT NOT NULL DEFAULT 'IN_PROGRESS',
			period_start DATE NOT NULL,
			period_end DATE NOT NULL,
			statement_balance REAL NOT NULL,
			ledger_balance REAL,
			variance REAL,
			finalized_at TIMESTAMP,
			notes TEXT NOT NULL DEFAULT '',
			import_ref TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		// Backstop for the service-level guard: at most one open
		// reconciliation per bank account.
		`CREATE UNIQUE INDEX idx_recon_open ON reconciliations(bank_account_id)
			WHERE status = 'IN_PROGRESS'`,
		`CREATE TABLE reconciliation_lines (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			reconciliation_id INTEGER NOT NULL REFERENCES reconciliations(id) ON DELETE CASCADE,
			line_date DATE NOT NULL,
			description TEXT NOT NULL,
			amount REAL NOT NULL,
			status TEXT NOT NULL DEFAULT 'UNMATCHED',
			matched_entry_id INTEGER REFERENCES ledger_entries(id)
		)`,
		`CREATE INDEX idx_lines_recon ON reconciliation_lines(reconciliation_id)`,
		// A ledger entry can be linked by at most one line, ever.
		`CREATE UNIQUE INDEX idx_lines_entry ON reconciliation_lines(matched_entry_id)
			WHERE matched_entry_id IS NOT NULL`,
	}

	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

func migration004AddScheduledCharges(tx *sql.Tx) error {
	queries := []string{
		`CREATE TABLE scheduled_charges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			lease_id INTEGER NOT NULL REFERENCES leases(id) ON DELETE CASCADE,
			description TEXT NOT NULL,
			amount REAL NOT NULL,
			charge_day INTEGER NOT NULL CHECK (charge_day BETWEEN 1 AND 28),
			account_code TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 1,
			last_charged_date TIMESTAMP,
			last_charged_period TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX idx_charges_lease ON scheduled_charges(lease_id)`,
	}

	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return err
		}
	}
	return nil
}
