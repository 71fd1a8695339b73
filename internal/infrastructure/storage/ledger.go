package storage

import (
	"database/sql"

	"rentdesk-backend/internal/domain/ledger"
)

const entryColumns = `id, entry_date, account_code, amount, side, description,
	lease_id, status, reference, source_type, source_id, period, created_at`

func scanEntry(scan func(dest ...any) error) (*ledger.Entry, error) {
	e := &ledger.Entry{}
	var leaseID, sourceID sql.NullInt64
	var side string
	err := scan(&e.ID, &e.EntryDate, &e.AccountCode, &e.Amount, &side, &e.Description,
		&leaseID, &e.Status, &e.Reference, &e.SourceType, &sourceID, &e.Period, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Side = ledger.Side(side)
	if leaseID.Valid {
		e.LeaseID = &leaseID.Int64
	}
	if sourceID.Valid {
		e.SourceID = &sourceID.Int64
	}
	return e, nil
}

func insertEntry(tx *sql.Tx, e *ledger.Entry) error {
	if e.Status == "" {
		e.Status = ledger.EntryStatusPosted
	}
	result, err := tx.Exec(`
		INSERT INTO ledger_entries (entry_date, account_code, amount, side, description,
			lease_id, status, reference, source_type, source_id, period)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.EntryDate, e.AccountCode, e.Amount, string(e.Side), e.Description,
		e.LeaseID, e.Status, e.Reference, e.SourceType, e.SourceID, e.Period)
	if err != nil {
		return err
	}
	e.ID, err = result.LastInsertId()
	return err
}

// CreateEntries inserts entries in one transaction so paired DR/CR postings
// land together or not at all.
func (s *Storage) CreateEntries(entries []*ledger.Entry) error {
	return s.inTx(func(tx *sql.Tx) error {
		for _, e := range entries {
			if err := insertEntry(tx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetEntry retrieves a ledger entry by id. Returns (nil, nil) if not found.
func (s *Storage) GetEntry(id int64) (*ledger.Entry, error) {
	row := s.db.QueryRow(`SELECT `+entryColumns+` FROM ledger_entries WHERE id = ?`, id)
	e, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListEntries returns ledger entries matching the filters, oldest first.
func (s *Storage) ListEntries(filters LedgerFilters) ([]*ledger.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE 1=1`
	args := []any{}

	if filters.AccountCode != "" {
		query += ` AND account_code = ?`
		args = append(args, filters.AccountCode)
	}
	if filters.LeaseID != 0 {
		query += ` AND lease_id = ?`
		args = append(args, filters.LeaseID)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` ORDER BY entry_date, id LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []*ledger.Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListUnlinkedEntries returns posted entries on the account that no
// reconciliation line references, in insertion order. Insertion order is the
// matcher's scan order, so tie-breaks are stable across calls.
func (s *Storage) ListUnlinkedEntries(accountCode string) ([]*ledger.Entry, error) {
	rows, err := s.db.Query(`
		SELECT `+entryColumns+` FROM ledger_entries
		WHERE account_code = ?
		  AND status = ?
		  AND id NOT IN (
			SELECT matched_entry_id FROM reconciliation_lines
			WHERE matched_entry_id IS NOT NULL
		  )
		ORDER BY id
	`, accountCode, ledger.EntryStatusPosted)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []*ledger.Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
