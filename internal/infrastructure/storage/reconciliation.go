package storage

import (
	"database/sql"
	"time"

	"rentdesk-backend/internal/domain/reconcile"
)

const reconColumns = `id, bank_account_id, status, period_start, period_end,
	statement_balance, ledger_balance, variance, finalized_at, notes, import_ref, created_at`

func scanReconciliation(scan func(dest ...any) error) (*reconcile.Reconciliation, error) {
	rec := &reconcile.Reconciliation{}
	var status string
	var ledgerBalance, variance sql.NullFloat64
	var finalizedAt sql.NullTime
	err := scan(&rec.ID, &rec.BankAccountID, &status, &rec.PeriodStart, &rec.PeriodEnd,
		&rec.StatementBalance, &ledgerBalance, &variance, &finalizedAt,
		&rec.Notes, &rec.ImportRef, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	rec.Status = reconcile.Status(status)
	if ledgerBalance.Valid {
		rec.LedgerBalance = &ledgerBalance.Float64
	}
	if variance.Valid {
		rec.Variance = &variance.Float64
	}
	if finalizedAt.Valid {
		rec.FinalizedAt = &finalizedAt.Time
	}
	return rec, nil
}

func scanLine(scan func(dest ...any) error) (*reconcile.Line, error) {
	line := &reconcile.Line{}
	var status string
	var entryID sql.NullInt64
	err := scan(&line.ID, &line.ReconciliationID, &line.Date, &line.Description,
		&line.Amount, &status, &entryID)
	if err != nil {
		return nil, err
	}
	line.Status = reconcile.LineStatus(status)
	if entryID.Valid {
		line.MatchedEntryID = &entryID.Int64
	}
	return line, nil
}

// CreateReconciliation inserts the reconciliation and its lines in one
// transaction, filling in generated ids.
func (s *Storage) CreateReconciliation(rec *reconcile.Reconciliation) error {
	return s.inTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			INSERT INTO reconciliations (bank_account_id, status, period_start, period_end,
				statement_balance, notes, import_ref)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, rec.BankAccountID, string(rec.Status), rec.PeriodStart, rec.PeriodEnd,
			rec.StatementBalance, rec.Notes, rec.ImportRef)
		if err != nil {
			return err
		}
		rec.ID, err = result.LastInsertId()
		if err != nil {
			return err
		}

		for i := range rec.Lines {
			rec.Lines[i].ReconciliationID = rec.ID
			var entryID any
			if rec.Lines[i].MatchedEntryID != nil {
				entryID = *rec.Lines[i].MatchedEntryID
			}
			lineResult, err := tx.Exec(`
				INSERT INTO reconciliation_lines (reconciliation_id, line_date, description,
					amount, status, matched_entry_id)
				VALUES (?, ?, ?, ?, ?, ?)
			`, rec.ID, rec.Lines[i].Date, rec.Lines[i].Description,
				rec.Lines[i].Amount, string(rec.Lines[i].Status), entryID)
			if err != nil {
				return err
			}
			rec.Lines[i].ID, err = lineResult.LastInsertId()
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// GetReconciliation retrieves a reconciliation with its lines.
// Returns (nil, nil) if not found.
func (s *Storage) GetReconciliation(id int64) (*reconcile.Reconciliation, error) {
	row := s.db.QueryRow(`SELECT `+reconColumns+` FROM reconciliations WHERE id = ?`, id)
	rec, err := scanReconciliation(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, reconciliation_id, line_date, description, amount, status, matched_entry_id
		FROM reconciliation_lines WHERE reconciliation_id = ? ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		line, err := scanLine(rows.Scan)
		if err != nil {
			return nil, err
		}
		rec.Lines = append(rec.Lines, *line)
	}
	return rec, rows.Err()
}

// ListReconciliations returns reconciliation summaries (no lines) for a bank
// account, newest first.
func (s *Storage) ListReconciliations(bankAccountID int64) ([]*reconcile.Reconciliation, error) {
	rows, err := s.db.Query(`
		SELECT `+reconColumns+` FROM reconciliations
		WHERE bank_account_id = ? ORDER BY period_start DESC, id DESC
	`, bankAccountID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var recs []*reconcile.Reconciliation
	for rows.Next() {
		rec, err := scanReconciliation(rows.Scan)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// GetLine retrieves a single line by id. Returns (nil, nil) if not found.
func (s *Storage) GetLine(id int64) (*reconcile.Line, error) {
	row := s.db.QueryRow(`
		SELECT id, reconciliation_id, line_date, description, amount, status, matched_entry_id
		FROM reconciliation_lines WHERE id = ?
	`, id)
	line, err := scanLine(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return line, nil
}

// HasInProgress reports whether an IN_PROGRESS reconciliation exists for the
// bank account.
func (s *Storage) HasInProgress(bankAccountID int64) (bool, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM reconciliations WHERE bank_account_id = ? AND status = ?
	`, bankAccountID, string(reconcile.StatusInProgress)).Scan(&count)
	return count > 0, err
}

// MatchLine links a line to a ledger entry. Both guards run inside one
// transaction: the entry must not be linked anywhere and the line must still
// be UNMATCHED.
func (s *Storage) MatchLine(lineID, entryID int64) error {
	return s.inTx(func(tx *sql.Tx) error {
		var linked int
		err := tx.QueryRow(`
			SELECT COUNT(*) FROM reconciliation_lines WHERE matched_entry_id = ?
		`, entryID).Scan(&linked)
		if err != nil {
			return err
		}
		if linked > 0 {
			return ErrEntryAlreadyLinked
		}

		result, err := tx.Exec(`
			UPDATE reconciliation_lines SET status = ?, matched_entry_id = ?
			WHERE id = ? AND status = ?
		`, string(reconcile.LineMatched), entryID, lineID, string(reconcile.LineUnmatched))
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrLineStateChanged
		}
		return nil
	})
}

// SetLineStatus moves a line from the expected status to the target status,
// clearing any entry link.
func (s *Storage) SetLineStatus(lineID int64, from, to reconcile.LineStatus) error {
	result, err := s.db.Exec(`
		UPDATE reconciliation_lines SET status = ?, matched_entry_id = NULL
		WHERE id = ? AND status = ?
	`, string(to), lineID, string(from))
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLineStateChanged
	}
	return nil
}

// FinalizeReconciliation stamps the computed balances and flips the status.
// The WHERE clause is the compare-and-swap: a reconciliation finalizes once.
func (s *Storage) FinalizeReconciliation(id int64, ledgerBalance, variance float64, finalizedAt time.Time) error {
	result, err := s.db.Exec(`
		UPDATE reconciliations
		SET status = ?, ledger_balance = ?, variance = ?, finalized_at = ?
		WHERE id = ? AND status = ?
	`, string(reconcile.StatusFinalized), ledgerBalance, variance, finalizedAt,
		id, string(reconcile.StatusInProgress))
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAlreadyFinalized
	}
	return nil
}
