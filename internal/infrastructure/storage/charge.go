package storage

import (
	"database/sql"
	"time"

	"rentdesk-backend/internal/domain/ledger"
	"rentdesk-backend/internal/domain/schedule"
)

const chargeColumns = `id, lease_id, description, amount, charge_day,
	account_code, active, last_charged_date, created_at`

func scanCharge(scan func(dest ...any) error) (*schedule.Charge, error) {
	c := &schedule.Charge{}
	var lastCharged sql.NullTime
	err := scan(&c.ID, &c.LeaseID, &c.Description, &c.Amount, &c.ChargeDay,
		&c.AccountCode, &c.Active, &lastCharged, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if lastCharged.Valid {
		c.LastCharged = &lastCharged.Time
	}
	return c, nil
}

// CreateCharge inserts a scheduled charge and fills in the generated id.
func (s *Storage) CreateCharge(c *schedule.Charge) error {
	result, err := s.db.Exec(`
		INSERT INTO scheduled_charges (lease_id, description, amount, charge_day, account_code, active)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.LeaseID, c.Description, c.Amount, c.ChargeDay, c.AccountCode, c.Active)
	if err != nil {
		return err
	}
	c.ID, err = result.LastInsertId()
	return err
}

// GetCharge retrieves a scheduled charge by id. Returns (nil, nil) if not found.
func (s *Storage) GetCharge(id int64) (*schedule.Charge, error) {
	row := s.db.QueryRow(`SELECT `+chargeColumns+` FROM scheduled_charges WHERE id = ?`, id)
	c, err := scanCharge(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCharges returns all charges for a lease, active or not.
func (s *Storage) ListCharges(leaseID int64) ([]*schedule.Charge, error) {
	return s.queryCharges(`
		SELECT `+chargeColumns+` FROM scheduled_charges WHERE lease_id = ? ORDER BY id
	`, leaseID)
}

// ListActiveCharges returns active charges, optionally scoped to one lease.
func (s *Storage) ListActiveCharges(leaseID *int64) ([]*schedule.Charge, error) {
	if leaseID != nil {
		return s.queryCharges(`
			SELECT `+chargeColumns+` FROM scheduled_charges
			WHERE active = 1 AND lease_id = ? ORDER BY id
		`, *leaseID)
	}
	return s.queryCharges(`
		SELECT ` + chargeColumns + ` FROM scheduled_charges WHERE active = 1 ORDER BY id
	`)
}

func (s *Storage) queryCharges(query string, args ...any) ([]*schedule.Charge, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var charges []*schedule.Charge
	for rows.Next() {
		c, err := scanCharge(rows.Scan)
		if err != nil {
			return nil, err
		}
		charges = append(charges, c)
	}
	return charges, rows.Err()
}

// UpdateCharge updates a charge's editable fields, including the active flag.
func (s *Storage) UpdateCharge(c *schedule.Charge) error {
	_, err := s.db.Exec(`
		UPDATE scheduled_charges
		SET description = ?, amount = ?, charge_day = ?, account_code = ?, active = ?
		WHERE id = ?
	`, c.Description, c.Amount, c.ChargeDay, c.AccountCode, c.Active, c.ID)
	return err
}

// DeleteCharge removes a scheduled charge.
func (s *Storage) DeleteCharge(id int64) error {
	_, err := s.db.Exec(`DELETE FROM scheduled_charges WHERE id = ?`, id)
	return err
}

// ResetChargeLastCharged clears the last-charged marker.
func (s *Storage) ResetChargeLastCharged(id int64) error {
	_, err := s.db.Exec(`
		UPDATE scheduled_charges SET last_charged_date = NULL, last_charged_period = NULL
		WHERE id = ?
	`, id)
	return err
}

// PostCharge claims the charge for the posting month and inserts the paired
// ledger entries in the same transaction. The claim is the UPDATE's WHERE
// clause: two concurrent runs for the same month race on it, and the loser
// sees zero rows affected and writes nothing. A crash cannot leave a charge
// posted-but-not-marked or marked-but-not-posted.
func (s *Storage) PostCharge(chargeID int64, postedAt time.Time, entries []*ledger.Entry) (bool, error) {
	posted := false
	err := s.inTx(func(tx *sql.Tx) error {
		period := postedAt.Format(schedule.PeriodFormat)
		result, err := tx.Exec(`
			UPDATE scheduled_charges
			SET last_charged_date = ?, last_charged_period = ?
			WHERE id = ? AND active = 1
			  AND (last_charged_period IS NULL OR last_charged_period != ?)
		`, postedAt, period, chargeID, period)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return nil // already posted this month, or deactivated
		}

		for _, e := range entries {
			if err := insertEntry(tx, e); err != nil {
				return err
			}
		}
		posted = true
		return nil
	})
	return posted, err
}
