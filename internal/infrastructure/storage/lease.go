package storage

import "database/sql"

// CreateLease inserts a lease and fills in the generated id.
func (s *Storage) CreateLease(l *Lease) error {
	if l.Status == "" {
		l.Status = LeaseStatusActive
	}
	result, err := s.db.Exec(`
		INSERT INTO leases (unit_id, tenant_name, tenant_email, start_date, end_date,
			monthly_rent, deposit_amount, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, l.UnitID, l.TenantName, l.TenantEmail, l.StartDate, l.EndDate,
		l.MonthlyRent, l.DepositAmount, l.Status)
	if err != nil {
		return err
	}
	l.ID, err = result.LastInsertId()
	return err
}

// GetLease retrieves a lease by id. Returns (nil, nil) if not found.
func (s *Storage) GetLease(id int64) (*Lease, error) {
	l := &Lease{}
	err := s.db.QueryRow(`
		SELECT id, unit_id, tenant_name, tenant_email, start_date, end_date,
			monthly_rent, deposit_amount, status, created_at
		FROM leases WHERE id = ?
	`, id).Scan(&l.ID, &l.UnitID, &l.TenantName, &l.TenantEmail, &l.StartDate,
		&l.EndDate, &l.MonthlyRent, &l.DepositAmount, &l.Status, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListLeases returns all leases, newest first.
func (s *Storage) ListLeases() ([]*Lease, error) {
	rows, err := s.db.Query(`
		SELECT id, unit_id, tenant_name, tenant_email, start_date, end_date,
			monthly_rent, deposit_amount, status, created_at
		FROM leases ORDER BY start_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var leases []*Lease
	for rows.Next() {
		l := &Lease{}
		if err := rows.Scan(&l.ID, &l.UnitID, &l.TenantName, &l.TenantEmail, &l.StartDate,
			&l.EndDate, &l.MonthlyRent, &l.DepositAmount, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		leases = append(leases, l)
	}
	return leases, rows.Err()
}

// UpdateLease updates a lease's editable fields.
func (s *Storage) UpdateLease(l *Lease) error {
	_, err := s.db.Exec(`
		UPDATE leases SET tenant_name = ?, tenant_email = ?, start_date = ?, end_date = ?,
			monthly_rent = ?, deposit_amount = ?, status = ?
		WHERE id = ?
	`, l.TenantName, l.TenantEmail, l.StartDate, l.EndDate,
		l.MonthlyRent, l.DepositAmount, l.Status, l.ID)
	return err
}

// DeleteLease removes a lease; its scheduled charges cascade.
func (s *Storage) DeleteLease(id int64) error {
	_, err := s.db.Exec(`DELETE FROM leases WHERE id = ?`, id)
	return err
}
