package storage

import "database/sql"

// CreateBankAccount inserts a bank account and fills in the generated id.
func (s *Storage) CreateBankAccount(a *BankAccount) error {
	result, err := s.db.Exec(`
		INSERT INTO bank_accounts (name, last_four, account_code)
		VALUES (?, ?, ?)
	`, a.Name, a.LastFour, a.AccountCode)
	if err != nil {
		return err
	}
	a.ID, err = result.LastInsertId()
	return err
}

// GetBankAccount retrieves a bank account by id. Returns (nil, nil) if not found.
func (s *Storage) GetBankAccount(id int64) (*BankAccount, error) {
	a := &BankAccount{}
	err := s.db.QueryRow(`
		SELECT id, name, last_four, account_code, created_at
		FROM bank_accounts WHERE id = ?
	`, id).Scan(&a.ID, &a.Name, &a.LastFour, &a.AccountCode, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListBankAccounts returns all bank accounts ordered by name.
func (s *Storage) ListBankAccounts() ([]*BankAccount, error) {
	rows, err := s.db.Query(`
		SELECT id, name, last_four, account_code, created_at
		FROM bank_accounts ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var accounts []*BankAccount
	for rows.Next() {
		a := &BankAccount{}
		if err := rows.Scan(&a.ID, &a.Name, &a.LastFour, &a.AccountCode, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
