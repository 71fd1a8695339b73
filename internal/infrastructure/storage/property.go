package storage

import "database/sql"

// CreateProperty inserts a property and fills in the generated id.
func (s *Storage) CreateProperty(p *Property) error {
	result, err := s.db.Exec(`
		INSERT INTO properties (name, street, city, state, zip, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.Name, p.Street, p.City, p.State, p.Zip, p.Notes)
	if err != nil {
		return err
	}
	p.ID, err = result.LastInsertId()
	return err
}

// GetProperty retrieves a property by id. Returns (nil, nil) if not found.
func (s *Storage) GetProperty(id int64) (*Property, error) {
	p := &Property{}
	err := s.db.QueryRow(`
		SELECT id, name, street, city, state, zip, notes, created_at
		FROM properties WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Street, &p.City, &p.State, &p.Zip, &p.Notes, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProperties returns all properties ordered by name.
func (s *Storage) ListProperties() ([]*Property, error) {
	rows, err := s.db.Query(`
		SELECT id, name, street, city, state, zip, notes, created_at
		FROM properties ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var properties []*Property
	for rows.Next() {
		p := &Property{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Street, &p.City, &p.State, &p.Zip, &p.Notes, &p.CreatedAt); err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// UpdateProperty updates a property's editable fields.
func (s *Storage) UpdateProperty(p *Property) error {
	_, err := s.db.Exec(`
		UPDATE properties SET name = ?, street = ?, city = ?, state = ?, zip = ?, notes = ?
		WHERE id = ?
	`, p.Name, p.Street, p.City, p.State, p.Zip, p.Notes, p.ID)
	return err
}

// DeleteProperty removes a property; its units cascade.
func (s *Storage) DeleteProperty(id int64) error {
	_, err := s.db.Exec(`DELETE FROM properties WHERE id = ?`, id)
	return err
}

// CreateUnit inserts a unit and fills in the generated id.
func (s *Storage) CreateUnit(u *Unit) error {
	result, err := s.db.Exec(`
		INSERT INTO units (property_id, label, bedrooms, bathrooms, market_rent)
		VALUES (?, ?, ?, ?, ?)
	`, u.PropertyID, u.Label, u.Bedrooms, u.Bathrooms, u.MarketRent)
	if err != nil {
		return err
	}
	u.ID, err = result.LastInsertId()
	return err
}

// GetUnit retrieves a unit by id. Returns (nil, nil) if not found.
func (s *Storage) GetUnit(id int64) (*Unit, error) {
	u := &Unit{}
	err := s.db.QueryRow(`
		SELECT id, property_id, label, bedrooms, bathrooms, market_rent, created_at
		FROM units WHERE id = ?
	`, id).Scan(&u.ID, &u.PropertyID, &u.Label, &u.Bedrooms, &u.Bathrooms, &u.MarketRent, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListUnits returns the units of a property ordered by label.
func (s *Storage) ListUnits(propertyID int64) ([]*Unit, error) {
	rows, err := s.db.Query(`
		SELECT id, property_id, label, bedrooms, bathrooms, market_rent, created_at
		FROM units WHERE property_id = ? ORDER BY label
	`, propertyID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var units []*Unit
	for rows.Next() {
		u := &Unit{}
		if err := rows.Scan(&u.ID, &u.PropertyID, &u.Label, &u.Bedrooms, &u.Bathrooms, &u.MarketRent, &u.CreatedAt); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// UpdateUnit updates a unit's editable fields.
func (s *Storage) UpdateUnit(u *Unit) error {
	_, err := s.db.Exec(`
		UPDATE units SET label = ?, bedrooms = ?, bathrooms = ?, market_rent = ?
		WHERE id = ?
	`, u.Label, u.Bedrooms, u.Bathrooms, u.MarketRent, u.ID)
	return err
}

// DeleteUnit removes a unit.
func (s *Storage) DeleteUnit(id int64) error {
	_, err := s.db.Exec(`DELETE FROM units WHERE id = ?`, id)
	return err
}
