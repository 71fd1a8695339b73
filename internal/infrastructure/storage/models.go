package storage

import "time"

// Property is a managed rental property.
type Property struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Unit is a rentable unit within a property.
type Unit struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"property_id"`
	Label      string    `json:"label"`
	Bedrooms   int       `json:"bedrooms"`
	Bathrooms  float64   `json:"bathrooms"`
	MarketRent float64   `json:"market_rent"`
	CreatedAt  time.Time `json:"created_at"`
}

// Lease statuses.
const (
	LeaseStatusActive = "active"
	LeaseStatusEnded  = "ended"
)

// Lease ties a tenant to a unit for a term.
type Lease struct {
	ID            int64     `json:"id"`
	UnitID        int64     `json:"unit_id"`
	TenantName    string    `json:"tenant_name"`
	TenantEmail   string    `json:"tenant_email,omitempty"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	MonthlyRent   float64   `json:"monthly_rent"`
	DepositAmount float64   `json:"deposit_amount"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// BankAccount is an operating bank account linked to a GL account code.
// Immutable after creation.
type BankAccount struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	LastFour    string    `json:"last_four"`
	AccountCode string    `json:"account_code"`
	CreatedAt   time.Time `json:"created_at"`
}
