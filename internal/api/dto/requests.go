package dto

// PropertyRequest is the create/update body for a property.
type PropertyRequest struct {
	Name   string `json:"name"`
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
	Notes  string `json:"notes"`
}

// UnitRequest is the create/update body for a unit.
type UnitRequest struct {
	Label      string  `json:"label"`
	Bedrooms   int     `json:"bedrooms"`
	Bathrooms  float64 `json:"bathrooms"`
	MarketRent float64 `json:"market_rent"`
}

// LeaseRequest is the create/update body for a lease. Dates are 2006-01-02.
type LeaseRequest struct {
	UnitID        int64   `json:"unit_id"`
	TenantName    string  `json:"tenant_name"`
	TenantEmail   string  `json:"tenant_email"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	MonthlyRent   float64 `json:"monthly_rent"`
	DepositAmount float64 `json:"deposit_amount"`
	Status        string  `json:"status"`
}

// BankAccountRequest is the create body for a bank account.
type BankAccountRequest struct {
	Name        string `json:"name"`
	LastFour    string `json:"last_four"`
	AccountCode string `json:"account_code"`
}

// MatchLineRequest selects the ledger entry to link to a statement line.
type MatchLineRequest struct {
	EntryID int64 `json:"entry_id"`
}

// ExcludeLineRequest carries the exclude/include toggle action.
type ExcludeLineRequest struct {
	Action string `json:"action"`
}

// ChargeRequest is the create/update body for a scheduled charge.
type ChargeRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	ChargeDay   int     `json:"charge_day"`
	AccountCode string  `json:"account_code"`
	Active      *bool   `json:"active"`
}

// PostDueRequest optionally narrows a posting run to one lease.
type PostDueRequest struct {
	LeaseID *int64 `json:"lease_id"`
}
