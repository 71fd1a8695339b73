package dto

import (
	"time"

	"rentdesk-backend/internal/domain/ledger"
)

// HealthResponse is the load-balancer health check payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse creates a healthy response stamped with the current time.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// TenantLedgerRow is one accounts-receivable posting for a lease, with the
// running balance after the row. Positive balance means the tenant owes.
type TenantLedgerRow struct {
	Entry   *ledger.Entry `json:"entry"`
	Balance float64       `json:"balance"`
}

// TenantLedgerResponse is the tenant statement for a lease: every entry on
// the receivable account in posting order plus the closing balance.
type TenantLedgerResponse struct {
	LeaseID int64             `json:"lease_id"`
	Rows    []TenantLedgerRow `json:"rows"`
	Balance float64           `json:"balance"`
}

// EntryListResponse wraps a ledger entry listing.
type EntryListResponse struct {
	Entries []*ledger.Entry `json:"entries"`
	Count   int             `json:"count"`
}
