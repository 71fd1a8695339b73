// Package ledger defines general-ledger entry types and the sign
// conventions used when comparing ledger postings against bank statements.
package ledger

import "time"

// Side is the double-entry polarity of a posting.
type Side string

const (
	Debit  Side = "DR"
	Credit Side = "CR"
)

// Well-known GL account codes used by the back office.
const (
	AccountCash             = "1000"
	AccountReceivable       = "1100"
	AccountDepositLiability = "2100"
	AccountRentIncome       = "4000"
)

// Entry status values.
const (
	EntryStatusPosted = "posted"
	EntryStatusVoid   = "void"
)

// Entry source types, recorded so postings can be traced back to the
// operation that created them.
const (
	SourceManual          = "manual"
	SourceScheduledCharge = "scheduled_charge"
	SourceDeposit         = "security_deposit"
)

// Entry is a single debit or credit posting to a GL account.
//
// Entries are owned by the general-ledger subsystem. The reconciliation
// matcher only reads them; the link from a matched statement line lives on
// the line, never here.
type Entry struct {
	ID          int64     `json:"id"`
	EntryDate   time.Time `json:"entry_date"`
	AccountCode string    `json:"account_code"`
	Amount      float64   `json:"amount"`
	Side        Side      `json:"side"`
	Description string    `json:"description"`
	LeaseID     *int64    `json:"lease_id,omitempty"`
	Status      string    `json:"status"`
	Reference   string    `json:"reference"`
	SourceType  string    `json:"source_type"`
	SourceID    *int64    `json:"source_id,omitempty"`
	Period      string    `json:"period,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// BankSignedAmount converts the entry to bank convention: for a debit-normal
// bank account a DR is money in (positive) and a CR is money out (negative).
// Statement lines use the same convention, so equality can be tested directly.
func (e *Entry) BankSignedAmount() float64 {
	if e.Side == Credit {
		return -e.Amount
	}
	return e.Amount
}
