package storage

import (
	"time"

	"rentdesk-backend/internal/domain/ledger"
	"rentdesk-backend/internal/domain/reconcile"
	"rentdesk-backend/internal/domain/schedule"
)

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, PostgreSQL, etc.)
// and makes testing with mocks straightforward.
type Repository interface {
	PropertyRepository
	LeaseRepository
	BankAccountRepository
	LedgerRepository
	ReconciliationRepository
	ScheduledChargeRepository
	Close() error
}

// PropertyRepository handles property and unit records.
type PropertyRepository interface {
	CreateProperty(p *Property) error
	GetProperty(id int64) (*Property, error)
	ListProperties() ([]*Property, error)
	UpdateProperty(p *Property) error
	DeleteProperty(id int64) error

	CreateUnit(u *Unit) error
	GetUnit(id int64) (*Unit, error)
	ListUnits(propertyID int64) ([]*Unit, error)
	UpdateUnit(u *Unit) error
	DeleteUnit(id int64) error
}

// LeaseRepository handles lease records.
type LeaseRepository interface {
	CreateLease(l *Lease) error
	GetLease(id int64) (*Lease, error)
	ListLeases() ([]*Lease, error)
	UpdateLease(l *Lease) error
	DeleteLease(id int64) error
}

// BankAccountRepository handles bank account records. Accounts are created
// once during setup and never updated in this scope.
type BankAccountRepository interface {
	CreateBankAccount(a *BankAccount) error
	GetBankAccount(id int64) (*BankAccount, error)
	ListBankAccounts() ([]*BankAccount, error)
}

// LedgerFilters defines filters for listing ledger entries.
type LedgerFilters struct {
	AccountCode string // Filter by GL account code (empty = all)
	LeaseID     int64  // Filter by lease (0 = all)
	Limit       int    // Max results (0 = default 100)
}

// LedgerRepository handles general-ledger entries. The reconciliation
// matcher only reads through this interface; writes come from posting
// operations (scheduled charges, deposits, manual entries).
type LedgerRepository interface {
	// CreateEntries inserts a set of entries in one transaction. Used for
	// paired DR/CR postings that must land together.
	CreateEntries(entries []*ledger.Entry) error

	GetEntry(id int64) (*ledger.Entry, error)
	ListEntries(filters LedgerFilters) ([]*ledger.Entry, error)

	// ListUnlinkedEntries returns posted entries on the given account that
	// are not linked to any reconciliation line, in insertion order. This is
	// the candidate scope for both automatic and manual matching.
	ListUnlinkedEntries(accountCode string) ([]*ledger.Entry, error)
}

// ReconciliationRepository handles reconciliations and their lines.
type ReconciliationRepository interface {
	// CreateReconciliation inserts the reconciliation and all its lines in
	// one transaction and fills in the generated ids.
	CreateReconciliation(rec *reconcile.Reconciliation) error

	GetReconciliation(id int64) (*reconcile.Reconciliation, error)
	ListReconciliations(bankAccountID int64) ([]*reconcile.Reconciliation, error)
	GetLine(id int64) (*reconcile.Line, error)

	// HasInProgress reports whether an IN_PROGRESS reconciliation exists for
	// the bank account.
	HasInProgress(bankAccountID int64) (bool, error)

	// MatchLine links a line to a ledger entry, guarding the line status and
	// the entry's uniqueness in one transaction. Returns
	// ErrEntryAlreadyLinked or ErrLineStateChanged on guard failure.
	MatchLine(lineID, entryID int64) error

	// SetLineStatus moves a line to the given status, clearing any entry
	// link, guarded on the expected current status. Returns
	// ErrLineStateChanged if the line is no longer in the expected status.
	SetLineStatus(lineID int64, from, to reconcile.LineStatus) error

	// FinalizeReconciliation stamps balances and flips IN_PROGRESS to
	// FINALIZED. Returns ErrAlreadyFinalized if the reconciliation is not
	// IN_PROGRESS anymore.
	FinalizeReconciliation(id int64, ledgerBalance, variance float64, finalizedAt time.Time) error
}

// ScheduledChargeRepository handles recurring charge definitions.
type ScheduledChargeRepository interface {
	CreateCharge(c *schedule.Charge) error
	GetCharge(id int64) (*schedule.Charge, error)
	ListCharges(leaseID int64) ([]*schedule.Charge, error)

	// ListActiveCharges returns all active charges, optionally scoped to one
	// lease (nil = all leases).
	ListActiveCharges(leaseID *int64) ([]*schedule.Charge, error)

	UpdateCharge(c *schedule.Charge) error
	DeleteCharge(id int64) error

	// ResetChargeLastCharged clears the last-charged marker so the charge
	// can post again this month.
	ResetChargeLastCharged(id int64) error

	// PostCharge atomically claims the charge for the posting month and
	// inserts the paired ledger entries in the same transaction. The claim
	// is a compare-and-swap on the posting period: if another run already
	// claimed the month the method returns (false, nil) and writes nothing.
	PostCharge(chargeID int64, postedAt time.Time, entries []*ledger.Entry) (bool, error)
}
