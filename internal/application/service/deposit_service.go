package service

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rentdesk-backend/internal/domain/ledger"
	"rentdesk-backend/internal/infrastructure/storage"
)

// DepositService posts security-deposit receipts and releases.
type DepositService struct {
	repo   storage.Repository
	logger *slog.Logger
}

// NewDepositService creates a deposit service.
func NewDepositService(repo storage.Repository, logger *slog.Logger) *DepositService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DepositService{repo: repo, logger: logger}
}

// depositBalance sums the lease's postings on the deposit liability
// account: CR increases the held amount, DR releases it.
func (s *DepositService) depositBalance(leaseID int64) (float64, error) {
	entries, err := s.repo.ListEntries(storage.LedgerFilters{
		AccountCode: ledger.AccountDepositLiability,
		LeaseID:     leaseID,
	})
	if err != nil {
		return 0, err
	}
	held := 0.0
	for _, e := range entries {
		if e.Side == ledger.Credit {
			held += e.Amount
		} else {
			held -= e.Amount
		}
	}
	return held, nil
}

// Record posts the receipt of a lease's security deposit: DR cash, CR
// deposit liability. Conflict if a deposit is already held.
func (s *DepositService) Record(leaseID int64, today time.Time) error {
	lease, err := s.repo.GetLease(leaseID)
	if err != nil {
		return err
	}
	if lease == nil {
		return &NotFoundError{Resource: "lease"}
	}
	if lease.DepositAmount <= 0 {
		return validationf("lease has no deposit amount set")
	}

	held, err := s.depositBalance(leaseID)
	if err != nil {
		return err
	}
	if held > 0 {
		return conflictf("a security deposit is already held for this lease")
	}

	err = s.repo.CreateEntries(depositEntries(lease, lease.DepositAmount, today, false))
	if err != nil {
		return err
	}
	s.logger.Info("security deposit recorded", "lease_id", leaseID, "amount", lease.DepositAmount)
	return nil
}

// Release posts the reversal when the deposit is returned to the tenant:
// DR deposit liability, CR cash. Conflict if no deposit is held.
func (s *DepositService) Release(leaseID int64, today time.Time) error {
	lease, err := s.repo.GetLease(leaseID)
	if err != nil {
		return err
	}
	if lease == nil {
		return &NotFoundError{Resource: "lease"}
	}

	held, err := s.depositBalance(leaseID)
	if err != nil {
		return err
	}
	if held <= 0 {
		return conflictf("no security deposit is held for this lease")
	}

	// Reverse what is actually held, not the lease's current deposit
	// amount; the two drift apart when the lease is edited after receipt.
	err = s.repo.CreateEntries(depositEntries(lease, held, today, true))
	if err != nil {
		return err
	}
	s.logger.Info("security deposit released", "lease_id", leaseID, "amount", held)
	return nil
}

// depositEntries builds the paired postings for a deposit receipt or, with
// release set, its reversal.
func depositEntries(lease *storage.Lease, amount float64, today time.Time, release bool) []*ledger.Entry {
	leaseID := lease.ID
	reference := uuid.New().String()

	description := "Security deposit received: " + lease.TenantName
	cashSide, liabilitySide := ledger.Debit, ledger.Credit
	if release {
		description = "Security deposit released: " + lease.TenantName
		cashSide, liabilitySide = ledger.Credit, ledger.Debit
	}

	return []*ledger.Entry{
		{
			EntryDate:   today,
			AccountCode: ledger.AccountCash,
			Amount:      amount,
			Side:        cashSide,
			Description: description,
			LeaseID:     &leaseID,
			Reference:   reference,
			SourceType:  ledger.SourceDeposit,
			SourceID:    &leaseID,
		},
		{
			EntryDate:   today,
			AccountCode: ledger.AccountDepositLiability,
			Amount:      amount,
			Side:        liabilitySide,
			Description: description,
			LeaseID:     &leaseID,
			Reference:   reference,
			SourceType:  ledger.SourceDeposit,
			SourceID:    &leaseID,
		},
	}
}
