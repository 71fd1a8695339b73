package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rentdesk-backend/internal/domain/ledger"
	"rentdesk-backend/internal/domain/schedule"
	"rentdesk-backend/internal/infrastructure/storage"
)

// ChargeService manages recurring charge definitions and the posting engine.
type ChargeService struct {
	repo   storage.Repository
	logger *slog.Logger
}

// NewChargeService creates a charge service.
func NewChargeService(repo storage.Repository, logger *slog.Logger) *ChargeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChargeService{repo: repo, logger: logger}
}

func validateCharge(c *schedule.Charge) error {
	if c.Description == "" {
		return validationf("description is required")
	}
	if c.Amount <= 0 {
		return validationf("amount must be positive")
	}
	if c.ChargeDay < schedule.MinChargeDay || c.ChargeDay > schedule.MaxChargeDay {
		return validationf("charge day must be between %d and %d", schedule.MinChargeDay, schedule.MaxChargeDay)
	}
	if c.AccountCode == "" {
		return validationf("account code is required")
	}
	return nil
}

// Create adds a recurring charge to a lease.
func (s *ChargeService) Create(c *schedule.Charge) error {
	lease, err := s.repo.GetLease(c.LeaseID)
	if err != nil {
		return err
	}
	if lease == nil {
		return &NotFoundError{Resource: "lease"}
	}
	if err := validateCharge(c); err != nil {
		return err
	}
	return s.repo.CreateCharge(c)
}

// List returns all charges for a lease.
func (s *ChargeService) List(leaseID int64) ([]*schedule.Charge, error) {
	lease, err := s.repo.GetLease(leaseID)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		return nil, &NotFoundError{Resource: "lease"}
	}
	return s.repo.ListCharges(leaseID)
}

// Update edits a charge's definition, including the active flag. The
// last-charged marker is not touched here; use Reset for that.
func (s *ChargeService) Update(c *schedule.Charge) (*schedule.Charge, error) {
	existing, err := s.repo.GetCharge(c.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &NotFoundError{Resource: "scheduled charge"}
	}
	c.LeaseID = existing.LeaseID
	if err := validateCharge(c); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCharge(c); err != nil {
		return nil, err
	}
	return s.repo.GetCharge(c.ID)
}

// Delete removes a charge definition.
func (s *ChargeService) Delete(id int64) error {
	existing, err := s.repo.GetCharge(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return &NotFoundError{Resource: "scheduled charge"}
	}
	return s.repo.DeleteCharge(id)
}

// Reset clears the last-charged marker so the charge can post again within
// the current month. Administrative override; no guard beyond existence.
func (s *ChargeService) Reset(id int64) error {
	existing, err := s.repo.GetCharge(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return &NotFoundError{Resource: "scheduled charge"}
	}
	return s.repo.ResetChargeLastCharged(id)
}

// PostResult aggregates a posting run. Failures are isolated per charge, so
// partial success is the norm; the caller displays the counts.
type PostResult struct {
	Posted  int      `json:"posted"`
	Skipped int      `json:"skipped"`
	Errors  int      `json:"errors"`
	Details []string `json:"details,omitempty"`
}

// PostDue posts a ledger entry pair for every active charge whose charge day
// has arrived and that has not been charged this calendar month. Scope is
// one lease or, with a nil leaseID, all leases (the daily batch).
//
// Each posting is a DR to accounts receivable and a CR to the charge's
// target account, stamped with the source charge id and posting period so
// the ledger remains the full posting history.
func (s *ChargeService) PostDue(leaseID *int64, today time.Time) (*PostResult, error) {
	if leaseID != nil {
		lease, err := s.repo.GetLease(*leaseID)
		if err != nil {
			return nil, err
		}
		if lease == nil {
			return nil, &NotFoundError{Resource: "lease"}
		}
	}

	charges, err := s.repo.ListActiveCharges(leaseID)
	if err != nil {
		return nil, err
	}

	result := &PostResult{}
	for _, charge := range charges {
		if !charge.IsDue(today) {
			result.Skipped++
			continue
		}

		posted, err := s.repo.PostCharge(charge.ID, today, chargeEntries(charge, today))
		if err != nil {
			result.Errors++
			result.Details = append(result.Details,
				fmt.Sprintf("charge %d (%s): %v", charge.ID, charge.Description, err))
			s.logger.Error("failed to post scheduled charge",
				"charge_id", charge.ID, "lease_id", charge.LeaseID, "error", err)
			continue
		}
		if !posted {
			// Lost the claim to a concurrent run; nothing was written.
			result.Skipped++
			continue
		}
		result.Posted++
	}

	s.logger.Info("scheduled charge run complete",
		"posted", result.Posted, "skipped", result.Skipped, "errors", result.Errors)
	return result, nil
}

// chargeEntries builds the paired DR/CR postings for one charge.
func chargeEntries(charge *schedule.Charge, today time.Time) []*ledger.Entry {
	leaseID := charge.LeaseID
	chargeID := charge.ID
	reference := uuid.New().String()
	period := today.Format(schedule.PeriodFormat)

	return []*ledger.Entry{
		{
			EntryDate:   today,
			AccountCode: ledger.AccountReceivable,
			Amount:      charge.Amount,
			Side:        ledger.Debit,
			Description: charge.Description,
			LeaseID:     &leaseID,
			Reference:   reference,
			SourceType:  ledger.SourceScheduledCharge,
			SourceID:    &chargeID,
			Period:      period,
		},
		{
			EntryDate:   today,
			AccountCode: charge.AccountCode,
			Amount:      charge.Amount,
			Side:        ledger.Credit,
			Description: charge.Description,
			LeaseID:     &leaseID,
			Reference:   reference,
			SourceType:  ledger.SourceScheduledCharge,
			SourceID:    &chargeID,
			Period:      period,
		},
	}
}
