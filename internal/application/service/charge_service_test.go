package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentdesk-backend/internal/application/service"
	"rentdesk-backend/internal/domain/ledger"
	"rentdesk-backend/internal/domain/schedule"
	"rentdesk-backend/internal/infrastructure/storage"
)

func newLease(t *testing.T, repo *storage.MockRepository) *storage.Lease {
	t.Helper()
	lease := &storage.Lease{
		UnitID:        1,
		TenantName:    "Jordan Smith",
		StartDate:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		MonthlyRent:   1200.00,
		DepositAmount: 1200.00,
		Status:        storage.LeaseStatusActive,
	}
	require.NoError(t, repo.CreateLease(lease))
	return lease
}

func newCharge(t *testing.T, repo *storage.MockRepository, svc *service.ChargeService, leaseID int64, amount float64, chargeDay int) *schedule.Charge {
	t.Helper()
	charge := &schedule.Charge{
		LeaseID:     leaseID,
		Description: "Monthly rent",
		Amount:      amount,
		ChargeDay:   chargeDay,
		AccountCode: ledger.AccountRentIncome,
		Active:      true,
	}
	require.NoError(t, svc.Create(charge))
	return charge
}

func TestChargeService_Create(t *testing.T) {
	t.Run("valid charge", func(t *testing.T) {
		repo := storage.NewMockRepository()
		lease := newLease(t, repo)
		svc := service.NewChargeService(repo, nil)

		charge := newCharge(t, repo, svc, lease.ID, 1200.00, 1)
		assert.NotZero(t, charge.ID)
	})

	t.Run("unknown lease", func(t *testing.T) {
		repo := storage.NewMockRepository()
		svc := service.NewChargeService(repo, nil)

		err := svc.Create(&schedule.Charge{
			LeaseID:     77,
			Description: "Rent",
			Amount:      100,
			ChargeDay:   1,
			AccountCode: ledger.AccountRentIncome,
		})
		var notFound *service.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("validation", func(t *testing.T) {
		repo := storage.NewMockRepository()
		lease := newLease(t, repo)
		svc := service.NewChargeService(repo, nil)

		tests := []struct {
			name   string
			charge schedule.Charge
		}{
			{"missing description", schedule.Charge{Amount: 100, ChargeDay: 1, AccountCode: "4000"}},
			{"zero amount", schedule.Charge{Description: "Rent", ChargeDay: 1, AccountCode: "4000"}},
			{"negative amount", schedule.Charge{Description: "Rent", Amount: -5, ChargeDay: 1, AccountCode: "4000"}},
			{"charge day zero", schedule.Charge{Description: "Rent", Amount: 100, ChargeDay: 0, AccountCode: "4000"}},
			{"charge day 29", schedule.Charge{Description: "Rent", Amount: 100, ChargeDay: 29, AccountCode: "4000"}},
			{"missing account code", schedule.Charge{Description: "Rent", Amount: 100, ChargeDay: 1}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				c := tt.charge
				c.LeaseID = lease.ID
				err := svc.Create(&c)
				var validation *service.ValidationError
				assert.ErrorAs(t, err, &validation)
			})
		}
	})
}

func TestChargeService_PostDue(t *testing.T) {
	september10 := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	t.Run("posts paired receivable and income entries", func(t *testing.T) {
		repo := storage.NewMockRepository()
		lease := newLease(t, repo)
		svc := service.NewChargeService(repo, nil)
		charge := newCharge(t, repo, svc, lease.ID, 1200.00, 10)

		result, err := svc.PostDue(nil, september10)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Posted)
		assert.Equal(t, 0, result.Skipped)
		assert.Equal(t, 0, result.Errors)

		require.Len(t, repo.LastPostedEntries, 2)
		dr, cr := repo.LastPostedEntries[0], repo.LastPostedEntries[1]

		assert.Equal(t, ledger.AccountReceivable, dr.AccountCode)
		assert.Equal(t, ledger.Debit, dr.Side)
		assert.Equal(t, ledger.AccountRentIncome, cr.AccountCode)
		assert.Equal(t, ledger.Credit, cr.Side)
		assert.InDelta(t, 1200.00, dr.Amount, 0.001)
		assert.InDelta(t, 1200.00, cr.Amount, 0.001)

		// Paired postings share a reference and carry the source charge.
		assert.NotEmpty(t, dr.Reference)
		assert.Equal(t, dr.Reference, cr.Reference)
		assert.Equal(t, ledger.SourceScheduledCharge, dr.SourceType)
		require.NotNil(t, dr.SourceID)
		assert.Equal(t, charge.ID, *dr.SourceID)
		assert.Equal(t, "2026-09", dr.Period)
	})

	t.Run("not due before the charge day", func(t *testing.T) {
		repo := storage.NewMockRepository()
		lease := newLease(t, repo)
		svc := service.NewChargeService(repo, nil)
		newCharge(t, repo, svc, lease.ID, 1200.00, 20)

		result, err := svc.PostDue(nil, september10)
		require.NoError(t, err)

		assert.Equal(t, 0, result.Posted)
		assert.Equal(t, 1, result.Skipped)
	})

	t.Run("second run in the same month skips", func(t *testing.T) {
		repo := storage.NewMockRepository()
		lease := newLease(t, repo)
		svc := service.NewChargeService(repo, nil)
		newCharge(t, repo, svc, lease.ID, 1200.00, 10)

		first, err := svc.PostDue(nil, september10)
		require.NoError(t, err)
		assert.Equal(t, 1, first.Posted)

		second, err := svc.PostDue(nil, september10.AddDate(0, 0, 5))
		require.NoError(t, err)
		assert.Equal(t, 0, second.Posted)
		assert.Equal(t, 1, second.Skipped)

		entries, err := repo.ListEntries(storage.LedgerFilters{})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("posts again the next month", func(t *testing.T) {
		repo := storage.NewMockRepository()
		lease := newLease(t, repo)
		svc := service.NewChargeService(repo, nil)
		newCharge(t, repo, svc, lease.ID, 1200.00, 10)

		_, err := svc.PostDue(nil, september10)
		require.NoError(t, err)

		october, err := svc.PostDue(nil, september10.AddDate(0, 1, 0))
		require.NoError(t, err)
		assert.Equal(t, 1, october.Posted)
	})

	t.Run("reset allows a repost within the month", func(t *testing.T) {
		repo := storage.NewMockRepository()
		lease := newLease(t, repo)
		svc := service.NewChargeService(repo, nil)
		charge := newCharge(t, repo, svc, lease.ID, 1200.00, 10)

		_, err := svc.PostDue(nil, september10)
		require.NoError(t, err)

		require.NoError(t, svc.Reset(charge.ID))

		again, err := svc.PostDue(nil, september10)
		require.NoError(t, err)
		assert.Equal(t, 1, again.Posted)
	})

	t.Run("isolates per charge failures", func(t *testing.T) {
		repo := storage.NewMockRepository()
		lease := newLease(t, repo)
		svc := service.NewChargeService(repo, nil)
		newCharge(t, repo, svc, lease.ID, 1200.00, 1)
		newCharge(t, repo, svc, lease.ID, 75.00, 1)

		repo.PostChargeErr = errors.New("disk full")

		result, err := svc.PostDue(nil, september10)
		require.NoError(t, err)

		assert.Equal(t, 0, result.Posted)
		assert.Equal(t, 2, result.Errors)
		assert.Len(t, result.Details, 2)
	})

	t.Run("scopes to a single lease", func(t *testing.T) {
		repo := storage.NewMockRepository()
		leaseA := newLease(t, repo)
		leaseB := newLease(t, repo)
		svc := service.NewChargeService(repo, nil)
		newCharge(t, repo, svc, leaseA.ID, 1200.00, 1)
		newCharge(t, repo, svc, leaseB.ID, 900.00, 1)

		result, err := svc.PostDue(&leaseA.ID, september10)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Posted)
	})

	t.Run("unknown lease scope", func(t *testing.T) {
		repo := storage.NewMockRepository()
		svc := service.NewChargeService(repo, nil)

		leaseID := int64(5)
		_, err := svc.PostDue(&leaseID, september10)
		var notFound *service.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestChargeService_Update(t *testing.T) {
	t.Run("deactivating stops posting", func(t *testing.T) {
		repo := storage.NewMockRepository()
		lease := newLease(t, repo)
		svc := service.NewChargeService(repo, nil)
		charge := newCharge(t, repo, svc, lease.ID, 1200.00, 1)

		charge.Active = false
		updated, err := svc.Update(charge)
		require.NoError(t, err)
		assert.False(t, updated.Active)

		result, err := svc.PostDue(nil, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Posted)
	})

	t.Run("unknown charge", func(t *testing.T) {
		repo := storage.NewMockRepository()
		svc := service.NewChargeService(repo, nil)

		_, err := svc.Update(&schedule.Charge{ID: 9, Description: "x", Amount: 1, ChargeDay: 1, AccountCode: "4000"})
		var notFound *service.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}
