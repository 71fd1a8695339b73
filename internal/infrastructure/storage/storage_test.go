package storage

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentdesk-backend/internal/domain/ledger"
	"rentdesk-backend/internal/domain/reconcile"
	"rentdesk-backend/internal/domain/schedule"
)

// createTempDB creates a temporary database file for testing
func createTempDB(t *testing.T) string {
	tmpFile, err := os.CreateTemp("", "test_*.db")
	require.NoError(t, err)
	_ = tmpFile.Close()
	return tmpFile.Name()
}

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	path := createTempDB(t)
	t.Cleanup(func() { _ = os.Remove(path) })

	store, err := NewStorage(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMigrations_Idempotency(t *testing.T) {
	path := createTempDB(t)
	defer func() { _ = os.Remove(path) }()

	store, err := NewStorage(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Opening again must not re-run applied migrations.
	store, err = NewStorage(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	var count int
	err = store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(allMigrations), count)
}

func TestStorage_PropertyCRUD(t *testing.T) {
	store := openTestStorage(t)

	property := &Property{Name: "Maple Court", Street: "12 Maple St", City: "Dayton", State: "OH", Zip: "45402"}
	require.NoError(t, store.CreateProperty(property))
	require.NotZero(t, property.ID)

	got, err := store.GetProperty(property.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Maple Court", got.Name)

	got.Notes = "repainted 2025"
	require.NoError(t, store.UpdateProperty(got))

	got, err = store.GetProperty(property.ID)
	require.NoError(t, err)
	assert.Equal(t, "repainted 2025", got.Notes)

	require.NoError(t, store.DeleteProperty(property.ID))
	got, err = store.GetProperty(property.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func seedLease(t *testing.T, store *Storage) *Lease {
	t.Helper()
	property := &Property{Name: "Maple Court"}
	require.NoError(t, store.CreateProperty(property))

	unit := &Unit{PropertyID: property.ID, Label: "2B", Bedrooms: 2, Bathrooms: 1, MarketRent: 1200}
	require.NoError(t, store.CreateUnit(unit))

	lease := &Lease{
		UnitID:        unit.ID,
		TenantName:    "Jordan Smith",
		StartDate:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		MonthlyRent:   1200,
		DepositAmount: 1200,
		Status:        LeaseStatusActive,
	}
	require.NoError(t, store.CreateLease(lease))
	return lease
}

func seedEntry(t *testing.T, store *Storage, accountCode string, amount float64, side ledger.Side) *ledger.Entry {
	t.Helper()
	e := &ledger.Entry{
		EntryDate:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		AccountCode: accountCode,
		Amount:      amount,
		Side:        side,
		Description: "seed",
		Status:      ledger.EntryStatusPosted,
		SourceType:  ledger.SourceManual,
	}
	require.NoError(t, store.CreateEntries([]*ledger.Entry{e}))
	return e
}

func seedReconciliation(t *testing.T, store *Storage, accountID int64, amounts ...float64) *reconcile.Reconciliation {
	t.Helper()
	rec := &reconcile.Reconciliation{
		BankAccountID:    accountID,
		Status:           reconcile.StatusInProgress,
		PeriodStart:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:        time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		StatementBalance: 1000,
		ImportRef:        "import-1",
	}
	for _, a := range amounts {
		rec.Lines = append(rec.Lines, reconcile.Line{
			Date:        time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
			Description: "row",
			Amount:      a,
			Status:      reconcile.LineUnmatched,
		})
	}
	require.NoError(t, store.CreateReconciliation(rec))
	return rec
}

func TestStorage_Reconciliation(t *testing.T) {
	t.Run("create fills line ids and round trips", func(t *testing.T) {
		store := openTestStorage(t)
		account := &BankAccount{Name: "Operating", AccountCode: ledger.AccountCash}
		require.NoError(t, store.CreateBankAccount(account))

		rec := seedReconciliation(t, store, account.ID, 100, -50)
		require.NotZero(t, rec.ID)
		require.NotZero(t, rec.Lines[0].ID)

		got, err := store.GetReconciliation(rec.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, reconcile.StatusInProgress, got.Status)
		require.Len(t, got.Lines, 2)
		assert.InDelta(t, 100, got.Lines[0].Amount, 0.001)
	})

	t.Run("has in progress", func(t *testing.T) {
		store := openTestStorage(t)
		account := &BankAccount{Name: "Operating", AccountCode: ledger.AccountCash}
		require.NoError(t, store.CreateBankAccount(account))

		open, err := store.HasInProgress(account.ID)
		require.NoError(t, err)
		assert.False(t, open)

		seedReconciliation(t, store, account.ID, 100)

		open, err = store.HasInProgress(account.ID)
		require.NoError(t, err)
		assert.True(t, open)
	})

	t.Run("match line guards entry uniqueness", func(t *testing.T) {
		store := openTestStorage(t)
		account := &BankAccount{Name: "Operating", AccountCode: ledger.AccountCash}
		require.NoError(t, store.CreateBankAccount(account))
		rec := seedReconciliation(t, store, account.ID, 100, 100)
		entry := seedEntry(t, store, ledger.AccountCash, 100, ledger.Debit)

		require.NoError(t, store.MatchLine(rec.Lines[0].ID, entry.ID))

		err := store.MatchLine(rec.Lines[1].ID, entry.ID)
		assert.ErrorIs(t, err, ErrEntryAlreadyLinked)
	})

	t.Run("match line guards line status", func(t *testing.T) {
		store := openTestStorage(t)
		account := &BankAccount{Name: "Operating", AccountCode: ledger.AccountCash}
		require.NoError(t, store.CreateBankAccount(account))
		rec := seedReconciliation(t, store, account.ID, 100)
		first := seedEntry(t, store, ledger.AccountCash, 100, ledger.Debit)
		second := seedEntry(t, store, ledger.AccountCash, 100, ledger.Debit)

		require.NoError(t, store.MatchLine(rec.Lines[0].ID, first.ID))

		err := store.MatchLine(rec.Lines[0].ID, second.ID)
		assert.ErrorIs(t, err, ErrLineStateChanged)
	})

	t.Run("matched entries leave the unlinked pool", func(t *testing.T) {
		store := openTestStorage(t)
		account := &BankAccount{Name: "Operating", AccountCode: ledger.AccountCash}
		require.NoError(t, store.CreateBankAccount(account))
		rec := seedReconciliation(t, store, account.ID, 100)
		entry := seedEntry(t, store, ledger.AccountCash, 100, ledger.Debit)
		other := seedEntry(t, store, ledger.AccountCash, 55, ledger.Debit)

		require.NoError(t, store.MatchLine(rec.Lines[0].ID, entry.ID))

		unlinked, err := store.ListUnlinkedEntries(ledger.AccountCash)
		require.NoError(t, err)
		require.Len(t, unlinked, 1)
		assert.Equal(t, other.ID, unlinked[0].ID)

		// Unmatch returns it to the pool.
		require.NoError(t, store.SetLineStatus(rec.Lines[0].ID, reconcile.LineMatched, reconcile.LineUnmatched))
		unlinked, err = store.ListUnlinkedEntries(ledger.AccountCash)
		require.NoError(t, err)
		assert.Len(t, unlinked, 2)
	})

	t.Run("set line status guards expected status", func(t *testing.T) {
		store := openTestStorage(t)
		account := &BankAccount{Name: "Operating", AccountCode: ledger.AccountCash}
		require.NoError(t, store.CreateBankAccount(account))
		rec := seedReconciliation(t, store, account.ID, 100)

		err := store.SetLineStatus(rec.Lines[0].ID, reconcile.LineMatched, reconcile.LineUnmatched)
		assert.ErrorIs(t, err, ErrLineStateChanged)
	})

	t.Run("finalize stamps balances once", func(t *testing.T) {
		store := openTestStorage(t)
		account := &BankAccount{Name: "Operating", AccountCode: ledger.AccountCash}
		require.NoError(t, store.CreateBankAccount(account))
		rec := seedReconciliation(t, store, account.ID, 100)

		finalizedAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, store.FinalizeReconciliation(rec.ID, 950, 50, finalizedAt))

		got, err := store.GetReconciliation(rec.ID)
		require.NoError(t, err)
		assert.Equal(t, reconcile.StatusFinalized, got.Status)
		require.NotNil(t, got.LedgerBalance)
		assert.InDelta(t, 950, *got.LedgerBalance, 0.001)
		require.NotNil(t, got.Variance)
		assert.InDelta(t, 50, *got.Variance, 0.001)
		require.NotNil(t, got.FinalizedAt)

		err = store.FinalizeReconciliation(rec.ID, 950, 50, finalizedAt)
		assert.ErrorIs(t, err, ErrAlreadyFinalized)
	})
}

func TestStorage_PostCharge(t *testing.T) {
	chargeFor := func(t *testing.T, store *Storage, lease *Lease) *schedule.Charge {
		c := &schedule.Charge{
			LeaseID:     lease.ID,
			Description: "Monthly rent",
			Amount:      1200,
			ChargeDay:   1,
			AccountCode: ledger.AccountRentIncome,
			Active:      true,
		}
		require.NoError(t, store.CreateCharge(c))
		return c
	}

	entriesFor := func(lease *Lease, charge *schedule.Charge, postedAt time.Time) []*ledger.Entry {
		period := postedAt.Format(schedule.PeriodFormat)
		return []*ledger.Entry{
			{
				EntryDate: postedAt, AccountCode: ledger.AccountReceivable, Amount: charge.Amount,
				Side: ledger.Debit, Description: charge.Description, LeaseID: &lease.ID,
				Status: ledger.EntryStatusPosted, Reference: "ref-1",
				SourceType: ledger.SourceScheduledCharge, SourceID: &charge.ID, Period: period,
			},
			{
				EntryDate: postedAt, AccountCode: charge.AccountCode, Amount: charge.Amount,
				Side: ledger.Credit, Description: charge.Description, LeaseID: &lease.ID,
				Status: ledger.EntryStatusPosted, Reference: "ref-1",
				SourceType: ledger.SourceScheduledCharge, SourceID: &charge.ID, Period: period,
			},
		}
	}

	t.Run("claims the month and writes the pair", func(t *testing.T) {
		store := openTestStorage(t)
		lease := seedLease(t, store)
		charge := chargeFor(t, store, lease)
		postedAt := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

		posted, err := store.PostCharge(charge.ID, postedAt, entriesFor(lease, charge, postedAt))
		require.NoError(t, err)
		assert.True(t, posted)

		got, err := store.GetCharge(charge.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastCharged)

		entries, err := store.ListEntries(LedgerFilters{LeaseID: lease.ID})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("second claim in the same month writes nothing", func(t *testing.T) {
		store := openTestStorage(t)
		lease := seedLease(t, store)
		charge := chargeFor(t, store, lease)
		postedAt := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

		posted, err := store.PostCharge(charge.ID, postedAt, entriesFor(lease, charge, postedAt))
		require.NoError(t, err)
		require.True(t, posted)

		later := postedAt.AddDate(0, 0, 10)
		posted, err = store.PostCharge(charge.ID, later, entriesFor(lease, charge, later))
		require.NoError(t, err)
		assert.False(t, posted)

		entries, err := store.ListEntries(LedgerFilters{LeaseID: lease.ID})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("claim succeeds again next month", func(t *testing.T) {
		store := openTestStorage(t)
		lease := seedLease(t, store)
		charge := chargeFor(t, store, lease)
		september := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		october := september.AddDate(0, 1, 0)

		posted, err := store.PostCharge(charge.ID, september, entriesFor(lease, charge, september))
		require.NoError(t, err)
		require.True(t, posted)

		posted, err = store.PostCharge(charge.ID, october, entriesFor(lease, charge, october))
		require.NoError(t, err)
		assert.True(t, posted)
	})

	t.Run("reset clears the claim", func(t *testing.T) {
		store := openTestStorage(t)
		lease := seedLease(t, store)
		charge := chargeFor(t, store, lease)
		postedAt := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

		posted, err := store.PostCharge(charge.ID, postedAt, entriesFor(lease, charge, postedAt))
		require.NoError(t, err)
		require.True(t, posted)

		require.NoError(t, store.ResetChargeLastCharged(charge.ID))

		got, err := store.GetCharge(charge.ID)
		require.NoError(t, err)
		assert.Nil(t, got.LastCharged)

		posted, err = store.PostCharge(charge.ID, postedAt, entriesFor(lease, charge, postedAt))
		require.NoError(t, err)
		assert.True(t, posted)
	})

	t.Run("inactive charge cannot post", func(t *testing.T) {
		store := openTestStorage(t)
		lease := seedLease(t, store)
		charge := chargeFor(t, store, lease)
		charge.Active = false
		require.NoError(t, store.UpdateCharge(charge))

		postedAt := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		posted, err := store.PostCharge(charge.ID, postedAt, entriesFor(lease, charge, postedAt))
		require.NoError(t, err)
		assert.False(t, posted)
	})
}

func TestStorage_LedgerFilters(t *testing.T) {
	store := openTestStorage(t)
	lease := seedLease(t, store)

	seedEntry(t, store, ledger.AccountCash, 100, ledger.Debit)
	e := &ledger.Entry{
		EntryDate:   time.Now(),
		AccountCode: ledger.AccountReceivable,
		Amount:      1200,
		Side:        ledger.Debit,
		Description: "rent",
		LeaseID:     &lease.ID,
		Status:      ledger.EntryStatusPosted,
		SourceType:  ledger.SourceScheduledCharge,
	}
	require.NoError(t, store.CreateEntries([]*ledger.Entry{e}))

	byAccount, err := store.ListEntries(LedgerFilters{AccountCode: ledger.AccountReceivable})
	require.NoError(t, err)
	require.Len(t, byAccount, 1)
	assert.Equal(t, e.ID, byAccount[0].ID)

	byLease, err := store.ListEntries(LedgerFilters{LeaseID: lease.ID})
	require.NoError(t, err)
	assert.Len(t, byLease, 1)

	all, err := store.ListEntries(LedgerFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
