package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentdesk-backend/internal/api/dto"
	"rentdesk-backend/internal/api/handlers"
	"rentdesk-backend/internal/application/service"
	"rentdesk-backend/internal/domain/ledger"
	"rentdesk-backend/internal/infrastructure/storage"
)

func newLeasesFixture(t *testing.T) (*storage.MockRepository, *handlers.LeasesHandler) {
	t.Helper()
	repo := storage.NewMockRepository()
	require.NoError(t, repo.CreateProperty(&storage.Property{Name: "Maple Court"}))
	require.NoError(t, repo.CreateUnit(&storage.Unit{PropertyID: 1, Label: "2B"}))
	deposits := service.NewDepositService(repo, nil)
	return repo, handlers.NewLeasesHandler(repo, deposits)
}

func seedTestLease(t *testing.T, repo *storage.MockRepository) *storage.Lease {
	t.Helper()
	lease := &storage.Lease{
		UnitID:        1,
		TenantName:    "Jordan Smith",
		StartDate:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		MonthlyRent:   1200,
		DepositAmount: 1200,
		Status:        storage.LeaseStatusActive,
	}
	require.NoError(t, repo.CreateLease(lease))
	return lease
}

func TestLeasesHandler_Create(t *testing.T) {
	t.Run("creates lease", func(t *testing.T) {
		_, handler := newLeasesFixture(t)

		body := `{"unit_id":1,"tenant_name":"Jordan Smith","start_date":"2026-01-01","end_date":"2026-12-31","monthly_rent":1200,"deposit_amount":1200}`
		req := httptest.NewRequest(http.MethodPost, "/api/leases", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var lease storage.Lease
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&lease))
		assert.Equal(t, storage.LeaseStatusActive, lease.Status)
	})

	t.Run("bad date maps to 400", func(t *testing.T) {
		_, handler := newLeasesFixture(t)

		body := `{"unit_id":1,"tenant_name":"Jordan Smith","start_date":"January 1","end_date":"2026-12-31","monthly_rent":1200}`
		req := httptest.NewRequest(http.MethodPost, "/api/leases", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("end before start maps to 400", func(t *testing.T) {
		_, handler := newLeasesFixture(t)

		body := `{"unit_id":1,"tenant_name":"Jordan Smith","start_date":"2026-12-31","end_date":"2026-01-01","monthly_rent":1200}`
		req := httptest.NewRequest(http.MethodPost, "/api/leases", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown unit maps to 404", func(t *testing.T) {
		_, handler := newLeasesFixture(t)

		body := `{"unit_id":9,"tenant_name":"Jordan Smith","start_date":"2026-01-01","end_date":"2026-12-31","monthly_rent":1200}`
		req := httptest.NewRequest(http.MethodPost, "/api/leases", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestLeasesHandler_Ledger(t *testing.T) {
	t.Run("running balance over receivable postings", func(t *testing.T) {
		repo, handler := newLeasesFixture(t)
		lease := seedTestLease(t, repo)

		require.NoError(t, repo.CreateEntries([]*ledger.Entry{
			{AccountCode: ledger.AccountReceivable, Amount: 1200, Side: ledger.Debit, LeaseID: &lease.ID, SourceType: ledger.SourceScheduledCharge},
			{AccountCode: ledger.AccountReceivable, Amount: 1200, Side: ledger.Credit, LeaseID: &lease.ID, SourceType: ledger.SourceManual},
			{AccountCode: ledger.AccountReceivable, Amount: 75, Side: ledger.Debit, LeaseID: &lease.ID, SourceType: ledger.SourceScheduledCharge},
			// Another account, must not appear.
			{AccountCode: ledger.AccountCash, Amount: 500, Side: ledger.Debit, LeaseID: &lease.ID, SourceType: ledger.SourceManual},
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/leases/1/ledger", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "1"))
		rec := httptest.NewRecorder()

		handler.Ledger(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.TenantLedgerResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Len(t, response.Rows, 3)
		assert.InDelta(t, 1200, response.Rows[0].Balance, 0.001)
		assert.InDelta(t, 0, response.Rows[1].Balance, 0.001)
		assert.InDelta(t, 75, response.Rows[2].Balance, 0.001)
		assert.InDelta(t, 75, response.Balance, 0.001)
	})

	t.Run("unknown lease maps to 404", func(t *testing.T) {
		_, handler := newLeasesFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/api/leases/3/ledger", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "3"))
		rec := httptest.NewRecorder()

		handler.Ledger(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestLeasesHandler_Deposit(t *testing.T) {
	t.Run("record then double record conflicts", func(t *testing.T) {
		repo, handler := newLeasesFixture(t)
		seedTestLease(t, repo)

		req := httptest.NewRequest(http.MethodPost, "/api/leases/1/deposit", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "1"))
		rec := httptest.NewRecorder()
		handler.RecordDeposit(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)

		req = httptest.NewRequest(http.MethodPost, "/api/leases/1/deposit", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "1"))
		rec = httptest.NewRecorder()
		handler.RecordDeposit(rec, req)
		assert.Equal(t, http.StatusConflict, rec.Code)

		var apiErr dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
		assert.Equal(t, dto.ErrCodeConflict, apiErr.Code)
	})

	t.Run("release without hold conflicts", func(t *testing.T) {
		repo, handler := newLeasesFixture(t)
		seedTestLease(t, repo)

		req := httptest.NewRequest(http.MethodPost, "/api/leases/1/deposit/release", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "1"))
		rec := httptest.NewRecorder()
		handler.ReleaseDeposit(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
