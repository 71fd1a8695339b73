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

	"rentdesk-backend/internal/api/handlers"
	"rentdesk-backend/internal/application/service"
	"rentdesk-backend/internal/domain/schedule"
	"rentdesk-backend/internal/infrastructure/storage"
)

func newChargesFixture(t *testing.T) (*storage.MockRepository, *handlers.ChargesHandler) {
	t.Helper()
	repo := storage.NewMockRepository()
	require.NoError(t, repo.CreateLease(&storage.Lease{
		UnitID:      1,
		TenantName:  "Jordan Smith",
		StartDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		MonthlyRent: 1200,
	}))
	svc := service.NewChargeService(repo, nil)
	return repo, handlers.NewChargesHandler(repo, svc)
}

func TestChargesHandler_Create(t *testing.T) {
	t.Run("creates charge", func(t *testing.T) {
		_, handler := newChargesFixture(t)

		body := `{"description":"Monthly rent","amount":1200,"charge_day":1,"account_code":"4000"}`
		req := httptest.NewRequest(http.MethodPost, "/api/leases/1/charges", strings.NewReader(body))
		req = req.WithContext(setChiURLParam(req.Context(), "id", "1"))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var charge schedule.Charge
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&charge))
		assert.NotZero(t, charge.ID)
		assert.True(t, charge.Active)
	})

	t.Run("charge day out of range maps to 400", func(t *testing.T) {
		_, handler := newChargesFixture(t)

		body := `{"description":"Monthly rent","amount":1200,"charge_day":31,"account_code":"4000"}`
		req := httptest.NewRequest(http.MethodPost, "/api/leases/1/charges", strings.NewReader(body))
		req = req.WithContext(setChiURLParam(req.Context(), "id", "1"))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown lease maps to 404", func(t *testing.T) {
		_, handler := newChargesFixture(t)

		body := `{"description":"Monthly rent","amount":1200,"charge_day":1,"account_code":"4000"}`
		req := httptest.NewRequest(http.MethodPost, "/api/leases/5/charges", strings.NewReader(body))
		req = req.WithContext(setChiURLParam(req.Context(), "id", "5"))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestChargesHandler_PostDue(t *testing.T) {
	seedCharge := func(t *testing.T, repo *storage.MockRepository) {
		t.Helper()
		require.NoError(t, repo.CreateCharge(&schedule.Charge{
			LeaseID:     1,
			Description: "Monthly rent",
			Amount:      1200,
			ChargeDay:   1,
			AccountCode: "4000",
			Active:      true,
		}))
	}

	t.Run("empty body runs all leases", func(t *testing.T) {
		repo, handler := newChargesFixture(t)
		seedCharge(t, repo)

		req := httptest.NewRequest(http.MethodPost, "/api/charges/post-due", nil)
		rec := httptest.NewRecorder()

		handler.PostDue(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var result service.PostResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
		assert.Equal(t, 1, result.Posted)
	})

	t.Run("always 200 even when charges fail", func(t *testing.T) {
		repo, handler := newChargesFixture(t)
		seedCharge(t, repo)
		repo.PostChargeErr = assert.AnError

		req := httptest.NewRequest(http.MethodPost, "/api/charges/post-due", nil)
		rec := httptest.NewRecorder()

		handler.PostDue(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var result service.PostResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
		assert.Equal(t, 1, result.Errors)
	})

	t.Run("lease scope in body", func(t *testing.T) {
		repo, handler := newChargesFixture(t)
		seedCharge(t, repo)

		req := httptest.NewRequest(http.MethodPost, "/api/charges/post-due", strings.NewReader(`{"lease_id":1}`))
		rec := httptest.NewRecorder()

		handler.PostDue(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown lease scope maps to 404", func(t *testing.T) {
		_, handler := newChargesFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/api/charges/post-due", strings.NewReader(`{"lease_id":9}`))
		rec := httptest.NewRecorder()

		handler.PostDue(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestChargesHandler_Reset(t *testing.T) {
	t.Run("resets charge", func(t *testing.T) {
		repo, handler := newChargesFixture(t)
		require.NoError(t, repo.CreateCharge(&schedule.Charge{
			LeaseID: 1, Description: "Rent", Amount: 1200, ChargeDay: 1, AccountCode: "4000", Active: true,
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/charges/1/reset", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "1"))
		rec := httptest.NewRecorder()

		handler.Reset(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown charge maps to 404", func(t *testing.T) {
		_, handler := newChargesFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/api/charges/7/reset", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "7"))
		rec := httptest.NewRecorder()

		handler.Reset(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
