package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rentdesk-backend/internal/api/dto"
	"rentdesk-backend/internal/application/service"
	"rentdesk-backend/internal/domain/ledger"
	"rentdesk-backend/internal/infrastructure/storage"
)

const dateLayout = "2006-01-02"

// LeasesHandler handles lease HTTP requests, including the tenant ledger
// view and security-deposit postings.
type LeasesHandler struct {
	*Base
	deposits *service.DepositService
}

// NewLeasesHandler creates a new leases handler.
func NewLeasesHandler(repo storage.Repository, deposits *service.DepositService) *LeasesHandler {
	return &LeasesHandler{
		Base:     NewBase(repo),
		deposits: deposits,
	}
}

func (h *LeasesHandler) leaseFromRequest(w http.ResponseWriter, r *http.Request) (*storage.Lease, bool) {
	var req dto.LeaseRequest
	if !h.DecodeJSON(w, r, &req) {
		return nil, false
	}
	if req.TenantName == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("tenant name is required"))
		return nil, false
	}
	if req.MonthlyRent <= 0 {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("monthly rent must be positive"))
		return nil, false
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("invalid start date, expected YYYY-MM-DD"))
		return nil, false
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("invalid end date, expected YYYY-MM-DD"))
		return nil, false
	}
	if end.Before(start) {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("end date is before start date"))
		return nil, false
	}

	status := req.Status
	if status == "" {
		status = storage.LeaseStatusActive
	}
	if status != storage.LeaseStatusActive && status != storage.LeaseStatusEnded {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("status must be active or ended"))
		return nil, false
	}

	return &storage.Lease{
		UnitID:        req.UnitID,
		TenantName:    req.TenantName,
		TenantEmail:   req.TenantEmail,
		StartDate:     start,
		EndDate:       end,
		MonthlyRent:   req.MonthlyRent,
		DepositAmount: req.DepositAmount,
		Status:        status,
	}, true
}

// List handles GET /api/leases.
func (h *LeasesHandler) List(w http.ResponseWriter, r *http.Request) {
	leases, err := h.repo.ListLeases()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusOK, leases)
}

// Get handles GET /api/leases/{id}.
func (h *LeasesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid lease id"))
		return
	}

	lease, err := h.repo.GetLease(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if lease == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("lease"))
		return
	}
	h.WriteJSON(w, http.StatusOK, lease)
}

// Create handles POST /api/leases.
func (h *LeasesHandler) Create(w http.ResponseWriter, r *http.Request) {
	lease, ok := h.leaseFromRequest(w, r)
	if !ok {
		return
	}

	unit, err := h.repo.GetUnit(lease.UnitID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if unit == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("unit"))
		return
	}

	if err := h.repo.CreateLease(lease); err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusCreated, lease)
}

// Update handles PUT /api/leases/{id}.
func (h *LeasesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid lease id"))
		return
	}

	existing, err := h.repo.GetLease(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if existing == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("lease"))
		return
	}

	lease, ok := h.leaseFromRequest(w, r)
	if !ok {
		return
	}
	lease.ID = id
	// The unit binding is fixed at creation.
	lease.UnitID = existing.UnitID

	if err := h.repo.UpdateLease(lease); err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusOK, lease)
}

// Delete handles DELETE /api/leases/{id}.
func (h *LeasesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid lease id"))
		return
	}

	existing, err := h.repo.GetLease(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if existing == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("lease"))
		return
	}

	if err := h.repo.DeleteLease(id); err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Ledger handles GET /api/leases/{id}/ledger. Returns every receivable
// posting for the lease with a running balance: debits increase what the
// tenant owes, credits reduce it.
func (h *LeasesHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid lease id"))
		return
	}

	lease, err := h.repo.GetLease(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if lease == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("lease"))
		return
	}

	entries, err := h.repo.ListEntries(storage.LedgerFilters{
		AccountCode: ledger.AccountReceivable,
		LeaseID:     id,
	})
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.TenantLedgerResponse{
		LeaseID: id,
		Rows:    make([]dto.TenantLedgerRow, 0, len(entries)),
	}
	balance := 0.0
	for _, e := range entries {
		if e.Side == ledger.Debit {
			balance += e.Amount
		} else {
			balance -= e.Amount
		}
		response.Rows = append(response.Rows, dto.TenantLedgerRow{Entry: e, Balance: balance})
	}
	response.Balance = balance

	h.WriteJSON(w, http.StatusOK, response)
}

// RecordDeposit handles POST /api/leases/{id}/deposit.
func (h *LeasesHandler) RecordDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid lease id"))
		return
	}

	if err := h.deposits.Record(id, time.Now().UTC()); err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

// ReleaseDeposit handles POST /api/leases/{id}/deposit/release.
func (h *LeasesHandler) ReleaseDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid lease id"))
		return
	}

	if err := h.deposits.Release(id, time.Now().UTC()); err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, map[string]string{"status": "released"})
}
