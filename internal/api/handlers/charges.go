package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rentdesk-backend/internal/api/dto"
	"rentdesk-backend/internal/application/service"
	"rentdesk-backend/internal/domain/schedule"
	"rentdesk-backend/internal/infrastructure/storage"
)

// ChargesHandler handles scheduled charge HTTP requests.
type ChargesHandler struct {
	*Base
	svc *service.ChargeService
}

// NewChargesHandler creates a new charges handler.
func NewChargesHandler(repo storage.Repository, svc *service.ChargeService) *ChargesHandler {
	return &ChargesHandler{
		Base: NewBase(repo),
		svc:  svc,
	}
}

// List handles GET /api/leases/{id}/charges.
func (h *ChargesHandler) List(w http.ResponseWriter, r *http.Request) {
	leaseID, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid lease id"))
		return
	}

	charges, err := h.svc.List(leaseID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, charges)
}

// Create handles POST /api/leases/{id}/charges.
func (h *ChargesHandler) Create(w http.ResponseWriter, r *http.Request) {
	leaseID, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid lease id"))
		return
	}

	var req dto.ChargeRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	charge := &schedule.Charge{
		LeaseID:     leaseID,
		Description: req.Description,
		Amount:      req.Amount,
		ChargeDay:   req.ChargeDay,
		AccountCode: req.AccountCode,
		Active:      true,
	}
	if req.Active != nil {
		charge.Active = *req.Active
	}

	if err := h.svc.Create(charge); err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, charge)
}

// Update handles PUT /api/charges/{id}.
func (h *ChargesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid charge id"))
		return
	}

	var req dto.ChargeRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	charge := &schedule.Charge{
		ID:          id,
		Description: req.Description,
		Amount:      req.Amount,
		ChargeDay:   req.ChargeDay,
		AccountCode: req.AccountCode,
		Active:      true,
	}
	if req.Active != nil {
		charge.Active = *req.Active
	}

	updated, err := h.svc.Update(charge)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/charges/{id}.
func (h *ChargesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid charge id"))
		return
	}

	if err := h.svc.Delete(id); err != nil {
		h.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reset handles POST /api/charges/{id}/reset - clears the last-charged
// marker so the charge can post again this month.
func (h *ChargesHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid charge id"))
		return
	}

	if err := h.svc.Reset(id); err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// PostDue handles POST /api/charges/post-due. The body may narrow the run
// to one lease; an empty body runs all leases. Always 200 with the run
// counts, individual charge failures are reported in the payload.
func (h *ChargesHandler) PostDue(w http.ResponseWriter, r *http.Request) {
	var req dto.PostDueRequest
	if r.ContentLength > 0 && !h.DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.PostDue(req.LeaseID, time.Now().UTC())
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}
