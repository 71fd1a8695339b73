package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"rentdesk-backend/internal/api/dto"
	"rentdesk-backend/internal/application/service"
	"rentdesk-backend/internal/infrastructure/storage"
)

// maxStatementSize caps multipart statement uploads at 10 MB.
const maxStatementSize = 10 << 20

// ReconciliationsHandler handles statement reconciliation HTTP requests.
type ReconciliationsHandler struct {
	*Base
	svc *service.ReconciliationService
}

// NewReconciliationsHandler creates a new reconciliations handler.
func NewReconciliationsHandler(repo storage.Repository, svc *service.ReconciliationService) *ReconciliationsHandler {
	return &ReconciliationsHandler{
		Base: NewBase(repo),
		svc:  svc,
	}
}

// Ingest handles POST /api/reconciliations - multipart statement upload.
// Form fields: bank_account_id, period_start, period_end, statement_balance,
// notes, and the CSV file under "statement".
func (h *ReconciliationsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxStatementSize); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("expected multipart form data"))
		return
	}

	bankAccountID, err := strconv.ParseInt(r.FormValue("bank_account_id"), 10, 64)
	if err != nil || bankAccountID <= 0 {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("bank_account_id is required"))
		return
	}

	periodStart, err := time.Parse(dateLayout, r.FormValue("period_start"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("invalid period_start, expected YYYY-MM-DD"))
		return
	}
	periodEnd, err := time.Parse(dateLayout, r.FormValue("period_end"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("invalid period_end, expected YYYY-MM-DD"))
		return
	}

	statementBalance, err := strconv.ParseFloat(r.FormValue("statement_balance"), 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("invalid statement_balance"))
		return
	}

	file, _, err := r.FormFile("statement")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("statement file is required"))
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.svc.Ingest(service.IngestInput{
		BankAccountID:    bankAccountID,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		StatementBalance: statementBalance,
		Notes:            r.FormValue("notes"),
		File:             file,
	})
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, result)
}

// List handles GET /api/reconciliations?bank_account_id=.
func (h *ReconciliationsHandler) List(w http.ResponseWriter, r *http.Request) {
	bankAccountID := int64(ParseIntParam(r, "bank_account_id", 0))

	recs, err := h.svc.List(bankAccountID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusOK, recs)
}

// Get handles GET /api/reconciliations/{id}.
func (h *ReconciliationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid reconciliation id"))
		return
	}

	view, err := h.svc.Get(id)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

func (h *ReconciliationsHandler) lineIDs(w http.ResponseWriter, r *http.Request) (reconID, lineID int64, ok bool) {
	reconID, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid reconciliation id"))
		return 0, 0, false
	}
	lineID, err = ParseID(chi.URLParam(r, "lineID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid line id"))
		return 0, 0, false
	}
	return reconID, lineID, true
}

// writeView responds with the refreshed reconciliation view so callers can
// pick up the line states and summary after a line operation.
func (h *ReconciliationsHandler) writeView(w http.ResponseWriter, reconID int64) {
	view, err := h.svc.Get(reconID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

// Match handles POST /api/reconciliations/{id}/lines/{lineID}/match.
func (h *ReconciliationsHandler) Match(w http.ResponseWriter, r *http.Request) {
	reconID, lineID, ok := h.lineIDs(w, r)
	if !ok {
		return
	}

	var req dto.MatchLineRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if req.EntryID <= 0 {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("entry_id is required"))
		return
	}

	if err := h.svc.Match(reconID, lineID, req.EntryID); err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.writeView(w, reconID)
}

// Unmatch handles POST /api/reconciliations/{id}/lines/{lineID}/unmatch.
func (h *ReconciliationsHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	reconID, lineID, ok := h.lineIDs(w, r)
	if !ok {
		return
	}

	if err := h.svc.Unmatch(reconID, lineID); err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.writeView(w, reconID)
}

// Exclude handles POST /api/reconciliations/{id}/lines/{lineID}/exclude.
// The body action is "exclude" or "include".
func (h *ReconciliationsHandler) Exclude(w http.ResponseWriter, r *http.Request) {
	reconID, lineID, ok := h.lineIDs(w, r)
	if !ok {
		return
	}

	var req dto.ExcludeLineRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.Exclude(reconID, lineID, req.Action); err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.writeView(w, reconID)
}

// Finalize handles POST /api/reconciliations/{id}/finalize.
func (h *ReconciliationsHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid reconciliation id"))
		return
	}

	rec, err := h.svc.Finalize(id)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rec)
}
