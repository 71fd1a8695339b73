package handlers

import (
	"net/http"

	"rentdesk-backend/internal/api/dto"
	"rentdesk-backend/internal/infrastructure/storage"
)

// EntriesHandler handles general-ledger entry listing requests.
type EntriesHandler struct {
	*Base
}

// NewEntriesHandler creates a new ledger entries handler.
func NewEntriesHandler(repo storage.Repository) *EntriesHandler {
	return &EntriesHandler{Base: NewBase(repo)}
}

// List handles GET /api/ledger-entries?account_code=&lease_id=&limit=.
func (h *EntriesHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := storage.LedgerFilters{
		AccountCode: r.URL.Query().Get("account_code"),
		LeaseID:     int64(ParseIntParam(r, "lease_id", 0)),
		Limit:       ParseIntParam(r, "limit", 0),
	}

	entries, err := h.repo.ListEntries(filters)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.EntryListResponse{
		Entries: entries,
		Count:   len(entries),
	})
}
