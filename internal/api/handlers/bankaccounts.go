package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rentdesk-backend/internal/api/dto"
	"rentdesk-backend/internal/infrastructure/storage"
)

// BankAccountsHandler handles bank account HTTP requests.
type BankAccountsHandler struct {
	*Base
}

// NewBankAccountsHandler creates a new bank accounts handler.
func NewBankAccountsHandler(repo storage.Repository) *BankAccountsHandler {
	return &BankAccountsHandler{Base: NewBase(repo)}
}

// List handles GET /api/bank-accounts.
func (h *BankAccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.repo.ListBankAccounts()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusOK, accounts)
}

// Get handles GET /api/bank-accounts/{id}.
func (h *BankAccountsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid bank account id"))
		return
	}

	account, err := h.repo.GetBankAccount(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if account == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("bank account"))
		return
	}
	h.WriteJSON(w, http.StatusOK, account)
}

// Create handles POST /api/bank-accounts.
func (h *BankAccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.BankAccountRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("name is required"))
		return
	}
	if req.AccountCode == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("account code is required"))
		return
	}

	account := &storage.BankAccount{
		Name:        req.Name,
		LastFour:    req.LastFour,
		AccountCode: req.AccountCode,
	}
	if err := h.repo.CreateBankAccount(account); err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusCreated, account)
}
