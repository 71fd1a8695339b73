package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rentdesk-backend/internal/api/dto"
	"rentdesk-backend/internal/infrastructure/storage"
)

// PropertiesHandler handles property and unit HTTP requests.
type PropertiesHandler struct {
	*Base
}

// NewPropertiesHandler creates a new properties handler.
func NewPropertiesHandler(repo storage.Repository) *PropertiesHandler {
	return &PropertiesHandler{Base: NewBase(repo)}
}

// List handles GET /api/properties.
func (h *PropertiesHandler) List(w http.ResponseWriter, r *http.Request) {
	properties, err := h.repo.ListProperties()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusOK, properties)
}

// Get handles GET /api/properties/{id}.
func (h *PropertiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid property id"))
		return
	}

	property, err := h.repo.GetProperty(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if property == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("property"))
		return
	}
	h.WriteJSON(w, http.StatusOK, property)
}

// Create handles POST /api/properties.
func (h *PropertiesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PropertyRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("name is required"))
		return
	}

	property := &storage.Property{
		Name:   req.Name,
		Street: req.Street,
		City:   req.City,
		State:  req.State,
		Zip:    req.Zip,
		Notes:  req.Notes,
	}
	if err := h.repo.CreateProperty(property); err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusCreated, property)
}

// Update handles PUT /api/properties/{id}.
func (h *PropertiesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid property id"))
		return
	}

	existing, err := h.repo.GetProperty(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if existing == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("property"))
		return
	}

	var req dto.PropertyRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("name is required"))
		return
	}

	existing.Name = req.Name
	existing.Street = req.Street
	existing.City = req.City
	existing.State = req.State
	existing.Zip = req.Zip
	existing.Notes = req.Notes
	if err := h.repo.UpdateProperty(existing); err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusOK, existing)
}

// Delete handles DELETE /api/properties/{id}.
func (h *PropertiesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid property id"))
		return
	}

	existing, err := h.repo.GetProperty(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if existing == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("property"))
		return
	}

	if err := h.repo.DeleteProperty(id); err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUnits handles GET /api/properties/{id}/units.
func (h *PropertiesHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	propertyID, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid property id"))
		return
	}

	property, err := h.repo.GetProperty(propertyID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if property == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("property"))
		return
	}

	units, err := h.repo.ListUnits(propertyID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusOK, units)
}

// CreateUnit handles POST /api/properties/{id}/units.
func (h *PropertiesHandler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	propertyID, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid property id"))
		return
	}

	property, err := h.repo.GetProperty(propertyID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if property == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("property"))
		return
	}

	var req dto.UnitRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if req.Label == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("label is required"))
		return
	}

	unit := &storage.Unit{
		PropertyID: propertyID,
		Label:      req.Label,
		Bedrooms:   req.Bedrooms,
		Bathrooms:  req.Bathrooms,
		MarketRent: req.MarketRent,
	}
	if err := h.repo.CreateUnit(unit); err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusCreated, unit)
}

// UpdateUnit handles PUT /api/units/{id}.
func (h *PropertiesHandler) UpdateUnit(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid unit id"))
		return
	}

	existing, err := h.repo.GetUnit(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if existing == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("unit"))
		return
	}

	var req dto.UnitRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if req.Label == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("label is required"))
		return
	}

	existing.Label = req.Label
	existing.Bedrooms = req.Bedrooms
	existing.Bathrooms = req.Bathrooms
	existing.MarketRent = req.MarketRent
	if err := h.repo.UpdateUnit(existing); err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusOK, existing)
}

// DeleteUnit handles DELETE /api/units/{id}.
func (h *PropertiesHandler) DeleteUnit(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid unit id"))
		return
	}

	existing, err := h.repo.GetUnit(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if existing == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("unit"))
		return
	}

	if err := h.repo.DeleteUnit(id); err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
