package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/petclinic/petclinic/internal/binding"
	"github.com/petclinic/petclinic/internal/clinic"
	"github.com/petclinic/petclinic/internal/model"
)

// PetTypeHandler handles HTTP requests for pet type resources.
type PetTypeHandler struct {
	svc    clinic.Service
	logger *slog.Logger
}

// NewPetTypeHandler creates a new PetTypeHandler.
func NewPetTypeHandler(svc clinic.Service, logger *slog.Logger) *PetTypeHandler {
	return &PetTypeHandler{svc: svc, logger: logger}
}

// List handles GET /api/pettypes.
func (h *PetTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.svc.FindAllPetTypes(r.Context())
	if err != nil {
		handleClinicError(w, h.logger, err)
		return
	}
	if len(types) == 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No pet types found")
		return
	}
	writeJSON(w, http.StatusOK, types)
}

// Get handles GET /api/pettypes/{petTypeID}.
func (h *PetTypeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "petTypeID")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Pet type not found")
		return
	}

	petType, err := h.svc.FindPetTypeByID(r.Context(), id)
	if err != nil {
		handleClinicError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, petType)
}

// Create handles POST /api/pettypes.
func (h *PetTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var petType model.PetType
	if err := json.NewDecoder(r.Body).Decode(&petType); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	bindErrs := binding.NewErrorsWithID(petType.ID)
	if petType.Name == "" {
		bindErrs.Add("pettype", "name", petType.Name, "must not be empty")
	}
	if !bindErrs.Empty() {
		writeBindingErrors(w, h.logger, bindErrs)
		return
	}

	if err := h.svc.SavePetType(r.Context(), &petType); err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	h.logger.Info("pettype_created", "pettype_id", petType.ID)

	w.Header().Set("Location", locationFor("pettypes", petType.ID))
	writeJSON(w, http.StatusCreated, petType)
}

// Update handles PUT /api/pettypes/{petTypeID}.
func (h *PetTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	pathID, ok := urlParamInt(r, "petTypeID")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Pet type not found")
		return
	}

	var petType model.PetType
	if err := json.NewDecoder(r.Body).Decode(&petType); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	bindErrs := binding.NewErrorsWithIDs(pathID, petType.ID)
	if petType.Name == "" {
		bindErrs.Add("pettype", "name", petType.Name, "must not be empty")
	}
	if !bindErrs.Empty() {
		writeBindingErrors(w, h.logger, bindErrs)
		return
	}

	current, err := h.svc.FindPetTypeByID(r.Context(), pathID)
	if err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	current.Name = petType.Name
	if err := h.svc.SavePetType(r.Context(), current); err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	h.logger.Info("pettype_updated", "pettype_id", pathID)

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/pettypes/{petTypeID}.
func (h *PetTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "petTypeID")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Pet type not found")
		return
	}

	if err := h.svc.DeletePetType(r.Context(), id); err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	h.logger.Info("pettype_deleted", "pettype_id", id)

	w.WriteHeader(http.StatusNoContent)
}
