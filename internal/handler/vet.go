package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/petclinic/petclinic/internal/binding"
	"github.com/petclinic/petclinic/internal/clinic"
	"github.com/petclinic/petclinic/internal/model"
)

// VetHandler handles HTTP requests for vet resources.
type VetHandler struct {
	svc    clinic.Service
	logger *slog.Logger
}

// NewVetHandler creates a new VetHandler.
func NewVetHandler(svc clinic.Service, logger *slog.Logger) *VetHandler {
	return &VetHandler{svc: svc, logger: logger}
}

// List handles GET /api/vets.
func (h *VetHandler) List(w http.ResponseWriter, r *http.Request) {
	vets, err := h.svc.FindAllVets(r.Context())
	if err != nil {
		handleClinicError(w, h.logger, err)
		return
	}
	if len(vets) == 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No vets found")
		return
	}
	writeJSON(w, http.StatusOK, vets)
}

// Get handles GET /api/vets/{vetID}.
func (h *VetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "vetID")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Vet not found")
		return
	}

	vet, err := h.svc.FindVetByID(r.Context(), id)
	if err != nil {
		handleClinicError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, vet)
}

// Create handles POST /api/vets.
func (h *VetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var vet model.Vet
	if err := json.NewDecoder(r.Body).Decode(&vet); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	bindErrs := binding.NewErrorsWithID(vet.ID)
	validateVet(&vet, bindErrs)
	if !bindErrs.Empty() {
		writeBindingErrors(w, h.logger, bindErrs)
		return
	}

	if err := h.svc.SaveVet(r.Context(), &vet); err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	h.logger.Info("vet_created", "vet_id", vet.ID)

	w.Header().Set("Location", locationFor("vets", vet.ID))
	writeJSON(w, http.StatusCreated, vet)
}

// Update handles PUT /api/vets/{vetID}.
func (h *VetHandler) Update(w http.ResponseWriter, r *http.Request) {
	pathID, ok := urlParamInt(r, "vetID")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Vet not found")
		return
	}

	var vet model.Vet
	if err := json.NewDecoder(r.Body).Decode(&vet); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	bindErrs := binding.NewErrorsWithIDs(pathID, vet.ID)
	validateVet(&vet, bindErrs)
	if !bindErrs.Empty() {
		writeBindingErrors(w, h.logger, bindErrs)
		return
	}

	current, err := h.svc.FindVetByID(r.Context(), pathID)
	if err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	current.FirstName = vet.FirstName
	current.LastName = vet.LastName
	current.Specialties = vet.Specialties

	if err := h.svc.SaveVet(r.Context(), current); err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	h.logger.Info("vet_updated", "vet_id", pathID)

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/vets/{vetID}.
func (h *VetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "vetID")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Vet not found")
		return
	}

	if err := h.svc.DeleteVet(r.Context(), id); err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	h.logger.Info("vet_deleted", "vet_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// validateVet records the field-level failures for a vet payload.
func validateVet(vet *model.Vet, bindErrs *binding.Errors) {
	if vet.FirstName == "" {
		bindErrs.Add("vet", "first_name", vet.FirstName, "must not be empty")
	}
	if vet.LastName == "" {
		bindErrs.Add("vet", "last_name", vet.LastName, "must not be empty")
	}
}
