package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/petclinic/petclinic/internal/binding"
	"github.com/petclinic/petclinic/internal/clinic"
	"github.com/petclinic/petclinic/internal/metrics"
	"github.com/petclinic/petclinic/internal/model"
)

// VisitHandler handles HTTP requests for visit resources.
type VisitHandler struct {
	svc     clinic.Service
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewVisitHandler creates a new VisitHandler.
func NewVisitHandler(svc clinic.Service, rec metrics.Recorder, logger *slog.Logger) *VisitHandler {
	return &VisitHandler{svc: svc, metrics: rec, logger: logger}
}

// List handles GET /api/visits.
func (h *VisitHandler) List(w http.ResponseWriter, r *http.Request) {
	visits, err := h.svc.FindAllVisits(r.Context())
	if err != nil {
		handleClinicError(w, h.logger, err)
		return
	}
	if len(visits) == 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No visits found")
		return
	}
	writeJSON(w, http.StatusOK, visits)
}

// Get handles GET /api/visits/{visitID}.
func (h *VisitHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "visitID")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Visit not found")
		return
	}

	visit, err := h.svc.FindVisitByID(r.Context(), id)
	if err != nil {
		handleClinicError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, visit)
}

// ListByPet handles GET /api/pets/{petID}/visits.
func (h *VisitHandler) ListByPet(w http.ResponseWriter, r *http.Request) {
	petID, ok := urlParamInt(r, "petID")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Pet not found")
		return
	}

	if _, err := h.svc.FindPetByID(r.Context(), petID); err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	visits, err := h.svc.FindVisitsByPetID(r.Context(), petID)
	if err != nil {
		handleClinicError(w, h.logger, err)
		return
	}
	if len(visits) == 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No visits found")
		return
	}
	writeJSON(w, http.StatusOK, visits)
}

// Create handles POST /api/visits.
func (h *VisitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var visit model.Visit
	if err := json.NewDecoder(r.Body).Decode(&visit); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	bindErrs := binding.NewErrorsWithID(visit.ID)
	validateVisit(&visit, bindErrs)
	if visit.PetID == 0 {
		bindErrs.Add("visit", "pet_id", "", "must reference a pet")
	}
	if !bindErrs.Empty() {
		writeBindingErrors(w, h.logger, bindErrs)
		return
	}

	if err := h.svc.SaveVisit(r.Context(), &visit); err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	h.metrics.IncVisitCreated()
	h.logger.Info("visit_created", "visit_id", visit.ID, "pet_id", visit.PetID)

	w.Header().Set("Location", locationFor("visits", visit.ID))
	writeJSON(w, http.StatusCreated, visit)
}

// Update handles PUT /api/visits/{visitID}.
func (h *VisitHandler) Update(w http.ResponseWriter, r *http.Request) {
	pathID, ok := urlParamInt(r, "visitID")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Visit not found")
		return
	}

	var visit model.Visit
	if err := json.NewDecoder(r.Body).Decode(&visit); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	bindErrs := binding.NewErrorsWithIDs(pathID, visit.ID)
	validateVisit(&visit, bindErrs)
	if !bindErrs.Empty() {
		writeBindingErrors(w, h.logger, bindErrs)
		return
	}

	current, err := h.svc.FindVisitByID(r.Context(), pathID)
	if err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	current.Date = visit.Date
	current.Description = visit.Description
	if visit.PetID != 0 {
		current.PetID = visit.PetID
	}

	if err := h.svc.SaveVisit(r.Context(), current); err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	h.logger.Info("visit_updated", "visit_id", pathID)

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/visits/{visitID}.
func (h *VisitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "visitID")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Visit not found")
		return
	}

	if err := h.svc.DeleteVisit(r.Context(), id); err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	h.logger.Info("visit_deleted", "visit_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// validateVisit records the field-level failures for a visit payload.
func validateVisit(visit *model.Visit, bindErrs *binding.Errors) {
	if visit.Description == "" {
		bindErrs.Add("visit", "description", visit.Description, "must not be empty")
	}
	if visit.Date.IsZero() {
		bindErrs.Add("visit", "date", "", "must be set")
	}
}
