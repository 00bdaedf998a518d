package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/petclinic/petclinic/internal/appointments"
	"github.com/petclinic/petclinic/internal/binding"
	"github.com/petclinic/petclinic/internal/clinic"
	"github.com/petclinic/petclinic/internal/metrics"
	"github.com/petclinic/petclinic/internal/model"
)

// telephonePattern accepts digits only, up to ten of them.
var telephonePattern = regexp.MustCompile(`^[0-9]{1,10}$`)

// OwnerHandler handles HTTP requests for owner resources and the
// appointment queries rooted at them.
type OwnerHandler struct {
	svc     clinic.Service
	finder  *appointments.Finder
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewOwnerHandler creates a new OwnerHandler.
func NewOwnerHandler(svc clinic.Service, finder *appointments.Finder, rec metrics.Recorder, logger *slog.Logger) *OwnerHandler {
	return &OwnerHandler{
		svc:     svc,
		finder:  finder,
		metrics: rec,
		logger:  logger,
	}
}

// List handles GET /api/owners.
// An empty clinic reads as not-found, matching the long-standing contract.
func (h *OwnerHandler) List(w http.ResponseWriter, r *http.Request) {
	owners, err := h.svc.FindAllOwners(r.Context())
	if err != nil {
		handleClinicError(w, h.logger, err)
		return
	}
	if len(owners) == 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No owners found")
		return
	}
	writeJSON(w, http.StatusOK, owners)
}

// Get handles GET /api/owners/{ownerID}.
func (h *OwnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "ownerID")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Owner not found")
		return
	}

	owner, err := h.svc.FindOwnerByID(r.Context(), id)
	if err != nil {
		handleClinicError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, owner)
}

// GetByLastName handles GET /api/owners/{ownerID}/lastname/{lastName}.
func (h *OwnerHandler) GetByLastName(w http.ResponseWriter, r *http.Request) {
	lastName := chi.URLParam(r, "lastName")

	owners, err := h.svc.FindOwnersByLastName(r.Context(), lastName)
	if err != nil {
		handleClinicError(w, h.logger, err)
		return
	}
	if len(owners) == 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No owners found")
		return
	}
	writeJSON(w, http.StatusOK, owners)
}

// Create handles POST /api/owners.
func (h *OwnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var owner model.Owner
	if err := json.NewDecoder(r.Body).Decode(&owner); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	bindErrs := binding.NewErrorsWithID(owner.ID)
	validateOwner(&owner, bindErrs)
	if !bindErrs.Empty() {
		writeBindingErrors(w, h.logger, bindErrs)
		return
	}

	if err := h.svc.SaveOwner(r.Context(), &owner); err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	h.metrics.IncOwnerCreated()
	h.logger.Info("owner_created", "owner_id", owner.ID)

	w.Header().Set("Location", locationFor("owners", owner.ID))
	writeJSON(w, http.StatusCreated, owner)
}

// Update handles PUT /api/owners/{ownerID}.
// The updated resource is not echoed back; callers re-fetch if needed.
func (h *OwnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	pathID, ok := urlParamInt(r, "ownerID")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Owner not found")
		return
	}

	var owner model.Owner
	if err := json.NewDecoder(r.Body).Decode(&owner); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	bindErrs := binding.NewErrorsWithIDs(pathID, owner.ID)
	validateOwner(&owner, bindErrs)
	if !bindErrs.Empty() {
		writeBindingErrors(w, h.logger, bindErrs)
		return
	}

	current, err := h.svc.FindOwnerByID(r.Context(), pathID)
	if err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	current.FirstName = owner.FirstName
	current.LastName = owner.LastName
	current.Address = owner.Address
	current.City = owner.City
	current.Telephone = owner.Telephone

	if err := h.svc.SaveOwner(r.Context(), current); err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	h.metrics.IncOwnerUpdated()
	h.logger.Info("owner_updated", "owner_id", pathID)

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/owners/{ownerID}.
func (h *OwnerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "ownerID")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Owner not found")
		return
	}

	if err := h.svc.DeleteOwner(r.Context(), id); err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	h.metrics.IncOwnerDeleted()
	h.logger.Info("owner_deleted", "owner_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// Appointments handles GET /api/owners/appointments/{ownerID}/{date}.
func (h *OwnerHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "ownerID")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No appointments found")
		return
	}
	h.findAppointments(w, r, appointments.ForOwner(id))
}

// AllAppointments handles GET /api/owners/appointments/{date}.
func (h *OwnerHandler) AllAppointments(w http.ResponseWriter, r *http.Request) {
	h.findAppointments(w, r, appointments.AllOwners())
}

func (h *OwnerHandler) findAppointments(w http.ResponseWriter, r *http.Request, scope appointments.Scope) {
	dateExpr := chi.URLParam(r, "date")
	start := time.Now()

	visits, err := h.finder.Find(r.Context(), scope, dateExpr)
	h.metrics.ObserveAppointmentDuration(time.Since(start))

	if err != nil {
		if errors.Is(err, appointments.ErrNoneFound) {
			h.metrics.IncAppointmentQuery("none")
			writeError(w, http.StatusNotFound, "NOT_FOUND", "No appointments found")
			return
		}
		h.metrics.IncAppointmentQuery("none")
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	h.metrics.IncAppointmentQuery("found")
	writeJSON(w, http.StatusOK, visits)
}

// writeBindingErrors attaches the validation document to the errors header
// and sends an empty bad-request body. A document that fails to encode is an
// internal fault, not a client error.
func writeBindingErrors(w http.ResponseWriter, logger *slog.Logger, bindErrs *binding.Errors) {
	doc, err := bindErrs.ToJSON()
	if err != nil {
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}
	w.Header().Set(binding.Header, doc)
	w.WriteHeader(http.StatusBadRequest)
}

// handleClinicError maps facade errors to HTTP responses.
func handleClinicError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if errors.Is(err, clinic.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}
	logger.Error("internal_error", "error", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
}

// validateOwner records the field-level failures for an owner payload.
func validateOwner(owner *model.Owner, bindErrs *binding.Errors) {
	if owner.FirstName == "" {
		bindErrs.Add("owner", "first_name", owner.FirstName, "must not be empty")
	}
	if owner.LastName == "" {
		bindErrs.Add("owner", "last_name", owner.LastName, "must not be empty")
	}
	if owner.Address == "" {
		bindErrs.Add("owner", "address", owner.Address, "must not be empty")
	}
	if owner.City == "" {
		bindErrs.Add("owner", "city", owner.City, "must not be empty")
	}
	if owner.Telephone == "" {
		bindErrs.Add("owner", "telephone", owner.Telephone, "must not be empty")
	} else if !telephonePattern.MatchString(owner.Telephone) {
		bindErrs.Add("owner", "telephone", owner.Telephone, "must be a number of up to 10 digits")
	}
}
