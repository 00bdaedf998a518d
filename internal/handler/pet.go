package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/petclinic/petclinic/internal/binding"
	"github.com/petclinic/petclinic/internal/clinic"
	"github.com/petclinic/petclinic/internal/model"
)

// PetHandler handles HTTP requests for pet resources.
type PetHandler struct {
	svc    clinic.Service
	logger *slog.Logger
}

// NewPetHandler creates a new PetHandler.
func NewPetHandler(svc clinic.Service, logger *slog.Logger) *PetHandler {
	return &PetHandler{svc: svc, logger: logger}
}

// List handles GET /api/pets.
func (h *PetHandler) List(w http.ResponseWriter, r *http.Request) {
	pets, err := h.svc.FindAllPets(r.Context())
	if err != nil {
		handleClinicError(w, h.logger, err)
		return
	}
	if len(pets) == 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No pets found")
		return
	}
	writeJSON(w, http.StatusOK, pets)
}

// Get handles GET /api/pets/{petID}.
func (h *PetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "petID")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Pet not found")
		return
	}

	pet, err := h.svc.FindPetByID(r.Context(), id)
	if err != nil {
		handleClinicError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

// Create handles POST /api/pets.
func (h *PetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var pet model.Pet
	if err := json.NewDecoder(r.Body).Decode(&pet); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	bindErrs := binding.NewErrorsWithID(pet.ID)
	validatePet(&pet, bindErrs)
	if pet.OwnerID == 0 {
		bindErrs.Add("pet", "owner_id", "", "must reference an owner")
	}
	if !bindErrs.Empty() {
		writeBindingErrors(w, h.logger, bindErrs)
		return
	}

	if err := h.svc.SavePet(r.Context(), &pet); err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	h.logger.Info("pet_created", "pet_id", pet.ID, "owner_id", pet.OwnerID)

	w.Header().Set("Location", locationFor("pets", pet.ID))
	writeJSON(w, http.StatusCreated, pet)
}

// Update handles PUT /api/pets/{petID}.
func (h *PetHandler) Update(w http.ResponseWriter, r *http.Request) {
	pathID, ok := urlParamInt(r, "petID")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Pet not found")
		return
	}

	var pet model.Pet
	if err := json.NewDecoder(r.Body).Decode(&pet); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	bindErrs := binding.NewErrorsWithIDs(pathID, pet.ID)
	validatePet(&pet, bindErrs)
	if !bindErrs.Empty() {
		writeBindingErrors(w, h.logger, bindErrs)
		return
	}

	current, err := h.svc.FindPetByID(r.Context(), pathID)
	if err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	current.Name = pet.Name
	current.BirthDate = pet.BirthDate
	current.Type = pet.Type
	if pet.OwnerID != 0 {
		current.OwnerID = pet.OwnerID
	}

	if err := h.svc.SavePet(r.Context(), current); err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	h.logger.Info("pet_updated", "pet_id", pathID)

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/pets/{petID}.
func (h *PetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "petID")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Pet not found")
		return
	}

	if err := h.svc.DeletePet(r.Context(), id); err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	h.logger.Info("pet_deleted", "pet_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// validatePet records the field-level failures for a pet payload.
func validatePet(pet *model.Pet, bindErrs *binding.Errors) {
	if pet.Name == "" {
		bindErrs.Add("pet", "name", pet.Name, "must not be empty")
	}
	if !pet.Type.HasID() {
		bindErrs.Add("pet", "type", "", "must reference a pet type")
	}
}
