package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/petclinic/petclinic/internal/auth"
	"github.com/petclinic/petclinic/internal/binding"
	"github.com/petclinic/petclinic/internal/clinic"
	"github.com/petclinic/petclinic/internal/model"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	svc    clinic.Service
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc clinic.Service, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// Create handles POST /api/users.
// The submitted password is hashed before the account is stored; the plain
// text never leaves this handler.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var user model.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	bindErrs := binding.NewErrors()
	validateUser(&user, bindErrs)
	if !bindErrs.Empty() {
		writeBindingErrors(w, h.logger, bindErrs)
		return
	}

	hash, err := auth.HashPassword(user.Password)
	if err != nil {
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}
	user.PasswordHash = hash
	user.Password = ""

	if err := h.svc.SaveUser(r.Context(), &user); err != nil {
		handleClinicError(w, h.logger, err)
		return
	}

	h.logger.Info("user_created", "username", user.Username, "roles", strings.Join(user.Roles, ","))

	writeJSON(w, http.StatusCreated, user)
}

// validateUser records the field-level failures for a user payload.
// An account must carry at least one known role.
func validateUser(user *model.User, bindErrs *binding.Errors) {
	if user.Username == "" {
		bindErrs.Add("user", "username", user.Username, "must not be empty")
	}
	if user.Password == "" {
		bindErrs.Add("user", "password", "", "must not be empty")
	}
	if len(user.Roles) == 0 {
		bindErrs.Add("user", "roles", "", "at least one role is required")
		return
	}
	for _, role := range user.Roles {
		if !model.IsValidRole(role) {
			bindErrs.Add("user", "roles", role, "unknown role")
		}
	}
}
