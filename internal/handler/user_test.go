package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/petclinic/petclinic/internal/auth"
	"github.com/petclinic/petclinic/internal/binding"
	"github.com/petclinic/petclinic/internal/clinic"
	"github.com/petclinic/petclinic/internal/model"
)

func newUserTestRouter(t *testing.T) (*chi.Mux, *clinic.MemoryStore) {
	t.Helper()

	store := clinic.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewUserHandler(store, logger)

	r := chi.NewRouter()
	r.Post("/api/users", h.Create)
	return r, store
}

func TestUserCreate(t *testing.T) {
	r, store := newUserTestRouter(t)

	body := model.User{Username: "vet1", Password: "secret-pass", Enabled: true, Roles: []string{model.RoleVetAdmin}}
	rec := doJSON(t, r, http.MethodPost, "/api/users", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	if strings.Contains(rec.Body.String(), "secret-pass") {
		t.Error("plain password must not be echoed")
	}

	stored, err := store.FindUserByUsername(context.Background(), "vet1")
	if err != nil {
		t.Fatalf("FindUserByUsername: %v", err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "secret-pass" {
		t.Error("password should be stored as a hash")
	}
	match, err := auth.VerifyPassword("secret-pass", stored.PasswordHash)
	if err != nil || !match {
		t.Errorf("stored hash does not verify: match=%v err=%v", match, err)
	}
}

func TestUserCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body model.User
	}{
		{"no roles", model.User{Username: "u", Password: "p"}},
		{"unknown role", model.User{Username: "u", Password: "p", Roles: []string{"superuser"}}},
		{"missing username", model.User{Password: "p", Roles: []string{model.RoleAdmin}}},
		{"missing password", model.User{Username: "u", Roles: []string{model.RoleAdmin}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newUserTestRouter(t)

			rec := doJSON(t, r, http.MethodPost, "/api/users", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}

			var fields []binding.Error
			if err := json.Unmarshal([]byte(rec.Header().Get(binding.Header)), &fields); err != nil {
				t.Fatalf("errors header is not valid JSON: %v", err)
			}
			if len(fields) == 0 {
				t.Error("expected at least one field error in the errors header")
			}
		})
	}
}
