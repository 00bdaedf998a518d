package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/petclinic/petclinic/internal/auth"
	"github.com/petclinic/petclinic/internal/model"
)

func TestRequireRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		roles      []string
		required   []string
		wantStatus int
	}{
		{"exact role passes", []string{model.RoleOwnerAdmin}, []string{model.RoleOwnerAdmin}, http.StatusOK},
		{"admin implies any role", []string{model.RoleAdmin}, []string{model.RoleVetAdmin}, http.StatusOK},
		{"any-of semantics", []string{model.RoleVetAdmin}, []string{model.RoleOwnerAdmin, model.RoleVetAdmin}, http.StatusOK},
		{"missing role is forbidden", []string{model.RoleOwnerAdmin}, []string{model.RoleVetAdmin}, http.StatusForbidden},
		{"no roles is forbidden", nil, []string{model.RoleOwnerAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := RequireRole(tt.required...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/owners", nil)
			authCtx := &model.AuthContext{Username: "tester", Roles: tt.roles}
			req = req.WithContext(auth.ContextWithAuth(req.Context(), authCtx))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireRoleWithoutAuthContext(t *testing.T) {
	t.Parallel()

	handler := RequireRole(model.RoleOwnerAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/owners", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
