//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/petclinic/petclinic/internal/clinic"
	"github.com/petclinic/petclinic/internal/model"
	"github.com/petclinic/petclinic/internal/testutil"
)

// ============================================================================
// Clinic Repository Integration Tests
// ============================================================================

func TestIntegrationOwnerLifecycle(t *testing.T) {
	ctx, repo := newClinicTestEnv(t)

	owner := testutil.NewTestOwner(t, "Franklin")
	if err := repo.SaveOwner(ctx, owner); err != nil {
		t.Fatalf("SaveOwner failed: %v", err)
	}
	if owner.ID == 0 {
		t.Fatal("SaveOwner should assign an id")
	}

	retrieved, err := repo.FindOwnerByID(ctx, owner.ID)
	if err != nil {
		t.Fatalf("FindOwnerByID failed: %v", err)
	}
	if retrieved.LastName != "Franklin" {
		t.Errorf("LastName mismatch: got %q, want %q", retrieved.LastName, "Franklin")
	}

	retrieved.City = "Chicago"
	if err := repo.SaveOwner(ctx, retrieved); err != nil {
		t.Fatalf("SaveOwner update failed: %v", err)
	}
	updated, err := repo.FindOwnerByID(ctx, owner.ID)
	if err != nil {
		t.Fatalf("FindOwnerByID after update failed: %v", err)
	}
	if updated.City != "Chicago" {
		t.Errorf("City mismatch: got %q, want %q", updated.City, "Chicago")
	}

	if err := repo.DeleteOwner(ctx, owner.ID); err != nil {
		t.Fatalf("DeleteOwner failed: %v", err)
	}
	if _, err := repo.FindOwnerByID(ctx, owner.ID); !errors.Is(err, clinic.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got: %v", err)
	}
}

func TestIntegrationOwnerGraph(t *testing.T) {
	ctx, repo := newClinicTestEnv(t)

	typeID := seedPetType(t, ctx, repo, "cat")

	owner := testutil.NewTestOwner(t, "Coleman")
	if err := repo.SaveOwner(ctx, owner); err != nil {
		t.Fatalf("SaveOwner failed: %v", err)
	}

	pet := testutil.NewTestPet(t, "Samantha", owner.ID, typeID)
	if err := repo.SavePet(ctx, pet); err != nil {
		t.Fatalf("SavePet failed: %v", err)
	}

	visit := testutil.NewTestVisit(t, pet.ID, time.Now().Add(24*time.Hour))
	if err := repo.SaveVisit(ctx, visit); err != nil {
		t.Fatalf("SaveVisit failed: %v", err)
	}

	retrieved, err := repo.FindOwnerByID(ctx, owner.ID)
	if err != nil {
		t.Fatalf("FindOwnerByID failed: %v", err)
	}
	if len(retrieved.Pets) != 1 {
		t.Fatalf("Expected 1 pet, got %d", len(retrieved.Pets))
	}
	if retrieved.Pets[0].Type.Name != "cat" {
		t.Errorf("Pet type mismatch: got %q, want %q", retrieved.Pets[0].Type.Name, "cat")
	}
	if len(retrieved.Pets[0].Visits) != 1 {
		t.Errorf("Expected 1 visit, got %d", len(retrieved.Pets[0].Visits))
	}
}

func TestIntegrationCascadeDelete(t *testing.T) {
	ctx, repo := newClinicTestEnv(t)

	typeID := seedPetType(t, ctx, repo, "dog")

	owner := testutil.NewTestOwner(t, "Rodriquez")
	if err := repo.SaveOwner(ctx, owner); err != nil {
		t.Fatalf("SaveOwner failed: %v", err)
	}
	pet := testutil.NewTestPet(t, "Rosy", owner.ID, typeID)
	if err := repo.SavePet(ctx, pet); err != nil {
		t.Fatalf("SavePet failed: %v", err)
	}
	visit := testutil.NewTestVisit(t, pet.ID, time.Now())
	if err := repo.SaveVisit(ctx, visit); err != nil {
		t.Fatalf("SaveVisit failed: %v", err)
	}

	if err := repo.DeleteOwner(ctx, owner.ID); err != nil {
		t.Fatalf("DeleteOwner failed: %v", err)
	}
	if _, err := repo.FindPetByID(ctx, pet.ID); !errors.Is(err, clinic.ErrNotFound) {
		t.Errorf("Pet should be gone after owner delete, got: %v", err)
	}
	if _, err := repo.FindVisitByID(ctx, visit.ID); !errors.Is(err, clinic.ErrNotFound) {
		t.Errorf("Visit should be gone after owner delete, got: %v", err)
	}
}

func TestIntegrationFindOwnersByLastName(t *testing.T) {
	ctx, repo := newClinicTestEnv(t)

	for _, last := range []string{"Davis", "Davidson", "Black"} {
		owner := testutil.NewTestOwner(t, last)
		if err := repo.SaveOwner(ctx, owner); err != nil {
			t.Fatalf("SaveOwner(%s) failed: %v", last, err)
		}
	}

	matches, err := repo.FindOwnersByLastName(ctx, "Dav")
	if err != nil {
		t.Fatalf("FindOwnersByLastName failed: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Expected 2 matches for prefix Dav, got %d", len(matches))
	}
}

func TestIntegrationSavePetUnknownOwner(t *testing.T) {
	ctx, repo := newClinicTestEnv(t)

	typeID := seedPetType(t, ctx, repo, "bird")
	pet := testutil.NewTestPet(t, "Stray", 99999, typeID)

	if err := repo.SavePet(ctx, pet); !errors.Is(err, clinic.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown owner, got: %v", err)
	}
}

func TestIntegrationVetSpecialties(t *testing.T) {
	ctx, repo := newClinicTestEnv(t)

	vet := &model.Vet{FirstName: "Linda", LastName: "Douglas", Specialties: []string{"dentistry", "surgery"}}
	if err := repo.SaveVet(ctx, vet); err != nil {
		t.Fatalf("SaveVet failed: %v", err)
	}

	retrieved, err := repo.FindVetByID(ctx, vet.ID)
	if err != nil {
		t.Fatalf("FindVetByID failed: %v", err)
	}
	if len(retrieved.Specialties) != 2 {
		t.Errorf("Expected 2 specialties, got %d", len(retrieved.Specialties))
	}
}

func TestIntegrationUserRoundTrip(t *testing.T) {
	ctx, repo := newClinicTestEnv(t)

	user := testutil.NewTestUser(t, "vet1", model.RoleVetAdmin)
	user.PasswordHash = "hash"
	if err := repo.SaveUser(ctx, user); err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}

	retrieved, err := repo.FindUserByUsername(ctx, "vet1")
	if err != nil {
		t.Fatalf("FindUserByUsername failed: %v", err)
	}
	if !retrieved.HasRole(model.RoleVetAdmin) {
		t.Error("Expected vet_admin role")
	}

	// Saving the same username again replaces the account
	user.Enabled = false
	if err := repo.SaveUser(ctx, user); err != nil {
		t.Fatalf("SaveUser (replace) failed: %v", err)
	}
	replaced, err := repo.FindUserByUsername(ctx, "vet1")
	if err != nil {
		t.Fatalf("FindUserByUsername after replace failed: %v", err)
	}
	if replaced.Enabled {
		t.Error("Expected account to be disabled after replace")
	}
}

// ============================================================================
// Test Environment Setup
// ============================================================================

func newClinicTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetClinicSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset clinic schema: %v", err)
	}

	return ctx, repo
}

func seedPetType(t *testing.T, ctx context.Context, repo *Repository, name string) int {
	t.Helper()
	petType := &model.PetType{Name: name}
	if err := repo.SavePetType(ctx, petType); err != nil {
		t.Fatalf("SavePetType(%s) failed: %v", name, err)
	}
	return petType.ID
}
