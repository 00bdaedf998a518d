package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/petclinic/petclinic/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 550550

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetClinicSchema drops and recreates the clinic schema for tests.
func ResetClinicSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downPath := filepath.Join(root, "migrations", "000001_clinic.down.sql")
	upPath := filepath.Join(root, "migrations", "000001_clinic.up.sql")

	downSQL, err := os.ReadFile(downPath)
	if err != nil {
		return fmt.Errorf("read down migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply down migration: %w", err)
	}

	upSQL, err := os.ReadFile(upPath)
	if err != nil {
		return fmt.Errorf("read up migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply up migration: %w", err)
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestOwner creates a test owner with sensible defaults.
func NewTestOwner(t testing.TB, lastName string) *model.Owner {
	t.Helper()
	return &model.Owner{
		FirstName: "Test",
		LastName:  lastName,
		Address:   "110 W. Liberty St.",
		City:      "Madison",
		Telephone: "6085551023",
	}
}

// NewTestPet creates a test pet for an owner.
func NewTestPet(t testing.TB, name string, ownerID, typeID int) *model.Pet {
	t.Helper()
	birth := model.NewDate(2020, time.March, 9)
	return &model.Pet{
		Name:      name,
		BirthDate: &birth,
		Type:      model.PetType{ID: typeID},
		OwnerID:   ownerID,
	}
}

// NewTestVisit creates a test visit for a pet.
func NewTestVisit(t testing.TB, petID int, date time.Time) *model.Visit {
	t.Helper()
	return &model.Visit{
		PetID:       petID,
		Date:        date,
		Description: "checkup",
	}
}

// NewTestUser creates an enabled test user with the given roles.
// PasswordHash must be set by the caller when auth is exercised.
func NewTestUser(t testing.TB, username string, roles ...string) *model.User {
	t.Helper()
	return &model.User{
		Username: username,
		Enabled:  true,
		Roles:    roles,
	}
}
