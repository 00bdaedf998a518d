package clinic

import (
	"context"
	"fmt"

	"github.com/petclinic/petclinic/internal/auth"
	"github.com/petclinic/petclinic/internal/model"
)

// Seed loads the baseline reference data used when no database is
// configured: the standard pet types and an enabled admin account
// (admin/admin) so the API is usable out of the box in development.
func (s *MemoryStore) Seed(ctx context.Context) error {
	for _, name := range []string{"cat", "dog", "lizard", "snake", "bird", "hamster"} {
		if err := s.SavePetType(ctx, &model.PetType{Name: name}); err != nil {
			return fmt.Errorf("seed pet type %q: %w", name, err)
		}
	}

	hash, err := auth.HashPassword("admin")
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	admin := &model.User{
		Username:     "admin",
		PasswordHash: hash,
		Enabled:      true,
		Roles:        []string{model.RoleAdmin},
	}
	if err := s.SaveUser(ctx, admin); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	return nil
}
