package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/petclinic/petclinic/internal/clinic"
	"github.com/petclinic/petclinic/internal/model"
)

// FindOwnerByID retrieves an owner with its pets and their visits.
func (r *Repository) FindOwnerByID(ctx context.Context, id int) (*model.Owner, error) {
	query := `
		SELECT id, first_name, last_name, address, city, telephone
		FROM owners
		WHERE id = $1
	`

	var owner model.Owner
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&owner.ID,
		&owner.FirstName,
		&owner.LastName,
		&owner.Address,
		&owner.City,
		&owner.Telephone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, clinic.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get owner by id: %w", err)
	}

	if err := r.loadPets(ctx, &owner); err != nil {
		return nil, err
	}
	return &owner, nil
}

// FindAllOwners retrieves every owner with its full pet and visit graph.
func (r *Repository) FindAllOwners(ctx context.Context) ([]model.Owner, error) {
	query := `
		SELECT id, first_name, last_name, address, city, telephone
		FROM owners
		ORDER BY id
	`
	return r.queryOwners(ctx, query)
}

// FindOwnersByLastName retrieves owners whose last name starts with the
// given prefix, case-insensitively.
func (r *Repository) FindOwnersByLastName(ctx context.Context, lastName string) ([]model.Owner, error) {
	query := `
		SELECT id, first_name, last_name, address, city, telephone
		FROM owners
		WHERE lower(last_name) LIKE lower($1) || '%'
		ORDER BY id
	`
	return r.queryOwners(ctx, query, lastName)
}

// SaveOwner inserts the owner when it has no identity, otherwise updates it.
func (r *Repository) SaveOwner(ctx context.Context, owner *model.Owner) error {
	if owner.ID == 0 {
		query := `
			INSERT INTO owners (first_name, last_name, address, city, telephone)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		err := r.pool.QueryRow(ctx, query,
			owner.FirstName,
			owner.LastName,
			owner.Address,
			owner.City,
			owner.Telephone,
		).Scan(&owner.ID)
		if err != nil {
			return fmt.Errorf("failed to create owner: %w", err)
		}
		return nil
	}

	query := `
		UPDATE owners
		SET first_name = $2, last_name = $3, address = $4, city = $5, telephone = $6
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		owner.ID,
		owner.FirstName,
		owner.LastName,
		owner.Address,
		owner.City,
		owner.Telephone,
	)
	if err != nil {
		return fmt.Errorf("failed to update owner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}

// DeleteOwner removes an owner. Pets and visits go with it through
// ON DELETE CASCADE.
func (r *Repository) DeleteOwner(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM owners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete owner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}

func (r *Repository) queryOwners(ctx context.Context, query string, args ...any) ([]model.Owner, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	defer rows.Close()

	owners := make([]model.Owner, 0)
	for rows.Next() {
		var owner model.Owner
		if err := rows.Scan(
			&owner.ID,
			&owner.FirstName,
			&owner.LastName,
			&owner.Address,
			&owner.City,
			&owner.Telephone,
		); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		owners = append(owners, owner)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate owners: %w", err)
	}

	for i := range owners {
		if err := r.loadPets(ctx, &owners[i]); err != nil {
			return nil, err
		}
	}
	return owners, nil
}

// loadPets attaches the owner's pets, each with its visits.
func (r *Repository) loadPets(ctx context.Context, owner *model.Owner) error {
	pets, err := r.findPetsByOwnerID(ctx, owner.ID)
	if err != nil {
		return err
	}
	owner.Pets = pets
	return nil
}
