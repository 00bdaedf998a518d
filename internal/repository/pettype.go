package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/petclinic/petclinic/internal/clinic"
	"github.com/petclinic/petclinic/internal/model"
)

// FindPetTypeByID retrieves a pet type by its id.
func (r *Repository) FindPetTypeByID(ctx context.Context, id int) (*model.PetType, error) {
	var petType model.PetType
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM types WHERE id = $1`, id).Scan(
		&petType.ID,
		&petType.Name,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, clinic.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pet type by id: %w", err)
	}
	return &petType, nil
}

// FindAllPetTypes retrieves every pet type, sorted by id.
func (r *Repository) FindAllPetTypes(ctx context.Context) ([]model.PetType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pet types: %w", err)
	}
	defer rows.Close()

	types := make([]model.PetType, 0)
	for rows.Next() {
		var petType model.PetType
		if err := rows.Scan(&petType.ID, &petType.Name); err != nil {
			return nil, fmt.Errorf("failed to scan pet type: %w", err)
		}
		types = append(types, petType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pet types: %w", err)
	}
	return types, nil
}

// SavePetType inserts the pet type when it has no identity, otherwise updates it.
func (r *Repository) SavePetType(ctx context.Context, petType *model.PetType) error {
	if petType.ID == 0 {
		err := r.pool.QueryRow(ctx,
			`INSERT INTO types (name) VALUES ($1) RETURNING id`,
			petType.Name,
		).Scan(&petType.ID)
		if err != nil {
			return fmt.Errorf("failed to create pet type: %w", err)
		}
		return nil
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE types SET name = $2 WHERE id = $1`,
		petType.ID, petType.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to update pet type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}

// DeletePetType removes a pet type.
func (r *Repository) DeletePetType(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pet type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}
