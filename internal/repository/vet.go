package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/petclinic/petclinic/internal/clinic"
	"github.com/petclinic/petclinic/internal/model"
)

// FindVetByID retrieves a vet by its id.
func (r *Repository) FindVetByID(ctx context.Context, id int) (*model.Vet, error) {
	query := `
		SELECT id, first_name, last_name, specialties
		FROM vets
		WHERE id = $1
	`

	var vet model.Vet
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&vet.ID,
		&vet.FirstName,
		&vet.LastName,
		pq.Array(&vet.Specialties),
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, clinic.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vet by id: %w", err)
	}
	return &vet, nil
}

// FindAllVets retrieves every vet, sorted by id.
func (r *Repository) FindAllVets(ctx context.Context) ([]model.Vet, error) {
	query := `
		SELECT id, first_name, last_name, specialties
		FROM vets
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list vets: %w", err)
	}
	defer rows.Close()

	vets := make([]model.Vet, 0)
	for rows.Next() {
		var vet model.Vet
		if err := rows.Scan(
			&vet.ID,
			&vet.FirstName,
			&vet.LastName,
			pq.Array(&vet.Specialties),
		); err != nil {
			return nil, fmt.Errorf("failed to scan vet: %w", err)
		}
		vets = append(vets, vet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vets: %w", err)
	}
	return vets, nil
}

// SaveVet inserts the vet when it has no identity, otherwise updates it.
func (r *Repository) SaveVet(ctx context.Context, vet *model.Vet) error {
	if vet.ID == 0 {
		query := `
			INSERT INTO vets (first_name, last_name, specialties)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		err := r.pool.QueryRow(ctx, query,
			vet.FirstName,
			vet.LastName,
			pq.Array(vet.Specialties),
		).Scan(&vet.ID)
		if err != nil {
			return fmt.Errorf("failed to create vet: %w", err)
		}
		return nil
	}

	query := `
		UPDATE vets
		SET first_name = $2, last_name = $3, specialties = $4
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		vet.ID,
		vet.FirstName,
		vet.LastName,
		pq.Array(vet.Specialties),
	)
	if err != nil {
		return fmt.Errorf("failed to update vet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}

// DeleteVet removes a vet.
func (r *Repository) DeleteVet(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}
