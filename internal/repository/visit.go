package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/petclinic/petclinic/internal/clinic"
	"github.com/petclinic/petclinic/internal/model"
)

// FindVisitByID retrieves a visit by its id.
func (r *Repository) FindVisitByID(ctx context.Context, id int) (*model.Visit, error) {
	query := `
		SELECT id, pet_id, visit_date, description
		FROM visits
		WHERE id = $1
	`

	var visit model.Visit
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&visit.ID,
		&visit.PetID,
		&visit.Date,
		&visit.Description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, clinic.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get visit by id: %w", err)
	}
	return &visit, nil
}

// FindVisitsByPetID retrieves the pet's visits, sorted by id.
func (r *Repository) FindVisitsByPetID(ctx context.Context, petID int) ([]model.Visit, error) {
	query := `
		SELECT id, pet_id, visit_date, description
		FROM visits
		WHERE pet_id = $1
		ORDER BY id
	`
	return r.queryVisits(ctx, query, petID)
}

// FindAllVisits retrieves every visit, sorted by id.
func (r *Repository) FindAllVisits(ctx context.Context) ([]model.Visit, error) {
	query := `
		SELECT id, pet_id, visit_date, description
		FROM visits
		ORDER BY id
	`
	return r.queryVisits(ctx, query)
}

// SaveVisit inserts the visit when it has no identity, otherwise updates it.
func (r *Repository) SaveVisit(ctx context.Context, visit *model.Visit) error {
	if visit.ID == 0 {
		query := `
			INSERT INTO visits (pet_id, visit_date, description)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		err := r.pool.QueryRow(ctx, query,
			visit.PetID,
			visit.Date,
			visit.Description,
		).Scan(&visit.ID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return clinic.ErrNotFound
			}
			return fmt.Errorf("failed to create visit: %w", err)
		}
		return nil
	}

	query := `
		UPDATE visits
		SET pet_id = $2, visit_date = $3, description = $4
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		visit.ID,
		visit.PetID,
		visit.Date,
		visit.Description,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return clinic.ErrNotFound
		}
		return fmt.Errorf("failed to update visit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}

// DeleteVisit removes a visit.
func (r *Repository) DeleteVisit(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM visits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete visit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}

func (r *Repository) queryVisits(ctx context.Context, query string, args ...any) ([]model.Visit, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	defer rows.Close()

	visits := make([]model.Visit, 0)
	for rows.Next() {
		var visit model.Visit
		if err := rows.Scan(
			&visit.ID,
			&visit.PetID,
			&visit.Date,
			&visit.Description,
		); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, visit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate visits: %w", err)
	}
	return visits, nil
}
