package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/petclinic/petclinic/internal/clinic"
	"github.com/petclinic/petclinic/internal/model"
)

const petSelect = `
	SELECT p.id, p.name, p.birth_date, p.owner_id, t.id, t.name
	FROM pets p
	JOIN types t ON t.id = p.type_id
`

// FindPetByID retrieves a pet with its type and visits.
func (r *Repository) FindPetByID(ctx context.Context, id int) (*model.Pet, error) {
	pet, err := r.scanPet(r.pool.QueryRow(ctx, petSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, clinic.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pet by id: %w", err)
	}

	visits, err := r.FindVisitsByPetID(ctx, pet.ID)
	if err != nil {
		return nil, err
	}
	pet.Visits = visits
	return pet, nil
}

// FindAllPets retrieves every pet, sorted by id.
func (r *Repository) FindAllPets(ctx context.Context) ([]model.Pet, error) {
	rows, err := r.pool.Query(ctx, petSelect+` ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	defer rows.Close()

	pets, err := r.collectPets(rows)
	if err != nil {
		return nil, err
	}
	for i := range pets {
		visits, err := r.FindVisitsByPetID(ctx, pets[i].ID)
		if err != nil {
			return nil, err
		}
		pets[i].Visits = visits
	}
	return pets, nil
}

// SavePet inserts the pet when it has no identity, otherwise updates it.
func (r *Repository) SavePet(ctx context.Context, pet *model.Pet) error {
	if pet.ID == 0 {
		query := `
			INSERT INTO pets (name, birth_date, type_id, owner_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		err := r.pool.QueryRow(ctx, query,
			pet.Name,
			birthDateArg(pet.BirthDate),
			pet.Type.ID,
			pet.OwnerID,
		).Scan(&pet.ID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return clinic.ErrNotFound
			}
			return fmt.Errorf("failed to create pet: %w", err)
		}
		return nil
	}

	query := `
		UPDATE pets
		SET name = $2, birth_date = $3, type_id = $4, owner_id = $5
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		pet.ID,
		pet.Name,
		birthDateArg(pet.BirthDate),
		pet.Type.ID,
		pet.OwnerID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return clinic.ErrNotFound
		}
		return fmt.Errorf("failed to update pet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}

// DeletePet removes a pet. Its visits go with it through ON DELETE CASCADE.
func (r *Repository) DeletePet(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}

// findPetsByOwnerID retrieves the owner's pets with their visits.
func (r *Repository) findPetsByOwnerID(ctx context.Context, ownerID int) ([]model.Pet, error) {
	rows, err := r.pool.Query(ctx, petSelect+` WHERE p.owner_id = $1 ORDER BY p.id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets by owner: %w", err)
	}
	defer rows.Close()

	pets, err := r.collectPets(rows)
	if err != nil {
		return nil, err
	}
	for i := range pets {
		visits, err := r.FindVisitsByPetID(ctx, pets[i].ID)
		if err != nil {
			return nil, err
		}
		pets[i].Visits = visits
	}
	return pets, nil
}

func (r *Repository) collectPets(rows pgx.Rows) ([]model.Pet, error) {
	pets := make([]model.Pet, 0)
	for rows.Next() {
		pet, err := r.scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pet: %w", err)
		}
		pets = append(pets, *pet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pets: %w", err)
	}
	return pets, nil
}

func (r *Repository) scanPet(row pgx.Row) (*model.Pet, error) {
	var (
		pet   model.Pet
		birth sql.NullTime
	)
	err := row.Scan(
		&pet.ID,
		&pet.Name,
		&birth,
		&pet.OwnerID,
		&pet.Type.ID,
		&pet.Type.Name,
	)
	if err != nil {
		return nil, err
	}
	if birth.Valid {
		d := model.Date{Time: birth.Time}
		pet.BirthDate = &d
	}
	return &pet, nil
}

// birthDateArg maps an optional birth date to a nullable column value.
func birthDateArg(d *model.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.Time
}
