// Package clinic defines the facade through which all entity access flows.
//
// Handlers and the appointment engine depend only on the Service interface;
// persistence lives behind it (Postgres in production, MemoryStore for
// development and tests).
package clinic

import (
	"context"
	"errors"

	"github.com/petclinic/petclinic/internal/model"
)

// ErrNotFound indicates the addressed entity does not exist.
var ErrNotFound = errors.New("not found")

// Service is the single point of entry for entity reads and writes.
//
// Save methods assign an identity to entities whose ID is zero and update
// existing entities otherwise. Delete methods cascade: removing an owner
// removes its pets and their visits, removing a pet removes its visits.
// Absence is always reported as ErrNotFound; any other error is a storage
// fault.
type Service interface {
	FindOwnerByID(ctx context.Context, id int) (*model.Owner, error)
	FindAllOwners(ctx context.Context) ([]model.Owner, error)
	FindOwnersByLastName(ctx context.Context, lastName string) ([]model.Owner, error)
	SaveOwner(ctx context.Context, owner *model.Owner) error
	DeleteOwner(ctx context.Context, id int) error

	FindPetByID(ctx context.Context, id int) (*model.Pet, error)
	FindAllPets(ctx context.Context) ([]model.Pet, error)
	SavePet(ctx context.Context, pet *model.Pet) error
	DeletePet(ctx context.Context, id int) error

	FindVisitByID(ctx context.Context, id int) (*model.Visit, error)
	FindVisitsByPetID(ctx context.Context, petID int) ([]model.Visit, error)
	FindAllVisits(ctx context.Context) ([]model.Visit, error)
	SaveVisit(ctx context.Context, visit *model.Visit) error
	DeleteVisit(ctx context.Context, id int) error

	FindPetTypeByID(ctx context.Context, id int) (*model.PetType, error)
	FindAllPetTypes(ctx context.Context) ([]model.PetType, error)
	SavePetType(ctx context.Context, petType *model.PetType) error
	DeletePetType(ctx context.Context, id int) error

	FindVetByID(ctx context.Context, id int) (*model.Vet, error)
	FindAllVets(ctx context.Context) ([]model.Vet, error)
	SaveVet(ctx context.Context, vet *model.Vet) error
	DeleteVet(ctx context.Context, id int) error

	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	SaveUser(ctx context.Context, user *model.User) error
}
