package clinic

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/petclinic/petclinic/internal/model"
)

// MemoryStore is an in-memory Service implementation.
//
// It backs the development mode (no DATABASE_URL configured) and the test
// suites. All methods return copies so callers can never mutate stored state
// through a returned entity.
type MemoryStore struct {
	mu sync.RWMutex

	owners   map[int]model.Owner
	pets     map[int]model.Pet
	visits   map[int]model.Visit
	petTypes map[int]model.PetType
	vets     map[int]model.Vet
	users    map[string]model.User

	nextOwnerID   int
	nextPetID     int
	nextVisitID   int
	nextPetTypeID int
	nextVetID     int
}

var _ Service = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		owners:   make(map[int]model.Owner),
		pets:     make(map[int]model.Pet),
		visits:   make(map[int]model.Visit),
		petTypes: make(map[int]model.PetType),
		vets:     make(map[int]model.Vet),
		users:    make(map[string]model.User),
	}
}

// FindOwnerByID returns the owner with the given id, with its pets and
// their visits materialized.
func (s *MemoryStore) FindOwnerByID(ctx context.Context, id int) (*model.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owner, ok := s.owners[id]
	if !ok {
		return nil, ErrNotFound
	}
	materialized := s.materializeOwner(owner)
	return &materialized, nil
}

// FindAllOwners returns every owner, sorted by id, each with its full
// pet and visit graph.
func (s *MemoryStore) FindAllOwners(ctx context.Context) ([]model.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Owner, 0, len(s.owners))
	for _, o := range s.owners {
		out = append(out, s.materializeOwner(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FindOwnersByLastName returns owners whose last name starts with the given
// prefix (case-insensitive), sorted by id.
func (s *MemoryStore) FindOwnersByLastName(ctx context.Context, lastName string) ([]model.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := strings.ToLower(lastName)
	out := make([]model.Owner, 0)
	for _, o := range s.owners {
		if strings.HasPrefix(strings.ToLower(o.LastName), prefix) {
			out = append(out, s.materializeOwner(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveOwner inserts the owner (assigning an id) or updates it in place.
func (s *MemoryStore) SaveOwner(ctx context.Context, owner *model.Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if owner.ID == 0 {
		s.nextOwnerID++
		owner.ID = s.nextOwnerID
	} else if _, ok := s.owners[owner.ID]; !ok {
		return ErrNotFound
	}

	stored := *owner
	stored.Pets = nil // pets are stored separately
	s.owners[owner.ID] = stored
	return nil
}

// DeleteOwner removes the owner and cascades to its pets and their visits.
func (s *MemoryStore) DeleteOwner(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.owners[id]; !ok {
		return ErrNotFound
	}
	for petID, p := range s.pets {
		if p.OwnerID != id {
			continue
		}
		for visitID, v := range s.visits {
			if v.PetID == petID {
				delete(s.visits, visitID)
			}
		}
		delete(s.pets, petID)
	}
	delete(s.owners, id)
	return nil
}

// FindPetByID returns the pet with the given id, with its visits.
func (s *MemoryStore) FindPetByID(ctx context.Context, id int) (*model.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pet, ok := s.pets[id]
	if !ok {
		return nil, ErrNotFound
	}
	materialized := s.materializePet(pet)
	return &materialized, nil
}

// FindAllPets returns every pet, sorted by id.
func (s *MemoryStore) FindAllPets(ctx context.Context) ([]model.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Pet, 0, len(s.pets))
	for _, p := range s.pets {
		out = append(out, s.materializePet(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SavePet inserts or updates a pet. The owning owner must exist.
func (s *MemoryStore) SavePet(ctx context.Context, pet *model.Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.owners[pet.OwnerID]; !ok {
		return ErrNotFound
	}
	if pet.ID == 0 {
		s.nextPetID++
		pet.ID = s.nextPetID
	} else if _, ok := s.pets[pet.ID]; !ok {
		return ErrNotFound
	}

	stored := *pet
	stored.Visits = nil // visits are stored separately
	s.pets[pet.ID] = stored
	return nil
}

// DeletePet removes the pet and cascades to its visits.
func (s *MemoryStore) DeletePet(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pets[id]; !ok {
		return ErrNotFound
	}
	for visitID, v := range s.visits {
		if v.PetID == id {
			delete(s.visits, visitID)
		}
	}
	delete(s.pets, id)
	return nil
}

// FindVisitByID returns the visit with the given id.
func (s *MemoryStore) FindVisitByID(ctx context.Context, id int) (*model.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visit, ok := s.visits[id]
	if !ok {
		return nil, ErrNotFound
	}
	v := visit
	return &v, nil
}

// FindVisitsByPetID returns every visit for the given pet, sorted by id.
func (s *MemoryStore) FindVisitsByPetID(ctx context.Context, petID int) ([]model.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.visitsForPet(petID), nil
}

// FindAllVisits returns every visit, sorted by id.
func (s *MemoryStore) FindAllVisits(ctx context.Context) ([]model.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Visit, 0, len(s.visits))
	for _, v := range s.visits {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveVisit inserts or updates a visit. The owning pet must exist.
func (s *MemoryStore) SaveVisit(ctx context.Context, visit *model.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pets[visit.PetID]; !ok {
		return ErrNotFound
	}
	if visit.ID == 0 {
		s.nextVisitID++
		visit.ID = s.nextVisitID
	} else if _, ok := s.visits[visit.ID]; !ok {
		return ErrNotFound
	}
	s.visits[visit.ID] = *visit
	return nil
}

// DeleteVisit removes the visit.
func (s *MemoryStore) DeleteVisit(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.visits[id]; !ok {
		return ErrNotFound
	}
	delete(s.visits, id)
	return nil
}

// FindPetTypeByID returns the pet type with the given id.
func (s *MemoryStore) FindPetTypeByID(ctx context.Context, id int) (*model.PetType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	petType, ok := s.petTypes[id]
	if !ok {
		return nil, ErrNotFound
	}
	t := petType
	return &t, nil
}

// FindAllPetTypes returns every pet type, sorted by id.
func (s *MemoryStore) FindAllPetTypes(ctx context.Context) ([]model.PetType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.PetType, 0, len(s.petTypes))
	for _, t := range s.petTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SavePetType inserts or updates a pet type.
func (s *MemoryStore) SavePetType(ctx context.Context, petType *model.PetType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if petType.ID == 0 {
		s.nextPetTypeID++
		petType.ID = s.nextPetTypeID
	} else if _, ok := s.petTypes[petType.ID]; !ok {
		return ErrNotFound
	}
	s.petTypes[petType.ID] = *petType
	return nil
}

// DeletePetType removes the pet type.
func (s *MemoryStore) DeletePetType(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.petTypes[id]; !ok {
		return ErrNotFound
	}
	delete(s.petTypes, id)
	return nil
}

// FindVetByID returns the vet with the given id.
func (s *MemoryStore) FindVetByID(ctx context.Context, id int) (*model.Vet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vet, ok := s.vets[id]
	if !ok {
		return nil, ErrNotFound
	}
	v := vet
	v.Specialties = append([]string(nil), vet.Specialties...)
	return &v, nil
}

// FindAllVets returns every vet, sorted by id.
func (s *MemoryStore) FindAllVets(ctx context.Context) ([]model.Vet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Vet, 0, len(s.vets))
	for _, v := range s.vets {
		vet := v
		vet.Specialties = append([]string(nil), v.Specialties...)
		out = append(out, vet)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveVet inserts or updates a vet.
func (s *MemoryStore) SaveVet(ctx context.Context, vet *model.Vet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if vet.ID == 0 {
		s.nextVetID++
		vet.ID = s.nextVetID
	} else if _, ok := s.vets[vet.ID]; !ok {
		return ErrNotFound
	}
	stored := *vet
	stored.Specialties = append([]string(nil), vet.Specialties...)
	s.vets[vet.ID] = stored
	return nil
}

// DeleteVet removes the vet.
func (s *MemoryStore) DeleteVet(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vets[id]; !ok {
		return ErrNotFound
	}
	delete(s.vets, id)
	return nil
}

// FindUserByUsername returns the user with the given username.
func (s *MemoryStore) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	u := user
	u.Roles = append([]string(nil), user.Roles...)
	return &u, nil
}

// SaveUser inserts or replaces a user, keyed by username.
func (s *MemoryStore) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *user
	stored.Roles = append([]string(nil), user.Roles...)
	s.users[user.Username] = stored
	return nil
}

// materializeOwner attaches the owner's pets and their visits.
// Caller must hold at least a read lock.
func (s *MemoryStore) materializeOwner(owner model.Owner) model.Owner {
	out := owner
	out.Pets = nil
	for _, p := range s.pets {
		if p.OwnerID == owner.ID {
			out.Pets = append(out.Pets, s.materializePet(p))
		}
	}
	sort.Slice(out.Pets, func(i, j int) bool { return out.Pets[i].ID < out.Pets[j].ID })
	return out
}

// materializePet attaches the pet's visits.
// Caller must hold at least a read lock.
func (s *MemoryStore) materializePet(pet model.Pet) model.Pet {
	out := pet
	out.Visits = s.visitsForPet(pet.ID)
	return out
}

// visitsForPet returns the pet's visits sorted by id.
// Caller must hold at least a read lock.
func (s *MemoryStore) visitsForPet(petID int) []model.Visit {
	out := make([]model.Visit, 0)
	for _, v := range s.visits {
		if v.PetID == petID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
