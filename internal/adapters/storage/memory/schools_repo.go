package memory

import (
	"context"
	"sort"
	"sync"

	"pet-school-registry/internal/domain/schools"
)

type schoolRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]schools.School
}

func NewSchoolRepo() schools.Repository {
	return &schoolRepo{
		byID: make(map[int64]schools.School),
	}
}

func (r *schoolRepo) Create(ctx context.Context, sch schools.School) (schools.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	sch.ID = r.nextID
	r.byID[sch.ID] = sch
	return sch, nil
}

func (r *schoolRepo) GetByID(ctx context.Context, id int64) (schools.School, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sch, ok := r.byID[id]
	if !ok {
		return schools.School{}, schools.ErrNotFound
	}
	return sch, nil
}

func (r *schoolRepo) List(ctx context.Context) ([]schools.School, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Orden estable por id; ver el comentario en el repo de pets.
	out := make([]schools.School, 0, len(r.byID))
	for _, sch := range r.byID {
		out = append(out, sch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *schoolRepo) Update(ctx context.Context, sch schools.School) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[sch.ID]; !exists {
		return schools.ErrNotFound
	}
	r.byID[sch.ID] = sch
	return nil
}

func (r *schoolRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return schools.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
