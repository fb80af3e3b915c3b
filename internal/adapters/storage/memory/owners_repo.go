package memory

import (
	"context"
	"sort"
	"sync"

	"pet-school-registry/internal/domain/owners"
)

type ownerRepo struct {
	mu         sync.RWMutex
	nextID     int64
	byIdentity map[string]owners.Owner
}

func NewOwnerRepo() owners.Repository {
	return &ownerRepo{
		byIdentity: make(map[string]owners.Owner),
	}
}

func (r *ownerRepo) GetOrCreateByIdentity(ctx context.Context, ownerID string) (owners.Owner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o, ok := r.byIdentity[ownerID]; ok {
		return o, nil
	}

	r.nextID++
	o := owners.Owner{
		ID:      r.nextID,
		OwnerID: ownerID,
		Pets:    []int64{},
	}
	r.byIdentity[ownerID] = o
	return o, nil
}

func (r *ownerRepo) GetByIdentity(ctx context.Context, ownerID string) (owners.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byIdentity[ownerID]
	if !ok {
		return owners.Owner{}, owners.ErrNotFound
	}
	return o, nil
}

func (r *ownerRepo) List(ctx context.Context) ([]owners.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Orden estable por id; ver el comentario en el repo de pets.
	out := make([]owners.Owner, 0, len(r.byIdentity))
	for _, o := range r.byIdentity {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ownerRepo) Update(ctx context.Context, o owners.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byIdentity[o.OwnerID]; !exists {
		return owners.ErrNotFound
	}
	r.byIdentity[o.OwnerID] = o
	return nil
}
