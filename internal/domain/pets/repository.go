package pets

import "context"

type Repository interface {
	// Create persiste la mascota y devuelve la copia con el ID asignado por el store.
	Create(ctx context.Context, p Pet) (Pet, error)
	GetByID(ctx context.Context, id int64) (Pet, error)
	// ListByOwner devuelve las mascotas del dueño en el orden que entregue el store.
	ListByOwner(ctx context.Context, owner string) ([]Pet, error)
	Update(ctx context.Context, p Pet) error
	Delete(ctx context.Context, id int64) error
}
