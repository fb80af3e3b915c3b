package schools

import "context"

type Repository interface {
	// Create persiste la escuela y devuelve la copia con el ID asignado por el store.
	Create(ctx context.Context, sch School) (School, error)
	GetByID(ctx context.Context, id int64) (School, error)
	// List devuelve todas las escuelas en el orden que entregue el store.
	List(ctx context.Context) ([]School, error)
	Update(ctx context.Context, sch School) error
	Delete(ctx context.Context, id int64) error
}
