package owners

import "context"

type Repository interface {
	// GetOrCreateByIdentity devuelve el dueño para la identidad, creándolo con
	// lista de mascotas vacía si no existe. Atómico desde el punto de vista del
	// caller: reemplaza los checks de existencia ad hoc del flujo de login.
	GetOrCreateByIdentity(ctx context.Context, ownerID string) (Owner, error)
	GetByIdentity(ctx context.Context, ownerID string) (Owner, error)
	List(ctx context.Context) ([]Owner, error)
	Update(ctx context.Context, o Owner) error
}
