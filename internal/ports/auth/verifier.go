package auth

import "context"

// AuthVerifier verifica una credencial y devuelve claims o error.
// Stateless: la credencial viaja como argumento explícito en cada llamada,
// nunca desde estado compartido.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
