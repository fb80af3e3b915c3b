package auth

import "context"

// StateStore persiste los nonces de state del handshake OAuth. Consume es
// destructivo: un state solo se acepta una vez.
type StateStore interface {
	Save(ctx context.Context, state string) error
	Consume(ctx context.Context, state string) (bool, error)
}
