package googleid

import (
	"context"
	"errors"
	"strings"

	"pet-school-registry/internal/ports/auth"
)

var ErrTokenEmpty = errors.New("token is empty")

// identityPrefix antepone "Owner" al sub de Google para formar la identidad
// estable del dueño. Así la genera el deployment de referencia; cambiarla
// invalidaría los documentos existentes.
const identityPrefix = "Owner"

// Verifier implementa auth.AuthVerifier usando el endpoint tokeninfo de Google.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	sub, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return auth.Claims{}, err
	}

	return auth.Claims{OwnerID: identityPrefix + sub}, nil
}
