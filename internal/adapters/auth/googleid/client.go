package googleid

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pet-school-registry/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("googleid client not configured")
	ErrUnauthorized  = errors.New("googleid token rejected")
	ErrUpstream      = errors.New("googleid upstream error")
)

const tokenInfoBaseURL = "https://oauth2.googleapis.com"

// Config del cliente de verificación.
// ClientID normalmente viene de GOOGLE_CLIENT_ID en quien lo instancie.
type Config struct {
	ClientID string

	// Timeout HTTP del cliente interno.
	Timeout time.Duration
}

// Client valida ID tokens de Google contra el endpoint tokeninfo.
type Client struct {
	clientID string
	httpc    *httpclient.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	c, _ := httpclient.NewWithBaseURL(tokenInfoBaseURL, timeout)
	return &Client{
		clientID: strings.TrimSpace(cfg.ClientID),
		httpc:    c,
	}
}

// NewClientWithHTTP permite inyectar el httpclient (tests).
func NewClientWithHTTP(clientID string, httpc *httpclient.Client) *Client {
	return &Client{clientID: strings.TrimSpace(clientID), httpc: httpc}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.clientID != ""
}

type tokenInfo struct {
	Sub string `json:"sub"`
	Aud string `json:"aud"`
}

// VerifyIDToken valida el token y devuelve el sub de Google.
// tokeninfo responde 400 para tokens inválidos o expirados.
func (c *Client) VerifyIDToken(ctx context.Context, token string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrUnauthorized
	}

	var info tokenInfo
	err := c.httpc.DoJSON(ctx, http.MethodGet, "/tokeninfo?id_token="+url.QueryEscape(token), nil, nil, &info)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	// El token debe haber sido emitido para esta app.
	if info.Aud != c.clientID {
		return "", ErrUnauthorized
	}

	if strings.TrimSpace(info.Sub) == "" {
		return "", errors.New("googleid response missing sub")
	}
	return info.Sub, nil
}
