package googleid

import (
	"context"
	"errors"
	"strings"

	"pet-school-registry/internal/ports/auth"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	ErrInvalidState = errors.New("state value is not valid")
	ErrNoIDToken    = errors.New("token response missing id_token")
)

// FlowConfig arma el flujo de login OAuth contra Google.
type FlowConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Flow maneja el handshake de login: URL de consentimiento con state nonce y
// canje del code por el ID token. No guarda credenciales: el token resultante
// se devuelve al caller y viaja por request de ahí en adelante.
type Flow struct {
	cfg    *oauth2.Config
	states auth.StateStore
}

func NewFlow(cfg FlowConfig, states auth.StateStore) *Flow {
	return &Flow{
		cfg: &oauth2.Config{
			ClientID:     strings.TrimSpace(cfg.ClientID),
			ClientSecret: strings.TrimSpace(cfg.ClientSecret),
			RedirectURL:  strings.TrimSpace(cfg.RedirectURL),
			Scopes:       []string{"profile"},
			Endpoint:     google.Endpoint,
		},
		states: states,
	}
}

func (f *Flow) IsConfigured() bool {
	return f != nil && f.cfg.ClientID != "" && f.cfg.ClientSecret != ""
}

// AuthURL genera la URL de consentimiento con un state nuevo ya persistido.
func (f *Flow) AuthURL(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := f.states.Save(ctx, state); err != nil {
		return "", err
	}
	return f.cfg.AuthCodeURL(state), nil
}

// Exchange valida el state devuelto (un solo uso) y canjea el code por el ID
// token crudo; la verificación del token es trabajo del Verifier.
func (f *Flow) Exchange(ctx context.Context, state, code string) (string, error) {
	ok, err := f.states.Consume(ctx, strings.TrimSpace(state))
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidState
	}

	tok, err := f.cfg.Exchange(ctx, code)
	if err != nil {
		return "", err
	}

	raw, ok := tok.Extra("id_token").(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return "", ErrNoIDToken
	}
	return raw, nil
}
