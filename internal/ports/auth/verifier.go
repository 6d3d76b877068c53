package auth

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("user already registered")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrOAuthUnavailable   = errors.New("oauth login not available")
)

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// Provider es el servicio externo dueño del ciclo de vida del usuario.
type Provider interface {
	AuthVerifier

	SignUp(ctx context.Context, email, password, nickname string) (Claims, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, token string) error

	// OAuthURL arma la URL de autorización para un provider social.
	OAuthURL(provider, redirectTo string) (string, error)
}
