package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pet-adoption/internal/domain/profiles"
	"pet-adoption/internal/platform/validation"
	"pet-adoption/internal/ports/auth"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported oauth provider")
	ErrProfileSync         = errors.New("account created but profile could not be saved")
)

// ProfileWriter es lo único que accounts necesita de profiles.
type ProfileWriter interface {
	Upsert(ctx context.Context, p profiles.Profile) error
}

type SignUpInput struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Nickname        string `json:"nickname" validate:"required,max=30"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type Service struct {
	provider    auth.Provider
	profiles    ProfileWriter
	v           *validation.Validator
	redirectURL string
}

// NewService: redirectURL es a dónde vuelve el usuario después del login social.
func NewService(provider auth.Provider, profiles ProfileWriter, v *validation.Validator, redirectURL string) *Service {
	if v == nil {
		v = validation.New()
	}
	return &Service{
		provider:    provider,
		profiles:    profiles,
		v:           v,
		redirectURL: strings.TrimSpace(redirectURL),
	}
}

// SignUp registra la cuenta en el proveedor y crea la fila de perfil.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (auth.Claims, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Nickname = strings.TrimSpace(in.Nickname)
	if err := s.v.Validate(in); err != nil {
		return auth.Claims{}, err
	}

	c, err := s.provider.SignUp(ctx, in.Email, in.Password, in.Nickname)
	if err != nil {
		return auth.Claims{}, err
	}
	if c.Nickname == "" {
		c.Nickname = in.Nickname
	}

	if s.profiles != nil {
		err := s.profiles.Upsert(ctx, profiles.Profile{
			UserID:   c.UserID,
			Email:    c.Email,
			Nickname: c.Nickname,
		})
		if err != nil {
			return c, fmt.Errorf("%w: %v", ErrProfileSync, err)
		}
	}
	return c, nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (auth.Session, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := s.v.Validate(in); err != nil {
		return auth.Session{}, err
	}
	return s.provider.SignIn(ctx, in.Email, in.Password)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.ErrUnauthorized
	}
	return s.provider.SignOut(ctx, token)
}

// OAuthURL devuelve la URL del proveedor social (kakao | google).
func (s *Service) OAuthURL(provider, redirectTo string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !auth.IsSupportedOAuthProvider(provider) {
		return "", ErrUnsupportedProvider
	}
	redirectTo = strings.TrimSpace(redirectTo)
	if redirectTo == "" {
		redirectTo = s.redirectURL
	}
	return s.provider.OAuthURL(provider, redirectTo)
}
