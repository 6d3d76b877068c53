package baas

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pet-adoption/internal/platform/httpclient"
	"pet-adoption/internal/ports/auth"
)

// AuthProvider implementa auth.Provider contra /auth/v1.
type AuthProvider struct {
	c *Client
}

func NewAuthProvider(c *Client) *AuthProvider {
	return &AuthProvider{c: c}
}

type authUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// Los proveedores OAuth mezclan bools y strings en user_metadata y
// no siempre traen nickname.
var nicknameKeys = []string{"nickname", "name", "user_name"}

func (u authUser) nickname() string {
	for _, k := range nicknameKeys {
		if v, ok := u.UserMetadata[k].(string); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (u authUser) claims() auth.Claims {
	return auth.Claims{
		UserID:   u.ID,
		Email:    u.Email,
		Nickname: u.nickname(),
	}
}

type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	User         *authUser `json:"user"`
}

func (p *AuthProvider) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrUnauthorized
	}

	var u authUser
	err := p.c.do(ctx, httpclient.Request{
		Method:  http.MethodGet,
		Path:    "/auth/v1/user",
		Headers: p.c.anonHeaders(token),
	}, &u)
	if err != nil {
		switch httpclient.StatusOf(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return auth.Claims{}, auth.ErrUnauthorized
		}
		return auth.Claims{}, err
	}
	if strings.TrimSpace(u.ID) == "" {
		return auth.Claims{}, auth.ErrUnauthorized
	}
	return u.claims(), nil
}

func (p *AuthProvider) SignUp(ctx context.Context, email, password, nickname string) (auth.Claims, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"nickname": nickname},
	}

	// Con confirmación de email desactivada la respuesta trae sesión + user;
	// si no, trae el user en la raíz.
	var resp struct {
		authUser
		User *authUser `json:"user"`
	}
	err := p.c.do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/auth/v1/signup",
		Headers: p.c.anonHeaders(""),
		JSON:    body,
	}, &resp)
	if err != nil {
		if isAlreadyRegistered(err) {
			return auth.Claims{}, auth.ErrAlreadyRegistered
		}
		return auth.Claims{}, restError(err)
	}

	u := resp.authUser
	if resp.User != nil {
		u = *resp.User
	}
	return u.claims(), nil
}

func (p *AuthProvider) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	var resp tokenResponse
	err := p.c.do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/auth/v1/token",
		Query:   url.Values{"grant_type": {"password"}},
		Headers: p.c.anonHeaders(""),
		JSON:    map[string]string{"email": email, "password": password},
	}, &resp)
	if err != nil {
		switch httpclient.StatusOf(err) {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return auth.Session{}, auth.ErrInvalidCredentials
		}
		return auth.Session{}, restError(err)
	}

	s := auth.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    time.Duration(resp.ExpiresIn) * time.Second,
	}
	if resp.User != nil {
		s.User = resp.User.claims()
	}
	return s, nil
}

func (p *AuthProvider) SignOut(ctx context.Context, token string) error {
	err := p.c.do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/auth/v1/logout",
		Headers: p.c.anonHeaders(token),
	}, nil)
	if err != nil {
		switch httpclient.StatusOf(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return auth.ErrUnauthorized
		}
		return restError(err)
	}
	return nil
}

func (p *AuthProvider) OAuthURL(provider, redirectTo string) (string, error) {
	q := url.Values{"provider": {provider}}
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return p.c.cfg.URL + "/auth/v1/authorize?" + q.Encode(), nil
}

func isAlreadyRegistered(err error) bool {
	var he *httpclient.HTTPError
	if !errors.As(err, &he) {
		return false
	}
	if he.StatusCode != http.StatusBadRequest && he.StatusCode != http.StatusUnprocessableEntity {
		return false
	}
	return strings.Contains(strings.ToLower(he.Body), "already registered")
}
