package local

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pet-adoption/internal/ports/auth"
)

// Provider implementa auth.Provider sin servicio externo: usuarios en memoria
// con bcrypt y tokens opacos guardados en un SessionStore.
// Pensado para desarrollo y tests; los usuarios no sobreviven a un reinicio.
type Provider struct {
	sessions SessionStore
	cost     int

	mu      sync.RWMutex
	byEmail map[string]*user
	byID    map[string]*user
}

type user struct {
	id       string
	email    string
	nickname string
	hash     []byte
}

func (u *user) claims() auth.Claims {
	return auth.Claims{UserID: u.id, Email: u.email, Nickname: u.nickname}
}

func NewProvider(sessions SessionStore) *Provider {
	if sessions == nil {
		sessions = NewMemorySessions()
	}
	return &Provider{
		sessions: sessions,
		cost:     bcrypt.DefaultCost,
		byEmail:  map[string]*user{},
		byID:     map[string]*user{},
	}
}

// WithCost cambia el costo de bcrypt (tests usan bcrypt.MinCost).
func (p *Provider) WithCost(cost int) *Provider {
	p.cost = cost
	return p
}

func (p *Provider) SignUp(ctx context.Context, email, password, nickname string) (auth.Claims, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return auth.Claims{}, auth.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return auth.Claims{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.byEmail[email]; ok {
		return auth.Claims{}, auth.ErrAlreadyRegistered
	}
	u := &user{
		id:       uuid.NewString(),
		email:    email,
		nickname: strings.TrimSpace(nickname),
		hash:     hash,
	}
	p.byEmail[email] = u
	p.byID[u.id] = u
	return u.claims(), nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	p.mu.RLock()
	u, ok := p.byEmail[normalizeEmail(email)]
	p.mu.RUnlock()
	if !ok {
		return auth.Session{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return auth.Session{}, auth.ErrInvalidCredentials
	}

	token, err := p.sessions.Create(ctx, u.id)
	if err != nil {
		return auth.Session{}, err
	}
	return auth.Session{
		AccessToken: token,
		ExpiresIn:   SessionTTL,
		User:        u.claims(),
	}, nil
}

func (p *Provider) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrUnauthorized
	}
	userID, err := p.sessions.Get(ctx, token)
	if err != nil {
		return auth.Claims{}, err
	}
	if userID == "" {
		return auth.Claims{}, auth.ErrUnauthorized
	}

	p.mu.RLock()
	u, ok := p.byID[userID]
	p.mu.RUnlock()
	if !ok {
		return auth.Claims{}, auth.ErrUnauthorized
	}
	return u.claims(), nil
}

func (p *Provider) SignOut(ctx context.Context, token string) error {
	if _, err := p.Verify(ctx, token); err != nil {
		return err
	}
	return p.sessions.Delete(ctx, strings.TrimSpace(token))
}

func (p *Provider) OAuthURL(provider, redirectTo string) (string, error) {
	return "", auth.ErrOAuthUnavailable
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
