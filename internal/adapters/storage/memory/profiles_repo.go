package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-adoption/internal/domain/profiles"
)

type profileRepo struct {
	mu     sync.RWMutex
	byUser map[string]profiles.Profile
}

func NewProfilesRepo() profiles.Repository {
	return &profileRepo{
		byUser: make(map[string]profiles.Profile),
	}
}

func (r *profileRepo) Get(ctx context.Context, userID string) (profiles.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byUser[userID]
	if !ok {
		return profiles.Profile{}, profiles.ErrNotFound
	}
	return p, nil
}

func (r *profileRepo) Upsert(ctx context.Context, p profiles.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.UserID) == "" {
		return errors.New("profile user id required")
	}
	r.byUser[p.UserID] = p
	return nil
}
