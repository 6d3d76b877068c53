package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-adoption/internal/domain/favorites"
)

type favoriteKey struct {
	userID   string
	animalID string
}

type favoriteRepo struct {
	mu   sync.RWMutex
	rows map[favoriteKey]favorites.Favorite
}

func NewFavoritesRepo() favorites.Repository {
	return &favoriteRepo{
		rows: make(map[favoriteKey]favorites.Favorite),
	}
}

func (r *favoriteRepo) Get(ctx context.Context, userID, animalID string) (favorites.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.rows[favoriteKey{userID, animalID}]
	if !ok {
		return favorites.Favorite{}, favorites.ErrNotFound
	}
	return f, nil
}

func (r *favoriteRepo) Upsert(ctx context.Context, f favorites.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(f.UserID) == "" || strings.TrimSpace(f.AnimalID) == "" {
		return errors.New("favorite user id and animal id required")
	}
	r.rows[favoriteKey{f.UserID, f.AnimalID}] = f
	return nil
}

func (r *favoriteRepo) Delete(ctx context.Context, userID, animalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := favoriteKey{userID, animalID}
	if _, ok := r.rows[k]; !ok {
		return favorites.ErrNotFound
	}
	delete(r.rows, k)
	return nil
}

func (r *favoriteRepo) ListByUser(ctx context.Context, userID string) ([]favorites.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]favorites.Favorite, 0)
	for k, f := range r.rows {
		if k.userID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}
