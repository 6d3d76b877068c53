package favorites

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"pet-adoption/internal/domain/shelter"
	"pet-adoption/internal/ports/auth"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("favorite not found")
)

// Catalog es lo que necesitamos del módulo shelter para armar "mis favoritos".
type Catalog interface {
	All(ctx context.Context) ([]shelter.Animal, error)
}

type Service struct {
	repo Repository
	now  func() time.Time

	// toggles concurrentes de la misma (usuario, animal) se colapsan en uno
	toggles singleflight.Group
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Toggle borra el favorito si existe o lo crea si no. Devuelve el estado final.
func (s *Service) Toggle(ctx context.Context, c auth.Claims, animalID string) (bool, error) {
	userID := strings.TrimSpace(c.UserID)
	animalID = strings.TrimSpace(animalID)
	if userID == "" || animalID == "" {
		return false, ErrInvalidInput
	}

	v, err, _ := s.toggles.Do(userID+"\x00"+animalID, func() (any, error) {
		_, err := s.repo.Get(ctx, userID, animalID)
		switch {
		case err == nil:
			if err := s.repo.Delete(ctx, userID, animalID); err != nil && !errors.Is(err, ErrNotFound) {
				return false, err
			}
			return false, nil
		case errors.Is(err, ErrNotFound):
			if err := s.repo.Upsert(ctx, s.newFavorite(c, userID, animalID)); err != nil {
				return false, err
			}
			return true, nil
		default:
			return false, err
		}
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Set deja el favorito en el estado pedido. Idempotente.
func (s *Service) Set(ctx context.Context, c auth.Claims, animalID string, on bool) error {
	userID := strings.TrimSpace(c.UserID)
	animalID = strings.TrimSpace(animalID)
	if userID == "" || animalID == "" {
		return ErrInvalidInput
	}

	if !on {
		err := s.repo.Delete(ctx, userID, animalID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		return nil
	}

	if existing, err := s.repo.Get(ctx, userID, animalID); err == nil && existing.IsFavorite {
		return nil
	}
	return s.repo.Upsert(ctx, s.newFavorite(c, userID, animalID))
}

// ListByUser: más recientes primero.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Favorite, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]Favorite, 0, len(items))
	for _, f := range items {
		if f.IsFavorite {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// IDsByUser implementa shelter.FavoriteLookup.
func (s *Service) IDsByUser(ctx context.Context, userID string) (map[string]bool, error) {
	items, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(items))
	for _, f := range items {
		ids[f.AnimalID] = true
	}
	return ids, nil
}

func (s *Service) IsFavorite(ctx context.Context, userID, animalID string) (bool, error) {
	f, err := s.repo.Get(ctx, strings.TrimSpace(userID), strings.TrimSpace(animalID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return f.IsFavorite, nil
}

// Animals cruza los favoritos del usuario con el lote actual de registros.
// Los dos fetch van en paralelo; favoritos cuyo animal ya no está en el lote se omiten.
func (s *Service) Animals(ctx context.Context, cat Catalog, userID string) ([]shelter.Annotated, error) {
	var (
		favs    []Favorite
		animals []shelter.Animal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		favs, err = s.ListByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		animals, err = cat.All(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]shelter.Animal, len(animals))
	for _, a := range animals {
		byID[a.ID] = a
	}

	out := make([]shelter.Annotated, 0, len(favs))
	for _, f := range favs {
		a, ok := byID[f.AnimalID]
		if !ok {
			continue
		}
		out = append(out, shelter.Annotated{Animal: a, IsFavorite: true})
	}
	return out, nil
}

func (s *Service) newFavorite(c auth.Claims, userID, animalID string) Favorite {
	return Favorite{
		UserID:     userID,
		AnimalID:   animalID,
		IsFavorite: true,
		Email:      strings.TrimSpace(c.Email),
		CreatedAt:  s.now().UTC(),
	}
}
