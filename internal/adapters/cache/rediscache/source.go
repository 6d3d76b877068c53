package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pet-adoption/internal/domain/shelter"
	"pet-adoption/internal/platform/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL = 10 * time.Minute

	animalsKey = "shelter:animals:v1"
)

// KV es el subconjunto de *redis.Client que usamos (permite fakes en tests).
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Source decora un shelter.Source guardando el lote en Redis.
// Si Redis falla se sigue con el origen; el cache nunca rompe el request.
type Source struct {
	next shelter.Source
	kv   KV
	ttl  time.Duration
	log  logger.Logger

	fetches singleflight.Group
}

func New(next shelter.Source, kv KV, ttl time.Duration, log logger.Logger) *Source {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Source{
		next: next,
		kv:   kv,
		ttl:  ttl,
		log:  log.With(map[string]any{"component": "rediscache"}),
	}
}

func (s *Source) FetchAnimals(ctx context.Context) ([]shelter.Animal, error) {
	if items, ok := s.cached(ctx); ok {
		return items, nil
	}

	v, err, _ := s.fetches.Do(animalsKey, func() (any, error) {
		items, err := s.next.FetchAnimals(ctx)
		if err != nil {
			return nil, err
		}
		s.store(ctx, items)
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]shelter.Animal), nil
}

func (s *Source) cached(ctx context.Context) ([]shelter.Animal, bool) {
	b, err := s.kv.Get(ctx, animalsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("cache get failed", map[string]any{"err": err})
		}
		return nil, false
	}

	var items []shelter.Animal
	if err := json.Unmarshal(b, &items); err != nil {
		s.log.Warn("cache entry corrupt", map[string]any{"err": err})
		return nil, false
	}
	return items, true
}

func (s *Source) store(ctx context.Context, items []shelter.Animal) {
	b, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, animalsKey, b, s.ttl).Err(); err != nil {
		s.log.Warn("cache set failed", map[string]any{"err": err})
	}
}
