package local

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionTTL: vida de un token local.
	SessionTTL = 24 * time.Hour

	sessionPrefix = "session:"
)

var errSessionStore = errors.New("session store error")

// SessionStore guarda token -> userID. Get devuelve "" si no existe o expiró.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// -------------------------
// memoria
// -------------------------

type MemorySessions struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	byID map[string]memorySession
}

type memorySession struct {
	userID  string
	expires time.Time
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{
		ttl:  SessionTTL,
		now:  time.Now,
		byID: map[string]memorySession{},
	}
}

func (s *MemorySessions) Create(_ context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	s.byID[token] = memorySession{userID: userID, expires: s.now().Add(s.ttl)}
	return token, nil
}

func (s *MemorySessions) Get(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[token]
	if !ok {
		return "", nil
	}
	if !s.now().Before(sess.expires) {
		delete(s.byID, token)
		return "", nil
	}
	return sess.userID, nil
}

func (s *MemorySessions) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byID, token)
	return nil
}

// -------------------------
// redis
// -------------------------

// SessionKV es el subconjunto de *redis.Client que usan las sesiones.
type SessionKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type RedisSessions struct {
	kv  SessionKV
	ttl time.Duration
}

func NewRedisSessions(kv SessionKV) *RedisSessions {
	return &RedisSessions{kv: kv, ttl: SessionTTL}
}

func (s *RedisSessions) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.kv.Set(ctx, sessionPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", errSessionStore, err)
	}
	return token, nil
}

func (s *RedisSessions) Get(ctx context.Context, token string) (string, error) {
	val, err := s.kv.Get(ctx, sessionPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", errSessionStore, err)
	}
	return val, nil
}

func (s *RedisSessions) Delete(ctx context.Context, token string) error {
	if err := s.kv.Del(ctx, sessionPrefix+token).Err(); err != nil {
		return fmt.Errorf("%w: %v", errSessionStore, err)
	}
	return nil
}
