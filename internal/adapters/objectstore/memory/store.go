package memory

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"pet-adoption/internal/ports/objectstore"
)

type object struct {
	data        []byte
	contentType string
}

// Store guarda objetos en memoria. Pensado para dev y tests.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
}

func New(baseURL string) *Store {
	return &Store{
		objects: make(map[string]object),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	s.objects[key] = object{data: cp, contentType: contentType}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)
	return nil
}

func (s *Store) PublicURL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// Get devuelve el objeto guardado (solo para inspección).
func (s *Store) Get(key string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.objects[key]
	if !ok {
		return nil, "", objectstore.ErrNotFound
	}
	return o.data, o.contentType, nil
}

// ServeHTTP sirve los objetos en dev; se monta con http.StripPrefix sobre la base pública.
func (s *Store) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, ct, err := s.Get(strings.TrimLeft(r.URL.Path, "/"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	_, _ = w.Write(data)
}
