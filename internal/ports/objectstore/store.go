package objectstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("object not found")

// Store guarda archivos (p.ej. avatares) por key.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Remove(ctx context.Context, key string) error

	// PublicURL es la URL estable con la que el front muestra el objeto.
	PublicURL(key string) string
}
