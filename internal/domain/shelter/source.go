package shelter

import (
	"context"
	"errors"
)

// ErrUpstream: el origen de datos no respondió o respondió algo inválido.
var ErrUpstream = errors.New("shelter source unavailable")

// Source trae el lote acotado de registros desde el origen (API pública, cache, fixture).
// No filtra del lado servidor: el filtrado es local.
type Source interface {
	FetchAnimals(ctx context.Context) ([]Animal, error)
}

// FavoriteLookup evita importar el paquete favorites (rompe ciclos).
type FavoriteLookup interface {
	IDsByUser(ctx context.Context, userID string) (map[string]bool, error)
}
