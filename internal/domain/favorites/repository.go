package favorites

import "context"

type Repository interface {
	Get(ctx context.Context, userID, animalID string) (Favorite, error)
	// Upsert crea o reemplaza la fila (UserID, AnimalID).
	Upsert(ctx context.Context, f Favorite) error
	Delete(ctx context.Context, userID, animalID string) error
	ListByUser(ctx context.Context, userID string) ([]Favorite, error)
}
