package favorites

import "time"

// Favorite marca un animal como favorito de un usuario.
// Único por (UserID, AnimalID). Email va denormalizado como en la tabla remota.
type Favorite struct {
	UserID     string
	AnimalID   string
	IsFavorite bool
	Email      string
	CreatedAt  time.Time
}
