package profiles

import "time"

// Profile es la fila pública del usuario (la cuenta vive en el proveedor de auth).
type Profile struct {
	UserID   string
	Email    string
	Nickname string

	AvatarURL string
	AvatarKey string // key en el object store; se usa para borrar el anterior

	UpdatedAt time.Time
}
