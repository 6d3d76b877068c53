package auth

import "time"

// Claims representa la información extraída del token.
type Claims struct {
	UserID   string
	Email    string
	Nickname string
}

// Session es lo que devuelve el proveedor de auth al iniciar sesión.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	User         Claims
}

// OAuth providers soportados.
const (
	ProviderKakao  = "kakao"
	ProviderGoogle = "google"
)

func IsSupportedOAuthProvider(p string) bool {
	switch p {
	case ProviderKakao, ProviderGoogle:
		return true
	default:
		return false
	}
}
