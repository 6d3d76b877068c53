package accounts

import (
	"encoding/json"
	"errors"
	"net/http"

	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/validation"
	"pet-adoption/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", signUpHandler(svc))
		ar.Post("/login", loginHandler(svc))
		ar.Post("/logout", logoutHandler(svc))
		ar.Get("/oauth/{provider}", oauthHandler(svc))
	})
}

type userResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname,omitempty"`
}

type sessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	User         userResponse `json:"user"`
}

// signUpHandler godoc
// @Summary  Alta de cuenta con email y contraseña
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body  body  SignUpInput  true  "datos de registro"
// @Success  201  {object}  userResponse
// @Failure  400  {object}  map[string]any
// @Failure  409  {string}  string
// @Router   /auth/signup [post]
func signUpHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in SignUpInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.SignUp(r.Context(), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toUserResponse(c))
	}
}

// loginHandler godoc
// @Summary  Inicio de sesión con email y contraseña
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body  body  LoginInput  true  "credenciales"
// @Success  200  {object}  sessionResponse
// @Failure  401  {string}  string
// @Router   /auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in LoginInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		s, err := svc.Login(r.Context(), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{
			AccessToken:  s.AccessToken,
			RefreshToken: s.RefreshToken,
			TokenType:    "bearer",
			ExpiresIn:    int64(s.ExpiresIn.Seconds()),
			User:         toUserResponse(s.User),
		})
	}
}

func logoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context(), middleware.GetToken(r.Context())); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// oauthHandler godoc
// @Summary  Redirige al login social
// @Tags     auth
// @Param    provider     path   string  true   "kakao | google"
// @Param    redirect_to  query  string  false  "URL de vuelta"
// @Success  302
// @Failure  400  {string}  string
// @Router   /auth/oauth/{provider} [get]
func oauthHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.OAuthURL(chi.URLParam(r, "provider"), r.URL.Query().Get("redirect_to"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		http.Redirect(w, r, u, http.StatusFound)
	}
}

func toUserResponse(c auth.Claims) userResponse {
	return userResponse{UserID: c.UserID, Email: c.Email, Nickname: c.Nickname}
}

func writeServiceError(w http.ResponseWriter, err error) {
	if fields, ok := validation.Fields(err); ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": fields,
		})
		return
	}

	switch {
	case errors.Is(err, ErrUnsupportedProvider):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, auth.ErrAlreadyRegistered):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrOAuthUnavailable):
		http.Error(w, err.Error(), http.StatusNotImplemented)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
