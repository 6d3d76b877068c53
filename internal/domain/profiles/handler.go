package profiles

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/validation"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, v *validation.Validator) {
	r.Get("/me", getMeHandler(svc))
	r.Patch("/me/profile", updateProfileHandler(svc, v))
	r.Put("/me/avatar", uploadAvatarHandler(svc))
}

type updateProfileRequest struct {
	Nickname string `json:"nickname" validate:"required,max=30"`
}

type profileResponse struct {
	UserID    string     `json:"user_id"`
	Email     string     `json:"email,omitempty"`
	Nickname  string     `json:"nickname"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// getMeHandler godoc
// @Summary   Perfil del usuario de la sesión
// @Tags      profiles
// @Produce   json
// @Success   200  {object}  profileResponse
// @Failure   401  {string}  string
// @Security  BearerAuth
// @Router    /me [get]
func getMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Current(r.Context(), claims)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func updateProfileHandler(svc *Service, v *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Validate(req); err != nil {
			writeValidationError(w, err)
			return
		}

		p, err := svc.UpdateNickname(r.Context(), claims, req.Nickname)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

// uploadAvatarHandler godoc
// @Summary   Reemplaza el avatar (multipart, campo "file")
// @Tags      profiles
// @Accept    mpfd
// @Produce   json
// @Param     file  formData  file  true  "imagen (máx 5 MiB)"
// @Success   200  {object}  profileResponse
// @Failure   400  {string}  string
// @Failure   413  {string}  string
// @Security  BearerAuth
// @Router    /me/avatar [put]
func uploadAvatarHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// margen para los headers del multipart
		r.Body = http.MaxBytesReader(w, r.Body, MaxAvatarBytes+(1<<20))
		if err := r.ParseMultipartForm(MaxAvatarBytes); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				http.Error(w, ErrTooLarge.Error(), http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, MaxAvatarBytes+1))
		if err != nil {
			http.Error(w, "invalid file", http.StatusBadRequest)
			return
		}

		p, err := svc.UploadAvatar(r.Context(), claims, header.Filename, data)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func toProfileResponse(p Profile) profileResponse {
	out := profileResponse{
		UserID:    p.UserID,
		Email:     p.Email,
		Nickname:  p.Nickname,
		AvatarURL: p.AvatarURL,
	}
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrUnsupportedType):
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
	case errors.Is(err, ErrTooLarge):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "profile not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeValidationError(w http.ResponseWriter, err error) {
	if fields, ok := validation.Fields(err); ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": fields,
		})
		return
	}
	http.Error(w, "invalid input", http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
