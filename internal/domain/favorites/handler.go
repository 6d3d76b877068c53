package favorites

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pet-adoption/internal/domain/listing"
	"pet-adoption/internal/domain/shelter"
	"pet-adoption/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, cat Catalog) {
	r.Post("/animals/{animalID}/favorite/toggle", toggleFavoriteHandler(svc))
	r.Put("/animals/{animalID}/favorite", setFavoriteHandler(svc, true))
	r.Delete("/animals/{animalID}/favorite", setFavoriteHandler(svc, false))

	r.Get("/me/favorites", listMyFavoritesHandler(svc, cat))
}

type favoriteStateResponse struct {
	AnimalID   string `json:"animal_id"`
	IsFavorite bool   `json:"is_favorite"`
}

type favoritesPageResponse struct {
	Items      []shelter.AnimalResponse `json:"items"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	TotalItems int                      `json:"total_items"`
	TotalPages int                      `json:"total_pages"`
	PrevPage   int                      `json:"prev_page,omitempty"`
	NextPage   int                      `json:"next_page,omitempty"`
}

// toggleFavoriteHandler godoc
// @Summary   Alterna el favorito de un animal
// @Tags      favorites
// @Produce   json
// @Param     animalID  path  string  true  "ABDM_IDNTFY_NO"
// @Success   200  {object}  favoriteStateResponse
// @Failure   401  {string}  string
// @Security  BearerAuth
// @Router    /animals/{animalID}/favorite/toggle [post]
func toggleFavoriteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		animalID := chi.URLParam(r, "animalID")
		on, err := svc.Toggle(r.Context(), claims, animalID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, favoriteStateResponse{AnimalID: animalID, IsFavorite: on})
	}
}

func setFavoriteHandler(svc *Service, on bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		animalID := chi.URLParam(r, "animalID")
		if err := svc.Set(r.Context(), claims, animalID, on); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, favoriteStateResponse{AnimalID: animalID, IsFavorite: on})
	}
}

// listMyFavoritesHandler godoc
// @Summary   Mis favoritos (cruzados con el lote actual)
// @Tags      favorites
// @Produce   json
// @Param     page  query  int  false  "página (1-based)"
// @Success   200  {object}  favoritesPageResponse
// @Security  BearerAuth
// @Router    /me/favorites [get]
func listMyFavoritesHandler(svc *Service, cat Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		page, err := listing.ParsePage(r.URL.Query().Get("page"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.Animals(r.Context(), cat, claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		p, err := listing.Paginate(items, page, listing.PageSizeMyPage)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]shelter.AnimalResponse, 0, len(p.Items))
		for _, a := range p.Items {
			out = append(out, shelter.ToResponse(a))
		}
		writeJSON(w, http.StatusOK, favoritesPageResponse{
			Items:      out,
			Page:       p.Page,
			PageSize:   p.PageSize,
			TotalItems: p.TotalItems,
			TotalPages: p.TotalPages,
			PrevPage:   p.PrevPage(),
			NextPage:   p.NextPage(),
		})
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, shelter.ErrUpstream):
		http.Error(w, "shelter api unavailable", http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
