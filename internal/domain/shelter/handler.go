package shelter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pet-adoption/internal/domain/listing"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/validation"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, favs FavoriteLookup, v *validation.Validator) {
	r.Get("/animals", listAnimalsHandler(svc, favs, v))
	r.Get("/animals/deadline", deadlineHandler(svc, favs))
	r.Get("/animals/categories", categoriesHandler(svc))
	r.Get("/animals/{animalID}", getAnimalHandler(svc, favs))
}

type AnimalResponse struct {
	ID             string `json:"id"`
	NoticeID       string `json:"notice_id,omitempty"`
	IntakeDate     string `json:"intake_date"`
	NoticeBegin    string `json:"notice_begin,omitempty"`
	NoticeEnd      string `json:"notice_end,omitempty"`
	State          string `json:"state,omitempty"`
	Species        string `json:"species"`
	Category       string `json:"category"`
	Sex            string `json:"sex,omitempty"`
	Age            string `json:"age,omitempty"`
	Weight         string `json:"weight,omitempty"`
	Color          string `json:"color,omitempty"`
	Neutered       string `json:"neutered,omitempty"`
	Features       string `json:"features,omitempty"`
	DiscoveryPlace string `json:"discovery_place,omitempty"`
	ShelterName    string `json:"shelter_name"`
	ShelterTel     string `json:"shelter_tel,omitempty"`
	ShelterAddr    string `json:"shelter_addr,omitempty"`
	ProtectPlace   string `json:"protect_place,omitempty"`
	City           string `json:"city"`
	Lat            string `json:"lat,omitempty"`
	Lng            string `json:"lng,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	ThumbURL       string `json:"thumb_url,omitempty"`
	IsFavorite     bool   `json:"is_favorite"`
	DirectionsURL  string `json:"directions_url,omitempty"`
}

type animalPageResponse struct {
	Items      []AnimalResponse `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalItems int              `json:"total_items"`
	TotalPages int              `json:"total_pages"`
	PrevPage   int              `json:"prev_page,omitempty"`
	NextPage   int              `json:"next_page,omitempty"`
	FilterKey  string           `json:"filter_key"`
}

// listAnimalsHandler godoc
// @Summary      Lista animales en custodia
// @Description  Filtra (AND) y pagina el lote traído de la API pública. Si filter_key no coincide con el filtro actual se vuelve a la página 1.
// @Tags         animals
// @Produce      json
// @Param        page        query  int     false  "página (1-based)"
// @Param        begin       query  string  false  "fecha de ingreso desde (YYYY-MM-DD)"
// @Param        end         query  string  false  "fecha de ingreso hasta (YYYY-MM-DD)"
// @Param        location    query  string  false  "ciudad/condado (substring)"
// @Param        breed       query  string  false  "categoría de especie, p.ej. [개]"
// @Param        filter_key  query  string  false  "key devuelta por la respuesta anterior"
// @Success      200  {object}  animalPageResponse
// @Failure      400  {string}  string
// @Failure      502  {string}  string
// @Router       /animals [get]
func listAnimalsHandler(svc *Service, favs FavoriteLookup, v *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		page, err := listing.ParsePage(q.Get("page"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		f := listing.Filter{
			BeginDate: q.Get("begin"),
			EndDate:   q.Get("end"),
			Location:  q.Get("location"),
			Breed:     q.Get("breed"),
		}
		if v != nil {
			if err := v.Validate(f); err != nil {
				writeValidationError(w, err)
				return
			}
		}

		ids, ok := favoriteIDs(w, r, favs)
		if !ok {
			return
		}

		cur := listing.Resume(f, page, strings.TrimSpace(q.Get("filter_key")))
		p, err := svc.List(r.Context(), cur, listing.PageSizeHome, ids)
		if err != nil {
			writeSourceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPageResponse(p, f.Key()))
	}
}

// deadlineHandler godoc
// @Summary  Animales cuyo aviso vence en los próximos días
// @Tags     animals
// @Produce  json
// @Param    page  query  int  false  "página (1-based)"
// @Success  200  {object}  animalPageResponse
// @Router   /animals/deadline [get]
func deadlineHandler(svc *Service, favs FavoriteLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := listing.ParsePage(r.URL.Query().Get("page"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ids, ok := favoriteIDs(w, r, favs)
		if !ok {
			return
		}

		items, err := svc.NearingDeadline(r.Context())
		if err != nil {
			writeSourceError(w, err)
			return
		}

		p, err := listing.Paginate(Annotate(items, ids), page, listing.PageSizeDeadline)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toPageResponse(p, ""))
	}
}

func categoriesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := svc.Categories(r.Context())
		if err != nil {
			writeSourceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cats)
	}
}

// getAnimalHandler godoc
// @Summary  Detalle de un animal (incluye link de cómo llegar)
// @Tags     animals
// @Produce  json
// @Param    animalID  path  string  true  "ABDM_IDNTFY_NO"
// @Success  200  {object}  AnimalResponse
// @Failure  404  {string}  string
// @Router   /animals/{animalID} [get]
func getAnimalHandler(svc *Service, favs FavoriteLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "animal not found", http.StatusNotFound)
			default:
				writeSourceError(w, err)
			}
			return
		}

		ids, ok := favoriteIDs(w, r, favs)
		if !ok {
			return
		}

		out := ToResponse(Annotated{Animal: a, IsFavorite: ids[a.ID]})
		out.DirectionsURL = DirectionsURL(a)
		writeJSON(w, http.StatusOK, out)
	}
}

// favoriteIDs devuelve los favoritos del usuario si hay sesión; sin sesión, nil.
func favoriteIDs(w http.ResponseWriter, r *http.Request, favs FavoriteLookup) (map[string]bool, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || favs == nil {
		return nil, true
	}
	ids, err := favs.IDsByUser(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	return ids, true
}

// ToResponse se exporta para que otros módulos (favoritos) rendericen igual.
func ToResponse(a Annotated) AnimalResponse {
	return AnimalResponse{
		ID:             a.ID,
		NoticeID:       a.NoticeID,
		IntakeDate:     a.IntakeDate,
		NoticeBegin:    a.NoticeBegin,
		NoticeEnd:      a.NoticeEnd,
		State:          a.State,
		Species:        a.Species,
		Category:       a.Category(),
		Sex:            a.Sex,
		Age:            a.Age,
		Weight:         a.Weight,
		Color:          a.Color,
		Neutered:       a.Neutered,
		Features:       a.Features,
		DiscoveryPlace: a.DiscoveryPlace,
		ShelterName:    a.ShelterName,
		ShelterTel:     a.ShelterTel,
		ShelterAddr:    a.ShelterAddr,
		ProtectPlace:   a.ProtectPlace,
		City:           a.City,
		Lat:            a.Lat,
		Lng:            a.Lng,
		ImageURL:       a.ImageURL,
		ThumbURL:       a.ThumbURL,
		IsFavorite:     a.IsFavorite,
	}
}

func toPageResponse(p listing.Page[Annotated], filterKey string) animalPageResponse {
	items := make([]AnimalResponse, 0, len(p.Items))
	for _, a := range p.Items {
		items = append(items, ToResponse(a))
	}
	return animalPageResponse{
		Items:      items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
		PrevPage:   p.PrevPage(),
		NextPage:   p.NextPage(),
		FilterKey:  filterKey,
	}
}

func writeSourceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrUpstream) {
		http.Error(w, "shelter api unavailable", http.StatusBadGateway)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
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
