package posts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-adoption/internal/domain/listing"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/validation"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, v *validation.Validator) {
	r.Get("/posts", listPostsHandler(svc))
	r.Post("/posts", createPostHandler(svc, v))
	r.Get("/posts/{postID}", getPostHandler(svc))
	r.Patch("/posts/{postID}", updatePostHandler(svc, v))
	r.Delete("/posts/{postID}", deletePostHandler(svc))

	r.Get("/me/posts", listMyPostsHandler(svc))
}

type createPostRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

type updatePostRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Title   *string `json:"title" validate:"omitempty,max=200"`
	Content *string `json:"content"`
}

type postResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	AuthorID       string    `json:"author_id"`
	AuthorNickname string    `json:"author_nickname"`
	AuthorEmail    string    `json:"author_email,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type summaryResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Excerpt        string    `json:"excerpt"`
	Thumbnail      string    `json:"thumbnail,omitempty"`
	AuthorNickname string    `json:"author_nickname"`
	CreatedAt      time.Time `json:"created_at"`
}

type postsPageResponse struct {
	Items      []summaryResponse `json:"items"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalItems int               `json:"total_items"`
	TotalPages int               `json:"total_pages"`
	PrevPage   int               `json:"prev_page,omitempty"`
	NextPage   int               `json:"next_page,omitempty"`
}

// listPostsHandler godoc
// @Summary  Lista posts de la comunidad (más nuevos primero)
// @Tags     posts
// @Produce  json
// @Param    page  query  int  false  "página (1-based)"
// @Success  200  {object}  postsPageResponse
// @Router   /posts [get]
func listPostsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := listing.ParsePage(r.URL.Query().Get("page"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writePage(w, items, page, listing.PageSizeCommunity)
	}
}

func listMyPostsHandler(svc *Service) http.HandlerFunc {
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

		items, err := svc.ListByAuthor(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writePage(w, items, page, listing.PageSizeMyPage)
	}
}

// createPostHandler godoc
// @Summary   Crea un post
// @Tags      posts
// @Accept    json
// @Produce   json
// @Param     body  body  createPostRequest  true  "título y contenido HTML"
// @Success   201  {object}  postResponse
// @Failure   400  {string}  string
// @Failure   401  {string}  string
// @Security  BearerAuth
// @Router    /posts [post]
func createPostHandler(svc *Service, v *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Validate(req); err != nil {
			writeValidationError(w, err)
			return
		}

		p, err := svc.Create(r.Context(), claims, CreateInput{Title: req.Title, Content: req.Content})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPostResponse(p))
	}
}

func getPostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "postID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPostResponse(p))
	}
}

func updatePostHandler(svc *Service, v *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Validate(req); err != nil {
			writeValidationError(w, err)
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "postID"), claims.UserID, UpdateInput{
			Title:   req.Title,
			Content: req.Content,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPostResponse(p))
	}
}

func deletePostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "postID"), claims.UserID); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writePage(w http.ResponseWriter, items []Post, page, pageSize int) {
	p, err := listing.Paginate(items, page, pageSize)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := make([]summaryResponse, 0, len(p.Items))
	for _, post := range p.Items {
		s := Summarize(post)
		out = append(out, summaryResponse{
			ID:             s.ID,
			Title:          s.Title,
			Excerpt:        s.Excerpt,
			Thumbnail:      s.Thumbnail,
			AuthorNickname: s.AuthorNickname,
			CreatedAt:      s.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, postsPageResponse{
		Items:      out,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
		PrevPage:   p.PrevPage(),
		NextPage:   p.NextPage(),
	})
}

func toPostResponse(p Post) postResponse {
	return postResponse{
		ID:             p.ID,
		Title:          p.Title,
		Content:        p.Content,
		AuthorID:       p.AuthorID,
		AuthorNickname: p.AuthorNickname,
		AuthorEmail:    p.AuthorEmail,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyTitle), errors.Is(err, ErrEmptyContent), errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "post not found", http.StatusNotFound)
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
