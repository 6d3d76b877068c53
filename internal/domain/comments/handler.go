package comments

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
	r.Get("/posts/{postID}/comments", listCommentsHandler(svc))
	r.Post("/posts/{postID}/comments", createCommentHandler(svc, v))

	r.Get("/comments/{commentID}", getCommentHandler(svc))
	r.Patch("/comments/{commentID}", updateCommentHandler(svc, v))
	r.Delete("/comments/{commentID}", deleteCommentHandler(svc))
}

type commentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

type commentResponse struct {
	ID             string    `json:"id"`
	PostID         string    `json:"post_id"`
	Content        string    `json:"content"`
	AuthorID       string    `json:"author_id"`
	AuthorNickname string    `json:"author_nickname"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type commentsPageResponse struct {
	Items      []commentResponse `json:"items"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalItems int               `json:"total_items"`
	TotalPages int               `json:"total_pages"`
	PrevPage   int               `json:"prev_page,omitempty"`
	NextPage   int               `json:"next_page,omitempty"`
}

// listCommentsHandler godoc
// @Summary  Comentarios de un post (más viejos primero)
// @Tags     comments
// @Produce  json
// @Param    postID  path   string  true   "post id"
// @Param    page    query  int     false  "página (1-based)"
// @Success  200  {object}  commentsPageResponse
// @Failure  404  {string}  string
// @Router   /posts/{postID}/comments [get]
func listCommentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := listing.ParsePage(r.URL.Query().Get("page"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListByPost(r.Context(), chi.URLParam(r, "postID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		p, err := listing.Paginate(items, page, listing.PageSizeComments)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]commentResponse, 0, len(p.Items))
		for _, c := range p.Items {
			out = append(out, toCommentResponse(c))
		}
		writeJSON(w, http.StatusOK, commentsPageResponse{
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

// createCommentHandler godoc
// @Summary   Comenta un post
// @Tags      comments
// @Accept    json
// @Produce   json
// @Param     postID  path  string          true  "post id"
// @Param     body    body  commentRequest  true  "contenido"
// @Success   201  {object}  commentResponse
// @Security  BearerAuth
// @Router    /posts/{postID}/comments [post]
func createCommentHandler(svc *Service, v *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req commentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Validate(req); err != nil {
			writeValidationError(w, err)
			return
		}

		c, err := svc.Create(r.Context(), claims, chi.URLParam(r, "postID"), req.Content)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toCommentResponse(c))
	}
}

func getCommentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "commentID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCommentResponse(c))
	}
}

func updateCommentHandler(svc *Service, v *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req commentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Validate(req); err != nil {
			writeValidationError(w, err)
			return
		}

		c, err := svc.Update(r.Context(), chi.URLParam(r, "commentID"), claims.UserID, req.Content)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCommentResponse(c))
	}
}

func deleteCommentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "commentID"), claims.UserID); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toCommentResponse(c Comment) commentResponse {
	return commentResponse{
		ID:             c.ID,
		PostID:         c.PostID,
		Content:        c.Content,
		AuthorID:       c.AuthorID,
		AuthorNickname: c.AuthorNickname,
		AvatarURL:      c.AvatarURL,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyContent), errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrPostNotFound):
		http.Error(w, "post not found", http.StatusNotFound)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "comment not found", http.StatusNotFound)
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
