package baas

import (
	"context"
	"net/http"
	"time"

	"pet-adoption/internal/domain/comments"
	"pet-adoption/internal/domain/favorites"
	"pet-adoption/internal/domain/posts"
	"pet-adoption/internal/domain/profiles"
	"pet-adoption/internal/platform/httpclient"
)

// Las columnas siguen el esquema remoto (camelCase heredado en varias tablas).

const (
	preferUpsert         = "resolution=merge-duplicates,return=minimal"
	preferRepresentation = "return=representation"
)

// -------------------------
// favorites
// -------------------------

type favoriteRow struct {
	UserID     string    `json:"userId"`
	AnimalID   string    `json:"animalId"`
	IsFavorite bool      `json:"isFavorite"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}

type FavoritesRepo struct {
	c *Client
}

func NewFavoritesRepo(c *Client) *FavoritesRepo {
	return &FavoritesRepo{c: c}
}

func (r *FavoritesRepo) Get(ctx context.Context, userID, animalID string) (favorites.Favorite, error) {
	var rows []favoriteRow
	err := r.c.do(ctx, httpclient.Request{
		Method:  http.MethodGet,
		Path:    "/rest/v1/favorites",
		Query:   query("select", "*", "userId", eq(userID), "animalId", eq(animalID)),
		Headers: r.c.serviceHeaders(nil),
	}, &rows)
	if err != nil {
		return favorites.Favorite{}, restError(err)
	}
	if len(rows) == 0 {
		return favorites.Favorite{}, favorites.ErrNotFound
	}
	return rows[0].toDomain(), nil
}

func (r *FavoritesRepo) Upsert(ctx context.Context, f favorites.Favorite) error {
	return restError(r.c.do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/rest/v1/favorites",
		Query:   query("on_conflict", "userId,animalId"),
		Headers: r.c.serviceHeaders(map[string]string{"Prefer": preferUpsert}),
		JSON: favoriteRow{
			UserID:     f.UserID,
			AnimalID:   f.AnimalID,
			IsFavorite: f.IsFavorite,
			Email:      f.Email,
			CreatedAt:  f.CreatedAt,
		},
	}, nil))
}

func (r *FavoritesRepo) Delete(ctx context.Context, userID, animalID string) error {
	var rows []favoriteRow
	err := r.c.do(ctx, httpclient.Request{
		Method:  http.MethodDelete,
		Path:    "/rest/v1/favorites",
		Query:   query("userId", eq(userID), "animalId", eq(animalID)),
		Headers: r.c.serviceHeaders(map[string]string{"Prefer": preferRepresentation}),
	}, &rows)
	if err != nil {
		return restError(err)
	}
	if len(rows) == 0 {
		return favorites.ErrNotFound
	}
	return nil
}

func (r *FavoritesRepo) ListByUser(ctx context.Context, userID string) ([]favorites.Favorite, error) {
	var rows []favoriteRow
	err := r.c.do(ctx, httpclient.Request{
		Method:  http.MethodGet,
		Path:    "/rest/v1/favorites",
		Query:   query("select", "*", "userId", eq(userID), "order", "created_at.desc"),
		Headers: r.c.serviceHeaders(nil),
	}, &rows)
	if err != nil {
		return nil, restError(err)
	}
	out := make([]favorites.Favorite, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (row favoriteRow) toDomain() favorites.Favorite {
	return favorites.Favorite{
		UserID:     row.UserID,
		AnimalID:   row.AnimalID,
		IsFavorite: row.IsFavorite,
		Email:      row.Email,
		CreatedAt:  row.CreatedAt,
	}
}

// -------------------------
// posts
// -------------------------

type postRow struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	UserNickname string    `json:"userNickname"`
	Date         time.Time `json:"date"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type PostsRepo struct {
	c *Client
}

func NewPostsRepo(c *Client) *PostsRepo {
	return &PostsRepo{c: c}
}

func (r *PostsRepo) Create(ctx context.Context, p posts.Post) error {
	return restError(r.c.do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/rest/v1/posts",
		Headers: r.c.serviceHeaders(map[string]string{"Prefer": "return=minimal"}),
		JSON:    toPostRow(p),
	}, nil))
}

func (r *PostsRepo) Update(ctx context.Context, p posts.Post) error {
	var rows []postRow
	err := r.c.do(ctx, httpclient.Request{
		Method:  http.MethodPatch,
		Path:    "/rest/v1/posts",
		Query:   query("id", eq(p.ID)),
		Headers: r.c.serviceHeaders(map[string]string{"Prefer": preferRepresentation}),
		JSON: map[string]any{
			"title":      p.Title,
			"content":    p.Content,
			"updated_at": p.UpdatedAt,
		},
	}, &rows)
	if err != nil {
		return restError(err)
	}
	if len(rows) == 0 {
		return posts.ErrNotFound
	}
	return nil
}

func (r *PostsRepo) Delete(ctx context.Context, id string) error {
	var rows []postRow
	err := r.c.do(ctx, httpclient.Request{
		Method:  http.MethodDelete,
		Path:    "/rest/v1/posts",
		Query:   query("id", eq(id)),
		Headers: r.c.serviceHeaders(map[string]string{"Prefer": preferRepresentation}),
	}, &rows)
	if err != nil {
		return restError(err)
	}
	if len(rows) == 0 {
		return posts.ErrNotFound
	}
	return nil
}

func (r *PostsRepo) GetByID(ctx context.Context, id string) (posts.Post, error) {
	items, err := r.list(ctx, "id", eq(id))
	if err != nil {
		return posts.Post{}, err
	}
	if len(items) == 0 {
		return posts.Post{}, posts.ErrNotFound
	}
	return items[0], nil
}

func (r *PostsRepo) List(ctx context.Context) ([]posts.Post, error) {
	return r.list(ctx)
}

func (r *PostsRepo) ListByAuthor(ctx context.Context, authorID string) ([]posts.Post, error) {
	return r.list(ctx, "userId", eq(authorID))
}

func (r *PostsRepo) list(ctx context.Context, filters ...string) ([]posts.Post, error) {
	q := query(filters...)
	q.Set("select", "*")
	q.Set("order", "date.desc")

	var rows []postRow
	err := r.c.do(ctx, httpclient.Request{
		Method:  http.MethodGet,
		Path:    "/rest/v1/posts",
		Query:   q,
		Headers: r.c.serviceHeaders(nil),
	}, &rows)
	if err != nil {
		return nil, restError(err)
	}

	out := make([]posts.Post, 0, len(rows))
	for _, row := range rows {
		out = append(out, posts.Post{
			ID:             row.ID,
			Title:          row.Title,
			Content:        row.Content,
			AuthorID:       row.UserID,
			AuthorEmail:    row.Email,
			AuthorNickname: row.UserNickname,
			CreatedAt:      row.Date,
			UpdatedAt:      row.UpdatedAt,
		})
	}
	return out, nil
}

func toPostRow(p posts.Post) postRow {
	return postRow{
		ID:           p.ID,
		Title:        p.Title,
		Content:      p.Content,
		UserID:       p.AuthorID,
		Email:        p.AuthorEmail,
		UserNickname: p.AuthorNickname,
		Date:         p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// -------------------------
// comments
// -------------------------

type commentRow struct {
	ID           string    `json:"id"`
	PostID       string    `json:"postId"`
	Content      string    `json:"content"`
	UserID       string    `json:"userId"`
	UserNickname string    `json:"userNickname"`
	AvatarURL    string    `json:"avatar_url"`
	Date         time.Time `json:"date"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CommentsRepo struct {
	c *Client
}

func NewCommentsRepo(c *Client) *CommentsRepo {
	return &CommentsRepo{c: c}
}

func (r *CommentsRepo) Create(ctx context.Context, cm comments.Comment) error {
	return restError(r.c.do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/rest/v1/comments",
		Headers: r.c.serviceHeaders(map[string]string{"Prefer": "return=minimal"}),
		JSON: commentRow{
			ID:           cm.ID,
			PostID:       cm.PostID,
			Content:      cm.Content,
			UserID:       cm.AuthorID,
			UserNickname: cm.AuthorNickname,
			AvatarURL:    cm.AvatarURL,
			Date:         cm.CreatedAt,
			UpdatedAt:    cm.UpdatedAt,
		},
	}, nil))
}

func (r *CommentsRepo) Update(ctx context.Context, cm comments.Comment) error {
	var rows []commentRow
	err := r.c.do(ctx, httpclient.Request{
		Method:  http.MethodPatch,
		Path:    "/rest/v1/comments",
		Query:   query("id", eq(cm.ID)),
		Headers: r.c.serviceHeaders(map[string]string{"Prefer": preferRepresentation}),
		JSON: map[string]any{
			"content":    cm.Content,
			"updated_at": cm.UpdatedAt,
		},
	}, &rows)
	if err != nil {
		return restError(err)
	}
	if len(rows) == 0 {
		return comments.ErrNotFound
	}
	return nil
}

func (r *CommentsRepo) Delete(ctx context.Context, id string) error {
	var rows []commentRow
	err := r.c.do(ctx, httpclient.Request{
		Method:  http.MethodDelete,
		Path:    "/rest/v1/comments",
		Query:   query("id", eq(id)),
		Headers: r.c.serviceHeaders(map[string]string{"Prefer": preferRepresentation}),
	}, &rows)
	if err != nil {
		return restError(err)
	}
	if len(rows) == 0 {
		return comments.ErrNotFound
	}
	return nil
}

func (r *CommentsRepo) GetByID(ctx context.Context, id string) (comments.Comment, error) {
	items, err := r.list(ctx, "id", eq(id))
	if err != nil {
		return comments.Comment{}, err
	}
	if len(items) == 0 {
		return comments.Comment{}, comments.ErrNotFound
	}
	return items[0], nil
}

func (r *CommentsRepo) ListByPost(ctx context.Context, postID string) ([]comments.Comment, error) {
	return r.list(ctx, "postId", eq(postID))
}

func (r *CommentsRepo) DeleteByPost(ctx context.Context, postID string) error {
	return restError(r.c.do(ctx, httpclient.Request{
		Method:  http.MethodDelete,
		Path:    "/rest/v1/comments",
		Query:   query("postId", eq(postID)),
		Headers: r.c.serviceHeaders(map[string]string{"Prefer": "return=minimal"}),
	}, nil))
}

func (r *CommentsRepo) list(ctx context.Context, filters ...string) ([]comments.Comment, error) {
	q := query(filters...)
	q.Set("select", "*")
	q.Set("order", "date.asc")

	var rows []commentRow
	err := r.c.do(ctx, httpclient.Request{
		Method:  http.MethodGet,
		Path:    "/rest/v1/comments",
		Query:   q,
		Headers: r.c.serviceHeaders(nil),
	}, &rows)
	if err != nil {
		return nil, restError(err)
	}

	out := make([]comments.Comment, 0, len(rows))
	for _, row := range rows {
		out = append(out, comments.Comment{
			ID:             row.ID,
			PostID:         row.PostID,
			Content:        row.Content,
			AuthorID:       row.UserID,
			AuthorNickname: row.UserNickname,
			AvatarURL:      row.AvatarURL,
			CreatedAt:      row.Date,
			UpdatedAt:      row.UpdatedAt,
		})
	}
	return out, nil
}

// -------------------------
// profiles
// -------------------------

type profileRow struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	AvatarURL string    `json:"avatar_url"`
	AvatarKey string    `json:"avatar_key"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProfilesRepo struct {
	c *Client
}

func NewProfilesRepo(c *Client) *ProfilesRepo {
	return &ProfilesRepo{c: c}
}

func (r *ProfilesRepo) Get(ctx context.Context, userID string) (profiles.Profile, error) {
	var rows []profileRow
	err := r.c.do(ctx, httpclient.Request{
		Method:  http.MethodGet,
		Path:    "/rest/v1/profiles",
		Query:   query("select", "*", "id", eq(userID)),
		Headers: r.c.serviceHeaders(nil),
	}, &rows)
	if err != nil {
		return profiles.Profile{}, restError(err)
	}
	if len(rows) == 0 {
		return profiles.Profile{}, profiles.ErrNotFound
	}
	row := rows[0]
	return profiles.Profile{
		UserID:    row.ID,
		Email:     row.Email,
		Nickname:  row.Nickname,
		AvatarURL: row.AvatarURL,
		AvatarKey: row.AvatarKey,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (r *ProfilesRepo) Upsert(ctx context.Context, p profiles.Profile) error {
	return restError(r.c.do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/rest/v1/profiles",
		Query:   query("on_conflict", "id"),
		Headers: r.c.serviceHeaders(map[string]string{"Prefer": preferUpsert}),
		JSON: profileRow{
			ID:        p.UserID,
			Email:     p.Email,
			Nickname:  p.Nickname,
			AvatarURL: p.AvatarURL,
			AvatarKey: p.AvatarKey,
			UpdatedAt: p.UpdatedAt,
		},
	}, nil))
}
