package baas

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption/internal/domain/comments"
	"pet-adoption/internal/domain/favorites"
	"pet-adoption/internal/domain/posts"
	"pet-adoption/internal/domain/profiles"
	"pet-adoption/internal/ports/auth"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	c, err := NewClient(Config{URL: ts.URL + "/", AnonKey: "anon", ServiceKey: "service", Timeout: time.Second})
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresURLAndKey(t *testing.T) {
	_, err := NewClient(Config{URL: "http://x"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	c, err := NewClient(Config{URL: "http://x/", AnonKey: "anon"})
	require.NoError(t, err)
	assert.Equal(t, "anon", c.cfg.ServiceKey)
	assert.Equal(t, "image", c.cfg.Bucket)
	assert.Equal(t, "http://x", c.cfg.URL)
}

// -------------------------
// auth
// -------------------------

func TestAuthProvider_Verify(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		if r.Header.Get("Authorization") != "Bearer good" {
			http.Error(w, `{"msg":"invalid JWT"}`, http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"u-1","email":"mia@example.com","user_metadata":{"nickname":"mia"}}`))
	})
	p := NewAuthProvider(c)

	claims, err := p.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{UserID: "u-1", Email: "mia@example.com", Nickname: "mia"}, claims)

	_, err = p.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	_, err = p.Verify(context.Background(), " ")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestAuthProvider_Verify_OAuthMetadata(t *testing.T) {
	body := `{"id":"u-2","email":"g@example.com","user_metadata":{` +
		`"avatar_url":"https://x/a.png","email_verified":true,"phone_verified":false,"name":"Mia","iss":"https://accounts.google.com"}}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})

	claims, err := NewAuthProvider(c).Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{UserID: "u-2", Email: "g@example.com", Nickname: "Mia"}, claims)
}

func TestAuthUser_NicknameFallback(t *testing.T) {
	cases := []struct {
		meta map[string]any
		want string
	}{
		{map[string]any{"nickname": "a", "name": "b", "user_name": "c"}, "a"},
		{map[string]any{"nickname": "", "name": "b", "user_name": "c"}, "b"},
		{map[string]any{"name": true, "user_name": "c"}, "c"},
		{map[string]any{"email_verified": true}, ""},
		{nil, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, authUser{UserMetadata: tc.meta}.nickname(), "%v", tc.meta)
	}
}

func TestAuthProvider_SignUp(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		var in struct {
			Email string            `json:"email"`
			Data  map[string]string `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if in.Email == "taken@example.com" {
			http.Error(w, `{"msg":"User already registered"}`, http.StatusUnprocessableEntity)
			return
		}
		assert.Equal(t, "mia", in.Data["nickname"])
		_, _ = w.Write([]byte(`{"access_token":"t","user":{"id":"u-1","email":"` + in.Email + `","user_metadata":{"nickname":"mia"}}}`))
	})
	p := NewAuthProvider(c)

	claims, err := p.SignUp(context.Background(), "mia@example.com", "secret1", "mia")
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "mia", claims.Nickname)

	_, err = p.SignUp(context.Background(), "taken@example.com", "secret1", "mia")
	assert.ErrorIs(t, err, auth.ErrAlreadyRegistered)
}

func TestAuthProvider_SignInAndSignOut(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
			var in map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			if in["password"] != "secret1" {
				http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"access_token":"a","refresh_token":"r","expires_in":3600,"user":{"id":"u-1","email":"mia@example.com"}}`))
		case "/auth/v1/logout":
			assert.Equal(t, "Bearer a", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})
	p := NewAuthProvider(c)

	s, err := p.SignIn(context.Background(), "mia@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "a", s.AccessToken)
	assert.Equal(t, "r", s.RefreshToken)
	assert.Equal(t, time.Hour, s.ExpiresIn)
	assert.Equal(t, "u-1", s.User.UserID)

	_, err = p.SignIn(context.Background(), "mia@example.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	require.NoError(t, p.SignOut(context.Background(), "a"))
}

func TestAuthProvider_OAuthURL(t *testing.T) {
	c, err := NewClient(Config{URL: "https://baas.example", AnonKey: "anon"})
	require.NoError(t, err)

	u, err := NewAuthProvider(c).OAuthURL("kakao", "http://localhost:3000/")
	require.NoError(t, err)
	assert.Equal(t, "https://baas.example/auth/v1/authorize?provider=kakao&redirect_to=http%3A%2F%2Flocalhost%3A3000%2F", u)
}

// -------------------------
// tables
// -------------------------

func TestFavoritesRepo_GetUpsertDelete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/favorites", r.URL.Path)
		assert.Equal(t, "service", r.Header.Get("apikey"))
		q := r.URL.Query()

		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "eq.u-1", q.Get("userId"))
			if q.Get("animalId") == "eq.missing" {
				_, _ = w.Write([]byte(`[]`))
				return
			}
			_, _ = w.Write([]byte(`[{"userId":"u-1","animalId":"A1","isFavorite":true,"email":"mia@example.com","created_at":"2024-05-01T10:00:00Z"}]`))
		case http.MethodPost:
			assert.Equal(t, "userId,animalId", q.Get("on_conflict"))
			assert.Contains(t, r.Header.Get("Prefer"), "merge-duplicates")
			var row favoriteRow
			require.NoError(t, json.NewDecoder(r.Body).Decode(&row))
			assert.Equal(t, "A1", row.AnimalID)
			w.WriteHeader(http.StatusCreated)
		case http.MethodDelete:
			if q.Get("animalId") == "eq.missing" {
				_, _ = w.Write([]byte(`[]`))
				return
			}
			_, _ = w.Write([]byte(`[{"userId":"u-1","animalId":"A1"}]`))
		}
	})
	repo := NewFavoritesRepo(c)
	ctx := context.Background()

	f, err := repo.Get(ctx, "u-1", "A1")
	require.NoError(t, err)
	assert.True(t, f.IsFavorite)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), f.CreatedAt.UTC())

	_, err = repo.Get(ctx, "u-1", "missing")
	assert.ErrorIs(t, err, favorites.ErrNotFound)

	require.NoError(t, repo.Upsert(ctx, favorites.Favorite{UserID: "u-1", AnimalID: "A1", IsFavorite: true}))

	require.NoError(t, repo.Delete(ctx, "u-1", "A1"))
	assert.ErrorIs(t, repo.Delete(ctx, "u-1", "missing"), favorites.ErrNotFound)
}

func TestPostsRepo_ListMapsColumns(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "date.desc", q.Get("order"))
		if q.Get("id") == "eq.nope" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"p-1","title":"Hola","content":"<p>x</p>","userId":"u-1","email":"mia@example.com","userNickname":"mia","date":"2024-05-01T10:00:00Z","updated_at":"2024-05-01T10:00:00Z"}]`))
	})
	repo := NewPostsRepo(c)

	items, err := repo.ListByAuthor(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "u-1", items[0].AuthorID)
	assert.Equal(t, "mia", items[0].AuthorNickname)

	_, err = repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, posts.ErrNotFound)
}

func TestPostsRepo_UpdateEmptyRepresentationIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		_, _ = w.Write([]byte(`[]`))
	})

	err := NewPostsRepo(c).Update(context.Background(), posts.Post{ID: "p-1", Title: "t"})
	assert.ErrorIs(t, err, posts.ErrNotFound)
}

func TestCommentsRepo_ListByPostAndDeleteByPost(t *testing.T) {
	var deleted bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/comments", r.URL.Path)
		assert.Equal(t, "eq.p-1", r.URL.Query().Get("postId"))
		if r.Method == http.MethodDelete {
			deleted = true
			w.WriteHeader(http.StatusNoContent)
			return
		}
		assert.Equal(t, "date.asc", r.URL.Query().Get("order"))
		_, _ = w.Write([]byte(`[{"id":"c-1","postId":"p-1","content":"lindo","userId":"u-2","userNickname":"leo","avatar_url":"http://a/x.png","date":"2024-05-01T10:00:00Z"}]`))
	})
	repo := NewCommentsRepo(c)

	items, err := repo.ListByPost(context.Background(), "p-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, comments.Comment{
		ID:             "c-1",
		PostID:         "p-1",
		Content:        "lindo",
		AuthorID:       "u-2",
		AuthorNickname: "leo",
		AvatarURL:      "http://a/x.png",
		CreatedAt:      items[0].CreatedAt,
	}, items[0])

	require.NoError(t, repo.DeleteByPost(context.Background(), "p-1"))
	assert.True(t, deleted)
}

func TestProfilesRepo_ServerErrorIsUpstream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := NewProfilesRepo(c).Get(context.Background(), "u-1")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestProfilesRepo_GetMissing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := NewProfilesRepo(c).Get(context.Background(), "u-1")
	assert.ErrorIs(t, err, profiles.ErrNotFound)
}

// -------------------------
// storage
// -------------------------

func TestStorage_PutRemoveAndPublicURL(t *testing.T) {
	var gotBody []byte
	var removed []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/storage/v1/object/image/profiles/mia@example.com/a b.png", r.URL.Path)
			assert.Equal(t, "true", r.Header.Get("x-upsert"))
			assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
			gotBody, _ = io.ReadAll(r.Body)
			_, _ = w.Write([]byte(`{"Key":"image/profiles/mia@example.com/a b.png"}`))
		case http.MethodDelete:
			assert.Equal(t, "/storage/v1/object/image", r.URL.Path)
			var in struct {
				Prefixes []string `json:"prefixes"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			removed = in.Prefixes
			_, _ = w.Write([]byte(`[]`))
		}
	})
	s := NewStorage(c)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "profiles/mia@example.com/a b.png", []byte{1, 2}, "image/png"))
	assert.Equal(t, []byte{1, 2}, gotBody)

	require.NoError(t, s.Remove(ctx, "profiles/mia@example.com/a b.png"))
	assert.Equal(t, []string{"profiles/mia@example.com/a b.png"}, removed)

	assert.Equal(t, c.cfg.URL+"/storage/v1/object/public/image/profiles/mia@example.com/a%20b.png", s.PublicURL("profiles/mia@example.com/a b.png"))
}
