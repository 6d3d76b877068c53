package memory

import (
	"context"
	"testing"

	"pet-adoption/internal/domain/comments"
	"pet-adoption/internal/domain/favorites"
	"pet-adoption/internal/domain/posts"
	"pet-adoption/internal/domain/profiles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoritesRepo(t *testing.T) {
	r := NewFavoritesRepo()
	ctx := context.Background()

	_, err := r.Get(ctx, "u", "a")
	assert.ErrorIs(t, err, favorites.ErrNotFound)

	require.NoError(t, r.Upsert(ctx, favorites.Favorite{UserID: "u", AnimalID: "a", IsFavorite: true}))
	require.NoError(t, r.Upsert(ctx, favorites.Favorite{UserID: "u", AnimalID: "a", IsFavorite: true, Email: "u@x"}))
	require.NoError(t, r.Upsert(ctx, favorites.Favorite{UserID: "v", AnimalID: "a", IsFavorite: true}))

	items, err := r.ListByUser(ctx, "u")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "u@x", items[0].Email)

	require.NoError(t, r.Delete(ctx, "u", "a"))
	assert.ErrorIs(t, r.Delete(ctx, "u", "a"), favorites.ErrNotFound)
	assert.Error(t, r.Upsert(ctx, favorites.Favorite{UserID: "u"}))
}

func TestPostsAndCommentsRepos(t *testing.T) {
	pr := NewPostsRepo()
	cr := NewCommentsRepo()
	ctx := context.Background()

	require.NoError(t, pr.Create(ctx, posts.Post{ID: "p1", AuthorID: "u"}))
	assert.Error(t, pr.Create(ctx, posts.Post{ID: "p1"}))
	assert.ErrorIs(t, pr.Update(ctx, posts.Post{ID: "nope"}), posts.ErrNotFound)

	mine, err := pr.ListByAuthor(ctx, "u")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, cr.Create(ctx, comments.Comment{ID: "c1", PostID: "p1"}))
	require.NoError(t, cr.Create(ctx, comments.Comment{ID: "c2", PostID: "p1"}))
	require.NoError(t, cr.Create(ctx, comments.Comment{ID: "c3", PostID: "p2"}))
	require.NoError(t, cr.DeleteByPost(ctx, "p1"))

	left, err := cr.ListByPost(ctx, "p2")
	require.NoError(t, err)
	assert.Len(t, left, 1)
	_, err = cr.GetByID(ctx, "c1")
	assert.ErrorIs(t, err, comments.ErrNotFound)
}

func TestProfilesRepo(t *testing.T) {
	r := NewProfilesRepo()
	ctx := context.Background()

	_, err := r.Get(ctx, "u")
	assert.ErrorIs(t, err, profiles.ErrNotFound)

	require.NoError(t, r.Upsert(ctx, profiles.Profile{UserID: "u", Nickname: "n"}))
	p, err := r.Get(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, "n", p.Nickname)
}

func TestAnimalSource_ReturnsCopy(t *testing.T) {
	s := NewAnimalSource(SampleAnimals())

	items, err := s.FetchAnimals(context.Background())
	require.NoError(t, err)
	items[0].ID = "changed"

	again, err := s.FetchAnimals(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again[0].ID)
}
