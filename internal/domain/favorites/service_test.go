package favorites

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pet-adoption/internal/domain/shelter"
	"pet-adoption/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	mu      sync.Mutex
	rows    map[string]Favorite
	upserts int
	getErr  error
}

func newTestRepo() *testRepo {
	return &testRepo{rows: map[string]Favorite{}}
}

func key(userID, animalID string) string { return userID + "/" + animalID }

func (r *testRepo) Get(ctx context.Context, userID, animalID string) (Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return Favorite{}, r.getErr
	}
	f, ok := r.rows[key(userID, animalID)]
	if !ok {
		return Favorite{}, ErrNotFound
	}
	return f, nil
}

func (r *testRepo) Upsert(ctx context.Context, f Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	r.rows[key(f.UserID, f.AnimalID)] = f
	return nil
}

func (r *testRepo) Delete(ctx context.Context, userID, animalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[key(userID, animalID)]; !ok {
		return ErrNotFound
	}
	delete(r.rows, key(userID, animalID))
	return nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Favorite, 0)
	for _, f := range r.rows {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

type testCatalog struct {
	items []shelter.Animal
	err   error
}

func (c testCatalog) All(ctx context.Context) ([]shelter.Animal, error) {
	return c.items, c.err
}

var user = auth.Claims{UserID: "u-1", Email: "u1@example.com"}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo)
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
	return svc, repo
}

// -------------------------
// Tests
// -------------------------

func TestService_Toggle_CreatesThenDeletes(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	on, err := svc.Toggle(ctx, user, "A1")
	require.NoError(t, err)
	assert.True(t, on)

	f := repo.rows[key("u-1", "A1")]
	assert.Equal(t, "u1@example.com", f.Email)
	assert.True(t, f.IsFavorite)

	on, err = svc.Toggle(ctx, user, "A1")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, repo.rows)
}

func TestService_Toggle_InvalidInput(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Toggle(context.Background(), auth.Claims{}, "A1")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Toggle(context.Background(), user, "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Toggle_RepoErrorIsReturned(t *testing.T) {
	svc, repo := newTestService()
	repo.getErr = errors.New("db down")

	_, err := svc.Toggle(context.Background(), user, "A1")
	assert.EqualError(t, err, "db down")
}

func TestService_Toggle_ConcurrentCallsNeverDuplicate(t *testing.T) {
	svc, repo := newTestService()
	fixed := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Toggle(context.Background(), user, "A1")
		}()
	}
	wg.Wait()

	// Sea cual sea el estado final, nunca hay más de una fila por (usuario, animal).
	rows, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(rows), 1)
}

func TestService_Set_IsIdempotent(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, user, "A1", true))
	require.NoError(t, svc.Set(ctx, user, "A1", true))
	assert.Equal(t, 1, repo.upserts)

	require.NoError(t, svc.Set(ctx, user, "A1", false))
	require.NoError(t, svc.Set(ctx, user, "A1", false))

	on, err := svc.IsFavorite(ctx, "u-1", "A1")
	require.NoError(t, err)
	assert.False(t, on)
}

func TestService_ListByUser_NewestFirst(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, id := range []string{"A1", "A2", "A3"} {
		_, err := svc.Toggle(ctx, user, id)
		require.NoError(t, err)
	}
	_, err := svc.Toggle(ctx, auth.Claims{UserID: "u-2"}, "A9")
	require.NoError(t, err)

	items, err := svc.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "A3", items[0].AnimalID)
	assert.Equal(t, "A1", items[2].AnimalID)

	ids, err := svc.IDsByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"A1": true, "A2": true, "A3": true}, ids)
}

func TestService_Animals_JoinsWithCatalog(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, id := range []string{"A1", "gone", "A3"} {
		_, err := svc.Toggle(ctx, user, id)
		require.NoError(t, err)
	}

	cat := testCatalog{items: []shelter.Animal{{ID: "A1"}, {ID: "A2"}, {ID: "A3"}}}
	out, err := svc.Animals(ctx, cat, "u-1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "A3", out[0].ID)
	assert.Equal(t, "A1", out[1].ID)
	for _, a := range out {
		assert.True(t, a.IsFavorite)
	}

	_, err = svc.Animals(ctx, testCatalog{err: shelter.ErrUpstream}, "u-1")
	assert.ErrorIs(t, err, shelter.ErrUpstream)
}
