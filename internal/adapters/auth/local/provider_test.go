package local

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pet-adoption/internal/ports/auth"
)

func newTestProvider() *Provider {
	return NewProvider(nil).WithCost(bcrypt.MinCost)
}

func TestProvider_SignUpSignInVerifySignOut(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()

	c, err := p.SignUp(ctx, " Mia@Example.com ", "secret1", "mia")
	require.NoError(t, err)
	assert.NotEmpty(t, c.UserID)
	assert.Equal(t, "mia@example.com", c.Email)

	s, err := p.SignIn(ctx, "mia@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, s.AccessToken)
	assert.Equal(t, SessionTTL, s.ExpiresIn)
	assert.Equal(t, c, s.User)

	got, err := p.Verify(ctx, s.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	require.NoError(t, p.SignOut(ctx, s.AccessToken))

	_, err = p.Verify(ctx, s.AccessToken)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
	assert.ErrorIs(t, p.SignOut(ctx, s.AccessToken), auth.ErrUnauthorized)
}

func TestProvider_SignUpDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()

	_, err := p.SignUp(ctx, "mia@example.com", "secret1", "mia")
	require.NoError(t, err)

	_, err = p.SignUp(ctx, "MIA@example.com", "other22", "mia2")
	assert.ErrorIs(t, err, auth.ErrAlreadyRegistered)
}

func TestProvider_SignInWrongPassword(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()

	_, err := p.SignUp(ctx, "mia@example.com", "secret1", "mia")
	require.NoError(t, err)

	_, err = p.SignIn(ctx, "mia@example.com", "nope123")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = p.SignIn(ctx, "ghost@example.com", "secret1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestProvider_OAuthUnavailable(t *testing.T) {
	_, err := newTestProvider().OAuthURL(auth.ProviderKakao, "")
	assert.ErrorIs(t, err, auth.ErrOAuthUnavailable)
}

// -------------------------
// sesiones
// -------------------------

func TestMemorySessions_Expire(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessions()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	token, err := s.Create(ctx, "u-1")
	require.NoError(t, err)

	got, err := s.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", got)

	s.now = func() time.Time { return base.Add(SessionTTL) }
	got, err = s.Get(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, got)
}

type fakeKV struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeKV) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.data[key] = value.(string)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeKV) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisSessions_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	s := NewRedisSessions(kv)

	token, err := s.Create(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", kv.data["session:"+token])
	assert.Equal(t, SessionTTL, kv.ttls["session:"+token])

	got, err := s.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", got)

	require.NoError(t, s.Delete(ctx, token))
	got, err = s.Get(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisSessions_ErrorPropagates(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("connection refused")
	p := NewProvider(NewRedisSessions(kv)).WithCost(bcrypt.MinCost)

	_, err := p.Verify(context.Background(), "whatever")
	assert.ErrorIs(t, err, errSessionStore)
}
