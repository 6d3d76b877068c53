package rediscache

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-adoption/internal/domain/shelter"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	b, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(b), nil)
}

func (f *fakeKV) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = value.([]byte)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

type countingSource struct {
	items []shelter.Animal
	err   error
	calls int
}

func (s *countingSource) FetchAnimals(ctx context.Context) ([]shelter.Animal, error) {
	s.calls++
	return s.items, s.err
}

func TestSource_CachesAfterFirstFetch(t *testing.T) {
	kv := newFakeKV()
	next := &countingSource{items: []shelter.Animal{{ID: "A1", Species: "[개] 믹스견"}}}
	src := New(next, kv, time.Minute, nil)

	for i := 0; i < 3; i++ {
		items, err := src.FetchAnimals(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "[개]", items[0].Category())
	}
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, time.Minute, kv.ttls[animalsKey])
}

func TestSource_RedisDownFallsThrough(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("connection refused")
	kv.setErr = errors.New("connection refused")
	next := &countingSource{items: []shelter.Animal{{ID: "A1"}}}
	src := New(next, kv, 0, nil)

	items, err := src.FetchAnimals(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = src.FetchAnimals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestSource_ErrorsAreNotCached(t *testing.T) {
	kv := newFakeKV()
	next := &countingSource{err: shelter.ErrUpstream}
	src := New(next, kv, time.Minute, nil)

	_, err := src.FetchAnimals(context.Background())
	assert.ErrorIs(t, err, shelter.ErrUpstream)
	assert.Empty(t, kv.data)
}

func TestSource_CorruptEntryIsRefetched(t *testing.T) {
	kv := newFakeKV()
	kv.data[animalsKey] = []byte("{not json")
	next := &countingSource{items: []shelter.Animal{{ID: "A1"}}}

	items, err := New(next, kv, time.Minute, nil).FetchAnimals(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, next.calls)
}
