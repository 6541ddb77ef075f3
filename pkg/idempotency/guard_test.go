package idempotency_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/retail-pos-api/pkg/idempotency"
)

type fakeStore struct {
	keys     map[string]bool
	lastTTL  time.Duration
	setNXErr error
}

func newFakeStore() *fakeStore { return &fakeStore{keys: map[string]bool{}} }

func (f *fakeStore) SetNX(_ context.Context, key string, _ any, ttl time.Duration) (bool, error) {
	if f.setNXErr != nil {
		return false, f.setNXErr
	}
	f.lastTTL = ttl
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.keys, k)
	}
	return nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string { return "pos:idempotency:" + scope + ":" + id }

func TestGuard_AcquireYRelease(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	g, err := idempotency.NewGuard(store, time.Hour)
	require.NoError(t, err)

	ok, err := g.Acquire(ctx, "u-1", "abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Hour, store.lastTTL)

	ok, err = g.Acquire(ctx, "u-1", "abc")
	require.NoError(t, err)
	assert.False(t, ok, "la segunda petición con la misma clave se rechaza")

	// Otra clave de alcance distinto no colisiona
	ok, err = g.Acquire(ctx, "u-2", "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, g.Release(ctx, "u-1", "abc"))
	ok, err = g.Acquire(ctx, "u-1", "abc")
	require.NoError(t, err)
	assert.True(t, ok, "tras liberar se puede reintentar")
}

func TestGuard_Errores(t *testing.T) {
	_, err := idempotency.NewGuard(nil, time.Hour)
	assert.Error(t, err)
	_, err = idempotency.NewGuard(newFakeStore(), 0)
	assert.Error(t, err)

	store := newFakeStore()
	g, err := idempotency.NewGuard(store, time.Minute)
	require.NoError(t, err)

	_, err = g.Acquire(context.Background(), "u-1", "  ")
	assert.Error(t, err)

	store.setNXErr = errors.New("redis caído")
	_, err = g.Acquire(context.Background(), "u-1", "abc")
	assert.Error(t, err)
}
