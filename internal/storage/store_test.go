package storage

import (
	"context"
	"errors"
	"testing"

	"cardquant-backend/internal/broadcast"
	"cardquant-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errUnavailable = errors.New("depo kullanılamıyor")

// failingStore: her çağrıda hata döner
type failingStore struct{}

func (failingStore) Load(context.Context, string) ([]byte, bool, error) {
	return nil, false, errUnavailable
}

func (failingStore) Save(context.Context, string, []byte) error {
	return errUnavailable
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	_, ok, err := m.Load(ctx, KeyInventory)
	require.NoError(t, err)
	assert.False(t, ok)

	value := []byte(`[1,2]`)
	require.NoError(t, m.Save(ctx, KeyInventory, value))
	value[0] = 'x'

	got, ok, err := m.Load(ctx, KeyInventory)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1,2]`, string(got), "stored bytes are copied")
}

func TestLoadOrAndSaveValue(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	cats, err := LoadOr(ctx, m, KeyCategories, models.DefaultCategories)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCategories, cats)

	require.NoError(t, SaveValue(ctx, m, KeyCategories, []string{"Boxes"}))
	cats, err = LoadOr(ctx, m, KeyCategories, models.DefaultCategories)
	require.NoError(t, err)
	assert.Equal(t, []string{"Boxes"}, cats)

	require.NoError(t, m.Save(ctx, KeyStreams, []byte("null")))
	streams, err := LoadOr(ctx, m, KeyStreams, []models.Stream{})
	require.NoError(t, err)
	assert.NotNil(t, streams)

	require.NoError(t, m.Save(ctx, KeyUsers, []byte("{broken")))
	_, err = LoadOr(ctx, m, KeyUsers, []models.User{})
	assert.Error(t, err)

	_, err = LoadOr(ctx, failingStore{}, KeyUsers, []models.User{})
	assert.ErrorIs(t, err, errUnavailable)
}

func TestFallbackStore(t *testing.T) {
	ctx := context.Background()

	t.Run("primary failure falls back to secondary", func(t *testing.T) {
		secondary := NewMemoryStore()
		f := NewFallbackStore(failingStore{}, secondary, zap.NewNop())

		require.NoError(t, f.Save(ctx, KeyInventory, []byte(`[]`)))
		got, ok, err := f.Load(ctx, KeyInventory)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[]`, string(got))
	})

	t.Run("successful writes are mirrored", func(t *testing.T) {
		primary, secondary := NewMemoryStore(), NewMemoryStore()
		f := NewFallbackStore(primary, secondary, zap.NewNop())

		require.NoError(t, f.Save(ctx, KeyStreams, []byte(`["s"]`)))
		got, ok, err := secondary.Load(ctx, KeyStreams)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `["s"]`, string(got))
	})

	t.Run("both failing returns the error", func(t *testing.T) {
		f := NewFallbackStore(failingStore{}, failingStore{}, zap.NewNop())
		assert.ErrorIs(t, f.Save(ctx, KeyStreams, nil), errUnavailable)
	})
}

func TestBroadcastingStore(t *testing.T) {
	ctx := context.Background()
	hub := broadcast.NewHub()
	inner := NewMemoryStore()

	tab1 := NewBroadcastingStore(inner, hub, "tab-1")
	tab2 := NewBroadcastingStore(inner, hub, "tab-2")

	var got []string
	unsubscribe := hub.Subscribe(tab2.Origin(), func(key string, value []byte) {
		got = append(got, key+"="+string(value))
	})
	defer unsubscribe()

	require.NoError(t, tab1.Save(ctx, KeyInventory, []byte(`[1]`)))
	require.NoError(t, tab2.Save(ctx, KeyInventory, []byte(`[2]`)))
	assert.Equal(t, []string{"inventory=[1]"}, got, "own writes are not echoed")

	t.Run("failed save is not published", func(t *testing.T) {
		got = nil
		failing := NewBroadcastingStore(failingStore{}, hub, "tab-3")
		assert.Error(t, failing.Save(ctx, KeyInventory, []byte(`[3]`)))
		assert.Empty(t, got)
	})
}
