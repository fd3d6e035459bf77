package menustore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-planner/internal/core/planner"
	"menu-planner/internal/infrastructure/config"
	"menu-planner/internal/pkg/common"
)

func session(id string) *Session {
	var menu planner.Menu
	menu[0] = &common.RecipeSummary{ID: 1, Title: "Soep", Servings: 4}
	return &Session{ID: id, Menu: menu, CreatedAt: time.Unix(0, 0).UTC()}
}

func TestMemorySaveGet(t *testing.T) {
	m := NewMemory(10, time.Hour, 0)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, session("a")))

	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Soep", got.Menu[0].Title)
	assert.Nil(t, got.Menu[1])

	_, err = m.Get(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrMenuNotFound)

	require.NoError(t, m.Delete(ctx, "a"))
	_, err = m.Get(ctx, "a")
	assert.ErrorIs(t, err, common.ErrMenuNotFound)

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(2), stats["misses"])
}

func TestMemoryExpires(t *testing.T) {
	m := NewMemory(10, time.Minute, 0)
	defer m.Close()
	now := time.Now()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, session("a")))

	now = now.Add(2 * time.Minute)
	_, err := m.Get(ctx, "a")
	assert.ErrorIs(t, err, common.ErrMenuNotFound)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryEvictsLeastUsed(t *testing.T) {
	m := NewMemory(2, time.Hour, 0)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, session("a")))
	require.NoError(t, m.Save(ctx, session("b")))
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Save(ctx, session("c")))
	assert.Equal(t, 2, m.Len())

	_, err = m.Get(ctx, "b")
	assert.ErrorIs(t, err, common.ErrMenuNotFound)
	_, err = m.Get(ctx, "a")
	assert.NoError(t, err)
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	_, err := New(config.MenuStoreConfig{Backend: "etcd"})
	assert.Error(t, err)

	s, err := New(config.MenuStoreConfig{Backend: "memory", MaxSize: 1, TTL: time.Hour})
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	r := NewRedisWithClient(client, time.Minute)
	defer r.Close()
	ctx := context.Background()

	require.NoError(t, r.Ping(ctx))
	require.NoError(t, r.Save(ctx, session("redis-test")))

	got, err := r.Get(ctx, "redis-test")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Menu[0].ID)

	require.NoError(t, r.Delete(ctx, "redis-test"))
	_, err = r.Get(ctx, "redis-test")
	assert.ErrorIs(t, err, common.ErrMenuNotFound)
}
