package registry

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacekto/streamit-auth/internal/model"
)

func newRegistryTest(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedis(client, "auth:token", "auth:sessions", time.Hour), mr
}

func TestRedis_RegisterThenExists(t *testing.T) {
	reg, _ := newRegistryTest(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, reg.Register(ctx, userID, "tid-1"))

	ok, err := reg.Exists(ctx, "tid-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = reg.Exists(ctx, "tid-unknown")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_RegisterAddsToIndex(t *testing.T) {
	reg, mr := newRegistryTest(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, reg.Register(ctx, userID, "tid-1"))
	require.NoError(t, reg.Register(ctx, userID, "tid-2"))

	members, err := mr.SMembers("auth:sessions:" + userID.String())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tid-1", "tid-2"}, members)
}

func TestRedis_EntryCarriesRefreshTTL(t *testing.T) {
	reg, mr := newRegistryTest(t)
	ctx := context.Background()

	require.NoError(t, reg.Register(ctx, uuid.New(), "tid-1"))
	assert.Equal(t, time.Hour, mr.TTL("auth:token:tid-1"))
}

func TestRedis_Invalidate(t *testing.T) {
	reg, mr := newRegistryTest(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, reg.Register(ctx, userID, "tid-1"))

	existed, err := reg.Invalidate(ctx, "tid-1", userID)
	require.NoError(t, err)
	assert.True(t, existed)

	ok, err := reg.Exists(ctx, "tid-1")
	require.NoError(t, err)
	assert.False(t, ok)

	members, err := mr.SMembers("auth:sessions:" + userID.String())
	if err == nil {
		assert.Empty(t, members)
	}
}

func TestRedis_InvalidateAbsentEntry(t *testing.T) {
	reg, _ := newRegistryTest(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, reg.Register(ctx, userID, "tid-1"))

	existed, err := reg.Invalidate(ctx, "tid-1", userID)
	require.NoError(t, err)
	assert.True(t, existed)

	// The loser of a double-refresh race lands here: the entry is gone and
	// the second invalidation must report that.
	existed, err = reg.Invalidate(ctx, "tid-1", userID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestRedis_InvalidateLeavesOtherSessions(t *testing.T) {
	reg, _ := newRegistryTest(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, reg.Register(ctx, userID, "tid-1"))
	require.NoError(t, reg.Register(ctx, userID, "tid-2"))

	_, err := reg.Invalidate(ctx, "tid-1", userID)
	require.NoError(t, err)

	ok, err := reg.Exists(ctx, "tid-2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedis_InvalidateAll(t *testing.T) {
	reg, mr := newRegistryTest(t)
	ctx := context.Background()
	userID := uuid.New()
	otherID := uuid.New()

	require.NoError(t, reg.Register(ctx, userID, "tid-1"))
	require.NoError(t, reg.Register(ctx, userID, "tid-2"))
	require.NoError(t, reg.Register(ctx, otherID, "tid-other"))

	require.NoError(t, reg.InvalidateAll(ctx, userID))

	for _, tid := range []string{"tid-1", "tid-2"} {
		ok, err := reg.Exists(ctx, tid)
		require.NoError(t, err)
		assert.False(t, ok, tid)
	}
	assert.False(t, mr.Exists("auth:sessions:"+userID.String()))

	// Other users' sessions stay untouched.
	ok, err := reg.Exists(ctx, "tid-other")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedis_PruneRemovesOnlyExpired(t *testing.T) {
	reg, mr := newRegistryTest(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, reg.Register(ctx, userID, "tid-live"))
	require.NoError(t, reg.Register(ctx, userID, "tid-dead"))

	// Expire one entry behind the index's back, the way a TTL firing does.
	mr.Del("auth:token:tid-dead")

	require.NoError(t, reg.Prune(ctx, userID))

	members, err := mr.SMembers("auth:sessions:" + userID.String())
	require.NoError(t, err)
	assert.Equal(t, []string{"tid-live"}, members)
}

func TestRedis_PruneEmptyIndex(t *testing.T) {
	reg, _ := newRegistryTest(t)
	require.NoError(t, reg.Prune(context.Background(), uuid.New()))
}

func TestRedis_UnavailableRegistry(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	reg := NewRedis(client, "auth:token", "auth:sessions", time.Hour)

	mr.Close()
	ctx := context.Background()
	userID := uuid.New()

	err = reg.Register(ctx, userID, "tid-1")
	require.ErrorIs(t, err, model.ErrRegistryUnavailable)

	_, err = reg.Exists(ctx, "tid-1")
	require.ErrorIs(t, err, model.ErrRegistryUnavailable)

	_, err = reg.Invalidate(ctx, "tid-1", userID)
	require.ErrorIs(t, err, model.ErrRegistryUnavailable)

	require.ErrorIs(t, reg.Ping(ctx), model.ErrRegistryUnavailable)
}
