package registry

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacekto/streamit-auth/internal/model"
)

func newStateTest(t *testing.T) (*State, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewState(client, "auth:state"), mr
}

func TestState_CreateThenConsume(t *testing.T) {
	store, _ := newStateTest(t)
	ctx := context.Background()

	state, err := store.Create(ctx)
	require.NoError(t, err)
	require.Len(t, state, stateLength*2)

	ok, err := store.Consume(ctx, state)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestState_ConsumeIsSingleUse(t *testing.T) {
	store, _ := newStateTest(t)
	ctx := context.Background()

	state, err := store.Create(ctx)
	require.NoError(t, err)

	ok, err := store.Consume(ctx, state)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.Consume(ctx, state)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestState_ConsumeUnknown(t *testing.T) {
	store, _ := newStateTest(t)

	ok, err := store.Consume(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestState_ExpiresByTTL(t *testing.T) {
	store, mr := newStateTest(t)
	ctx := context.Background()

	state, err := store.Create(ctx)
	require.NoError(t, err)

	mr.FastForward(model.FederatedStateTTL)

	ok, err := store.Consume(ctx, state)
	require.NoError(t, err)
	assert.False(t, ok)
}
