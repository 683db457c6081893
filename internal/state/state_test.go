package state

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProgressRecorder(t *testing.T) {
	ctx := context.Background()
	recorder := NewMemoryProgressRecorder()

	items, err := recorder.GetDurable(ctx, "run-1")
	require.NoError(t, err)
	assert.Zero(t, items)

	require.NoError(t, recorder.SetDurable(ctx, "run-1", 50))
	require.NoError(t, recorder.SetDurable(ctx, "run-1", 100))

	items, err = recorder.GetDurable(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 100, items)

	last, err := recorder.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-1", last)
}

// Runs against a live server only when TEST_REDIS_ADDR is set
func TestRedisProgressRecorder(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	require.NoError(t, rdb.Ping(ctx).Err())

	recorder := NewRedisProgressRecorder(rdb)
	runID := uuid.NewString()
	defer rdb.Del(ctx, "acquire:progress:"+runID)

	items, err := recorder.GetDurable(ctx, runID)
	require.NoError(t, err)
	assert.Zero(t, items)

	require.NoError(t, recorder.SetDurable(ctx, runID, 150))

	items, err = recorder.GetDurable(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, 150, items)

	last, err := recorder.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, runID, last)
}
