package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNoopLockerAlwaysObtains(t *testing.T) {
	ctx := context.Background()
	var l Locker = NoopLocker{}

	first, err := l.Obtain(ctx, "draft-finalize:1", time.Second)
	require.NoError(t, err)
	second, err := l.Obtain(ctx, "draft-finalize:1", time.Second)
	require.NoError(t, err)

	require.NoError(t, first.Release(ctx))
	require.NoError(t, second.Release(ctx))
}

func TestRedisLockerExclusive(t *testing.T) {
	addr := os.Getenv("ERP_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set ERP_TEST_REDIS_ADDR to run redis lock test")
	}

	ctx := context.Background()
	l := NewRedisLocker(addr, "", 0)
	t.Cleanup(func() { _ = l.Close() })
	require.NoError(t, l.Ping(ctx))

	key := "draft-finalize:test-" + time.Now().Format(time.RFC3339Nano)
	held, err := l.Obtain(ctx, key, 5*time.Second)
	require.NoError(t, err)

	_, err = l.Obtain(ctx, key, 5*time.Second)
	require.ErrorIs(t, err, ErrNotObtained)

	require.NoError(t, held.Release(ctx))

	again, err := l.Obtain(ctx, key, 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}
