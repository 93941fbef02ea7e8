//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgdriver "github.com/aqasim81/database-migration-engine/internal/driver/postgres"
)

func TestAdvisoryLock_acquireAndRelease(t *testing.T) {
	t.Parallel()

	pool := SetupPostgres(t)
	ctx := context.Background()

	lock := pgdriver.NewAdvisoryLock(pool, 0)

	handle, err := lock.TryLock(ctx)
	require.NoError(t, err)
	require.NotNil(t, handle)

	require.NoError(t, handle.Unlock(ctx))
}

func TestAdvisoryLock_doubleAcquire_returnsLockNotAcquired(t *testing.T) {
	t.Parallel()

	pool := SetupPostgres(t)
	ctx := context.Background()

	lock := pgdriver.NewAdvisoryLock(pool, 0)

	handle1, err := lock.TryLock(ctx)
	require.NoError(t, err)
	require.NotNil(t, handle1)

	t.Cleanup(func() {
		_ = handle1.Unlock(context.Background())
	})

	handle2, err := lock.TryLock(ctx)
	assert.Nil(t, handle2)
	require.ErrorIs(t, err, pgdriver.ErrLockNotAcquired)
}

func TestAdvisoryLock_releaseAllowsReacquire(t *testing.T) {
	t.Parallel()

	pool := SetupPostgres(t)
	ctx := context.Background()

	lock := pgdriver.NewAdvisoryLock(pool, 0)

	handle1, err := lock.TryLock(ctx)
	require.NoError(t, err)
	require.NoError(t, handle1.Unlock(ctx))

	handle2, err := lock.TryLock(ctx)
	require.NoError(t, err)
	require.NotNil(t, handle2)
	require.NoError(t, handle2.Unlock(ctx))
}

func TestAdvisoryLock_Unlock_idempotent(t *testing.T) {
	t.Parallel()

	pool := SetupPostgres(t)
	ctx := context.Background()

	lock := pgdriver.NewAdvisoryLock(pool, 0)

	handle, err := lock.TryLock(ctx)
	require.NoError(t, err)

	require.NoError(t, handle.Unlock(ctx))
	require.NoError(t, handle.Unlock(ctx))
}

func TestAdvisoryLock_distinctIDs_doNotContend(t *testing.T) {
	t.Parallel()

	pool := SetupPostgres(t)
	ctx := context.Background()

	lockA := pgdriver.NewAdvisoryLock(pool, 111)
	lockB := pgdriver.NewAdvisoryLock(pool, 222)

	handleA, err := lockA.TryLock(ctx)
	require.NoError(t, err)

	t.Cleanup(func() { _ = handleA.Unlock(context.Background()) })

	handleB, err := lockB.TryLock(ctx)
	require.NoError(t, err)
	require.NoError(t, handleB.Unlock(ctx))
}
