//go:build integration

package monitor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filingcontrol/pkg/platform/sentinel"
	"filingcontrol/pkg/testutil/containers"
)

func TestRedisRunLock_AcquireRelease(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	lock := NewRedisRunLock(rc.Client)

	require.NoError(t, lock.Acquire(ctx))

	// A second instance must be turned away while the lock is held.
	other := NewRedisRunLock(rc.Client)
	assert.ErrorIs(t, other.Acquire(ctx), sentinel.ErrConflict)

	require.NoError(t, lock.Release(ctx))
	assert.NoError(t, other.Acquire(ctx))
}

func TestRedisRunLock_ReleaseWithoutHold(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	lock := NewRedisRunLock(rc.Client)

	assert.NoError(t, lock.Release(context.Background()))
}
