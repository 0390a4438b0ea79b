package lock

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/application/planning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPlanLocker_Acquire(t *testing.T) {
	locker := NewInMemoryPlanLocker()
	ctx := context.Background()
	planID := uuid.New()

	release, err := locker.Acquire(ctx, planID)
	require.NoError(t, err)
	require.NotNil(t, release)
	assert.Equal(t, 1, locker.Size())

	release()
	assert.Equal(t, 0, locker.Size())
}

func TestInMemoryPlanLocker_SecondAcquireFails(t *testing.T) {
	locker := NewInMemoryPlanLocker()
	ctx := context.Background()
	planID := uuid.New()

	release, err := locker.Acquire(ctx, planID)
	require.NoError(t, err)
	defer release()

	_, err = locker.Acquire(ctx, planID)
	assert.ErrorIs(t, err, planning.ErrCalculationInProgress)
}

func TestInMemoryPlanLocker_DifferentPlansIndependent(t *testing.T) {
	locker := NewInMemoryPlanLocker()
	ctx := context.Background()

	releaseA, err := locker.Acquire(ctx, uuid.New())
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := locker.Acquire(ctx, uuid.New())
	require.NoError(t, err)
	defer releaseB()

	assert.Equal(t, 2, locker.Size())
}

func TestInMemoryPlanLocker_ReleaseIsIdempotent(t *testing.T) {
	locker := NewInMemoryPlanLocker()
	ctx := context.Background()
	planID := uuid.New()

	release, err := locker.Acquire(ctx, planID)
	require.NoError(t, err)

	release()

	// A second holder takes the lock; the stale release must not evict it
	release2, err := locker.Acquire(ctx, planID)
	require.NoError(t, err)
	defer release2()

	release()
	assert.Equal(t, 1, locker.Size())
}

func TestInMemoryPlanLocker_ConcurrentAcquire(t *testing.T) {
	locker := NewInMemoryPlanLocker()
	ctx := context.Background()
	planID := uuid.New()

	const goroutines = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	acquired := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := locker.Acquire(ctx, planID); err == nil {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Exactly one goroutine wins; nobody released
	assert.Equal(t, 1, acquired)
	assert.Equal(t, 1, locker.Size())
}
