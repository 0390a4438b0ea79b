package lock

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/application/planning"
)

// InMemoryPlanLocker implements planning.PlanLocker using a process-local map.
// This is suitable for single-instance deployments and testing
type InMemoryPlanLocker struct {
	mu   sync.Mutex
	held map[uuid.UUID]struct{}
}

// NewInMemoryPlanLocker creates a new in-process plan locker
func NewInMemoryPlanLocker() *InMemoryPlanLocker {
	return &InMemoryPlanLocker{
		held: make(map[uuid.UUID]struct{}),
	}
}

// Acquire takes the plan's calculation lock or fails immediately with
// ErrCalculationInProgress
func (l *InMemoryPlanLocker) Acquire(ctx context.Context, planID uuid.UUID) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.held[planID]; taken {
		return nil, planning.ErrCalculationInProgress
	}
	l.held[planID] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.held, planID)
		})
	}

	return release, nil
}

// Size returns the number of held locks (for testing/monitoring)
func (l *InMemoryPlanLocker) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}

// Ensure InMemoryPlanLocker implements planning.PlanLocker
var _ planning.PlanLocker = (*InMemoryPlanLocker)(nil)
