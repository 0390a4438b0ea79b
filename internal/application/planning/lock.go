package planning

import (
	"context"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/shared"
)

// ErrCalculationInProgress is returned when a calculation is requested for a
// plan that another request is already calculating.
var ErrCalculationInProgress = shared.NewDomainError("CALCULATION_IN_PROGRESS", "A calculation for this plan is already running")

// PlanLocker serializes calculation runs per plan. Acquire either takes the
// plan's lock and returns a release function, or fails immediately with
// ErrCalculationInProgress; it never blocks waiting for the holder.
type PlanLocker interface {
	Acquire(ctx context.Context, planID uuid.UUID) (release func(), err error)
}
