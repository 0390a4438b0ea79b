package planning

import (
	"context"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/shared"
)

// PlanRepository defines the persistence contract for requirement plans
type PlanRepository interface {
	// FindByID loads a plan with its source order links and lines
	FindByID(ctx context.Context, id uuid.UUID) (*RequirementPlan, error)
	FindByReferenceNumber(ctx context.Context, referenceNumber string) (*RequirementPlan, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]RequirementPlan, error)
	Save(ctx context.Context, plan *RequirementPlan) error
	// SaveCalculated persists the outcome of a calculation run: the plan
	// header and the full replacement of its requirement lines. Old lines
	// are deleted and new ones inserted in the same transaction so readers
	// never observe a partial line set.
	SaveCalculated(ctx context.Context, plan *RequirementPlan) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByReferenceNumber(ctx context.Context, referenceNumber string) (bool, error)
}
