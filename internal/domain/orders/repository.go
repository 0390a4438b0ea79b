package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/shared"
)

// ProductionOrderRepository defines the persistence contract for production orders
type ProductionOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionOrder, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*ProductionOrder, error)
	// FindByIDsWithStatuses returns the subset of the given orders whose
	// status is in statuses; orders are loaded with their lines.
	FindByIDsWithStatuses(ctx context.Context, ids []uuid.UUID, statuses []OrderStatus) ([]ProductionOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductionOrder, error)
	Save(ctx context.Context, order *ProductionOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)
}
