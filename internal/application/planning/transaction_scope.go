package planning

import (
	"context"

	"github.com/mrp/backend/internal/domain/catalog"
	"github.com/mrp/backend/internal/domain/orders"
	"github.com/mrp/backend/internal/domain/planning"
)

// TransactionScope executes a function within a single database transaction.
// A calculation run reads products, BOMs and orders and replaces the plan's
// line set through one scope, so the whole run sees one consistent snapshot
// and commits or rolls back atomically.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories participating in a
// calculation transaction. All of them share the same underlying transaction.
type TransactionalRepositories interface {
	Plans() planning.PlanRepository
	Products() catalog.ProductRepository
	BOMs() catalog.BOMRepository
	Orders() orders.ProductionOrderRepository
}
