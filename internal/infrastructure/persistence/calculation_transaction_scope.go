package persistence

import (
	"context"

	appplanning "github.com/mrp/backend/internal/application/planning"
	"github.com/mrp/backend/internal/domain/catalog"
	"github.com/mrp/backend/internal/domain/orders"
	"github.com/mrp/backend/internal/domain/planning"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// A calculation run reads its inputs and replaces the plan's line set through
// one transaction so it sees a single consistent snapshot.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appplanning.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to the repositories
// participating in a calculation transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Plans returns the plan repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Plans() planning.PlanRepository {
	return NewGormPlanRepository(r.tx)
}

// Products returns the product repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// BOMs returns the BOM repository scoped to the current transaction.
func (r *gormTransactionalRepositories) BOMs() catalog.BOMRepository {
	return NewGormBOMRepository(r.tx)
}

// Orders returns the production order repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Orders() orders.ProductionOrderRepository {
	return NewGormProductionOrderRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appplanning.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appplanning.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
