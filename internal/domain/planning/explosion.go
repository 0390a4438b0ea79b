package planning

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/catalog"
	"github.com/mrp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogReader is the read-only catalog boundary the calculation reads
// products and active BOMs through. All reads within one calculation run
// must come from a single consistent snapshot; the transaction scope at the
// application layer guarantees that.
type CatalogReader interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*catalog.Product, error)
	// GetActiveBOM returns the active BOM owned by the product, or
	// shared.ErrNotFound when it has none.
	GetActiveBOM(ctx context.Context, productID uuid.UUID) (*catalog.BillOfMaterials, error)
}

// Exploder recursively expands assembly demand through active BOMs into
// flat per-product demand on an accumulator
type Exploder struct {
	catalog CatalogReader
	logger  *zap.Logger
}

// NewExploder creates a new Exploder
func NewExploder(catalog CatalogReader, logger *zap.Logger) *Exploder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exploder{catalog: catalog, logger: logger}
}

// Explode expands quantity units of demand for a product at the given
// required date into leaf-level demand on the accumulator.
//
// A product without an active BOM is a demand terminal and is merged
// directly. For a product with an active BOM, every non-optional line
// contributes quantityPerUnit * quantity: recursively when the component
// owns an active BOM of its own, directly otherwise. Optional lines are
// skipped at every depth.
//
// A component that is already on the current recursion path aborts the whole
// run with a CyclicBOMError; re-convergence through independent paths
// (diamonds) is legal and simply accumulates.
func (e *Exploder) Explode(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal, requiredDate *time.Time, acc *DemandAccumulator) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Explosion quantity must be positive")
	}
	return e.explode(ctx, productID, quantity, requiredDate, acc, []uuid.UUID{})
}

func (e *Exploder) explode(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal, requiredDate *time.Time, acc *DemandAccumulator, path []uuid.UUID) error {
	if len(path) >= MaxExplosionDepth {
		return &ExplosionDepthError{ProductID: productID, Depth: len(path)}
	}

	bom, err := e.catalog.GetActiveBOM(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// No active BOM: the product is a demand terminal.
			if len(path) == 0 {
				e.logger.Warn("product has no active BOM, booking its demand as terminal",
					zap.String("product_id", productID.String()),
				)
			}
			acc.Merge(productID, quantity, requiredDate)
			return nil
		}
		return err
	}

	path = append(path, productID)

	for _, line := range bom.Lines {
		if line.IsOptional {
			continue
		}

		if onPath(path, line.ComponentProductID) {
			return &CyclicBOMError{Chain: append(append([]uuid.UUID{}, path...), line.ComponentProductID)}
		}

		childQuantity := line.QuantityPerUnit.Mul(quantity)
		if err := e.explode(ctx, line.ComponentProductID, childQuantity, requiredDate, acc, path); err != nil {
			return err
		}
	}

	return nil
}

func onPath(path []uuid.UUID, productID uuid.UUID) bool {
	for _, id := range path {
		if id == productID {
			return true
		}
	}
	return false
}
