package planning

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RootDemand is one order line fed into a calculation run: the product
// demanded, how much of it, and when the source order needs it. RequiredDate
// is nil when the source order carries no required date.
type RootDemand struct {
	ProductID    uuid.UUID
	Quantity     decimal.Decimal
	RequiredDate *time.Time
}

// DemandCollector turns root demand from source orders into flat per-product
// demand. Assembly demand is exploded through active BOMs; demand for any
// other product kind is merged directly, even when the product happens to
// own a BOM.
type DemandCollector struct {
	catalog  CatalogReader
	exploder *Exploder
	logger   *zap.Logger
}

// NewDemandCollector creates a new DemandCollector
func NewDemandCollector(catalog CatalogReader, exploder *Exploder, logger *zap.Logger) *DemandCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DemandCollector{catalog: catalog, exploder: exploder, logger: logger}
}

// Collect merges every root demand into the accumulator. Roots whose
// required date is nil fall back to fallbackDate before explosion, so every
// exploded leaf inherits a usable requirement date when the plan has a
// planning window.
func (c *DemandCollector) Collect(ctx context.Context, roots []RootDemand, fallbackDate *time.Time, acc *DemandAccumulator) error {
	for _, root := range roots {
		if root.Quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}

		product, err := c.catalog.GetProduct(ctx, root.ProductID)
		if err != nil {
			return err
		}

		date := root.RequiredDate
		if date == nil {
			date = fallbackDate
		}

		if product.IsAssembly() {
			if err := c.exploder.Explode(ctx, product.ID, root.Quantity, date, acc); err != nil {
				return err
			}
			continue
		}

		acc.Merge(product.ID, root.Quantity, date)
	}

	c.logger.Debug("collected root demand",
		zap.Int("roots", len(roots)),
		zap.Int("distinct_products", acc.Len()),
	)
	return nil
}
