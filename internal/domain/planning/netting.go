package planning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/catalog"
	"github.com/mrp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NettingCalculator nets accumulated gross demand against stock and turns it
// into requirement lines with planned order dates.
type NettingCalculator struct {
	catalog CatalogReader
	logger  *zap.Logger
}

// NewNettingCalculator creates a new NettingCalculator
func NewNettingCalculator(catalog CatalogReader, logger *zap.Logger) *NettingCalculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NettingCalculator{catalog: catalog, logger: logger}
}

// BuildLines nets every accumulated demand entry and returns the resulting
// requirement lines ordered by product ID ascending. Entries whose product no
// longer exists are skipped with a warning. Lines that are fully covered by
// stock are suppressed unless considerMinStock is set, in which case covered
// lines are kept so the plan still reports minimum-stock positions.
func (n *NettingCalculator) BuildLines(ctx context.Context, planID uuid.UUID, acc *DemandAccumulator, considerStock, considerMinStock bool) ([]RequirementLine, error) {
	lines := make([]RequirementLine, 0, acc.Len())

	for _, entry := range acc.Entries() {
		product, err := n.catalog.GetProduct(ctx, entry.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				n.logger.Warn("skipping demand for unknown product",
					zap.String("product_id", entry.ProductID.String()),
				)
				continue
			}
			return nil, err
		}

		line := NetDemand(planID, entry, product, considerStock, considerMinStock)
		if line == nil {
			continue
		}
		lines = append(lines, *line)
	}

	return lines, nil
}

// NetDemand nets a single demand entry against the product's stock position.
// It returns nil when the line is suppressed: demand fully covered and
// minimum stock not considered.
func NetDemand(planID uuid.UUID, entry DemandEntry, product *catalog.Product, considerStock, considerMinStock bool) *RequirementLine {
	available := decimal.Zero
	if considerStock {
		available = product.StockOnHand
		if considerMinStock {
			available = available.Sub(product.MinimumStock)
			if available.IsNegative() {
				available = decimal.Zero
			}
		}
	}

	toProcure := entry.RequiredQuantity.Sub(available)
	if toProcure.IsNegative() {
		toProcure = decimal.Zero
	}

	if toProcure.IsZero() && !considerMinStock {
		return nil
	}

	line := &RequirementLine{
		ID:                uuid.New(),
		PlanID:            planID,
		ProductID:         product.ID,
		RequiredQuantity:  entry.RequiredQuantity,
		AvailableQuantity: available,
		QuantityToProcure: toProcure,
		RequirementDate:   copyDate(entry.RequirementDate),
		IsAvailable:       toProcure.IsZero(),
	}

	if entry.RequirementDate != nil && product.LeadTimeDays > 0 {
		planned := entry.RequirementDate.AddDate(0, 0, -product.LeadTimeDays)
		line.PlannedOrderDate = &planned
		line.Notes = fmt.Sprintf("Lead time: %d days", product.LeadTimeDays)
	}

	return line
}

func copyDate(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
