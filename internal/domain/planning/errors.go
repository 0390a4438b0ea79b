package planning

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/shared"
)

// Planning-specific domain errors
var (
	ErrPlanNotFound     = shared.NewDomainError("PLAN_NOT_FOUND", "Requirement plan not found")
	ErrNoEligibleOrders = shared.NewDomainError("NO_ELIGIBLE_ORDERS", "Plan has no confirmed or in-production orders to calculate from")
	ErrPlanClosed       = shared.NewDomainError("INVALID_STATE", "Plan is completed or cancelled and cannot be recalculated")
)

// MaxExplosionDepth caps BOM recursion as a fallback against degenerate
// graphs that slip past cycle detection
const MaxExplosionDepth = 64

// CyclicBOMError reports a cycle in the BOM graph. The chain lists the
// product IDs along the offending path, ending with the product that was
// already on it.
type CyclicBOMError struct {
	Chain []uuid.UUID
}

// Error implements the error interface
func (e *CyclicBOMError) Error() string {
	ids := make([]string, len(e.Chain))
	for i, id := range e.Chain {
		ids[i] = id.String()
	}
	return "cyclic BOM detected: " + strings.Join(ids, " -> ")
}

// DomainError converts the cycle into a typed domain error for the API boundary
func (e *CyclicBOMError) DomainError() *shared.DomainError {
	return shared.NewDomainError("CYCLIC_BOM", e.Error())
}

// ExplosionDepthError reports that the recursion depth cap was exceeded
type ExplosionDepthError struct {
	ProductID uuid.UUID
	Depth     int
}

// Error implements the error interface
func (e *ExplosionDepthError) Error() string {
	return "BOM explosion exceeded maximum depth at product " + e.ProductID.String()
}

// DomainError converts the depth overflow into a typed domain error
func (e *ExplosionDepthError) DomainError() *shared.DomainError {
	return shared.NewDomainError("EXPLOSION_TOO_DEEP", e.Error())
}
