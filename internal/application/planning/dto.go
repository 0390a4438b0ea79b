package planning

import (
	"time"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/planning"
	"github.com/shopspring/decimal"
)

// CreatePlanRequest represents a request to create a requirement plan
type CreatePlanRequest struct {
	ReferenceNumber     string      `json:"reference_number" binding:"required,min=1,max=50"`
	ConsiderStock       *bool       `json:"consider_stock"`
	ConsiderMinStock    *bool       `json:"consider_min_stock"`
	PlanningWindowStart *time.Time  `json:"planning_window_start"`
	PlanningWindowEnd   *time.Time  `json:"planning_window_end"`
	Notes               string      `json:"notes" binding:"max=2000"`
	OrderIDs            []uuid.UUID `json:"order_ids"`
}

// UpdatePlanRequest represents a request to update a plan's inputs
type UpdatePlanRequest struct {
	ConsiderStock       *bool      `json:"consider_stock"`
	ConsiderMinStock    *bool      `json:"consider_min_stock"`
	PlanningWindowStart *time.Time `json:"planning_window_start"`
	PlanningWindowEnd   *time.Time `json:"planning_window_end"`
	Notes               *string    `json:"notes" binding:"omitempty,max=2000"`
}

// LinkOrdersRequest adds source orders to a plan
type LinkOrdersRequest struct {
	OrderIDs []uuid.UUID `json:"order_ids" binding:"required,min=1"`
}

// PlanListFilter holds list query parameters
type PlanListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Status   string `form:"status"`
}

// RequirementLineResponse represents one computed requirement line
type RequirementLineResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	RequiredQuantity  decimal.Decimal `json:"required_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	QuantityToProcure decimal.Decimal `json:"quantity_to_procure"`
	RequirementDate   *time.Time      `json:"requirement_date"`
	PlannedOrderDate  *time.Time      `json:"planned_order_date"`
	IsAvailable       bool            `json:"is_available"`
	Notes             string          `json:"notes"`
}

// PlanResponse represents a plan with its lines in API responses
type PlanResponse struct {
	ID                  uuid.UUID                 `json:"id"`
	ReferenceNumber     string                    `json:"reference_number"`
	Status              string                    `json:"status"`
	ConsiderStock       bool                      `json:"consider_stock"`
	ConsiderMinStock    bool                      `json:"consider_min_stock"`
	PlanningWindowStart time.Time                 `json:"planning_window_start"`
	PlanningWindowEnd   *time.Time                `json:"planning_window_end"`
	CalculationDate     *time.Time                `json:"calculation_date"`
	Notes               string                    `json:"notes"`
	OrderIDs            []uuid.UUID               `json:"order_ids"`
	Lines               []RequirementLineResponse `json:"lines"`
	CreatedAt           time.Time                 `json:"created_at"`
	UpdatedAt           time.Time                 `json:"updated_at"`
	Version             int                       `json:"version"`
}

// PlanListResponse represents a list item for plans
type PlanListResponse struct {
	ID               uuid.UUID  `json:"id"`
	ReferenceNumber  string     `json:"reference_number"`
	Status           string     `json:"status"`
	CalculationDate  *time.Time `json:"calculation_date"`
	LineCount        int        `json:"line_count"`
	LinkedOrderCount int        `json:"linked_order_count"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ToRequirementLineResponse converts a domain line to a response
func ToRequirementLineResponse(line planning.RequirementLine) RequirementLineResponse {
	return RequirementLineResponse{
		ID:                line.ID,
		ProductID:         line.ProductID,
		RequiredQuantity:  line.RequiredQuantity,
		AvailableQuantity: line.AvailableQuantity,
		QuantityToProcure: line.QuantityToProcure,
		RequirementDate:   line.RequirementDate,
		PlannedOrderDate:  line.PlannedOrderDate,
		IsAvailable:       line.IsAvailable,
		Notes:             line.Notes,
	}
}

// ToPlanResponse converts a domain plan to a response
func ToPlanResponse(plan *planning.RequirementPlan) PlanResponse {
	lines := make([]RequirementLineResponse, len(plan.Lines))
	for i, line := range plan.Lines {
		lines[i] = ToRequirementLineResponse(line)
	}

	return PlanResponse{
		ID:                  plan.ID,
		ReferenceNumber:     plan.ReferenceNumber,
		Status:              plan.Status.String(),
		ConsiderStock:       plan.ConsiderStock,
		ConsiderMinStock:    plan.ConsiderMinStock,
		PlanningWindowStart: plan.PlanningWindowStart,
		PlanningWindowEnd:   plan.PlanningWindowEnd,
		CalculationDate:     plan.CalculationDate,
		Notes:               plan.Notes,
		OrderIDs:            plan.LinkedOrderIDs(),
		Lines:               lines,
		CreatedAt:           plan.CreatedAt,
		UpdatedAt:           plan.UpdatedAt,
		Version:             plan.GetVersion(),
	}
}

// ToPlanListResponses converts domain plans to list responses
func ToPlanListResponses(plans []planning.RequirementPlan) []PlanListResponse {
	responses := make([]PlanListResponse, len(plans))
	for i, plan := range plans {
		responses[i] = PlanListResponse{
			ID:               plan.ID,
			ReferenceNumber:  plan.ReferenceNumber,
			Status:           plan.Status.String(),
			CalculationDate:  plan.CalculationDate,
			LineCount:        plan.LineCount(),
			LinkedOrderCount: len(plan.SourceOrderIDs),
			CreatedAt:        plan.CreatedAt,
		}
	}
	return responses
}
