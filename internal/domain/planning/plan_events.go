package planning

import (
	"github.com/mrp/backend/internal/domain/shared"
)

// PlanCreatedEvent is raised when a requirement plan is created
type PlanCreatedEvent struct {
	shared.BaseDomainEvent
	ReferenceNumber  string `json:"reference_number"`
	ConsiderStock    bool   `json:"consider_stock"`
	ConsiderMinStock bool   `json:"consider_min_stock"`
}

// NewPlanCreatedEvent creates a new PlanCreatedEvent
func NewPlanCreatedEvent(plan *RequirementPlan) *PlanCreatedEvent {
	return &PlanCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("planning.plan.created", "RequirementPlan", plan.ID),
		ReferenceNumber:  plan.ReferenceNumber,
		ConsiderStock:    plan.ConsiderStock,
		ConsiderMinStock: plan.ConsiderMinStock,
	}
}

// PlanCalculatedEvent is raised every time a calculation run finishes,
// including recalculations of an already calculated plan
type PlanCalculatedEvent struct {
	shared.BaseDomainEvent
	ReferenceNumber string `json:"reference_number"`
	LineCount       int    `json:"line_count"`
	ShortfallCount  int    `json:"shortfall_count"`
}

// NewPlanCalculatedEvent creates a new PlanCalculatedEvent
func NewPlanCalculatedEvent(plan *RequirementPlan) *PlanCalculatedEvent {
	return &PlanCalculatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("planning.plan.calculated", "RequirementPlan", plan.ID),
		ReferenceNumber: plan.ReferenceNumber,
		LineCount:       len(plan.Lines),
		ShortfallCount:  len(plan.ShortfallLines()),
	}
}

// PlanCompletedEvent is raised when a plan reaches COMPLETED
type PlanCompletedEvent struct {
	shared.BaseDomainEvent
	ReferenceNumber string `json:"reference_number"`
}

// NewPlanCompletedEvent creates a new PlanCompletedEvent
func NewPlanCompletedEvent(plan *RequirementPlan) *PlanCompletedEvent {
	return &PlanCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("planning.plan.completed", "RequirementPlan", plan.ID),
		ReferenceNumber: plan.ReferenceNumber,
	}
}
