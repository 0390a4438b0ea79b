package planning

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PlanStatus represents the lifecycle status of a requirement plan
type PlanStatus string

const (
	PlanStatusDraft      PlanStatus = "DRAFT"
	PlanStatusCalculated PlanStatus = "CALCULATED"
	PlanStatusProcessing PlanStatus = "PROCESSING"
	PlanStatusCompleted  PlanStatus = "COMPLETED"
	PlanStatusCancelled  PlanStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PlanStatus
func (s PlanStatus) IsValid() bool {
	switch s {
	case PlanStatusDraft, PlanStatusCalculated, PlanStatusProcessing,
		PlanStatusCompleted, PlanStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PlanStatus
func (s PlanStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses that permit no further transitions
func (s PlanStatus) IsTerminal() bool {
	return s == PlanStatusCompleted || s == PlanStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status.
// Recalculation is always legal while the plan is not terminal, so every
// non-terminal status may move (back) to CALCULATED.
func (s PlanStatus) CanTransitionTo(target PlanStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch target {
	case PlanStatusCalculated:
		return true
	case PlanStatusProcessing:
		return s == PlanStatusCalculated
	case PlanStatusCompleted:
		return s == PlanStatusProcessing
	case PlanStatusCancelled:
		return true
	}
	return false
}

// RequirementLine is one computed procurement position of a plan. The line
// set is fully owned by the plan: every calculation run replaces it whole.
type RequirementLine struct {
	ID                uuid.UUID
	PlanID            uuid.UUID
	ProductID         uuid.UUID
	RequiredQuantity  decimal.Decimal // Gross demand aggregated over all BOM paths
	AvailableQuantity decimal.Decimal // Stock counted against the demand after netting rules
	QuantityToProcure decimal.Decimal // max(0, required - available)
	RequirementDate   *time.Time
	PlannedOrderDate  *time.Time // RequirementDate minus lead time, when both are known
	IsAvailable       bool       // True when nothing needs to be procured
	Notes             string
	CreatedAt         time.Time
}

// RequirementPlan is the aggregate root for one material requirements
// calculation: which orders feed it, how stock is counted, and the computed
// requirement lines of the latest run.
type RequirementPlan struct {
	shared.BaseAggregateRoot
	ReferenceNumber     string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Status              PlanStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ConsiderStock       bool       `gorm:"not null;default:true"`
	ConsiderMinStock    bool       `gorm:"not null;default:true"`
	PlanningWindowStart time.Time  `gorm:"not null"`
	PlanningWindowEnd   *time.Time
	CalculationDate     *time.Time
	Notes               string            `gorm:"type:text"`
	SourceOrderIDs      []PlanSourceOrder `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
	Lines               []RequirementLine `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
}

// PlanSourceOrder links a plan to one source order it draws demand from
type PlanSourceOrder struct {
	ID      uuid.UUID
	PlanID  uuid.UUID
	OrderID uuid.UUID
}

// TableName returns the table name for GORM
func (RequirementPlan) TableName() string {
	return "requirement_plans"
}

// NewRequirementPlan creates a new plan in draft status with no lines
func NewRequirementPlan(referenceNumber string, considerStock, considerMinStock bool) (*RequirementPlan, error) {
	if referenceNumber == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference number cannot be empty")
	}
	if len(referenceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference number cannot exceed 50 characters")
	}

	plan := &RequirementPlan{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		ReferenceNumber:     referenceNumber,
		Status:              PlanStatusDraft,
		ConsiderStock:       considerStock,
		ConsiderMinStock:    considerMinStock,
		PlanningWindowStart: time.Now(),
		SourceOrderIDs:      make([]PlanSourceOrder, 0),
		Lines:               make([]RequirementLine, 0),
	}

	plan.AddDomainEvent(NewPlanCreatedEvent(plan))

	return plan, nil
}

// SetPlanningWindow sets the planning horizon
func (p *RequirementPlan) SetPlanningWindow(start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return shared.NewDomainError("INVALID_WINDOW", "Planning window end cannot precede its start")
	}

	p.PlanningWindowStart = start
	p.PlanningWindowEnd = end
	p.UpdatedAt = time.Now()

	return nil
}

// LinkOrder links a source order to the plan
func (p *RequirementPlan) LinkOrder(orderID uuid.UUID) error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot link orders to a closed plan")
	}
	if orderID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	for _, link := range p.SourceOrderIDs {
		if link.OrderID == orderID {
			return shared.NewDomainError("ALREADY_LINKED", "Order is already linked to this plan")
		}
	}

	p.SourceOrderIDs = append(p.SourceOrderIDs, PlanSourceOrder{
		ID:      uuid.New(),
		PlanID:  p.ID,
		OrderID: orderID,
	})
	p.UpdatedAt = time.Now()

	return nil
}

// UnlinkOrder removes a source order link
func (p *RequirementPlan) UnlinkOrder(orderID uuid.UUID) error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot unlink orders from a closed plan")
	}

	for idx, link := range p.SourceOrderIDs {
		if link.OrderID == orderID {
			p.SourceOrderIDs = append(p.SourceOrderIDs[:idx], p.SourceOrderIDs[idx+1:]...)
			p.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("NOT_LINKED", "Order is not linked to this plan")
}

// LinkedOrderIDs returns the IDs of all linked source orders
func (p *RequirementPlan) LinkedOrderIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(p.SourceOrderIDs))
	for i, link := range p.SourceOrderIDs {
		ids[i] = link.OrderID
	}
	return ids
}

// MarkCalculated records a finished calculation run: the full replacement
// line set and the calculation timestamp. Legal from every non-terminal
// status, which makes recalculation idempotent at the lifecycle level.
func (p *RequirementPlan) MarkCalculated(lines []RequirementLine, calculatedAt time.Time) error {
	if !p.Status.CanTransitionTo(PlanStatusCalculated) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot calculate a plan in %s status", p.Status))
	}

	p.Lines = lines
	p.Status = PlanStatusCalculated
	p.CalculationDate = &calculatedAt
	p.UpdatedAt = calculatedAt
	p.IncrementVersion()

	p.AddDomainEvent(NewPlanCalculatedEvent(p))

	return nil
}

// StartProcessing transitions the plan to PROCESSING
func (p *RequirementPlan) StartProcessing() error {
	if !p.Status.CanTransitionTo(PlanStatusProcessing) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start processing a plan in %s status", p.Status))
	}

	p.Status = PlanStatusProcessing
	p.UpdatedAt = time.Now()

	return nil
}

// Complete transitions the plan to COMPLETED
func (p *RequirementPlan) Complete() error {
	if !p.Status.CanTransitionTo(PlanStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete a plan in %s status", p.Status))
	}

	p.Status = PlanStatusCompleted
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewPlanCompletedEvent(p))

	return nil
}

// Cancel cancels the plan from any non-terminal status
func (p *RequirementPlan) Cancel() error {
	if !p.Status.CanTransitionTo(PlanStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel a plan in %s status", p.Status))
	}

	p.Status = PlanStatusCancelled
	p.UpdatedAt = time.Now()

	return nil
}

// IsTerminal returns true if the plan is completed or cancelled
func (p *RequirementPlan) IsTerminal() bool {
	return p.Status.IsTerminal()
}

// LineCount returns the number of requirement lines of the latest run
func (p *RequirementPlan) LineCount() int {
	return len(p.Lines)
}

// ShortfallLines returns the lines that still need procurement
func (p *RequirementPlan) ShortfallLines() []RequirementLine {
	lines := make([]RequirementLine, 0, len(p.Lines))
	for _, line := range p.Lines {
		if !line.IsAvailable {
			lines = append(lines, line)
		}
	}
	return lines
}
