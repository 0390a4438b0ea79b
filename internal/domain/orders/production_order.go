package orders

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a production order
type OrderStatus string

const (
	OrderStatusDraft        OrderStatus = "DRAFT"
	OrderStatusSubmitted    OrderStatus = "SUBMITTED"
	OrderStatusConfirmed    OrderStatus = "CONFIRMED"
	OrderStatusInProduction OrderStatus = "IN_PRODUCTION"
	OrderStatusCompleted    OrderStatus = "COMPLETED"
	OrderStatusCancelled    OrderStatus = "CANCELLED"
)

// PlanningEligibleStatuses are the statuses whose orders feed the
// requirements calculation
var PlanningEligibleStatuses = []OrderStatus{OrderStatusConfirmed, OrderStatusInProduction}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusSubmitted, OrderStatusConfirmed,
		OrderStatusInProduction, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusSubmitted || target == OrderStatusCancelled
	case OrderStatusSubmitted:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusInProduction || target == OrderStatusCancelled
	case OrderStatusInProduction:
		return target == OrderStatusCompleted || target == OrderStatusCancelled
	case OrderStatusCompleted, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsPlanningEligible returns true if orders in this status feed the
// requirements calculation
func (s OrderStatus) IsPlanningEligible() bool {
	return s == OrderStatusConfirmed || s == OrderStatusInProduction
}

// OrderType distinguishes production orders from purchase orders
type OrderType string

const (
	OrderTypeProduction OrderType = "production"
	OrderTypePurchase   OrderType = "purchase"
)

// IsValid checks if the type is a known OrderType
func (t OrderType) IsValid() bool {
	return t == OrderTypeProduction || t == OrderTypePurchase
}

// OrderLine represents a single product position in a production order
type OrderLine struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Position  int
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrderLine creates a new order line
func NewOrderLine(orderID, productID uuid.UUID, quantity decimal.Decimal, position int) (*OrderLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	now := time.Now()
	return &OrderLine{
		ID:        uuid.New(),
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: decimal.Zero,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateQuantity updates the line quantity
func (l *OrderLine) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	l.Quantity = quantity
	l.UpdatedAt = time.Now()

	return nil
}

// ProductionOrder represents a customer or production order whose confirmed
// demand drives the requirements calculation
type ProductionOrder struct {
	shared.BaseAggregateRoot
	OrderNumber       string      `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type              OrderType   `gorm:"type:varchar(20);not null;default:'production'"`
	Status            OrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	CustomerName      string      `gorm:"type:varchar(200)"`
	CustomerReference string      `gorm:"type:varchar(100)"`
	OrderDate         time.Time   `gorm:"not null"`
	RequiredDate      *time.Time
	CompletedAt       *time.Time
	CancelledAt       *time.Time
	CancelReason      string      `gorm:"type:text"`
	Notes             string      `gorm:"type:text"`
	Lines             []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductionOrder) TableName() string {
	return "production_orders"
}

// NewProductionOrder creates a new production order in draft status
func NewProductionOrder(orderNumber string, orderType OrderType, customerName string) (*ProductionOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if !orderType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORDER_TYPE", "Unknown order type: "+string(orderType))
	}

	order := &ProductionOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		Type:              orderType,
		Status:            OrderStatusDraft,
		CustomerName:      customerName,
		OrderDate:         time.Now(),
		Lines:             make([]OrderLine, 0),
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AddLine adds a product position to the order.
// Only allowed in DRAFT status.
func (o *ProductionOrder) AddLine(productID uuid.UUID, quantity decimal.Decimal) (*OrderLine, error) {
	if o.Status != OrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft order")
	}
	for _, line := range o.Lines {
		if line.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already present in order, update its quantity instead")
		}
	}

	line, err := NewOrderLine(o.ID, productID, quantity, len(o.Lines)+1)
	if err != nil {
		return nil, err
	}

	o.Lines = append(o.Lines, *line)
	o.UpdatedAt = time.Now()

	return line, nil
}

// UpdateLineQuantity updates the quantity of an existing line.
// Only allowed in DRAFT status.
func (o *ProductionOrder) UpdateLineQuantity(lineID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update lines in a non-draft order")
	}

	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			if err := o.Lines[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// RemoveLine removes a line from the order.
// Only allowed in DRAFT status.
func (o *ProductionOrder) RemoveLine(lineID uuid.UUID) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from a non-draft order")
	}

	for idx, line := range o.Lines {
		if line.ID == lineID {
			o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// SetRequiredDate sets the date the ordered goods are needed by
func (o *ProductionOrder) SetRequiredDate(date *time.Time) error {
	if o.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change required date of a closed order")
	}

	o.RequiredDate = date
	o.UpdatedAt = time.Now()

	return nil
}

// Submit transitions the order from DRAFT to SUBMITTED
func (o *ProductionOrder) Submit() error {
	if !o.Status.CanTransitionTo(OrderStatusSubmitted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit order in %s status", o.Status))
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot submit an order without lines")
	}

	o.Status = OrderStatusSubmitted
	o.UpdatedAt = time.Now()

	return nil
}

// Confirm transitions the order to CONFIRMED, making it eligible for planning
func (o *ProductionOrder) Confirm() error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}

	o.Status = OrderStatusConfirmed
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrderConfirmedEvent(o))

	return nil
}

// StartProduction transitions the order to IN_PRODUCTION
func (o *ProductionOrder) StartProduction() error {
	if !o.Status.CanTransitionTo(OrderStatusInProduction) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start production for order in %s status", o.Status))
	}

	o.Status = OrderStatusInProduction
	o.UpdatedAt = time.Now()

	return nil
}

// Complete transitions the order to COMPLETED
func (o *ProductionOrder) Complete() error {
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCompletedEvent(o))

	return nil
}

// Cancel cancels the order from any non-terminal status
func (o *ProductionOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return nil
}

// IsTerminal returns true if the order is completed or cancelled
func (o *ProductionOrder) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// IsPlanningEligible returns true if the order feeds requirements planning
func (o *ProductionOrder) IsPlanningEligible() bool {
	return o.Status.IsPlanningEligible()
}

// LineCount returns the number of lines in the order
func (o *ProductionOrder) LineCount() int {
	return len(o.Lines)
}

// GetLine returns a line by its ID
func (o *ProductionOrder) GetLine(lineID uuid.UUID) *OrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			return &o.Lines[idx]
		}
	}
	return nil
}
