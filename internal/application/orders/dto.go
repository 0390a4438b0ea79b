package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/orders"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest represents a request to create a production order
type CreateOrderRequest struct {
	OrderNumber  string             `json:"order_number" binding:"required,min=1,max=50"`
	OrderType    string             `json:"order_type"`
	CustomerName string             `json:"customer_name" binding:"max=200"`
	RequiredDate *time.Time         `json:"required_date"`
	Notes        string             `json:"notes" binding:"max=2000"`
	Lines        []OrderLineRequest `json:"lines" binding:"dive"`
}

// OrderLineRequest represents one line in an order request
type OrderLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// UpdateOrderRequest represents a request to update a draft order
type UpdateOrderRequest struct {
	CustomerName *string    `json:"customer_name" binding:"omitempty,max=200"`
	RequiredDate *time.Time `json:"required_date"`
	Notes        *string    `json:"notes" binding:"omitempty,max=2000"`
}

// CancelOrderRequest carries the cancellation reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// OrderListFilter holds list query parameters
type OrderListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Status   string `form:"status"`
	Type     string `form:"type"`
}

// OrderLineResponse represents one order line in API responses
type OrderLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Position  int             `json:"position"`
}

// OrderResponse represents a production order in API responses
type OrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	OrderNumber  string              `json:"order_number"`
	OrderType    string              `json:"order_type"`
	Status       string              `json:"status"`
	CustomerName string              `json:"customer_name"`
	RequiredDate *time.Time          `json:"required_date"`
	Notes        string              `json:"notes"`
	Lines        []OrderLineResponse `json:"lines"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Version      int                 `json:"version"`
}

// OrderListResponse represents a list item for orders
type OrderListResponse struct {
	ID           uuid.UUID  `json:"id"`
	OrderNumber  string     `json:"order_number"`
	OrderType    string     `json:"order_type"`
	Status       string     `json:"status"`
	CustomerName string     `json:"customer_name"`
	RequiredDate *time.Time `json:"required_date"`
	LineCount    int        `json:"line_count"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(order *orders.ProductionOrder) OrderResponse {
	lines := make([]OrderLineResponse, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = OrderLineResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Position:  line.Position,
		}
	}

	return OrderResponse{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		OrderType:    string(order.Type),
		Status:       order.Status.String(),
		CustomerName: order.CustomerName,
		RequiredDate: order.RequiredDate,
		Notes:        order.Notes,
		Lines:        lines,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
		Version:      order.GetVersion(),
	}
}

// ToOrderListResponses converts domain orders to list responses
func ToOrderListResponses(list []orders.ProductionOrder) []OrderListResponse {
	responses := make([]OrderListResponse, len(list))
	for i := range list {
		order := &list[i]
		responses[i] = OrderListResponse{
			ID:           order.ID,
			OrderNumber:  order.OrderNumber,
			OrderType:    string(order.Type),
			Status:       order.Status.String(),
			CustomerName: order.CustomerName,
			RequiredDate: order.RequiredDate,
			LineCount:    order.LineCount(),
			CreatedAt:    order.CreatedAt,
		}
	}
	return responses
}
