package event

import (
	"context"

	"github.com/mrp/backend/internal/domain/catalog"
	"github.com/mrp/backend/internal/domain/orders"
	"github.com/mrp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditHandler writes an audit log entry for lifecycle events. It is the
// default subscriber wired at startup so every state change leaves a trace
// even before any integration consumers exist.
type AuditHandler struct {
	logger *zap.Logger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(logger *zap.Logger) *AuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditHandler{logger: logger}
}

// InterestedIn returns the event types the audit log records
func (h *AuditHandler) InterestedIn() []string {
	return []string{
		catalog.EventTypeProductCreated,
		catalog.EventTypeProductStockChanged,
		catalog.EventTypeBOMCreated,
		catalog.EventTypeBOMActivated,
		catalog.EventTypeBOMDeactivated,
		orders.EventTypeOrderCreated,
		orders.EventTypeOrderConfirmed,
		orders.EventTypeOrderCompleted,
		orders.EventTypeOrderCancelled,
		"planning.plan.created",
		"planning.plan.calculated",
		"planning.plan.completed",
		"identity.user.created",
		"identity.user.locked",
	}
}

// Handle logs the event with its aggregate identity
func (h *AuditHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("audit",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}
