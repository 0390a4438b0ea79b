package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) InterestedIn() []string {
	return h.types
}

func newEvent(eventType string) shared.DomainEvent {
	event := shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New())
	return &event
}

func TestInMemoryEventBus_PublishToSubscriber(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"planning.plan.calculated"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newEvent("planning.plan.calculated"))

	require.NoError(t, err)
	require.Len(t, handler.received, 1)
	assert.Equal(t, "planning.plan.calculated", handler.received[0].EventType())
}

func TestInMemoryEventBus_IgnoresOtherEventTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"planning.plan.calculated"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newEvent("catalog.product.created"))

	require.NoError(t, err)
	assert.Empty(t, handler.received)
}

func TestInMemoryEventBus_MultipleHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	first := &recordingHandler{types: []string{"orders.order.confirmed"}}
	second := &recordingHandler{types: []string{"orders.order.confirmed"}}
	bus.Subscribe(first)
	bus.Subscribe(second)

	err := bus.Publish(context.Background(), newEvent("orders.order.confirmed"))

	require.NoError(t, err)
	assert.Len(t, first.received, 1)
	assert.Len(t, second.received, 1)
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"orders.order.confirmed"}, err: errors.New("boom")}
	healthy := &recordingHandler{types: []string{"orders.order.confirmed"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newEvent("orders.order.confirmed"))

	require.NoError(t, err)
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_RecoversFromHandlerPanic(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{types: []string{"planning.plan.created"}, panics: true}
	healthy := &recordingHandler{types: []string{"planning.plan.created"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newEvent("planning.plan.created"))
	})
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_PublishMultipleEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"a", "b"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newEvent("a"), newEvent("b"), newEvent("c"))

	require.NoError(t, err)
	assert.Len(t, handler.received, 2)
}
