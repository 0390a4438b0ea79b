package shared

import "context"

// EventHandler processes domain events of the types it subscribed to
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	InterestedIn() []string
}

// EventPublisher publishes domain events to interested handlers
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus combines publishing with handler registration
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler)
}
