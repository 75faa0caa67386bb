package notification

import (
	"context"
)

// Publisher accepts events for delivery. Delivery is the relay's concern.
type Publisher interface {
	Publish(ctx context.Context, name EventName, payload map[string]interface{}) error
}

// Service defines the notification relay
type Service interface {
	Publisher

	// SSE subscription
	Subscribe(ctx context.Context, clientID string) (<-chan Event, func())

	// Lifecycle
	Stop()
}
